// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package qtensor provides a minimal dense 2-D tensor holding either
// float32 or int8 elements.
//
// The element encoding is part of the tensor's type: a Tensor[float32] is
// always dtype.Float32 and a Tensor[int8] is always dtype.Int8. When the
// encoding is only known at run time, Create returns an AnyTensor whose
// concrete type can be recovered with a type switch.
//
// See package quantize for the conversion from float32 to int8.
package qtensor
