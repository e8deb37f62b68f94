// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qtensor

import "errors"

var (
	// ErrAllocation is returned when the storage for a tensor cannot be
	// obtained, including when its byte size does not fit in an int.
	ErrAllocation = errors.New("tensor allocation failed")

	// ErrInvalidShape is returned for negative dimensions, or when the
	// number of given values does not match the requested shape.
	ErrInvalidShape = errors.New("invalid tensor shape")

	// ErrIndexOutOfBounds is returned when a (row, col) pair does not
	// address an element of the tensor.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrReleased is returned by any access to a tensor after Release.
	ErrReleased = errors.New("tensor already released")

	// ErrNilTensor is returned when a nil *Tensor is passed where a tensor
	// is required.
	ErrNilTensor = errors.New("nil tensor")
)
