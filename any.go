// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qtensor

import (
	"fmt"

	"github.com/nlpodyssey/qtensor/dtype"
)

// AnyTensor is a Tensor whose element type is only known at run time.
//
// The interface is sealed: its only implementations are *Tensor[float32]
// and *Tensor[int8]. Element access requires recovering the concrete type
// with a type switch, so the encoding and the buffer can never disagree.
type AnyTensor interface {
	DType() dtype.DType
	Rows() int
	Cols() int
	Len() int
	ByteSize() int
	Release()
	Released() bool

	isTensor()
}

// Create returns a zero-filled tensor with the given shape and element
// encoding. The concrete type of the result is *Tensor[float32] for
// dtype.Float32 and *Tensor[int8] for dtype.Int8.
func Create(rows, cols int, dt dtype.DType) (AnyTensor, error) {
	if err := dt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid or unsupported DType: %w", err)
	}
	switch dt {
	case dtype.Float32:
		t, err := New[float32](rows, cols)
		if err != nil {
			return nil, err
		}
		return t, nil
	case dtype.Int8:
		t, err := New[int8](rows, cols)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("invalid or unsupported DType: %w(%d)", dtype.ErrInvalidDType, dt)
}
