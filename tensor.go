// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qtensor

import (
	"fmt"

	"github.com/nlpodyssey/qtensor/dtype"
)

// Element is the closed set of Go types a Tensor can hold.
//
// The encoding of a tensor is derived from its element type, according to
// the following pairs:
//
//	Element | DType
//	--------+--------------
//	float32 | dtype.Float32
//	int8    | dtype.Int8
type Element interface {
	float32 | int8
}

// A Tensor is a dense, row-major, two-dimensional array of elements of
// type T, with its data fully held in memory.
//
// A Tensor exclusively owns its buffer: constructors copy the values they
// are given and accessors never expose the internal slice. Once Release is
// called the buffer is dropped and every further access fails with
// ErrReleased.
//
// A Tensor is not safe for concurrent mutation.
type Tensor[T Element] struct {
	rows     int
	cols     int
	data     []T
	released bool
}

// New returns a zero-filled Tensor with the given number of rows and
// columns. A tensor with zero elements is valid and holds an empty buffer.
//
// It returns an error wrapping ErrInvalidShape if a dimension is negative,
// or ErrAllocation if the storage cannot be obtained.
func New[T Element](rows, cols int) (*Tensor[T], error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative dimension in %dx%d", ErrInvalidShape, rows, cols)
	}
	n, err := checkedMul(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	if _, err = checkedMul(n, dTypeOf[T]().Size()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	data, err := allocate[T](n)
	if err != nil {
		return nil, err
	}
	return &Tensor[T]{
		rows: rows,
		cols: cols,
		data: data,
	}, nil
}

// NewFloat32 returns a zero-filled Float32-encoded Tensor. See New.
func NewFloat32(rows, cols int) (*Tensor[float32], error) {
	return New[float32](rows, cols)
}

// NewInt8 returns a zero-filled Int8-encoded Tensor. See New.
func NewInt8(rows, cols int) (*Tensor[int8], error) {
	return New[int8](rows, cols)
}

// FromSlice returns a Tensor with the given shape, populated with a copy of
// values in row-major order.
//
// The length of values must be exactly rows*cols, otherwise an error
// wrapping ErrInvalidShape is returned.
func FromSlice[T Element](rows, cols int, values []T) (*Tensor[T], error) {
	t, err := New[T](rows, cols)
	if err != nil {
		return nil, err
	}
	if len(values) != len(t.data) {
		return nil, fmt.Errorf("%w: the size computed from shape (%d) does not match data length (%d)",
			ErrInvalidShape, len(t.data), len(values))
	}
	copy(t.data, values)
	return t, nil
}

// allocate obtains a buffer of n elements, turning a refused allocation
// into ErrAllocation.
func allocate[T Element](n int) (data []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w: cannot allocate %d elements of type %s: %v", ErrAllocation, n, dTypeOf[T](), r)
		}
	}()
	return make([]T, n), nil
}

func dTypeOf[T Element]() dtype.DType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return dtype.Float32
	case int8:
		return dtype.Int8
	}
	return 0
}

// DType returns the element encoding of the tensor.
func (t *Tensor[T]) DType() dtype.DType {
	return dTypeOf[T]()
}

// Rows returns the number of rows.
func (t *Tensor[T]) Rows() int {
	return t.rows
}

// Cols returns the number of columns.
func (t *Tensor[T]) Cols() int {
	return t.cols
}

// Shape returns the number of rows and columns.
func (t *Tensor[T]) Shape() (rows, cols int) {
	return t.rows, t.cols
}

// Len returns the number of elements held by the tensor, which is
// rows*cols, or zero once the tensor has been released.
func (t *Tensor[T]) Len() int {
	return len(t.data)
}

// ByteSize returns the memory taken by the element buffer, in bytes.
func (t *Tensor[T]) ByteSize() int {
	return t.Len() * t.DType().Size()
}

// Get returns the element at the given row and column.
func (t *Tensor[T]) Get(row, col int) (T, error) {
	i, err := t.offset(row, col)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.data[i], nil
}

// Set writes v at the given row and column.
func (t *Tensor[T]) Set(row, col int, v T) error {
	i, err := t.offset(row, col)
	if err != nil {
		return err
	}
	t.data[i] = v
	return nil
}

// Row returns a copy of the elements of the given row.
func (t *Tensor[T]) Row(row int) ([]T, error) {
	if t.released {
		return nil, ErrReleased
	}
	if row < 0 || row >= t.rows {
		return nil, fmt.Errorf("%w: row %d outside %dx%d tensor", ErrIndexOutOfBounds, row, t.rows, t.cols)
	}
	start := row * t.cols
	out := make([]T, t.cols)
	copy(out, t.data[start:start+t.cols])
	return out, nil
}

// Data returns a copy of all the elements in row-major order.
// It returns nil once the tensor has been released.
func (t *Tensor[T]) Data() []T {
	if t.released {
		return nil
	}
	out := make([]T, len(t.data))
	copy(out, t.data)
	return out
}

// Release drops the element buffer. Calling it more than once has no
// further effect.
func (t *Tensor[T]) Release() {
	if t.released {
		return
	}
	t.data = nil
	t.released = true
}

// Released reports whether Release has been called.
func (t *Tensor[T]) Released() bool {
	return t.released
}

func (t *Tensor[T]) offset(row, col int) (int, error) {
	if t.released {
		return 0, ErrReleased
	}
	if row < 0 || col < 0 || row >= t.rows || col >= t.cols {
		return 0, fmt.Errorf("%w: (%d, %d) outside %dx%d tensor", ErrIndexOutOfBounds, row, col, t.rows, t.cols)
	}
	return row*t.cols + col, nil
}

func (*Tensor[T]) isTensor() {}
