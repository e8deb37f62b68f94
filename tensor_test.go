// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qtensor

import (
	"math"
	"testing"

	"github.com/nlpodyssey/qtensor/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shapes = [][2]int{
	{0, 0},
	{0, 3},
	{3, 0},
	{1, 1},
	{2, 3},
	{3, 2},
	{4, 7},
}

func TestNew(t *testing.T) {
	t.Run("float32", func(t *testing.T) {
		for _, s := range shapes {
			x, err := NewFloat32(s[0], s[1])
			require.NoError(t, err)
			assert.Equal(t, dtype.Float32, x.DType())
			assert.Equal(t, s[0], x.Rows())
			assert.Equal(t, s[1], x.Cols())
			assert.Equal(t, s[0]*s[1], x.Len())
			assert.Equal(t, s[0]*s[1]*4, x.ByteSize())
			for _, v := range x.Data() {
				assert.Zero(t, v)
			}
		}
	})

	t.Run("int8", func(t *testing.T) {
		for _, s := range shapes {
			x, err := NewInt8(s[0], s[1])
			require.NoError(t, err)
			assert.Equal(t, dtype.Int8, x.DType())
			rows, cols := x.Shape()
			assert.Equal(t, s[0], rows)
			assert.Equal(t, s[1], cols)
			assert.Equal(t, s[0]*s[1], x.ByteSize())
		}
	})

	t.Run("negative dimensions", func(t *testing.T) {
		for _, s := range [][2]int{{-1, 0}, {0, -1}, {-2, 3}, {3, -2}} {
			x, err := New[float32](s[0], s[1])
			assert.ErrorIs(t, err, ErrInvalidShape)
			assert.Nil(t, x)
		}
	})

	t.Run("element count overflow", func(t *testing.T) {
		x, err := New[int8](math.MaxInt, 2)
		assert.ErrorIs(t, err, ErrAllocation)
		assert.Nil(t, x)
	})

	t.Run("byte size overflow", func(t *testing.T) {
		x, err := New[float32](math.MaxInt/2, 1)
		assert.ErrorIs(t, err, ErrAllocation)
		assert.Nil(t, x)
	})

	t.Run("allocation refused", func(t *testing.T) {
		x, err := New[int8](math.MaxInt, 1)
		assert.ErrorIs(t, err, ErrAllocation)
		assert.Nil(t, x)
	})
}

func TestFromSlice(t *testing.T) {
	values := []float32{1.25, -3.80, 5.10, 4.50, -0.45, 2.00}

	x, err := FromSlice(2, 3, values)
	require.NoError(t, err)
	assert.Equal(t, values, x.Data())

	values[0] = 42
	v, err := x.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(1.25), v, "values must be copied")

	_, err = FromSlice(2, 2, values)
	assert.ErrorIs(t, err, ErrInvalidShape)
	assert.EqualError(t, err, "invalid tensor shape: the size computed from shape (4) does not match data length (6)")

	_, err = FromSlice[int8](-1, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidShape)

	empty, err := FromSlice[int8](0, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestTensor_GetSet(t *testing.T) {
	for _, s := range shapes {
		rows, cols := s[0], s[1]
		x, err := NewInt8(rows, cols)
		require.NoError(t, err)

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				require.NoError(t, x.Set(r, c, int8(r*cols+c)))
			}
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				v, err := x.Get(r, c)
				require.NoError(t, err)
				assert.Equal(t, int8(r*cols+c), v)
			}
		}

		outside := [][2]int{
			{rows, 0},
			{0, cols},
			{rows, cols},
			{-1, 0},
			{0, -1},
			{rows + 1, cols + 1},
		}
		for _, p := range outside {
			_, err := x.Get(p[0], p[1])
			assert.ErrorIs(t, err, ErrIndexOutOfBounds, "Get(%d, %d) on %dx%d", p[0], p[1], rows, cols)
			err = x.Set(p[0], p[1], 1)
			assert.ErrorIs(t, err, ErrIndexOutOfBounds, "Set(%d, %d) on %dx%d", p[0], p[1], rows, cols)
		}
	}
}

func TestTensor_GetRowEqualsRows(t *testing.T) {
	x, err := NewFloat32(2, 3)
	require.NoError(t, err)

	_, err = x.Get(2, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	assert.EqualError(t, err, "index out of bounds: (2, 0) outside 2x3 tensor")
}

func TestTensor_RowMajorLayout(t *testing.T) {
	x, err := FromSlice(2, 3, []float32{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)

	v, err := x.Get(1, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(3), v)

	row, err := x.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4, 5}, row)

	row[0] = 99
	v, err = x.Get(1, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(3), v, "Row must return a copy")

	_, err = x.Row(2)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	_, err = x.Row(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestTensor_DataIsCopy(t *testing.T) {
	x, err := FromSlice(1, 2, []int8{1, 2})
	require.NoError(t, err)

	d := x.Data()
	d[0] = 100
	assert.Equal(t, []int8{1, 2}, x.Data())
}

func TestTensor_Release(t *testing.T) {
	x, err := FromSlice(1, 2, []float32{1, 2})
	require.NoError(t, err)
	assert.False(t, x.Released())

	x.Release()
	assert.True(t, x.Released())
	assert.Equal(t, 0, x.Len())
	assert.Equal(t, 0, x.ByteSize())
	assert.Nil(t, x.Data())

	_, err = x.Get(0, 0)
	assert.ErrorIs(t, err, ErrReleased)
	assert.ErrorIs(t, x.Set(0, 0, 3), ErrReleased)
	_, err = x.Row(0)
	assert.ErrorIs(t, err, ErrReleased)

	assert.NotPanics(t, x.Release)
	assert.True(t, x.Released())
}
