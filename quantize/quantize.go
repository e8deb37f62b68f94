// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package quantize converts Float32 tensors into Int8 tensors using
// per-tensor symmetric linear quantization.
//
// A single positive anchor, the maximum magnitude, is mapped to 127 and
// every element x becomes trunc(clamp(x / maxMagnitude * 127, -127, 127)).
// Zero maps to zero and the range is symmetric: -128 is never produced.
package quantize

import (
	"errors"
	"fmt"
	"math"

	"github.com/nlpodyssey/qtensor"
)

// Levels is the largest magnitude of a quantized value.
const Levels = 127

// ErrInvalidScale is returned when the maximum magnitude is not a finite,
// strictly positive number.
var ErrInvalidScale = errors.New("invalid quantization scale")

// Logger is the subset of a structured logger used by a Quantizer.
type Logger interface {
	Debug(msg string, args ...any)
}

// Quantizer performs the transform. It holds no mutable state, and the
// zero value is ready to use.
type Quantizer struct {
	log Logger
}

// Option configures a Quantizer.
type Option func(*Quantizer)

// WithLogger makes the Quantizer report each transform at debug level.
func WithLogger(l Logger) Option {
	return func(q *Quantizer) {
		q.log = l
	}
}

// New returns a Quantizer configured with the given options.
func New(opts ...Option) *Quantizer {
	q := &Quantizer{}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Quantize is a shorthand for a zero Quantizer's Quantize method.
func Quantize(src *qtensor.Tensor[float32], maxMagnitude float32) (*qtensor.Tensor[int8], error) {
	var q Quantizer
	return q.Quantize(src, maxMagnitude)
}

// Quantize returns a new Int8 tensor with the same shape as src, where
// every element is the quantized value of the corresponding source element
// (see Value). The source tensor is never modified.
//
// The scale is checked before anything else: an invalid maxMagnitude
// returns an error wrapping ErrInvalidScale whatever the shape of src.
// No result is returned unless it is fully populated.
func (q *Quantizer) Quantize(src *qtensor.Tensor[float32], maxMagnitude float32) (*qtensor.Tensor[int8], error) {
	if err := validateScale(maxMagnitude); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("cannot quantize: %w", qtensor.ErrNilTensor)
	}
	if src.Released() {
		return nil, fmt.Errorf("cannot quantize: %w", qtensor.ErrReleased)
	}

	rows, cols := src.Shape()
	dst, err := qtensor.NewInt8(rows, cols)
	if err != nil {
		return nil, err
	}
	for i, x := range src.Data() {
		if err := dst.Set(i/cols, i%cols, Value(x, maxMagnitude)); err != nil {
			return nil, err
		}
	}
	if q.log != nil {
		q.log.Debug("quantized tensor",
			"rows", rows,
			"cols", cols,
			"max_magnitude", maxMagnitude,
			"src_bytes", src.ByteSize(),
			"dst_bytes", dst.ByteSize(),
		)
	}
	return dst, nil
}

// Value quantizes a single element against maxMagnitude, which is assumed
// to be finite and strictly positive.
//
// Values whose magnitude exceeds maxMagnitude saturate at ±127, and NaN
// maps to 0.
func Value(x, maxMagnitude float32) int8 {
	scaled := float32(x/maxMagnitude) * Levels
	switch {
	case math.IsNaN(float64(scaled)):
		return 0
	case scaled > Levels:
		return Levels
	case scaled < -Levels:
		return -Levels
	}
	return int8(scaled)
}

// MaxMagnitude returns the largest absolute value among the elements of
// src, suitable as an anchor that maps the whole tensor without clipping.
//
// It returns an error wrapping ErrInvalidScale when no valid anchor exists:
// the tensor is empty, all zeros, or its largest magnitude is not finite.
// NaN elements are ignored.
func MaxMagnitude(src *qtensor.Tensor[float32]) (float32, error) {
	if src == nil {
		return 0, fmt.Errorf("cannot compute the max magnitude: %w", qtensor.ErrNilTensor)
	}
	if src.Released() {
		return 0, fmt.Errorf("cannot compute the max magnitude: %w", qtensor.ErrReleased)
	}
	var m float32
	for _, x := range src.Data() {
		if a := float32(math.Abs(float64(x))); a > m {
			m = a
		}
	}
	if err := validateScale(m); err != nil {
		return 0, err
	}
	return m, nil
}

func validateScale(maxMagnitude float32) error {
	if !(maxMagnitude > 0) || math.IsInf(float64(maxMagnitude), 1) {
		return fmt.Errorf("%w: max magnitude must be finite and greater than zero, got %v", ErrInvalidScale, maxMagnitude)
	}
	return nil
}
