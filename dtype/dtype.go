// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dtype defines the element encodings a tensor buffer can hold.
package dtype

import (
	"errors"
	"fmt"
)

// ErrInvalidDType is wrapped by the error returned from Validate.
var ErrInvalidDType = errors.New("invalid DType")

// DType identifies the element encoding of a tensor buffer.
type DType uint8

const (
	// Float32 represents a 32-bit floating point element encoding.
	Float32 DType = iota + 1
	// Int8 represents an 8-bit signed integer element encoding.
	Int8
)

var (
	dTypeToString = [...]string{
		Float32: "F32",
		Int8:    "I8",
	}
	dTypeToJSON = [...]string{
		Float32: `"F32"`,
		Int8:    `"I8"`,
	}
	dTypeToSize = [...]int{
		Float32: 4,
		Int8:    1,
	}
)

// Validate returns an error if the DType is not valid, otherwise nil.
func (dt DType) Validate() error {
	if dt == 0 || dt > Int8 {
		return fmt.Errorf("%w(%d)", ErrInvalidDType, dt)
	}
	return nil
}

// String returns a string representation of a DType.
func (dt DType) String() string {
	if err := dt.Validate(); err != nil {
		return err.Error()
	}
	return dTypeToString[dt]
}

// Size returns the size in bytes of one element of this data type,
// or -1 if the DType value is invalid.
func (dt DType) Size() int {
	if err := dt.Validate(); err != nil {
		return -1
	}
	return dTypeToSize[dt]
}

// Parse returns the DType whose string representation is s.
func Parse(s string) (DType, error) {
	switch s {
	case "F32":
		return Float32, nil
	case "I8":
		return Int8, nil
	}
	return 0, fmt.Errorf("invalid DType string value %q", s)
}

// MarshalJSON satisfies json.Marshaler interface.
func (dt DType) MarshalJSON() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(dTypeToJSON[dt]), nil
}

// UnmarshalJSON satisfies json.Unmarshaler interface.
func (dt *DType) UnmarshalJSON(b []byte) error {
	s := string(b)
	switch s {
	case `"F32"`:
		*dt = Float32
	case `"I8"`:
		*dt = Int8
	default:
		return fmt.Errorf("failed to JSON-unmarshal DType from value %q", s)
	}
	return nil
}

// MarshalText satisfies encoding.TextMarshaler interface.
func (dt DType) MarshalText() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(dTypeToString[dt]), nil
}

// UnmarshalText satisfies encoding.TextUnmarshaler interface.
func (dt *DType) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return fmt.Errorf("failed to text-unmarshal DType from value %q", text)
	}
	*dt = parsed
	return nil
}
