// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/nlpodyssey/qtensor"
	"github.com/nlpodyssey/qtensor/dtype"
)

type report struct {
	MaxMagnitude float32      `json:"max_magnitude"`
	Source       tensorReport `json:"source"`
	Quantized    tensorReport `json:"quantized"`
}

type tensorReport struct {
	DType dtype.DType `json:"dtype"`
	Rows  int         `json:"rows"`
	Cols  int         `json:"cols"`
	// Values holds the row-major elements, as []float32 or []int8.
	Values any `json:"values"`
	Bytes  int `json:"bytes"`

	rowStrings [][]string
}

func newReport(src *qtensor.Tensor[float32], dst *qtensor.Tensor[int8], maxMagnitude float32) report {
	return report{
		MaxMagnitude: maxMagnitude,
		Source:       newTensorReport(src, "%.2f"),
		Quantized:    newTensorReport(dst, "%d"),
	}
}

func newTensorReport[T qtensor.Element](t *qtensor.Tensor[T], verb string) tensorReport {
	rows, cols := t.Shape()
	data := t.Data()
	rowStrings := make([][]string, rows)
	for r := range rowStrings {
		rowStrings[r] = make([]string, cols)
		for c := range rowStrings[r] {
			rowStrings[r][c] = fmt.Sprintf(verb, data[r*cols+c])
		}
	}
	return tensorReport{
		DType:      t.DType(),
		Rows:       rows,
		Cols:       cols,
		Values:     data,
		Bytes:      t.ByteSize(),
		rowStrings: rowStrings,
	}
}

func validateFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("unknown report format %q", format)
}

func writeReport(w io.Writer, format string, r report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "text":
		bw := bufio.NewWriter(w)
		writeTensorText(bw, "Original weights", r.Source)
		_, _ = fmt.Fprintf(bw, "\nmax magnitude: %.2f\n\n", r.MaxMagnitude)
		writeTensorText(bw, "Quantized weights", r.Quantized)
		return bw.Flush()
	}
	return fmt.Errorf("unknown report format %q", format)
}

func writeTensorText(w io.Writer, title string, t tensorReport) {
	_, _ = fmt.Fprintf(w, "--- %s (%s, %dx%d) ---\n", title, t.DType, t.Rows, t.Cols)
	for _, row := range t.rowStrings {
		for i, s := range row {
			if i > 0 {
				_, _ = io.WriteString(w, "  ")
			}
			_, _ = io.WriteString(w, s)
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintf(w, "memory: %d bytes\n", t.Bytes)
}
