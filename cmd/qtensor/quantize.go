// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nlpodyssey/qtensor"
	"github.com/nlpodyssey/qtensor/internal/logger"
	"github.com/nlpodyssey/qtensor/quantize"
)

// quantizeOptions describes one quantization run.
type quantizeOptions struct {
	Rows   int
	Cols   int
	Values []float32
	// MaxMagnitude is nil when the anchor must be computed from Values.
	MaxMagnitude *float32
	Format       string
}

var demoWeights = []float32{1.25, -3.80, 5.10, 4.50, -0.45, 2.00}

func quantizeCmd() *cli.Command {
	var (
		rows         int64
		cols         int64
		values       string
		maxMagnitude float64
		format       string
	)

	return &cli.Command{
		Name:      "quantize",
		Usage:     "Quantize a float32 matrix to int8",
		UsageText: "qtensor quantize --rows 2 --cols 3 --values 1.25,-3.8,5.1,4.5,-0.45,2 [--max 5.1]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "rows",
				Aliases:     []string{"r"},
				Usage:       "number of rows",
				Required:    true,
				Destination: &rows,
			},
			&cli.IntFlag{
				Name:        "cols",
				Aliases:     []string{"c"},
				Usage:       "number of columns",
				Required:    true,
				Destination: &cols,
			},
			&cli.StringFlag{
				Name:        "values",
				Aliases:     []string{"v"},
				Usage:       "comma-separated elements in row-major order",
				Destination: &values,
			},
			&cli.FloatFlag{
				Name:        "max",
				Aliases:     []string{"m"},
				Usage:       "maximum magnitude mapped to 127 (default: largest magnitude of the values)",
				Destination: &maxMagnitude,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "report format (text, json)",
				Value:       "text",
				Destination: &format,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			parsed, err := parseValues(values)
			if err != nil {
				return err
			}
			opts := quantizeOptions{
				Rows:   int(rows),
				Cols:   int(cols),
				Values: parsed,
				Format: format,
			}
			if cmd.IsSet("max") {
				m := float32(maxMagnitude)
				opts.MaxMagnitude = &m
			}
			applyQuantizeConfig(cmd, configFromContext(ctx), &opts)
			return runQuantize(ctx, output(cmd), opts)
		},
	}
}

func demoCmd() *cli.Command {
	var format string

	return &cli.Command{
		Name:  "demo",
		Usage: "Quantize a built-in 2x3 weight matrix with anchor 5.10",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "report format (text, json)",
				Value:       "text",
				Destination: &format,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			m := float32(5.10)
			opts := quantizeOptions{
				Rows:         2,
				Cols:         3,
				Values:       demoWeights,
				MaxMagnitude: &m,
				Format:       format,
			}
			if cfg := configFromContext(ctx); cfg.Format != "" && !cmd.IsSet("format") {
				opts.Format = cfg.Format
			}
			return runQuantize(ctx, output(cmd), opts)
		},
	}
}

// runQuantize builds the source tensor, quantizes it and writes the report.
func runQuantize(ctx context.Context, w io.Writer, opts quantizeOptions) error {
	log := logger.FromContext(ctx)

	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	src, err := qtensor.FromSlice(opts.Rows, opts.Cols, opts.Values)
	if err != nil {
		return fmt.Errorf("build source tensor: %w", err)
	}
	defer src.Release()

	var m float32
	if opts.MaxMagnitude != nil {
		m = *opts.MaxMagnitude
	} else {
		m, err = quantize.MaxMagnitude(src)
		if err != nil {
			return err
		}
		log.Debug("anchor computed from input", "max_magnitude", m)
	}

	log = log.With("rows", opts.Rows, "cols", opts.Cols)
	dst, err := quantize.New(quantize.WithLogger(log)).Quantize(src, m)
	if err != nil {
		return err
	}
	defer dst.Release()

	if n := countClipped(opts.Values, m); n > 0 {
		log.Warn("elements saturated at the int8 range", "count", n, "max_magnitude", m)
	}

	if err := writeReport(w, opts.Format, newReport(src, dst, m)); err != nil {
		return err
	}
	log.Info("quantization complete", "max_magnitude", m, "bytes_before", src.ByteSize(), "bytes_after", dst.ByteSize())
	return nil
}

// countClipped returns how many values fall outside [-m, m].
func countClipped(values []float32, m float32) int {
	n := 0
	for _, x := range values {
		if x > m || x < -m {
			n++
		}
	}
	return n
}

// parseValues parses a comma-separated list of float32 values.
// An empty string yields no values.
func parseValues(s string) ([]float32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	values := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q at position %d: %w", f, i, err)
		}
		values[i] = float32(v)
	}
	return values, nil
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
