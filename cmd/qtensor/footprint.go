// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/nlpodyssey/qtensor"
	"github.com/nlpodyssey/qtensor/dtype"
	"github.com/nlpodyssey/qtensor/internal/logger"
)

func footprintCmd() *cli.Command {
	var (
		rows  int64
		cols  int64
		dType string
	)

	return &cli.Command{
		Name:      "footprint",
		Usage:     "Allocate a zero-filled tensor and report its memory footprint",
		UsageText: "qtensor footprint --rows 1024 --cols 1024 --dtype I8",
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
				Name:        "dtype",
				Aliases:     []string{"d"},
				Usage:       "element encoding (F32, I8)",
				Value:       dtype.Float32.String(),
				Destination: &dType,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dt, err := dtype.Parse(dType)
			if err != nil {
				return err
			}
			if cfg := configFromContext(ctx); cfg.DType != 0 && !cmd.IsSet("dtype") {
				dt = cfg.DType
			}
			return runFootprint(ctx, output(cmd), int(rows), int(cols), dt)
		},
	}
}

// runFootprint creates a tensor of the given shape and encoding and writes
// its element count and byte size.
func runFootprint(ctx context.Context, w io.Writer, rows, cols int, dt dtype.DType) error {
	t, err := qtensor.Create(rows, cols, dt)
	if err != nil {
		return err
	}
	defer t.Release()

	logger.FromContext(ctx).Debug("tensor allocated", "dtype", t.DType(), "rows", rows, "cols", cols)
	_, err = fmt.Fprintf(w, "%s %dx%d: %d elements, %d bytes\n", t.DType(), t.Rows(), t.Cols(), t.Len(), t.ByteSize())
	return err
}
