// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buildfmt defines the data recorded by the parallel build
// benchmarks and reads the JSON files the benchmark driver writes.
//
// There are two kinds of data. A Row is one measurement of a
// generated project at a given dependency-graph depth, built once
// with textual headers and once with modules. An Interval is the
// execution window of one compile job, used for timeline charts.
package buildfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Dimension names of a Row, in tuple order.
const (
	DimDAGDepth = "dag_depth"
	DimHeaders  = "headers"
	DimModules  = "modules"
)

// RowDimensions lists the dimension names of a Row in the order they
// appear in its tuple encoding.
var RowDimensions = []string{DimDAGDepth, DimHeaders, DimModules}

// ErrInvalidValue is wrapped by every error reporting a value that is
// not a finite number.
var ErrInvalidValue = errors.New("invalid value")

// A Row is one benchmark measurement.
type Row struct {
	// DAGDepth is the depth of the generated dependency graph.
	DAGDepth int

	// Headers is the wall clock build time, in seconds, of the
	// non-modular (textual include) build.
	Headers float64

	// Modules is the wall clock build time, in seconds, of the
	// modular build.
	Modules float64
}

// Validate returns an error wrapping ErrInvalidValue if either time
// is NaN or infinite.
func (r Row) Validate() error {
	if !finite(r.Headers) {
		return fmt.Errorf("%s is %v: %w", DimHeaders, r.Headers, ErrInvalidValue)
	}
	if !finite(r.Modules) {
		return fmt.Errorf("%s is %v: %w", DimModules, r.Modules, ErrInvalidValue)
	}
	return nil
}

// MarshalJSON encodes r as the tuple [dag_depth, headers, modules].
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{r.DAGDepth, r.Headers, r.Modules})
}

// ValidateRows validates each row, reporting the first failure with
// its index.
func ValidateRows(rows []Row) error {
	for i, r := range rows {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("row %d (%s %d): %w", i, DimDAGDepth, r.DAGDepth, err)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
