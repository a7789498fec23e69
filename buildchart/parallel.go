// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buildchart builds the charts of the parallel build
// benchmarks: wall clock comparisons of non-modular and modular
// builds across dependency-graph depths, and timelines of compile job
// execution.
//
// Each chart has a pure constructor returning an *echarts.Option and a
// mounting function that validates the input, builds the option and
// sets it on a surface of an echarts.Engine. Mounting on a surface that
// already has a chart replaces that chart.
package buildchart

import (
	"errors"
	"fmt"

	"golang.org/x/buildperf/buildfmt"
	"golang.org/x/buildperf/echarts"
)

// Series names of the two build flavors.
const (
	NonModular = "Non-Modular"
	Modular    = "Modular"
)

// ErrOddCompilerData is returned when a compiler/data sequence does
// not consist of whole pairs.
var ErrOddCompilerData = errors.New("invalid input: odd-length compiler/data sequence")

// lineStyles is cycled through by the datasets of a multi-compiler
// chart.
var lineStyles = []string{echarts.LineSolid, echarts.LineDashed, echarts.LineDotted}

// FormatValue formats a time in seconds for a bar label: one digit
// after the decimal point, rounded half away from zero.
func FormatValue(v float64) string {
	return echarts.FormatFixed(v, 1)
}

// ParallelBuildOption returns a bar chart comparing the non-modular
// and modular build times of rows, one bar pair per row, in the order
// given.
func ParallelBuildOption(title echarts.Title, rows []buildfmt.Row) (*echarts.Option, error) {
	if err := buildfmt.ValidateRows(rows); err != nil {
		return nil, err
	}
	return &echarts.Option{
		Title:   &title,
		Legend:  &echarts.Legend{Data: []string{NonModular, Modular}},
		Tooltip: axisTooltip(),
		XAxis:   []echarts.Axis{depthAxis()},
		YAxis:   []echarts.Axis{secondsAxis()},
		Series: []echarts.Series{
			barSeries(NonModular, buildfmt.DimHeaders),
			barSeries(Modular, buildfmt.DimModules),
		},
		Dataset: []echarts.Dataset{rowDataset(rows)},
	}, nil
}

// ParallelBuild mounts the chart of ParallelBuildOption on target.
func ParallelBuild(e echarts.Engine, target string, title echarts.Title, rows []buildfmt.Row) error {
	opt, err := ParallelBuildOption(title, rows)
	if err != nil {
		return err
	}
	return echarts.Mount(e, target, opt)
}

// CompilerRows is the benchmark table of one compiler.
type CompilerRows struct {
	Compiler string
	Rows     []buildfmt.Row
}

// PairCompilerData splits a flat sequence alternating compiler names
// (strings) and their tables ([]buildfmt.Row) into pairs, in order.
func PairCompilerData(compilerAndData ...interface{}) ([]CompilerRows, error) {
	if len(compilerAndData)%2 != 0 {
		return nil, ErrOddCompilerData
	}
	var pairs []CompilerRows
	for i := 0; i < len(compilerAndData); i += 2 {
		name, ok := compilerAndData[i].(string)
		if !ok {
			return nil, fmt.Errorf("compiler/data element %d: want compiler name, got %T", i, compilerAndData[i])
		}
		rows, ok := compilerAndData[i+1].([]buildfmt.Row)
		if !ok {
			return nil, fmt.Errorf("compiler/data element %d: want rows for %s, got %T", i+1, name, compilerAndData[i+1])
		}
		if err := buildfmt.ValidateRows(rows); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pairs = append(pairs, CompilerRows{name, rows})
	}
	return pairs, nil
}

// ParallelBuildMultiOption returns a line chart comparing several
// compilers. compilerAndData alternates compiler names and tables, as
// accepted by PairCompilerData. Each compiler gets its own dataset and
// a non-modular and a modular series bound to it by position; the
// compilers cycle through solid, dashed and dotted lines.
func ParallelBuildMultiOption(title echarts.Title, compilerAndData ...interface{}) (*echarts.Option, error) {
	pairs, err := PairCompilerData(compilerAndData...)
	if err != nil {
		return nil, err
	}

	opt := &echarts.Option{
		Title:   &title,
		Legend:  &echarts.Legend{Data: []string{}},
		Tooltip: axisTooltip(),
		XAxis:   []echarts.Axis{depthAxis()},
		YAxis:   []echarts.Axis{secondsAxis()},
		Series:  []echarts.Series{},
	}
	for i, p := range pairs {
		opt.Dataset = append(opt.Dataset, rowDataset(p.Rows))
		style := &echarts.LineStyle{Type: lineStyles[i%len(lineStyles)]}
		for _, s := range []struct {
			flavor, dim, symbol string
		}{
			{NonModular, buildfmt.DimHeaders, "triangle"},
			{Modular, buildfmt.DimModules, "circle"},
		} {
			name := s.flavor + ", " + p.Compiler
			opt.Legend.Data = append(opt.Legend.Data, name)
			opt.Series = append(opt.Series, echarts.Series{
				Name:         name,
				Type:         echarts.SeriesLine,
				Smooth:       true,
				Symbol:       s.symbol,
				SymbolSize:   10,
				LineStyle:    style,
				Encode:       &echarts.Encode{X: buildfmt.DimDAGDepth, Y: s.dim},
				DatasetIndex: i,
			})
		}
	}
	return opt, nil
}

// ParallelBuildMulti mounts the chart of ParallelBuildMultiOption on
// target.
func ParallelBuildMulti(e echarts.Engine, target string, title echarts.Title, compilerAndData ...interface{}) error {
	opt, err := ParallelBuildMultiOption(title, compilerAndData...)
	if err != nil {
		return err
	}
	return echarts.Mount(e, target, opt)
}

func axisTooltip() *echarts.Tooltip {
	return &echarts.Tooltip{
		Trigger:     "axis",
		AxisPointer: &echarts.AxisPointer{Type: "shadow"},
	}
}

func depthAxis() echarts.Axis {
	return echarts.Axis{Name: "DAG Depth", Type: "category", NameLocation: "center", NameGap: 30}
}

func secondsAxis() echarts.Axis {
	return echarts.Axis{Name: "Wall Clock Seconds", Type: "value", NameLocation: "center", NameGap: 45}
}

func rowDataset(rows []buildfmt.Row) echarts.Dataset {
	return echarts.Dataset{Dimensions: buildfmt.RowDimensions, Source: rows}
}

func barSeries(name, dim string) echarts.Series {
	return echarts.Series{
		Name: name,
		Type: echarts.SeriesBar,
		Label: &echarts.Label{
			Show:          true,
			Position:      "top",
			Rotate:        90,
			Align:         "left",
			VerticalAlign: "middle",
			Formatter:     valueFormatter(dimIndex(dim)),
		},
		Encode: &echarts.Encode{X: buildfmt.DimDAGDepth, Y: dim},
	}
}

// valueFormatter formats value[dim] of a row with FormatValue.
func valueFormatter(dim int) *echarts.Formatter {
	return &echarts.Formatter{
		Func: echarts.FuncFixed,
		Args: []interface{}{dim, 1},
		Format: func(value interface{}) string {
			t, ok := value.([]interface{})
			if !ok || dim >= len(t) {
				return ""
			}
			v, ok := echarts.Number(t[dim])
			if !ok {
				return ""
			}
			return FormatValue(v)
		},
	}
}

func dimIndex(dim string) int {
	for i, d := range buildfmt.RowDimensions {
		if d == dim {
			return i
		}
	}
	panic("unknown row dimension " + dim)
}
