// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package goecharts

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/buildperf/buildchart"
	"golang.org/x/buildperf/buildfmt"
	"golang.org/x/buildperf/echarts"
)

var rows = []buildfmt.Row{{DAGDepth: 1, Headers: 2.34, Modules: 1.11}, {DAGDepth: 2, Headers: 4, Modules: 2}}

func TestRender(t *testing.T) {
	e := New("parallel", "multi")
	if err := buildchart.ParallelBuildMulti(e, "multi", echarts.Title{Text: "compilers"}, "gcc", rows[1:], "clang", rows[1:]); err != nil {
		t.Fatal(err)
	}
	if err := buildchart.ParallelBuild(e, "parallel", echarts.Title{Text: "gcc"}, rows); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := e.Render(&buf, "Build times"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Build times",
		`"parallel"`, `"multi"`,
		"Non-Modular", "Modular, clang",
		"DAG Depth", "Wall Clock Seconds",
		"dashed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page lacks %s", want)
		}
	}
	// Surfaces render in declaration order.
	if p, m := strings.Index(out, `"parallel"`), strings.Index(out, `"multi"`); p > m {
		t.Errorf("parallel chart at %d after multi chart at %d", p, m)
	}
}

func TestBarValues(t *testing.T) {
	e := New("gcc")
	rows := []buildfmt.Row{{DAGDepth: 1, Headers: 2.34, Modules: 1.16}}
	if err := buildchart.ParallelBuild(e, "gcc", echarts.Title{}, rows); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := e.Render(&buf, "gcc"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	// Bars are drawn at their measured height; only labels round.
	for _, want := range []string{`"value":2.34`, `"value":1.16`, "toFixed(1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("page lacks %s", want)
		}
	}
	if strings.Contains(out, `"value":2.3,`) || strings.Contains(out, `"formatter":"function`) {
		t.Errorf("bar values rounded or formatter quoted:\n%s", out)
	}
}

func TestErrors(t *testing.T) {
	e := New("t")
	if err := buildchart.ParallelBuild(e, "u", echarts.Title{}, rows); !errors.Is(err, echarts.ErrSurfaceNotFound) {
		t.Errorf("ParallelBuild(u) = %v, want ErrSurfaceNotFound", err)
	}
	dup := []buildfmt.Row{{DAGDepth: 1, Headers: 2, Modules: 1}, {DAGDepth: 1, Headers: 3, Modules: 2}}
	if err := buildchart.ParallelBuild(e, "t", echarts.Title{}, dup); !errors.Is(err, echarts.ErrUnsupported) {
		t.Errorf("ParallelBuild(repeated dag_depth) = %v, want ErrUnsupported", err)
	}
	ivs := []buildfmt.Interval{{Category: "1", Start: 0, End: 1, Duration: 1}}
	if err := buildchart.Execution(e, "t", echarts.Title{}, ivs); !errors.Is(err, echarts.ErrUnsupported) {
		t.Errorf("Execution = %v, want ErrUnsupported", err)
	}
}
