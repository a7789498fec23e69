// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package htmlpage

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/buildperf/buildchart"
	"golang.org/x/buildperf/buildfmt"
	"golang.org/x/buildperf/echarts"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var rows = []buildfmt.Row{{DAGDepth: 1, Headers: 2.34, Modules: 1.11}, {DAGDepth: 2, Headers: 4, Modules: 2}}

// scripts returns the src attributes and inline text of the scripts
// in a rendered page.
func scripts(t *testing.T, page []byte) (srcs, inline []string) {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script {
			if src, ok := attr(n, "src"); ok {
				srcs = append(srcs, src)
			} else if n.FirstChild != nil {
				inline = append(inline, n.FirstChild.Data)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return srcs, inline
}

var chartsVar = regexp.MustCompile(`\bcharts\s*=\s*`)

// mounted decodes the chart list embedded in a mount script.
func mounted(t *testing.T, script string) []map[string]interface{} {
	t.Helper()
	loc := chartsVar.FindStringIndex(script)
	if loc == nil {
		t.Fatalf("no charts variable in script:\n%s", script)
	}
	var ms []map[string]interface{}
	if err := json.NewDecoder(strings.NewReader(script[loc[1]:])).Decode(&ms); err != nil {
		t.Fatalf("decoding charts: %v", err)
	}
	return ms
}

func TestRender(t *testing.T) {
	p := New("Build <times>", "a", "b", "empty")
	if err := buildchart.ParallelBuild(p, "b", echarts.Title{Text: "gcc"}, rows); err != nil {
		t.Fatal(err)
	}
	if err := buildchart.ParallelBuildMulti(p, "a", echarts.Title{Text: "all"}, "gcc", rows, "clang", rows); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Build &lt;times&gt;</title>") {
		t.Errorf("title not escaped in:\n%s", out)
	}
	for _, id := range []string{"a", "b", "empty"} {
		if !strings.Contains(out, `id="`+id+`"`) {
			t.Errorf("surface %q missing", id)
		}
	}

	srcs, inline := scripts(t, buf.Bytes())
	if diff := cmp.Diff([]string{echartsURL}, srcs); diff != "" {
		t.Errorf("script sources mismatch (-want +got):\n%s", diff)
	}
	if len(inline) != 1 {
		t.Fatalf("got %d inline scripts, want 1", len(inline))
	}
	if !strings.Contains(inline[0], "echarts.init") {
		t.Errorf("mount script lacks runtime")
	}
	ms := mounted(t, inline[0])
	var targets []string
	for _, m := range ms {
		targets = append(targets, m["target"].(string))
	}
	if diff := cmp.Diff([]string{"b", "a"}, targets); diff != "" {
		t.Errorf("mount order mismatch (-want +got):\n%s", diff)
	}
	series := ms[1]["option"].(map[string]interface{})["series"].([]interface{})
	if len(series) != 4 {
		t.Errorf("multi chart has %d series, want 4", len(series))
	}
	label := ms[0]["option"].(map[string]interface{})["series"].([]interface{})[0].(map[string]interface{})["label"].(map[string]interface{})
	if diff := cmp.Diff(map[string]interface{}{"$fn": "fixed", "args": []interface{}{1.0, 1.0}}, label["formatter"]); diff != "" {
		t.Errorf("formatter mismatch (-want +got):\n%s", diff)
	}

	// Rendering again does not duplicate the scripts.
	buf.Reset()
	if err := p.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if srcs, inline := scripts(t, buf.Bytes()); len(srcs) != 1 || len(inline) != 1 {
		t.Errorf("second render has %d+%d scripts, want 1+1", len(srcs), len(inline))
	}
}

func TestRenderNoCharts(t *testing.T) {
	p := New("empty")
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if srcs, inline := scripts(t, buf.Bytes()); len(srcs)+len(inline) != 0 {
		t.Errorf("page without charts has scripts %v %v", srcs, inline)
	}
}

func TestReplace(t *testing.T) {
	p := New("", "c")
	if err := buildchart.ParallelBuild(p, "c", echarts.Title{Text: "first"}, rows); err != nil {
		t.Fatal(err)
	}
	if err := buildchart.ParallelBuild(p, "c", echarts.Title{Text: "second"}, rows); err != nil {
		t.Fatal(err)
	}
	if got := p.Option("c").Title.Text; got != "second" {
		t.Errorf("surface shows %q, want second", got)
	}
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		t.Fatal(err)
	}
	_, inline := scripts(t, buf.Bytes())
	if ms := mounted(t, inline[0]); len(ms) != 1 {
		t.Errorf("got %d mounts after replacement, want 1", len(ms))
	}
}

func TestParse(t *testing.T) {
	const doc = `<html><body><h1>Report</h1><section><div id="timeline"></div></section></body></html>`
	p, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	ivs := []buildfmt.Interval{{Category: "1", Start: 0, End: 2, Duration: 2}}
	if err := buildchart.Execution(p, "timeline", echarts.Title{}, ivs); err != nil {
		t.Fatal(err)
	}
	if err := buildchart.Execution(p, "missing", echarts.Title{}, ivs); !errors.Is(err, echarts.ErrSurfaceNotFound) {
		t.Errorf("Execution(missing) = %v, want ErrSurfaceNotFound", err)
	}
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		t.Fatal(err)
	}
	_, inline := scripts(t, buf.Bytes())
	ms := mounted(t, inline[0])
	if len(ms) != 1 || ms[0]["target"] != "timeline" {
		t.Errorf("mounts = %v, want the timeline only", ms)
	}
	if !strings.Contains(buf.String(), "<h1>Report</h1>") {
		t.Errorf("page content lost:\n%s", buf.String())
	}
}

func TestAddSurfaceErrors(t *testing.T) {
	p := New("")
	if err := p.AddSurface("x", DefaultWidth, DefaultHeight); err != nil {
		t.Fatal(err)
	}
	if err := p.AddSurface("x", DefaultWidth, DefaultHeight); err == nil {
		t.Errorf("duplicate surface accepted")
	}
	if err := p.AddSurface("", DefaultWidth, DefaultHeight); err == nil {
		t.Errorf("empty surface id accepted")
	}
}

// TestRuntimeCallbacks checks that the page runtime defines a callback
// for every function name options refer to, and that fixed rounds the
// way echarts.FormatFixed does: toFixed on the parsed value, with
// negative zero unsigned.
func TestRuntimeCallbacks(t *testing.T) {
	for _, name := range []string{echarts.FuncFixed, echarts.FuncSuffix, echarts.FuncAppend, echarts.FuncIntervalRect} {
		if !regexp.MustCompile(`\b` + name + `: function\(`).MatchString(runtime) {
			t.Errorf("runtime lacks callback %q", name)
		}
	}
	fixed := regexp.MustCompile(`(?s)fixed: function\(dim, digits\) \{.*?\n    \},`).FindString(runtime)
	for _, want := range []string{
		"Number.parseFloat(params.value[dim]).toFixed(digits)",
		`/^-[0.]*$/.test(s) ? s.slice(1) : s`,
	} {
		if !strings.Contains(fixed, want) {
			t.Errorf("fixed callback lacks %s:\n%s", want, fixed)
		}
	}
	// Decimal halves round to the side their binary value lies on, as
	// toFixed(1) rounds them.
	for v, want := range map[float64]string{0.15: "0.1", 1.15: "1.1", 2.35: "2.4", -0.04: "0.0"} {
		if got := echarts.FormatFixed(v, 1); got != want {
			t.Errorf("FormatFixed(%v, 1) = %q, want %q as toFixed(1) gives", v, got, want)
		}
	}
}
