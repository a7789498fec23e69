// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package goecharts implements an echarts.Engine on top of the
// go-echarts library. It renders bar and line charts as a standalone
// HTML page with one container per surface. Custom series need a
// browser callback that go-echarts cannot carry, so they are
// rejected with echarts.ErrUnsupported.
package goecharts

import (
	"fmt"
	"io"
	"sync"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"golang.org/x/buildperf/echarts"
)

// An Engine collects charts for a fixed, ordered set of surfaces.
type Engine struct {
	// Width and Height size each chart container, as CSS lengths.
	Width, Height string

	mu      sync.Mutex
	targets []string
	charts  map[string]components.Charter
}

// New returns an engine whose surfaces are targets, rendered in that
// order.
func New(targets ...string) *Engine {
	e := &Engine{
		Width:   "900px",
		Height:  "500px",
		targets: targets,
		charts:  make(map[string]components.Charter),
	}
	return e
}

func (e *Engine) Init(target string) (echarts.Chart, error) {
	if slice.Index(e.targets, target) < 0 {
		return nil, fmt.Errorf("%w: %q", echarts.ErrSurfaceNotFound, target)
	}
	return &chart{e, target}, nil
}

type chart struct {
	e      *Engine
	target string
}

func (c *chart) SetOption(opt *echarts.Option) error {
	c.e.mu.Lock()
	init := opts.Initialization{ChartID: c.target, Width: c.e.Width, Height: c.e.Height}
	c.e.mu.Unlock()

	ch, err := build(opt, init)
	if err != nil {
		return err
	}
	c.e.mu.Lock()
	defer c.e.mu.Unlock()
	c.e.charts[c.target] = ch
	return nil
}

// Render writes a page holding every mounted chart to w.
func (e *Engine) Render(w io.Writer, title string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	page := components.NewPage()
	page.PageTitle = title
	for _, t := range e.targets {
		if ch, ok := e.charts[t]; ok {
			page.AddCharts(ch)
		}
	}
	return page.Render(w)
}

// build converts opt into a go-echarts chart of the kind of its
// series.
func build(opt *echarts.Option, init opts.Initialization) (components.Charter, error) {
	kind := echarts.SeriesBar
	for i, s := range opt.Series {
		switch {
		case s.Type == echarts.SeriesCustom:
			return nil, fmt.Errorf("%w: custom series", echarts.ErrUnsupported)
		case i == 0:
			kind = s.Type
		case s.Type != kind:
			return nil, fmt.Errorf("%w: mixed %s and %s series", echarts.ErrUnsupported, kind, s.Type)
		}
	}

	points := make([]echarts.SeriesPoints, len(opt.Series))
	var cats []string
	for i := range opt.Series {
		sp, err := opt.SeriesPoints(i)
		if err != nil {
			return nil, err
		}
		points[i] = *sp
		cats = append(cats, sp.X...)
	}
	cats = slice.Nub(cats).([]string)

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(init),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	}
	if opt.Title != nil {
		global = append(global, charts.WithTitleOpts(opts.Title{Title: opt.Title.Text, Subtitle: opt.Title.Subtext}))
	}
	if len(opt.XAxis) > 0 {
		global = append(global, charts.WithXAxisOpts(opts.XAxis{Name: opt.XAxis[0].Name}))
	}
	if len(opt.YAxis) > 0 {
		global = append(global, charts.WithYAxisOpts(opts.YAxis{Name: opt.YAxis[0].Name}))
	}

	if kind == echarts.SeriesLine {
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(cats)
		for i, s := range opt.Series {
			data := make([]opts.LineData, len(cats))
			for j := range data {
				data[j] = opts.LineData{Value: nil, Symbol: s.Symbol, SymbolSize: s.SymbolSize}
			}
			for j, x := range points[i].X {
				k := slice.Index(cats, x)
				if data[k].Value != nil {
					return nil, fmt.Errorf("%w: line series %q repeats category %s", echarts.ErrUnsupported, s.Name, x)
				}
				data[k].Value = points[i].Y[j]
			}
			so := []charts.SeriesOpts{charts.WithLineChartOpts(opts.LineChart{Smooth: s.Smooth})}
			if s.LineStyle != nil {
				so = append(so, charts.WithLineStyleOpts(opts.LineStyle{Type: s.LineStyle.Type}))
			}
			line.AddSeries(s.Name, data, so...)
		}
		return line, nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(cats)
	for i, s := range opt.Series {
		data := make([]opts.BarData, len(cats))
		for j, x := range points[i].X {
			k := slice.Index(cats, x)
			if data[k].Value != nil {
				return nil, fmt.Errorf("%w: bar series %q repeats category %s", echarts.ErrUnsupported, s.Name, x)
			}
			data[k].Value = points[i].Y[j]
		}
		var so []charts.SeriesOpts
		if l := s.Label; l != nil && l.Show {
			so = append(so, charts.WithLabelOpts(opts.Label{
				Show:          true,
				Position:      l.Position,
				Align:         l.Align,
				VerticalAlign: l.VerticalAlign,
				Formatter:     labelFormatter(l.Formatter),
			}))
		}
		bar.AddSeries(s.Name, data, so...)
	}
	return bar, nil
}

// labelFormatter returns the JavaScript label formatter for f, or ""
// to show raw values. Bar labels receive the bar's scalar value, not
// the dataset tuple the page runtime's callbacks index into.
func labelFormatter(f *echarts.Formatter) string {
	if f == nil || f.Func != echarts.FuncFixed || len(f.Args) != 2 {
		return ""
	}
	digits, ok := echarts.Number(f.Args[1])
	if !ok {
		return ""
	}
	return opts.FuncOpts(fmt.Sprintf(
		`function(p) { var s = Number.parseFloat(p.value).toFixed(%d); return /^-[0.]*$/.test(s) ? s.slice(1) : s; }`,
		int(digits)))
}
