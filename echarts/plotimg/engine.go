// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plotimg implements an echarts.Engine that renders charts to
// image files with gonum/plot. Each surface is a file name stem; a
// chart on surface "t" is written as t.png, t.svg, and so on for each
// configured format.
package plotimg

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"golang.org/x/buildperf/echarts"
	"gonum.org/v1/plot/vg"
)

// A Sink stores rendered images.
type Sink interface {
	// Create returns a writer for the named file. The file is
	// complete once the writer is closed without error.
	Create(name string) (io.WriteCloser, error)
}

// An Engine renders charts for a fixed set of surfaces into a Sink.
type Engine struct {
	// Formats lists the image formats written for each chart, by
	// file extension. It defaults to png.
	Formats []string

	// Width and Height are the image dimensions.
	Width, Height vg.Length

	sink Sink

	mu      sync.Mutex
	options map[string]*echarts.Option
}

// New returns an engine with one surface per target, writing to sink.
func New(sink Sink, targets ...string) *Engine {
	e := &Engine{
		Formats: []string{"png"},
		Width:   20 * vg.Centimeter,
		Height:  12 * vg.Centimeter,
		sink:    sink,
		options: make(map[string]*echarts.Option),
	}
	for _, t := range targets {
		e.options[t] = nil
	}
	return e
}

// Targets returns the engine's surfaces in sorted order.
func (e *Engine) Targets() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ts []string
	for t := range e.options {
		ts = append(ts, t)
	}
	sort.Strings(ts)
	return ts
}

// Option returns the option last set on target, or nil.
func (e *Engine) Option(target string) *echarts.Option {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.options[target]
}

func (e *Engine) Init(target string) (echarts.Chart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.options[target]; !ok {
		return nil, fmt.Errorf("%w: %q", echarts.ErrSurfaceNotFound, target)
	}
	return &chart{e, target}, nil
}

type chart struct {
	e      *Engine
	target string
}

// SetOption renders every format before writing any file, so a chart
// that fails to render leaves the previous files in place.
func (c *chart) SetOption(opt *echarts.Option) error {
	e := c.e
	p, err := Plot(opt)
	if err != nil {
		return err
	}
	formats := e.Formats
	if len(formats) == 0 {
		formats = []string{"png"}
	}
	images := make([]bytes.Buffer, len(formats))
	for i, f := range formats {
		w, err := p.WriterTo(e.Width, e.Height, f)
		if err != nil {
			return err
		}
		if _, err := w.WriteTo(&images[i]); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, f := range formats {
		name := c.target + "." + f
		w, err := e.sink.Create(name)
		if err != nil {
			return err
		}
		if _, err := images[i].WriteTo(w); err != nil {
			w.Close()
			return fmt.Errorf("writing %s: %w", name, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	e.options[c.target] = opt
	return nil
}
