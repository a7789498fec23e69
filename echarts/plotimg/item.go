// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plotimg

import (
	"fmt"
	"image/color"
	"math"

	"golang.org/x/buildperf/echarts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// itemPlotter draws a custom series by calling its Go render item for
// each data item. Dimension 0 of each item is a category of the y
// axis and every other dimension is a number.
type itemPlotter struct {
	render echarts.RenderItemFunc
	style  echarts.ItemStyle
	items  [][]float64
	xdims  []int

	// shapes are the shapes drawn by the last call to Plot.
	shapes []echarts.Shape
}

func newItemPlotter(s *echarts.Series, cats []string) (*itemPlotter, error) {
	if s.RenderItem == nil || s.RenderItem.Render == nil {
		return nil, fmt.Errorf("%w: custom series %q has no Go render item", echarts.ErrUnsupported, s.Name)
	}
	ip := &itemPlotter{render: s.RenderItem.Render, xdims: []int{1}}
	if s.ItemStyle != nil {
		ip.style = s.ItemStyle.WithDefaults()
	} else {
		ip.style = echarts.DefaultItemStyle
	}
	if s.Encode != nil {
		if dims, err := echarts.DimIndexes(nil, s.Encode.X); err == nil && len(dims) > 0 {
			ip.xdims = dims
		}
	}

	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c] = i
	}
	for i, d := range s.Data {
		item := make([]float64, len(d))
		for j, v := range d {
			if j == 0 {
				k, ok := index[fmt.Sprint(v)]
				if !ok {
					return nil, fmt.Errorf("data item %d: category %v not on axis", i, v)
				}
				item[j] = float64(k)
				continue
			}
			f, ok := echarts.Number(v)
			if !ok {
				return nil, fmt.Errorf("data item %d: dimension %d is not a finite number", i, j)
			}
			item[j] = f
		}
		ip.items = append(ip.items, item)
	}
	return ip, nil
}

// Plot implements plot.Plotter.
func (ip *itemPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	params := echarts.RenderParams{CoordSys: echarts.Rect{
		X:      float64(c.Min.X),
		Y:      float64(c.Min.Y),
		Width:  float64(c.Max.X - c.Min.X),
		Height: float64(c.Max.Y - c.Min.Y),
	}}
	fill := fillColor(ip.style)
	line := draw.LineStyle{
		Color: parseColor(ip.style.BorderColor),
		Width: vg.Points(ip.style.BorderWidth),
	}

	ip.shapes = ip.shapes[:0]
	for i, item := range ip.items {
		params.DataIndex = i
		shape := ip.render(params, &renderAPI{item: item, style: ip.style, trX: trX, trY: trY})
		if shape == nil {
			continue
		}
		ip.shapes = append(ip.shapes, *shape)
		r := shape.Rect
		pts := []vg.Point{
			{X: vg.Length(r.X), Y: vg.Length(r.Y)},
			{X: vg.Length(r.X + r.Width), Y: vg.Length(r.Y)},
			{X: vg.Length(r.X + r.Width), Y: vg.Length(r.Y + r.Height)},
			{X: vg.Length(r.X), Y: vg.Length(r.Y + r.Height)},
		}
		if fill != nil {
			c.FillPolygon(fill, pts)
		}
		if line.Color != nil && line.Width > 0 {
			c.StrokeLines(line, append(pts, pts[0]))
		}
	}
}

// fillColor returns the fill of style with its opacity applied, or
// nil for no fill.
func fillColor(style echarts.ItemStyle) color.Color {
	c := parseColor(style.Color)
	if c == nil || style.Opacity == nil {
		return c
	}
	o := math.Max(0, math.Min(1, *style.Opacity))
	if o == 0 {
		return nil
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	nc.A = uint8(math.Round(float64(nc.A) * o))
	return nc
}

// DataRange implements plot.DataRanger. The y range spans the
// category bands; the x range spans every x dimension.
func (ip *itemPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, item := range ip.items {
		for _, d := range ip.xdims {
			if d < len(item) {
				xmin = math.Min(xmin, item[d])
				xmax = math.Max(xmax, item[d])
			}
		}
		ymin = math.Min(ymin, item[0]-0.5)
		ymax = math.Max(ymax, item[0]+0.5)
	}
	if len(ip.items) == 0 {
		return 0, 1, 0, 1
	}
	return xmin, xmax, ymin, ymax
}

// renderAPI maps one data item into the canvas coordinates of a plot.
// The y axis of the canvas points up, so a rectangle's Y is its bottom
// edge; band centering is symmetric, so render items need not care.
type renderAPI struct {
	item     []float64
	style    echarts.ItemStyle
	trX, trY func(float64) vg.Length
}

func (a *renderAPI) Value(dim int) float64 {
	if dim < 0 || dim >= len(a.item) {
		return math.NaN()
	}
	return a.item[dim]
}

func (a *renderAPI) Coord(x, y float64) echarts.Point {
	return echarts.Point{X: float64(a.trX(x)), Y: float64(a.trY(y))}
}

func (a *renderAPI) Size(dx, dy float64) echarts.Point {
	return echarts.Point{
		X: math.Abs(float64(a.trX(dx) - a.trX(0))),
		Y: math.Abs(float64(a.trY(dy) - a.trY(0))),
	}
}

func (a *renderAPI) Style() echarts.ItemStyle { return a.style }
