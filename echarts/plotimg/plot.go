// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plotimg

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/buildperf/echarts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// palette is the ECharts 5 default series palette.
var palette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
	"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc",
}

func seriesColor(i int) color.Color {
	return parseColor(palette[i%len(palette)])
}

// parseColor parses a CSS hex color. Anything else, such as
// "transparent", yields nil, which gonum treats as no color.
func parseColor(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil
	}
	return c
}

var dashes = map[string][]vg.Length{
	echarts.LineSolid:  nil,
	echarts.LineDashed: {vg.Points(6), vg.Points(3)},
	echarts.LineDotted: {vg.Points(1), vg.Points(2)},
}

const barWidth = vg.Length(12)

// Plot converts opt into a gonum plot. Bar and line series share a
// category x axis; a custom series is drawn with its Go render item on
// a category y axis. Options mixing the two kinds are not supported.
func Plot(opt *echarts.Option) (*plot.Plot, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	p := plot.New()
	if opt.Title != nil {
		p.Title.Text = opt.Title.Text
		if opt.Title.Subtext != "" {
			p.Title.Text += "\n" + opt.Title.Subtext
		}
	}
	if len(opt.XAxis) > 0 {
		p.X.Label.Text = opt.XAxis[0].Name
	}
	if len(opt.YAxis) > 0 {
		p.Y.Label.Text = opt.YAxis[0].Name
	}
	p.Legend.Top = true

	var custom, cartesian int
	for _, s := range opt.Series {
		if s.Type == echarts.SeriesCustom {
			custom++
		} else {
			cartesian++
		}
	}
	var err error
	switch {
	case custom > 0 && cartesian > 0:
		return nil, fmt.Errorf("%w: custom series mixed with bar or line series", echarts.ErrUnsupported)
	case custom > 0:
		err = addCustom(p, opt)
	default:
		err = addCartesian(p, opt)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// addCartesian adds the bar and line series of opt to p.
func addCartesian(p *plot.Plot, opt *echarts.Option) error {
	points := make([]echarts.SeriesPoints, len(opt.Series))
	var cats []string
	for i := range opt.Series {
		sp, err := opt.SeriesPoints(i)
		if err != nil {
			return err
		}
		points[i] = *sp
		cats = append(cats, sp.X...)
	}
	if len(cats) == 0 {
		return nil
	}
	cats = slice.Nub(cats).([]string)
	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c] = i
	}

	var bars []int
	for i, s := range opt.Series {
		if s.Type == echarts.SeriesBar {
			bars = append(bars, i)
		}
	}
	for i, s := range opt.Series {
		sp := points[i]
		clr := seriesColor(i)
		switch s.Type {
		case echarts.SeriesBar:
			k := slice.Index(bars, i)
			offset := barWidth * vg.Length(2*k-len(bars)+1) / 2
			values := make(plotter.Values, len(cats))
			set := make([]bool, len(cats))
			for j, x := range sp.X {
				if set[index[x]] {
					return fmt.Errorf("%w: bar series %q repeats category %s", echarts.ErrUnsupported, s.Name, x)
				}
				set[index[x]] = true
				values[index[x]] = sp.Y[j]
			}
			b, err := plotter.NewBarChart(values, barWidth)
			if err != nil {
				return err
			}
			b.Color = clr
			b.LineStyle.Width = 0
			b.Offset = offset
			p.Add(b)
			p.Legend.Add(s.Name, b)
			if s.Label != nil && s.Label.Show {
				l, err := barLabels(s.Label, sp, index, offset)
				if err != nil {
					return err
				}
				p.Add(l)
			}

		case echarts.SeriesLine:
			xys := make(plotter.XYs, len(sp.X))
			for j, x := range sp.X {
				xys[j] = plotter.XY{X: float64(index[x]), Y: sp.Y[j]}
			}
			l, err := plotter.NewLine(xys)
			if err != nil {
				return err
			}
			l.LineStyle.Color = clr
			l.LineStyle.Width = vg.Points(1.5)
			if s.LineStyle != nil {
				l.LineStyle.Dashes = dashes[s.LineStyle.Type]
			}
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return err
			}
			sc.GlyphStyle.Color = clr
			sc.GlyphStyle.Radius = vg.Points(float64(s.SymbolSize) / 2)
			switch s.Symbol {
			case "triangle":
				sc.GlyphStyle.Shape = draw.PyramidGlyph{}
			default:
				sc.GlyphStyle.Shape = draw.CircleGlyph{}
			}
			p.Add(l, sc)
			p.Legend.Add(s.Name, l, sc)

		default:
			return fmt.Errorf("%w: series type %q", echarts.ErrUnsupported, s.Type)
		}
	}
	p.NominalX(cats...)
	if len(opt.YAxis) > 0 {
		applyAxis(&p.Y, opt.YAxis[0])
	}
	return nil
}

// barLabels labels each bar of sp with the series' label formatter.
func barLabels(label *echarts.Label, sp echarts.SeriesPoints, index map[string]int, offset vg.Length) (*plotter.Labels, error) {
	xyl := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(sp.X)),
		Labels: make([]string, len(sp.X)),
	}
	for j, x := range sp.X {
		xyl.XYs[j] = plotter.XY{X: float64(index[x]), Y: sp.Y[j]}
		if label.Formatter != nil && label.Formatter.Format != nil {
			xyl.Labels[j] = label.Formatter.Format(sp.Values[j])
		} else {
			xyl.Labels[j] = strconv.FormatFloat(sp.Y[j], 'f', -1, 64)
		}
	}
	l, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, err
	}
	l.Offset = vg.Point{X: offset, Y: vg.Points(3)}
	for i := range l.TextStyle {
		l.TextStyle[i].Rotation = float64(label.Rotate) * math.Pi / 180
		l.TextStyle[i].XAlign = draw.XLeft
		l.TextStyle[i].YAlign = draw.YCenter
	}
	return l, nil
}

// applyAxis carries the value axis settings of a onto the plot axis.
func applyAxis(pa *plot.Axis, a echarts.Axis) {
	if a.Min != nil {
		pa.Min = *a.Min
	}
	if a.AxisLabel != nil && a.AxisLabel.Formatter != nil && a.AxisLabel.Formatter.Format != nil {
		pa.Tick.Marker = labelTicker{plot.DefaultTicks{}, a.AxisLabel.Formatter.Format}
	}
}

// labelTicker relabels the major ticks of a Ticker.
type labelTicker struct {
	plot.Ticker
	format func(interface{}) string
}

func (t labelTicker) Ticks(min, max float64) []plot.Tick {
	ticks := t.Ticker.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = t.format(ticks[i].Value)
		}
	}
	return ticks
}

// addCustom adds the custom series of opt to p, on a category y axis
// taken from the option's first y axis.
func addCustom(p *plot.Plot, opt *echarts.Option) error {
	var cats []string
	if len(opt.YAxis) > 0 {
		cats = opt.YAxis[0].Data
	}
	for i := range opt.Series {
		ip, err := newItemPlotter(&opt.Series[i], cats)
		if err != nil {
			return err
		}
		p.Add(ip)
	}
	if len(cats) > 0 {
		p.NominalY(cats...)
	}
	p.Add(plotter.NewGrid())

	if len(opt.XAxis) > 0 {
		applyAxis(&p.X, opt.XAxis[0])
	}
	for _, dz := range opt.DataZoom {
		if dz.Type != "slider" {
			continue
		}
		span := p.X.Max - p.X.Min
		min, max := p.X.Min, p.X.Max
		if dz.Start != nil {
			min = p.X.Min + span*(*dz.Start)/100
		}
		if dz.End != nil {
			max = p.X.Min + span*(*dz.End)/100
		}
		p.X.Min, p.X.Max = min, max
	}
	return nil
}
