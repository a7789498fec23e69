// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buildchart

import (
	"sort"
	"strconv"

	"github.com/aclements/go-gg/generic/slice"
	"golang.org/x/buildperf/buildfmt"
	"golang.org/x/buildperf/echarts"
)

// bandRatio is the fraction of a category's height filled by an
// interval bar.
const bandRatio = 0.4

// handleIcon is the SVG path of the zoom slider handles.
const handleIcon = "M10.7,11.9H9.3c-4.9,0.3-8.8,4.4-8.8,9.4c0,5,3.9,9.1,8.8,9.4h1.3c4.9-0.3,8.8-4.4,8.8-9.4C19.5,16.3,15.6,12.2,10.7,11.9z M13.3,24.4H6.7v-1.2h6.6z M13.3,22H6.7v-1.2h6.6z M13.3,19.6H6.7v-1.2h6.6z"

// ExecutionCategories returns the distinct categories of intervals,
// sorted in descending order. Categories are compared as numbers if
// all of them parse as numbers, and as strings otherwise. Categories
// that compare equal keep their first-seen order.
func ExecutionCategories(intervals []buildfmt.Interval) []string {
	cats := make([]string, len(intervals))
	for i, iv := range intervals {
		cats[i] = iv.Category
	}
	cats = slice.Nub(cats).([]string)

	vals := make([]float64, len(cats))
	for i, c := range cats {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			sort.Stable(sort.Reverse(slice.Sorter(cats)))
			return cats
		}
		vals[i] = v
	}
	sort.Stable(numericDesc{cats, vals})
	return cats
}

type numericDesc struct {
	cats []string
	vals []float64
}

func (s numericDesc) Len() int           { return len(s.cats) }
func (s numericDesc) Less(i, j int) bool { return s.vals[i] > s.vals[j] }
func (s numericDesc) Swap(i, j int) {
	s.cats[i], s.cats[j] = s.cats[j], s.cats[i]
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
}

// RenderExecutionItem draws one interval of an execution timeline: a
// horizontal bar from value[1] to value[2] on the category at index
// value[0], filling bandRatio of the category's height, clipped to the
// visible plot area. Intervals entirely outside the plot area are not
// drawn.
func RenderExecutionItem(params echarts.RenderParams, api echarts.RenderAPI) *echarts.Shape {
	category := api.Value(0)
	start := api.Coord(api.Value(1), category)
	end := api.Coord(api.Value(2), category)
	height := api.Size(0, 1).Y * bandRatio

	rect, ok := echarts.ClipRectByRect(echarts.Rect{
		X:      start.X,
		Y:      start.Y - height/2,
		Width:  end.X - start.X,
		Height: height,
	}, params.CoordSys)
	if !ok {
		return nil
	}
	return &echarts.Shape{Type: echarts.ShapeRect, Rect: rect, Style: api.Style()}
}

// ExecutionOption returns a timeline of intervals, one lane per
// category, with a zoom slider and in-canvas zoom on the time axis.
func ExecutionOption(title echarts.Title, intervals []buildfmt.Interval) (*echarts.Option, error) {
	if err := buildfmt.ValidateIntervals(intervals); err != nil {
		return nil, err
	}

	data := make([][]interface{}, len(intervals))
	for i, iv := range intervals {
		data[i] = iv.Tuple()
	}

	return &echarts.Option{
		Title: &title,
		Tooltip: &echarts.Tooltip{
			Formatter: &echarts.Formatter{
				Func:   echarts.FuncSuffix,
				Args:   []interface{}{3, " s"},
				Format: durationLabel,
			},
		},
		DataZoom: []echarts.DataZoom{{
			Type:            "slider",
			FilterMode:      "weakFilter",
			ShowDataShadow:  echarts.Bool(false),
			Top:             800,
			Height:          10,
			BorderColor:     "transparent",
			BackgroundColor: "#e2e2e2",
			HandleIcon:      handleIcon,
			HandleSize:      20,
			HandleStyle: &echarts.HandleStyle{
				ShadowBlur:    6,
				ShadowOffsetX: 1,
				ShadowOffsetY: 2,
				ShadowColor:   "#aaa",
			},
			LabelFormatter: echarts.String(""),
		}, {
			Type:       "inside",
			FilterMode: "weakFilter",
		}},
		Grid: &echarts.Grid{Height: 700},
		XAxis: []echarts.Axis{{
			Type:  "value",
			Min:   echarts.Float(0),
			Scale: true,
			AxisLabel: &echarts.AxisLabel{
				Formatter: &echarts.Formatter{
					Func:   echarts.FuncAppend,
					Args:   []interface{}{" s"},
					Format: secondsLabel,
				},
			},
		}},
		YAxis: []echarts.Axis{{
			Type: "category",
			Data: ExecutionCategories(intervals),
		}},
		Series: []echarts.Series{{
			Type: echarts.SeriesCustom,
			RenderItem: &echarts.RenderItem{
				Func:   echarts.FuncIntervalRect,
				Args:   []interface{}{bandRatio},
				Render: RenderExecutionItem,
			},
			ItemStyle: &echarts.ItemStyle{
				Opacity:     echarts.Float(1),
				Color:       "#ccd",
				BorderWidth: 1,
				BorderColor: "#000",
			},
			Encode: &echarts.Encode{X: []int{1, 2}, Y: 0},
			Data:   data,
		}},
	}, nil
}

// Execution mounts the chart of ExecutionOption on target.
func Execution(e echarts.Engine, target string, title echarts.Title, intervals []buildfmt.Interval) error {
	opt, err := ExecutionOption(title, intervals)
	if err != nil {
		return err
	}
	return echarts.Mount(e, target, opt)
}

func durationLabel(value interface{}) string {
	t, ok := value.([]interface{})
	if !ok || len(t) < 4 {
		return ""
	}
	return numberText(t[3]) + " s"
}

func secondsLabel(value interface{}) string {
	return numberText(value) + " s"
}

// numberText prints a number the shortest way that reads back
// exactly, as a browser would.
func numberText(v interface{}) string {
	f, ok := echarts.Number(v)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
