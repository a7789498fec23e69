// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package echarts models the declarative configuration of an Apache
// ECharts chart and the contract between a chart builder and the
// engine that renders it.
//
// An Option is built once, handed to a Chart obtained from an Engine,
// and never modified afterwards. The JSON encoding of an Option is the
// ECharts 5 option schema, so an Option can be passed verbatim to
// chart.setOption in a browser. Function-valued settings, such as
// label formatters, are carried as Formatter and RenderItem values,
// which name a callback in the page runtime and also carry a Go
// implementation for engines that render on the server.
package echarts

// An Option is a complete chart configuration.
type Option struct {
	Title    *Title     `json:"title,omitempty"`
	Legend   *Legend    `json:"legend,omitempty"`
	Tooltip  *Tooltip   `json:"tooltip,omitempty"`
	Grid     *Grid      `json:"grid,omitempty"`
	XAxis    []Axis     `json:"xAxis,omitempty"`
	YAxis    []Axis     `json:"yAxis,omitempty"`
	DataZoom []DataZoom `json:"dataZoom,omitempty"`
	Series   []Series   `json:"series"`
	Dataset  []Dataset  `json:"dataset,omitempty"`
}

// A Title is the chart's title block.
type Title struct {
	Text    string `json:"text,omitempty"`
	Subtext string `json:"subtext,omitempty"`
	Left    string `json:"left,omitempty"`
}

// A Legend lists series names in display order.
type Legend struct {
	Data []string `json:"data"`
}

type Tooltip struct {
	Trigger     string       `json:"trigger,omitempty"`
	AxisPointer *AxisPointer `json:"axisPointer,omitempty"`
	Formatter   *Formatter   `json:"formatter,omitempty"`
}

type AxisPointer struct {
	Type string `json:"type"`
}

type Grid struct {
	Height int `json:"height,omitempty"`
}

// An Axis is one axis of a cartesian grid. A category axis either
// takes its categories from Data or, when Data is empty, from the
// values the series map onto it.
type Axis struct {
	Name         string     `json:"name,omitempty"`
	Type         string     `json:"type,omitempty"`
	NameLocation string     `json:"nameLocation,omitempty"`
	NameGap      int        `json:"nameGap,omitempty"`
	Min          *float64   `json:"min,omitempty"`
	Scale        bool       `json:"scale,omitempty"`
	AxisLabel    *AxisLabel `json:"axisLabel,omitempty"`
	Data         []string   `json:"data,omitempty"`
}

type AxisLabel struct {
	Formatter *Formatter `json:"formatter,omitempty"`
}

// A DataZoom is a zoom control on the x axis. Start and End are
// percentages of the full data range; nil means 0 and 100.
type DataZoom struct {
	Type            string       `json:"type"`
	FilterMode      string       `json:"filterMode,omitempty"`
	ShowDataShadow  *bool        `json:"showDataShadow,omitempty"`
	Top             int          `json:"top,omitempty"`
	Height          int          `json:"height,omitempty"`
	BorderColor     string       `json:"borderColor,omitempty"`
	BackgroundColor string       `json:"backgroundColor,omitempty"`
	HandleIcon      string       `json:"handleIcon,omitempty"`
	HandleSize      int          `json:"handleSize,omitempty"`
	HandleStyle     *HandleStyle `json:"handleStyle,omitempty"`
	LabelFormatter  *string      `json:"labelFormatter,omitempty"`
	Start           *float64     `json:"start,omitempty"`
	End             *float64     `json:"end,omitempty"`
}

type HandleStyle struct {
	ShadowBlur    int    `json:"shadowBlur,omitempty"`
	ShadowOffsetX int    `json:"shadowOffsetX,omitempty"`
	ShadowOffsetY int    `json:"shadowOffsetY,omitempty"`
	ShadowColor   string `json:"shadowColor,omitempty"`
}

// Series types understood by the engines in this module.
const (
	SeriesBar    = "bar"
	SeriesLine   = "line"
	SeriesCustom = "custom"
)

// A Series is one data series. Bar and line series draw from the
// dataset at DatasetIndex through Encode; custom series carry their
// own Data and draw each datum with RenderItem.
type Series struct {
	Name         string      `json:"name,omitempty"`
	Type         string      `json:"type"`
	Smooth       bool        `json:"smooth,omitempty"`
	Symbol       string      `json:"symbol,omitempty"`
	SymbolSize   int         `json:"symbolSize,omitempty"`
	LineStyle    *LineStyle  `json:"lineStyle,omitempty"`
	Label        *Label      `json:"label,omitempty"`
	ItemStyle    *ItemStyle  `json:"itemStyle,omitempty"`
	Encode       *Encode     `json:"encode,omitempty"`
	DatasetIndex int         `json:"datasetIndex"`
	RenderItem   *RenderItem `json:"renderItem,omitempty"`

	// Data holds one value tuple per datum. It is only used by
	// custom series.
	Data [][]interface{} `json:"data,omitempty"`
}

type Label struct {
	Show          bool       `json:"show"`
	Position      string     `json:"position,omitempty"`
	Rotate        int        `json:"rotate,omitempty"`
	Align         string     `json:"align,omitempty"`
	VerticalAlign string     `json:"verticalAlign,omitempty"`
	Formatter     *Formatter `json:"formatter,omitempty"`
}

// Line types for LineStyle.Type.
const (
	LineSolid  = "solid"
	LineDashed = "dashed"
	LineDotted = "dotted"
)

type LineStyle struct {
	Type string `json:"type"`
}

// An ItemStyle is the look of a custom series' shapes. A nil Opacity
// is unset; zero is transparent.
type ItemStyle struct {
	Opacity     *float64 `json:"opacity,omitempty"`
	Color       string   `json:"color,omitempty"`
	BorderWidth float64  `json:"borderWidth,omitempty"`
	BorderColor string   `json:"borderColor,omitempty"`
}

// An Encode maps dataset dimensions onto axes. Each field is a
// dimension name, a dimension index, or a slice of either.
type Encode struct {
	X interface{} `json:"x"`
	Y interface{} `json:"y"`
}

// A Dataset is a table of value tuples. Source is encoded as JSON and
// must encode to an array of arrays.
type Dataset struct {
	Dimensions []string    `json:"dimensions,omitempty"`
	Source     interface{} `json:"source"`
}

// Float returns a pointer to v, for optional numeric settings.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for optional boolean settings.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for optional string settings that
// may be empty.
func String(v string) *string { return &v }
