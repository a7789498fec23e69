// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echarts

// A Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// A Rect is an axis-aligned rectangle in pixel space. Width and
// Height are non-negative for any Rect returned by this package.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// ClipRectByRect returns the intersection of target and bounds. It
// reports false if they do not intersect, in which case nothing of
// target should be drawn. Rectangles that merely touch bounds clip to
// a zero-sized rectangle and are kept.
func ClipRectByRect(target, bounds Rect) (Rect, bool) {
	x := max(target.X, bounds.X)
	x2 := min(target.X+target.Width, bounds.X+bounds.Width)
	y := max(target.Y, bounds.Y)
	y2 := min(target.Y+target.Height, bounds.Y+bounds.Height)
	if x2 < x || y2 < y {
		return Rect{}, false
	}
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}, true
}

// RenderParams describes the datum being drawn by a custom series.
type RenderParams struct {
	// DataIndex is the index of the datum in Series.Data.
	DataIndex int

	// CoordSys is the visible plot area of the coordinate system
	// in pixel space.
	CoordSys Rect
}

// A RenderAPI gives a render-item callback access to the current
// datum and to the engine's coordinate system. It is only valid for
// the duration of the callback.
type RenderAPI interface {
	// Value returns dimension dim of the current datum. For a
	// dimension mapped onto a category axis it returns the
	// category's index on that axis.
	Value(dim int) float64

	// Coord maps a point in data space to pixel space.
	Coord(x, y float64) Point

	// Size maps an extent in data space to pixel space. The
	// returned extents are non-negative.
	Size(dx, dy float64) Point

	// Style returns the series' item style with engine defaults
	// applied.
	Style() ItemStyle
}

// A RenderItemFunc draws one datum of a custom series. It returns nil
// to draw nothing.
type RenderItemFunc func(params RenderParams, api RenderAPI) *Shape

// ShapeRect is the only Shape type engines are required to draw.
const ShapeRect = "rect"

// A Shape is a graphic element returned by a RenderItemFunc.
type Shape struct {
	Type  string
	Rect  Rect
	Style ItemStyle
}

// DefaultItemStyle is applied by engines to fields a series leaves
// unset.
var DefaultItemStyle = ItemStyle{
	Opacity:     Float(1),
	Color:       "#ccd",
	BorderWidth: 1,
	BorderColor: "#000",
}

// WithDefaults returns s with unset fields taken from
// DefaultItemStyle.
func (s ItemStyle) WithDefaults() ItemStyle {
	if s.Opacity == nil {
		s.Opacity = DefaultItemStyle.Opacity
	}
	if s.Color == "" {
		s.Color = DefaultItemStyle.Color
	}
	if s.BorderWidth == 0 {
		s.BorderWidth = DefaultItemStyle.BorderWidth
	}
	if s.BorderColor == "" {
		s.BorderColor = DefaultItemStyle.BorderColor
	}
	return s
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
