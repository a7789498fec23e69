// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echarts

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClipRectByRect(t *testing.T) {
	bounds := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	tests := []struct {
		name   string
		target Rect
		want   Rect
		ok     bool
	}{
		{"inside", Rect{20, 30, 40, 10}, Rect{20, 30, 40, 10}, true},
		{"left overhang", Rect{0, 30, 40, 10}, Rect{10, 30, 30, 10}, true},
		{"right overhang", Rect{100, 30, 40, 10}, Rect{100, 30, 10, 10}, true},
		{"covers", Rect{0, 0, 500, 500}, bounds, true},
		{"touching right edge", Rect{110, 30, 5, 10}, Rect{110, 30, 0, 10}, true},
		{"left of bounds", Rect{-50, 30, 40, 10}, Rect{}, false},
		{"right of bounds", Rect{200, 30, 40, 10}, Rect{}, false},
		{"below bounds", Rect{20, 90, 40, 10}, Rect{}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := ClipRectByRect(test.target, bounds)
			if ok != test.ok || got != test.want {
				t.Errorf("ClipRectByRect(%v) = %v, %v, want %v, %v", test.target, got, ok, test.want, test.ok)
			}
		})
	}
}

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{2.34, "2.3"},
		{1.11, "1.1"},
		{4, "4.0"},
		{0.96, "1.0"},
		{1234567.89, "1234567.9"},
		// Decimal halves that are not exact in binary round to the
		// nearer side of their stored value.
		{0.15, "0.1"},
		{0.35, "0.3"},
		{1.15, "1.1"},
		{2.35, "2.4"},
		// Exact halves round away from zero.
		{0.25, "0.3"},
		{12.75, "12.8"},
		{-12.75, "-12.8"},
		{-0.04, "0.0"},
		{math.Copysign(0, -1), "0.0"},
	}
	for _, test := range tests {
		if got := FormatFixed(test.v, 1); got != test.want {
			t.Errorf("FormatFixed(%v, 1) = %q, want %q", test.v, got, test.want)
		}
	}

	s := FormatFixed(1.7e308, 1)
	if !strings.HasSuffix(s, ".0") || len(s) != 311 {
		t.Errorf("FormatFixed(1.7e308, 1) = %q, want 309 integer digits and one decimal", s)
	}
	if f, err := strconv.ParseFloat(s, 64); err != nil || f != 1.7e308 {
		t.Errorf("ParseFloat(FormatFixed(1.7e308, 1)) = %v, %v", f, err)
	}
}

// exactTie reports whether v lies exactly halfway between two
// one-decimal numbers.
func exactTie(v float64) bool {
	r := new(big.Rat).Mul(new(big.Rat).SetFloat64(v), big.NewRat(10, 1))
	return r.Denom().Cmp(big.NewInt(2)) == 0
}

func TestFormatFixedProperty(t *testing.T) {
	limit := big.NewRat(1, 20)
	check := func(v float64) {
		s := FormatFixed(v, 1)
		dot := strings.IndexByte(s, '.')
		if dot < 0 || len(s)-dot-1 != 1 {
			t.Fatalf("FormatFixed(%v) = %q, want one digit after the point", v, s)
		}
		if exactTie(v) {
			return
		}
		f, ok := new(big.Rat).SetString(s)
		if !ok {
			t.Fatalf("FormatFixed(%v) = %q, not a number", v, s)
		}
		d := f.Sub(f, new(big.Rat).SetFloat64(v))
		if d.Abs(d).Cmp(limit) >= 0 {
			t.Fatalf("FormatFixed(%v) = %q, off by %s", v, s, d.FloatString(20))
		}
	}
	for i := 0; i <= 10000; i++ {
		check(float64(i) / 100)
		check(-float64(i) / 100)
	}
	for i := -2000; i <= 2000; i++ {
		check(float64(i) * 0.0137)
	}
}

type tuple struct{ a, b float64 }

func (t tuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{t.a, t.b})
}

func TestSeriesPoints(t *testing.T) {
	opt := &Option{
		Series: []Series{
			{Name: "by name", Type: SeriesBar, Encode: &Encode{X: "depth", Y: "time"}},
			{Name: "by header", Type: SeriesLine, Encode: &Encode{X: "d", Y: "t"}, DatasetIndex: 1},
			{Name: "by index", Type: SeriesLine, Encode: &Encode{X: 0, Y: 1}},
		},
		Dataset: []Dataset{
			{Dimensions: []string{"depth", "time"}, Source: []tuple{{1, 2.5}, {2, 3}}},
			{Source: [][]interface{}{{"d", "t"}, {5, 1.25}}},
		},
	}
	if err := opt.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	p, err := opt.SeriesPoints(0)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1", "2"}, p.X); diff != "" {
		t.Errorf("X mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2.5, 3}, p.Y); diff != "" {
		t.Errorf("Y mismatch (-want +got):\n%s", diff)
	}

	p, err = opt.SeriesPoints(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.X) != 1 || p.X[0] != "5" || p.Y[0] != 1.25 {
		t.Errorf("header dataset resolved to %v %v", p.X, p.Y)
	}

	p, err = opt.SeriesPoints(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Values) != 2 || p.Values[1][1] != json.Number("3") {
		t.Errorf("Values = %v", p.Values)
	}
}

func TestValidateErrors(t *testing.T) {
	ds := []Dataset{{Dimensions: []string{"x", "y"}, Source: [][]interface{}{{1, 2}}}}
	tests := []struct {
		name string
		opt  *Option
		msg  string
	}{
		{"bad dataset index",
			&Option{Series: []Series{{Type: SeriesBar, Encode: &Encode{X: "x", Y: "y"}, DatasetIndex: 1}}, Dataset: ds},
			"datasetIndex 1 out of range"},
		{"unknown dimension",
			&Option{Series: []Series{{Type: SeriesLine, Encode: &Encode{X: "x", Y: "z"}}}, Dataset: ds},
			`unknown dimension "z"`},
		{"no encode",
			&Option{Series: []Series{{Type: SeriesLine}}, Dataset: ds},
			"no encode"},
		{"non-numeric value",
			&Option{Series: []Series{{Type: SeriesLine, Encode: &Encode{X: "x", Y: "y"}}},
				Dataset: []Dataset{{Dimensions: []string{"x", "y"}, Source: [][]interface{}{{1, "NaN"}}}}},
			"not a finite number"},
		{"custom without renderItem",
			&Option{Series: []Series{{Type: SeriesCustom}}},
			"without renderItem"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.opt.Validate()
			if err == nil || !strings.Contains(err.Error(), test.msg) {
				t.Errorf("Validate = %v, want error containing %q", err, test.msg)
			}
		})
	}
}

func TestFuncMarshal(t *testing.T) {
	opt := Option{
		Tooltip: &Tooltip{Formatter: &Formatter{Func: FuncSuffix, Args: []interface{}{3, " s"}}},
		Series: []Series{{
			Type:       SeriesCustom,
			RenderItem: &RenderItem{Func: FuncIntervalRect, Args: []interface{}{0.4}},
		}},
	}
	b, err := json.Marshal(opt)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"tooltip":{"formatter":{"$fn":"suffix","args":[3," s"]}},` +
		`"series":[{"type":"custom","datasetIndex":0,"renderItem":{"$fn":"intervalRect","args":[0.4]}}]}`
	if string(b) != want {
		t.Errorf("Marshal =\n%s\nwant\n%s", b, want)
	}
}

type fakeEngine struct {
	charts map[string]*fakeChart
}

type fakeChart struct{ opt *Option }

func (c *fakeChart) SetOption(opt *Option) error {
	c.opt = opt
	return nil
}

func (e *fakeEngine) Init(target string) (Chart, error) {
	c, ok := e.charts[target]
	if !ok {
		return nil, ErrSurfaceNotFound
	}
	return c, nil
}

func TestMount(t *testing.T) {
	c := &fakeChart{}
	e := &fakeEngine{charts: map[string]*fakeChart{"main": c}}

	opt := &Option{Series: []Series{}}
	if err := Mount(e, "main", opt); err != nil {
		t.Fatal(err)
	}
	if c.opt != opt {
		t.Errorf("option not set on chart")
	}

	if err := Mount(e, "missing", opt); !errors.Is(err, ErrSurfaceNotFound) {
		t.Errorf("Mount(missing) = %v, want ErrSurfaceNotFound", err)
	}

	bad := &Option{Series: []Series{{Type: SeriesCustom}}}
	if err := Mount(e, "main", bad); err == nil {
		t.Errorf("Mount(invalid) succeeded")
	}
	if c.opt != opt {
		t.Errorf("invalid option replaced the mounted chart")
	}
}

func TestWithDefaults(t *testing.T) {
	tests := []struct {
		style, want ItemStyle
	}{
		{ItemStyle{Color: "#f00"}, ItemStyle{Opacity: Float(1), Color: "#f00", BorderWidth: 1, BorderColor: "#000"}},
		{ItemStyle{Opacity: Float(0)}, ItemStyle{Opacity: Float(0), Color: "#ccd", BorderWidth: 1, BorderColor: "#000"}},
		{ItemStyle{Opacity: Float(0.5), BorderWidth: 2}, ItemStyle{Opacity: Float(0.5), Color: "#ccd", BorderWidth: 2, BorderColor: "#000"}},
	}
	for _, test := range tests {
		if diff := cmp.Diff(test.want, test.style.WithDefaults()); diff != "" {
			t.Errorf("%+v.WithDefaults() mismatch (-want +got):\n%s", test.style, diff)
		}
	}

	b, err := json.Marshal(ItemStyle{Opacity: Float(0)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"opacity":0}` {
		t.Errorf("transparent style encodes as %s", b)
	}
}
