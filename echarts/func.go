// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echarts

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Names of the callbacks provided by the page runtime. See
// echarts/htmlpage for their JavaScript definitions.
const (
	// FuncFixed(dim, digits) formats value[dim] with a fixed number
	// of digits after the decimal point.
	FuncFixed = "fixed"
	// FuncSuffix(dim, suffix) formats value[dim] followed by suffix.
	FuncSuffix = "suffix"
	// FuncAppend(suffix) formats an axis value followed by suffix.
	FuncAppend = "append"
	// FuncIntervalRect(band) draws value[1]..value[2] as a bar on
	// category value[0], band times the category height.
	FuncIntervalRect = "intervalRect"
)

// A Formatter is a function-valued formatter setting.
//
// In a browser, Func names a callback in the page runtime, which is
// called with Args to produce the formatter function. Format is the
// equivalent Go implementation. Item formatters receive the datum's
// value tuple as a []interface{}; axis formatters receive the axis
// value as a float64.
type Formatter struct {
	Func   string
	Args   []interface{}
	Format func(value interface{}) string
}

// MarshalJSON encodes f as {"$fn": Func, "args": Args}, which the page
// runtime replaces with a function before calling setOption.
func (f *Formatter) MarshalJSON() ([]byte, error) {
	return marshalFunc(f.Func, f.Args)
}

// A RenderItem is the drawing callback of a custom series. Func and
// Args name the page runtime implementation; Render is the Go one.
type RenderItem struct {
	Func   string
	Args   []interface{}
	Render RenderItemFunc
}

func (r *RenderItem) MarshalJSON() ([]byte, error) {
	return marshalFunc(r.Func, r.Args)
}

func marshalFunc(name string, args []interface{}) ([]byte, error) {
	if args == nil {
		args = []interface{}{}
	}
	return json.Marshal(struct {
		Func string        `json:"$fn"`
		Args []interface{} `json:"args"`
	}{name, args})
}

// FormatFixed formats v with exactly digits digits after the decimal
// point, like JavaScript's Number.prototype.toFixed: the exact binary
// value of v is rounded to nearest, with halves away from zero. So
// 0.15, which is stored just below 0.15, formats as "0.1" and 12.75
// as "12.8". Negative zero prints as zero. Non-finite values print as
// strconv does.
func FormatFixed(v float64, digits int) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', digits, 64)
	}
	s := new(big.Rat).SetFloat64(v).FloatString(digits)
	if s[0] == '-' && strings.Trim(s, "-0.") == "" {
		s = s[1:]
	}
	return s
}

// Number converts a value taken from an option or a decoded dataset
// to a float64. It reports false for anything that is not a finite
// number.
func Number(v interface{}) (float64, bool) {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		var err error
		if f, err = v.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(v, 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
