// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echarts

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SeriesPoints is a bar or line series resolved against its dataset.
type SeriesPoints struct {
	X      []string        // category of each point
	Y      []float64       // value of each point
	Values [][]interface{} // full value tuple of each point
}

// SeriesPoints resolves series i through its dataset and encoding, the
// way a browser engine sees them: the dataset source is taken from its
// JSON encoding, and numbers in Values are json.Numbers.
func (o *Option) SeriesPoints(i int) (*SeriesPoints, error) {
	if i < 0 || i >= len(o.Series) {
		return nil, fmt.Errorf("series %d out of range", i)
	}
	s := &o.Series[i]
	if s.Encode == nil {
		return nil, fmt.Errorf("series %d (%s): no encode", i, s.Name)
	}
	if s.DatasetIndex < 0 || s.DatasetIndex >= len(o.Dataset) {
		return nil, fmt.Errorf("series %d (%s): datasetIndex %d out of range [0,%d)", i, s.Name, s.DatasetIndex, len(o.Dataset))
	}
	dims, rows, err := o.Dataset[s.DatasetIndex].decode()
	if err != nil {
		return nil, fmt.Errorf("dataset %d: %w", s.DatasetIndex, err)
	}
	xi, err := dimIndex(dims, s.Encode.X)
	if err != nil {
		return nil, fmt.Errorf("series %d (%s): x: %w", i, s.Name, err)
	}
	yi, err := dimIndex(dims, s.Encode.Y)
	if err != nil {
		return nil, fmt.Errorf("series %d (%s): y: %w", i, s.Name, err)
	}

	p := &SeriesPoints{Values: rows}
	for j, row := range rows {
		if xi >= len(row) || yi >= len(row) {
			return nil, fmt.Errorf("dataset %d row %d: has %d values", s.DatasetIndex, j, len(row))
		}
		y, ok := Number(row[yi])
		if !ok {
			return nil, fmt.Errorf("dataset %d row %d: %v is not a finite number", s.DatasetIndex, j, row[yi])
		}
		p.X = append(p.X, fmt.Sprint(row[xi]))
		p.Y = append(p.Y, y)
	}
	return p, nil
}

// Validate checks that every series of o can be drawn: bar and line
// series must resolve against their datasets, and custom series must
// have a render item.
func (o *Option) Validate() error {
	for i, s := range o.Series {
		switch s.Type {
		case SeriesBar, SeriesLine:
			if _, err := o.SeriesPoints(i); err != nil {
				return err
			}
		case SeriesCustom:
			if s.RenderItem == nil || (s.RenderItem.Func == "" && s.RenderItem.Render == nil) {
				return fmt.Errorf("series %d (%s): custom series without renderItem", i, s.Name)
			}
		case "":
			return fmt.Errorf("series %d (%s): no type", i, s.Name)
		}
	}
	return nil
}

// decode returns the dimension names and value tuples of d. If d has
// no Dimensions and its first tuple is all strings, that tuple is the
// header.
func (d *Dataset) decode() (dims []string, rows [][]interface{}, err error) {
	b, err := json.Marshal(d.Source)
	if err != nil {
		return nil, nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw []interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("source is not an array: %v", err)
	}
	for j, r := range raw {
		t, ok := r.([]interface{})
		if !ok {
			return nil, nil, fmt.Errorf("source row %d is %T, not an array", j, r)
		}
		rows = append(rows, t)
	}
	dims = d.Dimensions
	if len(dims) == 0 && len(rows) > 0 && allStrings(rows[0]) {
		for _, v := range rows[0] {
			dims = append(dims, v.(string))
		}
		rows = rows[1:]
	}
	return dims, rows, nil
}

func allStrings(t []interface{}) bool {
	for _, v := range t {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return len(t) > 0
}

// dimIndex resolves one Encode entry, a dimension name or index, to a
// tuple index.
func dimIndex(dims []string, enc interface{}) (int, error) {
	switch v := enc.(type) {
	case string:
		for i, d := range dims {
			if d == v {
				return i, nil
			}
		}
		return 0, fmt.Errorf("unknown dimension %q", v)
	case int:
		if v < 0 {
			return 0, fmt.Errorf("negative dimension %d", v)
		}
		return v, nil
	}
	return 0, fmt.Errorf("cannot resolve dimension %v (%T)", enc, enc)
}

// DimIndexes resolves an Encode entry that may name several dimensions,
// such as the [1, 2] start/end pair of a custom series.
func DimIndexes(dims []string, enc interface{}) ([]int, error) {
	var encs []interface{}
	switch v := enc.(type) {
	case []int:
		for _, d := range v {
			encs = append(encs, d)
		}
	case []string:
		for _, d := range v {
			encs = append(encs, d)
		}
	case []interface{}:
		encs = v
	default:
		encs = []interface{}{enc}
	}
	var out []int
	for _, e := range encs {
		i, err := dimIndex(dims, e)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}
