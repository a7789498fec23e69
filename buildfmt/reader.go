// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buildfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// A SyntaxError reports a malformed entry in a data file.
type SyntaxError struct {
	FileName string
	Entry    int // index in the top-level array, or -1 for the whole file
	Msg      string
	Err      error // underlying error, if any
}

func (e *SyntaxError) Error() string {
	if e.Entry < 0 {
		return fmt.Sprintf("%s: %s", e.FileName, e.Msg)
	}
	return fmt.Sprintf("%s: entry %d: %s", e.FileName, e.Entry, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// ReadRows reads a benchmark table from r. fileName is used in error
// messages; it is purely diagnostic.
//
// The input is a JSON array. Its first element may be a header row of
// dimension names, as in
//
//	[["dag_depth", "headers", "modules"], [2, 1.5, 0.9], [3, 2.25, 1.1]]
//
// in which case the header selects the columns of the following rows.
// Without a header, rows are in RowDimensions order. Entries may also
// be objects keyed by dimension name. Rows are returned in input order.
func ReadRows(r io.Reader, fileName string) ([]Row, error) {
	entries, err := decodeArray(r, fileName)
	if err != nil {
		return nil, err
	}

	cols := map[string]int{DimDAGDepth: 0, DimHeaders: 1, DimModules: 2}
	var rows []Row
	for i, e := range entries {
		switch e := e.(type) {
		case []interface{}:
			if i == 0 && isHeader(e) {
				cols = make(map[string]int)
				for j, name := range e {
					cols[name.(string)] = j
				}
				for _, dim := range RowDimensions {
					if _, ok := cols[dim]; !ok {
						return nil, &SyntaxError{fileName, i, fmt.Sprintf("header lacks %q", dim), nil}
					}
				}
				continue
			}
			get := func(dim string) (interface{}, bool) {
				j := cols[dim]
				if j >= len(e) {
					return nil, false
				}
				return e[j], true
			}
			row, err := makeRow(get)
			if err != nil {
				return nil, &SyntaxError{fileName, i, err.Error(), err}
			}
			rows = append(rows, row)

		case map[string]interface{}:
			get := func(dim string) (interface{}, bool) {
				v, ok := e[dim]
				return v, ok
			}
			row, err := makeRow(get)
			if err != nil {
				return nil, &SyntaxError{fileName, i, err.Error(), err}
			}
			rows = append(rows, row)

		default:
			return nil, &SyntaxError{fileName, i, fmt.Sprintf("want array or object, got %T", e), nil}
		}
	}
	return rows, nil
}

// ReadIntervals reads execution intervals from r. fileName is used in
// error messages; it is purely diagnostic.
//
// The input is a JSON array of [category, start, end, duration]
// tuples. The category may be a number or a string. If duration is
// omitted it is end - start.
func ReadIntervals(r io.Reader, fileName string) ([]Interval, error) {
	entries, err := decodeArray(r, fileName)
	if err != nil {
		return nil, err
	}

	var out []Interval
	for i, e := range entries {
		t, ok := e.([]interface{})
		if !ok || len(t) < 3 || len(t) > 4 {
			return nil, &SyntaxError{fileName, i, "want [category, start, end, duration]", nil}
		}
		var iv Interval
		switch c := t[0].(type) {
		case string:
			iv.Category = c
		case json.Number:
			iv.Category = c.String()
		default:
			return nil, &SyntaxError{fileName, i, fmt.Sprintf("category has type %T", t[0]), nil}
		}
		fields := []*float64{&iv.Start, &iv.End, &iv.Duration}
		for j, v := range t[1:] {
			f, err := toFloat(v)
			if err != nil {
				return nil, &SyntaxError{fileName, i, err.Error(), err}
			}
			*fields[j] = f
		}
		if len(t) == 3 {
			iv.Duration = iv.End - iv.Start
		}
		if err := iv.Validate(); err != nil {
			return nil, &SyntaxError{fileName, i, err.Error(), err}
		}
		out = append(out, iv)
	}
	return out, nil
}

// ReadRowsFile is like ReadRows, but reads the named file.
func ReadRowsFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRows(f, path)
}

// ReadIntervalsFile is like ReadIntervals, but reads the named file.
func ReadIntervalsFile(path string) ([]Interval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadIntervals(f, path)
}

func decodeArray(r io.Reader, fileName string) ([]interface{}, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var entries []interface{}
	if err := dec.Decode(&entries); err != nil {
		return nil, &SyntaxError{fileName, -1, err.Error(), err}
	}
	return entries, nil
}

func isHeader(e []interface{}) bool {
	if len(e) == 0 {
		return false
	}
	for _, v := range e {
		if _, ok := v.(string); !ok {
			return false
		}
		if _, err := strconv.ParseFloat(v.(string), 64); err == nil {
			return false
		}
	}
	return true
}

func makeRow(get func(dim string) (interface{}, bool)) (Row, error) {
	var row Row
	for _, dim := range RowDimensions {
		v, ok := get(dim)
		if !ok {
			return Row{}, fmt.Errorf("missing %s", dim)
		}
		f, err := toFloat(v)
		if err != nil {
			return Row{}, fmt.Errorf("%s: %w", dim, err)
		}
		switch dim {
		case DimDAGDepth:
			if f != math.Trunc(f) {
				return Row{}, fmt.Errorf("%s %v is not an integer: %w", dim, f, ErrInvalidValue)
			}
			row.DAGDepth = int(f)
		case DimHeaders:
			row.Headers = f
		case DimModules:
			row.Modules = f
		}
	}
	return row, row.Validate()
}

// toFloat converts a decoded JSON value to a finite float64. Numeric
// strings are accepted, since the driver's consumers parse them too.
func toFloat(v interface{}) (float64, error) {
	var f float64
	switch v := v.(type) {
	case json.Number:
		var err error
		if f, err = v.Float64(); err != nil {
			return 0, fmt.Errorf("%q: %w", v, ErrInvalidValue)
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(v, 64); err != nil {
			return 0, fmt.Errorf("%q: %w", v, ErrInvalidValue)
		}
	default:
		return 0, fmt.Errorf("%v: %w", v, ErrInvalidValue)
	}
	if !finite(f) {
		return 0, fmt.Errorf("%v: %w", f, ErrInvalidValue)
	}
	return f, nil
}
