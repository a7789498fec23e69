// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buildfmt

import (
	"encoding/json"
	"fmt"
)

// An Interval is the execution window of one item, such as the
// compilation of a translation unit, on a timeline.
type Interval struct {
	// Category is the timeline lane the item ran on, for example
	// a job slot. Numeric lanes are kept in their literal form.
	Category string

	// Start and End are offsets, in seconds, from the start of
	// the build.
	Start, End float64

	// Duration is the label shown for the item, in seconds.
	Duration float64
}

// Validate returns an error wrapping ErrInvalidValue if any time is
// NaN or infinite.
func (iv Interval) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"start", iv.Start}, {"end", iv.End}, {"duration", iv.Duration}} {
		if !finite(f.v) {
			return fmt.Errorf("%s is %v: %w", f.name, f.v, ErrInvalidValue)
		}
	}
	return nil
}

// MarshalJSON encodes iv as the tuple [category, start, end, duration].
func (iv Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{iv.Category, iv.Start, iv.End, iv.Duration})
}

// Tuple returns iv as the values of its tuple encoding.
func (iv Interval) Tuple() []interface{} {
	return []interface{}{iv.Category, iv.Start, iv.End, iv.Duration}
}

// ValidateIntervals validates each interval, reporting the first
// failure with its index.
func ValidateIntervals(intervals []Interval) error {
	for i, iv := range intervals {
		if err := iv.Validate(); err != nil {
			return fmt.Errorf("interval %d (%s): %w", i, iv.Category, err)
		}
	}
	return nil
}
