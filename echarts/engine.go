// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echarts

import "errors"

// ErrSurfaceNotFound is returned by Engine.Init when the engine has no
// surface with the requested identifier.
var ErrSurfaceNotFound = errors.New("surface not found")

// ErrUnsupported is returned by an engine asked to draw an option it
// cannot represent.
var ErrUnsupported = errors.New("unsupported by engine")

// An Engine renders charts onto named surfaces, such as the elements
// of an HTML page or the files of an output directory.
type Engine interface {
	// Init returns the chart mounted on surface target, creating
	// it if necessary.
	Init(target string) (Chart, error)
}

// A Chart is a chart mounted on one surface.
type Chart interface {
	// SetOption replaces the chart's configuration entirely. On
	// error the surface keeps its previous chart.
	SetOption(opt *Option) error
}

// Mount initializes target on e and sets opt on it. The option is
// validated first, so an invalid option never reaches the engine.
func Mount(e Engine, target string, opt *Option) error {
	if err := opt.Validate(); err != nil {
		return err
	}
	c, err := e.Init(target)
	if err != nil {
		return err
	}
	return c.SetOption(opt)
}
