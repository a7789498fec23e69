// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements an HTTP server that charts build benchmark
// files. Construct an App with a data directory and call RegisterOnMux
// to connect it with an HTTP server.
package app

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/buildperf/buildchart"
	"golang.org/x/buildperf/buildfmt"
	"golang.org/x/buildperf/echarts"
	"golang.org/x/buildperf/echarts/htmlpage"
	"golang.org/x/buildperf/echarts/plotimg"
	"gonum.org/v1/plot/vg"
)

// App serves charts of the files in DataDir. Requests name files
// relative to DataDir and cannot reach outside it.
type App struct {
	DataDir string
}

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/", a.index)
	mux.HandleFunc("/parallel", a.parallel)
	mux.HandleFunc("/parallel/multi", a.parallelMulti)
	mux.HandleFunc("/execution", a.execution)
	mux.HandleFunc("/parallel.png", a.parallelPNG)
	mux.HandleFunc("/execution.png", a.executionPNG)
}

// chartID is the surface every response draws on.
const chartID = "chart"

// executionHeight fits the timeline grid and the zoom slider below it.
const executionHeight = "850px"

// errBadRequest marks errors caused by the request itself.
var errBadRequest = errors.New("bad request")

// A builder draws one chart on target of e.
type builder func(e echarts.Engine, target string, title echarts.Title) error

func (a *App) parallel(w http.ResponseWriter, r *http.Request) {
	a.servePage(w, r, htmlpage.DefaultHeight, a.parallelBuilder(r))
}

func (a *App) parallelPNG(w http.ResponseWriter, r *http.Request) {
	a.serveImage(w, r, 12*vg.Centimeter, a.parallelBuilder(r))
}

func (a *App) parallelMulti(w http.ResponseWriter, r *http.Request) {
	a.servePage(w, r, htmlpage.DefaultHeight, func(e echarts.Engine, target string, title echarts.Title) error {
		compilers, files := r.Form["compiler"], r.Form["data"]
		if len(files) > len(compilers) {
			return fmt.Errorf("%w: %d data files for %d compilers", errBadRequest, len(files), len(compilers))
		}
		var seq []interface{}
		for i, c := range compilers {
			seq = append(seq, c)
			if i < len(files) {
				rows, err := a.readRows(files[i])
				if err != nil {
					return err
				}
				seq = append(seq, rows)
			}
		}
		return buildchart.ParallelBuildMulti(e, target, title, seq...)
	})
}

func (a *App) execution(w http.ResponseWriter, r *http.Request) {
	a.servePage(w, r, executionHeight, a.executionBuilder(r))
}

func (a *App) executionPNG(w http.ResponseWriter, r *http.Request) {
	a.serveImage(w, r, 20*vg.Centimeter, a.executionBuilder(r))
}

func (a *App) parallelBuilder(r *http.Request) builder {
	return func(e echarts.Engine, target string, title echarts.Title) error {
		rows, err := a.readRows(r.Form.Get("data"))
		if err != nil {
			return err
		}
		return buildchart.ParallelBuild(e, target, title, rows)
	}
}

func (a *App) executionBuilder(r *http.Request) builder {
	return func(e echarts.Engine, target string, title echarts.Title) error {
		ivs, err := a.readIntervals(r.Form.Get("data"))
		if err != nil {
			return err
		}
		return buildchart.Execution(e, target, title, ivs)
	}
}

// servePage responds with an HTML page holding the chart drawn by b.
func (a *App) servePage(w http.ResponseWriter, r *http.Request, height string, b builder) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	title := requestTitle(r)
	page := htmlpage.New(title.Text)
	if err := page.AddSurface(chartID, htmlpage.DefaultWidth, height); err != nil {
		panic(err)
	}
	if err := b(page, chartID, title); err != nil {
		httpError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httpError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// serveImage responds with a PNG of the chart drawn by b.
func (a *App) serveImage(w http.ResponseWriter, r *http.Request, height vg.Length, b builder) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sink := make(memSink)
	e := plotimg.New(sink, chartID)
	e.Height = height
	if err := b(e, chartID, requestTitle(r)); err != nil {
		httpError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(sink[chartID+".png"].Bytes())
}

func requestTitle(r *http.Request) echarts.Title {
	return echarts.Title{Text: r.Form.Get("title"), Subtext: r.Form.Get("subtitle")}
}

// httpError reports err with a status code chosen by its cause.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	var syntax *buildfmt.SyntaxError
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, buildfmt.ErrInvalidValue),
		errors.Is(err, buildchart.ErrOddCompilerData),
		errors.Is(err, echarts.ErrUnsupported),
		errors.As(err, &syntax):
		code = http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		code = http.StatusNotFound
	}
	if code == http.StatusInternalServerError {
		log.Printf("%s: %v", r.URL, err)
	}
	http.Error(w, err.Error(), code)
}

// dataPath returns the path of data file name, which must lie within
// the data directory.
func (a *App) dataPath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: missing data parameter", errBadRequest)
	}
	clean := path.Clean(name)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(name, `\`) {
		return "", fmt.Errorf("%w: data file %q outside data directory", errBadRequest, name)
	}
	return filepath.Join(a.DataDir, filepath.FromSlash(clean)), nil
}

func (a *App) readRows(name string) ([]buildfmt.Row, error) {
	p, err := a.dataPath(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return buildfmt.ReadRows(f, name)
}

func (a *App) readIntervals(name string) ([]buildfmt.Interval, error) {
	p, err := a.dataPath(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return buildfmt.ReadIntervals(f, name)
}

// memSink holds rendered images in memory.
type memSink map[string]*bytes.Buffer

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func (s memSink) Create(name string) (io.WriteCloser, error) {
	b := new(bytes.Buffer)
	s[name] = b
	return nopCloser{b}, nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Build performance data</title></head>
<body>
<h1>Build performance data</h1>
{{if .}}<ul>
{{range .}}<li>{{.}}: <a href="/parallel?data={{.}}">parallel build</a>, <a href="/execution?data={{.}}">execution</a></li>
{{end}}</ul>{{else}}<p>No data files.</p>{{end}}
</body>
</html>
`))

// index lists the JSON files of the data directory.
func (a *App) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	var names []string
	err := filepath.WalkDir(a.DataDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".json") {
			rel, err := filepath.Rel(a.DataDir, p)
			if err != nil {
				return err
			}
			names = append(names, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		httpError(w, r, err)
		return
	}
	sort.Strings(names)
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, names); err != nil {
		panic(err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
