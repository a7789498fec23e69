// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Buildchart draws charts of build benchmark results.
//
// Usage:
//
//	buildchart [flags] parallel rows.json
//	buildchart [flags] multi name rows.json [name rows.json...]
//	buildchart [flags] execution intervals.json
//
// The parallel chart compares non-modular and modular build times per
// DAG depth for one compiler as bars. The multi chart draws the same
// comparison as lines for several compilers, one dataset per compiler.
// The execution chart is a timeline of intervals, one lane per
// category, with a zoom slider on the time axis.
//
// A rows file is a JSON array of [dag_depth, headers, modules] rows,
// optionally preceded by a header row naming the columns, as written by
// the build benchmark driver:
//
//	[["dag_depth", "headers", "modules"], [1, 2.34, 1.11], [2, 4.0, 2.0]]
//
// An intervals file is a JSON array of [category, start, end, duration]
// tuples, in seconds.
//
// Output goes to the directory or gs://bucket/prefix named by -o, as
// files named after -target: target.html for the interactive page
// (the default), target.png and target.svg for images rendered on the
// server, and target.standalone.html for a page rendered with
// go-echarts.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/buildperf/buildchart"
	"golang.org/x/buildperf/buildfmt"
	"golang.org/x/buildperf/echarts"
	"golang.org/x/buildperf/echarts/goecharts"
	"golang.org/x/buildperf/echarts/htmlpage"
	"golang.org/x/buildperf/echarts/plotimg"
	"golang.org/x/buildperf/internal/publish"
	"gonum.org/v1/plot/vg"
)

var (
	flagOut        = flag.String("o", ".", "write output to `dest`, a directory or gs://bucket/prefix")
	flagTarget     = flag.String("target", "chart", "chart surface `id`, also the output file name")
	flagTitle      = flag.String("title", "", "chart title")
	flagSubtitle   = flag.String("subtitle", "", "chart subtitle")
	flagHTML       = flag.Bool("html", false, "write an interactive HTML page (the default)")
	flagPNG        = flag.Bool("png", false, "write a PNG image")
	flagSVG        = flag.Bool("svg", false, "write an SVG image")
	flagStandalone = flag.Bool("standalone", false, "write an HTML page rendered with go-echarts")
	flagWidth      = flag.Float64("width", 20, "image width in `cm`")
	flagHeight     = flag.Float64("height", 0, "image height in `cm` (default depends on the chart)")
	flagPage       = flag.String("page", "", "draw into the element with id -target of HTML `file`")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: buildchart [flags] parallel rows.json
       buildchart [flags] multi name rows.json [name rows.json...]
       buildchart [flags] execution intervals.json

`)
	flag.PrintDefaults()
}

// config holds the output settings of one run.
type config struct {
	out, target      string
	title            echarts.Title
	html, standalone bool
	images           []string // image formats
	width, height    vg.Length
	page             string
}

func main() {
	log.SetPrefix("buildchart: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg := config{
		out:        *flagOut,
		target:     *flagTarget,
		title:      echarts.Title{Text: *flagTitle, Subtext: *flagSubtitle},
		html:       *flagHTML,
		standalone: *flagStandalone,
		width:      vg.Length(*flagWidth) * vg.Centimeter,
		height:     vg.Length(*flagHeight) * vg.Centimeter,
		page:       *flagPage,
	}
	if *flagPNG {
		cfg.images = append(cfg.images, "png")
	}
	if *flagSVG {
		cfg.images = append(cfg.images, "svg")
	}
	if !cfg.html && !cfg.standalone && len(cfg.images) == 0 {
		cfg.html = true
	}

	if err := run(context.Background(), cfg, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

// A chart is a parsed command line: a builder for one chart and the
// surface height it looks best at.
type chart struct {
	build       func(e echarts.Engine, target string, title echarts.Title) error
	pageHeight  string
	imageHeight vg.Length
}

func parseArgs(args []string) (*chart, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing chart kind")
	}
	switch kind, files := args[0], args[1:]; kind {
	case "parallel":
		if len(files) != 1 {
			return nil, fmt.Errorf("parallel: want one rows file, have %d", len(files))
		}
		rows, err := buildfmt.ReadRowsFile(files[0])
		if err != nil {
			return nil, err
		}
		return &chart{
			build: func(e echarts.Engine, target string, title echarts.Title) error {
				return buildchart.ParallelBuild(e, target, title, rows)
			},
			pageHeight:  htmlpage.DefaultHeight,
			imageHeight: 12 * vg.Centimeter,
		}, nil

	case "multi":
		var seq []interface{}
		for i := 0; i < len(files); i += 2 {
			seq = append(seq, files[i])
			if i+1 < len(files) {
				rows, err := buildfmt.ReadRowsFile(files[i+1])
				if err != nil {
					return nil, err
				}
				seq = append(seq, rows)
			}
		}
		return &chart{
			build: func(e echarts.Engine, target string, title echarts.Title) error {
				return buildchart.ParallelBuildMulti(e, target, title, seq...)
			},
			pageHeight:  htmlpage.DefaultHeight,
			imageHeight: 12 * vg.Centimeter,
		}, nil

	case "execution":
		if len(files) != 1 {
			return nil, fmt.Errorf("execution: want one intervals file, have %d", len(files))
		}
		ivs, err := buildfmt.ReadIntervalsFile(files[0])
		if err != nil {
			return nil, err
		}
		return &chart{
			build: func(e echarts.Engine, target string, title echarts.Title) error {
				return buildchart.Execution(e, target, title, ivs)
			},
			pageHeight:  "850px",
			imageHeight: 20 * vg.Centimeter,
		}, nil
	}
	return nil, fmt.Errorf("unknown chart kind %q", args[0])
}

func run(ctx context.Context, cfg config, args []string) error {
	c, err := parseArgs(args)
	if err != nil {
		return err
	}
	sink, err := publish.Open(ctx, cfg.out)
	if err != nil {
		return err
	}
	defer sink.Close()

	if cfg.html {
		page, err := newPage(cfg, c)
		if err != nil {
			return err
		}
		if err := c.build(page, cfg.target, cfg.title); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := page.Render(&buf); err != nil {
			return err
		}
		if err := write(sink, cfg.target+".html", buf.Bytes()); err != nil {
			return err
		}
	}

	if len(cfg.images) > 0 {
		e := plotimg.New(sink, cfg.target)
		e.Formats = cfg.images
		if cfg.width > 0 {
			e.Width = cfg.width
		}
		e.Height = c.imageHeight
		if cfg.height > 0 {
			e.Height = cfg.height
		}
		if err := c.build(e, cfg.target, cfg.title); err != nil {
			return err
		}
	}

	if cfg.standalone {
		e := goecharts.New(cfg.target)
		if err := c.build(e, cfg.target, cfg.title); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := e.Render(&buf, cfg.title.Text); err != nil {
			return err
		}
		if err := write(sink, cfg.target+".standalone.html", buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// newPage returns the page to draw on: the -page document, or a new
// page with a single surface.
func newPage(cfg config, c *chart) (*htmlpage.Page, error) {
	if cfg.page == "" {
		page := htmlpage.New(cfg.title.Text)
		if err := page.AddSurface(cfg.target, htmlpage.DefaultWidth, c.pageHeight); err != nil {
			return nil, err
		}
		return page, nil
	}
	f, err := os.Open(cfg.page)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return htmlpage.Parse(f)
}

func write(sink publish.Sink, name string, data []byte) error {
	w, err := sink.Create(name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
