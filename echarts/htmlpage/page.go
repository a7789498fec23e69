// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package htmlpage implements an echarts.Engine whose surfaces are the
// elements of an HTML document. Rendering the page emits the document
// followed by a script that mounts every chart with ECharts in the
// browser.
package htmlpage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/safehtml"
	"golang.org/x/buildperf/echarts"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Default surface dimensions, as CSS lengths.
const (
	DefaultWidth  = "100%"
	DefaultHeight = "600px"
)

const skeleton = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title></title>
</head>
<body>
</body>
</html>
`

// A Page is an HTML document holding chart surfaces. Every element
// with an id attribute is a surface named by that id.
//
// A Page is safe for concurrent use.
type Page struct {
	mu     sync.Mutex
	doc    *html.Node
	body   *html.Node
	ids    map[string]*html.Node
	mounts []mount // in order of first Init
}

type mount struct {
	Target string          `json:"target"`
	Option *echarts.Option `json:"option"`
}

// New returns a page with the given title and one surface of the
// default size for each target.
func New(title string, targets ...string) *Page {
	doc, err := html.Parse(strings.NewReader(skeleton))
	if err != nil {
		panic(err)
	}
	p := newPage(doc)
	if t := findElement(doc, atom.Title); t != nil {
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	}
	for _, id := range targets {
		if err := p.AddSurface(id, DefaultWidth, DefaultHeight); err != nil {
			panic(err)
		}
	}
	return p
}

// Parse reads an HTML document whose elements become the page's
// surfaces.
func Parse(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return newPage(doc), nil
}

func newPage(doc *html.Node) *Page {
	p := &Page{doc: doc, ids: make(map[string]*html.Node)}
	p.body = findElement(doc, atom.Body)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id, ok := attr(n, "id"); ok && id != "" {
				if _, dup := p.ids[id]; !dup {
					p.ids[id] = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return p
}

// AddSurface appends a div with the given id and CSS size to the
// page body.
func (p *Page) AddSurface(id, width, height string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id == "" {
		return fmt.Errorf("empty surface id")
	}
	if _, ok := p.ids[id]; ok {
		return fmt.Errorf("duplicate surface id %q", id)
	}
	if p.body == nil {
		return fmt.Errorf("page has no body")
	}
	div := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "id", Val: id},
			{Key: "style", Val: fmt.Sprintf("width: %s; height: %s", width, height)},
		},
	}
	p.body.AppendChild(div)
	p.ids[id] = div
	return nil
}

// Init returns the chart on the element with id target.
func (p *Page) Init(target string) (echarts.Chart, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.ids[target]; !ok {
		return nil, fmt.Errorf("%w: %q", echarts.ErrSurfaceNotFound, target)
	}
	for _, m := range p.mounts {
		if m.Target == target {
			return &chart{p, target}, nil
		}
	}
	p.mounts = append(p.mounts, mount{Target: target})
	return &chart{p, target}, nil
}

// Option returns the option mounted on target, or nil.
func (p *Page) Option(target string) *echarts.Option {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range p.mounts {
		if m.Target == target {
			return m.Option
		}
	}
	return nil
}

type chart struct {
	p      *Page
	target string
}

func (c *chart) SetOption(opt *echarts.Option) error {
	// The page is rendered later; check now that the option encodes.
	if _, err := json.Marshal(opt); err != nil {
		return err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	for i := range c.p.mounts {
		if c.p.mounts[i].Target == c.target {
			c.p.mounts[i].Option = opt
			return nil
		}
	}
	return fmt.Errorf("%w: %q", echarts.ErrSurfaceNotFound, c.target)
}

// Render writes the page to w. Surfaces with a chart get a script that
// loads ECharts and mounts the chart.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var mounts []mount
	for _, m := range p.mounts {
		if m.Option != nil {
			mounts = append(mounts, m)
		}
	}
	if len(mounts) == 0 || p.body == nil {
		return html.Render(w, p.doc)
	}

	script, err := safehtml.ScriptFromDataAndConstant("charts", mounts, runtime)
	if err != nil {
		return err
	}
	lib := safehtml.TrustedResourceURLFromConstant(echartsURL)

	// Attach the scripts for the duration of the render only, so
	// the page can be rendered again after more charts are set.
	added := []*html.Node{
		scriptNode([]html.Attribute{{Key: "src", Val: lib.String()}}, ""),
		scriptNode(nil, script.String()),
	}
	for _, n := range added {
		p.body.AppendChild(n)
	}
	defer func() {
		for _, n := range added {
			p.body.RemoveChild(n)
		}
	}()
	return html.Render(w, p.doc)
}

func scriptNode(attrs []html.Attribute, text string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: "script", DataAtom: atom.Script, Attr: attrs}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findElement(c, a); f != nil {
			return f
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
