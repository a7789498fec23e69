// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Buildchartserver serves charts of the build benchmark files in a
// local directory.
package main

import (
	"flag"
	"log"
	"net/http"

	"golang.org/x/buildperf/app"
)

var (
	addr = flag.String("addr", "localhost:8080", "serve HTTP on `address`")
	data = flag.String("data", ".", "serve benchmark files from `dir`")
)

func main() {
	log.SetPrefix("buildchartserver: ")
	flag.Parse()

	a := &app.App{DataDir: *data}
	a.RegisterOnMux(http.DefaultServeMux)

	log.Printf("Listening on %s", *addr)

	log.Fatal(http.ListenAndServe(*addr, nil))
}
