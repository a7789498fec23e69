// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package htmlpage

// echartsURL is the ECharts build loaded by pages.
const echartsURL = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

// runtime mounts the charts in the variable "charts", a list of
// {target, option} objects, after replacing every {"$fn": name,
// "args": [...]} in each option with callbacks[name](...args).
//
// The callbacks must stay in sync with the Go implementations in
// package buildchart; see the Func constants in package echarts.
// fixed is echarts.FormatFixed: toFixed rounds the exact binary value
// with halves away from zero, and negative zero is printed unsigned.
const runtime = `(function() {
  var callbacks = {
    fixed: function(dim, digits) {
      return function(params) {
        var s = Number.parseFloat(params.value[dim]).toFixed(digits);
        return /^-[0.]*$/.test(s) ? s.slice(1) : s;
      };
    },
    suffix: function(dim, suffix) {
      return function(params) {
        return params.value[dim] + suffix;
      };
    },
    append: function(suffix) {
      return function(val) {
        return val + suffix;
      };
    },
    intervalRect: function(band) {
      return function(params, api) {
        var category = api.value(0);
        var start = api.coord([api.value(1), category]);
        var end = api.coord([api.value(2), category]);
        var height = api.size([0, 1])[1] * band;
        var shape = echarts.graphic.clipRectByRect({
          x: start[0],
          y: start[1] - height / 2,
          width: end[0] - start[0],
          height: height
        }, {
          x: params.coordSys.x,
          y: params.coordSys.y,
          width: params.coordSys.width,
          height: params.coordSys.height
        });
        return shape && {type: 'rect', shape: shape, style: api.style()};
      };
    }
  };

  function resolve(v) {
    if (Array.isArray(v)) {
      return v.map(resolve);
    }
    if (v !== null && typeof v === 'object') {
      if (typeof v.$fn === 'string') {
        return callbacks[v.$fn].apply(null, v.args);
      }
      var out = {};
      for (var k in v) {
        out[k] = resolve(v[k]);
      }
      return out;
    }
    return v;
  }

  charts.forEach(function(m) {
    var el = document.getElementById(m.target);
    var chart = echarts.getInstanceByDom(el) || echarts.init(el);
    chart.setOption(resolve(m.option), true);
  });
})();
`
