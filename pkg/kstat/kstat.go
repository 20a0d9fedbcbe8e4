// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package kstat is a trimmed descendant of syzkaller's pkg/stat: a
// process-wide registry of named counters/gauges that the pipeline driver
// updates as it runs (total entities parsed, full-graph and sliced-graph
// vertex counts, and per-level cache hits/misses; there are no per-kind,
// per-edge, per-bucket or timing metrics) and that the CLI prints with
// -stats. PromCollector adapts a Set for a prometheus.Registerer; the CLI
// itself does not register it.
package kstat

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// UI is one metric's snapshot, in the shape the kslice-extract CLI's
// -stats printer consumes.
type UI struct {
	Name  string
	Desc  string
	Value int64
}

// Val is a single counter or gauge. The zero value is not usable; create
// one via Set.Counter or Set.Gauge.
type Val struct {
	name, desc string
	v          atomic.Int64
}

// Add adds delta to the value (counters only use this).
func (val *Val) Add(delta int64) {
	val.v.Add(delta)
}

// Set overwrites the value (gauges only use this).
func (val *Val) Set(n int64) {
	val.v.Store(n)
}

// Value returns the current value.
func (val *Val) Value() int64 {
	return val.v.Load()
}

// Set is a registry of metrics.
type Set struct {
	mu   sync.Mutex
	vals map[string]*Val
	// order preserves registration order for deterministic Collect output
	// independent of map iteration order.
	order []string
}

// NewSet creates an empty registry.
func NewSet() *Set {
	return &Set{vals: make(map[string]*Val)}
}

func (s *Set) new(name, desc string) *Val {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.vals[name]; ok {
		return v
	}
	v := &Val{name: name, desc: desc}
	s.vals[name] = v
	s.order = append(s.order, name)
	return v
}

// Counter creates (or returns the existing) monotonically-increasing
// metric named name.
func (s *Set) Counter(name, desc string) *Val {
	return s.new(name, desc)
}

// Gauge creates (or returns the existing) point-in-time metric named
// name.
func (s *Set) Gauge(name, desc string) *Val {
	return s.new(name, desc)
}

// Collect returns every registered metric's current snapshot, sorted by
// name for deterministic output.
func (s *Set) Collect() []UI {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UI, 0, len(s.order))
	for _, name := range s.order {
		v := s.vals[name]
		out = append(out, UI{Name: v.name, Desc: v.desc, Value: v.Value()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PromCollector adapts a Set to prometheus.Collector, so a longer-running
// host process embedding this pipeline can register it with its own
// prometheus.Registerer. Kept as a separate type rather than a method on
// Set itself, since prometheus.Collector's Collect(chan<- prometheus.Metric)
// would otherwise collide with Set's own Collect() []UI snapshot method.
type PromCollector struct{ *Set }

func (p PromCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, ui := range p.Set.Collect() {
		ch <- prometheus.NewDesc(ui.Name, ui.Desc, nil, nil)
	}
}

func (p PromCollector) Collect(ch chan<- prometheus.Metric) {
	for _, ui := range p.Set.Collect() {
		desc := prometheus.NewDesc(ui.Name, ui.Desc, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(ui.Value))
	}
}

// global is the default registry pkg/kslice's driver publishes pipeline
// metrics to; tools/kslice-extract reads it back via Collect.
var global = NewSet()

func Counter(name, desc string) *Val { return global.Counter(name, desc) }
func Gauge(name, desc string) *Val   { return global.Gauge(name, desc) }
func Collect() []UI                 { return global.Collect() }
func Global() *Set                  { return global }
