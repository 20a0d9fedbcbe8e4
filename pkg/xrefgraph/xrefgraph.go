// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package xrefgraph builds the directed cross-reference graph: vertices
// are extracted entities, and an edge s->t means "t textually refers to
// an identifier defined by s, therefore s must be emitted before t".
package xrefgraph

import (
	"fmt"
	"sort"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/metagraph"
)

// Vertex wraps one entity with its graph-local attributes.
type Vertex struct {
	Entity *centity.Entity
	tokens map[string]bool // lazily computed from Entity.Tags
}

func (v *Vertex) tagTokens() map[string]bool {
	if v.tokens == nil {
		v.tokens = v.Entity.TagTokens()
	}
	return v.tokens
}

// Graph is an adjacency-list directed graph over centity.ID vertices.
type Graph struct {
	vertices map[centity.ID]*Vertex
	out      map[centity.ID]map[centity.ID]bool // s -> set of t such that s must precede t
	in       map[centity.ID]map[centity.ID]bool // t -> set of s
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[centity.ID]*Vertex),
		out:      make(map[centity.ID]map[centity.ID]bool),
		in:       make(map[centity.ID]map[centity.ID]bool),
	}
}

// EnsureVertex idempotently attributes id with entity; a second call with
// the same id is a no-op (the distilled spec requires this idempotence for
// the per-meta-edge vertex-creation step in §4.3).
func (g *Graph) EnsureVertex(e *centity.Entity) *Vertex {
	if v, ok := g.vertices[e.ID]; ok {
		return v
	}
	v := &Vertex{Entity: e}
	g.vertices[e.ID] = v
	g.out[e.ID] = make(map[centity.ID]bool)
	g.in[e.ID] = make(map[centity.ID]bool)
	return v
}

// Vertex returns the vertex for id, or nil.
func (g *Graph) Vertex(id centity.ID) *Vertex {
	return g.vertices[id]
}

// Vertices returns every vertex id currently in the graph.
func (g *Graph) Vertices() []centity.ID {
	out := make([]centity.ID, 0, len(g.vertices))
	for id := range g.vertices {
		out = append(out, id)
	}
	return out
}

// AddEdge records "s must precede t". Self-loops are allowed (the
// meta-graph permits them for some kinds); parallel edges are deduplicated.
func (g *Graph) AddEdge(s, t centity.ID) error {
	if g.vertices[s] == nil || g.vertices[t] == nil {
		return fmt.Errorf("xrefgraph: edge %v->%v refers to an unknown vertex", s, t)
	}
	g.out[s][t] = true
	g.in[t][s] = true
	return nil
}

// RemoveEdge deletes s->t if present; it is a no-op otherwise.
func (g *Graph) RemoveEdge(s, t centity.ID) {
	delete(g.out[s], t)
	delete(g.in[t], s)
}

// HasEdge reports whether s->t is present.
func (g *Graph) HasEdge(s, t centity.ID) bool {
	return g.out[s][t]
}

// Successors returns the ids t such that s->t, i.e. the things that
// depend on s.
func (g *Graph) Successors(s centity.ID) []centity.ID {
	return setToSlice(g.out[s])
}

// Predecessors returns the ids s such that s->t, i.e. the things t
// depends on.
func (g *Graph) Predecessors(t centity.ID) []centity.ID {
	return setToSlice(g.in[t])
}

// InDegree returns the number of predecessors of id within this graph.
func (g *Graph) InDegree(id centity.ID) int {
	return len(g.in[id])
}

func setToSlice(m map[centity.ID]bool) []centity.ID {
	out := make([]centity.ID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

// Build runs the full graph-construction algorithm (distilled spec §4.3)
// over a populated entity table: for every meta-edge (areaS,kindS) ->
// (areaT,kindT), ensure vertices exist for both buckets, then for every
// candidate pair add s->t whenever any identifier of s.Ids appears as a
// whole-word token of t.Tags.
func Build(table *centity.Table) (*Graph, error) {
	g := New()
	for _, key := range metagraph.AllKeys() {
		for _, e := range table.Entities(key.Area, key.Kind) {
			g.EnsureVertex(e)
		}
	}
	for _, sourceKey := range metagraph.AllKeys() {
		sources := table.Entities(sourceKey.Area, sourceKey.Kind)
		if len(sources) == 0 {
			continue
		}
		for _, targetKey := range metagraph.Targets(sourceKey) {
			targets := table.Entities(targetKey.Area, targetKey.Kind)
			if len(targets) == 0 {
				continue
			}
			if err := g.addMetaEdge(sources, targets); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func (g *Graph) addMetaEdge(sources, targets []*centity.Entity) error {
	targetVertices := make([]*Vertex, len(targets))
	for i, t := range targets {
		targetVertices[i] = g.EnsureVertex(t)
	}
	for _, s := range sources {
		sv := g.EnsureVertex(s)
		ids := sv.Entity.SortedIds()
		if len(ids) == 0 {
			continue
		}
		for _, tv := range targetVertices {
			// Self-loops are allowed where the meta-graph lists a kind as
			// its own target. Because an entity's Tags is its own Code,
			// which contains its own name, every such source gets one;
			// the slicer treats them as a no-op.
			toks := tv.tagTokens()
			found := false
			for _, id := range ids {
				if toks[id] {
					found = true
					break
				}
			}
			if found {
				if err := g.AddEdge(sv.Entity.ID, tv.Entity.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// DebugDump renders the graph as a sorted "name -> name" edge list, for
// tests and troubleshooting.
func (g *Graph) DebugDump() []string {
	var lines []string
	for s, outs := range g.out {
		sv := g.vertices[s]
		for t := range outs {
			tv := g.vertices[t]
			lines = append(lines, fmt.Sprintf("%s.%s -> %s.%s", sv.Entity.Area, sv.Entity.Name, tv.Entity.Area, tv.Entity.Name))
		}
	}
	sort.Strings(lines)
	return lines
}
