// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package slicer computes the ancestor-closure subgraph for a set of
// target module functions and resolves the cycles that closure can
// introduce, per the distilled spec's §4.4 kind-pair policy.
package slicer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/xrefgraph"
)

// UnresolvableCycleError is returned when a cycle mixes kinds not covered
// by the §4.4 policy table. It carries the full cycle path so the caller
// can present it verbatim (mirrors pkg/compiler's checkStructRecursion
// error presentation idiom).
type UnresolvableCycleError struct {
	Path []*centity.Entity
}

func (e *UnresolvableCycleError) Error() string {
	names := make([]string, len(e.Path))
	for i, ent := range e.Path {
		names[i] = fmt.Sprintf("%s.%s(%s)", ent.Area, ent.Name, ent.Kind)
	}
	return "unresolvable cycle: " + strings.Join(names, " -> ")
}

// MissingTargetError is returned when a requested target function name is
// not present in the module function index. This is an input error (a bad
// target name), not an internal failure.
type MissingTargetError struct {
	Name string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("target function %q not found in module", e.Name)
}

// EmptyTargetsError is returned when the caller asked for zero target
// functions. This is an input error, same category as MissingTargetError.
type EmptyTargetsError struct{}

func (e *EmptyTargetsError) Error() string {
	return "slicer: empty target list"
}

// ResolveTargets maps target function names to vertex ids, failing fast
// on the first name not present in the module area's function table.
func ResolveTargets(table *centity.Table, names []string) ([]centity.ID, error) {
	if len(names) == 0 {
		return nil, &EmptyTargetsError{}
	}
	ids := make([]centity.ID, 0, len(names))
	for _, name := range names {
		e, ok := table.ByName(centity.Module, centity.Function, name)
		if !ok {
			return nil, &MissingTargetError{Name: name}
		}
		ids = append(ids, e.ID)
	}
	return ids, nil
}

// Slice computes S = {targets} union ancestors(targets), induces the
// subgraph on S, resolves every cycle per policy, and returns the
// resulting acyclic graph ready for pkg/emit.
func Slice(g *xrefgraph.Graph, targets []centity.ID) (*xrefgraph.Graph, error) {
	closure := AncestorClosure(g, targets)
	sub := induce(g, closure)
	if err := resolveCycles(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// AncestorClosure returns the transitive closure, over the reverse of the
// dependency direction, of targets union targets itself: every vertex that
// must exist for the targets to compile. It is idempotent:
// AncestorClosure(AncestorClosure(T)) == AncestorClosure(T), since a
// closed set's predecessors are already all members of the set.
func AncestorClosure(g *xrefgraph.Graph, targets []centity.ID) map[centity.ID]bool {
	seen := make(map[centity.ID]bool)
	var stack []centity.ID
	for _, t := range targets {
		if !seen[t] {
			seen[t] = true
			stack = append(stack, t)
		}
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, pred := range g.Predecessors(cur) {
			if !seen[pred] {
				seen[pred] = true
				stack = append(stack, pred)
			}
		}
	}
	return seen
}

func induce(g *xrefgraph.Graph, keep map[centity.ID]bool) *xrefgraph.Graph {
	sub := xrefgraph.New()
	for id := range keep {
		sub.EnsureVertex(g.Vertex(id).Entity)
	}
	for id := range keep {
		for _, t := range g.Successors(id) {
			if keep[t] {
				_ = sub.AddEdge(id, t)
			}
		}
	}
	return sub
}

// resolveCycles repeatedly finds one cycle (via path-tracking DFS, in the
// style of pkg/compiler's checkStructRecursion) and breaks it per the
// kind-pair policy, until the graph is acyclic.
func resolveCycles(g *xrefgraph.Graph) error {
	for {
		cycle := findCycle(g)
		if cycle == nil {
			return nil
		}
		if err := breakCycle(g, cycle); err != nil {
			return err
		}
	}
}

// findCycle returns one cycle as a slice of vertex ids [v0, v1, ..., v0]
// (v0 repeated at both ends) via iterative path-tracking DFS, or nil if
// the graph is acyclic. Self-loops are reported as a 2-element cycle
// [v0, v0].
func findCycle(g *xrefgraph.Graph) []centity.ID {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make(map[centity.ID]int)
	ids := g.Vertices()
	less := func(ids []centity.ID) func(i, j int) bool {
		return func(i, j int) bool {
			return deterministicKey(g, ids[i]) < deterministicKey(g, ids[j])
		}
	}
	sort.Slice(ids, less(ids))

	var path []centity.ID
	var result []centity.ID
	var visit func(id centity.ID) bool
	visit = func(id centity.ID) bool {
		state[id] = onStack
		path = append(path, id)
		succs := g.Successors(id)
		sort.Slice(succs, less(succs))
		for _, next := range succs {
			switch state[next] {
			case onStack:
				// Found the cycle: path from next's position to the end,
				// closed back to next.
				for i, p := range path {
					if p == next {
						result = append([]centity.ID{}, path[i:]...)
						result = append(result, next)
						return true
					}
				}
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return false
	}
	for _, id := range ids {
		if state[id] == unvisited {
			if visit(id) {
				return result
			}
		}
	}
	return nil
}

// deterministicKey orders vertices by (area, kind, name) rather than by
// their random opaque id, so cycle discovery order — and therefore which
// edge gets deleted when multiple cycles overlap — is stable run-to-run
// for identical inputs, preserving the byte-identical-output property.
func deterministicKey(g *xrefgraph.Graph, id centity.ID) string {
	e := g.Vertex(id).Entity
	return fmt.Sprintf("%d.%d.%s", e.Area, e.Kind, e.Name)
}

// breakCycle applies the §4.4 kind-pair policy to one cycle.
func breakCycle(g *xrefgraph.Graph, cycle []centity.ID) error {
	if len(cycle) == 2 && cycle[0] == cycle[1] {
		// Plain self-loop: permitted by the meta-graph, always a no-op.
		g.RemoveEdge(cycle[0], cycle[0])
		return nil
	}
	// Look for an adjacent function->function pair anywhere on the cycle;
	// that is the only 2-kind case with a defined resolution that doesn't
	// depend on cycle length.
	for i := 0; i+1 < len(cycle); i++ {
		a, b := g.Vertex(cycle[i]), g.Vertex(cycle[i+1])
		if a.Entity.Kind == centity.Function && b.Entity.Kind == centity.Function {
			return breakFunctionPair(g, a, b)
		}
	}
	if len(cycle) == 3 && cycle[0] == cycle[2] {
		a, b := g.Vertex(cycle[0]), g.Vertex(cycle[1])
		if ok, err := breakSameKindOrTypedefStruct(g, a, b); ok {
			return err
		}
	}
	path := make([]*centity.Entity, len(cycle))
	for i, id := range cycle {
		path[i] = g.Vertex(id).Entity
	}
	return &UnresolvableCycleError{Path: path}
}

// breakFunctionPair resolves a Function<->Function cycle: attach a
// forward declaration (the text up to the opening brace of b's Code) to
// a's vertex, then delete the edge b->a so b's vertex is no longer a
// prerequisite of a's emission — a's now-satisfied-by-forward-declaration
// dependency on b is the one being cut, so a keeps sorting before b.
func breakFunctionPair(g *xrefgraph.Graph, a, b *xrefgraph.Vertex) error {
	if !g.HasEdge(b.Entity.ID, a.Entity.ID) {
		return nil // already broken by a previous pass over the same SCC
	}
	decl, err := forwardDeclaration(b.Entity)
	if err != nil {
		return err
	}
	a.Entity.ForwardDecl = decl
	g.RemoveEdge(b.Entity.ID, a.Entity.ID)
	return nil
}

// forwardDeclaration extracts "RET NAME(ARGS);" from a function
// definition's code by taking everything up to (not including) the first
// top-level '{' and appending a semicolon.
func forwardDeclaration(fn *centity.Entity) (string, error) {
	idx := strings.IndexByte(fn.Code, '{')
	if idx < 0 {
		return "", fmt.Errorf("slicer: function %v has no body to forward-declare from", fn.Name)
	}
	proto := strings.TrimRight(fn.Code[:idx], " \t\n")
	return proto + ";", nil
}

// breakSameKindOrTypedefStruct handles the remaining two-vertex cycle
// policies: same-kind self-cycles among struct/macro/typedef (delete one
// of the two edges; C forward-reference rules for incomplete types handle
// the rest, and the surviving edge keeps a real ordering constraint), and
// typedef<->struct (delete only the edge running into the typedef, i.e.
// Struct->Typedef; the surviving Typedef->Struct edge is exactly the
// ordering C requires for `typedef struct N N; struct N { N *next; };` —
// the typedef name must be visible before the self-referencing field can
// use it, so the typedef is emitted first). Returns ok=false if neither
// policy applies, so the caller falls through to the fatal
// unresolvable-cycle path.
func breakSameKindOrTypedefStruct(g *xrefgraph.Graph, a, b *xrefgraph.Vertex) (bool, error) {
	sameKindCyclable := map[centity.Kind]bool{centity.Struct: true, centity.Macro: true, centity.Typedef: true}
	if a.Entity.Kind == b.Entity.Kind && sameKindCyclable[a.Entity.Kind] {
		g.RemoveEdge(a.Entity.ID, b.Entity.ID)
		return true, nil
	}
	if a.Entity.Kind == centity.Struct && b.Entity.Kind == centity.Typedef {
		g.RemoveEdge(a.Entity.ID, b.Entity.ID) // edge running into the typedef
		return true, nil
	}
	if a.Entity.Kind == centity.Typedef && b.Entity.Kind == centity.Struct {
		g.RemoveEdge(b.Entity.ID, a.Entity.ID) // edge running into the typedef
		return true, nil
	}
	return false, nil
}
