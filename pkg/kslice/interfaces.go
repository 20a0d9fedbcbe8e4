// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kslice

import (
	"sort"
	"strings"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/slicer"
	"github.com/kslicer/kslice/pkg/xrefgraph"
)

// Interface is a per-target summary (SPEC_FULL.md §9.1): how large the
// slice pulled in for this one target function turned out to be, broken
// down by area and kind, which kernel symbols it had to reach for, and a
// reachable-line-count estimate. It has no effect on slicing or emission;
// it exists purely for the CLI's `-interfaces` report.
type Interface struct {
	Target        string
	VertexCount   int
	ByAreaKind    map[string]int
	KernelSymbols []string
	ForwardDecls  int
	LineCount     int
}

// BuildInterfaces computes one Interface for targetID, restricted to that
// single target's own ancestor closure within g (the same sliced, acyclic
// graph pkg/emit drains) rather than the full multi-target union — two
// targets sharing a helper function must not inflate each other's counts.
func BuildInterfaces(target string, targetID centity.ID, g *xrefgraph.Graph) *Interface {
	iface := &Interface{Target: target, ByAreaKind: make(map[string]int)}
	closure := slicer.AncestorClosure(g, []centity.ID{targetID})
	seenSymbols := make(map[string]bool)
	for id := range closure {
		e := g.Vertex(id).Entity
		iface.VertexCount++
		iface.ByAreaKind[centity.Key{Area: e.Area, Kind: e.Kind}.String()]++
		if e.ForwardDecl != "" {
			iface.ForwardDecls++
		}
		if e.Area == centity.Kernel && !seenSymbols[e.Name] {
			seenSymbols[e.Name] = true
			iface.KernelSymbols = append(iface.KernelSymbols, e.Name)
		}
	}
	sort.Strings(iface.KernelSymbols)
	iface.LineCount = reachableLineCount(targetID, g)
	return iface
}

// reachableLineCount estimates a target function's own size plus its
// direct module-area callees' — not the full transitive closure, which
// would double-count shared helpers across targets and grow unbounded
// with slice depth regardless of what the target itself looks like.
func reachableLineCount(targetID centity.ID, g *xrefgraph.Graph) int {
	target := g.Vertex(targetID).Entity
	total := codeLineCount(target.Code)
	for _, predID := range g.Predecessors(targetID) {
		callee := g.Vertex(predID).Entity
		if callee.Area == centity.Module && callee.Kind == centity.Function {
			total += codeLineCount(callee.Code)
		}
	}
	return total
}

func codeLineCount(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, "\n") + 1
}
