// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package emit drains a sliced, acyclic cross-reference graph into the
// four conventional output buckets (or one concatenated file), in a
// deterministic topological order with a kind-priority tiebreak, and
// restores the comments/strings escrowed by pkg/textadapt.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/textadapt"
	"github.com/kslicer/kslice/pkg/xrefgraph"
)

// Bucket names the four conventional output files.
type Bucket string

const (
	BucketModuleC  Bucket = "module.c"
	BucketModuleH  Bucket = "module.h"
	BucketKernelH  Bucket = "kernel.h"
	BucketExternH  Bucket = "extern.h"
)

// bucketFor implements the distilled spec's §4.5 routing table.
func bucketFor(e *centity.Entity) (Bucket, error) {
	switch {
	case e.Area == centity.Kernel && (e.Kind == centity.Declaration || e.Kind == centity.Global):
		return BucketExternH, nil
	case e.Area == centity.Kernel:
		return BucketKernelH, nil
	case e.Area == centity.Module && e.Kind == centity.Function:
		return BucketModuleC, nil
	case e.Area == centity.Module:
		return BucketModuleH, nil
	default:
		return "", fmt.Errorf("emit: entity %v.%v has no defined output bucket", e.Area, e.Kind)
	}
}

// Options carries the output flags from the distilled spec's §6 input
// contract. Drain reads SingleFileOutput, ElideNonTargetFunctionBodies and
// Targets; it does not read RemoveUnusedEnumFields, so kept enums are
// always emitted with all of their constants.
type Options struct {
	SingleFileOutput             bool
	ElideNonTargetFunctionBodies bool
	RemoveUnusedEnumFields       bool
	// Targets names the module functions that must keep full bodies even
	// when ElideNonTargetFunctionBodies is set.
	Targets map[string]bool
}

// Result is the drained output: one string per bucket plus, when
// Options.SingleFileOutput is set, the single concatenated file.
type Result struct {
	Buckets map[Bucket]string
	Single  string
}

// Drain performs the Kahn-style topological emission described in §4.5:
// repeatedly take the in-degree-zero frontier Z, sort it by
// (kind-priority, name), append each vertex's code (forward declaration
// first) to its bucket, then remove Z from the graph. A non-empty graph
// with an empty frontier is a fatal bug — the slicer guarantees that
// cannot happen, so this returns an error rather than looping forever.
func Drain(g *xrefgraph.Graph, esc *textadapt.Adapted, opts Options) (*Result, error) {
	order, err := topoOrder(g)
	if err != nil {
		return nil, err
	}
	parts := make(map[Bucket]*strings.Builder)
	for _, b := range []Bucket{BucketModuleC, BucketModuleH, BucketKernelH, BucketExternH} {
		parts[b] = &strings.Builder{}
	}
	for _, id := range order {
		e := g.Vertex(id).Entity
		bucket, err := bucketFor(e)
		if err != nil {
			return nil, err
		}
		code := renderCode(e, opts)
		if e.ForwardDecl != "" {
			parts[bucket].WriteString(e.ForwardDecl)
			parts[bucket].WriteString("\n")
		}
		parts[bucket].WriteString(code)
		parts[bucket].WriteString("\n")
	}
	res := &Result{Buckets: make(map[Bucket]string)}
	for b, sb := range parts {
		res.Buckets[b] = restoreIfAdapted(sb.String(), esc)
	}
	if opts.SingleFileOutput {
		res.Single = assembleSingleFile(res.Buckets)
	}
	return res, nil
}

func restoreIfAdapted(body string, esc *textadapt.Adapted) string {
	if esc == nil {
		return body
	}
	saved := esc.Body
	esc.Body = body
	restored := esc.Restore()
	esc.Body = saved
	return restored
}

// renderCode applies the ElideNonTargetFunctionBodies flag: a module
// function that is not a slice target is emitted as a bare prototype
// instead of its full definition.
func renderCode(e *centity.Entity, opts Options) string {
	if opts.ElideNonTargetFunctionBodies && e.Area == centity.Module && e.Kind == centity.Function &&
		!opts.Targets[e.Name] {
		if decl, err := forwardDeclarationText(e.Code); err == nil {
			return decl
		}
	}
	return e.Code
}

func forwardDeclarationText(code string) (string, error) {
	idx := strings.IndexByte(code, '{')
	if idx < 0 {
		return "", fmt.Errorf("no body")
	}
	return strings.TrimRight(code[:idx], " \t\n") + ";", nil
}

// topoOrder runs Kahn's algorithm over g, which must already be acyclic
// (pkg/slicer's job), and returns vertex ids in deterministic emission
// order.
func topoOrder(g *xrefgraph.Graph) ([]centity.ID, error) {
	indeg := make(map[centity.ID]int)
	remainingSuccessors := make(map[centity.ID][]centity.ID)
	for _, id := range g.Vertices() {
		indeg[id] = g.InDegree(id)
		remainingSuccessors[id] = g.Successors(id)
	}
	var order []centity.ID
	for len(indeg) > 0 {
		var zero []centity.ID
		for id, d := range indeg {
			if d == 0 {
				zero = append(zero, id)
			}
		}
		if len(zero) == 0 {
			return nil, fmt.Errorf("emit: cycle in graph (implementation bug — the slicer must guarantee acyclicity)")
		}
		sort.Slice(zero, func(i, j int) bool {
			a, b := g.Vertex(zero[i]).Entity, g.Vertex(zero[j]).Entity
			if a.Kind.Priority() != b.Kind.Priority() {
				return a.Kind.Priority() < b.Kind.Priority()
			}
			return a.Name < b.Name
		})
		order = append(order, zero...)
		for _, id := range zero {
			for _, t := range remainingSuccessors[id] {
				if _, ok := indeg[t]; ok {
					indeg[t]--
				}
			}
			delete(indeg, id)
		}
	}
	return order, nil
}

// assembleSingleFile concatenates the buckets in the fixed order
// kernel_macro, module_macro, kernel, extern, module_h, module_c,
// separated by banner comments. Because this implementation does not
// split macro text into a separate sub-bucket (§4.5's "(macro section)"
// qualifier is a sub-section of kernel.h/module.h, not a fifth bucket),
// kernel_macro/module_macro are always empty and, like any empty part,
// get no banner; macro text is emitted inside kernel.h/module.h. Macro
// has kind-priority 1, so within each in-degree-zero frontier macros come
// first, but a macro that depends on another entity still follows it.
func assembleSingleFile(buckets map[Bucket]string) string {
	var sb strings.Builder
	order := []struct {
		name string
		body string
	}{
		{"kernel_macro", ""},
		{"module_macro", ""},
		{"kernel", buckets[BucketKernelH]},
		{"extern", buckets[BucketExternH]},
		{"module_h", buckets[BucketModuleH]},
		{"module_c", buckets[BucketModuleC]},
	}
	for _, part := range order {
		if part.body == "" {
			continue
		}
		fmt.Fprintf(&sb, "/* ---- %s ---- */\n", part.name)
		sb.WriteString(part.body)
		sb.WriteString("\n")
	}
	return sb.String()
}

// WithIncludes prepends the multi-file mode's standard include block to
// module.c.
func WithIncludes(moduleC string) string {
	return "#include \"kernel.h\"\n#include \"extern.h\"\n#include \"module.h\"\n" + moduleC
}
