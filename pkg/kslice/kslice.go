// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kslice

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/cparse"
	"github.com/kslicer/kslice/pkg/emit"
	"github.com/kslicer/kslice/pkg/kstat"
	"github.com/kslicer/kslice/pkg/log"
	"github.com/kslicer/kslice/pkg/slicer"
	"github.com/kslicer/kslice/pkg/textadapt"
	"github.com/kslicer/kslice/pkg/xrefgraph"
)

// RunOptions controls the ambient behaviour of one Run call that isn't
// part of the external input contract: where the memoisation cache lives
// (empty disables it) and whether to compute per-target Interface
// summaries alongside the normal output.
type RunOptions struct {
	CacheDir          string
	ComputeInterfaces bool
}

// Result is everything one Run call can hand back: the four-bucket/
// single-file output, any parse/duplicate warnings, and (when requested)
// one Interface summary per target.
type Result struct {
	Output     *Output
	Interfaces []*Interface
}

// Run executes the full pipeline: split the combined preprocessed text
// into kernel/module provenance, parse both areas (in parallel, stage B),
// build the cross-reference graph, slice it down to the requested
// targets, resolve cycles, and drain it into the requested output shape.
func Run(in Input, opts RunOptions) (*Result, error) {
	moduleSrc, kernelSrc := splitByOrigin(in.ModuleText)

	table, g, moduleAdapted, warnings, err := buildGraph(kernelSrc, moduleSrc, in.KernelMacroList, in.TargetFunctions, opts.CacheDir)
	if err != nil {
		return nil, err
	}
	kstat.Gauge("kslice.entities.total", "total entities parsed").Set(int64(len(table.All())))
	kstat.Gauge("kslice.graph.vertices", "vertices in the full cross-reference graph").Set(int64(len(g.Vertices())))
	for _, w := range warnings {
		log.Logf(1, "kslice: %v", w)
	}

	targetIDs, err := slicer.ResolveTargets(table, in.TargetFunctions)
	if err != nil {
		return nil, err
	}

	sliced, err := slicer.Slice(g, targetIDs)
	if err != nil {
		return nil, err
	}
	kstat.Gauge("kslice.slice.vertices", "vertices in the sliced, acyclic graph").Set(int64(len(sliced.Vertices())))

	targets := make(map[string]bool, len(in.TargetFunctions))
	for _, name := range in.TargetFunctions {
		targets[name] = true
	}
	out, err := emit.Drain(sliced, moduleAdapted, emit.Options{
		SingleFileOutput:             in.SingleFileOutput,
		ElideNonTargetFunctionBodies: in.ElideNonTargetFunctionBodies,
		RemoveUnusedEnumFields:       in.RemoveUnusedEnumFields,
		Targets:                      targets,
	})
	if err != nil {
		return nil, fmt.Errorf("kslice: emission failed: %w", err)
	}

	res := &Result{Output: toOutput(out, warnings)}
	if opts.ComputeInterfaces {
		for i, name := range in.TargetFunctions {
			res.Interfaces = append(res.Interfaces, BuildInterfaces(name, targetIDs[i], sliced))
		}
	}
	return res, nil
}

func toOutput(drained *emit.Result, warnings []string) *Output {
	out := &Output{Warnings: warnings}
	if drained.Single != "" {
		out.Single = []byte(drained.Single)
		return out
	}
	out.Files = map[string][]byte{
		string(emit.BucketKernelH): []byte(drained.Buckets[emit.BucketKernelH]),
		string(emit.BucketExternH): []byte(drained.Buckets[emit.BucketExternH]),
		string(emit.BucketModuleH): []byte(drained.Buckets[emit.BucketModuleH]),
		string(emit.BucketModuleC): []byte(emit.WithIncludes(drained.Buckets[emit.BucketModuleC])),
	}
	return out
}

// buildGraph produces the table and full cross-reference graph, consulting
// the level-2 memoisation cache (the built graph, keyed by kernel tree +
// module text + target list) before falling back to level-1-cached or
// from-scratch parsing. A level-2 hit skips stage B/C/D/E entirely; the
// module text is still re-adapted (a single cheap textadapt.Adapt call,
// not a full cparse pass) because pkg/emit needs that escrow table to
// restore comments and strings at drain time.
func buildGraph(kernelSrc, moduleSrc string, macroList, targets []string, cacheDir string) (
	*centity.Table, *xrefgraph.Graph, *textadapt.Adapted, []string, error) {
	if cacheDir != "" {
		kernelKey := KernelCacheKey(kernelSrc, macroList)
		graphKey := GraphCacheKey(kernelKey, moduleSrc, targets)
		var payload level2Payload
		if readBlob(filepath.Join(cacheDir, "level2-"+graphKey+".blob"), &payload) {
			kstat.Counter("kslice.cache.level2.hit", "level-2 built-graph cache hits").Add(1)
			table := fromGobEntities(payload.Entities)
			g := graphFromGob(table, payload.Edges)
			adapted := textadapt.Adapt(moduleSrc, textadapt.ClassComment, textadapt.ClassString,
				textadapt.ClassAttribute, textadapt.ClassMacroLine)
			return table, g, adapted, payload.Warnings, nil
		}
		kstat.Counter("kslice.cache.level2.miss", "level-2 built-graph cache misses").Add(1)
	}

	table, adapted, err := parseAreas(kernelSrc, moduleSrc, macroList, cacheDir)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	g, err := xrefgraph.Build(table)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("kslice: graph build failed: %w", err)
	}
	if cacheDir != "" {
		kernelKey := KernelCacheKey(kernelSrc, macroList)
		graphKey := GraphCacheKey(kernelKey, moduleSrc, targets)
		payload := level2Payload{Entities: toGobEntities(table), Edges: edgesToGob(g), Warnings: table.Warnings}
		if err := writeBlob(filepath.Join(cacheDir, "level2-"+graphKey+".blob"), &payload); err != nil {
			log.Logf(1, "kslice: failed to write level-2 cache: %v", err)
		}
	}
	return table, g, adapted, table.Warnings, nil
}

// parseAreas runs the kernel-area and module-area entity parsers
// concurrently (errgroup, mirroring tools/syz-declextract's prepare()) and
// merges the results into one table, consulting the level-1 memoisation
// cache for the kernel side when cacheDir is set.
func parseAreas(kernelSrc, moduleSrc string, macroList []string, cacheDir string) (*centity.Table, *textadapt.Adapted, error) {
	var kernelTable *centity.Table
	var moduleTable *centity.Table
	var moduleAdapted *textadapt.Adapted

	var eg errgroup.Group
	eg.Go(func() error {
		t, err := parseKernelArea(kernelSrc, macroList, cacheDir)
		if err != nil {
			return fmt.Errorf("kernel area: %w", err)
		}
		kernelTable = t
		return nil
	})
	eg.Go(func() error {
		t, adapted, err := cparse.ParseArea(moduleSrc, centity.Module, nil)
		if err != nil {
			return fmt.Errorf("module area: %w", err)
		}
		moduleTable, moduleAdapted = t, adapted
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	merged := centity.NewTable()
	merged.Merge(kernelTable)
	merged.Merge(moduleTable)
	return merged, moduleAdapted, nil
}

func parseKernelArea(kernelSrc string, macroList []string, cacheDir string) (*centity.Table, error) {
	key := KernelCacheKey(kernelSrc, macroList)
	if cacheDir != "" {
		var payload level1Payload
		if readBlob(filepath.Join(cacheDir, "level1-"+key+".blob"), &payload) {
			kstat.Counter("kslice.cache.level1.hit", "level-1 kernel-entity cache hits").Add(1)
			table := fromGobEntities(payload.Entities)
			table.Warnings = append(table.Warnings, payload.Warnings...)
			return table, nil
		}
		kstat.Counter("kslice.cache.level1.miss", "level-1 kernel-entity cache misses").Add(1)
	}
	table, _, err := cparse.ParseArea(kernelSrc, centity.Kernel, macroList)
	if err != nil {
		return nil, err
	}
	if cacheDir != "" {
		payload := level1Payload{Entities: toGobEntities(table), Warnings: table.Warnings}
		if err := writeBlob(filepath.Join(cacheDir, "level1-"+key+".blob"), &payload); err != nil {
			log.Logf(1, "kslice: failed to write level-1 cache: %v", err)
		}
	}
	return table, nil
}
