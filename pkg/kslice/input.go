// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package kslice is the pipeline driver: it wires pkg/textadapt,
// pkg/cparse, pkg/centity, pkg/xrefgraph, pkg/slicer, and pkg/emit into
// one Run call, owns the two-level memoisation cache, and exposes the
// YAML batch-job configuration and per-target interface summaries.
package kslice

// Input is the external interface's formalised request contract (§6): a
// preprocessed module text with kernel headers inlined, the separately
// delivered kernel macro list, the target functions to slice toward, and
// the three output-shaping flags.
type Input struct {
	ModuleText                   string
	KernelMacroList              []string
	TargetFunctions              []string
	SingleFileOutput             bool
	ElideNonTargetFunctionBodies bool
	RemoveUnusedEnumFields       bool
}
