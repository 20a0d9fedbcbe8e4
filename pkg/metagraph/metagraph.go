// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package metagraph declares the fixed schema of which (area, kind) pairs
// may have dependency edges into which other (area, kind) pairs, per the
// distilled spec's §4.3 table. It is pure static data plus a handful of
// lookup helpers; pkg/xrefgraph is the only consumer.
package metagraph

import "github.com/kslicer/kslice/pkg/centity"

// Edges is the fixed meta-graph: edges[s] lists every target key that
// entities keyed by s may be depended upon by.
var Edges = buildEdges()

// Targets returns the target keys reachable from a source key, or nil if
// the source key has no outgoing meta-edges.
func Targets(source centity.Key) []centity.Key {
	return Edges[source]
}

// AllKeys enumerates every (area, kind) key that appears anywhere in the
// meta-graph, either as a source or a target, in a stable order.
func AllKeys() []centity.Key {
	seen := make(map[centity.Key]bool)
	var out []centity.Key
	add := func(k centity.Key) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for s, ts := range Edges {
		add(s)
		for _, t := range ts {
			add(t)
		}
	}
	return out
}

func k(area centity.Area, kind centity.Kind) centity.Key {
	return centity.Key{Area: area, Kind: kind}
}

// buildEdges is the literal transcription of the distilled spec's §4.3
// table:
//
//	kernel.macro       -> kernel.{macro, struct, typedef, enum, decl, global}
//	                   -> module.{macro, struct, function, typedef, enum}
//	kernel.struct      -> kernel.{macro, struct, decl, typedef, global}
//	                   -> module.{macro, struct, function, typedef, global}
//	kernel.decl        -> kernel.macro
//	                   -> module.{macro, function}
//	kernel.typedef     -> kernel.{macro, struct, decl, typedef, enum, global}
//	                   -> module.{macro, struct, function, typedef, enum, global}
//	kernel.enum        -> kernel.{macro, struct, decl, typedef, enum, global}
//	                   -> module.{macro, struct, function, typedef, enum, global}
//	kernel.global      -> kernel.macro
//	                   -> module.{macro, function}
//	module.macro       -> module.{macro, struct, function, typedef, enum}
//	module.struct      -> module.{macro, struct, function, typedef, global}
//	module.function    -> module.{macro, function}
//	module.typedef     -> module.{macro, struct, function, typedef, enum, global}
//	module.enum        -> module.{macro, struct, function, typedef, enum, global}
//	module.global      -> module.{macro, function}
//
// Kernel entities may be pulled into the module slice; module entities
// never pull kernel entities (the preprocessor collaborator has already
// resolved what the module uses from the kernel). Functions never produce
// types, so there is no function -> struct edge in either direction.
func buildEdges() map[centity.Key][]centity.Key {
	K, M := centity.Kernel, centity.Module
	return map[centity.Key][]centity.Key{
		k(K, centity.Macro): {
			k(K, centity.Macro), k(K, centity.Struct), k(K, centity.Typedef), k(K, centity.Enum),
			k(K, centity.Declaration), k(K, centity.Global),
			k(M, centity.Macro), k(M, centity.Struct), k(M, centity.Function), k(M, centity.Typedef), k(M, centity.Enum),
		},
		k(K, centity.Struct): {
			k(K, centity.Macro), k(K, centity.Struct), k(K, centity.Declaration), k(K, centity.Typedef), k(K, centity.Global),
			k(M, centity.Macro), k(M, centity.Struct), k(M, centity.Function), k(M, centity.Typedef), k(M, centity.Global),
		},
		k(K, centity.Declaration): {
			k(K, centity.Macro),
			k(M, centity.Macro), k(M, centity.Function),
		},
		k(K, centity.Typedef): {
			k(K, centity.Macro), k(K, centity.Struct), k(K, centity.Declaration), k(K, centity.Typedef),
			k(K, centity.Enum), k(K, centity.Global),
			k(M, centity.Macro), k(M, centity.Struct), k(M, centity.Function), k(M, centity.Typedef),
			k(M, centity.Enum), k(M, centity.Global),
		},
		k(K, centity.Enum): {
			k(K, centity.Macro), k(K, centity.Struct), k(K, centity.Declaration), k(K, centity.Typedef),
			k(K, centity.Enum), k(K, centity.Global),
			k(M, centity.Macro), k(M, centity.Struct), k(M, centity.Function), k(M, centity.Typedef),
			k(M, centity.Enum), k(M, centity.Global),
		},
		k(K, centity.Global): {
			k(K, centity.Macro),
			k(M, centity.Macro), k(M, centity.Function),
		},
		k(M, centity.Macro): {
			k(M, centity.Macro), k(M, centity.Struct), k(M, centity.Function), k(M, centity.Typedef), k(M, centity.Enum),
		},
		k(M, centity.Struct): {
			k(M, centity.Macro), k(M, centity.Struct), k(M, centity.Function), k(M, centity.Typedef), k(M, centity.Global),
		},
		k(M, centity.Function): {
			k(M, centity.Macro), k(M, centity.Function),
		},
		k(M, centity.Typedef): {
			k(M, centity.Macro), k(M, centity.Struct), k(M, centity.Function), k(M, centity.Typedef),
			k(M, centity.Enum), k(M, centity.Global),
		},
		k(M, centity.Enum): {
			k(M, centity.Macro), k(M, centity.Struct), k(M, centity.Function), k(M, centity.Typedef),
			k(M, centity.Enum), k(M, centity.Global),
		},
		k(M, centity.Global): {
			k(M, centity.Macro), k(M, centity.Function),
		},
	}
}
