// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kslice

import (
	"bytes"
	"compress/flate"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/khash"
	"github.com/kslicer/kslice/pkg/log"
	"github.com/kslicer/kslice/pkg/osutil"
	"github.com/kslicer/kslice/pkg/xrefgraph"
)

// memoVersion is bumped whenever the gob payload shape changes. A
// mismatched version on read forces a full re-run rather than an error —
// the memoisation cache is disposable, never authoritative.
const memoVersion = 1

// level1Payload is the parsed-kernel-entity-set cache keyed by a hash of
// the kernel macro list plus kernel source text: re-parsing the kernel
// area is the most expensive stage B half when many jobs in a batch share
// one kernel tree (§4.7).
type level1Payload struct {
	Entities []gobEntity
	Warnings []string
}

// level2Payload is the full built-graph cache, keyed additionally by the
// module text and target list — a hit here skips stage B, C, D, and E
// entirely and goes straight to slicing.
type level2Payload struct {
	Entities []gobEntity
	Edges    []gobEdge
	Warnings []string
}

// gobEntity/gobEdge are gob-friendly mirrors of centity.Entity/xrefgraph
// edges; centity.ID is a uuid.UUID, which gob already knows how to encode
// as its underlying [16]byte, so no custom GobEncode is needed there.
type gobEntity struct {
	ID          centity.ID
	Kind        centity.Kind
	Name        string
	Code        string
	Area        centity.Area
	Ids         []string
	Tags        string
	StructBytes int
	StructAlign int
	ForwardDecl string
}

type gobEdge struct {
	From, To centity.ID
}

func toGobEntities(table *centity.Table) []gobEntity {
	all := table.All()
	out := make([]gobEntity, len(all))
	for i, e := range all {
		out[i] = gobEntity{
			ID: e.ID, Kind: e.Kind, Name: e.Name, Code: e.Code, Area: e.Area,
			Ids: e.SortedIds(), Tags: e.Tags,
			StructBytes: e.Struct.ByteSize, StructAlign: e.Struct.Align,
			ForwardDecl: e.ForwardDecl,
		}
	}
	return out
}

func edgesToGob(g *xrefgraph.Graph) []gobEdge {
	var out []gobEdge
	for _, s := range g.Vertices() {
		for _, t := range g.Successors(s) {
			out = append(out, gobEdge{From: s, To: t})
		}
	}
	return out
}

func graphFromGob(table *centity.Table, edges []gobEdge) *xrefgraph.Graph {
	g := xrefgraph.New()
	for _, e := range table.All() {
		g.EnsureVertex(e)
	}
	for _, ed := range edges {
		_ = g.AddEdge(ed.From, ed.To)
	}
	return g
}

func fromGobEntities(entries []gobEntity) *centity.Table {
	table := centity.NewTable()
	for _, g := range entries {
		e := &centity.Entity{
			ID: g.ID, Kind: g.Kind, Name: g.Name, Code: g.Code, Area: g.Area,
			Ids: make(map[string]bool, len(g.Ids)), Tags: g.Tags,
			Struct:      centity.StructInfo{ByteSize: g.StructBytes, Align: g.StructAlign},
			ForwardDecl: g.ForwardDecl,
		}
		for _, id := range g.Ids {
			e.Ids[id] = true
		}
		table.Add(e)
	}
	return table
}

// KernelCacheKey hashes the inputs that determine the level-1 payload:
// the macro list (order matters, it is part of the content) and the raw
// kernel source text recovered by splitByOrigin.
func KernelCacheKey(kernelText string, macroList []string) string {
	h := khash.Hash(append([]byte(kernelText), []byte(fmt.Sprint(macroList))...))
	return h.String()
}

// GraphCacheKey additionally folds in the module text and sorted target
// list, since those determine the level-2 payload.
func GraphCacheKey(kernelKey, moduleText string, targets []string) string {
	sorted := append([]string(nil), targets...)
	sort.Strings(sorted)
	h := khash.Hash([]byte(kernelKey), []byte(moduleText), []byte(fmt.Sprint(sorted)))
	return h.String()
}

// writeBlob gob-encodes payload, flate-compresses it, and atomically
// replaces filename (write to a sibling temp file, then rename) — the
// same compact-and-swap idiom pkg/db's compact uses for its on-disk
// database file.
func writeBlob(filename string, payload any) error {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(payload); err != nil {
		return fmt.Errorf("kslice: failed to encode memoisation blob: %w", err)
	}
	var compressed bytes.Buffer
	compressed.WriteByte(memoVersion)
	fw, err := flate.NewWriter(&compressed, flate.BestCompression)
	if err != nil {
		return err
	}
	if _, err := fw.Write(raw.Bytes()); err != nil {
		return err
	}
	if err := fw.Close(); err != nil {
		return err
	}
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, compressed.Bytes(), osutil.DefaultFilePerm); err != nil {
		return fmt.Errorf("kslice: failed to write memoisation blob: %w", err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("kslice: failed to install memoisation blob: %w", err)
	}
	return nil
}

// readBlob reads and decodes a blob written by writeBlob. A missing file,
// a version mismatch, or any decode error is reported via ok=false rather
// than an error — callers treat a cache miss as routine, never fatal.
func readBlob(filename string, payload any) (ok bool) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return false
	}
	if len(data) == 0 || data[0] != memoVersion {
		log.Logf(1, "kslice: memoisation blob %v has an incompatible version, ignoring", filename)
		return false
	}
	fr := flate.NewReader(bytes.NewReader(data[1:]))
	defer fr.Close()
	raw, err := io.ReadAll(fr)
	if err != nil {
		log.Logf(1, "kslice: memoisation blob %v is corrupt, ignoring: %v", filename, err)
		return false
	}
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(payload); err != nil {
		log.Logf(1, "kslice: memoisation blob %v failed to decode, ignoring: %v", filename, err)
		return false
	}
	return true
}
