// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kslice

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kslicer/kslice/pkg/centity"
)

func TestGobEntityRoundTripPreservesFields(t *testing.T) {
	e := centity.NewEntity(centity.Enum, "state", "enum state { A, B };", centity.Module)
	e.WithExtraIds("A", "B")
	e.Struct = centity.StructInfo{ByteSize: 4, Align: 4}
	e.ForwardDecl = "enum state;"

	table := centity.NewTable()
	table.Add(e)

	back := fromGobEntities(toGobEntities(table))
	got, ok := back.ByName(centity.Module, centity.Enum, "state")
	require.True(t, ok)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, e.Code, got.Code)
	assert.True(t, got.Ids["A"] && got.Ids["B"])
	assert.Equal(t, 4, got.Struct.ByteSize)
	assert.Equal(t, "enum state;", got.ForwardDecl)
}

func TestEdgesToGobAndGraphFromGobRoundTrip(t *testing.T) {
	a := centity.NewEntity(centity.Function, "probe", "void probe(void) { helper(); }", centity.Module)
	b := centity.NewEntity(centity.Function, "helper", "void helper(void) {}", centity.Module)

	table := centity.NewTable()
	table.Add(a)
	table.Add(b)

	empty := graphFromGob(table, nil)
	require.NotNil(t, empty)
	assert.False(t, empty.HasEdge(a.ID, b.ID))

	edges := []gobEdge{{From: a.ID, To: b.ID}}
	rebuilt := graphFromGob(table, edges)
	assert.True(t, rebuilt.HasEdge(a.ID, b.ID))
	assert.ElementsMatch(t, edges, edgesToGob(rebuilt))
}

func TestWriteBlobReadBlobRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.blob")

	in := level1Payload{
		Entities: []gobEntity{{Name: "helper", Kind: centity.Function, Area: centity.Kernel}},
		Warnings: []string{"some warning"},
	}
	require.NoError(t, writeBlob(path, &in))

	var out level1Payload
	ok := readBlob(path, &out)
	require.True(t, ok)
	assert.Equal(t, in.Entities, out.Entities)
	assert.Equal(t, in.Warnings, out.Warnings)
}

func TestReadBlobMissingFileIsMiss(t *testing.T) {
	var out level1Payload
	ok := readBlob(filepath.Join(t.TempDir(), "missing.blob"), &out)
	assert.False(t, ok)
}

func TestReadBlobVersionMismatchIsMiss(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "badversion.blob")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 'j', 'u', 'n', 'k'}, 0644))

	var out level1Payload
	ok := readBlob(path, &out)
	assert.False(t, ok)
}

func TestReadBlobCorruptPayloadIsMiss(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.blob")
	require.NoError(t, os.WriteFile(path, []byte{memoVersion, 'n', 'o', 't', ' ', 'f', 'l', 'a', 't', 'e'}, 0644))

	var out level1Payload
	ok := readBlob(path, &out)
	assert.False(t, ok)
}

func TestKernelCacheKeyIsDeterministicAndContentSensitive(t *testing.T) {
	a := KernelCacheKey("kernel text", []string{"#define X 1"})
	b := KernelCacheKey("kernel text", []string{"#define X 1"})
	c := KernelCacheKey("kernel text", []string{"#define X 2"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGraphCacheKeyFoldsInModuleTextAndTargets(t *testing.T) {
	kernelKey := KernelCacheKey("kernel text", nil)
	a := GraphCacheKey(kernelKey, "module text", []string{"probe"})
	b := GraphCacheKey(kernelKey, "module text", []string{"probe2"})
	assert.NotEqual(t, a, b)
}
