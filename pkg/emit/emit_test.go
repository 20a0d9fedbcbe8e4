// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/xrefgraph"
)

func buildSimpleGraph(t *testing.T) (*xrefgraph.Graph, *centity.Entity, *centity.Entity, *centity.Entity) {
	g := xrefgraph.New()
	macro := centity.NewEntity(centity.Macro, "FLAG", "#define FLAG 1", centity.Kernel)
	kfn := centity.NewEntity(centity.Declaration, "helper", "extern void helper(void);", centity.Kernel)
	mfn := centity.NewEntity(centity.Function, "probe", "void probe(void) { helper(); }", centity.Module)
	g.EnsureVertex(macro)
	g.EnsureVertex(kfn)
	g.EnsureVertex(mfn)
	require.NoError(t, g.AddEdge(macro.ID, kfn.ID))
	require.NoError(t, g.AddEdge(kfn.ID, mfn.ID))
	return g, macro, kfn, mfn
}

func TestDrainRoutesToExpectedBuckets(t *testing.T) {
	g, _, _, _ := buildSimpleGraph(t)
	res, err := Drain(g, nil, Options{})
	require.NoError(t, err)
	assert.Contains(t, res.Buckets[BucketKernelH], "#define FLAG 1")
	assert.Contains(t, res.Buckets[BucketExternH], "extern void helper(void);")
	assert.Contains(t, res.Buckets[BucketModuleC], "void probe(void)")
}

func TestDrainOrdersMacroBeforeDeclarationBeforeFunction(t *testing.T) {
	g, macro, kfn, mfn := buildSimpleGraph(t)
	order, err := topoOrder(g)
	require.NoError(t, err)
	pos := map[centity.ID]int{}
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos[macro.ID], pos[kfn.ID])
	assert.Less(t, pos[kfn.ID], pos[mfn.ID])
}

func TestDrainElidesNonTargetFunctionBodies(t *testing.T) {
	g := xrefgraph.New()
	target := centity.NewEntity(centity.Function, "target", "void target(void) { other(); }", centity.Module)
	other := centity.NewEntity(centity.Function, "other", "void other(void) { }", centity.Module)
	g.EnsureVertex(target)
	g.EnsureVertex(other)
	require.NoError(t, g.AddEdge(other.ID, target.ID))

	res, err := Drain(g, nil, Options{
		ElideNonTargetFunctionBodies: true,
		Targets:                      map[string]bool{"target": true},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Buckets[BucketModuleC], "void target(void) { other(); }")
	assert.Contains(t, res.Buckets[BucketModuleC], "void other(void);")
	assert.NotContains(t, res.Buckets[BucketModuleC], "void other(void) { }")
}

func TestDrainSingleFileOutputConcatenatesInFixedOrder(t *testing.T) {
	g, _, _, _ := buildSimpleGraph(t)
	res, err := Drain(g, nil, Options{SingleFileOutput: true})
	require.NoError(t, err)
	require.NotEmpty(t, res.Single)
	kernelIdx := indexOf(res.Single, "FLAG")
	externIdx := indexOf(res.Single, "helper")
	moduleIdx := indexOf(res.Single, "probe")
	assert.True(t, kernelIdx < externIdx)
	assert.True(t, externIdx < moduleIdx)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestWithIncludesPrependsStandardHeaders(t *testing.T) {
	out := WithIncludes("void probe(void) {}\n")
	assert.Contains(t, out, "#include \"kernel.h\"")
	assert.Contains(t, out, "#include \"extern.h\"")
	assert.Contains(t, out, "#include \"module.h\"")
	assert.True(t, indexOf(out, "#include \"kernel.h\"") < indexOf(out, "void probe"))
}
