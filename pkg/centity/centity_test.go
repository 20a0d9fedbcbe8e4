// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package centity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAddKeepsFirstOccurrence(t *testing.T) {
	table := NewTable()
	first := NewEntity(Function, "foo", "void foo(void) {}", Module)
	second := NewEntity(Function, "foo", "void foo(void) { return; }", Module)

	require.True(t, table.Add(first))
	require.False(t, table.Add(second))

	got, ok := table.ByName(Module, Function, "foo")
	require.True(t, ok)
	assert.Equal(t, first.ID, got.ID)
	require.Len(t, table.Warnings, 1)
	assert.Contains(t, table.Warnings[0], "duplicate")
	assert.Contains(t, table.Warnings[0], "bodies differ")
}

func TestTableAddIdenticalBodyNoDiffNoise(t *testing.T) {
	table := NewTable()
	require.True(t, table.Add(NewEntity(Macro, "X", "#define X 1", Kernel)))
	require.False(t, table.Add(NewEntity(Macro, "X", "#define X 1", Kernel)))
	require.Len(t, table.Warnings, 1)
	assert.NotContains(t, table.Warnings[0], "bodies differ")
}

func TestTableSameNameDifferentAreaOrKindDoesNotCollide(t *testing.T) {
	table := NewTable()
	require.True(t, table.Add(NewEntity(Function, "probe", "void probe(void){}", Module)))
	require.True(t, table.Add(NewEntity(Function, "probe", "void probe(void){}", Kernel)))
	require.True(t, table.Add(NewEntity(Global, "probe", "int probe;", Module)))
	assert.Empty(t, table.Warnings)
}

func TestTableMergePreservesDuplicatePolicyAndWarnings(t *testing.T) {
	a := NewTable()
	a.Add(NewEntity(Typedef, "u32", "typedef unsigned int u32;", Kernel))

	b := NewTable()
	b.Add(NewEntity(Typedef, "u32", "typedef unsigned int u32_v2;", Kernel))
	b.Warnings = append(b.Warnings, "unrelated parse warning")

	a.Merge(b)
	assert.Len(t, a.Entities(Kernel, Typedef), 1)
	assert.Contains(t, a.Warnings, "unrelated parse warning")
	found := false
	for _, w := range a.Warnings {
		if strings.Contains(w, "duplicate") {
			found = true
		}
	}
	assert.True(t, found, "expected a duplicate warning from the merge")
}

func TestEnumExtraIds(t *testing.T) {
	e := NewEntity(Enum, "color", "enum color { RED, GREEN, BLUE };", Module).
		WithExtraIds("RED", "GREEN", "BLUE")
	assert.ElementsMatch(t, []string{"RED", "GREEN", "BLUE", "color"}, e.SortedIds())
}

func TestTagTokens(t *testing.T) {
	e := NewEntity(Function, "f", "void f(void) { helper(x); }", Module)
	toks := e.TagTokens()
	assert.True(t, toks["helper"])
	assert.True(t, toks["x"])
	assert.False(t, toks["("])
}

func TestKindPriorityOrder(t *testing.T) {
	order := []Kind{Macro, Enum, Typedef, Struct, Global, Declaration, Function}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1].Priority(), order[i].Priority())
	}
}

func TestAllIsSortedDeterministically(t *testing.T) {
	table := NewTable()
	table.Add(NewEntity(Function, "zeta", "void zeta(void){}", Module))
	table.Add(NewEntity(Function, "alpha", "void alpha(void){}", Module))
	table.Add(NewEntity(Global, "beta", "int beta;", Kernel))

	all := table.All()
	require.Len(t, all, 3)
	assert.Equal(t, Kernel, all[0].Area)
	assert.Equal(t, "alpha", all[1].Name)
	assert.Equal(t, "zeta", all[2].Name)
}
