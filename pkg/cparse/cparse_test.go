// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kslicer/kslice/pkg/centity"
)

func TestParseAreaModuleEndToEnd(t *testing.T) {
	src := `
#define MAX_RETRIES 3

typedef struct {
	int count;
} counter_t;

enum state { STATE_IDLE, STATE_RUNNING, STATE_DONE };

struct context {
	enum state s;
	counter_t c;
};

static int retries_left = MAX_RETRIES;

static void helper(struct context *ctx) {
	ctx->s = STATE_RUNNING;
}

void probe(struct context *ctx) {
	helper(ctx);
	retries_left--;
}
`
	table, adapted, err := ParseArea(src, centity.Module, nil)
	require.NoError(t, err)
	require.NotNil(t, adapted)
	assert.Empty(t, table.Warnings)

	_, ok := table.ByName(centity.Module, centity.Macro, "MAX_RETRIES")
	assert.True(t, ok)

	_, ok = table.ByName(centity.Module, centity.Typedef, "counter_t")
	assert.True(t, ok)

	enumEnt, ok := table.ByName(centity.Module, centity.Enum, "state")
	require.True(t, ok)
	assert.True(t, enumEnt.Ids["STATE_RUNNING"])

	_, ok = table.ByName(centity.Module, centity.Struct, "context")
	assert.True(t, ok)

	_, ok = table.ByName(centity.Module, centity.Global, "retries_left")
	assert.True(t, ok)

	_, ok = table.ByName(centity.Module, centity.Function, "helper")
	assert.True(t, ok)
	_, ok = table.ByName(centity.Module, centity.Function, "probe")
	assert.True(t, ok)
}

func TestParseAreaKernelDeclarations(t *testing.T) {
	src := `
extern void kfree(void *p);
extern int kernel_counter;
`
	table, _, err := ParseArea(src, centity.Kernel, nil)
	require.NoError(t, err)

	_, ok := table.ByName(centity.Kernel, centity.Declaration, "kfree")
	assert.True(t, ok)
	_, ok = table.ByName(centity.Kernel, centity.Declaration, "kernel_counter")
	assert.True(t, ok)
	// Declarations are kernel-area only; module areas never get this pass.
	_, _, err = ParseArea(src, centity.Module, nil)
	require.NoError(t, err)
}

func TestParseKernelMacroList(t *testing.T) {
	table, _, err := ParseArea("", centity.Kernel, []string{
		"#define FLAG 1",
		"#include <linux/slab.h>",
		"#define FN(x) ((x)+1)",
	})
	require.NoError(t, err)
	_, ok := table.ByName(centity.Kernel, centity.Macro, "FLAG")
	assert.True(t, ok)
	_, ok = table.ByName(centity.Kernel, centity.Macro, "FN")
	assert.True(t, ok)
	assert.Len(t, table.Entities(centity.Kernel, centity.Macro), 2)
}

func TestFunctionParserSkipsKeywordFalsePositiveAndPrototype(t *testing.T) {
	src := `
void real_fn(void) {
	if (real_fn) {
	}
}
void proto_only(int x);
`
	table, _, err := ParseArea(src, centity.Module, nil)
	require.NoError(t, err)
	_, ok := table.ByName(centity.Module, centity.Function, "real_fn")
	assert.True(t, ok)
	_, ok = table.ByName(centity.Module, centity.Function, "if")
	assert.False(t, ok)
	_, ok = table.ByName(centity.Module, centity.Function, "proto_only")
	assert.False(t, ok)
}

func TestTypedefFunctionPointerForm(t *testing.T) {
	src := `typedef int (*callback_t)(int, void *);`
	claimed := parseTypedefs(src, centity.Module, centity.NewTable())
	require.Len(t, claimed, 1)

	table := centity.NewTable()
	parseTypedefs(src, centity.Module, table)
	e, ok := table.ByName(centity.Module, centity.Typedef, "callback_t")
	require.True(t, ok)
	assert.Contains(t, e.Code, "callback_t")
}

func TestAnonymousStructWithNoTagOrDeclaratorIsSkipped(t *testing.T) {
	src := `struct { int x; int y; };`
	table := centity.NewTable()
	parseStructs(src, centity.Module, table)
	assert.Empty(t, table.All())
}

func TestAnonymousStructWithTrailingDeclaratorGetsName(t *testing.T) {
	src := `struct { int x; } point;`
	table := centity.NewTable()
	parseStructs(src, centity.Module, table)
	_, ok := table.ByName(centity.Module, centity.Struct, "point")
	assert.True(t, ok)
}

func TestEnumConstantsHandlesParenthesizedInitializers(t *testing.T) {
	names := enumConstants("A, B = (1 << 2), C")
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestTwoAnonymousEnumsInOneAreaDoNotCollide(t *testing.T) {
	src := `
enum { FOO_A, FOO_B };
enum { BAR_A, BAR_B };
`
	table := centity.NewTable()
	parseEnums(src, centity.Module, table)
	require.Empty(t, table.Warnings)
	require.Len(t, table.Entities(centity.Module, centity.Enum), 2)

	var allConsts []string
	for _, e := range table.Entities(centity.Module, centity.Enum) {
		for id := range e.Ids {
			allConsts = append(allConsts, id)
		}
	}
	assert.Contains(t, allConsts, "FOO_A")
	assert.Contains(t, allConsts, "BAR_A")
}

func TestGlobalParserSkipsPrototypeShapedStatements(t *testing.T) {
	src := `int forward_decl(int x);
int real_global = 5;`
	table := centity.NewTable()
	parseGlobals(src, centity.Module, table, nil)
	_, ok := table.ByName(centity.Module, centity.Global, "forward_decl")
	assert.False(t, ok)
	_, ok = table.ByName(centity.Module, centity.Global, "real_global")
	assert.True(t, ok)
}

func TestGlobalParserRespectsClaimedSpans(t *testing.T) {
	src := `int x = 1;`
	table := centity.NewTable()
	parseGlobals(src, centity.Module, table, []span{{Start: 0, End: len(src)}})
	assert.Empty(t, table.All())
}
