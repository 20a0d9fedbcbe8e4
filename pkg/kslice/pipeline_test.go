// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kslice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcreteScenarios runs the six concrete end-to-end scenarios through
// the real pipeline, one target each, checking the bucket each named
// entity lands in and, where two entities share a bucket and the scenario
// names an order, their emission order.
func TestConcreteScenarios(t *testing.T) {
	t.Run("mutual recursion forward-decl", func(t *testing.T) {
		text := "int a(void){return b();}\nint b(void){return a();}\n"
		res, err := Run(Input{ModuleText: text, TargetFunctions: []string{"a"}}, RunOptions{})
		require.NoError(t, err)
		c := string(res.Output.Files["module.c"])
		require.Contains(t, c, "int b(void);") // b's forward declaration
		aIdx := strings.Index(c, "int a(void){return b();}")
		bIdx := strings.Index(c, "int b(void){return a();}")
		require.NotEqual(t, -1, aIdx)
		require.NotEqual(t, -1, bIdx)
		assert.Less(t, aIdx, bIdx, "a must be emitted before b")
	})

	t.Run("struct plus function slice", func(t *testing.T) {
		text := "struct S { int x; };\nint f(struct S *p){return p->x;}\n"
		res, err := Run(Input{ModuleText: text, TargetFunctions: []string{"f"}}, RunOptions{})
		require.NoError(t, err)
		h := string(res.Output.Files["module.h"])
		c := string(res.Output.Files["module.c"])
		assert.Contains(t, h, "struct S { int x; };")
		assert.Contains(t, c, "int f(struct S *p){return p->x;}")
		assert.Empty(t, string(res.Output.Files["kernel.h"]))
		assert.Empty(t, string(res.Output.Files["extern.h"]))
	})

	t.Run("macro dependency", func(t *testing.T) {
		text := "#define K 3\nint g(void){return K;}\n"
		res, err := Run(Input{ModuleText: text, TargetFunctions: []string{"g"}}, RunOptions{})
		require.NoError(t, err)
		h := string(res.Output.Files["module.h"])
		c := string(res.Output.Files["module.c"])
		assert.Contains(t, h, "#define K 3")
		assert.Contains(t, c, "int g(void){return K;}")
		kIdx := strings.Index(h, "#define K 3")
		gIdx := strings.Index(c, "int g(void)")
		require.NotEqual(t, -1, kIdx)
		require.NotEqual(t, -1, gIdx)
	})

	t.Run("kernel extern pull-in", func(t *testing.T) {
		text := `# 1 "module.c"
int h(void *p) {
	kfree(p);
	return 0;
}
# 1 "/usr/include/linux/slab.h"
extern void kfree(void *p);
`
		res, err := Run(Input{ModuleText: text, TargetFunctions: []string{"h"}}, RunOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(res.Output.Files["extern.h"]), "extern void kfree(void *p);")
		assert.Contains(t, string(res.Output.Files["module.c"]), "int h(void *p)")
		assert.Empty(t, string(res.Output.Files["kernel.h"]))
	})

	t.Run("duplicate-name coalescing", func(t *testing.T) {
		text := "int dup(void) { return 1; }\nint dup(void) { return 2; }\nint f(void) { return dup(); }\n"
		res, err := Run(Input{ModuleText: text, TargetFunctions: []string{"f"}}, RunOptions{})
		require.NoError(t, err)
		c := string(res.Output.Files["module.c"])
		assert.Equal(t, 1, strings.Count(c, "int dup(void)"))
		require.NotEmpty(t, res.Output.Warnings)
		assert.Contains(t, res.Output.Warnings[0], "duplicate")
	})

	t.Run("typedef struct cycle", func(t *testing.T) {
		// "N *next" inside the struct body only parses once the typedef
		// name N is already known, so the typedef must precede the struct
		// — the edge cut is struct->typedef (the one running into the
		// typedef), leaving typedef->struct as the surviving ordering.
		text := "typedef struct N N;\nstruct N {\n\tN *next;\n};\nstruct N *advance(struct N *n) {\n\treturn n->next;\n}\n"
		res, err := Run(Input{ModuleText: text, TargetFunctions: []string{"advance"}}, RunOptions{})
		require.NoError(t, err)
		h := string(res.Output.Files["module.h"])
		assert.Contains(t, h, "struct N {")
		assert.Contains(t, h, "typedef struct N N;")
		structIdx := strings.Index(h, "struct N {")
		typedefIdx := strings.Index(h, "typedef struct N N;")
		require.NotEqual(t, -1, structIdx)
		require.NotEqual(t, -1, typedefIdx)
		assert.Less(t, typedefIdx, structIdx, "typedef must be emitted before struct")
	})
}
