// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kslice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLinemarkerRecognisesGCCStyle(t *testing.T) {
	path, ok := parseLinemarker(`# 12 "/usr/include/linux/slab.h" 1`)
	assert.True(t, ok)
	assert.Equal(t, "/usr/include/linux/slab.h", path)
}

func TestParseLinemarkerRejectsOrdinaryLine(t *testing.T) {
	_, ok := parseLinemarker("void probe(void) {}")
	assert.False(t, ok)
}

func TestParseLinemarkerRejectsMissingQuote(t *testing.T) {
	_, ok := parseLinemarker("# 12 unterminated")
	assert.False(t, ok)
}

func TestSplitByOriginWithNoLinemarkersIsAllModule(t *testing.T) {
	text := "void probe(void) {\n\treturn;\n}\n"
	module, kernel := splitByOrigin(text)
	assert.Equal(t, text, module)
	assert.Empty(t, kernel)
}

func TestSplitByOriginBucketsByFirstFileSeen(t *testing.T) {
	text := `# 1 "mymodule.c"
void probe(void) {}
# 1 "/usr/include/linux/slab.h"
void *kmalloc(int size);
# 2 "mymodule.c"
void probe2(void) {}
`
	module, kernel := splitByOrigin(text)
	assert.Contains(t, module, "void probe(void)")
	assert.Contains(t, module, "void probe2(void)")
	assert.NotContains(t, module, "kmalloc")
	assert.Contains(t, kernel, "kmalloc")
	assert.NotContains(t, kernel, "probe(")
}

func TestSplitByOriginTreatsRepeatedHomeFileAsModule(t *testing.T) {
	text := `# 1 "mymodule.c"
int a;
# 1 "/usr/include/linux/types.h"
int b;
# 5 "mymodule.c"
int c;
`
	module, kernel := splitByOrigin(text)
	assert.Contains(t, module, "int a;")
	assert.Contains(t, module, "int c;")
	assert.NotContains(t, module, "int b;")
	assert.Contains(t, kernel, "int b;")
}
