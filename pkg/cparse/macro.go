// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cparse

import (
	"regexp"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/textadapt"
)

// defineRe pulls the macro name (and, for function-like macros, its
// parameter list) off the front of an escrowed macro-line block. The body
// is whatever follows; it is not parsed further — Code/Tags carry it
// verbatim for edge discovery.
var defineRe = regexp.MustCompile(`^\s*#\s*define\s+([A-Za-z_]\w*)(\([^()]*\))?`)

// parseMacros classifies every escrowed macro-line block as a Macro entity
// (when it is a #define) or ignores it (#include, #ifdef, #pragma, and
// friends are not modeled as entities). Macro text never survives in
// adapted.Body — it was already replaced by a placeholder — so there is no
// span to report back to the caller.
func parseMacros(adapted *textadapt.Adapted, area centity.Area, table *centity.Table) []span {
	for _, block := range adapted.Escrows[textadapt.ClassMacroLine] {
		m := defineRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		name := m[1]
		e := centity.NewEntity(centity.Macro, name, block, area)
		table.Add(e)
	}
	return nil
}

// parseKernelMacroListEntry classifies one fragment of the separately
// delivered, already-tokenised kernel macro list (distilled spec §4.2).
// Non-#define fragments are ignored, same as parseMacros.
func parseKernelMacroListEntry(frag string, table *centity.Table) {
	m := defineRe.FindStringSubmatch(frag)
	if m == nil {
		return
	}
	name := m[1]
	e := centity.NewEntity(centity.Macro, name, frag, centity.Kernel)
	table.Add(e)
}
