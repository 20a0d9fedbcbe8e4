// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cparse

import (
	"strings"

	"github.com/kslicer/kslice/pkg/centity"
)

// parseGlobals sweeps the remaining top-level statements — everything not
// already claimed by the typedef/enum/struct/declaration/function passes
// — and records each one as a Global, unless it has prototype shape
// (`... NAME(ARGS);` with no body, which this system does not model as a
// standalone kind when it isn't extern-prefixed).
func parseGlobals(body string, area centity.Area, table *centity.Table, claimed []span) {
	depth := 0
	segStart := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		case ';':
			if depth == 0 {
				considerGlobal(body[segStart:i+1], span{Start: segStart, End: i + 1}, area, table, claimed)
				segStart = i + 1
			}
		}
	}
}

func considerGlobal(seg string, sp span, area centity.Area, table *centity.Table, claimed []span) {
	if overlaps(sp, claimed) {
		return
	}
	trimmed := strings.TrimSpace(seg)
	if trimmed == "" {
		return
	}
	if strings.HasSuffix(trimmed, ");") {
		return // bare prototype, not modeled
	}
	decl := strings.TrimRight(trimmed, "; \t")
	if eq := strings.IndexByte(decl, '='); eq >= 0 {
		decl = decl[:eq]
	}
	decl = strings.TrimRight(decl, " \t")
	if idx := strings.IndexByte(decl, '['); idx >= 0 {
		decl = decl[:idx]
	}
	name := lastIdentBefore(decl, len(decl))
	if name == "" || keywords[name] {
		return
	}
	e := centity.NewEntity(centity.Global, name, trimmed, area)
	table.Add(e)
}
