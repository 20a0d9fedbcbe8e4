// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cparse

import (
	"regexp"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/textadapt"
)

var callShapeRe = regexp.MustCompile(`([A-Za-z_]\w*)\s*\(`)

// parseFunctions finds every `RET NAME(ARGS) { BODY }` definition. It
// scans every identifier-then-paren occurrence in source order and skips
// any that falls inside a span already claimed by an earlier match — C
// functions never nest, so once a definition's body is claimed, nothing
// inside it can be another top-level function. Candidates immediately
// followed by ';' instead of '{' are prototypes, which this system does
// not model as a standalone kind (plain, non-extern prototypes carry no
// information the slice needs).
func parseFunctions(body string, area centity.Area, table *centity.Table) []span {
	var claimed []span
	claimedEnd := 0
	for _, m := range callShapeRe.FindAllStringSubmatchIndex(body, -1) {
		nameStart, nameEnd := m[2], m[3]
		parenOpen := m[1] - 1
		if nameStart < claimedEnd {
			continue
		}
		name := body[nameStart:nameEnd]
		parenClose, ok := textadapt.MatchParen(body, parenOpen)
		if !ok {
			continue
		}
		next := skipWhitespace(body, parenClose+1)
		if keywords[name] {
			if next >= len(body) || body[next] != '{' {
				continue // ordinary control-flow keyword usage, nothing to warn about
			}
			warnf(table, "skipping %q at byte %d: looks like a function definition but the name is a C keyword", name, nameStart)
			continue
		}
		if next >= len(body) || body[next] != '{' {
			continue // prototype, not a definition
		}
		braceClose, ok := textadapt.MatchBrace(body, next)
		if !ok {
			continue
		}
		start := statementStart(body, nameStart)
		code := body[start : braceClose+1]
		e := centity.NewEntity(centity.Function, name, code, area)
		table.Add(e)
		claimed = append(claimed, span{Start: start, End: braceClose + 1})
		claimedEnd = braceClose + 1
	}
	return claimed
}
