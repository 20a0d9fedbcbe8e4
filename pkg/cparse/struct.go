// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cparse

import (
	"regexp"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/textadapt"
)

var structHeadRe = regexp.MustCompile(`\b(?:struct|union)\b\s*([A-Za-z_]\w*)?\s*\{`)

// parseStructs finds every `struct|union [TAG] { ... } [NAME];`
// definition. Union is folded into the same Struct kind as struct — the
// distilled spec's kind list has no separate Union bucket, and the two
// share identical cross-reference and emission rules.
func parseStructs(body string, area centity.Area, table *centity.Table) []span {
	var claimed []span
	for _, m := range structHeadRe.FindAllStringSubmatchIndex(body, -1) {
		start := m[0]
		if overlaps(span{start, start + 1}, claimed) {
			continue
		}
		tag := ""
		if m[2] >= 0 {
			tag = body[m[2]:m[3]]
		}
		braceOpen := m[1] - 1
		braceClose, ok := textadapt.MatchBrace(body, braceOpen)
		if !ok {
			continue
		}
		semi, ok := scanStatementEnd(body, braceClose)
		if !ok {
			continue
		}
		trailingName := lastIdentBefore(body[braceClose+1:semi], semi-braceClose-1)
		name := tag
		if name == "" {
			name = trailingName
		}
		if name == "" {
			// A genuinely anonymous struct with no tag and no trailing
			// declarator isn't a standalone entity (it only ever appears
			// nested inside another declaration, which that declaration's
			// own parser already captures as one block of Code).
			continue
		}
		stmt := body[start : semi+1]
		e := centity.NewEntity(centity.Struct, name, stmt, area)
		table.Add(e)
		claimed = append(claimed, span{Start: start, End: semi + 1})
	}
	return claimed
}
