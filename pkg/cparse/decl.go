// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cparse

import (
	"regexp"
	"strings"

	"github.com/kslicer/kslice/pkg/centity"
)

var externRe = regexp.MustCompile(`\bextern\b`)

// parseDeclarations finds every kernel-area `extern ...;` statement —
// function prototypes and extern data declarations alike — and records it
// as a Declaration. Both forms route to extern.h (see pkg/emit), so there
// is no need to split them into separate kinds.
func parseDeclarations(body string, area centity.Area, table *centity.Table) []span {
	var claimed []span
	for _, m := range externRe.FindAllStringIndex(body, -1) {
		start := m[0]
		if overlaps(span{start, start + 1}, claimed) {
			continue
		}
		semi, ok := scanStatementEnd(body, start)
		if !ok {
			continue
		}
		stmt := body[start : semi+1]
		name := declarationName(stmt)
		if name == "" || keywords[name] {
			continue
		}
		e := centity.NewEntity(centity.Declaration, name, stmt, area)
		table.Add(e)
		claimed = append(claimed, span{Start: start, End: semi + 1})
	}
	return claimed
}

func declarationName(stmt string) string {
	if paren := strings.IndexByte(stmt, '('); paren >= 0 {
		return lastIdentBefore(stmt, paren)
	}
	body := strings.TrimRight(stmt, "; \t")
	if idx := strings.IndexByte(body, '['); idx >= 0 {
		body = body[:idx]
	}
	return lastIdentBefore(body, len(body))
}
