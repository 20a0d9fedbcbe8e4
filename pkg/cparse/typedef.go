// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cparse

import (
	"regexp"

	"github.com/kslicer/kslice/pkg/centity"
)

var (
	typedefKeywordRe = regexp.MustCompile(`\btypedef\b`)
	funcPtrNameRe    = regexp.MustCompile(`\(\s*\*\s*([A-Za-z_]\w*)\s*\)`)
)

// parseTypedefs finds every `typedef ... NAME;` statement, including the
// `typedef struct { ... } NAME;` and function-pointer
// `typedef RET (*NAME)(ARGS);` forms, both of which need brace/paren
// balancing rather than a single regex.
func parseTypedefs(body string, area centity.Area, table *centity.Table) []span {
	var claimed []span
	for _, m := range typedefKeywordRe.FindAllStringIndex(body, -1) {
		start := m[0]
		if overlaps(spanOf(start, start+1), claimed) {
			continue
		}
		semi, ok := scanStatementEnd(body, start)
		if !ok {
			continue
		}
		stmt := body[start : semi+1]
		name := typedefName(stmt)
		if name == "" {
			continue
		}
		e := centity.NewEntity(centity.Typedef, name, stmt, area)
		table.Add(e)
		claimed = append(claimed, span{Start: start, End: semi + 1})
	}
	return claimed
}

func typedefName(stmt string) string {
	if fm := funcPtrNameRe.FindAllStringSubmatch(stmt, -1); len(fm) > 0 {
		return fm[len(fm)-1][1]
	}
	return lastIdentBefore(stmt, len(stmt)-1) // -1 drops the trailing ';'
}

func spanOf(start, end int) span {
	return span{Start: start, End: end}
}
