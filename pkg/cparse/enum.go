// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cparse

import (
	"regexp"
	"strings"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/textadapt"
)

var enumHeadRe = regexp.MustCompile(`\benum\b\s*([A-Za-z_]\w*)?\s*\{`)

// parseEnums finds every `enum [TAG] { CONST [= expr], ... } [NAME];`
// definition. The constant list becomes additional Ids on the entity so a
// reference to any one constant, not just the enum tag, creates an edge.
func parseEnums(body string, area centity.Area, table *centity.Table) []span {
	var claimed []span
	for _, m := range enumHeadRe.FindAllStringSubmatchIndex(body, -1) {
		start := m[0]
		if overlaps(span{start, start + 1}, claimed) {
			continue
		}
		tag := ""
		if m[2] >= 0 {
			tag = body[m[2]:m[3]]
		}
		braceOpen := m[1] - 1 // head regex ends right after '{'
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
		name = centity.FixIdentifier(name, start)

		consts := enumConstants(body[braceOpen+1 : braceClose])
		stmt := body[start : semi+1]
		e := centity.NewEntity(centity.Enum, name, stmt, area)
		e.WithExtraIds(consts...)
		table.Add(e)
		claimed = append(claimed, span{Start: start, End: semi + 1})
	}
	return claimed
}

var enumConstNameRe = regexp.MustCompile(`^([A-Za-z_]\w*)`)

// enumConstants splits an enum body on top-level commas (honouring
// parenthesised initializer expressions like `FOO = (1 << 2)`) and takes
// the leading identifier of each segment.
func enumConstants(inner string) []string {
	var names []string
	depth := 0
	segStart := 0
	flush := func(end int) {
		seg := strings.TrimSpace(inner[segStart:end])
		if seg == "" {
			return
		}
		if m := enumConstNameRe.FindString(seg); m != "" {
			names = append(names, m)
		}
	}
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(i)
				segStart = i + 1
			}
		}
	}
	flush(len(inner))
	return names
}
