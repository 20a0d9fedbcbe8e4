// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cparse

import "github.com/kslicer/kslice/pkg/textadapt"

// scanStatementEnd returns the index of the top-level ';' that terminates
// the statement starting at start, skipping over any balanced '{...}' or
// '(...)' blocks encountered along the way (so a struct body's internal
// semicolons, or a function argument list, never terminate the scan
// early). ok is false if no such ';' exists before the end of text.
func scanStatementEnd(text string, start int) (int, bool) {
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			close, ok := textadapt.MatchBrace(text, i)
			if !ok {
				return 0, false
			}
			i = close
		case '(':
			close, ok := textadapt.MatchParen(text, i)
			if !ok {
				return 0, false
			}
			i = close
		case ';':
			return i, true
		}
	}
	return 0, false
}

// statementStart scans backward from pos to find the start of the
// enclosing top-level statement: just after the nearest preceding ';' or
// '}', or the start of text if none exists.
func statementStart(text string, pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if text[i] == ';' || text[i] == '}' {
			return trimLeftWhitespace(text, i+1)
		}
	}
	return trimLeftWhitespace(text, 0)
}

func trimLeftWhitespace(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	return i
}

func skipWhitespace(text string, i int) int {
	return trimLeftWhitespace(text, i)
}
