// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package cparse implements the seven regex-grade entity parsers over
// already-adapted C text: macro, typedef, enum, struct/union, global,
// function-declaration (kernel extern prototypes), and function
// definition. Each parser is a greedy scan-then-classify pass, not a
// token-by-token walk — per the distilled spec, this is a pragmatic
// parser over preprocessed input, not a full C grammar.
package cparse

import (
	"fmt"
	"regexp"

	"github.com/kslicer/kslice/pkg/centity"
	"github.com/kslicer/kslice/pkg/textadapt"
)

// span is a half-open [Start, End) byte range already claimed by some
// parser, used so later parsers (global, in particular) can skip text
// already classified as a macro/typedef/enum/struct/function.
type span struct {
	Start, End int
}

func overlaps(s span, claimed []span) bool {
	for _, c := range claimed {
		if s.Start < c.End && c.Start < s.End {
			return true
		}
	}
	return false
}

// ParseArea runs every parser appropriate to area over rawText (kernel
// areas additionally get the Declaration parser; module areas do not —
// per §4.2, extern prototypes are only modeled for the kernel area) and
// returns the populated entity table plus the adapted text (callers need
// the latter's escrow tables to restore comments/strings at emission
// time).
//
// kernelMacroList is the separately-delivered, already-tokenised list of
// kernel #define fragments (distilled spec §4.2); pass nil for the
// module area.
func ParseArea(rawText string, area centity.Area, kernelMacroList []string) (*centity.Table, *textadapt.Adapted, error) {
	adapted := textadapt.Adapt(rawText, textadapt.ClassComment, textadapt.ClassString,
		textadapt.ClassAttribute, textadapt.ClassMacroLine)

	table := centity.NewTable()
	var claimed []span

	macroSpans := parseMacros(adapted, area, table)
	claimed = append(claimed, macroSpans...)
	for _, frag := range kernelMacroList {
		parseKernelMacroListEntry(frag, table)
	}

	claimed = append(claimed, parseTypedefs(adapted.Body, area, table)...)
	claimed = append(claimed, parseEnums(adapted.Body, area, table)...)
	claimed = append(claimed, parseStructs(adapted.Body, area, table)...)
	if area == centity.Kernel {
		claimed = append(claimed, parseDeclarations(adapted.Body, area, table)...)
	}
	claimed = append(claimed, parseFunctions(adapted.Body, area, table)...)
	parseGlobals(adapted.Body, area, table, claimed)

	return table, adapted, nil
}

var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// lastIdentBefore returns the last identifier-shaped token in text[:end],
// or "" if none is found. Used by several parsers to pull a declared name
// out of a trailing declarator.
func lastIdentBefore(text string, end int) string {
	matches := identRe.FindAllStringIndex(text[:end], -1)
	if len(matches) == 0 {
		return ""
	}
	last := matches[len(matches)-1]
	return text[last[0]:last[1]]
}

var keywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "return": true,
	"do": true, "else": true, "case": true, "default": true, "sizeof": true,
	"goto": true, "break": true, "continue": true, "typedef": true,
	"struct": true, "union": true, "enum": true, "static": true,
	"inline": true, "extern": true, "void": true, "const": true,
	"volatile": true, "register": true, "auto": true, "asm": true,
	"__asm__": true,
}

func warnf(table *centity.Table, format string, args ...any) {
	table.Warnings = append(table.Warnings, fmt.Sprintf(format, args...))
}
