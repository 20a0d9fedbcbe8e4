// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kslice

import "strings"

// splitByOrigin recovers the kernel/module provenance boundary that the
// preprocessor collaborator collapses when it inlines kernel headers into
// one token stream. Real `cpp -E` output carries GCC-style linemarkers
// (`# <lineno> "<path>" [flags]`) in front of every run of text copied
// from a different source file; this walks those markers, treats the
// first file seen as the module's own source (module area) and every
// other path as a kernel header (kernel area), and buckets each marker's
// following lines accordingly.
//
// Text with no linemarkers at all (e.g. a hand-written test fixture, or a
// module text assembled by pkg/kpreproc.FileConcat rather than an actual
// preprocessor) is entirely module area — which is exactly correct for
// that case, since there is then no kernel-header text mixed in at all.
func splitByOrigin(text string) (moduleText, kernelText string) {
	var module, kernel strings.Builder
	homeFile := ""
	homeSet := false
	cur := &module
	lines := strings.SplitAfter(text, "\n")
	for _, line := range lines {
		if path, ok := parseLinemarker(line); ok {
			if !homeSet {
				homeFile = path
				homeSet = true
			}
			if path == homeFile {
				cur = &module
			} else {
				cur = &kernel
			}
			continue // the marker line itself carries no C content
		}
		cur.WriteString(line)
	}
	return module.String(), kernel.String()
}

// parseLinemarker recognises `# <digits> "<path>" ...`. A `#line <digits>
// "<path>"` directive is not recognised. Returns the path and true on a
// match.
func parseLinemarker(line string) (string, bool) {
	t := strings.TrimLeft(line, " \t")
	t = strings.TrimRight(t, "\n")
	if !strings.HasPrefix(t, "#") {
		return "", false
	}
	t = strings.TrimSpace(t[1:])
	if t == "" || (t[0] < '0' || t[0] > '9') {
		return "", false
	}
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	t = strings.TrimSpace(t[i:])
	if len(t) < 2 || t[0] != '"' {
		return "", false
	}
	end := strings.IndexByte(t[1:], '"')
	if end < 0 {
		return "", false
	}
	return t[1 : 1+end], true
}
