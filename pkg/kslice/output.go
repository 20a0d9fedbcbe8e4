// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kslice

// Output is either four named files or one concatenated file, matching
// whichever shape Input.SingleFileOutput requested.
type Output struct {
	Files    map[string][]byte // "module.c", "module.h", "kernel.h", "extern.h"
	Single   []byte
	Warnings []string
}
