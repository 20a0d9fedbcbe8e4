// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package kpreproc defines the stated interface to the external
// preprocessor collaborator (driving `make prepare` / `gcc -E` against an
// actual kernel build tree is out of scope) and ships FileConcat, a
// default implementation that assumes the inputs were already
// preprocessed upstream.
package kpreproc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kslicer/kslice/pkg/osutil"
)

// Output is what a Preprocessor hands back to pkg/kslice.Run: the
// preprocessed module text (kernel headers inlined) and the separately
// delivered, already-tokenised kernel macro list.
type Output struct {
	ModuleText      string
	KernelMacroList []string
}

// Preprocessor turns a kernel source tree and a module source tree into
// the Output pkg/kslice.Run consumes.
type Preprocessor interface {
	Preprocess(ctx context.Context, kernelSrc, moduleSrc string) (*Output, error)
}

// FileConcat is the default Preprocessor: moduleSrc names either a single
// already-preprocessed file, or a directory whose .c/.i/.h files are
// concatenated in sorted path order (so the result is deterministic), and
// kernelSrc names a flat text file of #define fragments, each one (single-
// or multi-line) separated from the next by a blank line.
type FileConcat struct{}

func (FileConcat) Preprocess(ctx context.Context, kernelSrc, moduleSrc string) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	moduleText, err := concatModuleFiles(moduleSrc)
	if err != nil {
		return nil, fmt.Errorf("kpreproc: %w", err)
	}
	macros, err := readMacroList(kernelSrc)
	if err != nil {
		return nil, fmt.Errorf("kpreproc: %w", err)
	}
	return &Output{ModuleText: moduleText, KernelMacroList: macros}, nil
}

func concatModuleFiles(moduleSrc string) (string, error) {
	info, err := os.Stat(moduleSrc)
	if err != nil {
		return "", fmt.Errorf("failed to stat module source %v: %w", moduleSrc, err)
	}
	if !info.IsDir() {
		data, err := os.ReadFile(moduleSrc)
		if err != nil {
			return "", fmt.Errorf("failed to read module source %v: %w", moduleSrc, err)
		}
		return string(data), nil
	}
	var files []string
	err = filepath.Walk(moduleSrc, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext == ".c" || ext == ".i" || ext == ".h" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk module source dir %v: %w", moduleSrc, err)
	}
	sort.Strings(files)
	var sb strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("failed to read %v: %w", f, err)
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// readMacroList parses kernelSrc as a flat file of #define fragments,
// blank-line separated (a multi-line macro's continuation lines stay
// attached to its fragment via the trailing backslash already present in
// its own text, same as a real preprocessor's macro table dump).
func readMacroList(kernelSrc string) ([]string, error) {
	if kernelSrc == "" || !osutil.IsExist(kernelSrc) {
		return nil, nil
	}
	data, err := os.ReadFile(kernelSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel macro list %v: %w", kernelSrc, err)
	}
	var frags []string
	for _, block := range strings.Split(string(data), "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			frags = append(frags, block)
		}
	}
	return frags, nil
}
