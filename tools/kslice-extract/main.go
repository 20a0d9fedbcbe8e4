// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Command kslice-extract extracts, from a preprocessed kernel module
// source tree plus its matching kernel tree, the minimum self-contained
// slice of C code needed to compile one or more designated module
// functions and everything they transitively depend on.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kslicer/kslice/pkg/kpreproc"
	"github.com/kslicer/kslice/pkg/kslice"
	"github.com/kslicer/kslice/pkg/kstat"
	"github.com/kslicer/kslice/pkg/log"
	"github.com/kslicer/kslice/pkg/slicer"
	"github.com/kslicer/kslice/pkg/tool"
)

func main() {
	var (
		flagKernelSrc    = flag.String("kernel_src", "", "kernel macro list file: #define fragments separated by blank lines")
		flagModuleSrc    = flag.String("module_src", "", "module source tree (or already-preprocessed file/dir)")
		flagTargets      = flag.String("targets", "", "comma-separated list of target function names")
		flagOutDir       = flag.String("out", ".", "output directory")
		flagSingleFile   = flag.Bool("single_file", false, "emit one concatenated file instead of the four conventional buckets")
		flagElideBodies  = flag.Bool("elide_bodies", false, "emit non-target module functions as prototypes without bodies")
		flagRemoveUnused = flag.Bool("remove_unused_enum_fields", false, "accepted but has no effect: enums are emitted with all their constants")
		flagCacheDir     = flag.String("cache_dir", "", "memoisation cache directory (disabled if empty)")
		flagJobs         = flag.String("jobs", "", "batch job YAML file (overrides all single-job flags)")
		flagStats        = flag.Bool("stats", false, "print kstat counters to stderr after the run")
		flagInterfaces   = flag.Bool("interfaces", false, "print a per-target Interface summary as JSON")
	)
	flag.Parse()

	var err error
	if *flagJobs != "" {
		err = runBatch(*flagJobs, *flagCacheDir, *flagStats, *flagInterfaces)
	} else if *flagModuleSrc == "" || *flagTargets == "" {
		err = &userInputError{fmt.Errorf("-module_src and -targets are required (or pass -jobs)")}
	} else {
		err = runOne(singleJob{
			kernelSrc:     *flagKernelSrc,
			moduleSrc:     *flagModuleSrc,
			targets:       splitCommaList(*flagTargets),
			outDir:        *flagOutDir,
			singleFile:    *flagSingleFile,
			elideBodies:   *flagElideBodies,
			removeUnused:  *flagRemoveUnused,
			cacheDir:      *flagCacheDir,
			stats:         *flagStats,
			interfaces:    *flagInterfaces,
		})
	}
	if err != nil {
		if isUserError(err) {
			fmt.Fprintf(os.Stderr, "kslice-extract: %v\n", err)
			os.Exit(2)
		}
		tool.Fail(err)
	}
}

type singleJob struct {
	kernelSrc, moduleSrc string
	targets              []string
	outDir               string
	singleFile           bool
	elideBodies          bool
	removeUnused         bool
	cacheDir             string
	stats, interfaces    bool
}

// userInputError marks an error whose root cause is a bad command line or
// job file entry (exit code 2), as opposed to an internal failure (exit
// code 1).
type userInputError struct{ err error }

func (e *userInputError) Error() string { return e.err.Error() }
func (e *userInputError) Unwrap() error { return e.err }

// isUserError reports whether err (possibly wrapped, e.g. by runBatch's
// "job %v: %w") is a spec §6/§7 input error that must exit with code 2
// rather than 1: a bad flag/job-file entry, or a target function name
// kslice.Run couldn't resolve in the module.
func isUserError(err error) bool {
	var uie *userInputError
	if errors.As(err, &uie) {
		return true
	}
	var missing *slicer.MissingTargetError
	if errors.As(err, &missing) {
		return true
	}
	var empty *slicer.EmptyTargetsError
	return errors.As(err, &empty)
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runOne(job singleJob) error {
	pre, err := kpreproc.FileConcat{}.Preprocess(context.Background(), job.kernelSrc, job.moduleSrc)
	if err != nil {
		return &userInputError{err}
	}
	result, err := kslice.Run(kslice.Input{
		ModuleText:                   pre.ModuleText,
		KernelMacroList:              pre.KernelMacroList,
		TargetFunctions:              job.targets,
		SingleFileOutput:             job.singleFile,
		ElideNonTargetFunctionBodies: job.elideBodies,
		RemoveUnusedEnumFields:       job.removeUnused,
	}, kslice.RunOptions{CacheDir: job.cacheDir, ComputeInterfaces: job.interfaces})
	if err != nil {
		return err
	}
	if err := writeOutput(job.outDir, result.Output); err != nil {
		return err
	}
	for _, w := range result.Output.Warnings {
		log.Logf(0, "warning: %v", w)
	}
	if job.interfaces {
		printInterfaces(result.Interfaces)
	}
	if job.stats {
		printStats()
	}
	return nil
}

func runBatch(jobsFile, cacheDir string, stats, interfaces bool) error {
	jf, err := kslice.LoadJobFile(jobsFile)
	if err != nil {
		return &userInputError{err}
	}
	for _, j := range jf.Jobs {
		log.Logf(0, "running job %v", j.Name)
		outDir := j.OutDir
		if outDir == "" {
			outDir = filepath.Join(".", j.Name)
		}
		err := runOne(singleJob{
			kernelSrc:    j.KernelSrc,
			moduleSrc:    j.ModuleSrc,
			targets:      j.Targets,
			outDir:       outDir,
			singleFile:   j.SingleFileOutput,
			elideBodies:  j.ElideNonTargetFunctionBodies,
			removeUnused: j.RemoveUnusedEnumFields,
			cacheDir:     cacheDir,
			stats:        false,
			interfaces:   interfaces,
		})
		if err != nil {
			return fmt.Errorf("job %v: %w", j.Name, err)
		}
	}
	if stats {
		printStats()
	}
	return nil
}

func writeOutput(outDir string, out *kslice.Output) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir %v: %w", outDir, err)
	}
	if out.Single != nil {
		return os.WriteFile(filepath.Join(outDir, "module.slice.c"), out.Single, 0644)
	}
	names := make([]string, 0, len(out.Files))
	for name := range out.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(outDir, name), out.Files[name], 0644); err != nil {
			return fmt.Errorf("failed to write %v: %w", name, err)
		}
	}
	return nil
}

func printInterfaces(ifaces []*kslice.Interface) {
	data, err := json.MarshalIndent(ifaces, "", "  ")
	if err != nil {
		log.Logf(0, "failed to marshal interfaces: %v", err)
		return
	}
	fmt.Fprintln(os.Stderr, string(data))
}

func printStats() {
	for _, ui := range kstat.Collect() {
		fmt.Fprintf(os.Stderr, "%-40s %v\n", ui.Name, ui.Value)
	}
}
