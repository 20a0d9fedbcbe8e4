// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kslice

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// JobFile is the batch-mode input for `kslice-extract -jobs file.yaml`
// (SPEC_FULL.md §4.7): a declarative list of extraction jobs, each
// naming its own kernel/module source trees, targets, and output flags,
// so a fleet of modules can be sliced in one invocation while still
// sharing the level-1 kernel-entity cache across jobs that name the same
// kernel tree.
type JobFile struct {
	Jobs []Job `yaml:"jobs"`
}

type Job struct {
	Name                         string   `yaml:"name"`
	KernelSrc                    string   `yaml:"kernel_src"`
	ModuleSrc                    string   `yaml:"module_src"`
	Targets                      []string `yaml:"targets"`
	OutDir                       string   `yaml:"out_dir"`
	SingleFileOutput             bool     `yaml:"single_file_output"`
	ElideNonTargetFunctionBodies bool     `yaml:"elide_non_target_function_bodies"`
	RemoveUnusedEnumFields       bool     `yaml:"remove_unused_enum_fields"`
}

// LoadJobFile reads and validates a batch job file.
func LoadJobFile(filename string) (*JobFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("kslice: failed to read job file %v: %w", filename, err)
	}
	var jf JobFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("kslice: failed to parse job file %v: %w", filename, err)
	}
	if len(jf.Jobs) == 0 {
		return nil, fmt.Errorf("kslice: job file %v declares no jobs", filename)
	}
	for i, j := range jf.Jobs {
		if j.Name == "" {
			return nil, fmt.Errorf("kslice: job %v has no name", i)
		}
		if len(j.Targets) == 0 {
			return nil, fmt.Errorf("kslice: job %v (%v) names no target functions", i, j.Name)
		}
	}
	return &jf, nil
}
