// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kslicer/kslice/pkg/slicer"
)

func TestIsUserErrorClassifiesUserInputError(t *testing.T) {
	assert.True(t, isUserError(&userInputError{fmt.Errorf("bad flag")}))
}

func TestIsUserErrorClassifiesMissingTarget(t *testing.T) {
	assert.True(t, isUserError(&slicer.MissingTargetError{Name: "probe"}))
}

func TestIsUserErrorClassifiesEmptyTargets(t *testing.T) {
	assert.True(t, isUserError(&slicer.EmptyTargetsError{}))
}

func TestIsUserErrorSeesThroughJobWrapping(t *testing.T) {
	wrapped := fmt.Errorf("job %v: %w", "mod-a", &slicer.MissingTargetError{Name: "probe"})
	assert.True(t, isUserError(wrapped))

	wrapped = fmt.Errorf("job %v: %w", "mod-a", &slicer.EmptyTargetsError{})
	assert.True(t, isUserError(wrapped))
}

func TestIsUserErrorRejectsInternalError(t *testing.T) {
	assert.False(t, isUserError(fmt.Errorf("graph build failed: boom")))
}
