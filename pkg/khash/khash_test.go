// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package khash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIsDeterministicAndPieceOrderSensitive(t *testing.T) {
	a := Hash([]byte("foo"), []byte("bar"))
	b := Hash([]byte("foo"), []byte("bar"))
	c := Hash([]byte("bar"), []byte("foo"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestStringRoundTripsThroughFromString(t *testing.T) {
	s := String([]byte("kernel text"), []byte("macro list"))
	sig, err := FromString(s)
	require.NoError(t, err)
	assert.Equal(t, s, sig.String())
}

func TestFromStringRejectsBadInput(t *testing.T) {
	_, err := FromString("not-hex!!")
	assert.Error(t, err)
	_, err = FromString("deadbeef")
	assert.Error(t, err)
}

func TestTruncate64IsStableAcrossCalls(t *testing.T) {
	sig := Hash([]byte("stable"))
	assert.Equal(t, sig.Truncate64(), sig.Truncate64())
}
