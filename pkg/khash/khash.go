// Copyright 2026 the kslice project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package khash computes the content-addressed cache keys pkg/kslice's
// two-level memoisation uses to decide whether a kernel source tree or a
// built graph can be reused across runs.
package khash

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Sig is a SHA-1 digest over one or more byte pieces.
type Sig [sha1.Size]byte

// Hash digests pieces in order; callers that need the pieces to be
// order-sensitive (e.g. a sorted file-path list followed by its content)
// must feed them in that order themselves.
func Hash(pieces ...[]byte) Sig {
	h := sha1.New()
	for _, p := range pieces {
		h.Write(p)
	}
	var sig Sig
	copy(sig[:], h.Sum(nil))
	return sig
}

// String digests pieces and formats the result as hex.
func String(pieces ...[]byte) string {
	sig := Hash(pieces...)
	return sig.String()
}

func (sig Sig) String() string {
	return hex.EncodeToString(sig[:])
}

// Truncate64 returns the first 64 bits of the digest as an int64, for use
// as a compact memoisation map key.
func (sig Sig) Truncate64() int64 {
	var v int64
	if err := binary.Read(bytes.NewReader(sig[:]), binary.LittleEndian, &v); err != nil {
		panic(fmt.Sprintf("khash: failed to truncate signature: %v", err))
	}
	return v
}

// FromString parses a hex-encoded signature produced by String.
func FromString(s string) (Sig, error) {
	bin, err := hex.DecodeString(s)
	if err != nil {
		return Sig{}, fmt.Errorf("khash: bad signature %q: %w", s, err)
	}
	if len(bin) != len(Sig{}) {
		return Sig{}, fmt.Errorf("khash: bad signature %q: wrong length", s)
	}
	var sig Sig
	copy(sig[:], bin)
	return sig, nil
}
