// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package kmers provides canonicalization and seeded hashing of DNA k-mers,
// and a lazy hash iterator over the sliding windows of a sequence.
package kmers

import (
	"bytes"
	"errors"

	"github.com/twmb/murmur3"
)

// ErrIllegalBase means a base beyond A/C/G/T is detected.
var ErrIllegalBase = errors.New("kmers: illegal base")

// ErrInvalidK means k < 1 or k > 255.
var ErrInvalidK = errors.New("kmers: invalid k-mer size (1 <= k <= 255)")

// ErrShortSeq means the sequence is shorter than k.
var ErrShortSeq = errors.New("kmers: sequence too short")

// Seed is the seed of the murmur3 hash function.
// It has to match that of other tools (sourmash) for identical hash values.
const Seed uint64 = 42

// base2upper maps a/c/g/t and A/C/G/T to the uppercase base, others to 0.
var base2upper [256]byte

// base2comp maps a base to its uppercase complement, others to 0.
var base2comp [256]byte

func init() {
	for _, p := range [4][2]byte{{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'}} {
		base2upper[p[0]] = p[0]
		base2upper[p[0]+32] = p[0] // lowercase
		base2comp[p[0]] = p[1]
		base2comp[p[0]+32] = p[1]
	}
}

// RevComp returns the reverse complement of seq as a new byte slice.
// Bases are uppercased. It returns ErrIllegalBase for bases beyond A/C/G/T.
func RevComp(seq []byte) ([]byte, error) {
	rc := make([]byte, len(seq))
	var c byte
	for i, b := range seq {
		c = base2comp[b]
		if c == 0 {
			return nil, ErrIllegalBase
		}
		rc[len(seq)-1-i] = c
	}
	return rc, nil
}

// Canonical returns the canonical form of a k-mer:
// the lexicographically smaller one of the uppercased k-mer
// and its reverse complement.
func Canonical(kmer []byte) ([]byte, error) {
	fwd := make([]byte, len(kmer))
	rc := make([]byte, len(kmer))
	var u byte
	for i, b := range kmer {
		u = base2upper[b]
		if u == 0 {
			return nil, ErrIllegalBase
		}
		fwd[i] = u
		rc[len(kmer)-1-i] = base2comp[b]
	}
	if bytes.Compare(fwd, rc) <= 0 {
		return fwd, nil
	}
	return rc, nil
}

// HashBytes returns the seeded 64-bit murmur3 hash of arbitrary bytes,
// i.e., the first half of murmur3 x64-128.
func HashBytes(b []byte, seed uint64) uint64 {
	h1, _ := murmur3.SeedSum128(seed, seed, b)
	return h1
}

// Hash returns the hash value of the canonical form of a k-mer.
func Hash(kmer []byte) (uint64, error) {
	canonical, err := Canonical(kmer)
	if err != nil {
		return 0, err
	}
	return HashBytes(canonical, Seed), nil
}
