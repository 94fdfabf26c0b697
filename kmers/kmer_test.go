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

package kmers

import (
	"math/rand"
	"testing"
)

func TestRevComp(t *testing.T) {
	cases := [][2]string{
		{"ACGT", "ACGT"},
		{"AAAA", "TTTT"},
		{"acgt", "ACGT"},
		{"GATTACA", "TGTAATC"},
	}
	for _, c := range cases {
		rc, err := RevComp([]byte(c[0]))
		if err != nil {
			t.Errorf("revcomp %s: %s", c[0], err)
			continue
		}
		if string(rc) != c[1] {
			t.Errorf("revcomp %s: expected %s, got %s", c[0], c[1], rc)
		}
	}

	if _, err := RevComp([]byte("ACGN")); err != ErrIllegalBase {
		t.Errorf("expected ErrIllegalBase, got %v", err)
	}
}

func TestCanonical(t *testing.T) {
	cases := [][2]string{
		{"AAAA", "AAAA"},
		{"TTTT", "AAAA"},
		{"GGGG", "CCCC"},
		{"ATCG", "ATCG"}, // revcomp is CGAT
		{"CGAT", "ATCG"},
		{"ttTT", "AAAA"},
		{"ACGT", "ACGT"}, // palindrome
	}
	for _, c := range cases {
		canonical, err := Canonical([]byte(c[0]))
		if err != nil {
			t.Errorf("canonicalize %s: %s", c[0], err)
			continue
		}
		if string(canonical) != c[1] {
			t.Errorf("canonicalize %s: expected %s, got %s", c[0], c[1], canonical)
		}
	}

	if _, err := Canonical([]byte("ACNT")); err != ErrIllegalBase {
		t.Errorf("expected ErrIllegalBase, got %v", err)
	}
}

// the canonical form has to be strand independent
func TestCanonicalStrandInvariance(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	bases := []byte("ACGT")
	for i := 0; i < 100; i++ {
		k := 1 + r.Intn(64)
		kmer := make([]byte, k)
		for j := range kmer {
			kmer[j] = bases[r.Intn(4)]
		}

		c1, err := Canonical(kmer)
		if err != nil {
			t.Error(err)
			return
		}
		rc, err := RevComp(kmer)
		if err != nil {
			t.Error(err)
			return
		}
		c2, err := Canonical(rc)
		if err != nil {
			t.Error(err)
			return
		}
		if string(c1) != string(c2) {
			t.Errorf("canonical(%s) = %s, canonical(revcomp) = %s", kmer, c1, c2)
			return
		}

		h1, err := Hash(kmer)
		if err != nil {
			t.Error(err)
			return
		}
		h2, err := Hash(rc)
		if err != nil {
			t.Error(err)
			return
		}
		if h1 != h2 {
			t.Errorf("hash(%s) = %d, hash(revcomp) = %d", kmer, h1, h2)
			return
		}
	}
}

// hash values have to match those of sourmash (murmur3 x64-128, seed 42)
func TestHashKnownValues(t *testing.T) {
	cases := []struct {
		kmer string
		hash uint64
	}{
		{"AAAA", 17832910516274425539},
		{"TTTT", 17832910516274425539}, // canonical AAAA
		{"GGGG", 73459868045630124},    // canonical CCCC
		{"CCCC", 73459868045630124},
		{"AATT", 382727017318141683},
		{"ATAA", 179996601836427478},
		{"TAAA", 15286642655859448092},
		{"AAAC", 9097280691811734508},
		{"AACC", 6779379503393060785},
		{"ACGT", 2597925387403686983},
		{"AACG", 7952982457453691616},
		{"CAAC", 7315150081962684964},
		{"CCAA", 1798905482136869687},
	}
	for _, c := range cases {
		h, err := Hash([]byte(c.kmer))
		if err != nil {
			t.Errorf("hash %s: %s", c.kmer, err)
			continue
		}
		if h != c.hash {
			t.Errorf("hash %s: expected %d, got %d", c.kmer, c.hash, h)
		}
	}
}
