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
	"bytes"
	"sync"
)

var poolIterator = &sync.Pool{New: func() interface{} {
	return &Iterator{}
}}

// Iterator is a single-pass hash iterator over the sliding windows of a
// DNA sequence. For every window it yields the seeded hash value of the
// canonical k-mer, or 0 for windows containing a base beyond A/C/G/T.
// An iterator is not restartable.
type Iterator struct {
	s  []byte // uppercased sequence, illegal bases as 0
	rc []byte // reverse complement of s, illegal bases as 0
	k  int

	finished bool
	first    bool
	idx      int
	end      int // number of windows: len(s) - k + 1
	lastBad  int // index of the most recent illegal base
}

// NewIterator returns a hash iterator over sequence s.
// The sequence is copied once, so the caller may reuse s.
func NewIterator(s []byte, k int) (*Iterator, error) {
	if k < 1 || k > 255 {
		return nil, ErrInvalidK
	}
	if len(s) < k {
		return nil, ErrShortSeq
	}

	iter := poolIterator.Get().(*Iterator)
	iter.k = k
	iter.finished = false
	iter.first = true
	iter.idx = 0
	iter.end = len(s) - k + 1
	iter.lastBad = -1

	up := make([]byte, len(s))
	rc := make([]byte, len(s))
	for i, b := range s {
		up[i] = base2upper[b]
		rc[len(s)-1-i] = base2comp[b]
	}
	iter.s = up
	iter.rc = rc

	return iter, nil
}

// advance updates the bad-base tracker for the window starting at iter.idx
// and reports whether the window is free of illegal bases.
func (iter *Iterator) advance() bool {
	if iter.first {
		for i := 0; i < iter.k; i++ {
			if iter.s[i] == 0 {
				iter.lastBad = i
			}
		}
		iter.first = false
	} else if e := iter.idx + iter.k - 1; iter.s[e] == 0 {
		iter.lastBad = e
	}
	return iter.lastBad < iter.idx
}

// window returns the canonical k-mer of the current window, choosing
// between the forward substring and the mirrored substring of the
// precomputed reverse complement.
func (iter *Iterator) window() []byte {
	fwd := iter.s[iter.idx : iter.idx+iter.k]
	rcw := iter.rc[iter.end-1-iter.idx : iter.end-1-iter.idx+iter.k]
	if bytes.Compare(fwd, rcw) <= 0 {
		return fwd
	}
	return rcw
}

// Next returns the hash value of the next window.
// A zero value flags a window containing an illegal base;
// callers decide whether to skip it or to abort.
func (iter *Iterator) Next() (code uint64, ok bool) {
	if iter.finished {
		return 0, false
	}
	if iter.idx == iter.end { // recycle the Iterator
		iter.finished = true
		iter.s = nil
		iter.rc = nil
		poolIterator.Put(iter)
		return 0, false
	}

	if iter.advance() {
		code = HashBytes(iter.window(), Seed)
	}
	iter.idx++

	return code, true
}

// NextKmer returns the canonical k-mer of the next window paired with its
// hash value. For windows with illegal bases it returns a (nil, 0) tombstone.
// The returned slice is only valid until the next call.
func (iter *Iterator) NextKmer() (kmer []byte, code uint64, ok bool) {
	if iter.finished {
		return nil, 0, false
	}
	if iter.idx == iter.end {
		iter.finished = true
		iter.s = nil
		iter.rc = nil
		poolIterator.Put(iter)
		return nil, 0, false
	}

	if iter.advance() {
		kmer = iter.window()
		code = HashBytes(kmer, Seed)
	}
	iter.idx++

	return kmer, code, true
}

// Index returns the current 0-based window index.
func (iter *Iterator) Index() int {
	return iter.idx - 1
}
