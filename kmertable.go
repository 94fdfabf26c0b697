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

// Package kmertable provides an exact count table of canonical DNA k-mers,
// keyed by 64-bit hash values, with set/similarity operations,
// table merging, tabular export and compressed JSON serialization.
package kmertable

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/shenwei356/kmertable/kmers"
)

// Version is the schema version recorded in every new table.
// It is only used for compatibility warnings when loading serialized tables.
const Version = "0.1.0"

// Threads is the number of workers for parallelizable operations,
// including Add, ParallelConsume and Cosine.
var Threads = runtime.NumCPU()

// ErrKOverflow means k < 1 or k > 255.
var ErrKOverflow = errors.New("kmertable: k-mer size overflow, valid range is [1-255]")

// ErrKmerLength means the length of a k-mer string does not match the table's k.
var ErrKmerLength = errors.New("kmertable: k-mer size does not match count table ksize")

// ErrKSizeMismatch means two tables with different k sizes in a cross-table operation.
var ErrKSizeMismatch = errors.New("kmertable: tables have different k sizes")

// ErrKmersNotStored means a k-mer text operation on a table without k-mer retention.
var ErrKmersNotStored = errors.New("kmertable: k-mer texts are not stored in this table")

// ErrHashNotFound means the hash value has no retained k-mer text.
var ErrHashNotFound = errors.New("kmertable: hash value not found")

// ErrBadKmer means a window with an illegal base was encountered
// while bad k-mers are not allowed.
var ErrBadKmer = errors.New("kmertable: bad k-mer")

// CountTable is an exact frequency table of canonical k-mers,
// keyed by their 64-bit hash values. A zero hash is the reserved value for
// unusable windows and is never stored; absent keys mean count 0.
//
// A CountTable is not safe for concurrent mutation; parallel operations
// (Add, ParallelConsume) synchronize internally.
type CountTable struct {
	K          uint8 // k-mer size, immutable after construction
	StoreKmers bool  // whether canonical k-mer texts are retained

	counts   map[uint64]uint64
	kmers    map[uint64]string // hash -> canonical k-mer, nil unless StoreKmers
	consumed uint64            // total bases processed by Count/Consume
	version  string
}

// New creates an empty CountTable for k-mers of size k.
// When storeKmers is true the table additionally retains the canonical
// k-mer text of every counted hash, enabling Unhash and DumpKmers.
func New(k int, storeKmers bool) (*CountTable, error) {
	if k < 1 || k > 255 {
		return nil, ErrKOverflow
	}
	t := &CountTable{
		K:          uint8(k),
		StoreKmers: storeKmers,
		counts:     make(map[uint64]uint64),
		version:    Version,
	}
	if storeKmers {
		t.kmers = make(map[uint64]string)
	}
	return t, nil
}

// Version returns the schema version the table was created with.
func (t *CountTable) Version() string {
	return t.version
}

// Consumed returns the total number of bases processed by Count and Consume.
// It is never decremented by deletions.
func (t *CountTable) Consumed() uint64 {
	return t.consumed
}

// Len returns the number of distinct hashes in the table.
func (t *CountTable) Len() int {
	return len(t.counts)
}

// Hashes returns all hash keys of the table, in map order.
func (t *CountTable) Hashes() []uint64 {
	hashes := make([]uint64, 0, len(t.counts))
	for h := range t.counts {
		hashes = append(hashes, h)
	}
	return hashes
}

// entries returns a snapshot of all (hash, count) pairs, in map order.
func (t *CountTable) entries() [][2]uint64 {
	pairs := make([][2]uint64, 0, len(t.counts))
	for h, c := range t.counts {
		pairs = append(pairs, [2]uint64{h, c})
	}
	return pairs
}

// compatible checks that two tables may take part in a cross-table operation.
func (t *CountTable) compatible(other *CountTable) error {
	if t.K != other.K {
		return ErrKSizeMismatch
	}
	return nil
}

// HashKmer returns the hash value of the canonical form of kmer.
func (t *CountTable) HashKmer(kmer string) (uint64, error) {
	if len(kmer) != int(t.K) {
		return 0, ErrKmerLength
	}
	code, err := kmers.Hash([]byte(kmer))
	if err != nil {
		return 0, errors.Wrapf(err, "hash %s", kmer)
	}
	return code, nil
}

// Canon returns the canonical form of kmer: the lexicographically smaller
// one of the uppercased k-mer and its reverse complement.
func (t *CountTable) Canon(kmer string) (string, error) {
	if len(kmer) != int(t.K) {
		return "", ErrKmerLength
	}
	canonical, err := kmers.Canonical([]byte(kmer))
	if err != nil {
		return "", errors.Wrapf(err, "canonicalize %s", kmer)
	}
	return string(canonical), nil
}

// Count counts one k-mer and returns its new count.
func (t *CountTable) Count(kmer string) (uint64, error) {
	if len(kmer) != int(t.K) {
		return 0, ErrKmerLength
	}
	canonical, err := kmers.Canonical([]byte(kmer))
	if err != nil {
		return 0, errors.Wrapf(err, "count %s", kmer)
	}
	t.consumed += uint64(len(kmer))

	code := kmers.HashBytes(canonical, kmers.Seed)
	count := t.CountHash(code)
	if t.StoreKmers {
		t.kmers[code] = string(canonical)
	}
	return count, nil
}

// CountHash increments the count of a hash value and returns the new count.
// No validation happens here, that is the caller's responsibility.
func (t *CountTable) CountHash(code uint64) uint64 {
	t.counts[code]++
	return t.counts[code]
}

// Get returns the current count of a k-mer, 0 if absent.
func (t *CountTable) Get(kmer string) (uint64, error) {
	code, err := t.HashKmer(kmer)
	if err != nil {
		return 0, err
	}
	return t.counts[code], nil
}

// GetHash returns the current count of a hash value, 0 if absent.
func (t *CountTable) GetHash(code uint64) uint64 {
	return t.counts[code]
}

// GetHashes returns the counts of a list of hash values, order-preserving,
// one count per input hash. Absent hashes yield 0, never an error.
func (t *CountTable) GetHashes(codes []uint64) []uint64 {
	counts := make([]uint64, len(codes))
	for i, code := range codes {
		counts[i] = t.counts[code]
	}
	return counts
}

// Set sets the count of a k-mer directly.
// A count of 0 removes the entry, zero counts are never materialized.
func (t *CountTable) Set(kmer string, count uint64) error {
	if len(kmer) != int(t.K) {
		return ErrKmerLength
	}
	canonical, err := kmers.Canonical([]byte(kmer))
	if err != nil {
		return errors.Wrapf(err, "set %s", kmer)
	}
	code := kmers.HashBytes(canonical, kmers.Seed)
	if count == 0 {
		t.DropHash(code)
		return nil
	}
	t.counts[code] = count
	if t.StoreKmers {
		t.kmers[code] = string(canonical)
	}
	return nil
}

// SetHash sets the count of a hash value directly.
// A count of 0 removes the entry.
func (t *CountTable) SetHash(code uint64, count uint64) {
	if count == 0 {
		t.DropHash(code)
		return
	}
	t.counts[code] = count
}

// Drop removes a k-mer from the table. Absence is not an error.
func (t *CountTable) Drop(kmer string) error {
	code, err := t.HashKmer(kmer)
	if err != nil {
		return err
	}
	t.DropHash(code)
	return nil
}

// DropHash removes a hash value from the table. Absence is not an error.
func (t *CountTable) DropHash(code uint64) {
	delete(t.counts, code)
	if t.StoreKmers {
		delete(t.kmers, code)
	}
}

// MinCut removes all hashes with counts below minCount
// and returns the number of removed hashes.
func (t *CountTable) MinCut(minCount uint64) uint64 {
	toRemove := make([]uint64, 0, 8)
	for code, count := range t.counts {
		if count < minCount {
			toRemove = append(toRemove, code)
		}
	}
	for _, code := range toRemove {
		t.DropHash(code)
	}
	return uint64(len(toRemove))
}

// MaxCut removes all hashes with counts above maxCount
// and returns the number of removed hashes.
func (t *CountTable) MaxCut(maxCount uint64) uint64 {
	toRemove := make([]uint64, 0, 8)
	for code, count := range t.counts {
		if count > maxCount {
			toRemove = append(toRemove, code)
		}
	}
	for _, code := range toRemove {
		t.DropHash(code)
	}
	return uint64(len(toRemove))
}

// Unhash returns the retained canonical k-mer text of a hash value.
func (t *CountTable) Unhash(code uint64) (string, error) {
	if !t.StoreKmers {
		return "", ErrKmersNotStored
	}
	kmer, ok := t.kmers[code]
	if !ok {
		return "", ErrHashNotFound
	}
	return kmer, nil
}

// Consume counts all k-mers of a DNA sequence and returns the number of
// window positions actually counted. Windows containing bases beyond
// A/C/G/T are skipped when skipBadKmers is true, and abort with a
// positional error otherwise; counts applied before the error remain.
// The consumed counter grows by len(seq) even for sequences shorter than k.
func (t *CountTable) Consume(seq []byte, skipBadKmers bool) (uint64, error) {
	iter, err := kmers.NewIterator(seq, int(t.K))
	if err != nil {
		if err == kmers.ErrShortSeq {
			t.consumed += uint64(len(seq))
			return 0, nil
		}
		return 0, err
	}

	var n uint64
	if t.StoreKmers {
		var kmer []byte
		var code uint64
		var ok bool
		for {
			kmer, code, ok = iter.NextKmer()
			if !ok {
				break
			}
			if code == 0 {
				if !skipBadKmers {
					return n, errors.Wrapf(ErrBadKmer, "position %d", iter.Index())
				}
				continue
			}
			t.counts[code]++
			t.kmers[code] = string(kmer)
			n++
		}
	} else {
		var code uint64
		var ok bool
		for {
			code, ok = iter.Next()
			if !ok {
				break
			}
			if code == 0 {
				if !skipBadKmers {
					return n, errors.Wrapf(ErrBadKmer, "position %d", iter.Index())
				}
				continue
			}
			t.counts[code]++
			n++
		}
	}

	t.consumed += uint64(len(seq))
	return n, nil
}

// KmerHash is a canonical k-mer paired with its hash value.
type KmerHash struct {
	Kmer string
	Hash uint64
}

// KmersAndHashes returns the canonical k-mer and hash value of every window
// of a sequence, in window order. When skipBadKmers is true, windows with
// illegal bases stay visible as ("", 0) tombstones so that positions remain
// aligned with the sequence; otherwise the first such window aborts with a
// positional error. The table itself is not modified.
func (t *CountTable) KmersAndHashes(seq []byte, skipBadKmers bool) ([]KmerHash, error) {
	iter, err := kmers.NewIterator(seq, int(t.K))
	if err != nil {
		if err == kmers.ErrShortSeq {
			return []KmerHash{}, nil
		}
		return nil, err
	}

	pairs := make([]KmerHash, 0, len(seq)-int(t.K)+1)
	var kmer []byte
	var code uint64
	var ok bool
	for {
		kmer, code, ok = iter.NextKmer()
		if !ok {
			break
		}
		if code == 0 && !skipBadKmers {
			return nil, errors.Wrapf(ErrBadKmer, "position %d", iter.Index())
		}
		pairs = append(pairs, KmerHash{Kmer: string(kmer), Hash: code})
	}
	return pairs, nil
}
