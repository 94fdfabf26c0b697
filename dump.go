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

package kmertable

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/twotwotwo/sorts"
)

// ErrSortOptions means both mutually exclusive sort modes were requested.
var ErrSortOptions = errors.New("kmertable: cannot sort by both counts and keys")

// KmerCount is a canonical k-mer paired with its count.
type KmerCount struct {
	Kmer  string
	Count uint64
}

// Dump exports all (hash, count) pairs. With sortCounts the pairs are sorted
// by count in ascending order, ties broken by hash; with sortKeys by hash.
// Requesting both is an error. Without either flag the pairs come in
// map order. Sorting runs in parallel for large tables.
func (t *CountTable) Dump(sortCounts bool, sortKeys bool) ([][2]uint64, error) {
	if sortCounts && sortKeys {
		return nil, ErrSortOptions
	}
	pairs := t.entries()
	if sortCounts {
		sorts.Quicksort(byCountThenHash(pairs))
	} else if sortKeys {
		sorts.Quicksort(byHash(pairs))
	}
	return pairs, nil
}

// DumpKmers exports all (canonical k-mer, count) pairs of a table with k-mer
// retention enabled. Sort modes work like in Dump, with the k-mer text as
// the key.
func (t *CountTable) DumpKmers(sortCounts bool, sortKeys bool) ([]KmerCount, error) {
	if sortCounts && sortKeys {
		return nil, ErrSortOptions
	}
	if !t.StoreKmers {
		return nil, ErrKmersNotStored
	}
	pairs := make([]KmerCount, 0, len(t.kmers))
	for code, kmer := range t.kmers {
		pairs = append(pairs, KmerCount{Kmer: kmer, Count: t.counts[code]})
	}
	if sortCounts {
		sorts.Quicksort(byCountThenKmer(pairs))
	} else if sortKeys {
		sorts.Quicksort(byKmer(pairs))
	}
	return pairs, nil
}

// WriteDump writes hash<TAB>count lines to w, one per entry, no trailing
// summary line. Sort modes work like in Dump.
func (t *CountTable) WriteDump(w io.Writer, sortCounts bool, sortKeys bool) error {
	pairs, err := t.Dump(sortCounts, sortKeys)
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		if _, err = fmt.Fprintf(w, "%d\t%d\n", pair[0], pair[1]); err != nil {
			return err
		}
	}
	return nil
}

// WriteDumpKmers writes kmer<TAB>count lines to w, one per entry.
func (t *CountTable) WriteDumpKmers(w io.Writer, sortCounts bool, sortKeys bool) error {
	pairs, err := t.DumpKmers(sortCounts, sortKeys)
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		if _, err = fmt.Fprintf(w, "%s\t%d\n", pair.Kmer, pair.Count); err != nil {
			return err
		}
	}
	return nil
}

// DumpToFile writes hash<TAB>count lines to a file,
// optionally compressed for file extensions of .gz, .xz, .zst, .bz2.
func (t *CountTable) DumpToFile(file string, sortCounts bool, sortKeys bool) error {
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return err
	}
	defer outfh.Close()

	return t.WriteDump(outfh, sortCounts, sortKeys)
}

// DumpKmersToFile writes kmer<TAB>count lines to a file,
// optionally compressed for file extensions of .gz, .xz, .zst, .bz2.
func (t *CountTable) DumpKmersToFile(file string, sortCounts bool, sortKeys bool) error {
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return err
	}
	defer outfh.Close()

	return t.WriteDumpKmers(outfh, sortCounts, sortKeys)
}

type byHash [][2]uint64

func (s byHash) Len() int           { return len(s) }
func (s byHash) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s byHash) Less(i, j int) bool { return s[i][0] < s[j][0] }

type byCountThenHash [][2]uint64

func (s byCountThenHash) Len() int      { return len(s) }
func (s byCountThenHash) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s byCountThenHash) Less(i, j int) bool {
	if s[i][1] != s[j][1] {
		return s[i][1] < s[j][1]
	}
	return s[i][0] < s[j][0]
}

type byKmer []KmerCount

func (s byKmer) Len() int           { return len(s) }
func (s byKmer) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s byKmer) Less(i, j int) bool { return s[i].Kmer < s[j].Kmer }

type byCountThenKmer []KmerCount

func (s byCountThenKmer) Len() int      { return len(s) }
func (s byCountThenKmer) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s byCountThenKmer) Less(i, j int) bool {
	if s[i].Count != s[j].Count {
		return s[i].Count < s[j].Count
	}
	return s[i].Kmer < s[j].Kmer
}
