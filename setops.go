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
	"math"
	"sync"
)

// Set operations work on the key sets of two tables, counts are ignored.
// Both tables must have the same k size, and neither may be mutated
// concurrently.

// Union returns all hashes present in either table.
func (t *CountTable) Union(other *CountTable) (map[uint64]struct{}, error) {
	if err := t.compatible(other); err != nil {
		return nil, err
	}
	set := make(map[uint64]struct{}, len(t.counts)+len(other.counts))
	for code := range t.counts {
		set[code] = struct{}{}
	}
	for code := range other.counts {
		set[code] = struct{}{}
	}
	return set, nil
}

// Intersection returns all hashes present in both tables.
func (t *CountTable) Intersection(other *CountTable) (map[uint64]struct{}, error) {
	if err := t.compatible(other); err != nil {
		return nil, err
	}
	a, b := t, other
	if len(b.counts) < len(a.counts) {
		a, b = b, a
	}
	set := make(map[uint64]struct{}, len(a.counts))
	for code := range a.counts {
		if _, ok := b.counts[code]; ok {
			set[code] = struct{}{}
		}
	}
	return set, nil
}

// Difference returns all hashes present in this table but not in the other.
func (t *CountTable) Difference(other *CountTable) (map[uint64]struct{}, error) {
	if err := t.compatible(other); err != nil {
		return nil, err
	}
	set := make(map[uint64]struct{}, len(t.counts))
	for code := range t.counts {
		if _, ok := other.counts[code]; !ok {
			set[code] = struct{}{}
		}
	}
	return set, nil
}

// SymmetricDifference returns all hashes present in exactly one of the two tables.
func (t *CountTable) SymmetricDifference(other *CountTable) (map[uint64]struct{}, error) {
	if err := t.compatible(other); err != nil {
		return nil, err
	}
	set := make(map[uint64]struct{}, len(t.counts)+len(other.counts))
	for code := range t.counts {
		if _, ok := other.counts[code]; !ok {
			set[code] = struct{}{}
		}
	}
	for code := range other.counts {
		if _, ok := t.counts[code]; !ok {
			set[code] = struct{}{}
		}
	}
	return set, nil
}

// Jaccard returns the Jaccard similarity of the key sets of two tables:
// |intersection| / |union|. Two empty tables are identical,
// so the similarity is defined as 1.0.
func (t *CountTable) Jaccard(other *CountTable) (float64, error) {
	if err := t.compatible(other); err != nil {
		return 0, err
	}
	a, b := t, other
	if len(b.counts) < len(a.counts) {
		a, b = b, a
	}
	var inter int
	for code := range a.counts {
		if _, ok := b.counts[code]; ok {
			inter++
		}
	}
	union := len(t.counts) + len(other.counts) - inter
	if union == 0 {
		return 1.0, nil
	}
	return float64(inter) / float64(union), nil
}

// Cosine returns the cosine similarity of two tables, treating each table as
// a sparse count vector over the hash space. The dot product is restricted
// to hashes present in both tables. It returns 0.0 if either table is empty
// or either norm is zero. The dot product and both norms are computed by
// parallel reduction over partitions of the entries, with Threads workers.
func (t *CountTable) Cosine(other *CountTable) (float64, error) {
	if err := t.compatible(other); err != nil {
		return 0, err
	}
	if len(t.counts) == 0 || len(other.counts) == 0 {
		return 0, nil
	}

	a, b := t, other
	if len(b.counts) < len(a.counts) {
		a, b = b, a
	}
	dot := parallelSum(a.entries(), func(pairs [][2]uint64) float64 {
		var sum float64
		for _, pair := range pairs {
			if count, ok := b.counts[pair[0]]; ok {
				sum += float64(pair[1]) * float64(count)
			}
		}
		return sum
	})

	sumSquares := func(pairs [][2]uint64) float64 {
		var sum float64
		for _, pair := range pairs {
			sum += float64(pair[1]) * float64(pair[1])
		}
		return sum
	}
	normT := math.Sqrt(parallelSum(t.entries(), sumSquares))
	normO := math.Sqrt(parallelSum(other.entries(), sumSquares))
	if normT == 0 || normO == 0 {
		return 0, nil
	}

	return dot / (normT * normO), nil
}

// parallelSum fans partitions of pairs out to Threads workers and
// sums the partial results of f.
func parallelSum(pairs [][2]uint64, f func([][2]uint64) float64) float64 {
	n := len(pairs)
	if n == 0 {
		return 0
	}
	workers := Threads
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	partials := make(chan float64, workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i += chunk {
		e := i + chunk
		if e > n {
			e = n
		}
		wg.Add(1)
		go func(part [][2]uint64) {
			defer wg.Done()
			partials <- f(part)
		}(pairs[i:e])
	}
	wg.Wait()
	close(partials)

	var sum float64
	for v := range partials {
		sum += v
	}
	return sum
}
