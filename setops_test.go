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
	"testing"
)

func twoTables(t *testing.T) (*CountTable, *CountTable) {
	a, err := New(4, false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(4, false)
	if err != nil {
		t.Fatal(err)
	}
	a.Count("AAAA")
	a.Count("AATT")
	b.Count("AATT")
	b.Count("ACGT")
	return a, b
}

func TestSetOperations(t *testing.T) {
	a, b := twoTables(t)
	hAAAA, _ := a.HashKmer("AAAA")
	hAATT, _ := a.HashKmer("AATT")
	hACGT, _ := a.HashKmer("ACGT")

	union, err := a.Union(b)
	if err != nil {
		t.Error(err)
		return
	}
	if len(union) != 3 {
		t.Errorf("expected 3 hashes in the union, got %d", len(union))
	}

	inter, err := a.Intersection(b)
	if err != nil {
		t.Error(err)
		return
	}
	if len(inter) != 1 {
		t.Errorf("expected 1 hash in the intersection, got %d", len(inter))
	}
	if _, ok := inter[hAATT]; !ok {
		t.Errorf("expected hash of AATT in the intersection")
	}

	diff, err := a.Difference(b)
	if err != nil {
		t.Error(err)
		return
	}
	if len(diff) != 1 {
		t.Errorf("expected 1 hash in the difference, got %d", len(diff))
	}
	if _, ok := diff[hAAAA]; !ok {
		t.Errorf("expected hash of AAAA in the difference")
	}

	symdiff, err := a.SymmetricDifference(b)
	if err != nil {
		t.Error(err)
		return
	}
	if len(symdiff) != 2 {
		t.Errorf("expected 2 hashes in the symmetric difference, got %d", len(symdiff))
	}
	if _, ok := symdiff[hAAAA]; !ok {
		t.Errorf("expected hash of AAAA in the symmetric difference")
	}
	if _, ok := symdiff[hACGT]; !ok {
		t.Errorf("expected hash of ACGT in the symmetric difference")
	}
}

func TestSetOperationsKSizeMismatch(t *testing.T) {
	a, _ := New(4, false)
	b, _ := New(5, false)

	if _, err := a.Union(b); err != ErrKSizeMismatch {
		t.Errorf("expected ErrKSizeMismatch, got %v", err)
	}
	if _, err := a.Intersection(b); err != ErrKSizeMismatch {
		t.Errorf("expected ErrKSizeMismatch, got %v", err)
	}
	if _, err := a.Difference(b); err != ErrKSizeMismatch {
		t.Errorf("expected ErrKSizeMismatch, got %v", err)
	}
	if _, err := a.SymmetricDifference(b); err != ErrKSizeMismatch {
		t.Errorf("expected ErrKSizeMismatch, got %v", err)
	}
	if _, err := a.Jaccard(b); err != ErrKSizeMismatch {
		t.Errorf("expected ErrKSizeMismatch, got %v", err)
	}
	if _, err := a.Cosine(b); err != ErrKSizeMismatch {
		t.Errorf("expected ErrKSizeMismatch, got %v", err)
	}
}

func TestJaccard(t *testing.T) {
	a, b := twoTables(t)

	j, err := a.Jaccard(b)
	if err != nil {
		t.Error(err)
		return
	}
	if math.Abs(j-1.0/3.0) > 1e-12 {
		t.Errorf("expected 1/3, got %f", j)
	}

	// counts do not matter, only the key sets
	a.Count("AAAA")
	j2, _ := a.Jaccard(b)
	if j2 != j {
		t.Errorf("similarity changed with counts: %f != %f", j2, j)
	}

	// two empty tables are identical
	e1, _ := New(4, false)
	e2, _ := New(4, false)
	if j, _ = e1.Jaccard(e2); j != 1.0 {
		t.Errorf("expected 1.0 for two empty tables, got %f", j)
	}

	// an empty table shares nothing with a non-empty one
	if j, _ = e1.Jaccard(a); j != 0.0 {
		t.Errorf("expected 0.0, got %f", j)
	}

	if j, _ = a.Jaccard(a); j != 1.0 {
		t.Errorf("expected 1.0 for self similarity, got %f", j)
	}
}

func TestCosine(t *testing.T) {
	a, b := twoTables(t)

	c, err := a.Cosine(a)
	if err != nil {
		t.Error(err)
		return
	}
	if math.Abs(c-1.0) > 1e-12 {
		t.Errorf("expected 1.0 for self similarity, got %f", c)
	}

	// a = (AAAA:1, AATT:1), b = (AATT:1, ACGT:1):
	// dot = 1, |a| = |b| = sqrt(2)
	c, err = a.Cosine(b)
	if err != nil {
		t.Error(err)
		return
	}
	if math.Abs(c-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", c)
	}

	// empty tables have no direction
	e, _ := New(4, false)
	if c, _ = a.Cosine(e); c != 0.0 {
		t.Errorf("expected 0.0, got %f", c)
	}
	if c, _ = e.Cosine(e); c != 0.0 {
		t.Errorf("expected 0.0 for two empty tables, got %f", c)
	}

	// disjoint tables are orthogonal
	d, _ := New(4, false)
	d.Count("CCAA")
	if c, _ = a.Cosine(d); c != 0.0 {
		t.Errorf("expected 0.0 for disjoint tables, got %f", c)
	}
}

func TestCosineWeighted(t *testing.T) {
	a, _ := New(4, false)
	b, _ := New(4, false)
	a.Set("AAAA", 1)
	b.Set("AAAA", 1)
	b.Set("AATT", 1)

	// dot = 1, |a| = 1, |b| = sqrt(2)
	c, err := a.Cosine(b)
	if err != nil {
		t.Error(err)
		return
	}
	if math.Abs(c-1.0/math.Sqrt2) > 1e-12 {
		t.Errorf("expected 1/sqrt(2), got %f", c)
	}
}
