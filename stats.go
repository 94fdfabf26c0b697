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
	"github.com/twotwotwo/sorts/sortutil"
)

// Min returns the minimum count value, 0 for an empty table.
func (t *CountTable) Min() uint64 {
	if len(t.counts) == 0 {
		return 0
	}
	var min uint64 = ^uint64(0)
	for _, count := range t.counts {
		if count < min {
			min = count
		}
	}
	return min
}

// Max returns the maximum count value, 0 for an empty table.
func (t *CountTable) Max() uint64 {
	var max uint64
	for _, count := range t.counts {
		if count > max {
			max = count
		}
	}
	return max
}

// SumCounts returns the total of all counts in the table.
func (t *CountTable) SumCounts() uint64 {
	var sum uint64
	for _, count := range t.counts {
		sum += count
	}
	return sum
}

// Histo returns the frequency histogram of counts as
// (count value, number of distinct hashes with that count) pairs.
// When zero is true, the result densely covers every count value in
// [0, Max()], filling unobserved values with 0; otherwise only observed
// count values appear, in ascending order.
func (t *CountTable) Histo(zero bool) [][2]uint64 {
	freq := make(map[uint64]uint64, len(t.counts))
	for _, count := range t.counts {
		freq[count]++
	}

	if zero {
		max := t.Max()
		histo := make([][2]uint64, 0, max+1)
		var c uint64
		for c = 0; c <= max; c++ {
			histo = append(histo, [2]uint64{c, freq[c]})
		}
		return histo
	}

	values := make([]uint64, 0, len(freq))
	for c := range freq {
		values = append(values, c)
	}
	sortutil.Uint64s(values)

	histo := make([][2]uint64, 0, len(values))
	for _, c := range values {
		histo = append(histo, [2]uint64{c, freq[c]})
	}
	return histo
}
