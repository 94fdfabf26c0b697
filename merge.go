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
	"log"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/shenwei356/kmertable/kmers"
)

// Add merges another table into this one: for every hash of other, the count
// is added to this table's count, and other.Consumed() is added to the
// consumed counter. It returns the total count mass added and the number of
// hashes newly created in this table.
//
// The (hash, count) pairs of other are snapshotted first and fanned out
// across Threads workers; the destination map is guarded by a single mutex
// and the two aggregate counters are accumulated atomically, so no update is
// lost and the final state is independent of the application order.
// Snapshotting also makes t.Add(t) safe.
//
// If both tables retain k-mer texts, texts of other are merged with
// first-writer-wins: an existing mapping is never overwritten. If only this
// table retains k-mers, counts still merge, but the newly created hashes
// lack k-mer texts; a warning is printed to stderr.
func (t *CountTable) Add(other *CountTable) (countsAdded uint64, newKeys uint64, err error) {
	if err = t.compatible(other); err != nil {
		return 0, 0, err
	}

	pairs := other.entries()

	var texts map[uint64]string
	if t.StoreKmers {
		if other.StoreKmers {
			texts = other.kmers
		} else if len(other.counts) > 0 {
			log.Printf("kmertable: incoming table does not store k-mers, merged hashes may lack k-mer texts")
		}
	}

	n := len(pairs)
	workers := Threads
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	var mu sync.Mutex // guards t.counts and t.kmers
	var wg sync.WaitGroup
	chunk := 0
	if workers > 0 {
		chunk = (n + workers - 1) / workers
	}
	for i := 0; i < n; i += chunk {
		e := i + chunk
		if e > n {
			e = n
		}
		wg.Add(1)
		go func(part [][2]uint64) {
			defer wg.Done()
			var added, created uint64
			mu.Lock()
			for _, pair := range part {
				if _, ok := t.counts[pair[0]]; !ok {
					created++
				}
				t.counts[pair[0]] += pair[1]
				added += pair[1]
				if texts != nil {
					if _, ok := t.kmers[pair[0]]; !ok {
						if text, ok := texts[pair[0]]; ok {
							t.kmers[pair[0]] = text
						}
					}
				}
			}
			mu.Unlock()
			atomic.AddUint64(&countsAdded, added)
			atomic.AddUint64(&newKeys, created)
		}(pairs[i:e])
	}
	wg.Wait()

	t.consumed += other.consumed
	return countsAdded, newKeys, nil
}

// ParallelConsume counts all k-mers of a sequence like Consume, but splits
// the sequence into chunks of chunkSize bases, overlapping by k-1 so that no
// window is lost, and consumes them on Threads workers. Each worker counts
// into a private table which is then merged under a single lock. The result
// is identical to a serial Consume of the same sequence.
func (t *CountTable) ParallelConsume(seq []byte, chunkSize int, skipBadKmers bool) (uint64, error) {
	k := int(t.K)
	if len(seq) < k {
		t.consumed += uint64(len(seq))
		return 0, nil
	}
	if chunkSize < k {
		chunkSize = k
	}

	type local struct {
		counts map[uint64]uint64
		kmers  map[uint64]string
	}

	var n uint64
	var firstErr error
	var errOnce sync.Once

	tokens := make(chan int, Threads)
	locals := make(chan *local, len(seq)/chunkSize+1)
	var wg sync.WaitGroup

	for start := 0; start < len(seq); start += chunkSize {
		end := start + chunkSize + k - 1
		if end > len(seq) {
			end = len(seq)
		}
		if end-start < k {
			break
		}

		tokens <- 1
		wg.Add(1)
		go func(offset int, chunk []byte) {
			defer func() {
				wg.Done()
				<-tokens
			}()

			iter, err := kmers.NewIterator(chunk, k)
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}

			loc := &local{counts: make(map[uint64]uint64)}
			if t.StoreKmers {
				loc.kmers = make(map[uint64]string)

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
							pos := offset + iter.Index()
							errOnce.Do(func() {
								firstErr = errors.Wrapf(ErrBadKmer, "position %d", pos)
							})
							break
						}
						continue
					}
					loc.counts[code]++
					loc.kmers[code] = string(kmer)
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
							pos := offset + iter.Index()
							errOnce.Do(func() {
								firstErr = errors.Wrapf(ErrBadKmer, "position %d", pos)
							})
							break
						}
						continue
					}
					loc.counts[code]++
				}
			}
			locals <- loc
		}(start, seq[start:end])
	}
	wg.Wait()
	close(locals)

	// merge the partial tables; counts applied before an error remain
	for loc := range locals {
		for code, count := range loc.counts {
			t.counts[code] += count
			n += count
		}
		for code, text := range loc.kmers {
			t.kmers[code] = text
		}
	}

	if firstErr != nil {
		return n, firstErr
	}
	t.consumed += uint64(len(seq))
	return n, nil
}
