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
	"encoding/json"
	"io"
	"log"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
)

// tableJSON is the on-disk form of a CountTable: a self-describing
// JSON document. Map keys are encoded as decimal strings, the standard
// JSON rendering of uint64 keys.
type tableJSON struct {
	Ksize      uint8             `json:"ksize"`
	Version    string            `json:"version"`
	Consumed   uint64            `json:"consumed"`
	StoreKmers bool              `json:"store_kmers"`
	Counts     map[uint64]uint64 `json:"counts"`
	HashToKmer map[uint64]string `json:"hash_to_kmer,omitempty"`
}

// Load reads a CountTable from a file written with Save,
// with compression detected from the file extension
// (.gz, .xz, .zst, .bz2, or none for plain JSON).
func Load(file string) (*CountTable, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return Read(fh)
}

// Save writes the table to a file,
// optional with file extensions of .gz, .xz, .zst, .bz2.
func (t *CountTable) Save(file string) error {
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return err
	}
	defer outfh.Close()

	return t.Write(outfh)
}

// Write serializes the table as a JSON document.
func (t *CountTable) Write(w io.Writer) error {
	doc := tableJSON{
		Ksize:      t.K,
		Version:    t.version,
		Consumed:   t.consumed,
		StoreKmers: t.StoreKmers,
		Counts:     t.counts,
	}
	if t.StoreKmers {
		doc.HashToKmer = t.kmers
	}
	return json.NewEncoder(w).Encode(doc)
}

// Read deserializes a CountTable from an io.Reader.
// A version tag differing from the running Version only prints a
// warning to stderr, it never fails the load.
func Read(r io.Reader) (*CountTable, error) {
	var doc tableJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "kmertable: deserialization error")
	}
	if doc.Ksize < 1 {
		return nil, ErrKOverflow
	}
	if doc.Version != Version {
		log.Printf("kmertable: version mismatch: loaded version is %s, but current version is %s",
			doc.Version, Version)
	}

	t := &CountTable{
		K:          doc.Ksize,
		StoreKmers: doc.StoreKmers,
		counts:     doc.Counts,
		consumed:   doc.Consumed,
		version:    doc.Version,
	}
	if t.counts == nil {
		t.counts = make(map[uint64]uint64)
	}
	if t.StoreKmers {
		t.kmers = doc.HashToKmer
		if t.kmers == nil {
			t.kmers = make(map[uint64]string)
		}
		// a text without a counted hash would break the retention invariant
		for code := range t.kmers {
			if _, ok := t.counts[code]; !ok {
				delete(t.kmers, code)
			}
		}
	}
	return t, nil
}
