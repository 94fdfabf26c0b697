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
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

func init() {
	// bases are checked per k-mer window, sequence-level validation
	// would only scan everything twice
	seq.ValidateSeq = false
}

// CountFile counts all k-mers of all records in a FASTA/FASTQ file,
// optionally gzip/xz/zstd/bzip2-compressed, and returns the number of
// k-mers counted. Each record is an independent sequence, k-mers never
// span record boundaries. With skipBadKmers false, the first window
// containing a non-ACGTacgt base aborts with an error; counts from
// records already consumed are kept.
func (t *CountTable) CountFile(file string, skipBadKmers bool) (uint64, error) {
	fastxReader, err := fastx.NewDefaultReader(file)
	if err != nil {
		return 0, errors.Wrap(err, file)
	}

	var n uint64
	var record *fastx.Record
	for {
		record, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return n, errors.Wrap(err, file)
		}

		m, err := t.Consume(record.Seq.Seq, skipBadKmers)
		n += m
		if err != nil {
			return n, errors.Wrapf(err, "%s: record %s", file, record.ID)
		}
	}
	return n, nil
}
