// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package quiva

import (
	"github.com/cosnicolaou/quivac/internal/huffman"
	"github.com/cosnicolaou/quivac/internal/rle"
)

const noChar = -1

// scanResult holds everything the first pass over a file's records
// contributes toward building a QVcoding: the raw per-stream
// histograms (already adjusted so the run character's own
// contribution is removed from the non-run table), the chosen run
// characters, and the derived run-length histograms.
type scanResult struct {
	prefix string

	delChar int
	subChar int

	delHist huffman.Histogram
	insHist huffman.Histogram
	mrgHist huffman.Histogram
	subHist huffman.Histogram

	dRunHist huffman.Histogram
	sRunHist huffman.Histogram

	totalBases int
}

// scan performs the first pass: it accumulates the raw histograms over
// every record, picks delChar and subChar, and derives the run-length
// histograms for whichever of those run characters ends up in use.
func scan(records []Record) scanResult {
	var res scanResult
	res.delChar = noChar
	res.subChar = noChar
	if len(records) > 0 {
		res.prefix = records[0].Prefix
	}

	for _, rec := range records {
		res.totalBases += rec.Len()
		res.delHist.Add(rec.DelQV)
		res.insHist.Add(rec.InsQV)
		res.mrgHist.Add(rec.MrgQV)
		res.subHist.Add(rec.SubQV)
		if res.delChar == noChar {
			for i, tag := range rec.DelTag {
				if tag == 'N' {
					res.delChar = int(rec.DelQV[i])
					break
				}
			}
		}
	}

	// A candidate subChar is only considered once the scanner has seen
	// at least 100,000 bases, and only kept if the file turns out to
	// have at least 200,000 bases with the candidate covering at least
	// half of them.
	if res.totalBases >= 100000 {
		candidate := argmax(res.subHist)
		if res.totalBases >= 200000 && res.subHist[candidate]*2 >= res.totalBases {
			res.subChar = candidate
		}
	}

	if res.delChar != noChar {
		for _, rec := range records {
			runHist, _ := rle.Histograms(rec.DelQV, byte(res.delChar))
			addHistogram(&res.dRunHist, runHist)
		}
		res.delHist[res.delChar] = 0
	}
	if res.subChar != noChar {
		for _, rec := range records {
			runHist, _ := rle.Histograms(rec.SubQV, byte(res.subChar))
			addHistogram(&res.sRunHist, runHist)
		}
		res.subHist[res.subChar] = 0
	}

	return res
}

// argmax returns the index of the largest count in h, breaking ties in
// favor of the smallest index. This follows the corrected reading of
// the scanner's subChar selection: the reference implementation seeds
// its comparison with subHist[delChar] instead of zero, an off-by-basis
// bug documented and deliberately not reproduced here (see DESIGN.md).
func argmax(h huffman.Histogram) int {
	best := 0
	for s := 1; s < 256; s++ {
		if h[s] > h[best] {
			best = s
		}
	}
	return best
}

func addHistogram(dst *huffman.Histogram, src huffman.Histogram) {
	for i, c := range src {
		dst[i] += c
	}
}
