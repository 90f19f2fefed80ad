// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package quiva

import (
	"fmt"

	"github.com/cosnicolaou/quivac/internal/huffman"
)

// Assemble runs the first-pass scan over records and builds the six
// code tables, applying lossy bucketing to the insertion and merge
// histograms first when lossy is true.
func Assemble(records []Record, lossy bool) (*QVcoding, error) {
	res := scan(records)

	insHist := res.insHist
	mrgHist := res.mrgHist
	if lossy {
		foldPairs(&insHist)
		foldQuads(&mrgHist)
	}

	c := &QVcoding{
		DelChar: res.delChar,
		SubChar: res.subChar,
		Prefix:  res.prefix,
	}

	var err error
	if c.DelScheme, err = huffman.BuildScheme(res.delHist); err != nil {
		return nil, fmt.Errorf("quiva: build delScheme: %w", err)
	}
	if res.delChar != noChar {
		if c.DRunScheme, err = huffman.BuildScheme(res.dRunHist); err != nil {
			return nil, fmt.Errorf("quiva: build dRunScheme: %w", err)
		}
	}
	if c.InsScheme, err = huffman.BuildScheme(insHist); err != nil {
		return nil, fmt.Errorf("quiva: build insScheme: %w", err)
	}
	if c.MrgScheme, err = huffman.BuildScheme(mrgHist); err != nil {
		return nil, fmt.Errorf("quiva: build mrgScheme: %w", err)
	}
	if c.SubScheme, err = huffman.BuildScheme(res.subHist); err != nil {
		return nil, fmt.Errorf("quiva: build subScheme: %w", err)
	}
	if res.subChar != noChar {
		if c.SRunScheme, err = huffman.BuildScheme(res.sRunHist); err != nil {
			return nil, fmt.Errorf("quiva: build sRunScheme: %w", err)
		}
	}
	return c, nil
}

// foldPairs folds h[2k+1] into h[2k], the insertion-QV lossy bucketing.
func foldPairs(h *huffman.Histogram) {
	for k := 0; k < 128; k++ {
		h[2*k] += h[2*k+1]
		h[2*k+1] = 0
	}
}

// foldQuads folds h[4k+1..4k+3] into h[4k], the merge-QV lossy
// bucketing.
func foldQuads(h *huffman.Histogram) {
	for k := 0; k < 64; k++ {
		base := 4 * k
		h[base] += h[base+1] + h[base+2] + h[base+3]
		h[base+1], h[base+2], h[base+3] = 0, 0, 0
	}
}

// maskInsertion applies the lossy insertion-QV bucketing to data in
// place (b &= ~1).
func maskInsertion(data []byte) {
	for i, b := range data {
		data[i] = b &^ 1
	}
}

// maskMerge applies the lossy merge-QV bucketing to data in place
// (b &= ~3).
func maskMerge(data []byte) {
	for i, b := range data {
		data[i] = b &^ 3
	}
}
