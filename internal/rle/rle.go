// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package rle turns a byte vector dominated by one "run character" into
// an alternating sequence of run lengths and the non-run symbols that
// interrupt them, and codes both halves of that sequence with Huffman
// tables built by package huffman.
package rle

import (
	"fmt"

	"github.com/cosnicolaou/quivac/internal/bitio"
	"github.com/cosnicolaou/quivac/internal/huffman"
)

// escapeRun is the run-length sentinel: a run of this length or longer
// is coded as this value followed by the true length as a 16-bit
// literal.
const escapeRun = 255

// Histograms scans data for runs of c and returns the histogram of
// capped run lengths (clamped to escapeRun) and the histogram of the
// non-run symbols that separate them. data must not be empty of c-runs
// for the result to be meaningful, but the scan handles any content.
func Histograms(data []byte, c byte) (runHist huffman.Histogram, symHist huffman.Histogram) {
	i := 0
	for i < len(data) {
		run := 0
		for i+run < len(data) && data[i+run] == c {
			run++
		}
		capped := run
		if capped > escapeRun {
			capped = escapeRun
		}
		runHist[capped]++
		i += run
		if i < len(data) {
			symHist[data[i]]++
			i++
		}
	}
	return runHist, symHist
}

// Encode writes the run/non-run alternating coding of data to bw, using
// runScheme for run lengths and symScheme for the interrupting symbols.
func Encode(bw *bitio.Writer, runScheme, symScheme *huffman.Scheme, data []byte, c byte) {
	i := 0
	for i < len(data) {
		run := 0
		for i+run < len(data) && data[i+run] == c {
			run++
		}
		encodeRun(bw, runScheme, run)
		i += run
		if i < len(data) {
			huffman.Encode(bw, symScheme, data[i:i+1])
			i++
		}
	}
}

// Decode reconstructs rlen bytes using the run/non-run coding read from
// br, writing c for every run position and the decoded literal for
// every non-run position.
func Decode(br *bitio.Reader, runScheme, symScheme *huffman.Scheme, rlen int, c byte) ([]byte, error) {
	out := make([]byte, 0, rlen)
	for len(out) < rlen {
		run, err := decodeRun(br, runScheme)
		if err != nil {
			return nil, err
		}
		for k := 0; k < run && len(out) < rlen; k++ {
			out = append(out, c)
		}
		if len(out) >= rlen {
			break
		}
		sym, err := huffman.Decode(br, symScheme, 1)
		if err != nil {
			return nil, err
		}
		out = append(out, sym[0])
	}
	if len(out) != rlen {
		return nil, fmt.Errorf("rle: decoded %d bytes, expected %d", len(out), rlen)
	}
	return out, nil
}

func encodeRun(bw *bitio.Writer, scheme *huffman.Scheme, run int) {
	sym := run
	if sym >= escapeRun {
		sym = escapeRun
	}
	bw.Emit(scheme.Code[sym], uint(scheme.CodeLen[sym]))
	// A 16-bit literal follows whenever this symbol's code is actually
	// the shared escape code, not just when sym is the domain-capped
	// overflow value: a rare short run can itself be collapsed into the
	// escape code by the Huffman builder, and decodeRun always reads the
	// literal whenever it sees that code regardless of which symbol
	// drove it there.
	isEscapeCode := scheme.Type == huffman.Escaped &&
		scheme.CodeLen[sym] == scheme.EscapeLen &&
		scheme.Code[sym] == scheme.EscapeCode
	if isEscapeCode {
		bw.Emit(uint32(run), 16)
	}
}

func decodeRun(br *bitio.Reader, scheme *huffman.Scheme) (int, error) {
	window := br.Peek(16)
	sym, length, ok := scheme.Lookup(window)
	if !ok {
		if err := br.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("rle: no code matches bit pattern %04x", window)
	}
	br.Advance(uint(length))
	if sym == escapeRun {
		return int(br.Read(16)), br.Err()
	}
	return int(sym), br.Err()
}
