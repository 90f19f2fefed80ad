// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rle

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/cosnicolaou/quivac/internal/bitio"
	"github.com/cosnicolaou/quivac/internal/huffman"
)

func roundTrip(t *testing.T, data []byte, c byte) []byte {
	t.Helper()
	runHist, symHist := Histograms(data, c)
	runScheme, err := huffman.BuildScheme(runHist)
	if err != nil {
		t.Fatalf("BuildScheme(run): %v", err)
	}
	symScheme, err := huffman.BuildScheme(symHist)
	if err != nil {
		t.Fatalf("BuildScheme(sym): %v", err)
	}
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf, binary.BigEndian)
	Encode(bw, runScheme, symScheme, data, c)
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	br := bitio.NewReader(&buf, binary.BigEndian)
	got, err := Decode(br, runScheme, symScheme, len(data), c)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		c    byte
	}{
		{"all run", bytes.Repeat([]byte{5}, 10), 5},
		{"no run", []byte{1, 2, 3, 4, 5}, 5},
		{"alternating", []byte{5, 1, 5, 2, 5, 3}, 5},
		{"consecutive non-run", []byte{5, 5, 1, 2, 5, 5, 5}, 5},
		{"trailing run", []byte{1, 2, 5, 5, 5, 5}, 5},
		{"single byte run", []byte{5}, 5},
		{"single byte non-run", []byte{9}, 5},
		{"long run needs escape", bytes.Repeat([]byte{7}, 1000), 7},
		{"long run then symbol", append(bytes.Repeat([]byte{7}, 300), 9), 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := roundTrip(t, tc.data, tc.c)
			if !bytes.Equal(got, tc.data) {
				t.Fatalf("got %v want %v", got, tc.data)
			}
		})
	}
}

// TestEncodeRunEscapesByCode forces a short, non-overflow run length into
// the shared escape code purely by code-length, the case the domain cap
// check in encodeRun used to miss: it only fired for the capped overflow
// value 255, while decodeRun (and the underlying lookup table) always
// reads the 16-bit literal whenever the escape code itself is seen. A
// Fibonacci-weighted histogram drives the rarest symbol's own code past
// the 16-bit cap even though its value is far from 255.
func TestEncodeRunEscapesByCode(t *testing.T) {
	var hist huffman.Histogram
	a, b := 1, 1
	for s := 0; s < 19; s++ {
		hist[s] = a
		a, b = b, a+b
	}
	scheme, err := huffman.BuildScheme(hist)
	if err != nil {
		t.Fatalf("BuildScheme: %v", err)
	}
	if scheme.Type != huffman.Escaped {
		t.Fatalf("expected an escaped scheme, got %v", scheme.Type)
	}
	run := 0 // the rarest symbol (count 1), collapsed into the escape code
	if scheme.CodeLen[run] != scheme.EscapeLen || scheme.Code[run] != scheme.EscapeCode {
		t.Fatalf("test setup invalid: symbol %d is not collapsed into the escape code", run)
	}

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf, binary.BigEndian)
	encodeRun(bw, scheme, run)
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	br := bitio.NewReader(&buf, binary.BigEndian)
	got, err := decodeRun(br, scheme)
	if err != nil {
		t.Fatalf("decodeRun: %v", err)
	}
	if got != run {
		t.Fatalf("got %d want %d", got, run)
	}
}

func TestHistogramsEscapeCapping(t *testing.T) {
	data := bytes.Repeat([]byte{3}, 260)
	runHist, symHist := Histograms(data, 3)
	if runHist[escapeRun] != 1 {
		t.Fatalf("expected one capped run entry, got %d", runHist[escapeRun])
	}
	if symHist.Total() != 0 {
		t.Fatalf("expected no interrupting symbols, got total %d", symHist.Total())
	}
}
