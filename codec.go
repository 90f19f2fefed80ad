// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package quiva implements the compression and decompression codec for
// PacBio "quiva" records: a text format carrying a header line and five
// parallel per-base quality-value vectors. Encode performs a first pass
// to collect symbol statistics and choose run characters, builds a set
// of canonical Huffman code tables, then makes a second pass writing a
// framed binary file. Decode reverses the process, byte-exact in
// lossless mode.
package quiva

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cosnicolaou/quivac/internal/bitio"
)

// Encode reads quiva text from r, builds the code tables for it, and
// writes the framed binary form to w. lossy selects the bucketed
// insertion/merge-QV encoding.
func Encode(w io.Writer, r io.Reader, lossy bool) error {
	records, err := ReadRecords(r)
	if err != nil {
		return err
	}
	coding, err := Assemble(records, lossy)
	if err != nil {
		return err
	}
	bufw := bufio.NewWriter(w)
	if err := WriteQVcoding(bufw, coding); err != nil {
		return err
	}
	bw := bitio.NewWriter(bufw, coding.Order)
	lastWell := 0
	for i := range records {
		encodeRecord(bw, coding, &records[i], &lastWell, lossy)
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("quiva: flush record %d: %w", i, err)
		}
	}
	return bufw.Flush()
}

// Decode reads a framed binary quiva file from r and writes the
// reconstructed text form to w.
func Decode(w io.Writer, r io.Reader) error {
	bufr := bufio.NewReader(r)
	coding, err := ReadQVcoding(bufr)
	if err != nil {
		return err
	}
	br := bitio.NewReader(bufr, coding.Order)
	bufw := bufio.NewWriter(w)
	lastWell := 0
	for {
		br.Align()
		eof, err := br.AtEOF()
		if err != nil {
			return fmt.Errorf("quiva: %w", err)
		}
		if eof {
			break
		}
		rec, err := decodeRecord(br, coding, &lastWell)
		if err != nil {
			return err
		}
		if err := WriteRecord(bufw, rec); err != nil {
			return err
		}
	}
	return bufw.Flush()
}
