// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package quiva

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one parsed quiva entry: a header plus five parallel
// per-base vectors of length End-Begin.
type Record struct {
	Prefix       string
	Well         int
	Begin, End   int
	QV           int
	DelQV        []byte
	DelTag       []byte
	InsQV        []byte
	MrgQV        []byte
	SubQV        []byte
}

// Len returns End-Begin, the common length of the five vectors.
func (r *Record) Len() int { return r.End - r.Begin }

// ReadRecords parses every 6-line record from r. Every record's prefix
// must match the first record's; this codec serializes one prefix per
// file, derived from the first header line.
func ReadRecords(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var records []Record
	for sc.Scan() {
		header := sc.Text()
		if header == "" {
			continue
		}
		rec, err := parseHeader(header)
		if err != nil {
			return nil, err
		}
		vectors := make([][]byte, 5)
		for i := range vectors {
			if !sc.Scan() {
				return nil, fmt.Errorf("quiva: unexpected EOF inside record after header %q", header)
			}
			vectors[i] = append([]byte(nil), sc.Bytes()...)
		}
		rlen := rec.Len()
		for i, v := range vectors {
			if len(v) != rlen {
				return nil, fmt.Errorf("quiva: record %q: vector %d has length %d, want %d", header, i, len(v), rlen)
			}
		}
		rec.DelQV, rec.DelTag, rec.InsQV, rec.MrgQV, rec.SubQV = vectors[0], vectors[1], vectors[2], vectors[3], vectors[4]
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("quiva: reading input: %w", err)
	}
	return records, nil
}

// WriteRecord emits one 6-line record in quiva text form.
func WriteRecord(w io.Writer, r *Record) error {
	if _, err := fmt.Fprintf(w, "@%s/%d/%d_%d RQ=0.%d\n", r.Prefix, r.Well, r.Begin, r.End, r.QV); err != nil {
		return fmt.Errorf("quiva: write header: %w", err)
	}
	for _, v := range [][]byte{r.DelQV, r.DelTag, r.InsQV, r.MrgQV, r.SubQV} {
		if _, err := w.Write(v); err != nil {
			return fmt.Errorf("quiva: write vector: %w", err)
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return fmt.Errorf("quiva: write vector: %w", err)
		}
	}
	return nil
}

// parseHeader parses a single header line of the form
// "@<prefix>/<well>/<begin>_<end> RQ=0.<qv>", also accepting '>' as the
// leading marker.
func parseHeader(line string) (Record, error) {
	if len(line) == 0 || (line[0] != '@' && line[0] != '>') {
		return Record{}, fmt.Errorf("quiva: malformed header %q: missing record marker", line)
	}
	rest := line[1:]
	idx := strings.IndexByte(rest, '/')
	if idx < 0 {
		return Record{}, fmt.Errorf("quiva: malformed header %q: missing prefix separator", line)
	}
	prefix := rest[:idx]
	wellStr, tail, ok := strings.Cut(rest[idx+1:], "/")
	if !ok {
		return Record{}, fmt.Errorf("quiva: malformed header %q: missing well separator", line)
	}
	beStr, rqPart, ok := strings.Cut(tail, " ")
	if !ok {
		return Record{}, fmt.Errorf("quiva: malformed header %q: missing RQ field", line)
	}
	beginStr, endStr, ok := strings.Cut(beStr, "_")
	if !ok {
		return Record{}, fmt.Errorf("quiva: malformed header %q: missing begin/end separator", line)
	}
	const rqPrefix = "RQ=0."
	if !strings.HasPrefix(rqPart, rqPrefix) {
		return Record{}, fmt.Errorf("quiva: malformed header %q: missing %q", line, rqPrefix)
	}
	well, err := strconv.Atoi(wellStr)
	if err != nil {
		return Record{}, fmt.Errorf("quiva: malformed header %q: bad well: %w", line, err)
	}
	begin, err := strconv.Atoi(beginStr)
	if err != nil {
		return Record{}, fmt.Errorf("quiva: malformed header %q: bad begin: %w", line, err)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return Record{}, fmt.Errorf("quiva: malformed header %q: bad end: %w", line, err)
	}
	if end < begin {
		return Record{}, fmt.Errorf("quiva: malformed header %q: end < begin", line)
	}
	qv, err := strconv.Atoi(rqPart[len(rqPrefix):])
	if err != nil {
		return Record{}, fmt.Errorf("quiva: malformed header %q: bad RQ: %w", line, err)
	}
	return Record{Prefix: prefix, Well: well, Begin: begin, End: end, QV: qv}, nil
}
