// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Reader unpacks a stream of 32-bit words, written MSB first by Writer,
// back into variable-length codes.
type Reader struct {
	r     io.Reader
	order binary.ByteOrder
	acc   uint64
	bits  uint // number of valid bits held in the low 'bits' bits of acc
	err   error
}

// NewReader returns a Reader that unpacks words using order.
func NewReader(r io.Reader, order binary.ByteOrder) *Reader {
	return &Reader{r: r, order: order}
}

func (br *Reader) ensure(nbits uint) {
	for br.bits < nbits && br.err == nil {
		var buf [4]byte
		if _, err := io.ReadFull(br.r, buf[:]); err != nil {
			br.err = fmt.Errorf("bitio: read word: %w", err)
			return
		}
		br.acc = (br.acc << 32) | uint64(br.order.Uint32(buf[:]))
		br.bits += 32
	}
}

// Peek returns the next nbits bits, nbits in [1,32], without consuming
// them.
func (br *Reader) Peek(nbits uint) uint32 {
	if nbits < 1 || nbits > 32 {
		panic(fmt.Sprintf("bitio: Peek: nbits out of range: %d", nbits))
	}
	br.ensure(nbits)
	if br.err != nil {
		return 0
	}
	return uint32((br.acc >> (br.bits - nbits)) & ((uint64(1) << nbits) - 1))
}

// Advance consumes nbits bits previously observed via Peek.
func (br *Reader) Advance(nbits uint) {
	if br.err != nil {
		return
	}
	if nbits > br.bits {
		// Only reachable if Advance is called without a preceding Peek/Read
		// covering nbits; ensure first so bits never underflows.
		br.ensure(nbits)
		if br.err != nil {
			return
		}
	}
	br.bits -= nbits
	br.acc &= (uint64(1) << br.bits) - 1
}

// Read returns the next nbits bits, consuming them.
func (br *Reader) Read(nbits uint) uint32 {
	v := br.Peek(nbits)
	br.Advance(nbits)
	return v
}

// Err returns the first error encountered while reading, if any.
func (br *Reader) Err() error {
	return br.err
}

// Align discards any bits buffered but not yet consumed, so the next
// Peek or Read starts from the next whole word in the underlying
// stream. Callers use this at record boundaries to match the padding
// Writer.Flush produces at the end of every record.
func (br *Reader) Align() {
	br.acc = 0
	br.bits = 0
}

// AtEOF reports whether the underlying stream has no more words,
// without consuming anything on a false result. It must only be called
// immediately after Align (or before any reads), with no bits
// currently buffered; a partial word at this position is reported as
// an error rather than silently treated as EOF.
func (br *Reader) AtEOF() (bool, error) {
	if br.err != nil {
		return false, br.err
	}
	var buf [4]byte
	n, err := io.ReadFull(br.r, buf[:])
	if err == io.EOF && n == 0 {
		return true, nil
	}
	if err != nil {
		br.err = fmt.Errorf("bitio: read word: %w", err)
		return false, br.err
	}
	br.acc = uint64(br.order.Uint32(buf[:]))
	br.bits = 32
	return false, nil
}
