// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer packs a stream of variable-length codes, MSB first, into 32-bit
// words and writes them to an underlying io.Writer in the given byte
// order. Bits are read back MSB-first so that a decoder's 16-bit
// lookahead window lines up with the first bits of the next code.
type Writer struct {
	w     io.Writer
	order binary.ByteOrder
	acc   uint32
	olen  uint // number of valid bits currently held in acc, 0..31
	llen  uint // bit-length of the most recently emitted code
	err   error
}

// NewWriter returns a Writer that packs words using order.
func NewWriter(w io.Writer, order binary.ByteOrder) *Writer {
	return &Writer{w: w, order: order}
}

func (bw *Writer) writeWord(v uint32) {
	if bw.err != nil {
		return
	}
	var buf [4]byte
	bw.order.PutUint32(buf[:], v)
	if _, err := bw.w.Write(buf[:]); err != nil {
		bw.err = fmt.Errorf("bitio: write word: %w", err)
	}
}

// Emit packs the low nbits bits of value, nbits in [1,32], into the
// stream most-significant-bit first.
func (bw *Writer) Emit(value uint32, nbits uint) {
	if bw.err != nil {
		return
	}
	if nbits < 1 || nbits > 32 {
		panic(fmt.Sprintf("bitio: Emit: nbits out of range: %d", nbits))
	}
	bw.llen = nbits
	if nbits < 32 {
		value &= (uint32(1) << nbits) - 1
	}
	for nbits > 0 {
		free := 32 - bw.olen
		if free >= nbits {
			bw.acc |= value << (free - nbits)
			bw.olen += nbits
			nbits = 0
			if bw.olen == 32 {
				bw.writeWord(bw.acc)
				bw.acc = 0
				bw.olen = 0
			}
		} else {
			top := value >> (nbits - free)
			bw.acc |= top
			bw.writeWord(bw.acc)
			bw.acc = 0
			bw.olen = 0
			nbits -= free
			if nbits < 32 {
				value &= (uint32(1) << nbits) - 1
			}
		}
	}
}

// Flush writes any buffered tail bits, padding with zero bits, and emits
// an extra all-zero word when the most recently emitted code was longer
// than 16 bits and either no bits remain buffered or more bits remain
// buffered than that code's length. This keeps a decoder's 16-bit
// lookahead from reading past the end of the record it is decoding.
func (bw *Writer) Flush() error {
	if bw.err != nil {
		return bw.err
	}
	olen := bw.olen
	if olen > 0 {
		bw.writeWord(bw.acc)
	}
	if bw.llen > 16 && (olen == 0 || olen > bw.llen) {
		bw.writeWord(0)
	}
	bw.acc = 0
	bw.olen = 0
	bw.llen = 0
	return bw.err
}

// Err returns the first error encountered while writing, if any.
func (bw *Writer) Err() error {
	return bw.err
}
