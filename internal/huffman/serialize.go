// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteTo serializes s as one type byte followed by, for each of the
// 256 symbols in order, one length byte and, when that length is
// nonzero, a 32-bit right-justified code word in order.
func (s *Scheme) WriteTo(w io.Writer, order binary.ByteOrder) error {
	if _, err := w.Write([]byte{byte(s.Type)}); err != nil {
		return fmt.Errorf("huffman: write table type: %w", err)
	}
	var buf [4]byte
	for sym := 0; sym < 256; sym++ {
		l := s.CodeLen[sym]
		if _, err := w.Write([]byte{l}); err != nil {
			return fmt.Errorf("huffman: write code length: %w", err)
		}
		if l == 0 {
			continue
		}
		order.PutUint32(buf[:], s.Code[sym])
		if _, err := w.Write(buf[:]); err != nil {
			return fmt.Errorf("huffman: write code word: %w", err)
		}
	}
	return nil
}

// ReadScheme deserializes a Scheme written by WriteTo and rebuilds its
// decode lookup table.
func ReadScheme(r io.Reader, order binary.ByteOrder) (*Scheme, error) {
	var tb [1]byte
	if _, err := io.ReadFull(r, tb[:]); err != nil {
		return nil, fmt.Errorf("huffman: read table type: %w", err)
	}
	s := &Scheme{Type: TableType(tb[0])}
	var lb [1]byte
	var cb [4]byte
	for sym := 0; sym < 256; sym++ {
		if _, err := io.ReadFull(r, lb[:]); err != nil {
			return nil, fmt.Errorf("huffman: read code length: %w", err)
		}
		s.CodeLen[sym] = lb[0]
		if lb[0] == 0 {
			continue
		}
		if _, err := io.ReadFull(r, cb[:]); err != nil {
			return nil, fmt.Errorf("huffman: read code word: %w", err)
		}
		s.Code[sym] = order.Uint32(cb[:])
	}
	if s.Type == Escaped {
		s.EscapeLen = s.CodeLen[escapeSymbol]
		s.EscapeCode = s.Code[escapeSymbol]
	}
	s.buildLookup()
	return s, nil
}
