// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"errors"
	"fmt"

	"github.com/cosnicolaou/quivac/internal/bitio"
)

var errEscapeOverflow = errors.New("huffman: escaped table still exceeds 16-bit code length cap")

// Encode writes one code per byte of data to bw, in order. If the
// scheme is escaped and the symbol falls in the collapsed set, the
// shared escape code is followed by the literal byte.
func Encode(bw *bitio.Writer, s *Scheme, data []byte) {
	for _, sym := range data {
		l := s.CodeLen[sym]
		bw.Emit(s.Code[sym], uint(l))
		if s.Type == Escaped && l == s.EscapeLen && s.Code[sym] == s.EscapeCode {
			bw.Emit(uint32(sym), 8)
		}
	}
}

// Decode reads exactly n symbols from br using s.
func Decode(br *bitio.Reader, s *Scheme, n int) ([]byte, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		window := br.Peek(16)
		e := s.lookup[window]
		if e.len == 0 {
			if err := br.Err(); err != nil {
				return out, err
			}
			return out, fmt.Errorf("huffman: no code matches bit pattern %04x", window)
		}
		br.Advance(uint(e.len))
		sym := e.sym
		if sym == escapeSymbol && s.Type == Escaped {
			sym = byte(br.Read(8))
		}
		out[i] = sym
	}
	return out, br.Err()
}
