// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

// Lookup returns the symbol and code length recorded for the given
// 16-bit lookahead window, or ok=false if no code in this table
// produces that prefix. Callers that need a literal width other than
// the Huffman codec's own 8-bit escape (the run-length tables in
// package rle, which escape to a 16-bit literal) use this directly
// instead of Decode.
func (s *Scheme) Lookup(window uint32) (sym byte, length uint8, ok bool) {
	e := s.lookup[window&0xffff]
	if e.len == 0 {
		return 0, 0, false
	}
	return e.sym, e.len, true
}
