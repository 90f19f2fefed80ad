// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package huffman builds per-stream canonical Huffman code tables capped
// at 16 bits, with an escape mechanism for symbols (and the reserved
// sentinel 255) that would otherwise need a longer code, and provides the
// matching bit-level encoder/decoder.
package huffman

// Histogram counts occurrences of each of the 256 possible symbol values.
type Histogram [256]int

// Add increments the count for every byte in data.
func (h *Histogram) Add(data []byte) {
	for _, b := range data {
		h[b]++
	}
}

// Total returns the sum of all counts.
func (h *Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}
