// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package twobit packs and unpacks DNA base strings at two bits per
// base, used for the deletion-tag stream.
package twobit

// code maps each possible input byte to its 2-bit value. Anything other
// than A/a, C/c, G/g, T/t packs as 0.
var code [256]byte

var base = [4]byte{'a', 'c', 'g', 't'}

func init() {
	code['A'], code['a'] = 0, 0
	code['C'], code['c'] = 1, 1
	code['G'], code['g'] = 2, 2
	code['T'], code['t'] = 3, 3
}

// Pack encodes data four bases per output byte, most-significant pair
// first. The output length is ceil(len(data)/4).
func Pack(data []byte) []byte {
	out := make([]byte, (len(data)+3)/4)
	for i, b := range data {
		out[i/4] |= code[b] << uint(6-2*(i%4))
	}
	return out
}

// Unpack decodes packed back into rlen lowercase bases.
func Unpack(packed []byte, rlen int) []byte {
	out := make([]byte, rlen)
	for i := 0; i < rlen; i++ {
		v := (packed[i/4] >> uint(6-2*(i%4))) & 0x3
		out[i] = base[v]
	}
	return out
}
