// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bitio packs and unpacks streams of variable-length codes into
// 32-bit words written in a caller-chosen byte order (bits MSB first
// within each word), with a 16-bit witness at the front of the
// stream that lets a reader detect and correct for a byte-order mismatch
// between the producer and consumer.
package bitio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Witness is the constant written, in the producer's native byte order,
// at the start of a bitio-framed file.
const Witness uint16 = 0x33cc

// hostOrder reports this process's native byte order.
func hostOrder() binary.ByteOrder {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 0x0102)
	if buf[0] == 0x01 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// otherOrder returns the byte order opposite o.
func otherOrder(o binary.ByteOrder) binary.ByteOrder {
	if o == binary.BigEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// WriteWitness writes the endian witness in the host's native order and
// returns that order, for use by subsequent multi-byte writes.
func WriteWitness(w io.Writer) (binary.ByteOrder, error) {
	order := hostOrder()
	var buf [2]byte
	order.PutUint16(buf[:], Witness)
	if _, err := w.Write(buf[:]); err != nil {
		return nil, fmt.Errorf("write witness: %w", err)
	}
	return order, nil
}

// ReadWitness reads the endian witness and returns the byte order to use
// for all further multi-byte fields, plus whether that order differs from
// this host's native order.
func ReadWitness(r io.Reader) (order binary.ByteOrder, flip bool, err error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, false, fmt.Errorf("read witness: %w", err)
	}
	native := hostOrder()
	if native.Uint16(buf[:]) == Witness {
		return native, false, nil
	}
	other := otherOrder(native)
	if other.Uint16(buf[:]) == Witness {
		return other, true, nil
	}
	return nil, false, fmt.Errorf("bad endian witness: %x", buf)
}
