// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package quiva

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cosnicolaou/quivac/internal/bitio"
	"github.com/cosnicolaou/quivac/internal/huffman"
)

// noCharField is the 16-bit on-disk value meaning "this run character
// is not in use".
const noCharField = 256

// QVcoding is the compressed file's header object: the six code
// tables, the two run-character choices, the endian-flip flag, and the
// reconstructed prefix. It is built once per file by Assemble, written
// once, and thereafter read-only.
type QVcoding struct {
	DelScheme  *huffman.Scheme
	DRunScheme *huffman.Scheme
	InsScheme  *huffman.Scheme
	MrgScheme  *huffman.Scheme
	SubScheme  *huffman.Scheme
	SRunScheme *huffman.Scheme

	DelChar int
	SubChar int

	Flip  bool
	Order binary.ByteOrder

	Prefix string
}

// WriteQVcoding writes the endian witness, run-character flags,
// prefix, and code tables, in the file order fixed by this codec.
func WriteQVcoding(w io.Writer, c *QVcoding) error {
	order, err := bitio.WriteWitness(w)
	if err != nil {
		return err
	}
	c.Order = order
	if err := writeUint16(w, order, charField(c.DelChar)); err != nil {
		return fmt.Errorf("quiva: write delChar: %w", err)
	}
	if err := writeUint16(w, order, charField(c.SubChar)); err != nil {
		return fmt.Errorf("quiva: write subChar: %w", err)
	}
	var lenBuf [4]byte
	order.PutUint32(lenBuf[:], uint32(len(c.Prefix)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("quiva: write prefix length: %w", err)
	}
	if _, err := io.WriteString(w, c.Prefix); err != nil {
		return fmt.Errorf("quiva: write prefix: %w", err)
	}
	if err := c.DelScheme.WriteTo(w, order); err != nil {
		return fmt.Errorf("quiva: write delScheme: %w", err)
	}
	if c.DelChar != noChar {
		if err := c.DRunScheme.WriteTo(w, order); err != nil {
			return fmt.Errorf("quiva: write dRunScheme: %w", err)
		}
	}
	if err := c.InsScheme.WriteTo(w, order); err != nil {
		return fmt.Errorf("quiva: write insScheme: %w", err)
	}
	if err := c.MrgScheme.WriteTo(w, order); err != nil {
		return fmt.Errorf("quiva: write mrgScheme: %w", err)
	}
	if err := c.SubScheme.WriteTo(w, order); err != nil {
		return fmt.Errorf("quiva: write subScheme: %w", err)
	}
	if c.SubChar != noChar {
		if err := c.SRunScheme.WriteTo(w, order); err != nil {
			return fmt.Errorf("quiva: write sRunScheme: %w", err)
		}
	}
	return nil
}

// ReadQVcoding reads a QVcoding written by WriteQVcoding, detecting the
// producer's byte order from the endian witness.
func ReadQVcoding(r io.Reader) (*QVcoding, error) {
	order, flip, err := bitio.ReadWitness(r)
	if err != nil {
		return nil, err
	}
	c := &QVcoding{Order: order, Flip: flip}

	delField, err := readUint16(r, order)
	if err != nil {
		return nil, fmt.Errorf("quiva: read delChar: %w", err)
	}
	c.DelChar = charValue(delField)

	subField, err := readUint16(r, order)
	if err != nil {
		return nil, fmt.Errorf("quiva: read subChar: %w", err)
	}
	c.SubChar = charValue(subField)

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("quiva: read prefix length: %w", err)
	}
	prefixLen := order.Uint32(lenBuf[:])
	prefixBuf := make([]byte, prefixLen)
	if _, err := io.ReadFull(r, prefixBuf); err != nil {
		return nil, fmt.Errorf("quiva: read prefix: %w", err)
	}
	c.Prefix = string(prefixBuf)

	if c.DelScheme, err = huffman.ReadScheme(r, order); err != nil {
		return nil, fmt.Errorf("quiva: read delScheme: %w", err)
	}
	if c.DelChar != noChar {
		if c.DRunScheme, err = huffman.ReadScheme(r, order); err != nil {
			return nil, fmt.Errorf("quiva: read dRunScheme: %w", err)
		}
	}
	if c.InsScheme, err = huffman.ReadScheme(r, order); err != nil {
		return nil, fmt.Errorf("quiva: read insScheme: %w", err)
	}
	if c.MrgScheme, err = huffman.ReadScheme(r, order); err != nil {
		return nil, fmt.Errorf("quiva: read mrgScheme: %w", err)
	}
	if c.SubScheme, err = huffman.ReadScheme(r, order); err != nil {
		return nil, fmt.Errorf("quiva: read subScheme: %w", err)
	}
	if c.SubChar != noChar {
		if c.SRunScheme, err = huffman.ReadScheme(r, order); err != nil {
			return nil, fmt.Errorf("quiva: read sRunScheme: %w", err)
		}
	}
	return c, nil
}

func charField(c int) uint16 {
	if c == noChar {
		return noCharField
	}
	return uint16(c)
}

func charValue(f uint16) int {
	if f == noCharField {
		return noChar
	}
	return int(f)
}

func writeUint16(w io.Writer, order binary.ByteOrder, v uint16) error {
	var buf [2]byte
	order.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint16(r io.Reader, order binary.ByteOrder) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return order.Uint16(buf[:]), nil
}
