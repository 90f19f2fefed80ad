// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package quiva

import (
	"fmt"

	"github.com/cosnicolaou/quivac/internal/bitio"
	"github.com/cosnicolaou/quivac/internal/huffman"
	"github.com/cosnicolaou/quivac/internal/rle"
	"github.com/cosnicolaou/quivac/internal/twobit"
)

// encodeRecord writes one record's header and five vectors to bw, per
// the coding rules in c. If lossy is true, the insertion and merge
// vectors are bucketed in place before encoding: callers pass a record
// they own, since maskInsertion/maskMerge mutate it.
func encodeRecord(bw *bitio.Writer, c *QVcoding, rec *Record, lastWell *int, lossy bool) {
	writeHeaderFields(bw, rec, lastWell)

	if c.DelChar != noChar {
		rle.Encode(bw, c.DRunScheme, c.DelScheme, rec.DelQV, byte(c.DelChar))
		compact := compactTags(rec.DelQV, rec.DelTag, byte(c.DelChar))
		packed := twobit.Pack(compact)
		for _, b := range packed {
			bw.Emit(uint32(b), 8)
		}
	} else {
		huffman.Encode(bw, c.DelScheme, rec.DelQV)
		packed := twobit.Pack(rec.DelTag)
		for _, b := range packed {
			bw.Emit(uint32(b), 8)
		}
	}

	if lossy {
		maskInsertion(rec.InsQV)
		maskMerge(rec.MrgQV)
	}
	huffman.Encode(bw, c.InsScheme, rec.InsQV)
	huffman.Encode(bw, c.MrgScheme, rec.MrgQV)

	if c.SubChar != noChar {
		rle.Encode(bw, c.SRunScheme, c.SubScheme, rec.SubQV, byte(c.SubChar))
	} else {
		huffman.Encode(bw, c.SubScheme, rec.SubQV)
	}
}

// decodeRecord reads one record from br using c, reconstructing the
// five vectors and the header fields.
func decodeRecord(br *bitio.Reader, c *QVcoding, lastWell *int) (*Record, error) {
	well, begin, end, qv, err := readHeaderFields(br, lastWell)
	if err != nil {
		return nil, fmt.Errorf("quiva: read header: %w", err)
	}
	rlen := end - begin
	if rlen < 0 {
		return nil, fmt.Errorf("quiva: record well=%d: end < begin", well)
	}
	rec := &Record{Prefix: c.Prefix, Well: well, Begin: begin, End: end, QV: qv}

	var delTag []byte
	if c.DelChar != noChar {
		delQV, err := rle.Decode(br, c.DRunScheme, c.DelScheme, rlen, byte(c.DelChar))
		if err != nil {
			return nil, fmt.Errorf("quiva: decode deletion-QV: %w", err)
		}
		rec.DelQV = delQV
		clen := 0
		for _, b := range delQV {
			if b != byte(c.DelChar) {
				clen++
			}
		}
		packedLen := (clen + 3) / 4
		packed := make([]byte, packedLen)
		for i := range packed {
			packed[i] = byte(br.Read(8))
		}
		if err := br.Err(); err != nil {
			return nil, fmt.Errorf("quiva: read deletion-tag payload: %w", err)
		}
		compact := twobit.Unpack(packed, clen)
		delTag = expandTags(delQV, compact, byte(c.DelChar))
	} else {
		delQV, err := huffman.Decode(br, c.DelScheme, rlen)
		if err != nil {
			return nil, fmt.Errorf("quiva: decode deletion-QV: %w", err)
		}
		rec.DelQV = delQV
		packedLen := (rlen + 3) / 4
		packed := make([]byte, packedLen)
		for i := range packed {
			packed[i] = byte(br.Read(8))
		}
		if err := br.Err(); err != nil {
			return nil, fmt.Errorf("quiva: read deletion-tag payload: %w", err)
		}
		delTag = twobit.Unpack(packed, rlen)
	}
	rec.DelTag = delTag

	insQV, err := huffman.Decode(br, c.InsScheme, rlen)
	if err != nil {
		return nil, fmt.Errorf("quiva: decode insertion-QV: %w", err)
	}
	rec.InsQV = insQV

	mrgQV, err := huffman.Decode(br, c.MrgScheme, rlen)
	if err != nil {
		return nil, fmt.Errorf("quiva: decode merge-QV: %w", err)
	}
	rec.MrgQV = mrgQV

	if c.SubChar != noChar {
		subQV, err := rle.Decode(br, c.SRunScheme, c.SubScheme, rlen, byte(c.SubChar))
		if err != nil {
			return nil, fmt.Errorf("quiva: decode substitution-QV: %w", err)
		}
		rec.SubQV = subQV
	} else {
		subQV, err := huffman.Decode(br, c.SubScheme, rlen)
		if err != nil {
			return nil, fmt.Errorf("quiva: decode substitution-QV: %w", err)
		}
		rec.SubQV = subQV
	}

	return rec, nil
}

// compactTags keeps only the deletion-tag positions whose deletion-QV
// differs from delChar.
func compactTags(delQV, delTag []byte, delChar byte) []byte {
	out := make([]byte, 0, len(delTag))
	for i, qv := range delQV {
		if qv != delChar {
			out = append(out, delTag[i])
		}
	}
	return out
}

// expandTags reinserts 'N' at every position whose decoded deletion-QV
// equals delChar, pulling the remaining tags from compact in order.
func expandTags(delQV, compact []byte, delChar byte) []byte {
	out := make([]byte, len(delQV))
	j := 0
	for i, qv := range delQV {
		if qv == delChar {
			out[i] = 'N'
			continue
		}
		out[i] = compact[j]
		j++
	}
	return out
}
