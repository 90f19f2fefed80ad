// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package quiva

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func roundTrip(t *testing.T, input string, lossy bool) string {
	t.Helper()
	var compressed bytes.Buffer
	if err := Encode(&compressed, bytes.NewReader([]byte(input)), lossy); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out bytes.Buffer
	if err := Decode(&out, &compressed); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return out.String()
}

func TestRoundTrip_SimpleDelChar(t *testing.T) {
	input := "@m0/1/0_4 RQ=0.850\n" +
		"\x05\x05\x05\x05\n" +
		"NNNN\n" +
		"\x10\x10\x10\x10\n" +
		"\x10\x10\x10\x10\n" +
		"\x10\x10\x10\x10\n"
	got := roundTrip(t, input, false)
	if got != input {
		t.Fatalf("round trip mismatch:\ngot:  %q\nwant: %q", got, input)
	}
}

func TestRoundTrip_WellDelta(t *testing.T) {
	input := "@m0/0/0_2 RQ=0.900\n" +
		"\x05\x05\nNN\n\x10\x10\n\x10\x10\n\x10\x10\n" +
		"@m0/300/0_2 RQ=0.900\n" +
		"\x05\x05\nNN\n\x10\x10\n\x10\x10\n\x10\x10\n"

	var compressed bytes.Buffer
	if err := Encode(&compressed, bytes.NewReader([]byte(input)), false); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	buf := compressed.Bytes()
	// Locate the 0xff, 0x2d well-delta byte pair emitted for the second
	// record (well 300, delta from 0): the encoder must emit exactly
	// floor(300/255)=1 escape byte then 300 mod 255 = 45 = 0x2d.
	found := false
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == 0xff && buf[i+1] == 0x2d {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("did not find well-delta byte pair 0xff 0x2d in encoded output")
	}

	var out bytes.Buffer
	if err := Decode(&out, bytes.NewReader(buf)); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.String() != input {
		t.Fatalf("round trip mismatch:\ngot:  %q\nwant: %q", out.String(), input)
	}
}

func TestRoundTrip_DeletionQVEscapePath(t *testing.T) {
	// The deletion-tag is not 'N', so the scanner never picks a delChar
	// and the deletion-QV vector is Huffman-coded directly rather than
	// run-length coded; its sole value, 255, is the reserved escape
	// sentinel, forcing the codec's escape path end to end.
	input := "@m0/1/0_1 RQ=0.500\n" +
		"\xff\n" +
		"a\n" +
		"\x10\n" +
		"\x10\n" +
		"\x10\n"
	got := roundTrip(t, input, false)
	if got != input {
		t.Fatalf("round trip mismatch:\ngot:  %q\nwant: %q", got, input)
	}
}

func TestRoundTrip_Lossy(t *testing.T) {
	input := "@m0/1/0_4 RQ=0.500\n" +
		"\x01\x02\x03\x04\n" +
		"acgt\n" +
		"\x10\x11\x12\x13\n" +
		"\x10\x11\x12\x13\n" +
		"\x04\x04\x04\x04\n"

	var compressed bytes.Buffer
	if err := Encode(&compressed, bytes.NewReader([]byte(input)), true); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out bytes.Buffer
	if err := Decode(&out, &compressed); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	recs, err := ReadRecords(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	wantIns := "\x10\x10\x12\x12"
	wantMrg := "\x10\x10\x10\x10"
	if string(recs[0].InsQV) != wantIns {
		t.Errorf("InsQV = %q, want %q", recs[0].InsQV, wantIns)
	}
	if string(recs[0].MrgQV) != wantMrg {
		t.Errorf("MrgQV = %q, want %q", recs[0].MrgQV, wantMrg)
	}
	// Deletion-QV and deletion-tag are unaffected by lossy mode.
	if string(recs[0].DelQV) != "\x01\x02\x03\x04" {
		t.Errorf("DelQV = %q, want unchanged", recs[0].DelQV)
	}
}

func TestRoundTrip_NonThreeDigitQV(t *testing.T) {
	// The binary format only stores the numeric qv value (§6), never its
	// original digit count, so RQ must round-trip through a plain %d,
	// not zero-padded to three digits.
	cases := []string{
		"@m0/1/0_1 RQ=0.5\n" + "\x05\nN\n\x10\n\x10\n\x10\n",
		"@m0/1/0_1 RQ=0.87\n" + "\x05\nN\n\x10\n\x10\n\x10\n",
		"@m0/1/0_1 RQ=0.12345\n" + "\x05\nN\n\x10\n\x10\n\x10\n",
	}
	for _, input := range cases {
		got := roundTrip(t, input, false)
		if got != input {
			t.Fatalf("round trip mismatch:\ngot:  %q\nwant: %q", got, input)
		}
	}
}

func TestRoundTrip_Empty(t *testing.T) {
	got := roundTrip(t, "", false)
	if got != "" {
		t.Fatalf("round trip of empty input produced %q, want empty", got)
	}
}

func TestRoundTrip_MultipleRecordsMixedVectors(t *testing.T) {
	input := "@m1/5/0_6 RQ=0.750\n" +
		"\x02\x02\x09\x02\x02\x02\n" +
		"NNcNNN\n" +
		"\x11\x12\x13\x14\x15\x16\n" +
		"\x00\x00\x00\x01\x00\x00\n" +
		"\x04\x04\x04\x04\x09\x04\n" +
		"@m1/7/0_3 RQ=0.600\n" +
		"\x02\x02\x02\n" +
		"NNN\n" +
		"\x21\x22\x23\n" +
		"\x00\x00\x00\n" +
		"\x04\x04\x04\n"
	got := roundTrip(t, input, false)
	if got != input {
		t.Fatalf("round trip mismatch:\ngot:  %q\nwant: %q", got, input)
	}
}

// TestReadQVcoding_ForeignOrder constructs a QVcoding preamble by hand
// using the byte order opposite this host's native order, and checks
// ReadQVcoding detects the mismatch and decodes every field correctly
// regardless, as when reading a file written on a host of the opposite
// byte order.
func TestReadQVcoding_ForeignOrder(t *testing.T) {
	native := nativeOrderForTest()
	var foreign binary.ByteOrder = binary.BigEndian
	if native == binary.BigEndian {
		foreign = binary.LittleEndian
	}

	var buf bytes.Buffer
	var witness [2]byte
	foreign.PutUint16(witness[:], 0x33cc)
	buf.Write(witness[:])

	var delChar [2]byte
	foreign.PutUint16(delChar[:], 5)
	buf.Write(delChar[:])

	var subChar [2]byte
	foreign.PutUint16(subChar[:], noCharField)
	buf.Write(subChar[:])

	prefix := "m0"
	var plen [4]byte
	foreign.PutUint32(plen[:], uint32(len(prefix)))
	buf.Write(plen[:])
	buf.WriteString(prefix)

	// Four empty schemes (delScheme, insScheme, mrgScheme, subScheme) plus
	// dRunScheme since delChar != none: an empty Plain scheme serializes
	// as Type=0 and 256 zero code lengths.
	writeEmptyScheme := func() {
		buf.WriteByte(0) // Plain
		var lens [256]byte
		buf.Write(lens[:])
	}
	writeEmptyScheme() // delScheme
	writeEmptyScheme() // dRunScheme (delChar != none)
	writeEmptyScheme() // insScheme
	writeEmptyScheme() // mrgScheme
	writeEmptyScheme() // subScheme

	c, err := ReadQVcoding(&buf)
	if err != nil {
		t.Fatalf("ReadQVcoding: %v", err)
	}
	if !c.Flip {
		t.Errorf("Flip = false, want true")
	}
	if c.DelChar != 5 {
		t.Errorf("DelChar = %d, want 5", c.DelChar)
	}
	if c.SubChar != noChar {
		t.Errorf("SubChar = %d, want noChar", c.SubChar)
	}
	if c.Prefix != "m0" {
		t.Errorf("Prefix = %q, want %q", c.Prefix, "m0")
	}
}

func nativeOrderForTest() binary.ByteOrder {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 0x0102)
	if buf[0] == 0x01 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
