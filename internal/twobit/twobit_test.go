// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package twobit

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"acgt",
		"ACGTacgt",
		"a",
		"acg",
		"acgtacgtacgtacgtacgt",
		"",
	}
	for _, c := range cases {
		data := []byte(c)
		packed := Pack(data)
		wantLen := (len(data) + 3) / 4
		if len(packed) != wantLen {
			t.Fatalf("case %q: packed length %d, want %d", c, len(packed), wantLen)
		}
		got := Unpack(packed, len(data))
		want := bytes.ToLower(data)
		if !bytes.Equal(got, want) {
			t.Fatalf("case %q: got %q want %q", c, got, want)
		}
	}
}

func TestUnknownBasePacksZero(t *testing.T) {
	packed := Pack([]byte{'N'})
	got := Unpack(packed, 1)
	if got[0] != 'a' {
		t.Fatalf("expected unknown base to round-trip as 'a', got %q", got)
	}
}
