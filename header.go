// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package quiva

import "github.com/cosnicolaou/quivac/internal/bitio"

// writeHeaderFields emits the well delta (a run of 0xff bytes followed
// by a final byte less than 255) and the fixed-width begin, end, and qv
// fields, updating lastWell to this record's well for the next call.
func writeHeaderFields(bw *bitio.Writer, rec *Record, lastWell *int) {
	delta := rec.Well - *lastWell
	for delta >= 255 {
		bw.Emit(0xff, 8)
		delta -= 255
	}
	bw.Emit(uint32(delta), 8)
	*lastWell = rec.Well

	bw.Emit(uint32(rec.Begin), 16)
	bw.Emit(uint32(rec.End), 16)
	bw.Emit(uint32(rec.QV), 16)
}

// readHeaderFields is the inverse of writeHeaderFields.
func readHeaderFields(br *bitio.Reader, lastWell *int) (well, begin, end, qv int, err error) {
	delta := 0
	for {
		b := br.Read(8)
		if err := br.Err(); err != nil {
			return 0, 0, 0, 0, err
		}
		delta += int(b)
		if b != 0xff {
			break
		}
	}
	well = *lastWell + delta
	*lastWell = well

	begin = int(br.Read(16))
	end = int(br.Read(16))
	qv = int(br.Read(16))
	return well, begin, end, qv, br.Err()
}
