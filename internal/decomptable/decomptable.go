// Package decomptable implements the 512-row, two-way jump table that
// drives the DL protocol's bit-stream decompressor.
//
// Each row holds two entries addressed by the next bit read from the
// stream: entry 0 is taken when that bit is 0, entry 1 when it is 1. A
// row's entries are packed on the wire in a 9-byte format; see readRow for
// the exact bit layout.
package decomptable

import (
	"encoding/binary"
	"fmt"
)

// NumRows is the fixed number of rows in a Table.
const NumRows = 512

// RowSize is the number of wire bytes each row occupies.
const RowSize = 9

// Entry is one branch of a table row: a color/accumulator contribution and
// the index of the row to visit next.
type Entry struct {
	Color uint16 // contribution added into the sample accumulator
	Next  uint16 // next row index, always in [0, NumRows)
}

// Table is the full 512-row jump table. The zero value is a valid,
// all-zero table (every Next is 0, every Color is 0).
type Table struct {
	Rows [NumRows][2]Entry
}

// Load decodes cnt packed 9-byte rows from buf and writes them into the
// table starting at row 0. cnt must be at most NumRows; callers are
// expected to have already rejected larger values with dlerr.TableOverflow
// before calling Load (see internal/dl).
func (t *Table) Load(buf []byte, cnt int) error {
	if cnt > NumRows {
		return fmt.Errorf("decomptable: row count %d exceeds %d", cnt, NumRows)
	}
	if len(buf) < cnt*RowSize {
		return fmt.Errorf("decomptable: buffer holds %d bytes, need %d for %d rows", len(buf), cnt*RowSize, cnt)
	}
	for i := 0; i < cnt; i++ {
		t.Rows[i] = readRow(buf[i*RowSize : i*RowSize+RowSize])
	}
	return nil
}

// readRow unpacks one 9-byte wire row into its two entries.
//
//	offset 0..1  color_a   (big-endian u16)
//	offset 2     reserved, ignored
//	offset 3     a
//	offset 4     ab
//	offset 5..6  color_b   (big-endian u16)
//	offset 7     reserved, ignored
//	offset 8     b
//
// next_a = ((a & 0x1F) << 4) | (ab >> 4)
// next_b = ((b & 0x1F) << 4) | (ab & 0x0F)
func readRow(buf []byte) [2]Entry {
	colorA := binary.BigEndian.Uint16(buf[0:2])
	a := buf[3]
	ab := buf[4]
	colorB := binary.BigEndian.Uint16(buf[5:7])
	b := buf[8]

	nextA := uint16(a&0x1F)<<4 | uint16(ab>>4)
	nextB := uint16(b&0x1F)<<4 | uint16(ab&0x0F)

	return [2]Entry{
		{Color: colorA, Next: nextA},
		{Color: colorB, Next: nextB},
	}
}
