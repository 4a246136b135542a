package decomptable

import "testing"

func TestTable_ZeroValue(t *testing.T) {
	var tbl Table
	for i, row := range tbl.Rows {
		for k, e := range row {
			if e.Color != 0 || e.Next != 0 {
				t.Fatalf("row %d entry %d = %+v, want zero value", i, k, e)
			}
		}
	}
}

func TestTable_Load(t *testing.T) {
	// One packed row: color_a=0x0102, a=0x13 (next_a = (0x13&0x1F)<<4 | ab>>4),
	// ab=0x5A, color_b=0x0304, b=0x07.
	row := []byte{
		0x01, 0x02, // color_a
		0x00,       // reserved
		0x13,       // a
		0x5A,       // ab
		0x03, 0x04, // color_b
		0x00, // reserved
		0x07, // b
	}
	var tbl Table
	if err := tbl.Load(row, 1); err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantNextA := uint16(0x13&0x1F)<<4 | uint16(0x5A>>4)
	wantNextB := uint16(0x07&0x1F)<<4 | uint16(0x5A&0x0F)

	if got := tbl.Rows[0][0]; got.Color != 0x0102 || got.Next != wantNextA {
		t.Errorf("Rows[0][0] = %+v, want {Color:0x0102 Next:%d}", got, wantNextA)
	}
	if got := tbl.Rows[0][1]; got.Color != 0x0304 || got.Next != wantNextB {
		t.Errorf("Rows[0][1] = %+v, want {Color:0x0304 Next:%d}", got, wantNextB)
	}
	if tbl.Rows[0][0].Next >= NumRows || tbl.Rows[0][1].Next >= NumRows {
		t.Fatal("decoded next index out of [0, NumRows) range")
	}
}

func TestTable_Load_RejectsOverflow(t *testing.T) {
	var tbl Table
	buf := make([]byte, RowSize)
	if err := tbl.Load(buf, NumRows+1); err == nil {
		t.Fatal("expected error for row count exceeding NumRows")
	}
}

func TestTable_Load_RejectsShortBuffer(t *testing.T) {
	var tbl Table
	if err := tbl.Load([]byte{0x01, 0x02}, 1); err == nil {
		t.Fatal("expected error for buffer shorter than one row")
	}
}

func TestTable_Load_LeavesUntouchedRowsZero(t *testing.T) {
	var tbl Table
	row := make([]byte, RowSize)
	row[0], row[1] = 0xFF, 0xFF // color_a = 0xFFFF
	if err := tbl.Load(row, 1); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Rows[1][0].Color != 0 {
		t.Errorf("row 1 should be untouched, got Color=%#x", tbl.Rows[1][0].Color)
	}
}
