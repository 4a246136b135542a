package memory

import "testing"

func TestState_SetRegGetReg(t *testing.T) {
	var s State
	s.SetReg(5, 0x2A)
	if got := s.GetReg(5); got != 0x2A {
		t.Errorf("GetReg(5) = %#x, want 0x2A", got)
	}
}

func TestState_DumpReg(t *testing.T) {
	var s State
	s.SetReg(0, 0x11)
	s.SetReg(255, 0x22)
	var dst [RegisterCount]byte
	s.DumpReg(&dst)
	if dst[0] != 0x11 || dst[255] != 0x22 {
		t.Errorf("DumpReg = %v, want [0]=0x11 [255]=0x22", dst)
	}
}

func TestState_DumpBuffer_NoWrap(t *testing.T) {
	var s State
	copy(s.GfxRam[10:14], []byte{1, 2, 3, 4})
	dst := make([]byte, 4)
	s.DumpBuffer(dst, 10)
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestState_DumpBuffer_WrapsAtTop(t *testing.T) {
	var s State
	s.GfxRam[GfxRamSize-2] = 0xAA
	s.GfxRam[GfxRamSize-1] = 0xBB
	s.GfxRam[0] = 0xCC
	s.GfxRam[1] = 0xDD

	dst := make([]byte, 4)
	s.DumpBuffer(dst, GfxRamSize-2)

	want := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %#x, want %#x", i, dst[i], want[i])
		}
	}
}

func TestState_WidthHeightAddresses(t *testing.T) {
	var s State
	s.Registers[0x0F] = 0x01
	s.Registers[0x10] = 0x40 // width = 0x0140
	s.Registers[0x17] = 0x00
	s.Registers[0x18] = 0xF0 // height = 0x00F0
	s.Registers[0x20] = 0x12
	s.Registers[0x21] = 0x34
	s.Registers[0x22] = 0x56 // addr16 = 0x123456
	s.Registers[0x26] = 0x00
	s.Registers[0x27] = 0x01
	s.Registers[0x28] = 0x00 // addr8 = 0x000100

	if got := s.Width(); got != 0x0140 {
		t.Errorf("Width() = %#x, want 0x0140", got)
	}
	if got := s.Height(); got != 0x00F0 {
		t.Errorf("Height() = %#x, want 0x00F0", got)
	}
	if got := s.CurrentAddress16(); got != 0x123456 {
		t.Errorf("CurrentAddress16() = %#x, want 0x123456", got)
	}
	if got := s.CurrentAddress8(); got != 0x000100 {
		t.Errorf("CurrentAddress8() = %#x, want 0x000100", got)
	}
}
