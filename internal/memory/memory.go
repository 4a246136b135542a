// Package memory holds the DL decoder's two addressable state blocks: the
// 16 MiB graphics RAM image and the 256-byte register file. It owns no
// decode logic, only storage and the read-back accessors the external
// interfaces (dump/get) are built from.
package memory

// GfxRamSize is the fixed size of the graphics RAM image: 2^24 bytes.
const GfxRamSize = 1 << 24

// RegisterCount is the fixed size of the register file.
const RegisterCount = 256

// State bundles GfxRam and the register file. The zero value is a valid,
// fully zeroed state.
type State struct {
	GfxRam    [GfxRamSize]byte
	Registers [RegisterCount]byte
}

// SetReg stores val at register addr.
func (s *State) SetReg(addr, val uint8) {
	s.Registers[addr] = val
}

// GetReg returns the value stored at register addr.
func (s *State) GetReg(addr uint8) uint8 {
	return s.Registers[addr]
}

// DumpReg copies the full register file into dst.
func (s *State) DumpReg(dst *[RegisterCount]byte) {
	*dst = s.Registers
}

// DumpBuffer copies len(dst) bytes from GfxRam starting at addr into dst,
// wrapping around the top of GfxRam (modulo GfxRamSize) if the requested
// range runs past it. This wraparound applies only to this read-back path;
// the write primitives in internal/dl index GfxRam directly and do not wrap.
func (s *State) DumpBuffer(dst []byte, addr uint32) {
	addr %= GfxRamSize
	n := copy(dst, s.GfxRam[addr:])
	if n < len(dst) {
		copy(dst[n:], s.GfxRam[:])
	}
}

// Width returns the frame width from registers 0x0F..0x11, big-endian.
func (s *State) Width() uint16 {
	return be16(s.Registers[0x0F], s.Registers[0x10])
}

// Height returns the frame height from registers 0x17..0x19, big-endian.
func (s *State) Height() uint16 {
	return be16(s.Registers[0x17], s.Registers[0x18])
}

// CurrentAddress16 returns the 24-bit base address for 16-bit operations
// from registers 0x20..0x23, big-endian.
func (s *State) CurrentAddress16() uint32 {
	return be24(s.Registers[0x20], s.Registers[0x21], s.Registers[0x22])
}

// CurrentAddress8 returns the 24-bit base address for 8-bit operations
// from registers 0x26..0x29, big-endian.
func (s *State) CurrentAddress8() uint32 {
	return be24(s.Registers[0x26], s.Registers[0x27], s.Registers[0x28])
}

func be16(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func be24(b0, b1, b2 byte) uint32 {
	return uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)
}
