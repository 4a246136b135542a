// Package dl implements the DL protocol command-stream decoder: sync/opcode
// dispatch, the fill and copy primitives, and the bit-stream decompressor.
// It is the core described by the surrounding module's public Decoder type,
// which adds configuration, logging and the read-back API around it.
package dl

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dlproto/dldecoder/internal/bio"
	"github.com/dlproto/dldecoder/internal/decomptable"
	"github.com/dlproto/dldecoder/internal/dlerr"
	"github.com/dlproto/dldecoder/internal/memory"
)

const syncByte = 0xAF

const (
	opSetReg    = 0x20
	opFill8     = 0x61
	opMemcpy8   = 0x62
	opFill16    = 0x69
	opMemcpy16  = 0x6A
	opDecomp8   = 0x70
	opDecomp16  = 0x78
	opLoadTable = 0xE0
	opNop       = 0xA0
)

// Decoder reads DL protocol commands from a byte stream, one at a time,
// mutating its owned GfxRam, register file and decompression table. It is
// not safe for concurrent use: the protocol is strictly sequential.
type Decoder struct {
	br         *bufio.Reader
	mem        memory.State
	table      decomptable.Table
	strictFill bool
}

// New wraps r in a Decoder with zeroed GfxRam, registers and decompression
// table. Fill overshoot is strict (surfaced as dlerr.MalformedFill) unless
// SetStrictFill(false) is called before Run.
func New(r io.Reader) *Decoder {
	return &Decoder{
		br:         bufio.NewReader(r),
		strictFill: true,
	}
}

// SetStrictFill controls whether a Fill8/Fill16 sub-count run that would
// overshoot its declared total aborts with dlerr.MalformedFill (strict,
// the default) or is silently clamped to the remaining count (lenient).
func (d *Decoder) SetStrictFill(strict bool) {
	d.strictFill = strict
}

// Memory exposes the decoder's owned GfxRam and register state for
// read-back. The returned pointer aliases the decoder's own storage.
func (d *Decoder) Memory() *memory.State {
	return &d.mem
}

// Run reads and dispatches commands until a clean EOF during sync, a
// decode error, or sink returns an error, whichever happens first. sink is
// called synchronously once per successfully decoded command. A clean EOF
// is reported as a nil error.
func (d *Decoder) Run(ctx context.Context, sink func(Event) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		synced, err := d.resync()
		if err != nil {
			return err
		}
		if !synced {
			return nil
		}

		op, err := d.readByte()
		if err != nil {
			return fmt.Errorf("dl: reading opcode after sync: %w", wrapTruncated(err))
		}

		ev, err := d.dispatch(op)
		if err != nil {
			return fmt.Errorf("dl: decode 0x%02X: %w", op, err)
		}

		if err := sink(ev); err != nil {
			return err
		}
	}
}

// resync reads bytes until it finds the sync byte, discarding everything
// else. It returns synced=false on clean EOF (no sync byte was ever found),
// which Run treats as a successful end of stream.
func (d *Decoder) resync() (synced bool, err error) {
	for {
		b, err := d.br.ReadByte()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if b == syncByte {
			return true, nil
		}
	}
}

func (d *Decoder) dispatch(op byte) (Event, error) {
	switch op {
	case opSetReg:
		return d.decodeSetReg()
	case opFill8:
		return d.decodeFill(false)
	case opFill16:
		return d.decodeFill(true)
	case opMemcpy8:
		return d.decodeMemcpy(false)
	case opMemcpy16:
		return d.decodeMemcpy(true)
	case opDecomp8:
		return d.decodeDecomp(false)
	case opDecomp16:
		return d.decodeDecomp(true)
	case opLoadTable:
		return d.decodeLoadTable()
	case opNop:
		return Event{Kind: EventNoop}, nil
	default:
		return Event{}, dlerr.BadOpcode
	}
}

func (d *Decoder) decodeSetReg() (Event, error) {
	addr, err := d.readByte()
	if err != nil {
		return Event{}, wrapTruncated(err)
	}
	val, err := d.readByte()
	if err != nil {
		return Event{}, wrapTruncated(err)
	}
	d.mem.SetReg(addr, val)
	return Event{Kind: EventSetReg, RegAddr: addr, RegVal: val}, nil
}

// decodeFill implements both Fill8 (wide=false) and Fill16 (wide=true):
// addr24, total8, then (cnt8, value) pairs until the declared total is
// exhausted. Fill16's value is two bytes, written byte-swapped: the first
// byte read lands at the odd offset.
func (d *Decoder) decodeFill(wide bool) (Event, error) {
	addr, err := d.readUint24()
	if err != nil {
		return Event{}, wrapTruncated(err)
	}
	totalByte, err := d.readByte()
	if err != nil {
		return Event{}, wrapTruncated(err)
	}

	startAddr := addr
	total := wrap256(totalByte)
	remaining := total

	for remaining > 0 {
		cntByte, err := d.readByte()
		if err != nil {
			return Event{}, wrapTruncated(err)
		}
		c := wrap256(cntByte)

		if wide {
			v, err := d.readFull(2)
			if err != nil {
				return Event{}, wrapTruncated(err)
			}
			if c > remaining {
				if d.strictFill {
					return Event{}, dlerr.MalformedFill
				}
				c = remaining
			}
			for i := 0; i < c; i++ {
				d.mem.GfxRam[addr] = v[1]
				d.mem.GfxRam[addr+1] = v[0]
				addr += 2
			}
		} else {
			val, err := d.readByte()
			if err != nil {
				return Event{}, wrapTruncated(err)
			}
			if c > remaining {
				if d.strictFill {
					return Event{}, dlerr.MalformedFill
				}
				c = remaining
			}
			for i := 0; i < c; i++ {
				d.mem.GfxRam[addr] = val
				addr++
			}
		}
		remaining -= c
	}

	return Event{Kind: EventFill, Addr: startAddr, Len: uint32(total), Wide: wide}, nil
}

// decodeMemcpy implements both Memcpy8 (wide=false) and Memcpy16
// (wide=true): dst24, cnt8, src24. The byte range MAY overlap; Go's copy
// already has memmove semantics for overlapping slices of one array.
func (d *Decoder) decodeMemcpy(wide bool) (Event, error) {
	dst, err := d.readUint24()
	if err != nil {
		return Event{}, wrapTruncated(err)
	}
	cntByte, err := d.readByte()
	if err != nil {
		return Event{}, wrapTruncated(err)
	}
	src, err := d.readUint24()
	if err != nil {
		return Event{}, wrapTruncated(err)
	}

	cnt := wrap256(cntByte)
	byteLen := cnt
	if wide {
		byteLen *= 2
	}

	copy(d.mem.GfxRam[dst:dst+uint32(byteLen)], d.mem.GfxRam[src:src+uint32(byteLen)])

	return Event{Kind: EventMemcpy, Addr: dst, Len: uint32(cnt), Wide: wide}, nil
}

// decodeDecomp implements both Decomp8 (wide=false, start state 0) and
// Decomp16 (wide=true, start/reset state 8): for each of n samples, walk
// decompTable one bit at a time, accumulating Color into a running
// accumulator that persists across the whole command, until Next==0.
func (d *Decoder) decodeDecomp(wide bool) (Event, error) {
	addr, err := d.readUint24()
	if err != nil {
		return Event{}, wrapTruncated(err)
	}
	cntByte, err := d.readByte()
	if err != nil {
		return Event{}, wrapTruncated(err)
	}
	n := wrap256(cntByte)

	bits := bio.NewReader(d.br)
	start := 0
	if wide {
		start = 8
	}
	tableIdx := start

	// Decomp8's accumulator wraps mod 2^8 and only ever sees the low byte
	// of a table entry's color; Decomp16's wraps mod 2^16 using the full
	// value. Keeping them as distinct typed accumulators (rather than one
	// uint16 truncated at output time) keeps that distinction exact.
	var acc8 uint8
	var acc16 uint16

	for i := 0; i < n; i++ {
		for {
			bit, err := bits.ReadBit()
			if err != nil {
				return Event{}, wrapTruncated(err)
			}
			if tableIdx < 0 || tableIdx >= decomptable.NumRows {
				return Event{}, dlerr.CorruptTable
			}
			e := d.table.Rows[tableIdx][bit]
			if wide {
				acc16 += e.Color
			} else {
				acc8 += uint8(e.Color)
			}

			if e.Next == 0 {
				tableIdx = start
				break
			}
			tableIdx = int(e.Next)
		}

		if wide {
			off := addr + uint32(i)*2
			d.mem.GfxRam[off] = byte(acc16)
			d.mem.GfxRam[off+1] = byte(acc16 >> 8)
		} else {
			d.mem.GfxRam[addr+uint32(i)] = acc8
		}
	}

	return Event{Kind: EventDecomp, Addr: addr, Len: uint32(n), Wide: wide}, nil
}

// decodeLoadTable implements opcode 0xE0: 4 reserved bytes, a big-endian
// row count, then that many 9-byte packed rows.
func (d *Decoder) decodeLoadTable() (Event, error) {
	if _, err := d.readFull(4); err != nil {
		return Event{}, wrapTruncated(err)
	}
	cntBytes, err := d.readFull(4)
	if err != nil {
		return Event{}, wrapTruncated(err)
	}
	cnt := binary.BigEndian.Uint32(cntBytes)
	if cnt > decomptable.NumRows {
		return Event{}, dlerr.TableOverflow
	}

	buf, err := d.readFull(int(cnt) * decomptable.RowSize)
	if err != nil {
		return Event{}, wrapTruncated(err)
	}
	if err := d.table.Load(buf, int(cnt)); err != nil {
		return Event{}, err
	}

	return Event{Kind: EventNoop}, nil
}

func (d *Decoder) readByte() (byte, error) {
	return d.br.ReadByte()
}

func (d *Decoder) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.br, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *Decoder) readUint24() (uint32, error) {
	buf, err := d.readFull(3)
	if err != nil {
		return 0, err
	}
	return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2]), nil
}

// wrap256 applies the wire convention that a zero count byte means 256.
func wrap256(b byte) int {
	if b == 0 {
		return 256
	}
	return int(b)
}

func wrapTruncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return dlerr.Truncated
	}
	return err
}
