package dldecoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dlproto/dldecoder/internal/dl"
)

// Decoder decodes a DL command stream, owning the graphics RAM image,
// register file and decompression table the commands mutate. It is not
// safe for concurrent use.
type Decoder struct {
	core *dl.Decoder
	log  *slog.Logger
}

// New constructs a Decoder reading commands from r. With no options, it
// uses DefaultConfig.
func New(r io.Reader, opts ...Option) *Decoder {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	core := dl.New(r)
	core.SetStrictFill(cfg.StrictFill)

	return &Decoder{core: core, log: logger}
}

// Run decodes commands until a clean end of stream, a decode error, or
// sink returns an error. sink is invoked synchronously once per decoded
// command, in stream order. A clean end of stream is reported as a nil
// error.
//
// A non-nil error from sink, or a canceled ctx, is a caller-initiated stop
// (see SPEC_FULL.md §5): it is returned to the caller unwrapped, by
// identity, and is not logged as a decode failure. Only an error from the
// dl core itself is wrapped and logged at error level.
func (d *Decoder) Run(ctx context.Context, sink func(Event) error) error {
	d.log.Debug("dl: decode started")

	var sinkErr error
	err := d.core.Run(ctx, func(ev dl.Event) error {
		d.observe(ev)
		if err := sink(ev); err != nil {
			sinkErr = err
			return err
		}
		return nil
	})

	switch {
	case err == nil:
		d.log.Debug("dl: decode complete")
		return nil
	case sinkErr != nil:
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		d.log.Error("dl: decode stopped", "error", err)
		return fmt.Errorf("dldecoder: %w", err)
	}
}

// observe logs conditions worth surfacing but does not otherwise react to
// them; the present-frame trigger in particular is the presenter's
// responsibility, not the decoder's (see SetReg in package dl).
func (d *Decoder) observe(ev dl.Event) {
	switch ev.Kind {
	case dl.EventSetReg:
		if ev.RegAddr == 0xFF && ev.RegVal == 0xFF && d.core.Memory().GetReg(0x1F) == 0 {
			d.log.Debug("dl: present-frame signal observed")
		}
	case dl.EventNoop:
		d.log.Debug("dl: table loaded or nop")
	}
}

// DumpBuffer copies len(dst) bytes from GfxRam starting at addr into dst,
// wrapping around the top of the 2^24-byte image if the range runs past
// it.
func (d *Decoder) DumpBuffer(dst []byte, addr uint32) {
	d.core.Memory().DumpBuffer(dst, addr)
}

// DumpReg copies the full 256-byte register file into dst.
func (d *Decoder) DumpReg(dst *[256]byte) {
	d.core.Memory().DumpReg(dst)
}

// GetReg returns the value stored at register addr.
func (d *Decoder) GetReg(addr uint8) uint8 {
	return d.core.Memory().GetReg(addr)
}

// Width returns the frame width from registers 0x0F..0x11, big-endian.
func (d *Decoder) Width() uint16 {
	return d.core.Memory().Width()
}

// Height returns the frame height from registers 0x17..0x19, big-endian.
func (d *Decoder) Height() uint16 {
	return d.core.Memory().Height()
}

// CurrentAddress16 returns the 24-bit base address for 16-bit operations
// from registers 0x20..0x23, big-endian.
func (d *Decoder) CurrentAddress16() uint32 {
	return d.core.Memory().CurrentAddress16()
}

// CurrentAddress8 returns the 24-bit base address for 8-bit operations
// from registers 0x26..0x29, big-endian.
func (d *Decoder) CurrentAddress8() uint32 {
	return d.core.Memory().CurrentAddress8()
}
