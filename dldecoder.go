// Package dldecoder decodes the byte-oriented "DL" display-list protocol
// emitted by a family of USB display devices over their bulk-transfer
// endpoint, reconstructing the 16 MiB graphics RAM image and 256-byte
// register file the device maintains.
//
// The protocol is a sequence of sync-delimited commands: register writes,
// fill and copy primitives, and a bit-packed, table-driven decompressor.
// Decoding is strictly sequential — one command produces at most one
// Event — so a Decoder is built once around an io.Reader and driven to
// completion with Run.
//
// Basic usage:
//
//	d := dldecoder.New(capture)
//	err := d.Run(context.Background(), func(ev dldecoder.Event) error {
//	    if ev.Kind == dldecoder.EventSetReg && ev.RegAddr == 0xFF && ev.RegVal == 0xFF && d.GetReg(0x1F) == 0 {
//	        // present-frame trigger observed; caller decides what to do with it.
//	    }
//	    return nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var frame [1920 * 1080 * 2]byte
//	d.DumpBuffer(frame[:], d.CurrentAddress16())
package dldecoder

import (
	"io"
	"log/slog"

	"github.com/dlproto/dldecoder/internal/dl"
)

// Event is a value emitted synchronously once a command finishes
// decoding. It carries no reference into decoder state.
type Event = dl.Event

// EventKind tags the variant carried by an Event.
type EventKind = dl.EventKind

// The event kinds a Decoder can emit, one per command family.
const (
	EventSetReg = dl.EventSetReg
	EventFill   = dl.EventFill
	EventMemcpy = dl.EventMemcpy
	EventDecomp = dl.EventDecomp
	EventNoop   = dl.EventNoop
)

// Config controls how a Decoder is constructed. Use DefaultConfig and the
// With* options rather than constructing a Config directly.
type Config struct {
	// Logger receives decode start and completion, the present-frame
	// signal and each LoadTable/Nop command at debug level, and decode
	// failures at error level. Sync resyncs and LoadTable row counts are
	// not logged. A nil Logger discards all output.
	Logger *slog.Logger

	// StrictFill controls whether a Fill8/Fill16 sub-count run that
	// would overshoot its declared total aborts the command with
	// MalformedFill (true, the default and the documented reference
	// behavior) or is clamped to the remaining count (false).
	StrictFill bool
}

// Option configures a Config. See WithLogger and WithStrictFill.
type Option func(*Config)

// DefaultConfig returns the configuration New uses when no options are
// given: a discarding logger and strict fill-overshoot handling.
func DefaultConfig() *Config {
	return &Config{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		StrictFill: true,
	}
}

// WithLogger sets the structured logger a Decoder reports through.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithStrictFill toggles whether Fill8/Fill16 overshoot aborts decoding.
func WithStrictFill(strict bool) Option {
	return func(c *Config) { c.StrictFill = strict }
}
