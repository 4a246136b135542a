// Package dlerr defines the sentinel error kinds surfaced by the DL
// command-stream decoder. Callers distinguish them with errors.Is; the
// decoder never retries on any of them.
package dlerr

import "errors"

var (
	// Truncated indicates the input ended mid-command.
	Truncated = errors.New("dl: truncated stream")

	// BadOpcode indicates a byte following a sync byte that does not match
	// any known opcode.
	BadOpcode = errors.New("dl: unrecognized opcode")

	// MalformedFill indicates a Fill8/Fill16 sub-count run whose declared
	// total would be overshot.
	MalformedFill = errors.New("dl: fill sub-count exceeds declared total")

	// CorruptTable indicates a decompression table index walked outside
	// [0, 512) while traversing the jump table.
	CorruptTable = errors.New("dl: decompression table index out of range")

	// TableOverflow indicates a LoadTable command requested more than 512
	// rows.
	TableOverflow = errors.New("dl: load-table row count exceeds 512")
)
