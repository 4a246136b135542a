// Package bio provides bit-level reading for the DL command stream's
// decompression opcodes.
package bio

import "io"

// Reader extracts bits from an underlying byte stream least-significant-bit
// first: for a byte b, the bits are yielded in the order b&1, (b>>1)&1, ...,
// (b>>7)&1, and a fresh byte is pulled once all 8 have been consumed.
type Reader struct {
	r   io.Reader
	buf byte  // current byte, bits not yet consumed in its low end
	cnt uint8 // number of unread bits remaining in buf
}

// NewReader creates a new LSB-first bit reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadBit reads a single bit (0 or 1), pulling a new byte from the
// underlying reader when the current one is exhausted.
func (r *Reader) ReadBit() (int, error) {
	if r.cnt == 0 {
		var b [1]byte
		if _, err := io.ReadFull(r.r, b[:]); err != nil {
			return 0, err
		}
		r.buf = b[0]
		r.cnt = 8
	}
	bit := int(r.buf & 1)
	r.buf >>= 1
	r.cnt--
	return bit, nil
}
