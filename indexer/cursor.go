package indexer

import (
	"bytes"
	"io"

	e "github.com/MG-RAST/Strand/errors"
)

// Default scan window capacity in bytes.
const DefaultBufferSize = 2097152

// cursor is a fixed-capacity read window over the source file. The
// absolute file offset of the read position is fileOffsetStart + pos at
// all times; refill keeps that true across every block, including short
// reads and end-of-file.
type cursor struct {
	f               io.Reader
	buf             []byte
	pos             int
	end             int
	fileOffsetStart int64
	fileOffsetEnd   int64
	done            bool
}

func newCursor(f io.Reader, bufferSize int) *cursor {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	// the window must at least hold the BOM probe
	if bufferSize < 4 {
		bufferSize = 4
	}
	return &cursor{f: f, buf: make([]byte, bufferSize)}
}

// refill replaces the buffered window with the next block of the file,
// invalidating prior window positions. A zero-byte read marks the cursor
// exhausted; refilling an exhausted cursor is a no-op.
func (c *cursor) refill() error {
	if c.done {
		return nil
	}
	n, err := c.f.Read(c.buf)
	if err != nil && err != io.EOF {
		return &ScanError{Message: e.ReadFailure, Offset: c.fileOffsetEnd}
	}
	if n == 0 {
		c.done = true
		return nil
	}
	c.fileOffsetStart = c.fileOffsetEnd
	c.fileOffsetEnd += int64(n)
	c.pos = 0
	c.end = n
	return nil
}

// remaining reports how many buffered bytes are left to read.
func (c *cursor) remaining() int {
	return c.end - c.pos
}

// offset is the absolute file offset of the read position. Once the
// cursor is exhausted it equals the total number of bytes read.
func (c *cursor) offset() int64 {
	return c.fileOffsetStart + int64(c.pos)
}

func (c *cursor) advance(n int) {
	c.pos += n
}

func (c *cursor) current() byte {
	return c.buf[c.pos]
}

// findByte advances the read position to the next occurrence of b in the
// buffered window. When b is not buffered the whole window counts as
// consumed and the caller refills; already scanned bytes are never
// scanned twice.
func (c *cursor) findByte(b byte) bool {
	if i := bytes.IndexByte(c.buf[c.pos:c.end], b); i >= 0 {
		c.pos += i
		return true
	}
	c.pos = c.end
	return false
}
