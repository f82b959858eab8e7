package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"aim/internal/source"
)

// Cursor is a byte position inside one source file.
type Cursor struct {
	File  *source.File
	Off   uint32
	limit uint32
}

// NewCursor creates a cursor at the start of the file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file content length overflow: %w", err))
	}
	return Cursor{File: f, Off: 0, limit: limit}
}

// EOF reports whether the cursor is past the last byte.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt returns the byte at Off+n, or 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Bump advances one byte.
func (c *Cursor) Bump() {
	if !c.EOF() {
		c.Off++
	}
}

// Slice returns the raw bytes of [start, end).
func (c *Cursor) Slice(start, end uint32) []byte {
	if end > c.limit {
		end = c.limit
	}
	if start > end {
		start = end
	}
	return c.File.Content[start:end]
}

// RestOfLine returns the bytes from the current offset up to (excluding)
// the next '\n' or EOF.
func (c *Cursor) RestOfLine() []byte {
	end := c.Off
	for end < c.limit && c.File.Content[end] != '\n' {
		end++
	}
	return c.File.Content[c.Off:end]
}
