// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"go4.org/mem"
)

// A Cursor holds the unconsumed remainder of an input buffer and the current
// line number. Every consume operation mutates the cursor in place.
//
// A Cursor is owned by a single parse and must not be shared among
// goroutines.
type Cursor struct {
	src  mem.RO
	pos  int
	line int
}

// NewCursor constructs a cursor positioned at the start of input.
func NewCursor(input []byte) *Cursor { return &Cursor{src: mem.B(input), line: 1} }

// NewCursorString constructs a cursor positioned at the start of input.
func NewCursorString(input string) *Cursor { return &Cursor{src: mem.S(input), line: 1} }

// Rest returns a view of the unconsumed input.
func (c *Cursor) Rest() mem.RO { return c.src.SliceFrom(c.pos) }

// Text returns a copy of the unconsumed input.
func (c *Cursor) Text() string { return c.Rest().StringCopy() }

// Len reports the number of unconsumed bytes.
func (c *Cursor) Len() int { return c.src.Len() - c.pos }

// AtEOF reports whether the input is exhausted.
func (c *Cursor) AtEOF() bool { return c.pos >= c.src.Len() }

// Line reports the current 1-based line number.
func (c *Cursor) Line() int { return c.line }

// Peek returns the byte at offset i from the current position, and reports
// whether such a byte exists.
func (c *Cursor) Peek(i int) (byte, bool) {
	if p := c.pos + i; p < c.src.Len() {
		return c.src.At(p), true
	}
	return 0, false
}

// HasPrefix reports whether the unconsumed input begins with s.
func (c *Cursor) HasPrefix(s string) bool { return mem.HasPrefix(c.Rest(), mem.S(s)) }

// Consume advances the cursor by n bytes, updating the line count for any
// line breaks passed over. It panics if n exceeds the remaining input.
func (c *Cursor) Consume(n int) {
	if n <= 0 {
		return
	} else if n > c.Len() {
		panic("fsotab: consume past end of input")
	}
	skip := c.src.Slice(c.pos, c.pos+n)
	for {
		i := mem.IndexByte(skip, '\n')
		if i < 0 {
			break
		}
		c.line++
		skip = skip.SliceFrom(i + 1)
	}
	c.pos += n
}

// Take consumes n bytes and returns a copy of them as a string.
func (c *Cursor) Take(n int) string {
	s := c.Rest().SliceTo(n).StringCopy()
	c.Consume(n)
	return s
}

// Mark returns a checkpoint for the current position.
func (c *Cursor) Mark() Checkpoint { return Checkpoint{Pos: c.pos, Line: c.line} }

// Reset returns the cursor to a checkpoint previously returned by Mark.
func (c *Cursor) Reset(cp Checkpoint) { c.pos, c.line = cp.Pos, cp.Line }

// Advanced reports whether the cursor has moved past cp.
func (c *Cursor) Advanced(cp Checkpoint) bool { return c.pos > cp.Pos }
