// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"strings"

	"github.com/creachadair/mds/stack"
)

// A Builder accumulates the text of a table.
//
// Separators between items are requested lazily: Space and Newline set the
// separator to be written before the next item, and are dropped at the
// start of the output. A requested line break supersedes a space.
type Builder struct {
	buf   strings.Builder
	modes *stack.Stack[ListMode]
	sep   string // pending separator
	glue  bool   // suppress the separator before the next item
}

// NewBuilder constructs a new empty Builder.
func NewBuilder() *Builder { return &Builder{modes: stack.New[ListMode]()} }

// Write writes text as a new item, preceded by the pending separator.
func (b *Builder) Write(text string) {
	if !b.glue && b.buf.Len() != 0 {
		b.buf.WriteString(b.sep)
	}
	b.buf.WriteString(text)
	b.sep, b.glue = "", false
}

// Append writes text directly after the last item, with no separator.
func (b *Builder) Append(text string) {
	b.buf.WriteString(text)
	b.sep, b.glue = "", false
}

// Space requests a space before the next item.
func (b *Builder) Space() { b.Separator(" ") }

// Newline requests a line break before the next item.
func (b *Builder) Newline() { b.Separator("\n") }

// Separator requests that sep be written before the next item.
// It has no effect if a line break is already pending, or if the next item
// has been glued to the last.
func (b *Builder) Separator(sep string) {
	if b.glue || b.sep == "\n" {
		return
	}
	b.sep = sep
}

// Glue arranges for the next item to follow the last with no separator.
func (b *Builder) Glue() { b.sep, b.glue = "", true }

// Note writes the text of g on lines of its own: the version marker first,
// then the comments.
func (b *Builder) Note(g Gobble) {
	if g.IsEmpty() {
		return
	}
	b.glue = false
	if g.Version != "" {
		b.Newline()
		b.Write(g.Version)
	}
	if g.Comments != "" {
		b.Newline()
		b.Write(g.Comments)
	}
	b.Newline()
}

// PushMode enters a list context with the given mode.
func (b *Builder) PushMode(m ListMode) { b.modes.Push(m) }

// PopMode leaves the innermost list context.
func (b *Builder) PopMode() { b.modes.Pop() }

// InInline reports whether the innermost list context is inline.
func (b *Builder) InInline() bool {
	m, ok := b.modes.Peek(0)
	return ok && m == Inline
}

// InList reports whether the builder is in any list context.
func (b *Builder) InList() bool { return b.modes.Len() > 0 }

// String returns the text written so far, ending with a line break if it is
// not empty.
func (b *Builder) String() string {
	s := b.buf.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}
