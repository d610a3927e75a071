// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"strings"
	"unicode"

	"go4.org/mem"
)

// SkipSpace consumes whitespace, commas, comments, and at most one version
// marker from the front of the input. It returns the text of the comments
// consumed, and the version marker if one was found. Either is "" if absent.
//
// If stopOnNewline is true, scanning stops before the first line break that
// is not part of a comment. Scanning always stops immediately after a
// version marker. SkipSpace never fails.
func (c *Cursor) SkipSpace(stopOnNewline bool) (comments, version string) {
	var sb strings.Builder
	breaks := -1 // line breaks since the last comment; -1 before the first

	for {
		c.SkipInline()
		ch, ok := c.Peek(0)
		if !ok {
			break
		}
		next, _ := c.Peek(1)

		var text string
		var endsLine bool
		switch {
		case ch == '\n':
			if stopOnNewline {
				return sb.String(), ""
			}
			c.Consume(1)
			if breaks >= 0 {
				breaks++
			}
			continue

		case ch == ';':
			if n := versionLen(c.Rest()); n > 0 {
				return sb.String(), c.Take(n)
			}
			text, endsLine = c.readLineComment(), true

		case ch == '/' && next == '/':
			text, endsLine = c.readLineComment(), true

		case (ch == '/' || ch == '!') && next == '*':
			c.Consume(2)
			body := c.ReadUntil("*"+string(ch), true)
			text = string(ch) + "*" + body + "*" + string(ch)

		default:
			return sb.String(), ""
		}

		switch {
		case breaks < 0:
			// first comment, no separator
		case breaks == 0:
			sb.WriteByte(' ')
		case breaks == 1:
			sb.WriteByte('\n')
		default:
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
		if endsLine {
			breaks = 1
		} else {
			breaks = 0
		}
	}
	return sb.String(), ""
}

// readLineComment consumes the rest of the current line including its line
// break, and returns the text before the break.
func (c *Cursor) readLineComment() string {
	return strings.TrimRight(c.ReadUntil("\n", true), "\r")
}

// SkipInline consumes whitespace other than line breaks, commas, and any
// bytes listed in extra.
func (c *Cursor) SkipInline(extra ...byte) {
	rest := c.Rest()
	n := 0
	for n < rest.Len() {
		r, size := mem.DecodeRune(rest.SliceFrom(n))
		if r == '\n' || !(isInlineSpace(r) || r == ',' || isExtra(r, extra)) {
			break
		}
		n += size
	}
	c.Consume(n)
}

// ReadWord consumes and returns the text up to the next whitespace, comma, or
// closing parenthesis.
func (c *Cursor) ReadWord() string {
	rest := c.Rest()
	n := 0
	for n < rest.Len() {
		r, size := mem.DecodeRune(rest.SliceFrom(n))
		if unicode.IsSpace(r) || r == ',' || r == ')' {
			break
		}
		n += size
	}
	return c.Take(n)
}

// ReadUntil consumes and returns the text up to the first occurrence of
// target. If consume is true, target is also consumed. If target does not
// occur, the rest of the input is consumed and returned.
func (c *Cursor) ReadUntil(target string, consume bool) string {
	rest := c.Rest()
	i := mem.Index(rest, mem.S(target))
	if i < 0 {
		return c.Take(rest.Len())
	}
	s := c.Take(i)
	if consume {
		c.Consume(len(target))
	}
	return s
}

// ReadLine consumes text up to, but not including, the last non-whitespace
// character before a line break or comment marker (";"), and returns it.
// If the byte stop occurs first it is consumed, but it is not included in the
// result. Trailing whitespace before the end is not consumed.
func (c *Cursor) ReadLine(stop byte) string {
	rest := c.Rest()
	last, consume := 0, 0
	for i := 0; i < rest.Len(); {
		r, size := mem.DecodeRune(rest.SliceFrom(i))
		i += size
		if r == rune(stop) {
			consume = i
			break
		} else if r == '\n' || r == ';' {
			break
		} else if !unicode.IsSpace(r) {
			last, consume = i, i
		}
	}
	s := rest.SliceTo(last).StringCopy()
	c.Consume(consume)
	return s
}

// Expect consumes the literal token lit from the front of the input, or
// reports an error without consuming anything.
func (c *Cursor) Expect(lit string) error {
	if c.HasPrefix(lit) {
		c.Consume(len(lit))
		return nil
	}
	return c.failf(ErrTokenMismatch, "Expected \"%s\", got %s", lit, c.snippet(len(lit)))
}

// versionLen reports the length of the version marker at the front of s, or
// 0 if s does not begin with one. A marker has the form ";;FSO 1.2(.3...);;".
func versionLen(s mem.RO) int {
	const open = ";;FSO "
	if !mem.HasPrefix(s, mem.S(open)) {
		return 0
	}
	i, groups := len(open), 0
	for {
		n := digitsAt(s, i)
		if n == 0 {
			return 0
		}
		i += n
		groups++
		if i < s.Len() && s.At(i) == '.' {
			i++
			continue
		}
		break
	}
	if groups < 2 || !mem.HasPrefix(s.SliceFrom(i), mem.S(";;")) {
		return 0
	}
	return i + 2
}

// digitsAt reports the number of consecutive ASCII digits in s at offset i.
func digitsAt(s mem.RO, i int) int {
	n := 0
	for i+n < s.Len() && isDigit(rune(s.At(i+n))) {
		n++
	}
	return n
}

func isInlineSpace(r rune) bool { return r != '\n' && unicode.IsSpace(r) }
func isDigit(r rune) bool       { return '0' <= r && r <= '9' }

func isExtra(r rune, extra []byte) bool {
	for _, b := range extra {
		if rune(b) == r {
			return true
		}
	}
	return false
}
