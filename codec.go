// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"strconv"

	"go4.org/mem"
)

// ParseBool parses a Boolean constant. The words "yes", "true", and "on"
// denote true; "no", "false", and "off" denote false. Case is not
// significant.
func (c *Cursor) ParseBool() (bool, error) {
	c.SkipInline()
	cp := c.Mark()
	word := c.ReadWord()
	w := mem.S(word)
	for _, t := range []string{"yes", "true", "on"} {
		if mem.EqualFold(w, mem.S(t)) {
			return true, nil
		}
	}
	for _, f := range []string{"no", "false", "off"} {
		if mem.EqualFold(w, mem.S(f)) {
			return false, nil
		}
	}
	c.Reset(cp)
	return false, c.failf(ErrScalar, "Expected boolean value, got %s.", word)
}

// ParseInt parses a signed decimal integer that fits in the given number of
// bits.
func (c *Cursor) ParseInt(bits int) (int64, error) {
	text, err := c.scanNumber(false, true)
	if err != nil {
		return 0, err
	}
	v, err := mem.ParseInt(text, 10, bits)
	if err != nil {
		return 0, c.numError(text, false)
	}
	c.Consume(text.Len())
	return v, nil
}

// ParseUint parses an unsigned decimal integer that fits in the given number
// of bits. A leading "+" is permitted, a leading "-" is not.
func (c *Cursor) ParseUint(bits int) (uint64, error) {
	text, err := c.scanNumber(false, false)
	if err != nil {
		return 0, err
	}
	digits := text
	if digits.At(0) == '+' {
		digits = digits.SliceFrom(1)
	}
	v, err := mem.ParseUint(digits, 10, bits)
	if err != nil {
		return 0, c.numError(text, false)
	}
	c.Consume(text.Len())
	return v, nil
}

// ParseFloat parses a decimal number with an optional sign and fraction, that
// fits in the given number of bits. Exponents are not recognized.
func (c *Cursor) ParseFloat(bits int) (float64, error) {
	text, err := c.scanNumber(true, true)
	if err != nil {
		return 0, err
	}
	v, err := mem.ParseFloat(text, bits)
	if err != nil {
		return 0, c.numError(text, true)
	}
	c.Consume(text.Len())
	return v, nil
}

// scanNumber skips inline whitespace and returns the longest prefix of the
// input made of an optional leading sign, digits, and (if allowDot) at most
// one decimal point. The number is not consumed.
func (c *Cursor) scanNumber(allowDot, allowMinus bool) (mem.RO, error) {
	c.SkipInline()
	rest := c.Rest()
	n, haveDot := 0, !allowDot
	for n < rest.Len() {
		ch := rest.At(n)
		if isDigit(rune(ch)) || (n == 0 && (ch == '+' || (ch == '-' && allowMinus))) {
			n++
		} else if ch == '.' && !haveDot {
			n++
			haveDot = true
		} else {
			break
		}
	}
	if n == 0 {
		return mem.RO{}, c.failf(ErrScalar, "Expected %s, got %s!", numLabel(allowDot), c.snippet(4))
	}
	return rest.SliceTo(n), nil
}

func (c *Cursor) numError(text mem.RO, isFloat bool) error {
	return c.failf(ErrScalar, "Expected %s, got %s!", numLabel(isFloat), text.StringCopy())
}

func numLabel(isFloat bool) string {
	if isFloat {
		return "float"
	}
	return "int"
}

// ParseString parses a string value: after inline whitespace and at most one
// opening quotation mark, the text up to the end of the line or the start of
// a comment, with trailing whitespace removed. If a closing quotation mark
// is found first, the string ends there and the mark is consumed.
// ParseString never fails, but may return an empty string.
func (c *Cursor) ParseString() string {
	c.SkipInline()
	if ch, ok := c.Peek(0); ok && ch == '"' {
		c.Consume(1)
	}
	return c.ReadLine('"')
}

// FormatBool renders a Boolean as it is written in a table.
func FormatBool(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}

// FormatFloat renders a floating-point value of the given bit size in the
// shortest decimal form that parses back to the same value. The result never
// uses an exponent.
func FormatFloat(v float64, bits int) string { return strconv.FormatFloat(v, 'f', -1, bits) }
