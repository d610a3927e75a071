// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"errors"
	"fmt"

	"github.com/creachadair/mds/mstr"
)

// Error classes reported by the parser. Use errors.Is to test the class of
// an error returned by a parse.
var (
	// ErrTokenMismatch indicates that an expected literal token was not found.
	ErrTokenMismatch = errors.New("token mismatch")

	// ErrScalar indicates that a scalar value could not be recognized or
	// converted.
	ErrScalar = errors.New("invalid scalar")

	// ErrNoVariant indicates that no variant of a tagged union matched.
	ErrNoVariant = errors.New("no matching variant")

	// ErrIO indicates a failure to read or write a table file.
	ErrIO = errors.New("table I/O failed")

	// ErrExtraInput indicates that input remained after the root value.
	ErrExtraInput = errors.New("extra input after value")

	// ErrSchema indicates a schema that violates a structural rule.
	ErrSchema = errors.New("invalid schema")
)

// ParseError is the concrete type of errors reported by the parser.
//
// Pending carries the comment and version text that had been consumed but
// not yet attributed to any value when the parse failed.
type ParseError struct {
	Line    int // 1-based; 0 for errors not tied to the input text
	Message string
	Pending Gobble

	err error
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("error at line %d: %s", e.Line, e.Message)
}

// Unwrap supports error wrapping.
func (e *ParseError) Unwrap() error { return e.err }

// fold records g as the pending text of err, if err is a *ParseError that
// does not already carry pending text. It returns err.
func fold(err error, g *Gobble) error {
	var perr *ParseError
	if g != nil && errors.As(err, &perr) && perr.Pending.IsEmpty() {
		perr.Pending = *g
	}
	return err
}

func (c *Cursor) failf(class error, msg string, args ...any) *ParseError {
	return &ParseError{Line: c.line, Message: fmt.Sprintf(msg, args...), err: class}
}

// snippet returns up to n bytes of the unconsumed input for diagnostics.
func (c *Cursor) snippet(n int) string {
	return mstr.Trunc(c.Rest().StringCopy(), n)
}

// schemaErrorf constructs an ErrSchema error.
func schemaErrorf(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(msg, args...))
}
