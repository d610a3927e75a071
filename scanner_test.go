// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab_test

import (
	"errors"
	"testing"

	"github.com/creachadair/fsotab"
	"github.com/google/go-cmp/cmp"
)

func TestSkipSpace(t *testing.T) {
	tests := []struct {
		input     string
		stop      bool
		comments  string
		version   string
		rest      string
		lineAfter int
	}{
		// Empty inputs
		{"", false, "", "", "", 1},
		{"  \t, ,", false, "", "", "", 1},
		{"\n\n  \n", false, "", "", "", 4},

		// Line comments
		{"; hello\n$Name:", false, "; hello", "", "$Name:", 2},
		{"  ; hello\n  ; world\n$Name:", false, "; hello\n; world", "", "$Name:", 3},
		{"// a\n\n\n// b\nx", false, "// a\n\n// b", "", "x", 5},
		{"; a\r\nx", false, "; a", "", "x", 2},

		// Block comments
		{"/* a */ /* b */x", false, "/* a */ /* b */", "", "x", 1},
		{"!* bang\nbang *!x", false, "!* bang\nbang *!", "", "x", 2},
		{"/* a */\n; b\nx", false, "/* a */\n; b", "", "x", 3},

		// Version markers stop the scan.
		{";;FSO 3.6.10;; ; after\nx", false, "", ";;FSO 3.6.10;;", " ; after\nx", 1},
		{"; c\n;;FSO 21.4;;x", false, "; c", ";;FSO 21.4;;", "x", 2},
		{";;FSO 3;; not a version\nx", false, ";;FSO 3;; not a version", "", "x", 2},

		// Stopping at line breaks.
		{"  \n; c\nx", true, "", "", "\n; c\nx", 1},
		{"; c\n  x", true, "; c", "", "x", 2},
		{"/* a */  \n x", true, "/* a */", "", "\n x", 1},
	}
	for _, tc := range tests {
		c := fsotab.NewCursorString(tc.input)
		com, ver := c.SkipSpace(tc.stop)
		if com != tc.comments || ver != tc.version {
			t.Errorf("SkipSpace(%q, %v): got (%q, %q), want (%q, %q)",
				tc.input, tc.stop, com, ver, tc.comments, tc.version)
		}
		if got := c.Text(); got != tc.rest {
			t.Errorf("SkipSpace(%q): rest is %q, want %q", tc.input, got, tc.rest)
		}
		if got := c.Line(); got != tc.lineAfter {
			t.Errorf("SkipSpace(%q): line is %d, want %d", tc.input, got, tc.lineAfter)
		}
	}
}

func TestSkipSpaceIdempotent(t *testing.T) {
	for _, input := range []string{
		"; a\n  ; b\n$X: 1",
		"  /* c */ $X:",
		"\n\n\n$X:",
	} {
		c := fsotab.NewCursorString(input)
		c.SkipSpace(false)
		mark := c.Mark()
		if com, ver := c.SkipSpace(false); com != "" || ver != "" {
			t.Errorf("Second SkipSpace(%q): got (%q, %q), want empty", input, com, ver)
		}
		if c.Mark() != mark {
			t.Errorf("Second SkipSpace(%q) moved from %v to %v", input, mark, c.Mark())
		}
	}
}

func TestReadWord(t *testing.T) {
	tests := []struct {
		input, want, rest string
	}{
		{"", "", ""},
		{"abc", "abc", ""},
		{"abc def", "abc", " def"},
		{"abc,def", "abc", ",def"},
		{"abc)", "abc", ")"},
		{"a\tb", "a", "\tb"},
		{" lead", "", " lead"},
	}
	for _, tc := range tests {
		c := fsotab.NewCursorString(tc.input)
		if got := c.ReadWord(); got != tc.want {
			t.Errorf("ReadWord(%q): got %q, want %q", tc.input, got, tc.want)
		}
		if got := c.Text(); got != tc.rest {
			t.Errorf("ReadWord(%q): rest is %q, want %q", tc.input, got, tc.rest)
		}
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input, want, rest string
	}{
		{"", "", ""},
		{"  hello world  ; c", "hello world", "  ; c"},
		{"hello\nworld", "hello", "\nworld"},
		{`"quoted" tail`, "quoted", " tail"},
		{`"unterminated`, "unterminated", ""},
		{"  \n", "", "\n"},
		{"a // b", "a // b", ""},
	}
	for _, tc := range tests {
		c := fsotab.NewCursorString(tc.input)
		if got := c.ParseString(); got != tc.want {
			t.Errorf("ParseString(%q): got %q, want %q", tc.input, got, tc.want)
		}
		if got := c.Text(); got != tc.rest {
			t.Errorf("ParseString(%q): rest is %q, want %q", tc.input, got, tc.rest)
		}
	}
}

func TestReadUntil(t *testing.T) {
	c := fsotab.NewCursorString("alpha*/beta")
	if got := c.ReadUntil("*/", false); got != "alpha" {
		t.Errorf("ReadUntil: got %q, want alpha", got)
	}
	if got := c.ReadUntil("*/", true); got != "" {
		t.Errorf("ReadUntil: got %q, want empty", got)
	}
	if got := c.ReadUntil("*/", true); got != "beta" {
		t.Errorf("ReadUntil: got %q, want beta", got)
	}
	if !c.AtEOF() {
		t.Errorf("ReadUntil: rest is %q, want empty", c.Text())
	}
}

func TestExpect(t *testing.T) {
	c := fsotab.NewCursorString("$Foo: 1")
	if err := c.Expect("$Foo:"); err != nil {
		t.Errorf("Expect: unexpected error: %v", err)
	}
	if got := c.Text(); got != " 1" {
		t.Errorf("Expect: rest is %q, want %q", got, " 1")
	}

	c = fsotab.NewCursorString("\n$Foo: 1")
	c.SkipSpace(false)
	err := c.Expect("$Bar:")
	if !errors.Is(err, fsotab.ErrTokenMismatch) {
		t.Fatalf("Expect: got %v, want %v", err, fsotab.ErrTokenMismatch)
	}
	var pe *fsotab.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expect: got %T, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("Expect error: line %d, want 2", pe.Line)
	}
	if diff := cmp.Diff(`Expected "$Bar:", got $Foo:`, pe.Message); diff != "" {
		t.Errorf("Expect error message (-want, +got):\n%s", diff)
	}
	if got := c.Text(); got != "$Foo: 1" {
		t.Errorf("Expect consumed input: rest is %q", got)
	}
}

func TestCursor(t *testing.T) {
	c := fsotab.NewCursor([]byte("a\nbc\n\nd"))
	if c.Line() != 1 || c.Len() != 7 {
		t.Fatalf("New cursor: line %d, len %d", c.Line(), c.Len())
	}
	start := c.Mark()
	if got := c.Take(4); got != "a\nbc" {
		t.Errorf("Take(4): got %q", got)
	}
	c.Consume(2)
	if c.Line() != 4 {
		t.Errorf("Line: got %d, want 4", c.Line())
	}
	if !c.Advanced(start) {
		t.Error("Advanced: got false, want true")
	}
	if b, ok := c.Peek(0); !ok || b != 'd' {
		t.Errorf("Peek(0): got %q, %v", b, ok)
	}
	if _, ok := c.Peek(1); ok {
		t.Error("Peek(1): got ok past the end")
	}
	c.Reset(start)
	if c.Line() != 1 || c.Text() != "a\nbc\n\nd" {
		t.Errorf("Reset: line %d, rest %q", c.Line(), c.Text())
	}
	if c.Advanced(start) {
		t.Error("Advanced after reset: got true, want false")
	}
}
