// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"slices"
	"strings"
)

// A Gobble is comment and version text consumed from the input ahead of a
// value. A zero Gobble has no text.
type Gobble struct {
	Comments string // comment text with markers, lines joined by "\n"
	Version  string // version marker, e.g. ";;FSO 3.6.10;;"
}

// IsEmpty reports whether g has neither comment nor version text.
func (g Gobble) IsEmpty() bool { return g.Comments == "" && g.Version == "" }

// merge appends the text of o to g. If both have a version, g keeps its own
// and the version of o is kept as a comment line.
func (g *Gobble) merge(o Gobble) {
	g.addComment(o.Comments)
	if g.Version == "" {
		g.Version = o.Version
	} else {
		g.addComment(o.Version)
	}
}

func (g *Gobble) addComment(text string) {
	if text == "" {
		return
	}
	if g.Comments != "" {
		g.Comments += "\n"
	}
	g.Comments += text
}

// Lines returns the comment text of g with comment markers removed, one
// entry per line. Leading and trailing spaces are trimmed.
func (g Gobble) Lines() []string { return CleanComments(g.Comments) }

// Reserved keys for notes that are not attached to a field.
const (
	StartKey = "<start>" // before the table start token of a record
	EndKey   = "<end>"   // before the table end token of a record
	TailKey  = "<tail>"  // after the root value, at the end of the input
)

// Comments records the comment and version text attached to the fields of a
// record during parsing, so that it can be re-emitted when the record is
// serialized. A record opts in by declaring a field of type Comments.
//
// Notes are keyed by the Go name of the field the text preceded, by
// "Field[i]" for element i of the list in that field, or by one of the
// reserved keys StartKey, EndKey, and TailKey. Records without a Comments
// field attribute their text to the nearest enclosing record that has one.
type Comments struct {
	Notes map[string]Gobble
}

// IsEmpty reports whether c has no notes.
func (c *Comments) IsEmpty() bool { return c == nil || len(c.Notes) == 0 }

// Get returns the note for key, or a zero Gobble.
func (c *Comments) Get(key string) Gobble {
	if c == nil {
		return Gobble{}
	}
	return c.Notes[key]
}

// Add merges g into the note for key. Empty gobbles are ignored.
func (c *Comments) Add(key string, g Gobble) {
	if g.IsEmpty() {
		return
	}
	if c.Notes == nil {
		c.Notes = make(map[string]Gobble)
	}
	cur := c.Notes[key]
	cur.merge(g)
	c.Notes[key] = cur
}

// Keys returns the keys of c in lexicographic order.
func (c *Comments) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Notes))
	for k := range c.Notes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// CleanComments combines and removes comment markers from the given comments,
// returning a slice of plain lines of text. Leading and trailing spaces are
// removed from the lines, and blank lines are dropped.
func CleanComments(coms ...string) []string {
	var out []string
	for _, com := range coms {
		for _, line := range strings.Split(com, "\n") {
			text := strings.TrimSpace(stripMarkers(strings.TrimSpace(line)))
			if text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

func stripMarkers(s string) string {
	switch {
	case strings.HasPrefix(s, "//"):
		return s[2:]
	case strings.HasPrefix(s, ";"):
		return strings.TrimLeft(s, ";")
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "/*"), "!*")
	return strings.TrimSuffix(strings.TrimSuffix(s, "*/"), "*!")
}

// sink is the destination for gobbles attributed during a parse.
type sink struct {
	com *Comments // nil to discard
	key string
}

// at returns a sink for the given key in the same record.
func (s sink) at(key string) sink { return sink{com: s.com, key: key} }
