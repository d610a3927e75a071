// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import "fmt"

// A Checkpoint records a position in the input of a Cursor, so that the
// cursor can be returned there after a failed probe.
type Checkpoint struct {
	Pos  int // byte offset, 0-based
	Line int // line number, 1-based
}

func (c Checkpoint) String() string { return fmt.Sprintf("line %d (offset %d)", c.Line, c.Pos) }
