// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package animations

import (
	"reflect"

	"github.com/creachadair/fsotab"
	"github.com/creachadair/fsotab/geom"
)

// A Flag modifies the behavior of an animation. Flags are written as quoted
// words, e.g., "auto reverse".
type Flag interface{ isFlag() }

type (
	AutoReverse         struct{}
	ResetAtCompletion   struct{}
	Looping             struct{}
	RandomStartingPhase struct{}
	PauseOnReverse      struct{}

	// SeamlessWithStartup starts the animation part of the way through, as
	// if it had already been running for StartupTime seconds.
	SeamlessWithStartup struct {
		StartupTime float32
	}
)

func (AutoReverse) isFlag()         {}
func (ResetAtCompletion) isFlag()   {}
func (Looping) isFlag()             {}
func (RandomStartingPhase) isFlag() {}
func (PauseOnReverse) isFlag()      {}
func (SeamlessWithStartup) isFlag() {}

func flagName(f Flag) string { return reflect.TypeOf(f).Name() }

// A Segment is a motion performed by an animation. Segment tokens are
// framed as fields, e.g., "$Set Orientation:".
type Segment interface{ isSegment() }

// SetOrientation rotates the submodel to Angle over Time seconds.
type SetOrientation struct {
	Angle *geom.Angles `fso:"+Angle:,named"`
	Time  *float32     `fso:"+Time:,named"`
}

func (SetOrientation) isSegment() {}

func init() {
	fsotab.RegisterUnion[Flag](fsotab.UnionConfig{Flagset: true},
		fsotab.Case[AutoReverse](),
		fsotab.Case[ResetAtCompletion](),
		fsotab.Case[Looping](fsotab.Token("loop")),
		fsotab.Case[RandomStartingPhase](),
		fsotab.Case[PauseOnReverse](),
		fsotab.Case[SeamlessWithStartup](),
	)
	fsotab.RegisterUnion[Segment](fsotab.UnionConfig{Prefix: "$", Suffix: ":"},
		fsotab.Case[SetOrientation](),
	)
}
