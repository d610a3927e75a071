// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package animations defines the table of submodel animations.
//
// An animation table looks like this:
//
//	#Animations
//	$Name: OpenBay
//	$Type: docking-stage-1
//	+Triggered By: bay01
//	$Flags: ( "auto reverse" "seamless with startup" 0.5 )
//	$Set Orientation:
//	+Angle: 0, 90, 0
//	+Time: 2.5
//	#End
package animations

import "github.com/creachadair/fsotab"

// Table is the contents of an animation table file.
type Table struct {
	fsotab.Meta `fso:"start=#Animations,end=#End"`

	Animations []Animation `fso:",positional"`
	Notes      fsotab.Comments
}

// An Animation is a motion of a submodel, started by a trigger.
type Animation struct {
	Name    string
	Trigger Trigger `fso:"$Type:"`
	Flags   []Flag
	Segment Segment `fso:",positional"`
	Notes   fsotab.Comments
}

// HasFlag reports whether a has a flag of the same type as f.
func (a *Animation) HasFlag(f Flag) bool {
	for _, g := range a.Flags {
		if flagName(g) == flagName(f) {
			return true
		}
	}
	return false
}

// Startup returns the startup time of a, if it is seamless with startup.
func (a *Animation) Startup() (float32, bool) {
	for _, f := range a.Flags {
		if s, ok := f.(SeamlessWithStartup); ok {
			return s.StartupTime, true
		}
	}
	return 0, false
}
