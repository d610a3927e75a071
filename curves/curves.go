// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package curves defines the curve table and evaluates the curves it
// describes.
//
// A curve is a piecewise function given by a sequence of keyframes. Each
// keyframe has a position and a segment type, which describes how the curve
// proceeds from that keyframe to the next:
//
//	#Curves
//	$Name: Bounce
//	$KeyFrames: ( (0, 0):EaseOutQuad (0.5, 1):EaseInQuad (1, 0):Constant )
//	#End
//
// A segment that names another curve follows the shape of that curve,
// scaled to fit between the keyframes.
package curves

import (
	"github.com/creachadair/fsotab"
)

// Table is the contents of a curve table file.
type Table struct {
	fsotab.Meta `fso:"start=#Curves,end=#End"`

	Curves []Curve `fso:",positional"`
	Notes  fsotab.Comments
}

// A Curve is a named piecewise function.
type Curve struct {
	Name      string
	Keyframes []Keyframe `fso:"$KeyFrames:"`
	Notes     fsotab.Comments
}

// A Keyframe is a point on a curve, written (x, y):segment.
type Keyframe struct {
	Pos     [2]float32 `fso:",positional,gobble=:"`
	Segment Segment    `fso:",positional"`
}

// X returns the x coordinate of k.
func (k Keyframe) X() float32 { return k.Pos[0] }

// Y returns the y coordinate of k.
func (k Keyframe) Y() float32 { return k.Pos[1] }

// A Segment describes the interpolation between adjacent keyframes.
type Segment interface {
	// Delta maps the fraction t ∈ [0, 1] of the distance between two
	// keyframes to the fraction of the change in y.
	Delta(t float32, lib *Library) float32
}

// Constant holds the value of the keyframe until the next keyframe.
type Constant struct{}

// Linear interpolates linearly between keyframes.
type Linear struct{}

// Polynomial interpolates along t^Degree. If EaseIn is false the curve is
// reflected, so that it starts fast and ends slow. EaseIn defaults to true.
type Polynomial struct {
	Degree float32
	EaseIn *bool
}

// Circular interpolates along a quarter circle.
type Circular struct {
	EaseIn *bool
}

// Subcurve interpolates along the named curve.
type Subcurve struct {
	Curve string
}

func init() {
	fsotab.RegisterUnion[Segment](fsotab.UnionConfig{},
		fsotab.Case[Constant](),
		fsotab.Case[Linear](),
		fsotab.Case[Polynomial](),
		fsotab.Case[Circular](),
		fsotab.DefaultCase[Subcurve](),
	)
}

// Default returns the curve used when none is specified, the identity from
// (0, 0) to (1, 1).
func Default() Curve {
	return Curve{Keyframes: []Keyframe{
		{Pos: [2]float32{0, 0}, Segment: Linear{}},
		{Pos: [2]float32{1, 1}, Segment: Constant{}},
	}}
}
