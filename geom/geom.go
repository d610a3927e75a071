// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package geom defines vector and orientation values that appear inline in
// tables, e.g., "1.0, 0.0, -2.5".
package geom

import (
	"math"

	"github.com/creachadair/fsotab"
)

// Vec3D is a point or direction in three dimensions.
type Vec3D struct {
	fsotab.Meta `fso:"inline"`

	X, Y, Z float32
}

// Add returns the vector sum of v and w.
func (v Vec3D) Add(w Vec3D) Vec3D { return Vec3D{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z} }

// Scale returns v with each component multiplied by k.
func (v Vec3D) Scale(k float32) Vec3D { return Vec3D{X: v.X * k, Y: v.Y * k, Z: v.Z * k} }

// Len returns the Euclidean length of v.
func (v Vec3D) Len() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Angles is an orientation given as rotations in degrees.
type Angles struct {
	fsotab.Meta `fso:"inline"`

	Pitch, Heading, Bank float32
}

// Radians returns the rotations of a converted to radians, in the order
// pitch, heading, bank.
func (a Angles) Radians() (pitch, heading, bank float64) {
	const k = math.Pi / 180
	return float64(a.Pitch) * k, float64(a.Heading) * k, float64(a.Bank) * k
}
