// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package curves

import (
	"math"
	"strings"
)

// Calculate returns the value of c at x. Outside the span of its keyframes
// the curve holds the value of the nearest keyframe. Subcurve segments are
// resolved in lib, and a subcurve that is not found contributes nothing.
// A curve with no keyframes is zero everywhere.
func (c *Curve) Calculate(x float32, lib *Library) float32 {
	kf := c.Keyframes
	switch {
	case len(kf) == 0:
		return 0
	case x < kf[0].X():
		return kf[0].Y()
	case x >= kf[len(kf)-1].X():
		return kf[len(kf)-1].Y()
	}
	for i, next := range kf[1:] {
		if x < next.X() {
			return kf[i].interpolate(x, next, lib)
		}
	}
	panic("keyframe not found") // unreachable
}

func (k Keyframe) interpolate(x float32, next Keyframe, lib *Library) float32 {
	t := (x - k.X()) / (next.X() - k.X())
	var d float32
	if k.Segment != nil {
		d = k.Segment.Delta(t, lib)
	}
	return d*(next.Y()-k.Y()) + k.Y()
}

// A Range is a closed interval.
type Range struct {
	Min, Max float32
}

// Bounds reports the span of c on each axis: from the first keyframe to the
// last in x, and from the lowest keyframe to the highest in y.
func (c *Curve) Bounds() (x, y Range) {
	if len(c.Keyframes) == 0 {
		return
	}
	first, last := c.Keyframes[0], c.Keyframes[len(c.Keyframes)-1]
	x = Range{Min: first.X(), Max: last.X()}
	y = Range{Min: float32(math.Inf(1)), Max: float32(math.Inf(-1))}
	for _, k := range c.Keyframes {
		y.Min = min(y.Min, k.Y())
		y.Max = max(y.Max, k.Y())
	}
	return x, y
}

// Delta implements part of the Segment interface.
func (Constant) Delta(float32, *Library) float32 { return 0 }

// Delta implements part of the Segment interface.
func (Linear) Delta(t float32, _ *Library) float32 { return t }

// Delta implements part of the Segment interface.
func (p Polynomial) Delta(t float32, _ *Library) float32 {
	deg := float64(p.Degree)
	if easeIn(p.EaseIn) {
		return float32(math.Pow(float64(t), deg))
	}
	return 1 - float32(math.Pow(float64(1-t), deg))
}

// Delta implements part of the Segment interface.
func (c Circular) Delta(t float32, _ *Library) float32 {
	if easeIn(c.EaseIn) {
		return 1 - float32(math.Sqrt(float64(1-t*t)))
	}
	return float32(math.Sqrt(float64(1 - (1-t)*(1-t))))
}

// Delta implements part of the Segment interface.
func (s Subcurve) Delta(t float32, lib *Library) float32 {
	if c := lib.Lookup(s.Curve); c != nil {
		return c.Calculate(t, lib)
	}
	return 0
}

func easeIn(b *bool) bool { return b == nil || *b }

// A Library is a collection of curves that may be referred to by name.
// A nil *Library is empty.
type Library struct {
	curves []*Curve
}

// NewLibrary constructs a library of the given sets of curves. If more than
// one curve has the same name, the first one given is used.
func NewLibrary(sets ...[]Curve) *Library {
	lib := new(Library)
	for _, set := range sets {
		for i := range set {
			lib.curves = append(lib.curves, &set[i])
		}
	}
	return lib
}

// Lookup returns the curve with the given name, ignoring case, or nil.
func (l *Library) Lookup(name string) *Curve {
	if l == nil {
		return nil
	}
	for _, c := range l.curves {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}
