// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package curves

// Builtins returns the predefined easing curves. Their names combine an
// easing ("EaseIn", "EaseOut", "EaseInOut"), a form ("Circ", "Quad",
// "Cubic", "Quart", "Quint"), and an optional "Rev" for curves that run from
// 1 down to 0, e.g., "EaseInOutQuadRev".
func Builtins() []Curve {
	type form struct {
		name   string
		degree float32 // 0 for circular
	}
	forms := []form{{"Circ", 0}, {"Quad", 2}, {"Cubic", 3}, {"Quart", 4}, {"Quint", 5}}
	segment := func(f form, in bool) Segment {
		if f.degree == 0 {
			return Circular{EaseIn: &in}
		}
		return Polynomial{Degree: f.degree, EaseIn: &in}
	}

	var out []Curve
	for _, ease := range []string{"EaseIn", "EaseOut", "EaseInOut"} {
		for _, rev := range []bool{true, false} {
			for _, f := range forms {
				name := ease + f.name
				y0, y1 := float32(0), float32(1)
				if rev {
					name += "Rev"
					y0, y1 = 1, 0
				}
				in := ease != "EaseOut"

				c := Curve{Name: name}
				c.Keyframes = append(c.Keyframes, Keyframe{Pos: [2]float32{0, y0}, Segment: segment(f, in)})
				if ease == "EaseInOut" {
					c.Keyframes = append(c.Keyframes, Keyframe{Pos: [2]float32{0.5, 0.5}, Segment: segment(f, !in)})
				}
				c.Keyframes = append(c.Keyframes, Keyframe{Pos: [2]float32{1, y1}, Segment: Constant{}})
				out = append(out, c)
			}
		}
	}
	return out
}
