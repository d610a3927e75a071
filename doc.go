// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package fsotab implements a schema-driven parser and printer for the
// line-oriented "table" text format used to describe game data.
//
// # Tables
//
// A table is a sequence of tokens and values, for example:
//
//	;;FSO 3.6.10;;
//	#Curves
//
//	; A gentle start.
//	$Name: SlowStart
//	$KeyFrames: ( (0, 0):EaseInQuad (0.5, 0.25):Linear (1, 1):Constant )
//
//	#End
//
// Whitespace and commas separate values. Comments begin with ";" or "//" and
// run to the end of the line, or are enclosed in "/* ... */" or "!* ... *!".
// A version marker of the form ";;FSO 3.6.10;;" may appear wherever a comment
// can.
//
// # Shapes
//
// The layout of each value is described by a [Shape]. Shapes are usually
// constructed from Go types by [ShapeOf], guided by struct tags:
//
//	type Curve struct {
//	   Name      string
//	   Keyframes []Keyframe `fso:"$KeyFrames:"`
//	   Notes     fsotab.Comments
//	}
//
// Each exported struct field is a named field introduced by a token derived
// from its name ("$Name:") unless its tag says otherwise. See
// [Registry.ShapeOf] for the tag options.
//
// A choice among alternatives is described by an interface type registered
// as a union, whose variants are struct types:
//
//	type Segment interface{ isSegment() }
//
//	func init() {
//	   fsotab.RegisterUnion[Segment](fsotab.UnionConfig{},
//	      fsotab.Case[Constant](),
//	      fsotab.Case[Linear](),
//	      fsotab.DefaultCase[Subcurve](),
//	   )
//	}
//
// Variants are matched in the order given: the first whose token is a prefix
// of the input wins.
//
// # Parsing
//
// Call [Unmarshal] or [Load] to parse a table into a value:
//
//	var tab curves.Table
//	if err := fsotab.Load("curves.tbl", &tab); err != nil {
//	   log.Fatalf("Load: %v", err)
//	}
//
// A parse either fills in the whole value or reports a single error of
// concrete type *ParseError, giving the line number and the comments that
// were pending at the point of failure. Use errors.Is with the Err* values
// to classify the failure.
//
// # Comments
//
// A struct with a field of type [Comments] records the comments and version
// markers found before each of its fields. [Marshal] and [Save] write them
// back before the corresponding values, so a table can be read, modified,
// and written without losing its commentary.
package fsotab
