// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creachadair/mds/mapset"
)

// A Shape describes the layout of a value in a table. The concrete types are
// *Scalar, *Optional, *List, *Tuple, *Wrapper, *Record, and *Union.
//
// Shapes are immutable once constructed, and may be shared among any number
// of concurrent parses.
type Shape interface {
	// String returns a brief human-readable description of the shape.
	String() string

	isShape()
}

// ScalarKind enumerates the primitive value kinds.
type ScalarKind byte

// Constants defining the valid ScalarKind values.
const (
	Bool ScalarKind = iota + 1
	Int
	Uint
	Float
	String
)

var kindStr = [...]string{
	Bool:   "bool",
	Int:    "int",
	Uint:   "uint",
	Float:  "float",
	String: "string",
}

func (k ScalarKind) String() string {
	if int(k) < len(kindStr) && kindStr[k] != "" {
		return kindStr[k]
	}
	return fmt.Sprintf("ScalarKind(%d)", k)
}

// A Scalar is a primitive value. Bits gives the width of a numeric kind, and
// is ignored for Bool and String.
type Scalar struct {
	Kind ScalarKind
	Bits int
}

// An Optional is a value that may be absent.
type Optional struct{ Elem Shape }

// ListMode selects the layout of a list.
type ListMode byte

const (
	// Multiline lists are written one element per line.
	Multiline ListMode = iota

	// Inline lists are written on one line, enclosed in parentheses.
	Inline
)

// A List is a sequence of zero or more values of the same shape.
type List struct {
	Elem Shape
	Mode ListMode
}

// A Tuple is a parenthesized, fixed-length sequence of values.
type Tuple struct{ Elems []Shape }

// A Wrapper is a value held by reference. It has no effect on the text.
type Wrapper struct{ Elem Shape }

// FieldKind enumerates the ways a field can appear in a record.
type FieldKind byte

// Constants defining the valid FieldKind values.
const (
	Named      FieldKind = iota // introduced by a literal token
	Positional                  // a value with no token
	Existence                   // a bool set by the presence of its token
	Skipped                     // not present in the text
)

var fieldKindStr = [...]string{
	Named:      "named",
	Positional: "positional",
	Existence:  "existence",
	Skipped:    "skipped",
}

func (k FieldKind) String() string {
	if int(k) < len(fieldKindStr) {
		return fieldKindStr[k]
	}
	return fmt.Sprintf("FieldKind(%d)", k)
}

// A Field is a single field of a record or union variant.
type Field struct {
	// Name is the name of the Go struct field holding the value. It is also
	// the key for comments attributed to the field.
	Name  string
	Kind  FieldKind
	Token string // for Named and Existence fields
	Shape Shape

	// If set, Gobble is a literal that must follow the value of the field in
	// the text. It is consumed and discarded.
	Gobble string

	// Default is the text of the value stored in a Skipped field. If empty,
	// a Skipped field is left at its zero value.
	Default string

	index []int // field index in the Go struct, or nil to look up by Name
}

// A Record is a sequence of fields.
type Record struct {
	Name   string
	Fields []*Field

	// If set, Start and End are literal tokens that open and close the
	// record, for example a table header and trailer.
	Start, End string

	// If true, the fields of the record are written on a single line.
	Inline bool

	// Notes, if set, is the name of a field of type Comments in which the
	// comments attributed to the fields of the record are stored.
	Notes string
}

// A Union is a choice among variants, selected by a literal token.
type Union struct {
	Name     string
	Variants []*Variant

	// Spacing is the text written between the fields of a variant. If empty,
	// a single space is used.
	Spacing string
}

// A Variant is one alternative of a union.
type Variant struct {
	Name   string
	Token  string
	Fields []*Field

	// If true, this variant matches any word when no other variant has
	// matched. A default variant must be the last variant of its union, and
	// must have a single String field.
	Default bool

	// Type is the Go type of values of this variant. It must be a struct
	// type, or a pointer to a struct type.
	Type reflect.Type
}

func (*Scalar) isShape()   {}
func (*Optional) isShape() {}
func (*List) isShape()     {}
func (*Tuple) isShape()    {}
func (*Wrapper) isShape()  {}
func (*Record) isShape()   {}
func (*Union) isShape()    {}

func (s *Scalar) String() string {
	if s.Kind == Bool || s.Kind == String || s.Bits == 0 {
		return s.Kind.String()
	}
	return fmt.Sprintf("%v%d", s.Kind, s.Bits)
}

func (o *Optional) String() string { return "optional " + shapeStr(o.Elem) }
func (w *Wrapper) String() string  { return "ref " + shapeStr(w.Elem) }

func (l *List) String() string {
	if l.Mode == Inline {
		return "inline list of " + shapeStr(l.Elem)
	}
	return "list of " + shapeStr(l.Elem)
}

func (t *Tuple) String() string {
	elts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		elts[i] = shapeStr(e)
	}
	return "(" + strings.Join(elts, ", ") + ")"
}

func (r *Record) String() string {
	if r.Name != "" {
		return "record " + r.Name
	}
	return fmt.Sprintf("record of %d fields", len(r.Fields))
}

func (u *Union) String() string {
	if u.Name != "" {
		return "union " + u.Name
	}
	return fmt.Sprintf("union of %d variants", len(u.Variants))
}

func shapeStr(s Shape) string {
	if s == nil {
		return "<nil>"
	}
	return s.String()
}

// isOptional reports whether s is an *Optional.
func isOptional(s Shape) bool {
	_, ok := s.(*Optional)
	return ok
}

// isMultiline reports whether s is a multiline list, possibly behind a
// reference.
func isMultiline(s Shape) bool {
	if w, ok := s.(*Wrapper); ok {
		s = w.Elem
	}
	l, ok := s.(*List)
	return ok && l.Mode == Multiline
}

// isKind reports whether s is a *Scalar of kind k.
func isKind(s Shape, k ScalarKind) bool {
	sc, ok := s.(*Scalar)
	return ok && sc.Kind == k
}

// Validate reports whether s and the shapes it contains satisfy the
// structural rules for shapes. If not, the error reports every violation,
// and errors.Is(err, ErrSchema) is true.
func Validate(s Shape) error {
	v := validator{seen: mapset.New[Shape]()}
	v.shape("", s)
	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrSchema, errors.Join(v.errs...))
}

type validator struct {
	seen mapset.Set[Shape]
	errs []error
}

func (v *validator) failf(path, msg string, args ...any) {
	if path != "" {
		msg = path + ": " + msg
	}
	v.errs = append(v.errs, fmt.Errorf(msg, args...))
}

func (v *validator) shape(path string, s Shape) {
	if s == nil {
		v.failf(path, "missing shape")
		return
	}
	switch t := s.(type) {
	case *Scalar:
		v.scalar(path, t)
	case *Optional:
		switch t.Elem.(type) {
		case *Optional:
			v.failf(path, "optional may not contain an optional")
		case *Wrapper:
			v.failf(path, "optional may not contain a reference")
		}
		v.shape(path, t.Elem)
	case *Wrapper:
		if isOptional(t.Elem) {
			v.failf(path, "reference may not contain an optional")
		}
		v.shape(path, t.Elem)
	case *List:
		if isOptional(t.Elem) {
			v.failf(path, "list may not contain an optional; use a record with a positional optional field")
		}
		if t.Mode != Inline && t.Mode != Multiline {
			v.failf(path, "invalid list mode %d", t.Mode)
		}
		if isMultiline(t.Elem) {
			v.failf(path, "list may not contain a multiline list")
		}
		v.shape(path+"[]", t.Elem)
	case *Tuple:
		if len(t.Elems) == 0 {
			v.failf(path, "empty tuple")
		}
		for i, e := range t.Elems {
			if isOptional(e) {
				v.failf(path, "tuple element %d may not be optional", i)
			} else if isMultiline(e) {
				v.failf(path, "tuple element %d may not be a multiline list", i)
			}
			v.shape(fmt.Sprintf("%s[%d]", path, i), e)
		}
	case *Record:
		if v.seen.Has(s) {
			return // recursive reference
		}
		v.seen.Add(s)
		v.fields(pathJoin(path, t.Name), t.Fields)
	case *Union:
		if v.seen.Has(s) {
			return
		}
		v.seen.Add(s)
		v.union(pathJoin(path, t.Name), t)
	default:
		v.failf(path, "unknown shape type %T", s)
	}
}

func (v *validator) scalar(path string, s *Scalar) {
	switch s.Kind {
	case Bool, String:
	case Int, Uint:
		switch s.Bits {
		case 8, 16, 32, 64:
		default:
			v.failf(path, "invalid %v width %d", s.Kind, s.Bits)
		}
	case Float:
		if s.Bits != 32 && s.Bits != 64 {
			v.failf(path, "invalid float width %d", s.Bits)
		}
	default:
		v.failf(path, "invalid scalar kind %v", s.Kind)
	}
}

func (v *validator) fields(path string, fs []*Field) {
	names := mapset.New[string]()
	for _, f := range fs {
		fp := pathJoin(path, f.Name)
		if f.Name == "" {
			v.failf(fp, "field has no name")
		} else if names.Has(f.Name) {
			v.failf(fp, "duplicate field name")
		}
		names.Add(f.Name)

		switch f.Kind {
		case Named:
			if f.Token == "" {
				v.failf(fp, "named field has no token")
			}
		case Existence:
			if f.Token == "" {
				v.failf(fp, "existence field has no token")
			}
			if !isKind(f.Shape, Bool) {
				v.failf(fp, "existence field must be bool, not %s", shapeStr(f.Shape))
			}
			continue
		case Positional:
		case Skipped:
			if f.Shape == nil {
				continue
			}
		default:
			v.failf(fp, "invalid field kind %v", f.Kind)
		}
		v.shape(fp, f.Shape)
	}
}

func (v *validator) union(path string, u *Union) {
	if len(u.Variants) == 0 {
		v.failf(path, "union has no variants")
	}
	toks := mapset.New[string]()
	for i, vt := range u.Variants {
		vp := pathJoin(path, vt.Name)
		if vt.Type == nil {
			v.failf(vp, "variant has no type")
		}
		if vt.Default {
			if i != len(u.Variants)-1 {
				v.failf(vp, "only the last variant of a union may be the default")
			}
			if len(vt.Fields) != 1 || !isKind(vt.Fields[0].Shape, String) {
				v.failf(vp, "a default variant must have exactly one field of type string")
			}
		} else if vt.Token == "" {
			v.failf(vp, "variant has no token")
		} else if toks.Has(vt.Token) {
			v.failf(vp, "duplicate variant token %q", vt.Token)
		}
		toks.Add(vt.Token)
		v.fields(vp, vt.Fields)
	}
}

func pathJoin(base, name string) string {
	if base == "" {
		return name
	} else if name == "" {
		return base
	}
	return base + "." + name
}
