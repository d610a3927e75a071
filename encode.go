// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"reflect"
	"strconv"
)

// An encoder renders values into a Builder, as directed by their shapes.
// It visits values in the same order as the decoder, and writes the note
// for each sink before the first item written under that sink.
type encoder struct {
	b    *Builder
	done map[noteRef]bool
}

type noteRef struct {
	com *Comments
	key string
}

func newEncoder(b *Builder) *encoder {
	return &encoder{b: b, done: make(map[noteRef]bool)}
}

// note writes the note for out, if it has one that has not been written.
func (e *encoder) note(out sink) {
	if out.com == nil {
		return
	}
	ref := noteRef{com: out.com, key: out.key}
	if e.done[ref] {
		return
	}
	e.done[ref] = true
	e.b.Note(out.com.Get(out.key))
}

// write writes text as an item attributed to out.
func (e *encoder) write(out sink, text string) {
	e.note(out)
	e.b.Write(text)
}

func (e *encoder) encode(s Shape, v reflect.Value, out sink) error {
	switch t := s.(type) {
	case *Scalar:
		text, err := e.scalar(t, v)
		if err != nil {
			return err
		}
		e.write(out, text)
		return nil

	case *Optional:
		if v.Kind() != reflect.Pointer {
			return schemaErrorf("cannot encode %v from %v", s, v.Type())
		} else if v.IsNil() {
			return nil
		}
		return e.encode(t.Elem, v.Elem(), out)

	case *Wrapper:
		if v.Kind() != reflect.Pointer {
			return schemaErrorf("cannot encode %v from %v", s, v.Type())
		} else if v.IsNil() {
			return e.encode(t.Elem, reflect.New(v.Type().Elem()).Elem(), out)
		}
		return e.encode(t.Elem, v.Elem(), out)

	case *List:
		return e.list(t, v, out)

	case *Tuple:
		return e.tuple(t, v, out)

	case *Record:
		return e.record(t, v, out)

	case *Union:
		return e.union(t, v, out)
	}
	return schemaErrorf("unknown shape type %T", s)
}

func (e *encoder) scalar(s *Scalar, v reflect.Value) (string, error) {
	if !scalarFits(s.Kind, v.Kind()) {
		return "", schemaErrorf("cannot encode %v from %v", s, v.Type())
	}
	switch s.Kind {
	case Bool:
		return FormatBool(v.Bool()), nil
	case Int:
		return strconv.FormatInt(v.Int(), 10), nil
	case Uint:
		return strconv.FormatUint(v.Uint(), 10), nil
	case Float:
		return FormatFloat(v.Float(), v.Type().Bits()), nil
	default:
		// Empty strings in lists are quoted.
		if e.b.InInline() || (v.String() == "" && e.b.InList()) {
			return `"` + v.String() + `"`, nil
		}
		return v.String(), nil
	}
}

func (e *encoder) list(l *List, v reflect.Value, out sink) error {
	if v.Kind() != reflect.Slice {
		return schemaErrorf("cannot encode %v from %v", l, v.Type())
	}
	e.b.PushMode(l.Mode)
	defer e.b.PopMode()

	if l.Mode == Inline {
		e.write(out, "(")
	}
	for i := range v.Len() {
		if l.Mode == Inline {
			e.b.Space()
		} else {
			e.b.Newline()
		}
		if err := e.encode(l.Elem, v.Index(i), elementSink(out, i)); err != nil {
			return err
		}
	}
	if l.Mode == Inline {
		e.b.Space()
		e.b.Write(")")
	}
	return nil
}

func (e *encoder) tuple(t *Tuple, v reflect.Value, out sink) error {
	n, err := tupleLen(t, v)
	if err != nil {
		return err
	}
	e.b.PushMode(Inline)
	defer e.b.PopMode()

	e.write(out, "(")
	e.b.Glue()
	for i := range n {
		if i > 0 {
			e.b.Append(",")
			e.b.Space()
		}
		if err := e.encode(t.Elems[i], tupleElem(v, i), out); err != nil {
			return err
		}
	}
	e.b.Append(")")
	return nil
}

func (e *encoder) record(r *Record, v reflect.Value, out sink) error {
	if v.Kind() != reflect.Struct {
		return schemaErrorf("cannot encode %v from %v", r, v.Type())
	}
	keyFor := func(string) sink { return out }
	if r.Notes != "" {
		fv := v.FieldByName(r.Notes)
		if !fv.IsValid() || fv.Type() != commentsType {
			return schemaErrorf("record %s has no Comments field %q", r.Name, r.Notes)
		}
		com := new(Comments)
		*com = fv.Interface().(Comments)
		keyFor = func(key string) sink { return sink{com: com, key: key} }
	}

	if r.Start != "" {
		e.b.Newline()
		e.write(keyFor(StartKey), r.Start)
	}
	sep := func(*Field, bool) { e.b.Newline() }
	if r.Inline {
		sep = func(_ *Field, first bool) {
			if !first {
				e.b.Append(",")
			}
			e.b.Space()
		}
	} else if e.b.InInline() {
		sep = func(*Field, bool) { e.b.Space() }
	}
	if err := e.fields(r.Fields, v, keyFor, sep); err != nil {
		return err
	}
	if r.End != "" {
		e.b.Newline()
		e.write(keyFor(EndKey), r.End)
	}
	return nil
}

// fields writes the fields fs of struct value v, calling sep before each
// field that is written.
func (e *encoder) fields(fs []*Field, v reflect.Value, keyFor func(string) sink, sep func(f *Field, first bool)) error {
	first := true
	for _, f := range fs {
		if f.Kind == Skipped {
			continue
		}
		fv, err := fieldValue(f, v)
		if err != nil {
			return err
		}
		out := keyFor(f.Name)

		switch f.Kind {
		case Existence:
			if fv.Kind() != reflect.Bool {
				return schemaErrorf("existence field %s is not bool", f.Name)
			} else if !fv.Bool() {
				continue
			}
			sep(f, first)
			e.write(out, f.Token)

		case Named:
			if isOptional(f.Shape) && fv.IsNil() {
				continue
			}
			sep(f, first)
			e.write(out, f.Token)
			e.b.Space()
			if err := e.encode(f.Shape, fv, out); err != nil {
				return err
			}

		case Positional:
			if isOptional(f.Shape) && fv.IsNil() {
				continue
			}
			sep(f, first)
			if err := e.encode(f.Shape, fv, out); err != nil {
				return err
			}
		}
		first = false
		if f.Gobble != "" {
			e.b.Append(f.Gobble)
			e.b.Glue()
		}
	}
	return nil
}

func (e *encoder) union(u *Union, v reflect.Value, out sink) error {
	if v.Kind() != reflect.Interface {
		return schemaErrorf("cannot encode %v from %v", u, v.Type())
	} else if v.IsNil() {
		return schemaErrorf("cannot encode nil %v", u)
	}
	val := v.Elem()
	for _, vt := range u.Variants {
		if val.Type() != vt.Type {
			continue
		}
		elem := val
		if elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				return schemaErrorf("cannot encode nil %v", vt.Type)
			}
			elem = elem.Elem()
		}
		if vt.Default {
			fv, err := fieldValue(vt.Fields[0], elem)
			if err != nil {
				return err
			}
			e.write(out, fv.String())
			return nil
		}
		e.write(out, vt.Token)
		spacing := u.Spacing
		if spacing == "" {
			spacing = " "
		}
		sep := func(f *Field, _ bool) {
			if f.Kind == Positional || e.b.InInline() {
				e.b.Separator(spacing)
			} else {
				e.b.Newline()
			}
		}
		return e.fields(vt.Fields, elem, func(string) sink { return out }, sep)
	}
	return schemaErrorf("type %v is not a variant of %v", val.Type(), u)
}
