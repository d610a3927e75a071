// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/creachadair/mds/stack"
)

// A decoder parses values from the text of a cursor, as directed by their
// shapes.
//
// Each decode step takes the text that was scanned at the current position
// but not yet attributed to a value (the hang, nil if none), and returns the
// hang at its end. Text is attributed to the sink of the first value that
// consumes input after it.
type decoder struct {
	c     *Cursor
	modes *stack.Stack[ListMode] // enclosing list contexts
	log   []undo                 // attributions, for rollback
}

func newDecoder(c *Cursor) *decoder {
	return &decoder{c: c, modes: stack.New[ListMode]()}
}

// An undo records the state of a note before an attribution changed it.
type undo struct {
	com *Comments
	key string
	old Gobble
	had bool
}

// attr attributes g to out.
func (d *decoder) attr(out sink, g *Gobble) {
	if out.com == nil || g == nil || g.IsEmpty() {
		return
	}
	old, had := out.com.Notes[out.key]
	d.log = append(d.log, undo{com: out.com, key: out.key, old: old, had: had})
	out.com.Add(out.key, *g)
}

// A mark records the position of the cursor and the attributions made.
type mark struct {
	cp Checkpoint
	n  int
}

func (d *decoder) mark() mark { return mark{cp: d.c.Mark(), n: len(d.log)} }

// reset restores the cursor to m and reverts the attributions made since.
func (d *decoder) reset(m mark) {
	d.c.Reset(m.cp)
	for i := len(d.log) - 1; i >= m.n; i-- {
		u := d.log[i]
		if u.had {
			u.com.Notes[u.key] = u.old
		} else {
			delete(u.com.Notes, u.key)
		}
	}
	d.log = d.log[:m.n]
}

func (d *decoder) inInline() bool {
	m, ok := d.modes.Peek(0)
	return ok && m == Inline
}

// gobble scans comments, whitespace, and version markers at the current
// position, and merges them into hang. It returns nil if there is nothing
// pending.
func (d *decoder) gobble(hang *Gobble, stopOnNewline bool) *Gobble {
	var g Gobble
	if hang != nil {
		g = *hang
	}
	for {
		com, ver := d.c.SkipSpace(stopOnNewline)
		g.merge(Gobble{Comments: com, Version: ver})
		if ver == "" {
			break
		}
	}
	if g.IsEmpty() {
		return nil
	}
	return &g
}

// decode parses a value of shape s into v.
func (d *decoder) decode(s Shape, v reflect.Value, hang *Gobble, out sink) (*Gobble, error) {
	switch t := s.(type) {
	case *Scalar:
		if err := d.scalar(t, v); err != nil {
			return nil, fold(err, hang)
		}
		d.attr(out, hang)
		return nil, nil

	case *Optional:
		if v.Kind() != reflect.Pointer {
			return nil, schemaErrorf("cannot decode %v into %v", s, v.Type())
		}
		return d.probe(t, v, hang, out), nil

	case *Wrapper:
		if v.Kind() != reflect.Pointer {
			return nil, schemaErrorf("cannot decode %v into %v", s, v.Type())
		}
		p := reflect.New(v.Type().Elem())
		next, err := d.decode(t.Elem, p.Elem(), hang, out)
		if err != nil {
			return nil, err
		}
		v.Set(p)
		return next, nil

	case *List:
		return d.list(t, v, hang, out)

	case *Tuple:
		return d.tuple(t, v, hang, out)

	case *Record:
		return d.record(t, v, hang, out)

	case *Union:
		return d.union(t, v, hang, out)
	}
	return nil, schemaErrorf("unknown shape type %T", s)
}

// probe attempts to parse a value of the element shape of o into v, which
// must be a pointer. If the attempt fails, the cursor and any attributed
// text are restored, and v is set to nil.
func (d *decoder) probe(o *Optional, v reflect.Value, hang *Gobble, out sink) *Gobble {
	m := d.mark()
	p := reflect.New(v.Type().Elem())
	next, err := d.decode(o.Elem, p.Elem(), hang, out)
	if err != nil {
		d.reset(m)
		v.SetZero()
		return hang
	}
	v.Set(p)
	return next
}

func (d *decoder) scalar(s *Scalar, v reflect.Value) error {
	if !scalarFits(s.Kind, v.Kind()) {
		return schemaErrorf("cannot decode %v into %v", s, v.Type())
	}
	switch s.Kind {
	case Bool:
		b, err := d.c.ParseBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
	case Int:
		n, err := d.c.ParseInt(bitsOf(s, v))
		if err != nil {
			return err
		}
		v.SetInt(n)
	case Uint:
		n, err := d.c.ParseUint(bitsOf(s, v))
		if err != nil {
			return err
		}
		v.SetUint(n)
	case Float:
		f, err := d.c.ParseFloat(bitsOf(s, v))
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case String:
		if !d.inInline() {
			v.SetString(d.c.ParseString())
			break
		}
		// Within parentheses a string is quoted, or a single word.
		d.c.SkipInline()
		if d.c.HasPrefix(`"`) {
			v.SetString(d.c.ParseString())
			break
		}
		w := d.c.ReadWord()
		if w == "" {
			return d.c.failf(ErrScalar, "Expected string, got %s!", d.c.snippet(4))
		}
		v.SetString(w)
	}
	return nil
}

// bitsOf returns the narrower of the declared width of s and the width of
// the Go value v.
func bitsOf(s *Scalar, v reflect.Value) int {
	if bits := v.Type().Bits(); s.Bits == 0 || bits < s.Bits {
		return bits
	}
	return s.Bits
}

func scalarFits(k ScalarKind, vk reflect.Kind) bool {
	switch k {
	case Bool:
		return vk == reflect.Bool
	case Int:
		return vk >= reflect.Int && vk <= reflect.Int64
	case Uint:
		return vk >= reflect.Uint && vk <= reflect.Uint64
	case Float:
		return vk == reflect.Float32 || vk == reflect.Float64
	case String:
		return vk == reflect.String
	}
	return false
}

func (d *decoder) record(r *Record, v reflect.Value, hang *Gobble, out sink) (*Gobble, error) {
	if v.Kind() != reflect.Struct {
		return nil, schemaErrorf("cannot decode %v into %v", r, v.Type())
	}
	keyFor := func(string) sink { return out }
	if r.Notes != "" {
		com, err := notesOf(r, v)
		if err != nil {
			return nil, err
		}
		*com = Comments{}
		keyFor = func(key string) sink { return sink{com: com, key: key} }
	}

	if r.Start != "" {
		hang = d.gobble(hang, false)
		if err := d.c.Expect(r.Start); err != nil {
			return nil, fold(err, hang)
		}
		d.attr(keyFor(StartKey), hang)
		hang = nil
	}
	hang, err := d.fields(r.Fields, v, hang, keyFor, r.Inline)
	if err != nil {
		return nil, err
	}
	if r.End != "" {
		hang = d.gobble(hang, false)
		if err := d.c.Expect(r.End); err != nil {
			return nil, fold(err, hang)
		}
		d.attr(keyFor(EndKey), hang)
		hang = nil
	}
	return hang, nil
}

// notesOf returns the address of the Comments field of record value v.
func notesOf(r *Record, v reflect.Value) (*Comments, error) {
	fv := v.FieldByName(r.Notes)
	if !fv.IsValid() || fv.Type() != commentsType || !fv.CanAddr() {
		return nil, schemaErrorf("record %s has no addressable Comments field %q", r.Name, r.Notes)
	}
	return fv.Addr().Interface().(*Comments), nil
}

// fieldValue returns the value of field f in struct value v.
func fieldValue(f *Field, v reflect.Value) (reflect.Value, error) {
	var fv reflect.Value
	if f.index != nil {
		fv = v.FieldByIndex(f.index)
	} else {
		fv = v.FieldByName(f.Name)
	}
	if !fv.IsValid() {
		return fv, schemaErrorf("type %v has no field %q", v.Type(), f.Name)
	}
	return fv, nil
}

// fields parses the fields fs into struct value v. The comments preceding
// each field are scanned once per run of fields that do not consume input.
// If inline is true, scanning for a positional field stops at the end of the
// line.
func (d *decoder) fields(fs []*Field, v reflect.Value, hang *Gobble, keyFor func(string) sink, inline bool) (*Gobble, error) {
	const (
		toLine = 1 // scanned to the end of the line
		toNext = 2 // scanned to the next token
	)
	scanned := 0
	for _, f := range fs {
		fv, err := fieldValue(f, v)
		if err != nil {
			return nil, err
		}
		if f.Kind == Skipped {
			if err := d.setDefault(f, fv); err != nil {
				return nil, err
			}
			continue
		}
		need := toNext
		if inline && f.Kind == Positional {
			need = toLine
		}
		if scanned < need {
			hang = d.gobble(hang, need == toLine)
			scanned = need
		}
		out := keyFor(f.Name)
		start := d.c.Mark()

		switch f.Kind {
		case Existence:
			present := d.c.HasPrefix(f.Token)
			if present {
				d.c.Consume(len(f.Token))
				d.attr(out, hang)
				hang = nil
			}
			fv.SetBool(present)

		case Named:
			opt, isOpt := f.Shape.(*Optional)
			if isOpt && !d.c.HasPrefix(f.Token) {
				fv.SetZero()
				continue
			}
			if err := d.c.Expect(f.Token); err != nil {
				return nil, fold(err, hang)
			}
			d.attr(out, hang)
			if isOpt {
				p := reflect.New(fv.Type().Elem())
				hang, err = d.decode(opt.Elem, p.Elem(), nil, out)
				if err == nil {
					fv.Set(p)
				}
			} else {
				hang, err = d.decode(f.Shape, fv, nil, out)
			}
			if err != nil {
				return nil, err
			}

		case Positional:
			hang, err = d.decode(f.Shape, fv, hang, out)
			if err != nil {
				return nil, err
			}
		}

		if !d.c.Advanced(start) {
			continue // field absent; the scanned text is still pending
		}
		if f.Gobble != "" {
			d.c.SkipInline()
			if err := d.c.Expect(f.Gobble); err != nil {
				return nil, fold(err, hang)
			}
		}
		scanned = 0
	}
	return hang, nil
}

// setDefault stores the default value of skipped field f into fv.
func (d *decoder) setDefault(f *Field, fv reflect.Value) error {
	if f.Default == "" || f.Shape == nil {
		fv.SetZero()
		return nil
	}
	sub := newDecoder(NewCursorString(f.Default))
	if _, err := sub.decode(f.Shape, fv, nil, sink{}); err != nil {
		return schemaErrorf("invalid default %q for field %s: %v", f.Default, f.Name, err)
	}
	return nil
}

func (d *decoder) union(u *Union, v reflect.Value, hang *Gobble, out sink) (*Gobble, error) {
	if v.Kind() != reflect.Interface {
		return nil, schemaErrorf("cannot decode %v into %v", u, v.Type())
	}
	d.c.SkipInline()
	for _, vt := range u.Variants {
		if vt.Default {
			val, elem := newVariant(vt)
			fv, err := fieldValue(vt.Fields[0], elem)
			if err != nil {
				return nil, err
			}
			fv.SetString(d.c.ReadWord())
			d.attr(out, hang)
			v.Set(val)
			return nil, nil
		}
		if !d.c.HasPrefix(vt.Token) {
			continue
		}
		d.c.Consume(len(vt.Token))
		d.attr(out, hang)
		val, elem := newVariant(vt)
		next, err := d.fields(vt.Fields, elem, nil, func(string) sink { return out }, true)
		if err != nil {
			return nil, err
		}
		v.Set(val)
		return next, nil
	}
	toks := make([]string, len(u.Variants))
	for i, vt := range u.Variants {
		toks[i] = vt.Token
	}
	err := d.c.failf(ErrNoVariant, "Expected one of %s, got %s.", strings.Join(toks, ", "), d.c.snippet(20))
	return nil, fold(err, hang)
}

// newVariant returns a new value of the type of vt, and the struct value
// holding its fields.
func newVariant(vt *Variant) (val, elem reflect.Value) {
	if vt.Type.Kind() == reflect.Pointer {
		p := reflect.New(vt.Type.Elem())
		return p, p.Elem()
	}
	elem = reflect.New(vt.Type).Elem()
	return elem, elem
}

// list parses a list of l.Elem into the slice v. The list ends at the first
// element that fails to parse, or that consumes no input.
func (d *decoder) list(l *List, v reflect.Value, hang *Gobble, out sink) (*Gobble, error) {
	if v.Kind() != reflect.Slice {
		return nil, schemaErrorf("cannot decode %v into %v", l, v.Type())
	}
	d.modes.Push(l.Mode)
	defer d.modes.Pop()

	if l.Mode == Inline {
		start := d.mark()
		d.c.SkipInline()
		if d.c.HasPrefix("(") {
			d.c.Consume(1)
			next, err := d.elements(l, v, hang, out)
			if err != nil {
				return nil, err
			}
			next = d.gobble(next, false)
			if d.c.HasPrefix(")") {
				d.c.Consume(1)
				d.attr(out, next)
				return nil, nil
			}
			// The group was not closed; parse the elements without it.
			d.reset(start)
		}
	}
	return d.elements(l, v, hang, out)
}

func (d *decoder) elements(l *List, v reflect.Value, hang *Gobble, out sink) (*Gobble, error) {
	etype := v.Type().Elem()
	result := reflect.MakeSlice(v.Type(), 0, 0)
	for i := 0; ; i++ {
		hang = d.gobble(hang, false)
		m := d.mark()
		elem := reflect.New(etype).Elem()
		next, err := d.decode(l.Elem, elem, hang, elementSink(out, i))
		if err != nil || !d.c.Advanced(m.cp) {
			d.reset(m)
			break
		}
		result = reflect.Append(result, elem)
		hang = next
	}
	v.Set(result)
	return hang, nil
}

// elementSink returns the sink for element i of a list attributed to out.
func elementSink(out sink, i int) sink {
	if out.com == nil {
		return out
	}
	return out.at(fmt.Sprintf("%s[%d]", out.key, i))
}

func (d *decoder) tuple(t *Tuple, v reflect.Value, hang *Gobble, out sink) (*Gobble, error) {
	n, err := tupleLen(t, v)
	if err != nil {
		return nil, err
	}
	d.c.SkipInline()
	if err := d.c.Expect("("); err != nil {
		return nil, fold(err, hang)
	}
	d.attr(out, hang)
	d.modes.Push(Inline)
	defer d.modes.Pop()
	for i := range n {
		d.c.SkipInline()
		if _, err := d.decode(t.Elems[i], tupleElem(v, i), nil, out); err != nil {
			return nil, err
		}
	}
	d.c.SkipInline()
	if err := d.c.Expect(")"); err != nil {
		return nil, err
	}
	return nil, nil
}

// tupleLen checks that v can hold the elements of t, and returns their
// number.
func tupleLen(t *Tuple, v reflect.Value) (int, error) {
	var n int
	switch v.Kind() {
	case reflect.Array:
		n = v.Len()
	case reflect.Struct:
		n = v.NumField()
	default:
		return 0, schemaErrorf("cannot decode %v into %v", t, v.Type())
	}
	if n != len(t.Elems) {
		return 0, schemaErrorf("tuple %v has %d elements, %v has %d", t, len(t.Elems), v.Type(), n)
	}
	return n, nil
}

func tupleElem(v reflect.Value, i int) reflect.Value {
	if v.Kind() == reflect.Array {
		return v.Index(i)
	}
	return v.Field(i)
}
