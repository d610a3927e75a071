// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"fmt"
	"io"
	"os"
	"reflect"
)

// Unmarshal parses the table text in data into the value pointed to by v,
// using the shape of its type in the default registry. It is an error if
// any text other than comments and whitespace follows the value.
func Unmarshal(data []byte, v any) error { return new(Decoder).Unmarshal(data, v) }

// Marshal renders v as table text, using the shape of its type in the
// default registry.
func Marshal(v any) ([]byte, error) { return new(Encoder).Marshal(v) }

// Load reads the table file at path and parses it into v.
// See [Decoder.Load].
func Load(path string, v any) error { return new(Decoder).Load(path, v) }

// Save renders v as table text and writes it to a file at path.
// See [Encoder.Save].
func Save(path string, v any) error { return new(Encoder).Save(path, v) }

// A Decoder parses table text into values. A zero Decoder is ready for use,
// and uses the default registry.
type Decoder struct {
	registry   *Registry
	allowExtra bool
}

// AllowExtraInput configures the decoder to permit (true) or reject (false)
// text following the root value.
func (d *Decoder) AllowExtraInput(ok bool) { d.allowExtra = ok }

// SetRegistry configures the decoder to look up shapes in r. If r == nil,
// the default registry is used.
func (d *Decoder) SetRegistry(r *Registry) { d.registry = r }

func (d *Decoder) reg() *Registry {
	if d.registry == nil {
		return defaultRegistry
	}
	return d.registry
}

// Unmarshal parses data into the value pointed to by v, which must be a
// non-nil pointer. In case of a failure in the input, the error has concrete
// type *ParseError.
func (d *Decoder) Unmarshal(data []byte, v any) error {
	rv, err := targetOf(v)
	if err != nil {
		return err
	}
	s, err := d.reg().ShapeOf(rv.Type())
	if err != nil {
		return err
	}
	return d.decodeValue(s, data, rv)
}

// Load reads the file at path and parses its contents into v. If the file
// cannot be read, the error is a *ParseError with line 0 matching ErrIO.
func (d *Decoder) Load(path string, v any) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	return d.Unmarshal(data, v)
}

// ParseShape parses data into the value pointed to by v as described by s.
// The structure of v must agree with s: each record is a struct whose fields
// are found by name, and each union is an interface holding one of its
// variant types.
func (d *Decoder) ParseShape(s Shape, data []byte, v any) error {
	if err := Validate(s); err != nil {
		return err
	}
	rv, err := targetOf(v)
	if err != nil {
		return err
	}
	return d.decodeValue(s, data, rv)
}

// ParseShape parses data into v as described by s.
// See [Decoder.ParseShape].
func ParseShape(s Shape, data []byte, v any) error { return new(Decoder).ParseShape(s, data, v) }

func targetOf(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("decode target must be a non-nil pointer, not %T", v)
	}
	return rv.Elem(), nil
}

func (d *Decoder) decodeValue(s Shape, data []byte, v reflect.Value) error {
	dec := newDecoder(NewCursor(data))
	hang, err := dec.decode(s, v, nil, sink{})
	if err != nil {
		return err
	}
	hang = dec.gobble(hang, false)
	if !dec.c.AtEOF() && !d.allowExtra {
		err := dec.c.failf(ErrExtraInput, "Expected end of input, got %s.", dec.c.snippet(20))
		return fold(err, hang)
	}
	if r, ok := s.(*Record); ok && r.Notes != "" && hang != nil {
		com, err := notesOf(r, v)
		if err != nil {
			return err
		}
		com.Add(TailKey, *hang)
	}
	return nil
}

// An Encoder renders values as table text. A zero Encoder is ready for use,
// and uses the default registry.
type Encoder struct {
	registry *Registry
}

// SetRegistry configures the encoder to look up shapes in r. If r == nil,
// the default registry is used.
func (e *Encoder) SetRegistry(r *Registry) { e.registry = r }

// Marshal renders v as table text. If v is a pointer, the value it points to
// is rendered.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("cannot encode %v", v)
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("cannot encode nil %T", v)
		}
		rv = rv.Elem()
	}
	reg := e.registry
	if reg == nil {
		reg = defaultRegistry
	}
	s, err := reg.ShapeOf(rv.Type())
	if err != nil {
		return nil, err
	}
	return encodeValue(s, rv)
}

// Save renders v as table text and writes it to a file at path. If the file
// cannot be written, the error is a *ParseError with line 0 matching ErrIO.
func (e *Encoder) Save(path string, v any) error {
	data, err := e.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &ParseError{Message: fmt.Sprintf("Could not write file %s! Reason: %v.", path, err), err: ErrIO}
	}
	return nil
}

// WriteShape renders v as table text as described by s.
// See [Decoder.ParseShape] for the structure v must have.
func WriteShape(s Shape, v any) ([]byte, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, fmt.Errorf("cannot encode %v", v)
	}
	return encodeValue(s, rv)
}

func encodeValue(s Shape, v reflect.Value) ([]byte, error) {
	b := NewBuilder()
	enc := newEncoder(b)
	if err := enc.encode(s, v, sink{}); err != nil {
		return nil, err
	}
	if r, ok := s.(*Record); ok && r.Notes != "" {
		if c, ok := v.FieldByName(r.Notes).Interface().(Comments); ok {
			b.Note(c.Get(TailKey))
		}
	}
	return []byte(b.String()), nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("Could not open file %s! Reason: %v.", path, err), err: ErrIO}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("Could not read from file %s! Reason: %v.", path, err), err: ErrIO}
	}
	return data, nil
}
