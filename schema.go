// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"reflect"
	"strings"
	"sync"

	"github.com/creachadair/mds/mapset"
)

// Meta is a marker type. Embed Meta in a struct to attach record options to
// its field tag:
//
//	start=<tok>    the record begins with the literal tok
//	end=<tok>      the record ends with the literal tok
//	prefix=<text>  replaces "$" in the derived tokens of the fields
//	suffix=<text>  replaces ":" in the derived tokens of the fields
//	inline         the record is written on one line, and its fields are
//	               positional unless tagged otherwise
//
// For example:
//
//	type Table struct {
//	   fsotab.Meta `fso:"start=#Curves,end=#End"`
//	   Curves []Curve `fso:",positional"`
//	}
type Meta struct{}

// A Registry holds the registered unions and the shapes constructed for Go
// types. A zero Registry is ready for use, and is safe for concurrent use by
// multiple goroutines.
type Registry struct {
	mu     sync.Mutex
	unions map[reflect.Type]*unionSpec
	shapes map[reflect.Type]Shape
}

var defaultRegistry = new(Registry)

// DefaultRegistry returns the registry used by RegisterUnion and by the
// package-level encoding functions.
func DefaultRegistry() *Registry { return defaultRegistry }

// ShapeOf returns the shape of Go type t using the default registry.
func ShapeOf(t reflect.Type) (Shape, error) { return defaultRegistry.ShapeOf(t) }

// ShapeOf returns the shape of values of Go type t. A pointer type has the
// shape of its element type.
//
// A struct type has a Record shape, and an interface registered as a union
// has a Union shape. Slices are lists, arrays are tuples, and pointers in
// field position are optional unless tagged "required". The fields of a
// record are configured by tags of the form
//
//	fso:"<token>,<option>,..."
//
// with these options:
//
//	named          the field is introduced by its token (default)
//	positional     the field has no token
//	existence      a bool field set by the presence of its token
//	gobble=<lit>   the literal lit follows the value of the field
//	inline         a list field is written on one line (default for named)
//	multiline      a list field is written one per line (default for positional)
//	required       a pointer field is not optional
//	tuple          a struct field is written as a tuple of its fields
//	default=<text> the field is skipped in the text and set from text
//
// A tag of "-" excludes the field. If the token is empty, it is derived from
// the field name, so that field FooBar has token "$Foo Bar:".
//
// A list nested in another list or a tuple is always inline.
func (r *Registry) ShapeOf(t reflect.Type) (Shape, error) {
	if t == nil {
		return nil, schemaErrorf("no type")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.shapes[t]; ok {
		return s, nil
	}

	b := &schemaBuilder{r: r, built: make(map[reflect.Type]Shape)}
	s, err := b.typeShape(t)
	if err != nil {
		return nil, err
	} else if err := Validate(s); err != nil {
		return nil, err
	}
	if r.shapes == nil {
		r.shapes = make(map[reflect.Type]Shape)
	}
	for bt, bs := range b.built {
		r.shapes[bt] = bs
	}
	r.shapes[t] = s
	return s, nil
}

var (
	metaType     = reflect.TypeFor[Meta]()
	commentsType = reflect.TypeFor[Comments]()

	fieldOptions = mapset.New("named", "positional", "existence", "gobble",
		"inline", "multiline", "required", "tuple", "default")
	recordOptions = mapset.New("start", "end", "prefix", "suffix", "inline")
)

// schemaBuilder constructs the shapes for a single call to ShapeOf.
// Records and unions are recorded in built before their contents are
// filled, so that recursive types refer to the same shape.
type schemaBuilder struct {
	r     *Registry
	built map[reflect.Type]Shape
}

func (b *schemaBuilder) lookup(t reflect.Type) (Shape, bool) {
	if s, ok := b.r.shapes[t]; ok {
		return s, true
	}
	s, ok := b.built[t]
	return s, ok
}

// typeShape returns the shape of t in value position.
func (b *schemaBuilder) typeShape(t reflect.Type) (Shape, error) {
	switch t.Kind() {
	case reflect.Bool:
		return &Scalar{Kind: Bool}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Scalar{Kind: Int, Bits: t.Bits()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Scalar{Kind: Uint, Bits: t.Bits()}, nil
	case reflect.Float32, reflect.Float64:
		return &Scalar{Kind: Float, Bits: t.Bits()}, nil
	case reflect.String:
		return &Scalar{Kind: String}, nil
	case reflect.Pointer:
		elem, err := b.typeShape(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Wrapper{Elem: elem}, nil
	case reflect.Slice:
		elem, err := b.typeShape(t.Elem())
		if err != nil {
			return nil, err
		}
		return &List{Elem: elem, Mode: Inline}, nil
	case reflect.Array:
		elem, err := b.typeShape(t.Elem())
		if err != nil {
			return nil, err
		}
		tup := &Tuple{Elems: make([]Shape, t.Len())}
		for i := range tup.Elems {
			tup.Elems[i] = elem
		}
		return tup, nil
	case reflect.Struct:
		if t == metaType || t == commentsType {
			return nil, schemaErrorf("type %v cannot be used as a value", t)
		}
		return b.record(t)
	case reflect.Interface:
		return b.union(t)
	}
	return nil, schemaErrorf("unsupported type %v", t)
}

func (b *schemaBuilder) record(t reflect.Type) (Shape, error) {
	if s, ok := b.lookup(t); ok {
		return s, nil
	}
	rec := &Record{Name: t.Name()}
	b.built[t] = rec

	cfg := fieldConfig{prefix: "$", suffix: ":"}
	if mf, ok := t.FieldByName("Meta"); ok && mf.Anonymous && mf.Type == metaType {
		opts, err := parseOptions(mf.Tag.Get("fso"), recordOptions)
		if err != nil {
			return nil, schemaErrorf("type %v: %v", t, err)
		}
		rec.Start, rec.End = opts["start"], opts["end"]
		if p, ok := opts["prefix"]; ok {
			cfg.prefix = p
		}
		if s, ok := opts["suffix"]; ok {
			cfg.suffix = s
		}
		_, rec.Inline = opts["inline"]
		cfg.positional = rec.Inline
	}
	fields, notes, err := b.fields(t, cfg)
	if err != nil {
		return nil, err
	}
	rec.Fields, rec.Notes = fields, notes
	return rec, nil
}

func (b *schemaBuilder) union(t reflect.Type) (Shape, error) {
	if s, ok := b.lookup(t); ok {
		return s, nil
	}
	spec, ok := b.r.unions[t]
	if !ok {
		return nil, schemaErrorf("interface type %v is not a registered union", t)
	}
	u := &Union{Name: t.Name(), Spacing: spec.config.Spacing}
	b.built[t] = u
	for _, c := range spec.cases {
		st := c.typ
		if st.Kind() == reflect.Pointer {
			st = st.Elem()
		}
		fields, _, err := b.fields(st, fieldConfig{prefix: "$", suffix: ":", positional: true})
		if err != nil {
			return nil, err
		}
		v := &Variant{Name: st.Name(), Fields: fields, Default: c.def, Type: c.typ}
		if !c.def {
			v.Token = variantToken(c, st.Name(), spec.config)
		}
		u.Variants = append(u.Variants, v)
	}
	return u, nil
}

// fieldConfig carries the defaults for the fields of one struct.
type fieldConfig struct {
	prefix, suffix string
	positional     bool // fields are positional unless tagged
}

// fields returns the field descriptors for struct type t, and the name of
// its Comments field if it has one.
func (b *schemaBuilder) fields(t reflect.Type, cfg fieldConfig) ([]*Field, string, error) {
	var out []*Field
	var notes string
	for i := range t.NumField() {
		ft := t.Field(i)
		switch {
		case ft.Anonymous && ft.Type == metaType:
			continue
		case ft.Type == commentsType && ft.IsExported():
			notes = ft.Name
			continue
		case !ft.IsExported():
			continue
		}
		tag := ft.Tag.Get("fso")
		if tag == "-" {
			continue
		}
		f, err := b.field(ft, tag, cfg)
		if err != nil {
			return nil, "", schemaErrorf("field %v.%s: %v", t, ft.Name, err)
		}
		out = append(out, f)
	}
	return out, notes, nil
}

func (b *schemaBuilder) field(ft reflect.StructField, tag string, cfg fieldConfig) (*Field, error) {
	token, rest, _ := strings.Cut(tag, ",")
	opts, err := parseOptions(rest, fieldOptions)
	if err != nil {
		return nil, err
	}
	has := func(key string) bool {
		_, ok := opts[key]
		return ok
	}

	f := &Field{Name: ft.Name, Gobble: opts["gobble"], index: ft.Index}
	switch {
	case has("default"):
		f.Kind, f.Default = Skipped, opts["default"]
	case has("existence"):
		f.Kind = Existence
		if token == "" {
			token = FieldToken(ft.Name, cfg.prefix, "")
		}
	case has("positional") && has("named"):
		return nil, schemaErrorf("field is both named and positional")
	case has("positional"), cfg.positional && !has("named"):
		f.Kind = Positional
		if token != "" {
			return nil, schemaErrorf("positional field has token %q", token)
		}
	default:
		f.Kind = Named
		if token == "" {
			token = FieldToken(ft.Name, cfg.prefix, cfg.suffix)
		}
	}
	if f.Kind == Named || f.Kind == Existence {
		f.Token = token
	}

	mode := Inline
	if f.Kind == Positional {
		mode = Multiline
	}
	if has("inline") && has("multiline") {
		return nil, schemaErrorf("field is both inline and multiline")
	} else if has("inline") {
		mode = Inline
	} else if has("multiline") {
		mode = Multiline
	}

	f.Shape, err = b.fieldShape(ft.Type, mode, has("required"), has("tuple"))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// fieldShape returns the shape of t in field position.
func (b *schemaBuilder) fieldShape(t reflect.Type, mode ListMode, required, tuple bool) (Shape, error) {
	switch {
	case t.Kind() == reflect.Pointer:
		elem, err := b.fieldShape(t.Elem(), mode, false, tuple)
		if err != nil {
			return nil, err
		}
		if required {
			return &Wrapper{Elem: elem}, nil
		}
		return &Optional{Elem: elem}, nil

	case required:
		return nil, schemaErrorf("required option on non-pointer type %v", t)

	case tuple:
		if t.Kind() != reflect.Struct {
			return nil, schemaErrorf("tuple option on non-struct type %v", t)
		}
		tup := new(Tuple)
		for i := range t.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() {
				return nil, schemaErrorf("tuple type %v has unexported field %s", t, sf.Name)
			}
			es, err := b.typeShape(sf.Type)
			if err != nil {
				return nil, err
			}
			tup.Elems = append(tup.Elems, es)
		}
		return tup, nil

	case t.Kind() == reflect.Slice:
		elem, err := b.typeShape(t.Elem())
		if err != nil {
			return nil, err
		}
		return &List{Elem: elem, Mode: mode}, nil
	}
	return b.typeShape(t)
}

// parseOptions parses a comma-separated list of options of the form "key" or
// "key=value". Every key must be in known.
func parseOptions(s string, known mapset.Set[string]) (map[string]string, error) {
	opts := make(map[string]string)
	if s == "" {
		return opts, nil
	}
	for _, opt := range strings.Split(s, ",") {
		key, val, _ := strings.Cut(opt, "=")
		key = strings.TrimSpace(key)
		if !known.Has(key) {
			return nil, schemaErrorf("unknown option %q", key)
		}
		opts[key] = val
	}
	return opts, nil
}
