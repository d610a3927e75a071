// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"fmt"
	"reflect"
)

// UnionConfig carries settings that apply to every variant of a union.
type UnionConfig struct {
	// Prefix and Suffix frame the default token of each variant.
	Prefix, Suffix string

	// If true, default variant tokens are lower-cased and quoted, as used for
	// sets of flags, e.g., "auto reverse". Forced tokens are quoted but are
	// otherwise unchanged.
	Flagset bool

	// Spacing is the text written between the fields of a variant. If empty,
	// a single space is used.
	Spacing string
}

// A CaseSpec describes one variant of a union for registration.
// Use Case or DefaultCase to construct one.
type CaseSpec struct {
	typ   reflect.Type
	token string // if non-empty, the forced token
	def   bool
}

// A CaseOption is an optional setting for a CaseSpec.
type CaseOption func(*CaseSpec)

// Token forces the match token of a variant to tok. Unlike a derived token,
// tok is not affected by the union prefix and suffix.
func Token(tok string) CaseOption { return func(c *CaseSpec) { c.token = tok } }

// Case returns a CaseSpec for a variant of Go type T, which must be a struct
// or a pointer to a struct, and must implement the interface of the union.
// The fields of a variant are positional unless tagged otherwise.
func Case[T any](opts ...CaseOption) CaseSpec {
	c := CaseSpec{typ: reflect.TypeFor[T]()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// DefaultCase returns a CaseSpec for the default variant of a union. The
// default variant is chosen when no other variant matches, and its single
// string field captures the next word of the input verbatim. A default case
// must be the last case of its union.
func DefaultCase[T any]() CaseSpec {
	return CaseSpec{typ: reflect.TypeFor[T](), def: true}
}

type unionSpec struct {
	config UnionConfig
	cases  []CaseSpec
}

// RegisterUnion registers the interface type I as a union in the default
// registry, with the given variants in order of precedence. It panics if the
// registration is invalid. It is intended for use in package init.
func RegisterUnion[I any](config UnionConfig, cases ...CaseSpec) {
	if err := DefaultRegistry().Register(reflect.TypeFor[I](), config, cases...); err != nil {
		panic(fmt.Sprintf("RegisterUnion: %v", err))
	}
}

// Register registers the interface type iface as a union in r, with the
// given variants in order of precedence. Variants are tried in the order
// given, and the first whose token is a prefix of the input wins.
func (r *Registry) Register(iface reflect.Type, config UnionConfig, cases ...CaseSpec) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return schemaErrorf("union type %v is not an interface", iface)
	} else if len(cases) == 0 {
		return schemaErrorf("union %v has no cases", iface)
	}
	seen := make(map[reflect.Type]bool)
	for i, c := range cases {
		if c.typ == nil {
			return schemaErrorf("union %v case %d has no type", iface, i)
		}
		st := c.typ
		if st.Kind() == reflect.Pointer {
			st = st.Elem()
		}
		switch {
		case st.Kind() != reflect.Struct:
			return schemaErrorf("union %v case %v is not a struct", iface, c.typ)
		case !c.typ.Implements(iface):
			return schemaErrorf("union %v case %v does not implement the interface", iface, c.typ)
		case seen[c.typ]:
			return schemaErrorf("union %v case %v is duplicated", iface, c.typ)
		case c.def && i != len(cases)-1:
			return schemaErrorf("union %v default case %v is not last", iface, c.typ)
		}
		seen[c.typ] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.unions[iface]; ok {
		return schemaErrorf("union %v is already registered", iface)
	}
	if r.unions == nil {
		r.unions = make(map[reflect.Type]*unionSpec)
	}
	r.unions[iface] = &unionSpec{config: config, cases: cases}
	return nil
}

// variantToken returns the match token for c under config.
func variantToken(c CaseSpec, name string, config UnionConfig) string {
	if c.token != "" {
		if config.Flagset {
			return `"` + c.token + `"`
		}
		return c.token
	}
	return VariantToken(name, config.Flagset, config.Prefix, config.Suffix)
}
