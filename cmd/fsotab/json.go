// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/creachadair/fsotab"
	"github.com/ghodss/yaml"
	"github.com/tailscale/hujson"
)

var (
	metaType     = reflect.TypeFor[fsotab.Meta]()
	commentsType = reflect.TypeFor[fsotab.Comments]()
)

// toJSON renders v as HuJSON. The comments recorded for each field are
// written as line comments ahead of the field, and a union value is written
// as an object with a single member named by its variant type.
func toJSON(v any) ([]byte, error) {
	var w jsonWriter
	if err := w.value(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return hujson.Format(w.buf.Bytes())
}

type jsonWriter struct {
	buf bytes.Buffer
}

func (w *jsonWriter) note(g fsotab.Gobble) {
	if g.Version != "" {
		fmt.Fprintf(&w.buf, "// version: %s\n", g.Version)
	}
	for _, line := range g.Lines() {
		fmt.Fprintf(&w.buf, "// %s\n", line)
	}
}

func (w *jsonWriter) value(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Invalid:
		w.buf.WriteString("null")
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			w.buf.WriteString("null")
			return nil
		}
		if v.Kind() == reflect.Pointer {
			return w.value(v.Elem())
		}
		elem := v.Elem()
		name := reflect.Indirect(elem).Type().Name()
		fmt.Fprintf(&w.buf, "{%q: ", name)
		if err := w.value(elem); err != nil {
			return err
		}
		w.buf.WriteString("}")
	case reflect.Struct:
		return w.record(v)
	case reflect.Slice, reflect.Array:
		w.buf.WriteString("[")
		for i := range v.Len() {
			if i > 0 {
				w.buf.WriteString(",\n")
			}
			if err := w.value(v.Index(i)); err != nil {
				return err
			}
		}
		w.buf.WriteString("]")
	default:
		bits, err := json.Marshal(v.Interface())
		if err != nil {
			return err
		}
		w.buf.Write(bits)
	}
	return nil
}

func (w *jsonWriter) record(v reflect.Value) error {
	t := v.Type()
	var notes fsotab.Comments
	for i := range t.NumField() {
		if t.Field(i).Type == commentsType {
			notes = v.Field(i).Interface().(fsotab.Comments)
		}
	}

	w.buf.WriteString("{\n")
	w.note(notes.Get(fsotab.StartKey))
	first := true
	for i := range t.NumField() {
		ft := t.Field(i)
		if !ft.IsExported() || ft.Type == metaType || ft.Type == commentsType || ft.Tag.Get("fso") == "-" {
			continue
		}
		if !first {
			w.buf.WriteString(",\n")
		}
		first = false
		w.note(notes.Get(ft.Name))
		fmt.Fprintf(&w.buf, "%q: ", ft.Name)
		if err := w.value(v.Field(i)); err != nil {
			return err
		}
	}
	w.buf.WriteString("\n")
	w.note(notes.Get(fsotab.EndKey))
	w.note(notes.Get(fsotab.TailKey))
	w.buf.WriteString("}")
	return nil
}

// toYAML renders v as YAML. Comments are not preserved.
func toYAML(v any) ([]byte, error) {
	hj, err := toJSON(v)
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(hj)
	if err != nil {
		return nil, err
	}
	return yaml.JSONToYAML(std)
}
