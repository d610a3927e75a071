// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/creachadair/fsotab"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type pick interface{ isPick() }

type (
	pickA    struct{}
	pickAB   struct{}
	pickNum  struct{ N int }
	pickWord struct{ Word string }
)

func (pickA) isPick()    {}
func (pickAB) isPick()   {}
func (pickNum) isPick()  {}
func (pickWord) isPick() {}

// testRegistry returns a registry with the pick union registered.
func testRegistry(t *testing.T) *fsotab.Registry {
	t.Helper()
	r := new(fsotab.Registry)
	if err := r.Register(reflect.TypeFor[pick](), fsotab.UnionConfig{},
		fsotab.Case[pickA](fsotab.Token("A")),
		fsotab.Case[pickAB](fsotab.Token("AB")),
		fsotab.Case[pickNum](fsotab.Token("num")),
		fsotab.DefaultCase[pickWord](),
	); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}
	return r
}

func decodeWith(t *testing.T, r *fsotab.Registry, input string, v any) error {
	t.Helper()
	var dec fsotab.Decoder
	dec.SetRegistry(r)
	return dec.Unmarshal([]byte(input), v)
}

func TestUnionPrecedence(t *testing.T) {
	r := testRegistry(t)

	type choice struct {
		P    pick   `fso:",positional"`
		Rest string `fso:",positional"`
	}
	tests := []struct {
		input string
		want  choice
	}{
		// The first matching variant wins, even if a later one is longer.
		{"AB foo", choice{P: pickA{}, Rest: "B foo"}},
		{"A foo", choice{P: pickA{}, Rest: "foo"}},
		{"num 5 tail", choice{P: pickNum{N: 5}, Rest: "tail"}},
		{"hello world", choice{P: pickWord{Word: "hello"}, Rest: "world"}},
	}
	for _, tc := range tests {
		var got choice
		if err := decodeWith(t, r, tc.input, &got); err != nil {
			t.Errorf("Decode %q: unexpected error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Decode %q (-want, +got):\n%s", tc.input, diff)
		}
	}
}

func TestUnionNoMatch(t *testing.T) {
	r := new(fsotab.Registry)
	if err := r.Register(reflect.TypeFor[pick](), fsotab.UnionConfig{},
		fsotab.Case[pickA](fsotab.Token("A")),
		fsotab.Case[pickNum](fsotab.Token("num")),
	); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}
	var got struct {
		P pick `fso:",positional"`
	}
	err := decodeWith(t, r, "\n  zebra crossing at the corner", &got)
	if !errors.Is(err, fsotab.ErrNoVariant) {
		t.Fatalf("Decode: got %v, want %v", err, fsotab.ErrNoVariant)
	}
	const want = "error at line 2: Expected one of A, num, got zebra crossing at th."
	if got := err.Error(); got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}
}

func TestOptionalFields(t *testing.T) {
	type opts struct {
		Foo *int
		Bar *string
		On  bool `fso:"+On,existence"`
		Def int  `fso:",default=5"`
	}
	tests := []struct {
		input string
		want  opts
	}{
		{"", opts{Def: 5}},
		{"$Foo: 3", opts{Foo: ptr(3), Def: 5}},
		{"$Bar: some text", opts{Bar: ptr("some text"), Def: 5}},
		{"; note only\n", opts{Def: 5}},
		{"$Foo: 1\n$Bar: x\n+On", opts{Foo: ptr(1), Bar: ptr("x"), On: true, Def: 5}},
		{"+On", opts{On: true, Def: 5}},
	}
	for _, tc := range tests {
		var got opts
		if err := fsotab.Unmarshal([]byte(tc.input), &got); err != nil {
			t.Errorf("Unmarshal %q: unexpected error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Unmarshal %q (-want, +got):\n%s", tc.input, diff)
		}
	}

	// A token that is present must be followed by a valid value.
	var got opts
	if err := fsotab.Unmarshal([]byte("$Foo: bar"), &got); !errors.Is(err, fsotab.ErrScalar) {
		t.Errorf("Unmarshal: got %v, want %v", err, fsotab.ErrScalar)
	}
}

func TestPositionalOptional(t *testing.T) {
	type rec struct {
		P *[2]int `fso:",positional"`
		N int
	}
	var got rec
	if err := fsotab.Unmarshal([]byte("(1, 2)\n$N: 3"), &got); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}
	if diff := cmp.Diff(rec{P: &[2]int{1, 2}, N: 3}, got); diff != "" {
		t.Errorf("Present (-want, +got):\n%s", diff)
	}

	// An absent value leaves the input for the next field.
	got = rec{}
	if err := fsotab.Unmarshal([]byte("$N: 4"), &got); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}
	if diff := cmp.Diff(rec{N: 4}, got); diff != "" {
		t.Errorf("Absent (-want, +got):\n%s", diff)
	}
}

func TestRequiredAndTuple(t *testing.T) {
	type point struct{ X, Y int }
	type rec struct {
		P  *int  `fso:",required"`
		Pt point `fso:"$Where:,tuple"`
		S  []string
	}
	var got rec
	if err := fsotab.Unmarshal([]byte(`$P: 4
$Where: (1, -2)
$S: ( alpha "b c" d )`), &got); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}
	want := rec{P: ptr(4), Pt: point{1, -2}, S: []string{"alpha", "b c", "d"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unmarshal (-want, +got):\n%s", diff)
	}

	if err := fsotab.Unmarshal([]byte("$Where: (1, 2)\n$S: ()"), new(rec)); !errors.Is(err, fsotab.ErrTokenMismatch) {
		t.Errorf("Missing required: got %v, want %v", err, fsotab.ErrTokenMismatch)
	}
	if err := fsotab.Unmarshal([]byte("$P: 1\n$Where: (1)\n$S: ()"), new(rec)); !errors.Is(err, fsotab.ErrScalar) {
		t.Errorf("Short tuple: got %v, want %v", err, fsotab.ErrScalar)
	}
}

func TestLists(t *testing.T) {
	type rec struct {
		Vals []int `fso:",positional"`
		Tail string
	}
	tests := []struct {
		input string
		want  rec
	}{
		{"$Tail: x", rec{Vals: []int{}, Tail: "x"}},
		{"1 2 3\n$Tail: x", rec{Vals: []int{1, 2, 3}, Tail: "x"}},
		{"1\n2\n; c\n3\n$Tail: x", rec{Vals: []int{1, 2, 3}, Tail: "x"}},
	}
	for _, tc := range tests {
		var got rec
		if err := fsotab.Unmarshal([]byte(tc.input), &got); err != nil {
			t.Errorf("Unmarshal %q: unexpected error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Unmarshal %q (-want, +got):\n%s", tc.input, diff)
		}
	}

	type inline struct {
		Vals []float32
	}
	for _, input := range []string{"$Vals: ( 1 2.5 -3 )", "$Vals: (1, 2.5, -3)", "$Vals: 1 2.5 -3"} {
		var got inline
		if err := fsotab.Unmarshal([]byte(input), &got); err != nil {
			t.Errorf("Unmarshal %q: unexpected error: %v", input, err)
			continue
		}
		if diff := cmp.Diff([]float32{1, 2.5, -3}, got.Vals); diff != "" {
			t.Errorf("Unmarshal %q (-want, +got):\n%s", input, diff)
		}
	}
}

func TestListProgress(t *testing.T) {
	// An element that parses without consuming input ends the list.
	type opt struct{ X *int }
	type holder struct {
		Opts []opt   `fso:",positional"`
		Rest string `fso:",positional"`
	}
	tests := []struct {
		input string
		want  holder
	}{
		{"foo", holder{Rest: "foo"}},
		{"$X: 1\n$X: 2\nfoo", holder{Opts: []opt{{X: ptr(1)}, {X: ptr(2)}}, Rest: "foo"}},
	}
	for _, tc := range tests {
		var got holder
		if err := fsotab.Unmarshal([]byte(tc.input), &got); err != nil {
			t.Errorf("Unmarshal %q: unexpected error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Unmarshal %q (-want, +got):\n%s", tc.input, diff)
		}
	}

	// The default variant captures an empty word at the end of input, which
	// ends the list.
	var picks struct {
		P []pick `fso:",positional"`
	}
	if err := decodeWith(t, testRegistry(t), "alpha num 3\nbeta", &picks); err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	want := []pick{pickWord{Word: "alpha"}, pickNum{N: 3}, pickWord{Word: "beta"}}
	if diff := cmp.Diff(want, picks.P); diff != "" {
		t.Errorf("Picks (-want, +got):\n%s", diff)
	}
}

func TestGobbleLiteral(t *testing.T) {
	type pinned struct {
		P [2]int `fso:",positional,gobble=:"`
		W string `fso:",positional"`
	}
	var got pinned
	if err := fsotab.Unmarshal([]byte("(1,2): x"), &got); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}
	if diff := cmp.Diff(pinned{P: [2]int{1, 2}, W: "x"}, got); diff != "" {
		t.Errorf("Unmarshal (-want, +got):\n%s", diff)
	}

	err := fsotab.Unmarshal([]byte("(1,2) x"), new(pinned))
	var pe *fsotab.ParseError
	if !errors.As(err, &pe) || !errors.Is(err, fsotab.ErrTokenMismatch) {
		t.Fatalf("Unmarshal: got %v, want token mismatch", err)
	}
	if pe.Line != 1 || pe.Message != `Expected ":", got x` {
		t.Errorf("Error: got line %d %q", pe.Line, pe.Message)
	}
}

func TestNestedLists(t *testing.T) {
	type nested struct {
		B [][]int
	}
	v := nested{B: [][]int{{1, 2}, {3}, {}}}
	out, err := fsotab.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: unexpected error: %v", err)
	}
	if diff := cmp.Diff("$B: ( ( 1 2 ) ( 3 ) ( ) )\n", string(out)); diff != "" {
		t.Errorf("Marshal (-want, +got):\n%s", diff)
	}
	var back nested
	if err := fsotab.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}
	if diff := cmp.Diff(v, back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Round trip (-want, +got):\n%s", diff)
	}

	var got nested
	if err := fsotab.Unmarshal([]byte("$B: ( (1 2) (3) )"), &got); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}
	if diff := cmp.Diff([][]int{{1, 2}, {3}}, got.B); diff != "" {
		t.Errorf("Unmarshal (-want, +got):\n%s", diff)
	}
}

func TestErrorReporting(t *testing.T) {
	type rec struct {
		A int
		B int
	}
	t.Run("Pending", func(t *testing.T) {
		err := fsotab.Unmarshal([]byte("$A: 1\n; pending note\n$C: 2"), new(rec))
		var pe *fsotab.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("Unmarshal: got %v, want *ParseError", err)
		}
		want := fsotab.Gobble{Comments: "; pending note"}
		if pe.Line != 3 || pe.Message != `Expected "$B:", got $C:` {
			t.Errorf("Error: got line %d %q", pe.Line, pe.Message)
		}
		if diff := cmp.Diff(want, pe.Pending); diff != "" {
			t.Errorf("Pending (-want, +got):\n%s", diff)
		}
	})

	t.Run("ExtraInput", func(t *testing.T) {
		input := []byte("$A: 1\n$B: 2\n\njunk here")
		err := fsotab.Unmarshal(input, new(rec))
		if !errors.Is(err, fsotab.ErrExtraInput) {
			t.Fatalf("Unmarshal: got %v, want %v", err, fsotab.ErrExtraInput)
		}
		if got, want := err.Error(), "error at line 4: Expected end of input, got junk here."; got != want {
			t.Errorf("Error: got %q, want %q", got, want)
		}

		var dec fsotab.Decoder
		dec.AllowExtraInput(true)
		var got rec
		if err := dec.Unmarshal(input, &got); err != nil {
			t.Fatalf("Unmarshal: unexpected error: %v", err)
		}
		if got != (rec{A: 1, B: 2}) {
			t.Errorf("Unmarshal: got %+v", got)
		}
	})

	t.Run("Target", func(t *testing.T) {
		var r rec
		if err := fsotab.Unmarshal([]byte("$A: 1\n$B: 2"), r); err == nil {
			t.Error("Unmarshal into non-pointer: got nil error")
		}
	})

	t.Run("IO", func(t *testing.T) {
		err := fsotab.Load("testdata/does-not-exist.tbl", new(rec))
		var pe *fsotab.ParseError
		if !errors.As(err, &pe) || !errors.Is(err, fsotab.ErrIO) {
			t.Fatalf("Load: got %v, want %v", err, fsotab.ErrIO)
		}
		if pe.Line != 0 || !strings.HasPrefix(pe.Message, "Could not open file testdata/does-not-exist.tbl! Reason: ") {
			t.Errorf("Load: got line %d %q", pe.Line, pe.Message)
		}
	})
}

func TestRollback(t *testing.T) {
	type elem struct{ A, B int }
	type holder struct {
		L     []elem `fso:",positional"`
		Notes fsotab.Comments
	}
	input := "; first\n$A: 1\n$B: 2\n; second\n$A: 3\n$C: 4\n"

	var dec fsotab.Decoder
	dec.AllowExtraInput(true)
	var got holder
	if err := dec.Unmarshal([]byte(input), &got); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}
	if diff := cmp.Diff([]elem{{A: 1, B: 2}}, got.L); diff != "" {
		t.Errorf("Elements (-want, +got):\n%s", diff)
	}

	// The note attributed to the element that failed is withdrawn, and is
	// still pending at the end of the value.
	want := map[string]fsotab.Gobble{
		"L[0]":         {Comments: "; first"},
		fsotab.TailKey: {Comments: "; second"},
	}
	if diff := cmp.Diff(want, got.Notes.Notes); diff != "" {
		t.Errorf("Notes (-want, +got):\n%s", diff)
	}
}

func TestParseShape(t *testing.T) {
	type target struct {
		Label string
		Count uint16
	}
	shape := &fsotab.Record{
		Name:  "Manual",
		Start: "#Begin",
		End:   "#Done",
		Fields: []*fsotab.Field{
			{Name: "Label", Kind: fsotab.Named, Token: "+Label:", Shape: &fsotab.Scalar{Kind: fsotab.String}},
			{Name: "Count", Kind: fsotab.Positional, Shape: &fsotab.Scalar{Kind: fsotab.Uint, Bits: 16}},
		},
	}
	var got target
	if err := fsotab.ParseShape(shape, []byte("#Begin\n+Label: widget\n12\n#Done\n"), &got); err != nil {
		t.Fatalf("ParseShape: unexpected error: %v", err)
	}
	if got != (target{Label: "widget", Count: 12}) {
		t.Errorf("ParseShape: got %+v", got)
	}

	out, err := fsotab.WriteShape(shape, got)
	if err != nil {
		t.Fatalf("WriteShape: unexpected error: %v", err)
	}
	if diff := cmp.Diff("#Begin\n+Label: widget\n12\n#Done\n", string(out)); diff != "" {
		t.Errorf("WriteShape (-want, +got):\n%s", diff)
	}

	bad := &fsotab.Record{Fields: []*fsotab.Field{{Name: "Label", Kind: fsotab.Named, Shape: &fsotab.Scalar{Kind: fsotab.String}}}}
	if err := fsotab.ParseShape(bad, []byte("x"), &got); !errors.Is(err, fsotab.ErrSchema) {
		t.Errorf("ParseShape: got %v, want %v", err, fsotab.ErrSchema)
	}
}

func ptr[T any](v T) *T { return &v }
