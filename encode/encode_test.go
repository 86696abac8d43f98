package encode

import (
	"bytes"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/parse"
)

func roundTrip(t *testing.T, src string) {
	t.Helper()
	docs, err := parse.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	out := MustString(docs[0])
	redocs, err := parse.Parse([]byte(out))
	if err != nil {
		t.Fatalf("reparse %q: %v", out, err)
	}
	if len(redocs) != 1 || !ir.Equal(docs[0], redocs[0]) {
		t.Errorf("round trip of %q via %q changed the tree", src, out)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, src := range []string{
		"a: 1",
		"a: {b: null, c: true, d: -2.5}",
		"l: [1, two, {three: 3}]",
		"s: 'has: colon'",
		"e: ''",
		"n: '42'",
		"deep: {l: [[1], []]}",
		"empty: {}",
		"a: !ref b.c\nb: {c: 1}",
		"r: !required null",
		"d: !del null",
		"w: !weak {a: 1}",
		"f: !force 5",
		"ap: !append [1]",
		"m: !move:dst.here 5",
		"t: !fstr \"${a}/x\"\na: 1",
		"u: !custom 3",
	} {
		roundTrip(t, src)
	}
}

func TestEncodeShape(t *testing.T) {
	docs, err := parse.Parse([]byte("a: {b: 1, c: [x, {y: 2}]}"))
	if err != nil {
		t.Fatal(err)
	}
	want := "a:\n  b: 1\n  c:\n    - x\n    - y: 2"
	if got := MustString(docs[0]); got != want {
		t.Fatalf("block shape:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFlowString(t *testing.T) {
	docs, err := parse.Parse([]byte("a: {b: 1}\nl: [1, two]"))
	if err != nil {
		t.Fatal(err)
	}
	if got := FlowString(docs[0]); got != "{a: {b: 1}, l: [1, two]}" {
		t.Fatalf("flow: %q", got)
	}
	if got := FlowString(ir.FromString("x")); got != "x" {
		t.Fatalf("flow scalar: %q", got)
	}
}

func TestEncodePlain(t *testing.T) {
	docs, err := parse.Parse([]byte("a: !ref b\nb: !force 1"))
	if err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	if err := Encode(docs[0], buf, EncodePlain(true)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "a: b\nb: 1\n" {
		t.Fatalf("plain: %q", got)
	}
}

func TestToFromAny(t *testing.T) {
	docs, err := parse.Parse([]byte("b: 1\na: [x, {c: 2.5}]\nz: null"))
	if err != nil {
		t.Fatal(err)
	}
	v := ToAny(docs[0])
	ms, ok := v.(yaml.MapSlice)
	if !ok {
		t.Fatalf("objects convert to MapSlice, got %T", v)
	}
	order := make([]string, len(ms))
	for i, item := range ms {
		order[i] = item.Key.(string)
	}
	if diff := cmp.Diff([]string{"b", "a", "z"}, order); diff != "" {
		t.Fatalf("order: %s", diff)
	}
	back, err := FromAny(v)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(docs[0], back) {
		t.Fatal("ToAny/FromAny round trip changed the tree")
	}
	if _, err := FromAny(map[int]any{1: "x"}); err == nil {
		t.Fatal("non-string keys must fail")
	}
}
