package merge

import (
	"errors"
	"testing"

	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/parse"
)

func doc(t *testing.T, s string) *ir.Node {
	t.Helper()
	docs, err := parse.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	if len(docs) != 1 {
		t.Fatalf("parse %q: %d documents", s, len(docs))
	}
	return docs[0]
}

func mustMerge(t *testing.T, srcs ...string) *ir.Node {
	t.Helper()
	trees := make([]*ir.Node, len(srcs))
	for i, s := range srcs {
		trees[i] = doc(t, s)
	}
	res, err := Merge(trees)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func wantEqual(t *testing.T, got *ir.Node, want string) {
	t.Helper()
	w := doc(t, want)
	if !ir.Equal(got, w) {
		t.Fatalf("merge result differs\ngot:  %+v\nwant: %q", got, want)
	}
}

func TestKeyUnionAndDeepMerge(t *testing.T) {
	got := mustMerge(t,
		"a: 1\nnested: {x: 1, y: 2}",
		"b: 2\nnested: {y: 20, z: 30}",
	)
	wantEqual(t, got, "a: 1\nnested: {x: 1, y: 20, z: 30}\nb: 2")
	// base keys keep their order, incoming-only keys append
	want := []string{"a", "nested", "b"}
	for i, f := range got.Fields {
		if f.String != want[i] {
			t.Fatalf("field %d: %q, want %q", i, f.String, want[i])
		}
	}
}

func TestLaterSourceWins(t *testing.T) {
	wantEqual(t, mustMerge(t, "a: 1", "a: 2"), "a: 2")
	// replacement is wholesale for non-mappings
	wantEqual(t, mustMerge(t, "a: [1, 2, 3]", "a: [9]"), "a: [9]")
	// type conflicts resolve by replacement too
	wantEqual(t, mustMerge(t, "a: {x: 1}", "a: 5"), "a: 5")
	wantEqual(t, mustMerge(t, "a: 5", "a: {x: 1}"), "a: {x: 1}")
}

func TestNotCommutative(t *testing.T) {
	ab := mustMerge(t, "a: 1", "a: 2")
	ba := mustMerge(t, "a: 2", "a: 1")
	if ir.Equal(ab, ba) {
		t.Fatal("merge order must be observable")
	}
}

func TestPriorities(t *testing.T) {
	// weak incoming loses to an existing value
	wantEqual(t, mustMerge(t, "a: 1", "a: !weak 2"), "a: 1")
	// weak fills a hole
	wantEqual(t, mustMerge(t, "b: 1", "a: !weak 2"), "b: 1\na: !weak 2")
	// forced base survives a later default
	wantEqual(t, mustMerge(t, "a: !force 1", "a: 2"), "a: !force 1")
	// forced incoming beats a forced base (later wins among equals)
	wantEqual(t, mustMerge(t, "a: !force 1", "a: !force 2"), "a: !force 2")
	// priority guards the leaf, not the container: deep merge recurses
	got := mustMerge(t, "m: !force {a: 1}", "m: {a: 2, b: 3}")
	m := ir.Get(got, "m")
	if m.Priority != ir.Forced {
		t.Errorf("container priority: %v", m.Priority)
	}
	if a := ir.Get(m, "a"); *a.Int64 != 1 || a.Priority != ir.Forced {
		t.Errorf("forced leaf must survive: %+v", a)
	}
	if b := ir.Get(m, "b"); b == nil || *b.Int64 != 3 || b.Priority != ir.Default {
		t.Errorf("new key joins at its own priority: %+v", b)
	}
}

func TestAppend(t *testing.T) {
	wantEqual(t, mustMerge(t, "l: [1, 2]", "l: !append [3]"), "l: [1, 2, 3]")
	// appends accumulate across sources
	wantEqual(t,
		mustMerge(t, "l: [0]", "l: !append [1]", "l: !append [2]"),
		"l: [0, 1, 2]")
	// append onto nothing stands as a plain list
	got := mustMerge(t, "other: 1", "l: !append [1]")
	l := ir.Get(got, "l")
	if l == nil || len(l.Values) != 1 {
		t.Fatalf("append without base: %+v", l)
	}
	// append onto a non-sequence replaces
	wantEqual(t, mustMerge(t, "l: 5", "l: !append [1]"), "l: !append [1]")
}

func TestDelete(t *testing.T) {
	wantEqual(t, mustMerge(t, "a: 1\nb: 2", "a: !del null"), "b: 2")
	// a forced base overrides deletion
	wantEqual(t, mustMerge(t, "a: !force 1", "a: !del null"), "a: !force 1")
	// a marker with no base survives to delete from an earlier base later
	marker := mustMerge(t, "a: !del null")
	if marker == nil || ir.Get(marker, "a").Mode != ir.Delete {
		t.Fatalf("marker must persist: %+v", marker)
	}
	// a later value consumes the marker
	wantEqual(t, mustMerge(t, "a: !del null", "a: 3"), "a: 3")
}

func TestGroupingAssociative(t *testing.T) {
	a := "x: 1\ny: 2\nl: [0]"
	b := "x: !del null\nl: !append [1]"
	c := "y: 3\nl: !append [2]"

	flat := mustMerge(t, a, b, c)

	ab, err := Merge([]*ir.Node{doc(t, a), doc(t, b)})
	if err != nil {
		t.Fatal(err)
	}
	left, err := Merge([]*ir.Node{ab, doc(t, c)})
	if err != nil {
		t.Fatal(err)
	}
	bc, err := Merge([]*ir.Node{doc(t, b), doc(t, c)})
	if err != nil {
		t.Fatal(err)
	}
	right, err := Merge([]*ir.Node{doc(t, a), bc})
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(flat, left) || !ir.Equal(flat, right) {
		t.Fatalf("grouping changed the result\nflat:  %+v\nleft:  %+v\nright: %+v", flat, left, right)
	}
	wantEqual(t, flat, "y: 3\nl: [0, 1, 2]")
}

func TestInputsUntouched(t *testing.T) {
	base := doc(t, "a: {b: 1}")
	in := doc(t, "a: {c: 2}")
	snapshot := base.Clone()
	if _, err := Merge([]*ir.Node{base, in}); err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(base, snapshot) {
		t.Fatal("merge mutated its input")
	}
}

func TestRelocation(t *testing.T) {
	wantEqual(t,
		mustMerge(t, "tmp: !move:final.here {a: 1}"),
		"final: {here: {a: 1}}")
	// a relocated node merges with whatever sits at the target
	wantEqual(t,
		mustMerge(t, "final: {b: 2}\ntmp: !move:final {a: 1}"),
		"final: {b: 2, a: 1}")
	// collisions resolve by priority
	wantEqual(t,
		mustMerge(t, "final: !force 1\ntmp: !move:final 2"),
		"final: !force 1")
}

func TestMetadataUnion(t *testing.T) {
	got := mustMerge(t,
		"node: !meta {meta: {help: old, keep: 1}, value: {a: 1}}",
		"node: !meta {meta: {help: new}, value: {b: 2}}",
	)
	n := ir.Get(got, "node")
	wantEqual(t, got, "node: {a: 1, b: 2}")
	if n.Meta == nil {
		t.Fatal("metadata dropped")
	}
	if ir.Get(n.Meta, "help").String != "new" {
		t.Errorf("incoming metadata wins: %+v", n.Meta)
	}
	if ir.Get(n.Meta, "keep") == nil {
		t.Errorf("base-only metadata survives: %+v", n.Meta)
	}
}

func TestPatchDirective(t *testing.T) {
	got := mustMerge(t,
		"svc: {replicas: 1, name: api}",
		`svc: !patch [{op: replace, path: /replicas, value: 3}, {op: add, path: /port, value: 8080}]`,
	)
	wantEqual(t, got, "svc: {replicas: 3, name: api, port: 8080}")

	_, err := Merge([]*ir.Node{
		doc(t, "svc: {a: 1}"),
		doc(t, `svc: !patch [{op: replace, path: /missing, value: 1}]`),
	})
	var perr *PatchError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PatchError, got %v", err)
	}
}

func TestUnknownModeError(t *testing.T) {
	base := ir.FromInt(1)
	in := ir.FromInt(2).WithMode(ir.Mode(9))
	_, err := Two(base, in)
	var terr *TypeConflictError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TypeConflictError, got %v", err)
	}
}

func TestStripMarkers(t *testing.T) {
	tree := doc(t, "a: !del null\nb: {c: !del null, d: 1}\nl: [!del null, 2]")
	got := StripMarkers(tree)
	wantEqual(t, got, "b: {d: 1}\nl: [2]")
	if StripMarkers(doc(t, "!del null")) != nil {
		t.Fatal("root marker strips to nil")
	}
}
