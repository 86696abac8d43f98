package eval

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/merge"
	"github.com/strata-config/go-strata/parse"
)

func doc(t *testing.T, s string, opts ...parse.Option) *ir.Node {
	t.Helper()
	docs, err := parse.Parse([]byte(s), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return docs[0]
}

func evaluate(t *testing.T, s string, opts ...parse.Option) *ir.Node {
	t.Helper()
	ev := &Evaluator{}
	res, err := ev.Evaluate(doc(t, s, opts...))
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func getString(t *testing.T, y *ir.Node, path string) string {
	t.Helper()
	n, err := y.GetKPath(path)
	if err != nil || n == nil {
		t.Fatalf("get %q: %v %v", path, n, err)
	}
	return n.String
}

func TestRefChain(t *testing.T) {
	got := evaluate(t, `
a: !ref b
b: !ref c
c: 5
`)
	for _, p := range []string{"a", "b", "c"} {
		n, _ := got.GetKPath(p)
		if n.Int64 == nil || *n.Int64 != 5 {
			t.Errorf("%s: %+v", p, n)
		}
	}
}

func TestRelativeRef(t *testing.T) {
	got := evaluate(t, `
svc:
  host: db.internal
  url: !ref ^host
`)
	if s := getString(t, got, "svc.url"); s != "db.internal" {
		t.Fatalf("relative ref: %q", s)
	}
}

func TestRefCopies(t *testing.T) {
	got := evaluate(t, "a: !ref b\nb: {x: 1}")
	a, _ := got.GetKPath("a")
	b, _ := got.GetKPath("b")
	if !ir.Equal(a, b) {
		t.Fatal("ref yields the target value")
	}
	ir.Set(a, "x", ir.FromInt(2))
	if *ir.Get(b, "x").Int64 != 1 {
		t.Fatal("ref must copy, not alias")
	}
}

func TestRequired(t *testing.T) {
	ev := &Evaluator{}
	_, err := ev.Evaluate(doc(t, "model: {classes: !required null}"))
	var merr *MissingRequiredError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MissingRequiredError, got %v", err)
	}
	if merr.Path != "model.classes" {
		t.Fatalf("path: %q", merr.Path)
	}
}

func TestRequiredReplacedByMerge(t *testing.T) {
	trees := []*ir.Node{
		doc(t, "model: {classes: !required null, depth: 50}"),
		doc(t, "model: {classes: 100}"),
	}
	merged, err := merge.Merge(trees)
	if err != nil {
		t.Fatal(err)
	}
	ev := &Evaluator{}
	got, err := ev.Evaluate(merged)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, doc(t, "model: {classes: 100, depth: 50}")) {
		t.Fatalf("got %+v", got)
	}
}

func TestFStr(t *testing.T) {
	got := evaluate(t, `
user: {name: ada, id: 7}
enabled: true
none: null
items: [1, two]
greeting: f"Hello ${user.name}, id ${user.id}!"
flags: f"on=${enabled} empty=${none}"
listing: 'f"all=${items}"'
literal: 'f"cost: $${price}"'
`)
	if s := getString(t, got, "greeting"); s != "Hello ada, id 7!" {
		t.Errorf("greeting: %q", s)
	}
	if s := getString(t, got, "flags"); s != "on=true empty=" {
		t.Errorf("flags: %q", s)
	}
	if s := getString(t, got, "listing"); s != "all=[1, two]" {
		t.Errorf("containers render as flow yaml: %q", s)
	}
	if s := getString(t, got, "literal"); s != "cost: ${price}" {
		t.Errorf("escape: %q", s)
	}
}

func TestFStrOfFStr(t *testing.T) {
	got := evaluate(t, `
base: f"${scheme}://${host}"
scheme: https
host: example.com
full: f"${base}/v1"
`)
	if s := getString(t, got, "full"); s != "https://example.com/v1" {
		t.Fatalf("chained templates: %q", s)
	}
}

func TestPathJoin(t *testing.T) {
	got := evaluate(t, `
root: !path ["/x", m1]
`)
	want := filepath.Join(".", "/x", "m1")
	if s := getString(t, got, "root"); s != want {
		t.Fatalf("path join: %q, want %q", s, want)
	}
}

func TestPathJoinFileRefPoint(t *testing.T) {
	got := evaluate(t, `
data: !path:file [data, input.bin]
up: !path:parent [shared]
`, parse.WithFile("/cfg/app/conf.yaml"))
	if s := getString(t, got, "data"); s != filepath.Join("/cfg/app", "data", "input.bin") {
		t.Errorf("file ref point: %q", s)
	}
	if s := getString(t, got, "up"); s != filepath.Join("/cfg", "shared") {
		t.Errorf("parent ref point: %q", s)
	}
}

func TestPathJoinSegmentsMayBeDeferred(t *testing.T) {
	got := evaluate(t, `
m: m1
root: !path
- "/x"
- f"${m}"
`)
	if s := getString(t, got, "root"); s != filepath.Join(".", "/x", "m1") {
		t.Fatalf("deferred segment: %q", s)
	}
}

func TestPathJoinErrors(t *testing.T) {
	ev := &Evaluator{}
	for _, s := range []string{
		"p: !path:bogus [a]",
		"p: !path:abs(rel) [a]",
		"p: !path:file [a]",
		"p: !path [{not: scalar}]",
	} {
		_, err := ev.Evaluate(doc(t, s))
		var perr *PathJoinError
		if !errors.As(err, &perr) {
			t.Errorf("%s: expected PathJoinError, got %v", s, err)
		}
	}
}

func TestExpr(t *testing.T) {
	got := evaluate(t, `
lr: 0.1
epochs: 10
total: !expr {expr: "lr * epochs", deps: {lr: lr, epochs: epochs}}
`)
	n, _ := got.GetKPath("total")
	if n.Float64 == nil || *n.Float64 != 1.0 {
		t.Fatalf("expr: %+v", n)
	}
}

func TestExprStringForm(t *testing.T) {
	got := evaluate(t, `answer: !expr "6 * 7"`)
	n, _ := got.GetKPath("answer")
	if n.Int64 == nil || *n.Int64 != 42 {
		t.Fatalf("expr: %+v", n)
	}
}

type upperProvider struct{}

func (upperProvider) Eval(name string, payload *ir.Node, deps map[string]*ir.Node) (*ir.Node, error) {
	if name != "upper" {
		return nil, fmt.Errorf("unknown expression %q", name)
	}
	src := deps["src"]
	if src == nil {
		return nil, fmt.Errorf("missing src dep")
	}
	out := []rune(src.String)
	for i, r := range out {
		if 'a' <= r && r <= 'z' {
			out[i] = r - 'a' + 'A'
		}
	}
	return ir.FromString(string(out)), nil
}

func TestDynProvider(t *testing.T) {
	ev := &Evaluator{Provider: upperProvider{}}
	got, err := ev.Evaluate(doc(t, `
name: ada
shout: !dyn:upper {deps: {src: name}}
`))
	if err != nil {
		t.Fatal(err)
	}
	if s := getString(t, got, "shout"); s != "ADA" {
		t.Fatalf("dyn: %q", s)
	}
}

func TestDynWithoutProvider(t *testing.T) {
	ev := &Evaluator{}
	_, err := ev.Evaluate(doc(t, "x: !dyn:call {fn: f}"))
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Name != "call" || perr.Path != "x" {
		t.Fatalf("provider error details: %+v", perr)
	}
}

func TestDependencyCycle(t *testing.T) {
	ev := &Evaluator{}
	_, err := ev.Evaluate(doc(t, "a: !ref b\nb: !ref a"))
	var cerr *DependencyCycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected DependencyCycleError, got %v", err)
	}
	if len(cerr.Paths) < 2 {
		t.Fatalf("cycle names its members: %v", cerr.Paths)
	}
}

func TestSelfRefCycle(t *testing.T) {
	ev := &Evaluator{}
	_, err := ev.Evaluate(doc(t, "a: !ref a"))
	var cerr *DependencyCycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected DependencyCycleError, got %v", err)
	}
	if !slices.Contains(cerr.Paths, "a") {
		t.Fatalf("cycle names its member: %v", cerr.Paths)
	}
}

func TestContainerRefCycle(t *testing.T) {
	// referencing an enclosing container reads the referencing node itself
	ev := &Evaluator{}
	_, err := ev.Evaluate(doc(t, "a: {b: !ref a}"))
	var cerr *DependencyCycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected DependencyCycleError, got %v", err)
	}
	if !slices.Contains(cerr.Paths, "a.b") {
		t.Fatalf("cycle names its member: %v", cerr.Paths)
	}
}

func TestRefIntoDeferredTarget(t *testing.T) {
	// a.x only exists once a itself resolves; document order must not matter
	for _, src := range []string{
		"a: !ref c\nb: !ref a.x\nc: {x: 5}",
		"b: !ref a.x\na: !ref c\nc: {x: 5}",
	} {
		got := evaluate(t, src)
		v := ir.Get(got, "b")
		if v == nil || v.Int64 == nil || *v.Int64 != 5 {
			t.Fatalf("b in %q: %+v", src, v)
		}
	}
}

func TestUnresolvedReference(t *testing.T) {
	ev := &Evaluator{}
	_, err := ev.Evaluate(doc(t, "a: !ref missing.path"))
	var uerr *UnresolvedReferenceError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnresolvedReferenceError, got %v", err)
	}
	if uerr.Target != "missing.path" {
		t.Fatalf("target: %q", uerr.Target)
	}
}

func TestIdempotentOnConcrete(t *testing.T) {
	src := "a: 1\nb: {c: [x, y]}"
	first := evaluate(t, src)
	ev := &Evaluator{}
	second, err := ev.Evaluate(first)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(first, second) || !ir.Equal(first, doc(t, src)) {
		t.Fatal("evaluation must be idempotent on concrete trees")
	}
}

func TestInputUntouched(t *testing.T) {
	in := doc(t, "a: !ref b\nb: 1")
	snapshot := in.Clone()
	ev := &Evaluator{}
	if _, err := ev.Evaluate(in); err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(in, snapshot) {
		t.Fatal("evaluate mutated its input")
	}
}
