package eval

import (
	"slices"
	"strings"

	"github.com/strata-config/go-strata/debug"
	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/ir/kpath"
	"github.com/strata-config/go-strata/refgraph"
)

// Evaluator resolves deferred nodes. Provider handles !dyn expressions
// and overrides the built-in handling of !expr; when nil, !expr uses
// ExprProvider and !dyn fails.
type Evaluator struct {
	Provider DynamicProvider
}

// Evaluate returns a concrete copy of root with every deferred node
// replaced by its computed value. root is not modified.
func (e *Evaluator) Evaluate(root *ir.Node) (*ir.Node, error) {
	tree := root.Clone()
	g, err := refgraph.Build(tree)
	if err != nil {
		return nil, err
	}
	r := &run{
		ev:    e,
		tree:  tree,
		graph: g,
		state: map[string]visitState{},
	}
	for _, p := range g.Paths() {
		if err := r.resolve(p); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

type visitState int8

const (
	unvisited visitState = iota
	inProgress
	visitDone
)

type run struct {
	ev    *Evaluator
	tree  *ir.Node
	graph *refgraph.Graph
	state map[string]visitState
	stack []string
}

func (r *run) resolve(p string) error {
	switch r.state[p] {
	case visitDone:
		return nil
	case inProgress:
		i := slices.Index(r.stack, p)
		return &DependencyCycleError{Paths: append(slices.Clone(r.stack[i:]), p)}
	}
	r.state[p] = inProgress
	r.stack = append(r.stack, p)
	for _, d := range r.graph.Deps(p) {
		if r.graph.Node(d) == nil {
			continue
		}
		if err := r.resolve(d); err != nil {
			return err
		}
	}
	node := r.graph.Node(p)
	val, err := r.evalNode(p, node)
	r.stack = r.stack[:len(r.stack)-1]
	if err != nil {
		return err
	}
	r.state[p] = visitDone
	if debug.Eval() {
		debug.Logf("eval: %s resolved\n", p)
	}
	splice(node, val)
	return nil
}

func (r *run) evalNode(p string, node *ir.Node) (*ir.Node, error) {
	head, suffix := ir.TagHead(node.Tag)
	switch head {
	case ir.TagRequired:
		return nil, &MissingRequiredError{Path: p}
	case ir.TagRef:
		t, err := r.readTarget(p, node, node.String)
		if err != nil {
			return nil, err
		}
		return t.Clone(), nil
	case ir.TagPath:
		return r.evalPath(p, node, suffix)
	case ir.TagFStr:
		s, err := r.interpolate(p, node)
		if err != nil {
			return nil, err
		}
		res := ir.FromString(s)
		res.Origin = node.Origin
		return res, nil
	case ir.TagExpr:
		return r.evalDynamic(p, node, "expr")
	case ir.TagDyn:
		return r.evalDynamic(p, node, suffix)
	}
	// unknown deferred tags cannot happen: the registry maps every
	// deferred kind to a case above
	return node.Clone(), nil
}

func (r *run) evalDynamic(p string, node *ir.Node, name string) (*ir.Node, error) {
	provider := r.ev.Provider
	if provider == nil {
		if name != "expr" {
			return nil, &ProviderError{Path: p, Name: name, Err: errNoProvider}
		}
		provider = ExprProvider{}
	}
	deps, err := r.depValues(p, node)
	if err != nil {
		return nil, err
	}
	payload := node.Clone()
	payload.Tag = ""
	val, err := provider.Eval(name, payload, deps)
	if err != nil {
		return nil, &ProviderError{Path: p, Name: name, Err: err}
	}
	return val, nil
}

// depValues reads the node's declared dependencies, a mapping under the
// payload's deps key of name to target path.
func (r *run) depValues(p string, node *ir.Node) (map[string]*ir.Node, error) {
	res := map[string]*ir.Node{}
	if node.Type != ir.ObjectType {
		return res, nil
	}
	deps := ir.Get(node, "deps")
	if deps == nil || deps.Type != ir.ObjectType {
		return res, nil
	}
	for i, f := range deps.Fields {
		v := deps.Values[i]
		if v.Type != ir.StringType {
			continue
		}
		t, err := r.readTarget(p, node, v.String)
		if err != nil {
			return nil, err
		}
		res[f.String] = t
	}
	return res, nil
}

// readTarget resolves a reference target against the referencing node and
// returns the concrete value it names.
func (r *run) readTarget(p string, node *ir.Node, target string) (*ir.Node, error) {
	tp, err := kpath.Parse(target)
	if err != nil {
		return nil, &UnresolvedReferenceError{Path: p, Target: target}
	}
	abs, err := tp.Resolve(node.Path())
	if err != nil {
		return nil, &UnresolvedReferenceError{Path: p, Target: target}
	}
	t := r.tree.GetPath(abs)
	if t == nil || t.IsDeferred() {
		return nil, &UnresolvedReferenceError{Path: p, Target: abs.String()}
	}
	return t, nil
}

// interpolate renders a template string, replacing each ${path} with the
// stringified value at the path. "$${" escapes a literal "${"; an
// unterminated reference stays literal.
func (r *run) interpolate(p string, node *ir.Node) (string, error) {
	s := node.String
	var b strings.Builder
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			b.WriteString(s)
			return b.String(), nil
		}
		if i > 0 && s[i-1] == '$' {
			b.WriteString(s[:i-1])
			b.WriteString("${")
			s = s[i+2:]
			continue
		}
		b.WriteString(s[:i])
		end := strings.IndexByte(s[i+2:], '}')
		if end < 0 {
			b.WriteString(s[i:])
			return b.String(), nil
		}
		t, err := r.readTarget(p, node, s[i+2:i+2+end])
		if err != nil {
			return "", err
		}
		b.WriteString(stringify(t))
		s = s[i+2+end+1:]
	}
}

// splice replaces node's content with val in place, keeping node's
// position in its tree so other pointers into the tree stay valid.
func splice(node, val *ir.Node) {
	parent, idx, field := node.Parent, node.ParentIndex, node.ParentField
	*node = *val
	node.Parent, node.ParentIndex, node.ParentField = parent, idx, field
	for i, v := range node.Values {
		v.Parent = node
		v.ParentIndex = i
	}
	for i, f := range node.Fields {
		f.Parent = node
		f.ParentIndex = i
	}
	node.Relocate = ""
	node.Mode = ir.Auto
}
