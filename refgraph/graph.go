package refgraph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/strata-config/go-strata/debug"
	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/ir/kpath"
)

// Graph is the dependency graph over a tree's deferred nodes. Vertices
// are kinded paths; edges run from a node to the paths it reads. Paths of
// targets that resolve nowhere in the tree are recorded as dangling
// rather than failing the build, since whether a dangling target is an
// error is the evaluator's call.
type Graph struct {
	root     *ir.Node
	order    []string
	nodes    map[string]*ir.Node
	deps     map[string][]string
	dangling map[string][]string
}

// TargetError reports a reference target that could not be parsed or
// anchored.
type TargetError struct {
	Path   string
	Target string
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("reference at %q: target %q: %v", e.Path, e.Target, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }

// Build scans root for deferred nodes and extracts each one's read set.
func Build(root *ir.Node) (*Graph, error) {
	g := &Graph{
		root:     root,
		nodes:    map[string]*ir.Node{},
		deps:     map[string][]string{},
		dangling: map[string][]string{},
	}
	err := root.Visit(func(y *ir.Node, isPost bool) (bool, error) {
		if isPost || !y.IsDeferred() {
			return true, nil
		}
		p := y.KPath()
		g.order = append(g.order, p)
		g.nodes[p] = y
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	for _, p := range g.order {
		if err := g.extract(p, g.nodes[p]); err != nil {
			return nil, err
		}
	}
	if debug.Graph() {
		for _, p := range g.order {
			debug.Logf("graph: %s -> %v\n", p, g.deps[p])
		}
	}
	return g, nil
}

// Paths returns the deferred node paths in document order.
func (g *Graph) Paths() []string { return slices.Clone(g.order) }

// Node returns the deferred node at a path, nil if the path is not a
// vertex.
func (g *Graph) Node(path string) *ir.Node { return g.nodes[path] }

// Deps returns the paths a vertex reads, in extraction order.
func (g *Graph) Deps(path string) []string { return slices.Clone(g.deps[path]) }

// Dangling returns the vertex's targets that resolve to nothing.
func (g *Graph) Dangling(path string) []string { return slices.Clone(g.dangling[path]) }

// extract computes the read set of one deferred node.
func (g *Graph) extract(p string, y *ir.Node) error {
	head, _ := ir.TagHead(y.Tag)
	switch head {
	case ir.TagRef:
		if err := g.addTarget(p, y, y.String); err != nil {
			return err
		}
	case ir.TagFStr:
		for _, t := range TemplateRefs(y.String) {
			if err := g.addTarget(p, y, t); err != nil {
				return err
			}
		}
	case ir.TagExpr, ir.TagDyn:
		if y.Type == ir.ObjectType {
			if deps := ir.Get(y, "deps"); deps != nil && deps.Type == ir.ObjectType {
				for _, v := range deps.Values {
					if v.Type != ir.StringType {
						continue
					}
					if err := g.addTarget(p, y, v.String); err != nil {
						return err
					}
				}
			}
		}
	}
	// nested deferred nodes evaluate before their enclosing node
	g.addNearestDeferred(p, y)
	return nil
}

// addTarget resolves a reference target against the referencing node and
// adds the resulting edges. A target naming a container depends on every
// deferred node inside it, so reading the container sees concrete values.
func (g *Graph) addTarget(p string, y *ir.Node, target string) error {
	tp, err := kpath.Parse(target)
	if err != nil {
		return &TargetError{Path: p, Target: target, Err: err}
	}
	abs, err := tp.Resolve(y.Path())
	if err != nil {
		return &TargetError{Path: p, Target: target, Err: err}
	}
	node := g.root.GetPath(abs)
	if node == nil {
		// the path may come to exist once a deferred ancestor resolves,
		// so order after the nearest existing ancestor when it is one
		if anc := g.nearestExisting(abs); anc != nil && anc.IsDeferred() {
			g.addDep(p, anc.KPath())
			return nil
		}
		g.dangling[p] = append(g.dangling[p], abs.String())
		g.addDep(p, abs.String())
		return nil
	}
	if node.IsDeferred() {
		g.addDep(p, node.KPath())
		return nil
	}
	if node.Type == ir.ObjectType || node.Type == ir.ArrayType {
		g.addNearestDeferred(p, node)
	}
	g.addDep(p, abs.String())
	return nil
}

// nearestExisting walks up from a missing path to the closest ancestor
// present in the tree.
func (g *Graph) nearestExisting(p *kpath.Path) *ir.Node {
	for len(p.Segs) > 0 {
		p = p.Parent()
		if n := g.root.GetPath(p); n != nil {
			return n
		}
	}
	return nil
}

// addNearestDeferred adds an edge to each outermost deferred node strictly
// below y.
func (g *Graph) addNearestDeferred(p string, y *ir.Node) {
	for _, v := range y.Values {
		if v.IsDeferred() {
			g.addDep(p, v.KPath())
			continue
		}
		g.addNearestDeferred(p, v)
	}
}

// addDep records an edge. A self edge is kept: a node that reads itself,
// directly or through an enclosing container, is a cycle and must surface
// as one rather than evaluate against its own unresolved value.
func (g *Graph) addDep(p, dep string) {
	if slices.Contains(g.deps[p], dep) {
		return
	}
	g.deps[p] = append(g.deps[p], dep)
}

// Topo returns the vertices in dependency order, dependencies first. The
// order is deterministic: ties break by document order. Dangling targets
// and edges to concrete paths impose no ordering. An error means the
// graph has a cycle; Cycle names it.
func (g *Graph) Topo() ([]string, error) {
	indeg := map[string]int{}
	out := map[string][]string{}
	for _, p := range g.order {
		indeg[p] = 0
	}
	for _, p := range g.order {
		for _, d := range g.deps[p] {
			if _, ok := g.nodes[d]; !ok {
				continue
			}
			out[d] = append(out[d], p)
			indeg[p]++
		}
	}
	var queue []string
	for _, p := range g.order {
		if indeg[p] == 0 {
			queue = append(queue, p)
		}
	}
	var res []string
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		res = append(res, p)
		for _, q := range out[p] {
			indeg[q]--
			if indeg[q] == 0 {
				queue = append(queue, q)
			}
		}
	}
	if len(res) != len(g.order) {
		return nil, fmt.Errorf("dependency cycle through: %s", strings.Join(g.Cycle(), ", "))
	}
	return res, nil
}

// Cycle returns the vertices participating in cycles, in document order,
// or nil when the graph is acyclic. It repeatedly peels vertices with no
// remaining dependents or dependencies; what cannot be peeled is cyclic.
func (g *Graph) Cycle() []string {
	indeg := map[string]int{}
	outdeg := map[string]int{}
	out := map[string][]string{}
	in := map[string][]string{}
	for _, p := range g.order {
		for _, d := range g.deps[p] {
			if _, ok := g.nodes[d]; !ok {
				continue
			}
			out[d] = append(out[d], p)
			in[p] = append(in[p], d)
			indeg[p]++
			outdeg[d]++
		}
	}
	alive := map[string]bool{}
	for _, p := range g.order {
		alive[p] = true
	}
	for changed := true; changed; {
		changed = false
		for _, p := range g.order {
			if !alive[p] {
				continue
			}
			if indeg[p] == 0 || outdeg[p] == 0 {
				alive[p] = false
				changed = true
				for _, q := range out[p] {
					indeg[q]--
				}
				for _, q := range in[p] {
					outdeg[q]--
				}
			}
		}
	}
	var res []string
	for _, p := range g.order {
		if alive[p] {
			res = append(res, p)
		}
	}
	return res
}
