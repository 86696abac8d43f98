package include

import (
	"fmt"
	"slices"
	"strings"

	"github.com/strata-config/go-strata/debug"
	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/merge"
	"github.com/strata-config/go-strata/parse"
)

// CycleError reports an inclusion chain that loops back on itself. Stack
// lists the canonical paths in inclusion order; the last entry repeats
// the first offender.
type CycleError struct {
	Stack []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("include cycle: %s", strings.Join(e.Stack, " -> "))
}

// Resolver expands include nodes. It memoizes each loaded source by its
// canonical path, so diamond-shaped include graphs load every file once.
type Resolver struct {
	provider Provider
	memo     map[string]*ir.Node
	active   []string
}

func NewResolver(p Provider) *Resolver {
	return &Resolver{
		provider: p,
		memo:     map[string]*ir.Node{},
	}
}

// Expand replaces every !include node under root with the loaded and
// recursively expanded content. from is the canonical path of the file
// root was parsed from, or "" when it did not come from a file. The tree
// is modified in place and returned; when root itself is an include node
// the returned tree is a different node.
func (r *Resolver) Expand(root *ir.Node, from string) (*ir.Node, error) {
	return r.expandNode(root, from)
}

func (r *Resolver) expandNode(y *ir.Node, from string) (*ir.Node, error) {
	if y.Tag == ir.TagInclude {
		return r.expandInclude(y, from)
	}
	for i, v := range y.Values {
		nv, err := r.expandNode(v, from)
		if err != nil {
			return nil, err
		}
		if nv != v {
			nv.Parent = y
			nv.ParentIndex = i
			nv.ParentField = v.ParentField
			y.Values[i] = nv
		}
	}
	return y, nil
}

func (r *Resolver) expandInclude(y *ir.Node, from string) (*ir.Node, error) {
	var names []string
	switch y.Type {
	case ir.StringType:
		names = []string{y.String}
	case ir.ArrayType:
		for _, v := range y.Values {
			names = append(names, v.String)
		}
	}
	trees := make([]*ir.Node, 0, len(names))
	for _, name := range names {
		t, err := r.load(name, from)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	res, err := merge.Merge(trees)
	if err != nil {
		return nil, err
	}
	// the include node's own merge attributes govern how the spliced
	// content merges with later sources
	if y.Priority != ir.Default {
		res.Priority = y.Priority
	}
	if y.Mode != ir.Auto {
		res.Mode = y.Mode
	}
	if y.Relocate != "" {
		res.Relocate = y.Relocate
	}
	if y.Meta != nil {
		res.Meta = ir.MergeMeta(res.Meta, y.Meta)
	}
	return res, nil
}

func (r *Resolver) load(name, from string) (*ir.Node, error) {
	data, path, err := r.provider.Load(name, from)
	if err != nil {
		return nil, err
	}
	if slices.Contains(r.active, path) {
		return nil, &CycleError{Stack: append(slices.Clone(r.active), path)}
	}
	if t, ok := r.memo[path]; ok {
		return t.Clone(), nil
	}
	if debug.Include() {
		debug.Logf("include: loading %s (from %s)\n", path, from)
	}
	docs, err := parse.Parse(data, parse.WithFile(path))
	if err != nil {
		return nil, err
	}
	r.active = append(r.active, path)
	for i, doc := range docs {
		docs[i], err = r.expandNode(doc, path)
		if err != nil {
			r.active = r.active[:len(r.active)-1]
			return nil, err
		}
	}
	r.active = r.active[:len(r.active)-1]
	t, err := merge.Merge(docs)
	if err != nil {
		return nil, err
	}
	r.memo[path] = t
	return t.Clone(), nil
}
