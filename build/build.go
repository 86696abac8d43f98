// Package build ties the pipeline together: parse the sources, expand
// includes, merge left to right, evaluate. A Builder collects sources in
// priority order (earliest weakest) and can be built repeatedly; every
// Build starts from freshly parsed trees.
package build

import (
	"os"
	"path/filepath"

	"github.com/strata-config/go-strata/eval"
	"github.com/strata-config/go-strata/include"
	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/merge"
	"github.com/strata-config/go-strata/parse"
)

type Builder struct {
	provider include.Provider
	dyn      eval.DynamicProvider
	srcs     []source
}

type source struct {
	file string
	data []byte
	tree *ir.Node
}

type Option func(*Builder)

// WithIncludeProvider overrides where !include sources load from.
func WithIncludeProvider(p include.Provider) Option {
	return func(b *Builder) { b.provider = p }
}

// WithLookupDirs adds extra directories searched for relative include
// names after the including file's own directory.
func WithLookupDirs(dirs ...string) Option {
	return func(b *Builder) { b.provider = &include.FileProvider{Dirs: dirs} }
}

// WithDynamicProvider routes !dyn and !expr nodes to p.
func WithDynamicProvider(p eval.DynamicProvider) Option {
	return func(b *Builder) { b.dyn = p }
}

func New(opts ...Option) *Builder {
	b := &Builder{provider: &include.FileProvider{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddFile queues a file source. The file is read at Build time.
func (b *Builder) AddFile(path string) *Builder {
	b.srcs = append(b.srcs, source{file: path})
	return b
}

// AddBytes queues an in-memory source.
func (b *Builder) AddBytes(d []byte) *Builder {
	b.srcs = append(b.srcs, source{data: d})
	return b
}

// AddOverride queues a "path=value" override, the strongest kind of
// source when placed last.
func (b *Builder) AddOverride(s string) error {
	t, err := parse.Override(s)
	if err != nil {
		return err
	}
	b.srcs = append(b.srcs, source{tree: t})
	return nil
}

// Build runs the full pipeline and returns the evaluated tree.
func (b *Builder) Build() (*ir.Node, error) {
	tree, err := b.merged()
	if err != nil {
		return nil, err
	}
	stripped := merge.StripMarkers(tree)
	if stripped == nil {
		stripped = ir.Null()
	}
	ev := &eval.Evaluator{Provider: b.dyn}
	return ev.Evaluate(stripped)
}

// BuildMerged runs parsing, include expansion and merging but not
// evaluation, so deferred tags and merge markers stay visible.
func (b *Builder) BuildMerged() (*ir.Node, error) {
	return b.merged()
}

func (b *Builder) merged() (*ir.Node, error) {
	resolver := include.NewResolver(b.provider)
	var trees []*ir.Node
	for i, src := range b.srcs {
		if src.tree != nil {
			trees = append(trees, src.tree.Clone())
			continue
		}
		data, file := src.data, ""
		if src.file != "" {
			abs, err := filepath.Abs(src.file)
			if err != nil {
				return nil, err
			}
			file = abs
			data, err = os.ReadFile(abs)
			if err != nil {
				return nil, err
			}
		}
		docs, err := parse.Parse(data, parse.WithFile(file), parse.WithSource(i))
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			expanded, err := resolver.Expand(doc, file)
			if err != nil {
				return nil, err
			}
			trees = append(trees, expanded)
		}
	}
	return merge.Merge(trees)
}
