package parse

import (
	"fmt"

	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/ir/kpath"
)

// applyTag folds a source tag into the node model. Directive tags become
// priority/mode/relocation/metadata settings and vanish; deferred tags are
// kept on the node for the evaluator; unknown tags pass through untouched
// (the tag registry is open).
func applyTag(tag string, inner *ir.Node) (*ir.Node, error) {
	head, suffix := ir.TagHead(tag)
	switch head {
	case "!weak":
		setPriority(inner, ir.Weak)
		return inner, nil
	case "!force":
		setPriority(inner, ir.Forced)
		return inner, nil
	case "!del":
		inner.Mode = ir.Delete
		return inner, nil
	case "!merge":
		inner.Mode = ir.Deep
		return inner, nil
	case "!replace":
		inner.Mode = ir.Replace
		return inner, nil
	case "!append", "!extend":
		seq := asSequence(inner)
		seq.Mode = ir.Append
		return seq, nil
	case "!include":
		switch inner.Type {
		case ir.StringType:
		case ir.ArrayType:
			for _, v := range inner.Values {
				if v.Type != ir.StringType {
					return nil, fmt.Errorf("!include list elements must be filenames, got %s", v.Type)
				}
			}
		default:
			return nil, fmt.Errorf("!include expects a filename or list of filenames, got %s", inner.Type)
		}
		return inner.WithTag(ir.TagInclude), nil
	case "!required":
		if inner.Type != ir.NullType {
			return nil, fmt.Errorf("!required does not take a value, got %s", inner.Type)
		}
		return inner.WithTag(ir.TagRequired), nil
	case "!ref", "!xref":
		if inner.Type != ir.StringType {
			return nil, fmt.Errorf("!ref expects a path string, got %s", inner.Type)
		}
		if _, err := kpath.Parse(inner.String); err != nil {
			return nil, fmt.Errorf("!ref %q: %w", inner.String, err)
		}
		return inner.WithTag(ir.TagRef), nil
	case "!path":
		seq := asSequence(inner)
		return seq.WithTag(tag), nil
	case "!fstr":
		if inner.Type != ir.StringType {
			return nil, fmt.Errorf("!fstr expects a string, got %s", inner.Type)
		}
		return inner.WithTag(ir.TagFStr), nil
	case "!expr":
		return inner.WithTag(ir.TagExpr), nil
	case "!dyn":
		if suffix == "" {
			return nil, fmt.Errorf("!dyn requires a provider expression name, e.g. !dyn:call")
		}
		return inner.WithTag(tag), nil
	case "!move":
		if suffix == "" {
			return nil, fmt.Errorf("!move requires a target path, e.g. !move:a.b")
		}
		p, err := kpath.Parse(suffix)
		if err != nil {
			return nil, fmt.Errorf("!move %q: %w", suffix, err)
		}
		if p.IsRel() {
			return nil, fmt.Errorf("!move target %q must be absolute", suffix)
		}
		inner.Relocate = suffix
		return inner, nil
	case "!meta":
		return applyMeta(inner)
	case "!patch":
		if inner.Type != ir.ArrayType {
			return nil, fmt.Errorf("!patch expects a list of patch operations, got %s", inner.Type)
		}
		return inner.WithTag(ir.TagPatch), nil
	default:
		return inner.WithTag(tag), nil
	}
}

// setPriority marks a whole subtree, skipping nodes an inner tag already
// marked explicitly.
func setPriority(y *ir.Node, p ir.Priority) {
	y.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if !isPost && n.Priority == ir.Default {
			n.Priority = p
		}
		return true, nil
	})
}

// asSequence coerces a scalar to a one-element sequence, so
// `!append 5` means `!append [5]`.
func asSequence(y *ir.Node) *ir.Node {
	if y.Type == ir.ArrayType {
		return y
	}
	seq := ir.FromSlice([]*ir.Node{y})
	seq.Origin = y.Origin
	return seq
}

// applyMeta handles `!meta {meta: <payload>, value: <node>}`: the payload
// is attached to the value node's metadata side channel.
func applyMeta(inner *ir.Node) (*ir.Node, error) {
	if inner.Type != ir.ObjectType {
		return nil, fmt.Errorf("!meta expects a mapping with meta and value keys, got %s", inner.Type)
	}
	payload := ir.Get(inner, "meta")
	if payload == nil {
		return nil, fmt.Errorf("!meta mapping is missing the meta key")
	}
	val := ir.Get(inner, "value")
	if val == nil {
		return nil, fmt.Errorf("!meta mapping is missing the value key")
	}
	if len(inner.Fields) != 2 {
		return nil, fmt.Errorf("!meta mapping has extra keys")
	}
	val = val.Detach()
	val.Meta = payload.Detach()
	val.Meta.Parent = nil
	return val, nil
}
