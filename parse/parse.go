package parse

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/strata-config/go-strata/debug"
	"github.com/strata-config/go-strata/ir"
)

// Parse parses a YAML document stream into one tree per document. Empty
// documents are skipped.
func Parse(d []byte, opts ...Option) ([]*ir.Node, error) {
	pOpts := newOpts(opts)
	f, err := parser.ParseBytes(d, 0)
	if err != nil {
		return nil, &Error{File: pOpts.file, Err: err}
	}
	st := &state{
		opts:    pOpts,
		anchors: map[string]*ir.Node{},
	}
	var res []*ir.Node
	for _, doc := range f.Docs {
		if doc.Body == nil {
			continue
		}
		node, err := fromAST(doc.Body, st)
		if err != nil {
			return nil, &Error{File: pOpts.file, Err: err}
		}
		if node == nil {
			continue
		}
		res = append(res, node)
	}
	if debug.Parse() {
		debug.Logf("parsed %d document(s) from %q\n", len(res), pOpts.file)
	}
	return res, nil
}

// ParseFile reads and parses one file.
func ParseFile(name string, opts ...Option) ([]*ir.Node, error) {
	d, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Parse(d, append(opts, WithFile(name))...)
}

type state struct {
	opts    *parseOpts
	anchors map[string]*ir.Node
}

func (st *state) origin() ir.Origin {
	return ir.Origin{Source: st.opts.source, File: st.opts.file}
}

func fromAST(n ast.Node, st *state) (*ir.Node, error) {
	var (
		res *ir.Node
		err error
	)
	switch v := n.(type) {
	case *ast.NullNode:
		res = ir.Null()
	case *ast.IntegerNode:
		res, err = fromInteger(v)
	case *ast.FloatNode:
		res = ir.FromFloat(v.Value)
	case *ast.InfinityNode:
		res = ir.FromFloat(v.Value)
	case *ast.NanNode:
		res = ir.FromFloat(math.NaN())
	case *ast.BoolNode:
		res = ir.FromBool(v.Value)
	case *ast.StringNode:
		res = fromString(v.Value)
	case *ast.LiteralNode:
		res = ir.FromString(v.Value.Value)
	case *ast.TagNode:
		inner, ierr := fromAST(v.Value, st)
		if ierr != nil {
			return nil, ierr
		}
		res, err = applyTag(v.Start.Value, inner)
	case *ast.MappingNode:
		res, err = fromMapping(v.Values, st)
	case *ast.MappingValueNode:
		res, err = fromMapping([]*ast.MappingValueNode{v}, st)
	case *ast.SequenceNode:
		res, err = fromSequence(v, st)
	case *ast.AnchorNode:
		name := v.Name.GetToken().Value
		inner, ierr := fromAST(v.Value, st)
		if ierr != nil {
			return nil, ierr
		}
		st.anchors[name] = inner
		res = inner
	case *ast.AliasNode:
		name := v.Value.GetToken().Value
		anchor, ok := st.anchors[name]
		if !ok {
			return nil, fmt.Errorf("unknown anchor %q", name)
		}
		res = anchor.Clone()
	default:
		return nil, fmt.Errorf("unsupported yaml node %T", n)
	}
	if err != nil {
		return nil, err
	}
	if res != nil && res.Origin == (ir.Origin{}) {
		res.Origin = st.origin()
	}
	return res, nil
}

func fromInteger(v *ast.IntegerNode) (*ir.Node, error) {
	switch x := v.Value.(type) {
	case int64:
		return ir.FromInt(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return ir.FromFloat(float64(x)), nil
		}
		return ir.FromInt(int64(x)), nil
	case int:
		return ir.FromInt(int64(x)), nil
	default:
		return nil, fmt.Errorf("unsupported integer representation %T", v.Value)
	}
}

// fromString handles the implicit f-string form: a plain string written as
// f"..." parses as a !fstr interpolation node.
func fromString(s string) *ir.Node {
	if len(s) >= 3 && strings.HasPrefix(s, `f"`) && strings.HasSuffix(s, `"`) {
		return ir.FromString(s[2 : len(s)-1]).WithTag(ir.TagFStr)
	}
	return ir.FromString(s)
}

func fromMapping(pairs []*ast.MappingValueNode, st *state) (*ir.Node, error) {
	var kvs []ir.KeyVal
	seen := map[string]bool{}
	var mergeIns []*ir.Node
	for _, pair := range pairs {
		if _, isMerge := pair.Key.(*ast.MergeKeyNode); isMerge {
			in, err := fromAST(pair.Value, st)
			if err != nil {
				return nil, err
			}
			if in.Type != ir.ObjectType {
				return nil, fmt.Errorf("'<<' expects a mapping, got %s", in.Type)
			}
			mergeIns = append(mergeIns, in)
			continue
		}
		key, err := keyString(pair.Key)
		if err != nil {
			return nil, err
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate mapping key %q", key)
		}
		seen[key] = true
		val, err := fromAST(pair.Value, st)
		if err != nil {
			return nil, err
		}
		keyNode := ir.FromString(key)
		keyNode.Origin = st.origin()
		kvs = append(kvs, ir.KeyVal{Key: keyNode, Val: val})
	}
	res := ir.FromKeyVals(kvs)
	// yaml merge keys: explicit keys win over merged-in ones
	for _, in := range mergeIns {
		for i := range in.Fields {
			key := in.Fields[i].String
			if seen[key] {
				continue
			}
			seen[key] = true
			ir.Set(res, key, in.Values[i])
		}
	}
	return res, nil
}

func keyString(n ast.Node) (string, error) {
	switch v := n.(type) {
	case *ast.StringNode:
		return v.Value, nil
	case *ast.IntegerNode, *ast.BoolNode, *ast.FloatNode:
		return n.GetToken().Value, nil
	default:
		return "", fmt.Errorf("unsupported mapping key %T", n)
	}
}

func fromSequence(v *ast.SequenceNode, st *state) (*ir.Node, error) {
	vals := make([]*ir.Node, 0, len(v.Values))
	for _, el := range v.Values {
		y, err := fromAST(el, st)
		if err != nil {
			return nil, err
		}
		vals = append(vals, y)
	}
	return ir.FromSlice(vals), nil
}
