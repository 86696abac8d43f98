package ir

import (
	"github.com/strata-config/go-strata/ir/kpath"
)

// KPath returns the kinded path string of this node's position in its tree.
//
// Examples:
//   - Root node → ""
//   - Object field "a" → "a"
//   - Array element at index 0 → "[0]"
//   - Nested "a.b[0].c" → "a.b[0].c"
func (y *Node) KPath() string {
	return y.Path().String()
}

// Path returns the node's absolute path from its tree root.
func (y *Node) Path() *kpath.Path {
	if y.Parent == nil {
		return &kpath.Path{}
	}
	p := y.Parent.Path()
	switch y.Parent.Type {
	case ObjectType:
		return p.Child(kpath.Field(y.ParentField))
	case ArrayType:
		return p.Child(kpath.Index(y.ParentIndex))
	default:
		panic("parent but not in container")
	}
}

// GetKPath navigates the tree from y using a kinded path string. It returns
// the node itself, not a copy, or nil when the path does not exist.
func (y *Node) GetKPath(kp string) (*Node, error) {
	p, err := kpath.Parse(kp)
	if err != nil {
		return nil, err
	}
	return y.GetPath(p), nil
}

// GetPath navigates the tree from y along an absolute parsed path,
// returning nil when any step is missing or mistyped.
func (y *Node) GetPath(p *kpath.Path) *Node {
	res := y
	for _, seg := range p.Segs {
		if res == nil {
			return nil
		}
		switch {
		case seg.Field != nil:
			if res.Type != ObjectType {
				return nil
			}
			res = Get(res, *seg.Field)
		case seg.Index != nil:
			if res.Type != ArrayType {
				return nil
			}
			i := *seg.Index
			if i < 0 || i >= len(res.Values) {
				return nil
			}
			res = res.Values[i]
		}
	}
	return res
}

// SetPath places val at path p under y, creating intermediate object nodes
// for missing field segments. Index segments must already exist, except
// an index one past the end of an array, which appends.
func (y *Node) SetPath(p *kpath.Path, val *Node) error {
	cur := y
	for i, seg := range p.Segs {
		last := i == len(p.Segs)-1
		switch {
		case seg.Field != nil:
			if cur.Type != ObjectType {
				return &PathTypeError{Path: (&kpath.Path{Segs: p.Segs[:i]}).String(), Want: ObjectType, Got: cur.Type}
			}
			if last {
				Set(cur, *seg.Field, val)
				return nil
			}
			next := Get(cur, *seg.Field)
			if next == nil {
				next = &Node{Type: ObjectType}
				Set(cur, *seg.Field, next)
			}
			cur = next
		case seg.Index != nil:
			if cur.Type != ArrayType {
				return &PathTypeError{Path: (&kpath.Path{Segs: p.Segs[:i]}).String(), Want: ArrayType, Got: cur.Type}
			}
			idx := *seg.Index
			if idx == len(cur.Values) {
				val.Parent = cur
				val.ParentIndex = idx
				cur.Values = append(cur.Values, val)
				if !last {
					return &PathMissingError{Path: p.String()}
				}
				return nil
			}
			if idx < 0 || idx > len(cur.Values) {
				return &PathMissingError{Path: p.String()}
			}
			if last {
				val.Parent = cur
				val.ParentIndex = idx
				cur.Values[idx] = val
				return nil
			}
			cur = cur.Values[idx]
		}
	}
	// empty path: replace y's content in place
	val.Parent = y.Parent
	val.ParentIndex = y.ParentIndex
	val.ParentField = y.ParentField
	*y = *val
	return nil
}

// Detach removes y from its parent container and returns it. Detaching a
// root is a no-op.
func (y *Node) Detach() *Node {
	p := y.Parent
	if p == nil {
		return y
	}
	switch p.Type {
	case ObjectType:
		return Remove(p, y.ParentField)
	case ArrayType:
		return RemoveAt(p, y.ParentIndex)
	}
	return y
}
