// Package kpath implements the kinded path syntax used to address nodes in
// a strata tree.
//
// Absolute paths name a node from the tree root:
//
//	a.b          field b of object a
//	a[0].c       field c of element 0 of array a
//	"odd key".x  quoted fields may contain any character
//
// Relative paths start with one or more '^': a single '^' resolves against
// the parent of the referencing node, and each additional '^' walks one
// level higher before the remaining segments descend. The empty path names
// the root.
package kpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is a single path step: exactly one of Field or Index is set.
type Segment struct {
	Field *string
	Index *int
}

func Field(name string) Segment {
	return Segment{Field: &name}
}

func Index(i int) Segment {
	return Segment{Index: &i}
}

func (s Segment) String() string {
	if s.Field != nil {
		return quoteField(*s.Field)
	}
	if s.Index != nil {
		return fmt.Sprintf("[%d]", *s.Index)
	}
	return ""
}

// Path is a parsed kinded path. Up is the number of leading '^' marks; a
// path with Up == 0 is absolute.
type Path struct {
	Up   int
	Segs []Segment
}

func (p *Path) IsRel() bool {
	return p != nil && p.Up > 0
}

func (p *Path) String() string {
	if p == nil {
		return ""
	}
	b := &strings.Builder{}
	for range p.Up {
		b.WriteByte('^')
	}
	for i, seg := range p.Segs {
		if seg.Field != nil && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// Child returns a copy of p extended with seg.
func (p *Path) Child(seg Segment) *Path {
	res := &Path{Up: p.Up}
	res.Segs = make([]Segment, len(p.Segs), len(p.Segs)+1)
	copy(res.Segs, p.Segs)
	res.Segs = append(res.Segs, seg)
	return res
}

// Parent returns a copy of p without its last segment. The parent of the
// root is the root.
func (p *Path) Parent() *Path {
	if len(p.Segs) == 0 {
		return &Path{Up: p.Up}
	}
	res := &Path{Up: p.Up}
	res.Segs = append(res.Segs, p.Segs[:len(p.Segs)-1]...)
	return res
}

// HasPrefix reports whether q is a prefix of p, segment-wise. Both paths
// must be absolute. Every path has the root as a prefix.
func (p *Path) HasPrefix(q *Path) bool {
	if len(q.Segs) > len(p.Segs) {
		return false
	}
	for i, seg := range q.Segs {
		if !segEq(seg, p.Segs[i]) {
			return false
		}
	}
	return true
}

func segEq(a, b Segment) bool {
	if a.Field != nil && b.Field != nil {
		return *a.Field == *b.Field
	}
	if a.Index != nil && b.Index != nil {
		return *a.Index == *b.Index
	}
	return false
}

// Resolve turns p into an absolute path, resolving it against at, the
// absolute path of the referencing node. Absolute paths are returned
// unchanged.
func (p *Path) Resolve(at *Path) (*Path, error) {
	if !p.IsRel() {
		return p, nil
	}
	// one '^' anchors at the referencing node's parent
	drop := p.Up
	if drop > len(at.Segs) {
		return nil, fmt.Errorf("relative path %s escapes the tree root at %s", p, at)
	}
	res := &Path{}
	res.Segs = append(res.Segs, at.Segs[:len(at.Segs)-drop]...)
	res.Segs = append(res.Segs, p.Segs...)
	return res, nil
}

// Parse parses a kinded path.
func Parse(s string) (*Path, error) {
	p := &Path{}
	i := 0
	n := len(s)
	for i < n && s[i] == '^' {
		p.Up++
		i++
	}
	wantDot := false
	for i < n {
		c := s[i]
		switch {
		case c == '.':
			if !wantDot {
				return nil, fmt.Errorf("unexpected '.' at %d in %q", i, s)
			}
			wantDot = false
			i++
		case c == '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("unterminated index in %q", s)
			}
			idx, err := strconv.Atoi(s[i+1 : i+j])
			if err != nil {
				return nil, fmt.Errorf("bad index in %q: %w", s, err)
			}
			if idx < 0 {
				return nil, fmt.Errorf("negative index in %q", s)
			}
			p.Segs = append(p.Segs, Index(idx))
			i += j + 1
			wantDot = true
		case c == '"':
			rest := s[i:]
			field, consumed, err := unquoteField(rest)
			if err != nil {
				return nil, fmt.Errorf("bad quoted field in %q: %w", s, err)
			}
			if wantDot {
				return nil, fmt.Errorf("missing '.' before field at %d in %q", i, s)
			}
			p.Segs = append(p.Segs, Field(field))
			i += consumed
			wantDot = true
		default:
			if wantDot {
				return nil, fmt.Errorf("missing '.' before field at %d in %q", i, s)
			}
			j := i
			for j < n && isBare(s[j]) {
				j++
			}
			if j == i {
				return nil, fmt.Errorf("unexpected char %q at %d in %q", c, i, s)
			}
			p.Segs = append(p.Segs, Field(s[i:j]))
			i = j
			wantDot = true
		}
	}
	if !wantDot && len(p.Segs) > 0 {
		return nil, fmt.Errorf("trailing '.' in %q", s)
	}
	return p, nil
}

// MustParse is Parse for paths known valid at compile time.
func MustParse(s string) *Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func isBare(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z':
		return true
	case 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}

func quoteField(f string) string {
	if f == "" {
		return `""`
	}
	for i := 0; i < len(f); i++ {
		if !isBare(f[i]) {
			return strconv.Quote(f)
		}
	}
	return f
}

// unquoteField reads a leading quoted field from s, returning the field and
// the number of bytes consumed.
func unquoteField(s string) (string, int, error) {
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '"' {
			f, err := strconv.Unquote(s[:i+1])
			return f, i + 1, err
		}
	}
	return "", 0, fmt.Errorf("unterminated quote")
}
