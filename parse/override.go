package parse

import (
	"fmt"
	"strings"

	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/ir/kpath"
)

// Override turns a "path.to.key=value" argument into the equivalent
// single-path tree, suitable for merging after all ordinary sources. The
// value side is parsed as a YAML document, so `a.b=[1,2]` and
// `a.b=!force 5` both work; `a.b=` assigns null.
func Override(s string, opts ...Option) (*ir.Node, error) {
	lhs, rhs, ok := strings.Cut(s, "=")
	if !ok {
		return nil, fmt.Errorf("override %q: expected path.to.key=value", s)
	}
	p, err := kpath.Parse(lhs)
	if err != nil {
		return nil, fmt.Errorf("override %q: %w", s, err)
	}
	if p.IsRel() || len(p.Segs) == 0 {
		return nil, fmt.Errorf("override %q: path must be absolute and non-empty", s)
	}
	val := ir.Null()
	if rhs != "" {
		docs, err := Parse([]byte(rhs), opts...)
		if err != nil {
			return nil, fmt.Errorf("override %q: %w", s, err)
		}
		if len(docs) == 1 {
			val = docs[0]
		} else if len(docs) > 1 {
			return nil, fmt.Errorf("override %q: value parses to %d documents", s, len(docs))
		}
	}
	// build from the innermost segment outward
	for i := len(p.Segs) - 1; i >= 0; i-- {
		seg := p.Segs[i]
		switch {
		case seg.Field != nil:
			key := ir.FromString(*seg.Field)
			key.Origin = val.Origin
			val = ir.FromKeyVals([]ir.KeyVal{{Key: key, Val: val}})
		case seg.Index != nil:
			if *seg.Index != 0 {
				return nil, fmt.Errorf("override %q: only index [0] can be created", s)
			}
			val = ir.FromSlice([]*ir.Node{val})
		}
	}
	return val, nil
}
