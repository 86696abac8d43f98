package merge

import (
	"errors"

	"github.com/strata-config/go-strata/debug"
	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/ir/kpath"
)

// applyRelocations splices every node carrying a relocation target to its
// final position. Targets are absolute paths into the post-merge tree.
// When a value already sits at the target the two merge pairwise, so a
// relocated node obeys the same priority rules as any other collision.
func applyRelocations(root *ir.Node) (*ir.Node, error) {
	for {
		node := findRelocated(root)
		if node == nil {
			return root, nil
		}
		target := node.Relocate
		node.Relocate = ""
		if node == root {
			return nil, &RelocationError{
				From: "", Target: target,
				Err: errors.New("cannot relocate the document root"),
			}
		}
		from := node.KPath()
		if debug.Merge() {
			debug.Logf("relocate: %s -> %s\n", from, target)
		}
		p, err := kpath.Parse(target)
		if err != nil {
			return nil, &RelocationError{From: from, Target: target, Err: err}
		}
		detached := node.Detach()
		val := detached
		if existing := root.GetPath(p); existing != nil {
			merged, err := Two(existing, detached)
			if err != nil {
				return nil, &RelocationError{From: from, Target: target, Err: err}
			}
			if merged == nil {
				removeAtPath(root, p)
				continue
			}
			val = merged
		}
		if err := root.SetPath(p, val); err != nil {
			return nil, &RelocationError{From: from, Target: target, Err: err}
		}
	}
}

// findRelocated returns the first node in document order whose relocation
// is still pending.
func findRelocated(root *ir.Node) *ir.Node {
	var found *ir.Node
	root.Visit(func(y *ir.Node, isPost bool) (bool, error) {
		if isPost || found != nil {
			return false, nil
		}
		if y.Relocate != "" {
			found = y
			return false, nil
		}
		return true, nil
	})
	return found
}

func removeAtPath(root *ir.Node, p *kpath.Path) {
	node := root.GetPath(p)
	if node != nil && node.Parent != nil {
		node.Detach()
	}
}
