package merge

import (
	"fmt"

	"github.com/strata-config/go-strata/ir"
)

// TypeConflictError reports a pairwise merge that no rule covers. The
// built-in modes are total over all node type combinations, so this only
// fires for a mode the engine does not know.
type TypeConflictError struct {
	Path string
	Base ir.Type
	In   ir.Type
	Mode ir.Mode
}

func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("merge at %q: no rule for mode %d merging %s into %s",
		e.Path, e.Mode, e.In, e.Base)
}

// RelocationError reports a failed !move splice.
type RelocationError struct {
	From   string
	Target string
	Err    error
}

func (e *RelocationError) Error() string {
	return fmt.Sprintf("relocating %q to %q: %v", e.From, e.Target, e.Err)
}

func (e *RelocationError) Unwrap() error { return e.Err }

// PatchError reports a failed !patch application.
type PatchError struct {
	Path string
	Err  error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("patch at %q: %v", e.Path, e.Err)
}

func (e *PatchError) Unwrap() error { return e.Err }
