package eval

import (
	"fmt"
	"strings"
)

// MissingRequiredError reports a !required placeholder no later source
// replaced.
type MissingRequiredError struct {
	Path string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("required value at %q was never provided", e.Path)
}

// UnresolvedReferenceError reports a reference whose target does not
// exist in the tree.
type UnresolvedReferenceError struct {
	Path   string
	Target string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("reference at %q: no value at %q", e.Path, e.Target)
}

// DependencyCycleError reports mutually dependent deferred nodes. Paths
// lists the members of the cycle in reference order.
type DependencyCycleError struct {
	Paths []string
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Paths, " -> "))
}

// ProviderError reports a failed dynamic expression.
type ProviderError struct {
	Path string
	Name string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("dynamic expression %q at %q: %v", e.Name, e.Path, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PathJoinError reports a !path node that could not be joined.
type PathJoinError struct {
	Path string
	Err  error
}

func (e *PathJoinError) Error() string {
	return fmt.Sprintf("path join at %q: %v", e.Path, e.Err)
}

func (e *PathJoinError) Unwrap() error { return e.Err }
