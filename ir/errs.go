package ir

import "fmt"

// PathTypeError reports a path step applied to the wrong node type.
type PathTypeError struct {
	Path string
	Want Type
	Got  Type
}

func (e *PathTypeError) Error() string {
	return fmt.Sprintf("at %q: expected %s, got %s", e.Path, e.Want, e.Got)
}

// PathMissingError reports a path step with no corresponding node.
type PathMissingError struct {
	Path string
}

func (e *PathMissingError) Error() string {
	return fmt.Sprintf("no node at %q", e.Path)
}
