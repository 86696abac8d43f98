// Package include expands !include nodes by loading, parsing and
// recursively expanding the named sources, then splicing the result in
// place of the tagged node. Sources are resolved through a Provider so
// callers can serve includes from somewhere other than the filesystem.
// A file included twice is loaded and expanded once; a file that
// transitively includes itself is a cycle error.
package include
