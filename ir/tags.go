package ir

import (
	"fmt"
	"strings"
	"sync"
)

// TagKind classifies a registered tag.
//
// Plain tags annotate a value without changing composition behavior.
// Deferred tags mark nodes whose concrete value is computed at evaluation
// time. Directive tags steer parsing or merging and never survive into an
// evaluated tree.
type TagKind int

const (
	PlainTag TagKind = iota
	DeferredTag
	DirectiveTag
)

func (k TagKind) String() string {
	switch k {
	case PlainTag:
		return "plain"
	case DeferredTag:
		return "deferred"
	case DirectiveTag:
		return "directive"
	}
	return "<unknown kind>"
}

// Tags understood by the core. Extension tags can be added with RegisterTag.
const (
	TagRequired = "!required"
	TagRef      = "!ref"
	TagPath     = "!path"
	TagFStr     = "!fstr"
	TagExpr     = "!expr"
	TagDyn      = "!dyn"

	TagInclude = "!include"
	TagPatch   = "!patch"
)

var (
	tagMu       sync.RWMutex
	tagRegistry = map[string]TagKind{
		TagRequired: DeferredTag,
		TagRef:      DeferredTag,
		TagPath:     DeferredTag,
		TagFStr:     DeferredTag,
		TagExpr:     DeferredTag,
		TagDyn:      DeferredTag,
		TagInclude:  DirectiveTag,
		TagPatch:    DirectiveTag,
	}
)

// RegisterTag adds or overrides a tag in the registry. The name is the tag
// head, without any ":suffix" argument part.
func RegisterTag(name string, kind TagKind) error {
	if !strings.HasPrefix(name, "!") {
		return fmt.Errorf("tag must start with '!': %q", name)
	}
	if strings.ContainsRune(name, ':') {
		return fmt.Errorf("tag name must not contain ':': %q", name)
	}
	tagMu.Lock()
	defer tagMu.Unlock()
	tagRegistry[name] = kind
	return nil
}

// TagKindOf returns the registered kind of a tag, looking up its head only.
// Unregistered tags are PlainTag: unknown tags are representable and pass
// through merge and evaluation untouched.
func TagKindOf(tag string) TagKind {
	head, _ := TagHead(tag)
	tagMu.RLock()
	defer tagMu.RUnlock()
	return tagRegistry[head]
}

// TagHead splits a tag into its head and optional suffix argument, so
// "!path:cwd" gives ("!path", "cwd") and "!ref" gives ("!ref", "").
func TagHead(tag string) (string, string) {
	i := strings.IndexByte(tag, ':')
	if i < 0 {
		return tag, ""
	}
	return tag[:i], tag[i+1:]
}

// IsDeferred reports whether the node's value is computed at evaluation
// time.
func (y *Node) IsDeferred() bool {
	if y.Tag == "" {
		return false
	}
	return TagKindOf(y.Tag) == DeferredTag
}
