package ir

import "fmt"

// Priority is the tie-break strength of a node in a merge conflict.
// Weak always loses, Forced always wins, and among equal priorities the
// later source wins.
type Priority int8

const (
	Weak    Priority = -1
	Default Priority = 0
	Forced  Priority = 1
)

func (p Priority) String() string {
	switch p {
	case Weak:
		return "weak"
	case Default:
		return "default"
	case Forced:
		return "forced"
	}
	return fmt.Sprintf("<priority %d>", int8(p))
}

// Over reports whether p beats o. ifEqual is returned when the two
// priorities tie.
func (p Priority) Over(o Priority, ifEqual bool) bool {
	if p == o {
		return ifEqual
	}
	return p > o
}

// Mode is a node's merge mode. Auto resolves per value type: mappings
// deep-merge, everything else replaces.
type Mode int8

const (
	Auto Mode = iota
	Replace
	Deep
	Append
	Delete
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Replace:
		return "replace"
	case Deep:
		return "deep"
	case Append:
		return "append"
	case Delete:
		return "delete"
	}
	return fmt.Sprintf("<mode %d>", int8(m))
}

// EffectiveMode resolves the node's merge mode, substituting the per-type
// default when the mode is Auto.
func (y *Node) EffectiveMode() Mode {
	if y.Mode != Auto {
		return y.Mode
	}
	if y.Type == ObjectType {
		return Deep
	}
	return Replace
}
