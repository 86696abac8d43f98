package encode

import (
	"io"
	"strconv"
	"strings"

	"github.com/strata-config/go-strata/ir"
)

type encState struct {
	w      io.Writer
	colors *Colors
	flow   bool
	plain  bool
	err    error
}

// Encode writes y as YAML. Tags, merge modes, relocation targets and
// priorities render as node tags so a merged-but-unevaluated tree stays
// inspectable; a node carrying several markers shows only the most
// specific one. Metadata payloads are not rendered.
func Encode(y *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &encState{w: w}
	for _, opt := range opts {
		opt(es)
	}
	if es.flow {
		es.writeFlow(y)
		es.ws("\n")
		return es.err
	}
	es.top(y)
	return es.err
}

func (es *encState) ws(s string) {
	if es.err != nil {
		return
	}
	_, es.err = io.WriteString(es.w, s)
}

func (es *encState) color(t ir.Type, a ColorAttr, s string) string {
	if es.colors == nil {
		return s
	}
	return es.colors.Color(t, a, s)
}

func (es *encState) indent(n int) {
	es.ws(strings.Repeat("  ", n))
}

// marker returns the tag to print before a node's value, "" for none.
func (es *encState) marker(y *ir.Node) string {
	if es.plain {
		return ""
	}
	if y.Tag != "" {
		return y.Tag
	}
	if y.Relocate != "" {
		return "!move:" + y.Relocate
	}
	switch y.Mode {
	case ir.Delete:
		return "!del"
	case ir.Deep:
		return "!merge"
	case ir.Replace:
		return "!replace"
	case ir.Append:
		return "!append"
	}
	// priority is subtree-inherited, mark only where it changes
	if y.Parent == nil || y.Parent.Priority != y.Priority {
		switch y.Priority {
		case ir.Weak:
			return "!weak"
		case ir.Forced:
			return "!force"
		}
	}
	return ""
}

func (es *encState) top(y *ir.Node) {
	if leaf(y) {
		if m := es.marker(y); m != "" {
			es.ws(es.color(y.Type, TagColor, m) + " ")
		}
		es.ws(es.color(y.Type, ValueColor, scalarString(y)))
		es.ws("\n")
		return
	}
	if m := es.marker(y); m != "" {
		es.ws(es.color(y.Type, TagColor, m))
		es.ws("\n")
	}
	es.container(y, 0)
}

// leaf reports nodes whose whole rendering fits inline.
func leaf(y *ir.Node) bool {
	return y.Type.IsScalar() || (len(y.Values) == 0 && y.Tag == "")
}

// container writes each entry of a non-empty object or array on its own
// line at the given indent.
func (es *encState) container(y *ir.Node, indent int) {
	if y.Type == ir.ObjectType {
		for i := range y.Fields {
			es.indent(indent)
			es.field(y, i, indent)
		}
		return
	}
	for _, v := range y.Values {
		es.indent(indent)
		es.item(v, indent)
	}
}

// field writes "key: value", assuming the cursor sits at the key column.
func (es *encState) field(y *ir.Node, i, indent int) {
	es.ws(es.color(ir.ObjectType, FieldColor, quoteScalar(y.Fields[i].String)))
	es.ws(es.color(ir.ObjectType, SepColor, ":"))
	v := y.Values[i]
	m := es.marker(v)
	if leaf(v) {
		es.ws(" ")
		if m != "" {
			es.ws(es.color(v.Type, TagColor, m) + " ")
		}
		es.ws(es.color(v.Type, ValueColor, scalarString(v)))
		es.ws("\n")
		return
	}
	if m != "" {
		es.ws(" " + es.color(v.Type, TagColor, m))
	}
	es.ws("\n")
	es.container(v, indent+1)
}

// item writes "- value", assuming the cursor sits at the dash column.
// Untagged nested containers hang off the dash.
func (es *encState) item(v *ir.Node, indent int) {
	es.ws(es.color(ir.ArrayType, SepColor, "-") + " ")
	m := es.marker(v)
	if leaf(v) {
		if m != "" {
			es.ws(es.color(v.Type, TagColor, m) + " ")
		}
		es.ws(es.color(v.Type, ValueColor, scalarString(v)))
		es.ws("\n")
		return
	}
	if m != "" {
		es.ws(es.color(v.Type, TagColor, m))
		es.ws("\n")
		es.container(v, indent+1)
		return
	}
	if v.Type == ir.ObjectType {
		es.field(v, 0, indent+1)
		for i := 1; i < len(v.Fields); i++ {
			es.indent(indent + 1)
			es.field(v, i, indent+1)
		}
		return
	}
	es.item(v.Values[0], indent+1)
	for _, vv := range v.Values[1:] {
		es.indent(indent + 1)
		es.item(vv, indent+1)
	}
}

func (es *encState) writeFlow(y *ir.Node) {
	if m := es.marker(y); m != "" {
		es.ws(es.color(y.Type, TagColor, m) + " ")
	}
	switch y.Type {
	case ir.ObjectType:
		es.ws("{")
		for i := range y.Fields {
			if i > 0 {
				es.ws(", ")
			}
			es.ws(es.color(ir.ObjectType, FieldColor, quoteScalar(y.Fields[i].String)))
			es.ws(es.color(ir.ObjectType, SepColor, ": "))
			es.writeFlow(y.Values[i])
		}
		es.ws("}")
	case ir.ArrayType:
		es.ws("[")
		for i, v := range y.Values {
			if i > 0 {
				es.ws(", ")
			}
			es.writeFlow(v)
		}
		es.ws("]")
	default:
		es.ws(es.color(y.Type, ValueColor, scalarString(y)))
	}
}

func scalarString(y *ir.Node) string {
	switch y.Type {
	case ir.NullType:
		return "null"
	case ir.BoolType:
		if y.Bool {
			return "true"
		}
		return "false"
	case ir.NumberType:
		if y.Int64 != nil {
			return strconv.FormatInt(*y.Int64, 10)
		}
		if y.Float64 != nil {
			return strconv.FormatFloat(*y.Float64, 'g', -1, 64)
		}
		return "0"
	case ir.StringType:
		return quoteScalar(y.String)
	case ir.ObjectType:
		return "{}"
	case ir.ArrayType:
		return "[]"
	}
	return ""
}

// quoteScalar quotes a string whenever a YAML parser could read the bare
// form as something else.
func quoteScalar(s string) string {
	if !needsQuote(s) {
		return s
	}
	return strconv.Quote(s)
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	switch s {
	case "null", "~", "true", "false", "yes", "no", "on", "off",
		"Null", "True", "False", "NULL", "TRUE", "FALSE":
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return true
	}
	if strings.ContainsAny(string(s[0]), "!&*-?{}[],#|>@`\"'%") {
		return true
	}
	for i := range len(s) {
		c := s[i]
		if c < 0x20 {
			return true
		}
		if (c == ':' || c == '#') && (i+1 == len(s) || s[i+1] == ' ') {
			return true
		}
		if strings.ContainsRune("{}[],", rune(c)) {
			return true
		}
	}
	return false
}
