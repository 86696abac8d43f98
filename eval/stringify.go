package eval

import (
	"strconv"

	"github.com/strata-config/go-strata/encode"
	"github.com/strata-config/go-strata/ir"
)

// stringify renders a concrete value for use inside a template string or
// path segment: strings verbatim, numbers and booleans in their canonical
// form, null as the empty string, containers as single-line flow YAML.
func stringify(y *ir.Node) string {
	switch y.Type {
	case ir.StringType:
		return y.String
	case ir.NullType:
		return ""
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
	default:
		return encode.FlowString(y)
	}
}
