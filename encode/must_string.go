package encode

import (
	"bytes"
	"strings"

	"github.com/strata-config/go-strata/ir"
)

func MustString(node *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

// FlowString renders node on a single line in flow style.
func FlowString(node *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, EncodeFlow(true)); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
