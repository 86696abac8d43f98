package merge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/strata-config/go-strata/ir"
	"github.com/strata-config/go-strata/parse"
)

// applyPatch applies an RFC 6902 patch carried by the incoming node to the
// base value. Both sides are bridged through JSON; the base's key order is
// preserved through the round trip.
func applyPatch(base, in *ir.Node) (*ir.Node, error) {
	if base.Priority.Over(in.Priority, false) {
		return base.Clone(), nil
	}
	path := in.KPath()
	doc, err := marshalJSON(base)
	if err != nil {
		return nil, &PatchError{Path: path, Err: err}
	}
	ops, err := marshalJSON(in)
	if err != nil {
		return nil, &PatchError{Path: path, Err: err}
	}
	patch, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return nil, &PatchError{Path: path, Err: err}
	}
	patched, err := patch.Apply(doc)
	if err != nil {
		return nil, &PatchError{Path: path, Err: err}
	}
	docs, err := parse.Parse(patched)
	if err != nil {
		return nil, &PatchError{Path: path, Err: err}
	}
	if len(docs) != 1 {
		return nil, &PatchError{Path: path, Err: errors.New("patch result is not a single document")}
	}
	res := docs[0]
	res.Priority = base.Priority
	res.Origin = in.Origin
	res.Meta = ir.MergeMeta(base.Meta, in.Meta)
	return res, nil
}

// marshalJSON renders a tree as JSON, keeping object fields in tree order.
// Tags and merge attributes are dropped; patches operate on plain values.
func marshalJSON(y *ir.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, y); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, y *ir.Node) error {
	switch y.Type {
	case ir.NullType:
		buf.WriteString("null")
	case ir.BoolType:
		if y.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case ir.NumberType:
		if y.Int64 != nil {
			fmt.Fprintf(buf, "%d", *y.Int64)
		} else if y.Float64 != nil {
			d, err := json.Marshal(*y.Float64)
			if err != nil {
				return err
			}
			buf.Write(d)
		} else {
			buf.WriteString("0")
		}
	case ir.StringType:
		d, err := json.Marshal(y.String)
		if err != nil {
			return err
		}
		buf.Write(d)
	case ir.ObjectType:
		buf.WriteByte('{')
		for i, f := range y.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(f.String)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := writeJSON(buf, y.Values[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case ir.ArrayType:
		buf.WriteByte('[')
		for i, v := range y.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unknown node type %d", y.Type)
	}
	return nil
}
