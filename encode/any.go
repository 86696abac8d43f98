package encode

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/strata-config/go-strata/ir"
)

// ToAny converts a tree to plain Go values. Objects become yaml.MapSlice
// so field order survives marshalling; arrays become []any. Tags and
// merge attributes are dropped.
func ToAny(y *ir.Node) any {
	switch y.Type {
	case ir.NullType:
		return nil
	case ir.BoolType:
		return y.Bool
	case ir.NumberType:
		if y.Int64 != nil {
			return *y.Int64
		}
		if y.Float64 != nil {
			return *y.Float64
		}
		return int64(0)
	case ir.StringType:
		return y.String
	case ir.ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = ToAny(v)
		}
		return res
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(y.Fields))
		for i, f := range y.Fields {
			res[i] = yaml.MapItem{Key: f.String, Value: ToAny(y.Values[i])}
		}
		return res
	}
	return nil
}

// FromAny converts plain Go values to a tree. Map keys must be strings;
// yaml.MapSlice keeps its order, other maps come out in sorted key order.
func FromAny(v any) (*ir.Node, error) {
	switch t := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(t), nil
	case int:
		return ir.FromInt(int64(t)), nil
	case int64:
		return ir.FromInt(t), nil
	case uint64:
		return ir.FromInt(int64(t)), nil
	case float32:
		return ir.FromFloat(float64(t)), nil
	case float64:
		return ir.FromFloat(t), nil
	case string:
		return ir.FromString(t), nil
	case []any:
		vals := make([]*ir.Node, len(t))
		for i, e := range t {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			vals[i] = n
		}
		return ir.FromSlice(vals), nil
	case yaml.MapSlice:
		kvs := make([]ir.KeyVal, len(t))
		for i, item := range t {
			key, ok := item.Key.(string)
			if !ok {
				return nil, fmt.Errorf("map key %v is not a string", item.Key)
			}
			val, err := FromAny(item.Value)
			if err != nil {
				return nil, err
			}
			kvs[i] = ir.KeyVal{Key: ir.FromString(key), Val: val}
		}
		return ir.FromKeyVals(kvs), nil
	case map[string]any:
		res := make(map[string]*ir.Node, len(t))
		for k, e := range t {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			res[k] = n
		}
		return ir.FromMap(res), nil
	default:
		return nil, fmt.Errorf("cannot represent %T", v)
	}
}
