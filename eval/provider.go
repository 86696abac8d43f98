package eval

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"

	"github.com/strata-config/go-strata/encode"
	"github.com/strata-config/go-strata/ir"
)

// DynamicProvider computes the value of a dynamic expression node. name
// is the expression name ("expr" for !expr, NAME for !dyn:NAME), payload
// the node's concrete value, and deps the resolved values of its declared
// dependencies by name.
type DynamicProvider interface {
	Eval(name string, payload *ir.Node, deps map[string]*ir.Node) (*ir.Node, error)
}

// ExprProvider evaluates "expr" expressions with expr-lang. Dependency
// values are bound as variables under their declared names.
type ExprProvider struct{}

func (ExprProvider) Eval(name string, payload *ir.Node, deps map[string]*ir.Node) (*ir.Node, error) {
	if name != "expr" {
		return nil, fmt.Errorf("unknown expression %q", name)
	}
	src, err := exprSource(payload)
	if err != nil {
		return nil, err
	}
	env := make(map[string]any, len(deps))
	for k, v := range deps {
		env[k] = plainValue(v)
	}
	prg, err := expr.Compile(src, exprCompileOpts(env)...)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(prg, env)
	if err != nil {
		return nil, err
	}
	return encode.FromAny(out)
}

func exprSource(payload *ir.Node) (string, error) {
	switch payload.Type {
	case ir.StringType:
		return payload.String, nil
	case ir.ObjectType:
		src := ir.Get(payload, "expr")
		if src == nil || src.Type != ir.StringType {
			return "", fmt.Errorf("expression mapping needs a string expr key")
		}
		return src.String, nil
	}
	return "", fmt.Errorf("expression payload must be a string or mapping, got %s", payload.Type)
}

func exprCompileOpts(env map[string]any) []expr.Option {
	return []expr.Option{
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

// plainValue converts a concrete node to plain Go values for the
// expression environment. Objects lose field order here, which the
// environment does not observe.
func plainValue(y *ir.Node) any {
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
			res[i] = plainValue(v)
		}
		return res
	case ir.ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			res[f.String] = plainValue(y.Values[i])
		}
		return res
	}
	return nil
}
