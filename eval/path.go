package eval

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/strata-config/go-strata/ir"
)

var errNoProvider = fmt.Errorf("no dynamic provider configured")

// evalPath joins the node's segments under its reference point. The
// suffix of the !path tag picks the reference point; without one the
// join is relative to the working directory at use time (".").
func (r *run) evalPath(p string, node *ir.Node, refPoint string) (*ir.Node, error) {
	base, err := resolveRefPoint(refPoint, node.Origin.File)
	if err != nil {
		return nil, &PathJoinError{Path: p, Err: err}
	}
	parts := []string{base}
	for _, v := range node.Values {
		if !v.Type.IsScalar() {
			return nil, &PathJoinError{Path: p, Err: fmt.Errorf("segment %q is a %s, not a scalar", v.KPath(), v.Type)}
		}
		parts = append(parts, stringify(v))
	}
	res := ir.FromString(filepath.Join(parts...))
	res.Origin = node.Origin
	return res, nil
}

func resolveRefPoint(refPoint, file string) (string, error) {
	switch {
	case refPoint == "":
		return ".", nil
	case refPoint == "cwd":
		return os.Getwd()
	case refPoint == "file":
		if file == "" {
			return "", fmt.Errorf("file reference point outside a file source")
		}
		return filepath.Dir(file), nil
	case refPoint == "parent":
		return parentRefPoint(file, 1)
	case strings.HasPrefix(refPoint, "parent(") && strings.HasSuffix(refPoint, ")"):
		n, err := strconv.Atoi(refPoint[len("parent(") : len(refPoint)-1])
		if err != nil || n < 1 {
			return "", fmt.Errorf("bad reference point %q", refPoint)
		}
		return parentRefPoint(file, n)
	case strings.HasPrefix(refPoint, "abs(") && strings.HasSuffix(refPoint, ")"):
		p := refPoint[len("abs(") : len(refPoint)-1]
		if !filepath.IsAbs(p) {
			return "", fmt.Errorf("reference point abs(%s) is not absolute", p)
		}
		return p, nil
	default:
		return "", fmt.Errorf("unknown reference point %q", refPoint)
	}
}

// parentRefPoint climbs n directories above the source file's directory.
func parentRefPoint(file string, n int) (string, error) {
	if file == "" {
		return "", fmt.Errorf("parent reference point outside a file source")
	}
	d := filepath.Dir(file)
	for range n {
		d = filepath.Dir(d)
	}
	return d, nil
}
