// Package debug provides env-var gated debug logging for the strata
// pipeline. Set STRATA_DEBUG_<STAGE>=1 to enable a stage's logging.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Parse   bool
	Merge   bool
	Include bool
	Graph   bool
	Eval    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("STRATA_DEBUG_PARSE")
	d.Merge = boolEnv("STRATA_DEBUG_MERGE")
	d.Include = boolEnv("STRATA_DEBUG_INCLUDE")
	d.Graph = boolEnv("STRATA_DEBUG_GRAPH")
	d.Eval = boolEnv("STRATA_DEBUG_EVAL")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Merge() bool {
	return d.Merge
}
func Include() bool {
	return d.Include
}
func Graph() bool {
	return d.Graph
}
func Eval() bool {
	return d.Eval
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
