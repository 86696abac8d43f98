package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/strata-config/go-strata/build"
	"github.com/strata-config/go-strata/encode"
)

func runDiff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff needs exactly two files", cli.ErrUsage)
	}
	a, err := buildText(args[0])
	if err != nil {
		return err
	}
	b, err := buildText(args[1])
	if err != nil {
		return err
	}
	dmp := diffmatchpatch.New()
	chA, chB, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chA, chB, false), lines)
	w, closeW := cfg.writer(cc)
	defer closeW()
	if cfg.Color {
		_, err := fmt.Fprint(w, dmp.DiffPrettyText(diffs))
		return err
	}
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			fmt.Fprintf(w, "%s%s\n", prefix, line)
		}
	}
	return nil
}

func buildText(file string) (string, error) {
	tree, err := build.New().AddFile(file).Build()
	if err != nil {
		return "", fmt.Errorf("building %s: %w", file, err)
	}
	return encode.MustString(tree) + "\n", nil
}
