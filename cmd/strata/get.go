package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/strata-config/go-strata/encode"
)

func runGet(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: get needs a path and at least one file", cli.ErrUsage)
	}
	path, files := args[0], args[1:]
	bcfg := &BuildConfig{MainConfig: cfg.MainConfig}
	b, err := bcfg.builder(files)
	if err != nil {
		return err
	}
	tree, err := b.Build()
	if err != nil {
		return err
	}
	node, err := tree.GetKPath(path)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if node == nil {
		return fmt.Errorf("no value at %q", path)
	}
	w, closeW := cfg.writer(cc)
	defer closeW()
	if cfg.Flow {
		_, err := fmt.Fprintln(w, encode.FlowString(node))
		return err
	}
	return encode.Encode(node, w, cfg.encOpts(w)...)
}
