package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/strata-config/go-strata/encode"
)

func runBuild(cfg *BuildConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Build.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: build needs at least one file", cli.ErrUsage)
	}
	b, err := cfg.builder(args)
	if err != nil {
		return err
	}
	tree, err := b.Build()
	if err != nil {
		return err
	}
	w, closeW := cfg.writer(cc)
	defer closeW()
	return encode.Encode(tree, w, cfg.encOpts(w)...)
}

func runMerge(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: merge needs at least one file", cli.ErrUsage)
	}
	bcfg := &BuildConfig{MainConfig: cfg.MainConfig, Overrides: cfg.Overrides, Dirs: cfg.Dirs}
	b, err := bcfg.builder(args)
	if err != nil {
		return err
	}
	tree, err := b.BuildMerged()
	if err != nil {
		return err
	}
	w, closeW := cfg.writer(cc)
	defer closeW()
	return encode.Encode(tree, w, cfg.encOpts(w)...)
}
