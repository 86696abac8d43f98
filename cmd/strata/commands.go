package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "strata").
		WithSynopsis("strata [opts] command [opts]").
		WithDescription("strata builds layered configuration from yaml sources.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return cli.ErrUsage
		}).
		WithSubs(
			BuildCommand(cfg),
			MergeCommand(cfg),
			GetCommand(cfg),
			DiffCommand(cfg))
}

func BuildCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &BuildConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Build, "build").
		WithAliases("b").
		WithSynopsis("build [-s path=val]... [-I dir]... <file> [files...]").
		WithDescription("Parse, merge and evaluate configuration sources in order.").
		WithOpts(
			&cli.Opt{
				Name:        "s",
				Description: "set an override, strongest source",
				Type:        cli.NamedFuncOpt(stringsOptTypeFunc(&cfg.Overrides), "(path=val)"),
			},
			&cli.Opt{
				Name:        "I",
				Description: "extra include lookup directory",
				Type:        cli.NamedFuncOpt(stringsOptTypeFunc(&cfg.Dirs), "(dir)"),
			}).
		WithRun(func(cc *cli.Context, args []string) error {
			return runBuild(cfg, cc, args)
		})
}

func MergeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MergeConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Merge, "merge").
		WithAliases("m").
		WithSynopsis("merge [-s path=val]... [-I dir]... <file> [files...]").
		WithDescription("Merge sources without evaluating, keeping tags and markers visible.").
		WithOpts(
			&cli.Opt{
				Name:        "s",
				Description: "set an override, strongest source",
				Type:        cli.NamedFuncOpt(stringsOptTypeFunc(&cfg.Overrides), "(path=val)"),
			},
			&cli.Opt{
				Name:        "I",
				Description: "extra include lookup directory",
				Type:        cli.NamedFuncOpt(stringsOptTypeFunc(&cfg.Dirs), "(dir)"),
			}).
		WithRun(func(cc *cli.Context, args []string) error {
			return runMerge(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <path> <file> [files...]").
		WithDescription("Build the configuration and print the value at a path.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runGet(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff <fileA> <fileB>").
		WithDescription("Build two configurations and show their textual difference.").
		WithRun(func(cc *cli.Context, args []string) error {
			return runDiff(cfg, cc, args)
		})
}
