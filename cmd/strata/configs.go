package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/strata-config/go-strata/build"
	"github.com/strata-config/go-strata/encode"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`
	Plain bool `cli:"name=plain desc='drop tags and merge markers from output'"`

	Out     string
	outFile *os.File

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(_ *cli.Context, v string) (any, error) {
	f, err := os.Create(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Out = v
	cfg.outFile = f
	return v, nil
}

// writer hands out the file opened by outOpt, or the command's own output
// when -o was not given.
func (cfg *MainConfig) writer(cc *cli.Context) (io.Writer, func() error) {
	if cfg.outFile == nil {
		return cc.Out, func() error { return nil }
	}
	return cfg.outFile, cfg.outFile.Close
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodePlain(cfg.Plain),
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type BuildConfig struct {
	*MainConfig

	Overrides []string
	Dirs      []string

	Build *cli.Command
}

// builder assembles a Builder from positional file args plus collected
// -s overrides, overrides last so they win.
func (cfg *BuildConfig) builder(files []string) (*build.Builder, error) {
	b := build.New(build.WithLookupDirs(cfg.Dirs...))
	for _, f := range files {
		b.AddFile(f)
	}
	for _, s := range cfg.Overrides {
		if err := b.AddOverride(s); err != nil {
			return nil, fmt.Errorf("%w: -s %q: %w", cli.ErrUsage, s, err)
		}
	}
	return b, nil
}

type MergeConfig struct {
	*MainConfig

	Overrides []string
	Dirs      []string

	Merge *cli.Command
}

type GetConfig struct {
	*MainConfig

	Flow bool `cli:"name=flow desc='render the result on one line'"`

	Get *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

func stringsOptTypeFunc(dst *[]string) func(cc *cli.Context, a string) (any, error) {
	return func(_ *cli.Context, a string) (any, error) {
		*dst = append(*dst, a)
		return a, nil
	}
}
