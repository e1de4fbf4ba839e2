package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"palpng/convert"
	"palpng/palette"
	"palpng/parallel"

	"github.com/alecthomas/kong"
)

type paletteCmd struct {
	Name string `arg:"" help:"Built-in palette to export (${palettes})" enum:"${palettes}"`
	Out  string `help:"Destination PAL file, defaults to <name>.pal"`
}

func (c *paletteCmd) Run() error {
	pal, _ := palette.Builtin(c.Name)
	out := c.Out
	if out == "" {
		out = c.Name + ".pal"
	}

	if err := palette.SavePalette(out, pal); err != nil {
		return err
	}
	slog.Info("palette saved", "name", c.Name, "colors", len(pal), "file", out)
	return nil
}

var cli struct {
	Workers int  `help:"Number of images processed in parallel (0 uses all CPUs)" default:"0"`
	Debug   bool `help:"Enable debug logging" default:"false"`

	Convert convert.CLICmd `cmd:"" help:"Convert images to indexed-color PNG"`
	Palette paletteCmd     `cmd:"" help:"Export a built-in palette as a RIFF PAL file"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name(filepath.Base(os.Args[0])),
		kong.Description("Indexed-color PNG encoder"),
		kong.UsageOnError(),
		kong.Vars{"palettes": strings.Join(palette.Names(), ",")},
	)

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	pool := parallel.Start(cli.Workers)
	if err := kctx.Run(pool); err != nil {
		slog.Error(fmt.Sprintf("%s failed", kctx.Command()), "error", err)
		os.Exit(1)
	}
}
