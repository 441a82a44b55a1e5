package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/gbavid"
	"github.com/bodgit/gbavid/container"
	"github.com/bodgit/gbavid/csource"
	"github.com/bodgit/gbavid/source"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) hclog.Logger {
	level := hclog.Info
	if c.Bool("verbose") {
		level = hclog.Debug
	}
	if s := c.String("log-level"); s != "" {
		if l := hclog.LevelFromString(s); l != hclog.NoLevel {
			level = l
		}
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "gbavid",
		Level:  level,
		Output: os.Stderr,
	})
}

func exitError(err error) error {
	if errors.Is(err, gbavid.ErrConfig) {
		return cli.NewExitError(err, 2)
	}
	return cli.NewExitError(err, 1)
}

func openSource(ctx context.Context, input string, fps float64) (source.Source, error) {
	if strings.ContainsAny(input, "*?[") {
		return source.Glob(fps, input)
	}
	if fi, err := os.Stat(input); err == nil && fi.IsDir() {
		return source.Glob(fps, filepath.Join(input, "*"))
	}
	return source.NewFFmpeg(ctx, input)
}

func writeOutput(output string, b []byte, cSource bool) error {
	if !cSource {
		return os.WriteFile(output, b, 0o644)
	}

	base := strings.TrimSuffix(output, filepath.Ext(output))
	name := csource.Identifier(filepath.Base(base))

	var h, c bytes.Buffer
	if err := csource.Write(&h, &c, name, filepath.Base(base)+".h", b); err != nil {
		return err
	}
	if err := os.WriteFile(base+".h", h.Bytes(), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(base+".c", c.Bytes(), 0o644); err != nil {
		os.Remove(base + ".h")
		return err
	}
	return nil
}

func convert(c *cli.Context) error {
	if c.NArg() < 2 && !(c.NArg() == 1 && c.Bool("dry-run")) {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 2)
	}

	logger := newLogger(c)

	var cfg gbavid.Config
	if file := c.String("config"); file != "" {
		var err error
		if cfg, err = gbavid.LoadConfig(file); err != nil {
			return exitError(err)
		}
	}
	if err := applyFlags(c, &cfg); err != nil {
		return exitError(err)
	}
	if err := cfg.Validate(); err != nil {
		return exitError(err)
	}

	var stats *gbavid.StatsDB
	if file := c.String("stats-db"); file != "" {
		var err error
		if stats, err = gbavid.NewStatsDB(file); err != nil {
			return cli.NewExitError(err, 1)
		}
		defer stats.Close()
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	input := c.Args().First()
	src, err := openSource(ctx, input, cfg.FPS)
	if err != nil {
		return exitError(err)
	}
	defer src.Close()

	r, err := gbavid.New(stats, logger).Run(ctx, cfg, src, input)
	if err != nil {
		return exitError(err)
	}

	if c.Bool("dry-run") {
		logger.Info("dry run, nothing written", "size", len(r.Container))
		return nil
	}

	if err := writeOutput(c.Args().Get(1), r.Container, c.Bool("c-source")); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 2)
	}

	b, err := os.ReadFile(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	ct, err := container.Parse(b)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	smallest, largest, total := -1, 0, 0
	for i := 0; i < ct.Frames; i++ {
		f, err := ct.Frame(i)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		n := len(f.Data)
		if smallest < 0 || n < smallest {
			smallest = n
		}
		if n > largest {
			largest = n
		}
		total += n
	}

	fmt.Printf("frames:      %d\n", ct.Frames)
	fmt.Printf("fps:         %g\n", ct.FPS)
	fmt.Printf("size:        %dx%d\n", ct.Width, ct.Height)
	fmt.Printf("bpp:         %d\n", ct.BitsPerPixel)
	if ct.ColorMapBits > 0 {
		fmt.Printf("color map:   %d x %d-bit\n", ct.ColorMapEntries, ct.ColorMapBits)
	}
	if ct.SpriteWidth > 0 {
		fmt.Printf("sprites:     %dx%d\n", ct.SpriteWidth, ct.SpriteHeight)
	}
	fmt.Printf("steps:       %s\n", container.StepsString(ct.Steps))
	fmt.Printf("vram safe:   %t\n", ct.VRAMSafe())
	fmt.Printf("scratch:     %d\n", ct.MaxMemory)
	fmt.Printf("container:   %d bytes\n", ct.Size)
	if ct.Frames > 0 {
		fmt.Printf("frame data:  %d min, %d max, %d average\n", smallest, largest, total/ct.Frames)
		fmt.Printf("bit rate:    %.1f kB/s\n", float64(total)*ct.FPS/float64(ct.Frames)/1024)
	}

	return nil
}

func listRuns(c *cli.Context) error {
	file := c.String("stats-db")
	if file == "" {
		return cli.NewExitError("no statistics database", 2)
	}

	db, err := gbavid.NewStatsDB(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	runs, err := db.Runs(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  %s  %d frames  %dx%d  %s  %s  %.1f%%  %s\n",
			r.ID, r.Started.Format("2006-01-02 15:04:05"), r.Source, r.Frames, r.Width, r.Height,
			r.Format, r.Steps, 100*r.Ratio(), r.Duration.Round(time.Millisecond))
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "gbavid"
	app.Usage = "Game Boy Advance video converter"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.StringFlag{
			Name:    "log-level",
			EnvVars: []string{"GBAVID_LOG_LEVEL"},
			Usage:   "log level, one of trace, debug, info, warn or error",
		},
	}

	statsFlag := &cli.StringFlag{
		Name:    "stats-db",
		EnvVars: []string{"GBAVID_STATS_DB"},
		Usage:   "record conversion statistics in `FILE`",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert a video or image sequence",
			Description: "INPUT is a video file, a directory of images or a glob pattern matching images.",
			ArgsUsage:   "INPUT OUTPUT",
			Flags:       append(convertFlags(), statsFlag),
			Action:      convert,
		},
		{
			Name:      "info",
			Usage:     "Show the header of a converted file",
			ArgsUsage: "FILE",
			Action:    info,
		},
		{
			Name:      "play",
			Usage:     "Decode a converted file as the console would",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "gif",
					Usage: "write an animated preview to `FILE`",
				},
				&cli.BoolFlag{
					Name:  "realtime",
					Usage: "pace frames at the frame rate",
				},
				&cli.BoolFlag{
					Name:  "tiled",
					Usage: "present tile data as is",
				},
				&cli.StringFlag{
					Name:    "lz-command",
					EnvVars: []string{"GBAVID_LZ_COMMAND"},
					Usage:   "LZ77 decompressor `COMMAND`",
				},
			},
			Action: play,
		},
		{
			Name:      "stats",
			Usage:     "List recorded conversions",
			ArgsUsage: "[SOURCE]",
			Flags:     []cli.Flag{statsFlag},
			Action:    listRuns,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
