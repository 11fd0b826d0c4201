// Command vaultproc runs the vault processing pipeline once against an
// input directory and writes its JSON outputs to the configured output
// directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/debug"
	"github.com/standardbeagle/vaultproc/internal/pipeline"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "vaultproc",
		Usage: "process an Obsidian-style Markdown vault into a rendered post/media catalogue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "vault root directory to process",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output directory for JSON and media artifacts",
				Value:   "build",
			},
			&cli.StringFlag{
				Name:  "notes-prefix",
				Usage: "public URL prefix posts are served under",
				Value: "/notes",
			},
			&cli.StringFlag{
				Name:  "assets-prefix",
				Usage: "public URL prefix non-media assets are served under",
				Value: "/assets",
			},
			&cli.StringFlag{
				Name:  "media-prefix",
				Usage: "public URL prefix media variants are served under",
				Value: "/media",
			},
			&cli.StringFlag{
				Name:  "domain",
				Usage: "domain to prepend for absolute media URLs (empty = relative paths)",
			},
			&cli.BoolFlag{
				Name:  "skip-media",
				Usage: "skip the media transcoding phase entirely",
			},
			&cli.BoolFlag{
				Name:  "skip-existing",
				Usage: "reuse a media variant already on disk if newer than its source",
			},
			&cli.BoolFlag{
				Name:  "force-reprocess",
				Usage: "always re-encode media variants, ignoring skip-existing",
			},
			&cli.StringFlag{
				Name:  "slug-strategy",
				Usage: "slug collision strategy: number or hash",
				Value: "number",
			},
			&cli.StringFlag{
				Name:  "mermaid-strategy",
				Usage: "mermaid fence rendering: img-png, img-svg, inline-svg, pre-mermaid",
				Value: "img-png",
			},
			&cli.BoolFlag{
				Name:  "export-posts",
				Usage: "also write one JSON file per post under <output>/posts",
			},
			&cli.IntFlag{
				Name:  "debug",
				Usage: "debug verbosity 0-3",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "write debug log output to stderr",
			},
		},
		Action: runCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "vaultproc: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(c *cli.Context) error {
	if c.Bool("verbose") {
		debug.SetOutput(os.Stderr)
	}
	debug.SetLevel(c.Int("debug"))

	cfg := config.Default()
	cfg.Directories.Input = c.String("input")
	cfg.Directories.Output = c.String("output")
	cfg.Paths.NotesPrefix = c.String("notes-prefix")
	cfg.Paths.AssetsPrefix = c.String("assets-prefix")
	cfg.Paths.MediaPrefix = c.String("media-prefix")
	if domain := c.String("domain"); domain != "" {
		cfg.Paths.Domain = domain
		cfg.Paths.UseAbsolutePaths = true
	}
	cfg.Media.Skip = c.Bool("skip-media")
	cfg.Media.SkipExisting = c.Bool("skip-existing")
	cfg.Media.ForceReprocess = c.Bool("force-reprocess")
	cfg.SlugStrategy = c.String("slug-strategy")
	cfg.Mermaid.Strategy = config.MermaidStrategy(c.String("mermaid-strategy"))
	cfg.Posts.ExportEnabled = c.Bool("export-posts")
	cfg.DebugLevel = c.Int("debug")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	start := time.Now()
	result, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	elapsed := time.Since(start)

	warnCount := 0
	for range result.Issues {
		warnCount++
	}

	fmt.Printf("processed %d posts, %d media files, %d issues, in %s\n",
		len(result.Posts), len(result.MediaCat.Media), warnCount, elapsed.Round(time.Millisecond))
	fmt.Printf("output written to %s\n", result.OutputDir)
	if warnCount > 0 {
		fmt.Printf("see %s for diagnostic details\n", joinPath(result.OutputDir, "processor-issues.json"))
	}
	return nil
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
