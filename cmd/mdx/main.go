package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mdxgo/mdx/internal/cli"
	"github.com/mdxgo/mdx/internal/transformer"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		inPath      string
		outOverride string
		frontmatter bool
		highlight   bool
		noBackup    bool
		debug       bool
	)
	flag.StringVar(&inPath, "in", "", "Input .mdx file or directory")
	flag.StringVar(&outOverride, "out", "", "Output path override (single file only)")
	flag.BoolVar(&frontmatter, "frontmatter", true, "Extract a leading YAML block as an export statement")
	flag.BoolVar(&highlight, "highlight", false, "Syntax highlight fenced code blocks")
	flag.BoolVar(&noBackup, "no-backup", false, "Do not back up existing output files")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if inPath == "" {
		fmt.Println("Please provide an input file or directory with --in")
		os.Exit(1)
	}

	opts := transformer.TransformOptions{
		NoBackup:       noBackup,
		Frontmatter:    frontmatter,
		Highlight:      highlight,
		OutputOverride: outOverride,
	}
	slog.Debug("compiling", "path", inPath, "options", opts.Pretty())

	processor := cli.NewProcessor(opts)
	results, err := processor.ProcessPath(context.Background(), inPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, result := range results {
		fmt.Printf("Compiled %s to %s\n", result.Path, result.OutPath)
	}
}
