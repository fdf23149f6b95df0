package transformer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mdxgo/mdx"
)

type TransformOptions struct {
	// If true, no backup will be created when the output file exists
	NoBackup bool
	// If true, a leading YAML block becomes an export statement
	Frontmatter bool
	// If true, fenced code blocks are syntax highlighted
	Highlight bool
	// Overrides the default output path (src.mdx -> src.jsx)
	OutputOverride string

	// Extra transforms applied at the two pipeline checkpoints
	Stage1Transforms []mdx.Transform
	Stage2Transforms []mdx.Transform
}

func (t *TransformOptions) Pretty() string {
	return fmt.Sprintf("backup=%s frontmatter=%s highlight=%s",
		boolToText(!t.NoBackup), boolToText(t.Frontmatter), boolToText(t.Highlight))
}

func boolToText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Transformer compiles a source document and writes the generated
// component file next to it.
type Transformer struct {
	compiler *mdx.Compiler
	backup   *mdx.BackupManager

	opts TransformOptions
}

// NewTransformer creates a new Transformer instance with the specified options [TransformOptions]
func NewTransformer(opts TransformOptions) *Transformer {
	return &Transformer{
		compiler: mdx.New(mdx.Options{
			Stage1Transforms: opts.Stage1Transforms,
			Stage2Transforms: opts.Stage2Transforms,
			Frontmatter:      opts.Frontmatter,
			Highlight:        opts.Highlight,
		}),
		backup: mdx.NewBackupManager(),
		opts:   opts,
	}
}

type MarkdownSource struct {
	Content  io.Reader
	Metadata mdx.MetaData
}

// Transform compiles the source and writes the output file, returning
// the absolute path written to.
func (t *Transformer) Transform(ctx context.Context, input MarkdownSource) (string, error) {
	doc, err := t.Compile(ctx, input)
	if err != nil {
		return "", err
	}

	outPath := mdx.ResolveOutputPath(input.Metadata.AbsSource, t.opts.OutputOverride)

	if !t.opts.NoBackup {
		bkPath, err := t.backup.CreateBackupOf(outPath)
		if err != nil {
			return "", fmt.Errorf("backup error: %w", err)
		}
		if bkPath != "" {
			slog.Info("file already existed. Created backup", "backup", bkPath, "original", input.Metadata.AbsSource)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outPath, []byte(doc.Code), 0644); err != nil {
		return "", fmt.Errorf("write error: %w", err)
	}

	return outPath, nil
}

// Compile runs the pipeline without touching the filesystem.
func (t *Transformer) Compile(ctx context.Context, input MarkdownSource) (*mdx.Document, error) {
	slog.Debug("compiling document", "path", input.Metadata.AbsSource)
	if input.Metadata.AbsSource == "" {
		return nil, fmt.Errorf("abs source metadata is required for transformation")
	}

	content, err := io.ReadAll(input.Content)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	tctx := &mdx.TransformContext{Path: input.Metadata.AbsSource}
	code, err := t.compiler.Compile(ctx, string(content), tctx)
	if err != nil {
		return nil, fmt.Errorf("compile error: %w", err)
	}

	return &mdx.Document{Metadata: input.Metadata, Code: code}, nil
}
