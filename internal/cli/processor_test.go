package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mdxgo/mdx/internal/transformer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestProcessSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.mdx")
	writeFile(t, src, "# Hello\n\n<Video />\n")

	p := NewProcessor(transformer.TransformOptions{NoBackup: true})
	results, err := p.ProcessPath(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, results, 1)

	out, err := os.ReadFile(results[0].OutPath)
	require.NoError(t, err)
	require.Contains(t, string(out), "export default function MDXContent()")
}

func TestProcessRejectsWrongExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	writeFile(t, src, "# Hello\n")

	p := NewProcessor(transformer.TransformOptions{NoBackup: true})
	_, err := p.ProcessPath(context.Background(), src)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid file extension")
}

func TestProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mdx"), "# A\n")
	writeFile(t, filepath.Join(dir, "nested", "b.mdx"), "# B\n")
	writeFile(t, filepath.Join(dir, "ignored.txt"), "not markdown\n")

	p := NewProcessor(transformer.TransformOptions{NoBackup: true})
	results, err := p.ProcessPath(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.FileExists(t, filepath.Join(dir, "a.jsx"))
	require.FileExists(t, filepath.Join(dir, "nested", "b.jsx"))
}

func TestProcessDirectoryRespectsGitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	writeFile(t, filepath.Join(dir, ".gitignore"), "drafts/\n")
	writeFile(t, filepath.Join(dir, "keep.mdx"), "# Keep\n")
	writeFile(t, filepath.Join(dir, "drafts", "skip.mdx"), "# Skip\n")

	p := NewProcessor(transformer.TransformOptions{NoBackup: true})
	results, err := p.ProcessPath(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.FileExists(t, filepath.Join(dir, "keep.jsx"))
	require.NoFileExists(t, filepath.Join(dir, "drafts", "skip.jsx"))
}

func TestProcessDirectoryNoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.txt"), "nothing here\n")

	p := NewProcessor(transformer.TransformOptions{NoBackup: true})
	_, err := p.ProcessPath(context.Background(), dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no .mdx files found")
}
