package lsp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/mdxgo/mdx"
	"github.com/mdxgo/mdx/internal/transformer"
	"github.com/sourcegraph/go-lsp"
)

type DocumentServiceOptions struct {
	TransformerOpts transformer.TransformOptions

	// WriteOnSave writes the compiled component file next to the
	// source document on textDocument/didSave
	WriteOnSave bool
}

var DefaultDocumentServiceOptions = DocumentServiceOptions{
	TransformerOpts: transformer.TransformOptions{
		NoBackup:    true,
		Frontmatter: true,
	},
	WriteOnSave: false,
}

// DocumentService owns the open documents and runs the compile
// pipeline against them, turning compile failures into LSP diagnostics.
type DocumentService struct {
	transformer *transformer.Transformer

	mu   sync.Mutex
	docs map[lsp.DocumentURI]string
}

func NewDocumentService(opts DocumentServiceOptions) *DocumentService {
	return &DocumentService{
		transformer: transformer.NewTransformer(opts.TransformerOpts),
		docs:        make(map[lsp.DocumentURI]string),
	}
}

// UpdateDocument records the latest full content for uri.
func (s *DocumentService) UpdateDocument(uri lsp.DocumentURI, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = content
}

// CloseDocument drops the tracked content for uri.
func (s *DocumentService) CloseDocument(uri lsp.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Content returns the last known content for uri.
func (s *DocumentService) Content(uri lsp.DocumentURI) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.docs[uri]
	return content, ok
}

// Diagnostics compiles the document and maps any failure onto LSP
// diagnostics. A clean compile yields an empty (non-nil) slice so the
// client clears stale diagnostics.
func (s *DocumentService) Diagnostics(ctx context.Context, uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	fsPath, err := s.URIToPath(uri)
	if err != nil {
		fsPath = string(uri)
	}

	_, err = s.transformer.Compile(ctx, transformer.MarkdownSource{
		Content:  strings.NewReader(content),
		Metadata: mdx.MetaData{AbsSource: fsPath},
	})
	if err == nil {
		return []lsp.Diagnostic{}
	}

	return []lsp.Diagnostic{diagnosticFromError(err)}
}

// diagnosticFromError attributes a compile failure to a source range.
// Structural errors carry a position; everything else points at the top
// of the file.
func diagnosticFromError(err error) lsp.Diagnostic {
	diag := lsp.Diagnostic{
		Severity: lsp.Error,
		Source:   "mdx",
		Message:  err.Error(),
	}

	var structural *mdx.StructuralParseError
	if errors.As(err, &structural) && structural.Pos != nil {
		// LSP positions are 0-indexed
		diag.Range = lsp.Range{
			Start: lsp.Position{Line: structural.Pos.Start.Line - 1, Character: structural.Pos.Start.Column - 1},
			End:   lsp.Position{Line: structural.Pos.End.Line - 1, Character: structural.Pos.End.Column - 1},
		}
	}
	return diag
}

// CompileToDisk writes the compiled output for uri, returning the
// written path.
func (s *DocumentService) CompileToDisk(ctx context.Context, uri lsp.DocumentURI, content string) (string, error) {
	fsPath, err := s.URIToPath(uri)
	if err != nil {
		return "", fmt.Errorf("invalid document URI: %w", err)
	}

	return s.transformer.Transform(ctx, transformer.MarkdownSource{
		Content:  strings.NewReader(content),
		Metadata: mdx.MetaData{AbsSource: fsPath},
	})
}

// URIToPath converts an LSP URI to a filesystem path
func (s *DocumentService) URIToPath(uri lsp.DocumentURI) (string, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported URI scheme %q", u.Scheme)
	}
	return u.Path, nil
}

// PathToURI converts a filesystem path to an LSP URI
func (s *DocumentService) PathToURI(path string) string {
	return "file://" + path
}
