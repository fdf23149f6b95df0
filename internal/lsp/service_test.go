package lsp

import (
	"context"
	"testing"

	"github.com/sourcegraph/go-lsp"
	"github.com/stretchr/testify/require"
)

func TestDocumentTracking(t *testing.T) {
	svc := NewDocumentService(DefaultDocumentServiceOptions)
	uri := lsp.DocumentURI("file:///tmp/page.mdx")

	_, ok := svc.Content(uri)
	require.False(t, ok)

	svc.UpdateDocument(uri, "# Hello\n")
	content, ok := svc.Content(uri)
	require.True(t, ok)
	require.Equal(t, "# Hello\n", content)

	svc.UpdateDocument(uri, "# Changed\n")
	content, _ = svc.Content(uri)
	require.Equal(t, "# Changed\n", content)

	svc.CloseDocument(uri)
	_, ok = svc.Content(uri)
	require.False(t, ok)
}

func TestDiagnosticsCleanDocument(t *testing.T) {
	svc := NewDocumentService(DefaultDocumentServiceOptions)
	uri := lsp.DocumentURI("file:///tmp/page.mdx")

	diags := svc.Diagnostics(context.Background(), uri, "# Hello\n\n<Video />\n")
	require.NotNil(t, diags)
	require.Empty(t, diags)
}

func TestDiagnosticsStructuralError(t *testing.T) {
	svc := NewDocumentService(DefaultDocumentServiceOptions)
	uri := lsp.DocumentURI("file:///tmp/page.mdx")

	diags := svc.Diagnostics(context.Background(), uri, "<Heading><Sub></Heading>\n")
	require.Len(t, diags, 1)
	require.Equal(t, lsp.Error, diags[0].Severity)
	require.Equal(t, "mdx", diags[0].Source)
	require.Contains(t, diags[0].Message, "mismatched closing tag")
	require.Equal(t, 0, diags[0].Range.Start.Line)
}

func TestDiagnosticsUnbalancedStatement(t *testing.T) {
	svc := NewDocumentService(DefaultDocumentServiceOptions)
	uri := lsp.DocumentURI("file:///tmp/page.mdx")

	diags := svc.Diagnostics(context.Background(), uri, "export const x = {\n")
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "unbalanced statement")
}

func TestURIToPath(t *testing.T) {
	svc := NewDocumentService(DefaultDocumentServiceOptions)

	path, err := svc.URIToPath("file:///home/user/page.mdx")
	require.NoError(t, err)
	require.Equal(t, "/home/user/page.mdx", path)

	_, err = svc.URIToPath("https://example.com/page.mdx")
	require.Error(t, err)

	require.Equal(t, "file:///home/user/page.mdx", svc.PathToURI("/home/user/page.mdx"))
}
