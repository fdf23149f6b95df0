package mdx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageAutolink(t *testing.T) {
	tests := []struct {
		name      string
		paragraph string
		wantImage bool
	}{
		{name: "bare png url", paragraph: "https://example.dev/cat.png", wantImage: true},
		{name: "bare svg url uppercase ext", paragraph: "https://example.dev/logo.SVG", wantImage: true},
		{name: "not a url", paragraph: "just some text", wantImage: false},
		{name: "url with prose around it", paragraph: "see https://example.dev/cat.png here", wantImage: false},
		{name: "non image url", paragraph: "https://example.dev/page.html", wantImage: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree := &Node{Type: TypeRoot, Children: []*Node{
				{Type: TypeParagraph, Children: []*Node{
					{Type: TypeText, Value: tc.paragraph},
				}},
			}}

			_, err := ImageAutolink(context.Background(), tree, &TransformContext{})
			require.NoError(t, err)

			got := tree.Children[0]
			if tc.wantImage {
				require.Equal(t, TypeImage, got.Type)
				require.Equal(t, tc.paragraph, got.URL)
			} else {
				require.Equal(t, TypeParagraph, got.Type)
			}
		})
	}
}

func TestSyntaxHighlightRewritesCodeElements(t *testing.T) {
	code := &Node{
		Type:       TypeElement,
		TagName:    "code",
		Properties: map[string]string{"className": "language-go"},
		Children:   []*Node{{Type: TypeText, Value: "package main\n"}},
	}
	tree := &Node{Type: TypeRoot, Children: []*Node{
		{Type: TypeElement, TagName: "pre", Children: []*Node{code}},
	}}

	_, err := SyntaxHighlight()(context.Background(), tree, &TransformContext{})
	require.NoError(t, err)

	require.Greater(t, len(code.Children), 1)

	var sawKeywordSpan bool
	var text string
	for _, child := range code.Children {
		switch child.Type {
		case TypeElement:
			require.Equal(t, "span", child.TagName)
			if child.Properties["className"] == "kn" || child.Properties["className"] == "k" {
				sawKeywordSpan = true
			}
			text += child.Children[0].Value
		case TypeText:
			text += child.Value
		}
	}
	require.True(t, sawKeywordSpan, "expected a keyword span for 'package'")
	require.Equal(t, "package main\n", text)
}

func TestSyntaxHighlightIgnoresUnknownLanguages(t *testing.T) {
	code := &Node{
		Type:       TypeElement,
		TagName:    "code",
		Properties: map[string]string{"className": "language-nosuchlang"},
		Children:   []*Node{{Type: TypeText, Value: "???\n"}},
	}
	tree := &Node{Type: TypeRoot, Children: []*Node{code}}

	_, err := SyntaxHighlight()(context.Background(), tree, &TransformContext{})
	require.NoError(t, err)
	require.Len(t, code.Children, 1)
	require.Equal(t, TypeText, code.Children[0].Type)
}
