package mdx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanParseProseDocument(t *testing.T) {
	parser := NewParser()

	src := "# Hello, world!\n\nSome *text* and **bold**.\n"
	tree, err := parser.Parse([]byte(src))
	require.NoError(t, err)

	require.Equal(t, TypeRoot, tree.Type)
	require.Len(t, tree.Children, 2)

	heading := tree.Children[0]
	require.Equal(t, TypeHeading, heading.Type)
	require.Equal(t, 1, heading.Depth)
	require.Len(t, heading.Children, 1)
	require.Equal(t, "Hello, world!", heading.Children[0].Value)

	para := tree.Children[1]
	require.Equal(t, TypeParagraph, para.Type)
	require.NotNil(t, para.Position)

	var kinds []NodeType
	for _, child := range para.Children {
		kinds = append(kinds, child.Type)
	}
	require.Equal(t, []NodeType{TypeText, TypeEmphasis, TypeText, TypeStrong, TypeText}, kinds)
}

func TestCanParseFencedCodeBlock(t *testing.T) {
	parser := NewParser()

	src := "```go\nfmt.Println(\"hi\")\n```\n"
	tree, err := parser.Parse([]byte(src))
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	code := tree.Children[0]
	require.Equal(t, TypeCode, code.Type)
	require.Equal(t, "go", code.Lang)
	require.Equal(t, "fmt.Println(\"hi\")\n", code.Value)
}

func TestCanParseInlineCode(t *testing.T) {
	parser := NewParser()

	tree, err := parser.Parse([]byte("Use `go build` now\n"))
	require.NoError(t, err)

	para := tree.Children[0]
	require.Len(t, para.Children, 3)
	require.Equal(t, TypeInlineCode, para.Children[1].Type)
	require.Equal(t, "go build", para.Children[1].Value)
}

func TestCanParseLists(t *testing.T) {
	parser := NewParser()

	tree, err := parser.Parse([]byte("- a\n- b\n"))
	require.NoError(t, err)

	list := tree.Children[0]
	require.Equal(t, TypeList, list.Type)
	require.False(t, list.Ordered)
	require.Len(t, list.Children, 2)
	require.Equal(t, TypeListItem, list.Children[0].Type)
}

func TestCanParseLinks(t *testing.T) {
	parser := NewParser()

	tree, err := parser.Parse([]byte("[site](https://example.dev)\n"))
	require.NoError(t, err)

	para := tree.Children[0]
	link := para.Children[0]
	require.Equal(t, TypeLink, link.Type)
	require.Equal(t, "https://example.dev", link.URL)
	require.Equal(t, "site", link.Children[0].Value)
}

func TestAdjacentTextSegmentsCoalesce(t *testing.T) {
	parser := NewParser()

	// goldmark splits the text run before "!" (a potential image
	// marker); the tree must still carry one text node
	tree, err := parser.Parse([]byte("# Hello, world!\n\nAlmost done!\n"))
	require.NoError(t, err)

	heading := tree.Children[0]
	require.Len(t, heading.Children, 1)
	require.Equal(t, "Hello, world!", heading.Children[0].Value)

	para := tree.Children[1]
	require.Len(t, para.Children, 1)
	require.Equal(t, "Almost done!", para.Children[0].Value)
}

func TestRawMarkupBecomesHTMLNode(t *testing.T) {
	parser := NewParser()

	tree, err := parser.Parse([]byte("<Video />\n"))
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	html := tree.Children[0]
	require.Equal(t, TypeHTML, html.Type)
	require.Equal(t, "<Video />", html.Value)
}

func TestParserPositionsAreOneIndexed(t *testing.T) {
	src := []byte("line one\n\nline three\n")
	p := pointAt(src, 10)
	require.Equal(t, 3, p.Line)
	require.Equal(t, 1, p.Column)
	require.Equal(t, 10, p.Offset)
}
