package mdx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func parseExtended(t *testing.T, src string) (*Node, error) {
	t.Helper()
	tree, err := NewParser().Parse([]byte(src))
	require.NoError(t, err)
	return transpileExtended([]byte(src), tree)
}

func TestReclassifiesSelfClosingBlock(t *testing.T) {
	tree, err := parseExtended(t, "<Video />\n")
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	jsx := tree.Children[0]
	require.Equal(t, TypeJSX, jsx.Type)
	require.Equal(t, "<Video />", jsx.Value)
	require.Equal(t, "Video", jsx.TagName)
	require.Empty(t, jsx.Children)
}

func TestReclassifiedBlockKeepsExactRawValue(t *testing.T) {
	// odd spacing and mixed quoting must survive byte-for-byte
	src := "<Box  a=\"1\"   b='2'>\n  <Inner />\n</Box>\n"
	tree, err := parseExtended(t, src)
	require.NoError(t, err)

	jsx := tree.Children[0]
	require.Equal(t, TypeJSX, jsx.Type)
	require.Equal(t, "<Box  a=\"1\"   b='2'>\n  <Inner />\n</Box>", jsx.Value)
	require.Equal(t, "Box", jsx.TagName)
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, jsx.Properties)

	require.Len(t, jsx.Children, 1)
	inner := jsx.Children[0]
	require.Equal(t, TypeJSX, inner.Type)
	require.Equal(t, "<Inner />", inner.Value)
}

func TestReclassifiesInlineMarkupSpan(t *testing.T) {
	tree, err := parseExtended(t, "Hello <Tag>world</Tag> again\n")
	require.NoError(t, err)

	para := tree.Children[0]
	require.Equal(t, TypeParagraph, para.Type)

	var jsx *Node
	for _, child := range para.Children {
		if child.Type == TypeJSX {
			jsx = child
		}
	}
	require.NotNil(t, jsx)
	require.Equal(t, "<Tag>world</Tag>", jsx.Value)
	require.Len(t, jsx.Children, 1)
	require.Equal(t, "world", jsx.Children[0].Value)
}

func TestMismatchedCloseTagIsFatal(t *testing.T) {
	_, err := parseExtended(t, "<Heading><Sub></Heading>\n")
	require.Error(t, err)

	var structural *StructuralParseError
	require.ErrorAs(t, err, &structural)
}

func TestUnterminatedTagIsFatal(t *testing.T) {
	_, err := parseExtended(t, "text with <Open> and no close\n")
	require.Error(t, err)

	var structural *StructuralParseError
	require.ErrorAs(t, err, &structural)
}

func TestExtractsImportStatement(t *testing.T) {
	tree, err := parseExtended(t, "import Video from '../components/Video'\n\n# Hi\n")
	require.NoError(t, err)

	require.Len(t, tree.Children, 2)
	imp := tree.Children[0]
	require.Equal(t, TypeImport, imp.Type)
	require.Equal(t, "import Video from '../components/Video'", imp.Value)
	require.Empty(t, imp.Children)
	require.Equal(t, TypeHeading, tree.Children[1].Type)
}

func TestExtractsConsecutiveStatements(t *testing.T) {
	src := "import A from 'a'\nimport B from 'b'\n\ntext\n"
	tree, err := parseExtended(t, src)
	require.NoError(t, err)

	require.Len(t, tree.Children, 3)
	require.Equal(t, TypeImport, tree.Children[0].Type)
	require.Equal(t, "import A from 'a'", tree.Children[0].Value)
	require.Equal(t, TypeImport, tree.Children[1].Type)
	require.Equal(t, "import B from 'b'", tree.Children[1].Value)
	require.Equal(t, TypeParagraph, tree.Children[2].Type)
}

func TestExtractsMultilineExportStatement(t *testing.T) {
	src := "export const meta = {\n  author: 'Jane'\n}\n\n# Hi\n"
	tree, err := parseExtended(t, src)
	require.NoError(t, err)

	require.Len(t, tree.Children, 2)
	exp := tree.Children[0]
	require.Equal(t, TypeExport, exp.Type)
	require.Equal(t, "export const meta = {\n  author: 'Jane'\n}", exp.Value)
}

func TestUnbalancedStatementIsFatal(t *testing.T) {
	_, err := parseExtended(t, "export const meta = {\n  author: 'Jane'\n")
	require.Error(t, err)

	var structural *StructuralParseError
	require.ErrorAs(t, err, &structural)
}

func TestKeywordNeedsTokenBoundary(t *testing.T) {
	tree, err := parseExtended(t, "important note\n")
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	require.Equal(t, TypeParagraph, tree.Children[0].Type)
}

func TestOrderIsPreservedAcrossStageOne(t *testing.T) {
	src := "import A from 'a'\n\nfirst\n\n<Video />\n\nexport const x = 1\n\nlast\n"
	tree, err := parseExtended(t, src)
	require.NoError(t, err)

	var kinds []NodeType
	for _, child := range tree.Children {
		kinds = append(kinds, child.Type)
	}
	require.Equal(t, []NodeType{TypeImport, TypeParagraph, TypeJSX, TypeExport, TypeParagraph}, kinds)
}

func TestExtensionIsAdditive(t *testing.T) {
	// a document with no embedded markup and no statements comes out
	// structurally identical to the base parse
	src := "# Title\n\nplain *prose* here\n\n- a\n- b\n"

	base, err := NewParser().Parse([]byte(src))
	require.NoError(t, err)

	extended, err := parseExtended(t, src)
	require.NoError(t, err)

	require.Equal(t, base, extended)
}
