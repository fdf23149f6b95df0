package mdx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmbeddedElements(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
		check   func(t *testing.T, nodes []*Node)
	}{
		{
			name: "self closing with attributes",
			src:  `<Video width="640" autoPlay />`,
			check: func(t *testing.T, nodes []*Node) {
				require.Len(t, nodes, 1)
				require.Equal(t, "Video", nodes[0].TagName)
				require.Equal(t, map[string]string{"width": "640", "autoPlay": ""}, nodes[0].Properties)
				require.Empty(t, nodes[0].Children)
			},
		},
		{
			name: "expression attribute keeps braces",
			src:  `<Chart data={{a: 1, b: [2, 3]}} />`,
			check: func(t *testing.T, nodes []*Node) {
				require.Equal(t, "{{a: 1, b: [2, 3]}}", nodes[0].Properties["data"])
			},
		},
		{
			name: "nested elements and text",
			src:  "<Box><Inner>deep</Inner> tail</Box>",
			check: func(t *testing.T, nodes []*Node) {
				require.Len(t, nodes, 1)
				box := nodes[0]
				require.Equal(t, "<Box><Inner>deep</Inner> tail</Box>", box.Value)
				require.Len(t, box.Children, 2)
				require.Equal(t, "<Inner>deep</Inner>", box.Children[0].Value)
				require.Equal(t, "deep", box.Children[0].Children[0].Value)
				require.Equal(t, " tail", box.Children[1].Value)
			},
		},
		{
			name: "expression child becomes text",
			src:  "<Box>{count < 10 ? 'low' : 'high'}</Box>",
			check: func(t *testing.T, nodes []*Node) {
				require.Len(t, nodes[0].Children, 1)
				require.Equal(t, "{count < 10 ? 'low' : 'high'}", nodes[0].Children[0].Value)
			},
		},
		{
			name: "comments produce no nodes",
			src:  "<!-- note -->",
			check: func(t *testing.T, nodes []*Node) {
				require.Empty(t, nodes)
			},
		},
		{
			name: "case sensitive tag matching",
			src:  "<Box>x</box>",
			wantErr: true,
		},
		{
			name:    "stray closing tag",
			src:     "</Box>",
			wantErr: true,
		},
		{
			name:    "unterminated comment",
			src:     "<!-- never closed",
			wantErr: true,
		},
		{
			name:    "unbalanced expression attribute",
			src:     "<Chart data={ />",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nodes, err := parseEmbedded(tc.src, nil)
			if tc.wantErr {
				require.Error(t, err)
				var structural *StructuralParseError
				require.ErrorAs(t, err, &structural)
				return
			}
			require.NoError(t, err)
			tc.check(t, nodes)
		})
	}
}

func TestParseEmbeddedErrorCarriesPosition(t *testing.T) {
	base := &Position{Start: Point{Line: 5, Column: 1, Offset: 40}}
	_, err := parseEmbedded("<Open>never closed", base)
	require.Error(t, err)

	var structural *StructuralParseError
	require.ErrorAs(t, err, &structural)
	require.NotNil(t, structural.Pos)
	require.Equal(t, 5, structural.Pos.Start.Line)
}
