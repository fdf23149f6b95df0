package mdx

import (
	"context"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}

// ImageAutolink is a built-in stage-1 transform: a paragraph holding
// nothing but a bare image URL becomes an image node. It runs before
// any user-supplied stage-1 transform.
func ImageAutolink(ctx context.Context, tree *Node, tctx *TransformContext) (*Node, error) {
	err := Walk(tree, func(c *Cursor) (WalkStatus, error) {
		n := c.Node()
		if n.Type != TypeParagraph || len(n.Children) != 1 {
			return WalkContinue, nil
		}
		child := n.Children[0]
		if child.Type != TypeText {
			return WalkContinue, nil
		}

		url := strings.TrimSpace(child.Value)
		if !isBareImageURL(url) {
			return WalkContinue, nil
		}

		c.Replace(&Node{Type: TypeImage, URL: url, Position: n.Position})
		return WalkSkipChildren, nil
	})
	return nil, err
}

func isBareImageURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(strings.ToLower(s), ext) {
			return true
		}
	}
	return false
}

// SyntaxHighlight returns a stage-2 transform that tokenizes fenced
// code block contents and rewrites the code element's children into
// per-token span elements carrying chroma's standard CSS classes.
// Blocks without a recognized language pass through untouched.
func SyntaxHighlight() Transform {
	return func(ctx context.Context, tree *Node, tctx *TransformContext) (*Node, error) {
		err := Walk(tree, func(c *Cursor) (WalkStatus, error) {
			n := c.Node()
			if n.Type != TypeElement || n.TagName != "code" || len(n.Children) != 1 {
				return WalkContinue, nil
			}
			class := n.Properties["className"]
			lang := strings.TrimPrefix(class, "language-")
			if lang == class || lang == "" {
				return WalkContinue, nil
			}
			text := n.Children[0]
			if text.Type != TypeText {
				return WalkContinue, nil
			}

			lexer := lexers.Get(lang)
			if lexer == nil {
				return WalkContinue, nil
			}

			it, err := chroma.Coalesce(lexer).Tokenise(nil, text.Value)
			if err != nil {
				return WalkStop, err
			}

			var spans []*Node
			for tok := it(); tok != chroma.EOF; tok = it() {
				cls := chroma.StandardTypes[tok.Type]
				if cls == "" {
					cls = chroma.StandardTypes[tok.Type.Category()]
				}
				if cls == "" {
					spans = append(spans, &Node{Type: TypeText, Value: tok.Value})
					continue
				}
				spans = append(spans, &Node{
					Type:       TypeElement,
					TagName:    "span",
					Properties: map[string]string{"className": cls},
					Children:   []*Node{{Type: TypeText, Value: tok.Value}},
				})
			}
			n.Children = spans
			return WalkSkipChildren, nil
		})
		return nil, err
	}
}
