package mdx

import (
	"fmt"
	"strings"
)

// transpileMarkup converts the extended tree into the markup tree:
// prose kinds map onto generic markup elements, inline code keeps its
// own leaf kind for literal-code escaping, and jsx/import/export nodes
// pass through structurally unchanged. The mapping is total; an
// unmapped kind is a structural failure, not a silent pass.
func transpileMarkup(root *Node) (*Node, error) {
	out := NewRoot()
	out.Position = root.Position
	for _, child := range root.Children {
		mapped, err := mapMarkup(child)
		if err != nil {
			return nil, err
		}
		out.Append(mapped)
	}
	return out, nil
}

func mapMarkup(n *Node) (*Node, error) {
	switch n.Type {
	case TypeJSX, TypeImport, TypeExport, TypeText, TypeInlineCode:
		return n, nil

	case TypeParagraph:
		return element(n, "p", nil)
	case TypeBlockquote:
		return element(n, "blockquote", nil)
	case TypeEmphasis:
		return element(n, "em", nil)
	case TypeStrong:
		return element(n, "strong", nil)
	case TypeListItem:
		return element(n, "li", nil)

	case TypeHeading:
		depth := n.Depth
		if depth < 1 {
			depth = 1
		} else if depth > 6 {
			depth = 6
		}
		return element(n, fmt.Sprintf("h%d", depth), nil)

	case TypeList:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		return element(n, tag, nil)

	case TypeLink:
		props := map[string]string{"href": n.URL}
		if n.Title != "" {
			props["title"] = n.Title
		}
		return element(n, "a", props)

	case TypeImage:
		props := map[string]string{"src": n.URL}
		if n.Alt != "" {
			props["alt"] = n.Alt
		}
		if n.Title != "" {
			props["title"] = n.Title
		}
		return &Node{Type: TypeElement, TagName: "img", Properties: props, Position: n.Position}, nil

	case TypeThematicBreak:
		return &Node{Type: TypeElement, TagName: "hr", Position: n.Position}, nil
	case TypeBreak:
		return &Node{Type: TypeElement, TagName: "br"}, nil

	case TypeCode:
		code := &Node{
			Type:     TypeElement,
			TagName:  "code",
			Children: []*Node{{Type: TypeText, Value: n.Value}},
		}
		if n.Lang != "" {
			code.Properties = map[string]string{"className": "language-" + n.Lang}
		}
		return &Node{Type: TypeElement, TagName: "pre", Children: []*Node{code}, Position: n.Position}, nil

	default:
		return nil, &StructuralParseError{
			Msg: "no markup mapping for node kind " + string(n.Type),
			Pos: n.Position,
		}
	}
}

// element maps n onto an element node with tagName, converting children
// recursively.
func element(n *Node, tagName string, props map[string]string) (*Node, error) {
	el := &Node{Type: TypeElement, TagName: tagName, Properties: props, Position: n.Position}
	for _, child := range n.Children {
		mapped, err := mapMarkup(child)
		if err != nil {
			return nil, err
		}
		el.Append(mapped)
	}
	return el, nil
}

func outline(n *Node, depth int, sb *strings.Builder) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(string(n.Type))
	if n.TagName != "" {
		sb.WriteString("<" + n.TagName + ">")
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		outline(c, depth+1, sb)
	}
}

// Outline renders an indented kind/tag outline of a tree, for
// diagnostics and test assertions.
func Outline(n *Node) string {
	var sb strings.Builder
	outline(n, 0, &sb)
	return sb.String()
}
