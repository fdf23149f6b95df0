package mdx

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const wrapperFunc = "MDXContent"

// generate renders the final markup tree to component code. Statement
// nodes are emitted at module top in document order among themselves;
// everything else is rendered, also in document order, inside the body
// of the exported content function. jsx values are emitted verbatim,
// never re-serialized from their children.
func generate(root *Node) (string, error) {
	var statements []*Node
	var content []*Node
	for _, child := range root.Children {
		switch child.Type {
		case TypeImport, TypeExport:
			statements = append(statements, child)
		default:
			content = append(content, child)
		}
	}

	var sb strings.Builder
	for _, st := range statements {
		sb.WriteString(st.Value)
		sb.WriteString("\n")
	}
	if len(statements) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("export default function " + wrapperFunc + "() {\n")
	if len(content) == 0 {
		sb.WriteString("  return null\n}\n")
		return sb.String(), nil
	}

	sb.WriteString("  return (\n    <div>\n")
	for _, child := range content {
		rendered, err := renderNode(child, 3)
		if err != nil {
			return "", err
		}
		sb.WriteString(rendered)
		sb.WriteString("\n")
	}
	sb.WriteString("    </div>\n  )\n}\n")
	return sb.String(), nil
}

func renderNode(n *Node, depth int) (string, error) {
	indent := strings.Repeat("  ", depth)
	switch n.Type {
	case TypeText:
		return indent + renderText(n.Value), nil

	case TypeInlineCode:
		return indent + renderInlineCode(n.Value), nil

	case TypeJSX:
		// Value is authoritative: children exist for structural access
		// only and are never re-serialized here.
		lines := strings.Split(n.Value, "\n")
		for i := range lines {
			if i > 0 && lines[i] != "" {
				lines[i] = indent + lines[i]
			}
		}
		return indent + strings.Join(lines, "\n"), nil

	case TypeElement:
		return renderElement(n, depth)

	case TypeImport, TypeExport:
		return "", fmt.Errorf("%s statement below document root", n.Type)

	default:
		return "", fmt.Errorf("cannot render node kind %s", n.Type)
	}
}

func renderElement(n *Node, depth int) (string, error) {
	indent := strings.Repeat("  ", depth)
	open := "<" + n.TagName + renderAttributes(n.Properties)

	if len(n.Children) == 0 {
		return indent + open + " />", nil
	}

	if inline, ok := renderInlineChildren(n); ok {
		return indent + open + ">" + inline + "</" + n.TagName + ">", nil
	}

	var sb strings.Builder
	sb.WriteString(indent + open + ">\n")
	for _, child := range n.Children {
		rendered, err := renderNode(child, depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(rendered)
		sb.WriteString("\n")
	}
	sb.WriteString(indent + "</" + n.TagName + ">")
	return sb.String(), nil
}

// renderInlineChildren renders n's children on one line when all of
// them are inline-safe.
func renderInlineChildren(n *Node) (string, bool) {
	var sb strings.Builder
	for _, child := range n.Children {
		switch child.Type {
		case TypeText:
			if strings.Contains(child.Value, "\n") && strings.TrimSpace(child.Value) == "" {
				continue
			}
			sb.WriteString(renderText(child.Value))
		case TypeInlineCode:
			sb.WriteString(renderInlineCode(child.Value))
		case TypeJSX:
			if strings.Contains(child.Value, "\n") {
				return "", false
			}
			sb.WriteString(child.Value)
		case TypeElement:
			if !inlineTag(child.TagName) {
				return "", false
			}
			inner, ok := renderInlineChildren(child)
			if !ok {
				return "", false
			}
			open := "<" + child.TagName + renderAttributes(child.Properties)
			if len(child.Children) == 0 {
				sb.WriteString(open + " />")
			} else {
				sb.WriteString(open + ">" + inner + "</" + child.TagName + ">")
			}
		default:
			return "", false
		}
	}
	s := sb.String()
	if strings.Contains(s, "\n") {
		return "", false
	}
	return s, true
}

func inlineTag(tag string) bool {
	switch tag {
	case "em", "strong", "a", "code", "span", "br", "img":
		return true
	}
	return false
}

// renderText emits prose text, wrapping it in a string expression when
// it contains characters the markup grammar would misread. Newlines are
// preserved exactly through the quoted form.
func renderText(value string) string {
	if strings.ContainsAny(value, "{}<>\n") {
		return "{" + strconv.Quote(value) + "}"
	}
	return value
}

// renderInlineCode keeps raw markup inside code spans literal by
// emitting it as a quoted string expression.
func renderInlineCode(value string) string {
	return "<code>{" + strconv.Quote(value) + "}</code>"
}

func renderAttributes(props map[string]string) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		v := props[k]
		if strings.HasPrefix(v, "{") {
			sb.WriteString(" " + k + "=" + v)
		} else {
			sb.WriteString(" " + k + "=" + strconv.Quote(v))
		}
	}
	return sb.String()
}
