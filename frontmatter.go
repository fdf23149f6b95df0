package mdx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

const frontmatterFence = "---"

// splitFrontmatter splits a leading YAML block, fenced by --- lines at
// the very top of the document, from the rest of the source.
func splitFrontmatter(source string) (block, rest string, found bool) {
	if !strings.HasPrefix(source, frontmatterFence+"\n") && source != frontmatterFence {
		return "", source, false
	}
	body := source[len(frontmatterFence)+1:]
	end := strings.Index(body, "\n"+frontmatterFence)
	if end < 0 {
		return "", source, false
	}
	after := body[end+1+len(frontmatterFence):]
	if after != "" && !strings.HasPrefix(after, "\n") {
		return "", source, false
	}
	return body[:end], strings.TrimPrefix(after, "\n"), true
}

// frontmatterExport parses the YAML block and re-emits it as an export
// statement node, so downstream code sees frontmatter as ordinary
// module data. Key order is preserved.
func frontmatterExport(block string) (*Node, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions([]byte(block), &doc, yaml.UseOrderedMap()); err != nil {
		return nil, &StructuralParseError{Msg: fmt.Sprintf("invalid frontmatter: %v", err)}
	}

	return &Node{
		Type:  TypeExport,
		Value: "export const frontmatter = " + jsValue(doc),
	}, nil
}

// jsValue renders a decoded YAML value as an object literal.
func jsValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case yaml.MapSlice:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, strconv.Quote(fmt.Sprint(item.Key))+": "+jsValue(item.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, jsValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case string:
		return strconv.Quote(val)
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(val)
	default:
		return strconv.Quote(fmt.Sprint(val))
	}
}
