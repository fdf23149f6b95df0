package mdx

import (
	"log/slog"
	"strings"
)

// transpileExtended rewrites the generic tree into the extended tree:
// every raw html node is reclassified to jsx with its children parsed
// under the embedded tag grammar, and top-level statement blocks become
// import/export nodes covering the exact source substring of each
// statement. Everything else passes through unchanged.
func transpileExtended(source []byte, root *Node) (*Node, error) {
	if err := extractStatements(source, root); err != nil {
		return nil, err
	}
	coalesceInlineHTML(source, root)
	if err := reclassifyHTML(root); err != nil {
		return nil, err
	}
	return root, nil
}

// statement is one import or export statement located in the source.
type statement struct {
	keyword    NodeType
	start, end int
}

// extractStatements replaces top-level blocks that begin with an
// import/export keyword by one node per statement. A statement may span
// physical lines (and block boundaries) while its braces, brackets or
// parens are unbalanced; unbalanced at end of document is fatal.
func extractStatements(source []byte, root *Node) error {
	var out []*Node
	i := 0
	for i < len(root.Children) {
		child := root.Children[i]
		if child.Type != TypeParagraph || child.Position == nil ||
			statementKeyword(source, child.Position.Start.Offset) == "" {
			out = append(out, child)
			i++
			continue
		}

		stmts, consumed, err := scanStatements(source, child.Position.Start.Offset)
		if err != nil {
			return err
		}
		for _, st := range stmts {
			out = append(out, &Node{
				Type:     st.keyword,
				Value:    strings.TrimRight(string(source[st.start:st.end]), " \t\r"),
				Position: spanPosition(source, st.start, st.end),
			})
		}
		slog.Debug("extracted statements", "count", len(stmts), "offset", child.Position.Start.Offset)

		// Drop every block the statements covered. A block the scan
		// only partially consumed keeps its tail as plain text.
		for i < len(root.Children) {
			c := root.Children[i]
			if c.Position == nil || c.Position.Start.Offset >= consumed {
				break
			}
			if c.Position.End.Offset > consumed {
				rest := strings.TrimSpace(string(source[consumed:c.Position.End.Offset]))
				if rest != "" {
					out = append(out, &Node{
						Type:     TypeParagraph,
						Children: []*Node{{Type: TypeText, Value: rest}},
						Position: spanPosition(source, consumed, c.Position.End.Offset),
					})
				}
			}
			i++
		}
	}
	root.Children = out
	return nil
}

// statementKeyword reports which statement keyword, if any, the line at
// off starts with after leading whitespace, requiring a token boundary
// after the keyword.
func statementKeyword(source []byte, off int) NodeType {
	for off < len(source) && (source[off] == ' ' || source[off] == '\t') {
		off++
	}
	for _, kw := range []struct {
		word string
		kind NodeType
	}{{"import", TypeImport}, {"export", TypeExport}} {
		if !strings.HasPrefix(string(source[off:]), kw.word) {
			continue
		}
		rest := source[off+len(kw.word):]
		if len(rest) == 0 || !isIdentByte(rest[0]) {
			return kw.kind
		}
	}
	return ""
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '$'
}

// scanStatements reads consecutive statements starting at off. It
// returns the statements and the offset just past the last consumed
// line.
func scanStatements(source []byte, off int) ([]statement, int, error) {
	var stmts []statement
	consumed := off
	for {
		// skip blank space between statements
		for off < len(source) && (source[off] == ' ' || source[off] == '\t' || source[off] == '\n' || source[off] == '\r') {
			off++
		}
		kw := statementKeyword(source, off)
		if kw == "" || off >= len(source) {
			break
		}

		end, err := scanStatementEnd(source, off)
		if err != nil {
			return nil, 0, err
		}
		stmts = append(stmts, statement{keyword: kw, start: off, end: end})
		consumed = end
		off = end
	}
	return stmts, consumed, nil
}

// scanStatementEnd finds the end of the statement starting at start:
// the first end of line at which every brace, bracket and paren opened
// since start is closed and no string literal is open.
func scanStatementEnd(source []byte, start int) (int, error) {
	depth := 0
	var quote byte
	i := start
	for i < len(source) {
		c := source[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '{' || c == '[' || c == '(':
			depth++
		case c == '}' || c == ']' || c == ')':
			depth--
		case c == '\n':
			if depth <= 0 {
				return i, nil
			}
		}
		i++
	}
	if depth > 0 || quote != 0 {
		pos := spanPosition(source, start, start)
		return 0, &StructuralParseError{Msg: "unbalanced statement at end of document", Pos: pos}
	}
	return i, nil
}

// coalesceInlineHTML merges sibling html fragments that the base parser
// split apart (an open tag, intervening prose, a close tag) into one
// html node covering the exact source span, so reclassification sees a
// balanced fragment. Unmatched opens are left alone and fail later with
// a precise error.
func coalesceInlineHTML(source []byte, n *Node) {
	for _, child := range n.Children {
		coalesceInlineHTML(source, child)
	}

	var out []*Node
	for i := 0; i < len(n.Children); i++ {
		child := n.Children[i]
		name, open := openTagName(child)
		if !open || child.Position == nil {
			out = append(out, child)
			continue
		}

		if j := findCloseSibling(n.Children, i, name); j > i && n.Children[j].Position != nil {
			start := child.Position.Start.Offset
			end := n.Children[j].Position.End.Offset
			out = append(out, &Node{
				Type:     TypeHTML,
				Value:    string(source[start:end]),
				Position: spanPosition(source, start, end),
			})
			i = j
			continue
		}
		out = append(out, child)
	}
	n.Children = out
}

// openTagName reports the tag name when n is a lone, non-self-closing
// open tag fragment.
func openTagName(n *Node) (string, bool) {
	if n.Type != TypeHTML {
		return "", false
	}
	v := strings.TrimSpace(n.Value)
	if !strings.HasPrefix(v, "<") || strings.HasPrefix(v, "</") || strings.HasPrefix(v, "<!--") {
		return "", false
	}
	if !strings.HasSuffix(v, ">") || strings.HasSuffix(v, "/>") {
		return "", false
	}
	s := &tagScanner{src: v, pos: 1}
	name := s.scanName()
	if name == "" {
		return "", false
	}
	// a complete element in one fragment needs no pairing
	if strings.Contains(v[len(name)+1:], "</"+name) {
		return "", false
	}
	return name, true
}

// isCloseTag reports whether fragment v is a closing tag for name,
// matched case-sensitively on the full name.
func isCloseTag(v, name string) bool {
	if !strings.HasPrefix(v, "</"+name) {
		return false
	}
	rest := strings.TrimSpace(v[2+len(name):])
	return strings.HasPrefix(rest, ">")
}

// findCloseSibling locates the html sibling closing name, honoring
// nesting of same-named opens in between.
func findCloseSibling(siblings []*Node, from int, name string) int {
	depth := 1
	for j := from + 1; j < len(siblings); j++ {
		sib := siblings[j]
		if sib.Type != TypeHTML {
			continue
		}
		v := strings.TrimSpace(sib.Value)
		if isCloseTag(v, name) {
			depth--
			if depth == 0 {
				return j
			}
		} else if n, open := openTagName(sib); open && n == name {
			depth++
		}
	}
	return -1
}

// reclassifyHTML turns every html node into a jsx node. Value keeps the
// exact raw source; Children come from the embedded tag grammar. When
// the fragment is a single element, its tag name, attributes and inner
// children are lifted onto the jsx node itself.
func reclassifyHTML(root *Node) error {
	return Walk(root, func(c *Cursor) (WalkStatus, error) {
		n := c.Node()
		if n.Type != TypeHTML {
			return WalkContinue, nil
		}

		parsed, err := parseEmbedded(n.Value, n.Position)
		if err != nil {
			return WalkStop, err
		}

		jsx := &Node{Type: TypeJSX, Value: n.Value, Position: n.Position}
		if len(parsed) == 1 && parsed[0].Type == TypeJSX &&
			strings.TrimSpace(parsed[0].Value) == strings.TrimSpace(n.Value) {
			jsx.TagName = parsed[0].TagName
			jsx.Properties = parsed[0].Properties
			jsx.Children = parsed[0].Children
		} else {
			jsx.Children = parsed
		}

		c.Replace(jsx)
		return WalkSkipChildren, nil
	})
}
