package mdx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tagScanner re-parses a raw markup substring under the embedded tag
// grammar: open/close tag matching by depth and case-sensitive name,
// attribute lists, self-closing detection. This is the one place where
// embedded markup syntax, not the prose grammar, governs parsing.
//
// Scanning never rewrites the input: every produced jsx node's Value is
// the exact source substring it covers.
type tagScanner struct {
	src  string
	pos  int
	base *Position
}

// parseEmbedded parses a raw markup fragment into its structural child
// nodes. base anchors diagnostic positions to the original document.
func parseEmbedded(value string, base *Position) ([]*Node, error) {
	s := &tagScanner{src: value, base: base}
	nodes, err := s.scanNodes()
	if err != nil {
		return nil, err
	}
	if s.pos < len(s.src) {
		// scanNodes only stops early on a closing tag, which has no
		// matching open tag out here.
		return nil, s.errAt(s.pos, "unexpected closing tag")
	}
	return nodes, nil
}

// scanNodes consumes elements, comments, expressions and text until a
// closing tag or end of input.
func (s *tagScanner) scanNodes() ([]*Node, error) {
	var nodes []*Node
	for s.pos < len(s.src) {
		switch {
		case strings.HasPrefix(s.src[s.pos:], "<!--"):
			end := strings.Index(s.src[s.pos:], "-->")
			if end < 0 {
				return nil, s.errAt(s.pos, "unterminated comment")
			}
			s.pos += end + len("-->")

		case strings.HasPrefix(s.src[s.pos:], "</"):
			return nodes, nil

		case s.startsTag():
			el, err := s.scanElement()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, el)

		case s.src[s.pos] == '{':
			start := s.pos
			if err := s.skipBalanced('{', '}'); err != nil {
				return nil, err
			}
			nodes = append(nodes, &Node{Type: TypeText, Value: s.src[start:s.pos]})

		default:
			start := s.pos
			s.pos++
			for s.pos < len(s.src) && s.src[s.pos] != '{' && !s.startsTag() &&
				!strings.HasPrefix(s.src[s.pos:], "</") && !strings.HasPrefix(s.src[s.pos:], "<!--") {
				s.pos++
			}
			run := s.src[start:s.pos]
			if strings.TrimSpace(run) != "" {
				nodes = append(nodes, &Node{Type: TypeText, Value: run})
			}
		}
	}
	return nodes, nil
}

// startsTag reports whether the scanner sits on an opening tag, as
// opposed to a bare '<' inside text or an expression.
func (s *tagScanner) startsTag() bool {
	if s.pos >= len(s.src) || s.src[s.pos] != '<' {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos+1:])
	return unicode.IsLetter(r) || r == '_'
}

// scanElement parses one element from the opening '<' through its
// matching close tag (or self-closing slash). The returned node's Value
// is the exact covered substring.
func (s *tagScanner) scanElement() (*Node, error) {
	start := s.pos
	s.pos++ // '<'

	name := s.scanName()
	if name == "" {
		return nil, s.errAt(start, "malformed tag")
	}

	props, selfClosing, err := s.scanAttributes(start)
	if err != nil {
		return nil, err
	}

	node := &Node{Type: TypeJSX, TagName: name, Properties: props}
	if selfClosing {
		node.Value = s.src[start:s.pos]
		node.Position = s.spanFrom(start)
		return node, nil
	}

	children, err := s.scanNodes()
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(s.src[s.pos:], "</") {
		return nil, s.errAt(start, "unterminated tag <"+name+">")
	}
	closeStart := s.pos
	s.pos += 2
	closeName := s.scanName()
	s.skipSpace()
	if s.pos >= len(s.src) || s.src[s.pos] != '>' {
		return nil, s.errAt(closeStart, "malformed closing tag")
	}
	s.pos++
	if closeName != name {
		return nil, s.errAt(closeStart, "mismatched closing tag </"+closeName+">, expected </"+name+">")
	}

	node.Value = s.src[start:s.pos]
	node.Children = children
	node.Position = s.spanFrom(start)
	return node, nil
}

// scanAttributes consumes the attribute list up to and including the
// tag's '>' or '/>'.
func (s *tagScanner) scanAttributes(tagStart int) (map[string]string, bool, error) {
	var props map[string]string
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, false, s.errAt(tagStart, "unterminated tag")
		}
		if strings.HasPrefix(s.src[s.pos:], "/>") {
			s.pos += 2
			return props, true, nil
		}
		if s.src[s.pos] == '>' {
			s.pos++
			return props, false, nil
		}

		name := s.scanAttrName()
		if name == "" {
			return nil, false, s.errAt(s.pos, "malformed attribute")
		}
		value := ""
		if s.pos < len(s.src) && s.src[s.pos] == '=' {
			s.pos++
			v, err := s.scanAttrValue()
			if err != nil {
				return nil, false, err
			}
			value = v
		}
		if props == nil {
			props = make(map[string]string)
		}
		props[name] = value
	}
}

func (s *tagScanner) scanAttrValue() (string, error) {
	if s.pos >= len(s.src) {
		return "", s.errAt(s.pos, "missing attribute value")
	}
	switch c := s.src[s.pos]; c {
	case '"', '\'':
		end := strings.IndexByte(s.src[s.pos+1:], c)
		if end < 0 {
			return "", s.errAt(s.pos, "unterminated attribute value")
		}
		v := s.src[s.pos+1 : s.pos+1+end]
		s.pos += end + 2
		return v, nil
	case '{':
		start := s.pos
		if err := s.skipBalanced('{', '}'); err != nil {
			return "", err
		}
		return s.src[start:s.pos], nil
	default:
		start := s.pos
		for s.pos < len(s.src) && !isSpaceByte(s.src[s.pos]) && s.src[s.pos] != '>' &&
			!strings.HasPrefix(s.src[s.pos:], "/>") {
			s.pos++
		}
		return s.src[start:s.pos], nil
	}
}

// skipBalanced consumes a delimiter-balanced run, respecting single and
// double quoted strings inside it.
func (s *tagScanner) skipBalanced(open, close byte) error {
	start := s.pos
	depth := 0
	var quote byte
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				s.pos++
				return nil
			}
		}
		s.pos++
	}
	return s.errAt(start, "unbalanced delimiters")
}

func (s *tagScanner) scanName() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '_' || c == '.' || c == '-' {
			s.pos++
			continue
		}
		break
	}
	return s.src[start:s.pos]
}

func (s *tagScanner) scanAttrName() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isSpaceByte(c) || c == '=' || c == '>' || c == '/' || c == '<' {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *tagScanner) skipSpace() {
	for s.pos < len(s.src) && isSpaceByte(s.src[s.pos]) {
		s.pos++
	}
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// errAt builds a StructuralParseError anchored to an offset within the
// scanned fragment, translated back into document coordinates when the
// fragment's base position is known.
func (s *tagScanner) errAt(off int, msg string) error {
	return &StructuralParseError{Msg: msg, Pos: s.fragmentPosition(off, off)}
}

func (s *tagScanner) spanFrom(start int) *Position {
	return s.fragmentPosition(start, s.pos)
}

func (s *tagScanner) fragmentPosition(start, end int) *Position {
	if s.base == nil {
		return nil
	}
	return &Position{
		Start: offsetPoint(s.base.Start, s.src, start),
		End:   offsetPoint(s.base.Start, s.src, end),
	}
}

// offsetPoint advances a base point by off bytes of text.
func offsetPoint(base Point, text string, off int) Point {
	if off > len(text) {
		off = len(text)
	}
	prefix := text[:off]
	lines := strings.Count(prefix, "\n")
	p := Point{Line: base.Line + lines, Offset: base.Offset + off}
	if lines == 0 {
		p.Column = base.Column + off
	} else {
		p.Column = off - strings.LastIndexByte(prefix, '\n')
	}
	return p
}
