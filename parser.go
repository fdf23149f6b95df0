package mdx

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parser converts raw document text into the generic tree. The
// CommonMark grammar itself is goldmark's job; this type only maps
// goldmark's AST onto the pipeline's node vocabulary.
type Parser struct {
	gm goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		gm: goldmark.New(),
	}
}

// Parse produces the generic tree for source. Raw markup the base
// grammar does not recognize as prose surfaces as html nodes whose
// Value is the exact source substring; Stage 1 takes it from there.
func (p *Parser) Parse(source []byte) (*Node, error) {
	doc := p.gm.Parser().Parse(text.NewReader(source))

	root, err := p.convert(doc, source)
	if err != nil {
		return nil, err
	}

	slog.Debug("parsed generic tree", "children", len(root.Children))
	return root, nil
}

func (p *Parser) convert(n ast.Node, source []byte) (*Node, error) {
	switch gn := n.(type) {
	case *ast.Document:
		root := NewRoot()
		children, err := p.convertChildren(gn, source)
		if err != nil {
			return nil, err
		}
		root.Children = children
		return root, nil

	case *ast.Heading:
		children, err := p.convertChildren(gn, source)
		if err != nil {
			return nil, err
		}
		return &Node{Type: TypeHeading, Depth: gn.Level, Children: children, Position: blockPosition(gn, source)}, nil

	case *ast.Paragraph:
		children, err := p.convertChildren(gn, source)
		if err != nil {
			return nil, err
		}
		return &Node{Type: TypeParagraph, Children: children, Position: blockPosition(gn, source)}, nil

	case *ast.TextBlock:
		children, err := p.convertChildren(gn, source)
		if err != nil {
			return nil, err
		}
		return &Node{Type: TypeParagraph, Children: children, Position: blockPosition(gn, source)}, nil

	case *ast.Blockquote:
		children, err := p.convertChildren(gn, source)
		if err != nil {
			return nil, err
		}
		return &Node{Type: TypeBlockquote, Children: children, Position: blockPosition(gn, source)}, nil

	case *ast.List:
		children, err := p.convertChildren(gn, source)
		if err != nil {
			return nil, err
		}
		return &Node{Type: TypeList, Ordered: gn.IsOrdered(), Children: children}, nil

	case *ast.ListItem:
		children, err := p.convertChildren(gn, source)
		if err != nil {
			return nil, err
		}
		return &Node{Type: TypeListItem, Children: children}, nil

	case *ast.ThematicBreak:
		return &Node{Type: TypeThematicBreak}, nil

	case *ast.FencedCodeBlock:
		return &Node{
			Type:     TypeCode,
			Lang:     string(gn.Language(source)),
			Value:    linesValue(gn, source),
			Position: blockPosition(gn, source),
		}, nil

	case *ast.CodeBlock:
		return &Node{Type: TypeCode, Value: linesValue(gn, source), Position: blockPosition(gn, source)}, nil

	case *ast.HTMLBlock:
		var buf bytes.Buffer
		for i := 0; i < gn.Lines().Len(); i++ {
			line := gn.Lines().At(i)
			buf.Write(line.Value(source))
		}
		if gn.HasClosure() {
			buf.Write(gn.ClosureLine.Value(source))
		}
		return &Node{
			Type:     TypeHTML,
			Value:    strings.TrimRight(buf.String(), "\n"),
			Position: blockPosition(gn, source),
		}, nil

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < gn.Segments.Len(); i++ {
			seg := gn.Segments.At(i)
			buf.Write(seg.Value(source))
		}
		var pos *Position
		if gn.Segments.Len() > 0 {
			pos = spanPosition(source, gn.Segments.At(0).Start, gn.Segments.At(gn.Segments.Len()-1).Stop)
		}
		return &Node{Type: TypeHTML, Value: buf.String(), Position: pos}, nil

	case *ast.Emphasis:
		children, err := p.convertChildren(gn, source)
		if err != nil {
			return nil, err
		}
		kind := TypeEmphasis
		if gn.Level > 1 {
			kind = TypeStrong
		}
		return &Node{Type: kind, Children: children}, nil

	case *ast.Link:
		children, err := p.convertChildren(gn, source)
		if err != nil {
			return nil, err
		}
		return &Node{Type: TypeLink, URL: string(gn.Destination), Title: string(gn.Title), Children: children}, nil

	case *ast.AutoLink:
		return &Node{
			Type:     TypeLink,
			URL:      string(gn.URL(source)),
			Children: []*Node{{Type: TypeText, Value: string(gn.Label(source))}},
		}, nil

	case *ast.Image:
		return &Node{
			Type:  TypeImage,
			URL:   string(gn.Destination),
			Title: string(gn.Title),
			Alt:   inlineText(gn, source),
		}, nil

	case *ast.CodeSpan:
		return &Node{Type: TypeInlineCode, Value: inlineText(gn, source)}, nil

	case *ast.String:
		return &Node{Type: TypeText, Value: string(gn.Value)}, nil

	default:
		return nil, fmt.Errorf("unsupported markdown construct %s", n.Kind())
	}
}

// convertChildren maps a goldmark node's children in order. Text nodes
// get line-break handling here: a soft break folds into the text value,
// a hard break becomes its own node. Adjacent text nodes coalesce into
// one: goldmark splits runs at potential markers (e.g. a trailing "!"),
// but downstream a text run is a single node.
func (p *Parser) convertChildren(n ast.Node, source []byte) ([]*Node, error) {
	var out []*Node
	appendText := func(node *Node) {
		if len(out) > 0 && out[len(out)-1].Type == TypeText {
			prev := out[len(out)-1]
			prev.Value += node.Value
			if prev.Position != nil && node.Position != nil {
				prev.Position.End = node.Position.End
			}
			return
		}
		out = append(out, node)
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			value := string(t.Segment.Value(source))
			if t.SoftLineBreak() {
				value += "\n"
			}
			if value != "" {
				appendText(&Node{
					Type:     TypeText,
					Value:    value,
					Position: spanPosition(source, t.Segment.Start, t.Segment.Stop),
				})
			}
			if t.HardLineBreak() {
				out = append(out, &Node{Type: TypeBreak})
			}
			continue
		}

		converted, err := p.convert(child, source)
		if err != nil {
			return nil, err
		}
		if converted.Type == TypeText {
			appendText(converted)
		} else {
			out = append(out, converted)
		}
	}
	return out, nil
}

// inlineText flattens a goldmark inline subtree to plain text.
func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(child, source))
		}
	}
	return buf.String()
}

// linesValue concatenates a block node's raw source lines.
func linesValue(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func blockPosition(n ast.Node, source []byte) *Position {
	if n.Lines().Len() == 0 {
		return nil
	}
	start := n.Lines().At(0).Start
	stop := n.Lines().At(n.Lines().Len() - 1).Stop
	return spanPosition(source, start, stop)
}

func spanPosition(source []byte, start, stop int) *Position {
	return &Position{
		Start: pointAt(source, start),
		End:   pointAt(source, stop),
	}
}

// pointAt resolves a byte offset to a 1-indexed line and column.
func pointAt(source []byte, offset int) Point {
	if offset > len(source) {
		offset = len(source)
	}
	line := bytes.Count(source[:offset], []byte("\n")) + 1
	lastNL := bytes.LastIndexByte(source[:offset], '\n')
	return Point{Line: line, Column: offset - lastNL, Offset: offset}
}
