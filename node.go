package mdx

// NodeType identifies a node's category within one tree stage.
type NodeType string

const (
	TypeRoot          NodeType = "root"
	TypeParagraph     NodeType = "paragraph"
	TypeHeading       NodeType = "heading"
	TypeText          NodeType = "text"
	TypeEmphasis      NodeType = "emphasis"
	TypeStrong        NodeType = "strong"
	TypeLink          NodeType = "link"
	TypeImage         NodeType = "image"
	TypeList          NodeType = "list"
	TypeListItem      NodeType = "listItem"
	TypeCode          NodeType = "code"
	TypeInlineCode    NodeType = "inlineCode"
	TypeBlockquote    NodeType = "blockquote"
	TypeThematicBreak NodeType = "thematicBreak"
	TypeBreak         NodeType = "break"

	// TypeHTML is the base parser's catch-all for raw markup it does not
	// recognize as prose. Stage 1 reclassifies every html node to jsx.
	TypeHTML NodeType = "html"

	TypeJSX    NodeType = "jsx"
	TypeImport NodeType = "import"
	TypeExport NodeType = "export"

	// TypeElement only appears in the markup tree produced by Stage 2.
	TypeElement NodeType = "element"
)

// Point is a single location in the source document. Offset is a byte
// offset, Line and Column are 1-indexed.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Position is the source span a node was parsed from. It is diagnostic
// metadata only and is never consulted for semantics.
type Position struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Node is the universal tree unit across all pipeline stages.
//
// Which fields are populated depends on Type: leaf kinds (text, code,
// inlineCode, import, export) carry Value, container kinds carry
// Children. A jsx node carries both: Value holds the exact raw markup
// source and Children holds the parsed structure for transforms that
// want it. Value stays authoritative for code emission.
type Node struct {
	Type  NodeType `json:"type"`
	Value string   `json:"value,omitempty"`

	// Depth is the heading level (1..6) for heading nodes.
	Depth int `json:"depth,omitempty"`
	// Ordered marks an ordered list.
	Ordered bool `json:"ordered,omitempty"`
	// URL and Title are set on link and image nodes, Alt on images.
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
	Alt   string `json:"alt,omitempty"`
	// Lang is the info string of a fenced code block.
	Lang string `json:"lang,omitempty"`

	// TagName and Properties are set on element nodes (markup tree) and
	// on the parsed children of jsx nodes (tag attributes).
	TagName    string            `json:"tagName,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`

	Children []*Node   `json:"children,omitempty"`
	Position *Position `json:"position,omitempty"`
}

// NewRoot returns an empty root node.
func NewRoot() *Node {
	return &Node{Type: TypeRoot}
}

// Append adds children to n in order.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// WalkStatus controls how a walk proceeds after visiting a node.
type WalkStatus int

const (
	// WalkContinue descends into the visited node's children.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren moves on without visiting the node's children.
	WalkSkipChildren
	// WalkStop ends the walk immediately.
	WalkStop
)

// Cursor gives a visitor access to the node under visitation and lets
// it rewrite the tree in place. Replacements and removals take effect
// immediately: a replaced node's children are visited next unless the
// visitor skips them.
type Cursor struct {
	node    *Node
	parent  *Node
	index   int
	removed bool
}

// Node returns the node currently under the cursor.
func (c *Cursor) Node() *Node { return c.node }

// Parent returns the parent of the current node, nil at the root.
func (c *Cursor) Parent() *Node { return c.parent }

// Index returns the current node's position in its parent's children,
// -1 at the root.
func (c *Cursor) Index() int { return c.index }

// Replace swaps the current node for repl in its parent. The walk
// continues into repl's children. Replacing the root is not supported.
func (c *Cursor) Replace(repl *Node) {
	if c.parent == nil {
		panic("mdx: cannot replace the root node")
	}
	c.parent.Children[c.index] = repl
	c.node = repl
}

// Remove deletes the current node from its parent. Its children are
// not visited. Removing the root is not supported.
func (c *Cursor) Remove() {
	if c.parent == nil {
		panic("mdx: cannot remove the root node")
	}
	c.parent.Children = append(c.parent.Children[:c.index], c.parent.Children[c.index+1:]...)
	c.removed = true
}

// Visitor is called for every node in depth-first pre-order. Visitors
// that only care about specific kinds should return WalkContinue for
// everything else so unknown kinds pass through untouched.
type Visitor func(c *Cursor) (WalkStatus, error)

// Walk traverses the tree rooted at root in depth-first pre-order,
// visiting a node before its children, in child order.
func Walk(root *Node, v Visitor) error {
	_, _, err := walk(root, nil, -1, v)
	return err
}

// walk returns the walk status, whether the visited node was removed
// from its parent, and any visitor error.
func walk(n, parent *Node, index int, v Visitor) (WalkStatus, bool, error) {
	c := &Cursor{node: n, parent: parent, index: index}
	status, err := v(c)
	if err != nil || status == WalkStop {
		return WalkStop, c.removed, err
	}
	if c.removed || status == WalkSkipChildren {
		return WalkContinue, c.removed, nil
	}

	cur := c.node
	for i := 0; i < len(cur.Children); {
		child := cur.Children[i]
		st, removed, err := walk(child, cur, i, v)
		if err != nil || st == WalkStop {
			return WalkStop, false, err
		}
		if !removed {
			i++
		}
	}
	return WalkContinue, false, nil
}

// genericKinds is the vocabulary the base parser may produce.
var genericKinds = map[NodeType]bool{
	TypeRoot: true, TypeParagraph: true, TypeHeading: true, TypeText: true,
	TypeEmphasis: true, TypeStrong: true, TypeLink: true, TypeImage: true,
	TypeList: true, TypeListItem: true, TypeCode: true, TypeInlineCode: true,
	TypeBlockquote: true, TypeThematicBreak: true, TypeBreak: true, TypeHTML: true,
}

// extendedKinds is the vocabulary after Stage 1. Raw html nodes no
// longer exist: every one has become jsx.
var extendedKinds = map[NodeType]bool{
	TypeRoot: true, TypeParagraph: true, TypeHeading: true, TypeText: true,
	TypeEmphasis: true, TypeStrong: true, TypeLink: true, TypeImage: true,
	TypeList: true, TypeListItem: true, TypeCode: true, TypeInlineCode: true,
	TypeBlockquote: true, TypeThematicBreak: true, TypeBreak: true,
	TypeJSX: true, TypeImport: true, TypeExport: true,
}

// markupKinds is the vocabulary after Stage 2, ready for code generation.
var markupKinds = map[NodeType]bool{
	TypeRoot: true, TypeElement: true, TypeText: true, TypeInlineCode: true,
	TypeJSX: true, TypeImport: true, TypeExport: true,
}

// validateKinds fails fast on the first node whose kind is outside the
// stage's vocabulary. jsx subtrees are exempt: their children follow the
// embedded markup grammar, not the stage vocabulary.
func validateKinds(root *Node, vocab map[NodeType]bool, stage string) error {
	return Walk(root, func(c *Cursor) (WalkStatus, error) {
		n := c.Node()
		if n.Type == TypeJSX {
			return WalkSkipChildren, nil
		}
		if !vocab[n.Type] {
			return WalkStop, &StructuralParseError{
				Msg: "unknown node kind " + string(n.Type) + " in " + stage + " tree",
				Pos: n.Position,
			}
		}
		return WalkContinue, nil
	})
}
