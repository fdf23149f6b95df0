package mdx

import (
	"context"
	"log/slog"
)

const VERSION = "0.1.0"

// Options configures one Compiler.
type Options struct {
	// Stage1Transforms run against the extended tree, after the
	// compiler's own built-in transforms, in list order.
	Stage1Transforms []Transform
	// Stage2Transforms run against the markup tree, in list order.
	Stage2Transforms []Transform
	// Frontmatter splits a leading YAML block off the document and
	// re-emits it as an export statement node.
	Frontmatter bool
	// Highlight enables the built-in syntax highlighting transform on
	// fenced code blocks.
	Highlight bool
}

// Compiler runs the full pipeline: text, generic tree, extended tree,
// markup tree, rendered code. Stages run strictly in that order; each
// consumes its predecessor's output and nothing else.
type Compiler struct {
	parser *Parser
	opts   Options
}

func New(opts Options) *Compiler {
	return &Compiler{
		parser: NewParser(),
		opts:   opts,
	}
}

// Compile turns raw document text into rendered component code, or
// fails fast on the first structural, transform or generation error.
func Compile(ctx context.Context, source string, opts Options) (string, error) {
	return New(opts).Compile(ctx, source, nil)
}

func (c *Compiler) Compile(ctx context.Context, source string, tctx *TransformContext) (string, error) {
	if tctx == nil {
		tctx = &TransformContext{}
	}
	tctx.Source = source
	if tctx.Data == nil {
		tctx.Data = make(map[string]any)
	}

	var fmNode *Node
	body := source
	if c.opts.Frontmatter {
		block, rest, found := splitFrontmatter(source)
		if found {
			node, err := frontmatterExport(block)
			if err != nil {
				return "", err
			}
			fmNode = node
			body = rest
		}
	}

	tree, err := c.parser.Parse([]byte(body))
	if err != nil {
		return "", err
	}
	if err := validateKinds(tree, genericKinds, "generic"); err != nil {
		return "", err
	}

	tree, err = transpileExtended([]byte(body), tree)
	if err != nil {
		return "", err
	}
	if fmNode != nil {
		tree.Children = append([]*Node{fmNode}, tree.Children...)
	}

	stage1 := append([]Transform{ImageAutolink}, c.opts.Stage1Transforms...)
	tree, err = runTransforms(ctx, 1, tree, tctx, stage1)
	if err != nil {
		return "", err
	}
	if err := validateKinds(tree, extendedKinds, "extended"); err != nil {
		return "", err
	}

	tree, err = transpileMarkup(tree)
	if err != nil {
		return "", err
	}

	var stage2 []Transform
	if c.opts.Highlight {
		stage2 = append(stage2, SyntaxHighlight())
	}
	stage2 = append(stage2, c.opts.Stage2Transforms...)
	tree, err = runTransforms(ctx, 2, tree, tctx, stage2)
	if err != nil {
		return "", err
	}
	if err := validateKinds(tree, markupKinds, "markup"); err != nil {
		return "", err
	}

	code, err := generate(tree)
	if err != nil {
		return "", &CodeGenerationError{Err: err}
	}

	slog.Debug("compiled document", "path", tctx.Path, "bytes", len(code))
	return code, nil
}
