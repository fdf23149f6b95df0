package mdx

import (
	"context"
	"log/slog"
)

// TransformContext is the auxiliary file context handed to every
// transform alongside the tree.
type TransformContext struct {
	// Path is the source document's path, empty when compiling from
	// memory.
	Path string
	// Source is the raw document text the tree was parsed from.
	Source string
	// Data is a scratch space transforms can use to hand values to
	// later transforms in the same compile.
	Data map[string]any
}

// Transform inspects or rewrites a tree at one of the two pipeline
// checkpoints. A transform may mutate the tree in place and return nil,
// or return a replacement tree; a non-nil return is authoritative. A
// blocking transform simply blocks: the runner is strictly sequential.
type Transform func(ctx context.Context, tree *Node, tctx *TransformContext) (*Node, error)

// runTransforms applies transforms in list order, one at a time. The
// first failure aborts the rest of the sequence; mutations already
// applied are kept, there is no rollback. stage is 1 or 2 and only
// feeds error attribution.
func runTransforms(ctx context.Context, stage int, tree *Node, tctx *TransformContext, transforms []Transform) (*Node, error) {
	for i, t := range transforms {
		if err := ctx.Err(); err != nil {
			return nil, &TransformError{Stage: stage, Index: i, Err: err}
		}

		next, err := t(ctx, tree, tctx)
		if err != nil {
			slog.Debug("transform failed", "stage", stage, "index", i, "error", err)
			return nil, &TransformError{Stage: stage, Index: i, Err: err}
		}
		if next != nil {
			tree = next
		}
	}
	return tree, nil
}
