package mdx

import "fmt"

// StructuralParseError means the source cannot be decomposed into a
// well-formed tree: unbalanced embedded markup tags, an import/export
// statement with unbalanced braces at end of document, or a node kind
// outside the vocabulary of a stage boundary. It is fatal to the
// compile and carries the best-known source position.
type StructuralParseError struct {
	Msg string
	Pos *Position
}

func (e *StructuralParseError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s (line %d, column %d)", e.Msg, e.Pos.Start.Line, e.Pos.Start.Column)
	}
	return e.Msg
}

// TransformError wraps a failure raised by a user-supplied transform.
// The remaining transforms in the sequence do not run and mutations
// already applied are kept as-is.
type TransformError struct {
	// Stage is 1 or 2, matching the two runner invocations per compile.
	Stage int
	// Index is the failing transform's position in its list.
	Index int
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("stage %d transform %d failed: %v", e.Stage, e.Index, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// CodeGenerationError is surfaced from the code generator and
// propagated unchanged.
type CodeGenerationError struct {
	Err error
}

func (e *CodeGenerationError) Error() string {
	return fmt.Sprintf("code generation failed: %v", e.Err)
}

func (e *CodeGenerationError) Unwrap() error { return e.Err }
