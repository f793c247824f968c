package astbuild

import (
	"errors"
	"fmt"

	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/grammar"
)

type (
	// Object is a normalized mapping. Keys are unique; absent children never
	// produce a key.
	Object = map[string]any
	// List is a normalized ordered sequence.
	List = []any
)

// DefaultMaxDepth bounds the nesting of selection sets and values in one
// document. It matches grammar.DefaultMaxDepth, and both count the same
// levels, so a tree the grammar accepts never exceeds it.
const DefaultMaxDepth = grammar.DefaultMaxDepth

// ErrTooDeep is returned when a document nests deeper than the builder's limit.
var ErrTooDeep = errors.New("astbuild: document too deeply nested")

// LiteralError reports a scalar literal the grammar accepted but the builder
// could not decode. It indicates a defect at the grammar boundary.
type LiteralError struct {
	Rule grammar.Rule
	Text string
	Err  error
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("astbuild: cannot decode %s literal %q: %v", e.Rule, e.Text, e.Err)
}

func (e *LiteralError) Unwrap() error { return e.Err }

// Builder turns parse trees into normalized ASTs. A Builder holds no
// per-document state and is safe for concurrent use.
type Builder struct {
	maxDepth int
}

type Option func(*Builder)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxDepth = n
		}
	}
}

func New(opts ...Option) *Builder {
	b := &Builder{maxDepth: DefaultMaxDepth}
	for _, f := range opts {
		f(b)
	}
	return b
}

// MaxDepth reports the configured nesting limit.
func (b *Builder) MaxDepth() int { return b.maxDepth }

func (b *Builder) walker() *walker { return &walker{max: b.maxDepth} }

// Document decodes a whole document tree. See the package documentation for
// the single-definition and multi-definition shapes.
func (b *Builder) Document(root *grammar.Node) (any, error) { return b.walker().document(root) }

// Operation decodes a query, mutation or fragment_def node.
func (b *Builder) Operation(n *grammar.Node) (Object, error) { return b.walker().operation(n) }

// Selection decodes a selection_set node.
func (b *Builder) Selection(n *grammar.Node) (Object, error) { return b.walker().selection(n) }

// Field decodes a field node.
func (b *Builder) Field(n *grammar.Node) (Object, error) { return b.walker().field(n) }

// FragmentInline decodes a fragment_inline node.
func (b *Builder) FragmentInline(n *grammar.Node) (Object, error) {
	return b.walker().fragmentInline(n)
}

// VariableDefinition decodes a variable_def node.
func (b *Builder) VariableDefinition(n *grammar.Node) Object { return variableDefinition(n) }

// Directive decodes a directive node.
func (b *Builder) Directive(n *grammar.Node) (Object, error) { return b.walker().directive(n) }

// Arguments merges a sequence of arg nodes into one mapping.
func (b *Builder) Arguments(args []*grammar.Node) (Object, error) { return b.walker().mergeArgs(args) }

// Value decodes a value node.
func (b *Builder) Value(n *grammar.Node) (any, error) { return b.walker().value(n) }

// walker carries the nesting depth of a single decode call. Only selection
// sets, values and a field wrapping another field count as a level.
type walker struct {
	depth int
	max   int
}

func (w *walker) enter() error {
	w.depth++
	if w.depth > w.max {
		return fmt.Errorf("%w (max depth %d)", ErrTooDeep, w.max)
	}
	return nil
}

func (w *walker) leave() { w.depth-- }
