package document

import (
	"context"
	"errors"
	"time"

	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/astbuild"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/eventbus"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/events"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/grammar"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/language"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/reqid"
	"go.uber.org/zap"
)

// Failure sentinels returned by Parser.Parse in place of an AST.
const (
	UnsuccessfulParse = "unsuccessful parse"
	EmptyInput        = "Given empty string"
)

// Parser is the entry point from document text to normalized AST. It keeps
// no per-document state and may be shared between goroutines.
type Parser struct {
	parseTree  func(string, ...grammar.Option) (*grammar.Node, error)
	builder    *astbuild.Builder
	logger     *zap.Logger
	sourceName string
}

type Option func(*Parser)

// WithLogger sets the sink for parse diagnostics. The default discards them.
func WithLogger(l *zap.Logger) Option { return func(p *Parser) { p.logger = l } }

// WithMaxDepth bounds document nesting. One level is one selection set, one
// value or one list type; a document exactly n levels deep parses.
func WithMaxDepth(n int) Option {
	return func(p *Parser) { p.builder = astbuild.New(astbuild.WithMaxDepth(n)) }
}

// WithSourceName names the document in diagnostics.
func WithSourceName(name string) Option { return func(p *Parser) { p.sourceName = name } }

func New(opts ...Option) *Parser {
	p := &Parser{parseTree: grammar.Parse, builder: astbuild.New(), logger: zap.NewNop()}
	for _, f := range opts {
		f(p)
	}
	return p
}

// Build parses and normalizes source, reporting every failure as an error.
// Syntax errors, including nesting beyond the limit and numbers outside the
// int64 or float64 range, are *language.Error. Undecodable literals are
// *astbuild.LiteralError.
func (p *Parser) Build(source string) (any, error) {
	tree, err := p.parseTree(source,
		grammar.WithMaxDepth(p.builder.MaxDepth()),
		grammar.WithSourceName(p.sourceName),
	)
	if err != nil {
		return nil, err
	}
	return p.builder.Document(tree)
}

// Parse returns the normalized AST of source. When source does not parse it
// returns UnsuccessfulParse, or EmptyInput if source is empty, and logs the
// diagnostic. A non-nil error is returned only for literal decode failures,
// which point at a grammar defect rather than bad input.
func (p *Parser) Parse(ctx context.Context, source string) (any, error) {
	start := time.Now()
	eventbus.Publish(ctx, events.ParseStart{Source: source})

	ast, err := p.Build(source)
	finish := events.ParseFinish{Source: source, Err: err}
	defer func() {
		finish.Duration = time.Since(start)
		eventbus.Publish(ctx, finish)
	}()

	log := p.logger
	if rid := reqid.String(ctx); rid != "" {
		log = log.With(zap.String("request_id", rid))
	}

	var litErr *astbuild.LiteralError
	switch {
	case err == nil:
		finish.Outcome = events.ParseOK
		finish.Definitions = Definitions(ast)
		return ast, nil
	case errors.As(err, &litErr):
		finish.Outcome = events.ParseDefect
		log.Error("literal decode failure", zap.Error(err))
		return nil, err
	case source == "":
		finish.Outcome = events.ParseEmpty
		log.Info(EmptyInput, diagnosticFields(err)...)
		return EmptyInput, nil
	default:
		finish.Outcome = events.ParseFailed
		log.Warn(UnsuccessfulParse, diagnosticFields(err)...)
		return UnsuccessfulParse, nil
	}
}

func diagnosticFields(err error) []zap.Field {
	fields := []zap.Field{zap.String("diagnostic", err.Error())}
	var gqlErr *language.Error
	if errors.As(err, &gqlErr) && len(gqlErr.Locations) > 0 {
		fields = append(fields,
			zap.Int("line", gqlErr.Locations[0].Line),
			zap.Int("column", gqlErr.Locations[0].Column),
		)
	}
	return fields
}

// Definitions reports how many top-level definitions a normalized document
// holds.
func Definitions(ast any) int {
	switch v := ast.(type) {
	case astbuild.List:
		return len(v)
	case astbuild.Object:
		return len(v)
	}
	return 0
}

// IsFailure reports whether v is one of the failure sentinels.
func IsFailure(v any) bool {
	s, ok := v.(string)
	return ok && (s == UnsuccessfulParse || s == EmptyInput)
}
