package grammar

import (
	"strconv"

	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/language"
)

// DefaultMaxDepth bounds the nesting of selection sets, values and types.
// One level is one selection set, one value or one list type.
const DefaultMaxDepth = 128

type options struct {
	maxDepth   int
	sourceName string
}

type Option func(*options)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithSourceName sets the file name reported in syntax errors.
func WithSourceName(name string) Option { return func(o *options) { o.sourceName = name } }

// Parse turns document text into a parse tree rooted at a RuleDocument node.
// Syntax errors are returned as *language.Error carrying a line and column.
func Parse(source string, opts ...Option) (*Node, error) {
	o := options{maxDepth: DefaultMaxDepth}
	for _, f := range opts {
		f(&o)
	}
	toks, err := language.Lex(o.sourceName, source)
	if err != nil {
		return nil, err
	}
	p := &parser{src: []rune(source), toks: toks, maxDepth: o.maxDepth}
	return p.run()
}

type syntaxError struct{ err *language.Error }

type parser struct {
	src      []rune
	toks     []language.Token
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) run() (doc *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(syntaxError)
			if !ok {
				panic(r)
			}
			doc, err = nil, se.err
		}
	}()
	return p.parseDocument(), nil
}

// ------------------ Token helpers ------------------

func (p *parser) peek() language.Token { return p.toks[p.pos] }

func (p *parser) prev() language.Token { return p.toks[p.pos-1] }

func (p *parser) next() language.Token {
	tok := p.toks[p.pos]
	if tok.Kind != language.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) peekKind(kind language.TokenKind) bool { return p.peek().Kind == kind }

func (p *parser) peekKeyword(keyword string) bool {
	tok := p.peek()
	return tok.Kind == language.Name && tok.Value == keyword
}

func (p *parser) expect(kind language.TokenKind) language.Token {
	tok := p.peek()
	if tok.Kind != kind {
		p.fail(tok, "Expected %s, found %s", kind.String(), tok.String())
	}
	return p.next()
}

func (p *parser) expectKeyword(keyword string) language.Token {
	tok := p.peek()
	if tok.Kind != language.Name || tok.Value != keyword {
		p.fail(tok, "Expected %q, found %s", keyword, tok.String())
	}
	return p.next()
}

func (p *parser) fail(tok language.Token, format string, args ...any) {
	panic(syntaxError{err: language.Errorf(&tok.Pos, format, args...)})
}

func (p *parser) enter() {
	p.depth++
	if p.depth > p.maxDepth {
		p.fail(p.peek(), "Document is too deeply nested (max depth %d)", p.maxDepth)
	}
}

func (p *parser) leave() { p.depth-- }

func (p *parser) span(first, last language.Token) string {
	if last.Pos.End < first.Pos.Start {
		return ""
	}
	return string(p.src[first.Pos.Start:last.Pos.End])
}

func (p *parser) leaf(rule Rule, tok language.Token) *Node {
	return &Node{Rule: rule, Text: p.span(tok, tok), Line: tok.Pos.Line, Column: tok.Pos.Column}
}

// finish stamps n with the span running from first to the last consumed token.
func (p *parser) finish(n *Node, first language.Token) *Node {
	n.Text = p.span(first, p.prev())
	n.Line = first.Pos.Line
	n.Column = first.Pos.Column
	return n
}

// ------------------ Definitions ------------------

func (p *parser) parseDocument() *Node {
	first := p.peek()
	doc := &Node{Rule: RuleDocument, Text: string(p.src), Line: first.Pos.Line, Column: first.Pos.Column}
	for !p.peekKind(language.EOF) {
		doc.Children = append(doc.Children, p.parseDefinition())
	}
	if len(doc.Children) == 0 {
		p.fail(first, "Unexpected %s", first.String())
	}
	eoi := p.next()
	doc.Children = append(doc.Children, &Node{Rule: RuleEOI, Line: eoi.Pos.Line, Column: eoi.Pos.Column})
	return doc
}

func (p *parser) parseDefinition() *Node {
	tok := p.peek()
	switch {
	case tok.Kind == language.BraceL:
		return p.parseSelectionSet()
	case tok.Kind == language.Name && tok.Value == "query":
		return p.parseOperation(RuleQuery)
	case tok.Kind == language.Name && tok.Value == "mutation":
		return p.parseOperation(RuleMutation)
	case tok.Kind == language.Name && tok.Value == "fragment":
		return p.parseFragmentDefinition()
	}
	p.fail(tok, "Unexpected %s", tok.String())
	return nil
}

func (p *parser) parseOperation(rule Rule) *Node {
	first := p.next()
	n := &Node{Rule: rule}
	if p.peekKind(language.Name) {
		n.Children = append(n.Children, p.parseName())
	}
	if p.peekKind(language.ParenL) {
		n.Children = append(n.Children, p.parseVariableDefinitions()...)
	}
	n.Children = append(n.Children, p.parseDirectives()...)
	n.Children = append(n.Children, p.parseSelectionSet())
	return p.finish(n, first)
}

// fragment Name on Type Directives? SelectionSet
func (p *parser) parseFragmentDefinition() *Node {
	first := p.next()
	if p.peekKeyword("on") {
		p.fail(p.peek(), `Unexpected Name "on"`)
	}
	n := &Node{Rule: RuleFragmentDef}
	n.Children = append(n.Children, p.parseName())
	p.expectKeyword("on")
	n.Children = append(n.Children, p.parseType())
	n.Children = append(n.Children, p.parseDirectives()...)
	n.Children = append(n.Children, p.parseSelectionSet())
	return p.finish(n, first)
}

func (p *parser) parseName() *Node {
	return p.leaf(RuleName, p.expect(language.Name))
}

// ------------------ Variables ------------------

func (p *parser) parseVariableDefinitions() []*Node {
	p.expect(language.ParenL)
	var defs []*Node
	for {
		defs = append(defs, p.parseVariableDefinition())
		if p.peekKind(language.ParenR) {
			break
		}
	}
	p.next()
	return defs
}

// Variable : Type DefaultValue? Directives?
func (p *parser) parseVariableDefinition() *Node {
	first := p.peek()
	n := &Node{Rule: RuleVariableDef}
	n.Children = append(n.Children, p.parseVariable())
	p.expect(language.Colon)
	n.Children = append(n.Children, p.parseType())
	if p.peekKind(language.Equals) {
		p.next()
		n.Children = append(n.Children, p.parseValue())
	}
	n.Children = append(n.Children, p.parseDirectives()...)
	return p.finish(n, first)
}

func (p *parser) parseVariable() *Node {
	first := p.expect(language.Dollar)
	p.expect(language.Name)
	return p.finish(&Node{Rule: RuleVariable}, first)
}

// parseType consumes NamedType, ListType or NonNullType and keeps the raw text.
func (p *parser) parseType() *Node {
	first := p.peek()
	p.skipType()
	return p.finish(&Node{Rule: RuleTypes}, first)
}

func (p *parser) skipType() {
	p.enter()
	defer p.leave()
	if p.peekKind(language.BracketL) {
		p.next()
		p.skipType()
		p.expect(language.BracketR)
	} else {
		p.expect(language.Name)
	}
	if p.peekKind(language.Bang) {
		p.next()
	}
}

// ------------------ Selections ------------------

func (p *parser) parseSelectionSet() *Node {
	p.enter()
	defer p.leave()
	first := p.expect(language.BraceL)
	n := &Node{Rule: RuleSelectionSet}
	for {
		n.Children = append(n.Children, p.parseSelection())
		if p.peekKind(language.BraceR) {
			break
		}
	}
	p.next()
	return p.finish(n, first)
}

func (p *parser) parseSelection() *Node {
	if p.peekKind(language.Spread) {
		return p.parseFragment()
	}
	return p.parseField()
}

// Alias? Name Arguments? Directives? SelectionSet?
func (p *parser) parseField() *Node {
	first := p.peek()
	n := &Node{Rule: RuleField}
	name := p.expect(language.Name)
	if p.peekKind(language.Colon) {
		p.next()
		n.Children = append(n.Children, p.leaf(RuleAlias, name))
		name = p.expect(language.Name)
	}
	n.Children = append(n.Children, p.leaf(RuleName, name))
	if p.peekKind(language.ParenL) {
		n.Children = append(n.Children, p.parseArguments())
	}
	n.Children = append(n.Children, p.parseDirectives()...)
	if p.peekKind(language.BraceL) {
		n.Children = append(n.Children, p.parseSelectionSet())
	}
	return p.finish(n, first)
}

// parseFragment handles both spreads (...Name) and inline fragments
// (... on Type { }), which share the leading spread token.
func (p *parser) parseFragment() *Node {
	first := p.expect(language.Spread)
	if p.peekKind(language.Name) && !p.peekKeyword("on") {
		// Spread text is the bare name; see Node.
		n := p.leaf(RuleFragmentSpread, p.next())
		n.Children = p.parseDirectives()
		return n
	}
	n := &Node{Rule: RuleFragmentInline}
	if p.peekKeyword("on") {
		p.next()
		n.Children = append(n.Children, p.parseName())
	}
	n.Children = append(n.Children, p.parseDirectives()...)
	n.Children = append(n.Children, p.parseSelectionSet())
	return p.finish(n, first)
}

// ------------------ Arguments & directives ------------------

func (p *parser) parseArguments() *Node {
	first := p.expect(language.ParenL)
	n := &Node{Rule: RuleArgs}
	for {
		n.Children = append(n.Children, p.parseArgument())
		if p.peekKind(language.ParenR) {
			break
		}
	}
	p.next()
	return p.finish(n, first)
}

func (p *parser) parseArgument() *Node {
	first := p.peek()
	n := &Node{Rule: RuleArg}
	n.Children = append(n.Children, p.parseName())
	p.expect(language.Colon)
	n.Children = append(n.Children, p.parseValue())
	return p.finish(n, first)
}

func (p *parser) parseDirectives() []*Node {
	var out []*Node
	for p.peekKind(language.At) {
		first := p.next()
		n := &Node{Rule: RuleDirective}
		n.Children = append(n.Children, p.parseName())
		if p.peekKind(language.ParenL) {
			n.Children = append(n.Children, p.parseArguments())
		}
		out = append(out, p.finish(n, first))
	}
	return out
}

// ------------------ Values ------------------

func (p *parser) parseValue() *Node {
	p.enter()
	defer p.leave()
	first := p.peek()
	var child *Node
	switch first.Kind {
	case language.Dollar:
		child = p.parseVariable()
	case language.Int:
		tok := p.next()
		if _, err := strconv.ParseInt(tok.Value, 10, 64); err != nil {
			p.fail(tok, "Int literal %s does not fit in 64 bits", tok.Value)
		}
		child = p.leaf(RuleInt, tok)
	case language.Float:
		tok := p.next()
		if _, err := strconv.ParseFloat(tok.Value, 64); err != nil {
			p.fail(tok, "Float literal %s is out of range", tok.Value)
		}
		child = p.leaf(RuleFloat, tok)
	case language.String:
		child = p.leaf(RuleString, p.next())
	case language.BlockString:
		// The lexer has already stripped the indentation; rewrap the
		// content so every string node spans exactly one quote pair.
		tok := p.next()
		child = &Node{Rule: RuleString, Text: `"` + tok.Value + `"`, Line: tok.Pos.Line, Column: tok.Pos.Column}
	case language.BracketL:
		child = p.parseList()
	case language.BraceL:
		child = p.parseObject()
	case language.Name:
		tok := p.next()
		switch tok.Value {
		case "true", "false":
			child = p.leaf(RuleBoolean, tok)
		case "null":
			child = p.leaf(RuleNull, tok)
		default:
			child = p.leaf(RuleEnumVal, tok)
		}
	default:
		p.fail(first, "Unexpected %s", first.String())
	}
	return p.finish(&Node{Rule: RuleValue, Children: []*Node{child}}, first)
}

func (p *parser) parseList() *Node {
	first := p.expect(language.BracketL)
	n := &Node{Rule: RuleList}
	for !p.peekKind(language.BracketR) {
		n.Children = append(n.Children, p.parseValue())
	}
	p.next()
	return p.finish(n, first)
}

func (p *parser) parseObject() *Node {
	first := p.expect(language.BraceL)
	n := &Node{Rule: RuleObject}
	for !p.peekKind(language.BraceR) {
		n.Children = append(n.Children, p.parseArgument())
	}
	p.next()
	return p.finish(n, first)
}
