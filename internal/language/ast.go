package language

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/lexer"
)

type (
	Source   = ast.Source
	Position = ast.Position
	Error    = gqlerror.Error
	Location = gqlerror.Location
	Token    = lexer.Token
)

type TokenKind = lexer.Type

const (
	Invalid     TokenKind = lexer.Invalid
	EOF         TokenKind = lexer.EOF
	Bang        TokenKind = lexer.Bang
	Dollar      TokenKind = lexer.Dollar
	Amp         TokenKind = lexer.Amp
	ParenL      TokenKind = lexer.ParenL
	ParenR      TokenKind = lexer.ParenR
	Spread      TokenKind = lexer.Spread
	Colon       TokenKind = lexer.Colon
	Equals      TokenKind = lexer.Equals
	At          TokenKind = lexer.At
	BracketL    TokenKind = lexer.BracketL
	BracketR    TokenKind = lexer.BracketR
	BraceL      TokenKind = lexer.BraceL
	BraceR      TokenKind = lexer.BraceR
	Pipe        TokenKind = lexer.Pipe
	Name        TokenKind = lexer.Name
	Int         TokenKind = lexer.Int
	Float       TokenKind = lexer.Float
	String      TokenKind = lexer.String
	BlockString TokenKind = lexer.BlockString
	Comment     TokenKind = lexer.Comment
)
