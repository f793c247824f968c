package language

import (
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/lexer"
)

// Lex reads the whole input into a token stream terminated by an EOF token.
// Comment tokens are dropped.
func Lex(name, input string) ([]Token, error) {
	lx := lexer.New(&Source{Name: name, Input: input})
	var out []Token
	for {
		tok, err := lx.ReadToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == Comment {
			continue
		}
		out = append(out, tok)
		if tok.Kind == EOF {
			return out, nil
		}
	}
}

// Errorf builds a positioned syntax error.
func Errorf(pos *Position, format string, args ...any) *Error {
	return gqlerror.ErrorPosf(pos, format, args...)
}
