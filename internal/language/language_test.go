package language

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexDropsComments(t *testing.T) {
	toks, err := Lex("op.graphql", "# leading\n{ a # trailing\n}")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{BraceL, Name, BraceR, EOF}, kinds(toks))
	require.Equal(t, "a", toks[1].Value)
	require.Equal(t, 2, toks[1].Pos.Line)
	require.Equal(t, "op.graphql", toks[1].Pos.Src.Name)
}

func TestLexEmpty(t *testing.T) {
	toks, err := Lex("", "")
	require.NoError(t, err)
	require.Equal(t, []TokenKind{EOF}, kinds(toks))
}

func TestLexError(t *testing.T) {
	_, err := Lex("op.graphql", "{ a(x: 'bad') }")
	var gqlErr *Error
	require.True(t, errors.As(err, &gqlErr))
	require.Contains(t, err.Error(), "op.graphql:1:")
}

func TestErrorf(t *testing.T) {
	toks, err := Lex("q.graphql", "{\n  b }")
	require.NoError(t, err)
	e := Errorf(&toks[1].Pos, "Unexpected %s", toks[1].String())
	require.Equal(t, 2, e.Locations[0].Line)
	require.Equal(t, 3, e.Locations[0].Column)
	require.Contains(t, e.Error(), `q.graphql:2:3: Unexpected Name "b"`)
}
