package astbuild

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/grammar"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// argValue decodes `{ f(v: <literal>) }` and returns the value of v.
func argValue(t *testing.T, literal string) any {
	t.Helper()
	doc := mustBuild(t, `{ f(v: `+literal+`) }`).(Object)
	field := doc["selection"].(Object)["fields"].(List)[0].(Object)
	return field["args"].(Object)["v"]
}

func scalar(rule grammar.Rule, text string) *grammar.Node {
	return grammar.Branch(grammar.RuleValue, text, grammar.Leaf(rule, text))
}

func TestValueLiterals(t *testing.T) {
	for _, tc := range []struct {
		name    string
		literal string
		want    any
	}{
		{name: "int", literal: `42`, want: int64(42)},
		{name: "negative int", literal: `-7`, want: int64(-7)},
		{name: "float", literal: `1.5`, want: 1.5},
		{name: "exponent float", literal: `1e3`, want: 1000.0},
		{name: "string", literal: `"abc"`, want: "abc"},
		{name: "escapes kept verbatim", literal: `"a\"b\n"`, want: `a\"b\n`},
		{name: "block string", literal: `"""multi"""`, want: "multi"},
		{name: "true", literal: `true`, want: true},
		{name: "false", literal: `false`, want: false},
		{name: "null", literal: `null`, want: nil},
		{name: "variable keeps sigil", literal: `$id`, want: "$id"},
		{name: "enum is not decoded", literal: `RED`, want: Object{}},
		{name: "list in source order", literal: `[3, "a", [true], 1]`, want: List{int64(3), "a", List{true}, int64(1)}},
		{name: "empty list", literal: `[]`, want: List{}},
		{name: "object", literal: `{a: 1, b: {c: "x"}}`, want: Object{"a": int64(1), "b": Object{"c": "x"}}},
		{name: "empty object", literal: `{}`, want: Object{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := argValue(t, tc.literal)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScalarRoundTrip(t *testing.T) {
	b := New()
	for _, n := range []int64{0, 1, -1, 1234567, math.MaxInt64, math.MinInt64} {
		got, err := b.Value(scalar(grammar.RuleInt, strconv.FormatInt(n, 10)))
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
	for _, f := range []float64{0.5, -2.25, 1e-9, 6.02214076e23, math.MaxFloat64} {
		got, err := b.Value(scalar(grammar.RuleFloat, strconv.FormatFloat(f, 'g', -1, 64)))
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	for _, v := range []bool{true, false} {
		got, err := b.Value(scalar(grammar.RuleBoolean, strconv.FormatBool(v)))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestStringUnwrapping(t *testing.T) {
	got, err := New().Value(scalar(grammar.RuleString, `"abc"`))
	require.NoError(t, err)
	require.Equal(t, "abc", got)

	got, err = New().Value(scalar(grammar.RuleString, `"ü€"`))
	require.NoError(t, err)
	require.Equal(t, "ü€", got)
}

func TestValueWithoutRecognizedChild(t *testing.T) {
	b := New()
	got, err := b.Value(grammar.Branch(grammar.RuleValue, ""))
	require.NoError(t, err)
	require.Equal(t, Object{}, got)

	got, err = b.Value(grammar.Branch(grammar.RuleValue, "", grammar.Leaf(grammar.RuleDirective, "@x")))
	require.NoError(t, err)
	require.Equal(t, Object{}, got)
}

func TestLiteralErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		node    *grammar.Node
		wantErr error
	}{
		{name: "int syntax", node: scalar(grammar.RuleInt, "4x"), wantErr: strconv.ErrSyntax},
		{name: "int overflow", node: scalar(grammar.RuleInt, "99999999999999999999"), wantErr: strconv.ErrRange},
		{name: "float syntax", node: scalar(grammar.RuleFloat, "1.2.3"), wantErr: strconv.ErrSyntax},
		{name: "boolean", node: scalar(grammar.RuleBoolean, "yes"), wantErr: strconv.ErrSyntax},
		{name: "string without quotes", node: scalar(grammar.RuleString, `"`)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New().Value(tc.node)
			require.Error(t, err)
			var litErr *LiteralError
			require.True(t, errors.As(err, &litErr), "expected *LiteralError, got %T", err)
			require.Equal(t, tc.node.Children[0].Rule, litErr.Rule)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}

	// Decode failures deep inside a document propagate unchanged.
	doc := grammar.Branch(grammar.RuleDocument, "",
		grammar.Branch(grammar.RuleSelectionSet, "",
			grammar.Branch(grammar.RuleField, "",
				grammar.Leaf(grammar.RuleName, "f"),
				grammar.Branch(grammar.RuleArgs, "",
					grammar.Branch(grammar.RuleArg, "",
						grammar.Leaf(grammar.RuleName, "x"),
						scalar(grammar.RuleInt, "nope"),
					),
				),
			),
		),
		grammar.Leaf(grammar.RuleEOI, ""),
	)
	_, err := New().Document(doc)
	var litErr *LiteralError
	require.ErrorAs(t, err, &litErr)
	require.Equal(t, "nope", litErr.Text)
}
