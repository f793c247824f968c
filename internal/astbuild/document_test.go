package astbuild

import (
	"errors"
	"testing"

	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/grammar"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// mustBuild parses src and decodes it with the default builder.
func mustBuild(t *testing.T, src string) any {
	t.Helper()
	tree, err := grammar.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	got, err := New().Document(tree)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	return got
}

func TestDocumentShapes(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  any
	}{
		{
			name:  "single query is flat",
			input: `query Foo { bar }`,
			want: Object{"query": Object{
				"name":      "Foo",
				"selection": Object{"fields": List{Object{"name": "bar"}}},
			}},
		},
		{
			name:  "anonymous selection set",
			input: `{ a }`,
			want:  Object{"selection": Object{"fields": List{Object{"name": "a"}}}},
		},
		{
			name:  "two queries keep source order",
			input: `query A { a } query B { b }`,
			want: List{
				Object{"query": Object{"name": "A", "selection": Object{"fields": List{Object{"name": "a"}}}}},
				Object{"query": Object{"name": "B", "selection": Object{"fields": List{Object{"name": "b"}}}}},
			},
		},
		{
			name:  "mixed definitions",
			input: `{ a } fragment F on T { x } mutation M { m }`,
			want: List{
				Object{"selection": Object{"fields": List{Object{"name": "a"}}}},
				Object{"fragment": Object{"name": "F", "selection": Object{"fields": List{Object{"name": "x"}}}}},
				Object{"mutation": Object{"name": "M", "selection": Object{"fields": List{Object{"name": "m"}}}}},
			},
		},
		{
			name:  "anonymous mutation",
			input: `mutation { ping }`,
			want:  Object{"mutation": Object{"selection": Object{"fields": List{Object{"name": "ping"}}}}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := mustBuild(t, tc.input)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOperationVariables(t *testing.T) {
	got := mustBuild(t, `query Q($id: ID!, $n: [Int] = [1]) { x }`)
	want := Object{"query": Object{
		"name": "Q",
		"variables": List{
			Object{"name": "$id", "type": "ID!"},
			Object{"name": "$n", "type": "[Int]"},
		},
		"selection": Object{"fields": List{Object{"name": "x"}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operation mismatch (-want +got):\n%s", diff)
	}

	op := mustBuild(t, `query { x }`).(Object)["query"].(Object)
	_, ok := op["variables"]
	require.False(t, ok, "variables must be absent when none are declared")
	_, ok = op["name"]
	require.False(t, ok, "name must be absent for anonymous operations")
}

func TestOperationWithDirectField(t *testing.T) {
	op := grammar.Branch(grammar.RuleQuery, "",
		grammar.Leaf(grammar.RuleName, "Q"),
		grammar.Branch(grammar.RuleField, "", grammar.Leaf(grammar.RuleName, "me")),
	)
	got, err := New().Operation(op)
	require.NoError(t, err)
	want := Object{"name": "Q", "field": Object{"name": "me"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operation mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentIgnoresUnknownChildren(t *testing.T) {
	root := grammar.Branch(grammar.RuleDocument, "",
		grammar.Branch(grammar.RuleSelectionSet, "",
			grammar.Branch(grammar.RuleField, "", grammar.Leaf(grammar.RuleName, "a")),
		),
		grammar.Leaf(grammar.RuleEOI, ""),
	)
	got, err := New().Document(root)
	require.NoError(t, err)
	want := Object{"selection": Object{"fields": List{Object{"name": "a"}}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}

	onlyEnd := grammar.Branch(grammar.RuleDocument, "", grammar.Leaf(grammar.RuleEOI, ""))
	got, err = New().Document(onlyEnd)
	require.NoError(t, err)
	require.Equal(t, Object{}, got)

	// Two children count as two definitions even when one is not recognized.
	odd := grammar.Branch(grammar.RuleDocument, "",
		grammar.Branch(grammar.RuleQuery, "", grammar.Leaf(grammar.RuleName, "A")),
		grammar.Leaf(grammar.RuleArgs, ""),
		grammar.Leaf(grammar.RuleEOI, ""),
	)
	got, err = New().Document(odd)
	require.NoError(t, err)
	if diff := cmp.Diff(List{Object{"query": Object{"name": "A"}}}, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestMaxDepth(t *testing.T) {
	tree, err := grammar.Parse(`{ a { b { c } } }`)
	require.NoError(t, err)

	_, err = New(WithMaxDepth(2)).Document(tree)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTooDeep), "expected ErrTooDeep, got %v", err)

	_, err = New(WithMaxDepth(3)).Document(tree)
	require.NoError(t, err)

	require.Equal(t, DefaultMaxDepth, New(WithMaxDepth(0)).MaxDepth())
	require.Equal(t, grammar.DefaultMaxDepth, DefaultMaxDepth)
}

// The builder counts nesting the way the grammar does, so a document that
// is exactly at the grammar's limit also fits the builder's.
func TestMaxDepthMatchesGrammar(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		depth int
	}{
		{name: "selection sets", input: `query Q { a { b { c } } }`, depth: 3},
		{name: "list values", input: `{ a(x: [[1]]) }`, depth: 4},
		{name: "object values", input: `{ a(x: {y: {z: 1}}) }`, depth: 4},
		{name: "inline fragment", input: `{ ... on T { a { b } } }`, depth: 3},
		{name: "inline fragment directive", input: `{ ... @d(x: {y: [1]}) { a } }`, depth: 4},
		{name: "fragment definition", input: `fragment F on T { a { b } } { c }`, depth: 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := grammar.Parse(tc.input, grammar.WithMaxDepth(tc.depth))
			require.NoError(t, err)
			_, err = New(WithMaxDepth(tc.depth)).Document(tree)
			require.NoError(t, err)

			_, err = grammar.Parse(tc.input, grammar.WithMaxDepth(tc.depth-1))
			require.ErrorContains(t, err, "too deeply nested")
			_, err = New(WithMaxDepth(tc.depth - 1)).Document(tree)
			require.ErrorIs(t, err, ErrTooDeep)
		})
	}
}

func TestMaxDepthFieldChain(t *testing.T) {
	// A field wrapping a field never comes from the grammar; each wrap
	// still counts as a level.
	leaf := grammar.Branch(grammar.RuleField, "", grammar.Leaf(grammar.RuleName, "c"))
	mid := grammar.Branch(grammar.RuleField, "", grammar.Leaf(grammar.RuleName, "b"), leaf)
	top := grammar.Branch(grammar.RuleField, "", grammar.Leaf(grammar.RuleName, "a"), mid)

	_, err := New(WithMaxDepth(1)).Field(top)
	require.ErrorIs(t, err, ErrTooDeep)

	got, err := New(WithMaxDepth(2)).Field(top)
	require.NoError(t, err)
	require.Equal(t, Object{"name": "a", "field": Object{"name": "b", "field": Object{"name": "c"}}}, got)
}
