// Package astbuild converts a grammar parse tree into a normalized AST made
// only of maps, slices and scalars, so that consumers who do not know the
// query grammar can inspect, transform or serialize it.
//
// # Normalized values
//
// Every assembler produces values drawn from:
//
//	nil, bool, int64, float64, string, List ([]any), Object (map[string]any)
//
// Integer and float literals keep their source kind. String literals lose
// their surrounding quotes and nothing else: backslash escapes are kept as
// written. Variables decode to their text including the "$" sigil. Enum
// literals are not decoded; a value holding one resolves to an empty Object,
// which is also what any value with an unrecognized child resolves to.
//
// # Shapes
//
//	Argument       {<name>: Value}
//	Field          {name, alias?, args?, selection?, field?}
//	Selection      {selection?, fields?: [Field | {"spread fragment": name} | {"inline fragment": FragmentInline}]}
//	FragmentInline {name?, selection?, directive?}
//	Directive      {name, args?: [Argument]}
//	VariableDef    {name, type}
//	Operation      {name?, variables?: [VariableDef], field?, selection?}
//
// Keys marked "?" are absent, not null, when the source has no matching
// child. Field arguments are deep merged into one Object; directive
// arguments stay an ordered list.
//
// # Documents
//
// A document with a single definition decodes to a one-key Object labelled
// "query", "mutation", "fragment" or "selection". With more than one
// definition it decodes to a List of such one-key Objects in source order.
// The definition count is the number of root children minus the end marker.
//
// # Leniency and limits
//
// Children whose rule an assembler does not expect are skipped silently.
// Recursion is bounded by the Builder's maximum depth, counted in selection
// sets and values exactly as the grammar counts them; exceeding it fails
// with ErrTooDeep. Literal text that cannot be decoded fails with a
// *LiteralError.
package astbuild
