package astbuild

import (
	"errors"
	"strconv"

	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/grammar"
)

// value decodes a value node. When no recognized child is present the
// result is an empty Object, the explicit "nothing decoded" marker.
func (w *walker) value(n *grammar.Node) (any, error) {
	if err := w.enter(); err != nil {
		return nil, err
	}
	defer w.leave()

	var out any = Object{}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleVariable:
			out = c.Text
		case grammar.RuleFloat:
			f, err := strconv.ParseFloat(c.Text, 64)
			if err != nil {
				return nil, &LiteralError{Rule: c.Rule, Text: c.Text, Err: err}
			}
			out = f
		case grammar.RuleInt:
			i, err := strconv.ParseInt(c.Text, 10, 64)
			if err != nil {
				return nil, &LiteralError{Rule: c.Rule, Text: c.Text, Err: err}
			}
			out = i
		case grammar.RuleString:
			s, err := unwrapString(c)
			if err != nil {
				return nil, err
			}
			out = s
		case grammar.RuleBoolean:
			b, err := decodeBoolean(c)
			if err != nil {
				return nil, err
			}
			out = b
		case grammar.RuleNull:
			out = nil
		case grammar.RuleEnumVal:
			// Enum literals are not decoded.
		case grammar.RuleList:
			l, err := w.list(c)
			if err != nil {
				return nil, err
			}
			out = l
		case grammar.RuleObject:
			o, err := w.mergeArgs(c.Children)
			if err != nil {
				return nil, err
			}
			out = o
		}
	}
	return out, nil
}

func (w *walker) list(n *grammar.Node) (List, error) {
	out := List{}
	for _, c := range n.Children {
		if c.Rule != grammar.RuleValue {
			continue
		}
		v, err := w.value(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// unwrapString drops the first and last rune of the literal. Escape
// sequences inside are kept verbatim.
func unwrapString(n *grammar.Node) (string, error) {
	r := []rune(n.Text)
	if len(r) < 2 {
		return "", &LiteralError{Rule: n.Rule, Text: n.Text, Err: errors.New("missing quotes")}
	}
	return string(r[1 : len(r)-1]), nil
}

func decodeBoolean(n *grammar.Node) (bool, error) {
	switch n.Text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &LiteralError{Rule: n.Rule, Text: n.Text, Err: strconv.ErrSyntax}
}
