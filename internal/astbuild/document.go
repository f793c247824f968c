package astbuild

import (
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/grammar"
)

// Labels used for definitions at document level.
const (
	LabelQuery     = "query"
	LabelMutation  = "mutation"
	LabelFragment  = "fragment"
	LabelSelection = "selection"
)

// document counts definitions as the children minus the trailing end
// marker. More than one definition yields a List of single-key Objects in
// source order; otherwise the one definition is keyed directly on an Object.
func (w *walker) document(n *grammar.Node) (any, error) {
	count := len(n.Children) - 1
	flat := Object{}
	defs := List{}
	for _, c := range n.Children {
		label, v, err := w.definition(c)
		if err != nil {
			return nil, err
		}
		if label == "" {
			continue
		}
		if count > 1 {
			defs = append(defs, Object{label: v})
		} else {
			flat[label] = v
		}
	}
	if count > 1 {
		return defs, nil
	}
	return flat, nil
}

// definition returns an empty label for children that are not definitions.
func (w *walker) definition(n *grammar.Node) (string, Object, error) {
	var label string
	var v Object
	var err error
	switch n.Rule {
	case grammar.RuleQuery:
		label = LabelQuery
		v, err = w.operation(n)
	case grammar.RuleMutation:
		label = LabelMutation
		v, err = w.operation(n)
	case grammar.RuleFragmentDef:
		label = LabelFragment
		v, err = w.operation(n)
	case grammar.RuleSelectionSet:
		label = LabelSelection
		v, err = w.selection(n)
	default:
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return label, v, nil
}
