package astbuild

import (
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/grammar"
)

func variableDefinition(n *grammar.Node) Object {
	out := Object{}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleTypes:
			out["type"] = c.Text
		case grammar.RuleVariable:
			out["name"] = c.Text
		}
	}
	return out
}

// operation decodes {name?, variables?, field?, selection?} for queries,
// mutations and fragment definitions alike.
func (w *walker) operation(n *grammar.Node) (Object, error) {
	out := Object{}
	vars := List{}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleName:
			out["name"] = c.Text
		case grammar.RuleVariableDef:
			vars = append(vars, variableDefinition(c))
		case grammar.RuleField:
			f, err := w.field(c)
			if err != nil {
				return nil, err
			}
			out["field"] = f
		case grammar.RuleSelectionSet:
			sel, err := w.selection(c)
			if err != nil {
				return nil, err
			}
			out["selection"] = sel
		}
	}
	if len(vars) > 0 {
		out["variables"] = vars
	}
	return out, nil
}
