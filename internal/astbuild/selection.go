package astbuild

import (
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/grammar"
)

const (
	keySpreadFragment = "spread fragment"
	keyInlineFragment = "inline fragment"
)

// field decodes {name, alias?, args?, selection?, field?}.
func (w *walker) field(n *grammar.Node) (Object, error) {
	out := Object{}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleName:
			out["name"] = c.Text
		case grammar.RuleAlias:
			out["alias"] = c.Text
		case grammar.RuleArgs:
			args, err := w.mergeArgs(c.Children)
			if err != nil {
				return nil, err
			}
			out["args"] = args
		case grammar.RuleSelectionSet:
			sel, err := w.selection(c)
			if err != nil {
				return nil, err
			}
			out["selection"] = sel
		case grammar.RuleField:
			if err := w.enter(); err != nil {
				return nil, err
			}
			sub, err := w.field(c)
			w.leave()
			if err != nil {
				return nil, err
			}
			out["field"] = sub
		}
	}
	return out, nil
}

// selection decodes {selection?, fields?}. fields keeps source order and is
// omitted when empty.
func (w *walker) selection(n *grammar.Node) (Object, error) {
	if err := w.enter(); err != nil {
		return nil, err
	}
	defer w.leave()

	out := Object{}
	fields := List{}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleField:
			f, err := w.field(c)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		case grammar.RuleFragmentSpread:
			fields = append(fields, Object{keySpreadFragment: c.Text})
		case grammar.RuleFragmentInline:
			fi, err := w.fragmentInline(c)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Object{keyInlineFragment: fi})
		case grammar.RuleSelectionSet:
			sel, err := w.selection(c)
			if err != nil {
				return nil, err
			}
			out["selection"] = sel
		}
	}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	return out, nil
}

// fragmentInline decodes {name?, selection?, directive?}. A repeated child
// kind overwrites the earlier one.
func (w *walker) fragmentInline(n *grammar.Node) (Object, error) {
	out := Object{}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleName:
			out["name"] = c.Text
		case grammar.RuleSelectionSet:
			sel, err := w.selection(c)
			if err != nil {
				return nil, err
			}
			out["selection"] = sel
		case grammar.RuleDirective:
			d, err := w.directive(c)
			if err != nil {
				return nil, err
			}
			out["directive"] = d
		}
	}
	return out, nil
}
