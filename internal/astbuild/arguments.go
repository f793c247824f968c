package astbuild

import (
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/grammar"
)

// arg decodes one name/value pair into a single-key Object.
func (w *walker) arg(n *grammar.Node) (Object, error) {
	var name string
	var val any = Object{}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleName:
			name = c.Text
		case grammar.RuleValue:
			v, err := w.value(c)
			if err != nil {
				return nil, err
			}
			val = v
		}
	}
	return Object{name: val}, nil
}

// mergeArgs folds arg nodes into one Object in source order.
func (w *walker) mergeArgs(args []*grammar.Node) (Object, error) {
	out := Object{}
	for _, c := range args {
		if c.Rule != grammar.RuleArg {
			continue
		}
		a, err := w.arg(c)
		if err != nil {
			return nil, err
		}
		DeepMerge(out, a)
	}
	return out, nil
}

// DeepMerge merges src into dst and returns dst. Objects present on both
// sides merge key by key; any other pairing is overwritten by src.
// Objects copied from src are cloned so dst never aliases src.
func DeepMerge(dst, src Object) Object {
	for k, sv := range src {
		sm, ok := sv.(Object)
		if !ok {
			dst[k] = sv
			continue
		}
		if dm, ok := dst[k].(Object); ok {
			DeepMerge(dm, sm)
			continue
		}
		dst[k] = DeepMerge(Object{}, sm)
	}
	return dst
}

// directive decodes {name, args?}. Arguments stay an ordered list of
// single-key objects instead of being merged.
func (w *walker) directive(n *grammar.Node) (Object, error) {
	out := Object{}
	for _, c := range n.Children {
		switch c.Rule {
		case grammar.RuleName:
			out["name"] = c.Text
		case grammar.RuleArgs:
			args := List{}
			for _, a := range c.Children {
				if a.Rule != grammar.RuleArg {
					continue
				}
				obj, err := w.arg(a)
				if err != nil {
					return nil, err
				}
				args = append(args, obj)
			}
			out["args"] = args
		}
	}
	return out, nil
}
