package grammar

import (
	"fmt"
	"io"
	"strings"
)

// Node is one parse tree node. Text is the exact source span the node
// matched; Children are in source order and empty for leaves.
//
// A RuleFragmentSpread node is the exception: its Text, Line and Column
// cover the fragment name only. The leading "..." and any directives, which
// appear as its children, are outside that span.
type Node struct {
	Rule     Rule
	Text     string
	Line     int
	Column   int
	Children []*Node
}

// Leaf returns a childless node.
func Leaf(rule Rule, text string) *Node {
	return &Node{Rule: rule, Text: text}
}

// Branch returns a node with the given children.
func Branch(rule Rule, text string, children ...*Node) *Node {
	return &Node{Rule: rule, Text: text, Children: children}
}

// Child returns the first child with the given rule, or nil.
func (n *Node) Child(rule Rule) *Node {
	for _, c := range n.Children {
		if c.Rule == rule {
			return c
		}
	}
	return nil
}

// Depth is the height of the subtree rooted at n.
func (n *Node) Depth() int {
	d := 0
	for _, c := range n.Children {
		if cd := c.Depth(); cd > d {
			d = cd
		}
	}
	return d + 1
}

// Dump writes an indented outline of the tree, one node per line.
func Dump(w io.Writer, n *Node) error {
	return dump(w, n, 0)
}

func dump(w io.Writer, n *Node, indent int) error {
	line := strings.Repeat("  ", indent) + n.Rule.String()
	if len(n.Children) == 0 {
		line += fmt.Sprintf(" %q", n.Text)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := dump(w, c, indent+1); err != nil {
			return err
		}
	}
	return nil
}
