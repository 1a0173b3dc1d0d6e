package ast

import (
	"fmt"
	"strings"
)

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Program:
		return n.Body
	case *ArrayList:
		return n.Items
	case *HashMap:
		out := make([]Node, len(n.Pairs))
		for i, p := range n.Pairs {
			out[i] = p
		}
		return out
	case *Indexing:
		return append([]Node{n.Target}, n.Indices...)
	case *VariableDeclaration:
		return []Node{n.Name}
	case *VariableInitialization:
		return []Node{n.Definition}
	case *ValueDefinition:
		return []Node{n.Target, n.Value}
	case *BlockStatement:
		return n.Body
	case *FunctionArgs:
		return n.Arguments
	case *FunctionCall:
		out := []Node{n.Callee}
		for _, c := range n.Calls {
			out = append(out, c)
		}
		return out
	case *FunctionDefinition:
		out := []Node{n.Name}
		for _, p := range n.Params {
			out = append(out, p)
		}
		return append(out, n.Body)
	case *LambdaFunction:
		out := make([]Node, 0, len(n.Params)+1)
		for _, p := range n.Params {
			out = append(out, p)
		}
		return append(out, n.Body)
	case *ReturnStatement:
		return []Node{n.Value}
	case *Operation:
		return []Node{n.Left, n.Right}
	case *Package:
		return []Node{n.Name, n.Body}
	case *RepeatStatement:
		return []Node{n.Body}
	case *IfStatement:
		return []Node{n.Condition, n.Then, n.Else}
	}
	return nil
}

// Inspect traverses the tree rooted at n in depth-first order. If fn returns
// false the children of the current node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}

// Dump returns an indented outline of the tree, one node per line.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast."))

	switch n := n.(type) {
	case *Value:
		fmt.Fprintf(b, " %s %s", n.Kind, n.String())
	case *Identifier:
		fmt.Fprintf(b, " %s", n.Name)
	case *Operation:
		fmt.Fprintf(b, " %s", n.Operator.Literal)
	}

	if pos := n.GetPos(); pos.IsValid() {
		fmt.Fprintf(b, " @%s", pos)
	}
	b.WriteByte('\n')

	for _, c := range Children(n) {
		dump(b, c, depth+1)
	}
}
