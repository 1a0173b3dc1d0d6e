// Package codegen renders Ramen syntax trees as NekoVM source text.
package codegen

import (
	"fmt"
	"strings"

	"github.com/ramen-lang/ramen/internal/ast"
)

// Render returns the NekoVM source text for n. Rendering is pure: it performs
// no validation and returns identical text for identical trees.
func Render(n ast.Node) string {
	var b strings.Builder
	render(&b, n)
	return b.String()
}

func render(b *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Program:
		for _, stmt := range n.Body {
			render(b, stmt)
		}

	case *ast.Value:
		b.WriteString(n.String())

	case *ast.Identifier:
		b.WriteString(n.Name)

	case *ast.ArrayList:
		b.WriteString("$array(")
		renderList(b, n.Items, ", ")
		b.WriteString(")")

	case *ast.HashMap:
		b.WriteString("{")
		for i, pair := range n.Pairs {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(pair.Target.Name)
			b.WriteString(" => ")
			render(b, pair.Value)
		}
		b.WriteString("}")

	case *ast.Indexing:
		b.WriteString(n.Target.Name)
		for _, idx := range n.Indices {
			b.WriteString("[")
			render(b, idx)
			b.WriteString("]")
		}

	case *ast.VariableDeclaration:
		b.WriteString("var ")
		b.WriteString(n.Name.Name)
		b.WriteString(";")

	case *ast.VariableInitialization:
		b.WriteString("var ")
		render(b, n.Definition)

	case *ast.ValueDefinition:
		b.WriteString(n.Target.Name)
		b.WriteString(" = ")
		render(b, n.Value)
		b.WriteString(";")

	case *ast.BlockStatement:
		b.WriteString("{\n")
		for _, stmt := range n.Body {
			render(b, stmt)
			b.WriteString("\n")
		}
		b.WriteString("}")

	case *ast.FunctionArgs:
		var args strings.Builder
		renderList(&args, n.Arguments, ",")
		b.WriteString("(")
		b.WriteString(strings.ReplaceAll(args.String(), "\n", ""))
		b.WriteString(")")

	case *ast.FunctionCall:
		b.WriteString(n.Callee.Name)
		for _, args := range n.Calls {
			render(b, args)
		}

	case *ast.FunctionDefinition:
		b.WriteString("var ")
		b.WriteString(n.Name.Name)
		b.WriteString(" = ")
		renderFunction(b, n.Params, n.Body)
		b.WriteString("\n")

	case *ast.LambdaFunction:
		renderFunction(b, n.Params, n.Body)

	case *ast.ReturnStatement:
		// Neko returns the value of the last evaluated expression.
		render(b, n.Value)
		b.WriteString(";")

	case *ast.Operation:
		render(b, n.Left)
		b.WriteString(" ")
		b.WriteString(operator(n.Operator))
		b.WriteString(" ")
		render(b, n.Right)

	case *ast.Package:
		render(b, n.Body)

	case *ast.RepeatStatement:
		b.WriteString("while (true) ")
		render(b, n.Body)

	case *ast.BreakStatement:
		b.WriteString("break;")

	case *ast.ContinueStatement:
		b.WriteString("continue;")

	case *ast.IfStatement:
		b.WriteString("if (")
		render(b, n.Condition)
		b.WriteString(") ")
		render(b, n.Then)
		b.WriteString(" else ")
		render(b, n.Else)

	case *ast.Empty:

	default:
		panic(fmt.Sprintf("codegen: unhandled node %T", n))
	}
}

func renderList(b *strings.Builder, nodes []ast.Node, sep string) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(sep)
		}
		render(b, n)
	}
}

func renderFunction(b *strings.Builder, params []*ast.Identifier, body *ast.BlockStatement) {
	b.WriteString("function(")
	for i, p := range params {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(p.Name)
	}
	b.WriteString(") ")
	render(b, body)
}
