// Package ast defines the syntax tree of the Ramen language.
//
// The node set is closed: Node carries an unexported marker method, so only
// the types declared here satisfy it and the renderer in package codegen can
// switch over them exhaustively. String returns the Ramen source form of a
// node; the NekoVM form is produced by codegen.Render.
package ast

import (
	"strings"

	"github.com/ramen-lang/ramen/internal/lexer"
	"github.com/ramen-lang/ramen/internal/position"
)

// Node is the base interface for all AST nodes
type Node interface {
	// GetPos returns the position of the first token of the node
	GetPos() position.Position
	// String returns the Ramen source form of the node
	String() string

	node()
}

// Program is the root of every tree
type Program struct {
	Body []Node
}

// Value is a literal. Kind is TokenInt, TokenFloat, TokenString or TokenBool;
// the true and false keywords are normalized to TokenBool.
type Value struct {
	Pos     position.Position
	Kind    lexer.TokenType
	Literal string
}

// NewValue builds a literal from its token.
func NewValue(tok lexer.Token) *Value {
	kind := tok.Type
	if kind == lexer.TokenTrue || kind == lexer.TokenFalse {
		kind = lexer.TokenBool
	}
	return &Value{Pos: tok.Pos, Kind: kind, Literal: tok.Literal}
}

type Identifier struct {
	Pos  position.Position
	Name string
}

// ArrayList is a bracketed list of bare elements: [1, 2, x]
type ArrayList struct {
	Pos   position.Position
	Items []Node
}

// HashMap is a bracketed list of key/value pairs: [a = 1, b = 2]
type HashMap struct {
	Pos   position.Position
	Pairs []*ValueDefinition
}

// Indexing reads an element of an array or map: users[0][name]
type Indexing struct {
	Target  *Identifier
	Indices []Node
}

// VariableDeclaration is `var x` without a value
type VariableDeclaration struct {
	Pos  position.Position
	Name *Identifier
}

// VariableInitialization is `var x = value`
type VariableInitialization struct {
	Pos        position.Position
	Definition *ValueDefinition
}

// ValueDefinition is an assignment `x = value`
type ValueDefinition struct {
	Target *Identifier
	Value  Node
}

type BlockStatement struct {
	Pos  position.Position
	Body []Node
}

// FunctionArgs is one parenthesized argument list of a call. A call may
// chain several: f(1)(2)
type FunctionArgs struct {
	Pos       position.Position
	Arguments []Node
}

type FunctionCall struct {
	Callee *Identifier
	Calls  []*FunctionArgs
}

// FunctionDefinition is a named function `fun f(var a) { ... }`
type FunctionDefinition struct {
	Pos    position.Position
	Name   *Identifier
	Params []*Identifier
	Body   *BlockStatement
}

// LambdaFunction is an anonymous function `fun(var a) { ... }`
type LambdaFunction struct {
	Pos    position.Position
	Params []*Identifier
	Body   *BlockStatement
}

type ReturnStatement struct {
	Pos   position.Position
	Value Node
}

// Operation is a binary operation. Operations chain to the right without
// precedence: a * b + c is a * (b + c).
type Operation struct {
	Left     Node
	Operator lexer.Token
	Right    Node
}

// Package groups statements under a name that has no runtime effect.
type Package struct {
	Pos  position.Position
	Name *Identifier
	Body *BlockStatement
}

type RepeatStatement struct {
	Pos  position.Position
	Body *BlockStatement
}

type BreakStatement struct {
	Pos position.Position
}

type ContinueStatement struct {
	Pos position.Position
}

// IfStatement never has a nil Else; a missing else branch is an empty block.
type IfStatement struct {
	Pos       position.Position
	Condition *Operation
	Then      *BlockStatement
	Else      *BlockStatement
}

// Empty is a stray `;`
type Empty struct {
	Pos position.Position
}

func (p *Program) GetPos() position.Position {
	if len(p.Body) == 0 {
		return position.Position{}
	}
	return p.Body[0].GetPos()
}
func (v *Value) GetPos() position.Position                  { return v.Pos }
func (i *Identifier) GetPos() position.Position             { return i.Pos }
func (a *ArrayList) GetPos() position.Position              { return a.Pos }
func (h *HashMap) GetPos() position.Position                { return h.Pos }
func (i *Indexing) GetPos() position.Position               { return i.Target.Pos }
func (v *VariableDeclaration) GetPos() position.Position    { return v.Pos }
func (v *VariableInitialization) GetPos() position.Position { return v.Pos }
func (v *ValueDefinition) GetPos() position.Position        { return v.Target.Pos }
func (b *BlockStatement) GetPos() position.Position         { return b.Pos }
func (f *FunctionArgs) GetPos() position.Position           { return f.Pos }
func (f *FunctionCall) GetPos() position.Position           { return f.Callee.Pos }
func (f *FunctionDefinition) GetPos() position.Position     { return f.Pos }
func (l *LambdaFunction) GetPos() position.Position         { return l.Pos }
func (r *ReturnStatement) GetPos() position.Position        { return r.Pos }
func (o *Operation) GetPos() position.Position              { return o.Left.GetPos() }
func (p *Package) GetPos() position.Position                { return p.Pos }
func (r *RepeatStatement) GetPos() position.Position        { return r.Pos }
func (b *BreakStatement) GetPos() position.Position         { return b.Pos }
func (c *ContinueStatement) GetPos() position.Position      { return c.Pos }
func (i *IfStatement) GetPos() position.Position            { return i.Pos }
func (e *Empty) GetPos() position.Position                  { return e.Pos }

func (*Program) node()                {}
func (*Value) node()                  {}
func (*Identifier) node()             {}
func (*ArrayList) node()              {}
func (*HashMap) node()                {}
func (*Indexing) node()               {}
func (*VariableDeclaration) node()    {}
func (*VariableInitialization) node() {}
func (*ValueDefinition) node()        {}
func (*BlockStatement) node()         {}
func (*FunctionArgs) node()           {}
func (*FunctionCall) node()           {}
func (*FunctionDefinition) node()     {}
func (*LambdaFunction) node()         {}
func (*ReturnStatement) node()        {}
func (*Operation) node()              {}
func (*Package) node()                {}
func (*RepeatStatement) node()        {}
func (*BreakStatement) node()         {}
func (*ContinueStatement) node()      {}
func (*IfStatement) node()            {}
func (*Empty) node()                  {}

func (p *Program) String() string {
	var b strings.Builder
	for _, stmt := range p.Body {
		b.WriteString(stmt.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (v *Value) String() string {
	if v.Kind == lexer.TokenString {
		return `"` + v.Literal + `"`
	}
	return v.Literal
}

func (i *Identifier) String() string { return i.Name }

func (a *ArrayList) String() string {
	return "[" + join(a.Items, ", ") + "]"
}

func (h *HashMap) String() string {
	parts := make([]string, len(h.Pairs))
	for i, p := range h.Pairs {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (i *Indexing) String() string {
	var b strings.Builder
	b.WriteString(i.Target.Name)
	for _, idx := range i.Indices {
		b.WriteString("[" + idx.String() + "]")
	}
	return b.String()
}

func (v *VariableDeclaration) String() string { return "var " + v.Name.Name }

func (v *VariableInitialization) String() string { return "var " + v.Definition.String() }

func (v *ValueDefinition) String() string {
	return v.Target.Name + " = " + v.Value.String()
}

func (b *BlockStatement) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, stmt := range b.Body {
		sb.WriteString(stmt.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("}")
	return sb.String()
}

func (f *FunctionArgs) String() string {
	return strings.ReplaceAll("("+join(f.Arguments, ",")+")", "\n", "")
}

func (f *FunctionCall) String() string {
	var b strings.Builder
	b.WriteString(f.Callee.Name)
	for _, args := range f.Calls {
		b.WriteString(args.String())
	}
	return b.String()
}

func (f *FunctionDefinition) String() string {
	return "fun " + f.Name.Name + "(" + sourceParams(f.Params) + ") " + f.Body.String()
}

func (l *LambdaFunction) String() string {
	return "fun(" + sourceParams(l.Params) + ") " + l.Body.String()
}

func (r *ReturnStatement) String() string { return "return " + r.Value.String() }

func (o *Operation) String() string {
	return o.Left.String() + " " + o.Operator.Literal + " " + o.Right.String()
}

func (p *Package) String() string { return "pack " + p.Name.Name + " " + p.Body.String() }

func (r *RepeatStatement) String() string { return "repeat " + r.Body.String() }

func (*BreakStatement) String() string { return "break" }

func (*ContinueStatement) String() string { return "continue" }

func (i *IfStatement) String() string {
	return "if (" + i.Condition.String() + ") " + i.Then.String() + " else " + i.Else.String()
}

func (*Empty) String() string { return "" }

func join(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func sourceParams(params []*Identifier) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = "var " + p.Name
	}
	return strings.Join(parts, ",")
}
