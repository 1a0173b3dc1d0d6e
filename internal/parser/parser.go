// Package parser implements the Ramen recursive descent parser.
//
// Every parse routine leaves the cursor exactly one token past the construct
// it recognized. The first malformed construct aborts the parse; there is no
// recovery.
package parser

import (
	"github.com/ramen-lang/ramen/internal/ast"
	"github.com/ramen-lang/ramen/internal/errors"
	"github.com/ramen-lang/ramen/internal/lexer"
)

// context carries the nesting depths of the construct being parsed. It is
// passed by value, so a nested construct can never leak its depth into a
// sibling branch.
type context struct {
	function int // enclosing fun bodies
	loop     int // enclosing repeat bodies
	branch   int // enclosing if/else blocks
}

func (c context) enterFunction() context { c.function++; return c }
func (c context) enterLoop() context     { c.loop++; return c }
func (c context) enterBranch() context   { c.branch++; return c }

// Parser represents the recursive descent parser. A Parser is single use.
type Parser struct {
	tokens    []lexer.Token
	pos       int
	variables []string
}

// New creates a parser over tokens, normally the output of lexer.Tokenize.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses tokens into a program.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	return New(tokens).Parse()
}

// Parse consumes the token stream and returns the program.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}
	for p.current().Type != lexer.TokenEOF {
		stmt, err := p.parseStatement(context{})
		if err != nil {
			return nil, err
		}
		program.Body = append(program.Body, stmt)
	}
	return program, nil
}

// Variables returns the names declared with var, in declaration order.
func (p *Parser) Variables() []string {
	return append([]string(nil), p.variables...)
}

// peekAt returns the token n positions ahead of the cursor. Reading past the
// end yields an EOF token, so streams without a trailing TokenEOF still stop.
func (p *Parser) peekAt(n int) lexer.Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	eof := lexer.Token{Type: lexer.TokenEOF}
	if len(p.tokens) > 0 {
		eof.Pos = p.tokens[len(p.tokens)-1].Pos
	}
	return eof
}

func (p *Parser) current() lexer.Token { return p.peekAt(0) }
func (p *Parser) peek() lexer.Token    { return p.peekAt(1) }

// nextToken advances the cursor
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) currentTokenIs(tt lexer.TokenType) bool { return p.current().Type == tt }

// unexpected reports tok as an InvalidSyntax failure.
func unexpected(tok lexer.Token, what string) error {
	if tok.Type == lexer.TokenEOF {
		return errors.NewInvalidSyntax("", tok.Pos, "unexpected end of input, expected %s", what)
	}
	return errors.NewInvalidSyntax(tok.Literal, tok.Pos, "unexpected %s, expected %s", tok.Type, what).
		WithHint(keywordHint(tok))
}

// keywordHint suggests a keyword when tok is an identifier that looks like a
// misspelled one, such as retrun.
func keywordHint(tok lexer.Token) string {
	if tok.Type != lexer.TokenIdentifier {
		return ""
	}
	return errors.Suggest(tok.Literal, lexer.Keywords())
}

// parseStatement dispatches on the current token.
func (p *Parser) parseStatement(ctx context) (ast.Node, error) {
	tok := p.current()

	if tok.IsLiteral() {
		p.nextToken()
		return p.parseOperationTail(ctx, ast.NewValue(tok))
	}

	switch tok.Type {
	case lexer.TokenSemicolon:
		p.nextToken()
		return &ast.Empty{Pos: tok.Pos}, nil
	case lexer.TokenLBracket:
		return p.parseSequenceLiteral(ctx)
	case lexer.TokenLParen:
		return nil, errors.NewMisplacedParen(tok.Literal, tok.Pos)
	case lexer.TokenIdentifier:
		p.nextToken()
		return p.parseIdentifierTail(ctx, &ast.Identifier{Pos: tok.Pos, Name: tok.Literal})
	case lexer.TokenDollar:
		return p.parseBuiltin(ctx)
	case lexer.TokenReturn:
		return p.parseReturn(ctx)
	case lexer.TokenLBrace:
		return p.parseBlock(ctx)
	case lexer.TokenFun:
		return p.parseFunction(ctx)
	case lexer.TokenPack:
		return p.parsePackage(ctx)
	case lexer.TokenRepeat:
		return p.parseRepeat(ctx)
	case lexer.TokenIf:
		return p.parseIf(ctx)
	case lexer.TokenBreak, lexer.TokenContinue:
		return p.parseLoopControl(ctx)
	case lexer.TokenVar:
		return p.parseVariable(ctx)
	case lexer.TokenConst:
		return nil, errors.NewInvalidSyntax(tok.Literal, tok.Pos, "const is reserved and cannot be used yet")
	}

	return nil, unexpected(tok, "a statement")
}

// parseOperationTail builds an Operation when left is followed by a binary
// operator. The right operand is parsed recursively, so there is no
// precedence: a * b + c groups as a * (b + c).
func (p *Parser) parseOperationTail(ctx context, left ast.Node) (ast.Node, error) {
	op := p.current()
	if !op.IsOperator() {
		return left, nil
	}
	p.nextToken()

	operandTok := p.current()
	right, err := p.parseStatement(ctx)
	if err != nil {
		return nil, err
	}
	if !isExpression(right) {
		return nil, errors.NewInvalidSyntax(operandTok.Literal, operandTok.Pos, "operand of %q must be an expression", op.Literal)
	}
	return &ast.Operation{Left: left, Operator: op, Right: right}, nil
}

// parseIdentifierTail continues after an identifier (cursor one past it).
func (p *Parser) parseIdentifierTail(ctx context, id *ast.Identifier) (ast.Node, error) {
	switch {
	case p.current().IsOperator():
		return p.parseOperationTail(ctx, id)

	case p.currentTokenIs(lexer.TokenAssign):
		p.nextToken()
		valueTok := p.current()
		value, err := p.parseStatement(ctx)
		if err != nil {
			return nil, err
		}
		if !isAssignable(value) {
			return nil, errors.NewInvalidSyntax(valueTok.Literal, valueTok.Pos, "cannot assign this construct to %s", id.Name)
		}
		return &ast.ValueDefinition{Target: id, Value: value}, nil

	case p.currentTokenIs(lexer.TokenLParen):
		call, err := p.parseCall(ctx, id)
		if err != nil {
			return nil, err
		}
		return p.parseOperationTail(ctx, call)

	case p.isIndexStart():
		return p.parseOperationTail(ctx, p.parseIndexing(id))
	}

	return id, nil
}

// parseBuiltin parses `$name`, the way NekoVM builtins such as $print are named.
func (p *Parser) parseBuiltin(ctx context) (ast.Node, error) {
	dollar := p.current()
	name := p.peek()
	if name.Type != lexer.TokenIdentifier || name.Pos.Offset != dollar.Pos.Offset+1 {
		return nil, errors.NewInvalidSyntax(dollar.Literal, dollar.Pos, "expected a builtin name directly after $")
	}
	p.nextToken()
	p.nextToken()
	return p.parseIdentifierTail(ctx, &ast.Identifier{Pos: dollar.Pos, Name: "$" + name.Literal})
}

// parseSequenceLiteral parses [a, b] or [k = v, ...]. Whether the literal is a
// map is decided once at the first element by looking for '='.
func (p *Parser) parseSequenceLiteral(ctx context) (ast.Node, error) {
	open := p.current()
	p.nextToken()

	if p.currentTokenIs(lexer.TokenRBracket) {
		p.nextToken()
		return &ast.ArrayList{Pos: open.Pos}, nil
	}

	isMap := p.peek().Type == lexer.TokenAssign
	array := &ast.ArrayList{Pos: open.Pos}
	hashMap := &ast.HashMap{Pos: open.Pos}

	for {
		tok := p.current()
		switch tok.Type {
		case lexer.TokenEOF:
			return nil, unexpected(tok, "]")
		case lexer.TokenRBracket:
			p.nextToken()
			if isMap {
				return hashMap, nil
			}
			return array, nil
		}

		if pair := p.peek(); (pair.Type == lexer.TokenAssign) != isMap {
			if isMap {
				return nil, errors.NewMixedLiteralKind(tok.Literal, tok.Pos, "map literal cannot contain a bare element")
			}
			return nil, errors.NewMixedLiteralKind(pair.Literal, pair.Pos, "array literal cannot contain a key/value pair")
		}

		elem, err := p.parseStatement(ctx)
		if err != nil {
			return nil, err
		}
		if isMap {
			def, ok := elem.(*ast.ValueDefinition)
			if !ok {
				return nil, errors.NewInvalidSyntax(tok.Literal, tok.Pos, "map keys must be identifiers")
			}
			hashMap.Pairs = append(hashMap.Pairs, def)
		} else {
			if !isArgument(elem) {
				return nil, errors.NewInvalidSyntax(tok.Literal, tok.Pos, "array elements must be expressions")
			}
			array.Items = append(array.Items, elem)
		}

		switch sep := p.current(); sep.Type {
		case lexer.TokenComma:
			p.nextToken()
		case lexer.TokenRBracket:
		default:
			return nil, unexpected(sep, "',' or ']'")
		}
	}
}

// parseCall parses one or more argument lists after callee: f(1)(2)
func (p *Parser) parseCall(ctx context, callee *ast.Identifier) (*ast.FunctionCall, error) {
	call := &ast.FunctionCall{Callee: callee}
	for p.currentTokenIs(lexer.TokenLParen) {
		args, err := p.parseCallArgs(ctx)
		if err != nil {
			return nil, err
		}
		call.Calls = append(call.Calls, args)
	}
	return call, nil
}

func (p *Parser) parseCallArgs(ctx context) (*ast.FunctionArgs, error) {
	open := p.current()
	p.nextToken()
	args := &ast.FunctionArgs{Pos: open.Pos}

	for {
		tok := p.current()
		switch tok.Type {
		case lexer.TokenEOF:
			return nil, unexpected(tok, ")")
		case lexer.TokenRParen:
			p.nextToken()
			return args, nil
		}

		arg, err := p.parseStatement(ctx)
		if err != nil {
			return nil, err
		}
		if !isArgument(arg) {
			return nil, errors.NewInvalidSyntax(tok.Literal, tok.Pos, "call arguments must be expressions")
		}
		args.Arguments = append(args.Arguments, arg)

		// Commas between arguments are optional: f(1 2) is f(1, 2).
		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}
}

// isIndexStart reports whether the cursor sits on `[ tok ]` with tok an
// integer, string or identifier.
func (p *Parser) isIndexStart() bool {
	return p.currentTokenIs(lexer.TokenLBracket) &&
		p.peek().IsIndex() &&
		p.peekAt(2).Type == lexer.TokenRBracket
}

func (p *Parser) parseIndexing(target *ast.Identifier) *ast.Indexing {
	idx := &ast.Indexing{Target: target}
	for p.isIndexStart() {
		p.nextToken() // [
		tok := p.current()
		if tok.Type == lexer.TokenIdentifier {
			idx.Indices = append(idx.Indices, &ast.Identifier{Pos: tok.Pos, Name: tok.Literal})
		} else {
			idx.Indices = append(idx.Indices, ast.NewValue(tok))
		}
		p.nextToken()
		p.nextToken() // ]
	}
	return idx
}

func (p *Parser) parseReturn(ctx context) (ast.Node, error) {
	tok := p.current()
	if ctx.function == 0 {
		return nil, errors.NewIllegalControlFlow(tok.Literal, tok.Pos)
	}
	p.nextToken()

	value, err := p.parseStatement(ctx)
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Pos: tok.Pos, Value: value}, nil
}

// parseLoopControl parses break and continue. Both are gated on the function
// depth, not the loop depth, so they are accepted anywhere inside a function.
func (p *Parser) parseLoopControl(ctx context) (ast.Node, error) {
	tok := p.current()
	if ctx.function == 0 {
		return nil, errors.NewIllegalControlFlow(tok.Literal, tok.Pos)
	}
	p.nextToken()

	if tok.Type == lexer.TokenBreak {
		return &ast.BreakStatement{Pos: tok.Pos}, nil
	}
	return &ast.ContinueStatement{Pos: tok.Pos}, nil
}

// parseBlock parses { ... }; the cursor must be on '{'.
func (p *Parser) parseBlock(ctx context) (*ast.BlockStatement, error) {
	open := p.current()
	p.nextToken()
	block := &ast.BlockStatement{Pos: open.Pos}

	for !p.currentTokenIs(lexer.TokenRBrace) {
		if p.currentTokenIs(lexer.TokenEOF) {
			return nil, unexpected(p.current(), "}")
		}
		stmt, err := p.parseStatement(ctx)
		if err != nil {
			return nil, err
		}
		block.Body = append(block.Body, stmt)
	}
	p.nextToken()
	return block, nil
}

// parseFunction parses both `fun name(...) {}` and the anonymous `fun(...) {}`.
func (p *Parser) parseFunction(ctx context) (ast.Node, error) {
	funTok := p.current()
	p.nextToken()

	var name *ast.Identifier
	if tok := p.current(); tok.Type == lexer.TokenIdentifier {
		name = &ast.Identifier{Pos: tok.Pos, Name: tok.Literal}
		p.nextToken()
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	if !p.currentTokenIs(lexer.TokenLBrace) {
		tok := p.current()
		return nil, errors.NewMalformedFunction(tok.Literal, tok.Pos, "function declaration without a body")
	}
	body, err := p.parseBlock(ctx.enterFunction())
	if err != nil {
		return nil, err
	}

	if name == nil {
		return &ast.LambdaFunction{Pos: funTok.Pos, Params: params, Body: body}, nil
	}
	return &ast.FunctionDefinition{Pos: funTok.Pos, Name: name, Params: params, Body: body}, nil
}

// parseParams parses an optional `(var a, var b)` list. Commas between
// parameters are optional.
func (p *Parser) parseParams() ([]*ast.Identifier, error) {
	if !p.currentTokenIs(lexer.TokenLParen) {
		return nil, nil
	}
	p.nextToken()

	var params []*ast.Identifier
	for !p.currentTokenIs(lexer.TokenRParen) {
		tok := p.current()
		if tok.Type == lexer.TokenEOF {
			return nil, errors.NewMalformedFunction("", tok.Pos, "parameter list is not closed")
		}
		if tok.Type != lexer.TokenVar || p.peek().Type != lexer.TokenIdentifier {
			return nil, errors.NewMalformedFunction(tok.Literal, tok.Pos, "parameters must be written as var <name>").
				WithHint(errors.Suggest(tok.Literal, []string{"var"}))
		}
		p.nextToken()
		name := p.current()
		params = append(params, &ast.Identifier{Pos: name.Pos, Name: name.Literal})
		p.nextToken()

		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}
	p.nextToken()
	return params, nil
}

func (p *Parser) parsePackage(ctx context) (ast.Node, error) {
	packTok := p.current()
	p.nextToken()

	nameTok := p.current()
	if nameTok.Type != lexer.TokenIdentifier {
		return nil, errors.NewMalformedPackage(nameTok.Literal, nameTok.Pos, "expected a package name after pack").
			WithHint(keywordHint(nameTok))
	}
	p.nextToken()

	if tok := p.current(); tok.Type != lexer.TokenLBrace {
		return nil, errors.NewMalformedPackage(tok.Literal, tok.Pos, "package %s has no body", nameTok.Literal).
			WithHint(keywordHint(tok))
	}
	body, err := p.parseBlock(ctx)
	if err != nil {
		return nil, err
	}

	return &ast.Package{
		Pos:  packTok.Pos,
		Name: &ast.Identifier{Pos: nameTok.Pos, Name: nameTok.Literal},
		Body: body,
	}, nil
}

func (p *Parser) parseRepeat(ctx context) (ast.Node, error) {
	repeatTok := p.current()
	p.nextToken()

	if !p.currentTokenIs(lexer.TokenLBrace) {
		return nil, unexpected(p.current(), "{ after repeat")
	}
	body, err := p.parseBlock(ctx.enterLoop())
	if err != nil {
		return nil, err
	}
	return &ast.RepeatStatement{Pos: repeatTok.Pos, Body: body}, nil
}

// parseIf parses if (<operation>) { ... } [else { ... }].
func (p *Parser) parseIf(ctx context) (ast.Node, error) {
	ifTok := p.current()
	p.nextToken()

	if tok := p.current(); tok.Type != lexer.TokenLParen {
		return nil, errors.NewMalformedIf(tok.Literal, tok.Pos, "expected ( after if")
	}
	p.nextToken()

	condTok := p.current()
	cond, err := p.parseStatement(ctx)
	if err != nil {
		return nil, err
	}
	op, ok := cond.(*ast.Operation)
	if !ok {
		return nil, errors.NewMalformedIf(condTok.Literal, condTok.Pos, "if condition must be an operation such as x == y")
	}

	if tok := p.current(); tok.Type != lexer.TokenRParen {
		return nil, errors.NewMalformedIf(tok.Literal, tok.Pos, "expected ) after if condition").
			WithHint(keywordHint(tok))
	}
	p.nextToken()

	inner := ctx.enterBranch()
	if tok := p.current(); tok.Type != lexer.TokenLBrace {
		return nil, errors.NewMalformedIf(tok.Literal, tok.Pos, "if statement requires a block").
			WithHint(keywordHint(tok))
	}
	then, err := p.parseBlock(inner)
	if err != nil {
		return nil, err
	}

	alternate := &ast.BlockStatement{}
	if p.currentTokenIs(lexer.TokenElse) {
		p.nextToken()
		if tok := p.current(); tok.Type != lexer.TokenLBrace {
			return nil, errors.NewMalformedIf(tok.Literal, tok.Pos, "else requires a block").
				WithHint(keywordHint(tok))
		}
		if alternate, err = p.parseBlock(inner); err != nil {
			return nil, err
		}
	}

	return &ast.IfStatement{Pos: ifTok.Pos, Condition: op, Then: then, Else: alternate}, nil
}

// parseVariable parses `var x` and `var x = value` and records the name.
func (p *Parser) parseVariable(ctx context) (ast.Node, error) {
	varTok := p.current()
	p.nextToken()

	tok := p.current()
	if tok.Type != lexer.TokenIdentifier {
		return nil, unexpected(tok, "an identifier after var")
	}
	p.nextToken()

	id := &ast.Identifier{Pos: tok.Pos, Name: tok.Literal}
	stmt, err := p.parseIdentifierTail(ctx, id)
	if err != nil {
		return nil, err
	}

	switch stmt := stmt.(type) {
	case *ast.Identifier:
		p.variables = append(p.variables, stmt.Name)
		return &ast.VariableDeclaration{Pos: varTok.Pos, Name: stmt}, nil
	case *ast.ValueDefinition:
		p.variables = append(p.variables, stmt.Target.Name)
		return &ast.VariableInitialization{Pos: varTok.Pos, Definition: stmt}, nil
	}
	return nil, errors.NewInvalidSyntax(tok.Literal, tok.Pos, "var must declare %s or initialize it with =", tok.Literal)
}

// isExpression reports whether n can be an operand.
func isExpression(n ast.Node) bool {
	switch n.(type) {
	case *ast.Value, *ast.Identifier, *ast.ArrayList, *ast.HashMap,
		*ast.Indexing, *ast.FunctionCall, *ast.Operation:
		return true
	}
	return false
}

// isArgument reports whether n can be a call argument or array element.
func isArgument(n ast.Node) bool {
	if _, ok := n.(*ast.LambdaFunction); ok {
		return true
	}
	return isExpression(n)
}

// isAssignable reports whether n can be the right side of an assignment.
func isAssignable(n ast.Node) bool {
	switch n.(type) {
	case *ast.Value, *ast.Identifier, *ast.ArrayList, *ast.HashMap,
		*ast.FunctionCall, *ast.Operation:
		return true
	}
	return false
}
