package codegen

import (
	"github.com/ramen-lang/ramen/internal/ast"
	"github.com/ramen-lang/ramen/internal/lexer"
	"github.com/ramen-lang/ramen/internal/parser"
)

// Result holds every stage of one compilation.
type Result struct {
	Tokens    []lexer.Token
	Program   *ast.Program
	Variables []string
	Output    string
}

// Compile lexes, parses and renders src. It returns either the complete
// NekoVM text or exactly one error.
func Compile(src string) (string, error) {
	res, err := CompileDetailed(src)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// CompileDetailed is Compile but also returns the intermediate stages.
func CompileDetailed(src string) (*Result, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := parser.New(tokens)
	program, err := p.Parse()
	if err != nil {
		return nil, err
	}

	return &Result{
		Tokens:    tokens,
		Program:   program,
		Variables: p.Variables(),
		Output:    Render(program),
	}, nil
}
