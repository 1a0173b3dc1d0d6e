package codegen

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/ramen-lang/ramen/internal/ast"
	"github.com/ramen-lang/ramen/internal/errors"
	"github.com/ramen-lang/ramen/internal/lexer"
	"github.com/ramen-lang/ramen/internal/parser"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty program", "", ""},
		{"variable initialization", "var x = 1;", "var x = 1;"},
		{"variable declaration", "var x;", "var x;"},
		{"statements are not separated", "var a = 1; var b = 2;", "var a = 1;var b = 2;"},
		{"string literal", `s = "hi there";`, `s = "hi there";`},
		{"boolean literal", "ok = true;", "ok = true;"},
		{"array", `x = [1, "a", true];`, `x = $array(1, "a", true);`},
		{"empty array", "x = [];", "x = $array();"},
		{"map", "x = [a = 1, b = [2]];", "x = {a => 1,b => $array(2)};"},
		{"indexing operand", "x = users[0][name] + 1;", "x = users[0][name] + 1;"},
		{"string index", `users[0]["name"] == 1;`, `users[0]["name"] == 1`},
		{"chained call", `$print(f(1)(2, "s"));`, `$print(f(1)(2,"s"))`},
		{"logical operators", "x = a and b or c;", "x = a && b || c;"},
		{"no precedence", "x = a * b + c;", "x = a * b + c;"},
		{
			"named function",
			"fun f(var a, var b) { return a; }",
			"var f = function(a,b) {\na;\n\n}\n",
		},
		{
			"arguments without commas",
			"f(1 2 x);",
			"f(1,2,x)",
		},
		{
			"lambda argument",
			"f(fun(var a) { return a; });",
			"f(function(a) {a;})",
		},
		{
			"if without else",
			"if (x == 1) { y = 1; }",
			"if (x == 1) {\ny = 1;\n\n} else {\n}",
		},
		{
			"if with else",
			"if (x != 1) { y = 1; } else { y = 2; }",
			"if (x != 1) {\ny = 1;\n\n} else {\ny = 2;\n\n}",
		},
		{
			"return inside if",
			"fun f(var x) { if (x == 1) { return x; } }",
			"var f = function(x) {\nif (x == 1) {\nx;\n\n} else {\n}\n}\n",
		},
		{
			"repeat",
			"fun f { repeat { break; } }",
			"var f = function() {\nwhile (true) {\nbreak;\n\n}\n}\n",
		},
		{
			"continue",
			"fun f { continue; }",
			"var f = function() {\ncontinue;\n\n}\n",
		},
		{
			"package is transparent",
			"pack util { var x; }",
			"{\nvar x;\n\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.input)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("Compile(%q)\n got: %q\nwant: %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReturnSemicolonIsSeparateStatement(t *testing.T) {
	got, err := Compile("fun f(var a, var b) { return a; }")
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if strings.Contains(got, "a;;") {
		t.Fatalf("Compile() = %q, return value followed by a doubled semicolon", got)
	}
	if !strings.Contains(got, "{\na;\n\n}") {
		t.Fatalf("Compile() = %q, want the return value and an empty statement on separate lines", got)
	}
}

func TestRenderNodes(t *testing.T) {
	boolean := ast.NewValue(lexer.Token{Type: lexer.TokenFalse, Literal: "false"})

	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"bool value", boolean, "false"},
		{"empty", &ast.Empty{}, ""},
		{"break", &ast.BreakStatement{}, "break;"},
		{"empty block", &ast.BlockStatement{}, "{\n}"},
		{"declaration", &ast.VariableDeclaration{Name: &ast.Identifier{Name: "n"}}, "var n;"},
		{"lambda without params", &ast.LambdaFunction{Body: &ast.BlockStatement{}}, "function() {\n}"},
		{"return", &ast.ReturnStatement{Value: &ast.Identifier{Name: "v"}}, "v;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.node); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDeterministicAndIdempotent(t *testing.T) {
	src := `pack app {
	fun Main() {
		var xs = [1, 2, 3];
		var cfg = [name = "ramen", size = 2];
		var i = 0;
		repeat {
			if (i >= 3) { break; } else { i = i + 1; }
		}
		$print(xs[0], cfg[name]);
	}
}
`
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	first := Render(program)
	if second := Render(program); second != first {
		t.Fatalf("rendering the same tree twice differs:\n%q\n%q", first, second)
	}

	again, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if again != first {
		t.Fatalf("pipeline output is not deterministic:\n%q\n%q", first, again)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{`x = "open`, errors.ErrUnterminatedLiteral},
		{"x = 1 ? 2;", errors.ErrInvalidToken},
		{"x = [1, x=2];", errors.ErrMixedLiteralKind},
		{"break;", errors.ErrIllegalControlFlow},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := Compile(tt.input)
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("Compile(%q) error = %v, want %v", tt.input, err, tt.want)
			}
			if out != "" {
				t.Fatalf("Compile(%q) returned partial output %q", tt.input, out)
			}
		})
	}
}

func TestCompileDetailed(t *testing.T) {
	res, err := CompileDetailed("var a = 1; var b;")
	if err != nil {
		t.Fatalf("CompileDetailed() error = %v", err)
	}
	if len(res.Variables) != 2 || res.Variables[0] != "a" || res.Variables[1] != "b" {
		t.Errorf("Variables = %v, want [a b]", res.Variables)
	}
	if last := res.Tokens[len(res.Tokens)-1]; last.Type != lexer.TokenEOF {
		t.Errorf("last token = %s, want EOF", last.Type)
	}
	if res.Output != "var a = 1;var b;" {
		t.Errorf("Output = %q", res.Output)
	}
}

func TestEntryCall(t *testing.T) {
	if got := EntryCall(""); got != "Main()" {
		t.Errorf("EntryCall(\"\") = %q, want Main()", got)
	}
	if got := EntryCall("Start"); got != "Start()" {
		t.Errorf("EntryCall(Start) = %q", got)
	}
}

func BenchmarkCompile(b *testing.B) {
	src := `fun Main() {
	var total = 0;
	var xs = [1, 2, 3, 4];
	repeat {
		if (total >= 10) { break; }
		total = total + xs[1];
	}
	$print(total);
}
`
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(src); err != nil {
			b.Fatal(err)
		}
	}
}
