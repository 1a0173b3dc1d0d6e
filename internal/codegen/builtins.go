package codegen

import (
	"github.com/ramen-lang/ramen/internal/lexer"
)

// nekoOperators maps Ramen operators whose spelling differs in NekoVM.
var nekoOperators = map[lexer.TokenType]string{
	lexer.TokenAnd: "&&",
	lexer.TokenOr:  "||",
}

func operator(tok lexer.Token) string {
	if op, ok := nekoOperators[tok.Type]; ok {
		return op
	}
	return tok.Literal
}

// DefaultEntry is the function a built program calls after all top-level
// statements have run.
const DefaultEntry = "Main"

// EntryCall returns the call appended to a bundle to start the program.
func EntryCall(entry string) string {
	if entry == "" {
		entry = DefaultEntry
	}
	return entry + "()"
}
