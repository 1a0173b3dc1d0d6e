package lexer

import (
	"fmt"
	"sort"

	"github.com/ramen-lang/ramen/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types of the Ramen language
const (
	TokenEOF TokenType = iota

	// Single character tokens
	TokenPlus
	TokenMinus
	TokenAsterisk
	TokenSlash
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenDot
	TokenComma
	TokenSemicolon
	TokenDollar

	// Single or double character tokens
	TokenAssign
	TokenEq
	TokenBang
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe

	// Keywords
	TokenOr
	TokenAnd
	TokenVar
	TokenConst
	TokenIf
	TokenElse
	TokenRepeat
	TokenBreak
	TokenContinue
	TokenTrue
	TokenFalse
	TokenFun
	TokenReturn
	TokenPack

	// Literals
	TokenString
	TokenInt
	TokenFloat
	TokenBool // never produced by the lexer, see ast.Value
	TokenIdentifier
)

var tokenNames = map[TokenType]string{
	TokenEOF: "EOF",

	TokenPlus:      "PLUS",
	TokenMinus:     "MINUS",
	TokenAsterisk:  "ASTERISK",
	TokenSlash:     "SLASH",
	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
	TokenLBracket:  "LBRACKET",
	TokenRBracket:  "RBRACKET",
	TokenDot:       "DOT",
	TokenComma:     "COMMA",
	TokenSemicolon: "SEMICOLON",
	TokenDollar:    "DOLLAR",

	TokenAssign: "ASSIGN",
	TokenEq:     "EQ",
	TokenBang:   "BANG",
	TokenNe:     "NE",
	TokenLt:     "LT",
	TokenLe:     "LE",
	TokenGt:     "GT",
	TokenGe:     "GE",

	TokenOr:       "OR",
	TokenAnd:      "AND",
	TokenVar:      "VAR",
	TokenConst:    "CONST",
	TokenIf:       "IF",
	TokenElse:     "ELSE",
	TokenRepeat:   "REPEAT",
	TokenBreak:    "BREAK",
	TokenContinue: "CONTINUE",
	TokenTrue:     "TRUE",
	TokenFalse:    "FALSE",
	TokenFun:      "FUN",
	TokenReturn:   "RETURN",
	TokenPack:     "PACK",

	TokenString:     "STRING",
	TokenInt:        "INT",
	TokenFloat:      "FLOAT",
	TokenBool:       "BOOL",
	TokenIdentifier: "IDENTIFIER",
}

// keywords maps reserved words to their token types
var keywords = map[string]TokenType{
	"or":       TokenOr,
	"and":      TokenAnd,
	"var":      TokenVar,
	"const":    TokenConst,
	"if":       TokenIf,
	"else":     TokenElse,
	"repeat":   TokenRepeat,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"fun":      TokenFun,
	"return":   TokenReturn,
	"pack":     TokenPack,
}

// LookupIdent returns the keyword token type for ident, or TokenIdentifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Literal string
	Pos     position.Position
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type, t.Literal, t.Pos.Line, t.Pos.Column)
}

// IsLiteral reports whether the token starts a literal value.
func (t Token) IsLiteral() bool {
	switch t.Type {
	case TokenInt, TokenFloat, TokenString, TokenTrue, TokenFalse:
		return true
	}
	return false
}

// IsOperator reports whether the token is a binary operator.
func (t Token) IsOperator() bool {
	switch t.Type {
	case TokenPlus, TokenMinus, TokenAsterisk, TokenSlash,
		TokenEq, TokenNe, TokenLt, TokenLe, TokenGt, TokenGe,
		TokenAnd, TokenOr:
		return true
	}
	return false
}

// IsIndex reports whether the token may appear alone inside index brackets.
func (t Token) IsIndex() bool {
	return t.Type == TokenInt || t.Type == TokenString || t.Type == TokenIdentifier
}
