// Package errors provides the failure taxonomy of the Ramen compiler.
// Every lexical or syntax failure aborts compilation and surfaces as exactly
// one *CompileError carrying its Kind and the offending token.
package errors

import (
	"fmt"

	"github.com/ramen-lang/ramen/internal/position"
)

// Category groups failure kinds by the stage that raises them.
type Category string

const (
	CategoryLexical Category = "LEXICAL"
	CategorySyntax  Category = "SYNTAX"
	CategoryBuild   Category = "BUILD"
)

// Kind names a single failure kind.
type Kind string

const (
	InvalidToken        Kind = "InvalidToken"
	UnterminatedLiteral Kind = "UnterminatedLiteral"
	MisplacedParen      Kind = "MisplacedParen"
	InvalidSyntax       Kind = "InvalidSyntax"
	MixedLiteralKind    Kind = "MixedLiteralKind"
	IllegalControlFlow  Kind = "IllegalControlFlow"
	MalformedIf         Kind = "MalformedIf"
	MalformedFunction   Kind = "MalformedFunction"
	MalformedPackage    Kind = "MalformedPackage"
	ToolchainFailure    Kind = "ToolchainFailure"
)

// Category returns the stage a kind belongs to.
func (k Kind) Category() Category {
	switch k {
	case InvalidToken, UnterminatedLiteral:
		return CategoryLexical
	case ToolchainFailure:
		return CategoryBuild
	default:
		return CategorySyntax
	}
}

// Sentinels for errors.Is matching against a *CompileError.
var (
	ErrInvalidToken        = &CompileError{Kind: InvalidToken}
	ErrUnterminatedLiteral = &CompileError{Kind: UnterminatedLiteral}
	ErrMisplacedParen      = &CompileError{Kind: MisplacedParen}
	ErrInvalidSyntax       = &CompileError{Kind: InvalidSyntax}
	ErrMixedLiteralKind    = &CompileError{Kind: MixedLiteralKind}
	ErrIllegalControlFlow  = &CompileError{Kind: IllegalControlFlow}
	ErrMalformedIf         = &CompileError{Kind: MalformedIf}
	ErrMalformedFunction   = &CompileError{Kind: MalformedFunction}
	ErrMalformedPackage    = &CompileError{Kind: MalformedPackage}
	ErrToolchainFailure    = &CompileError{Kind: ToolchainFailure}
)

// CompileError is the single error value a failed compilation produces.
type CompileError struct {
	Kind    Kind
	Message string
	Token   string            // Literal text of the offending token
	Pos     position.Position // Position of the offending token
	Hint    string            // Optional "did you mean" style hint
	Context string            // Source excerpt pointing at Pos, not part of Error()
	Err     error             // Underlying cause, if any
}

// Error implements the error interface
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("[%s:%s] %s", e.Kind.Category(), e.Kind, e.Message)
	if e.Token != "" {
		msg += fmt.Sprintf(" (token %q)", e.Token)
	}
	if e.Pos.IsValid() {
		msg = e.Pos.String() + ": " + msg
	}
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error { return e.Err }

// Is matches any *CompileError of the same Kind.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	return ok && t.Kind == e.Kind
}

// WithPosition returns a copy of e positioned at pos.
func (e *CompileError) WithPosition(pos position.Position) *CompileError {
	out := *e
	out.Pos = pos
	return &out
}

// WithHint returns a copy of e carrying hint.
func (e *CompileError) WithHint(hint string) *CompileError {
	out := *e
	out.Hint = hint
	return &out
}

// New creates a CompileError of the given kind.
func New(kind Kind, tok string, pos position.Position, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
		Pos:     pos,
	}
}

// Common error constructors

func NewInvalidToken(tok string, pos position.Position, format string, args ...any) *CompileError {
	return New(InvalidToken, tok, pos, format, args...)
}

func NewUnterminatedLiteral(tok string, pos position.Position) *CompileError {
	return New(UnterminatedLiteral, tok, pos, "string literal is not terminated before end of input")
}

func NewMisplacedParen(tok string, pos position.Position) *CompileError {
	return New(MisplacedParen, tok, pos, "argument list without a function to call")
}

func NewInvalidSyntax(tok string, pos position.Position, format string, args ...any) *CompileError {
	return New(InvalidSyntax, tok, pos, format, args...)
}

func NewMixedLiteralKind(tok string, pos position.Position, format string, args ...any) *CompileError {
	return New(MixedLiteralKind, tok, pos, format, args...)
}

func NewIllegalControlFlow(tok string, pos position.Position) *CompileError {
	return New(IllegalControlFlow, tok, pos, "%q is only allowed inside a function body", tok)
}

func NewMalformedIf(tok string, pos position.Position, format string, args ...any) *CompileError {
	return New(MalformedIf, tok, pos, format, args...)
}

func NewMalformedFunction(tok string, pos position.Position, format string, args ...any) *CompileError {
	return New(MalformedFunction, tok, pos, format, args...)
}

func NewMalformedPackage(tok string, pos position.Position, format string, args ...any) *CompileError {
	return New(MalformedPackage, tok, pos, format, args...)
}

// NewToolchainFailure wraps a failure of the external Neko toolchain.
func NewToolchainFailure(err error, format string, args ...any) *CompileError {
	e := New(ToolchainFailure, "", position.Position{}, format, args...)
	e.Err = err
	return e
}
