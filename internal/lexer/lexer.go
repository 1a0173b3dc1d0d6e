// Package lexer implements the Ramen lexical analyzer.
// A Lexer is a single forward-only cursor over one source buffer; it is
// consumed once and never restarted.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/ramen-lang/ramen/internal/errors"
	"github.com/ramen-lang/ramen/internal/position"
)

// eof marks the end of input. NUL is an ordinary (invalid) character.
const eof rune = -1

// singleChar maps one-character tokens to their types
var singleChar = map[rune]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenAsterisk,
	'/': TokenSlash,
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	'.': TokenDot,
	',': TokenComma,
	';': TokenSemicolon,
	'$': TokenDollar,
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	filename     string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	lineStart    int  // byte offset of the first char of the current line
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		filename: filename,
		line:     1,
		ch:       eof,
	}
	l.readChar()
	return l
}

// Tokenize lexes src completely. The returned slice ends with a TokenEOF
// token. On failure no tokens are returned.
func Tokenize(src string) ([]Token, error) {
	return New(src).Tokenize()
}

// Tokenize drains the lexer.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// readChar advances to the next character
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPosition
	}

	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = eof
		return
	}

	r, width := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.readPosition += width
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) currentPosition() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.position - l.lineStart + 1,
		Offset:   l.position,
	}
}

// skipWhitespace skips whitespace and line comments
func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			l.readChar()
		case '#':
			for l.ch != '\n' && l.ch != eof {
				l.readChar()
			}
		default:
			return
		}
	}
}

// NextToken scans the input and returns the next token. Once the input is
// exhausted every call returns TokenEOF.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	pos := l.currentPosition()

	if l.ch == eof {
		return Token{Type: TokenEOF, Pos: pos}, nil
	}

	if tt, ok := singleChar[l.ch]; ok {
		tok := Token{Type: tt, Literal: string(l.ch), Pos: pos}
		l.readChar()
		return tok, nil
	}

	switch l.ch {
	case '=':
		return l.oneOrTwo(TokenAssign, TokenEq, pos), nil
	case '!':
		return l.oneOrTwo(TokenBang, TokenNe, pos), nil
	case '<':
		return l.oneOrTwo(TokenLt, TokenLe, pos), nil
	case '>':
		return l.oneOrTwo(TokenGt, TokenGe, pos), nil
	case '"':
		return l.readString(pos)
	}

	if isDigit(l.ch) {
		return l.readNumber(pos)
	}
	if isLetter(l.ch) {
		literal := l.readIdentifier()
		return Token{Type: LookupIdent(literal), Literal: literal, Pos: pos}, nil
	}

	raw := l.input[l.position:l.readPosition]
	return Token{}, errors.NewInvalidToken(raw, pos, "unexpected character %q", raw)
}

// oneOrTwo builds single when the current char is not followed by '=',
// double otherwise.
func (l *Lexer) oneOrTwo(single, double TokenType, pos position.Position) Token {
	ch := l.ch
	if l.peekChar() == '=' {
		l.readChar()
		l.readChar()
		return Token{Type: double, Literal: string(ch) + "=", Pos: pos}
	}
	l.readChar()
	return Token{Type: single, Literal: string(ch), Pos: pos}
}

// readString reads a double quoted literal verbatim; there are no escapes.
func (l *Lexer) readString(pos position.Position) (Token, error) {
	start := l.readPosition
	for {
		l.readChar()
		if l.ch == eof {
			return Token{}, errors.NewUnterminatedLiteral(`"`+l.input[start:], pos)
		}
		if l.ch == '"' {
			break
		}
	}

	literal := l.input[start:l.position]
	l.readChar()
	return Token{Type: TokenString, Literal: literal, Pos: pos}, nil
}

// readNumber reads digits with at most one '.'.
func (l *Lexer) readNumber(pos position.Position) (Token, error) {
	start := l.position
	hasDot := false

	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if hasDot {
				literal := l.input[start : l.position+1]
				return Token{}, errors.NewInvalidToken(literal, pos, "number literal has more than one '.'")
			}
			hasDot = true
		}
		l.readChar()
	}

	tt := TokenInt
	if hasDot {
		tt = TokenFloat
	}
	return Token{Type: tt, Literal: l.input[start:l.position], Pos: pos}, nil
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || unicode.IsDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isLetter(ch rune) bool {
	return ch != eof && unicode.IsLetter(ch)
}

// isDigit checks if character is ASCII digit
func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
