// Package lexer implements the babu language tokenizer.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/babushona/babu/pkg/ast"
	"github.com/babushona/babu/pkg/diagnostics"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Keyword phrases
	TokPrint TokenType = iota // dekho babu
	TokDeclare                // mela babu
	TokInput                  // bolo shona
	TokIf                     // agar babu
	TokElseIf                 // lekin babu
	TokElse                   // magar shona
	TokFor                    // chalo babu

	// Keywords
	TokTak
	TokStep
	TokAnd
	TokOr
	TokNot
	TokTrue
	TokFalse

	// Literals
	TokIntLit
	TokStringLit

	// Identifiers
	TokIdent

	// Punctuation
	TokLBrace    // {
	TokRBrace    // }
	TokLParen    // (
	TokRParen    // )
	TokEquals    // =
	TokSemicolon // ;

	// Comparison operators
	TokGtEq   // >=
	TokLtEq   // <=
	TokEqEq   // ==
	TokBangEq // !=
	TokGt     // >
	TokLt     // <

	// Arithmetic operators
	TokPlus  // +
	TokMinus // -
	TokStar  // *
	TokSlash // /

	// Special
	TokEOF
)

// Token represents a single lexer token.
type Token struct {
	Type  TokenType
	Value string
	Span  ast.Span
}

var keywords = map[string]TokenType{
	"tak":   TokTak,
	"step":  TokStep,
	"and":   TokAnd,
	"or":    TokOr,
	"not":   TokNot,
	"True":  TokTrue,
	"False": TokFalse,
}

type phrase struct {
	second string
	tok    TokenType
}

// phrases maps the first word of a two-word keyword to its partner.
var phrases = map[string]phrase{
	"dekho": {second: "babu", tok: TokPrint},
	"mela":  {second: "babu", tok: TokDeclare},
	"bolo":  {second: "shona", tok: TokInput},
	"agar":  {second: "babu", tok: TokIf},
	"lekin": {second: "babu", tok: TokElseIf},
	"magar": {second: "shona", tok: TokElse},
	"chalo": {second: "babu", tok: TokFor},
}

// PhraseFor returns the full keyword phrase that word begins, or "" if none.
func PhraseFor(word string) string {
	p, ok := phrases[word]
	if !ok {
		return ""
	}
	return word + " " + p.second
}

type scanner struct {
	source   string
	filename string
	pos      int
	line     int
	col      int
}

func newScanner(source, filename string) *scanner {
	return &scanner{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	p := s.pos + offset
	if p >= len(s.source) {
		return 0
	}
	return s.source[p]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *scanner) span(startLine, startCol int) ast.Span {
	return ast.Span{
		File:      s.filename,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   s.line,
		EndCol:    s.col,
	}
}

func (s *scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		ch := s.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			s.advance()
		} else if ch == '#' {
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		} else {
			break
		}
	}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func (s *scanner) scanString() (Token, error) {
	startLine, startCol := s.line, s.col
	s.advance() // consume opening "

	var buf strings.Builder
	for !s.atEnd() {
		ch := s.peek()
		if ch == '"' {
			s.advance() // consume closing "
			return Token{
				Type:  TokStringLit,
				Value: buf.String(),
				Span:  s.span(startLine, startCol),
			}, nil
		}
		if ch == '\\' {
			s.advance() // consume backslash
			if s.atEnd() {
				return Token{}, s.lexError(startLine, startCol, "unterminated string escape")
			}
			esc := s.advance()
			switch esc {
			case '"':
				buf.WriteByte('"')
			case '\\':
				buf.WriteByte('\\')
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			default:
				return Token{}, s.lexError(startLine, startCol, fmt.Sprintf("invalid escape character: \\%c", esc))
			}
		} else if ch == '\n' {
			return Token{}, s.lexError(startLine, startCol, "unterminated string literal")
		} else {
			r, size := utf8.DecodeRuneInString(s.source[s.pos:])
			if r == utf8.RuneError && size == 1 {
				return Token{}, s.lexError(startLine, startCol, "invalid UTF-8 character in string")
			}
			buf.WriteRune(r)
			for i := 0; i < size; i++ {
				s.advance()
			}
		}
	}
	return Token{}, s.lexError(startLine, startCol, "unterminated string literal")
}

func (s *scanner) scanNumber() Token {
	startLine, startCol := s.line, s.col
	startPos := s.pos

	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}

	return Token{
		Type:  TokIntLit,
		Value: s.source[startPos:s.pos],
		Span:  s.span(startLine, startCol),
	}
}

// matchPhraseTail reports how many bytes after the current position make up
// the blank run and partner word of a keyword phrase, or 0 if there is none.
func (s *scanner) matchPhraseTail(second string) int {
	i := 0
	for s.peekAt(i) == ' ' || s.peekAt(i) == '\t' {
		i++
	}
	if i == 0 {
		return 0
	}
	end := s.pos + i + len(second)
	if end > len(s.source) || s.source[s.pos+i:end] != second {
		return 0
	}
	if end < len(s.source) && isAlphaNumeric(s.source[end]) {
		return 0
	}
	return i + len(second)
}

func (s *scanner) scanIdentOrKeyword() Token {
	startLine, startCol := s.line, s.col
	startPos := s.pos

	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[startPos:s.pos]

	if ph, ok := phrases[text]; ok {
		if n := s.matchPhraseTail(ph.second); n > 0 {
			for i := 0; i < n; i++ {
				s.advance()
			}
			return Token{
				Type:  ph.tok,
				Value: text + " " + ph.second,
				Span:  s.span(startLine, startCol),
			}
		}
	}

	if tokType, ok := keywords[text]; ok {
		return Token{
			Type:  tokType,
			Value: text,
			Span:  s.span(startLine, startCol),
		}
	}

	return Token{
		Type:  TokIdent,
		Value: text,
		Span:  s.span(startLine, startCol),
	}
}

func (s *scanner) lexError(line, col int, msg string) error {
	diag := diagnostics.MakeDiag(
		diagnostics.ELex,
		msg,
		&ast.Span{File: s.filename, StartLine: line, StartCol: col, EndLine: line, EndCol: col + 1},
		"",
	)
	return &LexError{Diag: diag}
}

// LexError wraps a diagnostic for lex errors.
type LexError struct {
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

func (s *scanner) single(typ TokenType, value string, startLine, startCol int) (Token, error) {
	s.advance()
	return Token{Type: typ, Value: value, Span: s.span(startLine, startCol)}, nil
}

func (s *scanner) nextToken() (Token, error) {
	s.skipWhitespaceAndComments()

	if s.atEnd() {
		return Token{
			Type:  TokEOF,
			Value: "",
			Span:  s.span(s.line, s.col),
		}, nil
	}

	ch := s.peek()
	startLine, startCol := s.line, s.col

	// Single-char tokens
	switch ch {
	case '{':
		return s.single(TokLBrace, "{", startLine, startCol)
	case '}':
		return s.single(TokRBrace, "}", startLine, startCol)
	case '(':
		return s.single(TokLParen, "(", startLine, startCol)
	case ')':
		return s.single(TokRParen, ")", startLine, startCol)
	case ';':
		return s.single(TokSemicolon, ";", startLine, startCol)
	case '+':
		return s.single(TokPlus, "+", startLine, startCol)
	case '-':
		return s.single(TokMinus, "-", startLine, startCol)
	case '*':
		return s.single(TokStar, "*", startLine, startCol)
	case '/':
		return s.single(TokSlash, "/", startLine, startCol)
	}

	// Multi-char tokens
	switch ch {
	case '=':
		s.advance()
		if !s.atEnd() && s.peek() == '=' {
			s.advance()
			return Token{Type: TokEqEq, Value: "==", Span: s.span(startLine, startCol)}, nil
		}
		return Token{Type: TokEquals, Value: "=", Span: s.span(startLine, startCol)}, nil

	case '!':
		s.advance()
		if !s.atEnd() && s.peek() == '=' {
			s.advance()
			return Token{Type: TokBangEq, Value: "!=", Span: s.span(startLine, startCol)}, nil
		}
		return Token{}, s.lexError(startLine, startCol, "unexpected character '!'")

	case '>':
		s.advance()
		if !s.atEnd() && s.peek() == '=' {
			s.advance()
			return Token{Type: TokGtEq, Value: ">=", Span: s.span(startLine, startCol)}, nil
		}
		return Token{Type: TokGt, Value: ">", Span: s.span(startLine, startCol)}, nil

	case '<':
		s.advance()
		if !s.atEnd() && s.peek() == '=' {
			s.advance()
			return Token{Type: TokLtEq, Value: "<=", Span: s.span(startLine, startCol)}, nil
		}
		return Token{Type: TokLt, Value: "<", Span: s.span(startLine, startCol)}, nil
	}

	if isDigit(ch) {
		return s.scanNumber(), nil
	}

	if ch == '"' {
		return s.scanString()
	}

	if isAlpha(ch) {
		return s.scanIdentOrKeyword(), nil
	}

	r, size := utf8.DecodeRuneInString(s.source[s.pos:])
	for i := 0; i < size; i++ {
		s.advance()
	}
	return Token{}, s.lexError(startLine, startCol, fmt.Sprintf("unexpected character '%c'", r))
}

// Tokenize breaks source code into a slice of tokens.
func Tokenize(source, filename string) ([]Token, error) {
	s := newScanner(source, filename)
	var tokens []Token

	for {
		tok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokEOF {
			break
		}
	}

	return tokens, nil
}
