package lexer

import (
	"strings"
	"testing"
)

// helper to tokenize and fail on error
func mustTokenize(t *testing.T, source string) []Token {
	t.Helper()
	tokens, err := Tokenize(source, "test.babu")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	return tokens
}

// helper that strips the trailing EOF for easier assertions
func mustTokenizeNoEOF(t *testing.T, source string) []Token {
	t.Helper()
	tokens := mustTokenize(t, source)
	if len(tokens) == 0 {
		t.Fatal("expected at least one token (EOF)")
	}
	if tokens[len(tokens)-1].Type != TokEOF {
		t.Fatal("last token is not EOF")
	}
	return tokens[:len(tokens)-1]
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

// ---------------------------------------------------------------------------
// Test: empty input produces only EOF
// ---------------------------------------------------------------------------
func TestEmptyInput(t *testing.T) {
	tokens := mustTokenize(t, "")
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token (EOF), got %d", len(tokens))
	}
	if tokens[0].Type != TokEOF {
		t.Errorf("expected TokEOF, got %v", tokens[0].Type)
	}
}

// ---------------------------------------------------------------------------
// Test: keyword phrases
// ---------------------------------------------------------------------------
func TestKeywordPhrases(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
		value    string
	}{
		{"dekho babu", TokPrint, "dekho babu"},
		{"mela babu", TokDeclare, "mela babu"},
		{"bolo shona", TokInput, "bolo shona"},
		{"agar babu", TokIf, "agar babu"},
		{"lekin babu", TokElseIf, "lekin babu"},
		{"magar shona", TokElse, "magar shona"},
		{"chalo babu", TokFor, "chalo babu"},
		{"dekho \t  babu", TokPrint, "dekho babu"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != tt.expected {
				t.Errorf("expected type %d, got %d", tt.expected, tokens[0].Type)
			}
			if tokens[0].Value != tt.value {
				t.Errorf("expected value %q, got %q", tt.value, tokens[0].Value)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: a phrase head without its partner word is an identifier
// ---------------------------------------------------------------------------
func TestPhraseHeadAlone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{"head alone", "dekho", []TokenType{TokIdent}},
		{"wrong partner", "dekho shona", []TokenType{TokIdent, TokIdent}},
		{"partner is prefix", "mela babus", []TokenType{TokIdent, TokIdent}},
		{"no blank", "melababu", []TokenType{TokIdent}},
		{"newline breaks phrase", "agar\nbabu", []TokenType{TokIdent, TokIdent}},
		{"partner alone", "babu", []TokenType{TokIdent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenTypes(mustTokenizeNoEOF(t, tt.input))
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d tokens, got %d (%v)", len(tt.expected), len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: expected %d, got %d", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: single-word keywords vs identifiers
// ---------------------------------------------------------------------------
func TestKeywordVsIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected TokenType
	}{
		{"tak keyword", "tak", TokTak},
		{"taka is ident", "taka", TokIdent},
		{"step keyword", "step", TokStep},
		{"steps is ident", "steps", TokIdent},
		{"and keyword", "and", TokAnd},
		{"andy is ident", "andy", TokIdent},
		{"or keyword", "or", TokOr},
		{"orbit is ident", "orbit", TokIdent},
		{"not keyword", "not", TokNot},
		{"note is ident", "note", TokIdent},
		{"True keyword", "True", TokTrue},
		{"true is ident", "true", TokIdent},
		{"False keyword", "False", TokFalse},
		{"false is ident", "false", TokIdent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != tt.expected {
				t.Errorf("expected type %d for %q, got %d", tt.expected, tt.input, tokens[0].Type)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: integer literals
// ---------------------------------------------------------------------------
func TestIntegerLiterals(t *testing.T) {
	tests := []string{"0", "1", "42", "1234567890", "007"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != TokIntLit {
				t.Errorf("expected TokIntLit, got %d", tokens[0].Type)
			}
			if tokens[0].Value != input {
				t.Errorf("expected value %q, got %q", input, tokens[0].Value)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: string literals and escapes
// ---------------------------------------------------------------------------
func TestStringLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`""`, ""},
		{`"hello"`, "hello"},
		{`"with space"`, "with space"},
		{`"quote \" inside"`, `quote " inside`},
		{`"back\\slash"`, `back\slash`},
		{`"line\nbreak"`, "line\nbreak"},
		{`"tab\there"`, "tab\there"},
		{`"cr\rhere"`, "cr\rhere"},
		{`"উদাহরণ"`, "উদাহরণ"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != TokStringLit {
				t.Errorf("expected TokStringLit, got %d", tokens[0].Type)
			}
			if tokens[0].Value != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tokens[0].Value)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: operators and punctuation
// ---------------------------------------------------------------------------
func TestOperators(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "{ } ( ) = ; + - * / < <= > >= == !=")
	expected := []TokenType{
		TokLBrace, TokRBrace, TokLParen, TokRParen, TokEquals, TokSemicolon,
		TokPlus, TokMinus, TokStar, TokSlash,
		TokLt, TokLtEq, TokGt, TokGtEq, TokEqEq, TokBangEq,
	}
	got := tokenTypes(tokens)
	if len(got) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("token %d: expected %d, got %d", i, expected[i], got[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Test: comments are skipped
// ---------------------------------------------------------------------------
func TestComments(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "# leading comment\ndekho babu 1 # trailing\n# done")
	got := tokenTypes(tokens)
	expected := []TokenType{TokPrint, TokIntLit}
	if len(got) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("token %d: expected %d, got %d", i, expected[i], got[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Test: a complete statement sequence
// ---------------------------------------------------------------------------
func TestForLoopTokens(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "chalo babu i = 0 tak 10 step 2 { dekho babu i }")
	expected := []TokenType{
		TokFor, TokIdent, TokEquals, TokIntLit, TokTak, TokIntLit, TokStep, TokIntLit,
		TokLBrace, TokPrint, TokIdent, TokRBrace,
	}
	got := tokenTypes(tokens)
	if len(got) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("token %d: expected %d, got %d", i, expected[i], got[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Test: spans track line and column
// ---------------------------------------------------------------------------
func TestSpans(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "mela babu x = 1\n  dekho babu x")
	if tokens[0].Span.StartLine != 1 || tokens[0].Span.StartCol != 1 {
		t.Errorf("first token span: got %d:%d", tokens[0].Span.StartLine, tokens[0].Span.StartCol)
	}
	if tokens[0].Span.EndCol != 10 {
		t.Errorf("phrase end col: got %d, want 10", tokens[0].Span.EndCol)
	}
	printTok := tokens[4]
	if printTok.Type != TokPrint {
		t.Fatalf("expected TokPrint at index 4, got %d", printTok.Type)
	}
	if printTok.Span.StartLine != 2 || printTok.Span.StartCol != 3 {
		t.Errorf("print span: got %d:%d, want 2:3", printTok.Span.StartLine, printTok.Span.StartCol)
	}
	if printTok.Span.File != "test.babu" {
		t.Errorf("expected file test.babu, got %q", printTok.Span.File)
	}
}

// ---------------------------------------------------------------------------
// Test: lex errors
// ---------------------------------------------------------------------------
func TestLexErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"unterminated string", `"abc`, "unterminated string literal"},
		{"newline in string", "\"abc\ndef\"", "unterminated string literal"},
		{"bad escape", `"\q"`, "invalid escape character"},
		{"bare bang", "!", "unexpected character '!'"},
		{"dot", "3.14", "unexpected character '.'"},
		{"at sign", "@", "unexpected character '@'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input, "test.babu")
			if err == nil {
				t.Fatal("expected error")
			}
			le, ok := err.(*LexError)
			if !ok {
				t.Fatalf("expected *LexError, got %T", err)
			}
			if le.Diag.Code != "E_LEX" {
				t.Errorf("expected E_LEX, got %s", le.Diag.Code)
			}
			if !strings.Contains(le.Diag.Message, tt.message) {
				t.Errorf("expected message containing %q, got %q", tt.message, le.Diag.Message)
			}
			if le.Diag.Span == nil || le.Diag.Span.StartLine != 1 {
				t.Errorf("expected span on line 1, got %+v", le.Diag.Span)
			}
		})
	}
}

func TestPhraseFor(t *testing.T) {
	tests := map[string]string{
		"dekho": "dekho babu",
		"bolo":  "bolo shona",
		"magar": "magar shona",
		"chalo": "chalo babu",
		"babu":  "",
		"x":     "",
	}
	for word, want := range tests {
		if got := PhraseFor(word); got != want {
			t.Errorf("PhraseFor(%q) = %q, want %q", word, got, want)
		}
	}
}
