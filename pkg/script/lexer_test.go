package script

import (
	"strings"
	"testing"
)

// TestTokenize_BasicTokens tests tokenization of punctuation and operators.
func TestTokenize_BasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "empty input",
			input: "",
			expected: []Token{
				{Type: EOF, Line: 1, Column: 0},
			},
		},
		{
			name:  "braces",
			input: "{}",
			expected: []Token{
				{Type: LBRACE, Value: "{", Line: 1, Column: 0},
				{Type: RBRACE, Value: "}", Line: 1, Column: 1},
				{Type: EOF, Line: 1, Column: 2},
			},
		},
		{
			name:  "strict equality has priority over assignment",
			input: "a === b",
			expected: []Token{
				{Type: IDENT, Value: "a", Line: 1, Column: 0},
				{Type: OPERATOR, Value: "===", Line: 1, Column: 2},
				{Type: IDENT, Value: "b", Line: 1, Column: 6},
				{Type: EOF, Line: 1, Column: 7},
			},
		},
		{
			name:  "increment is one token",
			input: "i++",
			expected: []Token{
				{Type: IDENT, Value: "i", Line: 1, Column: 0},
				{Type: OPERATOR, Value: "++", Line: 1, Column: 1},
				{Type: EOF, Line: 1, Column: 3},
			},
		},
		{
			name:  "member access",
			input: "me.temperature",
			expected: []Token{
				{Type: IDENT, Value: "me", Line: 1, Column: 0},
				{Type: DOT, Value: ".", Line: 1, Column: 2},
				{Type: IDENT, Value: "temperature", Line: 1, Column: 3},
				{Type: EOF, Line: 1, Column: 14},
			},
		},
		{
			name:  "ternary punctuation",
			input: "a ? b : c",
			expected: []Token{
				{Type: IDENT, Value: "a", Line: 1, Column: 0},
				{Type: QUESTION, Value: "?", Line: 1, Column: 2},
				{Type: IDENT, Value: "b", Line: 1, Column: 4},
				{Type: COLON, Value: ":", Line: 1, Column: 6},
				{Type: IDENT, Value: "c", Line: 1, Column: 8},
				{Type: EOF, Line: 1, Column: 9},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer(tt.input).Tokenize()
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			compareTokens(t, tokens, tt.expected)
		})
	}
}

// TestTokenize_Literals tests string and number scanning.
func TestTokenize_Literals(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantType  TokenType
		wantValue string
	}{
		{name: "integer", input: "42", wantType: NUMBER, wantValue: "42"},
		{name: "float", input: "3.14", wantType: NUMBER, wantValue: "3.14"},
		{name: "leading dot float", input: ".5", wantType: NUMBER, wantValue: ".5"},
		{name: "hex", input: "0xFF", wantType: NUMBER, wantValue: "0xFF"},
		{name: "exponent", input: "1e10", wantType: NUMBER, wantValue: "1e10"},
		{name: "signed exponent", input: "2.5e-3", wantType: NUMBER, wantValue: "2.5e-3"},
		{name: "double quoted string", input: `"hello"`, wantType: STRING, wantValue: "hello"},
		{name: "single quoted string", input: "'hello'", wantType: STRING, wantValue: "hello"},
		{name: "escaped newline", input: `"a\nb"`, wantType: STRING, wantValue: "a\nb"},
		{name: "escaped quote", input: `"say \"hi\""`, wantType: STRING, wantValue: `say "hi"`},
		{name: "escaped backslash", input: `"a\\b"`, wantType: STRING, wantValue: `a\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer(tt.input).Tokenize()
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if len(tokens) != 2 {
				t.Fatalf("got %d tokens, want 2 (literal + EOF)", len(tokens))
			}
			if tokens[0].Type != tt.wantType {
				t.Errorf("type = %s, want %s", tokens[0].Type, tt.wantType)
			}
			if tokens[0].Value != tt.wantValue {
				t.Errorf("value = %q, want %q", tokens[0].Value, tt.wantValue)
			}
		})
	}
}

// TestTokenize_Comments tests that both comment forms are tokenized with
// their text and that line tracking survives them.
func TestTokenize_Comments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "line comment",
			input: "// increment counter\nx",
			expected: []Token{
				{Type: COMMENT, Value: " increment counter", Line: 1, Column: 0},
				{Type: IDENT, Value: "x", Line: 2, Column: 0},
				{Type: EOF, Line: 2, Column: 1},
			},
		},
		{
			name:  "block comment",
			input: "/* reset */ x",
			expected: []Token{
				{Type: BLOCKCOMMENT, Value: " reset ", Line: 1, Column: 0},
				{Type: IDENT, Value: "x", Line: 1, Column: 12},
				{Type: EOF, Line: 1, Column: 13},
			},
		},
		{
			name:  "division is not a comment",
			input: "a / b",
			expected: []Token{
				{Type: IDENT, Value: "a", Line: 1, Column: 0},
				{Type: OPERATOR, Value: "/", Line: 1, Column: 2},
				{Type: IDENT, Value: "b", Line: 1, Column: 4},
				{Type: EOF, Line: 1, Column: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer(tt.input).Tokenize()
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			compareTokens(t, tokens, tt.expected)
		})
	}
}

// TestTokenize_Errors tests inputs that must fail with a line number.
func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "unterminated string", input: `"abc`, wantMsg: "unterminated string"},
		{name: "newline in string", input: "\"a\nb\"", wantMsg: "newline in string"},
		{name: "unterminated block comment", input: "/* abc", wantMsg: "unterminated block comment"},
		{name: "unexpected character", input: "a # b", wantMsg: "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer(tt.input).Tokenize()
			if err == nil {
				t.Fatal("Tokenize() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
			if !strings.Contains(err.Error(), "line ") {
				t.Errorf("error = %q, want a line number", err)
			}
		})
	}
}

func compareTokens(t *testing.T, got, want []Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
