// Package script parses the JavaScript-dialect behavior fragments attached
// to services and subscriptions, and merges them into generated method
// bodies. The parser produces tsast statements so the fragment and the host
// class share one node vocabulary; statements only ever cross into a host
// tree as deep clones.
package script

// TokenType represents the type of a token.
type TokenType string

const (
	IDENT        TokenType = "IDENT"         // identifiers and keywords (var, if, ...)
	NUMBER       TokenType = "NUMBER"        // numeric literals (42, 3.14, 0xFF)
	STRING       TokenType = "STRING"        // single- or double-quoted strings
	OPERATOR     TokenType = "OPERATOR"      // ==, &&, +=, !, ...
	COMMENT      TokenType = "COMMENT"       // // line comment
	BLOCKCOMMENT TokenType = "BLOCK_COMMENT" // /* block comment */

	LBRACE   TokenType = "LBRACE"   // {
	RBRACE   TokenType = "RBRACE"   // }
	LPAREN   TokenType = "LPAREN"   // (
	RPAREN   TokenType = "RPAREN"   // )
	LBRACKET TokenType = "LBRACKET" // [
	RBRACKET TokenType = "RBRACKET" // ]
	SEMI     TokenType = "SEMI"     // ;
	COMMA    TokenType = "COMMA"    // ,
	DOT      TokenType = "DOT"      // .
	COLON    TokenType = "COLON"    // :
	QUESTION TokenType = "QUESTION" // ?

	EOF TokenType = "EOF"
)

// Token represents a single token from the lexer.
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

// IsKeyword reports whether the token is the given reserved word.
func (t Token) IsKeyword(word string) bool {
	return t.Type == IDENT && t.Value == word
}

// IsOp reports whether the token is the given operator.
func (t Token) IsOp(op string) bool {
	return t.Type == OPERATOR && t.Value == op
}
