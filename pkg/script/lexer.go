package script

import "fmt"

// Lexer tokenizes a behavior fragment. It processes the input character by
// character, tracking line and column for error reporting and for comment
// attachment in the parser.
type Lexer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
}

// NewLexer creates a Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 0}
}

// Tokenize processes the entire input and returns all tokens, terminated by
// an EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line, Column: l.col})
	return l.tokens, nil
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) advance() byte {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) addToken(typ TokenType, value string, line, col int) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Line: line, Column: col})
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func (l *Lexer) scanToken() error {
	line, col := l.line, l.col
	ch := l.peek()

	switch {
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
		l.advance()
		return nil

	case ch == '/' && l.peekNext() == '/':
		return l.scanLineComment(line, col)

	case ch == '/' && l.peekNext() == '*':
		return l.scanBlockComment(line, col)

	case ch == '\'' || ch == '"':
		return l.scanString(line, col)

	case isDigit(ch):
		return l.scanNumber(line, col)

	case isAlpha(ch):
		start := l.pos
		for !l.isAtEnd() && isAlphaNumeric(l.peek()) {
			l.advance()
		}
		l.addToken(IDENT, l.input[start:l.pos], line, col)
		return nil
	}

	switch ch {
	case '{':
		l.advance()
		l.addToken(LBRACE, "{", line, col)
	case '}':
		l.advance()
		l.addToken(RBRACE, "}", line, col)
	case '(':
		l.advance()
		l.addToken(LPAREN, "(", line, col)
	case ')':
		l.advance()
		l.addToken(RPAREN, ")", line, col)
	case '[':
		l.advance()
		l.addToken(LBRACKET, "[", line, col)
	case ']':
		l.advance()
		l.addToken(RBRACKET, "]", line, col)
	case ';':
		l.advance()
		l.addToken(SEMI, ";", line, col)
	case ',':
		l.advance()
		l.addToken(COMMA, ",", line, col)
	case ':':
		l.advance()
		l.addToken(COLON, ":", line, col)
	case '?':
		l.advance()
		l.addToken(QUESTION, "?", line, col)
	case '.':
		// A leading dot on a digit is a fractional number.
		if isDigit(l.peekNext()) {
			return l.scanNumber(line, col)
		}
		l.advance()
		l.addToken(DOT, ".", line, col)
	default:
		return l.scanOperator(line, col)
	}
	return nil
}

func (l *Lexer) scanLineComment(line, col int) error {
	l.advance()
	l.advance()
	start := l.pos
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
	l.addToken(COMMENT, l.input[start:l.pos], line, col)
	return nil
}

func (l *Lexer) scanBlockComment(line, col int) error {
	l.advance()
	l.advance()
	start := l.pos
	for {
		if l.isAtEnd() {
			return fmt.Errorf("line %d: unterminated block comment", line)
		}
		if l.peek() == '*' && l.peekNext() == '/' {
			break
		}
		l.advance()
	}
	text := l.input[start:l.pos]
	l.advance()
	l.advance()
	l.addToken(BLOCKCOMMENT, text, line, col)
	return nil
}

func (l *Lexer) scanString(line, col int) error {
	quote := l.advance()
	var out []byte
	for {
		if l.isAtEnd() {
			return fmt.Errorf("line %d: unterminated string literal", line)
		}
		ch := l.advance()
		if ch == quote {
			break
		}
		if ch == '\\' {
			if l.isAtEnd() {
				return fmt.Errorf("line %d: unterminated string literal", line)
			}
			esc := l.advance()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\', '\'', '"':
				out = append(out, esc)
			default:
				out = append(out, '\\', esc)
			}
			continue
		}
		if ch == '\n' {
			return fmt.Errorf("line %d: newline in string literal", line)
		}
		out = append(out, ch)
	}
	l.addToken(STRING, string(out), line, col)
	return nil
}

func (l *Lexer) scanNumber(line, col int) error {
	start := l.pos
	if l.peek() == '0' && (l.peekNext() == 'x' || l.peekNext() == 'X') {
		l.advance()
		l.advance()
		for !l.isAtEnd() && isHexDigit(l.peek()) {
			l.advance()
		}
		l.addToken(NUMBER, l.input[start:l.pos], line, col)
		return nil
	}
	for !l.isAtEnd() && isDigit(l.peek()) {
		l.advance()
	}
	if !l.isAtEnd() && l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for !l.isAtEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}
	if !l.isAtEnd() && (l.peek() == 'e' || l.peek() == 'E') {
		save := l.pos
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if isDigit(l.peek()) {
			for !l.isAtEnd() && isDigit(l.peek()) {
				l.advance()
			}
		} else {
			l.pos = save
		}
	}
	l.addToken(NUMBER, l.input[start:l.pos], line, col)
	return nil
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// operators is ordered longest first so maximal munch applies.
var operators = []string{
	"===", "!==",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=",
	"+", "-", "*", "/", "%", "<", ">", "=", "!", "&", "|", "^", "~",
}

func (l *Lexer) scanOperator(line, col int) error {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if len(rest) >= len(op) && rest[:len(op)] == op {
			for range op {
				l.advance()
			}
			l.addToken(OPERATOR, op, line, col)
			return nil
		}
	}
	return fmt.Errorf("line %d, col %d: unexpected character %q", line, col, string(l.peek()))
}
