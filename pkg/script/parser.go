package script

import (
	"fmt"

	"github.com/stefan-lacatus/ThingTransformer/pkg/tsast"
)

// Parser converts a token stream into a tsast statement list. It is a plain
// recursive-descent parser with one token of lookahead; comments are lifted
// out of the stream and attached to the next statement.
type Parser struct {
	tokens  []Token
	pos     int
	prev    Token
	pending []tsast.Comment
}

// Parse tokenizes and parses a behavior fragment into a statement list.
// Parent links are established on every returned tree.
func Parse(src string) ([]tsast.Stmt, error) {
	lx := NewLexer(src)
	tokens, err := lx.Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}
	stmts, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	for _, s := range stmts {
		tsast.Link(s)
	}
	return stmts, nil
}

func (p *Parser) parseProgram() ([]tsast.Stmt, error) {
	stmts := []tsast.Stmt{}
	for p.peek().Type != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// peek returns the next significant token, stashing any comments seen on the
// way into the pending list.
func (p *Parser) peek() Token {
	p.skipComments()
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAhead(n int) Token {
	p.skipComments()
	i := p.pos
	seen := 0
	for i < len(p.tokens) {
		if p.tokens[i].Type == COMMENT || p.tokens[i].Type == BLOCKCOMMENT {
			i++
			continue
		}
		if seen == n {
			return p.tokens[i]
		}
		seen++
		i++
	}
	return Token{Type: EOF}
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Type != EOF {
		p.pos++
		p.prev = tok
	}
	return tok
}

func (p *Parser) skipComments() {
	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		if t.Type != COMMENT && t.Type != BLOCKCOMMENT {
			return
		}
		p.pending = append(p.pending, tsast.Comment{
			Text:  t.Value,
			Block: t.Type == BLOCKCOMMENT,
			Pos:   tsast.Position{Line: t.Line, Col: t.Column},
		})
		p.pos++
	}
}

func (p *Parser) takeComments() []tsast.Comment {
	cmts := p.pending
	p.pending = nil
	return cmts
}

func (p *Parser) expect(typ TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != typ {
		return tok, fmt.Errorf("line %d: expected %s, got %s (%q)", tok.Line, typ, tok.Type, tok.Value)
	}
	return p.advance(), nil
}

// expectSemi consumes a statement terminator. Semicolons may be omitted
// before a closing brace, at end of input, or at a line break.
func (p *Parser) expectSemi() error {
	tok := p.peek()
	if tok.Type == SEMI {
		p.advance()
		return nil
	}
	if tok.Type == RBRACE || tok.Type == EOF {
		return nil
	}
	if tok.Line > p.prev.Line {
		return nil
	}
	return fmt.Errorf("line %d: expected ';', got %s (%q)", tok.Line, tok.Type, tok.Value)
}

func spanFrom(tok Token) tsast.Position {
	return tsast.Position{Line: tok.Line, Col: tok.Column}
}

func (p *Parser) parseStatement() (tsast.Stmt, error) {
	start := p.peek()
	cmts := p.takeComments()
	stmt, err := p.parseStatementInner()
	if err != nil {
		return nil, err
	}
	attach(stmt, cmts, spanFrom(start), spanFrom(p.prev))
	return stmt, nil
}

// attach records leading comments and the source span on a parsed statement.
func attach(s tsast.Stmt, cmts []tsast.Comment, pos, end tsast.Position) {
	type spanned interface {
		SetSpan(pos, end tsast.Position)
	}
	if sp, ok := s.(spanned); ok {
		sp.SetSpan(pos, end)
	}
	switch s := s.(type) {
	case *tsast.VarStmt:
		s.Comments = cmts
	case *tsast.ExprStmt:
		s.Comments = cmts
	case *tsast.ReturnStmt:
		s.Comments = cmts
	case *tsast.IfStmt:
		s.Comments = cmts
	case *tsast.WhileStmt:
		s.Comments = cmts
	case *tsast.ForStmt:
		s.Comments = cmts
	case *tsast.ForInStmt:
		s.Comments = cmts
	case *tsast.BlockStmt:
		s.Comments = cmts
	case *tsast.BreakStmt:
		s.Comments = cmts
	case *tsast.ContinueStmt:
		s.Comments = cmts
	case *tsast.ThrowStmt:
		s.Comments = cmts
	case *tsast.FuncDeclStmt:
		s.Comments = cmts
	case *tsast.EmptyStmt:
		s.Comments = cmts
	}
}

func (p *Parser) parseStatementInner() (tsast.Stmt, error) {
	tok := p.peek()

	switch {
	case tok.Type == LBRACE:
		return p.parseBlock()
	case tok.Type == SEMI:
		p.advance()
		return &tsast.EmptyStmt{}, nil
	case tok.IsKeyword("var"), tok.IsKeyword("let"), tok.IsKeyword("const"):
		return p.parseVarStmt(true)
	case tok.IsKeyword("if"):
		return p.parseIf()
	case tok.IsKeyword("while"):
		return p.parseWhile()
	case tok.IsKeyword("for"):
		return p.parseFor()
	case tok.IsKeyword("return"):
		return p.parseReturn()
	case tok.IsKeyword("break"):
		p.advance()
		if err := p.expectSemi(); err != nil {
			return nil, err
		}
		return &tsast.BreakStmt{}, nil
	case tok.IsKeyword("continue"):
		p.advance()
		if err := p.expectSemi(); err != nil {
			return nil, err
		}
		return &tsast.ContinueStmt{}, nil
	case tok.IsKeyword("throw"):
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSemi(); err != nil {
			return nil, err
		}
		return &tsast.ThrowStmt{Value: val}, nil
	case tok.IsKeyword("function") && p.peekAhead(1).Type == IDENT:
		return p.parseFuncDecl()
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectSemi(); err != nil {
		return nil, err
	}
	return &tsast.ExprStmt{X: expr}, nil
}

func (p *Parser) parseBlock() (*tsast.BlockStmt, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	block := &tsast.BlockStmt{}
	for p.peek().Type != RBRACE {
		if p.peek().Type == EOF {
			return nil, fmt.Errorf("line %d: unclosed block", p.prev.Line)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.advance()
	return block, nil
}

// parseVarStmt parses the bindings after var/let/const. When terminated is
// false the caller owns the terminator (a for-loop header).
func (p *Parser) parseVarStmt(terminated bool) (*tsast.VarStmt, error) {
	kw := p.advance()
	stmt := &tsast.VarStmt{Keyword: kw.Value}
	for {
		name, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		binding := &tsast.VarBinding{Name: name.Value}
		if p.peek().IsOp("=") {
			p.advance()
			init, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			binding.Init = init
		}
		stmt.Decls = append(stmt.Decls, binding)
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if terminated {
		if err := p.expectSemi(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseIf() (tsast.Stmt, error) {
	p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &tsast.IfStmt{Cond: cond, Then: then}
	if p.peek().IsKeyword("else") {
		p.advance()
		els, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (tsast.Stmt, error) {
	p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &tsast.WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (tsast.Stmt, error) {
	p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	kw := ""
	tok := p.peek()
	if tok.IsKeyword("var") || tok.IsKeyword("let") || tok.IsKeyword("const") {
		kw = tok.Value
	}

	// for (… in …) and for (… of …)
	if kw != "" && p.peekAhead(2).IsKeyword("in") || kw != "" && p.peekAhead(2).IsKeyword("of") {
		p.advance()
		name, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		return p.parseForInTail(kw, name.Value)
	}
	if kw == "" && tok.Type == IDENT && (p.peekAhead(1).IsKeyword("in") || p.peekAhead(1).IsKeyword("of")) {
		p.advance()
		return p.parseForInTail("", tok.Value)
	}

	stmt := &tsast.ForStmt{}
	if p.peek().Type != SEMI {
		if kw != "" {
			init, err := p.parseVarStmt(false)
			if err != nil {
				return nil, err
			}
			stmt.Init = init
		} else {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			stmt.Init = &tsast.ExprStmt{X: expr}
		}
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}
	if p.peek().Type != SEMI {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}
	if p.peek().Type != RPAREN {
		post, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Post = post
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *Parser) parseForInTail(kw, name string) (tsast.Stmt, error) {
	of := p.peek().IsKeyword("of")
	p.advance() // in / of
	obj, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &tsast.ForInStmt{Keyword: kw, Var: name, Of: of, Object: obj, Body: body}, nil
}

func (p *Parser) parseReturn() (tsast.Stmt, error) {
	ret := p.advance()
	stmt := &tsast.ReturnStmt{}
	tok := p.peek()
	if tok.Type != SEMI && tok.Type != RBRACE && tok.Type != EOF && tok.Line == ret.Line {
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Value = val
	}
	if err := p.expectSemi(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseFuncDecl() (tsast.Stmt, error) {
	p.advance()
	name, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	params, body, err := p.parseFuncRest()
	if err != nil {
		return nil, err
	}
	return &tsast.FuncDeclStmt{Name: name.Value, Params: params, Body: body}, nil
}

func (p *Parser) parseFuncRest() ([]string, *tsast.BlockStmt, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, nil, err
	}
	var params []string
	for p.peek().Type != RPAREN {
		name, err := p.expect(IDENT)
		if err != nil {
			return nil, nil, err
		}
		params = append(params, name.Value)
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, nil, err
	}
	return params, body, nil
}

// === Expressions ===

func (p *Parser) parseExpr() (tsast.Expr, error) {
	return p.parseAssign()
}

var assignOps = map[string]bool{"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true}

func (p *Parser) parseAssign() (tsast.Expr, error) {
	left, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.Type == OPERATOR && assignOps[tok.Value] {
		p.advance()
		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &tsast.AssignExpr{Op: tok.Value, Target: left, Value: value}, nil
	}
	return left, nil
}

func (p *Parser) parseCond() (tsast.Expr, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.peek().Type != QUESTION {
		return cond, nil
	}
	p.advance()
	then, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}
	els, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return &tsast.CondExpr{Cond: cond, Then: then, Else: els}, nil
}

// binaryLevels lists binary operators from loosest to tightest binding.
var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"|"},
	{"^"},
	{"&"},
	{"==", "!=", "===", "!=="},
	{"<", ">", "<=", ">=", "instanceof"},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *Parser) parseBinary(level int) (tsast.Expr, error) {
	if level >= len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if !matchesLevel(tok, binaryLevels[level]) {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &tsast.BinaryExpr{Left: left, Op: tok.Value, Right: right}
	}
}

func matchesLevel(tok Token, ops []string) bool {
	for _, op := range ops {
		if op == "instanceof" {
			if tok.IsKeyword("instanceof") {
				return true
			}
			continue
		}
		if tok.IsOp(op) {
			return true
		}
	}
	return false
}

func (p *Parser) parseUnary() (tsast.Expr, error) {
	tok := p.peek()
	switch {
	case tok.IsOp("!"), tok.IsOp("-"), tok.IsOp("+"), tok.IsOp("~"), tok.IsOp("++"), tok.IsOp("--"):
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &tsast.UnaryExpr{Op: tok.Value, Operand: operand}, nil
	case tok.IsKeyword("typeof"), tok.IsKeyword("delete"), tok.IsKeyword("void"):
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &tsast.UnaryExpr{Op: tok.Value, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (tsast.Expr, error) {
	expr, err := p.parseCallMember()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if (tok.IsOp("++") || tok.IsOp("--")) && tok.Line == p.prev.Line {
		p.advance()
		return &tsast.PostfixExpr{Op: tok.Value, Operand: expr}, nil
	}
	return expr, nil
}

func (p *Parser) parseCallMember() (tsast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case DOT:
			p.advance()
			name, err := p.expect(IDENT)
			if err != nil {
				return nil, err
			}
			expr = &tsast.MemberExpr{Object: expr, Name: name.Value}
		case LBRACKET:
			p.advance()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}
			expr = &tsast.IndexExpr{Object: expr, Index: index}
		case LPAREN:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &tsast.CallExpr{Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]tsast.Expr, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var args []tsast.Expr
	for p.peek().Type != RPAREN {
		arg, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (tsast.Expr, error) {
	tok := p.peek()

	switch tok.Type {
	case NUMBER:
		p.advance()
		return &tsast.BasicLit{Kind: tsast.LitNumber, Value: tok.Value}, nil
	case STRING:
		p.advance()
		return &tsast.BasicLit{Kind: tsast.LitString, Value: tok.Value}, nil
	case LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return &tsast.ParenExpr{Inner: inner}, nil
	case LBRACKET:
		return p.parseArrayLit()
	case LBRACE:
		return p.parseObjectLit()
	case IDENT:
		switch tok.Value {
		case "true", "false":
			p.advance()
			return &tsast.BasicLit{Kind: tsast.LitBool, Value: tok.Value}, nil
		case "null":
			p.advance()
			return &tsast.BasicLit{Kind: tsast.LitNull, Value: "null"}, nil
		case "undefined":
			p.advance()
			return &tsast.BasicLit{Kind: tsast.LitUndefined, Value: "undefined"}, nil
		case "this":
			p.advance()
			return &tsast.This{}, nil
		case "function":
			p.advance()
			if p.peek().Type == IDENT {
				p.advance() // named function expressions keep only their body
			}
			params, body, err := p.parseFuncRest()
			if err != nil {
				return nil, err
			}
			return &tsast.FuncExpr{Params: params, Body: body}, nil
		case "new":
			p.advance()
			callee, err := p.parseCallMember()
			if err != nil {
				return nil, err
			}
			if call, ok := callee.(*tsast.CallExpr); ok {
				return &tsast.NewExpr{Callee: call.Callee, Args: call.Args}, nil
			}
			return &tsast.NewExpr{Callee: callee}, nil
		}
		p.advance()
		return &tsast.Ident{Name: tok.Value}, nil
	}
	return nil, fmt.Errorf("line %d: unexpected token %s (%q)", tok.Line, tok.Type, tok.Value)
}

func (p *Parser) parseArrayLit() (tsast.Expr, error) {
	p.advance()
	arr := &tsast.ArrayLit{}
	for p.peek().Type != RBRACKET {
		elem, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, elem)
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RBRACKET); err != nil {
		return nil, err
	}
	return arr, nil
}

func (p *Parser) parseObjectLit() (tsast.Expr, error) {
	p.advance()
	obj := &tsast.ObjectLit{}
	for p.peek().Type != RBRACE {
		key := p.peek()
		quoted := false
		switch key.Type {
		case IDENT, NUMBER:
			p.advance()
		case STRING:
			quoted = true
			p.advance()
		default:
			return nil, fmt.Errorf("line %d: expected object key, got %s (%q)", key.Line, key.Type, key.Value)
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		obj.Props = append(obj.Props, &tsast.Property{Key: key.Value, Quoted: quoted, Value: value})
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return obj, nil
}
