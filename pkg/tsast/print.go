package tsast

import (
	"fmt"
	"strconv"
	"strings"
)

// The printer below is a compact, deterministic rendering of the tree used
// by tests and diagnostics. Production rendering belongs to the external
// pretty-printer; nothing in the compiler depends on this output shape.

// Print renders a node to a compact source-like string.
func Print(n Node) string {
	p := &printer{}
	p.node(n)
	return p.sb.String()
}

// PrintStmts renders a statement list, one statement per line.
func PrintStmts(stmts []Stmt) string {
	p := &printer{}
	for i, s := range stmts {
		if i > 0 {
			p.sb.WriteString("\n")
		}
		p.stmt(s)
	}
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) ws(s string) { p.sb.WriteString(s) }

func (p *printer) nl() {
	p.ws("\n")
	p.ws(strings.Repeat("    ", p.indent))
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case Expr:
		p.expr(n)
	case Stmt:
		p.stmt(n)
	case Type:
		p.typ(n)
	case *ClassDecl:
		p.class(n)
	case *Decorator:
		p.decorator(n)
	case *FieldDecl:
		p.field(n)
	case *MethodDecl:
		p.method(n)
	default:
		p.ws(fmt.Sprintf("<%T>", n))
	}
}

func (p *printer) class(c *ClassDecl) {
	if c.Doc != "" {
		p.doc(c.Doc)
	}
	for _, d := range c.Decorators {
		p.decorator(d)
		p.nl()
	}
	p.ws("class " + c.Name)
	if c.Extends != nil {
		p.ws(" extends ")
		p.expr(c.Extends)
	}
	p.ws(" {")
	p.indent++
	for _, m := range c.Members {
		p.nl()
		p.node(m)
	}
	p.indent--
	p.nl()
	p.ws("}")
}

func (p *printer) doc(text string) {
	p.ws("/** " + text + " */")
	p.nl()
}

func (p *printer) decorator(d *Decorator) {
	p.ws("@" + d.Name)
	if len(d.Args) > 0 {
		p.ws("(")
		for i, a := range d.Args {
			if i > 0 {
				p.ws(", ")
			}
			p.expr(a)
		}
		p.ws(")")
	}
}

func (p *printer) field(f *FieldDecl) {
	if f.Doc != "" {
		p.doc(f.Doc)
	}
	for _, d := range f.Decorators {
		p.decorator(d)
		p.nl()
	}
	if f.Readonly {
		p.ws("readonly ")
	}
	p.ws(f.Name)
	if f.Definite {
		p.ws("!")
	}
	if f.Type != nil {
		p.ws(": ")
		p.typ(f.Type)
	}
	if f.Init != nil {
		p.ws(" = ")
		p.expr(f.Init)
	}
	p.ws(";")
}

func (p *printer) method(m *MethodDecl) {
	if m.Doc != "" {
		p.doc(m.Doc)
	}
	for _, d := range m.Decorators {
		p.decorator(d)
		p.nl()
	}
	if m.Async {
		p.ws("async ")
	}
	p.ws(m.Name + "(")
	for i, prm := range m.Params {
		if i > 0 {
			p.ws(", ")
		}
		p.param(prm)
	}
	p.ws(")")
	if m.Return != nil {
		p.ws(": ")
		p.typ(m.Return)
	}
	p.ws(" ")
	p.block(m.Body)
}

func (p *printer) param(prm *Param) {
	if prm.Pattern != nil {
		p.ws("{")
		for i, e := range prm.Pattern.Elems {
			if i > 0 {
				p.ws(", ")
			}
			p.ws(e.Name)
			if e.Default != nil {
				p.ws(" = ")
				p.expr(e.Default)
			}
		}
		p.ws("}")
	} else {
		p.ws(prm.Name)
		if prm.Optional {
			p.ws("?")
		}
	}
	if prm.Type != nil {
		p.ws(": ")
		p.typ(prm.Type)
	}
	if prm.Default != nil && prm.Pattern == nil {
		p.ws(" = ")
		p.expr(prm.Default)
	}
}

func (p *printer) typ(t Type) {
	switch t := t.(type) {
	case *TypeRef:
		p.ws(t.Name)
		if len(t.Args) > 0 {
			p.ws("<")
			for i, a := range t.Args {
				if i > 0 {
					p.ws(", ")
				}
				p.typ(a)
			}
			p.ws(">")
		}
	case *TypeLit:
		p.ws("{")
		for i, f := range t.Fields {
			if i > 0 {
				p.ws(", ")
			}
			p.ws(f.Name)
			if f.Optional {
				p.ws("?")
			}
			p.ws(": ")
			p.typ(f.Type)
		}
		p.ws("}")
	}
}

func (p *printer) block(b *BlockStmt) {
	if b == nil {
		p.ws("{}")
		return
	}
	if len(b.Stmts) == 0 {
		p.ws("{}")
		return
	}
	p.ws("{")
	p.indent++
	for _, s := range b.Stmts {
		p.nl()
		p.stmt(s)
	}
	p.indent--
	p.nl()
	p.ws("}")
}

func (p *printer) comments(s Stmt) {
	for _, c := range s.LeadingComments() {
		if c.Block {
			p.ws("/*" + c.Text + "*/")
		} else {
			p.ws("//" + c.Text)
		}
		p.nl()
	}
}

func (p *printer) stmt(s Stmt) {
	p.comments(s)
	switch s := s.(type) {
	case *VarStmt:
		p.ws(s.Keyword + " ")
		for i, d := range s.Decls {
			if i > 0 {
				p.ws(", ")
			}
			p.ws(d.Name)
			if d.Init != nil {
				p.ws(" = ")
				p.expr(d.Init)
			}
		}
		p.ws(";")
	case *ExprStmt:
		p.expr(s.X)
		p.ws(";")
	case *ReturnStmt:
		p.ws("return")
		if s.Value != nil {
			p.ws(" ")
			p.expr(s.Value)
		}
		p.ws(";")
	case *IfStmt:
		p.ws("if (")
		p.expr(s.Cond)
		p.ws(") ")
		p.stmt(s.Then)
		if s.Else != nil {
			p.ws(" else ")
			p.stmt(s.Else)
		}
	case *WhileStmt:
		p.ws("while (")
		p.expr(s.Cond)
		p.ws(") ")
		p.stmt(s.Body)
	case *ForStmt:
		p.ws("for (")
		if s.Init != nil {
			p.stmt(s.Init)
		} else {
			p.ws(";")
		}
		p.ws(" ")
		if s.Cond != nil {
			p.expr(s.Cond)
		}
		p.ws("; ")
		if s.Post != nil {
			p.expr(s.Post)
		}
		p.ws(") ")
		p.stmt(s.Body)
	case *ForInStmt:
		p.ws("for (")
		if s.Keyword != "" {
			p.ws(s.Keyword + " ")
		}
		p.ws(s.Var)
		if s.Of {
			p.ws(" of ")
		} else {
			p.ws(" in ")
		}
		p.expr(s.Object)
		p.ws(") ")
		p.stmt(s.Body)
	case *BlockStmt:
		p.block(s)
	case *BreakStmt:
		p.ws("break;")
	case *ContinueStmt:
		p.ws("continue;")
	case *ThrowStmt:
		p.ws("throw ")
		p.expr(s.Value)
		p.ws(";")
	case *FuncDeclStmt:
		p.ws("function " + s.Name + "(" + strings.Join(s.Params, ", ") + ") ")
		p.block(s.Body)
	case *EmptyStmt:
		p.ws(";")
	}
}

func (p *printer) expr(e Expr) {
	switch e := e.(type) {
	case *Ident:
		p.ws(e.Name)
	case *This:
		p.ws("this")
	case *BasicLit:
		switch e.Kind {
		case LitString:
			p.ws(strconv.Quote(e.Value))
		case LitUndefined:
			p.ws("undefined")
		default:
			p.ws(e.Value)
		}
	case *ArrayLit:
		p.ws("[")
		for i, el := range e.Elems {
			if i > 0 {
				p.ws(", ")
			}
			p.expr(el)
		}
		p.ws("]")
	case *ObjectLit:
		p.ws("{")
		for i, pr := range e.Props {
			if i > 0 {
				p.ws(", ")
			}
			if pr.Quoted {
				p.ws(strconv.Quote(pr.Key))
			} else {
				p.ws(pr.Key)
			}
			p.ws(": ")
			p.expr(pr.Value)
		}
		p.ws("}")
	case *MemberExpr:
		p.expr(e.Object)
		p.ws("." + e.Name)
	case *IndexExpr:
		p.expr(e.Object)
		p.ws("[")
		p.expr(e.Index)
		p.ws("]")
	case *CallExpr:
		p.expr(e.Callee)
		p.callArgs(e.Args)
	case *NewExpr:
		p.ws("new ")
		p.expr(e.Callee)
		p.callArgs(e.Args)
	case *UnaryExpr:
		p.ws(e.Op)
		if isWordOp(e.Op) {
			p.ws(" ")
		}
		p.expr(e.Operand)
	case *PostfixExpr:
		p.expr(e.Operand)
		p.ws(e.Op)
	case *BinaryExpr:
		p.expr(e.Left)
		p.ws(" " + e.Op + " ")
		p.expr(e.Right)
	case *AssignExpr:
		p.expr(e.Target)
		p.ws(" " + e.Op + " ")
		p.expr(e.Value)
	case *CondExpr:
		p.expr(e.Cond)
		p.ws(" ? ")
		p.expr(e.Then)
		p.ws(" : ")
		p.expr(e.Else)
	case *FuncExpr:
		p.ws("function (" + strings.Join(e.Params, ", ") + ") ")
		p.block(e.Body)
	case *ParenExpr:
		p.ws("(")
		p.expr(e.Inner)
		p.ws(")")
	}
}

func (p *printer) callArgs(args []Expr) {
	p.ws("(")
	for i, a := range args {
		if i > 0 {
			p.ws(", ")
		}
		p.expr(a)
	}
	p.ws(")")
}

func isWordOp(op string) bool {
	return op == "typeof" || op == "delete" || op == "void"
}
