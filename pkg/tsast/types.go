// Package tsast defines the TypeScript-flavored syntax tree produced by the
// entity compiler. The tree is an in-memory value: rendering it to source
// text is the job of an external pretty-printer. Nodes carry source spans and
// parent links, so a node may never be shared between two trees; statements
// cross tree boundaries as deep clones (see CloneStmt).
package tsast

import "strconv"

// Position is a line/column pair inside one parsed source unit.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// IsZero reports whether the position carries no location.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Col == 0
}

// Node is implemented by every syntax-tree node.
type Node interface {
	Pos() Position
	End() Position
	Parent() Node
	setParent(Node)
}

// span is the embedded base of every node: a source range plus a parent link.
type span struct {
	pos, end Position
	parent   Node
}

func (s *span) Pos() Position    { return s.pos }
func (s *span) End() Position    { return s.end }
func (s *span) Parent() Node     { return s.parent }
func (s *span) setParent(p Node) { s.parent = p }

// SetSpan records the source range of a node. Used by the script parser.
func (s *span) SetSpan(pos, end Position) {
	s.pos = pos
	s.end = end
}

// Comment is a comment attached to a statement. A synthetic comment has been
// detached from its original source unit and carries no position, which makes
// it safe to relocate into another tree.
type Comment struct {
	Text      string
	Block     bool
	Pos       Position
	Synthetic bool
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node. Statements carry their leading comments.
type Stmt interface {
	Node
	stmtNode()
	LeadingComments() []Comment
}

// stmtBase adds leading-comment storage to statement nodes.
type stmtBase struct {
	span
	Comments []Comment
}

func (s *stmtBase) LeadingComments() []Comment { return s.Comments }

// === Expressions ===

// Ident is a bare identifier reference.
type Ident struct {
	span
	Name string
}

func (*Ident) exprNode() {}

// This is the implicit-receiver reference of the host class.
type This struct {
	span
}

func (*This) exprNode() {}

// LitKind distinguishes the primitive literal kinds.
type LitKind int

const (
	LitNumber LitKind = iota
	LitString
	LitBool
	LitNull
	LitUndefined
)

// BasicLit is a primitive literal. For strings Value holds the unquoted text.
type BasicLit struct {
	span
	Kind  LitKind
	Value string
}

func (*BasicLit) exprNode() {}

// NewString builds a string literal.
func NewString(v string) *BasicLit { return &BasicLit{Kind: LitString, Value: v} }

// NewNumber builds a numeric literal.
func NewNumber(v float64) *BasicLit {
	return &BasicLit{Kind: LitNumber, Value: strconv.FormatFloat(v, 'f', -1, 64)}
}

// NewBool builds a boolean literal.
func NewBool(v bool) *BasicLit {
	if v {
		return &BasicLit{Kind: LitBool, Value: "true"}
	}
	return &BasicLit{Kind: LitBool, Value: "false"}
}

// NewNull builds a null literal.
func NewNull() *BasicLit { return &BasicLit{Kind: LitNull, Value: "null"} }

// ArrayLit is an array literal.
type ArrayLit struct {
	span
	Elems []Expr
}

func (*ArrayLit) exprNode() {}

// ObjectLit is an object literal with ordered properties.
type ObjectLit struct {
	span
	Props []*Property
}

func (*ObjectLit) exprNode() {}

// Property is one key/value pair of an object literal.
type Property struct {
	span
	Key    string
	Quoted bool
	Value  Expr
}

// MemberExpr is a dotted property access: Object.Name.
type MemberExpr struct {
	span
	Object Expr
	Name   string
}

func (*MemberExpr) exprNode() {}

// IndexExpr is a bracketed element access: Object[Index].
type IndexExpr struct {
	span
	Object Expr
	Index  Expr
}

func (*IndexExpr) exprNode() {}

// CallExpr is a function or method invocation.
type CallExpr struct {
	span
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// NewCall builds a call to a named function with the given arguments.
func NewCall(name string, args ...Expr) *CallExpr {
	return &CallExpr{Callee: &Ident{Name: name}, Args: args}
}

// NewExpr is a constructor invocation: new Callee(Args).
type NewExpr struct {
	span
	Callee Expr
	Args   []Expr
}

func (*NewExpr) exprNode() {}

// UnaryExpr is a prefix operation.
type UnaryExpr struct {
	span
	Op      string
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// PostfixExpr is a postfix increment or decrement.
type PostfixExpr struct {
	span
	Op      string
	Operand Expr
}

func (*PostfixExpr) exprNode() {}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	span
	Left  Expr
	Op    string
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// AssignExpr is an assignment, possibly compound (+=, -=, ...).
type AssignExpr struct {
	span
	Op     string
	Target Expr
	Value  Expr
}

func (*AssignExpr) exprNode() {}

// CondExpr is the ternary conditional.
type CondExpr struct {
	span
	Cond Expr
	Then Expr
	Else Expr
}

func (*CondExpr) exprNode() {}

// FuncExpr is an anonymous function expression.
type FuncExpr struct {
	span
	Params []string
	Body   *BlockStmt
}

func (*FuncExpr) exprNode() {}

// ParenExpr preserves explicit parenthesization from the source fragment.
type ParenExpr struct {
	span
	Inner Expr
}

func (*ParenExpr) exprNode() {}

// === Statements ===

// VarStmt declares one or more variables: var/let/const a = 1, b;
type VarStmt struct {
	stmtBase
	Keyword string
	Decls   []*VarBinding
}

func (*VarStmt) stmtNode() {}

// VarBinding is a single name with an optional initializer.
type VarBinding struct {
	span
	Name string
	Init Expr
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	stmtBase
	X Expr
}

func (*ExprStmt) stmtNode() {}

// ReturnStmt returns from the enclosing function. Value may be nil.
type ReturnStmt struct {
	stmtBase
	Value Expr
}

func (*ReturnStmt) stmtNode() {}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	stmtBase
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) stmtNode() {}

// WhileStmt is a pre-tested loop.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body Stmt
}

func (*WhileStmt) stmtNode() {}

// ForStmt is the classic three-clause loop. Init, Cond and Post may be nil.
type ForStmt struct {
	stmtBase
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

func (*ForStmt) stmtNode() {}

// ForInStmt iterates object keys (for-in) or iterable values (for-of).
type ForInStmt struct {
	stmtBase
	Keyword string // var/let/const, or "" for a bare identifier
	Var     string
	Of      bool
	Object  Expr
	Body    Stmt
}

func (*ForInStmt) stmtNode() {}

// BlockStmt is a braced statement list.
type BlockStmt struct {
	stmtBase
	Stmts []Stmt
}

func (*BlockStmt) stmtNode() {}

// BreakStmt exits the enclosing loop.
type BreakStmt struct {
	stmtBase
}

func (*BreakStmt) stmtNode() {}

// ContinueStmt continues the enclosing loop.
type ContinueStmt struct {
	stmtBase
}

func (*ContinueStmt) stmtNode() {}

// ThrowStmt raises a value.
type ThrowStmt struct {
	stmtBase
	Value Expr
}

func (*ThrowStmt) stmtNode() {}

// FuncDeclStmt is a named function declaration inside a body.
type FuncDeclStmt struct {
	stmtBase
	Name   string
	Params []string
	Body   *BlockStmt
}

func (*FuncDeclStmt) stmtNode() {}

// EmptyStmt is a stray semicolon.
type EmptyStmt struct {
	stmtBase
}

func (*EmptyStmt) stmtNode() {}
