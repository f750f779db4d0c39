package tsast

// ClassDecl is the root of a compiled entity: one decorated class.
type ClassDecl struct {
	span
	Name       string
	Doc        string // class-level documentation comment, "" for none
	Decorators []*Decorator
	Extends    Expr // nil, an *Ident, or a mixin call such as ThingTemplateWithShapes(...)
	Members    []Member
}

// Decorator is a structural annotation: @Name or @Name(Args...).
type Decorator struct {
	span
	Name string
	Args []Expr
}

// NewDecorator builds a decorator with the given arguments.
func NewDecorator(name string, args ...Expr) *Decorator {
	return &Decorator{Name: name, Args: args}
}

// Member is a class member: a field or a method.
type Member interface {
	Node
	MemberName() string
	memberNode()
}

// FieldDecl is an annotated field declaration.
type FieldDecl struct {
	span
	Name       string
	Doc        string
	Decorators []*Decorator
	Readonly   bool
	Definite   bool // the "!" definitely-assigned-without-initializer marker
	Type       Type
	Init       Expr
}

func (f *FieldDecl) MemberName() string { return f.Name }
func (*FieldDecl) memberNode()          {}

// MethodDecl is an annotated method declaration.
type MethodDecl struct {
	span
	Name       string
	Doc        string
	Decorators []*Decorator
	Async      bool
	Params     []*Param
	Return     Type
	Body       *BlockStmt
}

func (m *MethodDecl) MemberName() string { return m.Name }
func (*MethodDecl) memberNode()          {}

// Param is one method parameter. A destructured parameter uses Pattern
// instead of Name.
type Param struct {
	span
	Name     string
	Optional bool
	Type     Type
	Default  Expr
	Pattern  *ObjectPattern
}

// ObjectPattern is a destructuring parameter pattern: {a = 1, b}.
type ObjectPattern struct {
	span
	Elems []*PatternElem
}

// PatternElem is one destructured name with an optional default.
type PatternElem struct {
	span
	Name    string
	Default Expr
}

// Type is a type annotation node.
type Type interface {
	Node
	typeNode()
}

// TypeRef is a named type reference with optional generic arguments.
type TypeRef struct {
	span
	Name string
	Args []Type
}

func (*TypeRef) typeNode() {}

// NewTypeRef builds a type reference.
func NewTypeRef(name string, args ...Type) *TypeRef {
	return &TypeRef{Name: name, Args: args}
}

// TypeLit is an inline object type: {a?: NUMBER, b: STRING}.
type TypeLit struct {
	span
	Fields []*TypeField
}

func (*TypeLit) typeNode() {}

// TypeField is one member of an inline object type.
type TypeField struct {
	span
	Name     string
	Optional bool
	Type     Type
}
