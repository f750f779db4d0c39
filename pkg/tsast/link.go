package tsast

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *ClassDecl:
		for _, d := range n.Decorators {
			add(d)
		}
		add(n.Extends)
		for _, m := range n.Members {
			add(m)
		}
	case *Decorator:
		for _, a := range n.Args {
			add(a)
		}
	case *FieldDecl:
		for _, d := range n.Decorators {
			add(d)
		}
		add(n.Type)
		add(n.Init)
	case *MethodDecl:
		for _, d := range n.Decorators {
			add(d)
		}
		for _, p := range n.Params {
			add(p)
		}
		add(n.Return)
		if n.Body != nil {
			add(n.Body)
		}
	case *Param:
		if n.Pattern != nil {
			add(n.Pattern)
		}
		add(n.Type)
		add(n.Default)
	case *ObjectPattern:
		for _, e := range n.Elems {
			add(e)
		}
	case *PatternElem:
		add(n.Default)
	case *TypeRef:
		for _, a := range n.Args {
			add(a)
		}
	case *TypeLit:
		for _, f := range n.Fields {
			add(f)
		}
	case *TypeField:
		add(n.Type)

	case *VarStmt:
		for _, d := range n.Decls {
			add(d)
		}
	case *VarBinding:
		add(n.Init)
	case *ExprStmt:
		add(n.X)
	case *ReturnStmt:
		add(n.Value)
	case *IfStmt:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *WhileStmt:
		add(n.Cond)
		add(n.Body)
	case *ForStmt:
		add(n.Init)
		add(n.Cond)
		add(n.Post)
		add(n.Body)
	case *ForInStmt:
		add(n.Object)
		add(n.Body)
	case *BlockStmt:
		for _, s := range n.Stmts {
			add(s)
		}
	case *ThrowStmt:
		add(n.Value)
	case *FuncDeclStmt:
		if n.Body != nil {
			add(n.Body)
		}

	case *ArrayLit:
		for _, e := range n.Elems {
			add(e)
		}
	case *ObjectLit:
		for _, p := range n.Props {
			add(p)
		}
	case *Property:
		add(n.Value)
	case *MemberExpr:
		add(n.Object)
	case *IndexExpr:
		add(n.Object)
		add(n.Index)
	case *CallExpr:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *NewExpr:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *UnaryExpr:
		add(n.Operand)
	case *PostfixExpr:
		add(n.Operand)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *AssignExpr:
		add(n.Target)
		add(n.Value)
	case *CondExpr:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *FuncExpr:
		if n.Body != nil {
			add(n.Body)
		}
	case *ParenExpr:
		add(n.Inner)
	}
	return out
}

// Link walks the tree under root and records each node's parent. Builders
// that assemble trees by hand call this once at the end so that parent
// queries work the same as on parsed trees.
func Link(root Node) {
	for _, c := range Children(root) {
		c.setParent(root)
		Link(c)
	}
}

// Walk calls fn for root and every node beneath it, in depth-first order.
// Walking stops inside a subtree when fn returns false for its root.
func Walk(root Node, fn func(Node) bool) {
	if root == nil || !fn(root) {
		return
	}
	for _, c := range Children(root) {
		Walk(c, fn)
	}
}
