package tsast

// Deep cloning is how statements cross a tree boundary. Two independently
// parsed trees must never share node identity: parent links and source spans
// are meaningful only inside the tree that produced them. A clone therefore
// has a zero span, no parent, and its comments converted to synthetic
// (position-free) form so they survive relocation.

// CloneStmt returns a deep copy of a statement, detached from its tree.
func CloneStmt(s Stmt) Stmt {
	if s == nil {
		return nil
	}
	switch s := s.(type) {
	case *VarStmt:
		out := &VarStmt{Keyword: s.Keyword}
		out.Comments = cloneComments(s.Comments)
		for _, d := range s.Decls {
			out.Decls = append(out.Decls, &VarBinding{Name: d.Name, Init: CloneExpr(d.Init)})
		}
		return out
	case *ExprStmt:
		out := &ExprStmt{X: CloneExpr(s.X)}
		out.Comments = cloneComments(s.Comments)
		return out
	case *ReturnStmt:
		out := &ReturnStmt{Value: CloneExpr(s.Value)}
		out.Comments = cloneComments(s.Comments)
		return out
	case *IfStmt:
		out := &IfStmt{Cond: CloneExpr(s.Cond), Then: CloneStmt(s.Then), Else: CloneStmt(s.Else)}
		out.Comments = cloneComments(s.Comments)
		return out
	case *WhileStmt:
		out := &WhileStmt{Cond: CloneExpr(s.Cond), Body: CloneStmt(s.Body)}
		out.Comments = cloneComments(s.Comments)
		return out
	case *ForStmt:
		out := &ForStmt{Init: CloneStmt(s.Init), Cond: CloneExpr(s.Cond), Post: CloneExpr(s.Post), Body: CloneStmt(s.Body)}
		out.Comments = cloneComments(s.Comments)
		return out
	case *ForInStmt:
		out := &ForInStmt{Keyword: s.Keyword, Var: s.Var, Of: s.Of, Object: CloneExpr(s.Object), Body: CloneStmt(s.Body)}
		out.Comments = cloneComments(s.Comments)
		return out
	case *BlockStmt:
		return cloneBlock(s)
	case *BreakStmt:
		out := &BreakStmt{}
		out.Comments = cloneComments(s.Comments)
		return out
	case *ContinueStmt:
		out := &ContinueStmt{}
		out.Comments = cloneComments(s.Comments)
		return out
	case *ThrowStmt:
		out := &ThrowStmt{Value: CloneExpr(s.Value)}
		out.Comments = cloneComments(s.Comments)
		return out
	case *FuncDeclStmt:
		out := &FuncDeclStmt{Name: s.Name, Params: append([]string(nil), s.Params...), Body: cloneBlock(s.Body)}
		out.Comments = cloneComments(s.Comments)
		return out
	case *EmptyStmt:
		out := &EmptyStmt{}
		out.Comments = cloneComments(s.Comments)
		return out
	}
	return nil
}

func cloneBlock(b *BlockStmt) *BlockStmt {
	if b == nil {
		return nil
	}
	out := &BlockStmt{}
	out.Comments = cloneComments(b.Comments)
	for _, st := range b.Stmts {
		out.Stmts = append(out.Stmts, CloneStmt(st))
	}
	return out
}

// CloneExpr returns a deep copy of an expression, detached from its tree.
func CloneExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *Ident:
		return &Ident{Name: e.Name}
	case *This:
		return &This{}
	case *BasicLit:
		return &BasicLit{Kind: e.Kind, Value: e.Value}
	case *ArrayLit:
		out := &ArrayLit{}
		for _, el := range e.Elems {
			out.Elems = append(out.Elems, CloneExpr(el))
		}
		return out
	case *ObjectLit:
		out := &ObjectLit{}
		for _, p := range e.Props {
			out.Props = append(out.Props, &Property{Key: p.Key, Quoted: p.Quoted, Value: CloneExpr(p.Value)})
		}
		return out
	case *MemberExpr:
		return &MemberExpr{Object: CloneExpr(e.Object), Name: e.Name}
	case *IndexExpr:
		return &IndexExpr{Object: CloneExpr(e.Object), Index: CloneExpr(e.Index)}
	case *CallExpr:
		return &CallExpr{Callee: CloneExpr(e.Callee), Args: cloneExprs(e.Args)}
	case *NewExpr:
		return &NewExpr{Callee: CloneExpr(e.Callee), Args: cloneExprs(e.Args)}
	case *UnaryExpr:
		return &UnaryExpr{Op: e.Op, Operand: CloneExpr(e.Operand)}
	case *PostfixExpr:
		return &PostfixExpr{Op: e.Op, Operand: CloneExpr(e.Operand)}
	case *BinaryExpr:
		return &BinaryExpr{Left: CloneExpr(e.Left), Op: e.Op, Right: CloneExpr(e.Right)}
	case *AssignExpr:
		return &AssignExpr{Op: e.Op, Target: CloneExpr(e.Target), Value: CloneExpr(e.Value)}
	case *CondExpr:
		return &CondExpr{Cond: CloneExpr(e.Cond), Then: CloneExpr(e.Then), Else: CloneExpr(e.Else)}
	case *FuncExpr:
		return &FuncExpr{Params: append([]string(nil), e.Params...), Body: cloneBlock(e.Body)}
	case *ParenExpr:
		return &ParenExpr{Inner: CloneExpr(e.Inner)}
	}
	return nil
}

func cloneExprs(in []Expr) []Expr {
	var out []Expr
	for _, e := range in {
		out = append(out, CloneExpr(e))
	}
	return out
}

func cloneComments(in []Comment) []Comment {
	var out []Comment
	for _, c := range in {
		out = append(out, Comment{Text: c.Text, Block: c.Block, Synthetic: true})
	}
	return out
}
