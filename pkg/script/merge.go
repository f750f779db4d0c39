package script

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/stefan-lacatus/ThingTransformer/pkg/tsast"
)

// SelfReference is the reserved identifier a behavior fragment uses to refer
// to the entity instance it runs on. Member and index accesses through it are
// rewritten onto the host method's implicit receiver.
const SelfReference = "me"

// ErrParse reports a behavior fragment that could not be parsed. The error
// aborts compilation of the whole entity.
var ErrParse = errors.New("script parse error")

// Platform exports wrap service bodies in an immediately-invoked function
// whose result lands in an implicit "result" variable. Two closing variants
// exist; the .call(me) form means the function was bound to the entity as an
// external receiver.
var (
	wrapperOpen   = regexp.MustCompile(`^var\s+result\s*=\s*\(\s*function\s*\(\s*\)\s*\{`)
	wrapperClose  = regexp.MustCompile(`\}\s*\)\s*\(\s*\)\s*;?\s*$`)
	wrapperCalled = regexp.MustCompile(`\}\s*\)\s*\.\s*call\s*\(\s*` + SelfReference + `\s*\)\s*;?\s*$`)
)

// MergeBody converts a raw behavior fragment into a statement list usable as
// a method body. The fragment is parsed as its own syntax unit; every
// returned statement is a deep clone, structurally independent of the parse
// tree, so it may be spliced into a host method.
//
// When expectsResult is set and the fragment is not wrapped, the platform
// convention of assigning to an implicit "result" variable is converted into
// an explicit trailing return.
func MergeBody(code string, expectsResult bool) ([]tsast.Stmt, error) {
	body, wrapped, err := stripWrapper(code)
	if err != nil {
		return nil, err
	}
	if !wrapped && expectsResult {
		body = body + "\nreturn result;"
	}

	stmts, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	for _, s := range stmts {
		rewriteSelf(s)
	}

	out := make([]tsast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, tsast.CloneStmt(s))
	}
	return out, nil
}

// stripWrapper removes the recognized immediately-invoked-function wrapper.
// A recognized opening with an unrecognized closing is a malformed fragment.
func stripWrapper(code string) (body string, wrapped bool, err error) {
	trimmed := strings.TrimSpace(code)
	open := wrapperOpen.FindStringIndex(trimmed)
	if open == nil {
		return code, false, nil
	}
	inner := trimmed[open[1]:]
	if loc := wrapperClose.FindStringIndex(inner); loc != nil {
		return inner[:loc[0]], true, nil
	}
	if loc := wrapperCalled.FindStringIndex(inner); loc != nil {
		return inner[:loc[0]], true, nil
	}
	return "", false, fmt.Errorf("%w: malformed function wrapper, unrecognized closing", ErrParse)
}

// rewriteSelf rewrites member and index accesses whose receiver is the
// reserved self-reference into accesses on the implicit receiver. Only
// receiver positions qualify; a free-standing identifier of the same text is
// left alone.
func rewriteSelf(n tsast.Node) {
	switch n := n.(type) {
	case *tsast.MemberExpr:
		if isSelf(n.Object) {
			n.Object = &tsast.This{}
			return
		}
	case *tsast.IndexExpr:
		if isSelf(n.Object) {
			n.Object = &tsast.This{}
			rewriteSelf(n.Index)
			return
		}
	}
	for _, c := range tsast.Children(n) {
		rewriteSelf(c)
	}
}

func isSelf(e tsast.Expr) bool {
	id, ok := e.(*tsast.Ident)
	return ok && id.Name == SelfReference
}
