package script

import (
	"strings"
	"testing"

	"github.com/stefan-lacatus/ThingTransformer/pkg/tsast"
)

// TestParse_Statements round-trips fragments through the parser and the
// compact printer. The printer output is a stable structural fingerprint,
// which keeps the expectations short.
func TestParse_Statements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "var with init",
			input: "var x = 1;",
			want:  "var x = 1;",
		},
		{
			name:  "multiple bindings",
			input: "var a = 1, b;",
			want:  "var a = 1, b;",
		},
		{
			name:  "let and const",
			input: "let a = 1; const b = 2;",
			want:  "let a = 1;\nconst b = 2;",
		},
		{
			name:  "semicolon inserted at line break",
			input: "var x = 1\nvar y = 2",
			want:  "var x = 1;\nvar y = 2;",
		},
		{
			name:  "if else",
			input: "if (a > 1) { b = 2; } else { b = 3; }",
			want:  "if (a > 1) {\n    b = 2;\n} else {\n    b = 3;\n}",
		},
		{
			name:  "while",
			input: "while (x < 10) x = x + 1;",
			want:  "while (x < 10) x = x + 1;",
		},
		{
			name:  "classic for",
			input: "for (var i = 0; i < 10; i++) { total += i; }",
			want:  "for (var i = 0; i < 10; i++) {\n    total += i;\n}",
		},
		{
			name:  "for in",
			input: "for (var key in obj) { count++; }",
			want:  "for (var key in obj) {\n    count++;\n}",
		},
		{
			name:  "for of without keyword",
			input: "for (row of rows) { process(row); }",
			want:  "for (row of rows) {\n    process(row);\n}",
		},
		{
			name:  "return without value at line end",
			input: "return\nfoo();",
			want:  "return;\nfoo();",
		},
		{
			name:  "throw",
			input: "throw new Error(\"boom\");",
			want:  "throw new Error(\"boom\");",
		},
		{
			name:  "function declaration",
			input: "function add(a, b) { return a + b; }",
			want:  "function add(a, b) {\n    return a + b;\n}",
		},
		{
			name:  "break and continue",
			input: "while (true) { if (x) break; continue; }",
			want:  "while (true) {\n    if (x) break;\n    continue;\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			got := tsast.PrintStmts(stmts)
			if got != tt.want {
				t.Errorf("printed tree = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParse_Expressions checks precedence and the expression node kinds.
func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "multiplication binds tighter than addition",
			input: "a + b * c;",
			want:  "a + b * c;",
		},
		{
			name:  "comparison and logic",
			input: "a > 1 && b < 2 || c;",
			want:  "a > 1 && b < 2 || c;",
		},
		{
			name:  "assignment is right associative",
			input: "a = b = 1;",
			want:  "a = b = 1;",
		},
		{
			name:  "ternary",
			input: "x = ok ? 1 : 2;",
			want:  "x = ok ? 1 : 2;",
		},
		{
			name:  "call and member chain",
			input: "Things[\"A\"].GetValue().result;",
			want:  "Things[\"A\"].GetValue().result;",
		},
		{
			name:  "unary and postfix",
			input: "x = -a + !b; c++;",
			want:  "x = -a + !b;\nc++;",
		},
		{
			name:  "typeof",
			input: "x = typeof a;",
			want:  "x = typeof a;",
		},
		{
			name:  "new with arguments",
			input: "var d = new Date(2020, 1);",
			want:  "var d = new Date(2020, 1);",
		},
		{
			name:  "new without arguments",
			input: "var d = new Date;",
			want:  "var d = new Date();",
		},
		{
			name:  "object literal with quoted key",
			input: "var o = {a: 1, \"b-c\": 2};",
			want:  "var o = {a: 1, \"b-c\": 2};",
		},
		{
			name:  "array literal",
			input: "var a = [1, \"two\", null];",
			want:  "var a = [1, \"two\", null];",
		},
		{
			name:  "function expression",
			input: "var f = function (a) { return a; };",
			want:  "var f = function (a) {\n    return a;\n};",
		},
		{
			name:  "instanceof",
			input: "x = e instanceof Error;",
			want:  "x = e instanceof Error;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			got := tsast.PrintStmts(stmts)
			if got != tt.want {
				t.Errorf("printed tree = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParse_CommentsAttach tests that comments land on the next statement.
func TestParse_CommentsAttach(t *testing.T) {
	stmts, err := Parse("// first\n/* second */\nvar x = 1;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	cmts := stmts[0].LeadingComments()
	if len(cmts) != 2 {
		t.Fatalf("got %d comments, want 2", len(cmts))
	}
	if cmts[0].Text != " first" || cmts[0].Block {
		t.Errorf("comment[0] = %+v, want line comment %q", cmts[0], " first")
	}
	if cmts[1].Text != " second " || !cmts[1].Block {
		t.Errorf("comment[1] = %+v, want block comment %q", cmts[1], " second ")
	}
}

// TestParse_ParentLinks tests that every parsed node points back at its
// parent.
func TestParse_ParentLinks(t *testing.T) {
	stmts, err := Parse("if (a) { b = me.c; }")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var checked int
	for _, s := range stmts {
		tsast.Walk(s, func(n tsast.Node) bool {
			for _, c := range tsast.Children(n) {
				if c.Parent() != n {
					t.Errorf("child %T of %T has parent %T", c, n, c.Parent())
				}
				checked++
			}
			return true
		})
	}
	if checked == 0 {
		t.Fatal("walk visited no edges")
	}
}

// TestParse_Errors tests malformed fragments.
func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "unclosed block", input: "{ var x = 1;", wantMsg: "unclosed block"},
		{name: "missing paren", input: "if (a { b; }", wantMsg: "expected RPAREN"},
		{name: "missing semicolon same line", input: "var a = 1 var b = 2", wantMsg: "expected ';'"},
		{name: "dangling operator", input: "a + ;", wantMsg: "unexpected token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}
