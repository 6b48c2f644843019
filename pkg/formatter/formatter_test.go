package formatter_test

import (
	"testing"

	"github.com/babushona/babu/pkg/ast"
	"github.com/babushona/babu/pkg/formatter"
	"github.com/babushona/babu/pkg/parser"
)

func mustFormat(t *testing.T, src string) string {
	t.Helper()
	prog, diags := parser.Parse(src, "test.babu")
	if len(diags) > 0 {
		t.Fatalf("parse error: %s", diags[0].Message)
	}
	return formatter.Format(prog)
}

func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "simple statements",
			src:  "mela babu   x=1;dekho babu x+2*3\nbolo shona  y",
			want: "mela babu x = 1\ndekho babu x + 2 * 3\nbolo shona y\n",
		},
		{
			name: "parentheses kept",
			src:  "dekho babu (1+2)*3",
			want: "dekho babu (1 + 2) * 3\n",
		},
		{
			name: "if chain",
			src:  `agar babu x>1{dekho babu "a"}lekin babu x>0{dekho babu "b"}magar shona{dekho babu "c"}`,
			want: "agar babu x > 1 {\n  dekho babu \"a\"\n} lekin babu x > 0 {\n  dekho babu \"b\"\n} magar shona {\n  dekho babu \"c\"\n}\n",
		},
		{
			name: "for loop with step",
			src:  "chalo babu i=0 tak 10 step 2 {dekho babu i}",
			want: "chalo babu i = 0 tak 10 step 2 {\n  dekho babu i\n}\n",
		},
		{
			name: "nested and empty blocks",
			src:  "chalo babu i = 0 tak 2 { agar babu i == 1 { } }\n{ }",
			want: "chalo babu i = 0 tak 2 {\n  agar babu i == 1 {}\n}\n{}\n",
		},
		{
			name: "logical and not",
			src:  "dekho babu not a and b or True",
			want: "dekho babu not a and b or True\n",
		},
		{
			name: "string escapes",
			src:  `dekho babu "say \"hi\"\n\tback\\slash"`,
			want: "dekho babu \"say \\\"hi\\\"\\n\\tback\\\\slash\"\n",
		},
		{
			name: "empty program",
			src:  "# only a comment\n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustFormat(t, tt.src); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	sources := []string{
		"mela babu total = 0\nchalo babu i = 1 tak 5 { mela babu total = total + i }\ndekho babu total",
		`agar babu not (1 < 2 and "a" != "b") { dekho babu 1 } magar shona { { dekho babu 2 } }`,
		"dekho babu 10 - (4 - 3)",
		"dekho babu 8 / (4 / 2) * 1",
	}
	for _, src := range sources {
		once := mustFormat(t, src)
		twice := mustFormat(t, once)
		if once != twice {
			t.Errorf("not idempotent:\nfirst:\n%s\nsecond:\n%s", once, twice)
		}
	}
}

func TestFormat_SyntheticTreeGetsParens(t *testing.T) {
	// (1 + 2) * 3 built without a Parenthesized node.
	prog := &ast.Program{Statements: []ast.Stmt{
		&ast.PrintStmt{Value: &ast.Arithmetic{
			Op: ast.OpMul,
			Left: &ast.Arithmetic{
				Op:    ast.OpAdd,
				Left:  &ast.IntLiteral{Value: 1},
				Right: &ast.IntLiteral{Value: 2},
			},
			Right: &ast.IntLiteral{Value: 3},
		}},
		&ast.PrintStmt{Value: &ast.Arithmetic{
			Op:   ast.OpSub,
			Left: &ast.IntLiteral{Value: 5},
			Right: &ast.Arithmetic{
				Op:    ast.OpSub,
				Left:  &ast.IntLiteral{Value: 2},
				Right: &ast.IntLiteral{Value: 1},
			},
		}},
	}}
	want := "dekho babu (1 + 2) * 3\ndekho babu 5 - (2 - 1)\n"
	if got := formatter.Format(prog); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestHasComments(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"# header\ndekho babu 1", true},
		{"dekho babu 1 # trailing", true},
		{`dekho babu "# not a comment"`, false},
		{`dekho babu "escaped \" # still string"`, false},
		{"dekho babu 1", false},
	}
	for _, tt := range tests {
		if got := formatter.HasComments(tt.src); got != tt.want {
			t.Errorf("HasComments(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
