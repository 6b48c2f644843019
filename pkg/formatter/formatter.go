// Package formatter implements the babu source code formatter.
package formatter

import (
	"strconv"
	"strings"

	"github.com/babushona/babu/pkg/ast"
)

const indent = "  "

// Binding strength of each expression form (higher = tighter binding).
const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precAdditive
	precMultiplicative
	precPrimary
)

func precedenceOf(e ast.Expr) int {
	switch expr := e.(type) {
	case *ast.Logical:
		if expr.Op == ast.OpOr {
			return precOr
		}
		return precAnd
	case *ast.UnaryNot:
		return precNot
	case *ast.Comparison:
		return precCompare
	case *ast.Arithmetic:
		if expr.Op == ast.OpAdd || expr.Op == ast.OpSub {
			return precAdditive
		}
		return precMultiplicative
	}
	return precPrimary
}

// needsParens reports whether child must be wrapped to keep its grouping
// under a parent of the given precedence. All binary forms are left-associative.
func needsParens(child ast.Expr, parentPrec int, isRight bool) bool {
	childPrec := precedenceOf(child)
	if childPrec == precPrimary {
		return false
	}
	if childPrec < parentPrec {
		return true
	}
	return childPrec == parentPrec && isRight
}

// Format pretty-prints a babu parse tree back to source code.
// Comments and trailing semicolons are not preserved.
func Format(program *ast.Program) string {
	if len(program.Statements) == 0 {
		return ""
	}
	lines := make([]string, len(program.Statements))
	for i, s := range program.Statements {
		lines[i] = formatStmt(s, 0)
	}
	return strings.Join(lines, "\n") + "\n"
}

// HasComments checks if a source string contains babu comments (# prefix).
func HasComments(source string) bool {
	inString := false
	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case c == '\n':
			inString = false
		case !inString && c == '#':
			return true
		}
	}
	return false
}

func formatStmt(s ast.Stmt, depth int) string {
	prefix := strings.Repeat(indent, depth)

	switch stmt := s.(type) {
	case *ast.PrintStmt:
		return prefix + "dekho babu " + formatExpr(stmt.Value)

	case *ast.VarDecl:
		return prefix + "mela babu " + stmt.Name + " = " + formatExpr(stmt.Value)

	case *ast.InputStmt:
		return prefix + "bolo shona " + stmt.Name

	case *ast.Block:
		return prefix + formatBlock(stmt, depth)

	case *ast.IfStmt:
		var b strings.Builder
		b.WriteString(prefix + "agar babu " + formatExpr(stmt.Cond) + " " + formatBlock(stmt.Body, depth))
		for _, branch := range stmt.ElseIfs {
			b.WriteString(" lekin babu " + formatExpr(branch.Cond) + " " + formatBlock(branch.Body, depth))
		}
		if stmt.Else != nil {
			b.WriteString(" magar shona " + formatBlock(stmt.Else, depth))
		}
		return b.String()

	case *ast.ForLoopStmt:
		head := prefix + "chalo babu " + stmt.Var + " = " + formatExpr(stmt.Start) + " tak " + formatExpr(stmt.End)
		if stmt.Step != nil {
			head += " step " + formatExpr(stmt.Step)
		}
		return head + " " + formatBlock(stmt.Body, depth)
	}
	return ""
}

// formatBlock renders braces with the body indented one level deeper.
// The opening brace is not prefixed; the closing brace aligns with depth.
func formatBlock(block *ast.Block, depth int) string {
	if block == nil || len(block.Statements) == 0 {
		return "{}"
	}
	lines := make([]string, len(block.Statements))
	for i, s := range block.Statements {
		lines[i] = formatStmt(s, depth+1)
	}
	return "{\n" + strings.Join(lines, "\n") + "\n" + strings.Repeat(indent, depth) + "}"
}

func formatExpr(e ast.Expr) string {
	switch expr := e.(type) {
	case *ast.IntLiteral:
		return strconv.FormatInt(expr.Value, 10)
	case *ast.StringLiteral:
		return quote(expr.Value)
	case *ast.BooleanLiteral:
		if expr.Value {
			return "True"
		}
		return "False"
	case *ast.VariableRef:
		return expr.Name
	case *ast.Parenthesized:
		return "(" + formatExpr(expr.Inner) + ")"
	case *ast.UnaryNot:
		operand := formatExpr(expr.Operand)
		if precedenceOf(expr.Operand) < precNot {
			operand = "(" + operand + ")"
		}
		return "not " + operand
	case *ast.Arithmetic:
		return formatBinary(expr.Left, string(expr.Op), expr.Right, precedenceOf(expr))
	case *ast.Comparison:
		return formatBinary(expr.Left, string(expr.Op), expr.Right, precCompare)
	case *ast.Logical:
		return formatBinary(expr.Left, string(expr.Op), expr.Right, precedenceOf(expr))
	}
	return ""
}

func formatBinary(left ast.Expr, op string, right ast.Expr, prec int) string {
	leftStr := formatExpr(left)
	rightStr := formatExpr(right)
	if needsParens(left, prec, false) {
		leftStr = "(" + leftStr + ")"
	}
	if needsParens(right, prec, true) {
		rightStr = "(" + rightStr + ")"
	}
	return leftStr + " " + op + " " + rightStr
}

// quote writes a string literal using only the escapes the lexer understands.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
