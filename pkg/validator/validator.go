// Package validator implements static lints over babu programs.
// Lints produce warnings only; a program with warnings still runs.
package validator

import (
	"fmt"

	"github.com/babushona/babu/pkg/ast"
	"github.com/babushona/babu/pkg/diagnostics"
)

type validator struct {
	diags []diagnostics.Diagnostic
	// assigned holds every name the program binds anywhere.
	assigned map[string]bool
	// bound tracks names bound so far in document order.
	bound map[string]bool
}

// Validate lints a babu program and returns warning diagnostics in document order.
func Validate(program *ast.Program) []diagnostics.Diagnostic {
	v := &validator{
		assigned: make(map[string]bool),
		bound:    make(map[string]bool),
	}
	collectAssigned(program.Statements, v.assigned)
	v.validateStatements(program.Statements)
	return v.diags
}

func (v *validator) addWarning(code, msg string, span ast.Span, hint string) {
	v.diags = append(v.diags, diagnostics.MakeWarning(code, msg, &span, hint))
}

func collectAssigned(stmts []ast.Stmt, out map[string]bool) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			out[s.Name] = true
		case *ast.InputStmt:
			out[s.Name] = true
		case *ast.ForLoopStmt:
			out[s.Var] = true
			collectAssigned(s.Body.Statements, out)
		case *ast.Block:
			collectAssigned(s.Statements, out)
		case *ast.IfStmt:
			collectAssigned(s.Body.Statements, out)
			for _, branch := range s.ElseIfs {
				collectAssigned(branch.Body.Statements, out)
			}
			if s.Else != nil {
				collectAssigned(s.Else.Statements, out)
			}
		}
	}
}

func (v *validator) validateStatements(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		v.validateStmt(stmt)
	}
}

func (v *validator) validateStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		v.validateExpr(s.Value)

	case *ast.VarDecl:
		v.validateExpr(s.Value)
		v.bound[s.Name] = true

	case *ast.InputStmt:
		v.bound[s.Name] = true

	case *ast.Block:
		v.validateStatements(s.Statements)

	case *ast.IfStmt:
		v.validateExpr(s.Cond)
		v.validateStatements(s.Body.Statements)
		for _, branch := range s.ElseIfs {
			v.validateExpr(branch.Cond)
			v.validateStatements(branch.Body.Statements)
		}
		if s.Else != nil {
			v.validateStatements(s.Else.Statements)
		}

	case *ast.ForLoopStmt:
		v.validateForLoop(s)
	}
}

func (v *validator) validateForLoop(s *ast.ForLoopStmt) {
	v.validateExpr(s.Start)
	v.validateExpr(s.End)
	if s.Step != nil {
		v.validateExpr(s.Step)
		if step, ok := constNumber(s.Step); ok && step <= 0 {
			v.addWarning(diagnostics.WLoopStep,
				fmt.Sprintf("loop step for '%s' is %g; the loop never advances toward its end", s.Var, step),
				s.Step.NodeSpan(), "use a positive step")
		}
	}

	if v.bound[s.Var] {
		v.addWarning(diagnostics.WLoopShadow,
			fmt.Sprintf("loop variable '%s' reuses an existing variable; its value is removed when the loop ends", s.Var),
			s.Span, "pick a different loop variable name")
	}

	v.bound[s.Var] = true
	v.validateStatements(s.Body.Statements)
	delete(v.bound, s.Var)
}

func (v *validator) validateExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.VariableRef:
		if !v.assigned[e.Name] {
			v.addWarning(diagnostics.WUnassigned,
				fmt.Sprintf("variable '%s' is never assigned", e.Name),
				e.Span, "")
		}
	case *ast.Parenthesized:
		v.validateExpr(e.Inner)
	case *ast.UnaryNot:
		v.validateExpr(e.Operand)
	case *ast.Arithmetic:
		v.validateExpr(e.Left)
		v.validateExpr(e.Right)
	case *ast.Comparison:
		v.validateExpr(e.Left)
		v.validateExpr(e.Right)
	case *ast.Logical:
		v.validateExpr(e.Left)
		v.validateExpr(e.Right)
	}
}

// constNumber folds integer literals combined by arithmetic into a number.
// Expressions that read variables, or that divide by zero, are not constant.
func constNumber(expr ast.Expr) (float64, bool) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return float64(e.Value), true
	case *ast.Parenthesized:
		return constNumber(e.Inner)
	case *ast.Arithmetic:
		l, ok := constNumber(e.Left)
		if !ok {
			return 0, false
		}
		r, ok := constNumber(e.Right)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case ast.OpAdd:
			return l + r, true
		case ast.OpSub:
			return l - r, true
		case ast.OpMul:
			return l * r, true
		case ast.OpDiv:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		}
	}
	return 0, false
}
