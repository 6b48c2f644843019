package evaluator

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/babushona/babu/pkg/ast"
	"github.com/babushona/babu/pkg/diagnostics"
)

func (ev *evaluator) evalExpr(expr ast.Expr) (BabuValue, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return NewInt(e.Value), nil

	case *ast.StringLiteral:
		return NewString(e.Value), nil

	case *ast.BooleanLiteral:
		return NewBool(e.Value), nil

	case *ast.VariableRef:
		val, ok := ev.env.Get(e.Name)
		if !ok {
			span := e.Span
			return nil, undefinedError(e.Name, &span)
		}
		return val, nil

	case *ast.Parenthesized:
		return ev.evalExpr(e.Inner)

	case *ast.UnaryNot:
		val, err := ev.evalExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return NewBool(!Truthiness(val)), nil

	case *ast.Arithmetic:
		left, err := ev.evalExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := ev.evalExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return evalArithmetic(e, left, right)

	case *ast.Comparison:
		left, err := ev.evalExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := ev.evalExpr(e.Right)
		if err != nil {
			return nil, err
		}
		result, ok := compareValues(e.Op, left, right)
		if !ok {
			span := e.Span
			return nil, &RuntimeError{
				Code:    diagnostics.EType,
				Message: fmt.Sprintf("cannot compare %s and %s with '%s'", typeNameOf(left), typeNameOf(right), e.Op),
				Span:    &span,
			}
		}
		return NewBool(result), nil

	case *ast.Logical:
		// Both operands are always evaluated.
		left, err := ev.evalExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := ev.evalExpr(e.Right)
		if err != nil {
			return nil, err
		}
		if e.Op == ast.OpAnd {
			return NewBool(Truthiness(left) && Truthiness(right)), nil
		}
		return NewBool(Truthiness(left) || Truthiness(right)), nil
	}

	span := expr.NodeSpan()
	return nil, &RuntimeError{
		Code:    diagnostics.EType,
		Message: fmt.Sprintf("unsupported expression %s", expr.Kind()),
		Span:    &span,
	}
}

// evalArithmetic coerces both operands to float and applies the operator.
func evalArithmetic(e *ast.Arithmetic, left, right BabuValue) (BabuValue, error) {
	span := e.Span
	l, ok := toFloat(left)
	if !ok {
		return nil, coercionError(e.Op, left, &span)
	}
	r, ok := toFloat(right)
	if !ok {
		return nil, coercionError(e.Op, right, &span)
	}

	switch e.Op {
	case ast.OpAdd:
		return NewFloat(l + r), nil
	case ast.OpSub:
		return NewFloat(l - r), nil
	case ast.OpMul:
		return NewFloat(l * r), nil
	case ast.OpDiv:
		if r == 0 {
			return nil, &RuntimeError{
				Code:    diagnostics.EArith,
				Message: "division by zero",
				Span:    &span,
			}
		}
		return NewFloat(l / r), nil
	}
	return nil, &RuntimeError{
		Code:    diagnostics.EType,
		Message: fmt.Sprintf("unknown arithmetic operator '%s'", e.Op),
		Span:    &span,
	}
}

func coercionError(op ast.ArithOp, v BabuValue, span *ast.Span) *RuntimeError {
	return &RuntimeError{
		Code:    diagnostics.EType,
		Message: fmt.Sprintf("cannot use %s %q as a number in '%s'", typeNameOf(v), Display(v), op),
		Span:    span,
	}
}

// compareValues orders two values of compatible kinds. Integers and floats
// compare numerically with each other, strings lexicographically by bytes and
// booleans with False < True. Any other pairing reports ok == false.
func compareValues(op ast.CompareOp, left, right BabuValue) (result bool, ok bool) {
	cmp, ok := order(left, right)
	if !ok {
		return false, false
	}
	if cmp == unordered {
		return op == ast.OpNeq, true
	}
	switch op {
	case ast.OpLt:
		return cmp < 0, true
	case ast.OpLtEq:
		return cmp <= 0, true
	case ast.OpGt:
		return cmp > 0, true
	case ast.OpGtEq:
		return cmp >= 0, true
	case ast.OpEqEq:
		return cmp == 0, true
	case ast.OpNeq:
		return cmp != 0, true
	}
	return false, false
}

const unordered = 2

// order returns -1, 0 or 1, or unordered when a NaN is involved.
func order(left, right BabuValue) (int, bool) {
	switch l := left.(type) {
	case BabuInt:
		switch r := right.(type) {
		case BabuInt:
			return cmpInt64(l.Value, r.Value), true
		case BabuFloat:
			return cmpIntFloat(l.Value, r.Value), true
		}
	case BabuFloat:
		switch r := right.(type) {
		case BabuInt:
			cmp := cmpIntFloat(r.Value, l.Value)
			if cmp == unordered {
				return cmp, true
			}
			return -cmp, true
		case BabuFloat:
			return cmpFloat64(l.Value, r.Value), true
		}
	case BabuString:
		if r, ok := right.(BabuString); ok {
			return strings.Compare(l.Value, r.Value), true
		}
	case BabuBool:
		if r, ok := right.(BabuBool); ok {
			return cmpInt64(boolRank(l.Value), boolRank(r.Value)), true
		}
	}
	return 0, false
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	return unordered
}

// cmpIntFloat compares exactly; converting i to float64 would round above 2^53.
func cmpIntFloat(i int64, f float64) int {
	if math.IsNaN(f) {
		return unordered
	}
	return new(big.Float).SetInt64(i).Cmp(new(big.Float).SetFloat64(f))
}

func boolRank(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
