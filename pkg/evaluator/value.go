// Package evaluator implements the babu runtime: values, the variable
// environment, expression evaluation and statement execution.
package evaluator

import (
	"math"
	"strconv"
	"strings"
)

// BabuValue is the interface for all babu runtime values.
// Use the sealed marker method to restrict implementations to this package.
type BabuValue interface {
	babuValue() // sealed marker
}

// BabuInt represents an integer value.
type BabuInt struct {
	Value int64
}

func (BabuInt) babuValue() {}

// BabuFloat represents a floating-point value. Every arithmetic result is one.
type BabuFloat struct {
	Value float64
}

func (BabuFloat) babuValue() {}

// BabuBool represents a boolean value.
type BabuBool struct {
	Value bool
}

func (BabuBool) babuValue() {}

// BabuString represents a string value.
type BabuString struct {
	Value string
}

func (BabuString) babuValue() {}

// NewInt creates an integer value.
func NewInt(n int64) BabuValue {
	return BabuInt{Value: n}
}

// NewFloat creates a floating-point value.
func NewFloat(f float64) BabuValue {
	return BabuFloat{Value: f}
}

// NewBool creates a boolean value.
func NewBool(b bool) BabuValue {
	return BabuBool{Value: b}
}

// NewString creates a string value.
func NewString(s string) BabuValue {
	return BabuString{Value: s}
}

// Truthiness returns the boolean interpretation of a babu value.
// 0, 0.0, False and "" are falsy; everything else is truthy.
func Truthiness(v BabuValue) bool {
	switch val := v.(type) {
	case BabuInt:
		return val.Value != 0
	case BabuFloat:
		return val.Value != 0
	case BabuBool:
		return val.Value
	case BabuString:
		return val.Value != ""
	default:
		return true
	}
}

// Display returns the text a print statement writes for v.
func Display(v BabuValue) string {
	switch val := v.(type) {
	case BabuInt:
		return strconv.FormatInt(val.Value, 10)
	case BabuFloat:
		return formatFloat(val.Value)
	case BabuBool:
		if val.Value {
			return "True"
		}
		return "False"
	case BabuString:
		return val.Value
	default:
		return ""
	}
}

// formatFloat renders the shortest round-trip form, always marked as a float:
// fixed notation with a ".0" suffix when integral, exponent notation outside [1e-4, 1e16).
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func typeNameOf(v BabuValue) string {
	switch v.(type) {
	case BabuInt:
		return "integer"
	case BabuFloat:
		return "float"
	case BabuBool:
		return "boolean"
	case BabuString:
		return "string"
	default:
		return "unknown"
	}
}

func isNumeric(v BabuValue) bool {
	switch v.(type) {
	case BabuInt, BabuFloat:
		return true
	}
	return false
}

// toFloat coerces a value for arithmetic. Booleans count as 1 and 0; strings
// must hold a decimal number once surrounding whitespace is trimmed.
func toFloat(v BabuValue) (float64, bool) {
	switch val := v.(type) {
	case BabuInt:
		return float64(val.Value), true
	case BabuFloat:
		return val.Value, true
	case BabuBool:
		if val.Value {
			return 1, true
		}
		return 0, true
	case BabuString:
		f, err := strconv.ParseFloat(strings.TrimSpace(val.Value), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// addNumbers advances a loop counter: Int + Int stays Int, any float makes a Float.
func addNumbers(a, b BabuValue) (BabuValue, bool) {
	ai, aInt := a.(BabuInt)
	bi, bInt := b.(BabuInt)
	if aInt && bInt {
		sum := ai.Value + bi.Value
		// overflow: signs of operands agree but differ from the sum
		if (ai.Value >= 0) == (bi.Value >= 0) && (sum >= 0) != (ai.Value >= 0) {
			return NewFloat(float64(ai.Value) + float64(bi.Value)), true
		}
		return NewInt(sum), true
	}
	if !isNumeric(a) || !isNumeric(b) {
		return nil, false
	}
	af, _ := toFloat(a)
	bf, _ := toFloat(b)
	return NewFloat(af + bf), true
}
