package evaluator_test

import (
	"testing"

	"github.com/babushona/babu/pkg/evaluator"
)

func TestClassifyInput(t *testing.T) {
	tests := []struct {
		input    string
		expected evaluator.BabuValue
	}{
		{"True", evaluator.NewBool(true)},
		{"False", evaluator.NewBool(false)},
		{"true", evaluator.NewString("true")},
		{"42", evaluator.NewInt(42)},
		{"007", evaluator.NewInt(7)},
		{"99999999999999999999", evaluator.NewFloat(1e20)},
		{"-5", evaluator.NewString("-5")},
		{"3.14", evaluator.NewString("3.14")},
		{" 42", evaluator.NewString(" 42")},
		{"", evaluator.NewString("")},
		{"hello world", evaluator.NewString("hello world")},
	}

	for _, tt := range tests {
		if got := evaluator.ClassifyInput(tt.input); got != tt.expected {
			t.Errorf("ClassifyInput(%q) = %#v, want %#v", tt.input, got, tt.expected)
		}
	}
}
