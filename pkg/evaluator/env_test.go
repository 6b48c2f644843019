package evaluator_test

import (
	"reflect"
	"testing"

	"github.com/babushona/babu/pkg/evaluator"
)

func TestEnv(t *testing.T) {
	env := evaluator.NewEnv()
	if env.Has("x") {
		t.Fatal("new env should be empty")
	}

	env.Set("x", evaluator.NewInt(1))
	env.Set("x", evaluator.NewString("again"))
	v, ok := env.Get("x")
	if !ok || v != evaluator.NewString("again") {
		t.Errorf("Get(x) = %#v, %v", v, ok)
	}

	env.Set("a", evaluator.NewBool(true))
	if got := env.Names(); !reflect.DeepEqual(got, []string{"a", "x"}) {
		t.Errorf("Names() = %v", got)
	}

	env.Delete("x")
	env.Delete("never-bound")
	if env.Has("x") {
		t.Error("x should be deleted")
	}
	if env.Len() != 1 {
		t.Errorf("Len() = %d, want 1", env.Len())
	}
}
