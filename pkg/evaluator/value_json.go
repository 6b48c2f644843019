package evaluator

import (
	"encoding/json"
	"math"
)

// valueToRaw converts a value to its JSON form.
// Non-finite floats have no JSON form and are written as their display text.
func valueToRaw(v BabuValue) any {
	switch val := v.(type) {
	case BabuInt:
		return val.Value
	case BabuFloat:
		if math.IsInf(val.Value, 0) || math.IsNaN(val.Value) {
			return formatFloat(val.Value)
		}
		return val.Value
	case BabuBool:
		return val.Value
	case BabuString:
		return val.Value
	}
	return nil
}

// EnvToJSON marshals all bindings as a JSON object with sorted keys.
func EnvToJSON(env *Env) ([]byte, error) {
	out := make(map[string]any, env.Len())
	for _, name := range env.Names() {
		v, _ := env.Get(name)
		out[name] = valueToRaw(v)
	}
	return json.Marshal(out)
}
