package authzee

import "encoding/json"

// ToJSON re-decodes v through encoding/json, returning the generic
// map/slice/scalar tree the rest of the engine operates on. It is used
// any time a typed struct (Grant, Request, ...) needs to cross into
// untyped JSON territory: schema validation, the JMESPath query input,
// or an HTTP response body.
func ToJSON(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MustJSON is ToJSON for values that are known to round-trip cleanly
// (struct literals built by this package, never user input).
func MustJSON(v any) any {
	out, err := ToJSON(v)
	if err != nil {
		panic(err)
	}
	return out
}

// JSONEqual implements type-strict, order-sensitive equality: numbers
// compare by numeric value, strings by code-point sequence, arrays
// element-wise in order, objects by key-set and recursive equality,
// null equals only null, and booleans are never equal to numbers.
//
// a and b must already be decoded JSON values (the output of
// encoding/json.Unmarshal into `any`, or ToJSON).
func JSONEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !JSONEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, present := bv[k]
			if !present || !JSONEqual(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
