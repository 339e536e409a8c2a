package conditions

import (
	"fmt"
	"regexp"
)

// Context carries the per-request values that conditions may reference as
// :name variables, e.g. the requester's authenticated wallet address.
type Context map[string]interface{}

// UserAddressVariable is the reserved context variable carrying the
// requester's verified wallet address.
const UserAddressVariable = ":userAddress"

var contextVariableRe = regexp.MustCompile(`^:[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsContextVariable reports whether v is a string of the :name form.
func IsContextVariable(v interface{}) bool {
	s, ok := v.(string)
	return ok && contextVariableRe.MatchString(s)
}

// Validate checks that every key follows the :name form.
func (c Context) Validate() error {
	for key := range c {
		if !contextVariableRe.MatchString(key) {
			return fmt.Errorf("%w: %q", ErrInvalidContextVariable, key)
		}
	}
	return nil
}

// clone returns a shallow copy; sequential conditions extend the context
// without leaking variables back to the caller.
func (c Context) clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// resolveValue substitutes context variables in v. Strings of the :name
// form are replaced by their context value; slices and maps are resolved
// element-wise; everything else passes through.
func resolveValue(v interface{}, reqCtx Context) (interface{}, error) {
	switch val := v.(type) {
	case string:
		if !IsContextVariable(val) {
			return v, nil
		}
		resolved, ok := reqCtx[val]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrRequiredContextVariable, val)
		}
		return resolved, nil
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			resolved, err := resolveValue(elem, reqCtx)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, elem := range val {
			resolved, err := resolveValue(elem, reqCtx)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}
