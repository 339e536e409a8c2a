package conditions

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
)

// Comparators accepted by ReturnValueTest.
const (
	CompEqual          = "=="
	CompNotEqual       = "!="
	CompGreater        = ">"
	CompGreaterOrEqual = ">="
	CompLess           = "<"
	CompLessOrEqual    = "<="
)

var comparators = map[string]bool{
	CompEqual: true, CompNotEqual: true,
	CompGreater: true, CompGreaterOrEqual: true,
	CompLess: true, CompLessOrEqual: true,
}

// ReturnValueTest compares the value produced by a condition's execution
// against an expected value. The expected value may itself be a context
// variable resolved at evaluation time. An optional key picks one element
// out of a compound result before comparing: a string key indexes objects,
// an integer key indexes arrays.
type ReturnValueTest struct {
	Comparator string      `json:"comparator"`
	Value      interface{} `json:"value"`
	Key        interface{} `json:"key,omitempty"`
}

func (rvt *ReturnValueTest) validate() error {
	if !comparators[rvt.Comparator] {
		return fmt.Errorf("%w: comparator %q", ErrInvalidCondition, rvt.Comparator)
	}
	if rvt.Value == nil {
		return fmt.Errorf("%w: return value test needs a value", ErrInvalidCondition)
	}
	if rvt.Key != nil {
		switch key := rvt.Key.(type) {
		case string:
		case json.Number:
			if _, err := key.Int64(); err != nil {
				return fmt.Errorf("%w: non-integer key %q", ErrInvalidCondition, key)
			}
		default:
			return fmt.Errorf("%w: key must be a string or integer, got %T", ErrInvalidCondition, rvt.Key)
		}
	}
	return nil
}

// withResolvedContext returns a copy with context variables in the expected
// value substituted.
func (rvt ReturnValueTest) withResolvedContext(reqCtx Context) (ReturnValueTest, error) {
	resolved, err := resolveValue(rvt.Value, reqCtx)
	if err != nil {
		return ReturnValueTest{}, err
	}
	rvt.Value = resolved
	return rvt, nil
}

// eval applies the comparator to result. Call withResolvedContext first.
func (rvt ReturnValueTest) eval(result interface{}) (bool, error) {
	indexed, err := rvt.index(result)
	if err != nil {
		return false, err
	}

	left, leftNumeric := toRat(indexed)
	right, rightNumeric := toRat(rvt.Value)

	switch rvt.Comparator {
	case CompEqual, CompNotEqual:
		var equal bool
		switch {
		case leftNumeric && rightNumeric:
			equal = left.Cmp(right) == 0
		case leftNumeric != rightNumeric:
			// A number never equals a non-number. Coercing "2" to match
			// the numeric result 2 would loosen an access-control check.
			equal = false
		default:
			equal = reflect.DeepEqual(indexed, rvt.Value)
		}
		if rvt.Comparator == CompNotEqual {
			return !equal, nil
		}
		return equal, nil
	default:
		if !leftNumeric || !rightNumeric {
			return false, fmt.Errorf("%w: comparator %q needs numeric operands, got %T and %T",
				ErrEvaluationFailed, rvt.Comparator, indexed, rvt.Value)
		}
		cmp := left.Cmp(right)
		switch rvt.Comparator {
		case CompGreater:
			return cmp > 0, nil
		case CompGreaterOrEqual:
			return cmp >= 0, nil
		case CompLess:
			return cmp < 0, nil
		case CompLessOrEqual:
			return cmp <= 0, nil
		}
		return false, fmt.Errorf("%w: comparator %q", ErrEvaluationFailed, rvt.Comparator)
	}
}

// index applies the optional key to a compound result.
func (rvt ReturnValueTest) index(result interface{}) (interface{}, error) {
	if rvt.Key == nil {
		return result, nil
	}
	switch key := rvt.Key.(type) {
	case string:
		obj, ok := result.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: key %q into non-object result %T", ErrEvaluationFailed, key, result)
		}
		elem, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("%w: result has no key %q", ErrEvaluationFailed, key)
		}
		return elem, nil
	case json.Number:
		arr, ok := result.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: index into non-array result %T", ErrEvaluationFailed, result)
		}
		i, err := key.Int64()
		if err != nil || i < 0 || int(i) >= len(arr) {
			return nil, fmt.Errorf("%w: index %s out of range", ErrEvaluationFailed, key)
		}
		return arr[i], nil
	default:
		return nil, fmt.Errorf("%w: unusable key type %T", ErrEvaluationFailed, rvt.Key)
	}
}

// toRat converts any numeric representation that can cross a JSON or ABI
// boundary into an exact rational.
func toRat(v interface{}) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		r, ok := new(big.Rat).SetString(n.String())
		return r, ok
	case *big.Int:
		return new(big.Rat).SetInt(n), true
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint64:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(n)), true
	case uint32:
		return new(big.Rat).SetInt64(int64(n)), true
	case float64:
		r := new(big.Rat).SetFloat64(n)
		return r, r != nil
	default:
		return nil, false
	}
}
