package conditions

import (
	"context"
	"encoding/json"
	"fmt"
)

// Boolean operators accepted by CompoundCondition.
const (
	OperatorAnd = "and"
	OperatorOr  = "or"
	OperatorNot = "not"
)

// Limits shared by all multi-condition types. Deep recursive documents are
// a denial-of-service vector for the nodes evaluating them.
const (
	MaxConditions   = 5
	MaxNestingDepth = 2
)

// CompoundCondition combines operand conditions with a boolean operator.
type CompoundCondition struct {
	ConditionType string      `json:"conditionType"`
	Name          string      `json:"name,omitempty"`
	Operator      string      `json:"operator"`
	Operands      []Condition `json:"operands"`
}

func (c *CompoundCondition) Type() string { return TypeCompound }

func (c *CompoundCondition) decode(raw []byte, cfg *config) error {
	var frame struct {
		ConditionType string            `json:"conditionType"`
		Name          string            `json:"name"`
		Operator      string            `json:"operator"`
		Operands      []json.RawMessage `json:"operands"`
	}
	if err := unmarshalNumbers(raw, &frame); err != nil {
		return err
	}
	c.ConditionType = frame.ConditionType
	c.Name = frame.Name
	c.Operator = frame.Operator
	c.Operands = make([]Condition, 0, len(frame.Operands))
	for _, operand := range frame.Operands {
		cond, err := decodeCondition(operand, cfg)
		if err != nil {
			return err
		}
		c.Operands = append(c.Operands, cond)
	}
	return c.validate()
}

func (c *CompoundCondition) validate() error {
	if c.ConditionType != TypeCompound {
		return fmt.Errorf("%w: compound condition must have type %q, got %q",
			ErrInvalidCondition, TypeCompound, c.ConditionType)
	}
	switch c.Operator {
	case OperatorAnd, OperatorOr:
		if len(c.Operands) < 2 {
			return fmt.Errorf("%w: %q needs at least two operands", ErrInvalidCondition, c.Operator)
		}
	case OperatorNot:
		if len(c.Operands) != 1 {
			return fmt.Errorf("%w: %q needs exactly one operand", ErrInvalidCondition, c.Operator)
		}
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidCondition, c.Operator)
	}
	return validateNesting(c.Operands, 1)
}

// validateNesting walks operand trees and rejects documents that exceed
// MaxConditions per level or nest multi-conditions deeper than
// MaxNestingDepth.
func validateNesting(conds []Condition, level int) error {
	if len(conds) > MaxConditions {
		return fmt.Errorf("%w: maximum of %d conditions are allowed", ErrInvalidCondition, MaxConditions)
	}
	for _, cond := range conds {
		var nested []Condition
		switch multi := cond.(type) {
		case *CompoundCondition:
			nested = multi.Operands
		case *SequentialCondition:
			for _, v := range multi.ConditionVariables {
				nested = append(nested, v.Condition)
			}
		case *IfThenElseCondition:
			nested = multi.branches()
		default:
			continue
		}
		if level+1 > MaxNestingDepth {
			return fmt.Errorf("%w: only %d nested levels of multi-conditions are allowed",
				ErrInvalidCondition, MaxNestingDepth)
		}
		if err := validateNesting(nested, level+1); err != nil {
			return err
		}
	}
	return nil
}

// Verify evaluates the operands with short-circuiting. The returned value
// collects each evaluated operand's value in order.
func (c *CompoundCondition) Verify(ctx context.Context, reqCtx Context) (bool, interface{}, error) {
	var values []interface{}
	switch c.Operator {
	case OperatorAnd:
		for _, operand := range c.Operands {
			ok, value, err := operand.Verify(ctx, reqCtx)
			if err != nil {
				return false, nil, err
			}
			values = append(values, value)
			if !ok {
				return false, values, nil
			}
		}
		return true, values, nil
	case OperatorOr:
		for _, operand := range c.Operands {
			ok, value, err := operand.Verify(ctx, reqCtx)
			if err != nil {
				return false, nil, err
			}
			values = append(values, value)
			if ok {
				return true, values, nil
			}
		}
		return false, values, nil
	case OperatorNot:
		ok, value, err := c.Operands[0].Verify(ctx, reqCtx)
		if err != nil {
			return false, nil, err
		}
		return !ok, []interface{}{value}, nil
	}
	return false, nil, fmt.Errorf("%w: unknown operator %q", ErrEvaluationFailed, c.Operator)
}
