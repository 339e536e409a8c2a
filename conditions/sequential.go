package conditions

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

var varNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ConditionVariable names the outcome of one step in a sequential chain.
type ConditionVariable struct {
	VarName   string    `json:"varName"`
	Condition Condition `json:"condition"`
}

// SequentialCondition evaluates conditions in order, publishing each step's
// value into the context as :varName so later steps can reference it.
type SequentialCondition struct {
	ConditionType      string              `json:"conditionType"`
	Name               string              `json:"name,omitempty"`
	ConditionVariables []ConditionVariable `json:"conditionVariables"`
}

func (c *SequentialCondition) Type() string { return TypeSequential }

func (c *SequentialCondition) decode(raw []byte, cfg *config) error {
	var frame struct {
		ConditionType      string `json:"conditionType"`
		Name               string `json:"name"`
		ConditionVariables []struct {
			VarName   string          `json:"varName"`
			Condition json.RawMessage `json:"condition"`
		} `json:"conditionVariables"`
	}
	if err := unmarshalNumbers(raw, &frame); err != nil {
		return err
	}
	c.ConditionType = frame.ConditionType
	c.Name = frame.Name
	c.ConditionVariables = make([]ConditionVariable, 0, len(frame.ConditionVariables))
	for _, v := range frame.ConditionVariables {
		cond, err := decodeCondition(v.Condition, cfg)
		if err != nil {
			return err
		}
		c.ConditionVariables = append(c.ConditionVariables, ConditionVariable{
			VarName:   v.VarName,
			Condition: cond,
		})
	}
	return c.validate()
}

func (c *SequentialCondition) validate() error {
	if c.ConditionType != TypeSequential {
		return fmt.Errorf("%w: sequential condition must have type %q, got %q",
			ErrInvalidCondition, TypeSequential, c.ConditionType)
	}
	if len(c.ConditionVariables) < 2 {
		return fmt.Errorf("%w: at least two conditions are required", ErrInvalidCondition)
	}
	if len(c.ConditionVariables) > MaxConditions {
		return fmt.Errorf("%w: maximum of %d conditions are allowed", ErrInvalidCondition, MaxConditions)
	}
	seen := make(map[string]bool, len(c.ConditionVariables))
	conds := make([]Condition, 0, len(c.ConditionVariables))
	for _, v := range c.ConditionVariables {
		if !varNameRe.MatchString(v.VarName) {
			return fmt.Errorf("%w: invalid variable name %q", ErrInvalidCondition, v.VarName)
		}
		if seen[v.VarName] {
			return fmt.Errorf("%w: duplicate variable name %q", ErrInvalidCondition, v.VarName)
		}
		seen[v.VarName] = true
		conds = append(conds, v.Condition)
	}
	return validateNesting(conds, 1)
}

// Verify runs the chain in order, stopping at the first false or failing
// step. The returned value collects each step's value in order.
func (c *SequentialCondition) Verify(ctx context.Context, reqCtx Context) (bool, interface{}, error) {
	scoped := reqCtx.clone()
	var values []interface{}
	for _, v := range c.ConditionVariables {
		ok, value, err := v.Condition.Verify(ctx, scoped)
		if err != nil {
			return false, nil, err
		}
		values = append(values, value)
		if !ok {
			return false, values, nil
		}
		scoped[":"+v.VarName] = value
	}
	return true, values, nil
}
