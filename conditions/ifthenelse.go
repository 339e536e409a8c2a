package conditions

import (
	"context"
	"encoding/json"
	"fmt"
)

// IfThenElseCondition branches on the outcome of an if-condition. The else
// branch may be another condition or a literal boolean; when it is absent a
// false if-condition yields false.
type IfThenElseCondition struct {
	ConditionType string `json:"conditionType"`
	Name          string `json:"name,omitempty"`

	IfCondition   Condition
	ThenCondition Condition
	ElseCondition Condition // nil when ElseValue or absent
	ElseValue     *bool     // literal else branch
}

func (c *IfThenElseCondition) Type() string { return TypeIfThenElse }

func (c *IfThenElseCondition) decode(raw []byte, cfg *config) error {
	var frame struct {
		ConditionType string          `json:"conditionType"`
		Name          string          `json:"name"`
		IfCondition   json.RawMessage `json:"ifCondition"`
		ThenCondition json.RawMessage `json:"thenCondition"`
		ElseCondition json.RawMessage `json:"elseCondition"`
	}
	if err := unmarshalNumbers(raw, &frame); err != nil {
		return err
	}
	c.ConditionType = frame.ConditionType
	c.Name = frame.Name

	if len(frame.IfCondition) == 0 || len(frame.ThenCondition) == 0 {
		return fmt.Errorf("%w: if-then-else needs ifCondition and thenCondition", ErrInvalidCondition)
	}
	var err error
	if c.IfCondition, err = decodeCondition(frame.IfCondition, cfg); err != nil {
		return err
	}
	if c.ThenCondition, err = decodeCondition(frame.ThenCondition, cfg); err != nil {
		return err
	}
	if len(frame.ElseCondition) > 0 {
		var literal bool
		if jsonErr := json.Unmarshal(frame.ElseCondition, &literal); jsonErr == nil {
			c.ElseValue = &literal
		} else if c.ElseCondition, err = decodeCondition(frame.ElseCondition, cfg); err != nil {
			return err
		}
	}
	return c.validate()
}

func (c *IfThenElseCondition) validate() error {
	if c.ConditionType != TypeIfThenElse {
		return fmt.Errorf("%w: if-then-else condition must have type %q, got %q",
			ErrInvalidCondition, TypeIfThenElse, c.ConditionType)
	}
	if c.IfCondition == nil || c.ThenCondition == nil {
		return fmt.Errorf("%w: if-then-else needs ifCondition and thenCondition", ErrInvalidCondition)
	}
	if c.ElseCondition != nil && c.ElseValue != nil {
		return fmt.Errorf("%w: elseCondition cannot be both a condition and a literal", ErrInvalidCondition)
	}
	for _, branch := range c.branches() {
		if branch.Type() == TypeIfThenElse {
			return fmt.Errorf("%w: if-then-else branches cannot nest if-then-else", ErrInvalidCondition)
		}
	}
	return validateNesting(c.branches(), 1)
}

// branches returns the present branch conditions.
func (c *IfThenElseCondition) branches() []Condition {
	branches := []Condition{}
	for _, b := range []Condition{c.IfCondition, c.ThenCondition, c.ElseCondition} {
		if b != nil {
			branches = append(branches, b)
		}
	}
	return branches
}

// Verify evaluates the if-condition, then the chosen branch. The returned
// value collects the if value and, when a branch ran, the branch value.
func (c *IfThenElseCondition) Verify(ctx context.Context, reqCtx Context) (bool, interface{}, error) {
	ifOk, ifValue, err := c.IfCondition.Verify(ctx, reqCtx)
	if err != nil {
		return false, nil, err
	}
	if ifOk {
		thenOk, thenValue, err := c.ThenCondition.Verify(ctx, reqCtx)
		if err != nil {
			return false, nil, err
		}
		return thenOk, []interface{}{ifValue, thenValue}, nil
	}
	if c.ElseCondition != nil {
		elseOk, elseValue, err := c.ElseCondition.Verify(ctx, reqCtx)
		if err != nil {
			return false, nil, err
		}
		return elseOk, []interface{}{ifValue, elseValue}, nil
	}
	if c.ElseValue != nil {
		return *c.ElseValue, []interface{}{ifValue, *c.ElseValue}, nil
	}
	return false, []interface{}{ifValue}, nil
}

// MarshalJSON emits the literal else branch as a bare boolean.
func (c *IfThenElseCondition) MarshalJSON() ([]byte, error) {
	frame := map[string]interface{}{
		"conditionType": c.ConditionType,
		"ifCondition":   c.IfCondition,
		"thenCondition": c.ThenCondition,
	}
	if c.Name != "" {
		frame["name"] = c.Name
	}
	if c.ElseCondition != nil {
		frame["elseCondition"] = c.ElseCondition
	} else if c.ElseValue != nil {
		frame["elseCondition"] = *c.ElseValue
	}
	return json.Marshal(frame)
}
