package conditions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixedCondition answers with a canned verdict and records whether it ran.
type fixedCondition struct {
	ok     bool
	value  interface{}
	err    error
	called *bool
}

func (f *fixedCondition) Type() string { return "fixed" }

func (f *fixedCondition) Verify(_ context.Context, _ Context) (bool, interface{}, error) {
	if f.called != nil {
		*f.called = true
	}
	return f.ok, f.value, f.err
}

// contextReader reports true iff the named context variable equals want.
type contextReader struct {
	variable string
	want     interface{}
}

func (c *contextReader) Type() string { return "context-reader" }

func (c *contextReader) Verify(_ context.Context, reqCtx Context) (bool, interface{}, error) {
	value, found := reqCtx[c.variable]
	if !found {
		return false, nil, fmt.Errorf("%w: %s", ErrRequiredContextVariable, c.variable)
	}
	return value == c.want, value, nil
}

func yes(value interface{}) Condition { return &fixedCondition{ok: true, value: value} }
func no(value interface{}) Condition  { return &fixedCondition{ok: false, value: value} }

func TestCompoundOperators(t *testing.T) {
	ctx := context.Background()

	and := &CompoundCondition{
		ConditionType: TypeCompound,
		Operator:      OperatorAnd,
		Operands:      []Condition{yes(1), yes(2)},
	}
	require.NoError(t, and.validate())
	ok, value, err := and.Verify(ctx, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []interface{}{1, 2}, value)

	and.Operands = []Condition{yes(1), no(2), yes(3)}
	ok, _, err = and.Verify(ctx, nil)
	require.NoError(t, err)
	require.False(t, ok)

	or := &CompoundCondition{
		ConditionType: TypeCompound,
		Operator:      OperatorOr,
		Operands:      []Condition{no(1), yes(2), no(3)},
	}
	ok, value, err = or.Verify(ctx, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []interface{}{1, 2}, value)

	not := &CompoundCondition{
		ConditionType: TypeCompound,
		Operator:      OperatorNot,
		Operands:      []Condition{no(1)},
	}
	require.NoError(t, not.validate())
	ok, value, err = not.Verify(ctx, nil)
	require.NoError(t, err)
	require.True(t, ok)
	// All operators report the evaluated operand values as a list.
	require.Equal(t, []interface{}{1}, value)
}

func TestCompoundShortCircuit(t *testing.T) {
	var reached bool
	and := &CompoundCondition{
		ConditionType: TypeCompound,
		Operator:      OperatorAnd,
		Operands: []Condition{
			no(1),
			&fixedCondition{ok: true, called: &reached},
		},
	}
	ok, _, err := and.Verify(context.Background(), nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, reached, "and must stop at the first false operand")

	reached = false
	or := &CompoundCondition{
		ConditionType: TypeCompound,
		Operator:      OperatorOr,
		Operands: []Condition{
			yes(1),
			&fixedCondition{ok: false, called: &reached},
		},
	}
	ok, _, err = or.Verify(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, reached, "or must stop at the first true operand")
}

func TestCompoundPropagatesErrors(t *testing.T) {
	boom := errors.New("endpoint down")
	and := &CompoundCondition{
		ConditionType: TypeCompound,
		Operator:      OperatorAnd,
		Operands:      []Condition{yes(1), &fixedCondition{err: boom}},
	}
	_, _, err := and.Verify(context.Background(), nil)
	require.ErrorIs(t, err, boom)
}

func TestCompoundValidate(t *testing.T) {
	cases := []struct {
		name     string
		operator string
		operands int
		wantErr  bool
	}{
		{"and needs two", OperatorAnd, 1, true},
		{"and with two", OperatorAnd, 2, false},
		{"or needs two", OperatorOr, 1, true},
		{"not exactly one", OperatorNot, 2, true},
		{"not with one", OperatorNot, 1, false},
		{"too many operands", OperatorOr, MaxConditions + 1, true},
		{"at the limit", OperatorOr, MaxConditions, false},
	}
	for _, c := range cases {
		operands := make([]Condition, c.operands)
		for i := range operands {
			operands[i] = yes(i)
		}
		cond := &CompoundCondition{ConditionType: TypeCompound, Operator: c.operator, Operands: operands}
		err := cond.validate()
		if c.wantErr {
			require.ErrorIs(t, err, ErrInvalidCondition, c.name)
		} else {
			require.NoError(t, err, c.name)
		}
	}

	unknown := &CompoundCondition{ConditionType: TypeCompound, Operator: "xor", Operands: []Condition{yes(1), yes(2)}}
	require.ErrorIs(t, unknown.validate(), ErrInvalidCondition)
}

func TestCompoundNestingDepth(t *testing.T) {
	level2 := &CompoundCondition{
		ConditionType: TypeCompound,
		Operator:      OperatorAnd,
		Operands:      []Condition{yes(1), yes(2)},
	}
	level1 := &CompoundCondition{
		ConditionType: TypeCompound,
		Operator:      OperatorAnd,
		Operands:      []Condition{yes(0), level2},
	}
	require.NoError(t, level1.validate())

	level3 := &CompoundCondition{
		ConditionType: TypeCompound,
		Operator:      OperatorAnd,
		Operands: []Condition{yes(0), &CompoundCondition{
			ConditionType: TypeCompound,
			Operator:      OperatorAnd,
			Operands:      []Condition{yes(1), level2},
		}},
	}
	require.ErrorIs(t, level3.validate(), ErrInvalidCondition)
}

func TestSequentialPublishesVariables(t *testing.T) {
	seq := &SequentialCondition{
		ConditionType: TypeSequential,
		ConditionVariables: []ConditionVariable{
			{VarName: "first", Condition: yes("payload")},
			{VarName: "second", Condition: &contextReader{variable: ":first", want: "payload"}},
		},
	}
	require.NoError(t, seq.validate())

	reqCtx := Context{}
	ok, value, err := seq.Verify(context.Background(), reqCtx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []interface{}{"payload", "payload"}, value)

	// The caller's context stays untouched.
	_, leaked := reqCtx[":first"]
	require.False(t, leaked)
}

func TestSequentialStopsAtFirstFalse(t *testing.T) {
	var reached bool
	seq := &SequentialCondition{
		ConditionType: TypeSequential,
		ConditionVariables: []ConditionVariable{
			{VarName: "first", Condition: no(1)},
			{VarName: "second", Condition: &fixedCondition{ok: true, called: &reached}},
		},
	}
	ok, value, err := seq.Verify(context.Background(), Context{})
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []interface{}{1}, value)
	require.False(t, reached)
}

func TestSequentialValidate(t *testing.T) {
	pair := func(names ...string) []ConditionVariable {
		vars := make([]ConditionVariable, 0, len(names))
		for _, name := range names {
			vars = append(vars, ConditionVariable{VarName: name, Condition: yes(nil)})
		}
		return vars
	}

	cases := []struct {
		name string
		vars []ConditionVariable
	}{
		{"too few", pair("only")},
		{"too many", pair("a", "b", "c", "d", "e", "f")},
		{"duplicate names", pair("x", "x")},
		{"bad name", pair("ok", "1starts_with_digit")},
		{"empty name", pair("ok", "")},
	}
	for _, c := range cases {
		seq := &SequentialCondition{ConditionType: TypeSequential, ConditionVariables: c.vars}
		require.ErrorIs(t, seq.validate(), ErrInvalidCondition, c.name)
	}

	require.NoError(t, (&SequentialCondition{
		ConditionType:      TypeSequential,
		ConditionVariables: pair("a", "b", "c", "d", "e"),
	}).validate())
}

func TestIfThenElseBranching(t *testing.T) {
	ctx := context.Background()

	cond := &IfThenElseCondition{
		ConditionType: TypeIfThenElse,
		IfCondition:   yes("if"),
		ThenCondition: yes("then"),
		ElseCondition: no("else"),
	}
	require.NoError(t, cond.validate())

	ok, value, err := cond.Verify(ctx, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []interface{}{"if", "then"}, value)

	cond.IfCondition = no("if")
	ok, value, err = cond.Verify(ctx, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []interface{}{"if", "else"}, value)
}

func TestIfThenElseLiteralElse(t *testing.T) {
	literal := true
	cond := &IfThenElseCondition{
		ConditionType: TypeIfThenElse,
		IfCondition:   no("if"),
		ThenCondition: yes("then"),
		ElseValue:     &literal,
	}
	require.NoError(t, cond.validate())

	ok, value, err := cond.Verify(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []interface{}{"if", true}, value)
}

func TestIfThenElseWithoutElse(t *testing.T) {
	cond := &IfThenElseCondition{
		ConditionType: TypeIfThenElse,
		IfCondition:   no("if"),
		ThenCondition: yes("then"),
	}
	require.NoError(t, cond.validate())

	ok, value, err := cond.Verify(context.Background(), nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []interface{}{"if"}, value)
}

func TestIfThenElseValidate(t *testing.T) {
	missing := &IfThenElseCondition{ConditionType: TypeIfThenElse, IfCondition: yes(nil)}
	require.ErrorIs(t, missing.validate(), ErrInvalidCondition)

	nested := &IfThenElseCondition{
		ConditionType: TypeIfThenElse,
		IfCondition:   yes(nil),
		ThenCondition: &IfThenElseCondition{
			ConditionType: TypeIfThenElse,
			IfCondition:   yes(nil),
			ThenCondition: yes(nil),
		},
	}
	require.ErrorIs(t, nested.validate(), ErrInvalidCondition)

	literal := false
	both := &IfThenElseCondition{
		ConditionType: TypeIfThenElse,
		IfCondition:   yes(nil),
		ThenCondition: yes(nil),
		ElseCondition: yes(nil),
		ElseValue:     &literal,
	}
	require.ErrorIs(t, both.validate(), ErrInvalidCondition)
}

func TestIfThenElseMarshalLiteral(t *testing.T) {
	literal := false
	cond := &IfThenElseCondition{
		ConditionType: TypeIfThenElse,
		IfCondition: &TimeCondition{
			ConditionType:   TypeTime,
			Chain:           1,
			Method:          TimeMethod,
			ReturnValueTest: ReturnValueTest{Comparator: ">", Value: json.Number("0")},
		},
		ThenCondition: &TimeCondition{
			ConditionType:   TypeTime,
			Chain:           1,
			Method:          TimeMethod,
			ReturnValueTest: ReturnValueTest{Comparator: ">", Value: json.Number("100")},
		},
		ElseValue: &literal,
	}
	data, err := json.Marshal(cond)
	require.NoError(t, err)

	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &frame))
	require.Equal(t, false, frame["elseCondition"])
}
