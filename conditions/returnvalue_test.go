package conditions

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func num(s string) json.Number { return json.Number(s) }

func TestReturnValueTestComparators(t *testing.T) {
	cases := []struct {
		comparator string
		value      interface{}
		result     interface{}
		want       bool
	}{
		{"==", num("2"), num("2"), true},
		{"==", num("2"), num("3"), false},
		{"!=", num("2"), num("3"), true},
		{">", num("0"), num("1"), true},
		{">", num("1"), num("1"), false},
		{">=", num("1"), num("1"), true},
		{"<", num("10"), num("9"), true},
		{"<=", num("9"), num("10"), false},
		{"==", "alpha", "alpha", true},
		{"==", "alpha", "beta", false},
		{"!=", true, false, true},
		{"==", true, true, true},
		// Mixed numeric representations compare by value.
		{"==", num("1000000000000000000"), big.NewInt(1e18), true},
		{">=", num("5"), uint64(5), true},
		{"==", num("2.5"), 2.5, true},
	}
	for _, c := range cases {
		rvt := ReturnValueTest{Comparator: c.comparator, Value: c.value}
		require.NoError(t, rvt.validate(), "case %v", c)
		got, err := rvt.eval(c.result)
		require.NoError(t, err, "case %v", c)
		require.Equal(t, c.want, got, "case %v", c)
	}
}

func TestReturnValueTestLargeIntegers(t *testing.T) {
	// UINT256_MAX survives parsing and compares exactly.
	uint256Max := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	almost := new(big.Int)
	almost.SetString(uint256Max, 10)
	almost.Sub(almost, big.NewInt(1))

	rvt := ReturnValueTest{Comparator: "==", Value: num(uint256Max)}
	ok, err := rvt.eval(num(uint256Max))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = rvt.eval(almost)
	require.NoError(t, err)
	require.False(t, ok)

	rvt = ReturnValueTest{Comparator: ">", Value: num("0")}
	ok, err = rvt.eval(num(uint256Max))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestReturnValueTestNumberNeverEqualsString(t *testing.T) {
	// The string "2" must not match the numeric result 2, in either
	// direction. String coercion here would loosen access control.
	rvt := ReturnValueTest{Comparator: "==", Value: "2"}
	ok, err := rvt.eval(num("2"))
	require.NoError(t, err)
	require.False(t, ok)

	rvt = ReturnValueTest{Comparator: "==", Value: num("2")}
	ok, err = rvt.eval("2")
	require.NoError(t, err)
	require.False(t, ok)

	rvt = ReturnValueTest{Comparator: "!=", Value: "2"}
	ok, err = rvt.eval(num("2"))
	require.NoError(t, err)
	require.True(t, ok)

	rvt = ReturnValueTest{Comparator: "==", Value: true}
	ok, err = rvt.eval(num("1"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReturnValueTestOrderingNeedsNumbers(t *testing.T) {
	rvt := ReturnValueTest{Comparator: ">", Value: num("1")}
	_, err := rvt.eval("not a number")
	require.ErrorIs(t, err, ErrEvaluationFailed)
}

func TestReturnValueTestKey(t *testing.T) {
	withKey := ReturnValueTest{Comparator: "==", Value: num("7"), Key: "balance"}
	ok, err := withKey.eval(map[string]interface{}{"balance": num("7")})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = withKey.eval(map[string]interface{}{"other": num("7")})
	require.ErrorIs(t, err, ErrEvaluationFailed)

	withIndex := ReturnValueTest{Comparator: "==", Value: num("7"), Key: num("1")}
	ok, err = withIndex.eval([]interface{}{num("3"), num("7")})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = withIndex.eval([]interface{}{num("3")})
	require.ErrorIs(t, err, ErrEvaluationFailed)
}

func TestReturnValueTestContextVariable(t *testing.T) {
	rvt := ReturnValueTest{Comparator: "==", Value: ":expectedBalance"}
	require.NoError(t, rvt.validate())

	resolved, err := rvt.withResolvedContext(Context{":expectedBalance": num("42")})
	require.NoError(t, err)
	ok, err := resolved.eval(num("42"))
	require.NoError(t, err)
	require.True(t, ok)

	_, err = rvt.withResolvedContext(Context{})
	require.ErrorIs(t, err, ErrRequiredContextVariable)
}

func TestReturnValueTestValidate(t *testing.T) {
	require.ErrorIs(t, (&ReturnValueTest{Comparator: "~", Value: num("1")}).validate(), ErrInvalidCondition)
	require.ErrorIs(t, (&ReturnValueTest{Comparator: "=="}).validate(), ErrInvalidCondition)
	require.ErrorIs(t, (&ReturnValueTest{Comparator: "==", Value: num("1"), Key: true}).validate(), ErrInvalidCondition)
	require.ErrorIs(t, (&ReturnValueTest{Comparator: "==", Value: num("1"), Key: num("1.5")}).validate(), ErrInvalidCondition)
	require.NoError(t, (&ReturnValueTest{Comparator: "==", Value: num("1"), Key: num("2")}).validate())
}
