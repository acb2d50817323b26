package dice_test

import (
	"errors"
	"testing"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want dice.Expression
	}{
		{"d6", dice.Expression{Raw: "d6", Count: 1, Sides: 6, Operator: dice.OpAdd}},
		{"3d6", dice.Expression{Raw: "3d6", Count: 3, Sides: 6, Operator: dice.OpAdd}},
		{"3d6+2", dice.Expression{Raw: "3d6+2", Count: 3, Sides: 6, Operator: dice.OpAdd, Operand: 2}},
		{"2d4-1", dice.Expression{Raw: "2d4-1", Count: 2, Sides: 4, Operator: dice.OpSub, Operand: 1}},
		{"2d6*10", dice.Expression{Raw: "2d6*10", Count: 2, Sides: 6, Operator: dice.OpMul, Operand: 10}},
		{"4d6//2", dice.Expression{Raw: "4d6//2", Count: 4, Sides: 6, Operator: dice.OpFloorDiv, Operand: 2}},
		{"4d6/2", dice.Expression{Raw: "4d6/2", Count: 4, Sides: 6, Operator: dice.OpFloorDiv, Operand: 2}},
		{"d1", dice.Expression{Raw: "d1", Count: 1, Sides: 1, Operator: dice.OpAdd}},
		{"2D8", dice.Expression{Raw: "2D8", Count: 2, Sides: 8, Operator: dice.OpAdd}},
		{"3d6+", dice.Expression{Raw: "3d6+", Count: 3, Sides: 6, Operator: dice.OpAdd}},
		{"2d4-", dice.Expression{Raw: "2d4-", Count: 2, Sides: 4, Operator: dice.OpAdd}},
		{"2d6//", dice.Expression{Raw: "2d6//", Count: 2, Sides: 6, Operator: dice.OpAdd}},
		{"d4*", dice.Expression{Raw: "d4*", Count: 1, Sides: 4, Operator: dice.OpAdd}},
		{"1000d1000000*1000000", dice.Expression{Raw: "1000d1000000*1000000", Count: 1000, Sides: 1000000, Operator: dice.OpMul, Operand: 1000000}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{
		"", "abc", "d", "3dd6", "3d", "6", "d0", "0d6", "3d6++2",
		"3d6+2x", "x3d6", "3 d6", "3d6 + 2", "d6//0", "-d6", "1001d6",
		"99999999999999999999d6", " 3d6 ", " d4", "3d6\n", "d1000001",
		"1000d9223372036854775807", "d6+1000001", "d6+99999999999999999999",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := dice.Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, dice.ErrFormat), "error must match ErrFormat: %v", err)
			assert.False(t, dice.Valid(in))
		})
	}
}

func TestMustParse_PanicsOnMalformed(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("3dd6") })
	assert.NotPanics(t, func() { dice.MustParse("3d6") })
}

func TestExpression_MinMax(t *testing.T) {
	e := dice.MustParse("2d4-1")
	assert.Equal(t, 1, e.Min())
	assert.Equal(t, 7, e.Max())

	e = dice.MustParse("d4*10")
	assert.Equal(t, 10, e.Min())
	assert.Equal(t, 40, e.Max())

	e = dice.MustParse("1000d1000000*1000000")
	assert.Equal(t, 1000*1000000, e.Min())
	assert.Equal(t, 1000*1000000*1000000, e.Max())
}

// Property: any well-formed NdM+K formula parses back into its components.
func TestParse_RoundTripsComponents(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(rt, "count")
		m := rapid.IntRange(1, 100).Draw(rt, "sides")
		k := rapid.IntRange(0, 50).Draw(rt, "operand")
		op := rapid.SampledFrom([]dice.Operator{dice.OpAdd, dice.OpSub, dice.OpMul}).Draw(rt, "op")

		formula := formatFormula(n, m, op, k)
		e, err := dice.Parse(formula)
		if err != nil {
			rt.Fatalf("Parse(%q): %v", formula, err)
		}
		if e.Count != n || e.Sides != m || e.Operator != op || e.Operand != k {
			rt.Fatalf("Parse(%q) = %+v", formula, e)
		}
	})
}
