package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storycraft/roller/internal/dice"
	mockdice "github.com/storycraft/roller/internal/dice/mock"
)

func TestEvaluateFormula_FixedRolls(t *testing.T) {
	tests := []struct {
		name      string
		formula   string
		face      int
		wantTotal int
		wantExpr  string
		wantRolls int
	}{
		{name: "single die", formula: "1d6", face: 4, wantTotal: 4, wantExpr: "4", wantRolls: 1},
		{name: "dice plus flat", formula: "2d6+3", face: 5, wantTotal: 13, wantExpr: "10+3", wantRolls: 1},
		{name: "mixed terms", formula: "1d10+5+1d4", face: 2, wantTotal: 9, wantExpr: "2+5+2", wantRolls: 2},
		{name: "precedence", formula: "2+3*4", face: 1, wantTotal: 14, wantExpr: "2+3*4"},
		{name: "parentheses", formula: "(2+3)*4", face: 1, wantTotal: 20, wantExpr: "(2+3)*4"},
		{name: "floor division", formula: "7/2", face: 1, wantTotal: 3, wantExpr: "7/2"},
		{name: "negative floor division", formula: "-7/2", face: 1, wantTotal: -4, wantExpr: "-7/2"},
		{name: "unary minus", formula: "-1d6+10", face: 3, wantTotal: 7, wantExpr: "-3+10", wantRolls: 1},
		{name: "whitespace and uppercase", formula: " 1D8 + 2 ", face: 8, wantTotal: 10, wantExpr: "8+2", wantRolls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewFixedRoller(tt.face)

			result, err := dice.EvaluateFormula(tt.formula, roller)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Equal(t, tt.wantExpr, result.Expression)
			assert.Len(t, result.Rolls, tt.wantRolls)
			assert.Equal(t, tt.wantRolls, roller.Calls())
		})
	}
}

func TestEvaluateFormula_StripsForeignCharacters(t *testing.T) {
	roller := mockdice.NewFixedRoller(1)

	result, err := dice.EvaluateFormula("alert(1)+2", roller)
	require.NoError(t, err)
	assert.Equal(t, "(1)+2", result.Expression)
	assert.Equal(t, 3, result.Total)

	result, err = dice.EvaluateFormula("process.exit();1+1", roller)
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestEvaluateFormula_Errors(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		wantErr error
	}{
		{name: "empty", formula: "", wantErr: dice.ErrInvalidFormula},
		{name: "only letters", formula: "STR", wantErr: dice.ErrInvalidFormula},
		{name: "dangling operator", formula: "1d6+", wantErr: dice.ErrInvalidFormula},
		{name: "unbalanced", formula: "(1+2", wantErr: dice.ErrInvalidFormula},
		{name: "division by zero", formula: "5/0", wantErr: dice.ErrDivisionByZero},
		{name: "too many dice", formula: "5000d6", wantErr: dice.ErrInvalidDice},
		{name: "zero dice", formula: "0d6", wantErr: dice.ErrInvalidDice},
		{name: "numbers split by space", formula: "2 3", wantErr: dice.ErrInvalidFormula},
		{name: "dice then bare number", formula: "1d6 5", wantErr: dice.ErrInvalidFormula},
		{name: "numbers split by letters", formula: "2x3", wantErr: dice.ErrInvalidFormula},
		{name: "addition overflow", formula: "9223372036854775807+1", wantErr: dice.ErrInvalidFormula},
		{name: "subtraction overflow", formula: "-9223372036854775807-2", wantErr: dice.ErrInvalidFormula},
		{name: "multiplication overflow", formula: "4611686018427387904*2", wantErr: dice.ErrInvalidFormula},
		{name: "number out of range", formula: "99999999999999999999", wantErr: dice.ErrInvalidFormula},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dice.EvaluateFormula(tt.formula, mockdice.NewFixedRoller(1))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEvaluateFormula_RejectsGluedNumbersBeforeTotal(t *testing.T) {
	roller := mockdice.NewFixedRoller(4)

	result, err := dice.EvaluateFormula("1d6 5", roller)
	require.ErrorIs(t, err, dice.ErrInvalidFormula)
	assert.Nil(t, result)

	result, err = dice.EvaluateFormula("1d6 + 5", roller)
	require.NoError(t, err)
	assert.Equal(t, 9, result.Total)
}

func TestEvaluateFormula_LargeButInRange(t *testing.T) {
	result, err := dice.EvaluateFormula("4611686018427387903*2", mockdice.NewFixedRoller(1))
	require.NoError(t, err)
	assert.Equal(t, 9223372036854775806, result.Total)
}

func TestFormulaResult_Breakdown(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{7, 2})

	result, err := dice.EvaluateFormula("1d10+5+1d4", roller)
	require.NoError(t, err)
	assert.Equal(t, "1d10(7) + 1d4(2)", result.Breakdown())
	assert.Equal(t, 14, result.Total)
}
