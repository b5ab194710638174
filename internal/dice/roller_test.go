package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/storycraft/roller/internal/dice"
	mockdice "github.com/storycraft/roller/internal/dice/mock"
)

func TestMockRoller_Roll(t *testing.T) {
	tests := []struct {
		name       string
		setupRolls []int
		count      int
		sides      int
		bonus      int
		wantTotal  int
		wantRolls  []int
		wantLabel  string
		wantErr    bool
	}{
		{
			name:       "single d20 roll",
			setupRolls: []int{15},
			count:      1,
			sides:      20,
			wantTotal:  15,
			wantRolls:  []int{15},
			wantLabel:  "1d20(15)",
		},
		{
			name:       "2d6+3",
			setupRolls: []int{4, 5},
			count:      2,
			sides:      6,
			bonus:      3,
			wantTotal:  12, // 4+5+3
			wantRolls:  []int{4, 5},
			wantLabel:  "2d6(4+5)",
		},
		{
			name:       "not enough rolls",
			setupRolls: []int{10},
			count:      2,
			sides:      6,
			wantErr:    true,
		},
		{
			name:       "invalid roll for die size",
			setupRolls: []int{7},
			count:      1,
			sides:      6,
			wantErr:    true,
		},
		{
			name:    "zero dice",
			count:   0,
			sides:   6,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.setupRolls)

			result, err := roller.Roll(tt.count, tt.sides, tt.bonus)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Equal(t, tt.wantRolls, result.Rolls)
			assert.Equal(t, tt.wantLabel, result.Label())
		})
	}
}

func TestMockRoller_SequentialRolls(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{20, 1, 8})

	result, err := roller.Roll(1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Total)

	result, err = roller.Roll(1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)

	result, err = roller.Roll(1, 8, 3)
	require.NoError(t, err)
	assert.Equal(t, 11, result.Total) // 8+3

	_, err = roller.Roll(1, 20, 0)
	assert.Error(t, err)
	assert.Equal(t, 4, roller.Calls())
}

func TestFixedRoller_CapsFaceToSides(t *testing.T) {
	roller := mockdice.NewFixedRoller(5)

	result, err := roller.Roll(3, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 4}, result.Rolls)
	assert.Equal(t, 12, result.Total)
	assert.Equal(t, 1, roller.Calls())
}

func TestRandomRoller_SumWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 50).Draw(rt, "count")
		sides := rapid.IntRange(1, 100).Draw(rt, "sides")
		seed := rapid.Int64().Draw(rt, "seed")

		roller := dice.NewRandomRoller(dice.NewSeededSource(seed))
		result, err := roller.Roll(count, sides, 0)
		require.NoError(rt, err)

		assert.Len(rt, result.Rolls, count)
		assert.GreaterOrEqual(rt, result.Total, count)
		assert.LessOrEqual(rt, result.Total, count*sides)
		for _, r := range result.Rolls {
			assert.GreaterOrEqual(rt, r, 1)
			assert.LessOrEqual(rt, r, sides)
		}
	})
}

func TestRandomRoller_SeededIsDeterministic(t *testing.T) {
	first, err := dice.NewRandomRoller(dice.NewSeededSource(42)).Roll(10, 6, 0)
	require.NoError(t, err)
	second, err := dice.NewRandomRoller(dice.NewSeededSource(42)).Roll(10, 6, 0)
	require.NoError(t, err)

	assert.Equal(t, first.Rolls, second.Rolls)
}

func TestRandomRoller_RejectsInvalidTerm(t *testing.T) {
	roller := dice.NewRandomRoller(nil)

	_, err := roller.Roll(0, 6, 0)
	assert.ErrorIs(t, err, dice.ErrInvalidDice)

	_, err = roller.Roll(1, 0, 0)
	assert.ErrorIs(t, err, dice.ErrInvalidDice)
}

func TestCryptoSource_Intn(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
	assert.Panics(t, func() { src.Intn(0) })
}

func TestLoggedRoller_LogsEachRoll(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(mockdice.NewFixedRoller(3), zap.New(core))

	_, err := roller.Roll(2, 6, 1)
	require.NoError(t, err)

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "2d6", fields["term"])
	assert.EqualValues(t, 7, fields["total"])
}
