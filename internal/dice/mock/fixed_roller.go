package mockdice

import (
	"sync/atomic"

	"github.com/storycraft/roller/internal/dice"
)

// FixedRoller implements dice.Roller by showing the same face on every die.
// Faces above the die size are capped to the die size.
type FixedRoller struct {
	face  int
	calls atomic.Int64
}

// NewFixedRoller creates a roller whose dice always land on face
func NewFixedRoller(face int) *FixedRoller {
	return &FixedRoller{face: face}
}

// Calls returns how many times Roll was invoked
func (f *FixedRoller) Calls() int {
	return int(f.calls.Load())
}

// Roll implements dice.Roller.Roll
func (f *FixedRoller) Roll(count, sides, bonus int) (*dice.RollResult, error) {
	f.calls.Add(1)
	if count < 1 || sides < 1 {
		return nil, dice.ErrInvalidDice
	}

	face := min(max(f.face, 1), sides)
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = face
	}

	return &dice.RollResult{
		Count:    count,
		Sides:    sides,
		Rolls:    rolls,
		Bonus:    bonus,
		RawTotal: face * count,
		Total:    face*count + bonus,
	}, nil
}
