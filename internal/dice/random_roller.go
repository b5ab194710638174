package dice

// randomRoller implements Roller on top of a Source
type randomRoller struct {
	src Source
}

// NewRandomRoller creates a dice roller drawing from src.
// A nil src falls back to crypto randomness.
func NewRandomRoller(src Source) Roller {
	if src == nil {
		src = NewCryptoSource()
	}
	return &randomRoller{src: src}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 || sides < 1 {
		return nil, ErrInvalidDice
	}

	rolls := make([]int, count)
	raw := 0
	for i := range rolls {
		rolls[i] = r.src.Intn(sides) + 1
		raw += rolls[i]
	}

	return &RollResult{
		Count:    count,
		Sides:    sides,
		Rolls:    rolls,
		Bonus:    bonus,
		RawTotal: raw,
		Total:    raw + bonus,
	}, nil
}
