package mockdice

import (
	"fmt"
	"sync"

	"github.com/storycraft/roller/internal/dice"
)

// ManualMockRoller implements dice.Roller for testing with predetermined results
type ManualMockRoller struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
	calls     int
}

// NewManualMockRoller creates a new mock dice roller
func NewManualMockRoller() *ManualMockRoller {
	return &ManualMockRoller{
		rolls: []int{},
	}
}

// SetNextRoll queues one more die face
func (m *ManualMockRoller) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetRolls replaces the queued die faces
func (m *ManualMockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// Reset clears all rolls, the index and the call counter
func (m *ManualMockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = []int{}
	m.rollIndex = 0
	m.calls = 0
}

// Calls returns how many times Roll was invoked
func (m *ManualMockRoller) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Remaining returns how many queued faces have not been consumed
func (m *ManualMockRoller) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rolls) - m.rollIndex
}

func (m *ManualMockRoller) getNextRoll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		return 0, fmt.Errorf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls))
	}

	roll := m.rolls[m.rollIndex]
	m.rollIndex++
	return roll, nil
}

// Roll implements dice.Roller.Roll
func (m *ManualMockRoller) Roll(count, sides, bonus int) (*dice.RollResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if count < 1 || sides < 1 {
		return nil, dice.ErrInvalidDice
	}

	rolls := make([]int, count)
	rawTotal := 0

	for i := 0; i < count; i++ {
		roll, err := m.getNextRoll()
		if err != nil {
			return nil, err
		}
		if roll < 1 || roll > sides {
			return nil, fmt.Errorf("invalid roll %d for d%d", roll, sides)
		}
		rolls[i] = roll
		rawTotal += roll
	}

	return &dice.RollResult{
		Count:    count,
		Sides:    sides,
		Rolls:    rolls,
		Bonus:    bonus,
		RawTotal: rawTotal,
		Total:    rawTotal + bonus,
	}, nil
}
