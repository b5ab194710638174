package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDice is returned when a term has a count or side number below one
var ErrInvalidDice = errors.New("dice count and sides must be at least 1")

// Term is a single NdM dice expression such as 2d6
type Term struct {
	Count int `json:"count" yaml:"count"`
	Sides int `json:"sides" yaml:"sides"`
}

// Valid reports whether the term can be rolled
func (t Term) Valid() bool {
	return t.Count >= 1 && t.Sides >= 1
}

// String renders the term in NdM notation
func (t Term) String() string {
	return fmt.Sprintf("%dd%d", t.Count, t.Sides)
}

// RollResult holds the individual dice and totals of one Roll call
type RollResult struct {
	Count    int   `json:"count"`
	Sides    int   `json:"sides"`
	Rolls    []int `json:"rolls"`
	Bonus    int   `json:"bonus,omitempty"`
	RawTotal int   `json:"raw_total"` // sum of Rolls
	Total    int   `json:"total"`     // RawTotal + Bonus
}

// Term returns the dice term this result was rolled from
func (r *RollResult) Term() Term {
	return Term{Count: r.Count, Sides: r.Sides}
}

// Label renders the result as "2d6(3+5)", the format used in roll breakdowns
func (r *RollResult) Label() string {
	parts := make([]string, len(r.Rolls))
	for i, roll := range r.Rolls {
		parts[i] = strconv.Itoa(roll)
	}
	return fmt.Sprintf("%s(%s)", r.Term(), strings.Join(parts, "+"))
}

// String renders the result for logs and chat messages
func (r *RollResult) String() string {
	if r.Bonus == 0 {
		return fmt.Sprintf("%s = **%d**", r.Label(), r.Total)
	}
	return fmt.Sprintf("%s%+d = **%d**", r.Label(), r.Bonus, r.Total)
}
