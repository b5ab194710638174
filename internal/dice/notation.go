package dice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparseable is returned for dice/number field text that is neither NdM
// notation nor an integer
var ErrUnparseable = errors.New("unparseable dice notation")

// NotationKind tells which shape a parsed dice/number field had
type NotationKind int

const (
	NotationNumber NotationKind = iota
	NotationDice
)

// Notation is the parsed content of a dice/number field
type Notation struct {
	Kind  NotationKind
	Term  Term // set when Kind == NotationDice
	Value int  // set when Kind == NotationNumber
}

var (
	diceNotationRegex   = regexp.MustCompile(`(?i)^(\d+)d(\d+)$`)
	numberNotationRegex = regexp.MustCompile(`^[+-]?\d+$`)
)

// ParseNotation parses "2d6", "10" or "-3". Blank text is the number zero.
// Anything else yields a zero Notation and an error wrapping ErrUnparseable
// (or ErrInvalidDice for terms like "0d6") so callers can warn and carry on.
func ParseNotation(text string) (Notation, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Notation{Kind: NotationNumber}, nil
	}

	if m := diceNotationRegex.FindStringSubmatch(s); m != nil {
		count, countErr := strconv.Atoi(m[1])
		sides, sidesErr := strconv.Atoi(m[2])
		if countErr != nil || sidesErr != nil {
			return Notation{Kind: NotationNumber}, fmt.Errorf("%w: %q", ErrUnparseable, text)
		}
		term := Term{Count: count, Sides: sides}
		if !term.Valid() {
			return Notation{Kind: NotationNumber}, fmt.Errorf("%w: %q", ErrInvalidDice, text)
		}
		return Notation{Kind: NotationDice, Term: term}, nil
	}

	if numberNotationRegex.MatchString(s) {
		value, err := strconv.Atoi(s)
		if err != nil {
			return Notation{Kind: NotationNumber}, fmt.Errorf("%w: %q", ErrUnparseable, text)
		}
		return Notation{Kind: NotationNumber, Value: value}, nil
	}

	return Notation{Kind: NotationNumber}, fmt.Errorf("%w: %q", ErrUnparseable, text)
}

// NotationPart is one signed term of a field such as "1d20+3"
type NotationPart struct {
	Notation
	Negative bool
}

var compositeTermRegex = regexp.MustCompile(`(?i)^\s*([+-]?)\s*(\d+d\d+|\d+)\s*`)

// ParseComposite splits a sum of dice and integers ("1d20+3", "2d6-1",
// "1d6+1d4") into signed terms. A lone term parses as ParseNotation does.
func ParseComposite(text string) ([]NotationPart, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return []NotationPart{{Notation: Notation{Kind: NotationNumber}}}, nil
	}

	var parts []NotationPart
	for rest := s; rest != ""; {
		m := compositeTermRegex.FindStringSubmatch(rest)
		if m == nil || (len(parts) > 0 && m[1] == "") {
			return nil, fmt.Errorf("%w: %q", ErrUnparseable, text)
		}

		notation, err := ParseNotation(m[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errors.Unwrap(err), text)
		}
		parts = append(parts, NotationPart{Notation: notation, Negative: m[1] == "-"})
		rest = rest[len(m[0]):]
	}
	return parts, nil
}
