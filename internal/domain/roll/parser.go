package roll

import (
	"fmt"

	"github.com/storycraft/roller/internal/dice"
	"github.com/storycraft/roller/internal/domain/character"
)

// ParseWarning reports dice/number field text that contributed zero
// because it could not be parsed
type ParseWarning struct {
	Text string
	Err  error
}

func (w *ParseWarning) Error() string {
	return fmt.Sprintf("ignored %q: %v", w.Text, w.Err)
}

func (w *ParseWarning) Unwrap() error {
	return w.Err
}

// ParseComponent turns the text of a dice/number field into components,
// one per signed term, so "1d20+3" yields a d20 and a flat 3. Malformed
// text becomes the number 0 with a warning.
func ParseComponent(text string) ([]character.Component, *ParseWarning) {
	parts, err := dice.ParseComposite(text)
	if err != nil {
		return []character.Component{character.NumberComponent(0, "")}, &ParseWarning{Text: text, Err: err}
	}

	components := make([]character.Component, 0, len(parts))
	for _, part := range parts {
		if part.Kind == dice.NotationDice {
			c := character.DiceComponent(part.Term.Count, part.Term.Sides)
			c.Subtract = part.Negative
			components = append(components, c)
			continue
		}
		value := part.Value
		if part.Negative {
			value = -value
		}
		components = append(components, character.NumberComponent(value, ""))
	}
	return components, nil
}
