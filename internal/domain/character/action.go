package character

import "github.com/storycraft/roller/internal/dice"

// Action is a formula bundle the player runs from the sheet with one click
type Action struct {
	Name             string      `json:"name" yaml:"name"`
	Components       []Component `json:"components" yaml:"components"`
	Multiplier       int         `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	CostAmount       int         `json:"cost_amount,omitempty" yaml:"cost_amount,omitempty"`
	CostResource     Resource    `json:"cost_resource,omitempty" yaml:"cost_resource,omitempty"`
	CostIsRollResult bool        `json:"cost_is_roll_result,omitempty" yaml:"cost_is_roll_result,omitempty"`
	RecoverHP        bool        `json:"recover_hp,omitempty" yaml:"recover_hp,omitempty"`
	RecoverMP        bool        `json:"recover_mp,omitempty" yaml:"recover_mp,omitempty"`
	DiscordText      string      `json:"discord_text,omitempty" yaml:"discord_text,omitempty"`
}

// Repeats returns the multiplier, never less than one
func (a *Action) Repeats() int {
	if a.Multiplier < 1 {
		return 1
	}
	return a.Multiplier
}

// SkillCheck returns the first skill check component, if any
func (a *Action) SkillCheck() (Component, bool) {
	for _, c := range a.Components {
		if c.Type == ComponentSkillCheck {
			return c, true
		}
	}
	return Component{}, false
}

// HasDice reports whether any component rolls dice unconditionally. Number
// fields holding dice text ("1d4", "1d20+3") count; critical dice do not,
// since they only roll after a skill check.
func (a *Action) HasDice() bool {
	for _, c := range a.Components {
		switch c.Type {
		case ComponentDice:
			return true
		case ComponentNumber:
			parts, err := dice.ParseComposite(c.Text)
			if err != nil {
				continue
			}
			for _, part := range parts {
				if part.Kind == dice.NotationDice {
					return true
				}
			}
		}
	}
	return false
}

// HasRepeatable reports whether anything besides a skill check contributes
func (a *Action) HasRepeatable() bool {
	for _, c := range a.Components {
		if c.Type != ComponentSkillCheck {
			return true
		}
	}
	return false
}
