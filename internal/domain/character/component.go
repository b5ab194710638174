package character

import "github.com/storycraft/roller/internal/dice"

// ComponentType tags the variant held by a Component
type ComponentType string

const (
	ComponentDice         ComponentType = "dice"
	ComponentNumber       ComponentType = "number"
	ComponentAttribute    ComponentType = "attribute"
	ComponentCriticalDice ComponentType = "critical_dice"
	ComponentSkillCheck   ComponentType = "skill_check"
)

// DefaultCritThreshold is the d20 face that counts as a critical success
const DefaultCritThreshold = 20

// Component is one term of an action formula.
//
// Dice and number components may carry the raw field text instead of the
// structured value; the roll engine parses Text when it is set.
type Component struct {
	Type ComponentType `json:"type" yaml:"type"`
	Text string        `json:"text,omitempty" yaml:"text,omitempty"`

	Dice     dice.Term `json:"dice,omitempty" yaml:"dice,omitempty"`
	Subtract bool      `json:"subtract,omitempty" yaml:"subtract,omitempty"` // dice total counts against the roll
	Value    int       `json:"value,omitempty" yaml:"value,omitempty"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`

	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty"`

	CritThreshold   int    `json:"crit_threshold,omitempty" yaml:"crit_threshold,omitempty"`
	BonusAttribute  string `json:"bonus_attribute,omitempty" yaml:"bonus_attribute,omitempty"`
	BonusMultiplier int    `json:"bonus_multiplier,omitempty" yaml:"bonus_multiplier,omitempty"`

	Skill string `json:"skill,omitempty" yaml:"skill,omitempty"`
}

// DiceComponent builds a dice term such as 2d6
func DiceComponent(count, sides int) Component {
	return Component{Type: ComponentDice, Dice: dice.Term{Count: count, Sides: sides}}
}

// NumberComponent builds a flat number with an optional display label
func NumberComponent(value int, label string) Component {
	return Component{Type: ComponentNumber, Value: value, Label: label}
}

// AttributeComponent references an attribute of the character
func AttributeComponent(name string) Component {
	return Component{Type: ComponentAttribute, Attribute: name}
}

// CriticalDiceComponent adds term (and bonusAttribute × multiplier) only
// after a critical skill check.
func CriticalDiceComponent(term dice.Term, threshold int, bonusAttribute string, multiplier int) Component {
	return Component{
		Type:            ComponentCriticalDice,
		Dice:            term,
		CritThreshold:   threshold,
		BonusAttribute:  bonusAttribute,
		BonusMultiplier: multiplier,
	}
}

// SkillCheckComponent rolls a d20 test of skill once per action
func SkillCheckComponent(skill string, threshold int) Component {
	return Component{Type: ComponentSkillCheck, Skill: skill, CritThreshold: threshold}
}

// Threshold returns the crit threshold, defaulting to 20
func (c Component) Threshold() int {
	if c.CritThreshold <= 0 {
		return DefaultCritThreshold
	}
	return c.CritThreshold
}

// Multiplier returns the crit bonus attribute multiplier, defaulting to 1
func (c Component) Multiplier() int {
	if c.BonusMultiplier == 0 {
		return 1
	}
	return c.BonusMultiplier
}
