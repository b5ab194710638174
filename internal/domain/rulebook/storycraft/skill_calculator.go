package storycraft

import "github.com/storycraft/roller/internal/domain/character"

// SkillBonusInput is everything a skill total depends on. State may be nil
// for a skill the player never touched.
type SkillBonusInput struct {
	Skill      character.Skill
	State      *character.SkillState
	Attributes character.Attributes
	Level      int
	RuleSet    RuleSet
	Overloaded bool // supplied by inventory, never computed here
}

// SkillBonus is a skill total with its parts
type SkillBonus struct {
	Attribute     string
	AttributeBase int
	Training      int
	Other         int
	Rules         int
	Overload      int
	Total         int
}

// SkillBonusCalculator computes d20 test bonuses
type SkillBonusCalculator struct{}

// NewSkillBonusCalculator creates a skill bonus calculator
func NewSkillBonusCalculator() *SkillBonusCalculator {
	return &SkillBonusCalculator{}
}

// Calculate returns attribute + training + other + bonus rules + overload
func (c *SkillBonusCalculator) Calculate(input *SkillBonusInput) *SkillBonus {
	if input == nil {
		return &SkillBonus{}
	}

	state := input.State
	if state == nil {
		state = &character.SkillState{}
	}

	attr := input.Skill.DefaultAttribute
	if state.SelectedAttribute != "" {
		attr = state.SelectedAttribute
	}

	ruleSet := input.RuleSet
	if ruleSet == "" {
		ruleSet = OpenSkillTraining
	}

	bonus := &SkillBonus{
		Attribute:     attr,
		AttributeBase: input.Attributes.Get(attr),
		Training:      ruleSet.TrainingBonus(input.Level, state.Trained),
		Other:         state.OtherBonus,
		Rules: SumBonusRules(state.Rules, RuleContext{
			Level:      input.Level,
			Trained:    state.Trained,
			Attributes: input.Attributes,
		}),
	}
	if input.Overloaded && IsOverloadSensitive(input.Skill.Name) {
		bonus.Overload = OverloadPenalty
	}

	bonus.Total = bonus.AttributeBase + bonus.Training + bonus.Other + bonus.Rules + bonus.Overload
	return bonus
}

// ForCharacter resolves the skill bonus of a sheet. Unknown skills fall back
// to a definition without default attribute, so only state bonuses count.
func (c *SkillBonusCalculator) ForCharacter(char *character.Character, skillName string) *SkillBonus {
	if char == nil {
		return &SkillBonus{}
	}

	skill, ok := LookupSkill(char, skillName)
	if !ok {
		skill = character.Skill{Name: skillName}
	}

	return c.Calculate(&SkillBonusInput{
		Skill:      skill,
		State:      char.SkillState(skillName),
		Attributes: char.AttributeSnapshot(),
		Level:      char.Level,
		RuleSet:    RuleSetFor(char.SystemVersion),
		Overloaded: char.Overloaded,
	})
}
