// Package storycraft holds the StoryCraft rule calculations: training
// bonuses per system version, conditional bonus rules and skill totals.
package storycraft

import "github.com/storycraft/roller/internal/domain/character"

// RuleSet selects how skill training scales with level. Both policies are
// live in deployed sheets, so they stay separate.
type RuleSet string

const (
	// OpenSkillTraining is the generic perk policy: 2 + floor(level/10)
	OpenSkillTraining RuleSet = "OPEN_SKILL_TRAINING"

	// FixedSkillTraining is the predefined skill list policy: 1 + floor(level/10)
	FixedSkillTraining RuleSet = "FIXED_SKILL_TRAINING"
)

// RuleSetFor maps a sheet's system version to its training policy.
// storycraft_v3 uses the fixed skill list; older sheets use open perks.
func RuleSetFor(version character.SystemVersion) RuleSet {
	if version == character.SystemStoryCraftV3 {
		return FixedSkillTraining
	}
	return OpenSkillTraining
}

// TrainingBonus returns the bonus a trained skill gets at level.
// Untrained skills get nothing.
func (r RuleSet) TrainingBonus(level int, trained bool) int {
	if !trained {
		return 0
	}
	base := 2
	if r == FixedSkillTraining {
		base = 1
	}
	return base + floorDiv(max(level, 0), 10)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
