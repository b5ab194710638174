package storycraft

import "github.com/storycraft/roller/internal/domain/character"

// RuleContext is what bonus rules read their source stat from
type RuleContext struct {
	Level      int
	Trained    bool
	Attributes character.Attributes
}

// ApplyBonusRule returns floor(source/each) * bonus, or 0 when the rule is
// disabled, each <= 0, or its condition fails.
func ApplyBonusRule(rule character.BonusRule, ctx RuleContext) int {
	if !rule.Enabled || rule.Each <= 0 {
		return 0
	}
	if rule.Condition == character.ConditionRequiresTrained && !ctx.Trained {
		return 0
	}

	var source int
	switch rule.Source {
	case character.SourceLevel:
		source = ctx.Level
	case character.SourceAttribute:
		source = ctx.Attributes.Get(rule.SourceAttribute)
	default:
		return 0
	}

	return floorDiv(source, rule.Each) * rule.Bonus
}

// SumBonusRules applies every rule independently and adds the results
func SumBonusRules(rules []character.BonusRule, ctx RuleContext) int {
	total := 0
	for _, rule := range rules {
		total += ApplyBonusRule(rule, ctx)
	}
	return total
}
