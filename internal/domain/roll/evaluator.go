// Package roll evaluates character actions: it checks resource costs, rolls
// the action's formula, folds in buffs and criticals and renders the result
// for the roll feed and the chat webhook.
//
// Nothing in this package performs I/O. Randomness comes from the injected
// dice.Roller.
package roll

import (
	"fmt"
	"strconv"

	"github.com/storycraft/roller/internal/dice"
	"github.com/storycraft/roller/internal/domain/character"
	rerr "github.com/storycraft/roller/internal/errors"
)

// EvaluateInput is everything one evaluation reads. SkillBonus is the
// precomputed bonus of the action's skill check, if it has one.
type EvaluateInput struct {
	Action     *character.Action
	Attributes character.Attributes
	Buffs      []*character.ActiveBuff
	SkillBonus int
}

// Evaluator rolls actions. It keeps no state besides its roller.
type Evaluator struct {
	roller dice.Roller
}

// NewEvaluator creates an evaluator drawing dice from roller
func NewEvaluator(roller dice.Roller) *Evaluator {
	if roller == nil {
		roller = dice.NewRandomRoller(nil)
	}
	return &Evaluator{roller: roller}
}

// Evaluate rolls the action. The skill check is rolled once; without one,
// an action with no dice gets an implicit 1d20. Components then resolve in
// order for every multiplier iteration, and active buff dice effects are
// appended last in sheet order.
func (e *Evaluator) Evaluate(input *EvaluateInput) (*Result, error) {
	if input == nil || input.Action == nil {
		return nil, rerr.InvalidArgument("action is required")
	}
	action := input.Action

	res := &Result{Action: action.Name}

	if check, ok := action.SkillCheck(); ok {
		if err := e.rollSkillCheck(res, check, input.SkillBonus); err != nil {
			return nil, err
		}
	} else if !action.HasDice() {
		rolled, err := e.roller.Roll(1, 20, 0)
		if err != nil {
			return nil, rerr.Wrap(err, "failed to roll implicit d20")
		}
		res.add(BreakdownEntry{Label: rolled.Label(), Value: rolled.Total, Source: SourceImplicit})
	}

	for i := 0; i < action.Repeats(); i++ {
		for _, c := range action.Components {
			if err := e.resolve(res, c, input.Attributes); err != nil {
				return nil, err
			}
		}
	}

	for _, buff := range input.Buffs {
		if buff == nil || !buff.IsActive {
			continue
		}
		res.Buffs = append(res.Buffs, buff.Name)
		for _, effect := range buff.DiceEffects() {
			if err := e.resolveBuffEffect(res, buff.Name, effect); err != nil {
				return nil, err
			}
		}
	}

	for _, entry := range res.Breakdown {
		res.Total += entry.Value
	}
	if res.SkillCheck != nil && !action.HasRepeatable() {
		res.Total += res.SkillCheck.Total
	}

	res.ResourceDelta = ComputeResourceDelta(action, input.Buffs, res.Total)

	return res, nil
}

func (e *Evaluator) rollSkillCheck(res *Result, check character.Component, bonus int) error {
	rolled, err := e.roller.Roll(1, 20, bonus)
	if err != nil {
		return rerr.Wrapf(err, "failed to roll test of %s", check.Skill)
	}

	face := rolled.Rolls[0]
	res.SkillCheck = &SkillCheckResult{
		Skill:      check.Skill,
		Roll:       face,
		Bonus:      bonus,
		Total:      rolled.Total,
		Threshold:  check.Threshold(),
		IsCrit:     face >= check.Threshold(),
		IsCritFail: face == 1,
	}

	switch {
	case res.SkillCheck.IsCrit:
		res.CriticalNotes = append(res.CriticalNotes, fmt.Sprintf("Critical success on %s (d20: %d)", check.Skill, face))
	case res.SkillCheck.IsCritFail:
		res.CriticalNotes = append(res.CriticalNotes, fmt.Sprintf("Critical failure on %s (d20: 1)", check.Skill))
	}
	return nil
}

func (e *Evaluator) resolve(res *Result, c character.Component, attrs character.Attributes) error {
	switch c.Type {
	case character.ComponentDice, character.ComponentNumber:
		return e.resolveField(res, c, "", SourceAction)

	case character.ComponentAttribute:
		value := attrs.Get(c.Attribute)
		res.add(BreakdownEntry{
			Label:  fmt.Sprintf("%s(%d)", c.Attribute, value),
			Value:  value,
			Source: SourceAction,
		})
		return nil

	case character.ComponentCriticalDice:
		return e.resolveCritical(res, c, attrs)

	case character.ComponentSkillCheck:
		// rolled once before the multiplier loop
		return nil
	}

	res.warn(&ParseWarning{Text: string(c.Type), Err: fmt.Errorf("unknown component type")})
	return nil
}

// resolveField handles dice and number components, parsing Text when the
// sheet stored the raw field instead of a structured value.
func (e *Evaluator) resolveField(res *Result, c character.Component, prefix string, source EntrySource) error {
	if c.Text == "" {
		return e.resolveTerm(res, c, prefix, source)
	}

	parsed, warning := ParseComponent(c.Text)
	if warning != nil {
		res.warn(warning)
		return nil
	}
	for _, term := range parsed {
		term.Label = c.Label
		if err := e.resolveTerm(res, term, prefix, source); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) resolveTerm(res *Result, c character.Component, prefix string, source EntrySource) error {
	if c.Type == character.ComponentNumber {
		label := strconv.Itoa(c.Value)
		if c.Label != "" {
			label = fmt.Sprintf("%s(%d)", c.Label, c.Value)
		}
		res.add(BreakdownEntry{Label: prefix + label, Value: c.Value, Source: source})
		return nil
	}

	if !c.Dice.Valid() {
		res.warn(&ParseWarning{Text: c.Dice.String(), Err: dice.ErrInvalidDice})
		return nil
	}

	rolled, err := e.roller.Roll(c.Dice.Count, c.Dice.Sides, 0)
	if err != nil {
		return rerr.Wrapf(err, "failed to roll %s", c.Dice)
	}
	if c.Subtract {
		res.add(BreakdownEntry{Label: prefix + "-" + rolled.Label(), Value: -rolled.Total, Source: source})
		return nil
	}
	res.add(BreakdownEntry{Label: prefix + rolled.Label(), Value: rolled.Total, Source: source})
	return nil
}

func (e *Evaluator) resolveCritical(res *Result, c character.Component, attrs character.Attributes) error {
	check := res.SkillCheck
	if check == nil {
		return nil
	}
	crit := check.IsCrit
	if c.CritThreshold > 0 {
		crit = check.Roll >= c.CritThreshold
	}
	if !crit {
		return nil
	}

	if !c.Dice.Valid() {
		res.warn(&ParseWarning{Text: c.Dice.String(), Err: dice.ErrInvalidDice})
		return nil
	}

	rolled, err := e.roller.Roll(c.Dice.Count, c.Dice.Sides, 0)
	if err != nil {
		return rerr.Wrapf(err, "failed to roll critical %s", c.Dice)
	}
	res.add(BreakdownEntry{Label: "Crit " + rolled.Label(), Value: rolled.Total, Source: SourceCritical})
	note := fmt.Sprintf("Critical! +%s = %d", rolled.Label(), rolled.Total)

	if c.BonusAttribute != "" {
		attrValue := attrs.Get(c.BonusAttribute)
		bonus := attrValue * c.Multiplier()
		res.add(BreakdownEntry{
			Label:  fmt.Sprintf("Crit %s(%d)x%d", c.BonusAttribute, attrValue, c.Multiplier()),
			Value:  bonus,
			Source: SourceCritical,
		})
		note += fmt.Sprintf(", +%s(%d)x%d = %d", c.BonusAttribute, attrValue, c.Multiplier(), bonus)
	}

	res.CriticalNotes = append(res.CriticalNotes, note)
	return nil
}

func (e *Evaluator) resolveBuffEffect(res *Result, buffName string, effect character.BuffEffect) error {
	field := character.Component{Type: character.ComponentNumber, Text: string(effect.Value)}
	if field.Text == "" {
		return nil
	}
	return e.resolveField(res, field, fmt.Sprintf("[%s] ", buffName), SourceBuff)
}
