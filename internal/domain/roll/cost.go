package roll

import (
	"fmt"
	"strings"

	"github.com/storycraft/roller/internal/domain/character"
)

// InsufficientResourcesError blocks an action the character cannot pay for
type InsufficientResourcesError struct {
	Needed    ResourceCost
	Available ResourceCost
}

func (e *InsufficientResourcesError) Error() string {
	var missing []string
	if e.Needed.HP > e.Available.HP {
		missing = append(missing, fmt.Sprintf("%d HP (have %d)", e.Needed.HP, e.Available.HP))
	}
	if e.Needed.MP > e.Available.MP {
		missing = append(missing, fmt.Sprintf("%d MP (have %d)", e.Needed.MP, e.Available.MP))
	}
	return "insufficient resources: need " + strings.Join(missing, " and ")
}

// RequiredResources sums what an action and the maintenance of active buffs
// cost before anything is rolled. A cost equal to the roll result is not
// known yet and never blocks.
func RequiredResources(action *character.Action, buffs []*character.ActiveBuff) ResourceCost {
	var needed ResourceCost
	if action != nil && !action.CostIsRollResult {
		needed.addTo(action.CostResource, action.CostAmount)
	}
	for _, b := range buffs {
		if b != nil && b.IsActive {
			needed.addTo(b.CostResource, b.CostAmount)
		}
	}
	return needed
}

// CheckAffordability returns an *InsufficientResourcesError when current HP
// or MP is below what the action and active buffs need. It must run before
// any dice are rolled.
func CheckAffordability(action *character.Action, buffs []*character.ActiveBuff, currentHP, currentMP int) error {
	needed := RequiredResources(action, buffs)
	if needed.HP > currentHP || needed.MP > currentMP {
		return &InsufficientResourcesError{
			Needed:    needed,
			Available: ResourceCost{HP: currentHP, MP: currentMP},
		}
	}
	return nil
}

// ComputeResourceDelta returns what executing the action does to HP and MP
// once its total is known. With CostIsRollResult the cost is -total, so a
// positive roll gives the resource back.
func ComputeResourceDelta(action *character.Action, buffs []*character.ActiveBuff, total int) ResourceDelta {
	var delta ResourceDelta
	if action == nil {
		return delta
	}

	cost := action.CostAmount
	if action.CostIsRollResult {
		cost = -total
	}
	delta.Spent.addTo(action.CostResource, cost)

	for _, b := range buffs {
		if b != nil && b.IsActive {
			delta.Spent.addTo(b.CostResource, b.CostAmount)
		}
	}

	if action.RecoverHP {
		delta.Recovered.HP += total
	}
	if action.RecoverMP {
		delta.Recovered.MP += total
	}
	return delta
}

// ApplyResourceDelta returns main with the delta applied and both current
// values clamped to [0, max].
func ApplyResourceDelta(main character.MainAttributes, delta ResourceDelta) character.MainAttributes {
	main.HP.Current = clamp(main.HP.Current+delta.HP(), 0, main.HP.Max)
	main.MP.Current = clamp(main.MP.Current+delta.MP(), 0, main.MP.Max)
	return main
}

func (c *ResourceCost) addTo(resource character.Resource, amount int) {
	switch resource {
	case character.ResourceHP:
		c.HP += amount
	case character.ResourceMP:
		c.MP += amount
	}
}

func clamp(v, lo, hi int) int {
	hi = max(hi, lo)
	return min(max(v, lo), hi)
}
