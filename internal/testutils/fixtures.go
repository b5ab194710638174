package testutils

import (
	"github.com/storycraft/roller/internal/domain/character"
)

// CreateTestCharacter creates a StoryCraft sheet with a few attributes, a
// sneak attack action, a paid action and a rage buff
func CreateTestCharacter(id, ownerID, name string) *character.Character {
	return &character.Character{
		ID:            id,
		OwnerID:       ownerID,
		Name:          name,
		SystemVersion: character.SystemStoryCraft,
		Level:         12,
		Attributes: map[string]*character.AttributeScore{
			"Força":     {Base: 3, Equipment: 1},
			"Destreza":  {Base: 4},
			"Sabedoria": {Base: 1},
		},
		Main: character.MainAttributes{
			HP: character.Pool{Current: 20, Max: 20},
			MP: character.Pool{Current: 6, Max: 10},
		},
		Buffs: []*character.ActiveBuff{
			{
				Name:         "Fúria",
				CostResource: character.ResourceMP,
				CostAmount:   1,
				Effects: []character.BuffEffect{
					{Type: character.EffectAttribute, Target: "Força", Value: "2"},
					{Type: character.EffectDice, Value: "1d4"},
				},
			},
		},
		Actions: []*character.Action{
			{
				Name: "Ataque Furtivo",
				Components: []character.Component{
					character.SkillCheckComponent("Furtividade", 20),
					character.DiceComponent(1, 6),
					character.AttributeComponent("Destreza"),
				},
				DiscordText: "Golpe pelas costas",
			},
			{
				Name: "Bola de Fogo",
				Components: []character.Component{
					character.DiceComponent(2, 6),
					character.NumberComponent(2, "Foco"),
				},
				CostResource: character.ResourceMP,
				CostAmount:   3,
			},
		},
		SkillStates: map[string]*character.SkillState{
			"Furtividade": {Trained: true},
		},
	}
}
