package storycraft

import (
	"strings"

	"github.com/storycraft/roller/internal/domain/character"
)

// OverloadPenalty is applied to encumbrance-sensitive skills while the
// character carries more than its capacity
const OverloadPenalty = -5

// overloadSensitive lists the skills hit by OverloadPenalty
var overloadSensitive = map[string]bool{
	"furtividade": true,
	"acrobacia":   true,
}

// IsOverloadSensitive reports whether skill takes the overload penalty
func IsOverloadSensitive(skill string) bool {
	return overloadSensitive[strings.ToLower(skill)]
}

// FixedSkills is the predefined skill list of the StoryCraft system
var FixedSkills = []character.Skill{
	{Name: "Acrobacia", DefaultAttribute: "Destreza"},
	{Name: "Atletismo", DefaultAttribute: "Força"},
	{Name: "Enganação", DefaultAttribute: "Carisma"},
	{Name: "Furtividade", DefaultAttribute: "Destreza"},
	{Name: "Intimidação", DefaultAttribute: "Carisma"},
	{Name: "Intuição", DefaultAttribute: "Sabedoria"},
	{Name: "Investigação", DefaultAttribute: "Inteligência"},
	{Name: "Medicina", DefaultAttribute: "Sabedoria"},
	{Name: "Percepção", DefaultAttribute: "Sabedoria"},
	{Name: "Persuasão", DefaultAttribute: "Carisma"},
	{Name: "Prestidigitação", DefaultAttribute: "Destreza"},
	{Name: "Sobrevivência", DefaultAttribute: "Sabedoria"},
	{Name: "Vigor", DefaultAttribute: "Constituição"},
}

// LookupSkill finds a skill in the sheet's own list first, then in the
// fixed catalogue.
func LookupSkill(char *character.Character, name string) (character.Skill, bool) {
	if char != nil {
		if s, ok := char.FindSkill(name); ok {
			return s, true
		}
	}
	for _, s := range FixedSkills {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return character.Skill{}, false
}
