package character

import (
	"strings"
	"time"
)

// SystemVersion is the rules edition a sheet was created for
type SystemVersion string

const (
	SystemLegacy       SystemVersion = "legacy"
	SystemStoryCraft   SystemVersion = "storycraft"
	SystemStoryCraftV3 SystemVersion = "storycraft_v3"
)

// AttributeScore is an attribute split into the parts the sheet edits
// separately. Buff contributions are not stored; they come from active
// buffs at snapshot time.
type AttributeScore struct {
	Base      int `json:"base" yaml:"base"`
	Permanent int `json:"permanent,omitempty" yaml:"permanent,omitempty"`
	Equipment int `json:"equipment,omitempty" yaml:"equipment,omitempty"`
}

// Character is a StoryCraft character sheet
type Character struct {
	ID            string                     `json:"id" yaml:"id"`
	OwnerID       string                     `json:"owner_id" yaml:"owner_id"`
	Name          string                     `json:"name" yaml:"name"`
	SystemVersion SystemVersion              `json:"system_version" yaml:"system_version"`
	Level         int                        `json:"level" yaml:"level"`
	Attributes    map[string]*AttributeScore `json:"attributes" yaml:"attributes"`
	Main          MainAttributes             `json:"main" yaml:"main"`
	Buffs         []*ActiveBuff              `json:"buffs,omitempty" yaml:"buffs,omitempty"`
	Actions       []*Action                  `json:"actions,omitempty" yaml:"actions,omitempty"`
	Skills        []Skill                    `json:"skills,omitempty" yaml:"skills,omitempty"`
	SkillStates   map[string]*SkillState     `json:"skill_states,omitempty" yaml:"skill_states,omitempty"`
	Overloaded    bool                       `json:"overloaded,omitempty" yaml:"overloaded,omitempty"`
	CreatedAt     time.Time                  `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at" yaml:"updated_at"`
}

// AttributeSnapshot resolves every attribute to base + permanent + equipment
// + active buff attribute effects. The result is a fresh map.
func (c *Character) AttributeSnapshot() Attributes {
	snapshot := make(Attributes, len(c.Attributes))
	for name, score := range c.Attributes {
		if score == nil {
			continue
		}
		snapshot[name] = score.Base + score.Permanent + score.Equipment
	}

	for _, buff := range c.ActiveBuffs() {
		for _, effect := range buff.Effects {
			if effect.Type != EffectAttribute || effect.Target == "" {
				continue
			}
			name := snapshot.key(effect.Target)
			snapshot[name] += effect.Value.Int()
		}
	}

	return snapshot
}

// ActiveBuffs returns the buffs currently switched on, in sheet order
func (c *Character) ActiveBuffs() []*ActiveBuff {
	var active []*ActiveBuff
	for _, b := range c.Buffs {
		if b != nil && b.IsActive {
			active = append(active, b)
		}
	}
	return active
}

// FindAction looks an action up by name, ignoring case
func (c *Character) FindAction(name string) (*Action, bool) {
	for _, a := range c.Actions {
		if a != nil && strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return nil, false
}

// FindBuff looks a buff up by name, ignoring case
func (c *Character) FindBuff(name string) (*ActiveBuff, bool) {
	for _, b := range c.Buffs {
		if b != nil && strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return nil, false
}

// FindSkill returns the sheet's own definition of a skill
func (c *Character) FindSkill(name string) (Skill, bool) {
	for _, s := range c.Skills {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Skill{}, false
}

// SkillState returns the player's state for a skill, nil when untouched
func (c *Character) SkillState(name string) *SkillState {
	if state, ok := c.SkillStates[name]; ok {
		return state
	}
	for key, state := range c.SkillStates {
		if strings.EqualFold(key, name) {
			return state
		}
	}
	return nil
}
