package character

// Skill is a skill definition with the attribute it rolls by default
type Skill struct {
	Name             string `json:"name" yaml:"name"`
	DefaultAttribute string `json:"default_attribute" yaml:"default_attribute"`
}

// SkillState is what the player set on the sheet for one skill
type SkillState struct {
	SelectedAttribute string      `json:"selected_attribute,omitempty" yaml:"selected_attribute,omitempty"`
	Trained           bool        `json:"trained,omitempty" yaml:"trained,omitempty"`
	OtherBonus        int         `json:"other_bonus,omitempty" yaml:"other_bonus,omitempty"`
	Rules             []BonusRule `json:"rules,omitempty" yaml:"rules,omitempty"`
}
