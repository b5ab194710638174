package character

// BonusSource is the stat a bonus rule scales with
type BonusSource string

const (
	SourceLevel     BonusSource = "level"
	SourceAttribute BonusSource = "attribute"
)

// BonusCondition gates a bonus rule
type BonusCondition string

const (
	ConditionAlways          BonusCondition = "always"
	ConditionRequiresTrained BonusCondition = "requires_trained"
)

// BonusRule grants Bonus for every Each units of its source stat,
// e.g. "+1 every 10 levels, only if trained".
type BonusRule struct {
	Enabled         bool           `json:"enabled" yaml:"enabled"`
	Bonus           int            `json:"bonus" yaml:"bonus"`
	Each            int            `json:"each" yaml:"each"`
	Source          BonusSource    `json:"source" yaml:"source"`
	SourceAttribute string         `json:"source_attribute,omitempty" yaml:"source_attribute,omitempty"`
	Condition       BonusCondition `json:"condition,omitempty" yaml:"condition,omitempty"`
}
