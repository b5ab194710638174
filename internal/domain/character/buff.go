package character

import (
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EffectType tells whether a buff effect changes an attribute or adds dice
type EffectType string

const (
	EffectAttribute EffectType = "attribute"
	EffectDice      EffectType = "dice"
)

// EffectValue is a buff effect value. Sheets store either a number ("2", 2)
// or dice notation ("1d4"), so it decodes from both JSON/YAML strings and
// numbers.
type EffectValue string

// Int returns the numeric value, zero for dice notation or garbage
func (v EffectValue) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(v)))
	if err != nil {
		return 0
	}
	return n
}

func (v *EffectValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = EffectValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = EffectValue(n.String())
	return nil
}

func (v *EffectValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{"buff effect value must be a scalar"}}
	}
	*v = EffectValue(node.Value)
	return nil
}

// BuffEffect is one passive contribution of a buff
type BuffEffect struct {
	Type   EffectType  `json:"type" yaml:"type"`
	Target string      `json:"target,omitempty" yaml:"target,omitempty"`
	Value  EffectValue `json:"value" yaml:"value"`
}

// ActiveBuff is a toggleable modifier attached to a character
type ActiveBuff struct {
	Name         string       `json:"name" yaml:"name"`
	IsActive     bool         `json:"is_active" yaml:"is_active"`
	Effects      []BuffEffect `json:"effects,omitempty" yaml:"effects,omitempty"`
	CostResource Resource     `json:"cost_resource,omitempty" yaml:"cost_resource,omitempty"`
	CostAmount   int          `json:"cost_amount,omitempty" yaml:"cost_amount,omitempty"`
}

// DiceEffects returns the effects that add to roll totals
func (b *ActiveBuff) DiceEffects() []BuffEffect {
	var out []BuffEffect
	for _, e := range b.Effects {
		if e.Type == EffectDice {
			out = append(out, e)
		}
	}
	return out
}
