package character

import (
	"fmt"
	"strings"
)

// Resource is a spendable main attribute
type Resource string

const (
	ResourceNone Resource = ""
	ResourceHP   Resource = "hp"
	ResourceMP   Resource = "mp"
)

// ParseResource accepts "hp", "HP", "mp", "none" or "".
func ParseResource(s string) (Resource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ResourceNone, nil
	case "hp":
		return ResourceHP, nil
	case "mp":
		return ResourceMP, nil
	}
	return ResourceNone, fmt.Errorf("unknown resource %q", s)
}

// UnmarshalText normalizes legacy upper-case values
func (r *Resource) UnmarshalText(text []byte) error {
	parsed, err := ParseResource(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Pool is a current/max pair such as HP 12/20
type Pool struct {
	Current int `json:"current" yaml:"current"`
	Max     int `json:"max" yaml:"max"`
}

// MainAttributes holds the resources actions and buffs spend
type MainAttributes struct {
	HP Pool `json:"hp" yaml:"hp"`
	MP Pool `json:"mp" yaml:"mp"`
}
