package character

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/storycraft/roller/internal/domain/character"
	rerr "github.com/storycraft/roller/internal/errors"
)

// Format is a sheet document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", rerr.InvalidArgumentf("unknown sheet format %q", s)
}

// FormatFromPath picks the format from a file extension, JSON by default
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return FormatJSON
}

// DecodeSheet reads a sheet document
func DecodeSheet(data []byte, format Format) (*character.Character, error) {
	var char character.Character

	switch format {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &char); err != nil {
			return nil, rerr.WrapWithCode(err, rerr.CodeInvalidArgument, "invalid JSON sheet")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &char); err != nil {
			return nil, rerr.WrapWithCode(err, rerr.CodeInvalidArgument, "invalid YAML sheet")
		}
	default:
		return nil, rerr.InvalidArgumentf("unknown sheet format %q", format)
	}

	return &char, nil
}

// EncodeSheet writes a sheet document
func EncodeSheet(char *character.Character, format Format) ([]byte, error) {
	if char == nil {
		return nil, rerr.InvalidArgument("character is required")
	}

	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(char, "", "  ")
		if err != nil {
			return nil, rerr.Wrap(err, "failed to encode JSON sheet")
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(char)
		if err != nil {
			return nil, rerr.Wrap(err, "failed to encode YAML sheet")
		}
		return data, nil
	}
	return nil, rerr.InvalidArgumentf("unknown sheet format %q", format)
}
