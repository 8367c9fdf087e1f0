package tool

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ParamType is the value type of a tool parameter.
type ParamType string

const (
	ParamNumber  ParamType = "number"
	ParamColor   ParamType = "color"
	ParamBoolean ParamType = "boolean"
	ParamString  ParamType = "string"
)

// ParameterSpec declares a value a tool exposes for tuning.
type ParameterSpec struct {
	Name    string    `yaml:"name"`
	Type    ParamType `yaml:"type"`
	Default any       `yaml:"default,omitempty"`
	Min     *float64  `yaml:"min,omitempty"`
	Max     *float64  `yaml:"max,omitempty"`
	Label   string    `yaml:"label,omitempty"`
}

// Definition is a tool: its script plus the metadata shown in the UI.
type Definition struct {
	ID         string          `yaml:"id"`
	Label      string          `yaml:"label"`
	Icon       string          `yaml:"icon,omitempty"`
	Parameters []ParameterSpec `yaml:"parameters,omitempty"`

	// Code is the script without its metadata block.
	Code string `yaml:"-"`
}

// Parse reads a script with an optional metadata block. Without one the
// definition carries only Code.
func Parse(src string) (*Definition, error) {
	meta, code, ok := SplitMeta(src)
	def := &Definition{Code: code}
	if !ok {
		return def, nil
	}
	if err := yaml.Unmarshal([]byte(meta), def); err != nil {
		return nil, fmt.Errorf("tool: parse metadata: %w", err)
	}
	if err := def.validateSpecs(); err != nil {
		return nil, err
	}
	return def, nil
}

// Export serializes the definition with its metadata block.
func (d *Definition) Export() (string, error) {
	meta, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("tool: encode metadata: %w", err)
	}
	return JoinMeta(string(meta), d.Code), nil
}

// Parameter returns the spec with the given name.
func (d *Definition) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

func (d *Definition) validateSpecs() error {
	seen := make(map[string]bool, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: parameter without a name", ErrInvalidParameter)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidParameter, p.Name)
		}
		seen[p.Name] = true
		switch p.Type {
		case ParamNumber, ParamColor, ParamBoolean, ParamString:
		default:
			return fmt.Errorf("%w: %s has unknown type %q", ErrInvalidParameter, p.Name, p.Type)
		}
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			return fmt.Errorf("%w: %s has min above max", ErrInvalidParameter, p.Name)
		}
	}
	return nil
}

const newToolCode = `local BLACK = "#282a2e"
local GUIDE = "#3e999f"
local WHITE = "#f9faf9"

function begin(e)
end

function press(e)
end

function release(e)
end

function move(e)
end

function drag(e)
end

_G["end"] = function(e)
end
`

// New returns an empty tool with a fresh id and a stub for every
// lifecycle callback.
func New() *Definition {
	return &Definition{
		ID:    newID(),
		Label: "New Tool",
		Icon:  "N",
		Code:  newToolCode,
	}
}

// newID returns a short random tool id.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
