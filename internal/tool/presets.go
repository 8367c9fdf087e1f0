package tool

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"sync"
)

//go:embed presets/*.lua
var presetFS embed.FS

// presetOrder is the order presets appear in the tool bar.
var presetOrder = []string{
	"pencil",
	"line",
	"centered-circle",
	"bezier",
	"spray",
	"graph",
	"triangle-strip",
	"arc-strip",
}

var (
	presetsOnce sync.Once
	presets     map[string]*Definition
	presetsErr  error
)

func loadPresets() {
	presets = make(map[string]*Definition)
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		presetsErr = err
		return
	}
	for _, e := range entries {
		data, err := presetFS.ReadFile(path.Join("presets", e.Name()))
		if err != nil {
			presetsErr = err
			return
		}
		def, err := Parse(string(data))
		if err != nil {
			presetsErr = fmt.Errorf("preset %s: %w", e.Name(), err)
			return
		}
		presets[def.ID] = def
	}
}

// Presets returns copies of the built-in tools in tool bar order.
func Presets() ([]*Definition, error) {
	presetsOnce.Do(loadPresets)
	if presetsErr != nil {
		return nil, presetsErr
	}

	ids := make([]string, 0, len(presets))
	for id := range presets {
		ids = append(ids, id)
	}
	rank := func(id string) int {
		for i, p := range presetOrder {
			if p == id {
				return i
			}
		}
		return len(presetOrder)
	}
	sort.Slice(ids, func(i, j int) bool {
		ri, rj := rank(ids[i]), rank(ids[j])
		if ri != rj {
			return ri < rj
		}
		return ids[i] < ids[j]
	})

	out := make([]*Definition, 0, len(ids))
	for _, id := range ids {
		out = append(out, presets[id].clone())
	}
	return out, nil
}

// Preset returns a copy of the built-in tool with the given id.
func Preset(id string) (*Definition, error) {
	presetsOnce.Do(loadPresets)
	if presetsErr != nil {
		return nil, presetsErr
	}
	def, ok := presets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
	}
	return def.clone(), nil
}

func (d *Definition) clone() *Definition {
	c := *d
	c.Parameters = append([]ParameterSpec(nil), d.Parameters...)
	return &c
}
