package tool

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema returns a JSON schema accepting valid values for d's parameters.
func (d *Definition) Schema() map[string]any {
	props := make(map[string]any, len(d.Parameters))
	for _, p := range d.Parameters {
		prop := map[string]any{}
		switch p.Type {
		case ParamNumber:
			prop["type"] = "number"
			if p.Min != nil {
				prop["minimum"] = *p.Min
			}
			if p.Max != nil {
				prop["maximum"] = *p.Max
			}
		case ParamBoolean:
			prop["type"] = "boolean"
		default:
			prop["type"] = "string"
		}
		if p.Label != "" {
			prop["title"] = p.Label
		}
		props[p.Name] = prop
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

// Defaults returns each parameter's default value.
func (d *Definition) Defaults() map[string]any {
	out := make(map[string]any, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Default != nil {
			out[p.Name] = p.Default
		}
	}
	return out
}

// ResolveParameters merges overrides onto the defaults and validates the
// result against the parameter specs.
func (d *Definition) ResolveParameters(overrides map[string]any) (map[string]any, error) {
	values := d.Defaults()
	for k, v := range overrides {
		values[k] = v
	}

	sch, err := compileSchema(d.Schema())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	doc, err := normalize(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return values, nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	doc, err := normalize(schema)
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("parameters.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("parameters.json")
}

// normalize round-trips v through JSON so every value has a JSON type.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
