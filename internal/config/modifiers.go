package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/haasonsaas/memorable/pkg/models"
)

// ModifierMap holds per-component weight multipliers for one context type.
// Absent components imply 1.0 (no change). Values typically run 0.6-1.4.
type ModifierMap map[models.Component]float64

// ModifierTable maps context types to their weight modifiers. The table is
// open: deployments may add context types beyond the six built-ins.
type ModifierTable map[models.ContextType]ModifierMap

// DefaultModifierTable returns the built-in six-entry table.
func DefaultModifierTable() ModifierTable {
	return ModifierTable{
		models.ContextWorkMeeting: {
			models.ComponentConsequential: 1.3,
			models.ComponentRelevance:     1.1,
			models.ComponentSocial:        0.8,
		},
		models.ContextSocialEvent: {
			models.ComponentSocial:        1.4,
			models.ComponentEmotional:     1.2,
			models.ComponentConsequential: 0.7,
		},
		models.ContextOneOnOne: {
			models.ComponentRelevance: 1.2,
			models.ComponentSocial:    1.2,
			models.ComponentEmotional: 1.1,
		},
		models.ContextNetworking: {
			models.ComponentNovelty:       1.3,
			models.ComponentConsequential: 1.2,
		},
		models.ContextFamily: {
			models.ComponentEmotional:     1.3,
			models.ComponentSocial:        1.2,
			models.ComponentRelevance:     1.1,
			models.ComponentConsequential: 0.8,
		},
		models.ContextDefault: {},
	}
}

// modifierTableSchema constrains table entries: known component names only,
// multipliers within a sane band.
const modifierTableSchema = `{
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "properties": {
      "emotional":     {"type": "number", "minimum": 0.1, "maximum": 3.0},
      "novelty":       {"type": "number", "minimum": 0.1, "maximum": 3.0},
      "relevance":     {"type": "number", "minimum": 0.1, "maximum": 3.0},
      "social":        {"type": "number", "minimum": 0.1, "maximum": 3.0},
      "consequential": {"type": "number", "minimum": 0.1, "maximum": 3.0}
    },
    "additionalProperties": false
  }
}`

var (
	modifierSchemaOnce sync.Once
	modifierSchema     *jsonschema.Schema
	modifierSchemaErr  error
)

func compiledModifierSchema() (*jsonschema.Schema, error) {
	modifierSchemaOnce.Do(func() {
		modifierSchema, modifierSchemaErr = jsonschema.CompileString(
			"context_modifiers", modifierTableSchema)
	})
	return modifierSchema, modifierSchemaErr
}

// Validate checks the table against the modifier schema.
func (t ModifierTable) Validate() error {
	schema, err := compiledModifierSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// Round-trip through JSON so the schema sees plain maps.
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("unmarshal table: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("invalid table: %w", err)
	}
	return nil
}

// Modifiers returns the map for a context type, falling back to no
// adjustment for unknown types.
func (t ModifierTable) Modifiers(ctx models.ContextType) ModifierMap {
	if m, ok := t[ctx]; ok {
		return m
	}
	return ModifierMap{}
}

// Multiplier returns the adjustment for one component, defaulting to 1.0.
func (m ModifierMap) Multiplier(name models.Component) float64 {
	if v, ok := m[name]; ok {
		return v
	}
	return 1.0
}
