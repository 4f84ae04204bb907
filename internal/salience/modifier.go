package salience

import (
	"github.com/haasonsaas/memorable/internal/config"
	"github.com/haasonsaas/memorable/pkg/models"
)

// Modifier adjusts a base weight vector for the context a memory was
// captured in, e.g. consequential signals weigh more in a work meeting.
type Modifier struct {
	table config.ModifierTable
}

// NewModifier creates a modifier over the given table.
func NewModifier(table config.ModifierTable) Modifier {
	if table == nil {
		table = config.DefaultModifierTable()
	}
	return Modifier{table: table}
}

// Apply multiplies the base weights by the context's modifier map, then
// renormalizes when the adjusted sum drifts outside tolerance so the weight
// invariant (sum ~1.0) holds for downstream scoring.
func (m Modifier) Apply(ctx models.ContextType, base models.SalienceWeights) models.SalienceWeights {
	mods := m.table.Modifiers(ctx)

	adjusted := base
	for _, name := range models.Components {
		adjusted.Set(name, base.Get(name)*mods.Multiplier(name))
	}

	if adjusted.NeedsNormalization() {
		adjusted = adjusted.Normalized()
	}
	return adjusted
}
