package learning

import (
	"github.com/haasonsaas/memorable/internal/config"
	"github.com/haasonsaas/memorable/pkg/models"
)

// EffectiveWeights resolves the weight vector the scorer should use for a
// user. Learned weights participate only once their confidence clears the
// configured minimum; they are then blended with the defaults by the
// learning rate (0 = always defaults, 1 = always learned). The result is
// normalized so the weight-sum invariant holds.
func EffectiveWeights(learned models.LearnedWeights, hasLearned bool, cfg config.LearningConfig) models.SalienceWeights {
	defaults := models.DefaultWeights()
	if !hasLearned || learned.Confidence < cfg.MinConfidence {
		return defaults
	}

	rate := cfg.LearningRate
	var blended models.SalienceWeights
	for _, name := range models.Components {
		blended.Set(name, defaults.Get(name)*(1-rate)+learned.Weights.Get(name)*rate)
	}
	return blended.Normalized()
}
