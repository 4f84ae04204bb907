// Package decay applies read-time temporal decay and reinforcement to
// stored salience scores. All computations are pure and stateless: the
// stored SalienceScore is never mutated, and the caller supplies age
// explicitly so there is no hidden clock.
package decay

import (
	"math"
	"strings"

	"github.com/haasonsaas/memorable/internal/config"
	"github.com/haasonsaas/memorable/pkg/models"
)

// Model computes effective salience from base score, age and access count.
type Model struct {
	cfg config.DecayConfig
}

// NewModel creates a decay model. Zero-valued config fields fall back to
// the engine defaults.
func NewModel(cfg config.DecayConfig) *Model {
	def := config.DefaultConfig().Decay
	if cfg.RatePerDay == 0 {
		cfg.RatePerDay = def.RatePerDay
	}
	if cfg.Floor == 0 {
		cfg.Floor = def.Floor
	}
	if cfg.BoostPerAccess == 0 {
		cfg.BoostPerAccess = def.BoostPerAccess
	}
	if cfg.MaxBoost == 0 {
		cfg.MaxBoost = def.MaxBoost
	}
	if cfg.AttentionThreshold == 0 {
		cfg.AttentionThreshold = def.AttentionThreshold
	}
	if cfg.ContextBoostMax == 0 {
		cfg.ContextBoostMax = def.ContextBoostMax
	}
	return &Model{cfg: cfg}
}

// Decay returns the age multiplier: linear decay to a floor. Memories fade
// from attention, not to zero.
func (m *Model) Decay(ageDays float64) float64 {
	if ageDays < 0 {
		ageDays = 0
	}
	d := 1.0 - ageDays*m.cfg.RatePerDay
	if d < m.cfg.Floor {
		return m.cfg.Floor
	}
	return d
}

// Boost returns the reinforcement multiplier for repeated access, capped.
func (m *Model) Boost(accessCount int) float64 {
	if accessCount < 0 {
		accessCount = 0
	}
	b := 1.0 + float64(accessCount)*m.cfg.BoostPerAccess
	if b > m.cfg.MaxBoost {
		return m.cfg.MaxBoost
	}
	return b
}

// EffectiveSalience returns base × decay(age) × boost(access), capped
// at 100.
func (m *Model) EffectiveSalience(base float64, ageDays float64, accessCount int) float64 {
	e := base * m.Decay(ageDays) * m.Boost(accessCount)
	if e > 100 {
		return 100
	}
	return e
}

// AttentionThreshold returns the configured fade threshold.
func (m *Model) AttentionThreshold() float64 {
	return m.cfg.AttentionThreshold
}

// DaysUntilBelowThreshold inverts the decay formula: how many days until a
// memory's effective score drops below the given threshold, holding access
// count fixed. Returns 0 when already below, and +Inf when the decay floor
// keeps the memory above the threshold forever.
func (m *Model) DaysUntilBelowThreshold(base float64, accessCount int, threshold float64) float64 {
	peak := base * m.Boost(accessCount)
	if peak < threshold {
		return 0
	}
	if peak*m.cfg.Floor >= threshold {
		return math.Inf(1)
	}
	if m.cfg.RatePerDay == 0 {
		return math.Inf(1)
	}
	// Solve peak × (1 - d×rate) = threshold for d.
	return (1 - threshold/peak) / m.cfg.RatePerDay
}

// ContextBoost returns the context-relevance multiplier in
// [1, ContextBoostMax], from topic and person overlap between a candidate
// and the current frame. Person overlap counts double.
func (m *Model) ContextBoost(candidate models.MemoryCandidate, frame models.ContextFrame) float64 {
	topicOverlap := jaccard(toSet(candidate.Topics), toSet(frame.Topics))
	personOverlap := jaccard(toSet(candidate.People), frame.PeopleSet())

	overlap := (topicOverlap + 2*personOverlap) / 3
	return 1 + overlap*(m.cfg.ContextBoostMax-1)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[normalize(item)] = struct{}{}
	}
	delete(set, "")
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var intersection int
	for item := range a {
		if _, ok := b[item]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
