// Package salience computes capture-time salience scores for memories.
package salience

import (
	"math"
	"time"

	"github.com/haasonsaas/memorable/pkg/models"
)

// Per-signal contributions to component scores. Each component is clamped
// to [0,100] after its signals are summed, so individual contributions may
// overshoot without breaking the invariant.
const (
	emotionalIntensityScale = 70.0
	emotionalPolarityScale  = 20.0
	emotionalEventBonus     = 15.0

	noveltyNoSimilarContext = 60.0
	noveltyUnusualTime      = 20.0
	noveltyUnusualLocation  = 20.0

	relevanceOverlapScale    = 80.0
	relevancePerCloseContact = 10.0

	socialPerPerson = 15.0
	socialPerEvent  = 20.0

	consequentialPerCommitment = 25.0
	consequentialPerDecision   = 20.0
	consequentialPerMoney      = 15.0
)

// Scorer turns extracted features into a SalienceScore. It is a pure
// function over its inputs and safe for concurrent use.
type Scorer struct {
	modifiers Modifier
}

// NewScorer creates a scorer with the given context modifier.
func NewScorer(modifiers Modifier) *Scorer {
	return &Scorer{modifiers: modifiers}
}

// Score computes the component scores and weighted total for one memory.
// Missing feature fields contribute zero signal; a partially extracted
// memory still receives a valid score.
func (s *Scorer) Score(features models.ExtractedFeatures, capture models.CaptureContext, weights models.SalienceWeights, now time.Time) models.SalienceScore {
	components := ComputeComponents(features, capture)
	adjusted := s.modifiers.Apply(capture.ContextType, weights)

	total := 0.0
	for _, name := range models.Components {
		total += components.Get(name) * adjusted.Get(name)
	}
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return models.SalienceScore{
		Total:      int(math.Round(total)),
		Components: components,
		Weights:    adjusted,
		Context:    capture,
		ScoredAt:   now,
	}
}

// ComputeComponents derives the five component scores from feature signals.
// Each component is independently clamped to [0,100].
func ComputeComponents(features models.ExtractedFeatures, capture models.CaptureContext) models.SalienceComponents {
	c := models.SalienceComponents{
		Emotional:     emotionalScore(features),
		Novelty:       noveltyScore(features, capture),
		Relevance:     relevanceScore(features),
		Social:        socialScore(features),
		Consequential: consequentialScore(features),
	}
	return c.Clamped()
}

func emotionalScore(f models.ExtractedFeatures) float64 {
	score := f.Sentiment.Intensity * emotionalIntensityScale
	score += math.Abs(f.Sentiment.Score) * emotionalPolarityScale
	score += float64(len(f.RelationshipEvents)) * emotionalEventBonus
	return score
}

func noveltyScore(f models.ExtractedFeatures, capture models.CaptureContext) float64 {
	var score float64
	if f.NoSimilarContext {
		score += noveltyNoSimilarContext
	}
	if capture.UnusualTime {
		score += noveltyUnusualTime
	}
	if capture.UnusualLocation {
		score += noveltyUnusualLocation
	}
	return score
}

func relevanceScore(f models.ExtractedFeatures) float64 {
	score := f.InterestOverlap * relevanceOverlapScale
	score += float64(f.CloseContactsPresent) * relevancePerCloseContact
	return score
}

func socialScore(f models.ExtractedFeatures) float64 {
	score := float64(len(f.People)) * socialPerPerson
	score += float64(len(f.RelationshipEvents)) * socialPerEvent
	return score
}

func consequentialScore(f models.ExtractedFeatures) float64 {
	score := float64(len(f.Commitments)) * consequentialPerCommitment
	score += float64(len(f.Decisions)) * consequentialPerDecision
	score += float64(f.MoneyMentions) * consequentialPerMoney
	return score
}
