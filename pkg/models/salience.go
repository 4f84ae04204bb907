// Package models defines the core data types for the MemoRable ranking engine.
package models

import (
	"math"
	"time"
)

// Component names the five salience dimensions scored at capture time.
type Component string

const (
	ComponentEmotional     Component = "emotional"
	ComponentNovelty       Component = "novelty"
	ComponentRelevance     Component = "relevance"
	ComponentSocial        Component = "social"
	ComponentConsequential Component = "consequential"
)

// Components lists the five dimensions in their canonical order.
var Components = []Component{
	ComponentEmotional,
	ComponentNovelty,
	ComponentRelevance,
	ComponentSocial,
	ComponentConsequential,
}

// SalienceComponents holds the five per-dimension scores, each in [0,100].
// All five fields are always present; a missing signal scores 0, never null.
type SalienceComponents struct {
	Emotional     float64 `json:"emotional"`
	Novelty       float64 `json:"novelty"`
	Relevance     float64 `json:"relevance"`
	Social        float64 `json:"social"`
	Consequential float64 `json:"consequential"`
}

// Get returns the score for a named component.
func (c SalienceComponents) Get(name Component) float64 {
	switch name {
	case ComponentEmotional:
		return c.Emotional
	case ComponentNovelty:
		return c.Novelty
	case ComponentRelevance:
		return c.Relevance
	case ComponentSocial:
		return c.Social
	case ComponentConsequential:
		return c.Consequential
	}
	return 0
}

// Set assigns the score for a named component.
func (c *SalienceComponents) Set(name Component, value float64) {
	switch name {
	case ComponentEmotional:
		c.Emotional = value
	case ComponentNovelty:
		c.Novelty = value
	case ComponentRelevance:
		c.Relevance = value
	case ComponentSocial:
		c.Social = value
	case ComponentConsequential:
		c.Consequential = value
	}
}

// Dominant returns the component with the highest score. Ties resolve to the
// earliest component in canonical order, keeping the result deterministic.
func (c SalienceComponents) Dominant() Component {
	best := Components[0]
	bestScore := c.Get(best)
	for _, name := range Components[1:] {
		if s := c.Get(name); s > bestScore {
			best = name
			bestScore = s
		}
	}
	return best
}

// Clamped returns a copy with every component clamped to [0,100].
func (c SalienceComponents) Clamped() SalienceComponents {
	return SalienceComponents{
		Emotional:     clamp(c.Emotional, 0, 100),
		Novelty:       clamp(c.Novelty, 0, 100),
		Relevance:     clamp(c.Relevance, 0, 100),
		Social:        clamp(c.Social, 0, 100),
		Consequential: clamp(c.Consequential, 0, 100),
	}
}

// SalienceWeights holds the per-component weights, each in [0,1]. The five
// weights must sum to ~1.0 (WeightSumTolerance) after modifiers are applied.
type SalienceWeights struct {
	Emotional     float64 `json:"emotional"`
	Novelty       float64 `json:"novelty"`
	Relevance     float64 `json:"relevance"`
	Social        float64 `json:"social"`
	Consequential float64 `json:"consequential"`
}

// WeightSumTolerance is the allowed deviation of a weight vector's sum
// from 1.0 before renormalization is required.
const WeightSumTolerance = 0.05

// DefaultWeights returns the baseline weight vector used before any
// per-user learning has taken place.
func DefaultWeights() SalienceWeights {
	return SalienceWeights{
		Emotional:     0.25,
		Novelty:       0.15,
		Relevance:     0.25,
		Social:        0.15,
		Consequential: 0.20,
	}
}

// Get returns the weight for a named component.
func (w SalienceWeights) Get(name Component) float64 {
	switch name {
	case ComponentEmotional:
		return w.Emotional
	case ComponentNovelty:
		return w.Novelty
	case ComponentRelevance:
		return w.Relevance
	case ComponentSocial:
		return w.Social
	case ComponentConsequential:
		return w.Consequential
	}
	return 0
}

// Set assigns the weight for a named component.
func (w *SalienceWeights) Set(name Component, value float64) {
	switch name {
	case ComponentEmotional:
		w.Emotional = value
	case ComponentNovelty:
		w.Novelty = value
	case ComponentRelevance:
		w.Relevance = value
	case ComponentSocial:
		w.Social = value
	case ComponentConsequential:
		w.Consequential = value
	}
}

// Sum returns the total of all five weights.
func (w SalienceWeights) Sum() float64 {
	return w.Emotional + w.Novelty + w.Relevance + w.Social + w.Consequential
}

// Normalized returns a copy scaled so the weights sum to 1.0. A zero vector
// normalizes to the default weights rather than dividing by zero.
func (w SalienceWeights) Normalized() SalienceWeights {
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights()
	}
	return SalienceWeights{
		Emotional:     w.Emotional / sum,
		Novelty:       w.Novelty / sum,
		Relevance:     w.Relevance / sum,
		Social:        w.Social / sum,
		Consequential: w.Consequential / sum,
	}
}

// NeedsNormalization reports whether the weight sum falls outside the
// accepted tolerance around 1.0.
func (w SalienceWeights) NeedsNormalization() bool {
	return math.Abs(w.Sum()-1.0) > WeightSumTolerance
}

// SalienceScore is the immutable record produced once per memory at capture
// time. Decay is a read-time transform; this record is never recomputed.
type SalienceScore struct {
	// Total is the weighted component sum, clamped to [0,100] and rounded.
	Total int `json:"total"`

	Components SalienceComponents `json:"components"`

	// Weights are the context-adjusted weights actually used for Total.
	Weights SalienceWeights `json:"weights"`

	Context CaptureContext `json:"context"`

	ScoredAt time.Time `json:"scored_at"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
