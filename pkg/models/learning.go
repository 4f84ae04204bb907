package models

import "time"

// LearnedWeights is a per-user weight vector derived from retrieval
// feedback. Written only by the weight learner; read by the scorer, which
// blends it with defaults based on confidence.
type LearnedWeights struct {
	UserID string `json:"user_id"`

	Weights SalienceWeights `json:"weights"`

	// SampleSize is the number of retrieval log rows the vector was
	// derived from.
	SampleSize int `json:"sample_size"`

	// Confidence grows with sample size and saturates at 1.0.
	Confidence float64 `json:"confidence"`

	RecalculatedAt time.Time `json:"recalculated_at"`
}

// Equal reports field-wise equality, the basis of the learner's
// "unchanged on insufficient data" guarantee.
func (l LearnedWeights) Equal(other LearnedWeights) bool {
	return l.UserID == other.UserID &&
		l.Weights == other.Weights &&
		l.SampleSize == other.SampleSize &&
		l.Confidence == other.Confidence &&
		l.RecalculatedAt.Equal(other.RecalculatedAt)
}

// Feedback classifies an explicit user reaction to a surfaced memory.
type Feedback string

const (
	FeedbackHelpful    Feedback = "helpful"
	FeedbackNotHelpful Feedback = "not_helpful"
	FeedbackNeutral    Feedback = "neutral"
)

// RetrievalLogEntry records one memory surfacing event. Append-only: the
// only permitted update is marking the action/feedback fields after the
// fact, since the triggering action may be observed later.
type RetrievalLogEntry struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	MemoryID string `json:"memory_id"`

	// Query is the retrieval query text, kept for analysis.
	Query string `json:"query,omitempty"`

	Components SalienceComponents `json:"components"`
	TotalScore int                `json:"total_score"`

	// LedToAction is set after the fact when the surfacing demonstrably
	// prompted the user to act.
	LedToAction bool `json:"led_to_action"`

	Feedback Feedback `json:"feedback,omitempty"`

	RetrievedAt time.Time `json:"retrieved_at"`
}
