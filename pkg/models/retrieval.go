package models

import "time"

// TemporalFocus biases ranking toward a time horizon.
type TemporalFocus string

const (
	FocusDefault    TemporalFocus = "default"
	FocusRecent     TemporalFocus = "recent"
	FocusThisWeek   TemporalFocus = "this_week"
	FocusHistorical TemporalFocus = "historical"
	FocusUpcoming   TemporalFocus = "upcoming"
)

// MemoryCandidate is one semantic-search hit supplied by the retrieval
// caller. The engine never mutates the underlying storage; any
// boost-on-retrieval write-back is the caller's concern.
type MemoryCandidate struct {
	ID string `json:"id"`

	// Similarity is the semantic similarity to the query, in [0,1].
	Similarity float64 `json:"similarity"`

	// Salience is the stored capture-time score.
	Salience   int                `json:"salience"`
	Components SalienceComponents `json:"components"`

	CreatedAt   time.Time `json:"created_at"`
	AccessCount int       `json:"access_count"`

	// Contact is the person this memory chiefly concerns, if any.
	Contact string `json:"contact,omitempty"`

	Topics []string `json:"topics,omitempty"`
	People []string `json:"people,omitempty"`

	// Frame is the capture-time context frame, when one was stored.
	Frame *ContextFrame `json:"frame,omitempty"`

	// Embedding is the memory's vector, when one exists. Candidates
	// without embeddings fall back to the semantic gate.
	Embedding []float64 `json:"-"`

	// HasOpenCommitment and EarliestDue drive the deadline-proximity
	// bonus during ranking.
	HasOpenCommitment bool       `json:"has_open_commitment,omitempty"`
	EarliestDue       *time.Time `json:"earliest_due,omitempty"`

	// ContactNextEvent is the contact's next calendar/timeline event,
	// when the caller knows one.
	ContactNextEvent *time.Time `json:"contact_next_event,omitempty"`

	// ContactLastEngaged is when the user last interacted with the
	// memory's contact.
	ContactLastEngaged *time.Time `json:"contact_last_engaged,omitempty"`

	// Sensitivity fields consumed by the appropriateness filter.
	PrivacyTier PrivacyTier   `json:"privacy_tier,omitempty"`
	Sensitivity []Sensitivity `json:"sensitivity,omitempty"`
}

// ScoredMemory is one ranked result, carrying the decomposed score
// contributions so callers can explain why a memory surfaced.
type ScoredMemory struct {
	Candidate MemoryCandidate `json:"candidate"`

	// Score is the final ranking score, clamped to [0,1].
	Score float64 `json:"score"`

	// Decomposed contributions.
	Similarity      float64 `json:"similarity"`
	DecayedSalience float64 `json:"decayed_salience"`
	DecayFactor     float64 `json:"decay_factor"`
	BoostFactor     float64 `json:"boost_factor"`
	AgeDays         float64 `json:"age_days"`

	// Bonuses is the sum of the additive adjustments applied on top of
	// the weighted base score.
	Bonuses float64 `json:"bonuses"`

	// GateScore is the context-gate score, when gating ran.
	GateScore float64 `json:"gate_score,omitempty"`
}
