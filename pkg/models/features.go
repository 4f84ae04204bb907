package models

import "time"

// Sentiment is the emotional read of a memory's content.
type Sentiment struct {
	// Score is the polarity in [-1,1]; sign is ignored by the scorer,
	// which cares about magnitude.
	Score float64 `json:"score"`

	// Intensity is the strength of the emotion in [0,1].
	Intensity float64 `json:"intensity"`
}

// Commitment is a promise or obligation detected in the content.
type Commitment struct {
	Description string     `json:"description"`
	Owner       string     `json:"owner,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// ExtractedFeatures is the structured output of upstream feature extraction.
// It is a closed struct rather than an open map so that the scorer's
// zero-signal-on-missing-field defaulting is checked at compile time. Every
// field is optional; the zero value contributes no signal.
type ExtractedFeatures struct {
	Sentiment Sentiment `json:"sentiment"`

	// People are named individuals mentioned in the content.
	People []string `json:"people,omitempty"`

	// RelationshipEvents are detected relationship moments, e.g.
	// "first_meeting", "conflict", "milestone".
	RelationshipEvents []string `json:"relationship_events,omitempty"`

	Commitments []Commitment `json:"commitments,omitempty"`

	// Decisions are choices the user made or recorded.
	Decisions []string `json:"decisions,omitempty"`

	// MoneyMentions counts financial references in the content.
	MoneyMentions int `json:"money_mentions,omitempty"`

	Topics []string `json:"topics,omitempty"`

	// InterestOverlap is the fraction [0,1] of the content matching the
	// user's stated interests and goals, as judged upstream.
	InterestOverlap float64 `json:"interest_overlap,omitempty"`

	// CloseContactsPresent counts mentioned people from the user's
	// close-contact list.
	CloseContactsPresent int `json:"close_contacts_present,omitempty"`

	// NoSimilarContext indicates no prior memory shares this context,
	// a novelty signal from upstream deduplication.
	NoSimilarContext bool `json:"no_similar_context,omitempty"`
}
