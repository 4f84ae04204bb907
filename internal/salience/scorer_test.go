package salience

import (
	"testing"
	"time"

	"github.com/haasonsaas/memorable/internal/config"
	"github.com/haasonsaas/memorable/pkg/models"
)

var testNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func newTestScorer() *Scorer {
	return NewScorer(NewModifier(config.DefaultModifierTable()))
}

func TestScoreEmptyFeatures(t *testing.T) {
	// A memory with nothing extracted still gets a valid score: every
	// component defaults to zero signal.
	score := newTestScorer().Score(models.ExtractedFeatures{}, models.CaptureContextAt(testNow), models.DefaultWeights(), testNow)

	if score.Total != 0 {
		t.Errorf("total = %d, want 0", score.Total)
	}
	if score.Components != (models.SalienceComponents{}) {
		t.Errorf("components = %+v, want all zero", score.Components)
	}
	if score.ScoredAt != testNow {
		t.Errorf("scored at = %v, want %v", score.ScoredAt, testNow)
	}
}

func TestScoreMaxedFeatures(t *testing.T) {
	due := testNow.AddDate(0, 0, 3)
	features := models.ExtractedFeatures{
		Sentiment:          models.Sentiment{Score: -1, Intensity: 1},
		People:             []string{"alan", "maya", "sam", "jo"},
		RelationshipEvents: []string{"conflict", "milestone"},
		Commitments: []models.Commitment{
			{Description: "send the deck", DueDate: &due},
			{Description: "book flights"},
		},
		Decisions:            []string{"quit", "move"},
		MoneyMentions:        1,
		InterestOverlap:      1,
		CloseContactsPresent: 2,
		NoSimilarContext:     true,
	}
	capture := models.CaptureContextAt(testNow)
	capture.UnusualTime = true
	capture.UnusualLocation = true

	score := newTestScorer().Score(features, capture, models.DefaultWeights(), testNow)

	want := models.SalienceComponents{Emotional: 100, Novelty: 100, Relevance: 100, Social: 100, Consequential: 100}
	if score.Components != want {
		t.Errorf("components = %+v, want all 100", score.Components)
	}
	if score.Total != 100 {
		t.Errorf("total = %d, want 100", score.Total)
	}
}

func TestScoreTotalInRange(t *testing.T) {
	tests := []struct {
		name     string
		features models.ExtractedFeatures
	}{
		{"nothing", models.ExtractedFeatures{}},
		{"sentiment only", models.ExtractedFeatures{Sentiment: models.Sentiment{Score: 0.9, Intensity: 0.8}}},
		{"people heavy", models.ExtractedFeatures{People: []string{"a", "b", "c", "d", "e", "f", "g", "h"}}},
		{"money heavy", models.ExtractedFeatures{MoneyMentions: 50}},
	}
	scorer := newTestScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := scorer.Score(tt.features, models.CaptureContextAt(testNow), models.DefaultWeights(), testNow)
			if score.Total < 0 || score.Total > 100 {
				t.Errorf("total = %d, want within [0,100]", score.Total)
			}
			for _, name := range models.Components {
				if v := score.Components.Get(name); v < 0 || v > 100 {
					t.Errorf("%s = %v, want within [0,100]", name, v)
				}
			}
		})
	}
}

func TestScoreUsesContextAdjustedWeights(t *testing.T) {
	features := models.ExtractedFeatures{
		Commitments: []models.Commitment{{Description: "follow up"}, {Description: "review"}},
		Decisions:   []string{"approved budget"},
	}

	capture := models.CaptureContextAt(testNow)
	capture.ContextType = models.ContextWorkMeeting
	meeting := newTestScorer().Score(features, capture, models.DefaultWeights(), testNow)

	capture.ContextType = models.ContextSocialEvent
	social := newTestScorer().Score(features, capture, models.DefaultWeights(), testNow)

	// Work meetings weigh consequential signals up; a consequential-heavy
	// memory must outrank its social-event twin.
	if meeting.Total <= social.Total {
		t.Errorf("work meeting total = %d, social event total = %d, want meeting higher", meeting.Total, social.Total)
	}
}

func TestScoreWeightsRecordedAreAdjusted(t *testing.T) {
	capture := models.CaptureContextAt(testNow)
	capture.ContextType = models.ContextFamily

	score := newTestScorer().Score(models.ExtractedFeatures{}, capture, models.DefaultWeights(), testNow)
	if score.Weights == models.DefaultWeights() {
		t.Error("recorded weights should reflect the family context adjustment")
	}
	if score.Weights.NeedsNormalization() {
		t.Errorf("recorded weights sum = %v, want ~1.0", score.Weights.Sum())
	}
}
