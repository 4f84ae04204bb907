package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/haasonsaas/memorable/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", NewWeightCache(16, time.Minute))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testWeights(userID string) models.LearnedWeights {
	return models.LearnedWeights{
		UserID: userID,
		Weights: models.SalienceWeights{
			Emotional: 0.30, Novelty: 0.10, Relevance: 0.25, Social: 0.15, Consequential: 0.20,
		},
		SampleSize:     42,
		Confidence:     0.57,
		RecalculatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLearnedWeightsRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	want := testWeights("u1")

	if err := s.PutLearnedWeights(ctx, want); err != nil {
		t.Fatalf("PutLearnedWeights: %v", err)
	}
	got, err := s.GetLearnedWeights(ctx, "u1")
	if err != nil {
		t.Fatalf("GetLearnedWeights: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetLearnedWeightsNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetLearnedWeights(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPutLearnedWeightsUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := testWeights("u1")
	if err := s.PutLearnedWeights(ctx, first); err != nil {
		t.Fatalf("first put: %v", err)
	}

	second := first
	second.Weights.Emotional = 0.40
	second.Weights.Relevance = 0.15
	second.SampleSize = 55
	if err := s.PutLearnedWeights(ctx, second); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := s.GetLearnedWeights(ctx, "u1")
	if err != nil {
		t.Fatalf("GetLearnedWeights: %v", err)
	}
	if !got.Equal(second) {
		t.Errorf("got %+v, want upserted %+v", got, second)
	}
}

func TestPutInvalidatesCache(t *testing.T) {
	cache := NewWeightCache(16, time.Minute)
	s, err := Open("", cache)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	first := testWeights("u1")
	if err := s.PutLearnedWeights(ctx, first); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Prime the cache.
	if _, err := s.GetLearnedWeights(ctx, "u1"); err != nil {
		t.Fatalf("get: %v", err)
	}

	second := first
	second.SampleSize = 99
	if err := s.PutLearnedWeights(ctx, second); err != nil {
		t.Fatalf("put updated: %v", err)
	}

	got, err := s.GetLearnedWeights(ctx, "u1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.SampleSize != 99 {
		t.Errorf("sample size = %d, want 99 (stale cache entry served)", got.SampleSize)
	}
}

func TestAppendRetrievalAssignsID(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.AppendRetrieval(context.Background(), models.RetrievalLogEntry{
		UserID:     "u1",
		MemoryID:   "m1",
		Query:      "what did maya say",
		TotalScore: 74,
	})
	if err != nil {
		t.Fatalf("AppendRetrieval: %v", err)
	}
	if entry.ID == "" {
		t.Error("entry ID not assigned")
	}
	if entry.RetrievedAt.IsZero() {
		t.Error("RetrievedAt not assigned")
	}
}

func TestMarkOutcome(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry, err := s.AppendRetrieval(ctx, models.RetrievalLogEntry{
		UserID: "u1", MemoryID: "m1",
		RetrievedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AppendRetrieval: %v", err)
	}

	if err := s.MarkOutcome(ctx, entry.ID, true, models.FeedbackHelpful); err != nil {
		t.Fatalf("MarkOutcome: %v", err)
	}

	entries, err := s.ListRetrievals(ctx, "u1", time.Time{})
	if err != nil {
		t.Fatalf("ListRetrievals: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if !entries[0].LedToAction {
		t.Error("LedToAction not recorded")
	}
	if entries[0].Feedback != models.FeedbackHelpful {
		t.Errorf("feedback = %q, want %q", entries[0].Feedback, models.FeedbackHelpful)
	}
}

func TestMarkOutcomeUnknownID(t *testing.T) {
	s := newTestStore(t)
	err := s.MarkOutcome(context.Background(), "no-such-row", true, models.FeedbackHelpful)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListRetrievalsWindowAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, day := range []int{1, 5, 20} {
		_, err := s.AppendRetrieval(ctx, models.RetrievalLogEntry{
			ID:          string(rune('a' + i)),
			UserID:      "u1",
			MemoryID:    "m1",
			RetrievedAt: base.AddDate(0, 0, day),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	// Noise from a second user.
	if _, err := s.AppendRetrieval(ctx, models.RetrievalLogEntry{
		UserID: "u2", MemoryID: "m2", RetrievedAt: base.AddDate(0, 0, 10),
	}); err != nil {
		t.Fatalf("append noise: %v", err)
	}

	entries, err := s.ListRetrievals(ctx, "u1", base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("ListRetrievals: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 inside the window", len(entries))
	}
	if !entries[0].RetrievedAt.Before(entries[1].RetrievedAt) {
		t.Errorf("entries not in ascending order: %v then %v", entries[0].RetrievedAt, entries[1].RetrievedAt)
	}
}

func TestActiveUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, row := range []struct {
		user string
		day  int
	}{
		{"beth", 2}, {"alan", 5}, {"alan", 6}, {"chris", -40},
	} {
		if _, err := s.AppendRetrieval(ctx, models.RetrievalLogEntry{
			UserID: row.user, MemoryID: "m", RetrievedAt: base.AddDate(0, 0, row.day),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	users, err := s.ActiveUsers(ctx, base)
	if err != nil {
		t.Fatalf("ActiveUsers: %v", err)
	}
	if len(users) != 2 || users[0] != "alan" || users[1] != "beth" {
		t.Errorf("users = %v, want [alan beth]", users)
	}
}
