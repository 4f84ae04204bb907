// Package learning adapts per-user salience weights from observed
// retrieval outcomes: if a user consistently acts on memories dominated by
// one component, that component earns more weight.
package learning

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/haasonsaas/memorable/internal/config"
	"github.com/haasonsaas/memorable/internal/observability"
	"github.com/haasonsaas/memorable/internal/store"
	"github.com/haasonsaas/memorable/pkg/models"
)

// Learner recalibrates learned weights from the retrieval log. It is the
// only writer of LearnedWeights; recalibration is serialized per user while
// different users proceed in parallel.
type Learner struct {
	store   *store.Store
	cfg     config.LearningConfig
	logger  *observability.Logger
	metrics *observability.Metrics

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// BatchResult reports a recalibrate-all sweep.
type BatchResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// NewLearner creates a learner. metrics may be nil.
func NewLearner(st *store.Store, cfg config.LearningConfig, logger *observability.Logger, metrics *observability.Metrics) *Learner {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &Learner{
		store:     st,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// Recalibrate recomputes one user's learned weights from their recent
// retrieval history. With fewer than the configured minimum samples it is
// a no-op: the prior weights (or defaults when none exist) come back
// unchanged and nothing is written.
func (l *Learner) Recalibrate(ctx context.Context, userID string, now time.Time) (models.LearnedWeights, bool, error) {
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	prior, err := l.store.GetLearnedWeights(ctx, userID)
	hasPrior := err == nil
	if err != nil && err != store.ErrNotFound {
		return models.LearnedWeights{}, false, fmt.Errorf("load prior weights: %w", err)
	}

	since := now.AddDate(0, 0, -l.cfg.WindowDays)
	entries, err := l.store.ListRetrievals(ctx, userID, since)
	if err != nil {
		return models.LearnedWeights{}, false, fmt.Errorf("load retrieval history: %w", err)
	}

	if len(entries) < l.cfg.MinSampleSize {
		l.logger.Debug(ctx, "recalibration skipped, insufficient samples",
			"user", userID, "samples", len(entries), "min", l.cfg.MinSampleSize)
		l.countRecalibration("skipped")
		if hasPrior {
			return prior, false, nil
		}
		return defaultLearned(userID), false, nil
	}

	weights := learnWeights(entries)
	updated := models.LearnedWeights{
		UserID:         userID,
		Weights:        weights,
		SampleSize:     len(entries),
		Confidence:     confidence(len(entries), l.cfg.ConfidenceSaturation),
		RecalculatedAt: now,
	}

	if err := l.store.PutLearnedWeights(ctx, updated); err != nil {
		l.countRecalibration("failed")
		return models.LearnedWeights{}, false, fmt.Errorf("store learned weights: %w", err)
	}

	l.logger.Info(ctx, "recalibrated weights",
		"user", userID, "samples", updated.SampleSize, "confidence", updated.Confidence)
	l.countRecalibration("updated")
	return updated, true, nil
}

// batchWorkers bounds concurrent per-user recalibrations in a sweep.
const batchWorkers = 4

// RecalibrateAll sweeps every user active inside the analysis window.
// Each user is an independent unit of work: one user's failure is counted
// and logged, never propagated as a sweep abort.
func (l *Learner) RecalibrateAll(ctx context.Context, now time.Time) (BatchResult, error) {
	since := now.AddDate(0, 0, -l.cfg.WindowDays)
	users, err := l.store.ActiveUsers(ctx, since)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list active users: %w", err)
	}

	var (
		mu     sync.Mutex
		result BatchResult
		wg     sync.WaitGroup
		sem    = make(chan struct{}, batchWorkers)
	)

	for _, userID := range users {
		wg.Add(1)
		sem <- struct{}{}
		go func(userID string) {
			defer wg.Done()
			defer func() { <-sem }()

			_, updated, err := l.Recalibrate(ctx, userID, now)

			mu.Lock()
			defer mu.Unlock()
			result.Processed++
			switch {
			case err != nil:
				result.Failed++
				l.logger.Error(ctx, "recalibration failed", "user", userID, "error", err)
			case updated:
				result.Updated++
			default:
				result.Skipped++
			}
		}(userID)
	}
	wg.Wait()

	l.logger.Info(ctx, "recalibration sweep complete",
		"processed", result.Processed, "updated", result.Updated,
		"skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// RecordOutcome closes the feedback loop: marks an existing log row as
// having led to action, optionally with an explicit classification. The
// only mutation path into the log besides the original append.
func (l *Learner) RecordOutcome(ctx context.Context, logID string, ledToAction bool, feedback models.Feedback) error {
	return l.store.MarkOutcome(ctx, logID, ledToAction, feedback)
}

func (l *Learner) userLock(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.userLocks[userID] = lock
	}
	return lock
}

func (l *Learner) countRecalibration(status string) {
	if l.metrics != nil {
		l.metrics.Recalibrations.WithLabelValues(status).Inc()
	}
}

// learnWeights measures the empirical action rate conditioned on which
// component dominated each retrieved memory, Laplace-smoothed so
// components with few observations drift toward neutral rather than zero,
// then normalizes the rates into a weight vector.
func learnWeights(entries []models.RetrievalLogEntry) models.SalienceWeights {
	counts := make(map[models.Component]float64, len(models.Components))
	actions := make(map[models.Component]float64, len(models.Components))

	for _, e := range entries {
		dominant := e.Components.Dominant()
		counts[dominant]++
		if acted(e) {
			actions[dominant]++
		}
	}

	var weights models.SalienceWeights
	for _, name := range models.Components {
		rate := (actions[name] + 1) / (counts[name] + 2)
		weights.Set(name, rate)
	}
	return weights.Normalized()
}

// acted treats explicit positive feedback like an observed action;
// explicit negative feedback overrides a recorded action.
func acted(e models.RetrievalLogEntry) bool {
	switch e.Feedback {
	case models.FeedbackHelpful:
		return true
	case models.FeedbackNotHelpful:
		return false
	}
	return e.LedToAction
}

// confidence saturates toward 1 as sample size grows.
func confidence(samples, saturation int) float64 {
	if saturation <= 0 {
		saturation = 50
	}
	return 1 - math.Exp(-float64(samples)/float64(saturation))
}

// defaultLearned is the zero-confidence record returned for users with no
// history: default weights, never persisted.
func defaultLearned(userID string) models.LearnedWeights {
	return models.LearnedWeights{
		UserID:  userID,
		Weights: models.DefaultWeights(),
	}
}
