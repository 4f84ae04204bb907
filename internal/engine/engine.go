// Package engine is the library facade over the ranking pipeline: capture
// scoring, retrieval ranking, feedback recording and weight maintenance.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/haasonsaas/memorable/internal/appropriate"
	"github.com/haasonsaas/memorable/internal/config"
	"github.com/haasonsaas/memorable/internal/decay"
	"github.com/haasonsaas/memorable/internal/gate"
	"github.com/haasonsaas/memorable/internal/learning"
	"github.com/haasonsaas/memorable/internal/observability"
	"github.com/haasonsaas/memorable/internal/ranking"
	"github.com/haasonsaas/memorable/internal/salience"
	"github.com/haasonsaas/memorable/internal/store"
	"github.com/haasonsaas/memorable/pkg/models"
)

// Engine wires the scoring pipeline. All scoring paths are safe for
// concurrent use; the learner serializes writes per user internally.
type Engine struct {
	cfg     *config.Config
	store   *store.Store
	scorer  *salience.Scorer
	decay   *decay.Model
	ranker  *ranking.Ranker
	learner *learning.Learner
	logger  *observability.Logger
	metrics *observability.Metrics
}

// Options carries optional collaborators for New.
type Options struct {
	// Logger defaults to a text logger at the configured level.
	Logger *observability.Logger

	// Registry receives engine metrics; nil uses the default registerer.
	Registry prometheus.Registerer

	// Store overrides the sqlite store, used by tests.
	Store *store.Store
}

// New builds an engine from configuration.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = observability.NewLogger(observability.LogConfig{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	}
	metrics := observability.NewMetrics(opts.Registry)

	st := opts.Store
	if st == nil {
		cache := store.NewWeightCache(cfg.Store.CacheSize, cfg.Store.CacheTTL)
		var err error
		st, err = store.Open(cfg.Store.Path, cache)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	}

	decayModel := decay.NewModel(cfg.Decay)
	gates := gate.NewCompositeGate(
		gate.NewNeuralGate(cfg.Gate.Threshold),
		gate.NewSemanticGate(cfg.Gate.NeutralScore),
	)
	filter := appropriate.NewChain()

	return &Engine{
		cfg:     cfg,
		store:   st,
		scorer:  salience.NewScorer(salience.NewModifier(cfg.ContextModifiers)),
		decay:   decayModel,
		ranker:  ranking.NewRanker(cfg.Ranking, decayModel, gates, filter, metrics),
		learner: learning.NewLearner(st, cfg.Learning, logger, metrics),
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Close releases the underlying store.
func (e *Engine) Close() error {
	return e.store.Close()
}

// ScoreCapture is the ingestion path: one call per new memory. It resolves
// the user's effective weights (learned blended with defaults when
// confident enough), scores the features, and returns the immutable record
// for the caller to persist alongside the memory.
func (e *Engine) ScoreCapture(ctx context.Context, userID string, features models.ExtractedFeatures, capture models.CaptureContext, now time.Time) (models.SalienceScore, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	learned, err := e.store.GetLearnedWeights(ctx, userID)
	hasLearned := err == nil
	if err != nil && err != store.ErrNotFound {
		// Weight lookup failing must not block capture; degrade to
		// defaults and keep going.
		e.logger.Warn(ctx, "weight lookup failed, using defaults", "user", userID, "error", err)
		hasLearned = false
	}
	weights := learning.EffectiveWeights(learned, hasLearned, e.cfg.Learning)

	score := e.scorer.Score(features, capture, weights, now)
	e.metrics.CapturesScored.WithLabelValues(string(capture.ContextType)).Inc()
	e.logger.Debug(ctx, "scored capture",
		"user", userID, "total", score.Total, "context", capture.ContextType)
	return score, nil
}

// RetrieveRequest is one retrieval-path call.
type RetrieveRequest struct {
	UserID string

	// Query is the retrieval query text, recorded in the log.
	Query string

	// Candidates are pre-filtered semantic-search hits from storage.
	Candidates []models.MemoryCandidate

	Options ranking.Options
}

// Retrieve is the retrieval path: ranks the supplied candidates and logs
// each surfaced result so the feedback loop can close later. Returned
// results carry decomposed score contributions for explainability.
func (e *Engine) Retrieve(ctx context.Context, req RetrieveRequest) ([]models.ScoredMemory, []models.RetrievalLogEntry, error) {
	if req.Options.Now.IsZero() {
		req.Options.Now = time.Now().UTC()
	}
	start := time.Now()

	ranked := e.ranker.Rank(req.Candidates, req.Options)

	focus := req.Options.Focus
	if focus == "" {
		focus = models.FocusDefault
	}
	e.metrics.RetrievalsRanked.WithLabelValues(string(focus)).Inc()
	e.metrics.CandidatesRanked.Observe(float64(len(req.Candidates)))
	e.metrics.RankingDuration.Observe(time.Since(start).Seconds())

	logs := make([]models.RetrievalLogEntry, 0, len(ranked))
	for _, sm := range ranked {
		entry, err := e.store.AppendRetrieval(ctx, models.RetrievalLogEntry{
			UserID:      req.UserID,
			MemoryID:    sm.Candidate.ID,
			Query:       req.Query,
			Components:  sm.Candidate.Components,
			TotalScore:  sm.Candidate.Salience,
			RetrievedAt: req.Options.Now,
		})
		if err != nil {
			// Ranking succeeded; a logging failure degrades learning,
			// not retrieval.
			e.logger.Warn(ctx, "retrieval log append failed",
				"user", req.UserID, "memory", sm.Candidate.ID, "error", err)
			continue
		}
		logs = append(logs, entry)
	}

	e.logger.Debug(ctx, "ranked retrieval",
		"user", req.UserID, "candidates", len(req.Candidates), "returned", len(ranked))
	return ranked, logs, nil
}

// RecordFeedback is the feedback path: attaches an observed action or an
// explicit classification to a previously logged retrieval.
func (e *Engine) RecordFeedback(ctx context.Context, logID string, ledToAction bool, feedback models.Feedback) error {
	return e.learner.RecordOutcome(ctx, logID, ledToAction, feedback)
}

// Recalibrate is the single-user maintenance entry point.
func (e *Engine) Recalibrate(ctx context.Context, userID string) (models.LearnedWeights, bool, error) {
	return e.learner.Recalibrate(ctx, userID, time.Now().UTC())
}

// RecalibrateAll is the batch maintenance entry point, typically invoked
// by an external cron-like caller.
func (e *Engine) RecalibrateAll(ctx context.Context) (learning.BatchResult, error) {
	return e.learner.RecalibrateAll(ctx, time.Now().UTC())
}

// DaysUntilFade reports how long until a memory's effective salience falls
// below the attention threshold, +Inf when the decay floor keeps it above.
func (e *Engine) DaysUntilFade(base float64, accessCount int) float64 {
	return e.decay.DaysUntilBelowThreshold(base, accessCount, e.decay.AttentionThreshold())
}
