// Package ranking turns semantic-search candidates into the final ranked
// list a caller surfaces to the user.
package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/haasonsaas/memorable/internal/appropriate"
	"github.com/haasonsaas/memorable/internal/config"
	"github.com/haasonsaas/memorable/internal/decay"
	"github.com/haasonsaas/memorable/internal/gate"
	"github.com/haasonsaas/memorable/internal/observability"
	"github.com/haasonsaas/memorable/pkg/models"
)

// Options scopes one ranking call. Now is injected so identical inputs
// always produce identical output.
type Options struct {
	// Limit caps the result count; 0 falls back to the configured
	// default.
	Limit int

	Focus models.TemporalFocus

	// Contact restricts candidates to those concerning one person.
	Contact string

	// Frame enables semantic gating and the context-relevance boost.
	Frame *models.ContextFrame

	// ContextEmbedding enables neural gating for candidates that carry
	// embeddings.
	ContextEmbedding []float64

	// Surfacing enables the appropriateness filter when set.
	Surfacing *models.SurfacingContext

	// Now is the reference time for age, deadlines and events.
	Now time.Time
}

// Ranker orchestrates decay, gating, appropriateness and bonus scoring.
// It owns no persistent state; every call is a pure transform over its
// inputs.
type Ranker struct {
	cfg     config.RankingConfig
	decay   *decay.Model
	gates   *gate.CompositeGate
	filter  *appropriate.Chain
	metrics *observability.Metrics
}

// NewRanker wires a ranker from its collaborators. metrics may be nil.
func NewRanker(cfg config.RankingConfig, decayModel *decay.Model, gates *gate.CompositeGate, filter *appropriate.Chain, metrics *observability.Metrics) *Ranker {
	return &Ranker{cfg: cfg, decay: decayModel, gates: gates, filter: filter, metrics: metrics}
}

// Rank scores, filters, sorts and truncates the candidate list.
func (r *Ranker) Rank(candidates []models.MemoryCandidate, opts Options) []models.ScoredMemory {
	limit := opts.Limit
	if limit <= 0 {
		limit = r.cfg.DefaultLimit
	}
	if opts.Focus == "" {
		opts.Focus = models.FocusDefault
	}

	candidates = r.scopeToContact(candidates, opts.Contact)

	if opts.Surfacing != nil {
		kept := candidates[:0:0]
		for _, cand := range candidates {
			res := r.filter.Evaluate(cand, *opts.Surfacing)
			if !res.Allowed {
				r.countFilterBlock(res.Rule)
				continue
			}
			kept = append(kept, cand)
		}
		candidates = kept
	}

	gateScores := r.gateScores(candidates, opts)
	if gateScores != nil {
		filtered := candidates[:0:0]
		for _, cand := range candidates {
			if _, ok := gateScores[cand.ID]; ok {
				filtered = append(filtered, cand)
			}
		}
		candidates = filtered
	}

	scored := make([]models.ScoredMemory, 0, len(candidates))
	for _, cand := range candidates {
		s := r.scoreCandidate(cand, opts)
		if gateScores != nil {
			s.GateScore = gateScores[cand.ID]
		}
		scored = append(scored, s)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Candidate.ID < scored[j].Candidate.ID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// scoreCandidate computes one candidate's final score with its decomposed
// contributions.
func (r *Ranker) scoreCandidate(cand models.MemoryCandidate, opts Options) models.ScoredMemory {
	ageDays := opts.Now.Sub(cand.CreatedAt).Hours() / 24

	decayFactor := r.decay.Decay(ageDays)
	boostFactor := r.decay.Boost(cand.AccessCount)
	effective := r.decay.EffectiveSalience(float64(cand.Salience), ageDays, cand.AccessCount)

	if opts.Frame != nil {
		effective *= r.decay.ContextBoost(cand, *opts.Frame)
		if effective > 100 {
			effective = 100
		}
	}

	score := cand.Similarity*r.cfg.SemanticWeight + (effective/100)*r.cfg.SalienceWeight

	bonuses := r.focusBonus(cand, ageDays, opts)
	bonuses += r.imminentEventBonus(cand, opts.Now)
	bonuses += r.deadlineBonus(cand, opts.Now)
	bonuses += r.engagedBonus(cand, opts.Now)

	score += bonuses
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	return models.ScoredMemory{
		Candidate:       cand,
		Score:           score,
		Similarity:      cand.Similarity,
		DecayedSalience: effective,
		DecayFactor:     decayFactor,
		BoostFactor:     boostFactor,
		AgeDays:         ageDays,
		Bonuses:         bonuses,
	}
}

// focusBonus rewards candidates matching the requested time horizon.
func (r *Ranker) focusBonus(cand models.MemoryCandidate, ageDays float64, opts Options) float64 {
	switch opts.Focus {
	case models.FocusRecent:
		if ageDays <= 3 {
			return r.cfg.RecentFocusBonus
		}
	case models.FocusThisWeek:
		if ageDays <= 7 {
			return r.cfg.ThisWeekFocusBonus
		}
	case models.FocusHistorical:
		if ageDays >= 30 {
			return r.cfg.HistoricalFocusBonus
		}
	case models.FocusUpcoming:
		if cand.HasOpenCommitment || (cand.EarliestDue != nil && cand.EarliestDue.After(opts.Now)) {
			return r.cfg.UpcomingFocusBonus
		}
	default:
		if ageDays <= 7 {
			return r.cfg.DefaultFocusBonus
		}
	}
	return 0
}

// imminentEventBonus rewards memories about someone the user is about to
// see.
func (r *Ranker) imminentEventBonus(cand models.MemoryCandidate, now time.Time) float64 {
	if cand.ContactNextEvent == nil {
		return 0
	}
	until := cand.ContactNextEvent.Sub(now)
	if until >= 0 && until <= r.cfg.ImminentEventWindow {
		return r.cfg.ImminentEventBonus
	}
	return 0
}

// deadlineBonus scales linearly with how close an open commitment's due
// date is, maxing out at the due moment. Overdue commitments keep the full
// bonus.
func (r *Ranker) deadlineBonus(cand models.MemoryCandidate, now time.Time) float64 {
	if !cand.HasOpenCommitment || cand.EarliestDue == nil {
		return 0
	}
	until := cand.EarliestDue.Sub(now)
	if until <= 0 {
		return r.cfg.DeadlineBonusMax
	}
	if until > r.cfg.DeadlineWindow {
		return 0
	}
	closeness := 1 - float64(until)/float64(r.cfg.DeadlineWindow)
	return r.cfg.DeadlineBonusMax * closeness
}

// engagedBonus rewards memories tied to an actively engaged relationship.
func (r *Ranker) engagedBonus(cand models.MemoryCandidate, now time.Time) float64 {
	if cand.ContactLastEngaged == nil {
		return 0
	}
	since := now.Sub(*cand.ContactLastEngaged)
	if since >= 0 && since <= r.cfg.EngagedWindow {
		return r.cfg.EngagedRelationshipBonus
	}
	return 0
}

func (r *Ranker) scopeToContact(candidates []models.MemoryCandidate, contact string) []models.MemoryCandidate {
	if contact == "" {
		return candidates
	}
	scoped := candidates[:0:0]
	for _, cand := range candidates {
		if strings.EqualFold(cand.Contact, contact) || containsFold(cand.People, contact) {
			scoped = append(scoped, cand)
		}
	}
	return scoped
}

func containsFold(items []string, target string) bool {
	for _, item := range items {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}

// gateScores runs the composite gate when the options carry any context to
// gate against, returning scores keyed by candidate id. A nil map means
// gating did not run.
func (r *Ranker) gateScores(candidates []models.MemoryCandidate, opts Options) map[string]float64 {
	hasFrame := opts.Frame != nil && !opts.Frame.IsEmpty()
	if len(opts.ContextEmbedding) == 0 && !hasFrame {
		return nil
	}

	req := gate.Request{ContextEmbedding: opts.ContextEmbedding}
	if opts.Frame != nil {
		req.Frame = *opts.Frame
	}

	results := r.gates.Filter(req, candidates)
	scores := make(map[string]float64, len(results))
	for _, res := range results {
		scores[res.Candidate.ID] = res.Score
		r.countGateDecision(string(res.Strategy), "pass")
	}
	// Only the neural strategy drops candidates outright.
	for i := len(results); i < len(candidates); i++ {
		r.countGateDecision(string(gate.StrategyNeural), "block")
	}
	return scores
}

func (r *Ranker) countFilterBlock(rule string) {
	if r.metrics != nil {
		r.metrics.FilterBlocks.WithLabelValues(rule).Inc()
	}
}

func (r *Ranker) countGateDecision(strategy, outcome string) {
	if r.metrics != nil {
		r.metrics.GateDecisions.WithLabelValues(strategy, outcome).Inc()
	}
}
