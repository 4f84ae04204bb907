package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks the engine's scoring and maintenance activity.
//
// Registered against an injected registry so parallel tests never collide
// on the default global registerer.
type Metrics struct {
	// CapturesScored counts capture-time scoring calls.
	// Labels: context_type
	CapturesScored *prometheus.CounterVec

	// RetrievalsRanked counts ranking calls.
	// Labels: focus
	RetrievalsRanked *prometheus.CounterVec

	// CandidatesRanked observes candidate list sizes per ranking call.
	CandidatesRanked prometheus.Histogram

	// RankingDuration measures ranking latency in seconds.
	RankingDuration prometheus.Histogram

	// GateDecisions counts gate outcomes.
	// Labels: strategy (neural|semantic), outcome (pass|block)
	GateDecisions *prometheus.CounterVec

	// FilterBlocks counts appropriateness blocks by rule.
	FilterBlocks *prometheus.CounterVec

	// Recalibrations counts weight recalibrations.
	// Labels: status (updated|skipped|failed)
	Recalibrations *prometheus.CounterVec
}

// NewMetrics creates and registers the engine metrics. A nil registry
// falls back to the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		CapturesScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memorable_captures_scored_total",
			Help: "Capture-time salience scoring calls.",
		}, []string{"context_type"}),
		RetrievalsRanked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memorable_retrievals_ranked_total",
			Help: "Retrieval ranking calls.",
		}, []string{"focus"}),
		CandidatesRanked: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "memorable_candidates_per_ranking",
			Help:    "Candidate list sizes per ranking call.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		RankingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "memorable_ranking_duration_seconds",
			Help:    "Ranking latency.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		GateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memorable_gate_decisions_total",
			Help: "Context gate outcomes.",
		}, []string{"strategy", "outcome"}),
		FilterBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memorable_filter_blocks_total",
			Help: "Appropriateness filter blocks by rule.",
		}, []string{"rule"}),
		Recalibrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memorable_recalibrations_total",
			Help: "Adaptive weight recalibrations.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.CapturesScored,
		m.RetrievalsRanked,
		m.CandidatesRanked,
		m.RankingDuration,
		m.GateDecisions,
		m.FilterBlocks,
		m.Recalibrations,
	)
	return m
}
