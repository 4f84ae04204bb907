package gate

import (
	"sort"

	"github.com/haasonsaas/memorable/pkg/models"
)

// Strategy names which gate scored a candidate.
type Strategy string

const (
	StrategyNeural   Strategy = "neural"
	StrategySemantic Strategy = "semantic"
)

// Result is one gated candidate with its score and the strategy that
// produced it.
type Result struct {
	Candidate models.MemoryCandidate `json:"candidate"`
	Score     float64                `json:"score"`
	Strategy  Strategy               `json:"strategy"`
}

// Request carries the current situational context for a gating pass.
type Request struct {
	// ContextEmbedding enables the neural strategy when present.
	ContextEmbedding []float64

	// Frame drives the semantic strategy.
	Frame models.ContextFrame

	// Limit truncates the merged result set; 0 means no truncation.
	Limit int
}

// CompositeGate prefers the neural strategy per candidate when both the
// context and candidate embeddings are available, falling back to the
// semantic strategy otherwise. The strategy is resolved once per candidate
// up front rather than through scattered nil checks during scoring.
type CompositeGate struct {
	neural   *NeuralGate
	semantic *SemanticGate
}

// NewCompositeGate wires the two strategies together.
func NewCompositeGate(neural *NeuralGate, semantic *SemanticGate) *CompositeGate {
	return &CompositeGate{neural: neural, semantic: semantic}
}

// Filter scores all candidates, drops neural-scored candidates below the
// gate threshold, merges the two result sets, re-sorts by score descending
// and truncates to the requested count.
func (g *CompositeGate) Filter(req Request, candidates []models.MemoryCandidate) []Result {
	results := make([]Result, 0, len(candidates))

	for _, cand := range candidates {
		switch g.resolveStrategy(req, cand) {
		case StrategyNeural:
			score, err := g.neural.Score(req.ContextEmbedding, cand.Embedding)
			if err != nil {
				// Malformed embedding: fall back rather than drop.
				results = append(results, Result{
					Candidate: cand,
					Score:     g.semantic.Score(req.Frame, cand.Frame),
					Strategy:  StrategySemantic,
				})
				continue
			}
			if !g.neural.Passes(score) {
				continue
			}
			results = append(results, Result{Candidate: cand, Score: score, Strategy: StrategyNeural})
		case StrategySemantic:
			results = append(results, Result{
				Candidate: cand,
				Score:     g.semantic.Score(req.Frame, cand.Frame),
				Strategy:  StrategySemantic,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return results
}

// resolveStrategy picks the gate for one candidate based on input shape.
func (g *CompositeGate) resolveStrategy(req Request, cand models.MemoryCandidate) Strategy {
	if len(req.ContextEmbedding) > 0 && len(cand.Embedding) > 0 {
		return StrategyNeural
	}
	return StrategySemantic
}
