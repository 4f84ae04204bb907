package gate

import (
	"testing"

	"github.com/haasonsaas/memorable/pkg/models"
)

func newTestComposite() *CompositeGate {
	return NewCompositeGate(NewNeuralGate(0.5), NewSemanticGate(0.3))
}

func TestCompositeStrategySelection(t *testing.T) {
	g := newTestComposite()
	frame := models.ContextFrame{Location: "office"}

	candidates := []models.MemoryCandidate{
		{ID: "embedded", Embedding: []float64{1, 1, 1, 1}},
		{ID: "framed", Frame: &models.ContextFrame{Location: "office"}},
	}

	results := g.Filter(Request{ContextEmbedding: []float64{1, 1, 1, 1}, Frame: frame}, candidates)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	strategies := map[string]Strategy{}
	for _, r := range results {
		strategies[r.Candidate.ID] = r.Strategy
	}
	if strategies["embedded"] != StrategyNeural {
		t.Errorf("embedded candidate strategy = %s, want neural", strategies["embedded"])
	}
	if strategies["framed"] != StrategySemantic {
		t.Errorf("framed candidate strategy = %s, want semantic", strategies["framed"])
	}
}

func TestCompositeAllSemanticWithoutContextEmbedding(t *testing.T) {
	g := newTestComposite()

	// Candidate embeddings alone must not trigger the neural path.
	results := g.Filter(Request{Frame: models.ContextFrame{Location: "office"}}, []models.MemoryCandidate{
		{ID: "a", Embedding: []float64{1, 2, 3}},
	})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Strategy != StrategySemantic {
		t.Errorf("strategy = %s, want semantic", results[0].Strategy)
	}
}

func TestCompositeDropsFailingNeuralCandidates(t *testing.T) {
	g := newTestComposite()

	results := g.Filter(Request{ContextEmbedding: []float64{1, 1, 1, 1}}, []models.MemoryCandidate{
		{ID: "aligned", Embedding: []float64{1, 1, 1, 1}},
		{ID: "opposed", Embedding: []float64{-1, -1, -1, -1}},
	})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (opposed candidate gated out)", len(results))
	}
	if results[0].Candidate.ID != "aligned" {
		t.Errorf("surviving candidate = %s, want aligned", results[0].Candidate.ID)
	}
}

func TestCompositeFallsBackOnMalformedEmbedding(t *testing.T) {
	g := newTestComposite()
	frame := models.ContextFrame{Location: "office"}

	// Dimension mismatch should degrade to semantic, not drop the candidate.
	results := g.Filter(Request{ContextEmbedding: []float64{1, 1, 1, 1}, Frame: frame}, []models.MemoryCandidate{
		{ID: "short", Embedding: []float64{1, 1}, Frame: &models.ContextFrame{Location: "office"}},
	})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Strategy != StrategySemantic {
		t.Errorf("strategy = %s, want semantic fallback", results[0].Strategy)
	}
	if results[0].Score != 1 {
		t.Errorf("fallback score = %v, want 1 for a matching frame", results[0].Score)
	}
}

func TestCompositeSortsDescendingAndTruncates(t *testing.T) {
	g := newTestComposite()
	frame := models.ContextFrame{Location: "office", Activity: "standup"}

	results := g.Filter(Request{Frame: frame, Limit: 2}, []models.MemoryCandidate{
		{ID: "none", Frame: &models.ContextFrame{Location: "home", Activity: "cooking"}},
		{ID: "full", Frame: &models.ContextFrame{Location: "office", Activity: "standup"}},
		{ID: "half", Frame: &models.ContextFrame{Location: "office", Activity: "retro"}},
	})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 after truncation", len(results))
	}
	if results[0].Candidate.ID != "full" || results[1].Candidate.ID != "half" {
		t.Errorf("order = [%s %s], want [full half]", results[0].Candidate.ID, results[1].Candidate.ID)
	}
}

func TestCompositeEmptyInput(t *testing.T) {
	g := newTestComposite()
	if results := g.Filter(Request{}, nil); len(results) != 0 {
		t.Errorf("got %d results for empty input, want 0", len(results))
	}
}
