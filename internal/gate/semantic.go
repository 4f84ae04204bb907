package gate

import (
	"strings"

	"github.com/haasonsaas/memorable/pkg/models"
)

// SemanticGate scores candidates by context-frame overlap: matched
// attributes over compared attributes across location, activity, project
// and people. The fallback when no embeddings exist.
type SemanticGate struct {
	neutral float64
}

// NewSemanticGate creates a semantic gate. neutral is the score assigned
// to candidates with no stored frame, so under-annotated memories are not
// unfairly excluded.
func NewSemanticGate(neutral float64) *SemanticGate {
	if neutral <= 0 {
		neutral = 0.3
	}
	return &SemanticGate{neutral: neutral}
}

// NeutralScore returns the score used for frame-less candidates.
func (g *SemanticGate) NeutralScore() float64 {
	return g.neutral
}

// Score compares the current frame against a candidate's stored frame.
// Attributes absent on both sides are excluded from the denominator.
// Frames with nothing comparable score 0.5 (no evidence either way); a
// missing stored frame scores the neutral default.
func (g *SemanticGate) Score(current models.ContextFrame, stored *models.ContextFrame) float64 {
	if stored == nil {
		return g.neutral
	}
	return FrameSimilarity(current, *stored)
}

// FrameSimilarity computes the overlap score between two context frames.
func FrameSimilarity(a, b models.ContextFrame) float64 {
	var matched, compared float64

	for _, pair := range [][2]string{
		{a.Location, b.Location},
		{a.Activity, b.Activity},
		{a.Project, b.Project},
	} {
		if pair[0] == "" && pair[1] == "" {
			continue
		}
		compared++
		if strings.EqualFold(strings.TrimSpace(pair[0]), strings.TrimSpace(pair[1])) {
			matched++
		}
	}

	aPeople, bPeople := a.PeopleSet(), b.PeopleSet()
	if len(aPeople) > 0 || len(bPeople) > 0 {
		compared++
		matched += peopleJaccard(aPeople, bPeople)
	}

	if compared == 0 {
		return 0.5
	}
	return matched / compared
}

func peopleJaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var intersection int
	for p := range a {
		if _, ok := b[p]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
