package decay

import (
	"math"
	"testing"

	"github.com/haasonsaas/memorable/internal/config"
	"github.com/haasonsaas/memorable/pkg/models"
)

func newTestModel() *Model {
	return NewModel(config.DefaultConfig().Decay)
}

func TestDecayAtZeroAge(t *testing.T) {
	if got := newTestModel().Decay(0); got != 1.0 {
		t.Errorf("Decay(0) = %v, want 1.0", got)
	}
}

func TestDecayNeverBelowFloor(t *testing.T) {
	m := newTestModel()
	for _, age := range []float64{0, 10, 70, 100, 365, 10000} {
		if got := m.Decay(age); got < 0.3 {
			t.Errorf("Decay(%v) = %v, want >= 0.3", age, got)
		}
	}
}

func TestDecayNonIncreasing(t *testing.T) {
	m := newTestModel()
	prev := m.Decay(0)
	for age := 1.0; age <= 200; age++ {
		got := m.Decay(age)
		if got > prev {
			t.Fatalf("Decay(%v) = %v > Decay(%v) = %v", age, got, age-1, prev)
		}
		prev = got
	}
}

func TestBoostAtZeroAccess(t *testing.T) {
	if got := newTestModel().Boost(0); got != 1.0 {
		t.Errorf("Boost(0) = %v, want 1.0", got)
	}
}

func TestBoostCapped(t *testing.T) {
	m := newTestModel()
	for _, count := range []int{0, 5, 25, 100, 10000} {
		if got := m.Boost(count); got > 1.5 {
			t.Errorf("Boost(%d) = %v, want <= 1.5", count, got)
		}
	}
}

func TestBoostNonDecreasing(t *testing.T) {
	m := newTestModel()
	prev := m.Boost(0)
	for count := 1; count <= 100; count++ {
		got := m.Boost(count)
		if got < prev {
			t.Fatalf("Boost(%d) = %v < Boost(%d) = %v", count, got, count-1, prev)
		}
		prev = got
	}
}

func TestEffectiveSalienceFreshMemory(t *testing.T) {
	if got := newTestModel().EffectiveSalience(80, 0, 0); got != 80 {
		t.Errorf("EffectiveSalience(80, 0, 0) = %v, want 80", got)
	}
}

func TestEffectiveSalienceFloorsAtThirtyPercent(t *testing.T) {
	// At age 100 the linear decay would hit 0; the floor keeps it at 0.3.
	if got := newTestModel().EffectiveSalience(100, 100, 0); got != 30 {
		t.Errorf("EffectiveSalience(100, 100, 0) = %v, want exactly 30", got)
	}
}

func TestEffectiveSalienceCappedAtHundred(t *testing.T) {
	if got := newTestModel().EffectiveSalience(100, 0, 100); got != 100 {
		t.Errorf("EffectiveSalience(100, 0, 100) = %v, want 100", got)
	}
}

func TestEffectiveSalienceIdempotent(t *testing.T) {
	m := newTestModel()
	a := m.EffectiveSalience(73, 42.5, 7)
	b := m.EffectiveSalience(73, 42.5, 7)
	if a != b {
		t.Errorf("same inputs gave %v then %v", a, b)
	}
}

func TestDaysUntilBelowThreshold(t *testing.T) {
	m := newTestModel()

	// 80 decaying at 0.01/day crosses 40 when decay = 0.5, i.e. day 50.
	got := m.DaysUntilBelowThreshold(80, 0, 40)
	if math.Abs(got-50) > 1e-9 {
		t.Errorf("DaysUntilBelowThreshold(80, 0, 40) = %v, want 50", got)
	}
}

func TestDaysUntilBelowThresholdAlreadyBelow(t *testing.T) {
	if got := newTestModel().DaysUntilBelowThreshold(20, 0, 30); got != 0 {
		t.Errorf("got %v, want 0 for a memory already below threshold", got)
	}
}

func TestDaysUntilBelowThresholdFloorProtects(t *testing.T) {
	// 100 × floor 0.3 = 30, which never drops below a threshold of 25.
	got := newTestModel().DaysUntilBelowThreshold(100, 0, 25)
	if !math.IsInf(got, 1) {
		t.Errorf("got %v, want +Inf when the floor holds the score above threshold", got)
	}
}

func TestContextBoostNoOverlap(t *testing.T) {
	m := newTestModel()
	cand := models.MemoryCandidate{Topics: []string{"hiking"}, People: []string{"alan"}}
	frame := models.ContextFrame{Topics: []string{"budget"}, People: []string{"maya"}}

	if got := m.ContextBoost(cand, frame); got != 1.0 {
		t.Errorf("ContextBoost = %v, want 1.0 with zero overlap", got)
	}
}

func TestContextBoostFullOverlapHitsCap(t *testing.T) {
	m := newTestModel()
	cand := models.MemoryCandidate{Topics: []string{"hiking", "robots"}, People: []string{"alan"}}
	frame := models.ContextFrame{Topics: []string{"hiking", "robots"}, People: []string{"Alan"}}

	got := m.ContextBoost(cand, frame)
	if math.Abs(got-1.2) > 1e-9 {
		t.Errorf("ContextBoost = %v, want 1.2 at full overlap", got)
	}
}

func TestContextBoostPersonOverlapWeighsDouble(t *testing.T) {
	m := newTestModel()
	topicOnly := m.ContextBoost(
		models.MemoryCandidate{Topics: []string{"hiking"}, People: []string{"alan"}},
		models.ContextFrame{Topics: []string{"hiking"}, People: []string{"maya"}},
	)
	personOnly := m.ContextBoost(
		models.MemoryCandidate{Topics: []string{"hiking"}, People: []string{"alan"}},
		models.ContextFrame{Topics: []string{"budget"}, People: []string{"alan"}},
	)
	if personOnly <= topicOnly {
		t.Errorf("person overlap boost = %v, topic overlap boost = %v, want person higher", personOnly, topicOnly)
	}
}

func TestNewModelFillsDefaults(t *testing.T) {
	m := NewModel(config.DecayConfig{})
	if got := m.Decay(0); got != 1.0 {
		t.Errorf("Decay(0) = %v, want 1.0", got)
	}
	if got := m.EffectiveSalience(100, 100, 0); got != 30 {
		t.Errorf("zero-config model EffectiveSalience(100,100,0) = %v, want 30", got)
	}
}
