package models

import (
	"math"
	"testing"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	sum := DefaultWeights().Sum()
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("default weights sum = %v, want 1.0", sum)
	}
}

func TestWeightsNormalized(t *testing.T) {
	w := SalienceWeights{Emotional: 0.5, Novelty: 0.5, Relevance: 0.5, Social: 0.25, Consequential: 0.25}
	n := w.Normalized()
	if math.Abs(n.Sum()-1.0) > 1e-9 {
		t.Errorf("normalized sum = %v, want 1.0", n.Sum())
	}
	if n.Emotional != 0.25 {
		t.Errorf("emotional = %v, want 0.25", n.Emotional)
	}
}

func TestWeightsNormalizedZeroVector(t *testing.T) {
	n := SalienceWeights{}.Normalized()
	if n != DefaultWeights() {
		t.Errorf("zero vector normalized = %+v, want defaults", n)
	}
}

func TestNeedsNormalization(t *testing.T) {
	tests := []struct {
		name string
		w    SalienceWeights
		want bool
	}{
		{"exact", DefaultWeights(), false},
		{"within tolerance", SalienceWeights{Emotional: 0.27, Novelty: 0.15, Relevance: 0.25, Social: 0.15, Consequential: 0.20}, false},
		{"over tolerance", SalienceWeights{Emotional: 0.5, Novelty: 0.3, Relevance: 0.3, Social: 0.2, Consequential: 0.2}, true},
		{"zero", SalienceWeights{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.NeedsNormalization(); got != tt.want {
				t.Errorf("NeedsNormalization() = %v, want %v (sum %v)", got, tt.want, tt.w.Sum())
			}
		})
	}
}

func TestComponentsClamped(t *testing.T) {
	c := SalienceComponents{Emotional: 150, Novelty: -10, Relevance: 50}.Clamped()
	if c.Emotional != 100 {
		t.Errorf("emotional = %v, want 100", c.Emotional)
	}
	if c.Novelty != 0 {
		t.Errorf("novelty = %v, want 0", c.Novelty)
	}
	if c.Relevance != 50 {
		t.Errorf("relevance = %v, want 50", c.Relevance)
	}
}

func TestComponentsDominant(t *testing.T) {
	c := SalienceComponents{Emotional: 20, Novelty: 80, Relevance: 30, Social: 80, Consequential: 10}
	// Ties resolve in canonical order: novelty comes before social.
	if got := c.Dominant(); got != ComponentNovelty {
		t.Errorf("Dominant() = %v, want %v", got, ComponentNovelty)
	}
}

func TestComponentsDominantAllZero(t *testing.T) {
	if got := (SalienceComponents{}).Dominant(); got != ComponentEmotional {
		t.Errorf("Dominant() = %v, want %v", got, ComponentEmotional)
	}
}

func TestWeightsGetSetRoundTrip(t *testing.T) {
	var w SalienceWeights
	for i, name := range Components {
		w.Set(name, float64(i+1)*0.1)
	}
	for i, name := range Components {
		want := float64(i+1) * 0.1
		if got := w.Get(name); got != want {
			t.Errorf("Get(%s) = %v, want %v", name, got, want)
		}
	}
}
