// Package gate filters memory candidates against the current situational
// context. Two interchangeable strategies exist: an embedding-based neural
// gate and a context-frame-overlap semantic gate; a composite gate picks
// per candidate based on what data is available.
package gate

import (
	"fmt"
	"math"
)

// rmsEpsilon stabilizes normalization of near-zero vectors.
const rmsEpsilon = 1e-8

// NeuralGate scores a memory embedding against a context embedding with an
// RMS-normalized scaled dot product squashed through a sigmoid.
type NeuralGate struct {
	threshold float64
}

// NewNeuralGate creates a neural gate with the given pass threshold.
func NewNeuralGate(threshold float64) *NeuralGate {
	if threshold <= 0 {
		threshold = 0.5
	}
	return &NeuralGate{threshold: threshold}
}

// Score computes the gate score in (0,1) for a context/memory embedding
// pair of equal dimension.
func (g *NeuralGate) Score(contextEmb, memoryEmb []float64) (float64, error) {
	if len(contextEmb) == 0 || len(memoryEmb) == 0 {
		return 0, fmt.Errorf("empty embedding")
	}
	if len(contextEmb) != len(memoryEmb) {
		return 0, fmt.Errorf("dimension mismatch: context=%d memory=%d", len(contextEmb), len(memoryEmb))
	}

	nc := rmsNormalize(contextEmb)
	nm := rmsNormalize(memoryEmb)

	// Mean elementwise product of unit-RMS vectors lands in [-1,1];
	// identical embeddings score sigmoid(1/sqrt(d)).
	var dot float64
	for i := range nc {
		dot += nc[i] * nm[i]
	}
	dot /= float64(len(nc))

	scaled := dot / math.Sqrt(float64(len(nc)))
	return sigmoid(scaled), nil
}

// Passes reports whether a score clears the gate threshold.
func (g *NeuralGate) Passes(score float64) bool {
	return score >= g.threshold
}

// Threshold returns the configured pass threshold.
func (g *NeuralGate) Threshold() float64 {
	return g.threshold
}

// rmsNormalize divides each element by the vector's root-mean-square.
func rmsNormalize(x []float64) []float64 {
	var sumSquares float64
	for _, v := range x {
		sumSquares += v * v
	}
	rms := math.Sqrt(sumSquares/float64(len(x)) + rmsEpsilon)

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v / rms
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
