package face

import (
	"math"
	"testing"
)

func unitVector(dim, axis int) []float64 {
	v := make([]float64, dim)
	v[axis] = 1.0
	return v
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float64{0.5, 0.5, 0.5},
			b:    []float64{0.5, 0.5, 0.5},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    unitVector(4, 0),
			b:    unitVector(4, 1),
			want: 0.0,
		},
		{
			name: "opposite vectors",
			a:    []float64{1, 0},
			b:    []float64{-1, 0},
			want: -1.0,
		},
		{
			name: "nil inputs",
			a:    nil,
			b:    nil,
			want: 0.0,
		},
		{
			name: "mismatched lengths",
			a:    []float64{1, 0},
			b:    []float64{1, 0, 0},
			want: 0.0,
		},
		{
			name: "zero vector",
			a:    []float64{0, 0, 0},
			b:    []float64{1, 0, 0},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScorer_IdentityProperty(t *testing.T) {
	s := NewScorer(0.6)

	e := []float64{0.3, -0.7, 0.12, 0.9, -0.05}
	got := s.Similarity(e, e)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Similarity(e, e) = %f, want 1.0", got)
	}
}

func TestScorer_IsMatchSymmetric(t *testing.T) {
	s := NewScorer(0.6)

	a := []float64{0.8, 0.1, -0.3, 0.5}
	b := []float64{0.7, 0.2, -0.25, 0.55}

	matchAB, simAB := s.IsMatch(a, b)
	matchBA, simBA := s.IsMatch(b, a)

	if matchAB != matchBA {
		t.Errorf("IsMatch not symmetric: %v vs %v", matchAB, matchBA)
	}
	if math.Abs(simAB-simBA) > 1e-12 {
		t.Errorf("similarity not symmetric: %f vs %f", simAB, simBA)
	}
}

func TestScorer_Threshold(t *testing.T) {
	s := NewScorer(0.6)

	// Exactly at threshold counts as a match.
	a := []float64{1, 0}
	b := []float64{0.6, math.Sqrt(1 - 0.36)}

	match, sim := s.IsMatch(a, b)
	if !match {
		t.Errorf("IsMatch at threshold = false, similarity %f", sim)
	}

	below := []float64{0.5, math.Sqrt(1 - 0.25)}
	match, _ = s.IsMatch(a, below)
	if match {
		t.Error("IsMatch below threshold = true")
	}
}

func TestScorer_DegenerateInput(t *testing.T) {
	s := NewScorer(0.6)

	match, sim := s.IsMatch(nil, []float64{1, 0})
	if match || sim != 0.0 {
		t.Errorf("IsMatch(nil, e) = (%v, %f), want (false, 0)", match, sim)
	}
}

func TestNewScorer_DefaultThreshold(t *testing.T) {
	s := NewScorer(0)
	if s.Threshold() != DefaultThreshold {
		t.Errorf("Threshold() = %f, want %f", s.Threshold(), DefaultThreshold)
	}
}
