package predict

import (
	"math"
	"testing"
)

func TestFallbackClassifierIsDeterministic(t *testing.T) {
	clf := NewFallbackClassifier([]string{"Common Cold", "Flu", "Allergy"})

	vec := FeatureVector{1, 0, 1, 0, 1, 0, 0, 0, 0} // 3 active -> index 0
	first, err := clf.Predict(vec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, _ := clf.Predict(vec)
		if got != first {
			t.Fatalf("prediction changed between runs: %q vs %q", first, got)
		}
	}
	if first != "Common Cold" {
		t.Fatalf("3 active symptoms mod 3 classes should pick index 0, got %q", first)
	}
}

func TestFallbackClassifierProbaSumsToOne(t *testing.T) {
	clf := NewFallbackClassifier([]string{"a", "b", "c", "d"})
	probs, err := clf.PredictProba(FeatureVector{1, 1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := 0.0
	spike := 0
	for i, p := range probs {
		sum += p
		if p > probs[spike] {
			spike = i
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("distribution sums to %v", sum)
	}
	if spike != 2 {
		t.Fatalf("expected spike at index 2 (2 active symptoms), got %d", spike)
	}
}

func TestWeightedClassifier(t *testing.T) {
	clf, err := NewWeightedClassifier(
		[]string{"cold", "flu"},
		[][]float64{{2, 0, 0}, {0, 3, 0}},
		nil,
		3,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, err := clf.Predict(FeatureVector{1, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "cold" {
		t.Fatalf("expected cold, got %q", label)
	}

	probs, err := clf.PredictProba(FeatureVector{0, 1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if probs[1] <= probs[0] {
		t.Fatalf("flu weight should dominate, got %v", probs)
	}

	if _, err := clf.Predict(FeatureVector{1}); err == nil {
		t.Fatal("expected error on dimensionality mismatch")
	}
}

func TestWeightedClassifierRejectsBadArtifact(t *testing.T) {
	if _, err := NewWeightedClassifier(nil, nil, nil, 3); err == nil {
		t.Fatal("expected error for empty class list")
	}
	if _, err := NewWeightedClassifier([]string{"a"}, [][]float64{{1, 2}}, nil, 3); err == nil {
		t.Fatal("expected error for row/schema mismatch")
	}
	if _, err := NewWeightedClassifier([]string{"a", "b"}, [][]float64{{1}}, nil, 1); err == nil {
		t.Fatal("expected error for missing weight row")
	}
}
