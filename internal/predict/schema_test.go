package predict

import (
	"errors"
	"testing"
)

func TestVectorize(t *testing.T) {
	schema := SymptomSchema{"fever", "cough", "headache", "nausea"}

	vec, err := Vectorize([]string{"cough", "nausea"}, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := FeatureVector{0, 1, 0, 1}
	if len(vec) != len(schema) {
		t.Fatalf("expected vector length %d, got %d", len(schema), len(vec))
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, vec)
		}
	}
}

func TestVectorizeIgnoresUnknownSymptoms(t *testing.T) {
	schema := SymptomSchema{"fever", "cough"}
	vec, err := Vectorize([]string{"fever", "glowing"}, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vec[0] != 1 || vec[1] != 0 {
		t.Fatalf("unknown symptom should contribute nothing, got %v", vec)
	}
}

func TestVectorizeEmptySelection(t *testing.T) {
	_, err := Vectorize(nil, SymptomSchema{"fever"})
	if !errors.Is(err, ErrNoSymptoms) {
		t.Fatalf("expected ErrNoSymptoms, got %v", err)
	}
	_, err = Vectorize([]string{}, SymptomSchema{"fever"})
	if !errors.Is(err, ErrNoSymptoms) {
		t.Fatalf("expected ErrNoSymptoms for empty slice, got %v", err)
	}
}
