package predict

import (
	"fmt"
)

// Classifier is the minimal inference surface: a point estimate plus the
// label set. Implementations declare richer capabilities by additionally
// satisfying ProbabilityEstimator or DecisionScorer; confidence resolution
// switches on the declared capability rather than probing at runtime.
type Classifier interface {
	Predict(vec FeatureVector) (string, error)
	Classes() []string
}

// ProbabilityEstimator yields a distribution over Classes(), index-aligned.
type ProbabilityEstimator interface {
	PredictProba(vec FeatureVector) ([]float64, error)
}

// DecisionScorer yields raw per-class decision scores, index-aligned with
// Classes(). Scores are unnormalized; a softmax turns them into a
// distribution.
type DecisionScorer interface {
	DecisionScores(vec FeatureVector) ([]float64, error)
}

// WeightedClassifier is the pretrained artifact: a per-class weight row over
// the symptom axes plus a bias. Predict returns the class with the highest
// score; PredictProba normalizes the scores via softmax. Loaded once at
// startup and read-only afterwards, so it is safe for concurrent requests.
type WeightedClassifier struct {
	classes []string
	weights [][]float64
	bias    []float64
}

// NewWeightedClassifier validates the artifact shape: one weight row per
// class, every row as long as the schema.
func NewWeightedClassifier(classes []string, weights [][]float64, bias []float64, dims int) (*WeightedClassifier, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("classifier artifact has no classes")
	}
	if len(weights) != len(classes) {
		return nil, fmt.Errorf("classifier artifact: %d weight rows for %d classes", len(weights), len(classes))
	}
	for i, row := range weights {
		if len(row) != dims {
			return nil, fmt.Errorf("classifier artifact: row %d has %d weights, schema has %d symptoms", i, len(row), dims)
		}
	}
	if len(bias) != 0 && len(bias) != len(classes) {
		return nil, fmt.Errorf("classifier artifact: %d bias terms for %d classes", len(bias), len(classes))
	}
	if len(bias) == 0 {
		bias = make([]float64, len(classes))
	}
	return &WeightedClassifier{classes: classes, weights: weights, bias: bias}, nil
}

func (w *WeightedClassifier) Classes() []string { return w.classes }

func (w *WeightedClassifier) scores(vec FeatureVector) ([]float64, error) {
	if len(vec) != len(w.weights[0]) {
		return nil, fmt.Errorf("vector length %d does not match model dimensionality %d", len(vec), len(w.weights[0]))
	}
	out := make([]float64, len(w.classes))
	for c, row := range w.weights {
		s := w.bias[c]
		for i, x := range vec {
			if x != 0 {
				s += row[i]
			}
		}
		out[c] = s
	}
	return out, nil
}

func (w *WeightedClassifier) Predict(vec FeatureVector) (string, error) {
	scores, err := w.scores(vec)
	if err != nil {
		return "", err
	}
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return w.classes[best], nil
}

func (w *WeightedClassifier) PredictProba(vec FeatureVector) ([]float64, error) {
	scores, err := w.scores(vec)
	if err != nil {
		return nil, err
	}
	return softmax(scores), nil
}

func (w *WeightedClassifier) DecisionScores(vec FeatureVector) ([]float64, error) {
	return w.scores(vec)
}

// FallbackClassifier is the deterministic stand-in used when no trained
// artifact is present: the active-symptom count picks a class, and the
// distribution puts a fixed spike on it over a flat base. Useful offline and
// in environments without a model; the contract matches the real artifact.
type FallbackClassifier struct {
	classes []string
}

func NewFallbackClassifier(classes []string) *FallbackClassifier {
	return &FallbackClassifier{classes: classes}
}

func (f *FallbackClassifier) Classes() []string { return f.classes }

func (f *FallbackClassifier) index(vec FeatureVector) int {
	sum := 0
	for _, x := range vec {
		if x != 0 {
			sum++
		}
	}
	return sum % len(f.classes)
}

func (f *FallbackClassifier) Predict(vec FeatureVector) (string, error) {
	if len(f.classes) == 0 {
		return "", fmt.Errorf("fallback classifier has no classes")
	}
	return f.classes[f.index(vec)], nil
}

func (f *FallbackClassifier) PredictProba(vec FeatureVector) ([]float64, error) {
	if len(f.classes) == 0 {
		return nil, fmt.Errorf("fallback classifier has no classes")
	}
	n := len(f.classes)
	probs := make([]float64, n)
	total := 0.0
	for i := range probs {
		probs[i] = 0.05
	}
	probs[f.index(vec)] += 0.9
	for _, p := range probs {
		total += p
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs, nil
}
