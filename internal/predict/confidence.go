package predict

import (
	"math"
	"strings"
)

// resolveConfidence derives the probability mass the classifier assigns to
// its own predicted label. It returns nil when the classifier offers no way
// to estimate it, when estimation fails, or when the result is not a finite
// probability; callers decide whether nil renders as null or as a neutral
// placeholder.
func resolveConfidence(clf Classifier, vec FeatureVector, label string) *float64 {
	switch c := clf.(type) {
	case ProbabilityEstimator:
		probs, err := c.PredictProba(vec)
		if err != nil || len(probs) == 0 {
			return nil
		}
		idx := labelIndex(clf.Classes(), label)
		if idx < 0 || idx >= len(probs) {
			idx = argmax(probs)
		}
		return sanitize(probs[idx])
	case DecisionScorer:
		scores, err := c.DecisionScores(vec)
		if err != nil || len(scores) == 0 {
			return nil
		}
		probs := softmax(scores)
		return sanitize(probs[argmax(probs)])
	default:
		return nil
	}
}

// labelIndex finds the predicted label among the class names: exact match
// first, then case-insensitive. Returns -1 when the label is not present.
func labelIndex(classes []string, label string) int {
	for i, c := range classes {
		if c == label {
			return i
		}
	}
	for i, c := range classes {
		if strings.EqualFold(c, label) {
			return i
		}
	}
	return -1
}

func argmax(vals []float64) int {
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	return best
}

// softmax with the max subtracted before exponentiating, so large scores do
// not overflow.
func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	out := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// sanitize rejects NaN/Inf and clamps to [0,1]. A well-behaved classifier
// never needs the clamp, but a malformed artifact must not leak an invalid
// probability to clients.
func sanitize(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}
