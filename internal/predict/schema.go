package predict

import "errors"

// ErrNoSymptoms is returned when a caller submits an empty selection. It is
// a defined outcome, not a pipeline failure: handlers translate it into a
// "select at least one symptom" response rather than a server error.
var ErrNoSymptoms = errors.New("no symptoms selected")

// SymptomSchema is the ordered list of recognized symptom names. The order
// fixes the feature-vector axes and must match the order the classifier was
// trained against. It is loaded once at startup and never mutated.
type SymptomSchema []string

// FeatureVector is a binary vector with one position per schema entry.
type FeatureVector []int

// Vectorize builds the feature vector for a selection. Position i is 1 iff
// schema[i] appears in the selection. Names the schema does not recognize
// are dropped silently; callers may submit symptoms we were never trained on.
func Vectorize(selected []string, schema SymptomSchema) (FeatureVector, error) {
	if len(selected) == 0 {
		return nil, ErrNoSymptoms
	}
	chosen := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		chosen[s] = struct{}{}
	}
	vec := make(FeatureVector, len(schema))
	for i, name := range schema {
		if _, ok := chosen[name]; ok {
			vec[i] = 1
		}
	}
	return vec, nil
}
