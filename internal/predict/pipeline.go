package predict

import "fmt"

// Result is the outcome of one prediction. Confidence is nil when the
// classifier offers no way to estimate it.
type Result struct {
	Disease     string   `json:"disease"`
	Confidence  *float64 `json:"confidence"`
	Description string   `json:"description"`
	Precautions []string `json:"precautions"`
	Specialist  string   `json:"specialist"`
}

// Pipeline wires the schema, classifier, metadata store, and specialist
// table into one prediction call. All four are loaded at startup and only
// read afterwards, so a single Pipeline serves concurrent requests without
// locking. The pipeline itself has no side effects; persisting results is
// the caller's concern.
type Pipeline struct {
	schema      SymptomSchema
	classifier  Classifier
	metadata    *MetadataStore
	specialists *SpecialistTable

	// neutralConfidence substitutes 0.5 for an undeterminable confidence
	// instead of leaving it null. Off by default.
	neutralConfidence bool
}

func NewPipeline(schema SymptomSchema, clf Classifier, meta *MetadataStore, specialists *SpecialistTable, neutralConfidence bool) *Pipeline {
	return &Pipeline{
		schema:            schema,
		classifier:        clf,
		metadata:          meta,
		specialists:       specialists,
		neutralConfidence: neutralConfidence,
	}
}

// Schema exposes the symptom list for clients building selection UIs.
func (p *Pipeline) Schema() SymptomSchema { return p.schema }

// Predict runs the full chain: vectorize, infer, resolve confidence, attach
// metadata and a specialist. ErrNoSymptoms passes through untouched so the
// caller can render it as a defined outcome; any inference failure is
// wrapped as a generic prediction failure.
func (p *Pipeline) Predict(selected []string) (*Result, error) {
	vec, err := Vectorize(selected, p.schema)
	if err != nil {
		return nil, err
	}

	disease, err := p.classifier.Predict(vec)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	conf := resolveConfidence(p.classifier, vec, disease)
	if conf == nil && p.neutralConfidence {
		neutral := 0.5
		conf = &neutral
	}

	description := NoDescription
	precautions := []string{}
	if entry, ok := p.metadata.Lookup(disease); ok {
		if entry.Description != "" {
			description = entry.Description
		}
		if entry.Precautions != nil {
			precautions = entry.Precautions
		}
	}

	return &Result{
		Disease:     disease,
		Confidence:  conf,
		Description: description,
		Precautions: precautions,
		Specialist:  p.specialists.Resolve(disease),
	}, nil
}
