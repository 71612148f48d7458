package predict

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Artifact file names inside the artifacts directory. The shapes match the
// training pipeline's output: an ordered symptom list, a disease-info map,
// and the serialized model.
const (
	schemaFile   = "symptom_columns.json"
	metadataFile = "disease_info.json"
	modelFile    = "model.json"
)

type modelArtifact struct {
	Classes []string    `json:"classes"`
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// LoadPipeline assembles a Pipeline from the artifacts directory. Each
// missing artifact degrades independently to a built-in default, so the
// service still serves predictions on a fresh checkout with no trained
// model present.
func LoadPipeline(dir string, neutralConfidence bool) *Pipeline {
	schema := loadSchema(filepath.Join(dir, schemaFile))
	meta := loadMetadata(filepath.Join(dir, metadataFile))
	clf := loadClassifier(filepath.Join(dir, modelFile), len(schema))
	return NewPipeline(schema, clf, meta, DefaultSpecialistTable(), neutralConfidence)
}

func loadSchema(path string) SymptomSchema {
	var names []string
	if err := readJSON(path, &names); err != nil || len(names) == 0 {
		if err != nil && !os.IsNotExist(err) {
			log.Printf("symptom schema %s unreadable, using built-in default: %v", path, err)
		}
		return defaultSchema()
	}
	return SymptomSchema(names)
}

func loadMetadata(path string) *MetadataStore {
	var entries map[string]MetadataEntry
	if err := readJSON(path, &entries); err != nil || len(entries) == 0 {
		if err != nil && !os.IsNotExist(err) {
			log.Printf("disease metadata %s unreadable, using built-in default: %v", path, err)
		}
		return NewMetadataStore(defaultMetadata())
	}
	return NewMetadataStore(entries)
}

func loadClassifier(path string, dims int) Classifier {
	var art modelArtifact
	if err := readJSON(path, &art); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("model artifact %s unreadable, using fallback classifier: %v", path, err)
		} else {
			log.Printf("no model artifact at %s, using fallback classifier", path)
		}
		return NewFallbackClassifier(defaultClasses())
	}
	clf, err := NewWeightedClassifier(art.Classes, art.Weights, art.Bias, dims)
	if err != nil {
		log.Printf("model artifact %s rejected, using fallback classifier: %v", path, err)
		return NewFallbackClassifier(defaultClasses())
	}
	return clf
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func defaultSchema() SymptomSchema {
	return SymptomSchema{
		"fever", "cough", "headache", "fatigue", "sore_throat",
		"runny_nose", "shortness_of_breath", "nausea", "vomiting",
	}
}

func defaultClasses() []string {
	return []string{"Common Cold", "Flu", "Allergy"}
}

func defaultMetadata() map[string]MetadataEntry {
	return map[string]MetadataEntry{
		"common cold": {
			Description: "A mild viral infection of the nose and throat.",
			Precautions: []string{
				"Rest",
				"Stay hydrated",
				"Use saline nasal drops if needed",
			},
		},
		"flu": {
			Description: "Influenza, a viral infection causing fever and body aches.",
			Precautions: []string{
				"See physician if high fever",
				"Rest and fluids",
				"Antiviral medication may help if early",
			},
		},
	}
}
