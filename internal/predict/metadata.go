package predict

import (
	"sort"
	"strings"
)

// NoDescription is substituted when a predicted disease has no metadata.
const NoDescription = "No description available."

// MetadataEntry holds the human-readable text for one disease.
type MetadataEntry struct {
	Description string   `json:"description"`
	Precautions []string `json:"precautions"`
}

// MetadataStore is a read-only lookup from disease name to its description
// and precautions, loaded once at startup.
type MetadataStore struct {
	byKey map[string]MetadataEntry // lowercased key
	keys  []string                 // sorted, for a deterministic normalized scan
}

func NewMetadataStore(entries map[string]MetadataEntry) *MetadataStore {
	s := &MetadataStore{byKey: make(map[string]MetadataEntry, len(entries))}
	for k, v := range entries {
		lower := strings.ToLower(strings.TrimSpace(k))
		s.byKey[lower] = v
		s.keys = append(s.keys, lower)
	}
	sort.Strings(s.keys)
	return s
}

// Lookup finds the entry for a disease label: case-insensitive exact match
// first, then a scan comparing normalized forms (so punctuation and spacing
// differences between the model's labels and the metadata keys do not lose
// the entry). Returns false when nothing matches; the caller substitutes
// default text.
func (s *MetadataStore) Lookup(disease string) (MetadataEntry, bool) {
	lower := strings.ToLower(strings.TrimSpace(disease))
	if e, ok := s.byKey[lower]; ok {
		return e, true
	}
	norm := normalizeDisease(disease)
	if norm == "" {
		return MetadataEntry{}, false
	}
	for _, k := range s.keys {
		if normalizeDisease(k) == norm {
			return s.byKey[k], true
		}
	}
	return MetadataEntry{}, false
}

// Len reports how many diseases have metadata.
func (s *MetadataStore) Len() int { return len(s.byKey) }
