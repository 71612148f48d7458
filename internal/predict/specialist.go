package predict

import "strings"

// DefaultSpecialist is returned when no table entry matches a disease name.
const DefaultSpecialist = "General Physician"

// specialistEntry pairs a normalized disease pattern with the specialty that
// treats it.
type specialistEntry struct {
	Pattern    string
	Specialist string
}

// SpecialistTable maps disease names to medical specialties. Entries are
// scanned in declaration order and the first substring match wins, so the
// order is part of the contract: a more specific pattern must be listed
// before any broader one that could also match.
type SpecialistTable struct {
	entries  []specialistEntry
	fallback string
}

// NewSpecialistTable builds a table from (pattern, specialist) pairs given
// as an even-length sequence. Patterns are stored normalized.
func NewSpecialistTable(fallback string, pairs ...string) *SpecialistTable {
	t := &SpecialistTable{fallback: fallback}
	for i := 0; i+1 < len(pairs); i += 2 {
		t.entries = append(t.entries, specialistEntry{
			Pattern:    normalizeDisease(pairs[i]),
			Specialist: pairs[i+1],
		})
	}
	return t
}

// DefaultSpecialistTable covers the diseases the bundled model predicts.
func DefaultSpecialistTable() *SpecialistTable {
	return NewSpecialistTable(DefaultSpecialist,
		"heart attack", "Cardiologist",
		"hypertension", "Cardiologist",
		"stroke", "Neurologist",
		"paralysis", "Neurologist",
		"migraine", "Neurologist",
		"vertigo", "ENT Specialist",
		"bronchial asthma", "Pulmonologist",
		"pneumonia", "Pulmonologist",
		"tuberculosis", "Pulmonologist",
		"gerd", "Gastroenterologist",
		"gastroenteritis", "Gastroenterologist",
		"peptic ulcer", "Gastroenterologist",
		"jaundice", "Hepatologist",
		"hepatitis", "Hepatologist",
		"alcoholic hepatitis", "Hepatologist",
		"diabetes", "Endocrinologist",
		"hypothyroidism", "Endocrinologist",
		"hyperthyroidism", "Endocrinologist",
		"hypoglycemia", "Endocrinologist",
		"psoriasis", "Dermatologist",
		"acne", "Dermatologist",
		"fungal infection", "Dermatologist",
		"impetigo", "Dermatologist",
		"chicken pox", "Infectious Disease Specialist",
		"dengue", "Infectious Disease Specialist",
		"malaria", "Infectious Disease Specialist",
		"typhoid", "Infectious Disease Specialist",
		"aids", "Infectious Disease Specialist",
		"urinary tract infection", "Urologist",
		"osteoarthritis", "Rheumatologist",
		"arthritis", "Rheumatologist",
		"cervical spondylosis", "Orthopedist",
		"varicose veins", "Vascular Surgeon",
		"allergy", "Allergist",
		"drug reaction", "Allergist",
	)
}

// Resolve maps a disease label to a specialist. It never fails: unmatched,
// empty, or garbage input resolves to the fallback specialty.
func (t *SpecialistTable) Resolve(disease string) string {
	norm := normalizeDisease(disease)
	if norm == "" {
		return t.fallback
	}
	for _, e := range t.entries {
		if e.Pattern == norm {
			return e.Specialist
		}
	}
	// Substring pass, both directions: "chronic stroke" should still find
	// "stroke", and an abbreviated label should still find its longer key.
	for _, e := range t.entries {
		if strings.Contains(norm, e.Pattern) || strings.Contains(e.Pattern, norm) {
			return e.Specialist
		}
	}
	return t.fallback
}

// normalizeDisease lowercases, replaces every character outside [a-z0-9/ ]
// with a space, and collapses whitespace runs. "Heart-Attack " and
// "heart attack" normalize identically.
func normalizeDisease(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '/':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
