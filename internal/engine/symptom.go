package engine

import "github.com/medinfo/medinfo-api/internal/model"

// SymptomVocabulary collects the distinct symptom tags across the catalog,
// in discovery order. Ordering is a presentation concern, not a guarantee.
func SymptomVocabulary(catalog []*model.DrugRecord) []string {
	seen := make(map[string]struct{})
	var vocab []string
	for _, rec := range catalog {
		if rec == nil {
			continue
		}
		for _, tag := range rec.Symptoms {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			vocab = append(vocab, tag)
		}
	}
	return vocab
}

// FilterBySymptom returns every record, in catalog order, whose symptoms
// contain tag by exact string equality. Symptom tags come from a closed
// vocabulary, so this is deliberately stricter than text search: no case
// folding, no substring test. An empty tag selects nothing, not everything.
func FilterBySymptom(tag string, catalog []*model.DrugRecord) []*model.DrugRecord {
	if tag == "" {
		return nil
	}
	var matches []*model.DrugRecord
	for _, rec := range catalog {
		if rec == nil {
			continue
		}
		for _, s := range rec.Symptoms {
			if s == tag {
				matches = append(matches, rec)
				break
			}
		}
	}
	return matches
}
