// Package engine implements the drug information resolution core: text
// matching, symptom filtering, pagination and recent-query history. Every
// function is pure; all state comes in as arguments and results never alias
// mutable internals, so concurrent sessions can share one catalog snapshot.
package engine

import (
	"strings"

	"github.com/medinfo/medinfo-api/internal/model"
)

// FindFirstMatch scans the catalog in store order and returns the first
// record whose name contains the query as a case-folded substring, falling
// back to the indications field when the name does not match. It returns nil
// when nothing qualifies. This is first-hit semantics: ties are broken by
// catalog order, never by any ranking.
func FindFirstMatch(query string, catalog []*model.DrugRecord) *model.DrugRecord {
	q := fold(Normalize(query))
	if q == "" {
		return nil
	}
	for _, rec := range catalog {
		if rec == nil {
			continue
		}
		if rec.Name != "" && strings.Contains(fold(rec.Name), q) {
			return rec
		}
		if rec.Indications != "" && strings.Contains(fold(rec.Indications), q) {
			return rec
		}
	}
	return nil
}

// FindAllMatches returns every record, in catalog order, whose name,
// comma-joined active ingredients, or indications contains the query as a
// case-folded substring. Absent active ingredients contribute an empty
// string, so such records can still match through the other fields.
func FindAllMatches(query string, catalog []*model.DrugRecord) []*model.DrugRecord {
	q := fold(Normalize(query))
	if q == "" {
		return catalog
	}
	var matches []*model.DrugRecord
	for _, rec := range catalog {
		if rec == nil {
			continue
		}
		if strings.Contains(fold(rec.Name), q) ||
			strings.Contains(fold(strings.Join(rec.ActiveIngredients, ", ")), q) ||
			strings.Contains(fold(rec.Indications), q) {
			matches = append(matches, rec)
		}
	}
	return matches
}

// FindExactByName returns the first record whose name equals name exactly,
// case-sensitive. Used to resolve classifier predictions, which are assumed
// to be normalized to catalog naming already. An empty name never matches.
func FindExactByName(name string, catalog []*model.DrugRecord) *model.DrugRecord {
	if name == "" {
		return nil
	}
	for _, rec := range catalog {
		if rec != nil && rec.Name == name {
			return rec
		}
	}
	return nil
}
