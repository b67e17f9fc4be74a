package model

import (
	"encoding/json"

	"github.com/lib/pq"
)

// DrugRecord is a catalog entry. Name is the lookup key for exact-match
// operations; sequence fields keep their insertion order from the store.
// A nil sequence means the source had no data for that field, which is
// distinct from an empty one.
type DrugRecord struct {
	Base
	Name                   string          `db:"name" json:"drug_name"`
	BrandNames             pq.StringArray  `db:"brand_names" json:"brand_names,omitempty"`
	ActiveIngredients      pq.StringArray  `db:"active_ingredients" json:"active_ingredients,omitempty"`
	Excipients             pq.StringArray  `db:"excipients" json:"excipients,omitempty"`
	Indications            string          `db:"indications" json:"indications,omitempty"`
	Dosage                 string          `db:"dosage" json:"dosage,omitempty"`
	SideEffectsJSON        json.RawMessage `db:"side_effects" json:"-"`
	SpecialPopulationsJSON json.RawMessage `db:"special_populations" json:"-"`
	Contraindications      pq.StringArray  `db:"contraindications" json:"contraindications,omitempty"`
	DrugInteractions       pq.StringArray  `db:"drug_interactions" json:"drug_interactions,omitempty"`
	PrescriptionStatus     string          `db:"prescription_status" json:"prescription_status,omitempty"`
	Warnings               pq.StringArray  `db:"warnings" json:"warnings,omitempty"`
	LeafletPDFURL          string          `db:"leaflet_pdf_url" json:"leaflet_pdf_url,omitempty"`
	SourceLinks            pq.StringArray  `db:"source_links" json:"source_links,omitempty"`
	Symptoms               pq.StringArray  `db:"symptoms" json:"symptoms,omitempty"`

	SideEffects        *SideEffects        `db:"-" json:"side_effects,omitempty"`
	SpecialPopulations *SpecialPopulations `db:"-" json:"special_populations,omitempty"`

	// ImageConfidenceScore is not a property of the stored record. It is set
	// on copies returned by photo identification when the classifier supplied
	// a confidence for the prediction that led here.
	ImageConfidenceScore *float64 `db:"-" json:"image_confidence_score,omitempty"`
}

type SideEffects struct {
	Common []string `json:"common,omitempty"`
	Rare   []string `json:"rare,omitempty"`
}

type SpecialPopulations struct {
	Pregnancy string `json:"pregnancy,omitempty"`
	Pediatric string `json:"pediatric,omitempty"`
	Elderly   string `json:"elderly,omitempty"`
}

// Prediction is the structured response of the external image classifier.
// Consumed once per identification, never stored.
type Prediction struct {
	DrugName   string   `json:"drug_name"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type CreateDrugRequest struct {
	Name               string              `json:"drug_name" binding:"required"`
	BrandNames         []string            `json:"brand_names"`
	ActiveIngredients  []string            `json:"active_ingredients"`
	Excipients         []string            `json:"excipients"`
	Indications        string              `json:"indications"`
	Dosage             string              `json:"dosage"`
	SideEffects        *SideEffects        `json:"side_effects"`
	Contraindications  []string            `json:"contraindications"`
	DrugInteractions   []string            `json:"drug_interactions"`
	PrescriptionStatus string              `json:"prescription_status"`
	Warnings           []string            `json:"warnings"`
	SpecialPopulations *SpecialPopulations `json:"special_populations"`
	LeafletPDFURL      string              `json:"leaflet_pdf_url"`
	SourceLinks        []string            `json:"source_links"`
	Symptoms           []string            `json:"symptoms"`
}

type SearchRequest struct {
	Query string `json:"query" binding:"required,notblank"`
}
