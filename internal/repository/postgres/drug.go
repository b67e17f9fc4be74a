package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medinfo/medinfo-api/internal/model"
	"github.com/medinfo/medinfo-api/internal/repository"
)

type drugRepository struct {
	db *sqlx.DB
}

func NewDrugRepository(db *sqlx.DB) repository.DrugRepository {
	return &drugRepository{db: db}
}

func (r *drugRepository) Insert(ctx context.Context, record *model.DrugRecord) error {
	query := `
		INSERT INTO drugs (
			id, name, brand_names, active_ingredients, excipients, indications,
			dosage, side_effects, contraindications, drug_interactions,
			prescription_status, warnings, special_populations, leaflet_pdf_url,
			source_links, symptoms, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
	`
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Name,
		record.BrandNames,
		record.ActiveIngredients,
		record.Excipients,
		record.Indications,
		record.Dosage,
		record.SideEffectsJSON,
		record.Contraindications,
		record.DrugInteractions,
		record.PrescriptionStatus,
		record.Warnings,
		record.SpecialPopulationsJSON,
		record.LeafletPDFURL,
		record.SourceLinks,
		record.Symptoms,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert drug record: %w", err)
	}
	return nil
}

// ListAll returns the whole catalog in insertion order.
func (r *drugRepository) ListAll(ctx context.Context) ([]*model.DrugRecord, error) {
	query := `SELECT * FROM drugs ORDER BY created_at ASC, id ASC`
	var records []*model.DrugRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list drug records: %w", err)
	}
	return records, nil
}

func (r *drugRepository) FindExactByName(ctx context.Context, name string) (*model.DrugRecord, error) {
	if name == "" {
		return nil, nil
	}
	query := `SELECT * FROM drugs WHERE name = $1 ORDER BY created_at ASC, id ASC LIMIT 1`
	var record model.DrugRecord
	err := r.db.GetContext(ctx, &record, query, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find drug by name: %w", err)
	}
	return &record, nil
}
