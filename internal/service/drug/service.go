package drug

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/medinfo/medinfo-api/internal/classifier"
	"github.com/medinfo/medinfo-api/internal/engine"
	"github.com/medinfo/medinfo-api/internal/model"
	"github.com/medinfo/medinfo-api/internal/repository"
	"github.com/medinfo/medinfo-api/internal/session"
	apperrors "github.com/medinfo/medinfo-api/pkg/errors"
	"github.com/medinfo/medinfo-api/pkg/metrics"
)

// DrugService exposes the resolution engine over the stored catalog. Every
// read works on a fresh catalog snapshot; only the session store mutates.
type DrugService interface {
	CreateDrug(ctx context.Context, req *model.CreateDrugRequest) (*model.DrugRecord, error)
	Browse(ctx context.Context, sessionID, query string, page int) (*engine.Page, error)
	Search(ctx context.Context, sessionID, query string) (*model.DrugRecord, error)
	SearchHistory(sessionID string) []string
	Symptoms(ctx context.Context) ([]string, error)
	FilterBySymptom(ctx context.Context, tag string) ([]*model.DrugRecord, error)
	Identify(ctx context.Context, image []byte) (*model.DrugRecord, error)
}

type Service struct {
	repo       repository.DrugRepository
	outboxRepo repository.OutboxRepository
	classifier classifier.Classifier
	sessions   *session.Store
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

func NewService(
	repo repository.DrugRepository,
	outboxRepo repository.OutboxRepository,
	cls classifier.Classifier,
	sessions *session.Store,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		outboxRepo: outboxRepo,
		classifier: cls,
		sessions:   sessions,
		metrics:    m,
		logger:     logger.With().Str("service", "drug").Logger(),
	}
}

func (s *Service) CreateDrug(ctx context.Context, req *model.CreateDrugRequest) (*model.DrugRecord, error) {
	if req.Name == "" {
		return nil, apperrors.InvalidInput("drug name is required")
	}

	record := &model.DrugRecord{
		Base:               model.Base{ID: uuid.New()},
		Name:               req.Name,
		BrandNames:         req.BrandNames,
		ActiveIngredients:  req.ActiveIngredients,
		Excipients:         req.Excipients,
		Indications:        req.Indications,
		Dosage:             req.Dosage,
		SideEffects:        req.SideEffects,
		Contraindications:  req.Contraindications,
		DrugInteractions:   req.DrugInteractions,
		PrescriptionStatus: req.PrescriptionStatus,
		Warnings:           req.Warnings,
		SpecialPopulations: req.SpecialPopulations,
		LeafletPDFURL:      req.LeafletPDFURL,
		SourceLinks:        req.SourceLinks,
		Symptoms:           req.Symptoms,
	}

	if err := s.marshalJSONFields(record); err != nil {
		return nil, fmt.Errorf("failed to marshal JSON fields: %w", err)
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create drug record: %w", err)
	}

	s.emitEvent(ctx, "DRUG_CREATE", record)
	return record, nil
}

// Search resolves a single first-hit match over name then indications, and
// records the trimmed raw query in the session's recency list. A miss is a
// valid nil result, not an error.
func (s *Service) Search(ctx context.Context, sessionID, query string) (*model.DrugRecord, error) {
	q := engine.Normalize(query)
	if q == "" {
		return nil, apperrors.InvalidInput("search query must not be blank")
	}

	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.sessions.RecordQuery(sessionID, q)

	match := engine.FindFirstMatch(q, catalog)
	s.countSearch("single", match != nil)
	return match, nil
}

// Browse lists the catalog filtered by the multi-match query, paginated.
// Changing the query resets the session's page cursor to 1.
func (s *Service) Browse(ctx context.Context, sessionID, query string, page int) (*engine.Page, error) {
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	q := engine.Normalize(query)
	cursor := s.sessions.BrowseCursor(sessionID, q, page)
	matches := engine.FindAllMatches(q, catalog)
	s.countSearch("multi", len(matches) > 0)

	result := engine.Paginate(matches, cursor)
	return &result, nil
}

func (s *Service) SearchHistory(sessionID string) []string {
	return s.sessions.History(sessionID)
}

func (s *Service) Symptoms(ctx context.Context) ([]string, error) {
	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return engine.SymptomVocabulary(catalog), nil
}

func (s *Service) FilterBySymptom(ctx context.Context, tag string) ([]*model.DrugRecord, error) {
	if tag == "" {
		return nil, apperrors.InvalidInput("symptom tag must not be blank")
	}

	catalog, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	matches := engine.FilterBySymptom(tag, catalog)
	s.countSearch("symptom", len(matches) > 0)
	return matches, nil
}

// Identify runs the photo identification pipeline: validate, one classifier
// call, exact lookup of the predicted name. The returned record is a copy;
// the confidence annotation never touches the stored catalog entry.
func (s *Service) Identify(ctx context.Context, image []byte) (*model.DrugRecord, error) {
	if len(image) == 0 {
		return nil, apperrors.MissingFile()
	}

	prediction, err := s.classifier.Predict(ctx, image)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindExactByName(ctx, prediction.DrugName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up predicted drug: %w", err)
	}
	if record == nil {
		s.countSearch("photo", false)
		return nil, apperrors.NotFound("drug", fmt.Errorf("no catalog record named %q", prediction.DrugName))
	}

	result := *record
	if err := s.unmarshalJSONFields(&result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drug %s: %w", result.ID, err)
	}
	result.ImageConfidenceScore = prediction.Confidence

	s.countSearch("photo", true)
	return &result, nil
}

// snapshot loads the catalog once for the current call.
func (s *Service) snapshot(ctx context.Context) ([]*model.DrugRecord, error) {
	catalog, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	for _, record := range catalog {
		if err := s.unmarshalJSONFields(record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal drug %s: %w", record.ID, err)
		}
	}
	return catalog, nil
}

func (s *Service) marshalJSONFields(record *model.DrugRecord) error {
	if record.SideEffects != nil {
		data, err := json.Marshal(record.SideEffects)
		if err != nil {
			return err
		}
		record.SideEffectsJSON = data
	}
	if record.SpecialPopulations != nil {
		data, err := json.Marshal(record.SpecialPopulations)
		if err != nil {
			return err
		}
		record.SpecialPopulationsJSON = data
	}
	return nil
}

func (s *Service) unmarshalJSONFields(record *model.DrugRecord) error {
	if len(record.SideEffectsJSON) > 0 {
		var effects model.SideEffects
		if err := json.Unmarshal(record.SideEffectsJSON, &effects); err != nil {
			return err
		}
		record.SideEffects = &effects
	}
	if len(record.SpecialPopulationsJSON) > 0 {
		var populations model.SpecialPopulations
		if err := json.Unmarshal(record.SpecialPopulationsJSON, &populations); err != nil {
			return err
		}
		record.SpecialPopulations = &populations
	}
	return nil
}

func (s *Service) emitEvent(ctx context.Context, eventType string, record *model.DrugRecord) {
	if s.outboxRepo == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal record for event")
		return
	}
	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to create outbox event")
	}
}

func (s *Service) countSearch(mode string, hit bool) {
	if s.metrics == nil {
		return
	}
	outcome := "match"
	if !hit {
		outcome = "no_match"
	}
	s.metrics.SearchRequests.With(prometheus.Labels{"mode": mode, "outcome": outcome}).Inc()
}

var _ DrugService = (*Service)(nil)
