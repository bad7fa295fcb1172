package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sunscout/api/internal/logger"
	"github.com/sunscout/api/internal/models"
	"github.com/sunscout/api/internal/normalize"
	"github.com/sunscout/api/internal/repository"
	"github.com/sunscout/api/internal/scoring"
)

// Score filter validation constants
const (
	MinFilterScore = 0
	MaxFilterScore = 100
)

// Service-level errors
var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrInvalidMinScore = errors.New("min_score must be between 0 and 100")
	ErrNoRecords       = errors.New("no property records to score")
)

// ImportError describes one raw record that could not be normalized. Field
// names the offending attribute when the failure is field-level; PropertyID
// is included when the raw row carried one, so the caller can match the
// failure back to its source data.
type ImportError struct {
	Index      int    `json:"index"`
	PropertyID string `json:"property_id,omitempty"`
	Field      string `json:"field,omitempty"`
	Message    string `json:"message"`
}

// newImportError extracts the structured parts of a normalization failure.
func newImportError(index int, raw normalize.RawRecord, err error) ImportError {
	ie := ImportError{Index: index, Message: err.Error()}

	if id, ok := raw.Property["property_id"].(string); ok {
		ie.PropertyID = id
	}

	var invalidErr *normalize.InvalidFieldError
	var enumErr *normalize.UnknownEnumValueError
	switch {
	case errors.As(err, &invalidErr):
		ie.Field = invalidErr.Field
	case errors.As(err, &enumErr):
		ie.Field = enumErr.Field
	}
	return ie
}

// ImportResult summarizes one import call. Failed records are skipped, not
// fatal; the valid remainder is still stored.
type ImportResult struct {
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// PreviewResult pairs the scores of previewed records with the rows that
// failed normalization, mirroring the import-feedback shape.
type PreviewResult struct {
	Results []models.ScoreResult `json:"results"`
	Failed  int                  `json:"failed"`
	Errors  []ImportError        `json:"errors,omitempty"`
}

// LeadDetail is a property record paired with its latest score, if any.
type LeadDetail struct {
	Record *models.PropertyRecord `json:"record"`
	Score  *models.ScoreResult    `json:"score,omitempty"`
}

// ScoreRunResult is the outcome of a full scoring run.
type ScoreRunResult struct {
	Results    []models.ScoreResult   `json:"results"`
	Statistics models.BatchStatistics `json:"statistics"`
}

// LeadService defines the interface for lead business logic operations.
type LeadService interface {
	// ImportRecords normalizes and stores a batch of raw records. Records
	// that fail normalization are reported in the result, not stored.
	ImportRecords(ctx context.Context, raws []normalize.RawRecord) (*ImportResult, error)

	// ScoreAll scores every stored property record under the current scoring
	// configuration and persists the results.
	// Returns ErrNoRecords when nothing has been imported yet.
	ScoreAll(ctx context.Context) (*ScoreRunResult, error)

	// PreviewScores normalizes and scores raw records without storing
	// either the records or the scores. Rows that fail normalization are
	// reported per index alongside the scored remainder.
	PreviewScores(ctx context.Context, raws []normalize.RawRecord) *PreviewResult

	// GetLead retrieves one property record with its latest score.
	// Returns ErrLeadNotFound if the property does not exist.
	GetLead(ctx context.Context, propertyID string) (*LeadDetail, error)

	// ListLeads retrieves the listing view of all properties, optionally
	// filtered to scores at or above minScore.
	// Returns ErrInvalidMinScore if the filter is out of range.
	ListLeads(ctx context.Context, minScore *int) ([]repository.LeadSummary, error)

	// ScoringConfig returns the scoring configuration currently in effect.
	ScoringConfig() scoring.Config

	// UpdateScoringConfig replaces the scoring configuration. The new
	// configuration is validated before it takes effect; stored scores are
	// not recomputed until the next scoring run.
	UpdateScoringConfig(cfg scoring.Config) error
}

// leadService is the concrete implementation of LeadService.
type leadService struct {
	repo    repository.LeadRepository
	log     *logger.Logger
	workers int

	mu  sync.RWMutex
	cfg scoring.Config
}

// NewLeadService creates a new instance of LeadService. The workers argument
// bounds scoring concurrency; zero or negative falls back to the default.
func NewLeadService(repo repository.LeadRepository, log *logger.Logger, cfg scoring.Config, workers int) LeadService {
	if workers <= 0 {
		workers = scoring.DefaultBatchWorkers
	}
	return &leadService{
		repo:    repo,
		log:     log,
		workers: workers,
		cfg:     cfg,
	}
}

// ImportRecords normalizes each raw record and upserts the valid ones.
func (s *leadService) ImportRecords(ctx context.Context, raws []normalize.RawRecord) (*ImportResult, error) {
	result := &ImportResult{}

	for i, raw := range raws {
		rec, err := normalize.Normalize(raw)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, newImportError(i, raw, err))
			continue
		}

		rec.UpdatedAt = time.Now().UTC()

		if err := s.repo.Upsert(ctx, rec); err != nil {
			s.log.Error("Failed to store property record", err, map[string]interface{}{
				"property_id": rec.PropertyID,
				"index":       i,
			})
			return nil, fmt.Errorf("failed to store property record: %w", err)
		}
		result.Imported++
	}

	s.log.Info("Import finished", map[string]interface{}{
		"imported": result.Imported,
		"failed":   result.Failed,
	})

	return result, nil
}

// ScoreAll loads every stored record, scores the batch under a snapshot of
// the current configuration and persists the results. A configuration update
// arriving mid-run does not affect records already being scored.
func (s *leadService) ScoreAll(ctx context.Context) (*ScoreRunResult, error) {
	cfg := s.ScoringConfig()

	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		s.log.Error("Failed to load property records", err, nil)
		return nil, fmt.Errorf("failed to load property records: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	s.log.Info("Scoring run started", map[string]interface{}{
		"records": len(records),
		"workers": s.workers,
	})

	results, stats, err := scoring.ScoreBatch(ctx, records, cfg, s.workers)
	if err != nil {
		s.log.Error("Scoring run aborted", err, map[string]interface{}{
			"records": len(records),
		})
		return nil, fmt.Errorf("scoring run aborted: %w", err)
	}

	if err := s.repo.ReplaceScores(ctx, results); err != nil {
		s.log.Error("Failed to persist scores", err, map[string]interface{}{
			"records": len(results),
		})
		return nil, fmt.Errorf("failed to persist scores: %w", err)
	}

	s.log.Info("Scoring run finished", map[string]interface{}{
		"records":            stats.TotalRecords,
		"eligible":           stats.EligibleRecords,
		"disqualified":       stats.DisqualifiedRecords,
		"mean":               stats.Mean,
		"qualification_rate": stats.QualificationRate,
	})

	return &ScoreRunResult{Results: results, Statistics: stats}, nil
}

// PreviewScores scores raw records without touching storage.
func (s *leadService) PreviewScores(ctx context.Context, raws []normalize.RawRecord) *PreviewResult {
	cfg := s.ScoringConfig()
	result := &PreviewResult{Results: []models.ScoreResult{}}

	for i, raw := range raws {
		rec, err := normalize.Normalize(raw)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, newImportError(i, raw, err))
			continue
		}
		result.Results = append(result.Results, scoring.ScoreOne(rec, cfg))
	}

	return result
}

// GetLead retrieves one property record with its latest score.
func (s *leadService) GetLead(ctx context.Context, propertyID string) (*LeadDetail, error) {
	rec, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		s.log.Error("Failed to query property", err, map[string]interface{}{
			"property_id": propertyID,
		})
		return nil, fmt.Errorf("failed to query property: %w", err)
	}

	// Repository returns nil, nil when not found - transform to domain error
	if rec == nil {
		return nil, ErrLeadNotFound
	}

	score, err := s.repo.GetScore(ctx, propertyID)
	if err != nil {
		s.log.Error("Failed to query score", err, map[string]interface{}{
			"property_id": propertyID,
		})
		return nil, fmt.Errorf("failed to query score: %w", err)
	}

	return &LeadDetail{Record: rec, Score: score}, nil
}

// ListLeads retrieves the listing view, validating the optional score filter.
func (s *leadService) ListLeads(ctx context.Context, minScore *int) ([]repository.LeadSummary, error) {
	if minScore != nil && (*minScore < MinFilterScore || *minScore > MaxFilterScore) {
		s.log.Warn("Invalid min_score filter provided", map[string]interface{}{
			"min_score": *minScore,
		})
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMinScore, *minScore)
	}

	summaries, err := s.repo.ListSummaries(ctx, minScore)
	if err != nil {
		s.log.Error("Failed to list leads", err, nil)
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return summaries, nil
}

// ScoringConfig returns a copy of the configuration currently in effect.
func (s *leadService) ScoringConfig() scoring.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// UpdateScoringConfig validates and swaps in a new scoring configuration.
func (s *leadService) UpdateScoringConfig(cfg scoring.Config) error {
	if err := cfg.Validate(); err != nil {
		s.log.Warn("Rejected scoring configuration", map[string]interface{}{
			"reason": err.Error(),
		})
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.log.Info("Scoring configuration updated", map[string]interface{}{
		"weight_bill":      cfg.Weights.BillSize,
		"weight_roof":      cfg.Weights.RoofSuitability,
		"weight_property":  cfg.Weights.PropertyValue,
		"weight_metering":  cfg.Weights.NetMetering,
		"weight_homeowner": cfg.Weights.Homeowner,
	})

	return nil
}
