package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sunscout/api/internal/database"
	"github.com/sunscout/api/internal/models"
)

// LeadSummary is the compact listing view of a property: identity and
// address fields plus the latest score, if one exists.
type LeadSummary struct {
	PropertyID    string                `json:"property_id"`
	AddressLine1  string                `json:"address_line_1"`
	City          string                `json:"city"`
	State         string                `json:"state"`
	ZipCode       string                `json:"zip_code"`
	OverallScore  *int                  `json:"overall_score,omitempty"`
	Qualification *models.Qualification `json:"qualification,omitempty"`
	DoNotCall     bool                  `json:"do_not_call"`
}

// LeadRepository defines the interface for property and score data access.
type LeadRepository interface {
	// Upsert stores a property record, replacing any prior version wholesale.
	// Sub-records absent from the new version are deleted.
	Upsert(ctx context.Context, rec *models.PropertyRecord) error

	// GetByID fetches one property record with all its sub-records.
	// Returns nil, nil if no property is found (not an error).
	GetByID(ctx context.Context, propertyID string) (*models.PropertyRecord, error)

	// GetScore fetches the latest stored score for a property.
	// Returns nil, nil if the property has never been scored.
	GetScore(ctx context.Context, propertyID string) (*models.ScoreResult, error)

	// ListRecords fetches every stored property record with sub-records,
	// ordered by property id for deterministic batch runs.
	ListRecords(ctx context.Context) ([]*models.PropertyRecord, error)

	// ListSummaries fetches the listing view of all properties. When minScore
	// is non-nil only scored properties at or above that score are returned.
	// Results are ordered by score descending, unscored properties last.
	ListSummaries(ctx context.Context, minScore *int) ([]LeadSummary, error)

	// ReplaceScores stores the results of a scoring run, replacing any prior
	// scores for the same properties.
	ReplaceScores(ctx context.Context, results []models.ScoreResult) error
}

// leadRepository is the concrete implementation of LeadRepository.
type leadRepository struct {
	db *database.Database
}

// NewLeadRepository creates a new instance of LeadRepository.
func NewLeadRepository(db *database.Database) LeadRepository {
	return &leadRepository{
		db: db,
	}
}

// Upsert writes the property row and its sub-records in a single transaction.
// Replacement is wholesale: sub-record rows are deleted first so that a new
// version without, say, homeowner data does not leave a stale homeowner row.
func (r *leadRepository) Upsert(ctx context.Context, rec *models.PropertyRecord) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO properties (
			property_id, address_line_1, city, state, zip_code,
			property_type, year_built, square_footage, assessed_value,
			is_owner_occupied, has_solar_installation, has_solar_permit,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (property_id) DO UPDATE SET
			address_line_1 = EXCLUDED.address_line_1,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			property_type = EXCLUDED.property_type,
			year_built = EXCLUDED.year_built,
			square_footage = EXCLUDED.square_footage,
			assessed_value = EXCLUDED.assessed_value,
			is_owner_occupied = EXCLUDED.is_owner_occupied,
			has_solar_installation = EXCLUDED.has_solar_installation,
			has_solar_permit = EXCLUDED.has_solar_permit,
			updated_at = EXCLUDED.updated_at
	`,
		rec.PropertyID, rec.AddressLine1, rec.City, rec.State, rec.ZipCode,
		rec.PropertyType, rec.YearBuilt, rec.SquareFootage, rec.AssessedValue,
		rec.IsOwnerOccupied, rec.HasSolarInstallation, rec.HasSolarPermit,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert property %s: %w", rec.PropertyID, err)
	}

	for _, table := range []string{"roofs", "utilities", "homeowners"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE property_id = $1", table), rec.PropertyID); err != nil {
			return fmt.Errorf("failed to clear %s for property %s: %w", table, rec.PropertyID, err)
		}
	}

	if rec.Roof != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO roofs (
				property_id, roof_type, age, total_area, usable_area,
				primary_orientation, azimuth, pitch, shading_percentage, condition
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			rec.PropertyID, rec.Roof.RoofType, rec.Roof.Age, rec.Roof.TotalArea,
			rec.Roof.UsableArea, rec.Roof.PrimaryOrientation, rec.Roof.Azimuth,
			rec.Roof.Pitch, rec.Roof.ShadingPercentage, rec.Roof.Condition,
		)
		if err != nil {
			return fmt.Errorf("failed to insert roof for property %s: %w", rec.PropertyID, err)
		}
	}

	if rec.Utility != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO utilities (
				property_id, provider, residential_rate,
				net_metering_available, net_metering_rate, estimated_monthly_bill
			) VALUES ($1, $2, $3, $4, $5, $6)
		`,
			rec.PropertyID, rec.Utility.Provider, rec.Utility.ResidentialRate,
			rec.Utility.NetMeteringAvailable, rec.Utility.NetMeteringRate,
			rec.Utility.EstimatedMonthlyBill,
		)
		if err != nil {
			return fmt.Errorf("failed to insert utility for property %s: %w", rec.PropertyID, err)
		}
	}

	if rec.Homeowner != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO homeowners (
				property_id, name, phone, email, ownership_years, do_not_call
			) VALUES ($1, $2, $3, $4, $5, $6)
		`,
			rec.PropertyID, rec.Homeowner.Name, rec.Homeowner.Phone,
			rec.Homeowner.Email, rec.Homeowner.OwnershipYears, rec.Homeowner.DoNotCall,
		)
		if err != nil {
			return fmt.Errorf("failed to insert homeowner for property %s: %w", rec.PropertyID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit property %s: %w", rec.PropertyID, err)
	}

	return nil
}

// GetByID fetches the property row and then each optional sub-record.
func (r *leadRepository) GetByID(ctx context.Context, propertyID string) (*models.PropertyRecord, error) {
	var rec models.PropertyRecord

	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			property_id, address_line_1, city, state, zip_code,
			property_type, year_built, square_footage, assessed_value,
			is_owner_occupied, has_solar_installation, has_solar_permit,
			updated_at
		FROM properties
		WHERE property_id = $1
	`, propertyID).Scan(
		&rec.PropertyID, &rec.AddressLine1, &rec.City, &rec.State, &rec.ZipCode,
		&rec.PropertyType, &rec.YearBuilt, &rec.SquareFootage, &rec.AssessedValue,
		&rec.IsOwnerOccupied, &rec.HasSolarInstallation, &rec.HasSolarPermit,
		&rec.UpdatedAt,
	)

	// Not found is not an error at the repository level
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property %s: %w", propertyID, err)
	}

	if rec.Roof, err = r.getRoof(ctx, propertyID); err != nil {
		return nil, err
	}
	if rec.Utility, err = r.getUtility(ctx, propertyID); err != nil {
		return nil, err
	}
	if rec.Homeowner, err = r.getHomeowner(ctx, propertyID); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *leadRepository) getRoof(ctx context.Context, propertyID string) (*models.RoofRecord, error) {
	var roof models.RoofRecord

	err := r.db.Pool.QueryRow(ctx, `
		SELECT roof_type, age, total_area, usable_area,
			primary_orientation, azimuth, pitch, shading_percentage, condition
		FROM roofs
		WHERE property_id = $1
	`, propertyID).Scan(
		&roof.RoofType, &roof.Age, &roof.TotalArea, &roof.UsableArea,
		&roof.PrimaryOrientation, &roof.Azimuth, &roof.Pitch,
		&roof.ShadingPercentage, &roof.Condition,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query roof for property %s: %w", propertyID, err)
	}

	return &roof, nil
}

func (r *leadRepository) getUtility(ctx context.Context, propertyID string) (*models.UtilityRecord, error) {
	var utility models.UtilityRecord

	err := r.db.Pool.QueryRow(ctx, `
		SELECT provider, residential_rate, net_metering_available,
			net_metering_rate, estimated_monthly_bill
		FROM utilities
		WHERE property_id = $1
	`, propertyID).Scan(
		&utility.Provider, &utility.ResidentialRate, &utility.NetMeteringAvailable,
		&utility.NetMeteringRate, &utility.EstimatedMonthlyBill,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query utility for property %s: %w", propertyID, err)
	}

	return &utility, nil
}

func (r *leadRepository) getHomeowner(ctx context.Context, propertyID string) (*models.HomeownerRecord, error) {
	var homeowner models.HomeownerRecord

	err := r.db.Pool.QueryRow(ctx, `
		SELECT name, phone, email, ownership_years, do_not_call
		FROM homeowners
		WHERE property_id = $1
	`, propertyID).Scan(
		&homeowner.Name, &homeowner.Phone, &homeowner.Email,
		&homeowner.OwnershipYears, &homeowner.DoNotCall,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query homeowner for property %s: %w", propertyID, err)
	}

	return &homeowner, nil
}

// GetScore fetches the stored score row for a property.
func (r *leadRepository) GetScore(ctx context.Context, propertyID string) (*models.ScoreResult, error) {
	var (
		result     models.ScoreResult
		components scanComponents
	)

	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			property_id, overall_score, qualification,
			bill_score, roof_score, property_score, metering_score, homeowner_score,
			disqualified, disqualification_reason, do_not_call, scored_at
		FROM lead_scores
		WHERE property_id = $1
	`, propertyID).Scan(
		&result.PropertyID, &result.OverallScore, &result.Qualification,
		&components.bill, &components.roof, &components.property,
		&components.metering, &components.homeowner,
		&result.Disqualified, &result.DisqualificationReason,
		&result.DoNotCall, &result.ScoredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query score for property %s: %w", propertyID, err)
	}

	result.ComponentScores = components.toModel()

	return &result, nil
}

// scanComponents holds the nullable component columns of a score row.
// Disqualified records have no component scores, so all five are NULL.
type scanComponents struct {
	bill      *int
	roof      *int
	property  *int
	metering  *int
	homeowner *int
}

func (c scanComponents) toModel() *models.ComponentScores {
	if c.bill == nil {
		return nil
	}
	return &models.ComponentScores{
		Bill:        *c.bill,
		Roof:        *c.roof,
		Property:    *c.property,
		NetMetering: *c.metering,
		Homeowner:   *c.homeowner,
	}
}

// ListRecords loads every property with its sub-records. Sub-records are
// fetched in bulk and stitched in memory rather than per property.
func (r *leadRepository) ListRecords(ctx context.Context) ([]*models.PropertyRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT
			property_id, address_line_1, city, state, zip_code,
			property_type, year_built, square_footage, assessed_value,
			is_owner_occupied, has_solar_installation, has_solar_permit,
			updated_at
		FROM properties
		ORDER BY property_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var records []*models.PropertyRecord
	byID := make(map[string]*models.PropertyRecord)

	for rows.Next() {
		var rec models.PropertyRecord
		err := rows.Scan(
			&rec.PropertyID, &rec.AddressLine1, &rec.City, &rec.State, &rec.ZipCode,
			&rec.PropertyType, &rec.YearBuilt, &rec.SquareFootage, &rec.AssessedValue,
			&rec.IsOwnerOccupied, &rec.HasSolarInstallation, &rec.HasSolarPermit,
			&rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		records = append(records, &rec)
		byID[rec.PropertyID] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}

	if err := r.attachRoofs(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.attachUtilities(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.attachHomeowners(ctx, byID); err != nil {
		return nil, err
	}

	if records == nil {
		records = []*models.PropertyRecord{}
	}

	return records, nil
}

func (r *leadRepository) attachRoofs(ctx context.Context, byID map[string]*models.PropertyRecord) error {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT property_id, roof_type, age, total_area, usable_area,
			primary_orientation, azimuth, pitch, shading_percentage, condition
		FROM roofs
	`)
	if err != nil {
		return fmt.Errorf("failed to query roofs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			propertyID string
			roof       models.RoofRecord
		)
		err := rows.Scan(
			&propertyID, &roof.RoofType, &roof.Age, &roof.TotalArea,
			&roof.UsableArea, &roof.PrimaryOrientation, &roof.Azimuth,
			&roof.Pitch, &roof.ShadingPercentage, &roof.Condition,
		)
		if err != nil {
			return fmt.Errorf("failed to scan roof row: %w", err)
		}
		if rec, ok := byID[propertyID]; ok {
			rec.Roof = &roof
		}
	}

	return rows.Err()
}

func (r *leadRepository) attachUtilities(ctx context.Context, byID map[string]*models.PropertyRecord) error {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT property_id, provider, residential_rate, net_metering_available,
			net_metering_rate, estimated_monthly_bill
		FROM utilities
	`)
	if err != nil {
		return fmt.Errorf("failed to query utilities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			propertyID string
			utility    models.UtilityRecord
		)
		err := rows.Scan(
			&propertyID, &utility.Provider, &utility.ResidentialRate,
			&utility.NetMeteringAvailable, &utility.NetMeteringRate,
			&utility.EstimatedMonthlyBill,
		)
		if err != nil {
			return fmt.Errorf("failed to scan utility row: %w", err)
		}
		if rec, ok := byID[propertyID]; ok {
			rec.Utility = &utility
		}
	}

	return rows.Err()
}

func (r *leadRepository) attachHomeowners(ctx context.Context, byID map[string]*models.PropertyRecord) error {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT property_id, name, phone, email, ownership_years, do_not_call
		FROM homeowners
	`)
	if err != nil {
		return fmt.Errorf("failed to query homeowners: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			propertyID string
			homeowner  models.HomeownerRecord
		)
		err := rows.Scan(
			&propertyID, &homeowner.Name, &homeowner.Phone, &homeowner.Email,
			&homeowner.OwnershipYears, &homeowner.DoNotCall,
		)
		if err != nil {
			return fmt.Errorf("failed to scan homeowner row: %w", err)
		}
		if rec, ok := byID[propertyID]; ok {
			rec.Homeowner = &homeowner
		}
	}

	return rows.Err()
}

// ListSummaries joins properties with their latest scores for the list view.
func (r *leadRepository) ListSummaries(ctx context.Context, minScore *int) ([]LeadSummary, error) {
	query := `
		SELECT
			p.property_id, p.address_line_1, p.city, p.state, p.zip_code,
			s.overall_score, s.qualification, COALESCE(s.do_not_call, FALSE)
		FROM properties p
		LEFT JOIN lead_scores s ON s.property_id = p.property_id
	`
	var args []any
	if minScore != nil {
		query += ` WHERE s.overall_score >= $1`
		args = append(args, *minScore)
	}
	query += ` ORDER BY s.overall_score DESC NULLS LAST, p.property_id`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lead summaries: %w", err)
	}
	defer rows.Close()

	var summaries []LeadSummary

	for rows.Next() {
		var s LeadSummary
		err := rows.Scan(
			&s.PropertyID, &s.AddressLine1, &s.City, &s.State, &s.ZipCode,
			&s.OverallScore, &s.Qualification, &s.DoNotCall,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lead summary rows: %w", err)
	}

	// Return empty slice if no leads found (not an error)
	if summaries == nil {
		summaries = []LeadSummary{}
	}

	return summaries, nil
}

// ReplaceScores persists a scoring run in a single transaction.
func (r *leadRepository) ReplaceScores(ctx context.Context, results []models.ScoreResult) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range results {
		res := &results[i]

		var bill, roof, property, metering, homeowner *int
		if res.ComponentScores != nil {
			bill = &res.ComponentScores.Bill
			roof = &res.ComponentScores.Roof
			property = &res.ComponentScores.Property
			metering = &res.ComponentScores.NetMetering
			homeowner = &res.ComponentScores.Homeowner
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO lead_scores (
				property_id, overall_score, qualification,
				bill_score, roof_score, property_score, metering_score, homeowner_score,
				disqualified, disqualification_reason, do_not_call, scored_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (property_id) DO UPDATE SET
				overall_score = EXCLUDED.overall_score,
				qualification = EXCLUDED.qualification,
				bill_score = EXCLUDED.bill_score,
				roof_score = EXCLUDED.roof_score,
				property_score = EXCLUDED.property_score,
				metering_score = EXCLUDED.metering_score,
				homeowner_score = EXCLUDED.homeowner_score,
				disqualified = EXCLUDED.disqualified,
				disqualification_reason = EXCLUDED.disqualification_reason,
				do_not_call = EXCLUDED.do_not_call,
				scored_at = EXCLUDED.scored_at
		`,
			res.PropertyID, res.OverallScore, res.Qualification,
			bill, roof, property, metering, homeowner,
			res.Disqualified, res.DisqualificationReason, res.DoNotCall, res.ScoredAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert score for property %s: %w", res.PropertyID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit scores: %w", err)
	}

	return nil
}
