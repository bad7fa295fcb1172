// Package scoring implements the lead scoring engine: disqualification
// rules, the five component scorers, weighted aggregation and batch
// statistics. Every entry point is a pure function of its record and config;
// the engine holds no state and never touches storage.
package scoring

import (
	"math"
	"time"

	"github.com/sunscout/api/internal/models"
)

// ScoreOne scores a single canonical property record against cfg, which the
// caller has already validated. Disqualified records come back with overall
// score 0, qualification unsuitable and no component scores.
func ScoreOne(rec *models.PropertyRecord, cfg Config) models.ScoreResult {
	result := models.ScoreResult{
		PropertyID: rec.PropertyID,
		ScoredAt:   time.Now().UTC(),
	}
	if rec.Homeowner != nil {
		result.DoNotCall = rec.Homeowner.DoNotCall
	}

	if reason, disqualified := Disqualify(rec); disqualified {
		result.Disqualified = true
		result.DisqualificationReason = &reason
		result.Qualification = models.QualificationUnsuitable
		return result
	}

	components := &models.ComponentScores{
		Bill:        BillScore(rec, cfg),
		Roof:        RoofScore(rec),
		Property:    PropertyScore(rec, cfg),
		NetMetering: NetMeteringScore(rec),
		Homeowner:   HomeownerScore(rec),
	}

	result.ComponentScores = components
	result.OverallScore = Aggregate(components, cfg.Weights)
	result.Qualification = cfg.Boundaries.Categorize(result.OverallScore)
	return result
}

// Aggregate combines the five component scores into the overall 0-100 score
// using the configured weights. Exact halves round down, so a weighted sum of
// 85.5 reports as 85.
func Aggregate(c *models.ComponentScores, w Weights) int {
	sum := float64(c.Bill)*w.BillSize +
		float64(c.Roof)*w.RoofSuitability +
		float64(c.Property)*w.PropertyValue +
		float64(c.NetMetering)*w.NetMetering +
		float64(c.Homeowner)*w.Homeowner

	overall := int(math.Ceil(sum - 0.5))
	if overall < 0 {
		return 0
	}
	if overall > 100 {
		return 100
	}
	return overall
}

func currentYear() int {
	return time.Now().UTC().Year()
}
