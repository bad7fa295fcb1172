package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunscout/api/internal/models"
)

func TestScoreBatch_PreservesInputOrder(t *testing.T) {
	cfg := DefaultConfig()

	var records []*models.PropertyRecord
	for i := 0; i < 50; i++ {
		rec := qualifiedRecord()
		rec.PropertyID = fmt.Sprintf("prop-%03d", i)
		records = append(records, rec)
	}

	results, stats, err := ScoreBatch(context.Background(), records, cfg, 4)
	require.NoError(t, err)
	require.Len(t, results, len(records))

	for i, r := range results {
		assert.Equal(t, records[i].PropertyID, r.PropertyID)
	}
	assert.Equal(t, 50, stats.TotalRecords)
	assert.Equal(t, 50, stats.EligibleRecords)
}

func TestScoreBatch_MatchesSingleScoring(t *testing.T) {
	cfg := DefaultConfig()

	complete := qualifiedRecord()
	incomplete := qualifiedRecord()
	incomplete.PropertyID = "prop-002"
	incomplete.Utility = nil

	results, _, err := ScoreBatch(context.Background(), []*models.PropertyRecord{complete, incomplete}, cfg, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	single := ScoreOne(complete, cfg)
	single.ScoredAt = results[0].ScoredAt
	assert.Equal(t, single, results[0])

	assert.True(t, results[1].Disqualified)
}

func TestScoreBatch_CancelledContext(t *testing.T) {
	cfg := DefaultConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ScoreBatch(ctx, []*models.PropertyRecord{qualifiedRecord()}, cfg, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	cfg := DefaultConfig()
	reason := ReasonExistingSolar

	results := []models.ScoreResult{
		{PropertyID: "a", OverallScore: 80, Qualification: models.QualificationExcellent},
		{PropertyID: "b", OverallScore: 60, Qualification: models.QualificationAverage},
		{PropertyID: "c", Disqualified: true, DisqualificationReason: &reason, Qualification: models.QualificationUnsuitable},
	}

	stats := Summarize(results, cfg)

	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 2, stats.EligibleRecords)
	assert.Equal(t, 1, stats.DisqualifiedRecords)

	// Statistics cover eligible records only
	assert.Equal(t, 70.0, stats.Mean)
	assert.Equal(t, 70.0, stats.Median)
	assert.Equal(t, 10.0, stats.StdDev)
	assert.Equal(t, 60, stats.MinScore)
	assert.Equal(t, 80, stats.MaxScore)

	// Distribution covers all records and always lists every category
	require.Len(t, stats.Distribution, 5)
	assert.Equal(t, 1, stats.Distribution[models.QualificationExcellent].Count)
	assert.Equal(t, 1, stats.Distribution[models.QualificationAverage].Count)
	assert.Equal(t, 1, stats.Distribution[models.QualificationUnsuitable].Count)
	assert.Equal(t, 0, stats.Distribution[models.QualificationGood].Count)
	assert.Equal(t, 0, stats.Distribution[models.QualificationPoor].Count)
	assert.InDelta(t, 33.33, stats.Distribution[models.QualificationExcellent].Percentage, 0.001)

	// Both eligible records sit at or above the average boundary
	assert.InDelta(t, 66.67, stats.QualificationRate, 0.001)
}

func TestSummarize_EvenMedian(t *testing.T) {
	cfg := DefaultConfig()

	results := []models.ScoreResult{
		{OverallScore: 78, Qualification: models.QualificationGood},
		{OverallScore: 85, Qualification: models.QualificationExcellent},
	}

	stats := Summarize(results, cfg)
	assert.Equal(t, 81.5, stats.Mean)
	assert.Equal(t, 81.5, stats.Median)
}

func TestSummarize_OddMedian(t *testing.T) {
	cfg := DefaultConfig()

	results := []models.ScoreResult{
		{OverallScore: 40, Qualification: models.QualificationPoor},
		{OverallScore: 55, Qualification: models.QualificationAverage},
		{OverallScore: 90, Qualification: models.QualificationExcellent},
	}

	stats := Summarize(results, cfg)
	assert.Equal(t, 55.0, stats.Median)
	assert.InDelta(t, 61.67, stats.Mean, 0.001)
}

func TestSummarize_Empty(t *testing.T) {
	cfg := DefaultConfig()
	stats := Summarize(nil, cfg)

	assert.Equal(t, 0, stats.TotalRecords)
	assert.Equal(t, 0, stats.EligibleRecords)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.QualificationRate)
	assert.Len(t, stats.Distribution, 5)
}

func TestSummarize_AllDisqualified(t *testing.T) {
	cfg := DefaultConfig()
	reason := ReasonIncompleteData

	results := []models.ScoreResult{
		{Disqualified: true, DisqualificationReason: &reason, Qualification: models.QualificationUnsuitable},
		{Disqualified: true, DisqualificationReason: &reason, Qualification: models.QualificationUnsuitable},
	}

	stats := Summarize(results, cfg)
	assert.Equal(t, 2, stats.DisqualifiedRecords)
	assert.Equal(t, 0, stats.EligibleRecords)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.MinScore)
	assert.InDelta(t, 100, stats.Distribution[models.QualificationUnsuitable].Percentage, 0.001)
	assert.Zero(t, stats.QualificationRate)
}
