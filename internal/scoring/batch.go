package scoring

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sunscout/api/internal/models"
)

// DefaultBatchWorkers bounds the scoring concurrency when the caller does not
// ask for a specific worker count.
const DefaultBatchWorkers = 8

// ScoreBatch scores every record concurrently on up to workers goroutines
// (DefaultBatchWorkers when workers <= 0) and folds the results into batch
// statistics. Scoring is stateless per record, so the only ordering
// requirement is reassembly: the returned results are in input order.
//
// cfg is snapshotted by value; a config change elsewhere never affects a
// batch already in flight. The only error returned is ctx cancellation.
func ScoreBatch(ctx context.Context, records []*models.PropertyRecord, cfg Config, workers int) ([]models.ScoreResult, models.BatchStatistics, error) {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}

	results := make([]models.ScoreResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = ScoreOne(rec, cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, models.BatchStatistics{}, err
	}

	return results, Summarize(results, cfg), nil
}

// Summarize computes the aggregate statistics for a set of score results.
// Mean, median, population standard deviation and min/max cover eligible
// records only; the category distribution and qualification rate cover all
// records, with disqualified records under unsuitable. Every statistic is an
// order-independent reduction.
func Summarize(results []models.ScoreResult, cfg Config) models.BatchStatistics {
	stats := models.BatchStatistics{
		TotalRecords: len(results),
		Distribution: make(map[models.Qualification]models.CategoryCount),
	}

	categories := []models.Qualification{
		models.QualificationExcellent,
		models.QualificationGood,
		models.QualificationAverage,
		models.QualificationPoor,
		models.QualificationUnsuitable,
	}
	counts := make(map[models.Qualification]int, len(categories))

	var eligible []int
	qualified := 0
	for _, r := range results {
		counts[r.Qualification]++
		if r.Disqualified {
			stats.DisqualifiedRecords++
			continue
		}
		eligible = append(eligible, r.OverallScore)
		if r.OverallScore >= cfg.Boundaries.Average {
			qualified++
		}
	}
	stats.EligibleRecords = len(eligible)

	for _, cat := range categories {
		count := counts[cat]
		entry := models.CategoryCount{Count: count}
		if stats.TotalRecords > 0 {
			entry.Percentage = round2(float64(count) / float64(stats.TotalRecords) * 100)
		}
		stats.Distribution[cat] = entry
	}
	if stats.TotalRecords > 0 {
		stats.QualificationRate = round2(float64(qualified) / float64(stats.TotalRecords) * 100)
	}

	if len(eligible) == 0 {
		return stats
	}

	sort.Ints(eligible)
	stats.MinScore = eligible[0]
	stats.MaxScore = eligible[len(eligible)-1]

	sum := 0
	for _, s := range eligible {
		sum += s
	}
	mean := float64(sum) / float64(len(eligible))
	stats.Mean = round2(mean)

	mid := len(eligible) / 2
	if len(eligible)%2 == 0 {
		stats.Median = float64(eligible[mid-1]+eligible[mid]) / 2
	} else {
		stats.Median = float64(eligible[mid])
	}

	var variance float64
	for _, s := range eligible {
		d := float64(s) - mean
		variance += d * d
	}
	variance /= float64(len(eligible))
	stats.StdDev = round2(math.Sqrt(variance))

	return stats
}

// round2 rounds to two decimal places for stable JSON output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
