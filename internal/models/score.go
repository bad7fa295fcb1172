package models

import (
	"time"
)

// Qualification buckets an overall score into a sales-facing category.
type Qualification string

const (
	QualificationExcellent  Qualification = "excellent"
	QualificationGood       Qualification = "good"
	QualificationAverage    Qualification = "average"
	QualificationPoor       Qualification = "poor"
	QualificationUnsuitable Qualification = "unsuitable"
)

// ComponentScores holds the five dimension scores, each in [0,100].
type ComponentScores struct {
	Bill        int `json:"bill_score"`
	Roof        int `json:"roof_score"`
	Property    int `json:"property_score"`
	NetMetering int `json:"metering_score"`
	Homeowner   int `json:"homeowner_score"`
}

// ScoreResult is the outcome of scoring one property record. It is the wire
// contract for any API surface built on the scoring core: persisted, exported
// and displayed with exactly these field names.
//
// For disqualified records OverallScore is 0, Qualification is unsuitable and
// ComponentScores is nil; no component scores are computed for them.
type ScoreResult struct {
	PropertyID             string           `json:"property_id"`
	OverallScore           int              `json:"overall_score"`
	Qualification          Qualification    `json:"qualification"`
	ComponentScores        *ComponentScores `json:"component_scores,omitempty"`
	Disqualified           bool             `json:"disqualified"`
	DisqualificationReason *string          `json:"disqualification_reason,omitempty"`
	// DoNotCall is carried through from the homeowner record unmodified. It
	// does not affect the score; callers must respect it before any outreach.
	DoNotCall bool      `json:"do_not_call"`
	ScoredAt  time.Time `json:"scored_at"`
}

// CategoryCount is one row of a qualification distribution.
type CategoryCount struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BatchStatistics summarizes one batch scoring run. Mean, median, standard
// deviation and min/max cover eligible (non-disqualified) records only; the
// distribution and qualification rate cover all records, with disqualified
// records counted under unsuitable.
type BatchStatistics struct {
	TotalRecords        int                             `json:"total_records"`
	EligibleRecords     int                             `json:"eligible_records"`
	DisqualifiedRecords int                             `json:"disqualified_records"`
	Mean                float64                         `json:"mean"`
	Median              float64                         `json:"median"`
	StdDev              float64                         `json:"std_dev"`
	MinScore            int                             `json:"min_score"`
	MaxScore            int                             `json:"max_score"`
	Distribution        map[Qualification]CategoryCount `json:"distribution"`
	QualificationRate   float64                         `json:"qualification_rate"`
}
