package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sunscout/api/internal/models"
)

func floatPtr(v float64) *float64 {
	return &v
}

// qualifiedRecord returns a record that passes every disqualification rule
// and produces deterministic component scores.
func qualifiedRecord() *models.PropertyRecord {
	return &models.PropertyRecord{
		PropertyID:      "prop-001",
		PropertyType:    models.PropertyTypeSingleFamily,
		YearBuilt:       2000,
		AssessedValue:   350000,
		IsOwnerOccupied: true,
		Roof: &models.RoofRecord{
			TotalArea:          1000,
			UsableArea:         800,
			Azimuth:            floatPtr(180),
			ShadingPercentage:  10,
			Condition:          models.RoofConditionGood,
			PrimaryOrientation: models.OrientationS,
		},
		Utility: &models.UtilityRecord{
			ResidentialRate:      0.15,
			NetMeteringAvailable: true,
			NetMeteringRate:      0.15,
			EstimatedMonthlyBill: 260,
		},
		Homeowner: &models.HomeownerRecord{
			Name:           "Dana Whitfield",
			Phone:          "+15125550147",
			Email:          "dana@example.com",
			OwnershipYears: 6,
		},
	}
}

func TestBillScore(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		bill float64
		want int
	}{
		{"missing bill is neutral", 0, 50},
		{"below threshold ramps down", 60, 20},
		{"at minimum qualifying bill", 120, 40},
		{"midway to saturation", 260, 70},
		{"at saturation bill", 400, 100},
		{"above saturation stays capped", 900, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := qualifiedRecord()
			rec.Utility.EstimatedMonthlyBill = tt.bill
			assert.Equal(t, tt.want, BillScore(rec, cfg))
		})
	}
}

func TestBillScore_Monotonic(t *testing.T) {
	cfg := DefaultConfig()
	rec := qualifiedRecord()

	// A nonpositive bill means the reading is missing and maps to the
	// neutral default, so the monotonic sweep covers positive bills only.
	prev := 0
	for bill := 10.0; bill <= 1000; bill += 10 {
		rec.Utility.EstimatedMonthlyBill = bill
		score := BillScore(rec, cfg)
		assert.GreaterOrEqual(t, score, prev, "bill %v scored lower than a smaller bill", bill)
		prev = score
	}
}

func TestOrientationScore_AzimuthAnchors(t *testing.T) {
	tests := []struct {
		name    string
		azimuth float64
		want    float64
	}{
		{"due south", 180, 100},
		{"southeast", 135, 85},
		{"southwest", 225, 85},
		{"due east", 90, 65},
		{"due west", 270, 65},
		{"due north", 0, 30},
		{"north via 360 wrap", 359, 30.389},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roof := &models.RoofRecord{Azimuth: floatPtr(tt.azimuth)}
			assert.InDelta(t, tt.want, orientationScore(roof), 0.001)
		})
	}
}

func TestOrientationScore_FallbackToCompass(t *testing.T) {
	// No azimuth: scored off the compass orientation midpoint
	roof := &models.RoofRecord{PrimaryOrientation: models.OrientationS}
	assert.InDelta(t, 100, orientationScore(roof), 0.001)

	roof = &models.RoofRecord{PrimaryOrientation: models.OrientationNE}
	assert.InDelta(t, 47.5, orientationScore(roof), 0.001)

	// Neither azimuth nor recognizable orientation
	roof = &models.RoofRecord{}
	assert.InDelta(t, 50, orientationScore(roof), 0.001)
}

func TestOrientationScore_AzimuthWinsOverCompass(t *testing.T) {
	roof := &models.RoofRecord{
		Azimuth:            floatPtr(180),
		PrimaryOrientation: models.OrientationN,
	}
	assert.InDelta(t, 100, orientationScore(roof), 0.001)
}

func TestRoofScore(t *testing.T) {
	rec := qualifiedRecord()

	// orientation 100 * 0.40 + area 80 * 0.25 + shading 90 * 0.20 +
	// condition 75 * 0.15 = 89.25
	assert.Equal(t, 89, RoofScore(rec))
}

func TestRoofScore_MissingAttributes(t *testing.T) {
	rec := qualifiedRecord()
	rec.Roof = &models.RoofRecord{}

	// Everything unknown: orientation 50, area 50, shading 100, condition 50
	// = 20 + 12.5 + 20 + 7.5 = 60
	assert.Equal(t, 60, RoofScore(rec))
}

func TestAreaScore(t *testing.T) {
	assert.InDelta(t, 80, areaScore(&models.RoofRecord{TotalArea: 1000, UsableArea: 800}), 0.001)
	assert.InDelta(t, 100, areaScore(&models.RoofRecord{TotalArea: 500, UsableArea: 900}), 0.001)
	assert.InDelta(t, 50, areaScore(&models.RoofRecord{UsableArea: 900}), 0.001)
}

func TestConditionScore(t *testing.T) {
	tests := []struct {
		condition models.RoofCondition
		want      float64
	}{
		{models.RoofConditionPoor, 25},
		{models.RoofConditionFair, 50},
		{models.RoofConditionGood, 75},
		{models.RoofConditionExcellent, 100},
		{"", 50},
	}

	for _, tt := range tests {
		roof := &models.RoofRecord{Condition: tt.condition}
		assert.InDelta(t, tt.want, conditionScore(roof), 0.001)
	}
}

func TestPropertyScore(t *testing.T) {
	cfg := DefaultConfig()
	rec := qualifiedRecord()

	// value 50 * 0.50 + age 100 * 0.25 + tenure 100 * 0.25 = 75
	assert.Equal(t, 75, PropertyScore(rec, cfg))
}

func TestValueScore(t *testing.T) {
	assert.InDelta(t, 50, valueScore(350000, 350000), 0.001)
	assert.InDelta(t, 100, valueScore(700000, 350000), 0.001)
	assert.InDelta(t, 100, valueScore(2000000, 350000), 0.001)
	assert.InDelta(t, 50, valueScore(0, 350000), 0.001)
}

func TestTenureScore(t *testing.T) {
	tests := []struct {
		years float64
		want  float64
	}{
		{0, 40},
		{1, 60},
		{3, 80},
		{5, 100},
		{20, 100},
	}

	for _, tt := range tests {
		owner := &models.HomeownerRecord{OwnershipYears: tt.years}
		assert.InDelta(t, tt.want, tenureScore(owner), 0.001)
	}

	assert.InDelta(t, 50, tenureScore(nil), 0.001)
}

func TestNetMeteringScore(t *testing.T) {
	rec := qualifiedRecord()

	// Full 1:1 netting
	assert.Equal(t, 100, NetMeteringScore(rec))

	// Credit rate above retail does not exceed 100
	rec.Utility.NetMeteringRate = 0.30
	assert.Equal(t, 100, NetMeteringScore(rec))

	// Partial credit degrades linearly
	rec.Utility.NetMeteringRate = 0.12
	assert.Equal(t, 80, NetMeteringScore(rec))

	// Unknown retail rate is neutral
	rec.Utility.ResidentialRate = 0
	assert.Equal(t, 50, NetMeteringScore(rec))

	// No net metering at all scores zero
	rec.Utility.NetMeteringAvailable = false
	assert.Equal(t, 0, NetMeteringScore(rec))
}

func TestHomeownerScore(t *testing.T) {
	tests := []struct {
		name  string
		owner *models.HomeownerRecord
		want  int
	}{
		{"no homeowner data is neutral", nil, 50},
		{"fully reachable long tenure", &models.HomeownerRecord{Phone: "+15125550147", Email: "a@b.com", OwnershipYears: 4}, 100},
		{"phone only", &models.HomeownerRecord{Phone: "+15125550147"}, 40},
		{"email only", &models.HomeownerRecord{Email: "a@b.com"}, 30},
		{"tenure only", &models.HomeownerRecord{OwnershipYears: 2}, 30},
		{"unreachable short tenure", &models.HomeownerRecord{OwnershipYears: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := qualifiedRecord()
			rec.Homeowner = tt.owner
			assert.Equal(t, tt.want, HomeownerScore(rec))
		})
	}
}

func TestHomeownerScore_DoNotCallDoesNotAffectScore(t *testing.T) {
	rec := qualifiedRecord()
	base := HomeownerScore(rec)

	rec.Homeowner.DoNotCall = true
	assert.Equal(t, base, HomeownerScore(rec))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-3.7))
	assert.Equal(t, 0, clampScore(0))
	assert.Equal(t, 50, clampScore(49.5))
	assert.Equal(t, 49, clampScore(49.4))
	assert.Equal(t, 100, clampScore(100))
	assert.Equal(t, 100, clampScore(104.2))
}
