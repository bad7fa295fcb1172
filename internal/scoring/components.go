package scoring

import (
	"math"

	"github.com/sunscout/api/internal/models"
)

// neutralScore is returned by a component scorer when its required input is
// missing from a structurally complete record. Partial uncertainty biases a
// lead toward human review, not toward rejection or false confidence.
const neutralScore = 50

// billFloorScore is the bill score at exactly the minimum qualifying bill.
const billFloorScore = 40.0

// Internal sub-weights of the roof scorer. These are fixed, not configurable.
const (
	roofOrientationWeight = 0.40
	roofAreaWeight        = 0.25
	roofShadingWeight     = 0.20
	roofConditionWeight   = 0.15
)

// Internal sub-weights of the property scorer.
const (
	propertyValueWeight  = 0.50
	propertyAgeWeight    = 0.25
	propertyTenureWeight = 0.25
)

// BillScore scores the estimated monthly electric bill. Bills below the
// minimum qualifying threshold are not disqualified here (that is a
// categorization decision, not an exclusion rule) but ramp toward 0; at the
// threshold the score is billFloorScore, rising linearly to 100 at the
// saturation bill. Larger bills never score lower than smaller ones.
func BillScore(rec *models.PropertyRecord, cfg Config) int {
	bill := rec.Utility.EstimatedMonthlyBill
	// A nonpositive bill means the reading is missing, not a free utility;
	// monotonicity over bill amounts holds for positive bills only.
	if bill <= 0 {
		return neutralScore
	}

	if bill < cfg.MinQualifyingBill {
		return clampScore(bill / cfg.MinQualifyingBill * billFloorScore)
	}

	span := cfg.SaturationBill - cfg.MinQualifyingBill
	score := billFloorScore + (bill-cfg.MinQualifyingBill)*(100-billFloorScore)/span
	return clampScore(score)
}

// orientationAzimuths maps a compass orientation to the azimuth of its
// midpoint, used when a roof reports no measured azimuth.
var orientationAzimuths = map[models.Orientation]float64{
	models.OrientationN:  0,
	models.OrientationNE: 45,
	models.OrientationE:  90,
	models.OrientationSE: 135,
	models.OrientationS:  180,
	models.OrientationSW: 225,
	models.OrientationW:  270,
	models.OrientationNW: 315,
}

// RoofScore scores roof suitability as a weighted combination of orientation,
// usable-area ratio, shading and condition.
func RoofScore(rec *models.PropertyRecord) int {
	roof := rec.Roof

	score := orientationScore(roof)*roofOrientationWeight +
		areaScore(roof)*roofAreaWeight +
		shadingScore(roof)*roofShadingWeight +
		conditionScore(roof)*roofConditionWeight

	return clampScore(score)
}

// orientationScore scales linearly with the azimuth offset from due south
// (180 degrees), through the anchors south=100, southeast/southwest=85,
// east/west=65 and north=30. A reported azimuth takes precedence over the
// coarser compass orientation.
func orientationScore(roof *models.RoofRecord) float64 {
	var azimuth float64
	switch {
	case roof.Azimuth != nil:
		azimuth = *roof.Azimuth
	default:
		az, ok := orientationAzimuths[roof.PrimaryOrientation]
		if !ok {
			return neutralScore
		}
		azimuth = az
	}

	deviation := math.Abs(azimuth - 180)
	if deviation > 180 {
		deviation = 360 - deviation
	}

	switch {
	case deviation <= 45:
		return 100 - deviation*(100-85)/45
	case deviation <= 90:
		return 85 - (deviation-45)*(85-65)/45
	default:
		return 65 - (deviation-90)*(65-30)/90
	}
}

func areaScore(roof *models.RoofRecord) float64 {
	if roof.TotalArea <= 0 {
		return neutralScore
	}
	ratio := roof.UsableArea / roof.TotalArea
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio * 100
}

func shadingScore(roof *models.RoofRecord) float64 {
	score := 100 - roof.ShadingPercentage
	if score < 0 {
		return 0
	}
	return score
}

func conditionScore(roof *models.RoofRecord) float64 {
	switch roof.Condition {
	case models.RoofConditionPoor:
		return 25
	case models.RoofConditionFair:
		return 50
	case models.RoofConditionGood:
		return 75
	case models.RoofConditionExcellent:
		return 100
	default:
		return neutralScore
	}
}

// PropertyScore scores the property itself: assessed value saturating around
// twice the regional median, a mild age penalty for both very new and very
// old structures, and ownership tenure as a stability signal. Owner occupancy
// is a prerequisite enforced by the disqualification filter, not re-checked
// here.
func PropertyScore(rec *models.PropertyRecord, cfg Config) int {
	score := valueScore(rec.AssessedValue, cfg.RegionalMedianValue)*propertyValueWeight +
		ageScore(rec.YearBuilt)*propertyAgeWeight +
		tenureScore(rec.Homeowner)*propertyTenureWeight

	return clampScore(score)
}

func valueScore(assessed, regionalMedian float64) float64 {
	if assessed <= 0 {
		return neutralScore
	}
	score := assessed / (2 * regionalMedian) * 100
	if score > 100 {
		return 100
	}
	return score
}

// ageScore mildly penalizes very new structures (roof warranty and financing
// complications) and very old ones (likely reroofing before install).
func ageScore(yearBuilt int) float64 {
	if yearBuilt <= 0 {
		return neutralScore
	}
	age := currentYear() - yearBuilt
	switch {
	case age < 5:
		return 70
	case age < 10:
		return 85
	case age <= 40:
		return 100
	case age <= 60:
		return 85
	default:
		return 70
	}
}

func tenureScore(owner *models.HomeownerRecord) float64 {
	if owner == nil {
		return neutralScore
	}
	switch years := owner.OwnershipYears; {
	case years >= 5:
		return 100
	case years >= 3:
		return 80
	case years >= 1:
		return 60
	default:
		return 40
	}
}

// NetMeteringScore scores the economics of exporting power. No net metering
// scores 0. With net metering available, a credit rate at or above the retail
// residential rate is true 1:1 netting and scores 100, degrading linearly as
// the ratio falls.
func NetMeteringScore(rec *models.PropertyRecord) int {
	util := rec.Utility
	if !util.NetMeteringAvailable {
		return 0
	}
	if util.ResidentialRate <= 0 {
		return neutralScore
	}

	ratio := util.NetMeteringRate / util.ResidentialRate
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return clampScore(ratio * 100)
}

// HomeownerScore rewards reachability and tenure: a phone number, an email
// address and at least two years of ownership each add points, capped at 100.
// A do-not-call flag does not reduce the score; it is surfaced unmodified in
// the result for the caller to respect.
func HomeownerScore(rec *models.PropertyRecord) int {
	owner := rec.Homeowner
	if owner == nil {
		return neutralScore
	}

	score := 0
	if owner.Phone != "" {
		score += 40
	}
	if owner.Email != "" {
		score += 30
	}
	if owner.OwnershipYears >= 2 {
		score += 30
	}
	if score > 100 {
		score = 100
	}
	return score
}

// clampScore rounds a float score and clamps it to [0,100].
func clampScore(value float64) int {
	rounded := int(math.Round(value))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
