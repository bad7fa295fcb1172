package models

import (
	"time"
)

// PropertyType classifies a property for lead qualification purposes.
type PropertyType string

const (
	PropertyTypeSingleFamily PropertyType = "single-family"
	PropertyTypeMultiFamily  PropertyType = "multi-family"
	PropertyTypeCommercial   PropertyType = "commercial"
	PropertyTypeOther        PropertyType = "other"
)

// Orientation is the compass direction a roof plane primarily faces.
type Orientation string

const (
	OrientationN  Orientation = "N"
	OrientationNE Orientation = "NE"
	OrientationE  Orientation = "E"
	OrientationSE Orientation = "SE"
	OrientationS  Orientation = "S"
	OrientationSW Orientation = "SW"
	OrientationW  Orientation = "W"
	OrientationNW Orientation = "NW"
)

// RoofCondition describes the reported state of a roof.
type RoofCondition string

const (
	RoofConditionPoor      RoofCondition = "poor"
	RoofConditionFair      RoofCondition = "fair"
	RoofConditionGood      RoofCondition = "good"
	RoofConditionExcellent RoofCondition = "excellent"
)

// PropertyRecord is the canonical merged view of one property across all
// ingestion sources. The roof, utility and homeowner sub-records are nil when
// the corresponding source provided no data; a record with a missing roof or
// utility sub-record is incomplete and cannot be scored.
type PropertyRecord struct {
	PropertyID string `json:"property_id"`

	AddressLine1 string `json:"address_line_1,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zip_code,omitempty"`

	PropertyType         PropertyType `json:"property_type"`
	YearBuilt            int          `json:"year_built,omitempty"`
	SquareFootage        float64      `json:"square_footage,omitempty"`
	AssessedValue        float64      `json:"assessed_value,omitempty"`
	IsOwnerOccupied      bool         `json:"is_owner_occupied"`
	HasSolarInstallation bool         `json:"has_solar_installation"`
	HasSolarPermit       bool         `json:"has_solar_permit"`

	Roof      *RoofRecord      `json:"roof,omitempty"`
	Utility   *UtilityRecord   `json:"utility,omitempty"`
	Homeowner *HomeownerRecord `json:"homeowner,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// RoofRecord holds the roof attributes used by the roof suitability scorer.
// Azimuth is a pointer so that 0 degrees (due north) is distinguishable from
// "not reported"; when nil, scoring falls back to PrimaryOrientation.
type RoofRecord struct {
	RoofType           string        `json:"roof_type,omitempty"`
	Age                int           `json:"age,omitempty"`
	TotalArea          float64       `json:"total_area,omitempty"`
	UsableArea         float64       `json:"usable_area,omitempty"`
	PrimaryOrientation Orientation   `json:"primary_orientation,omitempty"`
	Azimuth            *float64      `json:"azimuth,omitempty"`
	Pitch              float64       `json:"pitch,omitempty"`
	ShadingPercentage  float64       `json:"shading_percentage"`
	Condition          RoofCondition `json:"condition,omitempty"`
}

// UtilityRecord holds the utility attributes used by the bill and net
// metering scorers. Rates are in $/kWh, the bill in USD per month.
type UtilityRecord struct {
	Provider             string  `json:"provider,omitempty"`
	ResidentialRate      float64 `json:"residential_rate,omitempty"`
	NetMeteringAvailable bool    `json:"net_metering_available"`
	NetMeteringRate      float64 `json:"net_metering_rate,omitempty"`
	EstimatedMonthlyBill float64 `json:"estimated_monthly_bill,omitempty"`
}

// HomeownerRecord holds the contact attributes used by the homeowner scorer.
type HomeownerRecord struct {
	Name           string  `json:"name,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Email          string  `json:"email,omitempty"`
	OwnershipYears float64 `json:"ownership_years,omitempty"`
	DoNotCall      bool    `json:"do_not_call"`
}

// Complete reports whether the record carries all sub-records required for
// scoring. Homeowner data is not required; scorers degrade to a neutral
// score without it.
func (r *PropertyRecord) Complete() bool {
	return r.Roof != nil && r.Utility != nil
}

// ValidPropertyType reports whether s (already case-normalized) is a known
// property type.
func ValidPropertyType(s string) bool {
	switch PropertyType(s) {
	case PropertyTypeSingleFamily, PropertyTypeMultiFamily, PropertyTypeCommercial, PropertyTypeOther:
		return true
	}
	return false
}

// ValidOrientation reports whether s (already upper-cased) is a known compass
// orientation.
func ValidOrientation(s string) bool {
	switch Orientation(s) {
	case OrientationN, OrientationNE, OrientationE, OrientationSE,
		OrientationS, OrientationSW, OrientationW, OrientationNW:
		return true
	}
	return false
}

// ValidRoofCondition reports whether s (already lower-cased) is a known roof
// condition.
func ValidRoofCondition(s string) bool {
	switch RoofCondition(s) {
	case RoofConditionPoor, RoofConditionFair, RoofConditionGood, RoofConditionExcellent:
		return true
	}
	return false
}
