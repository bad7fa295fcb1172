// Package normalize turns loosely-typed raw attribute bags from the
// ingestion connectors into canonical property records. It is a pure
// transform: no storage access, no defaulting of unknown enum values, and
// every failure identifies the offending field.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sunscout/api/internal/models"
)

// RawRecord is one row of import input: one attribute bag per sub-record
// type, keys and value types at the mercy of the upstream source. A missing
// roof, utility or homeowner bag normalizes to a nil sub-record; a missing
// property bag fails the row.
type RawRecord struct {
	Property  map[string]any `json:"property"`
	Roof      map[string]any `json:"roof,omitempty"`
	Utility   map[string]any `json:"utility,omitempty"`
	Homeowner map[string]any `json:"homeowner,omitempty"`
}

// Normalize validates and coerces a raw record into its canonical shape.
// Returns *InvalidFieldError or *UnknownEnumValueError on the first bad
// field. Records without a property_id get a generated one.
func Normalize(raw RawRecord) (*models.PropertyRecord, error) {
	if len(raw.Property) == 0 {
		return nil, &InvalidFieldError{Field: "property", Reason: "missing property attributes"}
	}

	rec := &models.PropertyRecord{}

	id, err := optString(raw.Property, "property_id")
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.New().String()
	}
	rec.PropertyID = id

	if rec.AddressLine1, err = optString(raw.Property, "address_line_1"); err != nil {
		return nil, err
	}
	if rec.City, err = optString(raw.Property, "city"); err != nil {
		return nil, err
	}
	if rec.State, err = optString(raw.Property, "state"); err != nil {
		return nil, err
	}
	if rec.ZipCode, err = optString(raw.Property, "zip_code"); err != nil {
		return nil, err
	}

	propertyType, err := optString(raw.Property, "property_type")
	if err != nil {
		return nil, err
	}
	switch normalized := strings.ToLower(strings.TrimSpace(propertyType)); {
	case normalized == "":
		rec.PropertyType = models.PropertyTypeOther
	case models.ValidPropertyType(normalized):
		rec.PropertyType = models.PropertyType(normalized)
	default:
		return nil, &UnknownEnumValueError{Field: "property_type", Value: propertyType}
	}

	if rec.YearBuilt, err = optInt(raw.Property, "year_built"); err != nil {
		return nil, err
	}
	if rec.SquareFootage, err = optFloat(raw.Property, "square_footage"); err != nil {
		return nil, err
	}
	if rec.AssessedValue, err = optFloat(raw.Property, "assessed_value"); err != nil {
		return nil, err
	}
	if rec.IsOwnerOccupied, err = optBool(raw.Property, "is_owner_occupied"); err != nil {
		return nil, err
	}
	if rec.HasSolarInstallation, err = optBool(raw.Property, "has_solar_installation"); err != nil {
		return nil, err
	}
	if rec.HasSolarPermit, err = optBool(raw.Property, "has_solar_permit"); err != nil {
		return nil, err
	}

	if rec.Roof, err = normalizeRoof(raw.Roof); err != nil {
		return nil, err
	}
	if rec.Utility, err = normalizeUtility(raw.Utility); err != nil {
		return nil, err
	}
	if rec.Homeowner, err = normalizeHomeowner(raw.Homeowner); err != nil {
		return nil, err
	}

	return rec, nil
}

func normalizeRoof(bag map[string]any) (*models.RoofRecord, error) {
	if len(bag) == 0 {
		return nil, nil
	}

	roof := &models.RoofRecord{}
	var err error

	if roof.RoofType, err = optString(bag, "roof_type"); err != nil {
		return nil, err
	}
	if roof.Age, err = optInt(bag, "age"); err != nil {
		return nil, err
	}
	if roof.TotalArea, err = optFloat(bag, "total_area"); err != nil {
		return nil, err
	}
	if roof.UsableArea, err = optFloat(bag, "usable_area"); err != nil {
		return nil, err
	}

	orientation, err := optString(bag, "primary_orientation")
	if err != nil {
		return nil, err
	}
	if normalized := strings.ToUpper(strings.TrimSpace(orientation)); normalized != "" {
		if !models.ValidOrientation(normalized) {
			return nil, &UnknownEnumValueError{Field: "primary_orientation", Value: orientation}
		}
		roof.PrimaryOrientation = models.Orientation(normalized)
	}

	if raw, ok := bag["azimuth"]; ok && raw != nil {
		azimuth, err := coerceFloat("azimuth", raw)
		if err != nil {
			return nil, err
		}
		azimuth = wrapAzimuth(azimuth)
		roof.Azimuth = &azimuth
	}

	if roof.Pitch, err = optFloat(bag, "pitch"); err != nil {
		return nil, err
	}

	shading, err := optFloat(bag, "shading_percentage")
	if err != nil {
		return nil, err
	}
	roof.ShadingPercentage = clampPercentage(shading)

	condition, err := optString(bag, "condition")
	if err != nil {
		return nil, err
	}
	if normalized := strings.ToLower(strings.TrimSpace(condition)); normalized != "" {
		if !models.ValidRoofCondition(normalized) {
			return nil, &UnknownEnumValueError{Field: "condition", Value: condition}
		}
		roof.Condition = models.RoofCondition(normalized)
	}

	return roof, nil
}

func normalizeUtility(bag map[string]any) (*models.UtilityRecord, error) {
	if len(bag) == 0 {
		return nil, nil
	}

	util := &models.UtilityRecord{}
	var err error

	if util.Provider, err = optString(bag, "provider"); err != nil {
		return nil, err
	}
	if util.ResidentialRate, err = optFloat(bag, "residential_rate"); err != nil {
		return nil, err
	}
	if util.NetMeteringAvailable, err = optBool(bag, "net_metering_available"); err != nil {
		return nil, err
	}
	if util.NetMeteringRate, err = optFloat(bag, "net_metering_rate"); err != nil {
		return nil, err
	}
	if util.EstimatedMonthlyBill, err = optFloat(bag, "estimated_monthly_bill"); err != nil {
		return nil, err
	}

	return util, nil
}

func normalizeHomeowner(bag map[string]any) (*models.HomeownerRecord, error) {
	if len(bag) == 0 {
		return nil, nil
	}

	owner := &models.HomeownerRecord{}
	var err error

	if owner.Name, err = optString(bag, "name"); err != nil {
		return nil, err
	}

	phone, err := optString(bag, "phone")
	if err != nil {
		return nil, err
	}
	owner.Phone = normalizePhone(phone)

	if owner.Email, err = optString(bag, "email"); err != nil {
		return nil, err
	}
	owner.Email = strings.TrimSpace(owner.Email)

	if owner.OwnershipYears, err = optFloat(bag, "ownership_years"); err != nil {
		return nil, err
	}
	if owner.DoNotCall, err = optBool(bag, "do_not_call"); err != nil {
		return nil, err
	}

	return owner, nil
}

// optString reads an optional string attribute; missing or nil yields "".
func optString(bag map[string]any, key string) (string, error) {
	raw, ok := bag[key]
	if !ok || raw == nil {
		return "", nil
	}
	switch v := raw.(type) {
	case string:
		return v, nil
	default:
		return "", &InvalidFieldError{Field: key, Value: raw, Reason: "expected a string"}
	}
}

// optFloat reads an optional numeric attribute; missing or nil yields 0.
// Negative values violate the canonical record invariants and are rejected.
func optFloat(bag map[string]any, key string) (float64, error) {
	raw, ok := bag[key]
	if !ok || raw == nil {
		return 0, nil
	}
	value, err := coerceFloat(key, raw)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, &InvalidFieldError{Field: key, Value: raw, Reason: "must be non-negative"}
	}
	return value, nil
}

func optInt(bag map[string]any, key string) (int, error) {
	value, err := optFloat(bag, key)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

// optBool reads an optional boolean-like attribute; missing or nil yields
// false. Accepts bool, "Y"/"N", "yes"/"no", "true"/"false", "1"/"0" and
// numeric 1/0; anything else is an invalid field, never a silent default.
func optBool(bag map[string]any, key string) (bool, error) {
	raw, ok := bag[key]
	if !ok || raw == nil {
		return false, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "y", "yes", "true", "1":
			return true, nil
		case "n", "no", "false", "0":
			return false, nil
		}
	case float64:
		if v == 1 {
			return true, nil
		}
		if v == 0 {
			return false, nil
		}
	case int:
		if v == 1 {
			return true, nil
		}
		if v == 0 {
			return false, nil
		}
	}
	return false, &InvalidFieldError{Field: key, Value: raw, Reason: "not a recognized boolean"}
}

func coerceFloat(key string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, &InvalidFieldError{Field: key, Value: raw, Reason: "not a number"}
		}
		return parsed, nil
	default:
		return 0, &InvalidFieldError{Field: key, Value: raw, Reason: "not a number"}
	}
}

// wrapAzimuth maps any compass heading into [0,360).
func wrapAzimuth(azimuth float64) float64 {
	wrapped := math.Mod(azimuth, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped
}

func clampPercentage(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
