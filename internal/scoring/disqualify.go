package scoring

import (
	"github.com/sunscout/api/internal/models"
)

// Disqualification reasons, reported verbatim in ScoreResult.
const (
	ReasonIncompleteData          = "incomplete_data"
	ReasonNotOwnerOccupied        = "not_owner_occupied"
	ReasonExistingSolar           = "existing_solar"
	ReasonRecentSolarPermit       = "recent_solar_permit"
	ReasonUnsupportedPropertyType = "unsupported_property_type"
)

// Disqualify applies the hard exclusion rules to a record. The rules run in
// fixed priority order and the first match wins, so the reported reason is
// deterministic. A disqualified record bypasses scoring entirely.
func Disqualify(rec *models.PropertyRecord) (reason string, disqualified bool) {
	switch {
	case !rec.Complete():
		return ReasonIncompleteData, true
	case !rec.IsOwnerOccupied:
		return ReasonNotOwnerOccupied, true
	case rec.HasSolarInstallation:
		return ReasonExistingSolar, true
	case rec.HasSolarPermit:
		return ReasonRecentSolarPermit, true
	case rec.PropertyType != models.PropertyTypeSingleFamily:
		return ReasonUnsupportedPropertyType, true
	}
	return "", false
}
