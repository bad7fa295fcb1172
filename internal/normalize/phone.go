package normalize

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const phoneRegion = "US"

// normalizePhone formats a phone number to E.164. Skip-trace phone data is
// messy, so parsing is best effort: anything unparseable or invalid passes
// through trimmed rather than failing the row.
func normalizePhone(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, phoneRegion)
	if err != nil {
		return trimmed
	}
	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
