package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var supportedRegions = []string{
	"SI",
	"HR",
	"DE",
	"US",
}

// NormalizePhone formats a phone number as E.164 when it parses for one of
// the supported regions. Unparseable input is returned trimmed but otherwise
// untouched: guest phones are contact hints, not credentials, and rejecting
// a reservation over a phone format would be worse than storing it as-is.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return phone
}
