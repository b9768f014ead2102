package scheduling

import (
	"strings"
	"time"

	apperrors "github.com/lingora/lingora-api/pkg/errors"
)

// countryTimezones maps ISO country codes to a single representative IANA
// timezone. Countries spanning multiple zones collapse to their most populous
// one; this is a display convenience, not a compliance-grade mapping.
var countryTimezones = map[string]string{
	"AE": "Asia/Dubai",
	"AR": "America/Argentina/Buenos_Aires",
	"AT": "Europe/Vienna",
	"AU": "Australia/Sydney",
	"BE": "Europe/Brussels",
	"BR": "America/Sao_Paulo",
	"CA": "America/Toronto",
	"CH": "Europe/Zurich",
	"CL": "America/Santiago",
	"CN": "Asia/Shanghai",
	"CO": "America/Bogota",
	"CZ": "Europe/Prague",
	"DE": "Europe/Berlin",
	"DK": "Europe/Copenhagen",
	"EG": "Africa/Cairo",
	"ES": "Europe/Madrid",
	"FI": "Europe/Helsinki",
	"FR": "Europe/Paris",
	"GB": "Europe/London",
	"GR": "Europe/Athens",
	"HK": "Asia/Hong_Kong",
	"HU": "Europe/Budapest",
	"ID": "Asia/Jakarta",
	"IE": "Europe/Dublin",
	"IL": "Asia/Jerusalem",
	"IN": "Asia/Kolkata",
	"IT": "Europe/Rome",
	"JP": "Asia/Tokyo",
	"KR": "Asia/Seoul",
	"MX": "America/Mexico_City",
	"MY": "Asia/Kuala_Lumpur",
	"NG": "Africa/Lagos",
	"NL": "Europe/Amsterdam",
	"NO": "Europe/Oslo",
	"NZ": "Pacific/Auckland",
	"PE": "America/Lima",
	"PH": "Asia/Manila",
	"PL": "Europe/Warsaw",
	"PT": "Europe/Lisbon",
	"RO": "Europe/Bucharest",
	"RU": "Europe/Moscow",
	"SA": "Asia/Riyadh",
	"SE": "Europe/Stockholm",
	"SG": "Asia/Singapore",
	"TH": "Asia/Bangkok",
	"TR": "Europe/Istanbul",
	"TW": "Asia/Taipei",
	"UA": "Europe/Kyiv",
	"US": "America/New_York",
	"VN": "Asia/Ho_Chi_Minh",
	"ZA": "Africa/Johannesburg",
}

// countryAliases maps common non-ISO spellings onto their ISO code.
var countryAliases = map[string]string{
	"UK":  "GB",
	"USA": "US",
	"UAE": "AE",
}

// supportedTimezones is the allow-list for explicitly chosen timezones. It is
// a superset of every zone the country resolver can produce, so a resolved
// default always passes validation.
var supportedTimezones = func() map[string]bool {
	set := map[string]bool{
		"UTC":                 true,
		"America/Los_Angeles": true,
		"America/Chicago":     true,
		"America/Denver":      true,
		"America/Vancouver":   true,
		"Asia/Almaty":         true,
		"Asia/Tbilisi":        true,
		"Australia/Perth":     true,
		"Australia/Melbourne": true,
	}
	for _, tz := range countryTimezones {
		set[tz] = true
	}
	return set
}()

// GetTimezoneByCountry resolves an ISO country code to its representative
// IANA timezone name. The lookup is case-insensitive and understands a few
// common aliases ("UK" for "GB"). An empty or unrecognized code falls back to
// the runtime's local timezone.
func GetTimezoneByCountry(countryCode string) string {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if alias, ok := countryAliases[code]; ok {
		code = alias
	}
	if tz, ok := countryTimezones[code]; ok {
		return tz
	}
	return time.Local.String()
}

// ValidateTimezone returns the explicit timezone unchanged when it is on the
// supported allow-list, errors when it is set but unsupported, and resolves
// via the country table when it is unset.
func ValidateTimezone(timezone, fallbackCountry string) (string, error) {
	if timezone == "" {
		return GetTimezoneByCountry(fallbackCountry), nil
	}
	if !supportedTimezones[timezone] {
		return "", apperrors.InvalidInputError("timezone", "unsupported timezone "+timezone)
	}
	return timezone, nil
}
