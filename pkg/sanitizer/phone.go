package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "BR"

// NormalizePhone returns the national significant number of a Brazilian phone,
// stripping the country code, trunk prefix and punctuation. Input the phone
// library cannot parse falls back to its digits.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	parsedNumber, err := phonenumbers.Parse(phone, defaultRegion)
	if err != nil {
		return Digits(phone)
	}

	national := phonenumbers.GetNationalSignificantNumber(parsedNumber)
	if national == "" {
		return Digits(phone)
	}
	return national
}

// FormatPhone renders 11 digits as (DD) NNNNN-NNNN and 10 digits as
// (DD) NNNN-NNNN. Other input is returned unchanged.
func FormatPhone(phone string) string {
	d := Digits(phone)
	switch len(d) {
	case 11:
		return "(" + d[0:2] + ") " + d[2:7] + "-" + d[7:11]
	case 10:
		return "(" + d[0:2] + ") " + d[2:6] + "-" + d[6:10]
	default:
		return phone
	}
}
