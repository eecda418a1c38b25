package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

type PhoneNormalizer struct {
	region string
}

func NewPhoneNormalizer(region string) *PhoneNormalizer {
	return &PhoneNormalizer{region: strings.ToUpper(strings.TrimSpace(region))}
}

// Normalize returns the E.164 form of raw when it parses as a valid number
// for the default region, otherwise the trimmed input unchanged.
func (p *PhoneNormalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, p.region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
