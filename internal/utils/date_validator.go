package utils

import (
	"strings"
	"time"
)

type DateFormat string

// ISO-8601 layouts accepted on submission forms. Layouts without an offset
// are read as UTC.
const (
	FormatISO8601Nano  DateFormat = "2006-01-02T15:04:05.999999999Z07:00"
	FormatISO8601      DateFormat = "2006-01-02T15:04:05Z07:00"
	FormatISO8601Local DateFormat = "2006-01-02T15:04:05"
	FormatISO8601Short DateFormat = "2006-01-02T15:04"
	FormatISO8601Date  DateFormat = "2006-01-02"
	FormatYearMonth    DateFormat = "2006-01"
	FormatCompactDate  DateFormat = "20060102"
)

type DateValidator struct {
	supportedFormats []DateFormat
}

type ValidationResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	ParsedTime     time.Time
	OriginalValue  string
}

func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatISO8601Nano,
			FormatISO8601,
			FormatISO8601Local,
			FormatISO8601Short,
			FormatISO8601Date,
			FormatYearMonth,
			FormatCompactDate,
		},
	}
}

func (dv *DateValidator) ValidateAndConvert(input string) ValidationResult {
	result := ValidationResult{OriginalValue: input}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	for _, format := range dv.supportedFormats {
		parsedTime, err := time.Parse(string(format), input)
		if err != nil {
			continue
		}
		result.IsValid = true
		result.DetectedFormat = format
		result.ParsedTime = parsedTime
		return result
	}

	return result
}

// Parse is ValidateAndConvert for callers that only need the instant.
func (dv *DateValidator) Parse(input string) (time.Time, bool) {
	result := dv.ValidateAndConvert(input)
	return result.ParsedTime, result.IsValid
}

func (dv *DateValidator) GetSupportedFormats() []DateFormat {
	return dv.supportedFormats
}
