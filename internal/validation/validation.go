// Package validation applies the per-kind field rules to raw submissions.
// The rules live as validate tags on the request types; every rule runs and
// violations are returned together.
package validation

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"portal/internal/apperrors"
	. "portal/internal/models"
	"portal/internal/utils"

	"github.com/go-playground/validator/v10"
)

// messages maps a field path, optionally suffixed with "|tag", to the message
// reported for it.
var messages = map[string]string{
	"applicantName":        "Applicant name is required",
	"employeeId":           "Employee ID is required",
	"dateOfBirth":          "Valid date of birth is required",
	"dateOfJoining":        "Valid date of joining is required",
	"dateOfRetirement":     "Valid date of retirement is required",
	"designation":          "Designation is required",
	"department":           "Department is required",
	"basicPay":             "Basic pay must be a number",
	"basicPay|nonnegative": "Basic pay must not be negative",
	"contactNumber":        "Contact number is required",
	"email":                "Valid email is required",

	"address.street":     "Street address is required",
	"address.city":       "City is required",
	"address.state":      "State is required",
	"address.postalCode": "Pincode is required",

	"bankDetails.bankName":      "Bank name is required",
	"bankDetails.accountNumber": "Account number is required",
	"bankDetails.routingCode":   "IFSC code is required",

	"deceasedEmployeeName": "Deceased employee name is required",
	"deceasedEmployeeId":   "Deceased employee ID is required",
	"dateOfDeath":          "Valid date of death is required",
	"relationship":         "Valid relationship is required",
	"maritalStatus":        "Valid marital status is required",

	"name":    "Name is required",
	"phone":   "Phone number is required",
	"subject": "Subject is required",
	"message": "Message is required",

	"username":             "Username is required",
	"password":             "Password is required",
	"password|min":         "Password must be at least 6 characters",
	"password|maxbytes":    "Password must be at most 72 bytes",
	"newPassword":          "Password must be at least 6 characters",
	"newPassword|maxbytes": "Password must be at most 72 bytes",
}

type Validator struct {
	validate      *validator.Validate
	dates         *utils.DateValidator
	relationships []string
}

func New(relationships []string) *Validator {
	v := &Validator{
		validate:      validator.New(),
		dates:         utils.NewDateValidator(),
		relationships: slices.Clone(relationships),
	}

	v.validate.RegisterTagNameFunc(jsonName)
	v.mustRegister("isodate", v.isoDate)
	v.mustRegister("relationship", v.relationship)
	v.mustRegister("amount", amount)
	v.mustRegister("nonnegative", nonNegative)
	v.mustRegister("maxbytes", maxBytes)

	return v
}

func (v *Validator) mustRegister(tag string, fn validator.Func) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic("validation: register " + tag + ": " + err.Error())
	}
}

// Pension validates req and, when it is clean, returns the record to store.
func (v *Validator) Pension(req PensionRequest) (*PensionApplication, []apperrors.FieldError) {
	trim(&req.ApplicantName, &req.EmployeeID, &req.DateOfBirth, &req.DateOfJoining,
		&req.DateOfRetirement, &req.Designation, &req.Department, &req.ContactNumber, &req.Email)
	req.Address = normalizeAddress(req.Address)
	req.BankDetails = normalizeBank(req.BankDetails)

	if errs := v.check(req); len(errs) > 0 {
		return nil, errs
	}

	pay, _ := toNumber(req.BasicPay)
	return &PensionApplication{
		ApplicantName:    req.ApplicantName,
		EmployeeID:       req.EmployeeID,
		DateOfBirth:      v.date(req.DateOfBirth),
		DateOfJoining:    v.date(req.DateOfJoining),
		DateOfRetirement: v.date(req.DateOfRetirement),
		Designation:      req.Designation,
		Department:       req.Department,
		BasicPay:         pay,
		ContactNumber:    req.ContactNumber,
		Email:            req.Email,
		Address:          address(req.Address),
		BankDetails:      bank(req.BankDetails),
	}, nil
}

func (v *Validator) FamilyPension(req FamilyPensionRequest) (*FamilyPensionApplication, []apperrors.FieldError) {
	trim(&req.DeceasedEmployeeName, &req.DeceasedEmployeeID, &req.DateOfDeath, &req.ApplicantName,
		&req.Relationship, &req.DateOfBirth, &req.MaritalStatus, &req.ContactNumber, &req.Email)
	req.Address = normalizeAddress(req.Address)
	req.BankDetails = normalizeBank(req.BankDetails)

	if errs := v.check(req); len(errs) > 0 {
		return nil, errs
	}

	return &FamilyPensionApplication{
		DeceasedEmployeeName: req.DeceasedEmployeeName,
		DeceasedEmployeeID:   req.DeceasedEmployeeID,
		DateOfDeath:          v.date(req.DateOfDeath),
		ApplicantName:        req.ApplicantName,
		Relationship:         req.Relationship,
		DateOfBirth:          v.date(req.DateOfBirth),
		MaritalStatus:        req.MaritalStatus,
		ContactNumber:        req.ContactNumber,
		Email:                req.Email,
		Address:              address(req.Address),
		BankDetails:          bank(req.BankDetails),
		Documents:            documents(req.Documents),
	}, nil
}

func (v *Validator) Contact(req ContactRequest) (*ContactMessage, []apperrors.FieldError) {
	trim(&req.Name, &req.Email, &req.Phone, &req.Subject, &req.Message)

	if errs := v.check(req); len(errs) > 0 {
		return nil, errs
	}

	return &ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}, nil
}

// Login trims the username only; passwords are taken verbatim.
func (v *Validator) Login(req LoginRequest) []apperrors.FieldError {
	trim(&req.Username)
	return v.check(req)
}

func (v *Validator) PasswordUpdate(req PasswordUpdateRequest) []apperrors.FieldError {
	return v.check(req)
}

// Register returns the trimmed request alongside any violations.
func (v *Validator) Register(req RegisterRequest) (RegisterRequest, []apperrors.FieldError) {
	trim(&req.Username, &req.Email)
	return req, v.check(req)
}

func (v *Validator) check(req any) []apperrors.FieldError {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []apperrors.FieldError{{Field: "request", Message: "Invalid request"}}
	}

	out := make([]apperrors.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out = append(out, apperrors.FieldError{Field: field, Message: message(field, fe.Tag())})
	}
	return out
}

func message(field, tag string) string {
	if msg, ok := messages[field+"|"+tag]; ok {
		return msg
	}
	if msg, ok := messages[field]; ok {
		return msg
	}
	return "Invalid value"
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func (v *Validator) isoDate(fl validator.FieldLevel) bool {
	_, ok := v.dates.Parse(fl.Field().String())
	return ok
}

func (v *Validator) relationship(fl validator.FieldLevel) bool {
	return slices.Contains(v.relationships, fl.Field().String())
}

func amount(fl validator.FieldLevel) bool {
	_, ok := toNumber(fl.Field().Interface())
	return ok
}

func nonNegative(fl validator.FieldLevel) bool {
	n, ok := toNumber(fl.Field().Interface())
	return ok && n >= 0
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// date is only called on values the isodate rule has accepted.
func (v *Validator) date(value string) time.Time {
	parsed, _ := v.dates.Parse(value)
	return parsed.UTC()
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func normalizeAddress(a AddressRequest) AddressRequest {
	return AddressRequest{
		Street:     strings.TrimSpace(a.Street),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.Code()),
	}
}

func normalizeBank(b BankDetailsRequest) BankDetailsRequest {
	return BankDetailsRequest{
		BankName:      strings.TrimSpace(b.BankName),
		AccountNumber: strings.TrimSpace(b.AccountNumber),
		RoutingCode:   strings.TrimSpace(b.Code()),
	}
}

func address(a AddressRequest) Address {
	return Address{Street: a.Street, City: a.City, State: a.State, PostalCode: a.PostalCode}
}

func bank(b BankDetailsRequest) BankDetails {
	return BankDetails{Name: b.BankName, AccountNumber: b.AccountNumber, RoutingCode: b.RoutingCode}
}

func toNumber(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func documents(in []DocumentEntry) []DocumentEntry {
	out := make([]DocumentEntry, 0, len(in))
	for _, doc := range in {
		doc.DocumentType = strings.TrimSpace(doc.DocumentType)
		doc.DocumentNumber = strings.TrimSpace(doc.DocumentNumber)
		if doc.DocumentType == "" && doc.DocumentNumber == "" {
			continue
		}
		out = append(out, doc)
	}
	return out
}
