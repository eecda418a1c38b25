package models

// Request structs carry the field rules as validate tags. Strings are trimmed
// and the postal/routing code aliases folded before the rules run.

type AddressRequest struct {
	Street     string `json:"street"     validate:"required"`
	City       string `json:"city"       validate:"required"`
	State      string `json:"state"      validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Pincode    string `json:"pincode"`
}

func (a AddressRequest) Code() string {
	if a.PostalCode != "" {
		return a.PostalCode
	}
	return a.Pincode
}

type BankDetailsRequest struct {
	BankName      string `json:"bankName"      validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required"`
	RoutingCode   string `json:"routingCode"   validate:"required"`
	IfscCode      string `json:"ifscCode"`
}

func (b BankDetailsRequest) Code() string {
	if b.RoutingCode != "" {
		return b.RoutingCode
	}
	return b.IfscCode
}

// PensionRequest is the raw submission payload. Dates stay strings and
// basicPay stays untyped until the validation layer has inspected them.
type PensionRequest struct {
	ApplicantName    string             `json:"applicantName"    validate:"required"`
	EmployeeID       string             `json:"employeeId"       validate:"required"`
	DateOfBirth      string             `json:"dateOfBirth"      validate:"required,isodate"`
	DateOfJoining    string             `json:"dateOfJoining"    validate:"required,isodate"`
	DateOfRetirement string             `json:"dateOfRetirement" validate:"required,isodate"`
	Designation      string             `json:"designation"      validate:"required"`
	Department       string             `json:"department"       validate:"required"`
	BasicPay         any                `json:"basicPay"         validate:"amount,nonnegative"`
	ContactNumber    string             `json:"contactNumber"    validate:"required"`
	Email            string             `json:"email"            validate:"required,email"`
	Address          AddressRequest     `json:"address"`
	BankDetails      BankDetailsRequest `json:"bankDetails"`
}

type FamilyPensionRequest struct {
	DeceasedEmployeeName string             `json:"deceasedEmployeeName" validate:"required"`
	DeceasedEmployeeID   string             `json:"deceasedEmployeeId"   validate:"required"`
	DateOfDeath          string             `json:"dateOfDeath"          validate:"required,isodate"`
	ApplicantName        string             `json:"applicantName"        validate:"required"`
	Relationship         string             `json:"relationship"         validate:"required,relationship"`
	DateOfBirth          string             `json:"dateOfBirth"          validate:"required,isodate"`
	MaritalStatus        string             `json:"maritalStatus"        validate:"required,oneof=single married divorced widowed"`
	ContactNumber        string             `json:"contactNumber"        validate:"required"`
	Email                string             `json:"email"                validate:"required,email"`
	Address              AddressRequest     `json:"address"`
	BankDetails          BankDetailsRequest `json:"bankDetails"`
	Documents            []DocumentEntry    `json:"documentsSubmitted"`
}

type ContactRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"   validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// StatusUpdateRequest moves a record to Status. A nil Notes keeps the stored
// notes; an empty string clears them.
type StatusUpdateRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Passwords are capped at 72 bytes, the most bcrypt will hash.
type PasswordUpdateRequest struct {
	NewPassword string `json:"newPassword" validate:"min=6,maxbytes=72"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

type ContactFilter struct {
	Status string
	Search string
}
