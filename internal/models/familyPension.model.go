package models

import "time"

type DocumentEntry struct {
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	Submitted      bool   `json:"submitted"`
}

type FamilyPensionApplication struct {
	Submission
	DeceasedEmployeeName string          `gorm:"type:varchar(255);not null"       json:"deceasedEmployeeName"`
	DeceasedEmployeeID   string          `gorm:"type:varchar(64);not null"        json:"deceasedEmployeeId"`
	DateOfDeath          time.Time       `gorm:"not null"                         json:"dateOfDeath"`
	ApplicantName        string          `gorm:"type:varchar(255);not null"       json:"applicantName"`
	Relationship         string          `gorm:"type:varchar(32);not null"        json:"relationship"`
	DateOfBirth          time.Time       `gorm:"not null"                         json:"dateOfBirth"`
	MaritalStatus        string          `gorm:"type:varchar(32);not null"        json:"maritalStatus"`
	Address              Address         `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	ContactNumber        string          `gorm:"type:varchar(32);not null"        json:"contactNumber"`
	Email                string          `gorm:"type:varchar(255);not null"       json:"email"`
	BankDetails          BankDetails     `gorm:"embedded;embeddedPrefix:bank_"    json:"bankDetails"`
	Documents            []DocumentEntry `gorm:"serializer:json;type:text"        json:"documentsSubmitted"`
}

func (FamilyPensionApplication) TableName() string {
	return "family_pension_applications"
}

func (FamilyPensionApplication) RecordKind() Kind {
	return KindFamilyPension
}

func (f FamilyPensionApplication) DisplayName() string {
	return f.ApplicantName
}

func (f FamilyPensionApplication) Identifier() string {
	return f.DeceasedEmployeeID
}

func (f FamilyPensionApplication) ContactEmail() string {
	return f.Email
}
