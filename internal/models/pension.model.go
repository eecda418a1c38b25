package models

import "time"

type PensionApplication struct {
	Submission
	ApplicantName    string      `gorm:"type:varchar(255);not null"                 json:"applicantName"`
	EmployeeID       string      `gorm:"type:varchar(64);not null;uniqueIndex"      json:"employeeId"`
	DateOfBirth      time.Time   `gorm:"not null"                                   json:"dateOfBirth"`
	DateOfJoining    time.Time   `gorm:"not null"                                   json:"dateOfJoining"`
	DateOfRetirement time.Time   `gorm:"not null"                                   json:"dateOfRetirement"`
	Designation      string      `gorm:"type:varchar(255);not null"                 json:"designation"`
	Department       string      `gorm:"type:varchar(255);not null"                 json:"department"`
	BasicPay         float64     `gorm:"not null"                                   json:"basicPay"`
	Address          Address     `gorm:"embedded;embeddedPrefix:address_"           json:"address"`
	ContactNumber    string      `gorm:"type:varchar(32);not null"                  json:"contactNumber"`
	Email            string      `gorm:"type:varchar(255);not null"                 json:"email"`
	BankDetails      BankDetails `gorm:"embedded;embeddedPrefix:bank_"              json:"bankDetails"`
}

func (PensionApplication) TableName() string {
	return "pension_applications"
}

func (PensionApplication) RecordKind() Kind {
	return KindPension
}

func (p PensionApplication) DisplayName() string {
	return p.ApplicantName
}

func (p PensionApplication) Identifier() string {
	return p.EmployeeID
}

func (p PensionApplication) ContactEmail() string {
	return p.Email
}
