package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseUUIDModel struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"              json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"              json:"updatedAt"`
}

func (b *BaseUUIDModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = newID()
	}
	return nil
}

// Submission is embedded by every record kind. Status and Notes change only
// through the workflow engine; SubmittedAt is fixed when the row is created.
type Submission struct {
	ID          string    `gorm:"type:varchar(64);primaryKey"  json:"id"`
	Status      Status    `gorm:"type:varchar(20);not null"    json:"status"`
	Notes       *string   `gorm:"type:text"                    json:"notes,omitempty"`
	SubmittedAt time.Time `gorm:"not null"                     json:"submittedAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"               json:"updatedAt"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = newID()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now().UTC()
	}
	return nil
}

func (s *Submission) Base() *Submission {
	return s
}

func (s Submission) RecordID() string {
	return s.ID
}

func (s Submission) CurrentStatus() Status {
	return s.Status
}

func (s Submission) SubmittedTime() time.Time {
	return s.SubmittedAt
}

// Record is the read view shared by the three kinds, used by reporting and
// export.
type Record interface {
	RecordKind() Kind
	RecordID() string
	CurrentStatus() Status
	SubmittedTime() time.Time
	DisplayName() string
	Identifier() string
	ContactEmail() string
}

type Address struct {
	Street     string `gorm:"type:varchar(255)" json:"street"`
	City       string `gorm:"type:varchar(255)" json:"city"`
	State      string `gorm:"type:varchar(255)" json:"state"`
	PostalCode string `gorm:"type:varchar(32)"  json:"postalCode"`
}

type BankDetails struct {
	Name          string `gorm:"type:varchar(255)" json:"bankName"`
	AccountNumber string `gorm:"type:varchar(64)"  json:"accountNumber"`
	RoutingCode   string `gorm:"type:varchar(32)"  json:"routingCode"`
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
