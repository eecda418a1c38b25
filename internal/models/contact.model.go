package models

type ContactMessage struct {
	Submission
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Email   string `gorm:"type:varchar(255);not null" json:"email"`
	Phone   string `gorm:"type:varchar(32);not null"  json:"phone"`
	Subject string `gorm:"type:varchar(255);not null" json:"subject"`
	Message string `gorm:"type:text;not null"         json:"message"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

func (ContactMessage) RecordKind() Kind {
	return KindContact
}

func (c ContactMessage) DisplayName() string {
	return c.Name
}

// Identifier is N/A for contact messages; they carry no employee reference.
func (c ContactMessage) Identifier() string {
	return "N/A"
}

func (c ContactMessage) ContactEmail() string {
	return c.Email
}
