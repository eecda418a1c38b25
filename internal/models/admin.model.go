package models

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type Admin struct {
	BaseUUIDModel
	Username     string `gorm:"type:varchar(64);uniqueIndex;not null"  json:"username"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"             json:"-"`
	Role         string `gorm:"type:varchar(32);not null"              json:"role"`
}

func (Admin) TableName() string {
	return "admins"
}
