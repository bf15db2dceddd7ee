package model

import "time"

// Role identifies which side of the approval workflow an account belongs to.
// It is fixed at registration and never changes.
type Role string

const (
	RoleAgency Role = "agency"
	RoleClient Role = "client"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAgency || r == RoleClient
}

// Account represents a registered user, either an agency uploader/reviewer
// or a client approver.
type Account struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'agency'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
