package model

import "time"

// Company is a client tenant. Its ClientEmail is a capability: any account
// holding that email may act as the company's reviewer while the company is
// active. Companies are never hard-deleted; deactivation flips Active off.
//
// Uniqueness of Name and ClientEmail among *active* companies is enforced by
// partial unique indexes at the database; the application-level pre-checks in
// the tenancy service are a fast path only.
type Company struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(150);not null;index:idx_companies_active_name,unique,where:active"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	ClientEmail string    `json:"client_email" gorm:"type:varchar(150);not null;index:idx_companies_active_client_email,unique,where:active"`
	LogoURL     *string   `json:"logo_url,omitempty" gorm:"type:text"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedByID string    `json:"created_by_id" gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// CreativeCount is the number of non-deleted creatives owned by the
	// company, computed on read. Not a real column: read-only and excluded
	// from migration.
	CreativeCount int64 `json:"creative_count" gorm:"->;-:migration"`
}
