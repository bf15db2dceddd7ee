package model

import "time"

// CreativeStatus is the review state of a creative.
type CreativeStatus string

const (
	StatusPending  CreativeStatus = "pending"
	StatusApproved CreativeStatus = "approved"
	StatusRejected CreativeStatus = "rejected"
)

// Valid reports whether s is an accepted review status.
func (s CreativeStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CreativeType is the asset taxonomy. Unknown values are accepted as-is, the
// constants below are the ones the frontend sends today.
type CreativeType string

const (
	TypePost     CreativeType = "post"
	TypeStory    CreativeType = "story"
	TypeCarousel CreativeType = "carousel"
	TypeReel     CreativeType = "reel"
)

// Creative is an uploaded asset going through client review.
//
// The version and comment lists are append-only child tables ordered by
// insertion. Version numbers start at 2 because the original upload is
// implicitly version 1. A non-nil DeletedAt freezes the creative: it is
// excluded from listing, detail and every mutation.
type Creative struct {
	ID       string         `json:"id" gorm:"type:uuid;primaryKey"`
	URL      string         `json:"url" gorm:"type:text;not null"`
	FileName string         `json:"file_name" gorm:"type:varchar(255);not null"`
	Title    *string        `json:"title,omitempty" gorm:"type:varchar(255)"`
	Caption  *string        `json:"caption,omitempty" gorm:"type:text"`
	Type     CreativeType   `json:"type" gorm:"type:varchar(30);not null;default:'post'"`
	Status   CreativeStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`

	CompanyID    *string `json:"company_id,omitempty" gorm:"type:uuid;index"`
	UploadedByID string  `json:"uploaded_by_id" gorm:"type:uuid;index;not null"`

	// Comment is the legacy single-comment field. AddComment mirrors the
	// latest comment text into it so old readers keep working.
	Comment *string `json:"comment,omitempty" gorm:"type:text"`

	Versions []CreativeVersion `json:"versions" gorm:"foreignKey:CreativeID;constraint:OnDelete:CASCADE"`
	Comments []CreativeComment `json:"comments" gorm:"foreignKey:CreativeID;constraint:OnDelete:CASCADE"`
	Files    []CreativeFile    `json:"files,omitempty" gorm:"foreignKey:CreativeID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// Deleted reports whether the creative has been soft-deleted.
func (c *Creative) Deleted() bool { return c.DeletedAt != nil }

// CreativeVersion is a full-replacement revision of the primary asset.
type CreativeVersion struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	CreativeID string    `json:"-" gorm:"type:uuid;index;not null"`
	Version    int       `json:"version" gorm:"not null"`
	URL        string    `json:"url" gorm:"type:text;not null"`
	FileName   string    `json:"file_name" gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreativeComment is one entry of the append-only comment history. The id is
// derived from the creation time and unique within the creative, hence the
// composite key.
type CreativeComment struct {
	ID         string    `json:"id" gorm:"type:varchar(32);primaryKey"`
	CreativeID string    `json:"-" gorm:"type:uuid;primaryKey"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	AuthorName string    `json:"author_name" gorm:"type:varchar(100);not null"`
	AuthorID   string    `json:"author_id" gorm:"type:uuid;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreativeFile is one asset of a multi-asset (carousel) creative, ordered by
// its 1-based Ord.
type CreativeFile struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	CreativeID string `json:"-" gorm:"type:uuid;index;not null"`
	Ord        int    `json:"order" gorm:"not null"`
	URL        string `json:"url" gorm:"type:text;not null"`
	FileName   string `json:"file_name" gorm:"type:varchar(255);not null"`
}
