package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Job stories may only be created by employers and admins.
const (
	RoleUser     = "user"
	RoleEmployer = "employer"
	RoleAdmin    = "admin"
)

// Social holds optional external profile links.
type Social struct {
	Twitter  string `json:"twitter,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Visibility controls which public-profile fields are exposed.
// A nil pointer means "not configured", which defaults to visible.
type Visibility struct {
	Name      *bool `json:"name,omitempty"`
	Bio       *bool `json:"bio,omitempty"`
	Location  *bool `json:"location,omitempty"`
	Website   *bool `json:"website,omitempty"`
	Interests *bool `json:"interests,omitempty"`
	Social    *bool `json:"social,omitempty"`
}

// User represents a platform account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"size:64" json:"firstName"`
	LastName  string `gorm:"size:64" json:"lastName"`
	Username  string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email     string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string `gorm:"size:255;not null" json:"-"`
	Role      string `gorm:"size:16;default:'user'" json:"role"`

	Bio       string     `gorm:"size:512" json:"bio"`
	Location  string     `gorm:"size:128" json:"location"`
	Website   string     `gorm:"size:255" json:"website"`
	Interests StringList `gorm:"type:text" json:"interests"`

	SocialTwitter  string `gorm:"size:255" json:"-"`
	SocialGitHub   string `gorm:"size:255" json:"-"`
	SocialLinkedIn string `gorm:"size:255" json:"-"`

	ShowName      *bool `json:"-"`
	ShowBio       *bool `json:"-"`
	ShowLocation  *bool `json:"-"`
	ShowWebsite   *bool `json:"-"`
	ShowInterests *bool `json:"-"`
	ShowSocial    *bool `json:"-"`

	// Lists of related IDs: user IDs for the follow graph, item IDs otherwise.
	Followers StringList `gorm:"type:text" json:"-"`
	Following StringList `gorm:"type:text" json:"-"`
	Bookmarks StringList `gorm:"type:text" json:"bookmarks"`
	Likes     StringList `gorm:"type:text" json:"-"`

	IsBlocked bool       `gorm:"default:false" json:"isBlocked"`
	BlockedAt *time.Time `json:"blockedAt,omitempty"`
	BlockedBy string     `gorm:"size:64" json:"blockedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate keeps timestamps sane when rows are seeded directly.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// SocialLinks assembles the social struct from flattened columns.
func (u *User) SocialLinks() Social {
	return Social{Twitter: u.SocialTwitter, GitHub: u.SocialGitHub, LinkedIn: u.SocialLinkedIn}
}

// VisibilityFlags assembles the visibility struct from flattened columns.
func (u *User) VisibilityFlags() Visibility {
	return Visibility{
		Name:      u.ShowName,
		Bio:       u.ShowBio,
		Location:  u.ShowLocation,
		Website:   u.ShowWebsite,
		Interests: u.ShowInterests,
		Social:    u.ShowSocial,
	}
}
