package models

import "time"

// Report statuses.
const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportDismissed = "dismissed"
)

// Reportable content kinds.
const (
	ContentStory   = "story"
	ContentComment = "comment"
)

// Report is a user flag against a story or comment. One report per
// (content, reporter) pair. Reporter and content author names are
// denormalized so moderation listings need no joins.
type Report struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ContentID   string `gorm:"size:36;not null;index;uniqueIndex:idx_report_content_user" json:"contentId"`
	ContentType string `gorm:"size:16;not null" json:"contentType"`

	ReportedBy         uint   `gorm:"not null;uniqueIndex:idx_report_content_user" json:"-"`
	ReportedByUsername string `gorm:"size:64" json:"reportedByUsername"`
	Reason             string `gorm:"size:512;not null" json:"reason"`

	ContentAuthor   string `gorm:"size:64;index" json:"contentAuthor"`
	ContentAuthorID uint   `json:"contentAuthorId,omitempty"`

	Status             string     `gorm:"size:16;default:'pending';index" json:"status"`
	ReviewedAt         *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy         uint       `json:"-"`
	ReviewedByUsername string     `gorm:"size:64" json:"reviewedByUsername,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
