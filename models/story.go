package models

import (
	"time"

	"gorm.io/gorm"
)

// Story types mirroring the public HN item taxonomy.
const (
	TypeStory   = "story"
	TypeJob     = "job"
	TypePoll    = "poll"
	TypePollOpt = "pollopt"
	TypeComment = "comment"
)

// ModerationFields is the soft-delete block shared by stories and comments.
// DeletedDueToBlock marks rows removed by a user block cascade so that an
// unblock can restore exactly that set.
type ModerationFields struct {
	IsDeleted         bool       `gorm:"default:false;index" json:"isDeleted"`
	DeletedAt         *time.Time `json:"deletedAt,omitempty"`
	DeletedBy         string     `gorm:"size:64" json:"deletedBy,omitempty"`
	DeletionReason    string     `gorm:"size:255" json:"deletionReason,omitempty"`
	DeletedDueToBlock bool       `gorm:"default:false;index" json:"deletedDueToBlock"`
}

// Story represents a submission. Internal stories carry a UUID StoryID;
// externally sourced items are referenced by their numeric ID and are never
// stored in this table.
type Story struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	StoryID string `gorm:"size:36;uniqueIndex;not null" json:"story_id"`
	Author  string `gorm:"size:64;index;not null" json:"author"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Text    string `gorm:"type:text" json:"text"`
	URL     string `gorm:"size:512" json:"url"`
	Type    string `gorm:"size:16;default:'story';index" json:"type"`
	Points  int    `gorm:"default:0" json:"points"`

	// Ordered top-level comment IDs. Kept denormalized for fast thread
	// assembly; counts are always recomputed by traversal.
	Children StringList `gorm:"type:text" json:"children"`
	Tags     StringList `gorm:"type:text" json:"tags"`

	CreatedAtUnix int64 `gorm:"index" json:"created_at_i"`

	ModerationFields `gorm:"embedded"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.Type == "" {
		s.Type = TypeStory
	}
	if s.CreatedAtUnix == 0 {
		s.CreatedAtUnix = time.Now().Unix()
	}
	return nil
}
