package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a locally authored reply. StoryID and ParentID may
// reference either internal UUIDs or external numeric item IDs, so both are
// plain strings. A nil ParentID marks a top-level comment on its story.
type Comment struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	CommentID string  `gorm:"size:36;uniqueIndex;not null" json:"comment_id"`
	Author    string  `gorm:"size:64;index;not null" json:"author"`
	Text      string  `gorm:"type:text;not null" json:"text"`
	StoryID   string  `gorm:"size:36;index;not null" json:"story_id"`
	ParentID  *string `gorm:"size:36;index" json:"parent_id"`

	// Ordered reply IDs, maintained on create and leaf delete.
	Children StringList `gorm:"type:text" json:"children"`
	Points   int        `gorm:"default:0" json:"points"`

	CreatedAtUnix int64      `gorm:"index" json:"created_at_i"`
	EditedAt      *time.Time `json:"editedAt,omitempty"`

	ModerationFields `gorm:"embedded"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAtUnix == 0 {
		c.CreatedAtUnix = time.Now().Unix()
	}
	return nil
}

// IsTopLevel reports whether the comment replies directly to its story.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil || *c.ParentID == ""
}
