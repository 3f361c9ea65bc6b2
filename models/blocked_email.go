package models

import "time"

// BlockedEmail denies registration for an address. Emails are stored
// lowercased so lookups are case-insensitive.
type BlockedEmail struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Reason    string    `gorm:"size:255" json:"reason,omitempty"`
	BlockedBy string    `gorm:"size:64" json:"blockedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
