package models

import "time"

// Like records one user's like on one item. The (ItemID, Username) pair is
// unique so toggling is an existence flip, never a counter.
type Like struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	ItemID   string `gorm:"size:36;not null;uniqueIndex:idx_like_item_user" json:"item_id"`
	Username string `gorm:"size:64;not null;uniqueIndex:idx_like_item_user" json:"username"`
	ItemType string `gorm:"size:16;not null" json:"item_type"`

	CreatedAt time.Time `json:"createdAt"`
}
