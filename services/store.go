package services

import (
	"time"

	"github.com/hackernest/hackernest/models"
)

// Store interfaces are deliberately narrow so the domain services can be
// exercised against in-memory fakes. Getters return ErrNotFound for missing
// rows, never (nil, nil).

// StoryStore reads and writes story rows by their public UUID.
type StoryStore interface {
	StoryByID(id string) (*models.Story, error)
	SaveStory(s *models.Story) error
}

// CommentStore reads and writes comment rows by their public UUID.
type CommentStore interface {
	CommentByID(id string) (*models.Comment, error)
	CommentsByStory(storyID string) ([]models.Comment, error)
	SaveComment(c *models.Comment) error
	HardDeleteComment(id string) error
}

// UserStore reads and writes user accounts.
type UserStore interface {
	UserByID(id uint) (*models.User, error)
	UserByUsername(username string) (*models.User, error)
	SaveUser(u *models.User) error
}

// ModerationStore adds the bulk operations the block/unblock cascade needs.
type ModerationStore interface {
	StoryStore
	CommentStore
	UserStore
	// MarkAuthorContentDeleted soft-deletes every non-deleted story and
	// comment by author, tagging the rows as block-deleted.
	MarkAuthorContentDeleted(author, deletedBy, reason string, at time.Time) error
	// RestoreBlockDeletedContent restores exactly the rows tagged by a
	// previous block cascade for this author.
	RestoreBlockDeletedContent(author string) error
}

// LikeStore manages like rows and the point counters they drive.
type LikeStore interface {
	LikeByItemUser(itemID, username string) (*models.Like, error)
	CreateLike(l *models.Like) error
	DeleteLike(itemID, username string) error
	CountLikes(itemID string) (int64, error)
	AddPoints(itemID, itemType string, delta int) error
	PointsOf(itemID, itemType string) (int, error)
}

// ReportStore manages report rows.
type ReportStore interface {
	ReportByContentAndReporter(contentID string, reporterID uint) (*models.Report, error)
	CreateReport(r *models.Report) error
}

// AccountStore backs registration and login.
type AccountStore interface {
	UserByUsername(username string) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
	CreateUser(u *models.User) error
	IsEmailBlocked(email string) (bool, error)
}
