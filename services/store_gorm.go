package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hackernest/hackernest/models"
)

// GormStore implements every store interface on top of a gorm DB handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db for use by the domain services.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) StoryByID(id string) (*models.Story, error) {
	var st models.Story
	if err := s.db.Where("story_id = ?", id).First(&st).Error; err != nil {
		return nil, translate(err)
	}
	return &st, nil
}

func (s *GormStore) SaveStory(st *models.Story) error {
	return s.db.Save(st).Error
}

func (s *GormStore) CommentByID(id string) (*models.Comment, error) {
	var c models.Comment
	if err := s.db.Where("comment_id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *GormStore) CommentsByStory(storyID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.Where("story_id = ?", storyID).Order("created_at_unix ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *GormStore) SaveComment(c *models.Comment) error {
	return s.db.Save(c).Error
}

func (s *GormStore) HardDeleteComment(id string) error {
	return s.db.Where("comment_id = ?", id).Delete(&models.Comment{}).Error
}

func (s *GormStore) UserByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) UserByUsername(username string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) UserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) SaveUser(u *models.User) error {
	return s.db.Save(u).Error
}

func (s *GormStore) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *GormStore) IsEmailBlocked(email string) (bool, error) {
	var cnt int64
	if err := s.db.Model(&models.BlockedEmail{}).Where("email = ?", strings.ToLower(email)).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (s *GormStore) MarkAuthorContentDeleted(author, deletedBy, reason string, at time.Time) error {
	fields := map[string]interface{}{
		"is_deleted":           true,
		"deleted_at":           at,
		"deleted_by":           deletedBy,
		"deletion_reason":      reason,
		"deleted_due_to_block": true,
	}
	if err := s.db.Model(&models.Story{}).
		Where("author = ? AND is_deleted = ?", author, false).
		Updates(fields).Error; err != nil {
		return err
	}
	return s.db.Model(&models.Comment{}).
		Where("author = ? AND is_deleted = ?", author, false).
		Updates(fields).Error
}

func (s *GormStore) RestoreBlockDeletedContent(author string) error {
	fields := map[string]interface{}{
		"is_deleted":           false,
		"deleted_at":           nil,
		"deleted_by":           "",
		"deletion_reason":      "",
		"deleted_due_to_block": false,
	}
	if err := s.db.Model(&models.Story{}).
		Where("author = ? AND deleted_due_to_block = ?", author, true).
		Updates(fields).Error; err != nil {
		return err
	}
	return s.db.Model(&models.Comment{}).
		Where("author = ? AND deleted_due_to_block = ?", author, true).
		Updates(fields).Error
}

func (s *GormStore) LikeByItemUser(itemID, username string) (*models.Like, error) {
	var l models.Like
	if err := s.db.Where("item_id = ? AND username = ?", itemID, username).First(&l).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *GormStore) CreateLike(l *models.Like) error {
	return s.db.Create(l).Error
}

func (s *GormStore) DeleteLike(itemID, username string) error {
	return s.db.Where("item_id = ? AND username = ?", itemID, username).Delete(&models.Like{}).Error
}

func (s *GormStore) CountLikes(itemID string) (int64, error) {
	var cnt int64
	if err := s.db.Model(&models.Like{}).Where("item_id = ?", itemID).Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (s *GormStore) AddPoints(itemID, itemType string, delta int) error {
	expr := gorm.Expr("points + ?", delta)
	if itemType == models.ContentStory {
		return s.db.Model(&models.Story{}).Where("story_id = ?", itemID).
			UpdateColumn("points", expr).Error
	}
	return s.db.Model(&models.Comment{}).Where("comment_id = ?", itemID).
		UpdateColumn("points", expr).Error
}

func (s *GormStore) PointsOf(itemID, itemType string) (int, error) {
	var points int
	var err error
	if itemType == models.ContentStory {
		err = s.db.Model(&models.Story{}).Where("story_id = ?", itemID).
			Select("COALESCE(points, 0)").Scan(&points).Error
	} else {
		err = s.db.Model(&models.Comment{}).Where("comment_id = ?", itemID).
			Select("COALESCE(points, 0)").Scan(&points).Error
	}
	if err != nil {
		return 0, err
	}
	return points, nil
}

func (s *GormStore) ReportByContentAndReporter(contentID string, reporterID uint) (*models.Report, error) {
	var r models.Report
	if err := s.db.Where("content_id = ? AND reported_by = ?", contentID, reporterID).First(&r).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *GormStore) CreateReport(r *models.Report) error {
	return s.db.Create(r).Error
}
