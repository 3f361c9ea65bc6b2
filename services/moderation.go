package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hackernest/hackernest/hn"
	"github.com/hackernest/hackernest/models"
)

// Deletion reason defaults and render-time masks. Soft-deleted rows keep
// their original author and text in storage; masking happens when the row is
// rendered, so a restore recovers the content exactly.
const (
	ReasonBlocked      = "User blocked by admin"
	ReasonAdminDeleted = "Deleted by admin"
	ReasonSelfDeleted  = "Deleted by author"

	maskedAuthor    = "[deleted]"
	maskedText      = "[deleted]"
	maskedTextAdmin = "[deleted by admin]"
)

// Moderation implements blocking, content deletion, and restoration.
type Moderation struct {
	store ModerationStore
	log   *zap.Logger
}

// NewModeration wires a Moderation engine.
func NewModeration(store ModerationStore, log *zap.Logger) *Moderation {
	if log == nil {
		log = zap.NewNop()
	}
	return &Moderation{store: store, log: log}
}

// BlockUser blocks the account and soft-deletes all of the author's
// currently active content, tagging it so a later unblock restores exactly
// this set.
func (m *Moderation) BlockUser(userID uint, adminUsername string) (*models.User, error) {
	u, err := m.store.UserByID(userID)
	if err != nil {
		return nil, err
	}
	if u.IsBlocked {
		return nil, fmt.Errorf("%w: user is already blocked", ErrBadRequest)
	}

	now := time.Now()
	u.IsBlocked = true
	u.BlockedAt = &now
	u.BlockedBy = adminUsername
	if err := m.store.SaveUser(u); err != nil {
		return nil, err
	}

	if err := m.store.MarkAuthorContentDeleted(u.Username, adminUsername, ReasonBlocked, now); err != nil {
		return nil, err
	}
	m.log.Info("user blocked, content cascade-deleted",
		zap.Uint("user_id", userID), zap.String("username", u.Username), zap.String("by", adminUsername))
	return u, nil
}

// UnblockUser clears the block and restores only the content removed by the
// block cascade. Content deleted independently stays deleted.
func (m *Moderation) UnblockUser(userID uint) (*models.User, error) {
	u, err := m.store.UserByID(userID)
	if err != nil {
		return nil, err
	}
	if !u.IsBlocked {
		return nil, fmt.Errorf("%w: user is not blocked", ErrBadRequest)
	}

	u.IsBlocked = false
	u.BlockedAt = nil
	u.BlockedBy = ""
	if err := m.store.SaveUser(u); err != nil {
		return nil, err
	}

	if err := m.store.RestoreBlockDeletedContent(u.Username); err != nil {
		return nil, err
	}
	m.log.Info("user unblocked, block-deleted content restored",
		zap.Uint("user_id", userID), zap.String("username", u.Username))
	return u, nil
}

// DeleteStory soft-deletes a story. Non-admin actors may only delete their
// own stories; admins always leave an audit reason.
func (m *Moderation) DeleteStory(storyID, actor, actorRole, reason string) error {
	s, err := m.store.StoryByID(storyID)
	if err != nil {
		return err
	}
	isAdmin := actorRole == models.RoleAdmin
	if !isAdmin && s.Author != actor {
		return fmt.Errorf("%w: you can only delete your own stories", ErrForbidden)
	}
	if s.IsDeleted {
		return fmt.Errorf("%w: story is already deleted", ErrBadRequest)
	}

	if reason == "" {
		if isAdmin {
			reason = ReasonAdminDeleted
		} else {
			reason = ReasonSelfDeleted
		}
	}
	now := time.Now()
	s.IsDeleted = true
	s.DeletedAt = &now
	s.DeletedBy = actor
	s.DeletionReason = reason
	return m.store.SaveStory(s)
}

// DeleteComment removes a comment. A non-admin delete of a leaf comment is a
// hard delete plus a pull of the ID from its parent's children list; a
// comment with replies is soft-deleted in place so the thread keeps its
// shape. Admin deletes always soft-delete with an audit reason.
func (m *Moderation) DeleteComment(commentID, actor, actorRole, reason string) error {
	c, err := m.store.CommentByID(commentID)
	if err != nil {
		return err
	}
	isAdmin := actorRole == models.RoleAdmin
	if !isAdmin && c.Author != actor {
		return fmt.Errorf("%w: you can only delete your own comments", ErrForbidden)
	}
	if c.IsDeleted {
		return fmt.Errorf("%w: comment is already deleted", ErrBadRequest)
	}

	now := time.Now()
	if isAdmin || len(c.Children) > 0 {
		if reason == "" {
			if isAdmin {
				reason = ReasonAdminDeleted
			} else {
				reason = ReasonSelfDeleted
			}
		}
		c.IsDeleted = true
		c.DeletedAt = &now
		c.DeletedBy = actor
		c.DeletionReason = reason
		return m.store.SaveComment(c)
	}

	// Leaf: hard delete and keep the parent's children list consistent.
	if err := m.pullFromParent(c); err != nil {
		return err
	}
	return m.store.HardDeleteComment(commentID)
}

func (m *Moderation) pullFromParent(c *models.Comment) error {
	if c.ParentID != nil && *c.ParentID != "" {
		if hn.IsExternalID(*c.ParentID) {
			return nil // external parents are not ours to update
		}
		parent, err := m.store.CommentByID(*c.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				m.log.Warn("parent comment missing while pulling child",
					zap.String("parent_id", *c.ParentID), zap.String("child_id", c.CommentID))
				return nil
			}
			return err
		}
		parent.Children = parent.Children.Remove(c.CommentID)
		return m.store.SaveComment(parent)
	}

	if hn.IsExternalID(c.StoryID) {
		return nil
	}
	story, err := m.store.StoryByID(c.StoryID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			m.log.Warn("story missing while pulling top-level comment",
				zap.String("story_id", c.StoryID), zap.String("comment_id", c.CommentID))
			return nil
		}
		return err
	}
	story.Children = story.Children.Remove(c.CommentID)
	return m.store.SaveStory(story)
}

// RestoreStory clears the soft-delete block on a story.
func (m *Moderation) RestoreStory(storyID string) (*models.Story, error) {
	s, err := m.store.StoryByID(storyID)
	if err != nil {
		return nil, err
	}
	if !s.IsDeleted {
		return nil, fmt.Errorf("%w: story is not deleted", ErrBadRequest)
	}
	s.ModerationFields = models.ModerationFields{}
	if err := m.store.SaveStory(s); err != nil {
		return nil, err
	}
	return s, nil
}

// RestoreComment clears the soft-delete block on a comment.
func (m *Moderation) RestoreComment(commentID string) (*models.Comment, error) {
	c, err := m.store.CommentByID(commentID)
	if err != nil {
		return nil, err
	}
	if !c.IsDeleted {
		return nil, fmt.Errorf("%w: comment is not deleted", ErrBadRequest)
	}
	c.ModerationFields = models.ModerationFields{}
	if err := m.store.SaveComment(c); err != nil {
		return nil, err
	}
	return c, nil
}
