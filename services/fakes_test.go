package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hackernest/hackernest/hn"
	"github.com/hackernest/hackernest/models"
)

// fakeStore is an in-memory implementation of the store interfaces.
type fakeStore struct {
	stories       map[string]*models.Story
	comments      map[string]*models.Comment
	users         map[uint]*models.User
	likes         map[string]*models.Like
	reports       []*models.Report
	blockedEmails map[string]bool
	nextUserID    uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stories:       map[string]*models.Story{},
		comments:      map[string]*models.Comment{},
		users:         map[uint]*models.User{},
		likes:         map[string]*models.Like{},
		blockedEmails: map[string]bool{},
		nextUserID:    1,
	}
}

func likeKey(itemID, username string) string { return itemID + "|" + username }

func (f *fakeStore) StoryByID(id string) (*models.Story, error) {
	s, ok := f.stories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) SaveStory(s *models.Story) error {
	f.stories[s.StoryID] = s
	return nil
}

func (f *fakeStore) CommentByID(id string) (*models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) CommentsByStory(storyID string) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range f.comments {
		if c.StoryID == storyID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAtUnix < out[j].CreatedAtUnix })
	return out, nil
}

func (f *fakeStore) SaveComment(c *models.Comment) error {
	f.comments[c.CommentID] = c
	return nil
}

func (f *fakeStore) HardDeleteComment(id string) error {
	delete(f.comments, id)
	return nil
}

func (f *fakeStore) UserByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) UserByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) SaveUser(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) CreateUser(u *models.User) error {
	if u.ID == 0 {
		u.ID = f.nextUserID
		f.nextUserID++
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) IsEmailBlocked(email string) (bool, error) {
	return f.blockedEmails[strings.ToLower(email)], nil
}

func (f *fakeStore) MarkAuthorContentDeleted(author, deletedBy, reason string, at time.Time) error {
	ts := at
	for _, s := range f.stories {
		if s.Author == author && !s.IsDeleted {
			s.IsDeleted = true
			s.DeletedAt = &ts
			s.DeletedBy = deletedBy
			s.DeletionReason = reason
			s.DeletedDueToBlock = true
		}
	}
	for _, c := range f.comments {
		if c.Author == author && !c.IsDeleted {
			c.IsDeleted = true
			c.DeletedAt = &ts
			c.DeletedBy = deletedBy
			c.DeletionReason = reason
			c.DeletedDueToBlock = true
		}
	}
	return nil
}

func (f *fakeStore) RestoreBlockDeletedContent(author string) error {
	for _, s := range f.stories {
		if s.Author == author && s.DeletedDueToBlock {
			s.ModerationFields = models.ModerationFields{}
		}
	}
	for _, c := range f.comments {
		if c.Author == author && c.DeletedDueToBlock {
			c.ModerationFields = models.ModerationFields{}
		}
	}
	return nil
}

func (f *fakeStore) LikeByItemUser(itemID, username string) (*models.Like, error) {
	l, ok := f.likes[likeKey(itemID, username)]
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

func (f *fakeStore) CreateLike(l *models.Like) error {
	f.likes[likeKey(l.ItemID, l.Username)] = l
	return nil
}

func (f *fakeStore) DeleteLike(itemID, username string) error {
	delete(f.likes, likeKey(itemID, username))
	return nil
}

func (f *fakeStore) CountLikes(itemID string) (int64, error) {
	var cnt int64
	for _, l := range f.likes {
		if l.ItemID == itemID {
			cnt++
		}
	}
	return cnt, nil
}

func (f *fakeStore) AddPoints(itemID, itemType string, delta int) error {
	if itemType == models.ContentStory {
		if s, ok := f.stories[itemID]; ok {
			s.Points += delta
		}
		return nil
	}
	if c, ok := f.comments[itemID]; ok {
		c.Points += delta
	}
	return nil
}

func (f *fakeStore) PointsOf(itemID, itemType string) (int, error) {
	if itemType == models.ContentStory {
		if s, ok := f.stories[itemID]; ok {
			return s.Points, nil
		}
		return 0, nil
	}
	if c, ok := f.comments[itemID]; ok {
		return c.Points, nil
	}
	return 0, nil
}

func (f *fakeStore) ReportByContentAndReporter(contentID string, reporterID uint) (*models.Report, error) {
	for _, r := range f.reports {
		if r.ContentID == contentID && r.ReportedBy == reporterID {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateReport(r *models.Report) error {
	r.ID = uint(len(f.reports) + 1)
	f.reports = append(f.reports, r)
	return nil
}

// fakeSource serves one canned external item tree.
type fakeSource struct {
	item *hn.Item
	err  error
}

func (f *fakeSource) Item(ctx context.Context, id int) (*hn.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.item, nil
}

func strPtr(s string) *string { return &s }

func newComment(id, author, text, storyID string, parentID *string, createdAt int64, children ...string) *models.Comment {
	return &models.Comment{
		CommentID:     id,
		Author:        author,
		Text:          text,
		StoryID:       storyID,
		ParentID:      parentID,
		Children:      models.StringList(children),
		CreatedAtUnix: createdAt,
	}
}
