package services

import (
	"errors"
	"fmt"

	"github.com/hackernest/hackernest/models"
)

// Reports implements report creation with the one-report-per-(content,
// reporter) rule and denormalized author fields.
type Reports struct {
	store    ReportStore
	stories  StoryStore
	comments CommentStore
	users    UserStore
}

// NewReports wires a Reports service.
func NewReports(store ReportStore, stories StoryStore, comments CommentStore, users UserStore) *Reports {
	return &Reports{store: store, stories: stories, comments: comments, users: users}
}

// Create files a report against a story or comment.
func (s *Reports) Create(contentID, contentType, reason string, reporterID uint) (*models.Report, error) {
	var contentAuthor string
	switch contentType {
	case models.ContentStory:
		story, err := s.stories.StoryByID(contentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: story not found", ErrNotFound)
			}
			return nil, err
		}
		contentAuthor = story.Author
	case models.ContentComment:
		comment, err := s.comments.CommentByID(contentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: comment not found", ErrNotFound)
			}
			return nil, err
		}
		contentAuthor = comment.Author
	default:
		return nil, fmt.Errorf("%w: invalid content type", ErrBadRequest)
	}

	if _, err := s.store.ReportByContentAndReporter(contentID, reporterID); err == nil {
		return nil, fmt.Errorf("%w: you have already reported this content", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	reporter, err := s.users.UserByID(reporterID)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ContentID:          contentID,
		ContentType:        contentType,
		Reason:             reason,
		ReportedBy:         reporterID,
		ReportedByUsername: reporter.Username,
		ContentAuthor:      contentAuthor,
		Status:             models.ReportPending,
	}
	// Author account may no longer exist; the ID is best-effort.
	if author, err := s.users.UserByUsername(contentAuthor); err == nil {
		report.ContentAuthorID = author.ID
	}

	if err := s.store.CreateReport(report); err != nil {
		return nil, err
	}
	return report, nil
}
