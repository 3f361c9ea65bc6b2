package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackernest/hackernest/models"
)

func TestCreateReportDenormalizesAuthor(t *testing.T) {
	store := newFakeStore()
	store.stories["s1"] = &models.Story{StoryID: "s1", Author: "alice"}
	store.users[1] = &models.User{ID: 1, Username: "alice"}
	store.users[2] = &models.User{ID: 2, Username: "bob"}

	reports := NewReports(store, store, store, store)
	r, err := reports.Create("s1", models.ContentStory, "spam", 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", r.ReportedByUsername)
	assert.Equal(t, "alice", r.ContentAuthor)
	assert.Equal(t, uint(1), r.ContentAuthorID)
	assert.Equal(t, models.ReportPending, r.Status)
}

func TestCreateReportDuplicateIsConflict(t *testing.T) {
	store := newFakeStore()
	store.comments["c1"] = newComment("c1", "alice", "text", "s1", nil, 100)
	store.users[2] = &models.User{ID: 2, Username: "bob"}
	store.users[3] = &models.User{ID: 3, Username: "carol"}

	reports := NewReports(store, store, store, store)
	_, err := reports.Create("c1", models.ContentComment, "abuse", 2)
	require.NoError(t, err)

	_, err = reports.Create("c1", models.ContentComment, "abuse again", 2)
	assert.ErrorIs(t, err, ErrConflict)

	// A different reporter may still report the same content.
	_, err = reports.Create("c1", models.ContentComment, "abuse", 3)
	require.NoError(t, err)
}

func TestCreateReportValidation(t *testing.T) {
	store := newFakeStore()
	store.users[2] = &models.User{ID: 2, Username: "bob"}

	reports := NewReports(store, store, store, store)

	_, err := reports.Create("missing", models.ContentStory, "spam", 2)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = reports.Create("x", "poll", "spam", 2)
	assert.ErrorIs(t, err, ErrBadRequest)
}
