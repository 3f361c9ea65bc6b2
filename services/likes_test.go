package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackernest/hackernest/models"
)

func TestToggleInternalStoryFlipsPoints(t *testing.T) {
	store := newFakeStore()
	store.stories["s1"] = &models.Story{StoryID: "s1", Author: "alice", Points: 3}
	store.users[1] = &models.User{ID: 1, Username: "bob"}

	likes := NewLikes(store, store)

	liked, total, err := likes.Toggle("s1", models.ContentStory, "bob", 0)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 4, total)
	assert.True(t, store.users[1].Likes.Contains("s1"))

	liked, total, err = likes.Toggle("s1", models.ContentStory, "bob", 0)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 3, total, "double toggle restores the original points")
	assert.False(t, store.users[1].Likes.Contains("s1"))
}

func TestToggleExternalItemNeverPersistsUpstreamPoints(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &models.User{ID: 1, Username: "bob"}

	likes := NewLikes(store, store)

	liked, total, err := likes.Toggle("38500000", models.ContentStory, "bob", 120)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 121, total, "upstream base plus one local like")

	// Negative upstream points are clamped, never subtracted.
	_, total, err = likes.Toggle("38500000", models.ContentStory, "carol", -50)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// Nothing was written to local stories.
	assert.Empty(t, store.stories)
}

func TestStatusReportsCountAndLikedFlag(t *testing.T) {
	store := newFakeStore()
	store.comments["c1"] = newComment("c1", "alice", "text", "s1", nil, 100)
	store.comments["c1"].Points = 2
	store.users[1] = &models.User{ID: 1, Username: "bob"}

	likes := NewLikes(store, store)
	_, _, err := likes.Toggle("c1", models.ContentComment, "bob", 0)
	require.NoError(t, err)

	cnt, total, liked, err := likes.Status("c1", models.ContentComment, "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
	assert.Equal(t, 3, total)
	assert.True(t, liked)

	_, _, liked, err = likes.Status("c1", models.ContentComment, "carol", 0)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestUserLikesListsLikedItems(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &models.User{ID: 1, Username: "bob", Likes: models.StringList{"s1", "c9"}}

	likes := NewLikes(store, store)
	got, err := likes.UserLikes("bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "c9"}, got)

	_, err = likes.UserLikes("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
