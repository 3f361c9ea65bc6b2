package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackernest/hackernest/models"
)

func TestBlockUserCascadesAndUnblockRestoresExactSet(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &models.User{ID: 1, Username: "alice", Role: models.RoleUser}

	store.stories["s1"] = &models.Story{StoryID: "s1", Author: "alice", Title: "active story"}
	store.comments["c1"] = newComment("c1", "alice", "active comment", "s1", nil, 100)
	store.comments["c2"] = newComment("c2", "bob", "someone else", "s1", nil, 110)

	// Deleted before the block; must stay deleted after unblock.
	now := time.Now()
	pre := newComment("c3", "alice", "already gone", "s1", nil, 90)
	pre.IsDeleted = true
	pre.DeletedAt = &now
	pre.DeletedBy = "alice"
	pre.DeletionReason = ReasonSelfDeleted
	store.comments["c3"] = pre

	mod := NewModeration(store, nil)

	u, err := mod.BlockUser(1, "root")
	require.NoError(t, err)
	assert.True(t, u.IsBlocked)
	assert.Equal(t, "root", u.BlockedBy)
	require.NotNil(t, u.BlockedAt)

	assert.True(t, store.stories["s1"].IsDeleted)
	assert.True(t, store.stories["s1"].DeletedDueToBlock)
	assert.Equal(t, ReasonBlocked, store.stories["s1"].DeletionReason)
	assert.True(t, store.comments["c1"].IsDeleted)
	assert.True(t, store.comments["c1"].DeletedDueToBlock)
	assert.False(t, store.comments["c2"].IsDeleted)
	assert.False(t, store.comments["c3"].DeletedDueToBlock)

	_, err = mod.BlockUser(1, "root")
	assert.ErrorIs(t, err, ErrBadRequest)

	u, err = mod.UnblockUser(1)
	require.NoError(t, err)
	assert.False(t, u.IsBlocked)
	assert.Nil(t, u.BlockedAt)

	assert.False(t, store.stories["s1"].IsDeleted)
	assert.False(t, store.comments["c1"].IsDeleted)
	assert.True(t, store.comments["c3"].IsDeleted, "independently deleted content must stay deleted")

	_, err = mod.UnblockUser(1)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestDeleteCommentLeafHardDeletesAndPullsFromParent(t *testing.T) {
	store := newFakeStore()
	store.comments["c1"] = newComment("c1", "alice", "parent", "s1", nil, 100, "c2")
	store.comments["c2"] = newComment("c2", "alice", "leaf", "s1", strPtr("c1"), 110)

	mod := NewModeration(store, nil)
	require.NoError(t, mod.DeleteComment("c2", "alice", models.RoleUser, ""))

	_, err := store.CommentByID("c2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, store.comments["c1"].Children.Contains("c2"))
}

func TestDeleteCommentTopLevelLeafPullsFromStory(t *testing.T) {
	store := newFakeStore()
	store.stories["s1"] = &models.Story{StoryID: "s1", Author: "bob", Children: models.StringList{"c1"}}
	store.comments["c1"] = newComment("c1", "alice", "leaf", "s1", nil, 100)

	mod := NewModeration(store, nil)
	require.NoError(t, mod.DeleteComment("c1", "alice", models.RoleUser, ""))

	_, err := store.CommentByID("c1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, store.stories["s1"].Children.Contains("c1"))
}

func TestDeleteCommentWithRepliesSoftDeletesInPlace(t *testing.T) {
	store := newFakeStore()
	store.comments["c1"] = newComment("c1", "alice", "has replies", "s1", nil, 100, "c2")
	store.comments["c2"] = newComment("c2", "bob", "reply", "s1", strPtr("c1"), 110)

	mod := NewModeration(store, nil)
	require.NoError(t, mod.DeleteComment("c1", "alice", models.RoleUser, ""))

	c, err := store.CommentByID("c1")
	require.NoError(t, err)
	assert.True(t, c.IsDeleted)
	assert.Equal(t, "alice", c.DeletedBy)
	assert.Equal(t, ReasonSelfDeleted, c.DeletionReason)
	assert.Equal(t, "has replies", c.Text, "stored text is preserved for restore")
	assert.True(t, c.Children.Contains("c2"))
}

func TestDeleteCommentAdminAlwaysSoftDeletes(t *testing.T) {
	store := newFakeStore()
	store.stories["s1"] = &models.Story{StoryID: "s1", Author: "bob", Children: models.StringList{"c1"}}
	store.comments["c1"] = newComment("c1", "alice", "a leaf", "s1", nil, 100)

	mod := NewModeration(store, nil)
	require.NoError(t, mod.DeleteComment("c1", "root", models.RoleAdmin, ""))

	c, err := store.CommentByID("c1")
	require.NoError(t, err)
	assert.True(t, c.IsDeleted)
	assert.Equal(t, "root", c.DeletedBy)
	assert.Equal(t, ReasonAdminDeleted, c.DeletionReason)
	assert.True(t, store.stories["s1"].Children.Contains("c1"))
}

func TestDeleteParentThenLeafChild(t *testing.T) {
	store := newFakeStore()
	store.stories["s1"] = &models.Story{StoryID: "s1", Author: "op", Children: models.StringList{"a"}}
	store.comments["a"] = newComment("a", "alice", "top-level", "s1", nil, 100, "b")
	store.comments["b"] = newComment("b", "bob", "child", "s1", strPtr("a"), 110)

	mod := NewModeration(store, nil)

	// A has a child, so it is masked in place with B still attached.
	require.NoError(t, mod.DeleteComment("a", "alice", models.RoleUser, ""))
	a, err := store.CommentByID("a")
	require.NoError(t, err)
	assert.True(t, a.IsDeleted)
	assert.True(t, a.Children.Contains("b"))

	// B is a leaf, so it is hard-deleted and pulled from A's children.
	require.NoError(t, mod.DeleteComment("b", "bob", models.RoleUser, ""))
	_, err = store.CommentByID("b")
	assert.ErrorIs(t, err, ErrNotFound)
	a, err = store.CommentByID("a")
	require.NoError(t, err)
	assert.False(t, a.Children.Contains("b"))
}

func TestDeleteCommentForbiddenForNonOwner(t *testing.T) {
	store := newFakeStore()
	store.comments["c1"] = newComment("c1", "alice", "hers", "s1", nil, 100)

	mod := NewModeration(store, nil)
	err := mod.DeleteComment("c1", "mallory", models.RoleUser, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteCommentLeafUnderExternalParentSkipsPull(t *testing.T) {
	store := newFakeStore()
	store.comments["c1"] = newComment("c1", "alice", "reply to hn", "100", strPtr("200"), 100)

	mod := NewModeration(store, nil)
	require.NoError(t, mod.DeleteComment("c1", "alice", models.RoleUser, ""))

	_, err := store.CommentByID("c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteStoryOwnerAndAdminRules(t *testing.T) {
	store := newFakeStore()
	store.stories["s1"] = &models.Story{StoryID: "s1", Author: "alice", Title: "mine"}
	store.stories["s2"] = &models.Story{StoryID: "s2", Author: "alice", Title: "also mine"}

	mod := NewModeration(store, nil)

	err := mod.DeleteStory("s1", "mallory", models.RoleUser, "")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, mod.DeleteStory("s1", "alice", models.RoleUser, ""))
	assert.Equal(t, ReasonSelfDeleted, store.stories["s1"].DeletionReason)

	err = mod.DeleteStory("s1", "alice", models.RoleUser, "")
	assert.ErrorIs(t, err, ErrBadRequest)

	require.NoError(t, mod.DeleteStory("s2", "root", models.RoleAdmin, "spam"))
	assert.Equal(t, "spam", store.stories["s2"].DeletionReason)
	assert.Equal(t, "root", store.stories["s2"].DeletedBy)
}

func TestRestoreClearsModerationFields(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	store.stories["s1"] = &models.Story{
		StoryID: "s1", Author: "alice", Title: "was deleted",
		ModerationFields: models.ModerationFields{IsDeleted: true, DeletedAt: &now, DeletedBy: "root", DeletionReason: ReasonAdminDeleted},
	}

	mod := NewModeration(store, nil)
	s, err := mod.RestoreStory("s1")
	require.NoError(t, err)
	assert.False(t, s.IsDeleted)
	assert.Empty(t, s.DeletedBy)
	assert.Nil(t, s.DeletedAt)

	_, err = mod.RestoreStory("s1")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = mod.RestoreComment("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
