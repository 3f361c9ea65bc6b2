package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackernest/hackernest/hn"
	"github.com/hackernest/hackernest/models"
)

func TestBuildForStoryInternalNesting(t *testing.T) {
	store := newFakeStore()
	store.comments["c1"] = newComment("c1", "alice", "root one", "story-1", nil, 100, "c2", "c3")
	store.comments["c2"] = newComment("c2", "bob", "reply to one", "story-1", strPtr("c1"), 110)
	store.comments["c3"] = newComment("c3", "carol", "another reply", "story-1", strPtr("c1"), 120, "c4")
	store.comments["c4"] = newComment("c4", "alice", "deep reply", "story-1", strPtr("c3"), 130)
	store.comments["c5"] = newComment("c5", "dave", "root two", "story-1", nil, 140)

	tb := NewTreeBuilder(store, &fakeSource{}, nil)
	forest, count, err := tb.BuildForStory(context.Background(), "story-1")
	require.NoError(t, err)
	require.Len(t, forest, 2)
	assert.Equal(t, 5, count)

	root := forest[0]
	assert.Equal(t, "c1", string(root.ID))
	require.Len(t, root.Children, 2)
	assert.Equal(t, "c2", string(root.Children[0].ID))
	assert.Equal(t, "c3", string(root.Children[1].ID))
	require.Len(t, root.Children[1].Children, 1)
	assert.Equal(t, "c4", string(root.Children[1].Children[0].ID))
	assert.Equal(t, "c5", string(forest[1].ID))
}

func TestBuildForStorySkipsDanglingChildren(t *testing.T) {
	store := newFakeStore()
	store.comments["c1"] = newComment("c1", "alice", "root", "story-1", nil, 100, "gone", "c2")
	store.comments["c2"] = newComment("c2", "bob", "reply", "story-1", strPtr("c1"), 110)

	tb := NewTreeBuilder(store, &fakeSource{}, nil)
	forest, count, err := tb.BuildForStory(context.Background(), "story-1")
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, 2, count)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "c2", string(forest[0].Children[0].ID))
}

func TestBuildForStoryTerminatesOnCycle(t *testing.T) {
	store := newFakeStore()
	store.comments["c1"] = newComment("c1", "alice", "root", "story-1", nil, 100, "c2")
	store.comments["c2"] = newComment("c2", "bob", "reply", "story-1", strPtr("c1"), 110, "c1")

	tb := NewTreeBuilder(store, &fakeSource{}, nil)
	forest, count, err := tb.BuildForStory(context.Background(), "story-1")
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, 2, count)
	assert.Empty(t, forest[0].Children[0].Children)
}

func TestBuildForStoryMergesLocalIntoExternal(t *testing.T) {
	extChild := &hn.Item{ID: hn.ItemID("200"), Type: models.TypeComment, Author: "hn_user", Children: []*hn.Item{}}
	extRoot := &hn.Item{ID: hn.ItemID("100"), Type: models.TypeStory, Author: "hn_op", Children: []*hn.Item{extChild}}

	store := newFakeStore()
	// Local reply to the external comment, with its own local reply.
	store.comments["l1"] = newComment("l1", "alice", "local reply", "100", strPtr("200"), 100, "l2")
	store.comments["l2"] = newComment("l2", "bob", "nested local", "100", strPtr("l1"), 110)
	// Local top-level comment on the external story.
	store.comments["l3"] = newComment("l3", "carol", "local top-level", "100", nil, 120)

	tb := NewTreeBuilder(store, &fakeSource{item: extRoot}, nil)
	forest, count, err := tb.BuildForStory(context.Background(), "100")
	require.NoError(t, err)

	// External child first, then the local top-level.
	require.Len(t, forest, 2)
	assert.Equal(t, "200", string(forest[0].ID))
	assert.Equal(t, "l3", string(forest[1].ID))
	assert.Equal(t, 4, count)

	// The local subtree is spliced under the external comment.
	require.Len(t, forest[0].Children, 1)
	spliced := forest[0].Children[0]
	assert.Equal(t, "l1", string(spliced.ID))
	require.Len(t, spliced.Children, 1)
	assert.Equal(t, "l2", string(spliced.Children[0].ID))
}

func TestBuildForStoryExternalWithoutLocalsIsUnchanged(t *testing.T) {
	extRoot := &hn.Item{ID: hn.ItemID("12345"), Type: models.TypeStory, Author: "hn_op", Children: []*hn.Item{
		{ID: hn.ItemID("200"), Type: models.TypeComment, Author: "a", Children: []*hn.Item{
			{ID: hn.ItemID("300"), Type: models.TypeComment, Author: "b", Children: []*hn.Item{}},
		}},
		{ID: hn.ItemID("400"), Type: models.TypeComment, Author: "c", Children: []*hn.Item{}},
	}}

	tb := NewTreeBuilder(newFakeStore(), &fakeSource{item: extRoot}, nil)
	forest, count, err := tb.BuildForStory(context.Background(), "12345")
	require.NoError(t, err)

	require.Len(t, forest, 2)
	assert.Equal(t, "200", string(forest[0].ID))
	assert.Equal(t, "400", string(forest[1].ID))
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "300", string(forest[0].Children[0].ID))
	assert.Equal(t, 3, count)
}

func TestBuildForStoryAnchorsRepliesToMissingExternalParents(t *testing.T) {
	extRoot := &hn.Item{ID: hn.ItemID("100"), Type: models.TypeStory, Author: "hn_op", Children: []*hn.Item{
		{ID: hn.ItemID("200"), Type: models.TypeComment, Author: "a", Children: []*hn.Item{}},
	}}

	store := newFakeStore()
	// Replies to an external comment that the fetched tree no longer contains.
	store.comments["l1"] = newComment("l1", "alice", "reply to pruned node", "100", strPtr("999"), 100, "l2")
	store.comments["l2"] = newComment("l2", "bob", "nested", "100", strPtr("l1"), 110)
	store.comments["l3"] = newComment("l3", "carol", "top-level", "100", nil, 120)

	tb := NewTreeBuilder(store, &fakeSource{item: extRoot}, nil)
	forest, count, err := tb.BuildForStory(context.Background(), "100")
	require.NoError(t, err)

	// External child, then the top-level local, then the orphaned subtree.
	require.Len(t, forest, 3)
	assert.Equal(t, "200", string(forest[0].ID))
	assert.Equal(t, "l3", string(forest[1].ID))
	assert.Equal(t, "l1", string(forest[2].ID))
	require.Len(t, forest[2].Children, 1)
	assert.Equal(t, "l2", string(forest[2].Children[0].ID))
	assert.Equal(t, 4, count)
}

func TestBuildForStoryExternalFailureDegradesToLocal(t *testing.T) {
	store := newFakeStore()
	store.comments["l1"] = newComment("l1", "alice", "local top-level", "100", nil, 100, "l2")
	store.comments["l2"] = newComment("l2", "bob", "local reply", "100", strPtr("l1"), 110)

	tb := NewTreeBuilder(store, &fakeSource{err: hn.ErrUnavailable}, nil)
	forest, count, err := tb.BuildForStory(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, 2, count)
	assert.Equal(t, "l1", string(forest[0].ID))
}

func TestBuildForStoryDegradedKeepsExternalAnchoredReplies(t *testing.T) {
	store := newFakeStore()
	store.comments["l1"] = newComment("l1", "alice", "top-level", "100", nil, 100)
	store.comments["l2"] = newComment("l2", "bob", "reply to external comment", "100", strPtr("200"), 110)

	tb := NewTreeBuilder(store, &fakeSource{err: hn.ErrUnavailable}, nil)
	forest, count, err := tb.BuildForStory(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, forest, 2)
	assert.Equal(t, "l1", string(forest[0].ID))
	assert.Equal(t, "l2", string(forest[1].ID))
	assert.Equal(t, 2, count)
}

func TestCommentToItemMasksDeleted(t *testing.T) {
	self := newComment("c1", "alice", "my secret", "story-1", nil, 100)
	self.IsDeleted = true
	self.DeletedBy = "alice"

	item := CommentToItem(self)
	assert.Equal(t, "[deleted]", item.Author)
	assert.Equal(t, "[deleted]", item.Text)

	byAdmin := newComment("c2", "alice", "bad content", "story-1", nil, 100)
	byAdmin.IsDeleted = true
	byAdmin.DeletedBy = "root"

	item = CommentToItem(byAdmin)
	assert.Equal(t, "[deleted]", item.Author)
	assert.Equal(t, "[deleted by admin]", item.Text)

	// Stored row keeps the original content for restore.
	assert.Equal(t, "bad content", byAdmin.Text)
	assert.Equal(t, "alice", byAdmin.Author)

	// The unmasked view used by admin moderation shows the stored content.
	raw := CommentToItemUnmasked(byAdmin)
	assert.Equal(t, "alice", raw.Author)
	assert.Equal(t, "bad content", raw.Text)
}

func TestStoryToItemUnmaskedKeepsStoredFields(t *testing.T) {
	s := &models.Story{StoryID: "s1", Author: "alice", Title: "the title", Text: "the text"}
	s.IsDeleted = true
	s.DeletedBy = "root"

	masked := StoryToItem(s, nil)
	assert.Equal(t, "[deleted]", masked.Author)
	assert.Equal(t, "[deleted]", masked.Title)
	assert.Equal(t, "[deleted by admin]", masked.Text)

	raw := StoryToItemUnmasked(s, nil)
	assert.Equal(t, "alice", raw.Author)
	assert.Equal(t, "the title", raw.Title)
	assert.Equal(t, "the text", raw.Text)
}

func TestBuildForStoryKeepsDeletedNodesInPlace(t *testing.T) {
	store := newFakeStore()
	mid := newComment("c1", "alice", "middle", "story-1", nil, 100, "c2")
	mid.IsDeleted = true
	mid.DeletedBy = "root"
	store.comments["c1"] = mid
	store.comments["c2"] = newComment("c2", "bob", "child survives", "story-1", strPtr("c1"), 110)

	tb := NewTreeBuilder(store, &fakeSource{}, nil)
	forest, count, err := tb.BuildForStory(context.Background(), "story-1")
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, 2, count)
	assert.Equal(t, "[deleted]", forest[0].Author)
	assert.Equal(t, "[deleted by admin]", forest[0].Text)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "child survives", forest[0].Children[0].Text)
}
