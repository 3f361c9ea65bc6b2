package services

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hackernest/hackernest/hn"
	"github.com/hackernest/hackernest/models"
)

// ItemSource fetches full item trees from the external content source.
type ItemSource interface {
	Item(ctx context.Context, id int) (*hn.Item, error)
}

// TreeBuilder assembles nested comment forests for a story, merging locally
// authored comments into externally sourced threads when the story lives on
// the external platform.
type TreeBuilder struct {
	comments CommentStore
	source   ItemSource
	log      *zap.Logger
}

// NewTreeBuilder wires a TreeBuilder.
func NewTreeBuilder(comments CommentStore, source ItemSource, log *zap.Logger) *TreeBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	return &TreeBuilder{comments: comments, source: source, log: log}
}

// BuildForStory returns the comment forest for a story plus the total node
// count. External story IDs are numeric; everything else is a local UUID.
// When the external source fails, the thread degrades to local comments only.
func (b *TreeBuilder) BuildForStory(ctx context.Context, storyID string) ([]*hn.Item, int, error) {
	if hn.IsExternalID(storyID) {
		return b.buildExternal(ctx, storyID)
	}
	return b.buildInternal(storyID)
}

func (b *TreeBuilder) buildInternal(storyID string) ([]*hn.Item, int, error) {
	comments, err := b.comments.CommentsByStory(storyID)
	if err != nil {
		return nil, 0, err
	}
	byID := indexComments(comments)

	forest := []*hn.Item{}
	visited := map[string]bool{}
	for i := range comments {
		c := &comments[i]
		if !c.IsTopLevel() {
			continue
		}
		forest = append(forest, b.expand(c, byID, visited))
	}
	return forest, hn.CountItems(forest), nil
}

func (b *TreeBuilder) buildExternal(ctx context.Context, storyID string) ([]*hn.Item, int, error) {
	comments, err := b.comments.CommentsByStory(storyID)
	if err != nil {
		return nil, 0, err
	}
	byID := indexComments(comments)
	byParent := groupByParent(comments)

	id, _ := strconv.Atoi(storyID)
	root, err := b.source.Item(ctx, id)
	if err != nil {
		// Degrade to local-only rather than failing the whole thread.
		b.log.Warn("external item fetch failed, serving local comments only",
			zap.String("story_id", storyID), zap.Error(err))
		forest := b.expandGroup(byParent[""], byID)
		forest = b.appendOrphanReplies(forest, comments, byID, nil)
		return forest, hn.CountItems(forest), nil
	}

	present := map[string]bool{}
	b.mergeLocal(root, byID, byParent, present)

	// Local top-level comments go after the external thread, then replies
	// anchored to external comments the fetched tree does not contain.
	forest := append([]*hn.Item{}, root.Children...)
	forest = append(forest, b.expandGroup(byParent[""], byID)...)
	forest = b.appendOrphanReplies(forest, comments, byID, present)
	return forest, hn.CountItems(forest), nil
}

// mergeLocal walks every external node and splices in local replies that
// point at it, each expanded into its own local subtree. Visited external IDs
// are recorded in present so unresolved anchors can be detected afterwards.
func (b *TreeBuilder) mergeLocal(node *hn.Item, byID map[string]*models.Comment, byParent map[string][]*models.Comment, present map[string]bool) {
	if node == nil {
		return
	}
	present[string(node.ID)] = true
	for _, child := range node.Children {
		b.mergeLocal(child, byID, byParent, present)
	}
	if locals := byParent[string(node.ID)]; len(locals) > 0 {
		node.Children = append(node.Children, b.expandLocals(locals, byID)...)
	}
}

// appendOrphanReplies renders local replies whose external parent is absent
// from the fetched tree, each as its own subtree, so a pruned or unavailable
// upstream node does not hide local content.
func (b *TreeBuilder) appendOrphanReplies(forest []*hn.Item, comments []models.Comment, byID map[string]*models.Comment, present map[string]bool) []*hn.Item {
	for i := range comments {
		c := &comments[i]
		if c.ParentID == nil || !hn.IsExternalID(*c.ParentID) || present[*c.ParentID] {
			continue
		}
		forest = append(forest, b.expand(c, byID, map[string]bool{}))
	}
	return forest
}

func (b *TreeBuilder) expandGroup(locals []*models.Comment, byID map[string]*models.Comment) []*hn.Item {
	return b.expandLocals(locals, byID)
}

func (b *TreeBuilder) expandLocals(locals []*models.Comment, byID map[string]*models.Comment) []*hn.Item {
	visited := map[string]bool{}
	items := []*hn.Item{}
	for _, c := range locals {
		items = append(items, b.expand(c, byID, visited))
	}
	return items
}

// expand renders a comment and resolves its children list recursively.
// Unresolvable child IDs are logged and skipped; a visited set guards
// against reference cycles so traversal always terminates.
func (b *TreeBuilder) expand(c *models.Comment, byID map[string]*models.Comment, visited map[string]bool) *hn.Item {
	visited[c.CommentID] = true
	node := CommentToItem(c)
	for _, childID := range c.Children {
		child, ok := byID[childID]
		if !ok {
			b.log.Warn("comment references missing child, skipping",
				zap.String("comment_id", c.CommentID), zap.String("child_id", childID))
			continue
		}
		if visited[childID] {
			continue
		}
		node.Children = append(node.Children, b.expand(child, byID, visited))
	}
	return node
}

// CommentToItem renders a local comment into the item shape. Soft-deleted
// comments keep their place in the thread but are masked: the author becomes
// "[deleted]" and the text "[deleted]" or "[deleted by admin]" depending on
// who removed it.
func CommentToItem(c *models.Comment) *hn.Item {
	return commentItem(c, true)
}

// CommentToItemUnmasked renders the stored author and text even when the
// comment is soft-deleted, for admin moderation views.
func CommentToItemUnmasked(c *models.Comment) *hn.Item {
	return commentItem(c, false)
}

func commentItem(c *models.Comment, mask bool) *hn.Item {
	author := c.Author
	text := c.Text
	if mask && c.IsDeleted {
		author = maskedAuthor
		if c.DeletedBy != "" && c.DeletedBy != c.Author {
			text = maskedTextAdmin
		} else {
			text = maskedText
		}
	}

	points := c.Points
	item := &hn.Item{
		ID:         hn.ItemID(c.CommentID),
		Type:       models.TypeComment,
		Author:     author,
		Text:       text,
		Points:     &points,
		CreatedAtI: c.CreatedAtUnix,
		CreatedAt:  time.Unix(c.CreatedAtUnix, 0).UTC().Format(time.RFC3339),
		Children:   []*hn.Item{},
	}
	if c.ParentID != nil && *c.ParentID != "" {
		pid := hn.ItemID(*c.ParentID)
		item.ParentID = &pid
	}
	sid := hn.ItemID(c.StoryID)
	item.StoryID = &sid
	return item
}

// StoryToItem renders a local story in the external item shape, including
// its resolved children when provided.
func StoryToItem(s *models.Story, children []*hn.Item) *hn.Item {
	return storyItem(s, children, true)
}

// StoryToItemUnmasked renders the stored fields even when the story is
// soft-deleted, for admin moderation views.
func StoryToItemUnmasked(s *models.Story, children []*hn.Item) *hn.Item {
	return storyItem(s, children, false)
}

func storyItem(s *models.Story, children []*hn.Item, mask bool) *hn.Item {
	author := s.Author
	title := s.Title
	text := s.Text
	if mask && s.IsDeleted {
		author = maskedAuthor
		title = maskedText
		if s.DeletedBy != "" && s.DeletedBy != s.Author {
			text = maskedTextAdmin
		} else {
			text = maskedText
		}
	}

	points := s.Points
	if children == nil {
		children = []*hn.Item{}
	}
	return &hn.Item{
		ID:         hn.ItemID(s.StoryID),
		Type:       s.Type,
		Author:     author,
		Title:      title,
		URL:        s.URL,
		Text:       text,
		Points:     &points,
		CreatedAtI: s.CreatedAtUnix,
		CreatedAt:  time.Unix(s.CreatedAtUnix, 0).UTC().Format(time.RFC3339),
		Children:   children,
	}
}

func indexComments(comments []models.Comment) map[string]*models.Comment {
	byID := make(map[string]*models.Comment, len(comments))
	for i := range comments {
		byID[comments[i].CommentID] = &comments[i]
	}
	return byID
}

// groupByParent buckets comments by parent ID; top-level comments land under "".
func groupByParent(comments []models.Comment) map[string][]*models.Comment {
	byParent := map[string][]*models.Comment{}
	for i := range comments {
		c := &comments[i]
		key := ""
		if c.ParentID != nil {
			key = *c.ParentID
		}
		byParent[key] = append(byParent[key], c)
	}
	return byParent
}
