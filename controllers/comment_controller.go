package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hackernest/hackernest/hn"
	"github.com/hackernest/hackernest/models"
	"github.com/hackernest/hackernest/services"
	"github.com/hackernest/hackernest/utils"
)

// CommentController manages comment CRUD and thread assembly.
type CommentController struct {
	db         *gorm.DB
	moderation *services.Moderation
	trees      *services.TreeBuilder
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB, moderation *services.Moderation, trees *services.TreeBuilder) *CommentController {
	return &CommentController{db: db, moderation: moderation, trees: trees}
}

// CreateComment posts a reply to a story or another comment. The new ID is
// appended to its parent's children list when the parent is local; external
// parents are read-only so only the local row records the relation.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Text     string  `json:"text" binding:"required,min=1"`
		StoryID  string  `json:"story_id" binding:"required"`
		ParentID *string `json:"parent_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment := models.Comment{
		CommentID:     uuid.NewString(),
		Author:        username,
		Text:          utils.Sanitize(req.Text),
		StoryID:       req.StoryID,
		Children:      models.StringList{},
		CreatedAtUnix: time.Now().Unix(),
	}
	if req.ParentID != nil && *req.ParentID != "" {
		parentID := *req.ParentID
		comment.ParentID = &parentID
	}

	// Validate the local parent before creating, so a bad reference fails
	// the whole request instead of leaving an orphan.
	var parent *models.Comment
	var story *models.Story
	if comment.ParentID != nil && !hn.IsExternalID(*comment.ParentID) {
		var p models.Comment
		if err := c.db.Where("comment_id = ?", *comment.ParentID).First(&p).Error; err != nil {
			utils.Error(ctx, http.StatusNotFound, 40430, "parent comment not found")
			return
		}
		parent = &p
	} else if comment.ParentID == nil && !hn.IsExternalID(comment.StoryID) {
		var st models.Story
		if err := c.db.Where("story_id = ?", comment.StoryID).First(&st).Error; err != nil {
			utils.Error(ctx, http.StatusNotFound, 40420, "story not found")
			return
		}
		story = &st
	}

	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create comment")
		return
	}

	if parent != nil {
		parent.Children = parent.Children.Append(comment.CommentID)
		if err := c.db.Save(parent).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to link comment to parent")
			return
		}
	} else if story != nil {
		story.Children = story.Children.Append(comment.CommentID)
		if err := c.db.Save(story).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to link comment to story")
			return
		}
	}

	utils.InvalidateByPrefix("cache:thread:" + comment.StoryID)
	utils.Success(ctx, services.CommentToItem(&comment))
}

// GetComment returns a single active comment.
func (c *CommentController) GetComment(ctx *gin.Context) {
	commentID := ctx.Param("commentId")

	var comment models.Comment
	if err := c.db.Where("comment_id = ?", commentID).First(&comment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40431, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load comment")
		return
	}
	if comment.IsDeleted {
		if !isAdmin(ctx) {
			utils.Error(ctx, http.StatusNotFound, 40431, "comment not found")
			return
		}
		// Admins moderating deleted content need the stored text.
		utils.Success(ctx, services.CommentToItemUnmasked(&comment))
		return
	}

	utils.Success(ctx, services.CommentToItem(&comment))
}

// Thread returns the merged comment forest for a story with its traversal
// based count.
func (c *CommentController) Thread(ctx *gin.Context) {
	storyID := ctx.Param("storyId")

	cacheKey := "cache:thread:" + storyID
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	forest, count, err := c.trees.BuildForStory(ctx.Request.Context(), storyID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to build comment tree")
		return
	}

	payload := gin.H{"comments": forest, "commentCount": count}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, payload)
}

// UpdateComment edits a comment's text. Author only; records the edit time.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	commentID := ctx.Param("commentId")
	username, _ := getUsername(ctx)

	var req struct {
		Text string `json:"text" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	var comment models.Comment
	if err := c.db.Where("comment_id = ? AND is_deleted = ?", commentID, false).First(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40431, "comment not found")
		return
	}
	if comment.Author != username {
		utils.Error(ctx, http.StatusForbidden, 40312, "you can only edit your own comments")
		return
	}

	now := time.Now()
	comment.Text = utils.Sanitize(req.Text)
	comment.EditedAt = &now
	if err := c.db.Save(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to update comment")
		return
	}

	utils.InvalidateByPrefix("cache:thread:" + comment.StoryID)
	utils.Success(ctx, services.CommentToItem(&comment))
}

// DeleteComment removes a comment through the moderation engine. Leaf
// comments are hard-deleted; comments with replies are masked in place.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	commentID := ctx.Param("commentId")
	username, _ := getUsername(ctx)

	var req struct {
		Reason string `json:"reason"`
	}
	_ = ctx.ShouldBindJSON(&req)

	// Resolve the story before deletion for cache invalidation.
	storyID := ""
	var comment models.Comment
	if err := c.db.Select("story_id").Where("comment_id = ?", commentID).First(&comment).Error; err == nil {
		storyID = comment.StoryID
	}

	if err := c.moderation.DeleteComment(commentID, username, getRole(ctx), strings.TrimSpace(req.Reason)); err != nil {
		respondServiceError(ctx, err)
		return
	}

	if storyID != "" {
		utils.InvalidateByPrefix("cache:thread:" + storyID)
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
