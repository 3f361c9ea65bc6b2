package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hackernest/hackernest/models"
	"github.com/hackernest/hackernest/services"
	"github.com/hackernest/hackernest/utils"
)

// StoryController manages story CRUD. Deletion goes through the moderation
// engine so audit fields stay consistent.
type StoryController struct {
	db         *gorm.DB
	moderation *services.Moderation
	trees      *services.TreeBuilder
}

// NewStoryController creates a StoryController.
func NewStoryController(db *gorm.DB, moderation *services.Moderation, trees *services.TreeBuilder) *StoryController {
	return &StoryController{db: db, moderation: moderation, trees: trees}
}

// CreateStory submits a new story. Job postings are restricted to employer
// and admin accounts.
func (s *StoryController) CreateStory(ctx *gin.Context) {
	var req struct {
		Title string   `json:"title" binding:"required,min=1"`
		Text  string   `json:"text"`
		URL   string   `json:"url"`
		Type  string   `json:"type"`
		Tags  []string `json:"tags"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	storyType := req.Type
	if storyType == "" {
		storyType = models.TypeStory
	}
	switch storyType {
	case models.TypeStory, models.TypeJob, models.TypePoll, models.TypePollOpt:
	default:
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid story type")
		return
	}

	if storyType == models.TypeJob {
		role := getRole(ctx)
		if role != models.RoleEmployer && role != models.RoleAdmin {
			utils.Error(ctx, http.StatusForbidden, 40310, "only employers can post job stories")
			return
		}
	}

	story := models.Story{
		StoryID:       uuid.NewString(),
		Author:        username,
		Title:         utils.Sanitize(strings.TrimSpace(req.Title)),
		Text:          utils.Sanitize(req.Text),
		URL:           strings.TrimSpace(req.URL),
		Type:          storyType,
		Tags:          models.StringList(utils.UniqueStrings(req.Tags)),
		Children:      models.StringList{},
		CreatedAtUnix: time.Now().Unix(),
	}

	if err := s.db.Create(&story).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create story")
		return
	}

	utils.InvalidateByPrefix("cache:stories:")
	utils.Success(ctx, gin.H{"story": services.StoryToItem(&story, nil)})
}

// ListStories returns active stories newest first.
func (s *StoryController) ListStories(ctx *gin.Context) {
	s.listStories(ctx, "")
}

// ListStoriesByType returns active stories of one type.
func (s *StoryController) ListStoriesByType(ctx *gin.Context) {
	storyType := ctx.Param("type")
	switch storyType {
	case models.TypeStory, models.TypeJob, models.TypePoll, models.TypePollOpt:
	default:
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid story type")
		return
	}
	s.listStories(ctx, storyType)
}

func (s *StoryController) listStories(ctx *gin.Context, storyType string) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	cacheKey := fmt.Sprintf("cache:stories:list:type=%s:page=%d:size=%d", storyType, page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	query := s.db.Model(&models.Story{}).Where("is_deleted = ?", false).Order("created_at_unix DESC")
	if storyType != "" {
		query = query.Where("type = ?", storyType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count stories")
		return
	}

	var stories []models.Story
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&stories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list stories")
		return
	}

	items := make([]interface{}, 0, len(stories))
	for i := range stories {
		items = append(items, services.StoryToItem(&stories[i], nil))
	}

	payload := gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, 5*time.Minute)
	utils.Success(ctx, payload)
}

// GetStory returns one story in the item shape. Deleted stories are hidden
// from non-admin callers.
func (s *StoryController) GetStory(ctx *gin.Context) {
	storyID := ctx.Param("storyId")

	var story models.Story
	if err := s.db.Where("story_id = ?", storyID).First(&story).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "story not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load story")
		return
	}
	if story.IsDeleted {
		if !isAdmin(ctx) {
			utils.Error(ctx, http.StatusNotFound, 40420, "story not found")
			return
		}
		// Admins moderating deleted content need the stored fields.
		utils.Success(ctx, services.StoryToItemUnmasked(&story, nil))
		return
	}

	utils.Success(ctx, services.StoryToItem(&story, nil))
}

// GetStoryFull returns a story with its resolved comment tree and traversal
// based comment count.
func (s *StoryController) GetStoryFull(ctx *gin.Context) {
	storyID := ctx.Param("storyId")

	var story models.Story
	if err := s.db.Where("story_id = ?", storyID).First(&story).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "story not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load story")
		return
	}
	if story.IsDeleted && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusNotFound, 40420, "story not found")
		return
	}

	forest, count, err := s.trees.BuildForStory(ctx.Request.Context(), storyID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to build comment tree")
		return
	}

	render := services.StoryToItem
	if story.IsDeleted && isAdmin(ctx) {
		render = services.StoryToItemUnmasked
	}
	utils.Success(ctx, gin.H{
		"story":        render(&story, forest),
		"commentCount": count,
	})
}

// UpdateStory edits a story. Only the author may edit; admins moderate via
// delete, not edit.
func (s *StoryController) UpdateStory(ctx *gin.Context) {
	storyID := ctx.Param("storyId")
	username, _ := getUsername(ctx)

	var req struct {
		Title *string `json:"title"`
		Text  *string `json:"text"`
		URL   *string `json:"url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	var story models.Story
	if err := s.db.Where("story_id = ? AND is_deleted = ?", storyID, false).First(&story).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "story not found")
		return
	}
	if story.Author != username {
		utils.Error(ctx, http.StatusForbidden, 40311, "you can only edit your own stories")
		return
	}

	if req.Title != nil {
		title := utils.Sanitize(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(ctx, http.StatusBadRequest, 40022, "title cannot be empty")
			return
		}
		story.Title = title
	}
	if req.Text != nil {
		story.Text = utils.Sanitize(*req.Text)
	}
	if req.URL != nil {
		story.URL = strings.TrimSpace(*req.URL)
	}

	if err := s.db.Save(&story).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to update story")
		return
	}

	utils.InvalidateByPrefix("cache:stories:")
	utils.Success(ctx, services.StoryToItem(&story, nil))
}

// DeleteStory soft-deletes a story through the moderation engine.
func (s *StoryController) DeleteStory(ctx *gin.Context) {
	storyID := ctx.Param("storyId")
	username, _ := getUsername(ctx)

	var req struct {
		Reason string `json:"reason"`
	}
	_ = ctx.ShouldBindJSON(&req)

	if err := s.moderation.DeleteStory(storyID, username, getRole(ctx), strings.TrimSpace(req.Reason)); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:stories:")
	utils.Success(ctx, gin.H{"message": "story deleted"})
}
