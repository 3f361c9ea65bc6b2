package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hackernest/hackernest/models"
	"github.com/hackernest/hackernest/services"
	"github.com/hackernest/hackernest/utils"
)

// LikeController exposes like toggling and status.
type LikeController struct {
	likes *services.Likes
}

// NewLikeController creates a LikeController.
func NewLikeController(likes *services.Likes) *LikeController {
	return &LikeController{likes: likes}
}

func parseItemType(raw string) (string, bool) {
	switch raw {
	case models.ContentStory, models.ContentComment:
		return raw, true
	case "":
		return models.ContentStory, true
	default:
		return "", false
	}
}

// Toggle flips the authenticated user's like on an item. The caller may pass
// originalPoints for external items; it is never persisted.
func (l *LikeController) Toggle(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		ItemType       string `json:"item_type"`
		OriginalPoints int    `json:"original_points"`
	}
	_ = ctx.ShouldBindJSON(&req)

	itemType, ok := parseItemType(req.ItemType)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid item type")
		return
	}

	liked, total, err := l.likes.Toggle(ctx.Param("itemId"), itemType, username, req.OriginalPoints)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"liked": liked, "totalPoints": total})
}

// Status returns like count, point total, and whether the caller liked the item.
func (l *LikeController) Status(ctx *gin.Context) {
	username, _ := getUsername(ctx)

	itemType, ok := parseItemType(ctx.Query("item_type"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid item type")
		return
	}
	originalPoints, _ := strconv.Atoi(ctx.Query("original_points"))

	count, total, liked, err := l.likes.Status(ctx.Param("itemId"), itemType, username, originalPoints)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"likeCount": count, "totalPoints": total, "isLiked": liked})
}

// MyLikes lists the item IDs the authenticated user has liked.
func (l *LikeController) MyLikes(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	likes, err := l.likes.UserLikes(username)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"likes": likes})
}
