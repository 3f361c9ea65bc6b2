package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackernest/hackernest/models"
	"github.com/hackernest/hackernest/services"
	"github.com/hackernest/hackernest/utils"
)

// AdminController exposes user blocking, email blocking, moderation listings,
// content restoration, and platform analytics.
type AdminController struct {
	db         *gorm.DB
	moderation *services.Moderation
}

// NewAdminController creates an AdminController.
func NewAdminController(db *gorm.DB, moderation *services.Moderation) *AdminController {
	return &AdminController{db: db, moderation: moderation}
}

// BlockUser blocks an account and cascade-deletes its active content.
func (a *AdminController) BlockUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid user id")
		return
	}
	adminName, _ := getUsername(ctx)

	user, err := a.moderation.BlockUser(uint(id), adminName)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:stories:")
	utils.InvalidateByPrefix("cache:thread:")
	utils.Success(ctx, gin.H{"message": "user blocked", "user": gin.H{
		"id": user.ID, "username": user.Username, "isBlocked": user.IsBlocked,
	}})
}

// UnblockUser clears the block and restores block-deleted content.
func (a *AdminController) UnblockUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid user id")
		return
	}

	user, err := a.moderation.UnblockUser(uint(id))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:stories:")
	utils.InvalidateByPrefix("cache:thread:")
	utils.Success(ctx, gin.H{"message": "user unblocked", "user": gin.H{
		"id": user.ID, "username": user.Username, "isBlocked": user.IsBlocked,
	}})
}

// ListUsers returns accounts with optional role and blocked filters.
func (a *AdminController) ListUsers(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	query := a.db.Model(&models.User{}).Order("created_at DESC")
	if role := ctx.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if blocked := ctx.Query("blocked"); blocked != "" {
		query = query.Where("is_blocked = ?", blocked == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to count users")
		return
	}
	var users []models.User
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to list users")
		return
	}

	utils.Success(ctx, gin.H{
		"items": users,
		"pagination": gin.H{
			"page": page, "page_size": pageSize, "total": total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// GetUser returns a single account.
func (a *AdminController) GetUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid user id")
		return
	}
	var user models.User
	if err := a.db.First(&user, uint(id)).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	utils.Success(ctx, user)
}

// BlockEmail adds an address to the registration denylist.
func (a *AdminController) BlockEmail(ctx *gin.Context) {
	var req struct {
		Email  string `json:"email" binding:"required,email"`
		Reason string `json:"reason"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}

	adminName, _ := getUsername(ctx)
	entry := models.BlockedEmail{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Reason:    strings.TrimSpace(req.Reason),
		BlockedBy: adminName,
	}

	var cnt int64
	a.db.Model(&models.BlockedEmail{}).Where("email = ?", entry.Email).Count(&cnt)
	if cnt > 0 {
		utils.Error(ctx, http.StatusConflict, 40970, "email is already blocked")
		return
	}

	if err := a.db.Create(&entry).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to block email")
		return
	}
	utils.Success(ctx, entry)
}

// UnblockEmail removes an address from the denylist.
func (a *AdminController) UnblockEmail(ctx *gin.Context) {
	email := strings.ToLower(ctx.Param("email"))
	res := a.db.Where("email = ?", email).Delete(&models.BlockedEmail{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to unblock email")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40470, "email is not blocked")
		return
	}
	utils.Success(ctx, gin.H{"message": "email unblocked"})
}

// ListBlockedEmails returns the registration denylist.
func (a *AdminController) ListBlockedEmails(ctx *gin.Context) {
	var entries []models.BlockedEmail
	if err := a.db.Order("created_at DESC").Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to list blocked emails")
		return
	}
	utils.Success(ctx, entries)
}

// ListStories returns stories including soft-deleted rows when requested.
func (a *AdminController) ListStories(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	query := a.db.Model(&models.Story{}).Order("created_at_unix DESC")
	if ctx.Query("includeDeleted") != "true" {
		query = query.Where("is_deleted = ?", false)
	}
	if author := ctx.Query("author"); author != "" {
		query = query.Where("author = ?", author)
	}
	if storyType := ctx.Query("type"); storyType != "" {
		query = query.Where("type = ?", storyType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to count stories")
		return
	}
	var stories []models.Story
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&stories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to list stories")
		return
	}

	utils.Success(ctx, gin.H{
		"items": stories,
		"pagination": gin.H{
			"page": page, "page_size": pageSize, "total": total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// ListComments returns comments including soft-deleted rows when requested.
func (a *AdminController) ListComments(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	query := a.db.Model(&models.Comment{}).Order("created_at_unix DESC")
	if ctx.Query("includeDeleted") != "true" {
		query = query.Where("is_deleted = ?", false)
	}
	if author := ctx.Query("author"); author != "" {
		query = query.Where("author = ?", author)
	}
	if storyID := ctx.Query("story_id"); storyID != "" {
		query = query.Where("story_id = ?", storyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to count comments")
		return
	}
	var comments []models.Comment
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50076, "failed to list comments")
		return
	}

	utils.Success(ctx, gin.H{
		"items": comments,
		"pagination": gin.H{
			"page": page, "page_size": pageSize, "total": total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// DeletedStories lists only soft-deleted stories with their audit fields.
func (a *AdminController) DeletedStories(ctx *gin.Context) {
	var stories []models.Story
	if err := a.db.Where("is_deleted = ?", true).Order("deleted_at DESC").Find(&stories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to list stories")
		return
	}
	utils.Success(ctx, stories)
}

// DeletedComments lists only soft-deleted comments with their audit fields.
func (a *AdminController) DeletedComments(ctx *gin.Context) {
	var comments []models.Comment
	if err := a.db.Where("is_deleted = ?", true).Order("deleted_at DESC").Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50076, "failed to list comments")
		return
	}
	utils.Success(ctx, comments)
}

// RestoreStory clears a story's soft-delete state.
func (a *AdminController) RestoreStory(ctx *gin.Context) {
	story, err := a.moderation.RestoreStory(ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix("cache:stories:")
	utils.Success(ctx, gin.H{"message": "story restored", "story": story})
}

// RestoreComment clears a comment's soft-delete state.
func (a *AdminController) RestoreComment(ctx *gin.Context) {
	comment, err := a.moderation.RestoreComment(ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix("cache:thread:" + comment.StoryID)
	utils.Success(ctx, gin.H{"message": "comment restored", "comment": comment})
}

type authorCount struct {
	Author string `gorm:"column:author"`
	Cnt    int64  `gorm:"column:cnt"`
}

// ProblematicUsers ranks users by the share of their content that has been
// deleted. Thresholds: rate > 0.25 or more than 15 deletions is HIGH risk,
// rate > 0.15 or more than 8 is MEDIUM, everything else LOW.
func (a *AdminController) ProblematicUsers(ctx *gin.Context) {
	total := map[string]int64{}
	deleted := map[string]int64{}

	for _, model := range []interface{}{&models.Story{}, &models.Comment{}} {
		var rows []authorCount
		if err := a.db.Model(model).Select("author, COUNT(*) AS cnt").Group("author").Scan(&rows).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to aggregate content")
			return
		}
		for _, row := range rows {
			total[row.Author] += row.Cnt
		}

		rows = nil
		if err := a.db.Model(model).Select("author, COUNT(*) AS cnt").
			Where("is_deleted = ?", true).Group("author").Scan(&rows).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to aggregate content")
			return
		}
		for _, row := range rows {
			deleted[row.Author] += row.Cnt
		}
	}

	results := []gin.H{}
	for author, del := range deleted {
		if del == 0 {
			continue
		}
		tot := total[author]
		rate := float64(del) / float64(tot)

		risk := "LOW"
		switch {
		case rate > 0.25 || del > 15:
			risk = "HIGH"
		case rate > 0.15 || del > 8:
			risk = "MEDIUM"
		}

		results = append(results, gin.H{
			"username":       author,
			"totalContent":   tot,
			"deletedContent": del,
			"deletionRate":   rate,
			"riskLevel":      risk,
		})
	}

	utils.Success(ctx, gin.H{"users": results})
}

// TopContributors returns the most active posters, commenters, and employers.
func (a *AdminController) TopContributors(ctx *gin.Context) {
	topOf := func(model interface{}, extra func(*gorm.DB) *gorm.DB) []authorCount {
		var rows []authorCount
		q := a.db.Model(model).Select("author, COUNT(*) AS cnt").
			Where("is_deleted = ?", false).Group("author").Order("cnt DESC").Limit(10)
		if extra != nil {
			q = extra(q)
		}
		if err := q.Scan(&rows).Error; err != nil {
			return []authorCount{}
		}
		return rows
	}

	posters := topOf(&models.Story{}, nil)
	commenters := topOf(&models.Comment{}, nil)
	employers := topOf(&models.Story{}, func(q *gorm.DB) *gorm.DB {
		return q.Where("type = ?", models.TypeJob)
	})

	shape := func(rows []authorCount) []gin.H {
		out := make([]gin.H, 0, len(rows))
		for _, row := range rows {
			out = append(out, gin.H{"username": row.Author, "count": row.Cnt})
		}
		return out
	}

	utils.Success(ctx, gin.H{
		"topPosters":    shape(posters),
		"topCommenters": shape(commenters),
		"topEmployers":  shape(employers),
	})
}

// Trending returns the highest scoring and most discussed content for the
// requested period (week or month).
func (a *AdminController) Trending(ctx *gin.Context) {
	period := ctx.DefaultQuery("period", "week")
	var since int64
	switch period {
	case "week":
		since = time.Now().AddDate(0, 0, -7).Unix()
	case "month":
		since = time.Now().AddDate(0, -1, 0).Unix()
	default:
		utils.Error(ctx, http.StatusBadRequest, 40080, "period must be week or month")
		return
	}

	var topStories []models.Story
	if err := a.db.Where("is_deleted = ? AND created_at_unix >= ?", false, since).
		Order("points DESC").Limit(10).Find(&topStories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to load trending stories")
		return
	}

	type storyCount struct {
		StoryID string `gorm:"column:story_id"`
		Cnt     int64  `gorm:"column:cnt"`
	}
	var discussed []storyCount
	if err := a.db.Model(&models.Comment{}).Select("story_id, COUNT(*) AS cnt").
		Where("is_deleted = ? AND created_at_unix >= ?", false, since).
		Group("story_id").Order("cnt DESC").Limit(10).Scan(&discussed).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to load discussed stories")
		return
	}
	mostCommented := make([]gin.H, 0, len(discussed))
	for _, row := range discussed {
		mostCommented = append(mostCommented, gin.H{"story_id": row.StoryID, "commentCount": row.Cnt})
	}

	var trendingJobs []models.Story
	if err := a.db.Where("is_deleted = ? AND type = ? AND created_at_unix >= ?", false, models.TypeJob, since).
		Order("points DESC").Limit(10).Find(&trendingJobs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to load trending jobs")
		return
	}

	utils.Success(ctx, gin.H{
		"period":        period,
		"topStories":    topStories,
		"mostCommented": mostCommented,
		"trendingJobs":  trendingJobs,
	})
}

// DashboardStats returns platform totals, recent growth, and moderation counters.
func (a *AdminController) DashboardStats(ctx *gin.Context) {
	count := func(model interface{}, query string, args ...interface{}) int64 {
		var cnt int64
		q := a.db.Model(model)
		if query != "" {
			q = q.Where(query, args...)
		}
		if err := q.Count(&cnt).Error; err != nil {
			return 0
		}
		return cnt
	}

	now := time.Now()
	dayAgo := now.AddDate(0, 0, -1)
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)
	prevWeek := now.AddDate(0, 0, -14)
	prevMonth := now.AddDate(0, -2, 0)

	growth := func(current, previous int64) float64 {
		if previous == 0 {
			if current > 0 {
				return 100
			}
			return 0
		}
		return float64(current-previous) / float64(previous) * 100
	}

	usersWeek := count(&models.User{}, "created_at >= ?", weekAgo)
	usersPrevWeek := count(&models.User{}, "created_at >= ? AND created_at < ?", prevWeek, weekAgo)
	usersMonth := count(&models.User{}, "created_at >= ?", monthAgo)
	usersPrevMonth := count(&models.User{}, "created_at >= ? AND created_at < ?", prevMonth, monthAgo)

	storiesWeek := count(&models.Story{}, "created_at_unix >= ?", weekAgo.Unix())
	storiesPrevWeek := count(&models.Story{}, "created_at_unix >= ? AND created_at_unix < ?", prevWeek.Unix(), weekAgo.Unix())
	commentsWeek := count(&models.Comment{}, "created_at_unix >= ?", weekAgo.Unix())
	commentsPrevWeek := count(&models.Comment{}, "created_at_unix >= ? AND created_at_unix < ?", prevWeek.Unix(), weekAgo.Unix())

	utils.Success(ctx, gin.H{
		"totals": gin.H{
			"users":          count(&models.User{}, ""),
			"stories":        count(&models.Story{}, "is_deleted = ?", false),
			"comments":       count(&models.Comment{}, "is_deleted = ?", false),
			"likes":          count(&models.Like{}, ""),
			"pendingReports": count(&models.Report{}, "status = ?", models.ReportPending),
		},
		"today": gin.H{
			"users":    count(&models.User{}, "created_at >= ?", dayAgo),
			"stories":  count(&models.Story{}, "created_at_unix >= ?", dayAgo.Unix()),
			"comments": count(&models.Comment{}, "created_at_unix >= ?", dayAgo.Unix()),
		},
		"growth": gin.H{
			"usersWeekPct":    growth(usersWeek, usersPrevWeek),
			"usersMonthPct":   growth(usersMonth, usersPrevMonth),
			"storiesWeekPct":  growth(storiesWeek, storiesPrevWeek),
			"commentsWeekPct": growth(commentsWeek, commentsPrevWeek),
		},
		"roles": gin.H{
			"user":     count(&models.User{}, "role = ?", models.RoleUser),
			"employer": count(&models.User{}, "role = ?", models.RoleEmployer),
			"admin":    count(&models.User{}, "role = ?", models.RoleAdmin),
		},
		"storyTypes": gin.H{
			"story": count(&models.Story{}, "type = ? AND is_deleted = ?", models.TypeStory, false),
			"job":   count(&models.Story{}, "type = ? AND is_deleted = ?", models.TypeJob, false),
		},
		"moderation": gin.H{
			"deletedStories":  count(&models.Story{}, "is_deleted = ?", true),
			"deletedComments": count(&models.Comment{}, "is_deleted = ?", true),
			"blockedUsers":    count(&models.User{}, "is_blocked = ?", true),
			"blockedEmails":   count(&models.BlockedEmail{}, ""),
		},
	})
}
