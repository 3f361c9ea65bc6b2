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

// ReportController handles content reports and their review workflow.
type ReportController struct {
	db      *gorm.DB
	reports *services.Reports
}

// NewReportController creates a ReportController.
func NewReportController(db *gorm.DB, reports *services.Reports) *ReportController {
	return &ReportController{db: db, reports: reports}
}

// Create files a report. A second report by the same user on the same
// content is a conflict.
func (r *ReportController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		ContentID   string `json:"contentId" binding:"required"`
		ContentType string `json:"contentType" binding:"required"`
		Reason      string `json:"reason" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	report, err := r.reports.Create(req.ContentID, req.ContentType, strings.TrimSpace(req.Reason), userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, report)
}

// ListAll returns every report with a content preview, newest first.
func (r *ReportController) ListAll(ctx *gin.Context) {
	var reports []models.Report
	if err := r.db.Order("created_at DESC").Find(&reports).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list reports")
		return
	}
	utils.Success(ctx, r.withContent(reports))
}

// ListByStatus returns reports filtered by review status.
func (r *ReportController) ListByStatus(ctx *gin.Context) {
	status := ctx.Param("status")
	switch status {
	case models.ReportPending, models.ReportReviewed, models.ReportDismissed:
	default:
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid report status")
		return
	}

	var reports []models.Report
	if err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&reports).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list reports")
		return
	}
	utils.Success(ctx, r.withContent(reports))
}

// ListByContent returns all reports filed against one item.
func (r *ReportController) ListByContent(ctx *gin.Context) {
	var reports []models.Report
	if err := r.db.Where("content_id = ?", ctx.Param("contentId")).Order("created_at DESC").Find(&reports).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list reports")
		return
	}
	utils.Success(ctx, reports)
}

// ListByAuthor returns reports against everything a user authored.
func (r *ReportController) ListByAuthor(ctx *gin.Context) {
	var reports []models.Report
	if err := r.db.Where("content_author = ?", ctx.Param("username")).Order("created_at DESC").Find(&reports).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list reports")
		return
	}
	utils.Success(ctx, reports)
}

// CountByContent returns the pending report count for an item.
func (r *ReportController) CountByContent(ctx *gin.Context) {
	var cnt int64
	if err := r.db.Model(&models.Report{}).
		Where("content_id = ? AND status = ?", ctx.Param("contentId"), models.ReportPending).
		Count(&cnt).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to count reports")
		return
	}
	utils.Success(ctx, gin.H{"count": cnt})
}

// CountByAuthor returns the pending report count against a user's content.
func (r *ReportController) CountByAuthor(ctx *gin.Context) {
	var cnt int64
	if err := r.db.Model(&models.Report{}).
		Where("content_author = ? AND status = ?", ctx.Param("username"), models.ReportPending).
		Count(&cnt).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to count reports")
		return
	}
	utils.Success(ctx, gin.H{"count": cnt})
}

// UpdateStatus records a review decision on a report.
func (r *ReportController) UpdateStatus(ctx *gin.Context) {
	reportID, err := strconv.ParseUint(ctx.Param("reportId"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid report id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}
	switch req.Status {
	case models.ReportReviewed, models.ReportDismissed, models.ReportPending:
	default:
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid report status")
		return
	}

	var report models.Report
	if err := r.db.First(&report, uint(reportID)).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40450, "report not found")
		return
	}

	adminID, _ := getUserID(ctx)
	adminName, _ := getUsername(ctx)
	now := time.Now()
	report.Status = req.Status
	report.ReviewedAt = &now
	report.ReviewedBy = adminID
	report.ReviewedByUsername = adminName

	if err := r.db.Save(&report).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to update report")
		return
	}
	utils.Success(ctx, report)
}

// Delete removes a report row.
func (r *ReportController) Delete(ctx *gin.Context) {
	reportID, err := strconv.ParseUint(ctx.Param("reportId"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid report id")
		return
	}

	res := r.db.Delete(&models.Report{}, uint(reportID))
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to delete report")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40450, "report not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "report deleted"})
}

// withContent attaches a preview of the reported content to each report.
func (r *ReportController) withContent(reports []models.Report) []gin.H {
	out := make([]gin.H, 0, len(reports))
	for i := range reports {
		rep := &reports[i]
		var content gin.H
		switch rep.ContentType {
		case models.ContentStory:
			var story models.Story
			if err := r.db.Where("story_id = ?", rep.ContentID).First(&story).Error; err == nil {
				content = gin.H{"id": story.StoryID, "title": story.Title, "text": story.Text, "author": story.Author}
			}
		case models.ContentComment:
			var comment models.Comment
			if err := r.db.Where("comment_id = ?", rep.ContentID).First(&comment).Error; err == nil {
				content = gin.H{"id": comment.CommentID, "text": comment.Text, "author": comment.Author}
			}
		}
		out = append(out, gin.H{"report": rep, "content": content})
	}
	return out
}
