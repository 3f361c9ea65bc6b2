package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hackernest/hackernest/hn"
	"github.com/hackernest/hackernest/middleware"
	"github.com/hackernest/hackernest/models"
	"github.com/hackernest/hackernest/services"
	"github.com/hackernest/hackernest/utils"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func getUsername(ctx *gin.Context) (string, bool) {
	v, ok := ctx.Get(middleware.ContextUsernameKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

func getRole(ctx *gin.Context) string {
	v, ok := ctx.Get(middleware.ContextRoleKey)
	if !ok {
		return ""
	}
	role, _ := v.(string)
	return role
}

func isAdmin(ctx *gin.Context) bool {
	return getRole(ctx) == models.RoleAdmin
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// respondServiceError maps service sentinel errors onto the response envelope.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.Error(ctx, http.StatusConflict, 40900, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40300, err.Error())
	case errors.Is(err, services.ErrBadRequest):
		utils.Error(ctx, http.StatusBadRequest, 40000, err.Error())
	case errors.Is(err, hn.ErrUnavailable):
		utils.Error(ctx, http.StatusBadGateway, 50200, "content source unavailable")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal error")
	}
}
