package routes

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "unit-test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestRouteTableCoversEditAndUnfollowVerbs(t *testing.T) {
	r := SetupRouter(nil)

	type route struct{ method, path string }
	registered := map[route]bool{}
	for _, ri := range r.Routes() {
		registered[route{ri.Method, ri.Path}] = true
	}

	for _, want := range []route{
		{"PATCH", "/story/:storyId"},
		{"PUT", "/story/:storyId"},
		{"PATCH", "/comment/:commentId"},
		{"PUT", "/comment/:commentId"},
		{"PATCH", "/users/:id/unfollow"},
		{"DELETE", "/users/:id/follow"},
		{"POST", "/users/:id/follow"},
		{"GET", "/story/:storyId/full"},
		{"GET", "/comment/story/:storyId"},
		{"POST", "/likes/:itemId/toggle"},
		{"POST", "/admin/users/:id/block"},
	} {
		assert.True(t, registered[want], "missing route %s %s", want.method, want.path)
	}
}
