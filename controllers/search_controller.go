package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackernest/hackernest/hn"
	"github.com/hackernest/hackernest/models"
	"github.com/hackernest/hackernest/utils"
)

// SearchController proxies the external search API and degrades to a local
// story search when the upstream is unavailable.
type SearchController struct {
	db *gorm.DB
	hn *hn.Client
}

// NewSearchController creates a SearchController.
func NewSearchController(db *gorm.DB, hnClient *hn.Client) *SearchController {
	return &SearchController{db: db, hn: hnClient}
}

// Search forwards the query upstream; on upstream failure it serves matching
// local stories in the same response shape.
func (s *SearchController) Search(ctx *gin.Context) {
	params := hn.SearchParams{
		Query:          ctx.Query("query"),
		Tags:           ctx.Query("tags"),
		Page:           ctx.Query("page"),
		HitsPerPage:    ctx.Query("hitsPerPage"),
		NumericFilters: ctx.Query("numericFilters"),
		SortByDate:     ctx.Query("sort") == "date",
	}

	resp, err := s.hn.Search(ctx.Request.Context(), params)
	if err != nil {
		utils.Sugar.Warnw("external search failed, falling back to local stories", "err", err)
		local, lerr := s.localSearch(params.Query)
		if lerr != nil {
			utils.Error(ctx, http.StatusBadGateway, 50200, "content source unavailable")
			return
		}
		utils.Success(ctx, local)
		return
	}
	utils.Success(ctx, resp)
}

// Item proxies a full external item tree by numeric ID.
func (s *SearchController) Item(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "item id must be numeric")
		return
	}

	cacheKey := "cache:hn:item:" + ctx.Param("id")
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	item, err := s.hn.Item(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: item}
	utils.CacheSetJSON(cacheKey, wrapper, 5*time.Minute)
	utils.Success(ctx, item)
}

// FrontPage proxies the external front page, optionally narrowed by type.
func (s *SearchController) FrontPage(ctx *gin.Context) {
	storyType := ctx.Query("type")

	cacheKey := "cache:hn:frontpage:" + storyType
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	resp, err := s.hn.FrontPage(ctx.Request.Context(), storyType)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: resp}
	utils.CacheSetJSON(cacheKey, wrapper, 5*time.Minute)
	utils.Success(ctx, resp)
}

// Tag proxies a single-tag search.
func (s *SearchController) Tag(ctx *gin.Context) {
	tag := ctx.Param("storyType")

	cacheKey := "cache:hn:tag:" + tag
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	resp, err := s.hn.Tag(ctx.Request.Context(), tag)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: resp}
	utils.CacheSetJSON(cacheKey, wrapper, 5*time.Minute)
	utils.Success(ctx, resp)
}

// localSearch shapes matching local stories into the search response so the
// endpoint keeps one contract during upstream outages.
func (s *SearchController) localSearch(query string) (*hn.SearchResponse, error) {
	q := s.db.Where("is_deleted = ?", false).Order("created_at_unix DESC").Limit(20)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("title LIKE ? OR text LIKE ?", like, like)
	}

	var stories []models.Story
	if err := q.Find(&stories).Error; err != nil {
		return nil, err
	}

	hits := make([]hn.SearchHit, 0, len(stories))
	for _, st := range stories {
		hits = append(hits, hn.SearchHit{
			ObjectID:   st.StoryID,
			Title:      st.Title,
			URL:        st.URL,
			Author:     st.Author,
			Points:     st.Points,
			StoryText:  st.Text,
			CreatedAtI: st.CreatedAtUnix,
			CreatedAt:  time.Unix(st.CreatedAtUnix, 0).UTC().Format(time.RFC3339),
			Tags:       append([]string{st.Type}, st.Tags...),
		})
	}

	return &hn.SearchResponse{
		Hits:        hits,
		NbHits:      len(hits),
		Page:        0,
		NbPages:     1,
		HitsPerPage: len(hits),
		Query:       query,
	}, nil
}
