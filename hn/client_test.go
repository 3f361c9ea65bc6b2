package hn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemDecodesNestedTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/100", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 100, "type": "story", "author": "op", "title": "hello",
			"children": [
				{"id": 200, "type": "comment", "author": "a", "text": "first", "parent_id": 100, "children": []},
				{"id": 300, "type": "comment", "author": "b", "text": "second", "parent_id": 100,
				 "children": [{"id": 400, "type": "comment", "author": "c", "text": "deep", "parent_id": 300, "children": []}]}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, time.Second)
	item, err := c.Item(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "100", string(item.ID))
	assert.Equal(t, "hello", item.Title)
	require.Len(t, item.Children, 2)
	require.Len(t, item.Children[1].Children, 1)
	assert.Equal(t, "deep", item.Children[1].Children[0].Text)

	assert.Equal(t, 4, CountItems([]*Item{item}))
}

func TestSearchBuildsQueryAndSortEndpoint(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "golang", r.URL.Query().Get("query"))
		assert.Equal(t, "story", r.URL.Query().Get("tags"))
		json.NewEncoder(w).Encode(SearchResponse{Hits: []SearchHit{{ObjectID: "1", Title: "go"}}, NbHits: 1})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, time.Second)

	resp, err := c.Search(context.Background(), SearchParams{Query: "golang", Tags: "story"})
	require.NoError(t, err)
	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, 1, resp.NbHits)

	_, err = c.Search(context.Background(), SearchParams{Query: "golang", Tags: "story", SortByDate: true})
	require.NoError(t, err)
	assert.Equal(t, "/search_by_date", gotPath)
}

func TestFrontPageTags(t *testing.T) {
	var gotTags string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTags = r.URL.Query().Get("tags")
		json.NewEncoder(w).Encode(SearchResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, time.Second)

	_, err := c.FrontPage(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "front_page", gotTags)

	_, err = c.FrontPage(context.Background(), "show_hn")
	require.NoError(t, err)
	assert.Equal(t, "(front_page,show_hn)", gotTags)
}

func TestUpstreamFailuresWrapErrUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, time.Second)

	_, err := c.Item(context.Background(), 100)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = c.Search(context.Background(), SearchParams{Query: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)

	// Unreachable host is also an availability failure.
	dead := NewClient("http://127.0.0.1:1", "http://127.0.0.1:1", 200*time.Millisecond)
	_, err = dead.Item(context.Background(), 100)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUserExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/taken.json":
			w.Write([]byte(`{"id": "taken", "created": 1}`))
		case "/free.json":
			w.Write([]byte(`null`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, time.Second)

	exists, err := c.UserExists(context.Background(), "taken")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.UserExists(context.Background(), "free")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = c.UserExists(context.Background(), "boom")
	assert.ErrorIs(t, err, ErrUnavailable)
}
