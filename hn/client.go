package hn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrUnavailable marks transport or non-2xx failures from the external
// source. Callers decide whether to degrade to local data or surface a 502.
var ErrUnavailable = errors.New("content source unavailable")

// Client is a read-only client for an HN-compatible search API plus the
// Firebase-style user endpoint.
type Client struct {
	searchBase string
	userBase   string
	httpClient *http.Client
}

// NewClient builds a Client. Base URLs are given without trailing slash.
func NewClient(searchBase, userBase string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		searchBase: searchBase,
		userBase:   userBase,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SearchParams carries pass-through query options for Search.
type SearchParams struct {
	Query          string
	Tags           string
	Page           string
	HitsPerPage    string
	NumericFilters string
	SortByDate     bool
}

// Item fetches a full item tree by numeric ID.
func (c *Client) Item(ctx context.Context, id int) (*Item, error) {
	var item Item
	if err := c.getJSON(ctx, fmt.Sprintf("%s/items/%d", c.searchBase, id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Search queries the search endpoint with pass-through parameters.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResponse, error) {
	endpoint := "/search"
	if p.SortByDate {
		endpoint = "/search_by_date"
	}
	q := url.Values{}
	if p.Query != "" {
		q.Set("query", p.Query)
	}
	if p.Tags != "" {
		q.Set("tags", p.Tags)
	}
	if p.Page != "" {
		q.Set("page", p.Page)
	}
	if p.HitsPerPage != "" {
		q.Set("hitsPerPage", p.HitsPerPage)
	}
	if p.NumericFilters != "" {
		q.Set("numericFilters", p.NumericFilters)
	}

	var resp SearchResponse
	if err := c.getJSON(ctx, c.searchBase+endpoint+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FrontPage returns the current front page, optionally narrowed to one story type.
func (c *Client) FrontPage(ctx context.Context, storyType string) (*SearchResponse, error) {
	tags := "front_page"
	if storyType != "" {
		tags = "(front_page," + storyType + ")"
	}
	return c.Search(ctx, SearchParams{Tags: tags, HitsPerPage: "10"})
}

// Tag searches items by a single tag such as "story" or "job".
func (c *Client) Tag(ctx context.Context, tag string) (*SearchResponse, error) {
	return c.Search(ctx, SearchParams{Tags: tag})
}

// UserExists checks whether a username is taken on the external platform.
// The user endpoint returns JSON null for unknown users.
func (c *Client) UserExists(ctx context.Context, username string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userBase+"/"+url.PathEscape(username)+".json", nil)
	if err != nil {
		return false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return string(body) != "null", nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: item not found (%s)", ErrUnavailable, strconv.Itoa(resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return nil
}
