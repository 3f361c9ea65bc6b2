package hn

import (
	"encoding/json"
	"strconv"
)

// ItemID identifies an item. External items use numeric IDs, locally authored
// comments use UUIDs, so the wire form may be either a JSON number or string.
type ItemID string

// UnmarshalJSON accepts both numeric and string IDs.
func (id *ItemID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ItemID(n.String())
	return nil
}

// MarshalJSON emits numeric IDs as numbers so external items round-trip in
// the shape HN clients expect.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.Atoi(string(id)); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// IsExternal reports whether the ID references the external source.
func (id ItemID) IsExternal() bool {
	_, err := strconv.Atoi(string(id))
	return err == nil
}

// IsExternalID reports whether a raw ID string references the external source.
func IsExternalID(id string) bool {
	_, err := strconv.Atoi(id)
	return err == nil
}

// Item is the HN item tree node. Both external items and locally authored
// comments are rendered into this shape before leaving the API.
type Item struct {
	ID         ItemID  `json:"id"`
	CreatedAt  string  `json:"created_at,omitempty"`
	CreatedAtI int64   `json:"created_at_i,omitempty"`
	Type       string  `json:"type,omitempty"`
	Author     string  `json:"author"`
	Title      string  `json:"title,omitempty"`
	URL        string  `json:"url,omitempty"`
	Text       string  `json:"text,omitempty"`
	Points     *int    `json:"points"`
	ParentID   *ItemID `json:"parent_id,omitempty"`
	StoryID    *ItemID `json:"story_id,omitempty"`
	Children   []*Item `json:"children"`
}

// CountItems counts every node reachable from the given forest. Counts are
// always recomputed this way rather than trusting denormalized children
// lists, so dangling references never inflate the total.
func CountItems(forest []*Item) int {
	total := 0
	for _, it := range forest {
		if it == nil {
			continue
		}
		total += 1 + CountItems(it.Children)
	}
	return total
}

// SearchHit is a single result row from the search endpoint.
type SearchHit struct {
	ObjectID    string   `json:"objectID"`
	Title       string   `json:"title,omitempty"`
	URL         string   `json:"url,omitempty"`
	Author      string   `json:"author"`
	Points      int      `json:"points"`
	StoryText   string   `json:"story_text,omitempty"`
	CommentText string   `json:"comment_text,omitempty"`
	NumComments int      `json:"num_comments"`
	CreatedAt   string   `json:"created_at,omitempty"`
	CreatedAtI  int64    `json:"created_at_i,omitempty"`
	Tags        []string `json:"_tags,omitempty"`
}

// SearchResponse mirrors the search endpoint envelope.
type SearchResponse struct {
	Hits             []SearchHit `json:"hits"`
	NbHits           int         `json:"nbHits"`
	Page             int         `json:"page"`
	NbPages          int         `json:"nbPages"`
	HitsPerPage      int         `json:"hitsPerPage"`
	Query            string      `json:"query"`
	Params           string      `json:"params,omitempty"`
	ProcessingTimeMS int         `json:"processingTimeMS,omitempty"`
}
