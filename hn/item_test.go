package hn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIDAcceptsNumbersAndStrings(t *testing.T) {
	var item Item
	require.NoError(t, json.Unmarshal([]byte(`{"id": 38500000, "author": "a"}`), &item))
	assert.Equal(t, ItemID("38500000"), item.ID)
	assert.True(t, item.ID.IsExternal())

	require.NoError(t, json.Unmarshal([]byte(`{"id": "0f8fad5b-d9cb", "author": "a"}`), &item))
	assert.Equal(t, ItemID("0f8fad5b-d9cb"), item.ID)
	assert.False(t, item.ID.IsExternal())
}

func TestItemIDMarshalKeepsNumericShape(t *testing.T) {
	b, err := json.Marshal(ItemID("100"))
	require.NoError(t, err)
	assert.Equal(t, "100", string(b))

	b, err = json.Marshal(ItemID("0f8fad5b-d9cb"))
	require.NoError(t, err)
	assert.Equal(t, `"0f8fad5b-d9cb"`, string(b))
}

func TestCountItemsWalksFullForest(t *testing.T) {
	forest := []*Item{
		{ID: "1", Children: []*Item{
			{ID: "2", Children: []*Item{{ID: "3"}}},
		}},
		{ID: "4"},
		nil,
	}
	assert.Equal(t, 4, CountItems(forest))
	assert.Equal(t, 0, CountItems(nil))
}
