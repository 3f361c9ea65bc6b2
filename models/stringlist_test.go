package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListDatabaseRoundTrip(t *testing.T) {
	l := StringList{"a", "b"}
	v, err := l.Value()
	require.NoError(t, err)

	var got StringList
	require.NoError(t, got.Scan(v))
	assert.Equal(t, l, got)

	var empty StringList
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
}

func TestStringListMutators(t *testing.T) {
	l := StringList{"a", "b"}

	l = l.Append("c")
	l = l.Append("a") // no duplicates
	assert.Equal(t, StringList{"a", "b", "c"}, l)

	l = l.Remove("b")
	assert.Equal(t, StringList{"a", "c"}, l)
	l = l.Remove("missing")
	assert.Equal(t, StringList{"a", "c"}, l)

	assert.True(t, l.Contains("a"))
	assert.False(t, l.Contains("b"))
}
