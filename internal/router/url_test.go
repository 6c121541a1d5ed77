package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw    string
		path   []string
		search string
		hash   string
	}{
		{"/", []string{}, "", ""},
		{"", []string{}, "", ""},
		{"/guide/3", []string{"guide", "3"}, "", ""},
		{"/guide//3/", []string{"guide", "3"}, "", ""},
		{"/changelog?v=2#top", []string{"changelog"}, "v=2", "top"},
		{"/guide/hello%20world", []string{"guide", "hello world"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := ParseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.path, u.Path)
			assert.Equal(t, tt.search, u.Search)
			assert.Equal(t, tt.hash, u.Hash)
		})
	}
}

func TestURLString(t *testing.T) {
	assert.Equal(t, "/", NewURL().String())
	assert.Equal(t, "/guide/2", NewURL("guide", "2").String())
	assert.Equal(t, "/a%20b", NewURL("a b").String())

	u := URL{Path: []string{"changelog"}, Search: "v=1", Hash: "top"}
	assert.Equal(t, "/changelog?v=1#top", u.String())
}

func TestURLEqualIgnoresTitle(t *testing.T) {
	a := NewURL("guide", "1")
	b := a.WithTitle("Structure")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewURL("guide", "2")))
	assert.False(t, a.Equal(NewURL("guide")))
	assert.Equal(t, "Structure", b.Title)
	assert.Empty(t, a.Title)
}

func TestURLRoundTrip(t *testing.T) {
	original := NewURL("guide", "10")
	parsed, err := ParseURL(original.String())
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}
