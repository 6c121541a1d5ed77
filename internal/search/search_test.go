package search

import (
	"context"
	"testing"

	"github.com/conneroisu/sprout/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSite() *content.Site {
	return &content.Site{
		Guide: []content.Section{
			{Index: 0, Title: "Quickstart", Text: "Create a model and an update function."},
			{Index: 1, Title: "Routing", Text: "The router maps a url to a message. History push happens on navigation."},
			{Index: 2, Title: "Events", Text: "Handlers turn browser events into messages."},
		},
		Changelog: []content.Release{
			{Version: "v0.2.0", Changes: []string{"Added routing", "Added lifecycle hooks"}},
		},
	}
}

func TestSearch(t *testing.T) {
	idx, err := Build(testSite())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	hits, err := idx.Search(context.Background(), "routing", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	assert.Equal(t, "Routing", hits[0].Title)
	assert.Equal(t, "/guide/1", hits[0].URL)
	assert.Greater(t, hits[0].Score, 0.0)

	var urls []string
	for _, h := range hits {
		urls = append(urls, h.URL)
	}
	assert.Contains(t, urls, "/changelog")
}

func TestSearchStemming(t *testing.T) {
	idx, err := Build(testSite())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	hits, err := idx.Search(context.Background(), "handler", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "/guide/2", hits[0].URL)
}

func TestSearchLimitsAndEmpty(t *testing.T) {
	idx, err := Build(testSite())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	ctx := context.Background()

	hits, err := idx.Search(ctx, "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "message", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = idx.Search(ctx, "zzzunmatched", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
