// Package search indexes the rendered guide and changelog in an in-memory
// bleve index.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/conneroisu/sprout/internal/content"
	"github.com/conneroisu/sprout/internal/router"
)

// Hit is one search result. URL is the site path that shows the match.
type Hit struct {
	Title string  `json:"title" yaml:"title"`
	URL   string  `json:"url" yaml:"url"`
	Score float64 `json:"score" yaml:"score"`
}

type document struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Index is an immutable search index over one loaded site.
type Index struct {
	index bleve.Index
	docs  map[string]Hit
}

// Build indexes every guide section and changelog release in site.
func Build(site *content.Site) (*Index, error) {
	idx, err := newIndex()
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}

	docs := make(map[string]Hit, len(site.Guide)+len(site.Changelog))
	batch := idx.NewBatch()

	for _, section := range site.Guide {
		id := fmt.Sprintf("guide_%d", section.Index)
		u := router.NewURL(router.PageGuide.Slug(), fmt.Sprint(section.Index))
		docs[id] = Hit{Title: section.Title, URL: u.String()}
		if err := batch.Index(id, document{Title: section.Title, Text: section.Text}); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", id, err)
		}
	}

	changelogURL := router.NewURL(router.PageChangelog.Slug()).String()
	for i, release := range site.Changelog {
		id := fmt.Sprintf("release_%d", i)
		docs[id] = Hit{Title: "Changelog " + release.Version, URL: changelogURL}
		doc := document{
			Title: release.Version,
			Text:  strings.Join(release.Changes, "\n"),
		}
		if err := batch.Index(id, doc); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", id, err)
		}
	}

	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("committing index batch: %w", err)
	}

	return &Index{index: idx, docs: docs}, nil
}

func newIndex() (bleve.Index, error) {
	indexMapping := mapping.NewIndexMapping()

	docMapping := mapping.NewDocumentMapping()
	titleField := mapping.NewTextFieldMapping()
	titleField.Analyzer = "en"
	textField := mapping.NewTextFieldMapping()
	textField.Analyzer = "en"
	textField.Store = false
	docMapping.AddFieldMappingsAt("title", titleField)
	docMapping.AddFieldMappingsAt("text", textField)

	indexMapping.DefaultMapping = docMapping

	return bleve.NewMemOnly(indexMapping)
}

// Search returns at most limit hits for q, best first. Matches in a title
// outrank matches in body text.
func (i *Index) Search(ctx context.Context, q string, limit int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" || limit <= 0 {
		return []Hit{}, nil
	}

	title := bleve.NewMatchQuery(q)
	title.SetField("title")
	title.SetBoost(3)
	text := bleve.NewMatchQuery(q)
	text.SetField("text")

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(title, text))
	req.Size = limit

	results, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q, err)
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, match := range results.Hits {
		hit, ok := i.docs[match.ID]
		if !ok {
			continue
		}
		hit.Score = match.Score
		hits = append(hits, hit)
	}

	return hits, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}
