package content

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/conneroisu/sprout/internal/config"
	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"guide.yaml": {Data: []byte(`sections:
  - title: Intro
    file: guide/intro.md
  - file: guide/untitled.md
`)},
		"changelog.yaml": {Data: []byte(`releases:
  - version: v1.0.0
    date: "2020-01-02"
    changes:
      - First
      - Second
`)},
		"guide/intro.md": {Data: []byte("# Intro\n\nHello **world**.\n\n## Install\n\n```go\nfunc main() {}\n```\n")},
		"guide/untitled.md": {Data: []byte("# Derived Title\n\nBody text.\n")},
	}
}

func TestLoad(t *testing.T) {
	site, err := Load(testFS(), "guide.yaml", "changelog.yaml", NewMarkdown("github"))
	require.NoError(t, err)

	require.Len(t, site.Guide, 2)
	intro := site.Guide[0]
	assert.Equal(t, 0, intro.Index)
	assert.Equal(t, "Intro", intro.Title)
	assert.Equal(t, "guide/intro.md", intro.File)
	assert.Contains(t, intro.HTML, "<strong>world</strong>")
	assert.Contains(t, intro.HTML, `id="install"`)
	assert.Contains(t, intro.HTML, `class="chroma"`)
	assert.Contains(t, intro.Text, "Hello world")
	assert.Contains(t, intro.Text, "func main")

	require.Len(t, intro.Headings, 2)
	assert.Equal(t, Heading{Level: 1, ID: "intro", Text: "Intro"}, intro.Headings[0])
	assert.Equal(t, Heading{Level: 2, ID: "install", Text: "Install"}, intro.Headings[1])

	assert.Equal(t, 1, site.Guide[1].Index)
	assert.Equal(t, "Derived Title", site.Guide[1].Title)

	require.Len(t, site.Changelog, 1)
	assert.Equal(t, "v1.0.0", site.Changelog[0].Version)
	assert.Equal(t, "2020-01-02", site.Changelog[0].Date)
	assert.Equal(t, []string{"First", "Second"}, site.Changelog[0].Changes)

	assert.Contains(t, site.CSS, ".chroma")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(fstest.MapFS)
		missing bool
	}{
		{"missing manifest", func(files fstest.MapFS) { delete(files, "guide.yaml") }, true},
		{"missing changelog", func(files fstest.MapFS) { delete(files, "changelog.yaml") }, true},
		{"missing section file", func(files fstest.MapFS) { delete(files, "guide/intro.md") }, true},
		{"malformed manifest", func(files fstest.MapFS) { files["guide.yaml"] = &fstest.MapFile{Data: []byte("sections: [")} }, false},
		{"empty manifest", func(files fstest.MapFS) { files["guide.yaml"] = &fstest.MapFile{Data: []byte("sections: []\n")} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testFS()
			tt.mutate(fsys)

			site, err := Load(fsys, "guide.yaml", "changelog.yaml", NewMarkdown("github"))
			require.Error(t, err)
			assert.Nil(t, site)

			var siteErr *siteerrors.SiteError
			require.ErrorAs(t, err, &siteErr)
			assert.Equal(t, siteerrors.ErrCodeContentLoad, siteErr.Code)
			assert.Equal(t, tt.missing, siteerrors.IsFileNotFound(err))
			if tt.missing {
				assert.ErrorIs(t, err, fs.ErrNotExist)
			}
		})
	}
}

func TestSiteSection(t *testing.T) {
	site, err := Load(testFS(), "guide.yaml", "changelog.yaml", NewMarkdown("github"))
	require.NoError(t, err)

	s, ok := site.Section(1)
	assert.True(t, ok)
	assert.Equal(t, "Derived Title", s.Title)

	_, ok = site.Section(2)
	assert.False(t, ok)
	_, ok = site.Section(-1)
	assert.False(t, ok)
}

func TestMarkdownUnknownLanguage(t *testing.T) {
	md := NewMarkdown("no-such-style")

	out, err := md.Render([]byte("```nosuchlang\n<b>x</b>\n```\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;b&gt;")
	assert.NotContains(t, out, "<b>x</b>")
}

func TestEmbeddedContent(t *testing.T) {
	site, err := Load(EmbeddedFS(), "guide.yaml", "changelog.yaml", NewMarkdown("github"))
	require.NoError(t, err)

	assert.Len(t, site.Guide, 12)
	assert.Equal(t, "Quickstart", site.Guide[0].Title)
	assert.Equal(t, "About", site.Guide[11].Title)
	assert.NotEmpty(t, site.Changelog)
}

func TestStoreReload(t *testing.T) {
	ctx := context.Background()
	fsys := testFS()
	cfg := config.ContentConfig{Guide: "guide.yaml", Changelog: "changelog.yaml", Highlight: "github"}

	store, err := NewStoreFS(ctx, fsys, cfg, nil)
	require.NoError(t, err)
	first := store.Site()
	assert.Equal(t, "Intro", first.Guide[0].Title)

	fsys["guide.yaml"] = &fstest.MapFile{Data: []byte("sections:\n  - title: Renamed\n    file: guide/intro.md\n")}
	require.NoError(t, store.Reload(ctx))
	assert.Equal(t, "Renamed", store.Site().Guide[0].Title)
	assert.Len(t, store.Site().Guide, 1)

	// First site is untouched by the swap.
	assert.Len(t, first.Guide, 2)

	delete(fsys, "changelog.yaml")
	require.Error(t, store.Reload(ctx))
	assert.Equal(t, "Renamed", store.Site().Guide[0].Title, "failed reload keeps previous site")
}

func TestNewStoreEmbedded(t *testing.T) {
	cfg := config.ContentConfig{Guide: "guide.yaml", Changelog: "changelog.yaml", Highlight: "github"}

	store, err := NewStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, store.Dir())
	assert.True(t, strings.HasPrefix(store.Site().Guide[0].File, "guide/"))
}
