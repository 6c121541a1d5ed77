package view

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/conneroisu/sprout/internal/app"
	"github.com/conneroisu/sprout/internal/content"
	"github.com/conneroisu/sprout/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSite() *content.Site {
	return &content.Site{
		Guide: []content.Section{
			{Index: 0, Title: "Quickstart", HTML: "<h1>Quickstart</h1><p>start</p>"},
			{Index: 1, Title: "Routing", HTML: "<h1>Routing</h1><p>routes</p>"},
		},
		Changelog: []content.Release{
			{Version: "v0.2.0", Changes: []string{"Added routing", "Fixed <script> escaping"}},
			{Version: "v0.1.0", Changes: []string{"Initial release"}},
		},
	}
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))

	return buf.String()
}

func TestPageLabel(t *testing.T) {
	assert.Equal(t, "Home", PageLabel(router.PageHome))
	assert.Equal(t, "Guide", PageLabel(router.PageGuide))
	assert.Equal(t, "Changelog", PageLabel(router.PageChangelog))
}

func TestTitle(t *testing.T) {
	site := testSite()

	tests := []struct {
		name  string
		model app.Model
		want  string
	}{
		{"home", app.Model{Page: router.PageHome}, "Sprout"},
		{"guide section", app.Model{Page: router.PageGuide, GuidePage: 1}, "Routing · Sprout guide"},
		{"guide out of range", app.Model{Page: router.PageGuide, GuidePage: 9}, "Sprout guide"},
		{"changelog", app.Model{Page: router.PageChangelog}, "Sprout changelog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(Data{Model: tt.model, Site: site}))
		})
	}
}

func TestGuide(t *testing.T) {
	out := render(t, Guide(testSite().Guide, 1))

	assert.Contains(t, out, `<a class="guide-menu-selected" href="/guide/1" data-nav-page="guide" data-nav-index="1">Routing</a>`)
	assert.Contains(t, out, `<a class="guide-menu" href="/guide/0" data-nav-page="guide" data-nav-index="0">Quickstart</a>`)
	assert.Contains(t, out, "<p>routes</p>")
	assert.NotContains(t, out, "<p>start</p>")
}

func TestGuideOutOfRangeShowsFirst(t *testing.T) {
	out := render(t, Guide(testSite().Guide, 7))

	assert.Contains(t, out, "<p>start</p>")
	assert.Contains(t, out, `class="guide-menu-selected" href="/guide/0"`)
}

func TestChangelogEscapes(t *testing.T) {
	out := render(t, Changelog(testSite().Changelog))

	assert.Contains(t, out, "<h2>v0.2.0</h2>")
	assert.Contains(t, out, "<li>Fixed &lt;script&gt; escaping</li>")
	assert.Less(t, strings.Index(out, "v0.2.0"), strings.Index(out, "v0.1.0"))
}

func TestHeader(t *testing.T) {
	out := render(t, Header(DefaultLinks))

	assert.Contains(t, out, `href="/guide" data-nav-page="guide">Guide</a>`)
	assert.Contains(t, out, `href="/changelog" data-nav-page="changelog">Changelog</a>`)
	assert.Contains(t, out, `href="https://github.com/conneroisu/sprout">Repo</a>`)
}

func TestBody(t *testing.T) {
	site := testSite()

	home := render(t, Body(Data{Model: app.DefaultModel(), Site: site}))
	assert.Contains(t, home, `class="banner"`)
	assert.Contains(t, home, `href="/guide/1"`)
	assert.Contains(t, home, "Latest release: v0.2.0")

	changelog := render(t, Body(Data{Model: app.Model{Page: router.PageChangelog}, Site: site}))
	assert.Contains(t, changelog, "Initial release")
	assert.NotContains(t, changelog, `class="banner"`)
}

func TestDocument(t *testing.T) {
	d := Data{
		Model:   app.Model{Page: router.PageGuide},
		Site:    testSite(),
		Version: "v1.2.3",
		Live:    true,
	}

	out := render(t, Document(d))
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Quickstart · Sprout guide</title>")
	assert.Contains(t, out, `<main id="app">`)
	assert.Contains(t, out, `<script src="/static/app.js" defer></script>`)
	assert.Contains(t, out, "v1.2.3")

	d.Live = false
	d.AssetPrefix = ".."
	out = render(t, Document(d))
	assert.NotContains(t, out, "app.js")
	assert.Contains(t, out, `href="../static/site.css"`)
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"app.js", "site.css"} {
		data, err := fs.ReadFile(Static(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}
}
