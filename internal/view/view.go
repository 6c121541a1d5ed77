// Package view renders the site model to HTML with templ components.
//
// Every link carries a real href, so pages work as plain documents. The
// client script upgrades links marked with data-nav-page into navigation
// intents sent over the live session.
package view

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/conneroisu/sprout/internal/app"
	"github.com/conneroisu/sprout/internal/content"
	"github.com/conneroisu/sprout/internal/router"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SiteName is shown in the banner and document titles.
const SiteName = "Sprout"

// ExternalLink is a header link that leaves the site.
type ExternalLink struct {
	Label string
	Href  string
}

// DefaultLinks are the header's external links.
var DefaultLinks = []ExternalLink{
	{Label: "Repo", Href: "https://github.com/conneroisu/sprout"},
	{Label: "Quickstart repo", Href: "https://github.com/conneroisu/sprout-quickstart"},
	{Label: "API docs", Href: "https://pkg.go.dev/github.com/conneroisu/sprout"},
}

// Data is everything a page render needs.
type Data struct {
	Model   app.Model
	Site    *content.Site
	Version string
	// Live adds the client script that opens a websocket session.
	Live bool
	// AssetPrefix is prepended to /static paths; static export uses it to
	// emit relative links.
	AssetPrefix string
}

var titleCaser = cases.Title(language.English)

// PageLabel is the navigation label for p.
func PageLabel(p router.Page) string {
	if p == router.PageHome {
		return "Home"
	}

	return titleCaser.String(p.Slug())
}

// Title returns the document title for the model.
func Title(d Data) string {
	switch d.Model.Page {
	case router.PageGuide:
		if s, ok := d.Site.Section(d.Model.GuidePage); ok {
			return s.Title + " · " + SiteName + " guide"
		}

		return SiteName + " guide"
	case router.PageChangelog:
		return SiteName + " changelog"
	default:
		return SiteName
	}
}

// Document is the full HTML page.
func Document(d Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.print(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.print(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.printf(`<title>%s</title>`, templ.EscapeString(Title(d)))
		p.printf(`<link rel="stylesheet" href="%s/static/site.css">`, d.AssetPrefix)
		p.printf(`<link rel="stylesheet" href="%s/static/highlight.css">`, d.AssetPrefix)
		p.print(`</head><body>`)
		p.render(ctx, Header(DefaultLinks))
		p.print(`<main id="app">`)
		p.render(ctx, Body(d))
		p.print(`</main>`)
		p.render(ctx, Footer(d.Version))
		if d.Live {
			p.printf(`<script src="%s/static/app.js" defer></script>`, d.AssetPrefix)
		}
		p.print(`</body></html>`)

		return p.err
	})
}

// Body is the part of the page that changes with the model. Live sessions
// receive it in render frames.
func Body(d Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		switch d.Model.Page {
		case router.PageGuide:
			return Guide(d.Site.Guide, d.Model.GuidePage).Render(ctx, w)
		case router.PageChangelog:
			return Changelog(d.Site.Changelog).Render(ctx, w)
		default:
			return Home(d.Site).Render(ctx, w)
		}
	})
}

// Header is the top navigation bar.
func Header(links []ExternalLink) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.print(`<header class="site-header"><nav><ul>`)
		for _, page := range []router.Page{router.PageGuide, router.PageChangelog} {
			p.print(`<li>`)
			p.print(navLink(router.RoutePage(page), PageLabel(page), "nav-link"))
			p.print(`</li>`)
		}
		for _, link := range links {
			p.printf(`<li><a class="nav-link" href="%s">%s</a></li>`,
				templ.EscapeString(string(templ.URL(link.Href))), templ.EscapeString(link.Label))
		}
		p.print(`</ul></nav></header>`)

		return p.err
	})
}

// Banner is the title block shown on the home page.
func Banner() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.print(`<section class="banner">`)
		p.printf(`<h1>%s</h1><h2>A Go framework for creating web apps</h2>`, SiteName)
		p.print(`<div class="banner-points">`)
		for _, point := range []string{"Expressive view syntax", "Compile-time error checking", "Clean architecture"} {
			p.printf(`<h3>%s</h3>`, point)
		}
		p.print(`</div></section>`)

		return p.err
	})
}

// Home lists the guide sections under the banner.
func Home(site *content.Site) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.render(ctx, Banner())
		p.print(`<section class="home"><h2>Guide</h2><ol class="home-sections">`)
		for _, s := range site.Guide {
			p.print(`<li>`)
			p.print(navLink(router.RouteSubpage(s.Index), s.Title, "home-section"))
			p.print(`</li>`)
		}
		p.print(`</ol>`)
		if len(site.Changelog) > 0 {
			latest := site.Changelog[0]
			p.printf(`<p class="home-release">Latest release: %s `, templ.EscapeString(latest.Version))
			p.print(navLink(router.RoutePage(router.PageChangelog), "see what changed", "home-changelog"))
			p.print(`</p>`)
		}
		p.print(`</section>`)

		return p.err
	})
}

// Guide renders the section menu and the selected section. An index
// outside the guide shows the first section.
func Guide(sections []content.Section, selected int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if selected < 0 || selected >= len(sections) {
			selected = 0
		}

		p := &printer{w: w}
		p.print(`<section class="guide-layout"><nav class="guide-menu-list">`)
		for _, s := range sections {
			class := "guide-menu"
			if s.Index == selected {
				class = "guide-menu-selected"
			}
			p.print(navLink(router.RouteSubpage(s.Index), s.Title, class))
		}
		p.print(`</nav>`)
		if len(sections) > 0 {
			p.print(`<article class="guide">`)
			p.render(ctx, templ.Raw(sections[selected].HTML))
			p.print(`</article>`)
		}
		p.print(`</section>`)

		return p.err
	})
}

// Changelog renders every release, newest first.
func Changelog(releases []content.Release) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.print(`<section class="guide changelog">`)
		for _, r := range releases {
			p.printf(`<div class="release"><h2>%s</h2>`, templ.EscapeString(r.Version))
			if r.Date != "" {
				p.printf(`<p class="release-date">%s</p>`, templ.EscapeString(r.Date))
			}
			p.print(`<ul>`)
			for _, c := range r.Changes {
				p.printf(`<li>%s</li>`, templ.EscapeString(c))
			}
			p.print(`</ul></div>`)
		}
		p.print(`</section>`)

		return p.err
	})
}

// Footer closes every page.
func Footer(version string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.print(`<footer class="site-footer"><h4>© Sprout contributors`)
		if version != "" {
			p.printf(` · %s`, templ.EscapeString(version))
		}
		p.print(`</h4></footer>`)

		return p.err
	})
}

// navLink renders an in-site link for an intent. The href is the location
// the router would push; data attributes let the client send the intent.
func navLink(intent router.Message, label, class string) string {
	var href router.URL
	attrs := fmt.Sprintf(` data-nav-page="%s"`, intent.Page.Slug())
	if intent.Kind == router.KindRouteSubpage {
		href = router.NewURL(intent.Page.Slug(), strconv.Itoa(intent.Index))
		attrs += fmt.Sprintf(` data-nav-index="%d"`, intent.Index)
	} else {
		href = router.NewURL(intent.Page.Slug())
	}

	return fmt.Sprintf(`<a class="%s" href="%s"%s>%s</a>`,
		class, templ.EscapeString(href.String()), attrs, templ.EscapeString(label))
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) print(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) render(ctx context.Context, c templ.Component) {
	if p.err != nil {
		return
	}
	p.err = c.Render(ctx, p.w)
}
