package router

import (
	"fmt"
	"strings"
)

// Page selects a top-level section of the site.
type Page int

const (
	PageHome Page = iota
	PageGuide
	PageChangelog
)

var pageSlugs = map[Page]string{
	PageHome:      "",
	PageGuide:     "guide",
	PageChangelog: "changelog",
}

// Pages lists every page in navigation order.
func Pages() []Page {
	return []Page{PageHome, PageGuide, PageChangelog}
}

// Slug returns the first path segment addressing the page. Home has none.
func (p Page) Slug() string {
	return pageSlugs[p]
}

// String returns a readable page name.
func (p Page) String() string {
	switch p {
	case PageHome:
		return "home"
	case PageGuide:
		return "guide"
	case PageChangelog:
		return "changelog"
	default:
		return fmt.Sprintf("page(%d)", int(p))
	}
}

// ParsePage maps a slug or page name back to a Page.
func ParsePage(s string) (Page, bool) {
	switch strings.ToLower(s) {
	case "", "home":
		return PageHome, true
	case "guide":
		return PageGuide, true
	case "changelog":
		return PageChangelog, true
	default:
		return PageHome, false
	}
}

// Kind discriminates the closed set of application messages.
type Kind int

const (
	// KindChangePage mutates the page selector. Never touches history.
	KindChangePage Kind = iota
	// KindChangeSubpage selects a sub-page of a sectioned page. Never
	// touches history.
	KindChangeSubpage
	// KindRoutePage is a user intent to open a page. Handled by Navigate,
	// which pushes history and yields a KindChangePage message.
	KindRoutePage
	// KindRouteSubpage is a user intent to open a sub-page. Handled by
	// Navigate, which pushes history and yields a KindChangeSubpage message.
	KindRouteSubpage
)

func (k Kind) String() string {
	switch k {
	case KindChangePage:
		return "ChangePage"
	case KindChangeSubpage:
		return "ChangeSubpage"
	case KindRoutePage:
		return "RoutePage"
	case KindRouteSubpage:
		return "RouteSubpage"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Message is an application message. It is a comparable value so tests and
// callers can use == on it.
type Message struct {
	Kind  Kind
	Page  Page
	Index int
}

// ChangePage builds the state-change message for a page.
func ChangePage(p Page) Message {
	return Message{Kind: KindChangePage, Page: p}
}

// ChangeSubpage builds the state-change message for a guide sub-page.
func ChangeSubpage(index int) Message {
	return Message{Kind: KindChangeSubpage, Page: PageGuide, Index: index}
}

// RoutePage builds the navigation intent for a page.
func RoutePage(p Page) Message {
	return Message{Kind: KindRoutePage, Page: p}
}

// RouteSubpage builds the navigation intent for a guide sub-page.
func RouteSubpage(index int) Message {
	return Message{Kind: KindRouteSubpage, Page: PageGuide, Index: index}
}

// IsIntent reports whether m is a Route* message.
func (m Message) IsIntent() bool {
	return m.Kind == KindRoutePage || m.Kind == KindRouteSubpage
}

// String implements fmt.Stringer.
func (m Message) String() string {
	switch m.Kind {
	case KindChangeSubpage, KindRouteSubpage:
		return fmt.Sprintf("%s(%s, %d)", m.Kind, m.Page, m.Index)
	default:
		return fmt.Sprintf("%s(%s)", m.Kind, m.Page)
	}
}
