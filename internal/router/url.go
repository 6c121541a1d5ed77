package router

import (
	"net/url"
	"strings"
)

// URL is the decomposed browser location the router works on. Values are
// never mutated after construction; every navigation event builds a new one.
type URL struct {
	Path   []string
	Hash   string
	Search string
	Title  string
}

// NewURL builds a URL from path segments. Empty segments are dropped so
// that "/guide//3" and "/guide/3" resolve the same way.
func NewURL(segments ...string) URL {
	path := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			path = append(path, s)
		}
	}

	return URL{Path: path}
}

// ParseURL decomposes a raw location such as "/guide/3?x=1#top". Path
// segments are unescaped; a segment that fails to unescape is kept as-is.
func ParseURL(raw string) (URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return URL{}, err
	}

	return FromStdURL(u), nil
}

// FromStdURL converts a *url.URL, as found on an http.Request, into a URL.
func FromStdURL(u *url.URL) URL {
	if u == nil {
		return URL{}
	}

	raw := strings.Split(u.EscapedPath(), "/")
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(s); err == nil {
			s = unescaped
		}
		segments = append(segments, s)
	}

	return URL{
		Path:   segments,
		Hash:   u.Fragment,
		Search: u.RawQuery,
	}
}

// WithTitle returns a copy of u carrying the given title.
func (u URL) WithTitle(title string) URL {
	u.Path = append([]string(nil), u.Path...)
	u.Title = title

	return u
}

// Key joins the path segments with "/". It is the route table key.
func (u URL) Key() string {
	return strings.Join(u.Path, "/")
}

// hasSlashInSegment reports whether a segment held an escaped slash, in
// which case Key no longer identifies the segments.
func (u URL) hasSlashInSegment() bool {
	for _, s := range u.Path {
		if strings.Contains(s, "/") {
			return true
		}
	}

	return false
}

// String renders the URL as an absolute path with optional query and hash.
func (u URL) String() string {
	var b strings.Builder
	b.WriteByte('/')
	for i, s := range u.Path {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(url.PathEscape(s))
	}
	if u.Search != "" {
		b.WriteByte('?')
		b.WriteString(u.Search)
	}
	if u.Hash != "" {
		b.WriteByte('#')
		b.WriteString(u.Hash)
	}

	return b.String()
}

// Equal reports whether two URLs address the same location. Titles are
// ignored.
func (u URL) Equal(other URL) bool {
	if len(u.Path) != len(other.Path) || u.Hash != other.Hash || u.Search != other.Search {
		return false
	}
	for i := range u.Path {
		if u.Path[i] != other.Path[i] {
			return false
		}
	}

	return true
}
