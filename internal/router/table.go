package router

import "strconv"

// Entry is a single route table row.
type Entry struct {
	Key     string  `json:"key" yaml:"key"`
	Message Message `json:"-" yaml:"-"`
	Name    string  `json:"message" yaml:"message"`
}

type sectioned struct {
	page  Page
	count int
}

// Table maps path keys ("", "guide", "guide/3") to the Change* message that
// brings the model in line with that path. A table is filled once at
// startup and is read-only afterwards; it is not safe for concurrent
// registration.
type Table struct {
	entries  map[string]Message
	order    []string
	sections map[string]sectioned
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{
		entries:  make(map[string]Message),
		sections: make(map[string]sectioned),
	}
}

// DefaultTable registers the site's routes: home, each top-level page and
// one entry per guide sub-page index.
func DefaultTable(guideSections int) *Table {
	t := NewTable()
	for _, p := range Pages() {
		t.Register(p.Slug(), ChangePage(p))
	}
	t.RegisterSections(PageGuide, guideSections)

	return t
}

// Register maps key to msg. The last registration of a key wins.
func (t *Table) Register(key string, msg Message) {
	if _, exists := t.entries[key]; !exists {
		t.order = append(t.order, key)
	}
	t.entries[key] = msg
}

// RegisterSections marks page as sectioned with count sub-pages and
// registers "<slug>/<i>" for every index.
func (t *Table) RegisterSections(page Page, count int) {
	if count < 0 {
		count = 0
	}
	t.sections[page.Slug()] = sectioned{page: page, count: count}
	for i := 0; i < count; i++ {
		t.Register(page.Slug()+"/"+strconv.Itoa(i), Message{Kind: KindChangeSubpage, Page: page, Index: i})
	}
}

// Lookup returns the message registered for key.
func (t *Table) Lookup(key string) (Message, bool) {
	msg, ok := t.entries[key]

	return msg, ok
}

// Sections returns the sub-page count of a sectioned page.
func (t *Table) Sections(page Page) (int, bool) {
	s, ok := t.sections[page.Slug()]
	if !ok {
		return 0, false
	}

	return s.count, true
}

func (t *Table) sectionedBySlug(slug string) (sectioned, bool) {
	s, ok := t.sections[slug]

	return s, ok
}

// Len returns the number of registered keys.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the table rows in registration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, key := range t.order {
		msg := t.entries[key]
		out = append(out, Entry{Key: key, Message: msg, Name: msg.String()})
	}

	return out
}
