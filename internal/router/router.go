// Package router maps browser locations to application messages and turns
// navigation intents into history mutations.
//
// Two message families keep the address bar and the model in sync without
// recursion. Route* messages come only from user interaction; Navigate
// turns one into exactly one history mutation plus the matching Change*
// message. Change* messages come only from Resolve (initial load,
// back/forward) and from Navigate, and never touch history.
package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	siteerrors "github.com/conneroisu/sprout/internal/errors"
)

// Transition pairs the history mutation of a navigation with the state
// change the caller applies afterwards.
type Transition struct {
	Op  HistoryOp
	Msg Message
}

// Router resolves locations against a route table and applies navigation
// intents to a History.
type Router struct {
	table   *Table
	history History
}

// New builds a router. A nil history is replaced by NoHistory so that the
// router stays usable for Resolve outside a browser.
func New(table *Table, history History) *Router {
	if table == nil {
		table = NewTable()
	}
	if history == nil {
		history = NoHistory{}
	}

	return &Router{table: table, history: history}
}

// Table returns the route table.
func (r *Router) Table() *Table {
	return r.table
}

// History returns the history service the router mutates.
func (r *Router) History() History {
	return r.history
}

// Resolve maps u to the Change* message that brings the model in line with
// it. It has no side effects.
//
// Unknown paths resolve to the home page and are not errors. Segments are
// matched one by one, so an escaped slash ("/guide%2F3") never reaches a
// nested route. A sub-page
// segment that is not a non-negative integer, or is out of range, yields
// ChangeSubpage(0) for that page together with an InvalidSubpageIndex
// error; the message is always safe to apply.
func (r *Router) Resolve(u URL) (Message, error) {
	if len(u.Path) == 0 {
		return ChangePage(PageHome), nil
	}

	first := u.Path[0]
	if strings.Contains(first, "/") {
		return ChangePage(PageHome), nil
	}

	if !u.hasSlashInSegment() {
		if msg, ok := r.table.Lookup(u.Key()); ok {
			return msg, nil
		}
	}

	if s, ok := r.table.sectionedBySlug(first); ok && len(u.Path) >= 2 {
		index, err := parseSubpage(u.Path[1], s.count)
		fallback := Message{Kind: KindChangeSubpage, Page: s.page}
		if err != nil {
			return fallback, err
		}
		fallback.Index = index

		return fallback, nil
	}

	if msg, ok := r.table.Lookup(first); ok {
		return msg, nil
	}

	return ChangePage(PageHome), nil
}

func parseSubpage(segment string, count int) (int, error) {
	n, err := strconv.ParseUint(segment, 10, 0)
	if err != nil {
		return 0, siteerrors.ErrInvalidSubpageIndex(segment, err)
	}
	if n >= uint64(count) {
		return 0, siteerrors.ErrInvalidSubpageIndex(
			segment,
			fmt.Errorf("index %d out of range [0, %d)", n, count),
		)
	}

	return int(n), nil
}

// URLFor builds the location an intent or state-change message addresses.
func (r *Router) URLFor(msg Message) URL {
	switch msg.Kind {
	case KindChangeSubpage, KindRouteSubpage:
		return NewURL(msg.Page.Slug(), strconv.Itoa(msg.Index))
	default:
		return NewURL(msg.Page.Slug())
	}
}

// Plan computes the transition for intent without touching history. The
// transition's message is what Resolve yields for the target URL.
func (r *Router) Plan(intent Message) (Transition, error) {
	if !intent.IsIntent() {
		return Transition{}, siteerrors.ErrInvalidIntent(intent)
	}

	target := r.URLFor(intent)
	msg, err := r.Resolve(target)
	if err != nil {
		return Transition{}, err
	}

	return Transition{
		Op:  HistoryOp{Kind: OpPush, URL: target},
		Msg: msg,
	}, nil
}

// Navigate plans intent and performs its history mutation: a push, or a
// replace when history already sits on the target so no duplicate entry is
// created. A failed mutation is reported as HistoryUnavailable alongside
// the full transition; the caller still applies Transition.Msg.
func (r *Router) Navigate(ctx context.Context, intent Message) (Transition, error) {
	t, err := r.Plan(intent)
	if err != nil {
		return Transition{}, err
	}

	if current, locErr := r.history.Location(); locErr == nil && current.Equal(t.Op.URL) {
		t.Op.Kind = OpReplace
	}

	if err := r.history.Apply(ctx, t.Op); err != nil {
		if !siteerrors.IsHistoryUnavailable(err) {
			err = siteerrors.ErrHistoryUnavailable(err)
		}

		return t, err
	}

	return t, nil
}
