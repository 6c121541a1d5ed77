//go:build property

package router

import (
	"context"
	"strconv"
	"testing"

	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestResolveProperties validates the router's resolution rules over
// generated paths.
func TestResolveProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("guide/<n> resolves to ChangeSubpage(n)", prop.ForAll(
		func(sections, n int) bool {
			if n >= sections {
				return true
			}
			r := New(DefaultTable(sections), nil)
			msg, err := r.Resolve(NewURL("guide", strconv.Itoa(n)))

			return err == nil && msg == ChangeSubpage(n)
		},
		gen.IntRange(1, 64),
		gen.IntRange(0, 63),
	))

	properties.Property("registered single segments resolve to ChangePage", prop.ForAll(
		func(page Page) bool {
			r := New(DefaultTable(4), nil)
			msg, err := r.Resolve(NewURL(page.Slug()))

			return err == nil && msg == ChangePage(page)
		},
		gen.OneConstOf(PageHome, PageGuide, PageChangelog),
	))

	properties.Property("unregistered first segments resolve home without error", prop.ForAll(
		func(first string, rest []string) bool {
			if _, known := ParsePage(first); known {
				return true
			}
			r := New(DefaultTable(4), nil)
			msg, err := r.Resolve(NewURL(append([]string{first}, rest...)...))

			return err == nil && msg == ChangePage(PageHome)
		},
		gen.AlphaString(),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("a segment holding a slash never reaches a nested route", prop.ForAll(
		func(sections, n int) bool {
			r := New(DefaultTable(sections), nil)
			msg, err := r.Resolve(NewURL("guide/" + strconv.Itoa(n)))

			return err == nil && msg == ChangePage(PageHome)
		},
		gen.IntRange(1, 64),
		gen.IntRange(0, 63),
	))

	properties.Property("non-numeric subpages fail predictably", prop.ForAll(
		func(segment string) bool {
			if segment == "" {
				return true
			}
			if _, err := strconv.ParseUint(segment, 10, 0); err == nil {
				return true
			}
			r := New(DefaultTable(4), nil)
			msg, err := r.Resolve(NewURL("guide", segment))

			return siteerrors.IsInvalidSubpageIndex(err) && msg == ChangeSubpage(0)
		},
		gen.AnyString(),
	))

	properties.Property("resolve is idempotent", prop.ForAll(
		func(path []string) bool {
			r := New(DefaultTable(8), nil)
			u := NewURL(path...)
			first, err1 := r.Resolve(u)
			second, err2 := r.Resolve(u)

			return first == second && (err1 == nil) == (err2 == nil)
		},
		gen.SliceOf(gen.OneGenOf(gen.AlphaString(), gen.NumString(), gen.Const("guide"))),
	))

	properties.TestingRun(t)
}

// TestNavigateProperties validates the one-mutation-per-intent rule.
func TestNavigateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(8642)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("every intent mutates history once and matches Resolve", prop.ForAll(
		func(indexes []int) bool {
			history := NewMemoryHistory(NewURL())
			r := New(DefaultTable(16), history)

			applied := 0
			for _, i := range indexes {
				transition, err := r.Navigate(context.Background(), RouteSubpage(i))
				if err != nil {
					return false
				}
				applied++
				resolved, err := r.Resolve(transition.Op.URL)
				if err != nil || resolved != transition.Msg {
					return false
				}
			}

			return len(history.Applied()) == applied
		},
		gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.Property("back/forward resolution never pushes", prop.ForAll(
		func(indexes []int, backs int) bool {
			history := NewMemoryHistory(NewURL())
			r := New(DefaultTable(16), history)
			for _, i := range indexes {
				if _, err := r.Navigate(context.Background(), RouteSubpage(i)); err != nil {
					return false
				}
			}
			before := len(history.Applied())

			for j := 0; j < backs; j++ {
				u, _ := history.Back()
				if _, err := r.Resolve(u); err != nil {
					return false
				}
			}

			return len(history.Applied()) == before
		},
		gen.SliceOf(gen.IntRange(0, 15)),
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}
