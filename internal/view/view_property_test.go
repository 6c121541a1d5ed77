//go:build property

package view

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/conneroisu/sprout/internal/content"
	"github.com/conneroisu/sprout/internal/router"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var guideHref = regexp.MustCompile(`<a class="(guide-menu(?:-selected)?)" href="([^"]+)"`)

func sections(n int) []content.Section {
	out := make([]content.Section, n)
	for i := range out {
		out[i] = content.Section{Index: i, Title: fmt.Sprintf("Section %d", i), HTML: "<p>body</p>"}
	}

	return out
}

// TestGuideMenuProperties checks that the guide menu links agree with the
// router for any guide size and selection.
func TestGuideMenuProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(2468)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("every menu href resolves to the section it names", prop.ForAll(
		func(n, selected int) bool {
			var buf bytes.Buffer
			if err := Guide(sections(n), selected).Render(context.Background(), &buf); err != nil {
				return false
			}

			r := router.New(router.DefaultTable(n), nil)
			links := guideHref.FindAllStringSubmatch(buf.String(), -1)
			if len(links) != n {
				return false
			}
			for i, link := range links {
				u, err := router.ParseURL(link[2])
				if err != nil {
					return false
				}
				msg, err := r.Resolve(u)
				if err != nil || msg != router.ChangeSubpage(i) {
					return false
				}
			}

			return true
		},
		gen.IntRange(1, 40),
		gen.IntRange(-5, 45),
	))

	properties.Property("exactly one section is selected", prop.ForAll(
		func(n, selected int) bool {
			var buf bytes.Buffer
			if err := Guide(sections(n), selected).Render(context.Background(), &buf); err != nil {
				return false
			}

			want := selected
			if want < 0 || want >= n {
				want = 0
			}

			count := 0
			for _, link := range guideHref.FindAllStringSubmatch(buf.String(), -1) {
				if link[1] == "guide-menu-selected" {
					count++
					if !strings.HasSuffix(link[2], fmt.Sprintf("/%d", want)) {
						return false
					}
				}
			}

			return count == 1
		},
		gen.IntRange(1, 40),
		gen.IntRange(-5, 45),
	))

	properties.TestingRun(t)
}
