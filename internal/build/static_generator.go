// Package build exports the site as static HTML: one index.html per route,
// plus the stylesheets, a page manifest, and optionally a sitemap and
// robots.txt.
package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conneroisu/sprout/internal/app"
	"github.com/conneroisu/sprout/internal/content"
	"github.com/conneroisu/sprout/internal/logging"
	"github.com/conneroisu/sprout/internal/router"
	"github.com/conneroisu/sprout/internal/view"
)

// StaticGenerationOptions configures an export.
type StaticGenerationOptions struct {
	// BaseURL is the public origin used in sitemap.xml and robots.txt.
	BaseURL         string    `json:"base_url,omitempty"`
	GenerateSitemap bool      `json:"generate_sitemap"`
	Version         string    `json:"version,omitempty"`
	BuildTime       time.Time `json:"build_time"`
}

// StaticPage is one generated page.
type StaticPage struct {
	Path  string `json:"path"`
	File  string `json:"file"`
	Title string `json:"title"`
	Size  int64  `json:"size"`
	Hash  string `json:"hash"`
}

// StaticSiteGenerator writes the site into outputDir.
type StaticSiteGenerator struct {
	outputDir string
	logger    logging.Logger
}

// NewStaticSiteGenerator creates a generator writing into outputDir.
func NewStaticSiteGenerator(outputDir string, logger logging.Logger) *StaticSiteGenerator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &StaticSiteGenerator{
		outputDir: outputDir,
		logger:    logger.WithComponent("build"),
	}
}

// Generate renders every route in the site's route table. Each page is
// produced the way a first load would be: a fresh program initialised at
// the route's URL, so the export never touches history.
func (s *StaticSiteGenerator) Generate(
	ctx context.Context,
	site *content.Site,
	options StaticGenerationOptions,
) ([]StaticPage, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	table := router.DefaultTable(len(site.Guide))
	r := router.New(table, nil)

	pages := make([]StaticPage, 0, table.Len())
	for _, entry := range table.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.generatePage(ctx, r, site, entry.Key, options)
		if err != nil {
			return nil, fmt.Errorf("failed to generate page %q: %w", entry.Key, err)
		}
		pages = append(pages, page)
	}

	if err := s.writeAssets(site); err != nil {
		return nil, err
	}
	if err := s.writeManifest(pages, options); err != nil {
		return nil, err
	}
	if options.GenerateSitemap {
		if err := s.generateSitemap(pages, options); err != nil {
			return nil, err
		}
		if err := s.generateRobotsTxt(options); err != nil {
			return nil, err
		}
	}

	s.logger.Info(ctx, "Static site generated",
		"pages", len(pages),
		"output", s.outputDir)

	return pages, nil
}

func (s *StaticSiteGenerator) generatePage(
	ctx context.Context,
	r *router.Router,
	site *content.Site,
	key string,
	options StaticGenerationOptions,
) (StaticPage, error) {
	u := router.NewURL(strings.Split(key, "/")...)

	program := app.NewProgram(r, s.logger)
	data := view.Data{
		Model:       program.Init(ctx, u),
		Site:        site,
		Version:     options.Version,
		AssetPrefix: relativePrefix(len(u.Path)),
	}

	var buf bytes.Buffer
	if err := view.Document(data).Render(ctx, &buf); err != nil {
		return StaticPage{}, err
	}

	rel := filepath.Join(filepath.FromSlash(key), "index.html")
	if err := s.writeFile(rel, buf.Bytes()); err != nil {
		return StaticPage{}, err
	}

	sum := sha256.Sum256(buf.Bytes())

	return StaticPage{
		Path:  u.String(),
		File:  filepath.ToSlash(rel),
		Title: view.Title(data),
		Size:  int64(buf.Len()),
		Hash:  hex.EncodeToString(sum[:8]),
	}, nil
}

// relativePrefix is the path from a page depth levels deep back to the
// export root, so the export works from any base path.
func relativePrefix(depth int) string {
	if depth == 0 {
		return "."
	}

	return strings.TrimSuffix(strings.Repeat("../", depth), "/")
}

func (s *StaticSiteGenerator) writeAssets(site *content.Site) error {
	err := fs.WalkDir(view.Static(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		// The live session script has no server to talk to.
		if path == "app.js" {
			return nil
		}
		data, err := fs.ReadFile(view.Static(), path)
		if err != nil {
			return err
		}

		return s.writeFile(filepath.Join("static", filepath.FromSlash(path)), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write static assets: %w", err)
	}

	return s.writeFile(filepath.Join("static", "highlight.css"), []byte(site.CSS))
}

func (s *StaticSiteGenerator) writeManifest(pages []StaticPage, options StaticGenerationOptions) error {
	manifest := struct {
		Options StaticGenerationOptions `json:"options"`
		Pages   []StaticPage            `json:"pages"`
	}{options, pages}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	return s.writeFile("manifest.json", data)
}

func (s *StaticSiteGenerator) generateSitemap(pages []StaticPage, options StaticGenerationOptions) error {
	baseURL := strings.TrimSuffix(options.BaseURL, "/")
	lastMod := options.BuildTime
	if lastMod.IsZero() {
		lastMod = time.Now()
	}

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")
	for _, page := range pages {
		sitemap.WriteString("  <url>\n")
		fmt.Fprintf(&sitemap, "    <loc>%s%s</loc>\n", baseURL, page.Path)
		fmt.Fprintf(&sitemap, "    <lastmod>%s</lastmod>\n", lastMod.Format("2006-01-02"))
		sitemap.WriteString("  </url>\n")
	}
	sitemap.WriteString("</urlset>\n")

	return s.writeFile("sitemap.xml", []byte(sitemap.String()))
}

func (s *StaticSiteGenerator) generateRobotsTxt(options StaticGenerationOptions) error {
	robots := "User-agent: *\nAllow: /\n"
	if options.BaseURL != "" {
		robots += fmt.Sprintf("Sitemap: %s/sitemap.xml\n", strings.TrimSuffix(options.BaseURL, "/"))
	}

	return s.writeFile("robots.txt", []byte(robots))
}

func (s *StaticSiteGenerator) writeFile(rel string, data []byte) error {
	path := filepath.Join(s.outputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}

	return nil
}
