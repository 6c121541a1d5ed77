package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/conneroisu/sprout/internal/build"
	"github.com/conneroisu/sprout/internal/version"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Export the site as static HTML",
	Long: `Render every route into a directory of static HTML pages.

Each route gets an index.html under its own directory, so the export can be
served from the root of any static file host. With --base-url a sitemap.xml
and robots.txt can be generated too.

Examples:
  sprout build                                   # Write ./dist
  sprout build -o public --content-dir docs      # Export docs from disk
  sprout build --base-url https://sprout.dev --sitemap`,
	Args:    cobra.NoArgs,
	PreRunE: bindFlags(map[string]string{"content-dir": "content.dir"}),
	RunE:    runBuild,
}

var (
	buildOutput  string
	buildBaseURL string
	buildSitemap bool
	buildQuiet   bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "dist", "Output directory")
	buildCmd.Flags().StringVar(&buildBaseURL, "base-url", "", "Absolute site URL used in the sitemap")
	buildCmd.Flags().BoolVar(&buildSitemap, "sitemap", false, "Write sitemap.xml and robots.txt")
	buildCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "Only print errors")
	buildCmd.Flags().String("content-dir", "", "Directory holding guide.yaml and changelog.yaml (default: embedded)")

	AddFlagValidation(buildCmd.Flags(), "content-dir", ValidateDir)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildSitemap && buildBaseURL == "" {
		return fmt.Errorf("--sitemap requires --base-url")
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := loadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	generator := build.NewStaticSiteGenerator(buildOutput, logger)
	pages, err := generator.Generate(ctx, store.Site(), build.StaticGenerationOptions{
		BaseURL:         buildBaseURL,
		GenerateSitemap: buildSitemap,
		Version:         version.GetVersion(),
		BuildTime:       start.UTC(),
	})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if buildQuiet {
		return nil
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tFILE\tSIZE\tHASH")
	for _, page := range pages {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", page.Path, page.File, page.Size, page.Hash)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nBuilt %d pages into %s in %s\n", len(pages), buildOutput, time.Since(start).Round(time.Millisecond))

	return nil
}
