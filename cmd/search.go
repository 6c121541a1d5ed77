package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/sprout/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the guide and changelog",
	Long: `Build the search index the server uses and print the best matches.

Examples:
  sprout search routing
  sprout search "history entry" -n 3 -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
	PreRunE: bindFlags(map[string]string{
		"content-dir": "content.dir",
	}),
}

var (
	searchLimit  int
	searchFormat string
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "Maximum number of results")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "table", "Output format (table|json|yaml)")
	searchCmd.Flags().String("content-dir", "", "Directory holding guide.yaml and changelog.yaml (default: embedded)")

	AddFlagValidation(searchCmd.Flags(), "format", ValidateFormat(outputFormats))
	AddFlagValidation(searchCmd.Flags(), "content-dir", ValidateDir)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchLimit < 1 {
		return fmt.Errorf("--limit must be positive, got %d", searchLimit)
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

	index, err := search.Build(store.Site())
	if err != nil {
		return err
	}
	defer index.Close()

	query := strings.Join(args, " ")
	hits, err := index.Search(ctx, query, searchLimit)
	if err != nil {
		return err
	}

	return writeRows(cmd.OutOrStdout(), searchFormat, hits, func(w io.Writer) error {
		if len(hits) == 0 {
			_, err := fmt.Fprintf(w, "No results for %q\n", query)

			return err
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SCORE\tTITLE\tURL")
		for _, hit := range hits {
			fmt.Fprintf(tw, "%.3f\t%s\t%s\n", hit.Score, hit.Title, hit.URL)
		}

		return tw.Flush()
	})
}
