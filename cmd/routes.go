package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/sprout/internal/router"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var routesCmd = &cobra.Command{
	Use:     "routes",
	Aliases: []string{"r"},
	Short:   "List the route table",
	Long: `List every URL the site resolves and the message it produces.

The table is built from the guide manifest, so one guide/<n> route appears
per section. Any URL not listed resolves to the home page.

Examples:
  sprout routes                       # Table output
  sprout routes -f json               # JSON output
  sprout routes --content-dir docs    # Routes for docs on disk`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
	PreRunE: bindFlags(map[string]string{
		"content-dir": "content.dir",
	}),
}

var routesFormat string

// routeRow is one line of output.
type routeRow struct {
	URL     string `json:"url" yaml:"url"`
	Key     string `json:"key" yaml:"key"`
	Message string `json:"message" yaml:"message"`
}

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().StringVarP(&routesFormat, "format", "f", "table", "Output format (table|json|yaml)")
	routesCmd.Flags().String("content-dir", "", "Directory holding guide.yaml and changelog.yaml (default: embedded)")

	AddFlagValidation(routesCmd.Flags(), "format", ValidateFormat(outputFormats))
	AddFlagValidation(routesCmd.Flags(), "content-dir", ValidateDir)
}

func runRoutes(cmd *cobra.Command, args []string) error {
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

	table := router.DefaultTable(len(store.Site().Guide))
	rows := make([]routeRow, 0, table.Len())
	for _, entry := range table.Entries() {
		rows = append(rows, routeRow{
			URL:     router.NewURL(strings.Split(entry.Key, "/")...).String(),
			Key:     entry.Key,
			Message: entry.Name,
		})
	}

	return writeRows(cmd.OutOrStdout(), routesFormat, rows, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "URL\tMESSAGE")
		for _, row := range rows {
			fmt.Fprintf(tw, "%s\t%s\n", row.URL, row.Message)
		}

		return tw.Flush()
	})
}

// writeRows encodes v as JSON or YAML, or calls table for table output.
func writeRows(w io.Writer, format string, v interface{}, table func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(v)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}

		return encoder.Close()
	default:
		return table(w)
	}
}
