package cmd

import (
	"fmt"
	"io"

	"github.com/conneroisu/sprout/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionFormat string
	versionShort  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the version, git commit, build time, Go version and platform.

Examples:
  sprout version              # Human readable
  sprout version --short      # Version only
  sprout version -f json      # Machine readable`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")

	AddFlagValidation(versionCmd.Flags(), "format", ValidateFormat([]string{"text", "json", "yaml"}))
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if versionShort {
		_, err := fmt.Fprintln(out, version.GetShortVersion())

		return err
	}

	info := version.GetBuildInfo()

	return writeRows(out, versionFormat, info, func(w io.Writer) error {
		fmt.Fprintf(w, "sprout %s", info.Version)
		if len(info.GitCommit) >= 7 && info.GitCommit != "unknown" {
			fmt.Fprintf(w, " (%s)", info.GitCommit[:7])
		}
		if info.Dirty {
			fmt.Fprint(w, " (dirty)")
		}
		fmt.Fprintln(w)

		if !info.BuildTime.IsZero() {
			fmt.Fprintf(w, "Built: %s\n", info.BuildTime.UTC().Format("2006-01-02 15:04:05 UTC"))
		}
		fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
		_, err := fmt.Fprintf(w, "Platform: %s\n", info.Platform)

		return err
	})
}
