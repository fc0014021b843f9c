// Package cli is the palindromi command tree: render the site, dump the
// loaded database, check a candidate palindrome.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the command tree and exits non-zero on any error. Errors
// carry the offending file in their message, so the operator can fix the
// input and rerun.
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "palindromi",
		Short:         "palindromi — build the palindromi.fi static site from its YAML database",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(verbose)
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(renderCmd())
	cmd.AddCommand(loadCmd())
	cmd.AddCommand(checkCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

func setupLogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
