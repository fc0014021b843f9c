package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/palindromi-fi/builder/internal/config"
	"github.com/palindromi-fi/builder/internal/database"
	"github.com/palindromi-fi/builder/internal/render"
)

func renderCmd() *cobra.Command {
	var outputDirectory string
	var prune bool

	c := &cobra.Command{
		Use:   "render [database-directory]",
		Short: "Render all palindromes to HTML pages, leaving unmodified files untouched",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseDir := "./database"
			if len(args) == 1 {
				databaseDir = args[0]
			}

			site, err := config.Load(databaseDir)
			if err != nil {
				return err
			}

			palindromes, err := database.Read(databaseDir)
			if err != nil {
				return err
			}

			renderer, err := render.New(slog.Default(), site)
			if err != nil {
				return err
			}

			stats, err := renderer.Render(databaseDir, outputDirectory, palindromes, prune)
			if err != nil {
				return err
			}

			cmd.Printf("rendered %d pages into %s (%d files written)\n",
				stats.Pages, outputDirectory, stats.Written)
			return nil
		},
	}

	c.Flags().StringVarP(&outputDirectory, "output-directory", "o", "./html",
		"The directory to render the static webpages into")
	c.Flags().BoolVar(&prune, "prune", false,
		"Remove output files left over from palindromes no longer in the database")
	return c
}
