package cli

import (
	"github.com/spf13/cobra"

	"github.com/palindromi-fi/builder/internal/database"
)

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load [database-directory]",
		Short: "Load the YAML palindrome database and dump it in the site format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseDir := "./database"
			if len(args) == 1 {
				databaseDir = args[0]
			}

			palindromes, err := database.Read(databaseDir)
			if err != nil {
				return err
			}
			return database.Dump(cmd.OutOrStdout(), palindromes)
		},
	}
}
