package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/palindromi-fi/builder/internal/palindrome"
)

var errNotAPalindrome = errors.New("not a palindrome")

func checkCmd() *cobra.Command {
	var letters string

	c := &cobra.Command{
		Use:   "check <text>...",
		Short: "Check whether a text is a palindrome",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			norm, err := palindrome.NewNormalizer(letters)
			if err != nil {
				return err
			}
			checker := palindrome.NewChecker(norm)

			text := strings.Join(args, " ")
			if !checker.Check(text) {
				cmd.Printf("%q ei ole palindromi\n", text)
				return errNotAPalindrome
			}
			cmd.Printf("%q on palindromi!\n", text)
			return nil
		},
	}

	c.Flags().StringVar(&letters, "letters", palindrome.DefaultLetters,
		"Character class kept when normalizing, in regexp range syntax")
	return c
}
