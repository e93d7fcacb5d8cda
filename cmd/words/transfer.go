package words

import (
	"bufio"
	"fmt"

	"github.com/endorses/wordmask/internal/pkg/cmdutil"
	"github.com/endorses/wordmask/internal/pkg/dictionary"
	"github.com/endorses/wordmask/internal/pkg/logger"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Add every word of a word file to the database",
		Long: `Add every word of a word file to the database. Files ending in .yaml or
.yml are read as a "words:" list; any other file has one word per line,
with blank lines and lines starting with # ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := dictionary.ParseFile(args[0])
			if err != nil {
				return cmdutil.Exit(cmdutil.ExitUsage, err)
			}
			return withStore(func(store *dictionary.BoltStore) error {
				added, err := store.Add(words...)
				if err != nil {
					return err
				}
				logger.Info("Words imported", "db", store.Path(), "file", args[0], "added", added, "read", len(words))
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d new of %d words from %s\n", added, len(words), args[0])
				return nil
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE|-",
		Short: "Write every word to a word file",
		Long: `Write every word of the database to FILE, replacing it atomically. The
format follows the extension as for import. With "-" the words are printed
one per line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *dictionary.BoltStore) error {
				words, err := store.ListPatterns(cmd.Context())
				if err != nil {
					return err
				}

				if args[0] == "-" {
					w := bufio.NewWriter(cmd.OutOrStdout())
					for _, word := range words {
						_, _ = w.WriteString(word)
						_ = w.WriteByte('\n')
					}
					return w.Flush()
				}

				if err := dictionary.WriteFile(args[0], words); err != nil {
					return err
				}
				logger.Info("Words exported", "db", store.Path(), "file", args[0], "count", len(words))
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d words to %s\n", len(words), args[0])
				return nil
			})
		},
	}
}
