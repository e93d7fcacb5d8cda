package words

import (
	"fmt"

	"github.com/endorses/wordmask/internal/pkg/dictionary"
	"github.com/endorses/wordmask/internal/pkg/logger"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add WORD...",
		Short: "Add words to the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *dictionary.BoltStore) error {
				added, err := store.Add(args...)
				if err != nil {
					return err
				}
				logger.Info("Words added", "db", store.Path(), "added", added, "requested", len(args))
				fmt.Fprintf(cmd.OutOrStdout(), "added %d of %d words\n", added, len(args))
				return nil
			})
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm WORD...",
		Aliases: []string{"remove"},
		Short:   "Remove words from the database",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *dictionary.BoltStore) error {
				removed, err := store.Remove(args...)
				if err != nil {
					return err
				}
				logger.Info("Words removed", "db", store.Path(), "removed", removed, "requested", len(args))
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d of %d words\n", removed, len(args))
				return nil
			})
		},
	}
}
