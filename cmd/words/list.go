package words

import (
	"bufio"
	"fmt"

	"github.com/endorses/wordmask/internal/pkg/dictionary"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every word, sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *dictionary.BoltStore) error {
				if countOnly {
					n, err := store.Count()
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), n)
					return nil
				}

				words, err := store.ListPatterns(cmd.Context())
				if err != nil {
					return err
				}
				w := bufio.NewWriter(cmd.OutOrStdout())
				for _, word := range words {
					_, _ = w.WriteString(word)
					_ = w.WriteByte('\n')
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVarP(&countOnly, "count", "c", false, "print only the number of words")
	return cmd
}
