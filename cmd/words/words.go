// Package words implements the commands that manage the dictionary database.
package words

import (
	"errors"
	"fmt"

	"github.com/endorses/wordmask/internal/pkg/cmdutil"
	"github.com/endorses/wordmask/internal/pkg/dictionary"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNoDatabase = errors.New("no dictionary database configured (use --db or set dictionary.db in config)")

// NewWordsCmd returns the words command and its subcommands.
func NewWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Manage the dictionary database",
		Long: `Manage the bbolt dictionary database selected with --db.

Subcommands:
  list    - Print every word
  add     - Add words
  rm      - Remove words
  import  - Add every word of a word file
  export  - Write every word to a word file

Examples:
  wm words add --db words.db bad worse
  wm words import --db words.db words.yaml
  wm words export --db words.db - > words.txt`,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRmCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newExportCmd())
	return cmd
}

// withStore opens the configured database for the duration of fn.
func withStore(fn func(store *dictionary.BoltStore) error) error {
	path := viper.GetString("dictionary.db")
	if path == "" {
		return cmdutil.Exit(cmdutil.ExitUsage, errNoDatabase)
	}
	store, err := dictionary.OpenBoltStore(path)
	if err != nil {
		return cmdutil.Exit(cmdutil.ExitUsage, err)
	}
	defer store.Close()

	if err := fn(store); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
