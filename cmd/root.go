package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/endorses/wordmask/cmd/scan"
	"github.com/endorses/wordmask/cmd/stats"
	"github.com/endorses/wordmask/cmd/watch"
	"github.com/endorses/wordmask/cmd/words"
	"github.com/endorses/wordmask/internal/pkg/ahocorasick"
	"github.com/endorses/wordmask/internal/pkg/cmdutil"
	"github.com/endorses/wordmask/internal/pkg/logger"
	"github.com/endorses/wordmask/internal/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	configErr error
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wm",
		Short: "wordmask finds and masks forbidden words",
		Long: fmt.Sprintf(`wordmask %s - dictionary-based detection and redaction of forbidden words

The dictionary comes from a word file (--words), a bbolt database (--db), or
both. Matching uses one of three strategies:

  aho_corasick_spans          report every occurrence, mask their union
  aho_corasick_greedy_redact  single pass, longer patterns win (default)
  skip_aware_linear           ignores ASCII case and noise runes ("b-a-d")`, version.GetVersion()),
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configErr != nil {
				return configErr
			}
			return logger.Configure(logger.Options{
				Level:  viper.GetString("log.level"),
				Format: viper.GetString("log.format"),
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wordmask/config.yaml)")
	flags.String("strategy", string(ahocorasick.StrategyGreedyRedact), "matching strategy (aho_corasick_spans, aho_corasick_greedy_redact, skip_aware_linear)")
	flags.String("mask", string(ahocorasick.DefaultMaskRune), "character that replaces matched text")
	flags.String("noise", ahocorasick.DefaultNoiseRunes, "characters skip_aware_linear ignores inside a match")
	flags.StringP("words", "w", "", "dictionary word file (.yaml, or one word per line)")
	flags.String("db", "", "dictionary database file (bbolt)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default info, or $LOG_LEVEL)")
	flags.String("log-format", "text", "log format: text or json")

	// Bind to viper for config file support
	_ = viper.BindPFlag("strategy", flags.Lookup("strategy"))
	_ = viper.BindPFlag("mask", flags.Lookup("mask"))
	_ = viper.BindPFlag("noise", flags.Lookup("noise"))
	_ = viper.BindPFlag("dictionary.file", flags.Lookup("words"))
	_ = viper.BindPFlag("dictionary.db", flags.Lookup("db"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(scan.NewRedactCmd())
	root.AddCommand(scan.NewCheckCmd())
	root.AddCommand(scan.NewSpansCmd())
	root.AddCommand(words.NewWordsCmd())
	root.AddCommand(watch.NewWatchCmd())
	root.AddCommand(stats.NewStatsCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits with its exit code.
func Execute() {
	err := rootCmd.Execute()
	os.Exit(reportError(rootCmd.ErrOrStderr(), err))
}

// reportError prints err unless it only carries an exit code, and returns
// the process exit code.
func reportError(w io.Writer, err error) int {
	if err != nil && !cmdutil.Silent(err) {
		fmt.Fprintln(w, "Error:", err)
	}
	return cmdutil.ExitCode(err)
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	configErr = nil

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wordmask"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("WORDMASK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = cmdutil.Exit(cmdutil.ExitUsage, fmt.Errorf("failed to read config: %w", err))
		}
		return
	}
	logger.Debug("Using config file", "path", viper.ConfigFileUsed())
}
