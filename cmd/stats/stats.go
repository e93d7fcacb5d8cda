// Package stats implements the command that describes the loaded dictionary.
package stats

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/endorses/wordmask/internal/pkg/cmdutil"
	"github.com/endorses/wordmask/internal/pkg/output"
	"github.com/endorses/wordmask/internal/pkg/sensitive"
	"github.com/spf13/cobra"
)

// Report is the output of wm stats.
type Report struct {
	sensitive.Stats
	Sources []SourceInfo `json:"sources"`
}

// SourceInfo describes one configured dictionary source.
type SourceInfo struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
	Size int64  `json:"size_bytes"`
}

// NewStatsCmd returns the stats command.
func NewStatsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Load the dictionary and describe it",
		Long: `Load the configured dictionary with the configured strategy and print the
pattern and node counts, the dictionary fingerprint and the build time.

Examples:
  wm stats -w words.yaml
  wm stats --db words.db --strategy skip_aware_linear --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdutil.LoadServiceConfig()
			if err != nil {
				return cmdutil.Exit(cmdutil.ExitUsage, err)
			}
			svc, closeFn, err := cmdutil.BuildService(cmd.Context(), cfg)
			if err != nil {
				return cmdutil.Exit(cmdutil.ExitUsage, err)
			}
			defer closeFn()

			report := Report{Stats: svc.Stats()}
			if cfg.WordsFile != "" {
				report.Sources = append(report.Sources, sourceInfo("file", cfg.WordsFile))
			}
			if cfg.DBPath != "" {
				report.Sources = append(report.Sources, sourceInfo("db", cfg.DBPath))
			}

			if asJSON {
				return output.WriteJSON(cmd.OutOrStdout(), report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func sourceInfo(kind, path string) SourceInfo {
	info := SourceInfo{Kind: kind, Path: path}
	if fi, err := os.Stat(path); err == nil {
		info.Size = fi.Size()
	}
	return info
}

func printReport(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Strategy:\t%s\n", r.Strategy)
	fmt.Fprintf(tw, "Patterns:\t%s\n", humanize.Comma(int64(r.PatternCount)))
	fmt.Fprintf(tw, "Nodes:\t%s\n", humanize.Comma(int64(r.NodeCount)))
	fmt.Fprintf(tw, "Fingerprint:\t%016x\n", r.Fingerprint)
	fmt.Fprintf(tw, "Generation:\t%s\n", r.Generation)
	fmt.Fprintf(tw, "Built:\t%s in %s\n", r.LastBuildTime.Format(time.RFC3339), r.LastBuildDuration.Round(time.Microsecond))
	for _, s := range r.Sources {
		fmt.Fprintf(tw, "Source:\t%s %s (%s)\n", s.Kind, s.Path, humanize.Bytes(uint64(s.Size)))
	}
	return tw.Flush()
}
