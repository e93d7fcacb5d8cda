// Package scan implements the batch commands that read files or standard
// input line by line: redact, check and spans.
package scan

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/endorses/wordmask/internal/pkg/ahocorasick"
	"github.com/endorses/wordmask/internal/pkg/cmdutil"
	"github.com/endorses/wordmask/internal/pkg/output"
	"github.com/endorses/wordmask/internal/pkg/sensitive"
	"github.com/spf13/cobra"
)

func addIncludeFlag(cmd *cobra.Command, include *[]string) {
	cmd.Flags().StringSliceVar(include, "include", nil, "when a directory is given, only read files matching these glob patterns (e.g. '**/*.txt')")
}

func newService(ctx context.Context, opts ...sensitive.Option) (*sensitive.Service, func() error, error) {
	cfg, err := cmdutil.LoadServiceConfig()
	if err != nil {
		return nil, nil, cmdutil.Exit(cmdutil.ExitUsage, err)
	}
	svc, closeFn, err := cmdutil.BuildService(ctx, cfg, opts...)
	if err != nil {
		return nil, nil, cmdutil.Exit(cmdutil.ExitUsage, err)
	}
	return svc, closeFn, nil
}

// NewRedactCmd returns the redact command.
func NewRedactCmd() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "redact [file|dir|-]...",
		Short: "Print input with forbidden words masked",
		Long: `Print every input line with forbidden words replaced by the mask character.

Input is read from the named files, directories or standard input. Line
terminators are preserved and every masked line keeps its length in
characters.

Examples:
  wm redact -w words.txt notes.txt
  echo "a bad day" | wm redact -w words.txt
  wm redact --db words.db --strategy skip_aware_linear --include '**/*.md' docs/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()

			return eachInput(cmd, args, cmdutil.GetStringSliceConfig("scan.include", include), func(name string, r io.Reader) error {
				return eachLine(r, func(_ int, line, eol string) error {
					if _, err := w.WriteString(svc.Redact(line)); err != nil {
						return err
					}
					_, err := w.WriteString(eol)
					return err
				})
			})
		},
	}
	addIncludeFlag(cmd, &include)
	return cmd
}

// NewCheckCmd returns the check command.
func NewCheckCmd() *cobra.Command {
	var (
		include []string
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "check [file|dir|-]...",
		Short: "Report lines containing forbidden words",
		Long: `Report every input line that contains a forbidden word as
"name:line: redacted text". The matched words themselves are never printed.

Exit status is 0 when nothing was found, 1 when at least one line matched and
2 on usage or configuration errors.

Examples:
  wm check -w words.txt README.md
  git diff | wm check --db words.db -q && echo clean`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()

			found := 0
			err = eachInput(cmd, args, cmdutil.GetStringSliceConfig("scan.include", include), func(name string, r io.Reader) error {
				return eachLine(r, func(n int, line, _ string) error {
					if !svc.Contains(line) {
						return nil
					}
					found++
					if quiet {
						return nil
					}
					_, err := fmt.Fprintf(w, "%s:%d: %s\n", name, n, svc.Redact(line))
					return err
				})
			})
			if err != nil {
				return err
			}
			if found > 0 {
				return cmdutil.Exit(cmdutil.ExitFound, nil)
			}
			return nil
		},
	}
	addIncludeFlag(cmd, &include)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print nothing, only set the exit status")
	return cmd
}

type spanRecord struct {
	File  string `json:"file,omitempty"`
	Line  int    `json:"line"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// NewSpansCmd returns the spans command.
func NewSpansCmd() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "spans [file|dir|-]...",
		Short: "Print every match as a JSON line",
		Long: `Print one JSON object per match, including overlapping and nested
matches. start and end are character offsets within the line, end exclusive.
This command always uses the aho_corasick_spans strategy.

Example:
  echo "ushers" | wm spans -w words.txt
  {"line":1,"start":1,"end":4,"text":"she"}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService(cmd.Context(), sensitive.WithStrategy(ahocorasick.StrategySpans))
			if err != nil {
				return err
			}
			defer closeFn()

			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()

			return eachInput(cmd, args, cmdutil.GetStringSliceConfig("scan.include", include), func(name string, r io.Reader) error {
				file := name
				if file == stdinName {
					file = ""
				}
				return eachLine(r, func(n int, line, _ string) error {
					spans, _ := svc.Matches(line)
					if len(spans) == 0 {
						return nil
					}
					runes := []rune(line)
					for _, s := range spans {
						rec := spanRecord{File: file, Line: n, Start: s.Start, End: s.End, Text: string(runes[s.Start:s.End])}
						if err := output.WriteJSONLine(w, rec); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
	addIncludeFlag(cmd, &include)
	return cmd
}
