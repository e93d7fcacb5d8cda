// Package watch implements the long-running redaction filter. It redacts
// standard input line by line while the dictionary is reloaded in place.
package watch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/endorses/wordmask/internal/pkg/cmdutil"
	"github.com/endorses/wordmask/internal/pkg/constants"
	"github.com/endorses/wordmask/internal/pkg/dictionary"
	"github.com/endorses/wordmask/internal/pkg/logger"
	"github.com/endorses/wordmask/internal/pkg/metrics"
	"github.com/endorses/wordmask/internal/pkg/sensitive"
	"github.com/endorses/wordmask/internal/pkg/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewWatchCmd returns the watch command.
func NewWatchCmd() *cobra.Command {
	var metricsPort int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Redact standard input while reloading the dictionary live",
		Long: `Redact standard input line by line until it ends or the process is
interrupted. Each line is written as soon as it is redacted.

The dictionary is reloaded without interrupting the stream:
  - when the word file (--words) changes on disk
  - when the process receives SIGHUP (re-reads the word file and database)

A failed reload is logged and the previous dictionary stays in use.

With --metrics-port, Prometheus metrics are served on /metrics and the
current dictionary generation on /health.

Examples:
  tail -f app.log | wm watch -w words.yaml
  tail -f app.log | wm watch --db words.db --metrics-port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, viper.GetInt("metrics.port"), cmdutil.GetDurationConfig(cmd, "debounce", "watch.debounce"))
		},
	}

	cmd.Flags().IntVar(&metricsPort, "metrics-port", 0, "serve Prometheus metrics on this port (0 disables)")
	cmd.Flags().Duration("debounce", constants.WatchDebounce, "how long word file changes must settle before a reload")

	_ = viper.BindPFlag("metrics.port", cmd.Flags().Lookup("metrics-port"))

	return cmd
}

func runWatch(cmd *cobra.Command, metricsPort int, debounce time.Duration) error {
	cfg, err := cmdutil.LoadServiceConfig()
	if err != nil {
		return cmdutil.Exit(cmdutil.ExitUsage, err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cleanup := signals.SetupHandler(ctx, cancel)
	defer cleanup()

	var (
		svc      *sensitive.Service
		exporter *metrics.Exporter
		opts     []sensitive.Option
	)
	if metricsPort > 0 {
		exporter = metrics.NewExporter(fmt.Sprintf(":%d", metricsPort), func() any {
			return svc.Stats()
		})
		recorder, err := metrics.NewRecorder(exporter.Registry())
		if err != nil {
			return err
		}
		opts = append(opts, sensitive.WithObserver(recorder))
	}

	svc, closeFn, err := cmdutil.BuildService(ctx, cfg, opts...)
	if err != nil {
		return cmdutil.Exit(cmdutil.ExitUsage, err)
	}
	defer closeFn()

	if exporter != nil {
		if err := exporter.Start(); err != nil {
			return err
		}
		defer func() {
			if err := exporter.Stop(); err != nil {
				logger.Error("Failed to stop metrics server", "error", err)
			}
		}()
	}

	if cfg.WordsFile != "" {
		// The file may be one of several sources, so a change reloads them all.
		watcher := dictionary.NewWatcher(cfg.WordsFile, func(ctx context.Context, _ []string) error {
			return svc.Reload(ctx)
		}, dictionary.WatcherConfig{Debounce: debounce})
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.Error("Failed to stop word file watcher", "error", err)
			}
		}()
	}

	reloadCleanup := signals.SetupReloadHandler(ctx, func() {
		// Errors are logged by the service; the old dictionary stays active.
		_ = svc.Reload(ctx)
	})
	defer reloadCleanup()

	stats := svc.Stats()
	logger.Info("Watching standard input",
		"strategy", stats.Strategy,
		"patterns", stats.PatternCount,
		"generation", stats.Generation)

	return pipe(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), svc.Redact)
}

// pipe copies r to w line by line through redact, flushing after every line.
// It returns nil when r is exhausted or ctx is cancelled.
func pipe(ctx context.Context, r io.Reader, w io.Writer, redact func(string) string) error {
	lines := make(chan string, constants.LineChannelBuffer)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					readErr <- err
				}
				return
			}
		}
	}()

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("failed to read input: %w", err)
				default:
					return nil
				}
			}
			if err := writeLine(bw, line, redact); err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return err
			}
		}
	}
}

func writeLine(w *bufio.Writer, raw string, redact func(string) string) error {
	body := strings.TrimRight(raw, "\r\n")
	if _, err := w.WriteString(redact(body)); err != nil {
		return err
	}
	_, err := w.WriteString(raw[len(body):])
	return err
}
