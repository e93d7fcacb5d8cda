package scan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/endorses/wordmask/internal/pkg/cmdutil"
	"github.com/endorses/wordmask/internal/pkg/logger"
	"github.com/spf13/cobra"
)

// stdinName names standard input in reports.
const stdinName = "-"

// inputFunc consumes one input. name is the path as given or found while
// walking a directory.
type inputFunc func(name string, r io.Reader) error

// eachInput calls fn for standard input when args is empty, and otherwise
// for every named file. Directories are walked recursively; when include is
// set only files whose slash-separated path relative to the directory (or
// whose base name) matches one of its doublestar patterns are read.
func eachInput(cmd *cobra.Command, args []string, include []string, fn inputFunc) error {
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return cmdutil.Exit(cmdutil.ExitUsage, fmt.Errorf("invalid --include pattern %q", pattern))
		}
	}

	if len(args) == 0 {
		return fn(stdinName, cmd.InOrStdin())
	}

	for _, arg := range args {
		if arg == stdinName {
			if err := fn(stdinName, cmd.InOrStdin()); err != nil {
				return err
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return cmdutil.Exit(cmdutil.ExitUsage, err)
		}
		if !info.IsDir() {
			if err := readFile(arg, fn); err != nil {
				return err
			}
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(arg, path)
			if err != nil {
				return err
			}
			if !included(filepath.ToSlash(rel), include) {
				logger.Debug("Skipping file", "path", path)
				return nil
			}
			return readFile(path, fn)
		})
		if err != nil {
			var exitErr *cmdutil.ExitError
			if errors.As(err, &exitErr) {
				return err
			}
			return cmdutil.Exit(cmdutil.ExitUsage, err)
		}
	}
	return nil
}

func included(rel string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	base := rel[strings.LastIndex(rel, "/")+1:]
	for _, pattern := range include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func readFile(path string, fn inputFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return cmdutil.Exit(cmdutil.ExitUsage, err)
	}
	defer f.Close()
	return fn(path, f)
}

// lineFunc receives one line without its terminator, its 1-based number and
// the terminator itself ("\n", "\r\n", or "" for a final unterminated line).
type lineFunc func(n int, line, eol string) error

// eachLine splits r into lines, preserving line terminators.
func eachLine(r io.Reader, fn lineFunc) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		raw, err := br.ReadString('\n')
		if raw != "" {
			line, eol := splitEOL(raw)
			if ferr := fn(n, line, eol); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func splitEOL(raw string) (line, eol string) {
	switch {
	case strings.HasSuffix(raw, "\r\n"):
		return raw[:len(raw)-2], "\r\n"
	case strings.HasSuffix(raw, "\n"):
		return raw[:len(raw)-1], "\n"
	default:
		return raw, ""
	}
}
