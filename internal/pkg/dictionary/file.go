package dictionary

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// fileLock protects atomic file writes
	fileLock sync.Mutex
)

// WordFile is the YAML layout of a dictionary file.
type WordFile struct {
	Words []string `yaml:"words"`
}

// FileSource reads words from a file on every ListPatterns call.
//
// Files ending in .yaml or .yml hold a WordFile document. Anything else is
// plain text with one word per line; surrounding whitespace is trimmed and
// blank lines and lines starting with # are skipped.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// ListPatterns reads and parses the file. A missing file is an error.
func (s *FileSource) ListPatterns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseFile(s.Path)
}

// ParseFile reads the word file at path.
func ParseFile(path string) ([]string, error) {
	// #nosec G304 -- Path is from configuration, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}

	if isYAML(path) {
		words, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse word file %s: %w", path, err)
		}
		return words, nil
	}
	return ParseLines(bytes.NewReader(data))
}

// ParseYAML decodes a WordFile document. Empty entries are dropped.
func ParseYAML(data []byte) ([]string, error) {
	var wf WordFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, err
	}
	words := make([]string, 0, len(wf.Words))
	for _, w := range wf.Words {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}

// ParseLines reads one word per line.
func ParseLines(r io.Reader) ([]string, error) {
	words := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}
	return words, nil
}

// WriteFile writes words to path, as YAML or plain lines depending on the
// extension. The file is replaced atomically.
func WriteFile(path string, words []string) error {
	fileLock.Lock()
	defer fileLock.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create word file directory: %w", err)
	}

	var data []byte
	if isYAML(path) {
		out, err := yaml.Marshal(&WordFile{Words: words})
		if err != nil {
			return fmt.Errorf("failed to marshal words to YAML: %w", err)
		}
		data = out
	} else {
		var buf bytes.Buffer
		for _, w := range words {
			buf.WriteString(w)
			buf.WriteByte('\n')
		}
		data = buf.Bytes()
	}

	// Atomic write: write to temp file, then rename
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp word file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile) // Cleanup temp file on error
		return fmt.Errorf("failed to rename temp word file: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
