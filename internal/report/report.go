// Package report writes JSON pass reports and renders summary tables.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultDir is where reports go unless --report says otherwise
const DefaultDir = "output"

// DefaultPath returns output/<name>-report.json
func DefaultPath(name string) string {
	return filepath.Join(DefaultDir, name+"-report.json")
}

// Write encodes v as two-space indented JSON with a trailing newline,
// creating the parent directory when needed.
func Write(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Timestamp formats t like an ISO-8601 UTC timestamp with milliseconds
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Now returns the current timestamp for startedAt fields
func Now() string {
	return Timestamp(time.Now())
}

// RelPath returns p relative to the working directory when possible
func RelPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return p
	}
	return rel
}

// RelPaths applies RelPath to every element
func RelPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = RelPath(p)
	}
	return out
}

// Mode returns the run mode label shown in summary titles
func Mode(dryRun bool) string {
	if dryRun {
		return "DRY RUN"
	}
	return "WRITE"
}
