package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName returns the conventional table file name `<prefix>.<phase>`.
func FileName(prefix, phaseName string) string {
	return prefix + "." + phaseName
}

// Write serializes the table into dir under the conventional file name,
// creating the directory if needed. The file is written to a temp path and
// renamed into place so a partially written table is never left behind.
// File-system failures here are fatal for the run.
func Write(dir, prefix string, t *Table, opts RenderOptions) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	var sb strings.Builder
	if err := Render(&sb, t, opts); err != nil {
		return "", fmt.Errorf("rendering table %s: %w", t.Phase, err)
	}

	path := filepath.Join(dir, FileName(prefix, t.Phase))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("renaming table file: %w", err)
	}
	return path, nil
}
