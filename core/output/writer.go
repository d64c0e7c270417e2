// Package output handles file naming and writing for wikimirror outputs.
// The mirror goes to a single HTML file; companion exports are written
// next to it with the same base name (page.html → page.md, page.json).
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	HTMLPath string
}

// New creates a Writer targeting htmlPath, falling back to defaultName
// when htmlPath is empty. Parent directories are created as needed.
func New(htmlPath, defaultName string) (*Writer, error) {
	if htmlPath == "" {
		htmlPath = defaultName
	}
	if htmlPath == "" {
		return nil, fmt.Errorf("no output file given")
	}

	dir := filepath.Dir(htmlPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{HTMLPath: htmlPath}, nil
}

// WriteHTML writes the mirror document.
func (w *Writer) WriteHTML(data []byte) (string, error) {
	if err := writeAtomic(w.HTMLPath, data); err != nil {
		return "", err
	}
	return w.HTMLPath, nil
}

// WriteCompanion writes a companion export beside the mirror.
func (w *Writer) WriteCompanion(data []byte, ext string) (string, error) {
	if err := CheckCompanion(w.HTMLPath, ext); err != nil {
		return "", err
	}
	path := CompanionPath(w.HTMLPath, ext)
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// CompanionPath swaps the extension of htmlPath for ext.
// Example: out/page.html + ".md" → out/page.md
func CompanionPath(htmlPath, ext string) string {
	base := strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath))
	return base + ext
}

// CheckCompanion fails when a companion with extension ext would land on
// htmlPath itself, e.g. "out.md" with a Markdown export.
func CheckCompanion(htmlPath, ext string) error {
	if filepath.Clean(CompanionPath(htmlPath, ext)) == filepath.Clean(htmlPath) {
		return fmt.Errorf("output file %s would be overwritten by the %s export; choose a different output name", htmlPath, ext)
	}
	return nil
}

// writeAtomic writes data to a temp file in the target directory and
// renames it into place, so a failed run never leaves a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("moving file into place %s: %w", path, err)
	}
	return nil
}

// HumanSize formats a byte count in megabytes, e.g. "1.3 MB".
func HumanSize(n int) string {
	return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
}
