// Package fs provides file-based schema storage and output writing.
package fs

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Traves-Theberge/webform-cli"
)

// URLToPath converts a page URL to a relative file path under its host,
// with the given extension.
// Example: https://example.com/products/42 → example.com/products/42.json
func URLToPath(rawURL, ext string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", webform.Errorf(webform.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", webform.Errorf(webform.EINVALID, "invalid URL %q: missing host", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case path == "":
		path = "index"
	case strings.HasSuffix(path, "/"):
		path += "index"
	}
	return filepath.Join(u.Host, filepath.FromSlash(path)) + ext, nil
}

// WriteFile writes data to path, creating parent directories. The file is
// written to a temporary sibling first and renamed into place, so readers
// never observe a partial file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Writer writes one output file per page URL below a base directory.
type Writer struct {
	baseDir string
	ext     string
}

// NewWriter creates a new Writer that writes files with extension ext
// (e.g. ".json") to baseDir.
func NewWriter(baseDir, ext string) *Writer {
	return &Writer{baseDir: baseDir, ext: ext}
}

// WritePage writes data to the file for pageURL and returns its path.
func (w *Writer) WritePage(pageURL string, data []byte) (string, error) {
	rel, err := URLToPath(pageURL, w.ext)
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.baseDir, rel)
	if err := WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}
