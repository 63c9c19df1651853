// Package pages reads and rewrites the page corpus and drives the batch
// transforms over it one page at a time.
package pages

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when a named page does not exist.
var ErrNotFound = errors.New("page not found")

// Store is the page corpus.
type Store interface {
	List() ([]string, error)
	Read(name string) (string, error)
	Write(name, content string) error
}

// FS stores pages as files named <name><ext> inside one directory.
type FS struct {
	dir string
	ext string
}

// NewFS returns a store over dir for files with extension ext.
func NewFS(dir, ext string) *FS {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &FS{dir: dir, ext: ext}
}

// List returns the page names in the directory, sorted.
func (f *FS) List() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), f.ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), f.ext))
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the content of a page.
func (f *FS) Read(name string) (string, error) {
	data, err := os.ReadFile(f.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// Write replaces the content of an existing page, keeping its mode.
func (f *FS) Write(name, content string) error {
	p := f.path(name)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("stat %s: %w", name, err)
	}
	if err := os.WriteFile(p, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (f *FS) path(name string) string {
	return filepath.Join(f.dir, filepath.Base(name)+f.ext)
}
