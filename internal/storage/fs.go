package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/starford/folio/internal/checksum"
)

// FS implements Provider on top of an fs.FS.
type FS struct {
	fsys fs.FS
	root string // absolute path to the content root, empty for in-memory trees
}

// NewFS creates a provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{fsys: os.DirFS(abs), root: abs}, nil
}

// NewFromFS wraps an arbitrary fs.FS, e.g. an embedded or in-memory tree.
func NewFromFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// Root returns the absolute root directory, or "" when not disk-backed.
func (f *FS) Root() string {
	return f.root
}

// cleanPath turns a caller path into an fs.FS name and rejects anything
// that would escape the root.
func (f *FS) cleanPath(rel string) (string, error) {
	rel = filepath.ToSlash(rel)
	if rel == "" || rel == "." || rel == "/" {
		return ".", nil
	}
	if strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	cleaned := path.Clean(rel)
	if !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("storage: path escapes content root: %s", rel)
	}
	return cleaned, nil
}

// Dirs returns visible subdirectories of dir.
func (f *FS) Dirs(dir string) ([]string, error) {
	name, err := f.cleanPath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(f.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("storage: read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || isHidden(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

// List walks dir and returns an Entry for every document.
func (f *FS) List(dir string) ([]Entry, error) {
	var out []Entry
	err := f.walkDocuments(dir, func(p string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := fs.ReadFile(f.fsys, p)
		if err != nil {
			return err
		}
		out = append(out, Entry{
			Path:      p,
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

// Documents walks dir and returns the path of every document.
func (f *FS) Documents(dir string) ([]string, error) {
	var out []string
	err := f.walkDocuments(dir, func(p string, _ fs.DirEntry) error {
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: documents: %w", err)
	}
	return out, nil
}

// walkDocuments calls fn for every visible document under dir. Hidden
// directories are not entered.
func (f *FS) walkDocuments(dir string, fn func(p string, d fs.DirEntry) error) error {
	base, err := f.cleanPath(dir)
	if err != nil {
		return err
	}
	return fs.WalkDir(f.fsys, base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != base && isHidden(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if isHidden(d.Name()) || !IsDocument(d.Name()) {
			return nil
		}
		return fn(p, d)
	})
}

// Read returns the raw bytes of a content file.
func (f *FS) Read(p string) ([]byte, error) {
	name, err := f.cleanPath(p)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", p, err)
	}
	return data, nil
}

// IsDir reports whether p is an existing directory.
func (f *FS) IsDir(p string) bool {
	name, err := f.cleanPath(p)
	if err != nil {
		return false
	}
	info, err := fs.Stat(f.fsys, name)
	return err == nil && info.IsDir()
}

// IsDocument reports whether name has a content document extension.
func IsDocument(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".mdx")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
