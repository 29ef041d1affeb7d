// Package storage defines the read-only content source abstraction.
package storage

import "time"

// Entry describes one content document found under a directory.
type Entry struct {
	// Path is slash-separated and relative to the provider root.
	Path      string
	Checksum  string
	UpdatedAt time.Time
}

// Provider is the interface for content tree reads. Implementations must be
// safe for concurrent use.
type Provider interface {
	// Dirs returns the names of visible subdirectories of dir, sorted.
	Dirs(dir string) ([]string, error)
	// List returns every .md/.mdx document under dir, walked in lexical order.
	List(dir string) ([]Entry, error)
	// Documents returns the paths List would report, without reading or
	// hashing the files.
	Documents(dir string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// IsDir reports whether path exists and is a directory.
	IsDir(path string) bool
}
