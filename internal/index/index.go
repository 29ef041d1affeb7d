package index

// PageIndex defines the interface for page indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type PageIndex interface {
	UpsertPage(r PageRow, body string) error
	DeletePage(k Key) error
	DeleteScope(version, locale string) error
	GetChecksum(k Key) (string, error)
	Checksums(version, locale string) (map[string]string, error)
	Scopes() ([]Scope, error)
	Count() (int, error)
	Search(q Query) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies PageIndex at compile time.
var _ PageIndex = (*DB)(nil)
