package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/folio/internal/models"
)

// Key identifies one indexed document.
type Key struct {
	Version string `json:"version"`
	Locale  string `json:"locale"`
	// Path is relative to the (version, locale) scope.
	Path string `json:"path"`
}

// Scope is one (version, locale) pair present in the index.
type Scope struct {
	Version string
	Locale  string
}

// PageRow represents a row in the pages table.
type PageRow struct {
	Key
	Slug        string
	Title       string
	Description string
	Tags        []string
	Order       int
	Checksum    string
	UpdatedAt   time.Time
}

// RowFromPage builds the index row for a loaded page.
func RowFromPage(p *models.Page, checksum string, updated time.Time) PageRow {
	return PageRow{
		Key:         Key{Version: p.Version, Locale: p.Locale, Path: p.Path},
		Slug:        p.SlugKey(),
		Title:       p.Metadata.Title,
		Description: p.Metadata.Description,
		Tags:        p.Metadata.Tags,
		Order:       p.Metadata.EffectiveOrder(),
		Checksum:    checksum,
		UpdatedAt:   updated,
	}
}

// UpsertPage inserts or replaces a page.
func (db *DB) UpsertPage(r PageRow, body string) error {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}

	_, err := db.conn.Exec(`
		INSERT INTO pages (version, locale, path, slug, title, description, tags, sort_order, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(version, locale, path) DO UPDATE SET
			slug        = excluded.slug,
			title       = excluded.title,
			description = excluded.description,
			tags        = excluded.tags,
			sort_order  = excluded.sort_order,
			checksum    = excluded.checksum,
			body        = excluded.body,
			updated_at  = excluded.updated_at
	`, r.Version, r.Locale, r.Path, r.Slug, r.Title, r.Description, string(tagsJSON), r.Order, r.Checksum, body, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert page: %w", err)
	}
	return nil
}

// DeletePage removes one page.
func (db *DB) DeletePage(k Key) error {
	_, err := db.conn.Exec(`DELETE FROM pages WHERE version = ? AND locale = ? AND path = ?`, k.Version, k.Locale, k.Path)
	if err != nil {
		return fmt.Errorf("index: delete page: %w", err)
	}
	return nil
}

// DeleteScope removes every page of a (version, locale) scope.
func (db *DB) DeleteScope(version, locale string) error {
	_, err := db.conn.Exec(`DELETE FROM pages WHERE version = ? AND locale = ?`, version, locale)
	if err != nil {
		return fmt.Errorf("index: delete scope: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a page, or empty string if not found.
func (db *DB) GetChecksum(k Key) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM pages WHERE version = ? AND locale = ? AND path = ?`,
		k.Version, k.Locale, k.Path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// Checksums returns path -> checksum for every page of a scope.
func (db *DB) Checksums(version, locale string) (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM pages WHERE version = ? AND locale = ?`, version, locale)
	if err != nil {
		return nil, fmt.Errorf("index: checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Scopes returns every (version, locale) pair with at least one page.
func (db *DB) Scopes() ([]Scope, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT version, locale FROM pages ORDER BY version, locale`)
	if err != nil {
		return nil, fmt.Errorf("index: scopes: %w", err)
	}
	defer rows.Close()
	var out []Scope
	for rows.Next() {
		var s Scope
		if err := rows.Scan(&s.Version, &s.Locale); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Count returns the number of indexed pages.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
