// Package content discovers versioned, localised documents on a content
// source and derives navigation structures from their metadata.
//
// Every read is optional: a missing or unreadable scope yields an empty (or
// default) result instead of an error, so a partially configured tree still
// renders.
package content

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/parser"
	"github.com/starford/folio/internal/storage"
)

// FallbackLocale is returned by ListLocales when a version cannot be read.
const FallbackLocale = "en"

// Loader turns a content source into page records. It holds no mutable
// state and is safe for concurrent use.
type Loader struct {
	store    storage.Provider
	logger   *slog.Logger
	recorder metrics.Recorder
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for skipped documents.
func WithLogger(l *slog.Logger) LoaderOption {
	return func(ld *Loader) { ld.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) LoaderOption {
	return func(ld *Loader) { ld.recorder = r }
}

// NewLoader creates a Loader reading from store.
func NewLoader(store storage.Provider, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:    store,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ListVersions enumerates the top-level version directories. An absent
// content root yields an empty slice.
func (l *Loader) ListVersions() []string {
	dirs, err := l.store.Dirs("")
	if err != nil {
		return []string{}
	}
	return nonNil(dirs)
}

// ListLocales enumerates the locale directories of a version, falling back
// to ["en"] when the version cannot be read.
func (l *Loader) ListLocales(version string) []string {
	if !validSegment(version) {
		return []string{FallbackLocale}
	}
	dirs, err := l.store.Dirs(version)
	if err != nil {
		return []string{FallbackLocale}
	}
	return nonNil(dirs)
}

// LoadPages walks the (version, locale) scope and returns every non-draft
// document. The result is in discovery order; callers sort as needed.
// Documents whose metadata cannot be parsed are skipped and logged.
func (l *Loader) LoadPages(version, locale string) []*models.Page {
	pages := []*models.Page{}
	if !validSegment(version) || !validSegment(locale) {
		return pages
	}
	scope := version + "/" + locale
	if !l.store.IsDir(scope) {
		return pages
	}

	docs, err := l.store.Documents(scope)
	if err != nil {
		l.logger.Warn("loader: list failed",
			slog.String("scope", scope),
			slog.String("error", err.Error()))
		return pages
	}

	for _, name := range docs {
		rel := strings.TrimPrefix(name, scope+"/")
		p, err := l.ReadPage(version, locale, rel)
		switch {
		case err == nil:
			pages = append(pages, p)
		case errors.Is(err, apperr.ErrDraft):
			l.recorder.IncDraftSkipped(version, locale)
		case errors.Is(err, apperr.ErrMalformedMetadata):
			l.recorder.IncMetadataError(version, locale)
			l.logger.Warn("loader: skipping document with malformed metadata",
				slog.String("path", name),
				slog.String("error", err.Error()))
		default:
			l.logger.Warn("loader: read failed", slog.String("path", name), slog.String("error", err.Error()))
		}
	}

	l.recorder.ObservePagesLoaded(version, locale, len(pages))
	return pages
}

// ReadPage reads and parses one document of a (version, locale) scope. rel
// is relative to the scope. Drafts yield apperr.ErrDraft and undecodable
// metadata yields apperr.ErrMalformedMetadata.
func (l *Loader) ReadPage(version, locale, rel string) (*models.Page, error) {
	if !validSegment(version) || !validSegment(locale) {
		return nil, fmt.Errorf("loader: scope %s/%s: %w", version, locale, apperr.ErrNotFound)
	}
	full := version + "/" + locale + "/" + rel
	data, err := l.store.Read(full)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", full, err)
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", full, err)
	}
	if res.Metadata.Draft {
		return nil, fmt.Errorf("loader: %s: %w", full, apperr.ErrDraft)
	}
	return &models.Page{
		Slug:     ResolveSlugFor(rel, res.Metadata.Slug),
		Metadata: res.Metadata,
		Body:     res.Body,
		Version:  version,
		Locale:   locale,
		Path:     rel,
	}, nil
}

// FindPage returns the page whose joined slug equals slug. When several
// pages collide on a slug, the last discovered one wins.
func (l *Loader) FindPage(version, locale string, slug []string) (*models.Page, bool) {
	return FindBySlug(l.LoadPages(version, locale), slug)
}

// FindBySlug is FindPage over an already loaded collection.
func FindBySlug(pages []*models.Page, slug []string) (*models.Page, bool) {
	key := models.JoinSlug(slug)
	var found *models.Page
	for _, p := range pages {
		if p.SlugKey() == key {
			found = p
		}
	}
	return found, found != nil
}

// DefaultSlug derives a slug from a document path relative to its scope.
// A file named index contributes no segment of its own.
func DefaultSlug(rel string) []string {
	rel = strings.Trim(path.Clean("/"+rel), "/")
	if rel == "" {
		return []string{}
	}
	parts := strings.Split(rel, "/")
	last := len(parts) - 1
	name := strings.TrimSuffix(strings.TrimSuffix(parts[last], ".mdx"), ".md")
	slug := append([]string{}, parts[:last]...)
	if name != "index" && name != "" {
		slug = append(slug, name)
	}
	return slug
}

// ResolveSlugFor returns override when it has at least one segment,
// otherwise the path-derived slug.
func ResolveSlugFor(rel string, override []string) []string {
	if o := parser.NormalizeSlug(override); len(o) > 0 {
		return o
	}
	return DefaultSlug(rel)
}

// validSegment rejects scope identifiers that could address anything other
// than a direct child directory.
func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
