package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/storage"
)

// maxScopeWorkers bounds how many (version, locale) scopes sync at once.
const maxScopeWorkers = 4

// Stats summarises one sync pass.
type Stats struct {
	Indexed int `json:"indexed"`
	Removed int `json:"removed"`
	Skipped int `json:"skipped"`
}

func (s *Stats) add(o Stats) {
	s.Indexed += o.Indexed
	s.Removed += o.Removed
	s.Skipped += o.Skipped
}

// Syncer keeps the page index in step with the content tree.
type Syncer struct {
	db       PageIndex
	store    storage.Provider
	loader   *content.Loader
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewSyncer creates a Syncer. A nil logger or recorder falls back to
// slog.Default and a no-op recorder.
func NewSyncer(db PageIndex, store storage.Provider, loader *content.Loader, logger *slog.Logger, rec metrics.Recorder) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Syncer{db: db, store: store, loader: loader, logger: logger, recorder: rec}
}

// Sync walks every version and locale and brings the index up to date:
//   - new/changed documents are parsed and upserted
//   - drafts, unparsable and removed documents are deleted from the index
//   - scopes that no longer exist on disk are dropped
func (s *Syncer) Sync(ctx context.Context) (Stats, error) {
	start := time.Now()

	var (
		mu    sync.Mutex
		total Stats
		live  = make(map[Scope]struct{})
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxScopeWorkers)
	for _, v := range s.loader.ListVersions() {
		for _, l := range s.loader.ListLocales(v) {
			sc := Scope{Version: v, Locale: l}
			live[sc] = struct{}{}
			g.Go(func() error {
				st, err := s.SyncScope(gctx, sc.Version, sc.Locale)
				mu.Lock()
				total.add(st)
				mu.Unlock()
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return total, err
	}

	scopes, err := s.db.Scopes()
	if err != nil {
		return total, err
	}
	for _, sc := range scopes {
		if _, ok := live[sc]; ok {
			continue
		}
		if err := s.db.DeleteScope(sc.Version, sc.Locale); err != nil {
			s.logger.Warn("sync: delete scope failed",
				slog.String("version", sc.Version),
				slog.String("locale", sc.Locale),
				slog.String("error", err.Error()))
			continue
		}
		s.logger.Debug("sync: removed scope", slog.String("version", sc.Version), slog.String("locale", sc.Locale))
	}

	s.recorder.ObserveIndexSync(time.Since(start), total.Indexed, total.Removed)
	s.logger.Info("sync: done",
		slog.Int("indexed", total.Indexed),
		slog.Int("removed", total.Removed),
		slog.Int("skipped", total.Skipped),
		slog.Duration("took", time.Since(start)))
	return total, nil
}

// SyncScope reconciles one (version, locale) scope. A scope that is not a
// directory on disk is emptied.
func (s *Syncer) SyncScope(ctx context.Context, version, locale string) (Stats, error) {
	var st Stats
	prefix := version + "/" + locale

	var entries []storage.Entry
	if s.store.IsDir(prefix) {
		var err error
		entries, err = s.store.List(prefix)
		if err != nil {
			return st, fmt.Errorf("index: sync %s: %w", prefix, err)
		}
	}

	indexed, err := s.db.Checksums(version, locale)
	if err != nil {
		return st, err
	}

	disk := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		rel := strings.TrimPrefix(e.Path, prefix+"/")
		disk[rel] = struct{}{}
		if indexed[rel] == e.Checksum {
			continue
		}

		k := Key{Version: version, Locale: locale, Path: rel}
		p, err := s.loader.ReadPage(version, locale, rel)
		if err != nil {
			st.Skipped++
			s.logSkip(k, err)
			if _, ok := indexed[rel]; ok {
				if s.db.DeletePage(k) == nil {
					st.Removed++
				}
			}
			continue
		}
		if err := s.db.UpsertPage(RowFromPage(p, e.Checksum, e.UpdatedAt), p.Body); err != nil {
			s.logger.Warn("sync: index failed", slog.String("path", e.Path), slog.String("error", err.Error()))
			continue
		}
		st.Indexed++
		s.logger.Debug("sync: indexed", slog.String("path", e.Path))
	}

	for rel := range indexed {
		if _, ok := disk[rel]; ok {
			continue
		}
		k := Key{Version: version, Locale: locale, Path: rel}
		if err := s.db.DeletePage(k); err != nil {
			s.logger.Warn("sync: delete failed", slog.String("path", rel), slog.String("error", err.Error()))
			continue
		}
		st.Removed++
		s.logger.Debug("sync: removed stale", slog.String("path", prefix+"/"+rel))
	}
	return st, nil
}

// IndexPage re-reads one document and updates its index row. It reports
// "created", "updated" or "deleted", or "" when nothing changed.
func (s *Syncer) IndexPage(k Key) (string, error) {
	full := k.Version + "/" + k.Locale + "/" + k.Path
	data, err := s.store.Read(full)
	if err != nil {
		return "", err
	}
	cs := checksum.Sum(data)
	prev, err := s.db.GetChecksum(k)
	if err != nil {
		return "", err
	}
	if prev == cs {
		return "", nil
	}

	p, err := s.loader.ReadPage(k.Version, k.Locale, k.Path)
	if err != nil {
		s.logSkip(k, err)
		if prev == "" {
			return "", nil
		}
		if err := s.db.DeletePage(k); err != nil {
			return "", err
		}
		return "deleted", nil
	}
	if err := s.db.UpsertPage(RowFromPage(p, cs, time.Now()), p.Body); err != nil {
		return "", err
	}
	if prev == "" {
		return "created", nil
	}
	return "updated", nil
}

func (s *Syncer) logSkip(k Key, err error) {
	switch {
	case errors.Is(err, apperr.ErrDraft):
		s.logger.Debug("sync: draft skipped", slog.String("path", k.Path))
	default:
		s.logger.Warn("sync: skipped",
			slog.String("version", k.Version),
			slog.String("locale", k.Locale),
			slog.String("path", k.Path),
			slog.String("error", err.Error()))
	}
}
