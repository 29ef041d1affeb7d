package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/docservice"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/mdx"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/storage"
)

var errConfigRequired = errors.New("config is required")

// runtime is the set of components shared by every command.
type runtime struct {
	logger   *slog.Logger
	store    *storage.FS
	db       *index.DB
	loader   *content.Loader
	syncer   *index.Syncer
	svc      *docservice.Service
	registry *prometheus.Registry
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// newRuntime opens storage and the index, runs the initial sync and builds
// the docs service. Callers must call close.
func newRuntime(ctx context.Context, cfg *Config, logger *slog.Logger) (*runtime, error) {
	store, err := storage.NewFS(cfg.Content.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
	}

	loader := content.NewLoader(store, content.WithLogger(logger), content.WithRecorder(rec))

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	syncer := index.NewSyncer(db, store, loader, logger, rec)
	if _, err := syncer.Sync(ctx); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	resolver := content.NewResolver(loader, cfg.Content.Versions, cfg.Content.SlugCandidates())
	svc := docservice.NewService(loader, resolver,
		mdx.New(mdx.WithLogger(logger), mdx.WithRecorder(rec)),
		render.New(render.WithAnchors(cfg.Content.Anchors())),
		db,
		docservice.WithDefaultLocale(cfg.Content.DefaultLocale),
	)

	return &runtime{
		logger:   logger,
		store:    store,
		db:       db,
		loader:   loader,
		syncer:   syncer,
		svc:      svc,
		registry: reg,
	}, nil
}

func (rt *runtime) close() {
	if err := rt.db.Close(); err != nil {
		rt.logger.Warn("close index", slog.String("error", err.Error()))
	}
}
