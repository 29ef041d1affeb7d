package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *docservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Versions and locales.
	r.Get("/versions", h.ListVersions)
	r.Get("/versions/{version}/locales", h.ListLocales)

	// Content of one (version, locale) scope.
	r.Route("/docs/{version}/{locale}", func(r chi.Router) {
		r.Get("/pages", h.ListPages)
		r.Get("/nav", h.Navigation)
		r.Get("/page", h.GetPage)
		r.Get("/page/*", h.GetPage)
	})

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
