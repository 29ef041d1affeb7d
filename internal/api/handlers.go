package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/docservice"
	"github.com/starford/folio/internal/index"
)

// latestVersion in a URL selects the default version.
const latestVersion = "latest"

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

func versionParam(r *http.Request) string {
	v := chi.URLParam(r, "version")
	if v == latestVersion {
		return ""
	}
	return v
}

// slugParam extracts the page slug from the URL (everything after /page/).
// Supports encoded slashes from OpenAPI clients (e.g. guides%2Fsetup).
func slugParam(r *http.Request) []string {
	raw := strings.Trim(chi.URLParam(r, "*"), "/")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	var out []string
	for _, s := range strings.Split(raw, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnknownVersion):
		writeJSON(w, http.StatusNotFound, errorBody("unknown version"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidSlug):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid slug"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListVersions handles GET /api/versions.
//
//	@Summary		List documentation versions
//	@Tags			versions
//	@Produce		json
//	@Success		200	{object}	VersionsResponse
//	@Security		BearerAuth
//	@Router			/versions [get]
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionsResponse{Versions: h.svc.Versions(r.Context())})
}

// ListLocales handles GET /api/versions/{version}/locales.
//
//	@Summary		List locales of a version
//	@Tags			versions
//	@Produce		json
//	@Param			version	path		string	true	"Version path or 'latest'"
//	@Success		200		{object}	LocalesResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/versions/{version}/locales [get]
func (h *Handler) ListLocales(w http.ResponseWriter, r *http.Request) {
	v, locales, err := h.svc.Locales(r.Context(), versionParam(r))
	if err != nil {
		writeServiceError(w, "list locales", err)
		return
	}
	writeJSON(w, http.StatusOK, LocalesResponse{Version: v, Locales: locales})
}

// ListPages handles GET /api/docs/{version}/{locale}/pages.
//
//	@Summary		List the pages of a scope
//	@Tags			docs
//	@Produce		json
//	@Param			version	path		string	true	"Version path or 'latest'"
//	@Param			locale	path		string	true	"Locale"
//	@Success		200		{object}	PagesResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/docs/{version}/{locale}/pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.ResolveVersion(versionParam(r))
	if err != nil {
		writeServiceError(w, "list pages", err)
		return
	}
	locale := chi.URLParam(r, "locale")
	pages, err := h.svc.Pages(r.Context(), v, locale)
	if err != nil {
		writeServiceError(w, "list pages", err)
		return
	}
	writeJSON(w, http.StatusOK, PagesResponse{Version: v, Locale: locale, Pages: pages})
}

// Navigation handles GET /api/docs/{version}/{locale}/nav.
//
//	@Summary		Get the sidebar tree of a scope
//	@Tags			docs
//	@Produce		json
//	@Param			version	path		string	true	"Version path or 'latest'"
//	@Param			locale	path		string	true	"Locale"
//	@Success		200		{object}	NavResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/docs/{version}/{locale}/nav [get]
func (h *Handler) Navigation(w http.ResponseWriter, r *http.Request) {
	nav, err := h.svc.Navigation(r.Context(), versionParam(r), chi.URLParam(r, "locale"))
	if err != nil {
		writeServiceError(w, "navigation", err)
		return
	}
	writeJSON(w, http.StatusOK, nav)
}

// GetPage handles GET /api/docs/{version}/{locale}/page/*.
//
//	@Summary		Get a page view by slug
//	@Tags			docs
//	@Produce		json
//	@Param			version			path		string	true	"Version path or 'latest'"
//	@Param			locale			path		string	true	"Locale"
//	@Param			slug			path		string	false	"Page slug; empty selects the default page"
//	@Param			html			query		bool	false	"Render prose segments to HTML"
//	@Param			If-None-Match	header		string	false	"ETag of a cached view"
//	@Success		200				{object}	PageResponse
//	@Success		304				"Not modified"
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/docs/{version}/{locale}/page/{slug} [get]
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	html, _ := strconv.ParseBool(r.URL.Query().Get("html"))
	view, err := h.svc.Page(r.Context(), versionParam(r), chi.URLParam(r, "locale"), slugParam(r),
		docservice.ViewOptions{HTML: html})
	if err != nil {
		writeServiceError(w, "get page", err)
		return
	}

	w.Header().Set("ETag", view.ETag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == view.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Search handles GET /api/search.
//
//	@Summary		Substring search across page titles and bodies
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search text"
//	@Param			version	query		string	false	"Restrict to a version (latest for the default)"
//	@Param			locale	query		string	false	"Restrict to a locale"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := strings.TrimSpace(q.Get("q"))
	if text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	version := q.Get("version")
	if version != "" {
		if version == latestVersion {
			version = ""
		}
		v, err := h.svc.ResolveVersion(version)
		if err != nil {
			writeServiceError(w, "search", err)
			return
		}
		version = v
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	results, err := h.svc.Search(r.Context(), index.Query{
		Text:    text,
		Version: version,
		Locale:  q.Get("locale"),
		Limit:   limit,
	})
	if err != nil {
		writeServiceError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
