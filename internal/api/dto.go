package api

import (
	"github.com/starford/folio/internal/docservice"
	"github.com/starford/folio/internal/index"
)

// VersionsResponse wraps the version catalog.
type VersionsResponse struct {
	Versions []docservice.VersionInfo `json:"versions" validate:"required"`
}

// LocalesResponse lists the locales of one version.
type LocalesResponse struct {
	Version string   `json:"version" example:"v2" validate:"required"`
	Locales []string `json:"locales" example:"en,es" validate:"required"`
}

// PagesResponse wraps a page listing.
type PagesResponse struct {
	Version string                   `json:"version" example:"v2" validate:"required"`
	Locale  string                   `json:"locale" example:"en" validate:"required"`
	Pages   []docservice.PageSummary `json:"pages" validate:"required"`
}

// NavResponse is the sidebar tree and its icon table (aliased from the domain layer).
type NavResponse = docservice.NavView

// PageResponse is the full page view (aliased from the domain layer).
type PageResponse = docservice.PageView

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}
