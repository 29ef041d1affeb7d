// Package apperr holds sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownVersion = errors.New("unknown version")
	ErrInvalidSlug    = errors.New("invalid slug")

	// ErrMalformedMetadata marks a document whose frontmatter could not be
	// decoded.
	ErrMalformedMetadata = errors.New("malformed metadata")
	// ErrDraft marks a document excluded because it is a draft.
	ErrDraft = errors.New("draft document")
)
