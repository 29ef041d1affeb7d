// Package metrics defines observability hooks for content loading,
// transformation, and index synchronisation.
package metrics

import "time"

// Recorder receives loader, transformer, and index events. Implementations
// must be safe for concurrent use.
type Recorder interface {
	ObservePagesLoaded(version, locale string, n int)
	IncDraftSkipped(version, locale string)
	IncMetadataError(version, locale string)
	IncMarkerFailure(kind string)
	ObserveTransformDuration(d time.Duration)
	ObserveIndexSync(d time.Duration, indexed, removed int)
}

// NoopRecorder is the default when metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObservePagesLoaded(string, string, int)   {}
func (NoopRecorder) IncDraftSkipped(string, string)           {}
func (NoopRecorder) IncMetadataError(string, string)          {}
func (NoopRecorder) IncMarkerFailure(string)                  {}
func (NoopRecorder) ObserveTransformDuration(time.Duration)   {}
func (NoopRecorder) ObserveIndexSync(time.Duration, int, int) {}
