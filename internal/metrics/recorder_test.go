package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_SatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObservePagesLoaded("v2", "en", 3)
	r.IncMarkerFailure("faq")
	r.ObserveIndexSync(time.Second, 1, 0)
}

func TestPrometheusRecorder_ExposesMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	var r Recorder = NewPrometheusRecorder(reg)

	r.ObservePagesLoaded("v2", "en", 7)
	r.IncDraftSkipped("v2", "en")
	r.IncMetadataError("v2", "en")
	r.IncMarkerFailure("steps")
	r.ObserveTransformDuration(2 * time.Millisecond)
	r.ObserveIndexSync(50*time.Millisecond, 4, 1)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(body)

	assert.True(t, strings.Contains(out, `folio_pages_loaded{locale="en",version="v2"} 7`), out)
	assert.Contains(t, out, `folio_marker_failures_total{kind="steps"} 1`)
	assert.Contains(t, out, "folio_index_pages_indexed_total 4")
	assert.Contains(t, out, "folio_transform_duration_seconds_count 1")
}
