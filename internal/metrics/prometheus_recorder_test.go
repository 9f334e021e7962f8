package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveLoadDuration(150 * time.Millisecond)
	pr.SetIndexedDocuments(3)
	pr.IncSkippedFiles("read_failed")
	pr.IncResolution("http", ResultFound)
	pr.IncResolution("http", ResultNotFound)
	pr.IncRebuild("watch", ResultSuccess)
	pr.ObserveSearchDuration(2 * time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 6)

	assert.InDelta(t, 3, testutil.ToFloat64(pr.indexedDocs), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.resolutions.WithLabelValues("http", "not_found")), 0)
}

func TestPrometheusRecorder_NilReceiverIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveLoadDuration(time.Second)
		pr.IncResolution("cli", ResultFound)
	})
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, NoopRecorder{}, OrNoop(nil))

	pr := NewPrometheusRecorder(nil)
	assert.Same(t, pr, OrNoop(pr))
}

func TestHTTPHandler_ServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).SetIndexedDocuments(7)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "docengine_indexed_documents 7"))
}
