package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/spigell/abang/internal/ingest"
)

func TestRecordIngest(t *testing.T) {
	t.Parallel()

	m := New(false)
	m.RecordIngest(&ingest.Result{Fetched: 3, Stored: 2, Skipped: 1, Errors: []string{"boom"}})
	m.RecordIngest(&ingest.Result{Fetched: 1, Stored: 1})
	m.RecordIngest(nil)

	require.Equal(t, 2.0, testutil.ToFloat64(m.ingestRuns))
	require.Equal(t, 4.0, testutil.ToFloat64(m.ingestFetched))
	require.Equal(t, 3.0, testutil.ToFloat64(m.ingestStored))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ingestSkipped))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ingestErrors))

	var nilMetrics *Metrics
	nilMetrics.RecordIngest(&ingest.Result{Fetched: 1})
	nilMetrics.RecordJob("ingest", nil)
}

func TestRecordJob(t *testing.T) {
	t.Parallel()

	m := New(false)
	m.RecordJob("ingest", nil)
	m.RecordJob("ingest", errors.New("boom"))
	m.RecordJob("ingest", nil)

	require.Equal(t, 2.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("ingest", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("ingest", "error")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	t.Parallel()

	m := New(false)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/users/{id}/phone", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	for range 2 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42/phone", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/users/{id}/phone", "404")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "abang_http_requests_total")
	require.Contains(t, rec.Body.String(), "abang_ingest_runs_total")
}
