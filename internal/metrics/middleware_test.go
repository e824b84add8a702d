package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware(t *testing.T) {
	Init()
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/probe/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	r.Get("/gone", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	})

	accepted := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "202"))
	gone := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "410"))

	for _, path := range []string{"/probe/a", "/gone"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "202")); val != accepted+1 {
		t.Errorf("expected GET 202 count %v, got %v", accepted+1, val)
	}
	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "410")); val != gone+1 {
		t.Errorf("expected GET 410 count %v, got %v", gone+1, val)
	}
	if val := testutil.CollectAndCount(httpRequestDurationSeconds); val <= 0 {
		t.Errorf("expected http_request_duration_seconds to be observed, got %d", val)
	}
}
