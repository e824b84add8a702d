package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	if httpRequestsTotal == nil || httpRequestDurationSeconds == nil ||
		scrapesInFlight == nil || extractionSkippedTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestScrapesInFlightGauge(t *testing.T) {
	Init()
	before := testutil.ToFloat64(scrapesInFlight)

	IncScrapesInFlight()
	IncScrapesInFlight()
	if got := testutil.ToFloat64(scrapesInFlight); got != before+2 {
		t.Fatalf("expected gauge %v, got %v", before+2, got)
	}
	DecScrapesInFlight()
	DecScrapesInFlight()
	if got := testutil.ToFloat64(scrapesInFlight); got != before {
		t.Fatalf("expected gauge back at %v, got %v", before, got)
	}
}

func TestObserveExtractionSkip(t *testing.T) {
	Init()
	before := testutil.ToFloat64(extractionSkippedTotal.WithLabelValues("missing_title"))
	ObserveExtractionSkip("missing_title")
	if got := testutil.ToFloat64(extractionSkippedTotal.WithLabelValues("missing_title")); got != before+1 {
		t.Fatalf("expected counter %v, got %v", before+1, got)
	}
}

func TestObserveHTTPRequest(t *testing.T) {
	before := func() float64 {
		Init()
		return testutil.ToFloat64(httpRequestsTotal.WithLabelValues("DELETE", "418"))
	}()
	ObserveHTTPRequest("DELETE", "/teapot", 418, 10*time.Millisecond)
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("DELETE", "418")); got != before+1 {
		t.Fatalf("expected counter %v, got %v", before+1, got)
	}
}
