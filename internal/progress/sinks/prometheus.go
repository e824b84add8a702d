package sinks

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JakeFAU/tv-schedule-scraper/internal/progress"
)

// PrometheusSink exports run and per-channel fetch metrics.
type PrometheusSink struct {
	runsStarted   prometheus.Counter
	runsCompleted prometheus.Counter
	runsRunning   prometheus.Gauge
	runDuration   prometheus.Histogram

	fetches       *prometheus.CounterVec
	fetchBytes    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	showsScraped  *prometheus.CounterVec

	mu      sync.Mutex
	running map[[16]byte]struct{}
}

// NewPrometheusSink registers the collectors against reg, or the default
// registerer when reg is nil.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tvschedule_runs_started_total",
			Help: "Scrape runs started (one per schedule endpoint call).",
		}),
		runsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tvschedule_runs_completed_total",
			Help: "Scrape runs completed.",
		}),
		runsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tvschedule_runs_running",
			Help: "Scrape runs currently in progress.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tvschedule_run_duration_seconds",
			Help:    "Wall time per scrape run.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tvschedule_fetches_total",
			Help: "Channel page fetches partitioned by channel and status class.",
		}, []string{"channel", "status_class"}),
		fetchBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tvschedule_fetch_bytes_total",
			Help: "Bytes downloaded per channel.",
		}, []string{"channel"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tvschedule_fetch_duration_seconds",
			Help:    "Fetch+extract duration partitioned by status class.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"status_class"}),
		showsScraped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tvschedule_shows_scraped_total",
			Help: "Shows extracted per channel.",
		}, []string{"channel"}),
		running: make(map[[16]byte]struct{}),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runsCompleted,
		s.runsRunning,
		s.runDuration,
		s.fetches,
		s.fetchBytes,
		s.fetchDuration,
		s.showsScraped,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors from batch.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		switch evt.Stage {
		case progress.StageRunStart:
			s.runsStarted.Inc()
			if s.track(evt.RunID, true) {
				s.runsRunning.Inc()
			}
		case progress.StageRunDone:
			s.runsCompleted.Inc()
			if evt.Dur > 0 {
				s.runDuration.Observe(evt.Dur.Seconds())
			}
			if s.track(evt.RunID, false) {
				s.runsRunning.Dec()
			}
		case progress.StageFetchDone:
			s.observeFetch(evt)
		}
	}
	return nil
}

func (s *PrometheusSink) observeFetch(evt progress.Event) {
	class := string(evt.StatusClass)
	if class == "" {
		class = string(progress.StatusOther)
	}
	s.fetches.WithLabelValues(evt.Channel, class).Inc()
	if evt.Bytes > 0 {
		s.fetchBytes.WithLabelValues(evt.Channel).Add(float64(evt.Bytes))
	}
	if evt.Shows > 0 {
		s.showsScraped.WithLabelValues(evt.Channel).Add(float64(evt.Shows))
	}
	if evt.Dur > 0 {
		s.fetchDuration.WithLabelValues(class).Observe(evt.Dur.Seconds())
	}
}

// track records a run as started or finished and reports whether the state
// changed.
func (s *PrometheusSink) track(id [16]byte, start bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[id]
	if start {
		if ok {
			return false
		}
		s.running[id] = struct{}{}
		return true
	}
	if !ok {
		return false
	}
	delete(s.running, id)
	return true
}

// Close implements progress.Sink.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
