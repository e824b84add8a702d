// Package main hosts the schedule service entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes /channels, /schedule, /schedule/{channel_id}, and /refresh (each also
//     under /api) plus health, metrics, and run history endpoints.
//   - Fetch pipeline: every schedule call opens one Colly-backed fetch session whose connection pool is capped
//     (10 for the aggregate view, 1 for a single channel) and whose requests share one deadline. The coordinator
//     runs at most scraper.max_parallel fetch+extract tasks at a time; the goquery extractor turns each page into
//     normalized shows.
//   - Failure model: a channel whose fetch or extraction fails contributes an empty show list. The aggregate call
//     still answers 200.
//   - Configuration & plumbing: Viper populates config from env/files; zap provides structured logging; Prometheus
//     metrics are exported via the metrics middleware and /metrics handler; the progress Hub batches run lifecycle
//     events for the Prometheus, run-history, and log sinks.
//
// Quick checklist:
//   - Configure env vars: TVSCHEDULE_SERVER_PORT or PORT, TVSCHEDULE_SCRAPER_MAX_PARALLEL,
//     TVSCHEDULE_HTTP_TIMEOUT_SECONDS, TVSCHEDULE_SCRAPER_SOURCE_BASE_URL, TVSCHEDULE_LOGGING_LEVEL.
//   - Run locally: go run ./cmd/tvschedule -config config.yaml (or rely solely on env overrides).
//   - The process reacts to SIGTERM by draining HTTP requests, then flushing buffered progress events.
package main
