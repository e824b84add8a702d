// Package api hosts the HTTP server, middleware, and REST handlers. Notable
// routes, each also served under /api:
//   - GET /channels for the roster.
//   - GET /schedule and /schedule/{channel_id} for live scrapes.
//   - GET /runs and /runs/{run_id}/channels for recent run history via the
//     store.RunRepository interface.
//
// GET /healthz, /readyz, and /metrics are served at the root only.
package api
