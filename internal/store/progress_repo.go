// Package store declares interfaces for recording scrape run progress.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound signals that the requested record does not exist.
var ErrNotFound = errors.New("progress record not found")

// RunStatus is the lifecycle state of one endpoint call.
type RunStatus string

// Run statuses.
const (
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
)

// RunRecord summarizes one schedule or single-channel call.
type RunRecord struct {
	ID        uuid.UUID
	StartedAt time.Time
	// FinishedAt is nil until RUN_DONE is recorded.
	FinishedAt *time.Time
	Status     RunStatus
	// Shows is the total extracted across all channels of the run.
	Shows int64
}

// ChannelStats captures per-channel fetch outcomes within a run.
type ChannelStats struct {
	RunID      uuid.UUID
	Channel    string
	LastUpdate time.Time
	Fetches    int64
	Bytes      int64
	Shows      int64
	// Fetch2xx through FetchOther hold per-status counts for diagnostics.
	Fetch2xx   int64
	Fetch3xx   int64
	Fetch4xx   int64
	Fetch5xx   int64
	FetchOther int64
}

// RunRepository records run progress and serves it back to operators.
type RunRepository interface {
	// UpsertRunStart records (or idempotently refreshes) the start of a run.
	UpsertRunStart(ctx context.Context, runID uuid.UUID, startedAt time.Time) error
	// CompleteRun marks the run finished with its total show count.
	CompleteRun(ctx context.Context, runID uuid.UUID, finishedAt time.Time, shows int64) error
	// UpsertChannelStats applies fetch/byte/show deltas per (run, channel, statusClass).
	UpsertChannelStats(
		ctx context.Context,
		runID uuid.UUID,
		channel string,
		deltaFetches int64,
		deltaBytes int64,
		deltaShows int64,
		statusClass string,
		at time.Time,
	) error

	// GetRun loads a single run or returns ErrNotFound.
	GetRun(ctx context.Context, runID uuid.UUID) (RunRecord, error)
	// ListRuns returns runs newest first, filtered by optional status.
	ListRuns(ctx context.Context, status *RunStatus, limit, offset int) ([]RunRecord, error)
	// ListRunChannels returns per-channel stats for one run in first-seen order.
	ListRunChannels(ctx context.Context, runID uuid.UUID, limit, offset int) ([]ChannelStats, error)
}
