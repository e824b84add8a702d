package sinks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JakeFAU/tv-schedule-scraper/internal/progress"
	"github.com/JakeFAU/tv-schedule-scraper/internal/store"
)

// StoreSink records run progress via a store.RunRepository. It collapses
// channel-level counters within a batch before writing them.
type StoreSink struct {
	repo   store.RunRepository
	logger *zap.Logger
}

// NewStoreSink constructs a StoreSink for the provided repository.
func NewStoreSink(repo store.RunRepository, logger *zap.Logger) *StoreSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreSink{repo: repo, logger: logger}
}

// Consume forwards run milestones and collapsed channel deltas to the
// repository. Run starts are written before any channel stats in the batch and
// completions after them.
func (s *StoreSink) Consume(ctx context.Context, batch []progress.Event) error {
	if s == nil || s.repo == nil {
		return nil
	}
	stats := make(map[statsKey]*statsDelta)
	var order []statsKey
	var done []progress.Event

	for _, evt := range batch {
		runID := evt.RunUUID()
		switch evt.Stage {
		case progress.StageRunStart:
			if err := s.repo.UpsertRunStart(ctx, runID, evt.TS); err != nil {
				return fmt.Errorf("upsert run start: %w", err)
			}
		case progress.StageFetchDone:
			order = s.recordChannelStats(stats, order, runID, evt)
		case progress.StageRunDone:
			done = append(done, evt)
		}
	}

	for _, key := range order {
		delta := stats[key]
		if err := s.repo.UpsertChannelStats(
			ctx,
			key.runID,
			key.channel,
			delta.fetches,
			delta.bytes,
			delta.shows,
			key.statusClass,
			delta.at,
		); err != nil {
			return fmt.Errorf("upsert channel stats: %w", err)
		}
	}

	for _, evt := range done {
		if err := s.repo.CompleteRun(ctx, evt.RunUUID(), evt.TS, evt.Shows); err != nil {
			return fmt.Errorf("complete run: %w", err)
		}
	}
	return nil
}

func (s *StoreSink) recordChannelStats(
	stats map[statsKey]*statsDelta,
	order []statsKey,
	runID uuid.UUID,
	evt progress.Event,
) []statsKey {
	if evt.Channel == "" {
		return order
	}
	key := statsKey{
		runID:       runID,
		channel:     evt.Channel,
		statusClass: string(evt.StatusClass),
	}
	stat := stats[key]
	if stat == nil {
		stat = &statsDelta{}
		stats[key] = stat
		order = append(order, key)
	}
	stat.fetches++
	stat.bytes += evt.Bytes
	stat.shows += evt.Shows
	if evt.TS.After(stat.at) || stat.at.IsZero() {
		stat.at = evt.TS
	}
	return order
}

// Close implements the Sink interface; it performs no action.
func (s *StoreSink) Close(context.Context) error {
	return nil
}

type statsKey struct {
	runID       uuid.UUID
	channel     string
	statusClass string
}

type statsDelta struct {
	fetches int64
	bytes   int64
	shows   int64
	at      time.Time
}
