// Package memory keeps recent run history in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JakeFAU/tv-schedule-scraper/internal/progress"
	"github.com/JakeFAU/tv-schedule-scraper/internal/store"
)

// DefaultCapacity is the number of runs retained when none is configured.
const DefaultCapacity = 256

// RunStore is a bounded store.RunRepository. Once capacity is reached the
// oldest run and its channel stats are evicted.
type RunStore struct {
	mu       sync.RWMutex
	capacity int
	order    []uuid.UUID
	runs     map[uuid.UUID]*runEntry
}

type runEntry struct {
	record   store.RunRecord
	channels []*store.ChannelStats
	byName   map[string]*store.ChannelStats
}

var _ store.RunRepository = (*RunStore)(nil)

// NewRunStore builds a RunStore retaining at most capacity runs.
func NewRunStore(capacity int) *RunStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RunStore{
		capacity: capacity,
		runs:     make(map[uuid.UUID]*runEntry, capacity),
	}
}

// UpsertRunStart implements store.RunRepository.
func (s *RunStore) UpsertRunStart(_ context.Context, runID uuid.UUID, startedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.ensure(runID, startedAt)
	if startedAt.Before(entry.record.StartedAt) {
		entry.record.StartedAt = startedAt
	}
	return nil
}

// CompleteRun implements store.RunRepository.
func (s *RunStore) CompleteRun(_ context.Context, runID uuid.UUID, finishedAt time.Time, shows int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.ensure(runID, finishedAt)
	finished := finishedAt
	entry.record.FinishedAt = &finished
	entry.record.Status = store.RunSuccess
	entry.record.Shows = shows
	return nil
}

// UpsertChannelStats implements store.RunRepository.
func (s *RunStore) UpsertChannelStats(
	_ context.Context,
	runID uuid.UUID,
	channel string,
	deltaFetches int64,
	deltaBytes int64,
	deltaShows int64,
	statusClass string,
	at time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.ensure(runID, at)
	stats := entry.byName[channel]
	if stats == nil {
		stats = &store.ChannelStats{RunID: runID, Channel: channel}
		entry.byName[channel] = stats
		entry.channels = append(entry.channels, stats)
	}
	stats.Fetches += deltaFetches
	stats.Bytes += deltaBytes
	stats.Shows += deltaShows
	switch progress.StatusClass(statusClass) {
	case progress.Status2xx:
		stats.Fetch2xx += deltaFetches
	case progress.Status3xx:
		stats.Fetch3xx += deltaFetches
	case progress.Status4xx:
		stats.Fetch4xx += deltaFetches
	case progress.Status5xx:
		stats.Fetch5xx += deltaFetches
	default:
		stats.FetchOther += deltaFetches
	}
	if at.After(stats.LastUpdate) {
		stats.LastUpdate = at
	}
	return nil
}

// GetRun implements store.RunRepository.
func (s *RunStore) GetRun(_ context.Context, runID uuid.UUID) (store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.runs[runID]
	if !ok {
		return store.RunRecord{}, store.ErrNotFound
	}
	return copyRecord(entry.record), nil
}

// ListRuns implements store.RunRepository. Runs are returned newest first.
func (s *RunStore) ListRuns(_ context.Context, status *store.RunStatus, limit, offset int) ([]store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.RunRecord, 0, min(max(limit, 0), len(s.order)))
	skipped := 0
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		rec := s.runs[s.order[i]].record
		if status != nil && rec.Status != *status {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, copyRecord(rec))
	}
	return out, nil
}

// ListRunChannels implements store.RunRepository.
func (s *RunStore) ListRunChannels(_ context.Context, runID uuid.UUID, limit, offset int) ([]store.ChannelStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.runs[runID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if offset >= len(entry.channels) || limit <= 0 {
		return []store.ChannelStats{}, nil
	}
	end := min(offset+limit, len(entry.channels))
	out := make([]store.ChannelStats, 0, end-offset)
	for _, stats := range entry.channels[offset:end] {
		out = append(out, *stats)
	}
	return out, nil
}

// Len reports how many runs are retained.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// ensure returns the entry for runID, creating it (and evicting the oldest
// run when full). Callers hold the write lock.
func (s *RunStore) ensure(runID uuid.UUID, at time.Time) *runEntry {
	if entry, ok := s.runs[runID]; ok {
		return entry
	}
	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.runs, oldest)
	}
	entry := &runEntry{
		record: store.RunRecord{ID: runID, StartedAt: at, Status: store.RunRunning},
		byName: make(map[string]*store.ChannelStats),
	}
	s.runs[runID] = entry
	s.order = append(s.order, runID)
	return entry
}

func copyRecord(rec store.RunRecord) store.RunRecord {
	if rec.FinishedAt != nil {
		finished := *rec.FinishedAt
		rec.FinishedAt = &finished
	}
	return rec
}
