package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JakeFAU/tv-schedule-scraper/internal/progress"
)

// Config tunes endpoint-level scraping behavior.
type Config struct {
	MaxParallel       int
	PriorityChannels  int
	AggregatePoolSize int
	ChannelPoolSize   int
	Budget            time.Duration
	Location          *time.Location
}

func (c *Config) applyDefaults() {
	if c.MaxParallel <= 0 {
		c.MaxParallel = DefaultMaxParallel
	}
	if c.PriorityChannels <= 0 {
		c.PriorityChannels = 10
	}
	if c.AggregatePoolSize <= 0 {
		c.AggregatePoolSize = 10
	}
	if c.ChannelPoolSize <= 0 {
		c.ChannelPoolSize = 1
	}
	if c.Budget <= 0 {
		c.Budget = 30 * time.Second
	}
	if c.Location == nil {
		c.Location = defaultLocation()
	}
}

// Service implements the channel, aggregate, and single-channel operations.
// Each call owns its fetch session end to end; nothing is shared across calls
// except the read-only registry.
type Service struct {
	cfg         Config
	registry    Registry
	sessions    SessionOpener
	coordinator *Coordinator
	clock       Clock
	emitter     progress.Emitter
	logger      *zap.Logger
}

// NewService wires a Service. emitter may be nil.
func NewService(
	cfg Config,
	registry Registry,
	sessions SessionOpener,
	coordinator *Coordinator,
	clock Clock,
	emitter progress.Emitter,
	logger *zap.Logger,
) *Service {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:         cfg,
		registry:    registry,
		sessions:    sessions,
		coordinator: coordinator,
		clock:       clock,
		emitter:     emitter,
		logger:      logger,
	}
}

// Channels returns the full roster in registry order.
func (s *Service) Channels() []Channel {
	return s.registry.List()
}

// Today returns the current calendar date in the configured timezone.
func (s *Service) Today() string {
	return s.clock.Now().In(s.cfg.Location).Format(DateLayout)
}

// Schedule scrapes the priority subset of the roster for date. An empty date
// means today; any other value is carried through as the label. Individual
// channel failures surface only as empty show lists.
func (s *Service) Schedule(ctx context.Context, date string) (ScheduleResponse, error) {
	date = s.resolveDate(date)
	channels := s.registry.Priority(s.cfg.PriorityChannels)
	results, err := s.run(ctx, channels, date, s.cfg.AggregatePoolSize)
	if err != nil {
		return ScheduleResponse{}, err
	}
	return Assemble(results, date, s.clock.Now(), s.cfg.Location), nil
}

// ChannelSchedule scrapes a single channel. It returns ErrChannelNotFound for
// ids missing from the registry.
func (s *Service) ChannelSchedule(ctx context.Context, channelID string, date string) (ChannelSchedule, error) {
	ch, ok := s.registry.Lookup(channelID)
	if !ok {
		return ChannelSchedule{}, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	date = s.resolveDate(date)
	results, err := s.run(ctx, []Channel{ch}, date, s.cfg.ChannelPoolSize)
	if err != nil {
		return ChannelSchedule{}, err
	}
	return ToChannelSchedule(results[0], date), nil
}

func (s *Service) resolveDate(date string) string {
	if date == "" {
		return s.Today()
	}
	return date
}

// run opens one session whose deadline is shared by every task in the call.
func (s *Service) run(ctx context.Context, channels []Channel, date string, poolSize int) ([]ChannelResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Budget)
	defer cancel()

	session, err := s.sessions.NewSession(runCtx, poolSize)
	if err != nil {
		return nil, fmt.Errorf("open fetch session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.logger.Warn("close fetch session failed", zap.Error(cerr))
		}
	}()

	runID := progress.UUIDToBytes(uuid.New())
	start := s.clock.Now()
	s.emit(progress.Event{RunID: runID, TS: start, Stage: progress.StageRunStart})

	results := s.coordinator.ScrapeMany(runCtx, session, runID, channels, date, s.cfg.MaxParallel)

	var total int64
	for _, res := range results {
		total += int64(len(res.Shows))
	}
	end := s.clock.Now()
	s.emit(progress.Event{
		RunID: runID,
		TS:    end,
		Stage: progress.StageRunDone,
		Shows: total,
		Dur:   max(end.Sub(start), 0),
	})
	s.logger.Debug("schedule run finished",
		zap.Int("channels", len(channels)),
		zap.Int64("shows", total),
		zap.String("date", date),
		zap.Duration("dur", end.Sub(start)),
	)
	return results, nil
}

func (s *Service) emit(evt progress.Event) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(evt)
}
