package schedule

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/tv-schedule-scraper/internal/metrics"
	"github.com/JakeFAU/tv-schedule-scraper/internal/progress"
)

// DefaultMaxParallel bounds concurrent fetch+extract tasks per call.
const DefaultMaxParallel = 5

// Coordinator fans fetch+extract work out across channels under a
// parallelism bound and collects one result per channel in input order.
type Coordinator struct {
	extractor Extractor
	emitter   progress.Emitter
	clock     Clock
	logger    *zap.Logger
}

// NewCoordinator constructs a Coordinator. emitter may be nil.
func NewCoordinator(extractor Extractor, emitter progress.Emitter, clock Clock, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		extractor: extractor,
		emitter:   emitter,
		clock:     clock,
		logger:    logger,
	}
}

// ScrapeMany fetches and extracts every channel, running at most maxParallel
// tasks at once. The returned slice matches the order of channels regardless
// of completion order. A failing channel yields an empty show list and never
// cancels its siblings.
func (c *Coordinator) ScrapeMany(
	ctx context.Context,
	fetcher Fetcher,
	runID [16]byte,
	channels []Channel,
	date string,
	maxParallel int,
) []ChannelResult {
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel
	}
	results := make([]ChannelResult, len(channels))
	var g errgroup.Group
	g.SetLimit(maxParallel)
	for i, ch := range channels {
		g.Go(func() error {
			results[i] = ChannelResult{
				Channel: ch,
				Shows:   c.scrapeOne(ctx, fetcher, runID, ch, date),
			}
			return nil
		})
	}
	// Tasks never return an error; Wait only joins them.
	_ = g.Wait()
	return results
}

func (c *Coordinator) scrapeOne(
	ctx context.Context,
	fetcher Fetcher,
	runID [16]byte,
	ch Channel,
	date string,
) (shows []Show) {
	metrics.IncScrapesInFlight()
	defer metrics.DecScrapesInFlight()

	start := c.now()
	c.emit(progress.Event{RunID: runID, TS: start, Stage: progress.StageFetchStart, Channel: ch.ID})

	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("channel scrape panicked",
				zap.String("channel", ch.ID),
				zap.Any("panic", rec),
			)
			c.emitDone(runID, ch, start, progress.StatusOther, 0, 0, "panic")
			shows = []Show{}
		}
	}()

	body, err := fetcher.Fetch(ctx, ch, date)
	if err != nil {
		c.logger.Warn("channel fetch failed",
			zap.String("channel", ch.ID),
			zap.String("channel_name", ch.Name),
			zap.Error(err),
		)
		c.emitDone(runID, ch, start, classifyFetchError(err), 0, 0, err.Error())
		return []Show{}
	}

	shows = c.extractor.Extract(body, ch, date)
	if shows == nil {
		shows = []Show{}
	}
	c.logger.Info("scraped channel schedule",
		zap.String("channel", ch.ID),
		zap.Int("shows", len(shows)),
	)
	c.emitDone(runID, ch, start, progress.Status2xx, int64(len(body)), int64(len(shows)), "")
	return shows
}

func (c *Coordinator) emitDone(
	runID [16]byte,
	ch Channel,
	start time.Time,
	class progress.StatusClass,
	bytes int64,
	shows int64,
	note string,
) {
	now := c.now()
	c.emit(progress.Event{
		RunID:       runID,
		TS:          now,
		Stage:       progress.StageFetchDone,
		Channel:     ch.ID,
		Bytes:       bytes,
		Shows:       shows,
		StatusClass: class,
		Dur:         max(now.Sub(start), 0),
		Note:        note,
	})
}

func (c *Coordinator) emit(evt progress.Event) {
	if c.emitter == nil {
		return
	}
	c.emitter.Emit(evt)
}

func (c *Coordinator) now() time.Time {
	if c.clock == nil {
		return time.Now().UTC()
	}
	return c.clock.Now()
}

func classifyFetchError(err error) progress.StatusClass {
	var failure *FetchFailure
	if errors.As(err, &failure) && failure.StatusCode != 0 {
		return progress.ClassifyStatus(failure.StatusCode)
	}
	return progress.StatusOther
}
