package schedule

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JakeFAU/tv-schedule-scraper/internal/progress"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// stubFetcher returns the channel id as the page body. Channels listed in
// fail return a FetchFailure with that status; delay staggers completion.
type stubFetcher struct {
	fail  map[string]int
	delay func(Channel) time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32

	mu        sync.Mutex
	deadlines []time.Time
	ctxErrs   []error
}

func (f *stubFetcher) Fetch(ctx context.Context, ch Channel, _ string) ([]byte, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	deadline, _ := ctx.Deadline()
	f.mu.Lock()
	f.deadlines = append(f.deadlines, deadline)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()

	if f.delay != nil {
		time.Sleep(f.delay(ch))
	}
	if status, ok := f.fail[ch.ID]; ok {
		return nil, &FetchFailure{URL: "https://upstream/" + ch.URLName, StatusCode: status, Err: fmt.Errorf("status %d", status)}
	}
	return []byte(ch.ID), nil
}

// stubExtractor emits one show titled after the body and panics on "boom".
type stubExtractor struct{}

func (stubExtractor) Extract(body []byte, ch Channel, date string) []Show {
	if string(body) == "boom" {
		panic("extractor exploded")
	}
	return []Show{{ID: "id-" + ch.ID, Title: string(body), ShowType: CategoryUnknown, ChannelID: ch.ID, Date: date}}
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []progress.Event
}

func (r *recordingEmitter) Emit(evt progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingEmitter) byStage(stage progress.Stage) []progress.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []progress.Event
	for _, evt := range r.events {
		if evt.Stage == stage {
			out = append(out, evt)
		}
	}
	return out
}

type stubRegistry struct{ channels []Channel }

func (r stubRegistry) List() []Channel { return append([]Channel(nil), r.channels...) }

func (r stubRegistry) Lookup(id string) (Channel, bool) {
	for _, ch := range r.channels {
		if ch.ID == id {
			return ch, true
		}
	}
	return Channel{}, false
}

func (r stubRegistry) Priority(n int) []Channel {
	n = min(n, len(r.channels))
	return append([]Channel(nil), r.channels[:n]...)
}

type stubSession struct {
	Fetcher
	closed atomic.Bool
}

func (s *stubSession) Close() error {
	s.closed.Store(true)
	return nil
}

type stubOpener struct {
	fetcher Fetcher
	err     error

	mu        sync.Mutex
	poolSizes []int
	deadlines []time.Time
	sessions  []*stubSession
}

func (o *stubOpener) NewSession(ctx context.Context, poolSize int) (Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	deadline, _ := ctx.Deadline()
	o.poolSizes = append(o.poolSizes, poolSize)
	o.deadlines = append(o.deadlines, deadline)
	s := &stubSession{Fetcher: o.fetcher}
	o.sessions = append(o.sessions, s)
	return s, nil
}

func makeChannels(n int) []Channel {
	out := make([]Channel, n)
	for i := range out {
		id := fmt.Sprintf("ch%02d", i)
		out[i] = Channel{ID: id, Name: "Channel " + id, URLName: id}
	}
	return out
}
