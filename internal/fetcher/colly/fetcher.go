// Package collyfetcher implements the schedule page fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/tv-schedule-scraper/internal/schedule"
)

// DefaultTimeout bounds a session whose context carries no deadline.
const DefaultTimeout = 30 * time.Second

var (
	errSessionClosed = errors.New("fetch session closed")
	errFetchCanceled = errors.New("colly fetch canceled")
)

// Config controls collector behavior.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Opener creates one fetch session per endpoint call.
type Opener struct {
	cfg    Config
	logger *zap.Logger
}

type collectorHooks interface {
	OnRequest(colly.RequestCallback)
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds an Opener. logger may be nil.
func New(cfg Config, logger *zap.Logger) *Opener {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{cfg: cfg, logger: logger}
}

// NewSession returns a session whose connection pool allows at most poolSize
// concurrent connections per host and whose requests all share ctx's deadline.
func (o *Opener) NewSession(ctx context.Context, poolSize int) (schedule.Session, error) {
	if poolSize <= 0 {
		return nil, fmt.Errorf("new fetch session: pool size must be positive, got %d", poolSize)
	}
	if _, err := url.Parse(o.cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("new fetch session: parse base url: %w", err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	transport := newHTTPTransport(poolSize)

	collector := colly.NewCollector(
		colly.Async(false),
		colly.AllowURLRevisit(),
		colly.UserAgent(o.cfg.UserAgent),
	)
	collector.IgnoreRobotsTxt = true
	collector.ParseHTTPErrorResponse = true
	collector.WithTransport(&sessionTransport{base: transport, ctx: sessionCtx})
	collector.SetRequestTimeout(requestTimeout(sessionCtx, o.cfg.Timeout))

	return &Session{
		baseURL:   o.cfg.BaseURL,
		ctx:       sessionCtx,
		cancel:    cancel,
		transport: transport,
		collector: collector,
		logger:    o.logger,
	}, nil
}

// Session is a request-scoped fetcher. It is safe for concurrent use.
type Session struct {
	baseURL   string
	ctx       context.Context
	cancel    context.CancelFunc
	transport *http.Transport
	collector *colly.Collector
	logger    *zap.Logger
}

// PageURL builds the schedule page address for a channel.
func PageURL(baseURL string, channel schedule.Channel) string {
	return baseURL + "/network/" + url.PathEscape(channel.URLName) + "/schedule/"
}

// Fetch issues a single GET for the channel's schedule page. The date is not
// part of the upstream address; the page lists the current schedule.
func (s *Session) Fetch(ctx context.Context, channel schedule.Channel, _ string) ([]byte, error) {
	target := PageURL(s.baseURL, channel)
	if err := s.ctx.Err(); err != nil {
		return nil, &schedule.FetchFailure{URL: target, Err: fmt.Errorf("%w: %w", errSessionClosed, err)}
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	var (
		result   fetchResult
		fetchErr error
	)
	collector := s.collector.Clone()
	collector.Context = fetchCtx
	configureCollectorHooks(collector, &result, &fetchErr)

	if err := runCollector(fetchCtx, collector, target, &fetchErr); err != nil {
		var status int
		if !errors.Is(err, errFetchCanceled) {
			status = result.statusCode
		}
		return nil, &schedule.FetchFailure{URL: target, StatusCode: status, Err: err}
	}
	if result.statusCode < 200 || result.statusCode > 299 {
		return nil, &schedule.FetchFailure{
			URL:        target,
			StatusCode: result.statusCode,
			Err:        fmt.Errorf("unexpected status %s", http.StatusText(result.statusCode)),
		}
	}
	s.logger.Debug("fetched schedule page",
		zap.String("channel", channel.ID),
		zap.String("url", target),
		zap.Int("bytes", len(result.body)),
	)
	return result.body, nil
}

// Close cancels in-flight requests and releases pooled connections.
func (s *Session) Close() error {
	s.cancel()
	s.transport.CloseIdleConnections()
	return nil
}

type fetchResult struct {
	statusCode int
	body       []byte
}

func configureCollectorHooks(hooks collectorHooks, result *fetchResult, fetchErr *error) {
	hooks.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
	})

	hooks.OnResponse(func(r *colly.Response) {
		*result = fetchResult{
			statusCode: r.StatusCode,
			body:       append([]byte(nil), r.Body...),
		}
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.statusCode = r.StatusCode
		}
		*fetchErr = err
	})
}

func runCollector(ctx context.Context, collector *colly.Collector, target string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(target)
	}()

	select {
	case <-ctx.Done():
		// The visit goroutine may still be writing; the caller must not read its result.
		return fmt.Errorf("%w: %w", errFetchCanceled, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func requestTimeout(ctx context.Context, fallback time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 {
			return remaining
		}
	}
	return fallback
}

func newHTTPTransport(poolSize int) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxConnsPerHost:       poolSize,
		MaxIdleConnsPerHost:   poolSize,
		MaxIdleConns:          poolSize,
		IdleConnTimeout:       90 * time.Second,
	}
}
