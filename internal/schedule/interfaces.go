package schedule

import (
	"context"
	"time"
)

// Registry exposes the static channel roster.
type Registry interface {
	List() []Channel
	Lookup(id string) (Channel, bool)
	Priority(n int) []Channel
}

// Fetcher retrieves the raw schedule page for a channel.
type Fetcher interface {
	Fetch(ctx context.Context, channel Channel, date string) ([]byte, error)
}

// Session is a Fetcher scoped to one endpoint call. It owns a connection pool
// and the call's shared deadline; Close releases both.
type Session interface {
	Fetcher
	Close() error
}

// SessionOpener creates request-scoped fetch sessions. ctx carries the shared
// deadline; poolSize caps concurrent connections to the upstream.
type SessionOpener interface {
	NewSession(ctx context.Context, poolSize int) (Session, error)
}

// Extractor turns a fetched page into shows. It never fails the caller.
type Extractor interface {
	Extract(body []byte, channel Channel, date string) []Show
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run and show ids.
type IDGenerator interface {
	NewID() (string, error)
}
