package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// sessionTransport refuses new round trips once the session context is done,
// so no request outlives the endpoint call that opened the session.
type sessionTransport struct {
	base http.RoundTripper
	ctx  context.Context
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("session transport received nil request")
	}
	if err := t.ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errSessionClosed, err)
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("session transport roundtrip: %w", err)
	}
	return resp, nil
}
