// Package channels holds the static roster of channels the service can scrape.
package channels

import (
	"errors"
	"fmt"

	"github.com/JakeFAU/tv-schedule-scraper/internal/schedule"
)

var (
	// ErrEmptyRoster is returned when a registry is built with no channels.
	ErrEmptyRoster = errors.New("channel roster is empty")
	// ErrInvalidChannel is returned for entries missing an id, name, or url name.
	ErrInvalidChannel = errors.New("invalid channel entry")
	// ErrDuplicateChannel is returned when two entries share an id.
	ErrDuplicateChannel = errors.New("duplicate channel id")
)

// Registry is an immutable, ordered channel roster.
type Registry struct {
	ordered []schedule.Channel
	byID    map[string]int
}

// New validates channels and returns a Registry preserving their order.
func New(channels []schedule.Channel) (*Registry, error) {
	if len(channels) == 0 {
		return nil, ErrEmptyRoster
	}
	r := &Registry{
		ordered: make([]schedule.Channel, 0, len(channels)),
		byID:    make(map[string]int, len(channels)),
	}
	for i, ch := range channels {
		if ch.ID == "" || ch.Name == "" || ch.URLName == "" {
			return nil, fmt.Errorf("%w: entry %d (%q)", ErrInvalidChannel, i, ch.ID)
		}
		if _, dup := r.byID[ch.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateChannel, ch.ID)
		}
		r.byID[ch.ID] = len(r.ordered)
		r.ordered = append(r.ordered, ch)
	}
	return r, nil
}

// Default returns the built-in roster.
func Default() *Registry {
	r, err := New(defaultRoster)
	if err != nil {
		panic(fmt.Sprintf("channels: built-in roster is invalid: %v", err))
	}
	return r
}

// List returns every channel in registry order. The slice is a copy.
func (r *Registry) List() []schedule.Channel {
	out := make([]schedule.Channel, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Lookup finds a channel by id.
func (r *Registry) Lookup(id string) (schedule.Channel, bool) {
	i, ok := r.byID[id]
	if !ok {
		return schedule.Channel{}, false
	}
	return r.ordered[i], true
}

// Priority returns the first n channels in registry order. n is clamped to
// the roster size; n <= 0 yields an empty slice.
func (r *Registry) Priority(n int) []schedule.Channel {
	n = max(0, min(n, len(r.ordered)))
	out := make([]schedule.Channel, n)
	copy(out, r.ordered[:n])
	return out
}

// Len reports the roster size.
func (r *Registry) Len() int { return len(r.ordered) }
