package schedule

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimezone is the display timezone for schedule dates and capture times.
const DefaultTimezone = "America/New_York"

// DateLayout is the calendar date format accepted and echoed by the API.
const DateLayout = "2006-01-02"

// CaptureTimeLayout formats ScheduleResponse.CurrentTime.
const CaptureTimeLayout = "2006-01-02 15:04:05"

// CategoryUnknown is used when a show carries no type label.
const CategoryUnknown = "Unknown"

// ErrChannelNotFound is returned when a channel id is not in the registry.
var ErrChannelNotFound = errors.New("channel not found")

// Channel is a broadcast source with a remote schedule-page path segment.
type Channel struct {
	ID      string `json:"id" mapstructure:"id"`
	Name    string `json:"name" mapstructure:"name"`
	URLName string `json:"url_name" mapstructure:"url_name"`
}

// Show is one normalized listing extracted from a channel's schedule page.
type Show struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ShowType     string    `json:"show_type"`
	Year         *string   `json:"year"`
	Season       *string   `json:"season"`
	Episode      *string   `json:"episode"`
	EpisodeTitle *string   `json:"episode_title"`
	Description  *string   `json:"description"`
	StartTime    string    `json:"start_time"`
	EndTime      *string   `json:"end_time"`
	Duration     *int      `json:"duration"`
	Genre        *string   `json:"genre"`
	ChannelID    string    `json:"channel_id"`
	Date         string    `json:"date"`
	Timestamp    time.Time `json:"timestamp"`
}

// ChannelSchedule lists the shows for one channel on one date, in page order.
type ChannelSchedule struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	Date        string `json:"date"`
	Shows       []Show `json:"shows"`
}

// ScheduleResponse is the aggregate payload for the multi-channel endpoint.
type ScheduleResponse struct {
	Channels    []ChannelSchedule `json:"channels"`
	CurrentTime string            `json:"current_time"`
	Timezone    string            `json:"timezone"`
}

// ChannelResult pairs a channel with the shows scraped for it. Shows is never
// nil; a failed channel carries an empty slice.
type ChannelResult struct {
	Channel Channel
	Shows   []Show
}

// FetchFailure reports a non-2xx status, a transport error, or a timeout while
// fetching a channel page. StatusCode is zero when no response was received.
type FetchFailure struct {
	URL        string
	StatusCode int
	Err        error
}

func (f *FetchFailure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", f.URL, f.StatusCode, f.Err)
	}
	return fmt.Sprintf("fetch %s: %v", f.URL, f.Err)
}

func (f *FetchFailure) Unwrap() error {
	return f.Err
}

// defaultLocation resolves DefaultTimezone, falling back to UTC only when the
// zone database is unavailable.
func defaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
