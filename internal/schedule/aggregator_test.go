package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation(DefaultTimezone)
	require.NoError(t, err)

	results := []ChannelResult{
		{Channel: Channel{ID: "hbo", Name: "HBO"}, Shows: []Show{{Title: "A"}, {Title: "B"}}},
		{Channel: Channel{ID: "hbo2", Name: "HBO 2"}},
		{Channel: Channel{ID: "cinemax", Name: "Cinemax"}, Shows: []Show{}},
	}
	now := time.Date(2024, 7, 4, 16, 5, 9, 0, time.UTC)

	resp := Assemble(results, "2024-07-04", now, loc)
	require.Equal(t, "2024-07-04 12:05:09", resp.CurrentTime)
	require.Equal(t, "America/New_York", resp.Timezone)
	require.Len(t, resp.Channels, 3)
	require.Equal(t, "hbo", resp.Channels[0].ChannelID)
	require.Equal(t, "HBO", resp.Channels[0].ChannelName)
	require.Equal(t, "2024-07-04", resp.Channels[0].Date)
	require.Equal(t, []string{"A", "B"}, []string{resp.Channels[0].Shows[0].Title, resp.Channels[0].Shows[1].Title})
	require.NotNil(t, resp.Channels[1].Shows)
	require.Empty(t, resp.Channels[1].Shows)
	require.Equal(t, "cinemax", resp.Channels[2].ChannelID)

	raw, err := json.Marshal(resp.Channels[1])
	require.NoError(t, err)
	require.JSONEq(t, `{"channel_id":"hbo2","channel_name":"HBO 2","date":"2024-07-04","shows":[]}`, string(raw))
}

func TestAssembleNilLocationUsesDefaultTimezone(t *testing.T) {
	t.Parallel()

	resp := Assemble(nil, "2024-01-15", time.Date(2024, 1, 15, 1, 2, 3, 0, time.UTC), nil)
	require.Equal(t, DefaultTimezone, resp.Timezone)
	require.Equal(t, "2024-01-14 20:02:03", resp.CurrentTime)
	require.NotNil(t, resp.Channels)
	require.Empty(t, resp.Channels)
}

func TestShowJSONKeepsOptionalFieldsAsNull(t *testing.T) {
	t.Parallel()

	year := "1999"
	raw, err := json.Marshal(Show{
		ID:        "x",
		Title:     "The Matrix",
		ShowType:  "Feature Film",
		Year:      &year,
		StartTime: "8:00 PM",
		ChannelID: "hbo",
		Date:      "2024-01-15",
		Timestamp: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "1999", decoded["year"])
	for _, key := range []string{"season", "episode", "episode_title", "description", "end_time", "duration", "genre"} {
		value, ok := decoded[key]
		require.True(t, ok, key)
		require.Nil(t, value, key)
	}
	require.Equal(t, "2024-01-15T00:00:00Z", decoded["timestamp"])
}

func TestFetchFailureError(t *testing.T) {
	t.Parallel()

	inner := &FetchFailure{URL: "https://x/network/hbo/schedule/", StatusCode: 404, Err: errSentinel}
	require.Contains(t, inner.Error(), "status 404")
	require.ErrorIs(t, inner, errSentinel)

	noStatus := &FetchFailure{URL: "https://x", Err: errSentinel}
	require.NotContains(t, noStatus.Error(), "status")
}

var errSentinel = sentinelError("sentinel")

type sentinelError string

func (e sentinelError) Error() string { return string(e) }
