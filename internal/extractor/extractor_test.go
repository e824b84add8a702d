package extractor

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/tv-schedule-scraper/internal/schedule"
)

var hbo = schedule.Channel{ID: "hbo", Name: "HBO", URLName: "hbo"}

func TestExtractCompleteShow(t *testing.T) {
	t.Parallel()

	page := pageOf(`
<a class="show-upcoming" href="/show/1">
  <time>8:00 PM</time>
  <h3>The Last of Us <span class="badge">New</span></h3>
  <h4>Series • 2023</h4>
  <h5>Long, Long Time</h5>
  <h6>Season 1 • Episode 3</h6>
  <p>Bill and Frank's story.</p>
</a>`)

	shows := newTestExtractor().Extract(page, hbo, "2024-01-15")
	require.Len(t, shows, 1)

	show := shows[0]
	require.Equal(t, "The Last of Us", show.Title)
	require.Equal(t, "Series", show.ShowType)
	require.Equal(t, "8:00 PM", show.StartTime)
	require.Equal(t, "hbo", show.ChannelID)
	require.Equal(t, "2024-01-15", show.Date)
	require.Equal(t, "2023", deref(show.Year))
	require.Equal(t, "Long, Long Time", deref(show.EpisodeTitle))
	require.Equal(t, "Season 1", deref(show.Season))
	require.Equal(t, "Episode 3", deref(show.Episode))
	require.Equal(t, "Bill and Frank's story.", deref(show.Description))
	require.Nil(t, show.EndTime)
	require.Nil(t, show.Duration)
	require.Nil(t, show.Genre)
	require.Equal(t, "show-1", show.ID)
	require.Equal(t, fixedNow, show.Timestamp)
}

func TestExtractSkipsContainersMissingRequiredFields(t *testing.T) {
	t.Parallel()

	page := pageOf(`
<a class="show-upcoming"><time>6:00 PM</time><h3>Dune</h3><h4>Feature Film • 2021</h4></a>
<a class="show-upcoming"><time>8:00 PM</time><h4>Series</h4></a>
<a class="show-upcoming"><h3>No Time Here</h3></a>
<a class="show-upcoming"><time>  </time><h3>Blank Time</h3></a>
<a class="show-upcoming"><time>10:00 PM</time><h3>Real Time</h3></a>`)

	shows := newTestExtractor().Extract(page, hbo, "2024-01-15")
	require.Len(t, shows, 2)
	require.Equal(t, "Dune", shows[0].Title)
	require.Equal(t, "Feature Film", shows[0].ShowType)
	require.Equal(t, "Real Time", shows[1].Title)
	require.Equal(t, schedule.CategoryUnknown, shows[1].ShowType)
}

func TestExtractPreservesPageOrder(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := range 5 {
		fmt.Fprintf(&b, `<a class="show-upcoming"><time>%d:00 PM</time><h3>Show %d</h3></a>`, 11-i, i)
	}
	shows := newTestExtractor().Extract(pageOf(b.String()), hbo, "2024-01-15")
	require.Len(t, shows, 5)
	for i, show := range shows {
		require.Equal(t, fmt.Sprintf("Show %d", i), show.Title)
	}
}

func TestExtractIgnoresNonUpcomingMarkup(t *testing.T) {
	t.Parallel()

	page := pageOf(`<div class="show-upcoming"><time>1:00 PM</time><h3>Wrong tag</h3></div>
<a class="show-past"><time>1:00 PM</time><h3>Wrong class</h3></a>`)
	require.Empty(t, newTestExtractor().Extract(page, hbo, "2024-01-15"))
}

func TestExtractEmptyAndGarbageInput(t *testing.T) {
	t.Parallel()

	ex := newTestExtractor()
	for _, body := range [][]byte{nil, []byte(""), []byte("not html at all <<<>>>"), []byte("{\"json\": true}")} {
		shows := ex.Extract(body, hbo, "2024-01-15")
		require.NotNil(t, shows)
		require.Empty(t, shows)
	}
}

func TestExtractSkipsShowWhenIDGenerationFails(t *testing.T) {
	t.Parallel()

	ids := &sequenceIDs{failOn: 1}
	ex := New(fixedClock{}, ids, nil)
	page := pageOf(`
<a class="show-upcoming"><time>1:00 PM</time><h3>First</h3></a>
<a class="show-upcoming"><time>2:00 PM</time><h3>Second</h3></a>`)

	shows := ex.Extract(page, hbo, "2024-01-15")
	require.Len(t, shows, 1)
	require.Equal(t, "Second", shows[0].Title)
}

func TestExtractRecoversFromPanics(t *testing.T) {
	t.Parallel()

	ex := New(fixedClock{}, panicIDs{}, nil)
	page := pageOf(`<a class="show-upcoming"><time>1:00 PM</time><h3>Boom</h3></a>`)
	require.Empty(t, ex.Extract(page, hbo, "2024-01-15"))
}

func TestExtractTakesYearFromSecondTypeSegment(t *testing.T) {
	t.Parallel()

	page := pageOf(`<a class="show-upcoming"><time>7:00 PM</time><h3>A New Hope</h3><h4>Feature Film • 1977 • Extra</h4></a>`)

	shows := newTestExtractor().Extract(page, hbo, "2024-01-15")
	require.Len(t, shows, 1)
	require.Equal(t, "Feature Film", shows[0].ShowType)
	require.Equal(t, "1977", deref(shows[0].Year))
}

func TestSplitTypeLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label    string
		category string
		year     *string
	}{
		{"Series • 2023", "Series", ptr("2023")},
		{"Feature Film•1999", "Feature Film", ptr("1999")},
		{"Sports", schedule.CategoryUnknown, nil},
		{"Feature Film • 1977 • Extra", "Feature Film", ptr("1977")},
		{"Special •  • 2001", "Special", nil},
		{"Series •", "Series", nil},
		{"• 2020", schedule.CategoryUnknown, ptr("2020")},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			category, year := splitTypeLabel(tc.label)
			require.Equal(t, tc.category, category)
			require.Equal(t, tc.year, year)
		})
	}
}

func TestParseSeasonEpisode(t *testing.T) {
	t.Parallel()

	season, episode := parseSeasonEpisode("Season 3 • Episode 7")
	require.Equal(t, "Season 3", deref(season))
	require.Equal(t, "Episode 7", deref(episode))

	season, episode = parseSeasonEpisode("Season 3")
	require.Nil(t, season)
	require.Nil(t, episode)

	season, episode = parseSeasonEpisode("Episode 7")
	require.Nil(t, season)
	require.Nil(t, episode)

	season, episode = parseSeasonEpisode("Season Finale • Episode Special")
	require.Nil(t, season)
	require.Nil(t, episode)
}

func TestSeasonLabelWithoutEpisodeLeavesBothAbsent(t *testing.T) {
	t.Parallel()

	page := pageOf(`<a class="show-upcoming"><time>9:00 PM</time><h3>Succession</h3><h6>Season 3</h6></a>`)
	shows := newTestExtractor().Extract(page, hbo, "2024-01-15")
	require.Len(t, shows, 1)
	require.Nil(t, shows[0].Season)
	require.Nil(t, shows[0].Episode)
}

func TestStripNewBadge(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Succession", stripNewBadge("Succession New"))
	require.Equal(t, "New Amsterdam", stripNewBadge("New Amsterdam"))
	require.Equal(t, "Newsroom", stripNewBadge("Newsroom"))
}

var fixedNow = time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return fixedNow }

type sequenceIDs struct {
	n      atomic.Int64
	failOn int64
}

func (s *sequenceIDs) NewID() (string, error) {
	n := s.n.Add(1)
	if n == s.failOn {
		return "", fmt.Errorf("entropy exhausted")
	}
	return fmt.Sprintf("show-%d", n), nil
}

type panicIDs struct{}

func (panicIDs) NewID() (string, error) { panic("id source exploded") }

func newTestExtractor() *Extractor {
	return New(fixedClock{}, &sequenceIDs{}, nil)
}

func pageOf(body string) []byte {
	return []byte("<!doctype html><html><body><section class=\"schedule\">" + body + "</section></body></html>")
}

func ptr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
