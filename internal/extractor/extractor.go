// Package extractor parses channel schedule pages into shows.
//
// The upstream markup is an undocumented contract: each upcoming broadcast is
// an <a class="show-upcoming"> holding <time>, <h3> title, <h4> "type • year",
// <h5> episode title, <h6> "Season N • Episode M", and a <p> synopsis. Every
// container is parsed on its own; a container that is missing a required field
// or trips over unexpected structure is skipped without affecting the rest.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/tv-schedule-scraper/internal/metrics"
	"github.com/JakeFAU/tv-schedule-scraper/internal/schedule"
)

// ContainerSelector matches one upcoming show.
const ContainerSelector = "a.show-upcoming"

const (
	typeSeparator = "•"
	newBadge      = "New"
)

var (
	errMissingTime  = errors.New("missing time label")
	errMissingTitle = errors.New("missing title label")

	seasonEpisodePattern = regexp.MustCompile(`Season\s*(\d+).*Episode\s*(\d+)`)
)

// Extractor implements schedule.Extractor using goquery.
type Extractor struct {
	clock  schedule.Clock
	ids    schedule.IDGenerator
	logger *zap.Logger
}

// New builds an Extractor. clock stamps capture instants and ids assigns show
// ids; logger may be nil.
func New(clock schedule.Clock, ids schedule.IDGenerator, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{clock: clock, ids: ids, logger: logger}
}

// Extract returns the shows found in body in page order. Date and channel id
// are taken from the arguments. Unparsable markup yields an empty slice.
func (e *Extractor) Extract(body []byte, channel schedule.Channel, date string) []schedule.Show {
	shows := []schedule.Show{}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		e.logger.Warn("parse schedule page failed", zap.String("channel", channel.ID), zap.Error(err))
		return shows
	}
	doc.Find(ContainerSelector).Each(func(i int, container *goquery.Selection) {
		show, err := e.safeExtract(container, channel, date)
		if err != nil {
			metrics.ObserveExtractionSkip(skipReason(err))
			e.logger.Debug("skipping show container",
				zap.String("channel", channel.ID),
				zap.Int("index", i),
				zap.Error(err),
			)
			return
		}
		shows = append(shows, show)
	})
	return shows
}

func (e *Extractor) safeExtract(
	container *goquery.Selection,
	channel schedule.Channel,
	date string,
) (show schedule.Show, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("extract show: %v", rec)
		}
	}()
	return e.extractShow(container, channel, date)
}

func (e *Extractor) extractShow(
	container *goquery.Selection,
	channel schedule.Channel,
	date string,
) (schedule.Show, error) {
	startTime, ok := firstText(container, "time")
	if !ok {
		return schedule.Show{}, errMissingTime
	}
	title, ok := titleText(container)
	if !ok {
		return schedule.Show{}, errMissingTitle
	}

	id, err := e.ids.NewID()
	if err != nil {
		return schedule.Show{}, fmt.Errorf("assign show id: %w", err)
	}

	show := schedule.Show{
		ID:        id,
		Title:     title,
		ShowType:  schedule.CategoryUnknown,
		StartTime: startTime,
		ChannelID: channel.ID,
		Date:      date,
		Timestamp: e.clock.Now().UTC(),
	}
	if label, ok := firstText(container, "h4"); ok {
		show.ShowType, show.Year = splitTypeLabel(label)
	}
	if episodeTitle, ok := firstText(container, "h5"); ok {
		show.EpisodeTitle = &episodeTitle
	}
	if label, ok := firstText(container, "h6"); ok {
		show.Season, show.Episode = parseSeasonEpisode(label)
	}
	if synopsis, ok := firstText(container, "p"); ok {
		show.Description = &synopsis
	}
	return show, nil
}

// splitTypeLabel splits "Series • 2021" into its category and optional year.
// A label without the separator leaves the category Unknown; segments past
// the second are ignored.
func splitTypeLabel(label string) (string, *string) {
	parts := strings.Split(label, typeSeparator)
	if len(parts) < 2 {
		return schedule.CategoryUnknown, nil
	}
	category := strings.TrimSpace(parts[0])
	if category == "" {
		category = schedule.CategoryUnknown
	}
	year := strings.TrimSpace(parts[1])
	if year == "" {
		return category, nil
	}
	return category, &year
}

// parseSeasonEpisode requires both numbers; a label with only one leaves both
// absent.
func parseSeasonEpisode(label string) (*string, *string) {
	m := seasonEpisodePattern.FindStringSubmatch(label)
	if m == nil {
		return nil, nil
	}
	season := "Season " + m[1]
	episode := "Episode " + m[2]
	return &season, &episode
}

func titleText(container *goquery.Selection) (string, bool) {
	heading := container.Find("h3").First()
	if heading.Length() == 0 {
		return "", false
	}
	heading = heading.Clone()
	heading.Children().FilterFunction(func(_ int, child *goquery.Selection) bool {
		return normalizeSpace(child.Text()) == newBadge
	}).Remove()
	title := stripNewBadge(normalizeSpace(heading.Text()))
	return title, title != ""
}

func stripNewBadge(title string) string {
	trimmed := strings.TrimSuffix(title, " "+newBadge)
	return strings.TrimSpace(trimmed)
}

func firstText(container *goquery.Selection, selector string) (string, bool) {
	node := container.Find(selector).First()
	if node.Length() == 0 {
		return "", false
	}
	text := normalizeSpace(node.Text())
	return text, text != ""
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, errMissingTime):
		return "missing_time"
	case errors.Is(err, errMissingTitle):
		return "missing_title"
	default:
		return "malformed"
	}
}
