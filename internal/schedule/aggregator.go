package schedule

import "time"

// Assemble wraps per-channel results into a ScheduleResponse stamped with the
// capture time in loc. A nil loc falls back to DefaultTimezone.
func Assemble(results []ChannelResult, date string, now time.Time, loc *time.Location) ScheduleResponse {
	if loc == nil {
		loc = defaultLocation()
	}
	channels := make([]ChannelSchedule, 0, len(results))
	for _, res := range results {
		channels = append(channels, ToChannelSchedule(res, date))
	}
	return ScheduleResponse{
		Channels:    channels,
		CurrentTime: now.In(loc).Format(CaptureTimeLayout),
		Timezone:    loc.String(),
	}
}

// ToChannelSchedule converts one coordinator result into its API shape.
func ToChannelSchedule(res ChannelResult, date string) ChannelSchedule {
	shows := res.Shows
	if shows == nil {
		shows = []Show{}
	}
	return ChannelSchedule{
		ChannelID:   res.Channel.ID,
		ChannelName: res.Channel.Name,
		Date:        date,
		Shows:       shows,
	}
}
