package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the milestone an Event represents.
type Stage string

// Supported stages.
const (
	StageRunStart   Stage = "RUN_START"
	StageRunDone    Stage = "RUN_DONE"
	StageFetchStart Stage = "FETCH_START"
	StageFetchDone  Stage = "FETCH_DONE"
)

// StatusClass is a coarse HTTP response grouping.
type StatusClass string

// Status classes recorded on FETCH_DONE.
const (
	Status2xx   StatusClass = "2xx"
	Status3xx   StatusClass = "3xx"
	Status4xx   StatusClass = "4xx"
	Status5xx   StatusClass = "5xx"
	StatusOther StatusClass = "other"
)

// Event is one milestone within a scrape run.
type Event struct {
	// RunID identifies the endpoint call in 16-byte UUID form.
	RunID [16]byte
	// TS is the UTC time the emitter observed the milestone.
	TS    time.Time
	Stage Stage
	// Channel is the registry id; required for fetch stages.
	Channel string
	URL     string
	// Bytes is the page size for a successful fetch.
	Bytes int64
	// Shows counts extracted shows (per channel, or per run on RUN_DONE).
	Shows       int64
	StatusClass StatusClass
	Dur         time.Duration
	// Note holds low-volume context such as error text.
	Note string
}

// Validate performs coarse validation on an Event.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone:
	case StageFetchStart:
		if e.Channel == "" {
			return errors.New("fetch start requires channel")
		}
	case StageFetchDone:
		if e.Channel == "" {
			return errors.New("fetch done requires channel")
		}
		if e.StatusClass == "" {
			return errors.New("fetch done requires status class")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run id back to a uuid.UUID.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}

// ClassifyStatus groups HTTP status codes.
func ClassifyStatus(code int) StatusClass {
	switch {
	case code >= 200 && code < 300:
		return Status2xx
	case code >= 300 && code < 400:
		return Status3xx
	case code >= 400 && code < 500:
		return Status4xx
	case code >= 500 && code < 600:
		return Status5xx
	default:
		return StatusOther
	}
}
