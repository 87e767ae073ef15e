package order

// Package order contains domain types for realtime order notifications
// pushed by the YupiFlow backend.

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// EventOrderCreated is the only event type currently broadcast on the
// orders channel.
const EventOrderCreated = "OrderCreated"

var (
	// ErrUnknownEvent is returned for envelopes with an unrecognized event tag.
	ErrUnknownEvent = errors.New("unknown order event type")
	// ErrMalformedEvent is returned when an envelope or payload fails validation.
	ErrMalformedEvent = errors.New("malformed order event")
)

// Event is an immutable realtime order notification payload.
type Event struct {
	ID           int64     `json:"id"`
	TrackingCode string    `json:"trackingCode"`
	UserName     string    `json:"userName"`
	Total        float64   `json:"total"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks the payload shape before it is dispatched to listeners.
func (e Event) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrMalformedEvent)
	}
	if strings.TrimSpace(e.TrackingCode) == "" {
		return fmt.Errorf("%w: trackingCode is required", ErrMalformedEvent)
	}
	if strings.TrimSpace(e.Status) == "" {
		return fmt.Errorf("%w: status is required", ErrMalformedEvent)
	}
	if e.Total < 0 {
		return fmt.Errorf("%w: total cannot be negative", ErrMalformedEvent)
	}
	if e.CreatedAt.IsZero() {
		return fmt.Errorf("%w: createdAt is required", ErrMalformedEvent)
	}
	return nil
}

// Envelope is the tagged wire format broadcast on the realtime channel.
// The Event tag selects the payload variant; unknown tags are rejected
// rather than passed through.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ParseEnvelope decodes and validates a raw channel message. It returns the
// contained Event only for well-formed OrderCreated envelopes.
func ParseEnvelope(raw []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch env.Event {
	case EventOrderCreated:
		var evt Event
		if err := json.Unmarshal(env.Data, &evt); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if err := evt.Validate(); err != nil {
			return Event{}, err
		}
		return evt, nil
	case "":
		return Event{}, fmt.Errorf("%w: missing event tag", ErrMalformedEvent)
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
}
