package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types
const (
	TypeUserRegistered   = "user.registered"
	TypeDonationPosted   = "donation.posted"
	TypePickupRequested  = "pickup.requested"
	TypeRequestCancelled = "request.cancelled"
	TypeDonationsExpired = "donations.expired"
)

// Event is the envelope published for every state change worth announcing
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// NewEvent stamps a new envelope around payload
func NewEvent(eventType string, payload any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events to whoever listens
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes events to the log only
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher creates a publisher that logs each event at debug level
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "events").Logger()}
}

// Publish logs the event
func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.log.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Msg("Event published")
	return nil
}

// Close is a no-op
func (p *LogPublisher) Close() error {
	return nil
}
