package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NATSPublisher publishes events as JSON on <prefix>.<event type>
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	log    zerolog.Logger
}

// NewNATSPublisher connects to the NATS server at url
func NewNATSPublisher(url, subjectPrefix string, log zerolog.Logger) (*NATSPublisher, error) {
	logger := log.With().Str("component", "events").Logger()

	conn, err := nats.Connect(url,
		nats.Name("foodbridge-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info().Str("url", conn.ConnectedUrl()).Str("prefix", subjectPrefix).Msg("NATS connection established")

	return &NATSPublisher{conn: conn, prefix: subjectPrefix, log: logger}, nil
}

// Subject returns the subject an event type is published on
func (p *NATSPublisher) Subject(eventType string) string {
	return Subject(p.prefix, eventType)
}

// Publish encodes the event and publishes it
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := p.Subject(event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	p.log.Debug().Str("subject", subject).Str("event_id", event.ID).Msg("Event published")
	return nil
}

// Close flushes pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// Subject joins a prefix and an event type into a NATS subject
func Subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}
