// Package events publishes reservation and payment lifecycle events to a
// message broker or the log.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chrisdamba/foodsite/internal/models"
)

const (
	TypeReservationCreated   = "reservation_created"
	TypeReservationCancelled = "reservation_cancelled"
	TypePaymentStarted       = "payment_started"
	TypePaymentResolved      = "payment_resolved"
)

// OutputDestination is a sink for encoded events.
type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type Event struct {
	Type         string `json:"type"`
	RestaurantID string `json:"restaurant_id,omitempty"`
	Key          string `json:"key"`
	Timestamp    int64  `json:"timestamp"`
	Data         any    `json:"data,omitempty"`
}

type ReservationData struct {
	ReservationID string `json:"reservation_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	PartySize     int    `json:"party_size"`
	TableID       string `json:"table_id"`
	Status        string `json:"status"`
}

type PaymentData struct {
	Session string `json:"session"`
	Status  string `json:"status,omitempty"`
	Origin  string `json:"origin,omitempty"`
}

func ReservationEvent(eventType string, rec models.ReservationRecord, at time.Time) Event {
	return Event{
		Type:         eventType,
		RestaurantID: rec.RestaurantID,
		Key:          rec.ID,
		Timestamp:    at.Unix(),
		Data: ReservationData{
			ReservationID: rec.ID,
			Date:          rec.Date,
			Time:          rec.Time,
			PartySize:     rec.PartySize,
			TableID:       rec.TableID,
			Status:        rec.Status,
		},
	}
}

func PaymentEvent(eventType string, data PaymentData, at time.Time) Event {
	return Event{Type: eventType, Key: data.Session, Timestamp: at.Unix(), Data: data}
}

// Publisher encodes events and writes them to "<prefix>.<type>" topics.
// Delivery failures are logged, never returned to the caller's flow.
type Publisher struct {
	dest   OutputDestination
	prefix string
	logger zerolog.Logger
}

func NewPublisher(dest OutputDestination, prefix string, logger zerolog.Logger) *Publisher {
	return &Publisher{dest: dest, prefix: prefix, logger: logger.With().Str("component", "events").Logger()}
}

func (p *Publisher) Topic(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *Publisher) Publish(_ context.Context, evt Event) {
	if p == nil || p.dest == nil {
		return
	}
	msg, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error().Err(err).Str("type", evt.Type).Msg("failed to encode event")
		return
	}
	if err := p.dest.WriteMessage(p.Topic(evt.Type), msg); err != nil {
		p.logger.Warn().Err(err).Str("type", evt.Type).Str("key", evt.Key).Msg("failed to publish event")
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.dest == nil {
		return nil
	}
	return p.dest.Close()
}

// NewDestination builds the sink selected by cfg.Events.Sink.
func NewDestination(cfg *models.Config, logger zerolog.Logger) (OutputDestination, error) {
	switch cfg.Events.Sink {
	case "kafka":
		p, err := NewSaramaProducer(cfg.Kafka, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "rabbitmq":
		p, err := NewRabbitPublisher(cfg.RabbitMQ, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "log":
		return NewLogOutput(logger), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported events sink %q", cfg.Events.Sink)
	}
}
