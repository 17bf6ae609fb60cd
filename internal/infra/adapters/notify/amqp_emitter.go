package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"vendor-booking-platform/internal/domain/ports/adapter"
)

var _ adapter.NotificationEmitter = (*AMQPEmitter)(nil)

// AMQPEmitter publishes BookingConfirmed events to a durable RabbitMQ queue.
// Downstream consumers (email, calendar sync) drain the queue; a publish
// failure is the caller's to log and ignore, the booking stands either way.
type AMQPEmitter struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   *zerolog.Logger
}

func NewAMQPEmitter(url, queue string, logger *zerolog.Logger) (*AMQPEmitter, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	// Durable queue so confirmations survive a broker restart.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	compLog := logger.With().Str("component", "AMQPEmitter").Logger()
	return &AMQPEmitter{conn: conn, ch: ch, queue: queue, log: &compLog}, nil
}

func (e *AMQPEmitter) BookingConfirmed(ctx context.Context, ev adapter.BookingConfirmedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := e.ch.PublishWithContext(ctx, "", e.queue, false, false, pub); err != nil {
		e.log.Error().Err(err).Str("booking_id", ev.BookingID).Msg("publish booking.confirmed failed")
		return err
	}
	e.log.Debug().Str("booking_id", ev.BookingID).Msg("booking.confirmed published")
	return nil
}

func (e *AMQPEmitter) Close() error {
	if err := e.ch.Close(); err != nil {
		_ = e.conn.Close()
		return err
	}
	return e.conn.Close()
}
