// Package queue_publisher delivers domain events to RabbitMQ.  Errors are
// logged and returned so callers can ignore broker failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	q "github.com/starshade/online-store/internal/queue"
)

// orderPlacedQueue is both the queue name and the routing key on the
// default exchange.
const orderPlacedQueue = "order.placed"

// Publisher publishes events for placed orders.  Each publish dials its
// own short-lived connection; order placement is rare enough that holding
// a channel open buys nothing and reconnect handling would cost a lot.
type Publisher struct {
	url string
	log zerolog.Logger
}

// New returns a Publisher that dials the given AMQP URL.
func New(url string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// OrderPlaced publishes an OrderPlacedEvent.  The queue is declared
// durable and messages persistent, so confirmed orders survive a broker
// restart.  Any failure is logged and returned; it must never panic.
func (p *Publisher) OrderPlaced(ctx context.Context, event q.OrderPlacedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error().Err(err).Msg("rabbitmq dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error().Err(err).Msg("rabbitmq channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so the first publish after a fresh broker works.
	if _, err := ch.QueueDeclare(orderPlacedQueue, true, false, false, false, nil); err != nil {
		p.log.Error().Err(err).Msg("rabbitmq queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal order event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", orderPlacedQueue, false, false, pub); err != nil {
		p.log.Error().Err(err).Uint64("order_id", event.OrderID).Msg("publish order event failed")
		return err
	}
	return nil
}
