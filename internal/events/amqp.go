package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	exchangeType   = "topic"
	publishTimeout = 5 * time.Second
)

// amqpChannel is the part of *amqp.Channel the forwarder uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPForwarder relays bus events to a RabbitMQ topic exchange. The routing
// key is the event type with underscores turned into dots, so consumers can
// bind "booking.*".
type AMQPForwarder struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	logger   *zerolog.Logger
}

func NewAMQPForwarder(url, exchange string, logger *zerolog.Logger) (*AMQPForwarder, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchange,
		exchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	f := newForwarder(channel, exchange, logger)
	f.conn = conn
	if logger != nil {
		logger.Info().Str("exchange", exchange).Msg("connected to RabbitMQ")
	}
	return f, nil
}

func newForwarder(channel amqpChannel, exchange string, logger *zerolog.Logger) *AMQPForwarder {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &AMQPForwarder{channel: channel, exchange: exchange, logger: logger}
}

// Attach subscribes the forwarder to every booking event on the bus.
func (f *AMQPForwarder) Attach(bus *EventBus) {
	bus.Subscribe(f.Handle, BookingEventTypes...)
}

// Handle publishes one event as a persistent JSON message.
func (f *AMQPForwarder) Handle(event *Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := f.channel.PublishWithContext(ctx,
		f.exchange,
		RoutingKey(event.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.CreatedAt.UTC(),
			Type:         event.Type,
			Body:         event.Payload,
		},
	)
	if err != nil {
		f.logger.Error().Err(err).Str("event_type", event.Type).Msg("amqp publish failed")
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

func (f *AMQPForwarder) Close() error {
	if f.channel != nil {
		if err := f.channel.Close(); err != nil {
			f.logger.Warn().Err(err).Msg("failed to close amqp channel")
		}
	}
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}

func RoutingKey(eventType string) string {
	return strings.ReplaceAll(eventType, "_", ".")
}
