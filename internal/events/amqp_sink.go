package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// amqpPublisher is the slice of *amqp.Channel the broker sink needs.
type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPConnection holds the RabbitMQ connection and channel.
type AMQPConnection struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
}

// ConnectAMQP dials the broker and declares a durable topic exchange.
func ConnectAMQP(url, exchange string, logger *zap.Logger) (*AMQPConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	logger.Info("connected to rabbitmq", zap.String("exchange", exchange))
	return &AMQPConnection{Connection: conn, Channel: ch}, nil
}

// Close closes the channel and connection.
func (c *AMQPConnection) Close() error {
	if c == nil {
		return nil
	}
	if c.Channel != nil {
		_ = c.Channel.Close()
	}
	if c.Connection != nil {
		return c.Connection.Close()
	}
	return nil
}

// AMQPSink publishes events to a topic exchange keyed by event type.
type AMQPSink struct {
	publisher amqpPublisher
	exchange  string
}

// NewAMQPSink builds a sink over a channel.
func NewAMQPSink(publisher amqpPublisher, exchange string) *AMQPSink {
	return &AMQPSink{publisher: publisher, exchange: exchange}
}

func (s *AMQPSink) Name() string { return "amqp" }

// Deliver publishes a persistent JSON message.
func (s *AMQPSink) Deliver(ctx context.Context, event Event) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}
	err = s.publisher.PublishWithContext(ctx,
		s.exchange,
		string(event.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			MessageId:    event.ID,
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    event.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}
