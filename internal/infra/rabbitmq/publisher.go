package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open publisher channel: %w", err)
	}

	err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{channel: ch, exchange: exchange}, nil
}

// EventPublisher publishes run-outcome events under a fixed routing key.
type EventPublisher struct {
	pub        *Publisher
	routingKey string
}

func NewEventPublisher(pub *Publisher, routingKey string) *EventPublisher {
	return &EventPublisher{pub: pub, routingKey: routingKey}
}

func (ep *EventPublisher) PublishEvent(ctx context.Context, msg []byte) error {
	return ep.pub.channel.PublishWithContext(ctx,
		ep.pub.exchange,
		ep.routingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
}
