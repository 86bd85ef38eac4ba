package config

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker is an open AMQP channel bound to the notification queue.
type Broker struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
	Queue   amqp.Queue
}

// DialBroker connects to AMQP_URL and declares the durable notification queue.
func DialBroker(url, queue string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	return &Broker{conn: conn, Channel: ch, Queue: q}, nil
}

// Close releases the channel and the connection.
func (b *Broker) Close() error {
	if b == nil {
		return nil
	}
	if b.Channel != nil {
		_ = b.Channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
