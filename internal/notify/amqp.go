package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const confirmationQueue = "order.confirmed"

// AMQPNotifier publishes confirmations as persistent JSON messages to the
// order.confirmed queue. Each publish dials its own connection so a dead
// broker cannot poison long-lived state; the caller treats any error as a
// lost notification.
type AMQPNotifier struct {
	URL string
}

func (n AMQPNotifier) OrderConfirmed(ctx context.Context, c Confirmation) error {
	conn, err := amqp.Dial(n.URL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		confirmationQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return err
	}

	body, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",                // default exchange
		confirmationQueue, // routing key = queue name
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
