package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// RabbitPublisher publishes BookingEvents to a durable RabbitMQ queue
// through the default exchange.  Each publish dials its own connection;
// booking traffic is low and this keeps the publisher free of reconnect
// state.  Errors are logged and returned so the caller can choose to
// ignore them.
type RabbitPublisher struct {
	URL   string
	Queue string
}

// NewRabbitPublisher returns a publisher for the given broker and queue.
func NewRabbitPublisher(url, queue string) *RabbitPublisher {
	return &RabbitPublisher{URL: url, Queue: queue}
}

// Publish sends ev as a persistent JSON message.
func (p *RabbitPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	log := logrus.WithFields(logrus.Fields{"queue": p.Queue, "event": ev.Type})

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declareQueue(ch, p.Queue); err != nil {
		log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}

// Close is a no-op; connections live only for one publish.
func (p *RabbitPublisher) Close() error { return nil }

// declareQueue makes sure the queue exists (idempotent).  Durable so
// messages survive broker restarts.
func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	return err
}
