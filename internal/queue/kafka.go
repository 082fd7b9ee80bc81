package queue

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// KafkaPublisher writes BookingEvents to a Kafka topic.  Messages are
// keyed by booking id so every event of one booking lands on the same
// partition and keeps its order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher configures a writer for the given brokers and topic.
// Connections are opened lazily on the first write.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// Publish writes ev synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(eventKey(ev)),
		Value: value,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"topic": p.writer.Topic,
			"event": ev.Type,
		}).Warn("kafka: write failed")
		return err
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error { return p.writer.Close() }

func eventKey(ev BookingEvent) string {
	if ev.BookingID == 0 {
		return ev.Type
	}
	return strconv.FormatUint(ev.BookingID, 10)
}
