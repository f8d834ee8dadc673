// Non-critical image lifecycle events published to kafka. Publishing never
// blocks a request outcome; when the broker is unreachable at startup a mock
// producer is used instead.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	EventGenerated = "generated"
	EventEdited    = "edited"
	EventTextAdded = "text_added"
)

type ImageEvent struct {
	Type    string    `json:"type"`
	ImageID string    `json:"image_id"`
	Width   int       `json:"width,omitempty"`
	Height  int       `json:"height,omitempty"`
	At      time.Time `json:"at"`
}

type Producer interface {
	Publish(event ImageEvent) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer connects to the broker and ensures the topic exists. On any
// connection failure it degrades to a mock producer that only logs.
func NewProducer(brokers, topic string) Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers)
	if err != nil {
		logrus.Warnf("kafka connection failed, lifecycle events disabled: %v", err)
		return &mockProducer{}
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.Infof("could not create topic %s (might already exist): %v", topic, err)
	}

	logrus.Infof("kafka producer connected to %s, topic %s", brokers, topic)
	return &kafkaProducer{writer: writer, topic: topic}
}

func (p *kafkaProducer) Publish(event ImageEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ImageID),
		Value: payload,
		Time:  event.At,
	})
	if err != nil {
		logrus.Warnf("failed to publish image event: %v", err)
		return err
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// mockProducer keeps the service running without a broker.
type mockProducer struct{}

func (m *mockProducer) Publish(event ImageEvent) error {
	logrus.WithFields(logrus.Fields{
		"type":     event.Type,
		"image_id": event.ImageID,
	}).Debug("image event (no broker)")
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}

// NewNopProducer returns a producer that drops all events. Used when kafka
// is disabled in config.
func NewNopProducer() Producer {
	return &mockProducer{}
}
