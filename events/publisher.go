// Package events publishes stage-completion events to Kafka so other
// systems can react to finished pipeline work. Publishing is optional:
// a nil Publisher is a no-op.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// StageEvent describes one completed pipeline stage.
type StageEvent struct {
	Stage           string    `json:"stage"` // "fetch" or "analyze"
	AudioReference  string    `json:"audio_reference"`
	MediaTitle      string    `json:"media_title,omitempty"`
	SegmentCount    int       `json:"segment_count,omitempty"`
	DurationSeconds float64   `json:"duration_seconds"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Publisher emits stage events through a sarama sync producer.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher connects to the given brokers. Returns (nil, nil) when no
// brokers are configured so callers can hold a nil no-op publisher.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer: %w", err)
	}
	return &Publisher{producer: producer, topic: topic}, nil
}

// Publish sends one stage event, keyed by audio reference so events for
// one recording stay ordered within a partition.
func (p *Publisher) Publish(ev StageEvent) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode stage event: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.AudioReference),
		Value: sarama.ByteEncoder(payload),
	})
	return err
}

// Close shuts the producer down.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
