// Package kafka publishes ledger events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mmynk/splitledger/internal/events"
)

var _ events.Publisher = (*Publisher)(nil)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes events as JSON messages keyed by expense id.
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a publisher for the given brokers and topic.
// Writes are asynchronous so a slow broker never delays a commit; delivery
// failures are logged.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
			Async:                  true,
			Completion:             logCompletion,
		},
	}
}

func logCompletion(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range messages {
		slog.Error("Failed to deliver event", "topic", m.Topic, "key", string(m.Key), "error", err)
	}
}

// PublishExpenseCommitted queues one event. Messages for the same expense
// land on the same partition.
func (p *Publisher) PublishExpenseCommitted(ctx context.Context, event events.ExpenseCommitted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ExpenseID, 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("expense_committed")},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
