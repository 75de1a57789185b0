package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishExpenseCommitted(t *testing.T) {
	w := &recordingWriter{}
	p := &Publisher{writer: w}

	event := events.NewExpenseCommitted(models.Expense{
		ID:          12,
		Description: "Dinner",
		Amount:      90.5,
		Payer:       "Ada",
		SharedWith:  []models.Participant{"John", "Wicko"},
	}, time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC))

	require.NoError(t, p.PublishExpenseCommitted(context.Background(), event))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "12", string(msg.Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "Dinner", decoded["description"])
	assert.Equal(t, "90.5", decoded["amount"])
	assert.Equal(t, "Ada", decoded["payer"])
	assert.Equal(t, []any{"John", "Wicko"}, decoded["shared_with"])
	assert.Equal(t, event.EventID, decoded["event_id"])
}

func TestPublishExpenseCommitted_WriteError(t *testing.T) {
	p := &Publisher{writer: &recordingWriter{err: errors.New("broker down")}}

	err := p.PublishExpenseCommitted(context.Background(), events.ExpenseCommitted{ExpenseID: 1})
	assert.ErrorContains(t, err, "broker down")
}
