package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	r "github.com/matthewtrundle/partyondelivery-checkout/internal/repository"
)

type MockRepository struct {
	Events       []*r.OutboxEvent
	FetchErr     error
	MarkErr      error
	ProcessedIDs []int64
}

func (m *MockRepository) SaveCompletion(context.Context, *domain.CheckoutCompletion) error {
	return nil
}

func (m *MockRepository) GetUnprocessedEvents(context.Context, int) ([]*r.OutboxEvent, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	var pending []*r.OutboxEvent
	for _, ev := range m.Events {
		if ev.ProcessedAt == nil {
			pending = append(pending, ev)
		}
	}
	return pending, nil
}

func (m *MockRepository) MarkEventAsProcessed(_ context.Context, id int64) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.ProcessedIDs = append(m.ProcessedIDs, id)
	now := time.Now()
	for _, ev := range m.Events {
		if ev.ID == id {
			ev.ProcessedAt = &now
		}
	}
	return nil
}

func (m *MockRepository) RunMigrations(*r.Credentials) error { return nil }
func (m *MockRepository) Close() error                       { return nil }

type MockWriter struct {
	Messages []kafka.Message
	Err      error
}

func (m *MockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func event(id int64, sessionID string) *r.OutboxEvent {
	return &r.OutboxEvent{
		ID:          id,
		AggregateID: sessionID,
		EventType:   "checkout.completed",
		Payload:     []byte(`{"session_id":"` + sessionID + `"}`),
		CreatedAt:   time.Now(),
	}
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	repo := &MockRepository{Events: []*r.OutboxEvent{event(1, "sess-a"), event(2, "sess-b")}}
	writer := &MockWriter{}
	poller := &OutboxPoller{tick: time.Second, batchSize: 100, repo: repo, writer: writer}

	poller.processUnpublishedEvents(context.Background())

	require.Len(t, writer.Messages, 2)
	assert.Equal(t, []byte("sess-a"), writer.Messages[0].Key)
	assert.Equal(t, "event_type", writer.Messages[0].Headers[0].Key)
	assert.Equal(t, []int64{1, 2}, repo.ProcessedIDs)
}

func TestProcessUnpublishedEvents_PublishFailureLeavesEventPending(t *testing.T) {
	repo := &MockRepository{Events: []*r.OutboxEvent{event(1, "sess-a")}}
	writer := &MockWriter{Err: errors.New("broker unavailable")}
	poller := &OutboxPoller{tick: time.Second, batchSize: 100, repo: repo, writer: writer}

	poller.processUnpublishedEvents(context.Background())

	assert.Empty(t, repo.ProcessedIDs, "failed publish must not mark the event")
	assert.Nil(t, repo.Events[0].ProcessedAt)
}

func TestProcessUnpublishedEvents_FetchErrorIsLoggedNotFatal(t *testing.T) {
	repo := &MockRepository{FetchErr: errors.New("db down")}
	writer := &MockWriter{}
	poller := &OutboxPoller{tick: time.Second, batchSize: 100, repo: repo, writer: writer}

	assert.NotPanics(t, func() {
		poller.processUnpublishedEvents(context.Background())
	})
	assert.Empty(t, writer.Messages)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &MockRepository{}
	poller := &OutboxPoller{tick: 10 * time.Millisecond, batchSize: 100, repo: repo, writer: &MockWriter{}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
