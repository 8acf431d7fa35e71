package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helptoheat/pkg/requestcontext"
)

func TestPublisherEmitFillsDefaults(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	require.NoError(t, publisher.Emit(ctx, Event{Name: EventAnswerSaved, SessionID: "s-1"}))

	events, err := publisher.ListBySession(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEqual(t, uuid.Nil, events[0].ID)
	assert.Equal(t, now, events[0].CreatedAt)
	assert.NotNil(t, events[0].Data)
}

func TestPublisherWithQueueDefersToWorker(t *testing.T) {
	store := NewInMemoryStore()
	queue := make(chan Event, 1)
	publisher := NewPublisher(store, WithQueue(queue))
	ctx := context.Background()

	require.NoError(t, publisher.Emit(ctx, Event{Name: EventAnswerSaved, SessionID: "s-1"}))
	all, _ := store.ListAll(ctx)
	assert.Empty(t, all, "queued event must not be written inline")

	t.Run("full queue falls back to inline write", func(t *testing.T) {
		require.NoError(t, publisher.Emit(ctx, Event{Name: EventReferralCreated, SessionID: "s-1"}))
		all, _ := store.ListAll(ctx)
		require.Len(t, all, 1)
		assert.Equal(t, EventReferralCreated, all[0].Name)
	})

	done := make(chan error, 1)
	go func() { done <- NewWorker(store, queue, nil).Run(ctx) }()

	require.Eventually(t, func() bool {
		all, _ := store.ListAll(ctx)
		return len(all) == 2
	}, time.Second, 10*time.Millisecond)

	publisher.Close()
	assert.NoError(t, <-done)
}

func TestEventsEmittedDuringShutdownArePersisted(t *testing.T) {
	store := NewInMemoryStore()
	queue := make(chan Event, 8)
	publisher := NewPublisher(store, WithQueue(queue))

	workerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewWorker(store, queue, nil).Run(workerCtx) }()

	// The server is still finishing requests after the signal arrives.
	cancel()
	require.NoError(t, publisher.Emit(context.Background(), Event{Name: EventReferralCreated, SessionID: "late"}))

	publisher.Close()
	require.NoError(t, <-done)

	late, err := store.ListBySession(context.Background(), "late")
	require.NoError(t, err)
	assert.Len(t, late, 1)

	t.Run("emit after close writes inline", func(t *testing.T) {
		require.NoError(t, publisher.Emit(context.Background(), Event{Name: EventAnswerSaved, SessionID: "after"}))
		after, err := store.ListBySession(context.Background(), "after")
		require.NoError(t, err)
		assert.Len(t, after, 1)
		publisher.Close()
		assert.Len(t, queue, 0)
	})
}

func TestWorkerStopsWhenInboxCloses(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 2)
	inbox <- Event{Name: EventAnswerSaved, SessionID: "a"}
	inbox <- Event{Name: EventAnswerSaved, SessionID: "b"}
	close(inbox)

	err := NewWorker(store, inbox, nil).Run(context.Background())
	require.NoError(t, err)

	a, _ := store.ListBySession(context.Background(), "a")
	b, _ := store.ListBySession(context.Background(), "b")
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}
