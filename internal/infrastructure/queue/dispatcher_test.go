package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepinter/prepinter/internal/core/domain"
)

type recordingRecorder struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
	fail   func(e domain.ActivityEvent) error
}

func (r *recordingRecorder) Record(_ context.Context, e domain.ActivityEvent) error {
	if r.fail != nil {
		if err := r.fail(e); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingRecorder) snapshot() []domain.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ActivityEvent(nil), r.events...)
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	rec := &recordingRecorder{}
	d := NewDispatcher(4, 64, rec, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := 0; i < 20; i++ {
		d.Publish(domain.ActivityEvent{UserID: "u1", Type: domain.ActivityInterviewCreated, ResourceID: string(rune('a' + i))})
		d.Publish(domain.ActivityEvent{UserID: "u2", Type: domain.ActivityPaymentSucceeded})
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 40 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	d.Wait()

	var u1 []string
	for _, e := range rec.snapshot() {
		if e.UserID == "u1" {
			u1 = append(u1, e.ResourceID)
		}
		assert.False(t, e.OccurredAt.IsZero(), "occurred_at defaulted")
	}
	require.Len(t, u1, 20)
	for i, id := range u1 {
		assert.Equal(t, string(rune('a'+i)), id)
	}
}

func TestDispatcher_SameUserSameShard(t *testing.T) {
	d := NewDispatcher(8, 1, &recordingRecorder{}, zerolog.Nop())
	assert.Equal(t, d.shardIndex("user-123"), d.shardIndex("user-123"))
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	rec := &recordingRecorder{}
	d := NewDispatcher(1, 1, rec, zerolog.Nop())

	// Not started: the single buffered slot fills and the rest are dropped.
	d.Publish(domain.ActivityEvent{UserID: "u1", Type: domain.ActivityInterviewCreated})
	d.Publish(domain.ActivityEvent{UserID: "u1", Type: domain.ActivityInterviewCreated})
	assert.Len(t, d.workers[0], 1)
}

func TestDispatcher_SurvivesPanicsAndErrors(t *testing.T) {
	rec := &recordingRecorder{
		fail: func(e domain.ActivityEvent) error {
			switch e.ResourceID {
			case "panic":
				panic("recorder blew up")
			case "error":
				return errors.New("mongo unavailable")
			}
			return nil
		},
	}
	d := NewDispatcher(1, 8, rec, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Publish(domain.ActivityEvent{UserID: "u1", Type: domain.ActivityInterviewCreated, ResourceID: "panic"})
	d.Publish(domain.ActivityEvent{UserID: "u1", Type: domain.ActivityInterviewCreated, ResourceID: "error"})
	d.Publish(domain.ActivityEvent{UserID: "u1", Type: domain.ActivityInterviewCreated, ResourceID: "ok"})

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	d.Wait()
	assert.Equal(t, "ok", rec.snapshot()[0].ResourceID)
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	rec := &recordingRecorder{}
	d := NewDispatcher(1, 16, rec, zerolog.Nop())

	for i := 0; i < 5; i++ {
		d.Publish(domain.ActivityEvent{UserID: "u1", Type: domain.ActivityInterviewCreated})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	assert.Len(t, rec.snapshot(), 5)
}
