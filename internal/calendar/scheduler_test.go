package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

type fakeEventStore struct {
	events    []Event
	processed []string
}

func (f *fakeEventStore) Insert(_ context.Context, req ScheduleRequest) (*Event, error) {
	event := Event{
		ID:          "evt-new",
		Description: InterviewMarker + "\nUser: " + req.UserName + "\nUser ID: " + req.UserID,
		Start:       req.ScheduledAt,
		UserID:      req.UserID,
	}
	f.events = append(f.events, event)
	return &event, nil
}

func (f *fakeEventStore) ListWindow(_ context.Context, from, to time.Time) ([]Event, error) {
	out := make([]Event, 0)
	for _, e := range f.events {
		if !e.Start.Before(from) && e.Start.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) ListUpcomingForUser(_ context.Context, userID string) ([]Event, error) {
	out := make([]Event, 0)
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) MarkProcessed(_ context.Context, event Event) error {
	f.processed = append(f.processed, event.ID)
	for i := range f.events {
		if f.events[i].ID == event.ID {
			f.events[i].Description += "\n" + ProcessedMarker
		}
	}
	return nil
}

func (f *fakeEventStore) Delete(_ context.Context, eventID string) error {
	for i, e := range f.events {
		if e.ID == eventID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			break
		}
	}
	return nil
}

type fakeCaller struct {
	calls []string
}

func (f *fakeCaller) CallUser(_ context.Context, userID, _ string) (string, error) {
	f.calls = append(f.calls, userID)
	return "CA" + userID, nil
}

func interviewEvent(id, userID string, start time.Time) Event {
	return Event{
		ID:          id,
		Description: InterviewMarker + "\nUser: Test\nUser ID: " + userID,
		Start:       start,
		UserID:      userID,
	}
}

func TestPollIgnoresEventsOutsideCallWindow(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	store := &fakeEventStore{events: []Event{
		// Inside the lookahead but more than 2 minutes away.
		interviewEvent("evt-1", "u1", now.Add(3*time.Minute)),
	}}
	caller := &fakeCaller{}
	sched := NewScheduler(store, NewRedisProcessedSet(setupTestRedis(t)), caller)

	sched.Poll(context.Background(), now)
	assert.Empty(t, caller.calls)
	assert.Empty(t, store.processed)
}

func TestPollCallsDueEventOnce(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	store := &fakeEventStore{events: []Event{
		interviewEvent("evt-1", "u1", now.Add(90*time.Second)),
	}}
	caller := &fakeCaller{}
	sched := NewScheduler(store, NewRedisProcessedSet(setupTestRedis(t)), caller)

	sched.Poll(context.Background(), now)
	require.Equal(t, []string{"u1"}, caller.calls)
	assert.Equal(t, []string{"evt-1"}, store.processed)

	// Subsequent polls see both the persisted marker and the redis set.
	sched.Poll(context.Background(), now.Add(30*time.Second))
	sched.Poll(context.Background(), now.Add(time.Minute))
	assert.Len(t, caller.calls, 1)
}

func TestPollRedisSetGuardsWhenPatchFails(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	store := &fakeEventStore{events: []Event{
		interviewEvent("evt-1", "u1", now.Add(time.Minute)),
	}}
	caller := &fakeCaller{}
	processed := NewRedisProcessedSet(setupTestRedis(t))
	sched := NewScheduler(store, processed, caller)

	sched.Poll(context.Background(), now)
	require.Len(t, caller.calls, 1)

	// Simulate the marker patch having been lost: strip it back off.
	store.events[0].Description = InterviewMarker + "\nUser ID: u1"

	sched.Poll(context.Background(), now.Add(30*time.Second))
	assert.Len(t, caller.calls, 1, "redis set must prevent a duplicate call")
}

func TestPollSkipsForeignAndStaleEvents(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	store := &fakeEventStore{events: []Event{
		// Not an interview event at all.
		{ID: "evt-1", Description: "Dentist", Start: now.Add(time.Minute)},
		// Started more than five minutes ago.
		interviewEvent("evt-2", "u2", now.Add(-6*time.Minute)),
		// No user id recoverable.
		{ID: "evt-3", Description: InterviewMarker, Start: now.Add(time.Minute)},
	}}
	caller := &fakeCaller{}
	sched := NewScheduler(store, NewRedisProcessedSet(setupTestRedis(t)), caller)

	sched.Poll(context.Background(), now)
	assert.Empty(t, caller.calls)
}
