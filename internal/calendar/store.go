// Package calendar schedules phone interviews as calendar events and polls
// for ones about to start. Events carry an interview marker in the
// description and the scheduling metadata in private extended properties, so
// the calendar itself is the persistent store.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/hireready/hireready/config"
)

// Markers embedded in the event description. InterviewMarker tags an event
// as ours; ProcessedMarker is appended once a call has been initiated and is
// what makes the trigger restart-safe.
const (
	InterviewMarker = "[HIREREADY_INTERVIEW]"
	ProcessedMarker = "[HIREREADY_PROCESSED]"
)

// Event is the slice of a calendar event the scheduler cares about.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	UserID      string
	UserName    string
	UserPhone   string
	Status      string
	HTMLLink    string
}

func (e Event) IsInterview() bool { return strings.Contains(e.Description, InterviewMarker) }
func (e Event) IsProcessed() bool { return strings.Contains(e.Description, ProcessedMarker) }

// ScheduleRequest creates one interview event. ScheduledAt is a single UTC
// instant; no local date/time merging happens on the server.
type ScheduleRequest struct {
	UserID      string
	UserName    string
	UserPhone   string
	ScheduledAt time.Time
	Duration    time.Duration
}

// EventStore abstracts the calendar backend so the scheduler and the HTTP
// layer can be tested without Google credentials.
type EventStore interface {
	Insert(ctx context.Context, req ScheduleRequest) (*Event, error)
	ListWindow(ctx context.Context, from, to time.Time) ([]Event, error)
	ListUpcomingForUser(ctx context.Context, userID string) ([]Event, error)
	MarkProcessed(ctx context.Context, event Event) error
	Delete(ctx context.Context, eventID string) error
}

type googleEventStore struct {
	svc        *gcal.Service
	calendarID string
}

func NewGoogleEventStore(cfg *config.Config) (EventStore, error) {
	ctx := context.Background()
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(cfg.Calendar.CredentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize calendar client: %w", err)
	}
	calendarID := cfg.Calendar.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &googleEventStore{svc: svc, calendarID: calendarID}, nil
}

func (s *googleEventStore) Insert(ctx context.Context, req ScheduleRequest) (*Event, error) {
	name := req.UserName
	if name == "" {
		name = "User"
	}
	duration := req.Duration
	if duration <= 0 {
		duration = 15 * time.Minute
	}
	start := req.ScheduledAt.UTC()
	end := start.Add(duration)

	event := &gcal.Event{
		Summary: fmt.Sprintf("HireReady Phone Interview (%s)", name),
		Description: fmt.Sprintf("%s\nAI-powered phone interview\nUser: %s\nPhone: %s\nUser ID: %s",
			InterviewMarker, name, req.UserPhone, req.UserID),
		Start: &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
		End:   &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: "UTC"},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				"userId":    req.UserID,
				"userPhone": req.UserPhone,
				"status":    "scheduled",
			},
		},
	}

	created, err := s.svc.Events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}
	return fromGoogleEvent(created), nil
}

func (s *googleEventStore) ListWindow(ctx context.Context, from, to time.Time) ([]Event, error) {
	resp, err := s.svc.Events.List(s.calendarID).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, *fromGoogleEvent(item))
	}
	return events, nil
}

func (s *googleEventStore) ListUpcomingForUser(ctx context.Context, userID string) ([]Event, error) {
	resp, err := s.svc.Events.List(s.calendarID).
		TimeMin(time.Now().UTC().Format(time.RFC3339)).
		MaxResults(10).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	events := make([]Event, 0)
	for _, item := range resp.Items {
		event := fromGoogleEvent(item)
		if event.IsInterview() && event.UserID == userID {
			events = append(events, *event)
		}
	}
	return events, nil
}

func (s *googleEventStore) MarkProcessed(ctx context.Context, event Event) error {
	patch := &gcal.Event{Description: event.Description + "\n" + ProcessedMarker}
	_, err := s.svc.Events.Patch(s.calendarID, event.ID, patch).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to mark event %s processed: %w", event.ID, err)
	}
	return nil
}

func (s *googleEventStore) Delete(ctx context.Context, eventID string) error {
	if err := s.svc.Events.Delete(s.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}

func fromGoogleEvent(item *gcal.Event) *Event {
	event := &Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		HTMLLink:    item.HtmlLink,
	}
	if item.Start != nil && item.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
			event.Start = t
		}
	}
	if item.ExtendedProperties != nil && item.ExtendedProperties.Private != nil {
		private := item.ExtendedProperties.Private
		event.UserID = private["userId"]
		event.UserPhone = private["userPhone"]
		event.Status = private["status"]
	}
	if event.UserID == "" {
		event.UserID = extractField(item.Description, "User ID:")
	}
	event.UserName = extractField(item.Description, "User:")
	return event
}

// extractField pulls "<label> <value>" lines out of the event description,
// for events created before extended properties carried the metadata.
func extractField(description, label string) string {
	for _, line := range strings.Split(description, "\n") {
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label))
		}
	}
	return ""
}
