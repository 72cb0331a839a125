package calendar

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	pollSchedule = "@every 30s"
	lookahead    = 5 * time.Minute
	callWithin   = 2 * time.Minute
	callGrace    = 5 * time.Minute
)

// Caller initiates the actual phone call once an event is due.
type Caller interface {
	CallUser(ctx context.Context, userID, userName string) (callSID string, err error)
}

// Scheduler polls the calendar for interview events about to start and
// triggers the call for each exactly once.
type Scheduler struct {
	store     EventStore
	processed ProcessedSet
	caller    Caller
	cron      *cron.Cron
}

func NewScheduler(store EventStore, processed ProcessedSet, caller Caller) *Scheduler {
	return &Scheduler{
		store:     store,
		processed: processed,
		caller:    caller,
		cron:      cron.New(),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(pollSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		s.Poll(ctx, time.Now())
	}); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("schedule", pollSchedule).Msg("Calendar scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("Calendar scheduler stopped")
}

// Poll runs one cycle: list events starting inside the lookahead window and
// initiate the call for every due, unprocessed interview event.
func (s *Scheduler) Poll(ctx context.Context, now time.Time) {
	events, err := s.store.ListWindow(ctx, now, now.Add(lookahead))
	if err != nil {
		log.Error().Err(err).Msg("Calendar poll failed")
		return
	}

	for _, event := range events {
		if !event.IsInterview() || event.IsProcessed() {
			continue
		}

		seen, err := s.processed.Contains(ctx, event.ID)
		if err != nil {
			log.Error().Err(err).Str("eventID", event.ID).Msg("Processed-set lookup failed")
			continue
		}
		if seen {
			continue
		}

		until := event.Start.Sub(now)
		if until > callWithin || until < -callGrace {
			continue
		}

		if event.UserID == "" {
			log.Error().Str("eventID", event.ID).Msg("Interview event has no user id")
			continue
		}

		log.Info().Str("eventID", event.ID).Str("userID", event.UserID).Time("start", event.Start).Msg("Interview starting soon, initiating call")

		if err := s.processed.Add(ctx, event.ID); err != nil {
			log.Error().Err(err).Str("eventID", event.ID).Msg("Failed to record processed event")
			continue
		}

		callSID, err := s.caller.CallUser(ctx, event.UserID, event.UserName)
		if err != nil {
			log.Error().Err(err).Str("eventID", event.ID).Msg("Failed to initiate interview call")
			continue
		}
		log.Info().Str("eventID", event.ID).Str("callSID", callSID).Msg("Interview call initiated")

		if err := s.store.MarkProcessed(ctx, event); err != nil {
			// The redis set still guards this process; the next restart may
			// re-dial if the patch never lands.
			log.Error().Err(err).Str("eventID", event.ID).Msg("Failed to mark event processed")
		}
	}
}
