package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/config"
	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/model"
	"github.com/hireready/hireready/internal/proctor"
	"github.com/hireready/hireready/internal/repository"
	"github.com/hireready/hireready/internal/session"
)

// SessionService starts and drives live interview sessions. It is the
// session runtime's Sink: answers are written the moment they are accepted,
// and a session record plus feedback kickoff happen when the session ends.
type SessionService interface {
	StartSession(interviewID uint, req dto.StartSessionDTO) (*dto.SessionStateDTO, error)
	PushFragment(sessionID string, req dto.TranscriptFragmentDTO) error
	PushSample(sessionID string, req dto.PresenceSampleDTO) (*dto.SessionStateDTO, error)
	SubmitAnswer(sessionID string) (*dto.SessionStateDTO, error)
	AdvanceQuestion(sessionID string) (*dto.SessionStateDTO, error)
	EndSession(sessionID string) error
	SessionState(sessionID string) (*dto.SessionStateDTO, error)
}

type sessionService struct {
	manager       *session.Manager
	interviewRepo repository.InterviewRepository
	answerRepo    repository.AnswerRepository
	sessionRepo   repository.SessionRepository
	feedback      FeedbackService
	policy        proctor.Policy
	opts          session.Options
}

func NewSessionService(cfg *config.Config, manager *session.Manager, interviewRepo repository.InterviewRepository, answerRepo repository.AnswerRepository, sessionRepo repository.SessionRepository, feedback FeedbackService) SessionService {
	policy := proctor.Policy{
		DistanceThreshold: cfg.Proctor.DistanceThreshold,
		ViolationLimit:    cfg.Proctor.ViolationLimit,
	}
	return &sessionService{
		manager:       manager,
		interviewRepo: interviewRepo,
		answerRepo:    answerRepo,
		sessionRepo:   sessionRepo,
		feedback:      feedback,
		policy:        policy,
		opts: session.Options{
			SampleInterval: time.Duration(cfg.Proctor.SampleIntervalSec) * time.Second,
		},
	}
}

func (s *sessionService) StartSession(interviewID uint, req dto.StartSessionDTO) (*dto.SessionStateDTO, error) {
	interview, err := s.interviewRepo.FindByIDWithQuestions(interviewID)
	if err != nil {
		return nil, err
	}
	if len(interview.Questions) == 0 {
		return nil, fmt.Errorf("interview %d has no questions", interviewID)
	}

	monitor, err := s.buildMonitor(req)
	if err != nil {
		return nil, err
	}

	questions := make([]session.Question, 0, len(interview.Questions))
	for _, q := range interview.Questions {
		questions = append(questions, session.Question{
			ID:           q.QuestionID,
			Text:         q.Text,
			TimeLimitSec: q.TimeLimitSec,
		})
	}

	machine := session.NewMachine(uuid.NewString(), interviewID, req.UserID, questions, time.Now())
	runner, err := s.manager.Start(machine, monitor, nil, s, s.opts)
	if err != nil {
		return nil, err
	}

	snap, violations, err := runner.State()
	if err != nil {
		return nil, err
	}
	return toStateDTO(snap, violations), nil
}

// buildMonitor captures the proctoring baseline from the client-supplied
// descriptors. A client that could not load its detection model gets a
// disabled monitor rather than a rejected session.
func (s *sessionService) buildMonitor(req dto.StartSessionDTO) (*proctor.Monitor, error) {
	if req.MonitoringDisabled {
		log.Warn().Str("userID", req.UserID).Msg("Presence monitoring disabled for session")
		return proctor.NewDisabledMonitor(), nil
	}
	baseline, err := proctor.BaselineFromFaces(toFaces(req.BaselineFaces))
	if err != nil {
		return nil, err
	}
	return proctor.NewMonitor(s.policy, baseline), nil
}

func (s *sessionService) PushFragment(sessionID string, req dto.TranscriptFragmentDTO) error {
	runner, err := s.manager.Get(sessionID)
	if err != nil {
		return err
	}
	return runner.PushFragment(req.QuestionIndex, req.Text)
}

func (s *sessionService) PushSample(sessionID string, req dto.PresenceSampleDTO) (*dto.SessionStateDTO, error) {
	runner, err := s.manager.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := runner.PushSample(req.QuestionIndex, toFaces(req.Faces)); err != nil {
		if errors.Is(err, session.ErrSessionNotRunning) {
			// The sample itself may have terminated the session.
			return s.finishedState(sessionID)
		}
		return nil, err
	}
	return s.liveState(runner)
}

func (s *sessionService) SubmitAnswer(sessionID string) (*dto.SessionStateDTO, error) {
	runner, err := s.manager.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := runner.Submit(); err != nil {
		if errors.Is(err, session.ErrSessionNotRunning) {
			return s.finishedState(sessionID)
		}
		return nil, err
	}
	return s.liveState(runner)
}

func (s *sessionService) AdvanceQuestion(sessionID string) (*dto.SessionStateDTO, error) {
	runner, err := s.manager.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := runner.Advance(); err != nil {
		if errors.Is(err, session.ErrSessionNotRunning) {
			return s.finishedState(sessionID)
		}
		return nil, err
	}
	return s.liveState(runner)
}

func (s *sessionService) EndSession(sessionID string) error {
	runner, err := s.manager.Get(sessionID)
	if err != nil {
		return err
	}
	if err := runner.End(); err != nil && !errors.Is(err, session.ErrSessionNotRunning) {
		return err
	}
	return nil
}

func (s *sessionService) SessionState(sessionID string) (*dto.SessionStateDTO, error) {
	runner, err := s.manager.Get(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return s.finishedState(sessionID)
		}
		return nil, err
	}
	state, err := s.liveState(runner)
	if err != nil && errors.Is(err, session.ErrSessionNotRunning) {
		return s.finishedState(sessionID)
	}
	return state, err
}

func (s *sessionService) liveState(runner *session.Runner) (*dto.SessionStateDTO, error) {
	snap, violations, err := runner.State()
	if err != nil {
		return nil, err
	}
	return toStateDTO(snap, violations), nil
}

// finishedState serves sessions that have already left the manager from
// their persisted record.
func (s *sessionService) finishedState(sessionID string) (*dto.SessionStateDTO, error) {
	record, err := s.sessionRepo.FindBySessionID(sessionID)
	if err != nil {
		return nil, session.ErrSessionNotFound
	}
	state := "complete"
	if record.Status == model.SessionStatusTerminated {
		state = "terminated"
	}
	return &dto.SessionStateDTO{
		SessionID:      record.SessionID,
		InterviewID:    record.InterviewID,
		State:          state,
		ViolationCount: record.ViolationCount,
		AnswerCount:    record.AnswerCount,
	}, nil
}

// PersistAnswer implements session.Sink. Answers are written one at a time as
// the session moves on; a storage error is logged, not fatal to the session.
func (s *sessionService) PersistAnswer(snap session.Snapshot, answer session.PendingAnswer) {
	record := &model.UserAnswer{
		InterviewID:  snap.InterviewID,
		SessionID:    snap.SessionID,
		QuestionID:   answer.QuestionID,
		QuestionText: answer.QuestionText,
		UserAnswer:   answer.Text,
		TimeTakenSec: answer.TimeTakenSec,
		TimedOut:     answer.TimedOut,
		UserID:       snap.UserID,
	}
	if err := s.answerRepo.Create(record); err != nil {
		log.Error().Err(err).Str("sessionID", snap.SessionID).Str("questionID", answer.QuestionID).Msg("Failed to persist answer")
	}
}

// SessionFinished implements session.Sink. Writes the session record, then
// generates feedback; a feedback failure leaves the record in place so the
// generation can be retried through the API.
func (s *sessionService) SessionFinished(snap session.Snapshot, violations int) {
	status := model.SessionStatusCompleted
	if snap.Terminated {
		status = model.SessionStatusTerminated
	}
	record := &model.SessionRecord{
		SessionID:      snap.SessionID,
		InterviewID:    snap.InterviewID,
		UserID:         snap.UserID,
		Status:         status,
		ViolationCount: violations,
		AnswerCount:    snap.AnswerCount,
		StartedAt:      snap.StartedAt,
		CompletedAt:    time.Now(),
	}
	if err := s.sessionRepo.Create(record); err != nil {
		log.Error().Err(err).Str("sessionID", snap.SessionID).Msg("Failed to persist session record")
		return
	}

	if snap.AnswerCount == 0 {
		log.Info().Str("sessionID", snap.SessionID).Msg("No answers recorded, skipping feedback")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.feedback.GenerateForSession(ctx, snap.SessionID); err != nil {
			log.Error().Err(err).Str("sessionID", snap.SessionID).Msg("Automatic feedback generation failed")
		}
	}()
}

func toFaces(descriptors [][]float64) []proctor.Face {
	faces := make([]proctor.Face, 0, len(descriptors))
	for _, d := range descriptors {
		faces = append(faces, proctor.Face{Descriptor: d})
	}
	return faces
}

func toStateDTO(snap session.Snapshot, violations int) *dto.SessionStateDTO {
	state := snap.Phase.String()
	if snap.Terminated {
		state = "terminated"
	}
	return &dto.SessionStateDTO{
		SessionID:        snap.SessionID,
		InterviewID:      snap.InterviewID,
		State:            state,
		QuestionIndex:    snap.QuestionIndex,
		TimeRemainingSec: snap.TimeRemainingSec,
		ViolationCount:   violations,
		AnswerCount:      snap.AnswerCount,
		TranscriptLength: snap.TranscriptLength,
	}
}
