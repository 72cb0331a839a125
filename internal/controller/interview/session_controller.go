package interview

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/proctor"
	"github.com/hireready/hireready/internal/service"
	"github.com/hireready/hireready/internal/session"
)

type SessionController struct {
	sessionService  service.SessionService
	feedbackService service.FeedbackService
}

func NewSessionController(sessionService service.SessionService, feedbackService service.FeedbackService) *SessionController {
	return &SessionController{sessionService: sessionService, feedbackService: feedbackService}
}

// StartSession godoc
// @Summary Start an interview session
// @Description Begins a live session for the interview, capturing the proctoring baseline from the supplied face descriptors.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path int true "Interview ID"
// @Param session body dto.StartSessionDTO true "Session parameters"
// @Success 201 {object} dto.SessionStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request or baseline capture failed"
// @Failure 409 {object} dto.ErrorResponse "User already has an active session"
// @Router /interviews/{id}/sessions [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	interviewID, ok := parseID(ctx)
	if !ok {
		return
	}
	var req dto.StartSessionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	state, err := c.sessionService.StartSession(interviewID, req)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionActive):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "An interview session is already running for this user"})
		case errors.Is(err, proctor.ErrNoFace), errors.Is(err, proctor.ErrMultipleFaces), errors.Is(err, proctor.ErrCameraTimeout):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Baseline capture failed", Details: []string{err.Error()}})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
		default:
			log.Error().Err(err).Uint("interviewID", interviewID).Msg("StartSession: Service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start session", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusCreated, state)
}

// GetSessionState godoc
// @Summary Get the current state of a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id} [get]
func (c *SessionController) GetSessionState(ctx *gin.Context) {
	state, err := c.sessionService.SessionState(ctx.Param("id"))
	if err != nil {
		c.sessionError(ctx, err, "GetSessionState")
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// PushTranscript godoc
// @Summary Deliver a speech-to-text fragment
// @Description Appends a transcript fragment for the question at question_index. Fragments for a stale index are discarded.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param fragment body dto.TranscriptFragmentDTO true "Transcript fragment"
// @Success 204 "Accepted"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id}/transcript [post]
func (c *SessionController) PushTranscript(ctx *gin.Context) {
	var req dto.TranscriptFragmentDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.sessionService.PushFragment(ctx.Param("id"), req); err != nil {
		c.sessionError(ctx, err, "PushTranscript")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// PushSample godoc
// @Summary Deliver a presence-monitor sample
// @Description Records the face descriptors observed in one monitor sample; enough violations terminate the session.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param sample body dto.PresenceSampleDTO true "Presence sample"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id}/samples [post]
func (c *SessionController) PushSample(ctx *gin.Context) {
	var req dto.PresenceSampleDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	state, err := c.sessionService.PushSample(ctx.Param("id"), req)
	if err != nil {
		c.sessionError(ctx, err, "PushSample")
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// SubmitAnswer godoc
// @Summary Submit the accumulated transcript as the answer
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 422 {object} dto.ErrorResponse "Answer too short"
// @Router /sessions/{id}/answers [post]
func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	state, err := c.sessionService.SubmitAnswer(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrAnswerTooShort) {
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "Answer must be at least 30 characters, keep going or skip the question"})
			return
		}
		c.sessionError(ctx, err, "SubmitAnswer")
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// AdvanceQuestion godoc
// @Summary Skip to the next question
// @Description Accepts whatever transcript exists, with no minimum length, and moves on.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id}/advance [post]
func (c *SessionController) AdvanceQuestion(ctx *gin.Context) {
	state, err := c.sessionService.AdvanceQuestion(ctx.Param("id"))
	if err != nil {
		c.sessionError(ctx, err, "AdvanceQuestion")
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// EndSession godoc
// @Summary End the session early
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 204 "Ended"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id}/end [post]
func (c *SessionController) EndSession(ctx *gin.Context) {
	if err := c.sessionService.EndSession(ctx.Param("id")); err != nil {
		c.sessionError(ctx, err, "EndSession")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetSessionResult godoc
// @Summary Get the persisted result of a finished session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResultDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id}/result [get]
func (c *SessionController) GetSessionResult(ctx *gin.Context) {
	result, err := c.feedbackService.GetSessionResult(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
			return
		}
		log.Error().Err(err).Str("sessionID", ctx.Param("id")).Msg("GetSessionResult: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to get session result", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GenerateFeedback godoc
// @Summary Generate feedback for a finished session
// @Description Retry affordance for when the automatic feedback generation failed; feedback is generated at most once.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} dto.FeedbackResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Feedback already exists"
// @Failure 502 {object} dto.ErrorResponse "Feedback generation failed"
// @Router /sessions/{id}/feedback [post]
func (c *SessionController) GenerateFeedback(ctx *gin.Context) {
	sessionID := ctx.Param("id")
	feedback, err := c.feedbackService.GenerateForSession(ctx.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeedbackExists):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Feedback was already generated for this session"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
		case errors.Is(err, service.ErrMalformedFeedback):
			ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Feedback generation produced an unusable response, please retry", Details: []string{err.Error()}})
		default:
			log.Error().Err(err).Str("sessionID", sessionID).Msg("GenerateFeedback: Service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to generate feedback", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusCreated, feedback)
}

func (c *SessionController) sessionError(ctx *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
	case errors.Is(err, session.ErrSessionNotRunning):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Session is no longer running"})
	default:
		log.Error().Err(err).Str("sessionID", ctx.Param("id")).Msgf("%s: Service error", operation)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Session operation failed", Details: []string{err.Error()}})
	}
}
