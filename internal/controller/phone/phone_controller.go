// Package phone exposes the phone-interview surface: scheduling, browser
// access tokens, outbound calls and the provider's voice webhooks.
package phone

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/internal/calendar"
	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/service"
	"github.com/hireready/hireready/internal/telephony"
)

type PhoneController struct {
	events   calendar.EventStore
	tokens   *telephony.TokenService
	caller   *telephony.Client
	feedback service.PhoneFeedbackService
}

func NewPhoneController(events calendar.EventStore, tokens *telephony.TokenService, caller *telephony.Client, feedback service.PhoneFeedbackService) *PhoneController {
	return &PhoneController{events: events, tokens: tokens, caller: caller, feedback: feedback}
}

// ScheduleInterview godoc
// @Summary Schedule a phone interview
// @Description Creates a calendar event at the given UTC instant; the scheduler dials the user when the event is due.
// @Tags Phone
// @Accept json
// @Produce json
// @Param schedule body dto.SchedulePhoneInterviewDTO true "Schedule parameters"
// @Success 201 {object} dto.ScheduleResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or timestamp"
// @Router /phone/schedule [post]
func (c *PhoneController) ScheduleInterview(ctx *gin.Context) {
	var req dto.SchedulePhoneInterviewDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "scheduled_at must be an RFC 3339 timestamp", Details: []string{err.Error()}})
		return
	}

	event, err := c.events.Insert(ctx.Request.Context(), calendar.ScheduleRequest{
		UserID:      req.UserID,
		UserName:    req.UserName,
		UserPhone:   req.UserPhone,
		ScheduledAt: scheduledAt,
		Duration:    time.Duration(req.DurationMin) * time.Minute,
	})
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("ScheduleInterview: Failed to create event")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to schedule interview", Details: []string{err.Error()}})
		return
	}

	log.Info().Str("eventID", event.ID).Str("userID", req.UserID).Time("scheduledAt", scheduledAt).Msg("Phone interview scheduled")
	ctx.JSON(http.StatusCreated, dto.ScheduleResponseDTO{
		EventID:     event.ID,
		ScheduledAt: event.Start,
		Status:      "scheduled",
	})
}

// ListUpcoming godoc
// @Summary List a user's upcoming phone interviews
// @Tags Phone
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {array} dto.ScheduleResponseDTO
// @Router /phone/schedule/{user_id} [get]
func (c *PhoneController) ListUpcoming(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	events, err := c.events.ListUpcomingForUser(ctx.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("ListUpcoming: Failed to list events")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list interviews", Details: []string{err.Error()}})
		return
	}

	out := make([]dto.ScheduleResponseDTO, 0, len(events))
	for _, event := range events {
		status := event.Status
		if status == "" {
			status = "scheduled"
		}
		out = append(out, dto.ScheduleResponseDTO{
			EventID:     event.ID,
			ScheduledAt: event.Start,
			Status:      status,
		})
	}
	ctx.JSON(http.StatusOK, out)
}

// CancelInterview godoc
// @Summary Cancel a scheduled phone interview
// @Tags Phone
// @Produce json
// @Param event_id path string true "Calendar event ID"
// @Success 204 "Cancelled"
// @Router /phone/schedule/{event_id} [delete]
func (c *PhoneController) CancelInterview(ctx *gin.Context) {
	eventID := ctx.Param("event_id")
	if err := c.events.Delete(ctx.Request.Context(), eventID); err != nil {
		log.Error().Err(err).Str("eventID", eventID).Msg("CancelInterview: Failed to delete event")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to cancel interview", Details: []string{err.Error()}})
		return
	}
	log.Info().Str("eventID", eventID).Msg("Phone interview cancelled")
	ctx.Status(http.StatusNoContent)
}

// GenerateToken godoc
// @Summary Generate a browser voice access token
// @Description Issues a one-hour token for the user's client identity so the browser can receive the interview call.
// @Tags Phone
// @Accept json
// @Produce json
// @Param token body dto.PhoneTokenDTO true "Token parameters"
// @Success 200 {object} dto.PhoneTokenResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Router /phone/token [post]
func (c *PhoneController) GenerateToken(ctx *gin.Context) {
	var req dto.PhoneTokenDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	token, err := c.tokens.Generate(req.UserID)
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("GenerateToken: Token generation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to generate token", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.PhoneTokenResponseDTO{
		Token:     token.Token,
		Identity:  token.Identity,
		ExpiresAt: token.ExpiresAt,
	})
}

// InitiateCall godoc
// @Summary Dial the user's browser client now
// @Tags Phone
// @Accept json
// @Produce json
// @Param call body dto.InitiateCallDTO true "Call parameters"
// @Success 200 {object} dto.CallResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "Provider rejected the call"
// @Router /phone/calls [post]
func (c *PhoneController) InitiateCall(ctx *gin.Context) {
	var req dto.InitiateCallDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	callSID, err := c.caller.CallUser(ctx.Request.Context(), req.UserID, req.UserName)
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("InitiateCall: Call failed")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Failed to initiate call", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.CallResponseDTO{
		CallSID:        callSID,
		Status:         "initiated",
		ClientIdentity: telephony.Identity(req.UserID),
	})
}

// GetCallFeedback godoc
// @Summary Get phone interview feedback
// @Description Returns the AI-generated feedback for a completed phone interview. Feedback is generated shortly after the call wraps up.
// @Tags Phone
// @Produce json
// @Param call_sid path string true "Provider call SID"
// @Success 200 {object} dto.PhoneFeedbackDTO
// @Failure 404 {object} dto.ErrorResponse "Feedback not available yet or call unknown"
// @Router /phone/feedback/{call_sid} [get]
func (c *PhoneController) GetCallFeedback(ctx *gin.Context) {
	callSID := ctx.Param("call_sid")
	feedback, err := c.feedback.GetCallFeedback(ctx.Request.Context(), callSID)
	if err != nil {
		if errors.Is(err, telephony.ErrCallFeedbackNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No feedback for this call yet"})
			return
		}
		log.Error().Err(err).Str("callSID", callSID).Msg("GetCallFeedback: Store error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load call feedback", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, feedback)
}
