package interview

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/service"
)

type InterviewController struct {
	interviewService service.InterviewService
}

func NewInterviewController(interviewService service.InterviewService) *InterviewController {
	return &InterviewController{interviewService: interviewService}
}

// CreateInterview godoc
// @Summary Create a mock interview
// @Description Generates the question set for the given position and experience and persists the interview.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param interview body dto.CreateInterviewDTO true "Interview parameters"
// @Success 201 {object} dto.InterviewResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "Question generation failed"
// @Router /interviews [post]
func (c *InterviewController) CreateInterview(ctx *gin.Context) {
	var req dto.CreateInterviewDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	interview, err := c.interviewService.CreateInterview(ctx.Request.Context(), req.UserID, req)
	if err != nil {
		if errors.Is(err, service.ErrMalformedGeneration) {
			ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Question generation produced an unusable response, please retry", Details: []string{err.Error()}})
			return
		}
		log.Error().Err(err).Msg("CreateInterview: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create interview", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, interview)
}

// ListInterviews godoc
// @Summary List interviews for a user
// @Tags Interviews
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {array} dto.InterviewSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Missing user id"
// @Router /interviews [get]
func (c *InterviewController) ListInterviews(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "user_id query parameter is required"})
		return
	}

	interviews, err := c.interviewService.ListInterviews(userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("ListInterviews: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list interviews", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, interviews)
}

// GetInterview godoc
// @Summary Get an interview with its questions
// @Tags Interviews
// @Produce json
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.InterviewResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid interview ID"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Router /interviews/{id} [get]
func (c *InterviewController) GetInterview(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	interview, err := c.interviewService.GetInterview(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
			return
		}
		log.Error().Err(err).Uint("interviewID", id).Msg("GetInterview: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to get interview", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, interview)
}

// DeleteInterview godoc
// @Summary Delete an interview
// @Tags Interviews
// @Produce json
// @Param id path int true "Interview ID"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid interview ID"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Router /interviews/{id} [delete]
func (c *InterviewController) DeleteInterview(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.interviewService.DeleteInterview(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
			return
		}
		log.Error().Err(err).Uint("interviewID", id).Msg("DeleteInterview: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete interview", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid interview ID format"})
		return 0, false
	}
	return uint(id), true
}
