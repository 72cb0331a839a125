package interview

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/service"
)

type MentorController struct {
	llm service.GeminiLLMService
}

func NewMentorController(llm service.GeminiLLMService) *MentorController {
	return &MentorController{llm: llm}
}

// Chat godoc
// @Summary Ask the career mentor
// @Description Sends a free-form career question to the AI mentor and returns its advice.
// @Tags Mentor
// @Accept json
// @Produce json
// @Param chat body dto.MentorChatDTO true "Mentor question"
// @Success 200 {object} dto.MentorChatResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing message"
// @Failure 502 {object} dto.ErrorResponse "AI provider failure"
// @Router /mentor/chat [post]
func (c *MentorController) Chat(ctx *gin.Context) {
	var req dto.MentorChatDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Message is required", Details: []string{err.Error()}})
		return
	}

	reply, err := c.llm.MentorReply(ctx.Request.Context(), req.Message)
	if err != nil {
		log.Error().Err(err).Msg("Chat: Mentor reply failed")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Failed to generate mentor reply", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.MentorChatResponseDTO{Reply: reply})
}
