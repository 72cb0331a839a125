package interview

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/service"
)

type PerformanceController struct {
	performanceService service.PerformanceService
}

func NewPerformanceController(performanceService service.PerformanceService) *PerformanceController {
	return &PerformanceController{performanceService: performanceService}
}

// GetUserPerformance godoc
// @Summary Get a user's historical interview performance
// @Description Aggregates scored sessions: average score, best score and the improvement trend across the user's history.
// @Tags Performance
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} dto.PerformanceDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/performance [get]
func (c *PerformanceController) GetUserPerformance(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	performance, err := c.performanceService.UserPerformance(userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("GetUserPerformance: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute performance", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, performance)
}
