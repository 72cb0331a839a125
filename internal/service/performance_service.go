package service

import (
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/model"
	"github.com/hireready/hireready/internal/repository"
)

type PerformanceService interface {
	UserPerformance(userID string) (*dto.PerformanceDTO, error)
}

type performanceService struct {
	sessionRepo repository.SessionRepository
}

func NewPerformanceService(sessionRepo repository.SessionRepository) PerformanceService {
	return &performanceService{sessionRepo: sessionRepo}
}

// UserPerformance aggregates the user's scored sessions in chronological
// order. Sessions without feedback count toward the total but carry no score.
func (s *performanceService) UserPerformance(userID string) (*dto.PerformanceDTO, error) {
	records, err := s.sessionRepo.FindAllByUserOrdered(userID)
	if err != nil {
		return nil, err
	}

	scores := scoreSeries(records)
	result := &dto.PerformanceDTO{TotalSessions: len(records)}
	if len(scores) == 0 {
		return result, nil
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return nil, err
	}
	best, err := stats.Max(scores)
	if err != nil {
		return nil, err
	}
	result.AverageScore = mean
	result.BestScore = best
	result.ImprovementRate = improvementRate(scores)

	log.Debug().Str("userID", userID).Int("scored", len(scores)).Float64("avg", mean).Msg("Computed performance stats")
	return result, nil
}

func scoreSeries(records []model.SessionRecord) []float64 {
	scores := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Feedback != nil {
			scores = append(scores, float64(r.Feedback.Score))
		}
	}
	return scores
}

// improvementRate compares the mean of the later half of the score series
// against the earlier half, as a percentage of the earlier half. Fewer than
// two scores, or an all-zero first half, yield zero.
func improvementRate(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}
	mid := len(scores) / 2
	firstMean, err := stats.Mean(scores[:mid])
	if err != nil || firstMean == 0 {
		return 0
	}
	secondMean, err := stats.Mean(scores[mid:])
	if err != nil {
		return 0
	}
	return (secondMean - firstMean) / firstMean * 100
}
