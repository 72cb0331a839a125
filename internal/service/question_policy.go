package service

import "github.com/hireready/hireready/internal/model"

// Question-set composition requested from the AI provider.
const (
	TotalQuestions    = 15
	TechQuestionCount = 6
	DSAQuestionCount  = 6
	HRQuestionCount   = 3
	HRTimeLimitSec    = 120
	DSAExtraTimeSec   = 120
)

var baseTimeByDifficulty = map[string]int{
	model.DifficultyEasy:   180,
	model.DifficultyMedium: 300,
	model.DifficultyHard:   420,
}

// DifficultyForExperience maps years of experience to a difficulty tier.
func DifficultyForExperience(years int) string {
	switch {
	case years <= 1:
		return model.DifficultyEasy
	case years <= 3:
		return model.DifficultyMedium
	default:
		return model.DifficultyHard
	}
}

// DSATopicsForExperience limits algorithmic question topics to what a
// candidate at that level can reasonably be asked.
func DSATopicsForExperience(years int) string {
	switch {
	case years <= 1:
		return "Arrays, Strings"
	case years <= 3:
		return "HashMaps, Recursion, Sorting"
	default:
		return "Trees, Graphs, DP"
	}
}

// TimeLimitFor returns the per-question budget in seconds when the provider
// does not supply one. Algorithmic questions get extra time on top of the
// difficulty base; behavioral questions get a fixed short budget.
func TimeLimitFor(questionType, difficulty string) int {
	base, ok := baseTimeByDifficulty[difficulty]
	if !ok {
		base = baseTimeByDifficulty[model.DifficultyEasy]
	}
	switch questionType {
	case model.QuestionTypeDSA:
		return base + DSAExtraTimeSec
	case model.QuestionTypeHR:
		return HRTimeLimitSec
	default:
		return base
	}
}
