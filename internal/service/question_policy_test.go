package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hireready/hireready/internal/model"
)

func TestDifficultyForExperience(t *testing.T) {
	assert.Equal(t, model.DifficultyEasy, DifficultyForExperience(0))
	assert.Equal(t, model.DifficultyEasy, DifficultyForExperience(1))
	assert.Equal(t, model.DifficultyMedium, DifficultyForExperience(2))
	assert.Equal(t, model.DifficultyMedium, DifficultyForExperience(3))
	assert.Equal(t, model.DifficultyHard, DifficultyForExperience(4))
	assert.Equal(t, model.DifficultyHard, DifficultyForExperience(12))
}

func TestDSATopicsForExperience(t *testing.T) {
	assert.Equal(t, "Arrays, Strings", DSATopicsForExperience(1))
	assert.Equal(t, "HashMaps, Recursion, Sorting", DSATopicsForExperience(3))
	assert.Equal(t, "Trees, Graphs, DP", DSATopicsForExperience(7))
}

func TestTimeLimitFor(t *testing.T) {
	assert.Equal(t, 180, TimeLimitFor(model.QuestionTypeTech, model.DifficultyEasy))
	assert.Equal(t, 300, TimeLimitFor(model.QuestionTypeTech, model.DifficultyMedium))
	assert.Equal(t, 420, TimeLimitFor(model.QuestionTypeTech, model.DifficultyHard))

	// Algorithmic questions get extra time on top of the base.
	assert.Equal(t, 300, TimeLimitFor(model.QuestionTypeDSA, model.DifficultyEasy))
	assert.Equal(t, 540, TimeLimitFor(model.QuestionTypeDSA, model.DifficultyHard))

	// Behavioral questions are fixed regardless of difficulty.
	assert.Equal(t, HRTimeLimitSec, TimeLimitFor(model.QuestionTypeHR, model.DifficultyHard))

	// Unknown difficulty falls back to the easy base.
	assert.Equal(t, 180, TimeLimitFor(model.QuestionTypeTech, "impossible"))
}
