package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMentorPromptCarriesKnowledgeBaseAndQuestion(t *testing.T) {
	question := "Should I learn React or Vue first?"
	prompt := mentorPrompt(question)

	assert.Contains(t, prompt, "career mentor")
	assert.Contains(t, prompt, "## Frontend Developer")
	assert.Contains(t, prompt, "## Interview Guidance")
	assert.Contains(t, prompt, question)
	// The question comes after the knowledge base so the model reads the
	// guidance before the ask.
	assert.Less(t, strings.Index(prompt, "## Career Roadmap"), strings.Index(prompt, question))
}
