package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/hireready/hireready/config"
	"github.com/hireready/hireready/internal/llmjson"
	"github.com/hireready/hireready/internal/model"
)

// GenerationRequest is the job profile the question set is derived from.
type GenerationRequest struct {
	Position        string
	Description     string
	ExperienceYears int
	TechStack       string
}

// GeneratedQuestion mirrors the JSON shape the provider is asked to return.
// The provider gives no schema guarantee; normalization happens after parse.
type GeneratedQuestion struct {
	ID             string `json:"id"`
	Question       string `json:"question"`
	Type           string `json:"type"`
	Difficulty     string `json:"difficulty"`
	ExpectedAnswer string `json:"expectedAnswer"`
	TimeLimitSec   int    `json:"timeLimitSec"`
}

// TranscriptEntry is one turn of the reconstructed interview transcript.
type TranscriptEntry struct {
	Speaker string `json:"speaker"` // "interviewer" or "candidate"
	Text    string `json:"text"`
}

// FeedbackResult is the strict output contract of the evaluation rubric.
type FeedbackResult struct {
	Score                int      `json:"score"`
	Strengths            []string `json:"strengths"`
	Weaknesses           []string `json:"weaknesses"`
	Recommendations      []string `json:"recommendations"`
	CommunicationQuality string   `json:"communicationQuality"`
}

type GeminiLLMService interface {
	GenerateQuestions(ctx context.Context, req GenerationRequest) ([]GeneratedQuestion, error)
	GenerateFeedback(ctx context.Context, transcript []TranscriptEntry) (*FeedbackResult, error)
	// MentorReply answers a free-form career question as the mentor persona.
	// Output is prose, not JSON.
	MentorReply(ctx context.Context, message string) (string, error)
}

type geminiLLMService struct {
	jsonModel *genai.GenerativeModel
	chatModel *genai.GenerativeModel
	cfg       *config.Config
}

func NewGeminiLLMService(cfg *config.Config) (GeminiLLMService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiLLMService will be non-functional.")
		return &geminiLLMService{cfg: cfg}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	jm := client.GenerativeModel("gemini-1.5-flash")
	jm.SetTemperature(1)
	jm.SetTopP(0.95)
	jm.SetTopK(40)
	jm.SetMaxOutputTokens(16384)
	jm.ResponseMIMEType = "application/json"

	// Mentor chat returns prose, so no JSON response MIME on this handle.
	cm := client.GenerativeModel("gemini-1.5-flash")
	cm.SetTemperature(1)
	cm.SetMaxOutputTokens(8192)

	return &geminiLLMService{jsonModel: jm, chatModel: cm, cfg: cfg}, nil
}

func (s *geminiLLMService) GenerateQuestions(ctx context.Context, req GenerationRequest) ([]GeneratedQuestion, error) {
	if s.jsonModel == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	difficulty := DifficultyForExperience(req.ExperienceYears)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d interview questions as JSON array.\n\n", TotalQuestions)
	fmt.Fprintf(&b, "Position: %s\n", req.Position)
	fmt.Fprintf(&b, "Description: %s\n", req.Description)
	fmt.Fprintf(&b, "Experience: %d years\n", req.ExperienceYears)
	fmt.Fprintf(&b, "Tech Stack: %s\n", req.TechStack)
	fmt.Fprintf(&b, "Difficulty: %s\n\n", difficulty)
	fmt.Fprintf(&b, "Distribution: %d TECH (%s), %d DSA, %d HR questions\n\n",
		TechQuestionCount, req.TechStack, DSAQuestionCount, HRQuestionCount)
	fmt.Fprintf(&b, "DSA Topics: %s\n\n", DSATopicsForExperience(req.ExperienceYears))
	b.WriteString("Format (keep expectedAnswer concise, max 3 sentences):\n")
	fmt.Fprintf(&b, `[{
  "id": "Q1",
  "question": "...",
  "type": "TECH|DSA|HR",
  "difficulty": "%s",
  "expectedAnswer": "Key points only",
  "timeLimitSec": 300
}]`, difficulty)
	b.WriteString("\n\nReturn ONLY valid JSON array.")

	text, err := s.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var questions []GeneratedQuestion
	if err := llmjson.ExtractArray(text, &questions); err != nil {
		log.Warn().Err(err).Str("response", truncateForLog(text)).Msg("Failed to extract question array from Gemini response")
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty question array", ErrMalformedGeneration)
	}
	return questions, nil
}

func (s *geminiLLMService) GenerateFeedback(ctx context.Context, transcript []TranscriptEntry) (*FeedbackResult, error) {
	if s.jsonModel == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	var b strings.Builder
	b.WriteString("You are an expert interview coach analyzing a mock interview.\n\n")
	b.WriteString("Interview Transcript:\n")
	for _, entry := range transcript {
		speaker := "Candidate"
		if entry.Speaker == SpeakerInterviewer {
			speaker = "Interviewer"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", speaker, entry.Text)
	}
	b.WriteString(`Analyze this interview and provide detailed feedback in the following JSON format:

{
  "score": <number 0-100>,
  "strengths": ["<strength 1>", "<strength 2>", "<strength 3>"],
  "weaknesses": ["<weakness 1>", "<weakness 2>", "<weakness 3>"],
  "recommendations": ["<specific recommendation 1>", "<specific recommendation 2>", "<specific recommendation 3>"],
  "communicationQuality": "<one of: Excellent, Good, Fair, Needs Improvement>"
}

Evaluation Criteria:
- Communication clarity and confidence
- Response structure and completeness
- Technical knowledge (if applicable)
- Professional tone
- Examples and specificity

Provide honest, constructive feedback. Be specific with examples from the transcript.

Return ONLY the JSON object, no other text.`)

	text, err := s.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var result FeedbackResult
	if err := llmjson.ExtractObject(text, &result); err != nil {
		log.Warn().Err(err).Str("response", truncateForLog(text)).Msg("Failed to extract feedback object from Gemini response")
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeedback, err)
	}
	if err := ValidateFeedbackResult(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeedback, err)
	}
	return &result, nil
}

func (s *geminiLLMService) MentorReply(ctx context.Context, message string) (string, error) {
	if s.chatModel == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}
	reply, err := generateWith(ctx, s.chatModel, mentorPrompt(message))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (s *geminiLLMService) generate(ctx context.Context, prompt string) (string, error) {
	return generateWith(ctx, s.jsonModel, prompt)
}

func generateWith(ctx context.Context, gm *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text.String(), nil
}

// ValidateFeedbackResult enforces the rubric output contract. A response that
// parses but violates the contract is treated the same as unparseable output.
func ValidateFeedbackResult(r *FeedbackResult) error {
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("score %d out of range", r.Score)
	}
	if len(r.Strengths) < 3 || len(r.Weaknesses) < 3 || len(r.Recommendations) < 3 {
		return fmt.Errorf("feedback lists must have at least three items")
	}
	switch r.CommunicationQuality {
	case model.CommQualityExcellent, model.CommQualityGood, model.CommQualityFair, model.CommQualityNeedsImprovement:
		return nil
	default:
		return fmt.Errorf("unknown communication quality %q", r.CommunicationQuality)
	}
}

func truncateForLog(s string) string {
	if len(s) > 500 {
		return s[:500]
	}
	return s
}
