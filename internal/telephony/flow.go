package telephony

import (
	"context"
	"encoding/xml"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	phoneQuestionLimit = 5
	voiceName          = "Polly.Joanna"
	gatherAction       = "/phone/webhook/process-answer"

	greeting = "Hello! Welcome to your HireReady phone interview. This is an automated mock interview to help you practice. Let's begin."
	wrapUp   = "Thank you for completing the mock interview. Your performance has been recorded and you'll receive detailed feedback shortly. Have a great day!"
)

var phoneQuestions = []string{
	"Tell me about yourself and your background.",
	"What are your key technical strengths?",
	"Describe a challenging project you worked on and how you handled it.",
	"What technologies are you most comfortable with?",
	"Where do you see yourself in the next two years?",
}

var acknowledgments = []string{
	"Thank you for sharing that.",
	"I see. That's helpful.",
	"Interesting. Let me ask you another question.",
	"Good. Moving on to the next question.",
}

// CompletionSink receives the full transcript of a finished phone interview.
// Implementations must not block: the flow calls it from the webhook path.
type CompletionSink interface {
	CallCompleted(session *CallSession)
}

// Flow drives a phone interview across webhook invocations: greet, ask,
// gather speech, repeat until the question limit, then wrap up. All call
// state lives in the CallStore.
type Flow struct {
	store CallStore
	sink  CompletionSink
}

func NewFlow(store CallStore, sink CompletionSink) *Flow {
	return &Flow{store: store, sink: sink}
}

// AnswerInput is what the provider posts to the process-answer webhook.
type AnswerInput struct {
	CallSID      string
	SpeechResult string
	Confidence   string
}

// HandleVoice answers the initial voice webhook: start a session and ask the
// first question, or re-prompt on a repeated callback for a known call.
func (f *Flow) HandleVoice(ctx context.Context, callSID, from string) string {
	if _, err := f.store.Find(ctx, callSID); err == nil {
		return twiml(say("Please continue with your answer."), gather())
	}

	session := &CallSession{
		CallSID:   callSID,
		Phone:     from,
		StartedAt: time.Now(),
	}
	first := phoneQuestions[0]
	session.Transcript = append(session.Transcript, CallTurn{Speaker: "ai", Text: first, At: time.Now()})
	if err := f.store.Save(ctx, session); err != nil {
		log.Error().Err(err).Str("callSID", callSID).Msg("Failed to store call session")
		return twiml(say("Sorry, there was an error. Please try again later."), "<Hangup/>")
	}

	log.Info().Str("callSID", callSID).Str("from", from).Msg("Phone interview started")
	return twiml(say(greeting), `<Pause length="1"/>`, say(first), gather())
}

// HandleAnswer records the caller's speech and asks the next question, or
// wraps up after the final one.
func (f *Flow) HandleAnswer(ctx context.Context, input AnswerInput) string {
	session, err := f.store.Find(ctx, input.CallSID)
	if err != nil {
		return twiml(say("Session expired. Please call again."), "<Hangup/>")
	}

	confidence, _ := strconv.ParseFloat(input.Confidence, 64)
	session.Transcript = append(session.Transcript, CallTurn{
		Speaker:    "user",
		Text:       input.SpeechResult,
		Confidence: confidence,
		At:         time.Now(),
	})
	session.QuestionCount++

	log.Info().Str("callSID", input.CallSID).Int("questionCount", session.QuestionCount).Str("confidence", input.Confidence).Msg("Answer received")

	if session.QuestionCount >= phoneQuestionLimit {
		if err := f.store.Delete(ctx, input.CallSID); err != nil {
			log.Warn().Err(err).Str("callSID", input.CallSID).Msg("Failed to delete call session")
		}
		log.Info().Str("callSID", input.CallSID).Int("turns", len(session.Transcript)).Msg("Phone interview completed")
		if f.sink != nil {
			f.sink.CallCompleted(session)
		}
		return twiml(say(wrapUp), "<Hangup/>")
	}

	next := phoneQuestions[session.QuestionCount]
	session.Transcript = append(session.Transcript, CallTurn{Speaker: "ai", Text: next, At: time.Now()})
	if err := f.store.Save(ctx, session); err != nil {
		log.Error().Err(err).Str("callSID", input.CallSID).Msg("Failed to update call session")
		return twiml(say("Sorry, I couldn't process that. Could you please repeat?"), "<Hangup/>")
	}

	ack := acknowledgments[rand.Intn(len(acknowledgments))]
	return twiml(say(ack), `<Pause length="1"/>`, say(next), gather())
}

// HandleStatus processes a call status callback; a completed call drops any
// leftover session state.
func (f *Flow) HandleStatus(ctx context.Context, callSID, status, duration string) {
	log.Info().Str("callSID", callSID).Str("status", status).Str("duration", duration).Msg("Call status update")
	if status == "completed" {
		if err := f.store.Delete(ctx, callSID); err != nil {
			log.Warn().Err(err).Str("callSID", callSID).Msg("Failed to delete call session")
		}
	}
}

func twiml(elements ...string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<Response>")
	for _, e := range elements {
		b.WriteString(e)
	}
	b.WriteString("</Response>")
	return b.String()
}

func say(text string) string {
	var escaped strings.Builder
	xml.EscapeText(&escaped, []byte(text))
	return fmt.Sprintf(`<Say voice="%s">%s</Say>`, voiceName, escaped.String())
}

func gather() string {
	return fmt.Sprintf(`<Gather input="speech" timeout="30" speechTimeout="auto" action="%s" method="POST"/>`, gatherAction)
}
