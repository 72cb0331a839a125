package phone

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hireready/hireready/internal/telephony"
)

// WebhookController serves the provider's form-encoded voice callbacks. The
// responses are voice-script XML, not JSON.
type WebhookController struct {
	flow *telephony.Flow
}

func NewWebhookController(flow *telephony.Flow) *WebhookController {
	return &WebhookController{flow: flow}
}

// Voice handles the initial call webhook: greet the caller and ask the first
// question.
func (c *WebhookController) Voice(ctx *gin.Context) {
	response := c.flow.HandleVoice(ctx.Request.Context(), ctx.PostForm("CallSid"), ctx.PostForm("From"))
	ctx.Data(http.StatusOK, "text/xml", []byte(response))
}

// ProcessAnswer handles a speech result: record it and ask the next question
// or wrap up.
func (c *WebhookController) ProcessAnswer(ctx *gin.Context) {
	response := c.flow.HandleAnswer(ctx.Request.Context(), telephony.AnswerInput{
		CallSID:      ctx.PostForm("CallSid"),
		SpeechResult: ctx.PostForm("SpeechResult"),
		Confidence:   ctx.PostForm("Confidence"),
	})
	ctx.Data(http.StatusOK, "text/xml", []byte(response))
}

// Status handles call status callbacks.
func (c *WebhookController) Status(ctx *gin.Context) {
	c.flow.HandleStatus(ctx.Request.Context(), ctx.PostForm("CallSid"), ctx.PostForm("CallStatus"), ctx.PostForm("CallDuration"))
	ctx.Status(http.StatusOK)
}
