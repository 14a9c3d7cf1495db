package msgs

import (
	"fmt"
	"strings"
	"time"

	"scrapi-go/pkg/models"
)

// LeadChat holds the conversation about one dataset item
type LeadChat struct {
	Lead     models.DatasetItem
	Messages []models.ChatMessage
	Loading  bool
	Sending  bool
}

// NewLeadChat starts a chat for lead with its history still loading.
func NewLeadChat(lead models.DatasetItem) *LeadChat {
	return &LeadChat{Lead: lead, Loading: true}
}

// Begin appends the user's question optimistically. It reports false for
// blank input or while a reply is pending.
func (c *LeadChat) Begin(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" || c.Sending {
		return "", false
	}
	c.Messages = append(c.Messages, models.ChatMessage{Role: "user", Content: text, CreatedAt: time.Now()})
	c.Sending = true
	return text, true
}

// Reply appends an assistant answer.
func (c *LeadChat) Reply(content string) {
	c.Sending = false
	c.Messages = append(c.Messages, models.ChatMessage{Role: "assistant", Content: content, CreatedAt: time.Now()})
}

// Fail clears the pending flag after an error.
func (c *LeadChat) Fail() {
	c.Sending = false
}

// AppendTemplate adds a generated outreach template as an assistant message.
func (c *LeadChat) AppendTemplate(channel, template string) {
	c.Messages = append(c.Messages, models.ChatMessage{
		Role:      "assistant",
		Content:   TemplateMessage(channel, template),
		CreatedAt: time.Now(),
	})
}

// TemplateMessage formats a template the way it is shown in the transcript.
func TemplateMessage(channel, template string) string {
	return fmt.Sprintf("**%s Outreach Template:**\n\n%s", strings.ToUpper(channel), template)
}
