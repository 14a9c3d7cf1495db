package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ChatMessage is a persisted chat message as returned by history endpoints.
type ChatMessage struct {
	ID        string    `json:"id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// GlobalChatRequest is the body of POST /chat/global.
type GlobalChatRequest struct {
	Message string `json:"message"`
}

// GlobalChatReply is the response of POST /chat/global. Action carries the raw
// top-level object so that both flattened and nested action payloads can be
// parsed by the chat package.
type GlobalChatReply struct {
	Response  string          `json:"response"`
	Timestamp string          `json:"timestamp"`
	Raw       json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the raw payload alongside the decoded fields.
func (r *GlobalChatReply) UnmarshalJSON(data []byte) error {
	type plain GlobalChatReply
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = GlobalChatReply(p)
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// ChatHistory is the response of GET /chat/global/history.
type ChatHistory struct {
	History []ChatMessage `json:"history"`
}

// LeadChatRequest is the body of POST /leads/{id}/chat.
type LeadChatRequest struct {
	Message  string         `json:"message"`
	LeadData map[string]any `json:"lead_data"`
}

// LeadChatReply is the response of POST /leads/{id}/chat.
type LeadChatReply struct {
	Response string `json:"response"`
}

// OutreachTemplate is the response of POST /leads/{id}/outreach-template.
type OutreachTemplate struct {
	Template string `json:"template"`
	Channel  string `json:"channel,omitempty"`
}

func containsFold(s, needleLower string) bool {
	return strings.Contains(strings.ToLower(s), needleLower)
}
