package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"scrapi-go/pkg/models"
	"scrapi-go/pkg/utils"
)

// SendGlobalChat posts a message to the global assistant
func (c *Client) SendGlobalChat(ctx context.Context, message string) (*models.GlobalChatReply, error) {
	var reply models.GlobalChatReply
	payload := models.GlobalChatRequest{Message: message}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/chat/global", nil, payload, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// GlobalChatHistory retrieves the most recent global chat messages
func (c *Client) GlobalChatHistory(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var history models.ChatHistory
	if err := c.doGetRequest(ctx, "/chat/global/history", params, &history); err != nil {
		return nil, err
	}
	return history.History, nil
}

// ClearGlobalChatHistory deletes the server-side global chat history
func (c *Client) ClearGlobalChatHistory(ctx context.Context) error {
	return c.doDeleteRequest(ctx, "/chat/global/history")
}

// SendLeadChat asks the assistant about one dataset item
func (c *Client) SendLeadChat(ctx context.Context, leadID, message string, leadData map[string]any) (string, error) {
	var reply models.LeadChatReply
	payload := models.LeadChatRequest{Message: message, LeadData: leadData}
	path := fmt.Sprintf("/leads/%s/chat", url.PathEscape(leadID))
	if err := c.doJSONRequest(ctx, http.MethodPost, path, nil, payload, &reply); err != nil {
		return "", err
	}
	if reply.Response == "" {
		return "", newInvalidResponseError("lead chat reply has no response field", nil)
	}
	return reply.Response, nil
}

// LeadChatHistory retrieves the chat transcript for one dataset item
func (c *Client) LeadChatHistory(ctx context.Context, leadID string) ([]models.ChatMessage, error) {
	var history []models.ChatMessage
	path := fmt.Sprintf("/leads/%s/chat", url.PathEscape(leadID))
	if err := c.doGetRequest(ctx, path, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// OutreachTemplate generates an email or phone outreach template for a lead
func (c *Client) OutreachTemplate(ctx context.Context, leadID, channel string) (string, error) {
	channel, err := utils.ValidateChannel(channel)
	if err != nil {
		return "", err
	}
	var tmpl models.OutreachTemplate
	path := fmt.Sprintf("/leads/%s/outreach-template", url.PathEscape(leadID))
	params := url.Values{"channel": {channel}}
	if err := c.doJSONRequest(ctx, http.MethodPost, path, params, struct{}{}, &tmpl); err != nil {
		return "", err
	}
	if tmpl.Template == "" {
		return "", newInvalidResponseError("outreach reply has no template field", nil)
	}
	return tmpl.Template, nil
}
