package handlers

import (
	"net/http"
	"strconv"
	"time"

	"scrapi-go/pkg/mockapi/assistant"
	"scrapi-go/pkg/mockapi/store"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/scraper"

	"github.com/gin-gonic/gin"
)

type globalChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// GlobalChat answers a global assistant message. Action fields are merged
// into the top level of the response. Runs started by the reply are handed
// to runner.
func GlobalChat(st *store.Store, runner *scraper.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req globalChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Message is required"})
			return
		}

		uid := userID(c)
		reply := assistant.Global(st, uid, req.Message)
		st.AppendGlobalChat(uid, "user", req.Message)
		st.AppendGlobalChat(uid, "assistant", reply.Response)
		if reply.Job != nil && runner != nil {
			runner.Start(*reply.Job)
		}

		resp := gin.H{
			"response":  reply.Response,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		for k, v := range reply.Action {
			resp[k] = v
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GlobalChatHistory returns the most recent global chat messages
func GlobalChatHistory(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "limit must be a positive integer"})
				return
			}
			limit = n
		}
		c.JSON(http.StatusOK, models.ChatHistory{History: st.GlobalChatHistory(userID(c), limit)})
	}
}

// ClearGlobalChatHistory deletes the global chat history
func ClearGlobalChatHistory(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := st.ClearGlobalChat(userID(c))
		c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared", "deleted_count": n})
	}
}

type leadChatRequest struct {
	Message  string         `json:"message" binding:"required"`
	LeadData map[string]any `json:"lead_data"`
}

// LeadChat answers a question about one lead
func LeadChat(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leadChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}

		uid := userID(c)
		lead, err := st.Lead(uid, c.Param("id"))
		if err != nil {
			abortWithStoreError(c, err, "Lead not found")
			return
		}

		answer := assistant.LeadAdvice(lead, req.Message)
		st.AppendLeadChat(uid, lead.ID, "user", req.Message)
		msg := st.AppendLeadChat(uid, lead.ID, "assistant", answer)
		c.JSON(http.StatusOK, gin.H{"response": answer, "message_id": msg.ID})
	}
}

// LeadChatHistory returns the transcript for one lead
func LeadChatHistory(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := userID(c)
		lead, err := st.Lead(uid, c.Param("id"))
		if err != nil {
			abortWithStoreError(c, err, "Lead not found")
			return
		}
		c.JSON(http.StatusOK, st.LeadChatHistory(uid, lead.ID))
	}
}

// OutreachTemplate drafts an outreach message for one lead
func OutreachTemplate(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		channel := c.DefaultQuery("channel", "email")
		if channel != "email" && channel != "phone" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "channel must be email or phone"})
			return
		}
		lead, err := st.Lead(userID(c), c.Param("id"))
		if err != nil {
			abortWithStoreError(c, err, "Lead not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"template": assistant.OutreachTemplate(lead, channel)})
	}
}
