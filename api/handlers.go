// SPDX-License-Identifier: GPL-3.0-or-later
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/mailbox"

	"github.com/gin-gonic/gin"
)

type sendRequest struct {
	To        string  `json:"to"`
	Subject   string  `json:"subject"`
	Content   string  `json:"content"`
	Documents []int64 `json:"documents"`
}

type actionRequest struct {
	Action   string        `json:"action"`
	EmailIDs []json.Number `json:"email_ids"`
	Mailbox  string        `json:"mailbox"`
	Target   string        `json:"target"`
}

type settingsRequest struct {
	ImapHost           *string `json:"imap_host"`
	ImapPort           *int    `json:"imap_port"`
	ImapUser           *string `json:"imap_user"`
	ImapPassword       *string `json:"imap_password"`
	ImapUseSSL         *bool   `json:"imap_use_ssl"`
	SmtpHost           *string `json:"smtp_host"`
	SmtpPort           *int    `json:"smtp_port"`
	SmtpUser           *string `json:"smtp_user"`
	SmtpPassword       *string `json:"smtp_password"`
	IntegrationEnabled *bool   `json:"email_integration_enabled"`
}

// queryInt falls back to 0 for missing or non-numeric values, the service applies its defaults.
func queryInt(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}

// ListMessages returns one page of mails
// GET /api/email/messages?mailbox=&limit=&offset=
func (h *Handler) ListMessages(c *gin.Context) {
	page, err := h.service.ListMessages(
		c.Request.Context(),
		userID(c),
		c.DefaultQuery("mailbox", mailbox.Inbox),
		queryInt(c, "limit"),
		queryInt(c, "offset"),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// SendMessage sends a mail from the user's account
// POST /api/email/send
func (h *Handler) SendMessage(c *gin.Context) {
	var request sendRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(strings.TrimSpace(request.To)) == 0 || len(strings.TrimSpace(request.Subject)) == 0 || len(strings.TrimSpace(request.Content)) == 0 {
		badRequest(c, "fields 'to', 'subject' and 'content' are required")
		return
	}

	result, err := h.service.SendMessage(c.Request.Context(), userID(c), &domain.OutgoingMessage{
		To:          request.To,
		Subject:     request.Subject,
		HTMLContent: request.Content,
		DocumentIDs: request.Documents,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "mail sent",
		"warnings": result.Warnings,
	})
}

// ApplyAction marks, deletes or moves mails
// POST /api/email/action
func (h *Handler) ApplyAction(c *gin.Context) {
	var request actionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(request.Action) == 0 || len(request.EmailIDs) == 0 {
		badRequest(c, "fields 'action' and 'email_ids' are required")
		return
	}
	action := domain.Action(request.Action)
	if !action.Valid() {
		badRequest(c, fmt.Sprintf("unknown action: %s", request.Action))
		return
	}

	ids := make([]string, 0, len(request.EmailIDs))
	for _, id := range request.EmailIDs {
		ids = append(ids, id.String())
	}

	err := h.service.ApplyAction(c.Request.Context(), userID(c), &domain.ActionRequest{
		Action:   action,
		EmailIDs: ids,
		Mailbox:  request.Mailbox,
		Target:   request.Target,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("action '%s' applied", action),
	})
}

// ListMailboxes lists the selectable folders
// GET /api/email/mailboxes
func (h *Handler) ListMailboxes(c *gin.Context) {
	mailboxes, err := h.service.ListMailboxes(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"mailboxes": mailboxes,
	})
}

// UpdateSettings changes the stored mail settings, omitted fields stay unchanged
// PUT /api/email/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var request settingsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	err := h.service.UpdateSettings(c.Request.Context(), userID(c), &domain.SettingsUpdate{
		ImapHost:           request.ImapHost,
		ImapPort:           request.ImapPort,
		ImapUser:           request.ImapUser,
		ImapPassword:       request.ImapPassword,
		ImapUseSSL:         request.ImapUseSSL,
		SmtpHost:           request.SmtpHost,
		SmtpPort:           request.SmtpPort,
		SmtpUser:           request.SmtpUser,
		SmtpPassword:       request.SmtpPassword,
		IntegrationEnabled: request.IntegrationEnabled,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
