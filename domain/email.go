// SPDX-License-Identifier: GPL-3.0-or-later
package domain

type AttachmentMeta struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	SizeDisplay string `json:"size_display"`
	ContentType string `json:"content_type"`
}

type Email struct {
	ID          string           `json:"id"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	Subject     string           `json:"subject"`
	Date        string           `json:"date"`
	DateISO     string           `json:"date_iso"`
	Preview     string           `json:"preview"`
	BodyPlain   string           `json:"body_plain"`
	BodyHTML    string           `json:"body_html"`
	IsRead      bool             `json:"is_read"`
	Attachments []AttachmentMeta `json:"attachments"`
	Mailbox     string           `json:"mailbox"`
}

type Mailbox struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Delimiter   string   `json:"delimiter"`
	Flags       []string `json:"flags"`
}

type MessagePage struct {
	Emails     []*Email `json:"emails"`
	TotalCount int      `json:"total_count"`
	Mailbox    string   `json:"mailbox"`
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
}

type OutgoingMessage struct {
	To          string
	Subject     string
	HTMLContent string
	DocumentIDs []int64
}

type SendResult struct {
	Warnings []string `json:"warnings,omitempty"`
}

type Action string

const (
	ActionMarkRead   = Action("mark_read")
	ActionMarkUnread = Action("mark_unread")
	ActionDelete     = Action("delete")
	ActionMove       = Action("move")
)

func (a Action) Valid() bool {
	switch a {
	case ActionMarkRead, ActionMarkUnread, ActionDelete, ActionMove:
		return true
	}
	return false
}

type ActionRequest struct {
	Action   Action
	EmailIDs []string
	Mailbox  string
	Target   string
}
