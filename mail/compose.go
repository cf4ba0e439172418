// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CrawX/go-mailbridge/domain"

	gomail "github.com/emersion/go-message/mail"
	"github.com/jhillyerd/enmime/v2"
	"github.com/rs/xid"
)

var ErrNoRecipients = errors.New("no recipients given")

type Composed struct {
	MessageID string
	Envelope  *domain.Envelope
	Raw       []byte
}

// Compose builds the RFC 5322 message sent from the account address from.
func Compose(from string, msg *domain.OutgoingMessage, attachments []*domain.Attachment, date time.Time) (*Composed, error) {
	recipients, err := gomail.ParseAddressList(msg.To)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient list %q: %w", msg.To, err)
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	messageID := fmt.Sprintf("<%s@%s>", xid.New().String(), addressDomain(from))
	builder := enmime.Builder().
		From("", from).
		Subject(msg.Subject).
		Date(date).
		Header("Message-ID", messageID).
		HTML([]byte(msg.HTMLContent))

	envelope := &domain.Envelope{
		From: from,
		To:   make([]string, 0, len(recipients)),
	}
	for _, r := range recipients {
		builder = builder.To(r.Name, r.Address)
		envelope.To = append(envelope.To, r.Address)
	}

	for _, a := range attachments {
		contentType := a.ContentType
		if len(contentType) == 0 {
			contentType = "application/octet-stream"
		}
		builder = builder.AddAttachment(a.Content, contentType, a.Filename)
	}

	root, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("could not build mail: %w", err)
	}

	buf := &bytes.Buffer{}
	err = root.Encode(buf)
	if err != nil {
		return nil, fmt.Errorf("could not encode mail: %w", err)
	}

	return &Composed{
		MessageID: messageID,
		Envelope:  envelope,
		Raw:       buf.Bytes(),
	}, nil
}

func addressDomain(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return "localhost"
	}
	return address[at+1:]
}
