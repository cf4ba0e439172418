// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"strconv"
	"strings"
	"time"

	"github.com/CrawX/go-mailbridge/domain"

	"github.com/dustin/go-humanize"
	"github.com/emersion/go-imap"
	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
	gomail "github.com/emersion/go-message/mail"
)

const (
	previewLength = 100

	NoSubject     = "(no subject)"
	UnknownSender = "(unknown sender)"
	UnknownDate   = "(unknown date)"

	DateDisplayFormat = "02.01.2006 15:04"
)

var wordDecoder = &mime.WordDecoder{
	CharsetReader: charset.Reader,
}

// DecodeHeader decodes RFC 2047 encoded words, the raw value is returned if decoding fails.
func DecodeHeader(raw string) string {
	decoded, err := wordDecoder.DecodeHeader(raw)
	if err != nil {
		decoded = raw
	}

	return strings.ToValidUTF8(decoded, "\uFFFD")
}

type Body struct {
	Plain       string
	HTML        string
	Attachments []domain.AttachmentMeta

	plainSet bool
	htmlSet  bool
}

// ParseBody walks all MIME parts. The first text/plain and the first text/html part win,
// attachments are only recorded.
func ParseBody(entity *message.Entity) *Body {
	b := &Body{
		Attachments: []domain.AttachmentMeta{},
	}
	b.walk(entity)

	return b
}

func (b *Body) walk(entity *message.Entity) {
	mr := entity.MultipartReader()
	if mr == nil {
		b.leaf(entity)
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil && !isRecoverable(err) {
			return
		}
		if part == nil {
			return
		}

		b.walk(part)
	}
}

func (b *Body) leaf(entity *message.Entity) {
	mediaType, params, err := entity.Header.ContentType()
	if err != nil || len(mediaType) == 0 {
		mediaType = "text/plain"
	}

	disposition, dispositionParams, _ := entity.Header.ContentDisposition()
	if strings.EqualFold(disposition, "attachment") {
		b.Attachments = append(b.Attachments, attachmentMeta(entity, mediaType, params, dispositionParams))
		return
	}

	switch mediaType {
	case "text/plain":
		if !b.plainSet {
			b.Plain = readText(entity.Body)
			b.plainSet = true
		}
	case "text/html":
		if !b.htmlSet {
			b.HTML = readText(entity.Body)
			b.htmlSet = true
		}
	}
}

func attachmentMeta(entity *message.Entity, mediaType string, params, dispositionParams map[string]string) domain.AttachmentMeta {
	filename := dispositionParams["filename"]
	if len(filename) == 0 {
		filename = params["name"]
	}
	filename = DecodeHeader(filename)
	if len(filename) == 0 {
		filename = "unnamed"
	}

	size, _ := io.Copy(io.Discard, entity.Body)

	return domain.AttachmentMeta{
		Filename:    filename,
		Size:        size,
		SizeDisplay: humanize.Bytes(uint64(size)),
		ContentType: mediaType,
	}
}

// Partially readable parts keep what could be read, invalid bytes are replaced.
func readText(r io.Reader) string {
	data, _ := io.ReadAll(r)
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

func isRecoverable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}

// Preview prefers the plain body and falls back to html.
func Preview(plain, html string) string {
	text := plain
	if len(text) == 0 {
		text = html
	}

	runes := []rune(text)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "..."
	}

	return text
}

// ParseEmail decodes one fetched mail, dates are displayed in location.
func ParseEmail(raw *domain.RawImapMail, mailbox string, location *time.Location) (*domain.Email, error) {
	entity, err := message.Read(bytes.NewReader(raw.RawMail))
	if err != nil && !isRecoverable(err) {
		return nil, fmt.Errorf("could not parse mail %d: %w", raw.Uid, err)
	}

	email := &domain.Email{
		ID:      strconv.FormatUint(uint64(raw.Uid), 10),
		From:    headerOrDefault(entity.Header.Get("From"), UnknownSender),
		To:      headerOrDefault(entity.Header.Get("To"), ""),
		Subject: headerOrDefault(entity.Header.Get("Subject"), NoSubject),
		Date:    UnknownDate,
		IsRead:  hasFlag(raw.Flags, imap.SeenFlag),
		Mailbox: mailbox,
	}

	if location == nil {
		location = time.Local
	}
	header := gomail.Header{Header: entity.Header}
	date, err := header.Date()
	if err == nil && !date.IsZero() {
		email.Date = date.In(location).Format(DateDisplayFormat)
		email.DateISO = date.Format(time.RFC3339)
	}

	body := ParseBody(entity)
	email.BodyPlain = body.Plain
	email.BodyHTML = body.HTML
	email.Attachments = body.Attachments
	email.Preview = Preview(body.Plain, body.HTML)

	return email, nil
}

func headerOrDefault(raw, fallback string) string {
	decoded := strings.TrimSpace(DecodeHeader(raw))
	if len(decoded) == 0 {
		return fallback
	}
	return decoded
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}

func ShortSubject(subject string) string {
	runes := []rune(subject)
	if len(runes) > 30 {
		subject = string(runes[:30]) + "..."
	}
	return subject
}
