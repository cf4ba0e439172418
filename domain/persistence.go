// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"context"
	"errors"
)

//go:generate mockgen -destination=mocks/persistence.go -package=mocks . SettingsStore,DocumentStore
var (
	ErrSettingsNotFound = errors.New("mail settings not found")
	ErrDocumentNotFound = errors.New("document not found")
)

type MailSettings struct {
	UserID string

	ImapHost              string
	ImapPort              int
	ImapUser              string
	ImapPasswordEncrypted []byte
	ImapUseSSL            bool

	SmtpHost              string
	SmtpPort              int
	SmtpUser              string
	SmtpPasswordEncrypted []byte

	IntegrationEnabled bool
}

type Document struct {
	ID          int64
	UserID      string
	Name        string
	Path        string
	ContentType string
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type SettingsStore interface {
	GetSettings(ctx context.Context, userID string) (*MailSettings, error)
	SaveSettings(ctx context.Context, settings *MailSettings) error
}

type DocumentStore interface {
	LoadDocument(ctx context.Context, userID string, id int64) (*Attachment, error)
}
