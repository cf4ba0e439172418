// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"context"
	"fmt"
)

//go:generate mockgen -destination=mocks/credentials.go -package=mocks . CredentialSource
type ImapSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	UseSSL   bool
}

func (s ImapSettings) String() string {
	return fmt.Sprintf("imap://%s@%s:%d (ssl=%t)", s.User, s.Host, s.Port, s.UseSSL)
}

type SmtpSettings struct {
	Host     string
	Port     int
	User     string
	Password string
}

func (s SmtpSettings) String() string {
	return fmt.Sprintf("smtp://%s@%s:%d", s.User, s.Host, s.Port)
}

// Credentials are the decrypted mail settings of one user.
type Credentials struct {
	Imap ImapSettings
	Smtp SmtpSettings
}

// SettingsUpdate changes stored settings. Nil fields stay unchanged, an empty password clears it.
type SettingsUpdate struct {
	ImapHost     *string
	ImapPort     *int
	ImapUser     *string
	ImapPassword *string
	ImapUseSSL   *bool

	SmtpHost     *string
	SmtpPort     *int
	SmtpUser     *string
	SmtpPassword *string

	IntegrationEnabled *bool
}

type CredentialSource interface {
	Lookup(ctx context.Context, userID string) (*Credentials, error)
	Update(ctx context.Context, userID string, update *SettingsUpdate) error
}
