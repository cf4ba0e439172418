// SPDX-License-Identifier: GPL-3.0-or-later
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/log"

	"github.com/sirupsen/logrus"
)

type Cipher interface {
	Encrypt(plaintext string) ([]byte, error)
	Decrypt(ciphertext []byte) (string, error)
}

// Provider turns stored settings into usable credentials, it implements domain.CredentialSource.
type Provider struct {
	store  domain.SettingsStore
	cipher Cipher
	l      *logrus.Logger
}

func NewProvider(store domain.SettingsStore, cipher Cipher) *Provider {
	return &Provider{
		store:  store,
		cipher: cipher,
		l:      log.Logger(log.LOG_VAULT),
	}
}

// Lookup fails with a config error when the integration is disabled or any field is missing.
func (p *Provider) Lookup(ctx context.Context, userID string) (*domain.Credentials, error) {
	settings, err := p.store.GetSettings(ctx, userID)
	if errors.Is(err, domain.ErrSettingsNotFound) {
		return nil, domain.NewError(domain.ConfigError, err, "no mail settings configured for user %s", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("could not load mail settings: %w", err)
	}

	if !settings.IntegrationEnabled {
		p.l.WithField("user", userID).Info("Mail integration disabled")
		return nil, domain.NewConfigError("mail integration is disabled for user %s", userID)
	}

	imapPassword, err := p.decrypt(settings.ImapPasswordEncrypted, "imap_password")
	if err != nil {
		return nil, err
	}
	smtpPassword, err := p.decrypt(settings.SmtpPasswordEncrypted, "smtp_password")
	if err != nil {
		return nil, err
	}

	credentials := &domain.Credentials{
		Imap: domain.ImapSettings{
			Host:     strings.TrimSpace(settings.ImapHost),
			Port:     settings.ImapPort,
			User:     strings.TrimSpace(settings.ImapUser),
			Password: imapPassword,
			UseSSL:   settings.ImapUseSSL,
		},
		Smtp: domain.SmtpSettings{
			Host:     strings.TrimSpace(settings.SmtpHost),
			Port:     settings.SmtpPort,
			User:     strings.TrimSpace(settings.SmtpUser),
			Password: smtpPassword,
		},
	}

	missing := missingFields(credentials)
	if len(missing) > 0 {
		p.l.WithFields(logrus.Fields{"user": userID, "missing": missing}).Warn("Mail settings incomplete")
		return nil, domain.NewConfigError("mail settings of user %s are incomplete, missing: %s", userID, strings.Join(missing, ", "))
	}

	return credentials, nil
}

func (p *Provider) decrypt(encrypted []byte, field string) (string, error) {
	if len(encrypted) == 0 {
		return "", nil
	}

	plaintext, err := p.cipher.Decrypt(encrypted)
	if err != nil {
		if domain.KindOf(err) == domain.ConfigError {
			return "", err
		}
		p.l.WithFields(logrus.Fields{"field": field, "error": err}).Error("Could not decrypt stored password")
		return "", domain.NewError(domain.ConfigError, err, "stored %s could not be decrypted, set it again", field)
	}

	return plaintext, nil
}

func missingFields(c *domain.Credentials) []string {
	fields := []struct {
		name    string
		missing bool
	}{
		{"imap_host", len(c.Imap.Host) == 0},
		{"imap_port", c.Imap.Port <= 0},
		{"imap_user", len(c.Imap.User) == 0},
		{"imap_password", len(c.Imap.Password) == 0},
		{"smtp_host", len(c.Smtp.Host) == 0},
		{"smtp_port", c.Smtp.Port <= 0},
		{"smtp_user", len(c.Smtp.User) == 0},
		{"smtp_password", len(c.Smtp.Password) == 0},
	}

	missing := []string{}
	for _, f := range fields {
		if f.missing {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Update applies a partial settings change, passwords are encrypted before they are stored.
func (p *Provider) Update(ctx context.Context, userID string, update *domain.SettingsUpdate) error {
	settings, err := p.store.GetSettings(ctx, userID)
	if errors.Is(err, domain.ErrSettingsNotFound) {
		settings = &domain.MailSettings{
			UserID:     userID,
			ImapPort:   993,
			ImapUseSSL: true,
			SmtpPort:   587,
		}
	} else if err != nil {
		return fmt.Errorf("could not load mail settings: %w", err)
	}

	if err := validatePort(update.ImapPort, "imap_port"); err != nil {
		return err
	}
	if err := validatePort(update.SmtpPort, "smtp_port"); err != nil {
		return err
	}

	setString(&settings.ImapHost, update.ImapHost)
	setInt(&settings.ImapPort, update.ImapPort)
	setString(&settings.ImapUser, update.ImapUser)
	setBool(&settings.ImapUseSSL, update.ImapUseSSL)
	setString(&settings.SmtpHost, update.SmtpHost)
	setInt(&settings.SmtpPort, update.SmtpPort)
	setString(&settings.SmtpUser, update.SmtpUser)
	setBool(&settings.IntegrationEnabled, update.IntegrationEnabled)

	if update.ImapPassword != nil {
		settings.ImapPasswordEncrypted, err = p.encrypt(*update.ImapPassword)
		if err != nil {
			return err
		}
	}
	if update.SmtpPassword != nil {
		settings.SmtpPasswordEncrypted, err = p.encrypt(*update.SmtpPassword)
		if err != nil {
			return err
		}
	}

	err = p.store.SaveSettings(ctx, settings)
	if err != nil {
		return fmt.Errorf("could not save mail settings: %w", err)
	}

	return nil
}

func (p *Provider) encrypt(password string) ([]byte, error) {
	if len(password) == 0 {
		return nil, nil
	}

	encrypted, err := p.cipher.Encrypt(password)
	if err != nil {
		if domain.KindOf(err) == domain.ConfigError {
			return nil, err
		}
		return nil, fmt.Errorf("could not encrypt password: %w", err)
	}
	return encrypted, nil
}

func validatePort(port *int, field string) error {
	if port != nil && (*port <= 0 || *port > 65535) {
		return domain.NewConfigError("%s must be between 1 and 65535, got %d", field, *port)
	}
	return nil
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func setInt(dst *int, value *int) {
	if value != nil {
		*dst = *value
	}
}

func setBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}
