// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Listen           string
	Database         string
	DocumentsDir     string
	EncryptionKeyEnv string
	UserHeader       string

	Imap      ImapConfig
	Smtp      SmtpConfig
	Service   ServiceConfig
	Mailboxes MailboxConfig

	Loglevel *string
}

type ImapConfig struct {
	DialTimeout     Duration
	CommandTimeout  Duration
	Compress        bool
	RequireStartTLS bool
	ClientName      string
}

type SmtpConfig struct {
	DialTimeout Duration
	HeloName    string
}

type ServiceConfig struct {
	OperationTimeout Duration
	ArchiveTimeout   Duration
	DefaultPageSize  int
	FetchConcurrency int
	ArchiveSent      bool
	SanitizeHTML     bool
	Timezone         string
}

// MailboxConfig overrides the built-in folder candidate table.
type MailboxConfig struct {
	// Candidates replaces the locale spellings tried for a logical folder, e.g. Sent = ["Sent Items"].
	Candidates map[string][]string
	// Provider maps a provider name to native names per logical folder.
	Provider map[string]map[string][]string
}

func defaultConfig() *Config {
	return &Config{
		Listen:           "127.0.0.1:8080",
		Database:         "mailbridge.db",
		DocumentsDir:     "documents",
		EncryptionKeyEnv: "EMAIL_ENCRYPTION_KEY",
		UserHeader:       "X-User-ID",
		Imap: ImapConfig{
			DialTimeout:    Duration{15 * time.Second},
			CommandTimeout: Duration{30 * time.Second},
			ClientName:     "go-mailbridge",
		},
		Smtp: SmtpConfig{
			DialTimeout: Duration{15 * time.Second},
			HeloName:    "localhost",
		},
		Service: ServiceConfig{
			OperationTimeout: Duration{60 * time.Second},
			ArchiveTimeout:   Duration{30 * time.Second},
			DefaultPageSize:  20,
			FetchConcurrency: 4,
			ArchiveSent:      true,
			SanitizeHTML:     true,
			Timezone:         "Local",
		},
	}
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return defaultConfig()
}

func ReadConfig(filename string) (*Config, error) {
	config := defaultConfig()

	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Service.Timezone)
	if err != nil {
		return nil, fmt.Errorf("could not load timezone %s: %w", c.Service.Timezone, err)
	}
	return loc, nil
}

func (c *Config) validate() error {
	if err := validateNonEmptyStringField(c.Listen, "Listen must not be empty, set to host:port of the http listener"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.Database, "Database name must not be empty, set to a filename for the sqlite database"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.EncryptionKeyEnv, "EncryptionKeyEnv must not be empty, set to the environment variable holding the credential key"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.UserHeader, "UserHeader must not be empty, set to the request header identifying the user"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.Smtp.HeloName, "Smtp.HeloName must not be empty"); err != nil {
		return err
	}

	if c.Service.DefaultPageSize <= 0 {
		return fmt.Errorf("Service.DefaultPageSize must be positive, got %d", c.Service.DefaultPageSize)
	}

	if c.Service.FetchConcurrency <= 0 {
		return fmt.Errorf("Service.FetchConcurrency must be positive, got %d", c.Service.FetchConcurrency)
	}

	if c.Service.OperationTimeout.Duration <= 0 {
		return fmt.Errorf("Service.OperationTimeout must be positive")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	for logical, candidates := range c.Mailboxes.Candidates {
		for _, candidate := range candidates {
			if err := validateNonEmptyStringField(candidate, fmt.Sprintf("Mailboxes.Candidates.%s must not contain empty names", logical)); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}
