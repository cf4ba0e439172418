// SPDX-License-Identifier: GPL-3.0-or-later
package mailservice

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/log"
	"github.com/CrawX/go-mailbridge/mailbox"
	"github.com/CrawX/go-mailbridge/metrics"

	"github.com/sirupsen/logrus"
)

const (
	OperationListMessages   = "list_messages"
	OperationSendMessage    = "send_message"
	OperationApplyAction    = "apply_action"
	OperationListMailboxes  = "list_mailboxes"
	OperationUpdateSettings = "update_settings"

	unexpectedErrorMessage = "an unexpected error occurred"
)

// MailService runs every operation on its own short-lived connections.
type MailService struct {
	credentials domain.CredentialSource
	dialer      domain.ImapDialer
	sender      domain.MailSender
	documents   domain.DocumentStore

	configuration *configuration

	l *logrus.Logger
}

func NewMailService(credentials domain.CredentialSource, dialer domain.ImapDialer, sender domain.MailSender, documents domain.DocumentStore, configFunc ...ConfigFunc) (*MailService, error) {
	config := defaultConfiguration()
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}

	return &MailService{
		credentials:   credentials,
		dialer:        dialer,
		sender:        sender,
		documents:     documents,
		configuration: config,
		l:             log.Logger(log.LOG_SERVICE),
	}, nil
}

// run bounds f by the operation timeout and turns panics and unclassified errors into unknown errors.
func (ms *MailService) run(ctx context.Context, operation string, userID string, f func(ctx context.Context, l *logrus.Entry) error) (err error) {
	start := time.Now()
	l := ms.l.WithFields(logrus.Fields{"operation": operation, "user": userID})

	ctx, cancel := context.WithTimeout(ctx, ms.configuration.OperationTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			l.WithFields(logrus.Fields{"panic": r, "stack": string(debug.Stack())}).Error("Recovered from panic")
			err = domain.NewError(domain.UnknownError, fmt.Errorf("panic: %v", r), unexpectedErrorMessage)
		}
		err = boundaryError(err, l)

		kind := metrics.ResultOK
		if err != nil {
			kind = string(domain.KindOf(err))
		}
		ms.configuration.Metrics.ObserveOperation(operation, kind, time.Since(start))
		l.WithFields(logrus.Fields{"kind": kind, "duration": time.Since(start)}).Debug("Operation finished")
	}()

	if len(strings.TrimSpace(userID)) == 0 {
		return domain.NewConfigError("no user given")
	}

	return f(ctx, l)
}

func boundaryError(err error, l *logrus.Entry) error {
	if err == nil {
		return nil
	}

	var mailErr *domain.MailError
	if errors.As(err, &mailErr) && mailErr.Kind != domain.UnknownError {
		l.WithFields(logrus.Fields{"kind": mailErr.Kind, "error": err}).Warn("Operation failed")
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		l.WithField("error", err).Warn("Operation timed out")
		return domain.NewError(domain.ConnectionError, err, "mail server did not answer in time")
	}

	l.WithField("error", fmt.Sprintf("%+v", err)).Error("Unexpected error")
	return domain.NewError(domain.UnknownError, err, unexpectedErrorMessage)
}

func (ms *MailService) withSession(ctx context.Context, credentials *domain.Credentials, l *logrus.Entry, f func(session domain.ImapSession) error) error {
	session, err := ms.dialer.Dial(ctx, &credentials.Imap)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := session.Close()
		if closeErr != nil {
			l.WithField("error", closeErr).Debug("Could not close imap session")
		}
	}()

	return f(session)
}

func (ms *MailService) provider(credentials *domain.Credentials) mailbox.Provider {
	return mailbox.DetectProvider(credentials.Imap.User, credentials.Imap.Host)
}

func logicalOrInbox(name string) string {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return mailbox.Inbox
	}
	return name
}

func (ms *MailService) ListMailboxes(ctx context.Context, userID string) ([]domain.Mailbox, error) {
	var mailboxes []domain.Mailbox
	err := ms.run(ctx, OperationListMailboxes, userID, func(ctx context.Context, l *logrus.Entry) error {
		credentials, err := ms.credentials.Lookup(ctx, userID)
		if err != nil {
			return err
		}

		return ms.withSession(ctx, credentials, l, func(session domain.ImapSession) error {
			folders, err := session.ListFolders()
			if err != nil {
				return err
			}

			mailboxes = mailbox.FromFolders(folders)
			l.WithField("mailboxes", len(mailboxes)).Debug("Listed mailboxes")
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return mailboxes, nil
}

func (ms *MailService) UpdateSettings(ctx context.Context, userID string, update *domain.SettingsUpdate) error {
	return ms.run(ctx, OperationUpdateSettings, userID, func(ctx context.Context, l *logrus.Entry) error {
		if update == nil {
			return domain.NewConfigError("no settings given")
		}
		return ms.credentials.Update(ctx, userID, update)
	})
}
