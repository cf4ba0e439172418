// SPDX-License-Identifier: GPL-3.0-or-later
package mailservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/mail"
	"github.com/CrawX/go-mailbridge/mailbox"

	"github.com/emersion/go-imap"
	"github.com/sirupsen/logrus"
)

const SentFolder = "Sent"

// SendMessage delivers the mail over smtp and then archives a copy in the Sent folder.
// Archive problems and missing documents only add warnings to the result.
func (ms *MailService) SendMessage(ctx context.Context, userID string, message *domain.OutgoingMessage) (*domain.SendResult, error) {
	result := &domain.SendResult{Warnings: []string{}}

	err := ms.run(ctx, OperationSendMessage, userID, func(ctx context.Context, l *logrus.Entry) error {
		if message == nil || len(strings.TrimSpace(message.To)) == 0 {
			return domain.NewError(domain.OperationError, nil, "no recipients given")
		}

		credentials, err := ms.credentials.Lookup(ctx, userID)
		if err != nil {
			return err
		}

		attachments, warnings, err := ms.loadAttachments(ctx, userID, message.DocumentIDs, l)
		if err != nil {
			return err
		}
		result.Warnings = append(result.Warnings, warnings...)

		composed, err := mail.Compose(credentials.Smtp.User, message, attachments, ms.configuration.now())
		if err != nil {
			return domain.NewError(domain.OperationError, err, "could not compose mail: %v", err)
		}

		err = ms.sender.Send(ctx, &credentials.Smtp, composed.Envelope, composed.Raw)
		if err != nil {
			return err
		}
		l.WithFields(logrus.Fields{
			"messageid":   composed.MessageID,
			"subject":     mail.ShortSubject(message.Subject),
			"attachments": len(attachments),
		}).Info("Sent mail")

		if ms.configuration.ArchiveSent {
			result.Warnings = append(result.Warnings, ms.archiveBestEffort(ctx, credentials, composed.Raw, l)...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (ms *MailService) loadAttachments(ctx context.Context, userID string, ids []int64, l *logrus.Entry) ([]*domain.Attachment, []string, error) {
	attachments := []*domain.Attachment{}
	warnings := []string{}
	if len(ids) == 0 {
		return attachments, warnings, nil
	}
	if ms.documents == nil {
		return attachments, append(warnings, "documents are not available, sent without attachments"), nil
	}

	for _, id := range ids {
		attachment, err := ms.documents.LoadDocument(ctx, userID, id)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			l.WithField("document", id).Warn("Document not found, not attached")
			warnings = append(warnings, fmt.Sprintf("document %d not found, not attached", id))
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("could not load document %d: %w", id, err)
		}
		attachments = append(attachments, attachment)
	}

	return attachments, warnings, nil
}

// archiveBestEffort appends the sent mail to the Sent folder on a fresh session.
// It never fails, every problem is returned as a warning.
func (ms *MailService) archiveBestEffort(ctx context.Context, credentials *domain.Credentials, rawMail []byte, l *logrus.Entry) (warnings []string) {
	ctx, cancel := context.WithTimeout(ctx, ms.configuration.ArchiveTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			l.WithField("panic", r).Error("Recovered from panic while archiving sent mail")
			warnings = ms.archiveFailed(fmt.Errorf("panic: %v", r), l)
		}
	}()

	err := ms.withSession(ctx, credentials, l, func(session domain.ImapSession) error {
		folder, err := mailbox.Resolve(session, ms.configuration.Table, SentFolder, ms.provider(credentials))
		if err != nil {
			return err
		}

		err = session.Append(folder, []string{imap.SeenFlag}, rawMail)
		if err != nil {
			return err
		}

		l.WithField("folder", folder).Debug("Archived sent mail")
		return nil
	})
	if err != nil {
		return ms.archiveFailed(err, l)
	}

	return nil
}

func (ms *MailService) archiveFailed(err error, l *logrus.Entry) []string {
	ms.configuration.Metrics.ArchiveFailed()
	l.WithFields(logrus.Fields{"kind": domain.KindOf(err), "error": err}).Warn("Mail was sent but could not be archived")
	return []string{fmt.Sprintf("mail was sent but could not be saved to the Sent folder: %v", err)}
}
