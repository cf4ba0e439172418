// SPDX-License-Identifier: GPL-3.0-or-later
package mailservice

import (
	"context"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/mail"
	"github.com/CrawX/go-mailbridge/mailbox"
	"github.com/CrawX/go-mailbridge/pagination"

	"github.com/sirupsen/logrus"
)

// ListMessages returns one newest-first page of the logical mailbox, INBOX if none is given.
func (ms *MailService) ListMessages(ctx context.Context, userID string, mailboxName string, limit int, offset int) (*domain.MessagePage, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = ms.configuration.PageSize
	}
	logical := logicalOrInbox(mailboxName)

	var page *domain.MessagePage
	err := ms.run(ctx, OperationListMessages, userID, func(ctx context.Context, l *logrus.Entry) error {
		credentials, err := ms.credentials.Lookup(ctx, userID)
		if err != nil {
			return err
		}

		return ms.withSession(ctx, credentials, l, func(session domain.ImapSession) error {
			folder, err := mailbox.Resolve(session, ms.configuration.Table, logical, ms.provider(credentials))
			if err != nil {
				return err
			}

			uids, err := session.SearchAll()
			if err != nil {
				return err
			}

			pageUids, total := pagination.Page(uids, offset, limit)
			l.WithFields(logrus.Fields{"folder": folder, "total": total, "page": len(pageUids)}).Debug("Fetching page")

			emails, err := ms.fetchPage(session, folder, pageUids, l)
			if err != nil {
				return err
			}

			page = &domain.MessagePage{
				Emails:     emails,
				TotalCount: total,
				Mailbox:    folder,
				Offset:     offset,
				Limit:      limit,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

// fetchPage keeps the order of uids. Mails that vanished or cannot be decoded are skipped.
func (ms *MailService) fetchPage(session domain.ImapSession, folder string, uids []uint32, l *logrus.Entry) ([]*domain.Email, error) {
	emails := []*domain.Email{}
	if len(uids) == 0 {
		return emails, nil
	}

	fetched, err := session.FetchMails(uids)
	if err != nil {
		return nil, err
	}

	byUid := make(map[uint32]*domain.RawImapMail, len(fetched))
	for _, m := range fetched {
		byUid[m.Uid] = m
	}
	ordered := make([]*domain.RawImapMail, 0, len(uids))
	for _, uid := range uids {
		m, ok := byUid[uid]
		if !ok {
			l.WithFields(logrus.Fields{"folder": folder, "uid": uid}).Debug("Mail vanished before fetch")
			continue
		}
		ordered = append(ordered, m)
	}

	results := mail.DecodeAll(ordered, ms.configuration.FetchConcurrency, func(raw *domain.RawImapMail) (*domain.Email, error) {
		email, err := mail.ParseEmail(raw, folder, ms.configuration.Location)
		if err != nil {
			return nil, err
		}
		if ms.configuration.Sanitizer != nil && len(email.BodyHTML) > 0 {
			email.BodyHTML = ms.configuration.Sanitizer.Sanitize(email.BodyHTML)
		}
		return email, nil
	})

	for i, result := range results {
		if result.Error != nil {
			l.WithFields(logrus.Fields{"folder": folder, "uid": ordered[i].Uid, "error": result.Error}).Warn("Could not decode mail, skipping")
			continue
		}
		emails = append(emails, result.Email)
	}

	return emails, nil
}
