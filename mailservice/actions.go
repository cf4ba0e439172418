// SPDX-License-Identifier: GPL-3.0-or-later
package mailservice

import (
	"context"
	"strconv"
	"strings"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/mailbox"

	"github.com/emersion/go-imap"
	"github.com/sirupsen/logrus"
)

// BatchSize bounds the number of uids sent in one command.
const BatchSize = 500

// ApplyAction runs mark_read, mark_unread, delete or move on mails of the logical mailbox.
func (ms *MailService) ApplyAction(ctx context.Context, userID string, request *domain.ActionRequest) error {
	return ms.run(ctx, OperationApplyAction, userID, func(ctx context.Context, l *logrus.Entry) error {
		if request == nil || !request.Action.Valid() {
			action := ""
			if request != nil {
				action = string(request.Action)
			}
			return domain.NewError(domain.OperationError, nil, "unknown action %q", action)
		}

		uids, err := parseUids(request.EmailIDs)
		if err != nil {
			return err
		}
		if request.Action == domain.ActionMove && len(strings.TrimSpace(request.Target)) == 0 {
			return domain.NewError(domain.OperationError, nil, "move needs a target mailbox")
		}

		credentials, err := ms.credentials.Lookup(ctx, userID)
		if err != nil {
			return err
		}

		return ms.withSession(ctx, credentials, l, func(session domain.ImapSession) error {
			provider := ms.provider(credentials)

			// the target is resolved first so the source stays selected
			target := ""
			if request.Action == domain.ActionMove {
				target, err = mailbox.Resolve(session, ms.configuration.Table, request.Target, provider)
				if err != nil {
					return err
				}
			}

			folder, err := mailbox.Resolve(session, ms.configuration.Table, logicalOrInbox(request.Mailbox), provider)
			if err != nil {
				return err
			}

			for _, batch := range partitionUids(uids, BatchSize) {
				switch request.Action {
				case domain.ActionMarkRead:
					err = session.SetFlags(batch, []string{imap.SeenFlag}, true)
				case domain.ActionMarkUnread:
					err = session.SetFlags(batch, []string{imap.SeenFlag}, false)
				case domain.ActionDelete:
					err = session.Delete(batch)
				case domain.ActionMove:
					err = session.Move(batch, target)
				}
				if err != nil {
					return err
				}
			}

			l.WithFields(logrus.Fields{"action": request.Action, "folder": folder, "mails": len(uids), "target": target}).Info("Applied action")
			return nil
		})
	})
}

func parseUids(ids []string) ([]uint32, error) {
	if len(ids) == 0 {
		return nil, domain.NewError(domain.OperationError, nil, "no email ids given")
	}

	seen := make(map[uint32]bool, len(ids))
	uids := make([]uint32, 0, len(ids))
	for _, id := range ids {
		uid, err := strconv.ParseUint(strings.TrimSpace(id), 10, 32)
		if err != nil || uid == 0 {
			return nil, domain.NewError(domain.OperationError, err, "invalid email id %q", id)
		}
		if seen[uint32(uid)] {
			continue
		}
		seen[uint32(uid)] = true
		uids = append(uids, uint32(uid))
	}

	return uids, nil
}

func partitionUids(uids []uint32, partitionSize int) [][]uint32 {
	batches := make([][]uint32, 0, (len(uids)+partitionSize-1)/partitionSize)

	for partitionSize < len(uids) {
		uids, batches = uids[partitionSize:], append(batches, uids[0:partitionSize:partitionSize])
	}
	batches = append(batches, uids)

	return batches
}
