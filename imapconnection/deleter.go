// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

//go:generate mockgen -destination=deleter_mocks_test.go -package=imapconnection -source deleter.go
import (
	"fmt"

	"github.com/emersion/go-imap"
	"github.com/sirupsen/logrus"
)

type deletedFlagger interface {
	flagDeleted(uids []uint32) (*imap.SeqSet, error)
}

type deletedFlaggerAndUidExpunger interface {
	deletedFlagger
	UidExpunge(seqSet *imap.SeqSet, ch chan uint32) error
}

// uidPlusDeleter only expunges the given uids.
type uidPlusDeleter struct {
	imapConn deletedFlaggerAndUidExpunger
}

func (u *uidPlusDeleter) delete(uids []uint32) error {
	seqset, err := u.imapConn.flagDeleted(uids)
	if err != nil {
		return fmt.Errorf("could not flag items as deleted: %w", err)
	}

	out := make(chan uint32)
	done := make(chan error, 1)
	go func() {
		done <- u.imapConn.UidExpunge(seqset, out)
	}()

	for range out {
	}

	err = <-done
	if err != nil {
		return fmt.Errorf("could not expunge mails: %w", err)
	}

	return nil
}

type deleteFlaggerAndExpunger interface {
	deletedFlagger
	Expunge(ch chan uint32) error
	UidSearch(criteria *imap.SearchCriteria) ([]uint32, error)
}

// compatibilityDeleter expunges everything flagged \Deleted in the selected folder,
// including mails other clients flagged before.
type compatibilityDeleter struct {
	imapConn deleteFlaggerAndExpunger
	l        *logrus.Entry
}

func (c *compatibilityDeleter) delete(uids []uint32) error {
	others, err := c.otherDeleted(uids)
	if err != nil {
		return fmt.Errorf("could not search for deleted mails: %w", err)
	}
	if len(others) > 0 {
		c.l.WithFields(logrus.Fields{
			"requested": uids,
			"others":    others,
		}).Warn("Folder has other mails flagged as deleted, EXPUNGE removes them too")
	}

	_, err = c.imapConn.flagDeleted(uids)
	if err != nil {
		return fmt.Errorf("could not set deleted flag: %w", err)
	}

	out := make(chan uint32)
	done := make(chan error, 1)
	go func() {
		done <- c.imapConn.Expunge(out)
	}()

	for range out {
	}

	err = <-done
	if err != nil {
		return fmt.Errorf("could not expunge mails: %w", err)
	}

	return nil
}

// otherDeleted returns the uids already flagged \Deleted that were not requested.
func (c *compatibilityDeleter) otherDeleted(uids []uint32) ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithFlags = []string{imap.DeletedFlag}
	flagged, err := c.imapConn.UidSearch(criteria)
	if err != nil {
		return nil, err
	}

	requested := make(map[uint32]bool, len(uids))
	for _, uid := range uids {
		requested[uid] = true
	}

	others := []uint32{}
	for _, uid := range flagged {
		if !requested[uid] {
			others = append(others, uid)
		}
	}

	return others, nil
}
