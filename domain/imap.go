// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "context"

//go:generate mockgen -destination=mocks/imap.go -package=mocks . ImapSession,ImapDialer
type RawImapMail struct {
	Uid     uint32
	Flags   []string
	RawMail []byte
}

type FolderInfo struct {
	Name       string
	Delimiter  string
	Attributes []string
}

// ImapSession is one authenticated IMAP connection. All ids are UIDs of the selected folder.
type ImapSession interface {
	Select(folder string) error
	SearchAll() ([]uint32, error)
	FetchMails(uids []uint32) ([]*RawImapMail, error)
	SetFlags(uids []uint32, flags []string, add bool) error
	Delete(uids []uint32) error
	Move(uids []uint32, folder string) error
	Append(folder string, flags []string, rawMail []byte) error
	ListFolders() ([]*FolderInfo, error)

	Close() error
}

type ImapDialer interface {
	Dial(ctx context.Context, settings *ImapSettings) (ImapSession, error)
}
