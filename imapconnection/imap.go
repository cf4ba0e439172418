// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"
	"time"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/log"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap-compress"
	"github.com/emersion/go-imap-id"
	"github.com/emersion/go-imap-move"
	"github.com/emersion/go-imap-uidplus"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"
)

type imapClient interface {
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	UidSearch(criteria *imap.SearchCriteria) ([]uint32, error)
	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	UidStore(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error
	UidCopy(seqset *imap.SeqSet, dest string) error
	Expunge(ch chan uint32) error
	Append(mbox string, flags []string, date time.Time, msg imap.Literal) error
	List(ref, name string, ch chan *imap.MailboxInfo) error
	Logout() error
	Terminate() error
}

type Options struct {
	DialTimeout     time.Duration
	CommandTimeout  time.Duration
	RequireStartTLS bool
	Compress        bool
	ClientName      string
	ClientVersion   string
	// TLSConfig is cloned per connection, ServerName is filled in from the settings.
	TLSConfig *tls.Config
}

// Dialer opens sessions, it implements domain.ImapDialer.
type Dialer struct {
	options Options
	l       *logrus.Logger
}

func NewDialer(options Options) *Dialer {
	return &Dialer{
		options: options,
		l:       log.Logger(log.LOG_IMAP),
	}
}

func (d *Dialer) Dial(ctx context.Context, settings *domain.ImapSettings) (domain.ImapSession, error) {
	d.l.WithField("account", settings.String()).Debug("Opening imap session")
	return Open(ctx, settings, d.options)
}

type ImapConnection struct {
	connection  imapClient
	uidplus     *uidplus.Client
	mailDeleter deleter
	mailMover   mover

	server         string
	selectedFolder string

	stopForceClose func() bool
	closed         bool

	l *logrus.Logger
}

// Open connects and logs in. The connection is terminated as soon as ctx is done.
func Open(ctx context.Context, settings *domain.ImapSettings, options Options) (*ImapConnection, error) {
	l := log.Logger(log.LOG_IMAP)
	server := net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))
	baseLogger := l.WithFields(logrus.Fields{"server": server, "user": settings.User, "ssl": settings.UseSSL})

	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if options.TLSConfig != nil {
		tlsConfig = options.TLSConfig.Clone()
	}
	if len(tlsConfig.ServerName) == 0 {
		tlsConfig.ServerName = settings.Host
	}

	netDialer := &net.Dialer{Timeout: options.DialTimeout}
	var conn net.Conn
	var err error
	if settings.UseSSL {
		tlsDialer := &tls.Dialer{NetDialer: netDialer, Config: tlsConfig}
		conn, err = tlsDialer.DialContext(ctx, "tcp", server)
	} else {
		conn, err = netDialer.DialContext(ctx, "tcp", server)
	}
	if err != nil {
		return nil, domain.NewError(domain.ConnectionError, err, "could not connect to imap server %s: %v", server, err)
	}

	if options.DialTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(options.DialTimeout))
	}
	c, err := client.New(conn)
	if err != nil {
		conn.Close()
		return nil, domain.NewError(domain.ConnectionError, err, "no imap greeting from %s: %v", server, err)
	}
	_ = conn.SetDeadline(time.Time{})
	c.Timeout = options.CommandTimeout

	ic := &ImapConnection{
		connection: c,
		server:     server,
		l:          l,
	}
	ic.stopForceClose = context.AfterFunc(ctx, func() {
		baseLogger.Warn("Operation cancelled, terminating connection")
		c.Terminate()
	})

	err = ic.setup(c, settings, options, tlsConfig, baseLogger)
	if err != nil {
		ic.Close()
		return nil, err
	}

	return ic, nil
}

func (ic *ImapConnection) setup(c *client.Client, settings *domain.ImapSettings, options Options, tlsConfig *tls.Config, baseLogger *logrus.Entry) error {
	if !settings.UseSSL {
		startTLSSupported, err := c.SupportStartTLS()
		if err != nil {
			return domain.NewError(domain.ConnectionError, err, "could not read capabilities of %s: %v", ic.server, err)
		}

		if startTLSSupported {
			err = c.StartTLS(tlsConfig)
			if err != nil {
				return domain.NewError(domain.ConnectionError, err, "STARTTLS with %s failed: %v", ic.server, err)
			}
			baseLogger.Debug("Upgraded connection with STARTTLS")
		} else if options.RequireStartTLS {
			return domain.NewError(domain.ConnectionError, nil, "imap server %s offers neither SSL nor STARTTLS", ic.server)
		} else {
			baseLogger.Warn("Server does not support STARTTLS, continuing unencrypted")
		}
	}

	if idSupported, _ := c.Support("ID"); idSupported && len(options.ClientName) > 0 {
		_, err := id.NewClient(c).ID(id.ID{
			id.FieldName:    options.ClientName,
			id.FieldVersion: options.ClientVersion,
		})
		if err != nil {
			baseLogger.WithField("error", err).Debug("Server rejected ID command")
		}
	}

	err := c.Login(settings.User, settings.Password)
	if err != nil {
		if isConnectionFailure(err) {
			return domain.NewError(domain.ConnectionError, err, "connection to %s lost during login: %v", ic.server, err)
		}
		return domain.NewError(domain.AuthenticationError, err, "imap login for %s rejected: %v", settings.User, err)
	}
	baseLogger.Debug("Logged in to server")

	if options.Compress {
		compressClient := compress.NewClient(c)
		compressSupported, err := compressClient.SupportCompress(compress.Deflate)
		if err == nil && compressSupported {
			err = compressClient.Compress(compress.Deflate)
			if err != nil {
				return classify(err, "could not enable compression")
			}
			baseLogger.Debug("Enabled COMPRESS=DEFLATE")
		}
	}

	ic.uidplus = uidplus.NewClient(c)
	uidPlusSupported, err := ic.uidplus.SupportUidPlus()
	if err != nil {
		return classify(err, "could not check for UIDPLUS support")
	}

	moveClient := move.NewClient(c)
	moveSupported, err := moveClient.SupportMove()
	if err != nil {
		return classify(err, "could not check for MOVE support")
	}

	if uidPlusSupported {
		baseLogger.Debug("UIDPLUS supported on server, using UID expunge")
		ic.mailDeleter = &uidPlusDeleter{imapConn: ic}
	} else {
		baseLogger.Debug("UIDPLUS not supported on server, falling back to flag&expunge")
		ic.mailDeleter = &compatibilityDeleter{imapConn: ic, l: baseLogger}
	}

	if moveSupported {
		baseLogger.Debug("MOVE supported on server")
		ic.mailMover = &moveMover{moveClient: moveClient}
	} else {
		baseLogger.Debug("MOVE not supported on server, falling back to copy&delete")
		ic.mailMover = &compatibilityMover{imapConn: ic}
	}

	return nil
}

func (ic *ImapConnection) Select(folder string) error {
	_, err := ic.connection.Select(folder, false)
	if err != nil {
		return classify(err, "could not select folder %s", folder)
	}

	ic.selectedFolder = folder
	ic.l.WithFields(logrus.Fields{"server": ic.server, "folder": folder}).Debug("Selected folder")
	return nil
}

func (ic *ImapConnection) SelectedFolder() string {
	return ic.selectedFolder
}

func (ic *ImapConnection) SearchAll() ([]uint32, error) {
	// Get all UIDs in folder (empty search criteria)
	criteria := imap.NewSearchCriteria()
	ids, err := ic.connection.UidSearch(criteria)
	if err != nil {
		return nil, classify(err, "could not search folder %s", ic.selectedFolder)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// FetchMails fetches full mails without setting \Seen.
func (ic *ImapConnection) FetchMails(uids []uint32) ([]*domain.RawImapMail, error) {
	if len(uids) == 0 {
		return []*domain.RawImapMail{}, nil
	}

	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)

	fullBodySection := &imap.BodySectionName{
		Peek: true,
	}
	fetchItems := []imap.FetchItem{imap.FetchUid, imap.FetchFlags, fullBodySection.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.UidFetch(seqset, fetchItems, messages)
	}()

	mails := []*domain.RawImapMail{}
	var readErr error
	for msg := range messages {
		if readErr != nil {
			continue
		}

		r := msg.GetBody(fullBodySection)
		if r == nil {
			ic.l.WithFields(logrus.Fields{"folder": ic.selectedFolder, "uid": msg.Uid}).Warn("Server returned no body, skipping")
			continue
		}
		rawBody, err := io.ReadAll(r)
		if err != nil {
			readErr = fmt.Errorf("could not read mail body: %w", err)
			continue
		}

		mails = append(
			mails,
			&domain.RawImapMail{
				Uid:     msg.Uid,
				Flags:   msg.Flags,
				RawMail: rawBody,
			},
		)
	}

	err := <-done
	if err != nil {
		return nil, classify(err, "could not fetch mails")
	}
	if readErr != nil {
		return nil, classify(readErr, "could not fetch mails")
	}

	return mails, nil
}

// SetFlags adds or removes flags silently, setting a flag twice is a no-op on the server.
func (ic *ImapConnection) SetFlags(uids []uint32, flags []string, add bool) error {
	if len(uids) == 0 {
		return nil
	}

	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)

	var op imap.FlagsOp = imap.RemoveFlags
	if add {
		op = imap.AddFlags
	}

	values := make([]interface{}, 0, len(flags))
	for _, f := range flags {
		values = append(values, f)
	}

	err := ic.connection.UidStore(seqset, imap.FormatFlagsOp(op, true), values, nil)
	if err != nil {
		return classify(err, "could not store flags")
	}

	return nil
}

func (ic *ImapConnection) Append(folder string, flags []string, rawMail []byte) error {
	err := ic.connection.Append(folder, flags, time.Now(), bytes.NewReader(rawMail))
	if err != nil {
		return classify(err, "could not append to %s", folder)
	}

	return nil
}

func (ic *ImapConnection) ListFolders() ([]*domain.FolderInfo, error) {
	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.List("", "*", mailboxes)
	}()

	folders := []*domain.FolderInfo{}
	for m := range mailboxes {
		folders = append(folders, &domain.FolderInfo{
			Name:       m.Name,
			Delimiter:  m.Delimiter,
			Attributes: m.Attributes,
		})
	}

	err := <-done
	if err != nil {
		return nil, classify(err, "could not list folders")
	}

	return folders, nil
}

func (ic *ImapConnection) Delete(uids []uint32) error {
	if len(uids) == 0 {
		return nil
	}

	err := ic.mailDeleter.delete(uids)
	if err != nil {
		return classify(err, "could not delete mails")
	}
	return nil
}

func (ic *ImapConnection) Move(uids []uint32, folder string) error {
	if len(uids) == 0 {
		return nil
	}

	err := ic.mailMover.move(uids, folder)
	if err != nil {
		return classify(err, "could not move mails to %s", folder)
	}
	return nil
}

// Close logs out and drops the connection, logout failures are ignored.
func (ic *ImapConnection) Close() error {
	if ic.closed {
		return nil
	}
	ic.closed = true

	if ic.stopForceClose != nil {
		ic.stopForceClose()
	}

	err := ic.connection.Logout()
	if err != nil {
		ic.l.WithFields(logrus.Fields{"server": ic.server, "error": err}).Debug("Logout failed, terminating connection")
		_ = ic.connection.Terminate()
	}

	return nil
}

func (ic *ImapConnection) flagDeleted(uids []uint32) (*imap.SeqSet, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)
	err := ic.connection.UidStore(seqset, imap.FormatFlagsOp(imap.AddFlags, true), []interface{}{imap.DeletedFlag}, nil)
	if err != nil {
		return nil, fmt.Errorf("could not set delete flag: %w", err)
	}

	return seqset, nil
}

func (ic *ImapConnection) UidSearch(criteria *imap.SearchCriteria) ([]uint32, error) {
	return ic.connection.UidSearch(criteria)
}

func (ic *ImapConnection) UidExpunge(seqSet *imap.SeqSet, ch chan uint32) error {
	return ic.uidplus.UidExpunge(seqSet, ch)
}

func (ic *ImapConnection) Expunge(ch chan uint32) error {
	return ic.connection.Expunge(ch)
}

func (ic *ImapConnection) UidCopy(seqset *imap.SeqSet, dest string) error {
	return ic.connection.UidCopy(seqset, dest)
}

func (ic *ImapConnection) delete(uids []uint32) error {
	return ic.mailDeleter.delete(uids)
}
