// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Persistence stores mail settings and the documents that can be attached to outgoing mails.
// It implements domain.SettingsStore and domain.DocumentStore.
type Persistence struct {
	db           *sqlx.DB
	documentsDir string
	l            *logrus.Logger
}

func NewPersistence(datasource string, documentsDir string) (*Persistence, error) {
	db, err := sqlx.Connect("sqlite3", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := log.Logger(log.LOG_PERSISTENCE)
	l.WithField("file", datasource).Info("Connected")

	migrationSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations,
		Root:       "migrations",
	}

	_, err = db.Exec(`PRAGMA journal_mode=WAL`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not set journal mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA synchronous=normal`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not set synchronous mode: %w", err)
	}

	appliedMigrations, err := migrate.Exec(db.DB, "sqlite3", migrationSource, migrate.Up)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate to newest version: %w", err)
	}

	l.WithField("migrations", appliedMigrations).Debug("Executed migrations")

	return &Persistence{
		db:           db,
		documentsDir: documentsDir,
		l:            l,
	}, nil
}

func (p *Persistence) Close() error {
	err := p.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	p.l.Info("Disconnected")
	return nil
}

type dbSettings struct {
	UserID             string `db:"user_id"`
	ImapHost           string `db:"imap_host"`
	ImapPort           int    `db:"imap_port"`
	ImapUser           string `db:"imap_user"`
	ImapPassword       []byte `db:"imap_password"`
	ImapUseSSL         bool   `db:"imap_use_ssl"`
	SmtpHost           string `db:"smtp_host"`
	SmtpPort           int    `db:"smtp_port"`
	SmtpUser           string `db:"smtp_user"`
	SmtpPassword       []byte `db:"smtp_password"`
	IntegrationEnabled bool   `db:"integration_enabled"`
}

func (p *Persistence) GetSettings(ctx context.Context, userID string) (*domain.MailSettings, error) {
	s := dbSettings{}
	err := p.db.GetContext(
		ctx,
		&s,
		`SELECT user_id, imap_host, imap_port, imap_user, imap_password, imap_use_ssl,
			smtp_host, smtp_port, smtp_user, smtp_password, integration_enabled
		FROM mail_settings WHERE user_id = ?`,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	return &domain.MailSettings{
		UserID:                s.UserID,
		ImapHost:              s.ImapHost,
		ImapPort:              s.ImapPort,
		ImapUser:              s.ImapUser,
		ImapPasswordEncrypted: s.ImapPassword,
		ImapUseSSL:            s.ImapUseSSL,
		SmtpHost:              s.SmtpHost,
		SmtpPort:              s.SmtpPort,
		SmtpUser:              s.SmtpUser,
		SmtpPasswordEncrypted: s.SmtpPassword,
		IntegrationEnabled:    s.IntegrationEnabled,
	}, nil
}

func (p *Persistence) SaveSettings(ctx context.Context, settings *domain.MailSettings) error {
	_, err := p.db.NamedExecContext(
		ctx,
		`INSERT OR REPLACE INTO mail_settings (
			user_id, imap_host, imap_port, imap_user, imap_password, imap_use_ssl,
			smtp_host, smtp_port, smtp_user, smtp_password, integration_enabled, updated_at
		) VALUES (
			:user_id, :imap_host, :imap_port, :imap_user, :imap_password, :imap_use_ssl,
			:smtp_host, :smtp_port, :smtp_user, :smtp_password, :integration_enabled, CURRENT_TIMESTAMP
		)`,
		dbSettings{
			UserID:             settings.UserID,
			ImapHost:           settings.ImapHost,
			ImapPort:           settings.ImapPort,
			ImapUser:           settings.ImapUser,
			ImapPassword:       settings.ImapPasswordEncrypted,
			ImapUseSSL:         settings.ImapUseSSL,
			SmtpHost:           settings.SmtpHost,
			SmtpPort:           settings.SmtpPort,
			SmtpUser:           settings.SmtpUser,
			SmtpPassword:       settings.SmtpPasswordEncrypted,
			IntegrationEnabled: settings.IntegrationEnabled,
		},
	)
	if err != nil {
		return fmt.Errorf("could not save settings: %w", err)
	}

	p.l.WithFields(logrus.Fields{"user": settings.UserID, "enabled": settings.IntegrationEnabled}).Info("Persisted mail settings")
	return nil
}

type dbDocument struct {
	ID          int64  `db:"id"`
	UserID      string `db:"user_id"`
	Name        string `db:"name"`
	Path        string `db:"path"`
	ContentType string `db:"content_type"`
}

// AddDocument registers a file below the documents directory, path is stored as given.
func (p *Persistence) AddDocument(ctx context.Context, document *domain.Document) (int64, error) {
	contentType := document.ContentType
	if len(contentType) == 0 {
		contentType = "application/octet-stream"
	}

	result, err := p.db.ExecContext(
		ctx,
		"INSERT INTO documents (user_id, name, path, content_type) VALUES (?, ?, ?, ?)",
		document.UserID, document.Name, document.Path, contentType,
	)
	if err != nil {
		return 0, fmt.Errorf("could not save document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not get document id: %w", err)
	}

	p.l.WithFields(logrus.Fields{"user": document.UserID, "id": id, "name": document.Name}).Info("Persisted document")
	return id, nil
}

func (p *Persistence) GetDocuments(ctx context.Context, userID string, ids []int64) ([]*domain.Document, error) {
	if len(ids) == 0 {
		return []*domain.Document{}, nil
	}

	qry, args, err := sqlx.Named(
		"SELECT id, user_id, name, path, content_type FROM documents WHERE user_id = :user AND id IN (:ids)",
		map[string]interface{}{
			"user": userID,
			"ids":  ids,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("could not create query: %w", err)
	}

	qry, args, err = sqlx.In(qry, args...)
	if err != nil {
		return nil, fmt.Errorf("could not replace IN in query: %w", err)
	}

	dbDocuments := []dbDocument{}
	err = p.db.SelectContext(ctx, &dbDocuments, p.db.Rebind(qry), args...)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	documents := []*domain.Document{}
	for _, d := range dbDocuments {
		documents = append(documents, &domain.Document{
			ID:          d.ID,
			UserID:      d.UserID,
			Name:        d.Name,
			Path:        d.Path,
			ContentType: d.ContentType,
		})
	}

	return documents, nil
}

// LoadDocument reads the document file. Documents of other users are reported as not found.
func (p *Persistence) LoadDocument(ctx context.Context, userID string, id int64) (*domain.Attachment, error) {
	documents, err := p.GetDocuments(ctx, userID, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, domain.ErrDocumentNotFound
	}
	document := documents[0]

	path, err := p.documentPath(document.Path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		p.l.WithFields(logrus.Fields{"id": id, "path": path}).Warn("Document file is missing")
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not read document %d: %w", id, err)
	}

	return &domain.Attachment{
		Filename:    document.Name,
		ContentType: document.ContentType,
		Content:     content,
	}, nil
}

func (p *Persistence) documentPath(relative string) (string, error) {
	if filepath.IsAbs(relative) {
		return relative, nil
	}

	base, err := filepath.Abs(p.documentsDir)
	if err != nil {
		return "", fmt.Errorf("could not resolve documents dir: %w", err)
	}
	path := filepath.Join(base, relative)
	if path != base && !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", fmt.Errorf("document path %s escapes the documents dir", relative)
	}

	return path, nil
}

func (p *Persistence) DeleteDocument(ctx context.Context, userID string, id int64) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not delete document: %w", err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not get num of affected rows: %w", err))
	}

	if affected != 1 {
		return txEnd(tx, domain.ErrDocumentNotFound)
	}

	return txEnd(tx, nil)
}

func txEnd(tx *sqlx.Tx, err error) error {
	if err == nil {
		err = tx.Commit()
		if err != nil {
			return fmt.Errorf("could not commit tx: %w", err)
		}
	} else {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			errStr := err.Error()
			return fmt.Errorf("%s, could not rollback tx: %w", errStr, rollbackErr)
		} else {
			return err
		}
	}

	return nil
}
