// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CrawX/go-mailbridge/api"
	"github.com/CrawX/go-mailbridge/config"
	"github.com/CrawX/go-mailbridge/credentials"
	"github.com/CrawX/go-mailbridge/imapconnection"
	"github.com/CrawX/go-mailbridge/log"
	"github.com/CrawX/go-mailbridge/mailbox"
	"github.com/CrawX/go-mailbridge/mailservice"
	"github.com/CrawX/go-mailbridge/metrics"
	"github.com/CrawX/go-mailbridge/persistence"
	"github.com/CrawX/go-mailbridge/smtpconnection"
	"github.com/CrawX/go-mailbridge/vault"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mail API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, conf)
	},
}

func serve(ctx context.Context, conf *config.Config) error {
	logger := log.Logger(log.LOG_MAIN)

	p, err := persistence.NewPersistence(conf.Database, conf.DocumentsDir)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer p.Close()

	m := metrics.New()
	options, err := serviceOptions(conf, m)
	if err != nil {
		return err
	}

	service, err := mailservice.NewMailService(
		credentials.NewProvider(p, vault.FromEnv(conf.EncryptionKeyEnv)),
		imapconnection.NewDialer(imapOptions(conf)),
		smtpconnection.NewSender(smtpOptions(conf)),
		p,
		options...,
	)
	if err != nil {
		return fmt.Errorf("could not create mail service: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:              conf.Listen,
		Handler:           api.NewRouter(service, conf.UserHeader, m.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.WithField("listen", conf.Listen).Info("Serving mail API")
		errs <- server.ListenAndServe()
	}()

	select {
	case err = <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func imapOptions(conf *config.Config) imapconnection.Options {
	return imapconnection.Options{
		DialTimeout:     conf.Imap.DialTimeout.Duration,
		CommandTimeout:  conf.Imap.CommandTimeout.Duration,
		RequireStartTLS: conf.Imap.RequireStartTLS,
		Compress:        conf.Imap.Compress,
		ClientName:      conf.Imap.ClientName,
		ClientVersion:   Version,
	}
}

func smtpOptions(conf *config.Config) smtpconnection.Options {
	return smtpconnection.Options{
		DialTimeout: conf.Smtp.DialTimeout.Duration,
		HeloName:    conf.Smtp.HeloName,
	}
}

func mailboxTable(conf config.MailboxConfig) *mailbox.Table {
	table := mailbox.DefaultTable().WithSpellings(conf.Candidates)
	for provider, native := range conf.Provider {
		table.WithNative(mailbox.Provider(provider), native)
	}
	return table
}

func serviceOptions(conf *config.Config, m mailservice.Metrics) ([]mailservice.ConfigFunc, error) {
	location, err := conf.Location()
	if err != nil {
		return nil, err
	}

	options := []mailservice.ConfigFunc{
		mailservice.PageSize(conf.Service.DefaultPageSize),
		mailservice.FetchConcurrency(conf.Service.FetchConcurrency),
		mailservice.OperationTimeout(conf.Service.OperationTimeout.Duration),
		mailservice.Location(location),
		mailservice.MailboxTable(mailboxTable(conf.Mailboxes)),
		mailservice.WithMetrics(m),
	}
	if conf.Service.ArchiveTimeout.Duration > 0 {
		options = append(options, mailservice.ArchiveTimeout(conf.Service.ArchiveTimeout.Duration))
	}
	if !conf.Service.ArchiveSent {
		options = append(options, mailservice.NoArchive())
	}
	if conf.Service.SanitizeHTML {
		options = append(options, mailservice.SanitizeHTML())
	}

	return options, nil
}
