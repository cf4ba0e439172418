// SPDX-License-Identifier: GPL-3.0-or-later
package smtpconnection

//go:generate mockgen -destination=sender_mocks_test.go -package=smtpconnection -source sender.go
import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/log"

	"github.com/sirupsen/logrus"
)

const (
	PortImplicitTLS = 465
	PortSubmission  = 587
)

type smtpClient interface {
	Hello(localName string) error
	Extension(ext string) (bool, string)
	StartTLS(config *tls.Config) error
	Auth(a smtp.Auth) error
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

type Options struct {
	DialTimeout time.Duration
	HeloName    string
	// TLSConfig is cloned per connection, ServerName is filled in from the settings.
	TLSConfig *tls.Config
}

// Sender delivers one message per connection, it implements domain.MailSender.
type Sender struct {
	options Options

	dial      func(ctx context.Context, addr string) (net.Conn, error)
	dialTLS   func(ctx context.Context, addr string, config *tls.Config) (net.Conn, error)
	newClient func(conn net.Conn, host string) (smtpClient, error)

	l *logrus.Logger
}

func NewSender(options Options) *Sender {
	netDialer := &net.Dialer{Timeout: options.DialTimeout}

	return &Sender{
		options: options,
		dial: func(ctx context.Context, addr string) (net.Conn, error) {
			return netDialer.DialContext(ctx, "tcp", addr)
		},
		dialTLS: func(ctx context.Context, addr string, config *tls.Config) (net.Conn, error) {
			tlsDialer := &tls.Dialer{NetDialer: netDialer, Config: config}
			return tlsDialer.DialContext(ctx, "tcp", addr)
		},
		newClient: newNetClient,
		l:         log.Logger(log.LOG_SMTP),
	}
}

func newNetClient(conn net.Conn, host string) (smtpClient, error) {
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Sender) tlsConfig(host string) *tls.Config {
	config := &tls.Config{MinVersion: tls.VersionTLS12}
	if s.options.TLSConfig != nil {
		config = s.options.TLSConfig.Clone()
	}
	if len(config.ServerName) == 0 {
		config.ServerName = host
	}
	return config
}

// Send walks the security ladder for the port and delivers rawMail.
// 465 uses implicit TLS, 587 requires STARTTLS and other ports use STARTTLS when offered.
func (s *Sender) Send(ctx context.Context, settings *domain.SmtpSettings, envelope *domain.Envelope, rawMail []byte) error {
	addr := net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))
	l := s.l.WithFields(logrus.Fields{"server": addr, "user": settings.User})
	tlsConfig := s.tlsConfig(settings.Host)

	var conn net.Conn
	var err error
	if settings.Port == PortImplicitTLS {
		conn, err = s.dialTLS(ctx, addr, tlsConfig)
	} else {
		conn, err = s.dial(ctx, addr)
	}
	if err != nil {
		return domain.NewError(domain.ConnectionError, err, "could not connect to smtp server %s: %v", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		l.Warn("Send cancelled, closing connection")
		conn.Close()
	})
	defer stop()

	c, err := s.newClient(conn, settings.Host)
	if err != nil {
		return domain.NewError(domain.ConnectionError, err, "no smtp greeting from %s: %v", addr, err)
	}
	defer c.Close()

	err = c.Hello(s.options.HeloName)
	if err != nil {
		return domain.NewError(domain.ConnectionError, err, "EHLO to %s failed: %v", addr, err)
	}

	secure, err := s.secure(c, settings.Port, tlsConfig, l)
	if err != nil {
		return err
	}

	if len(settings.User) > 0 {
		err = c.Auth(chooseAuth(c, settings.User, settings.Password))
		if err != nil {
			if !secure {
				return domain.NewError(domain.ConnectionError, err, "port %d: no STARTTLS, plaintext login failed: %v", settings.Port, err)
			}
			if domain.IsNetworkError(err) {
				return domain.NewError(domain.ConnectionError, err, "connection to %s lost during login: %v", addr, err)
			}
			return domain.NewError(domain.AuthenticationError, err, "smtp login for %s rejected: %v", settings.User, err)
		}
		l.Debug("Authenticated")
	}

	err = deliver(c, envelope, rawMail)
	if err != nil {
		return err
	}

	// the message is accepted at this point
	err = c.Quit()
	if err != nil {
		l.WithField("error", err).Debug("QUIT failed")
	}
	l.WithField("recipients", len(envelope.To)).Info("Delivered mail")

	return nil
}

// secure reports whether the session ends up encrypted.
func (s *Sender) secure(c smtpClient, port int, tlsConfig *tls.Config, l *logrus.Entry) (bool, error) {
	if port == PortImplicitTLS {
		return true, nil
	}

	startTLSSupported, _ := c.Extension("STARTTLS")
	if !startTLSSupported {
		if port == PortSubmission {
			return false, domain.NewError(domain.ConnectionError, nil, "STARTTLS on port 587 is required but not offered by %s", tlsConfig.ServerName)
		}
		l.Warn("Server does not offer STARTTLS, trying plaintext login")
		return false, nil
	}

	err := c.StartTLS(tlsConfig)
	if err != nil {
		if port == PortSubmission {
			return false, domain.NewError(domain.ConnectionError, err, "STARTTLS on port 587 failed: %v", err)
		}
		return false, domain.NewError(domain.ConnectionError, err, "STARTTLS on port %d failed: %v", port, err)
	}
	l.Debug("Upgraded connection with STARTTLS")

	return true, nil
}

func deliver(c smtpClient, envelope *domain.Envelope, rawMail []byte) error {
	err := c.Mail(envelope.From)
	if err != nil {
		return classify(err, "MAIL FROM %s rejected", envelope.From)
	}

	for _, rcpt := range envelope.To {
		err = c.Rcpt(rcpt)
		if err != nil {
			return classify(err, "RCPT TO %s rejected", rcpt)
		}
	}

	w, err := c.Data()
	if err != nil {
		return classify(err, "DATA rejected")
	}

	_, err = w.Write(rawMail)
	if err != nil {
		w.Close()
		return classify(err, "could not write mail")
	}

	err = w.Close()
	if err != nil {
		return classify(err, "mail not accepted")
	}

	return nil
}

func classify(err error, format string, args ...interface{}) error {
	kind := domain.OperationError
	if domain.IsNetworkError(err) {
		kind = domain.ConnectionError
	}
	return domain.NewError(kind, err, format+": %v", append(args, err)...)
}
