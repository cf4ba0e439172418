// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

type ErrorKind string

const (
	ConfigError         = ErrorKind("config_error")
	AuthenticationError = ErrorKind("authentication_error")
	ConnectionError     = ErrorKind("connection_error")
	MailboxError        = ErrorKind("mailbox_error")
	OperationError      = ErrorKind("operation_error")
	UnknownError        = ErrorKind("unknown_error")
)

// MailError is the classified error returned by every mail operation.
type MailError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *MailError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *MailError) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, err error, format string, args ...interface{}) *MailError {
	return &MailError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func NewConfigError(format string, args ...interface{}) *MailError {
	return NewError(ConfigError, nil, format, args...)
}

// KindOf returns the kind of the outermost MailError in err's chain, UnknownError if there is none.
func KindOf(err error) ErrorKind {
	var mailErr *MailError
	if errors.As(err, &mailErr) {
		return mailErr.Kind
	}
	return UnknownError
}

// IsNetworkError reports whether err originates from the transport rather than from a protocol reply.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		return true
	}
	var authorityErr x509.UnknownAuthorityError
	if errors.As(err, &authorityErr) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &invalidErr)
}
