// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CrawX/go-mailbridge/domain"

	"github.com/emersion/go-imap/client"
)

// go-imap reports a dropped connection with an unexported error
const closedConnectionMessage = "connection closed"

func isConnectionFailure(err error) bool {
	if domain.IsNetworkError(err) {
		return true
	}
	if errors.Is(err, client.ErrAlreadyLoggedOut) || errors.Is(err, client.ErrNotLoggedIn) {
		return true
	}
	return strings.Contains(err.Error(), closedConnectionMessage)
}

// classify turns a command error into a connection or operation error, classified errors are kept.
func classify(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	var mailErr *domain.MailError
	if errors.As(err, &mailErr) {
		return err
	}

	message := fmt.Sprintf(format, args...)
	if isConnectionFailure(err) {
		return domain.NewError(domain.ConnectionError, err, "%s: connection lost: %v", message, err)
	}
	return domain.NewError(domain.OperationError, err, "%s: %v", message, err)
}
