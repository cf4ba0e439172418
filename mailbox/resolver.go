// SPDX-License-Identifier: GPL-3.0-or-later
package mailbox

import (
	"fmt"
	"strings"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/log"

	"github.com/sirupsen/logrus"
)

type Selector interface {
	Select(folder string) error
}

// Resolve selects the first candidate of the logical folder the server accepts and returns its name.
// The folder stays selected on success.
func Resolve(selector Selector, table *Table, logical string, provider Provider) (string, error) {
	candidates := table.Candidates(logical, provider)
	l := log.Logger(log.LOG_IMAP).WithFields(logrus.Fields{"mailbox": logical, "provider": provider})

	attempted := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		attempted = append(attempted, fmt.Sprintf("%q", candidate))

		err := selector.Select(candidate)
		if err == nil {
			l.WithField("candidate", candidate).Debug("Resolved mailbox")
			return candidate, nil
		}
		l.WithFields(logrus.Fields{"candidate": candidate, "error": err}).Debug("Mailbox candidate rejected")

		if domain.KindOf(err) == domain.ConnectionError {
			return "", err
		}
		if domain.IsNetworkError(err) {
			return "", domain.NewError(domain.ConnectionError, err, "connection lost while selecting mailbox %q: %v", candidate, err)
		}
	}

	return "", domain.NewError(
		domain.MailboxError,
		nil,
		"mailbox %s not found on server, tried %s",
		logical,
		strings.Join(attempted, ", "),
	)
}
