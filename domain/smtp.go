// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "context"

//go:generate mockgen -destination=mocks/smtp.go -package=mocks . MailSender
type Envelope struct {
	From string
	To   []string
}

type MailSender interface {
	Send(ctx context.Context, settings *SmtpSettings, envelope *Envelope, rawMail []byte) error
}
