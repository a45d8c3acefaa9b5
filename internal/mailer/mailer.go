// Package mailer delivers HTML notification mail over SMTP.
package mailer

import (
	"log/slog"

	gomail "gopkg.in/gomail.v2"

	"github.com/BOBWANDATI/backend/internal/config"
	"github.com/BOBWANDATI/backend/internal/domain"
)

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(msg domain.MailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	return s.dialer.DialAndSend(m)
}

// NopSender is used when SMTP_DISABLED=true; it logs instead of delivering.
type NopSender struct {
	Logger *slog.Logger
}

func (s *NopSender) Send(msg domain.MailMessage) error {
	s.Logger.Info("smtp disabled, mail not sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject))
	return nil
}
