package services

import (
	"fmt"
	"net/smtp"

	"github.com/yeremiapane/coffee-shop-app/config"
	"github.com/yeremiapane/coffee-shop-app/utils"
)

// Mailer is the outbound mail transport. Delivery is best-effort:
// callers log failures and move on.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.from, to, subject, body))

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{to}, msg)
}

// LogMailer stands in when no SMTP host is configured (development,
// tests): it only writes the message to the log.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	utils.InfoLogger.Printf("mail (not sent) to=%s subject=%q", to, subject)
	return nil
}

// NewMailer picks the SMTP transport when configured, the log fallback
// otherwise.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}
