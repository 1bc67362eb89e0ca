package mail

import (
	"github.com/celuvia/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends a single HTML message. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer delivers mail through an SMTP relay
type SMTPMailer struct {
	config config.MailConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{config: cfg, logger: logger}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.config.Host, m.config.Port, m.config.Username, m.config.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return err
	}

	m.logger.Debug("Sent email", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// NoopMailer drops all mail. Used when mail delivery is disabled.
type NoopMailer struct {
	logger *zap.Logger
}

func NewNoopMailer(logger *zap.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

func (m *NoopMailer) Send(to, subject, _ string) error {
	m.logger.Debug("Mail delivery disabled, dropping message",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

// NewMailer returns an SMTP mailer when delivery is enabled and a noop
// mailer otherwise.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if !cfg.Enabled {
		return NewNoopMailer(logger)
	}
	return NewSMTPMailer(cfg, logger)
}

var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = (*NoopMailer)(nil)
)
