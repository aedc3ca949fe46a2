package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer delivers the two transactional mails the account flow needs.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, username, verifyURL string) error
	SendPasswordReset(ctx context.Context, to, name, username, resetURL string) error
}

type Config struct {
	Host         string
	Port         string
	Username     string
	Password     string
	From         string
	FromName     string
	SupportEmail string
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	cfg Config
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendVerification(ctx context.Context, to, name, username, verifyURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nWelcome to MaskOFF, %s. Verify your email address:\r\n\r\n%s\r\n\r\nQuestions? Contact %s.\r\n",
		name, username, verifyURL, m.cfg.SupportEmail,
	)
	return m.send(to, "Verify your email address", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, username, resetURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nA password reset was requested for %s. Reset it here (the link expires in one hour):\r\n\r\n%s\r\n\r\nIf this wasn't you, ignore this mail or contact %s.\r\n",
		name, username, resetURL, m.cfg.SupportEmail,
	)
	return m.send(to, "Reset your Password", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n\r\n", subject)
	msg.WriteString(body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogMailer logs instead of sending; used when mail is disabled locally.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (l *LogMailer) SendVerification(_ context.Context, to, _, _, verifyURL string) error {
	slog.Info("Verification mail (not sent, mail disabled)", "to", to, "url", verifyURL)
	return nil
}

func (l *LogMailer) SendPasswordReset(_ context.Context, to, _, _, resetURL string) error {
	slog.Info("Password reset mail (not sent, mail disabled)", "to", to, "url", resetURL)
	return nil
}
