package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/accountsvc/apiserver/config"
)

// SMTPMailer sends activation email directly over SMTP.
type SMTPMailer struct {
	cfg     config.SMTPConfig
	baseURL string
}

func NewSMTPMailer(cfg config.SMTPConfig, activationBaseURL string) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		baseURL: activationBaseURL,
	}
}

// SendActivation delivers the activation message in a single blocking
// attempt. No retries: a failed send is terminal for the request.
func (m *SMTPMailer) SendActivation(_ context.Context, to, token string) error {
	link := ActivationLink(m.baseURL, token)
	msg := buildActivationEmail(m.cfg.From, to, link)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send activation mail: %w", err)
	}
	return nil
}
