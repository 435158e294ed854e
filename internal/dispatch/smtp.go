package dispatch

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/payroll-tools/payslip-mailer/internal/common"
	"github.com/payroll-tools/payslip-mailer/internal/entity"
)

// SMTPSender delivers messages over SMTP with implicit TLS. Each send dials a
// fresh connection; the dispatcher's pacing keeps the connection rate low.
type SMTPSender struct {
	host string
	port int
}

func NewSMTPSender(cfg common.SMTPConfig) *SMTPSender {
	return &SMTPSender{host: cfg.Host, port: cfg.Port}
}

func (s *SMTPSender) dialer(creds entity.Credentials) *gomail.Dialer {
	d := gomail.NewDialer(s.host, s.port, creds.Address, creds.Secret)
	d.SSL = true
	return d
}

// Authenticate dials and logs in, then closes the connection.
func (s *SMTPSender) Authenticate(ctx context.Context, creds entity.Credentials) error {
	sc, err := s.dialer(creds).Dial()
	if err != nil {
		return fmt.Errorf("smtp login: %w", err)
	}
	return sc.Close()
}

func (s *SMTPSender) Send(ctx context.Context, creds entity.Credentials, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if msg.AttachmentPath != "" {
		m.Attach(msg.AttachmentPath)
	}
	return s.dialer(creds).DialAndSend(m)
}
