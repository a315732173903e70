package mailbox

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/nhle/mail-agent/internal/model"
)

const smtpDialTimeout = 30 * time.Second

// Sender sends replies over SMTP, authenticating with the same account
// the agent reads from.
type Sender struct {
	cfg      model.MailboxConfig
	password string
}

// NewSender creates an SMTP sender for the configured mailbox.
func NewSender(cfg model.MailboxConfig, password string) *Sender {
	return &Sender{cfg: cfg, password: password}
}

// Send composes and sends a plain text email. When inReplyTo carries the
// original Message-ID, threading headers are added so the reply lands in
// the recipient's conversation view.
func (s *Sender) Send(to, subject, body, inReplyTo string) error {
	from := s.cfg.Username

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	if inReplyTo != "" {
		msg.WriteString(fmt.Sprintf("In-Reply-To: <%s>\r\n", inReplyTo))
		msg.WriteString(fmt.Sprintf("References: <%s>\r\n", inReplyTo))
	}
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	if s.cfg.TLS {
		return s.sendWithTLS(addr, from, to, msg.String())
	}
	return s.sendWithStartTLS(addr, from, to, msg.String())
}

// sendWithTLS sends an email over an implicit TLS connection.
func (s *Sender) sendWithTLS(addr, from, to, body string) error {
	tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("TLS dial to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.cfg.Username, s.password, s.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}

	return sendViaClient(client, from, to, body)
}

// sendWithStartTLS sends an email using STARTTLS.
func (s *Sender) sendWithStartTLS(addr, from, to, body string) error {
	conn, err := net.DialTimeout("tcp", addr, smtpDialTimeout)
	if err != nil {
		return fmt.Errorf("dial to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("SMTP STARTTLS: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.password, s.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}

	return sendViaClient(client, from, to, body)
}

// sendViaClient sends a message using an already-authenticated SMTP client.
func sendViaClient(client *smtp.Client, from, to, body string) error {
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT TO: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}

	if _, err := writer.Write([]byte(body)); err != nil {
		return fmt.Errorf("writing email body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing email body: %w", err)
	}

	return client.Quit()
}
