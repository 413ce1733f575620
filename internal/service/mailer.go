package service

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers account emails. The account flows only depend on
// this narrow interface; the concrete transport (direct SMTP or a
// queue-backed dispatcher) is chosen at wiring time.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
	SendPasswordReset(ctx context.Context, to, name, link string) error
}

// SMTPMailer sends mail through a plain SMTP relay using the
// submission port. Credentials are optional for relays that accept
// unauthenticated local delivery.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (m SMTPMailer) configured() bool {
	return m.Host != "" && m.Port != "" && m.From != ""
}

func (m SMTPMailer) send(to, subject, htmlBody string) error {
	if !m.configured() {
		return errors.New("smtp transport not configured")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(b.String()))
}

// SendVerification delivers the email-verification link.
func (m SMTPMailer) SendVerification(_ context.Context, to, name, link string) error {
	body := fmt.Sprintf(`<html><body>
<h2>Welcome to MarketMind!</h2>
<p>Hi %s,</p>
<p>Thank you for signing up. Please verify your email address by clicking the link below.</p>
<p><a href="%s">Verify Email Address</a></p>
<p>This link expires in 24 hours. If you did not create an account, you can ignore this email.</p>
</body></html>`, name, link)
	return m.send(to, "Verify Your MarketMind Account", body)
}

// SendPasswordReset delivers the password-reset link.
func (m SMTPMailer) SendPasswordReset(_ context.Context, to, name, link string) error {
	body := fmt.Sprintf(`<html><body>
<h2>Password Reset Request</h2>
<p>Hi %s,</p>
<p>We received a request to reset your MarketMind password. Click the link below to choose a new one.</p>
<p><a href="%s">Reset Password</a></p>
<p>This link expires in 1 hour. If you did not request a reset, you can ignore this email.</p>
</body></html>`, name, link)
	return m.send(to, "Reset Your MarketMind Password", body)
}
