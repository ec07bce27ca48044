package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/stephens-stores/backend/config"
	"github.com/stephens-stores/backend/pkg/logger"
)

const welcomeSubject = "Thank You for Signing Up"

// Mailer sends outbound notifications. Delivery is best-effort; callers
// must never treat a send failure as fatal.
type Mailer interface {
	SendWelcomeEmail(toEmail, name string) error
}

type smtpMailer struct {
	host      string
	port      string
	fromEmail string
	password  string
}

func NewSMTPMailer(cfg *config.SMTPConfig) Mailer {
	return &smtpMailer{
		host:      cfg.Host,
		port:      cfg.Port,
		fromEmail: cfg.FromEmail,
		password:  cfg.Password,
	}
}

// SendWelcomeEmail sends the signup thank-you mail. Without SMTP
// credentials configured it only logs, which keeps development and CI
// from needing a mail account.
func (m *smtpMailer) SendWelcomeEmail(toEmail, name string) error {
	if m.fromEmail == "" || m.password == "" {
		logger.Info("[DEV MODE] Welcome email suppressed", map[string]interface{}{
			"to": toEmail,
		})
		return nil
	}

	body := fmt.Sprintf("Hello %s,\r\n\r\nThank you for signing up to Stephen's Stores.\r\n", name)
	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.fromEmail, toEmail, welcomeSubject, body,
	))

	auth := smtp.PlainAuth("", m.fromEmail, m.password, m.host)
	err := smtp.SendMail(m.host+":"+m.port, auth, m.fromEmail, []string{toEmail}, message)
	if err != nil {
		logger.Error("Failed to send welcome email", err, map[string]interface{}{
			"to": toEmail,
		})
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	logger.Info("Welcome email sent", map[string]interface{}{
		"to": toEmail,
	})
	return nil
}

// WelcomeSubject exposes the subject line for audit logging.
func WelcomeSubject() string {
	return welcomeSubject
}
