package services

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Notifier delivers the reset link to the account owner. Implementations must
// return within a bounded time; failures are reported synchronously to the caller.
type Notifier interface {
	SendPasswordResetEmail(email, link string) error
}

const emailSendTimeout = 10 * time.Second

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) Notifier {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendPasswordResetEmail(email, link string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password reset request")

	body := fmt.Sprintf(`
                <h3>Password reset requested</h3>
                <p>We received a request to reset the password for your GSTBooks account.</p>
                <p>Click the link below to choose a new password:</p>
                <p><a href="%s">%s</a></p>
                <p>The link is valid for 24 hours and can be used once.</p>
                <p>If you did not request this change, you can ignore this email.</p>
        `, link, link)

	m.SetBody("text/html", body)

	// gomail has no deadline of its own; bound the SMTP round-trip here so a
	// dead relay cannot hang the request.
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.dialer.DialAndSend(m)
	}()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to send password reset email: %w", err)
		}
		return nil
	case <-time.After(emailSendTimeout):
		return fmt.Errorf("failed to send password reset email: timed out after %s", emailSendTimeout)
	}
}
