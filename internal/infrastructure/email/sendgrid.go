package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer implements usecase.Mailer over the SendGrid API.
type SendGridMailer struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewSendGridMailer creates a new SendGridMailer.
func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendPasswordReset emails a password recovery link.
func (s *SendGridMailer) SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)

	subject := "Password recovery"
	plainText := fmt.Sprintf(
		"Hello %s,\n\nA password reset was requested for your account. "+
			"Open the link below to choose a new password. The link expires in 30 minutes.\n\n%s\n\n"+
			"If you did not request this, ignore this message.",
		toName, resetLink,
	)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Password recovery</h2>
				<p>Hello %s,</p>
				<p>A password reset was requested for your account.
				The link expires in 30 minutes.</p>
				<p><a href="%s">Choose a new password</a></p>
				<p>If you did not request this, ignore this message.</p>
			</body>
		</html>
	`, toName, resetLink)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}
