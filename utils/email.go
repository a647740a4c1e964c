package utils

import (
	"log"

	"property-reviews-server/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendMail delivers a transactional email. Delivery problems are logged and
// swallowed so callers never fail a request over a mail outage.
func SendMail(toEmail, subject, plainBody, htmlBody string) {
	if config.AppConfig.SendgridAPIKey == "" {
		log.Printf("email: sendgrid key unset, skipping mail to %s (%s)", toEmail, subject)
		return
	}

	from := mail.NewEmail("Property Reviews", config.AppConfig.FromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainBody, htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("email: send to %s failed: %v", toEmail, err)
		return
	}
	if response.StatusCode >= 400 {
		log.Printf("email: send to %s returned %d: %s", toEmail, response.StatusCode, response.Body)
	}
}

func SendVerificationCode(toEmail, code string) {
	SendMail(
		toEmail,
		"Verify your email address",
		"Your verification code is "+code+". It expires in 30 minutes.",
		"<p>Your verification code is <strong>"+code+"</strong>. It expires in 30 minutes.</p>",
	)
}

func SendPasswordResetNotice(toEmail, newPassword string) {
	SendMail(
		toEmail,
		"Your password has been reset",
		"A staff member reset your password. Your temporary password is "+newPassword+". Please change it after signing in.",
		"<p>A staff member reset your password. Your temporary password is <strong>"+newPassword+"</strong>. Please change it after signing in.</p>",
	)
}
