package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers transactional email. Callers decide whether a
// delivery failure is fatal; for assessment and appointment notifications
// it never is.
type EmailSender interface {
	Send(to, subject, html string) error
}

// SMTPSender sends mail through the SMTP server configured via environment
// variables (SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS).
type SMTPSender struct {
	host string
	port int
	user string
	pass string
}

func NewSMTPSender() *SMTPSender {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		log.Printf("Invalid SMTP_PORT value, defaulting to 587: %v", err)
		port = 587
	}
	return &SMTPSender{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
	}
}

func (s *SMTPSender) Send(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.user)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}

// CompletionEmailBody renders the assessment-completion notification.
func CompletionEmailBody(patientName, assessmentNumber string) string {
	return `
	<!DOCTYPE html>
	<html>
	<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0;">
		<div style="background-color: #ffffff; margin: 20px auto; padding: 20px; border-radius: 8px; max-width: 600px;">
			<h1 style="color: #333333;">Assessment Review Complete</h1>
			<p style="color: #666666;">Dear ` + patientName + `,</p>
			<p style="color: #666666;">The review of assessment <strong>` + assessmentNumber + `</strong> has been completed.
			Your care team will contact you if a follow-up consultation is recommended.</p>
		</div>
	</body>
	</html>
	`
}
