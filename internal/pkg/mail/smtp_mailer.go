package mail

import (
	"encoding/base64"
	"fmt"
	"log"
	"net/smtp"

	"github.com/condutamedx/medx-backend/internal/pkg/env"
)

// Attachment is a file attached to an outgoing mail.
type Attachment struct {
	Filename string
	MimeType string
	Content  []byte
}

// SendMail sends an HTML email via SMTP
func SendMail(to string, subject string, body string) error {
	return send(to, subject, body, nil)
}

// SendMailWithAttachment sends an HTML email with one attachment via SMTP
func SendMailWithAttachment(to string, subject string, body string, attachment Attachment) error {
	return send(to, subject, body, &attachment)
}

func send(to string, subject string, body string, attachment *Attachment) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)
	msg := buildMessage(sender, to, subject, body, attachment)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

func buildMessage(sender, to, subject, body string, attachment *Attachment) []byte {
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\n", sender, to, subject)

	if attachment == nil {
		return []byte(headers +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body)
	}

	const boundary = "medx-mail-boundary"
	mime := attachment.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}

	msg := headers
	msg += fmt.Sprintf("Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary)
	msg += fmt.Sprintf("--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, body)
	msg += fmt.Sprintf("--%s\r\nContent-Type: %s\r\nContent-Transfer-Encoding: base64\r\n", boundary, mime)
	msg += fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n\r\n", attachment.Filename)
	msg += base64.StdEncoding.EncodeToString(attachment.Content) + "\r\n"
	msg += fmt.Sprintf("--%s--\r\n", boundary)
	return []byte(msg)
}
