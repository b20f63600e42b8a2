package mail

import (
	"fmt"

	"github.com/condutamedx/medx-backend/internal/pkg/env"
)

// SendPasswordResetEmail mails the reset link with the plain (unhashed) token.
func SendPasswordResetEmail(to string, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", env.GetEnv("FRONTEND_URL", "http://localhost:3000"), token)

	subject := "Password reset - CondutaMedX"
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; color: #333; line-height: 1.6;">
			<h2>Password reset</h2>
			<p>You requested to reset the password of your CondutaMedX account. Click the button below to choose a new one:</p>
			<a href="%[1]s" style="background-color: #0c66d4; color: white; padding: 12px 20px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;">Reset password</a>
			<p>If you did not request this change, ignore this email and your password stays the same.</p>
			<p style="font-size: 0.9em;">This link is valid for 1 hour.</p>
			<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
			<p style="font-size: 0.8em; color: #777;">If the button does not work, copy this URL into your browser:<br><a href="%[1]s">%[1]s</a></p>
		</div>`, resetURL)

	return SendMail(to, subject, body)
}

// SendHistoryResultEmail mails a generated assistant result as an attachment.
func SendHistoryResultEmail(to string, assistantName string, transcriptionFile string, attachment Attachment) error {
	subject := fmt.Sprintf("Your generated content: %s", assistantName)
	body := fmt.Sprintf(
		"<p>Hello!</p><p>Attached is the content generated by the assistant <strong>%s</strong> from the transcription <strong>%s</strong>.</p>",
		assistantName, transcriptionFile,
	)
	return SendMailWithAttachment(to, subject, body, attachment)
}
