package mail

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestBuildMessageWithoutAttachment(t *testing.T) {
	msg := string(buildMessage("no-reply@medx.test", "doc@example.com", "Hello", "<p>Hi</p>", nil))

	for _, want := range []string{
		"From: no-reply@medx.test",
		"To: doc@example.com",
		"Subject: Hello",
		"Content-Type: text/html; charset=UTF-8",
		"<p>Hi</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "multipart/mixed") {
		t.Fatal("plain message must not be multipart")
	}
}

func TestBuildMessageWithAttachment(t *testing.T) {
	attachment := &Attachment{
		Filename: "result.pdf",
		MimeType: "application/pdf",
		Content:  []byte("%PDF-1.4 fake"),
	}
	msg := string(buildMessage("no-reply@medx.test", "doc@example.com", "Result", "<p>Attached</p>", attachment))

	for _, want := range []string{
		"multipart/mixed",
		`Content-Disposition: attachment; filename="result.pdf"`,
		"Content-Type: application/pdf",
		base64.StdEncoding.EncodeToString(attachment.Content),
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q", want)
		}
	}
}

func TestBuildMessageDefaultsMimeType(t *testing.T) {
	attachment := &Attachment{Filename: "blob", Content: []byte{1, 2, 3}}
	msg := string(buildMessage("a@b.c", "d@e.f", "s", "b", attachment))
	if !strings.Contains(msg, "application/octet-stream") {
		t.Fatal("missing default mime type")
	}
}
