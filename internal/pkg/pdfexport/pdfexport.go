package pdfexport

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"
)

// RenderText renders plain text into a simple A4 PDF document and returns the
// file bytes, ready to be downloaded or attached to an email.
func RenderText(title string, text string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 8, title, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 6, paragraph, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
