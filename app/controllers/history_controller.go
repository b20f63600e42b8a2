package controllers

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/condutamedx/medx-backend/app/models"
	"github.com/condutamedx/medx-backend/app/repository"
	"github.com/condutamedx/medx-backend/internal/pkg/mail"
	"github.com/condutamedx/medx-backend/internal/pkg/pdfexport"
	"github.com/condutamedx/medx-backend/internal/pkg/usercontext"
)

// HandleListMyHistory lists the caller's assistant history.
func HandleListMyHistory(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	page, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetHistoryRepository()
	history, total, err := repo.ListByUser(userCtx.UserID, page, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list history")
	}

	return c.JSON(fiber.Map{
		"history":      history,
		"total":        total,
		"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
		"current_page": page,
	})
}

type historyActionRequest struct {
	Action         string `json:"action"`
	RecipientEmail string `json:"recipient_email"`
}

// HandleHistoryAction exports or emails a completed history record's output.
// Supported actions: download_txt, download_pdf, email_txt, email_pdf.
func HandleHistoryAction(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid history id")
	}

	var req historyActionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetHistoryRepository()
	history, err := repo.GetByIDForUser(uint(id), userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "History record not found or not yours")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load history record")
	}

	if history.Status != models.HistoryStatusCompleted {
		return jsonError(c, fiber.StatusBadRequest, "invalid_state", "Only completed records can be exported")
	}

	baseName := historyFileName(history)

	switch req.Action {
	case "download_txt":
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", baseName+".txt"))
		c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
		return c.Send([]byte(history.OutputText))

	case "download_pdf":
		pdfBytes, err := pdfexport.RenderText(historyTitle(history), history.OutputText)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to render PDF")
		}
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", baseName+".pdf"))
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send(pdfBytes)

	case "email_txt":
		if req.RecipientEmail == "" {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "recipient_email is required")
		}
		attachment := mail.Attachment{
			Filename: baseName + ".txt",
			MimeType: "text/plain",
			Content:  []byte(history.OutputText),
		}
		if err := mail.SendHistoryResultEmail(req.RecipientEmail, assistantName(history), transcriptionFile(history), attachment); err != nil {
			return jsonError(c, fiber.StatusBadGateway, "mail_error", "Failed to send email")
		}
		return c.JSON(fiber.Map{"message": fmt.Sprintf("Email with the TXT result sent to %s", req.RecipientEmail)})

	case "email_pdf":
		if req.RecipientEmail == "" {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "recipient_email is required")
		}
		pdfBytes, err := pdfexport.RenderText(historyTitle(history), history.OutputText)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to render PDF")
		}
		attachment := mail.Attachment{
			Filename: baseName + ".pdf",
			MimeType: "application/pdf",
			Content:  pdfBytes,
		}
		if err := mail.SendHistoryResultEmail(req.RecipientEmail, assistantName(history), transcriptionFile(history), attachment); err != nil {
			return jsonError(c, fiber.StatusBadGateway, "mail_error", "Failed to send email")
		}
		return c.JSON(fiber.Map{"message": fmt.Sprintf("Email with the PDF result sent to %s", req.RecipientEmail)})

	default:
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unsupported action")
	}
}

func assistantName(h *models.AssistantHistory) string {
	if h.Assistant != nil && h.Assistant.Name != "" {
		return h.Assistant.Name
	}
	return "assistant"
}

func transcriptionFile(h *models.AssistantHistory) string {
	if h.Transcription != nil && h.Transcription.OriginalFileName != "" {
		return h.Transcription.OriginalFileName
	}
	return "transcription"
}

// historyFileName builds "<transcription-without-ext>-<assistant_name>".
func historyFileName(h *models.AssistantHistory) string {
	file := transcriptionFile(h)
	if idx := strings.LastIndex(file, "."); idx > 0 {
		file = file[:idx]
	}
	assistant := strings.ReplaceAll(assistantName(h), " ", "_")
	return file + "-" + assistant
}

func historyTitle(h *models.AssistantHistory) string {
	return fmt.Sprintf("%s - %s", assistantName(h), transcriptionFile(h))
}
