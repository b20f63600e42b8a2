package controllers

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/condutamedx/medx-backend/app/repository"
)

// HandleAdminListTranscriptions lists transcriptions with search/pagination.
func HandleAdminListTranscriptions(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetTranscriptionRepository()
	transcriptions, total, err := repo.Search(c.Query("search"), page, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list transcriptions")
	}

	return c.JSON(fiber.Map{
		"transcriptions": transcriptions,
		"total":          total,
		"total_pages":    int(math.Ceil(float64(total) / float64(limit))),
		"current_page":   page,
	})
}

type transcriptionUpdateRequest struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

// HandleAdminUpdateTranscription updates title/text of a transcription.
func HandleAdminUpdateTranscription(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid transcription id")
	}

	var req transcriptionUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetTranscriptionRepository()
	transcription, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Transcription not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transcription")
	}

	if req.Title != nil {
		transcription.Title = *req.Title
	}
	if req.Text != nil {
		transcription.Text = *req.Text
	}
	if err := repo.Update(transcription); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update transcription")
	}
	return c.JSON(transcription)
}

// HandleAdminDeleteTranscription deletes a transcription.
func HandleAdminDeleteTranscription(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid transcription id")
	}

	repo := repository.GetGlobalFactory().GetTranscriptionRepository()
	if _, err := repo.GetByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Transcription not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transcription")
	}
	if err := repo.Delete(uint(id)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete transcription")
	}
	return c.JSON(fiber.Map{"message": "Transcription deleted successfully"})
}

// HandleAdminListHistory lists assistant history across all users, searchable
// by owner name/email.
func HandleAdminListHistory(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetHistoryRepository()
	history, total, err := repo.SearchByOwner(c.Query("search"), page, limit)
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
