package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// jsonError writes the standard error envelope used across the API.
func jsonError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(c *fiber.Ctx) (page int, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
