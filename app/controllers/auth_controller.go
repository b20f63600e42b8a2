package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/condutamedx/medx-backend/app/models"
	"github.com/condutamedx/medx-backend/app/repository"
	"github.com/condutamedx/medx-backend/internal/pkg/mail"
	"github.com/condutamedx/medx-backend/internal/pkg/security"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func userResponse(u *models.User) fiber.Map {
	return fiber.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

// HandleRegister creates a new account and returns a signed token.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByEmail(req.Email); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "A user with this email already exists")
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create user")
	}

	token, err := security.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  userResponse(user),
		"token": token,
	})
}

// HandleLogin verifies credentials and returns a signed token.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil || !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid credentials")
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Account is disabled")
	}

	now := time.Now()
	_ = repo.Updates(user, map[string]interface{}{"last_login_at": &now})

	token, err := security.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue token")
	}

	return c.JSON(fiber.Map{
		"user":  userResponse(user),
		"token": token,
	})
}

// HandleForgotPassword issues a reset token and mails it. Responds 200 even
// for unknown emails so account existence is not leaked.
func HandleForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	response := fiber.Map{"message": "If the email exists, a reset link has been sent"}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		log.Printf("[Auth] password reset requested for unknown email %s", req.Email)
		return c.JSON(response)
	}

	token, err := user.GenerateResetPasswordToken()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create reset token")
	}
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store reset token")
	}

	// A mail failure is logged only; surfacing it would leak account existence.
	if err := mail.SendPasswordResetEmail(user.Email, token); err != nil {
		log.Printf("[Auth] failed to send reset email to %s: %v", user.Email, err)
	}
	return c.JSON(response)
}

// HandleResetPassword consumes a reset token and sets the new password.
func HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if len(req.NewPassword) < 6 {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "Password must be at least 6 characters long")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByResetToken(models.HashResetToken(req.Token), time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusBadRequest, "invalid_token", "Reset token is invalid or expired")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to validate token")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to set password")
	}
	user.ClearResetPasswordToken()
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update password")
	}

	log.Printf("[Auth] password reset completed for %s", user.Email)
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
