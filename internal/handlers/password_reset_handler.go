package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gstbooks/internal/models"
	"gstbooks/internal/ratelimit"
	"gstbooks/internal/services"
)

// genericResetMessage is returned on every RequestReset path that must not
// reveal whether the account exists.
const genericResetMessage = "If an account exists for this email, you will receive a reset link shortly"

// invalidTokenMessage covers wrong, unknown, consumed and expired tokens alike.
const invalidTokenMessage = "Invalid or expired reset token"

type PasswordResetHandler struct {
	resetService services.PasswordResetService
}

func NewPasswordResetHandler(resetService services.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resetService: resetService}
}

// @Summary      Request a password reset
// @Description  Sends a reset link to the email if a matching account exists
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.ForgotPasswordRequest  true  "Account email"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      429      {object}  map[string]interface{}
// @Failure      500      {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *PasswordResetHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	err := h.resetService.RequestReset(c.Request.Context(), req.Email)
	if err != nil {
		var limited services.ErrRateLimited
		if errors.As(err, &limited) {
			secs := ratelimit.RetryAfterSeconds(limited.RetryAfter)
			c.Header("Retry-After", strconv.Itoa(secs))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":               "too many reset requests, please try again later",
				"retry_after_seconds": secs,
			})
			return
		}
		// internal detail stays in the logs; the caller gets a generic failure
		log.Printf("[password-reset][handler] request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process reset request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": genericResetMessage,
	})
}

// @Summary      Verify a reset token
// @Description  Checks that a reset token is known and not expired
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.VerifyResetTokenRequest  true  "Reset token"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]interface{}
// @Router       /auth/verify-reset-token [post]
func (h *PasswordResetHandler) VerifyResetToken(c *gin.Context) {
	var req models.VerifyResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "token is required"})
		return
	}

	email, err := h.resetService.VerifyToken(c.Request.Context(), req.Token)
	if err != nil {
		// invalid and expired collapse into one message on purpose
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": invalidTokenMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "email": email})
}

// @Summary      Complete a password reset
// @Description  Consumes a reset token and sets the new password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.ResetPasswordRequest  true  "Token and new password"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Token) == "" || strings.TrimSpace(req.NewPassword) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and new_password are required"})
		return
	}

	err := h.resetService.CompleteReset(c.Request.Context(), req.Token, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, services.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrExpiredToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidTokenMessage})
	default:
		log.Printf("[password-reset][handler] complete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
	}
}
